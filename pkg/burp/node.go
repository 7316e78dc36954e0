package burp

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-burp/internal/parser"
)

// ParseNode parses raw capture text into a shape-core AST.
//
// The result is an ObjectNode of the form:
//
//	{ "type": "request", "method": "POST", "host": "example.com",
//	  "path": "/api", "version": "HTTP/1.1", "scheme": "https",
//	  "headers": [{"key": "Host", "value": "example.com"}, ...],
//	  "body": "..." }
//
// "body" is present only when the request has one.
func ParseNode(data []byte) (ast.SchemaNode, error) {
	return parser.NewParser(data).Parse()
}

// ParseCurlNode converts a curl command into the same AST form as ParseNode.
func ParseCurlNode(cmd string) (ast.SchemaNode, error) {
	return parser.NewCurlParser(cmd).Parse()
}

// RequestToNode converts a Request to an AST ObjectNode.
func RequestToNode(req *Request) ast.SchemaNode {
	return parser.RequestToNode(toInternal(req))
}

// NodeToRequest converts an AST ObjectNode back to a Request.
func NodeToRequest(node ast.SchemaNode) (*Request, error) {
	internal, err := parser.NodeToRequest(node)
	if err != nil {
		return nil, fmt.Errorf("burp: %w", err)
	}
	return fromInternal(internal), nil
}

// Render converts an AST node from ParseNode back to raw capture text.
func Render(node ast.SchemaNode) ([]byte, error) {
	req, err := NodeToRequest(node)
	if err != nil {
		return nil, err
	}
	return Marshal(req), nil
}

// NodeToInterface converts an AST node to native Go values: maps, slices
// and literal values.
func NodeToInterface(node ast.SchemaNode) interface{} {
	switch n := node.(type) {
	case *ast.LiteralNode:
		return n.Value()
	case *ast.ArrayDataNode:
		elements := n.Elements()
		arr := make([]interface{}, len(elements))
		for i, elem := range elements {
			arr[i] = NodeToInterface(elem)
		}
		return arr
	case *ast.ObjectNode:
		props := n.Properties()
		m := make(map[string]interface{}, len(props))
		for k, v := range props {
			m[k] = NodeToInterface(v)
		}
		return m
	default:
		return nil
	}
}
