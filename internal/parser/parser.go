// Package parser builds shape-core AST nodes from Burp captures and curl
// commands, and converts such nodes back into requests.
//
// A request maps to an ObjectNode with the following structure:
//
//	{ "type": "request", "method": "POST", "host": "example.com",
//	  "path": "/api", "version": "HTTP/1.1", "scheme": "https",
//	  "headers": [{"key": "Host", "value": "example.com"}, ...],
//	  "body": "..." }
//
// "body" is omitted when the request has none.
package parser

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-burp/internal/fastparser"
)

var zeroPos = ast.Position{}

// ErrInvalidNode is wrapped by every NodeToRequest failure.
var ErrInvalidNode = errors.New("invalid request node")

// Format selects the input syntax for a Parser.
type Format int

const (
	// FormatCapture is a raw Burp capture.
	FormatCapture Format = iota
	// FormatCurl is a curl command line.
	FormatCurl
)

// Parser produces AST nodes from capture or curl input.
type Parser struct {
	data     []byte
	format   Format
	warnings []string
}

// NewParser creates a new AST parser for a raw capture.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// NewCurlParser creates a new AST parser for a curl command.
func NewCurlParser(cmd string) *Parser {
	return &Parser{data: []byte(cmd), format: FormatCurl}
}

// Parse parses the input and returns an AST ObjectNode.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	var (
		result *fastparser.ParseResult
		err    error
	)
	switch p.format {
	case FormatCurl:
		result, err = fastparser.ParseCurl(string(p.data))
	default:
		result, err = fastparser.UnmarshalRequest(p.data)
	}
	if err != nil {
		return nil, err
	}
	p.warnings = result.Warnings
	return RequestToNode(result.Request), nil
}

// Warnings returns the non-fatal issues found by the last Parse call.
func (p *Parser) Warnings() []string {
	return p.warnings
}

// RequestToNode converts a request into its AST form.
func RequestToNode(req *fastparser.Request) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"type":    ast.NewLiteralNode("request", zeroPos),
		"method":  ast.NewLiteralNode(req.Method, zeroPos),
		"host":    ast.NewLiteralNode(req.Host, zeroPos),
		"path":    ast.NewLiteralNode(req.Path, zeroPos),
		"version": ast.NewLiteralNode(req.Version, zeroPos),
		"scheme":  ast.NewLiteralNode(req.Scheme, zeroPos),
		"headers": headersToNode(req.Headers),
	}
	if len(req.Body) > 0 {
		props["body"] = ast.NewLiteralNode(string(req.Body), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

func headersToNode(headers []fastparser.Header) ast.SchemaNode {
	elements := make([]ast.SchemaNode, len(headers))
	for i, h := range headers {
		elements[i] = ast.NewObjectNode(map[string]ast.SchemaNode{
			"key":   ast.NewLiteralNode(h.Key, zeroPos),
			"value": ast.NewLiteralNode(h.Value, zeroPos),
		}, zeroPos)
	}
	return ast.NewArrayDataNode(elements, zeroPos)
}

// NodeToRequest converts an AST ObjectNode back to a request.
// method, host and path are required; version defaults to HTTP/1.1 and
// scheme to https.
func NodeToRequest(node ast.SchemaNode) (*fastparser.Request, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("%w: expected ObjectNode, got %T", ErrInvalidNode, node)
	}

	props := obj.Properties()
	if t, ok := stringProp(props, "type"); ok && t != "request" {
		return nil, fmt.Errorf("%w: type %q", ErrInvalidNode, t)
	}

	req := &fastparser.Request{
		Version: fastparser.DefaultVersion,
		Scheme:  "https",
	}
	for _, field := range []struct {
		name string
		dst  *string
	}{
		{"method", &req.Method},
		{"host", &req.Host},
		{"path", &req.Path},
	} {
		v, ok := stringProp(props, field.name)
		if !ok || v == "" {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidNode, field.name)
		}
		*field.dst = v
	}

	if v, ok := stringProp(props, "version"); ok {
		req.Version = v
	}
	if v, ok := stringProp(props, "scheme"); ok {
		switch v {
		case "http", "https":
			req.Scheme = v
		default:
			return nil, fmt.Errorf("%w: scheme %q", ErrInvalidNode, v)
		}
	}
	if v, ok := props["headers"]; ok {
		hdrs, err := nodeToHeaders(v)
		if err != nil {
			return nil, err
		}
		req.Headers = hdrs
	}
	if s, ok := stringProp(props, "body"); ok && s != "" {
		req.Body = []byte(s)
	}

	return req, nil
}

func stringProp(props map[string]ast.SchemaNode, name string) (string, bool) {
	v, ok := props[name]
	if !ok {
		return "", false
	}
	lit, ok := v.(*ast.LiteralNode)
	if !ok {
		return "", false
	}
	s, ok := lit.Value().(string)
	return s, ok
}

func nodeToHeaders(node ast.SchemaNode) ([]fastparser.Header, error) {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("%w: expected ArrayDataNode for headers, got %T", ErrInvalidNode, node)
	}

	elements := arr.Elements()
	headers := make([]fastparser.Header, 0, len(elements))
	for i, elem := range elements {
		obj, ok := elem.(*ast.ObjectNode)
		if !ok {
			return nil, fmt.Errorf("%w: header %d is %T", ErrInvalidNode, i, elem)
		}
		props := obj.Properties()
		key, ok := stringProp(props, "key")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: header %d has no key", ErrInvalidNode, i)
		}
		value, _ := stringProp(props, "value")
		headers = append(headers, fastparser.Header{Key: key, Value: value})
	}

	return headers, nil
}
