// Package fastparser implements the Burp capture parser and the curl command
// converter. It scans bytes directly into Request values without building an AST.
//
// Bytes are never decoded: Go strings are byte strings, so every value from
// 0x00 to 0xFF in a header value or body is carried through unchanged.
package fastparser

import (
	"bytes"
	"fmt"
	"strings"
)

// Request represents a parsed HTTP request.
type Request struct {
	Method  string
	Path    string
	Version string // canonical version string, "HTTP/1.1" when unrecognized
	Scheme  string // "https" or "http"
	Host    string
	Headers []Header
	Body    []byte
}

// Header is a key-value pair.
type Header struct {
	Key   string
	Value string
}

// ParseResult holds a parsed request and the non-fatal issues found on the way.
type ParseResult struct {
	Request  *Request
	Warnings []string
}

// Parser scans a Burp capture: request line, header lines, blank line, body.
type Parser struct {
	data     []byte
	pos      int
	length   int
	line     int // 1-indexed line number for error reporting
	warnings []string
}

// NewParser creates a new parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{
		data:   data,
		pos:    0,
		length: len(data),
		line:   1,
	}
}

// initParser initializes a parser in-place (stack-friendly, avoids heap alloc).
func initParser(p *Parser, data []byte) {
	p.data = data
	p.pos = 0
	p.length = len(data)
	p.line = 1
	p.warnings = nil
}

// UnmarshalRequest parses data as a Burp capture.
func UnmarshalRequest(data []byte) (*ParseResult, error) {
	var p Parser
	initParser(&p, data)
	return p.ParseRequest()
}

// ParseRequest parses the capture. On failure no request is returned.
func (p *Parser) ParseRequest() (*ParseResult, error) {
	if isBlank(p.data) {
		return nil, newParseError(ErrEmptyInput, 0, "")
	}

	method, path, version, err := p.parseRequestLine()
	if err != nil {
		return nil, err
	}

	headers, err := p.parseHeaders()
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		Path:    path,
		Version: version,
		Headers: headers,
		Body:    p.parseBody(),
	}
	req.Scheme = p.inferScheme(headers)

	host, ok := lookupHeader(headers, "Host")
	if !ok {
		return nil, newParseError(ErrMissingHost, 0, "")
	}
	req.Host = host

	return &ParseResult{Request: req, Warnings: p.warnings}, nil
}

// parseRequestLine parses "METHOD SP TARGET SP VERSION". Tokens between the
// method and the version are joined with %20, so unencoded spaces in the
// target survive as an escape.
func (p *Parser) parseRequestLine() (method, path, version string, err error) {
	var line []byte
	for {
		line = p.readLine()
		if line == nil {
			return "", "", "", newParseError(ErrMalformedRequestLine, p.line, "")
		}
		if len(line) > 0 {
			break
		}
		// Leading blank lines are common in pasted captures.
	}
	lineNo := p.line - 1

	fields := splitFields(line)
	if len(fields) < 3 {
		return "", "", "", newParseError(ErrMalformedRequestLine, lineNo, string(line))
	}

	method = internMethod(fields[0])
	target := fields[1 : len(fields)-1]
	if len(target) == 1 {
		path = string(target[0])
	} else {
		path = string(bytes.Join(target, []byte("%20")))
		p.addWarning(lineNo, "unencoded whitespace in request target escaped as %20")
	}

	raw := fields[len(fields)-1]
	v, known := internVersion(raw)
	if !known {
		p.addWarning(lineNo, fmt.Sprintf("unrecognized HTTP version %q, defaulting to HTTP/1.1", string(raw)))
	}
	return method, path, v, nil
}

// parseHeaders parses header lines until an empty line or end of input.
// A repeated name overwrites the earlier value in place.
func (p *Parser) parseHeaders() ([]Header, error) {
	headers := make([]Header, 0, 8)

	for {
		line := p.readLine()
		if line == nil || len(line) == 0 {
			return headers, nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return nil, newParseError(ErrMalformedHeaderLine, p.line-1, string(line))
		}

		key := internHeaderName(line[:colon])
		value := line[colon+1:]
		if len(value) > 0 && value[0] == ' ' {
			value = value[1:]
		}
		headers = setHeader(headers, key, string(value))
	}
}

// parseBody returns everything after the header boundary with CRLF
// normalized to LF.
func (p *Parser) parseBody() []byte {
	if p.pos >= p.length {
		return nil
	}
	rest := p.data[p.pos:]
	p.pos = p.length
	if bytes.Contains(rest, []byte("\r\n")) {
		return bytes.ReplaceAll(rest, []byte("\r\n"), []byte("\n"))
	}
	body := make([]byte, len(rest))
	copy(body, rest)
	return body
}

// inferScheme applies the capture transport heuristic: https unless the Host
// carries an explicit :80 or the Referer is plain http.
func (p *Parser) inferScheme(headers []Header) string {
	if host, ok := lookupHeader(headers, "Host"); ok && strings.Contains(host, ":80") {
		p.addWarning(0, fmt.Sprintf("Host %q contains :80, using http transport", host))
		return "http"
	}
	if ref, ok := lookupHeader(headers, "Referer"); ok && strings.HasPrefix(ref, "http://") {
		p.addWarning(0, "Referer uses http://, using http transport")
		return "http"
	}
	return "https"
}

// readLine reads bytes until CRLF or LF, advancing pos.
// Returns nil at end of input; an empty non-nil slice for a blank line.
func (p *Parser) readLine() []byte {
	if p.pos >= p.length {
		return nil
	}

	start := p.pos
	for p.pos < p.length {
		if p.data[p.pos] == '\r' && p.pos+1 < p.length && p.data[p.pos+1] == '\n' {
			line := p.data[start:p.pos:p.pos]
			p.pos += 2
			p.line++
			return line
		}
		if p.data[p.pos] == '\n' {
			line := p.data[start:p.pos:p.pos]
			p.pos++
			p.line++
			return line
		}
		p.pos++
	}

	// No line ending, return remaining data
	p.line++
	return p.data[start:p.pos:p.pos]
}

func (p *Parser) addWarning(line int, msg string) {
	if line > 0 {
		p.warnings = append(p.warnings, fmt.Sprintf("line %d: %s", line, msg))
	} else {
		p.warnings = append(p.warnings, msg)
	}
}

// isBlank reports whether b holds only ASCII whitespace.
func isBlank(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n', '\v', '\f':
		default:
			return false
		}
	}
	return true
}

// splitFields splits b on runs of SP and HTAB. Unlike bytes.Fields it never
// decodes UTF-8, so bytes above 0x7F are always token content.
func splitFields(b []byte) [][]byte {
	var fields [][]byte
	start := -1
	for i := 0; i < len(b); i++ {
		if b[i] == ' ' || b[i] == '\t' {
			if start >= 0 {
				fields = append(fields, b[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, b[start:])
	}
	return fields
}

// setHeader overwrites the value of an exact-name match in place or appends.
func setHeader(headers []Header, key, value string) []Header {
	for i := range headers {
		if headers[i].Key == key {
			headers[i].Value = value
			return headers
		}
	}
	return append(headers, Header{Key: key, Value: value})
}

// lookupHeader returns the value of the exact-name header.
func lookupHeader(headers []Header, key string) (string, bool) {
	for _, h := range headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

// hasHeaderFold reports whether headers contains key (ASCII case-insensitive).
func hasHeaderFold(headers []Header, key string) bool {
	for _, h := range headers {
		if eqFold(h.Key, key) {
			return true
		}
	}
	return false
}

// eqFold is a fast ASCII case-insensitive string comparison.
func eqFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
