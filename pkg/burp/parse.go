package burp

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/shapestone/shape-burp/internal/fastparser"
)

// Parse parses raw capture text: a request line, header lines, a blank line
// and the body. Line endings may be CRLF or LF; CRLF in the body is
// normalized to LF in a single pass. A body holding "\r\r\n" therefore
// keeps one CRLF, and parsing Marshal's output turns that into LF, so such
// a body is not stable across a second parse. Every other body is.
//
// Transport is https unless the Host value contains ":80" or the Referer
// starts with "http://". A request without a Host header fails with
// ErrMissingHost.
//
// On failure the error is a *ParseError and no request is returned.
func Parse(data []byte) (*Request, error) {
	result, err := ParseWithWarnings(data)
	if err != nil {
		return nil, err
	}
	return result.Request, nil
}

// ParseString parses raw capture text held in a string.
func ParseString(s string) (*Request, error) {
	return Parse([]byte(s))
}

// ParseWithWarnings parses like Parse and also returns the non-fatal issues
// found: unknown versions, escaped whitespace in the target and transport
// downgrades.
func ParseWithWarnings(data []byte) (*ParseResult, error) {
	internal, err := fastparser.UnmarshalRequest(data)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		Request:  fromInternal(internal.Request),
		Warnings: internal.Warnings,
	}, nil
}

// ParseReader reads all data from r and parses it.
func ParseReader(r io.Reader) (*Request, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("burp: read: %w", err)
	}
	return Parse(data)
}

// ParseFile reads the file at path and parses it.
func ParseFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("burp: %w", err)
	}
	return Parse(data)
}

// Validate reports whether input parses as a capture. It returns nil if
// valid, or the *ParseError Parse would return.
func Validate(input string) error {
	_, err := fastparser.UnmarshalRequest([]byte(input))
	return err
}

// UnmarshalBurp replaces r with the request parsed from data.
func (r *Request) UnmarshalBurp(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

func fromInternal(req *fastparser.Request) *Request {
	protocol, _ := ParseProtocol(req.Version)
	transport, _ := ParseTransport(req.Scheme)
	return &Request{
		Host:      req.Host,
		Path:      req.Path,
		Protocol:  protocol,
		Method:    req.Method,
		Headers:   convertHeaders(req.Headers),
		Body:      req.Body,
		Transport: transport,
	}
}

func toInternal(req *Request) *fastparser.Request {
	headers := make([]fastparser.Header, len(req.Headers))
	for i, h := range req.Headers {
		headers[i] = fastparser.Header{Key: h.Key, Value: h.Value}
	}
	return &fastparser.Request{
		Method:  req.Method,
		Path:    req.Path,
		Version: req.Protocol.String(),
		Scheme:  req.Transport.String(),
		Host:    req.Host,
		Headers: headers,
		Body:    req.Body,
	}
}

func convertHeaders(hs []fastparser.Header) Headers {
	headers := make(Headers, len(hs))
	for i, h := range hs {
		headers[i] = Header{Key: h.Key, Value: h.Value}
	}
	return headers
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
