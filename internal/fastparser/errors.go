package fastparser

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by this package wraps exactly one of these.
var (
	ErrEmptyInput           = errors.New("empty input")
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeaderLine  = errors.New("malformed header line")
	ErrMissingHost          = errors.New("missing Host header")
	ErrCurlNoURL            = errors.New("no URL found in curl command")
	ErrCurlInvalidURL       = errors.New("invalid URL in curl command")
	ErrCurlSyntax           = errors.New("malformed curl command")
)

// ParseError describes a fatal parse failure.
type ParseError struct {
	Kind    error  // one of the Err* sentinels
	Line    int    // 1-indexed line number where the error occurred (0 if unknown)
	Content string // offending line or token
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("burp: parse error at line %d: %v: %q", e.Line, e.Kind, e.Content)
	}
	if e.Content != "" {
		return fmt.Sprintf("burp: %v: %q", e.Kind, e.Content)
	}
	return fmt.Sprintf("burp: %v", e.Kind)
}

// Unwrap returns the failure kind so callers can use errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newParseError(kind error, line int, content string) *ParseError {
	return &ParseError{Kind: kind, Line: line, Content: content}
}
