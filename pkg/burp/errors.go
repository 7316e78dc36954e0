package burp

import "github.com/shapestone/shape-burp/internal/fastparser"

// Failure kinds returned by the parser and the curl converter. Test with errors.Is.
var (
	ErrEmptyInput           = fastparser.ErrEmptyInput
	ErrMalformedRequestLine = fastparser.ErrMalformedRequestLine
	ErrMalformedHeaderLine  = fastparser.ErrMalformedHeaderLine
	ErrMissingHost          = fastparser.ErrMissingHost
	ErrCurlNoURL            = fastparser.ErrCurlNoURL
	ErrCurlInvalidURL       = fastparser.ErrCurlInvalidURL
	ErrCurlSyntax           = fastparser.ErrCurlSyntax
)

// ParseError describes a fatal parse failure: the failure kind, the
// 1-indexed line (0 if unknown) and the offending content.
type ParseError = fastparser.ParseError
