package burp

import (
	"strings"

	"github.com/shapestone/shape-burp/internal/fastparser"
)

// FromCurl converts a curl command line into a Request.
//
// The leading "curl" word is optional and backslash-newline continuations
// are joined, so commands copied from a terminal or a browser's
// "Copy as cURL" work unchanged. The URL is split without decoding, so
// placeholders such as %ID% survive.
//
// # Supported flags
//
//	-X / --request          method (upper-cased)
//	-I / --head             HEAD unless -X is given
//	-G / --get              move data to the query string
//	-H / --header           header, split on the first colon (repeatable)
//	-A / --user-agent       User-Agent header
//	-e / --referer          Referer header
//	-b / --cookie           Cookie header (name=value form only)
//	-u / --user             Authorization: Basic
//	-d / --data, --data-raw, --data-binary, --data-ascii
//	                        body; the first data flag wins
//	--data-urlencode        percent-encoded body field
//	-F / --form             multipart/form-data field (repeatable)
//	--http1.0, --http1.1, --http2, --http2-prior-knowledge
//
// Display and connection flags (-s, -v, -k, -L, -o, -m, --compressed, ...)
// are ignored. Any other flag is skipped with a warning together with its
// argument.
//
// With a body, a POST, PUT or PATCH method, and no Content-Type, the
// Content-Type defaults to application/x-www-form-urlencoded.
func FromCurl(cmd string) (*Request, error) {
	result, err := ParseCurl(cmd)
	if err != nil {
		return nil, err
	}
	return result.Request, nil
}

// ParseCurl converts like FromCurl and also returns the warnings for flags
// that were skipped or could not be represented.
func ParseCurl(cmd string) (*ParseResult, error) {
	internal, err := fastparser.ParseCurl(cmd)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		Request:  fromInternal(internal.Request),
		Warnings: internal.Warnings,
	}, nil
}

// ToCurl renders req as a single-line curl command. Every header is passed
// with -H in order, Host included, and the body is sent with --data-raw so
// a leading "@" is not read as a file name. FromCurl reads the command back
// to the same request, except that a POST, PUT or PATCH body without a
// Content-Type header gains the form Content-Type on the way back.
func ToCurl(req *Request) string {
	var b strings.Builder
	b.WriteString("curl")
	if req.Method != "GET" || len(req.Body) > 0 {
		b.WriteString(" -X ")
		b.WriteString(shellQuote(req.Method))
	}
	switch req.Protocol {
	case HTTP10:
		b.WriteString(" --http1.0")
	case HTTP2:
		b.WriteString(" --http2")
	}
	b.WriteByte(' ')
	b.WriteString(shellQuote(req.URL()))
	for _, h := range req.Headers {
		b.WriteString(" -H ")
		b.WriteString(shellQuote(h.Key + ": " + h.Value))
	}
	if len(req.Body) > 0 {
		b.WriteString(" --data-raw ")
		b.WriteString(shellQuote(string(req.Body)))
	}
	return b.String()
}

// shellQuote wraps s in single quotes, closing and escaping any embedded quote.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
