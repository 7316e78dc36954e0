package burp

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/shapestone/shape-burp/internal/fastparser"
)

const (
	jsonContentType = "application/json"
	formContentType = "application/x-www-form-urlencoded"
)

// Param is one key=value pair of a query string or form body.
type Param struct {
	Key   string
	Value string
}

// Options are the optional parts of a FromArgs request.
//
// At most one body source is used, in the order JSON, Form, Data.
type Options struct {
	// Headers are copied in order. An explicit Content-Type here is never
	// replaced.
	Headers Headers

	// Params are appended to the path as key=value pairs joined by "&".
	// They are not percent-encoded, so placeholders stay intact for Bind.
	Params []Param

	// JSON, when non-nil, is encoded as the body with ": " and ", "
	// separators, non-ASCII escaped as \uXXXX and no HTML escaping.
	// Content-Type defaults to application/json.
	JSON any

	// Form is encoded as key=value pairs joined by "&", without
	// percent-encoding. Content-Type defaults to
	// application/x-www-form-urlencoded.
	Form []Param

	// Data is used as the body verbatim.
	Data []byte
}

// FromArgs builds a request from a method, a URL and options, the shape of
// a typical HTTP client call. The URL is split without decoding; its scheme
// selects the transport and its authority always becomes the Host header.
// opts may be nil.
func FromArgs(method, rawURL string, opts *Options) (*Request, error) {
	scheme, host, path, _, err := fastparser.SplitURL(rawURL)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	transport, _ := ParseTransport(scheme)
	req := &Request{
		Host:      host,
		Path:      appendParams(path, opts.Params),
		Method:    strings.ToUpper(method),
		Headers:   make(Headers, 0, len(opts.Headers)+2),
		Transport: transport,
	}
	if req.Method == "" {
		req.Method = "GET"
	}
	req.Headers = setHostHeader(append(req.Headers, opts.Headers...), host)

	var contentType string
	switch {
	case opts.JSON != nil:
		body, err := encodeJSONBody(opts.JSON)
		if err != nil {
			return nil, err
		}
		req.Body = body
		contentType = jsonContentType
	case opts.Form != nil:
		req.Body = []byte(joinParams(opts.Form))
		contentType = formContentType
	case opts.Data != nil:
		req.SetBody(opts.Data)
	}
	if contentType != "" && !req.Headers.HasFold("Content-Type") {
		req.Headers.Add("Content-Type", contentType)
	}
	return req, nil
}

// setHostHeader leaves exactly one Host header holding host. It takes the
// place of the first header named Host in any case; later ones are dropped.
func setHostHeader(headers Headers, host string) Headers {
	out := headers[:0]
	found := false
	for _, h := range headers {
		if !asciiEqualFold(h.Key, "Host") {
			out = append(out, h)
			continue
		}
		if !found {
			out = append(out, Header{Key: "Host", Value: host})
			found = true
		}
	}
	if !found {
		out = append(out, Header{Key: "Host", Value: host})
	}
	return out
}

func appendParams(path string, params []Param) string {
	if len(params) == 0 {
		return path
	}
	sep := "?"
	if strings.ContainsRune(path, '?') {
		sep = "&"
	}
	return path + sep + joinParams(params)
}

func joinParams(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// encodeJSONBody renders v the way most scripting HTTP clients do:
// {"a": 1, "b": [true, null]} with every non-ASCII rune escaped, so the
// body is plain ASCII.
func encodeJSONBody(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("burp: encode JSON body: %w", err)
	}
	compact := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return spaceJSON(compact), nil
}

// spaceJSON inserts a space after each ':' and ',' outside strings and
// escapes non-ASCII runes inside strings. Input must be compact JSON.
func spaceJSON(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/4)
	inString := false
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case inString && c == '\\':
			out = append(out, c, b[i+1])
			i += 2
			continue
		case inString && c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(b[i:])
			out = appendUnicodeEscape(out, r)
			i += size
			continue
		case c == '"':
			inString = !inString
			out = append(out, c)
		case !inString && (c == ':' || c == ','):
			out = append(out, c, ' ')
		default:
			out = append(out, c)
		}
		i++
	}
	return out
}

func appendUnicodeEscape(out []byte, r rune) []byte {
	const hex = "0123456789abcdef"
	esc := func(out []byte, u rune) []byte {
		return append(out, '\\', 'u', hex[u>>12&0xF], hex[u>>8&0xF], hex[u>>4&0xF], hex[u&0xF])
	}
	if r > 0xFFFF {
		r -= 0x10000
		out = esc(out, 0xD800+(r>>10))
		return esc(out, 0xDC00+(r&0x3FF))
	}
	return esc(out, r)
}
