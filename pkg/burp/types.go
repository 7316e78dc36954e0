// Package burp models a single HTTP request captured by an intercepting proxy
// and converts it between its structured form and several external
// representations: raw Burp request text, curl command lines, net/http and
// fasthttp request objects, generic (method, URL, options) calls, and HTTP/2
// pseudo-header maps.
//
// # Byte fidelity
//
// Header values and bodies are byte strings. No operation decodes or
// transcodes them, so every byte value 0x00-0xFF survives parse, mutation and
// serialization. Text that originates as runes can be coerced explicitly with
// EncodeLatin1 or Request.SetBodyText.
//
// # Thread Safety
//
// Package functions are safe for concurrent use. A Request is not: give each
// goroutine its own copy with Clone.
//
// # APIs
//
//   - Parse/ParseString/ParseReader/ParseFile - raw capture text to Request
//   - Marshal/NewEncoder - Request to raw capture text
//   - Bind/BindAll/Clone/Prepare - mutation for fuzzing
//   - FromCurl/FromArgs/FromHTTPRequest/FromFasthttp/FromHTTP2/FromHPACK - converters
//   - ParseNode/Render - shape-core AST view
package burp

import (
	"fmt"
	"strings"
)

// Protocol is the HTTP version a request was captured with.
type Protocol int

const (
	HTTP11 Protocol = iota // "HTTP/1.1", the zero value
	HTTP10                 // "HTTP/1.0"
	HTTP2                  // "HTTP/2"
)

var protocolNames = [...]string{
	HTTP11: "HTTP/1.1",
	HTTP10: "HTTP/1.0",
	HTTP2:  "HTTP/2",
}

// String returns the canonical version token. Out-of-range values render as HTTP/1.1.
func (p Protocol) String() string {
	if p >= 0 && int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return protocolNames[HTTP11]
}

// ParseProtocol maps a version token to a Protocol. "HTTP/2.0" is accepted as
// an alias of "HTTP/2". Unknown tokens return HTTP11 and false.
func ParseProtocol(s string) (Protocol, bool) {
	switch s {
	case "HTTP/1.1":
		return HTTP11, true
	case "HTTP/1.0":
		return HTTP10, true
	case "HTTP/2", "HTTP/2.0":
		return HTTP2, true
	}
	return HTTP11, false
}

// MarshalText implements encoding.TextMarshaler.
func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown tokens decode
// to HTTP11, matching the capture parser.
func (p *Protocol) UnmarshalText(text []byte) error {
	*p, _ = ParseProtocol(string(text))
	return nil
}

// Transport is the scheme used to reach the host.
type Transport int

const (
	HTTPS Transport = iota // "https", the zero value
	HTTP                   // "http"
)

var transportNames = [...]string{
	HTTPS: "https",
	HTTP:  "http",
}

// String returns "https" or "http".
func (t Transport) String() string {
	if t >= 0 && int(t) < len(transportNames) {
		return transportNames[t]
	}
	return transportNames[HTTPS]
}

// ParseTransport maps a scheme (ASCII case-insensitive) to a Transport.
func ParseTransport(s string) (Transport, bool) {
	switch strings.ToLower(s) {
	case "https":
		return HTTPS, true
	case "http":
		return HTTP, true
	}
	return HTTPS, false
}

// MarshalText implements encoding.TextMarshaler.
func (t Transport) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Transport) UnmarshalText(text []byte) error {
	v, ok := ParseTransport(string(text))
	if !ok {
		return fmt.Errorf("burp: unknown transport %q", text)
	}
	*t = v
	return nil
}

// Header is a single name/value pair.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered header list with mapping semantics: names are
// case-sensitive as stored and Set overwrites an exact-name match in place.
type Headers []Header

// Get returns the value of the exact-name header, or "" if absent.
func (h Headers) Get(key string) string {
	v, _ := h.Lookup(key)
	return v
}

// Lookup returns the value of the exact-name header and whether it exists.
func (h Headers) Lookup(key string) (string, bool) {
	for _, hdr := range h {
		if hdr.Key == key {
			return hdr.Value, true
		}
	}
	return "", false
}

// GetFold returns the first value whose name matches key ignoring ASCII case.
func (h Headers) GetFold(key string) string {
	for _, hdr := range h {
		if asciiEqualFold(hdr.Key, key) {
			return hdr.Value
		}
	}
	return ""
}

// HasFold reports whether a header named key exists, ignoring ASCII case.
func (h Headers) HasFold(key string) bool {
	for _, hdr := range h {
		if asciiEqualFold(hdr.Key, key) {
			return true
		}
	}
	return false
}

// Set replaces the value of the exact-name header, keeping its position, or
// appends a new header.
func (h *Headers) Set(key, value string) {
	for i := range *h {
		if (*h)[i].Key == key {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Header{Key: key, Value: value})
}

// Add appends a header without replacing existing ones.
func (h *Headers) Add(key, value string) {
	*h = append(*h, Header{Key: key, Value: value})
}

// Del removes every header with the exact name key.
func (h *Headers) Del(key string) {
	j := 0
	for _, hdr := range *h {
		if hdr.Key != key {
			(*h)[j] = hdr
			j++
		}
	}
	*h = (*h)[:j]
}

// Len returns the number of headers.
func (h Headers) Len() int { return len(h) }

// Clone returns a deep copy of the headers.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	clone := make(Headers, len(h))
	copy(clone, h)
	return clone
}

// Request is a captured HTTP request.
type Request struct {
	Host      string    // network authority, may include a port
	Path      string    // request target including the query
	Protocol  Protocol  // HTTP version
	Method    string    // as given; converters upper-case it
	Headers   Headers   // ordered, exact-name mapping
	Body      []byte    // opaque bytes, nil if none
	Transport Transport // https or http
}

// NewRequest returns an empty request with its own header storage.
func NewRequest() *Request {
	return &Request{Headers: make(Headers, 0, 8)}
}

// URL returns transport://host+path.
func (r *Request) URL() string {
	return r.Transport.String() + "://" + r.Host + r.Path
}

// IsHTTP2 reports whether the request was captured over HTTP/2.
func (r *Request) IsHTTP2() bool {
	return r.Protocol == HTTP2
}

// String returns "METHOD URL PROTOCOL".
func (r *Request) String() string {
	return r.Method + " " + r.URL() + " " + r.Protocol.String()
}

// Header returns the value of the exact-name header and whether it exists.
func (r *Request) Header(name string) (string, bool) {
	return r.Headers.Lookup(name)
}

// SetHeader sets the exact-name header, keeping its position if present.
func (r *Request) SetHeader(name, value string) {
	r.Headers.Set(name, value)
}

// SetHeaderBytes sets a header from raw bytes without decoding them.
func (r *Request) SetHeaderBytes(name string, value []byte) {
	r.Headers.Set(name, string(value))
}

// DelHeader removes the exact-name header.
func (r *Request) DelHeader(name string) {
	r.Headers.Del(name)
}

// SetBody replaces the body with a copy of b.
func (r *Request) SetBody(b []byte) {
	if b == nil {
		r.Body = nil
		return
	}
	r.Body = append(make([]byte, 0, len(b)), b...)
}

// SetBodyString replaces the body with the bytes of s.
func (r *Request) SetBodyString(s string) {
	r.Body = []byte(s)
}

// SetBodyText replaces the body with s encoded as ISO-8859-1. It fails,
// leaving the body unchanged, if s contains a rune above U+00FF.
func (r *Request) SetBodyText(s string) error {
	b, err := EncodeLatin1(s)
	if err != nil {
		return err
	}
	r.Body = b
	return nil
}

// ParseResult holds a parsed request and the non-fatal issues found on the way.
type ParseResult struct {
	Request  *Request
	Warnings []string
}

// Marshaler is implemented by types that can render themselves as raw
// capture text.
type Marshaler interface {
	MarshalBurp() ([]byte, error)
}

// Unmarshaler is implemented by types that can load themselves from raw
// capture text.
type Unmarshaler interface {
	UnmarshalBurp([]byte) error
}

func asciiEqualFold(a, b string) bool {
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
