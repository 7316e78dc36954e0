package burp

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/http2/hpack"
)

// hpackTableSize is the default HPACK dynamic table size (RFC 7541).
const hpackTableSize = 4096

// FromHTTP2 builds a request from decoded HTTP/2 header fields.
//
// The pseudo-headers :method, :path, :authority and :scheme set the method,
// path, host and transport, defaulting to GET, "/", "" and https. Other
// ":"-prefixed fields are dropped. Regular fields become headers in order.
// A Host header is appended from :authority unless the fields already carry
// one. Protocol is always HTTP/2.
func FromHTTP2(fields Headers, body []byte) *Request {
	req := &Request{
		Method:   "GET",
		Path:     "/",
		Protocol: HTTP2,
		Headers:  make(Headers, 0, len(fields)+1),
	}
	for _, f := range fields {
		if !strings.HasPrefix(f.Key, ":") {
			req.Headers.Set(f.Key, f.Value)
			continue
		}
		switch f.Key {
		case ":method":
			req.Method = f.Value
		case ":path":
			req.Path = f.Value
		case ":authority":
			req.Host = f.Value
		case ":scheme":
			req.Transport, _ = ParseTransport(f.Value)
		}
	}
	if !req.Headers.HasFold("Host") {
		req.Headers.Add("Host", req.Host)
	}
	req.SetBody(body)
	return req
}

// FromHTTP2Map is FromHTTP2 for an unordered map. Regular headers are
// emitted in sorted name order.
func FromHTTP2Map(fields map[string]string, body []byte) *Request {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make(Headers, len(names))
	for i, name := range names {
		ordered[i] = Header{Key: name, Value: fields[name]}
	}
	return FromHTTP2(ordered, body)
}

// FromHPACK decodes an HPACK header block with a fresh decoder and builds a
// request from the resulting fields.
func FromHPACK(block, body []byte) (*Request, error) {
	dec := hpack.NewDecoder(hpackTableSize, nil)
	decoded, err := dec.DecodeFull(block)
	if err != nil {
		return nil, fmt.Errorf("burp: decode HPACK block: %w", err)
	}
	fields := make(Headers, len(decoded))
	for i, f := range decoded {
		fields[i] = Header{Key: f.Name, Value: f.Value}
	}
	return FromHTTP2(fields, body), nil
}

// connectionHeaders are not allowed in HTTP/2 (RFC 9113 section 8.2.2).
var connectionHeaders = map[string]bool{
	"connection":        true,
	"host":              true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
}

// ToHTTP2 returns the HTTP/2 header fields for req: the four request
// pseudo-headers, then the regular headers with lower-cased names.
// Host becomes :authority and connection-specific headers are dropped.
func ToHTTP2(req *Request) Headers {
	fields := make(Headers, 0, len(req.Headers)+4)
	fields = append(fields,
		Header{Key: ":method", Value: req.Method},
		Header{Key: ":scheme", Value: req.Transport.String()},
		Header{Key: ":authority", Value: req.Host},
		Header{Key: ":path", Value: req.Path},
	)
	for _, h := range req.Headers {
		name := strings.ToLower(h.Key)
		if connectionHeaders[name] {
			continue
		}
		fields = append(fields, Header{Key: name, Value: h.Value})
	}
	return fields
}

// ToHPACK encodes ToHTTP2(req) as an HPACK header block.
func ToHPACK(req *Request) ([]byte, error) {
	var buf bytes.Buffer
	enc := hpack.NewEncoder(&buf)
	for _, f := range ToHTTP2(req) {
		if err := enc.WriteField(hpack.HeaderField{Name: f.Key, Value: f.Value}); err != nil {
			return nil, fmt.Errorf("burp: encode HPACK block: %w", err)
		}
	}
	return buf.Bytes(), nil
}
