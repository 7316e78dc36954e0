package burp

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
)

// Bind replaces every occurrence of placeholder with value in the host, the
// path, each header value and the body. Replacement is literal and
// byte-exact. An empty placeholder leaves r unchanged. Bind returns r so
// calls can be chained.
func (r *Request) Bind(placeholder, value string) *Request {
	if placeholder == "" {
		return r
	}
	r.Host = strings.ReplaceAll(r.Host, placeholder, value)
	r.Path = strings.ReplaceAll(r.Path, placeholder, value)
	for i := range r.Headers {
		r.Headers[i].Value = strings.ReplaceAll(r.Headers[i].Value, placeholder, value)
	}
	if r.Body != nil && bytes.Contains(r.Body, []byte(placeholder)) {
		r.Body = bytes.ReplaceAll(r.Body, []byte(placeholder), []byte(value))
	}
	return r
}

// BindAll applies Bind for each entry of bindings in sorted placeholder order.
func (r *Request) BindAll(bindings map[string]string) *Request {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Bind(k, bindings[k])
	}
	return r
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	c := *r
	c.Headers = r.Headers.Clone()
	if c.Headers == nil {
		c.Headers = make(Headers, 0, 8)
	}
	if r.Body != nil {
		c.Body = append(make([]byte, 0, len(r.Body)), r.Body...)
	}
	return &c
}

// Clone returns a deep copy of req.
func Clone(req *Request) *Request {
	return req.Clone()
}

// Prepare sets Content-Length to the body length in bytes. An existing
// header of any case is updated in place.
func Prepare(req *Request) {
	n := strconv.Itoa(len(req.Body))
	for i := range req.Headers {
		if asciiEqualFold(req.Headers[i].Key, "Content-Length") {
			req.Headers[i].Value = n
			return
		}
	}
	req.Headers.Add("Content-Length", n)
}
