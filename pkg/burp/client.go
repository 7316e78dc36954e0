package burp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/shapestone/shape-burp/internal/fastparser"
	"github.com/valyala/fasthttp"
)

var errNilURL = errors.New("burp: http request has no URL")

// FromHTTPRequest converts a net/http request into a Request.
//
// Host comes from r.Host, falling back to r.URL.Host, and is emitted as the
// first header. The remaining headers follow in sorted name order with
// multiple values joined by ", ". A positive r.ContentLength is recorded as
// Content-Length. The body is read in full and r.Body is replaced with a
// fresh reader over the same bytes.
//
// Protocol follows r.ProtoMajor and r.ProtoMinor. Requests built with
// http.NewRequest report 1.1 and so become HTTP/1.1; server-side requests
// keep the version they arrived with. A request with a nil URL is rejected.
func FromHTTPRequest(r *http.Request) (*Request, error) {
	if r.URL == nil {
		return nil, errNilURL
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	transport, _ := ParseTransport(r.URL.Scheme)
	if r.URL.Scheme == "" && r.TLS == nil && r.URL.Host == "" {
		// server-side request without TLS
		transport = HTTP
	}

	req := &Request{
		Host:      host,
		Path:      r.URL.RequestURI(),
		Protocol:  protocolFromMajorMinor(r.ProtoMajor, r.ProtoMinor),
		Method:    r.Method,
		Headers:   make(Headers, 0, len(r.Header)+2),
		Transport: transport,
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	req.Headers.Set("Host", host)

	names := make([]string, 0, len(r.Header)+1)
	for name := range r.Header {
		if asciiEqualFold(name, "Host") {
			continue
		}
		names = append(names, name)
	}
	if r.ContentLength > 0 && r.Header.Get("Content-Length") == "" {
		names = append(names, "Content-Length")
	}
	sort.Strings(names)
	for _, name := range names {
		if vals, ok := r.Header[name]; ok {
			req.Headers.Set(name, strings.Join(vals, ", "))
		} else {
			req.Headers.Set(name, strconv.FormatInt(r.ContentLength, 10))
		}
	}

	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("burp: read request body: %w", err)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		if len(body) > 0 {
			req.Body = body
		}
	}
	return req, nil
}

// ToHTTPRequest builds a net/http request that sends req.
//
// Header names are kept exactly as stored. Host sets the request's Host
// field; Content-Length is derived from the body by net/http. Building fails
// if req.URL() does not parse, for example while an unbound placeholder
// such as %ID% remains in the path.
func ToHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, req.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("burp: build request: %w", err)
	}
	for _, h := range req.Headers {
		switch {
		case asciiEqualFold(h.Key, "Host"):
			hr.Host = h.Value
		case asciiEqualFold(h.Key, "Content-Length"):
		default:
			hr.Header[h.Key] = append(hr.Header[h.Key], h.Value)
		}
	}
	return hr, nil
}

// FromFasthttp converts a fasthttp request into a Request. Headers keep the
// order fasthttp visits them in; a Host header is synthesized first if
// fasthttp holds the host only in the URI.
func FromFasthttp(r *fasthttp.Request) *Request {
	uri := r.URI()
	host := string(r.Header.Host())
	if host == "" {
		host = string(uri.Host())
	}
	transport, _ := ParseTransport(string(uri.Scheme()))

	path := string(r.Header.RequestURI())
	if !strings.HasPrefix(path, "/") {
		if _, _, p, _, err := fastparser.SplitURL(path); err == nil {
			path = p
		} else {
			path = "/"
		}
	}

	protocol := HTTP11
	if !r.Header.IsHTTP11() {
		protocol = HTTP10
	}

	req := &Request{
		Host:      host,
		Path:      path,
		Protocol:  protocol,
		Method:    string(r.Header.Method()),
		Headers:   make(Headers, 0, r.Header.Len()+1),
		Transport: transport,
	}
	r.Header.VisitAll(func(k, v []byte) {
		req.Headers.Set(string(k), string(v))
	})
	if !req.Headers.HasFold("Host") {
		req.Headers = append(Headers{{Key: "Host", Value: host}}, req.Headers...)
	}
	if body := r.Body(); len(body) > 0 {
		req.SetBody(body)
	}
	return req
}

// ToFasthttp resets dst and fills it from req. Header names and the path
// are sent exactly as stored; Content-Length is derived from the body.
func ToFasthttp(req *Request, dst *fasthttp.Request) {
	dst.Reset()
	dst.Header.DisableNormalizing()
	dst.SetRequestURI(req.URL())
	dst.URI().DisablePathNormalizing = true
	dst.Header.SetMethod(req.Method)
	for _, h := range req.Headers {
		switch {
		case asciiEqualFold(h.Key, "Host"):
			dst.Header.SetHost(h.Value)
		case asciiEqualFold(h.Key, "Content-Length"):
		default:
			dst.Header.Add(h.Key, h.Value)
		}
	}
	if len(req.Body) > 0 {
		dst.SetBody(req.Body)
	}
}

func protocolFromMajorMinor(major, minor int) Protocol {
	switch {
	case major == 2:
		return HTTP2
	case major == 1 && minor == 0:
		return HTTP10
	}
	return HTTP11
}
