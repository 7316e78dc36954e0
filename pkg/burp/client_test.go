package burp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestFromHTTPRequest(t *testing.T) {
	hr, err := http.NewRequest(http.MethodPost, "https://example.com/a?b=1", strings.NewReader("x=1"))
	require.NoError(t, err)
	hr.Header.Set("X-B", "2")
	hr.Header.Set("X-A", "1")
	hr.Header.Add("X-Multi", "v1")
	hr.Header.Add("X-Multi", "v2")

	req, err := FromHTTPRequest(hr)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "example.com", req.Host)
	assert.Equal(t, "/a?b=1", req.Path)
	assert.Equal(t, HTTPS, req.Transport)
	assert.Equal(t, HTTP11, req.Protocol)
	assert.Equal(t, Headers{
		{Key: "Host", Value: "example.com"},
		{Key: "Content-Length", Value: "3"},
		{Key: "X-A", Value: "1"},
		{Key: "X-B", Value: "2"},
		{Key: "X-Multi", Value: "v1, v2"},
	}, req.Headers)
	assert.Equal(t, []byte("x=1"), req.Body)

	restored, err := io.ReadAll(hr.Body)
	require.NoError(t, err)
	assert.Equal(t, "x=1", string(restored), "request body should be readable again")
}

func TestFromHTTPRequest_ServerSide(t *testing.T) {
	hr := httptest.NewRequest(http.MethodGet, "/p?q=%25", nil)

	req, err := FromHTTPRequest(hr)
	require.NoError(t, err)

	assert.Equal(t, "example.com", req.Host)
	assert.Equal(t, "/p?q=%25", req.Path)
	assert.Equal(t, HTTP, req.Transport)
	assert.Nil(t, req.Body)
	assert.Equal(t, "example.com", req.Headers.Get("Host"))
}

func TestFromHTTPRequest_NilURL(t *testing.T) {
	req, err := FromHTTPRequest(&http.Request{Method: http.MethodGet, Host: "a.com"})
	assert.Error(t, err)
	assert.Nil(t, req)
}

func TestFromHTTPRequest_NewRequestIsHTTP11(t *testing.T) {
	hr, err := http.NewRequest(http.MethodGet, "http://a.com/", nil)
	require.NoError(t, err)
	req, err := FromHTTPRequest(hr)
	require.NoError(t, err)
	assert.Equal(t, HTTP11, req.Protocol)
}

func TestFromHTTPRequest_HTTP10(t *testing.T) {
	hr := httptest.NewRequest(http.MethodGet, "https://a.com/", nil)
	hr.Proto, hr.ProtoMajor, hr.ProtoMinor = "HTTP/1.0", 1, 0

	req, err := FromHTTPRequest(hr)
	require.NoError(t, err)
	assert.Equal(t, HTTP10, req.Protocol)
	assert.Equal(t, HTTPS, req.Transport)
}

func TestToHTTPRequest_Dispatch(t *testing.T) {
	var got struct {
		method, uri, host, token, lower string
		length                          int64
		body                            string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.uri = r.RequestURI
		got.host = r.Host
		got.token = r.Header.Get("X-Token")
		got.lower = r.Header.Get("x-lower")
		got.length = r.ContentLength
		got.body = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	raw := "POST /submit?id=%ID% HTTP/1.1\r\n" +
		"Host: %HOST%\r\n" +
		"X-Token: %TOKEN%\r\n" +
		"x-lower: yes\r\n" +
		"Content-Length: 999\r\n" +
		"\r\n" +
		"token=%TOKEN%"
	req, err := ParseString(raw)
	require.NoError(t, err)
	req.Bind("%HOST%", strings.TrimPrefix(srv.URL, "http://")).Bind("%ID%", "7").Bind("%TOKEN%", "t0k")
	req.Transport = HTTP

	hr, err := ToHTTPRequest(context.Background(), req)
	require.NoError(t, err)

	resp, err := srv.Client().Do(hr)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "POST", got.method)
	assert.Equal(t, "/submit?id=7", got.uri)
	assert.Equal(t, strings.TrimPrefix(srv.URL, "http://"), got.host)
	assert.Equal(t, "t0k", got.token)
	assert.Equal(t, "yes", got.lower)
	assert.Equal(t, int64(len("token=t0k")), got.length)
	assert.Equal(t, "token=t0k", got.body)
}

func TestToHTTPRequest_UnboundPlaceholder(t *testing.T) {
	req := &Request{Method: "GET", Host: "a.com", Path: "/%ID%"}
	_, err := ToHTTPRequest(context.Background(), req)
	assert.Error(t, err)
}

func TestFromFasthttp(t *testing.T) {
	fr := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(fr)
	fr.SetRequestURI("http://example.com/a?b=%B%")
	fr.Header.SetMethod(fasthttp.MethodPut)
	fr.Header.Set("X-Token", "abc")
	fr.SetBodyString("payload")

	req := FromFasthttp(fr)

	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "example.com", req.Host)
	assert.Equal(t, "/a?b=%B%", req.Path)
	assert.Equal(t, HTTP, req.Transport)
	assert.Equal(t, HTTP11, req.Protocol)
	assert.Equal(t, "abc", req.Headers.Get("X-Token"))
	assert.True(t, req.Headers.HasFold("Host"))
	assert.Equal(t, []byte("payload"), req.Body)

	req.Body[0] = 'P'
	assert.Equal(t, "payload", string(fr.Body()), "body must be copied")
}

func TestToFasthttp(t *testing.T) {
	req := &Request{
		Host:   "api.example.com",
		Path:   "/v1/items?x=%X%",
		Method: "PATCH",
		Headers: Headers{
			{Key: "Host", Value: "api.example.com"},
			{Key: "x-case-kept", Value: "1"},
			{Key: "Content-Length", Value: "999"},
		},
		Body: []byte("data"),
	}

	fr := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(fr)
	ToFasthttp(req, fr)

	assert.Equal(t, "PATCH", string(fr.Header.Method()))
	assert.Equal(t, "api.example.com", string(fr.Host()))
	assert.Equal(t, "https", string(fr.URI().Scheme()))
	assert.Equal(t, "1", string(fr.Header.Peek("x-case-kept")))
	assert.Equal(t, "data", string(fr.Body()))
	assert.Equal(t, "/v1/items?x=%X%", string(fr.URI().RequestURI()))
}

func TestFasthttp_RoundTrip(t *testing.T) {
	orig, err := ParseString("DELETE /r/1 HTTP/1.1\r\nHost: h.local:80\r\nX-A: 1\r\n\r\n")
	require.NoError(t, err)

	fr := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(fr)
	ToFasthttp(orig, fr)
	back := FromFasthttp(fr)

	assert.Equal(t, orig.Method, back.Method)
	assert.Equal(t, orig.Host, back.Host)
	assert.Equal(t, orig.Path, back.Path)
	assert.Equal(t, orig.Transport, back.Transport)
	assert.Equal(t, "1", back.Headers.Get("X-A"))
}
