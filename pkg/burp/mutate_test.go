package burp

import (
	"testing"
)

func newTemplate() *Request {
	return &Request{
		Host:   "%HOST%",
		Path:   "/users/%ID%?token=%TOKEN%",
		Method: "POST",
		Headers: Headers{
			{Key: "Host", Value: "%HOST%"},
			{Key: "Authorization", Value: "Bearer %TOKEN%"},
			{Key: "X-%TOKEN%", Value: "static"},
		},
		Body: []byte(`{"id":"%ID%","token":"%TOKEN%"}`),
	}
}

func TestBind_AllFields(t *testing.T) {
	req := newTemplate()
	got := req.Bind("%TOKEN%", "abc").Bind("%ID%", "42").Bind("%HOST%", "api.example.com")
	if got != req {
		t.Fatal("Bind did not return the receiver")
	}

	if req.Host != "api.example.com" {
		t.Errorf("Host = %q", req.Host)
	}
	if req.Path != "/users/42?token=abc" {
		t.Errorf("Path = %q", req.Path)
	}
	if v := req.Headers.Get("Host"); v != "api.example.com" {
		t.Errorf("Host header = %q", v)
	}
	if v := req.Headers.Get("Authorization"); v != "Bearer abc" {
		t.Errorf("Authorization = %q", v)
	}
	if _, ok := req.Headers.Lookup("X-%TOKEN%"); !ok {
		t.Error("header names must not be rewritten")
	}
	if string(req.Body) != `{"id":"42","token":"abc"}` {
		t.Errorf("Body = %q", req.Body)
	}
}

func TestBind_EmptyPlaceholderNoop(t *testing.T) {
	req := newTemplate()
	before := MarshalString(req)
	req.Bind("", "x")
	if MarshalString(req) != before {
		t.Error("Bind with empty placeholder changed the request")
	}
}

func TestBind_BinaryValue(t *testing.T) {
	req := &Request{Path: "/", Body: []byte("a=%V%")}
	req.Bind("%V%", "\x00\xff\r\n")
	if string(req.Body) != "a=\x00\xff\r\n" {
		t.Errorf("Body = %q", req.Body)
	}
}

func TestBind_NilBodyStaysNil(t *testing.T) {
	req := &Request{Path: "/%X%"}
	req.Bind("%X%", "y")
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
}

func TestBindAll_SortedOrder(t *testing.T) {
	req := &Request{Path: "/%A%"}
	// %A% is applied before %B%, so the %B% it introduces is replaced too.
	req.BindAll(map[string]string{"%A%": "%B%", "%B%": "done"})
	if req.Path != "/done" {
		t.Errorf("Path = %q, want /done", req.Path)
	}
}

func TestClone_Independent(t *testing.T) {
	orig := newTemplate()
	c := Clone(orig)

	c.Bind("%TOKEN%", "zzz")
	c.SetHeader("X-New", "1")
	c.Body[0] = '['

	if orig.Headers.Get("Authorization") != "Bearer %TOKEN%" {
		t.Errorf("original header changed: %q", orig.Headers.Get("Authorization"))
	}
	if orig.Headers.Len() != 3 {
		t.Errorf("original headers grew: %+v", orig.Headers)
	}
	if orig.Body[0] != '{' {
		t.Errorf("original body changed: %q", orig.Body)
	}
	if orig.Path != "/users/%ID%?token=%TOKEN%" {
		t.Errorf("original path changed: %q", orig.Path)
	}
}

func TestClone_NilFields(t *testing.T) {
	c := (&Request{Method: "GET"}).Clone()
	if c.Body != nil {
		t.Errorf("Body = %q, want nil", c.Body)
	}
	c.SetHeader("Host", "a")
	if c.Headers.Len() != 1 {
		t.Errorf("Headers = %+v", c.Headers)
	}
}

func TestPrepare(t *testing.T) {
	req := &Request{
		Headers: Headers{{Key: "Host", Value: "a"}, {Key: "Content-Length", Value: "999"}, {Key: "X", Value: "y"}},
		Body:    []byte("hello"),
	}
	Prepare(req)
	Prepare(req)
	if req.Headers.Len() != 3 {
		t.Fatalf("Headers = %+v", req.Headers)
	}
	if req.Headers[1].Value != "5" {
		t.Errorf("Content-Length = %q, want 5", req.Headers[1].Value)
	}
}

func TestPrepare_AppendsAndFolds(t *testing.T) {
	req := &Request{Headers: Headers{{Key: "Host", Value: "a"}}}
	Prepare(req)
	if v := req.Headers.Get("Content-Length"); v != "0" {
		t.Errorf("Content-Length = %q, want 0", v)
	}

	lower := &Request{Headers: Headers{{Key: "content-length", Value: "1"}}, Body: []byte("abc")}
	Prepare(lower)
	if lower.Headers.Len() != 1 || lower.Headers[0].Value != "3" {
		t.Errorf("Headers = %+v, want content-length: 3", lower.Headers)
	}
}

func TestPrepare_ByteLength(t *testing.T) {
	req := &Request{Headers: Headers{}}
	if err := req.SetBodyText("ñandú"); err != nil {
		t.Fatal(err)
	}
	Prepare(req)
	if v := req.Headers.Get("Content-Length"); v != "5" {
		t.Errorf("Content-Length = %q, want 5", v)
	}
}
