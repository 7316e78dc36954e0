package burp

import (
	"errors"
	"math"
	"testing"
)

func TestFromArgs_Params(t *testing.T) {
	tests := []struct {
		url    string
		params []Param
		want   string
	}{
		{"https://a.com/search", []Param{{"q", "%Q%"}, {"page", "1"}}, "/search?q=%Q%&page=1"},
		{"https://a.com/search?x=1", []Param{{"q", "a b"}}, "/search?x=1&q=a b"},
		{"https://a.com", nil, "/"},
		{"https://a.com?x=1", []Param{{"y", "2"}}, "/?x=1&y=2"},
	}
	for _, tt := range tests {
		req, err := FromArgs("get", tt.url, &Options{Params: tt.params})
		if err != nil {
			t.Fatalf("FromArgs(%q) error = %v", tt.url, err)
		}
		if req.Path != tt.want {
			t.Errorf("FromArgs(%q) Path = %q, want %q", tt.url, req.Path, tt.want)
		}
		if req.Method != "GET" {
			t.Errorf("Method = %q, want GET", req.Method)
		}
	}
}

func TestFromArgs_HostAlwaysFromURL(t *testing.T) {
	req, err := FromArgs("POST", "http://api.local:8080/x", &Options{
		Headers: Headers{{Key: "Host", Value: "spoofed"}, {Key: "X-A", Value: "1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if req.Host != "api.local:8080" || req.Headers.Get("Host") != "api.local:8080" {
		t.Errorf("Host = %q, header = %q", req.Host, req.Headers.Get("Host"))
	}
	if req.Headers[0].Key != "Host" || req.Headers[1].Key != "X-A" {
		t.Errorf("header order = %+v", req.Headers)
	}
	if req.Transport != HTTP {
		t.Errorf("Transport = %v, want http", req.Transport)
	}
}

func TestFromArgs_JSON(t *testing.T) {
	payload := map[string]any{
		"user":  "%USER%",
		"tags":  []any{"<a>", 1, true, nil},
		"name":  "José",
		"emoji": "😀",
	}
	req, err := FromArgs("POST", "https://a.com/api", &Options{JSON: payload})
	if err != nil {
		t.Fatalf("FromArgs() error = %v", err)
	}
	want := `{"emoji": "\ud83d\ude00", "name": "Jos\u00e9", "tags": ["<a>", 1, true, null], "user": "%USER%"}`
	if string(req.Body) != want {
		t.Errorf("Body =\n%s\nwant\n%s", req.Body, want)
	}
	if ct := req.Headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestFromArgs_JSONStringWithSeparators(t *testing.T) {
	req, err := FromArgs("POST", "https://a.com/", &Options{JSON: map[string]string{"k": `a:b,"c"`}})
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != `{"k": "a:b,\"c\""}` {
		t.Errorf("Body = %s", req.Body)
	}
}

func TestFromArgs_JSONError(t *testing.T) {
	_, err := FromArgs("POST", "https://a.com/", &Options{JSON: math.Inf(1)})
	if err == nil {
		t.Fatal("expected error for unencodable JSON")
	}
}

func TestFromArgs_Form(t *testing.T) {
	req, err := FromArgs("post", "https://a.com/login", &Options{
		Form: []Param{{"u", "%U%"}, {"p", "a&b"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != "u=%U%&p=a&b" {
		t.Errorf("Body = %q", req.Body)
	}
	if ct := req.Headers.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestFromArgs_BodyPrecedence(t *testing.T) {
	req, err := FromArgs("POST", "https://a.com/", &Options{
		JSON: map[string]int{"a": 1},
		Form: []Param{{"b", "2"}},
		Data: []byte("c=3"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != `{"a": 1}` {
		t.Errorf("Body = %q, want JSON", req.Body)
	}

	req, err = FromArgs("POST", "https://a.com/", &Options{
		Form: []Param{{"b", "2"}},
		Data: []byte("c=3"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != "b=2" {
		t.Errorf("Body = %q, want form", req.Body)
	}
}

func TestFromArgs_DataVerbatim(t *testing.T) {
	data := []byte{0x00, 0xff, '\r', '\n'}
	req, err := FromArgs("PUT", "https://a.com/blob", &Options{Data: data})
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'
	if string(req.Body) != "\x00\xff\r\n" {
		t.Errorf("Body = %q", req.Body)
	}
	if req.Headers.HasFold("Content-Type") {
		t.Error("Data must not set a Content-Type")
	}
}

func TestFromArgs_ExplicitContentTypeWins(t *testing.T) {
	req, err := FromArgs("POST", "https://a.com/", &Options{
		Headers: Headers{{Key: "content-type", Value: "application/vnd.api+json"}},
		JSON:    []int{1, 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if req.Headers.Len() != 2 {
		t.Errorf("Headers = %+v", req.Headers)
	}
	if ct := req.Headers.GetFold("Content-Type"); ct != "application/vnd.api+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if string(req.Body) != "[1, 2]" {
		t.Errorf("Body = %q", req.Body)
	}
}

func TestFromArgs_NilOptionsAndDefaults(t *testing.T) {
	req, err := FromArgs("", "https://a.com/x", nil)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "GET" || req.Body != nil || req.Headers.Len() != 1 {
		t.Errorf("got %s headers=%+v body=%q", req, req.Headers, req.Body)
	}
}

func TestFromArgs_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "://", "https://"} {
		if _, err := FromArgs("GET", u, nil); !errors.Is(err, ErrCurlInvalidURL) {
			t.Errorf("FromArgs(%q) error = %v, want ErrCurlInvalidURL", u, err)
		}
	}
}

func TestSpaceJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1,"b":[1,2]}`, `{"a": 1, "b": [1, 2]}`},
		{`"x:y,z"`, `"x:y,z"`},
		{`"a\"b:c"`, `"a\"b:c"`},
		{`"\\"`, `"\\"`},
		{"\"é\"", `"\u00e9"`},
	}
	for _, tt := range tests {
		if got := string(spaceJSON([]byte(tt.in))); got != tt.want {
			t.Errorf("spaceJSON(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFromArgs_HostAnyCaseReplaced(t *testing.T) {
	req, err := FromArgs("get", "https://a.com/", &Options{
		Headers: Headers{
			{Key: "X-A", Value: "1"},
			{Key: "host", Value: "evil"},
			{Key: "HOST", Value: "evil2"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Headers{{Key: "X-A", Value: "1"}, {Key: "Host", Value: "a.com"}}
	if len(req.Headers) != len(want) {
		t.Fatalf("Headers = %+v, want %+v", req.Headers, want)
	}
	for i := range want {
		if req.Headers[i] != want[i] {
			t.Errorf("Headers[%d] = %+v, want %+v", i, req.Headers[i], want[i])
		}
	}
}
