package fastparser

// String interning for common HTTP tokens.
//
// The Go compiler optimizes map lookups with string([]byte) keys
// to avoid allocating the temporary string (the mapaccess optimization).
// This means internMethod(someBytes) is zero-alloc for known methods.

// DefaultVersion is used for any version token not listed in versions.
const DefaultVersion = "HTTP/1.1"

var methods = map[string]string{
	"GET": "GET", "HEAD": "HEAD", "POST": "POST",
	"PUT": "PUT", "DELETE": "DELETE", "CONNECT": "CONNECT",
	"OPTIONS": "OPTIONS", "TRACE": "TRACE", "PATCH": "PATCH",
}

// versions maps accepted version tokens to their canonical form.
var versions = map[string]string{
	"HTTP/1.0": "HTTP/1.0",
	"HTTP/1.1": "HTTP/1.1",
	"HTTP/2":   "HTTP/2",
	"HTTP/2.0": "HTTP/2",
}

var headerNames = map[string]string{
	"Accept":                         "Accept",
	"Accept-Encoding":                "Accept-Encoding",
	"Accept-Language":                "Accept-Language",
	"Access-Control-Request-Headers": "Access-Control-Request-Headers",
	"Access-Control-Request-Method":  "Access-Control-Request-Method",
	"Authorization":                  "Authorization",
	"Cache-Control":                  "Cache-Control",
	"Connection":                     "Connection",
	"Content-Length":                 "Content-Length",
	"Content-Type":                   "Content-Type",
	"Cookie":                         "Cookie",
	"Host":                           "Host",
	"If-Modified-Since":              "If-Modified-Since",
	"If-None-Match":                  "If-None-Match",
	"Origin":                         "Origin",
	"Pragma":                         "Pragma",
	"Priority":                       "Priority",
	"Referer":                        "Referer",
	"Sec-Ch-Ua":                      "Sec-Ch-Ua",
	"Sec-Ch-Ua-Mobile":               "Sec-Ch-Ua-Mobile",
	"Sec-Ch-Ua-Platform":             "Sec-Ch-Ua-Platform",
	"Sec-Fetch-Dest":                 "Sec-Fetch-Dest",
	"Sec-Fetch-Mode":                 "Sec-Fetch-Mode",
	"Sec-Fetch-Site":                 "Sec-Fetch-Site",
	"Sec-Fetch-User":                 "Sec-Fetch-User",
	"Te":                             "Te",
	"Upgrade-Insecure-Requests":      "Upgrade-Insecure-Requests",
	"User-Agent":                     "User-Agent",
	"X-Forwarded-For":                "X-Forwarded-For",
	"X-Requested-With":               "X-Requested-With",
}

// internMethod returns an interned string for known HTTP methods, avoiding allocation.
func internMethod(b []byte) string {
	if s, ok := methods[string(b)]; ok {
		return s
	}
	return string(b)
}

// internVersion returns the canonical version for b and whether b was recognized.
// Unrecognized versions yield DefaultVersion.
func internVersion(b []byte) (string, bool) {
	if s, ok := versions[string(b)]; ok {
		return s, true
	}
	return DefaultVersion, false
}

// internHeaderName returns an interned string for known header names, avoiding allocation.
func internHeaderName(b []byte) string {
	if s, ok := headerNames[string(b)]; ok {
		return s
	}
	return string(b)
}
