package burp

import (
	"io"
	"sync"
)

// bufPool pools []byte slices for serialization.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// Marshal returns the raw capture text for req:
//
//	METHOD SP PATH SP VERSION CRLF
//	Name: Value CRLF            (each header, in stored order)
//	CRLF
//	body                        (omitted when empty)
//
// Content-Length is written only if present in Headers; see Prepare.
// Parsing the output yields an equal request.
func Marshal(req *Request) []byte {
	bp := bufPool.Get().(*[]byte)
	buf := appendRequest((*bp)[:0], req)

	result := make([]byte, len(buf))
	copy(result, buf)
	*bp = buf[:0]
	bufPool.Put(bp)
	return result
}

// MarshalString returns Marshal(req) as a string.
func MarshalString(req *Request) string {
	return string(Marshal(req))
}

// MarshalBurp implements Marshaler.
func (r *Request) MarshalBurp() ([]byte, error) {
	return Marshal(r), nil
}

// Encoder writes requests to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the raw capture text of req to the stream.
func (enc *Encoder) Encode(req *Request) error {
	bp := bufPool.Get().(*[]byte)
	buf := appendRequest((*bp)[:0], req)
	_, err := enc.w.Write(buf)
	*bp = buf[:0]
	bufPool.Put(bp)
	return err
}

// appendRequest appends the request line, headers, blank line and body.
func appendRequest(buf []byte, req *Request) []byte {
	buf = appendRequestLine(buf, req.Method, req.Path, req.Protocol.String())
	buf = appendHeaders(buf, req.Headers)
	buf = appendCRLF(buf) // empty line before body
	return append(buf, req.Body...)
}

// appendHeaders appends all headers in "Key: Value\r\n" format.
func appendHeaders(buf []byte, headers Headers) []byte {
	for _, h := range headers {
		buf = append(buf, h.Key...)
		buf = append(buf, ':', ' ')
		buf = append(buf, h.Value...)
		buf = appendCRLF(buf)
	}
	return buf
}

// appendRequestLine appends "METHOD PATH VERSION\r\n" to buf.
func appendRequestLine(buf []byte, method, path, version string) []byte {
	buf = append(buf, method...)
	buf = append(buf, ' ')
	buf = append(buf, path...)
	buf = append(buf, ' ')
	buf = append(buf, version...)
	return appendCRLF(buf)
}

func appendCRLF(buf []byte) []byte {
	return append(buf, '\r', '\n')
}
