package fastparser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// formContentType is applied to POST/PUT/PATCH bodies that carry no Content-Type.
const formContentType = "application/x-www-form-urlencoded"

// ParseCurl converts a curl command line into a Request.
//
// Fatal conditions return an error wrapping ErrCurlNoURL, ErrCurlInvalidURL or
// ErrCurlSyntax. Unsupported or ignored flags are reported as warnings.
func ParseCurl(cmd string) (*ParseResult, error) {
	cp := &curlParser{}
	req, err := cp.parse(cmd)
	if err != nil {
		return nil, err
	}
	return &ParseResult{Request: req, Warnings: cp.warnings}, nil
}

type curlParser struct {
	warnings []string
}

func (cp *curlParser) warn(msg string) {
	cp.warnings = append(cp.warnings, msg)
}

// booleanFlags never take an argument. Any other unknown flag is assumed to
// take one, so its value is never mistaken for the URL.
var booleanFlags = map[string]bool{
	"-v": true, "--verbose": true,
	"-s": true, "--silent": true,
	"-S": true, "--show-error": true,
	"-L": true, "--location": true,
	"-k": true, "--insecure": true,
	"-i": true, "--include": true,
	"-O": true, "--remote-name": true,
	"-g": true, "--globoff": true,
	"-f": true, "--fail": true, "--fail-with-body": true,
	"-N": true, "--no-buffer": true,
	"-#": true, "--progress-bar": true,
	"-4": true, "--ipv4": true,
	"-6": true, "--ipv6": true,
	"--compressed": true, "--no-keepalive": true, "--no-progress-meter": true,
	"--path-as-is": true, "--raw": true, "--tr-encoding": true,
	"--ssl": true, "--ssl-reqd": true, "--tlsv1.2": true, "--tlsv1.3": true,
	"--anyauth": true, "--basic": true, "--digest": true, "--ntlm": true,
	"--negotiate": true, "--location-trusted": true,
}

// ignoredArgFlags take one argument that does not affect the request.
var ignoredArgFlags = map[string]bool{
	"-o": true, "--output": true,
	"-m": true, "--max-time": true,
	"-x": true, "--proxy": true,
	"-w": true, "--write-out": true,
	"--connect-timeout": true, "--cert": true, "--key": true, "--cacert": true,
	"--resolve": true, "--limit-rate": true, "--retry": true, "--dns-servers": true,
	"--interface": true, "--local-port": true, "--max-redirs": true,
	"--proxy-user": true, "-c": true, "--cookie-jar": true,
}

func (cp *curlParser) parse(cmd string) (*Request, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, newParseError(ErrCurlNoURL, 0, "")
	}

	// Normalize backslash line continuations before tokenizing.
	cmd = strings.ReplaceAll(cmd, "\\\r\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\\n", " ")

	tokens, err := shellSplit(cmd)
	if err != nil {
		return nil, newParseError(ErrCurlSyntax, 0, err.Error())
	}

	// Tolerate an optional leading "curl" token.
	if len(tokens) > 0 && strings.EqualFold(tokens[0], "curl") {
		tokens = tokens[1:]
	}

	var (
		method         string
		rawURL         string
		haveURL        bool
		version        = DefaultVersion
		headers        []Header
		body           []byte
		haveData       bool
		formFields     []string
		getMode        bool
		explicitMethod bool
		endOfOptions   bool
	)

	setData := func(flag, v string, encode bool) {
		if strings.HasPrefix(v, "@") && flag != "--data-raw" {
			cp.warn(fmt.Sprintf("%s file reference %q is not supported, body skipped", flag, v))
			return
		}
		if haveData {
			cp.warn(fmt.Sprintf("additional %s value ignored, first data flag wins", flag))
			return
		}
		if encode {
			v = urlEncodeField(v)
		}
		body = []byte(v)
		haveData = true
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		// Compound short flags expand only in flag position, so an argument
		// such as -d '-100' is never split.
		if !endOfOptions {
			if expanded := expandShortFlag(tok); len(expanded) > 1 {
				rest := append(expanded, tokens[i+1:]...)
				tokens = append(tokens[:i:i], rest...)
				tok = tokens[i]
			}
		}

		// Helper: consume the next token as an argument.
		next := func() (string, bool) {
			if i+1 < len(tokens) {
				i++
				return tokens[i], true
			}
			cp.warn(fmt.Sprintf("flag %q is missing its argument", tok))
			return "", false
		}

		if endOfOptions || tok == "" || !strings.HasPrefix(tok, "-") || tok == "-" {
			if haveURL {
				cp.warn(fmt.Sprintf("unexpected positional argument %q, skipping", tok))
				continue
			}
			rawURL, haveURL = tok, true
			continue
		}

		switch tok {
		case "--":
			endOfOptions = true

		// Method
		case "-X", "--request":
			if v, ok := next(); ok {
				method = strings.ToUpper(v)
				explicitMethod = true
			}
		case "-I", "--head":
			if !explicitMethod {
				method = "HEAD"
			}
		case "-G", "--get":
			getMode = true

		// Headers
		case "-H", "--header":
			if v, ok := next(); ok {
				if h, ok := parseCurlHeader(v); ok {
					headers = setHeader(headers, h.Key, h.Value)
				} else {
					cp.warn(fmt.Sprintf("header %q has no colon, skipped", v))
				}
			}
		case "-A", "--user-agent":
			if v, ok := next(); ok {
				headers = setHeader(headers, "User-Agent", v)
			}
		case "-e", "--referer":
			if v, ok := next(); ok {
				headers = setHeader(headers, "Referer", v)
			}
		case "-b", "--cookie":
			if v, ok := next(); ok {
				if strings.ContainsRune(v, '=') {
					headers = setHeader(headers, "Cookie", v)
				} else {
					cp.warn(fmt.Sprintf("cookie file %q is not supported, skipped", v))
				}
			}

		// Basic auth, converted to an Authorization: Basic header.
		case "-u", "--user":
			if v, ok := next(); ok {
				if !strings.ContainsRune(v, ':') {
					cp.warn(fmt.Sprintf("-u %q: no colon found; encoding username only", v))
				}
				encoded := base64.StdEncoding.EncodeToString([]byte(v))
				headers = setHeader(headers, "Authorization", "Basic "+encoded)
			}

		// Body data
		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			if v, ok := next(); ok {
				setData(tok, v, false)
			}
		case "--data-urlencode":
			if v, ok := next(); ok {
				setData(tok, v, true)
			}
		case "-F", "--form":
			if v, ok := next(); ok {
				formFields = append(formFields, v)
			}

		// HTTP version
		case "--http2", "--http2-prior-knowledge":
			version = "HTTP/2"
		case "--http1.0", "-0":
			version = "HTTP/1.0"
		case "--http1.1":
			version = "HTTP/1.1"
		case "--http3", "--http3-only":
			cp.warn(fmt.Sprintf("%s is not representable, keeping %s", tok, version))

		default:
			switch {
			case booleanFlags[tok]:
				// silently skip
			case ignoredArgFlags[tok]:
				next()
			case strings.HasPrefix(tok, "--") && strings.ContainsRune(tok, '='):
				cp.warn(fmt.Sprintf("unknown curl flag %q, skipping", tok))
			default:
				cp.warn(fmt.Sprintf("unknown curl flag %q, skipping it and its argument", tok))
				next()
			}
		}
	}

	if !haveURL {
		return nil, newParseError(ErrCurlNoURL, 0, cmd)
	}
	scheme, host, path, err := cp.parseCurlURL(rawURL)
	if err != nil {
		return nil, err
	}

	if len(formFields) > 0 {
		if haveData {
			cp.warn("both -F and -d given, using the multipart form")
		}
		b, boundary := cp.buildMultipartForm(formFields)
		body = b
		haveData = true
		if !hasHeaderFold(headers, "Content-Type") {
			headers = append(headers, Header{Key: "Content-Type", Value: "multipart/form-data; boundary=" + boundary})
		}
	}

	if getMode && haveData {
		sep := "?"
		if strings.ContainsRune(path, '?') {
			sep = "&"
		}
		path += sep + string(body)
		body = nil
		haveData = false
	}

	if method == "" {
		method = "GET"
	}

	// Inject Host header (prepend so it appears first, as in a capture).
	if !hasHeaderFold(headers, "Host") {
		headers = append([]Header{{Key: "Host", Value: host}}, headers...)
	}

	if haveData && !hasHeaderFold(headers, "Content-Type") {
		switch method {
		case "POST", "PUT", "PATCH":
			headers = append(headers, Header{Key: "Content-Type", Value: formContentType})
		}
	}

	return &Request{
		Method:  method,
		Path:    path,
		Version: version,
		Scheme:  scheme,
		Host:    host,
		Headers: headers,
		Body:    body,
	}, nil
}

// parseCurlHeader splits "Key: Value" on the first colon and trims both sides.
func parseCurlHeader(s string) (Header, bool) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return Header{}, false
	}
	return Header{
		Key:   strings.TrimSpace(s[:colon]),
		Value: strings.TrimSpace(s[colon+1:]),
	}, true
}

// SplitURL splits rawURL into scheme, host and path the same way the curl
// converter does, without decoding. Unsupported schemes fall back to https
// and are reported in warnings.
func SplitURL(rawURL string) (scheme, host, path string, warnings []string, err error) {
	var cp curlParser
	scheme, host, path, err = cp.parseCurlURL(rawURL)
	return scheme, host, path, cp.warnings, err
}

// parseCurlURL extracts (scheme, host, path) from a raw URL token without
// decoding it, so placeholders such as %ID% survive untouched. A missing
// scheme defaults to https.
func (cp *curlParser) parseCurlURL(rawURL string) (scheme, host, path string, err error) {
	if rawURL == "" || strings.HasPrefix(rawURL, "-") || strings.HasPrefix(rawURL, "://") {
		return "", "", "", newParseError(ErrCurlInvalidURL, 0, rawURL)
	}

	// Strip URL fragment (#...); fragments are not part of the request.
	u := rawURL
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}

	scheme = "https"
	if i := strings.Index(u, "://"); i >= 0 {
		switch s := strings.ToLower(u[:i]); s {
		case "http", "https":
			scheme = s
		default:
			cp.warn(fmt.Sprintf("unsupported scheme %q, using https", u[:i]))
		}
		u = u[i+3:]
	}

	end := strings.IndexAny(u, "/?")
	if end < 0 {
		host, path = u, "/"
	} else {
		host, path = u[:end], u[end:]
		if path[0] == '?' {
			path = "/" + path
		}
	}
	if host == "" {
		return "", "", "", newParseError(ErrCurlInvalidURL, 0, rawURL)
	}
	return scheme, host, path, nil
}

// shellSplit tokenizes a shell command string respecting single and double quotes.
// It returns an error only for unclosed quotes.
func shellSplit(s string) ([]string, error) {
	var tokens []string
	var cur bytes.Buffer
	inSingle := false
	inDouble := false
	hasContent := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			} else {
				cur.WriteByte(c)
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			} else if c == '\\' && i+1 < len(s) {
				// Inside double quotes only a few chars are escapable.
				next := s[i+1]
				switch next {
				case '"', '\\', '$', '`':
					cur.WriteByte(next)
					i++
				default:
					cur.WriteByte(c) // literal backslash
				}
			} else {
				cur.WriteByte(c)
			}
		case c == '\'':
			inSingle = true
			hasContent = true // empty quotes still yield an empty token
		case c == '"':
			inDouble = true
			hasContent = true
		case c == '\\':
			if i+1 < len(s) {
				cur.WriteByte(s[i+1])
				i++
				hasContent = true
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if hasContent {
				tokens = append(tokens, cur.String())
				cur.Reset()
				hasContent = false
			}
		default:
			cur.WriteByte(c)
			hasContent = true
		}
	}

	if inSingle {
		return nil, fmt.Errorf("unclosed single quote")
	}
	if inDouble {
		return nil, fmt.Errorf("unclosed double quote")
	}
	if hasContent {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// shortArgFlags are the single-char flags that consume an argument.
var shortArgFlags = map[byte]bool{
	'X': true, 'H': true, 'd': true, 'F': true,
	'u': true, 'o': true, 'A': true, 'e': true,
	'm': true, 'w': true, 'x': true, 'b': true,
	'c': true,
}

// expandShortFlag splits a compound short flag (-sS into -s -S). When a flag
// that takes an argument appears inside the compound (-XPOST), the remaining
// characters become its argument, as curl does. Long flags, single-char
// flags, "-#" and non-flags come back as a one-element slice.
func expandShortFlag(tok string) []string {
	if len(tok) <= 2 || tok[0] != '-' || tok[1] == '-' || tok[1] == '#' {
		return []string{tok}
	}
	chars := tok[1:]
	out := make([]string, 0, len(chars))
	for j := 0; j < len(chars); j++ {
		c := chars[j]
		out = append(out, "-"+string(c))
		if shortArgFlags[c] {
			if j+1 < len(chars) {
				out = append(out, chars[j+1:])
			}
			break
		}
	}
	return out
}

// buildMultipartForm encodes -F fields as multipart/form-data with a fixed
// boundary. File upload references (@filename) are skipped with a warning.
func (cp *curlParser) buildMultipartForm(fields []string) (body []byte, boundary string) {
	boundary = "ShapeBurpFormBoundary"
	var buf bytes.Buffer
	for _, field := range fields {
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			cp.warn(fmt.Sprintf("-F value %q has no '=', skipped", field))
			continue
		}
		name := field[:eq]
		value := field[eq+1:]
		if strings.HasPrefix(value, "@") || strings.HasPrefix(value, "<") {
			cp.warn(fmt.Sprintf("-F file upload %q is not supported, skipped", field))
			continue
		}
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString("Content-Disposition: form-data; name=\"" + name + "\"\r\n")
		buf.WriteString("\r\n")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}
	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes(), boundary
}

// urlEncodeField encodes one --data-urlencode argument per curl(1):
//
//	"name=value"   → name=percentEncode(value)
//	"=value"       → percentEncode(value)
//	"value"        → percentEncode(value)
func urlEncodeField(field string) string {
	eq := strings.IndexByte(field, '=')
	switch {
	case eq < 0:
		return percentEncode(field)
	case eq == 0:
		return percentEncode(field[1:])
	default:
		return field[:eq] + "=" + percentEncode(field[eq+1:])
	}
}

// percentEncode percent-encodes a string per RFC 3986 unreserved characters.
func percentEncode(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			buf.WriteByte(c)
		} else {
			fmt.Fprintf(&buf, "%%%02X", c)
		}
	}
	return buf.String()
}
