package burp

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// ErrNotLatin1 is returned when text holds a rune that ISO-8859-1 cannot
// represent.
var ErrNotLatin1 = errors.New("burp: text is not representable in ISO-8859-1")

// EncodeLatin1 encodes UTF-8 text as ISO-8859-1, one byte per rune. It fails
// on runes above U+00FF and on invalid UTF-8 rather than substituting them.
func EncodeLatin1(s string) ([]byte, error) {
	for i, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: %q at byte %d", ErrNotLatin1, r, i)
		}
	}
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLatin1, err)
	}
	return b, nil
}

// DecodeLatin1 decodes ISO-8859-1 bytes into UTF-8 text. Every byte maps to
// exactly one rune, so decoding never fails.
func DecodeLatin1(b []byte) string {
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(s)
}
