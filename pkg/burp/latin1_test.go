package burp

import (
	"errors"
	"testing"
)

func TestEncodeLatin1(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain ascii", "plain ascii"},
		{"café", "caf\xe9"},
		{"ÿ\u0080\u0000", "\xff\x80\x00"},
	}
	for _, tt := range tests {
		got, err := EncodeLatin1(tt.in)
		if err != nil {
			t.Errorf("EncodeLatin1(%q) error = %v", tt.in, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("EncodeLatin1(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeLatin1_Unrepresentable(t *testing.T) {
	for _, in := range []string{"€", "日本", "aĀ", "\xff"} {
		if _, err := EncodeLatin1(in); !errors.Is(err, ErrNotLatin1) {
			t.Errorf("EncodeLatin1(%q) error = %v, want ErrNotLatin1", in, err)
		}
	}
}

func TestDecodeLatin1_AllBytes(t *testing.T) {
	raw := make([]byte, 256)
	for i := range raw {
		raw[i] = byte(i)
	}
	text := DecodeLatin1(raw)
	i := 0
	for _, r := range text {
		if r != rune(i) {
			t.Fatalf("rune %d = %U, want %U", i, r, rune(i))
		}
		i++
	}
	if i != 256 {
		t.Fatalf("decoded %d runes, want 256", i)
	}

	back, err := EncodeLatin1(text)
	if err != nil {
		t.Fatal(err)
	}
	if string(back) != string(raw) {
		t.Error("EncodeLatin1(DecodeLatin1(b)) != b")
	}
}
