package generator

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestDecodeIconRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "empty string",
			input: "",
		},
		{
			name:  "plain url",
			input: "https://example.com/icon.png",
		},
		{
			name:  "non-image data uri",
			input: "data:text/plain;base64,aGVsbG8=",
		},
		{
			name:  "missing base64 marker",
			input: "data:image/png,rawbytes",
		},
		{
			name:  "invalid base64 payload",
			input: "data:image/png;base64,not_base64!!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeIcon(tt.input)
			if err == nil {
				t.Fatalf("DecodeIcon(%q) succeeded, want error", tt.input)
			}
			if kind := KindOf(err); kind != KindInvalidIcon {
				t.Fatalf("KindOf(err) = %q, want %q", kind, KindInvalidIcon)
			}
		})
	}
}

func TestDecodeIconRoundTrip(t *testing.T) {
	original := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0xfe, 0xff}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(original)

	decoded, err := DecodeIcon(uri)
	if err != nil {
		t.Fatalf("DecodeIcon() error = %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Fatalf("DecodeIcon() = %v, want %v", decoded, original)
	}
}

func TestDecodeIconAcceptsAnyImageSubtype(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("x"))
	for _, subtype := range []string{"png", "jpeg", "webp", "x-icon"} {
		if _, err := DecodeIcon("data:image/" + subtype + ";base64," + payload); err != nil {
			t.Fatalf("DecodeIcon(image/%s) error = %v", subtype, err)
		}
	}
}
