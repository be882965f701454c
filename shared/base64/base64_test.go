package base64_test

import (
	"errors"
	"rento/shared/base64"
	"testing"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "png image", input: pixelPNG, expected: "image/png"},
		{name: "plain text", input: "data:text/plain;base64,SGVsbG8gV29ybGQ=", expected: "text/plain"},
		{name: "empty string", input: "", expected: ""},
		{name: "missing data prefix", input: "image/png;base64,AAAA", expected: ""},
		{name: "missing base64 marker", input: "data:image/png,AAAA", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base64.GetContentType(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	contentType, data, err := base64.Decode("data:text/plain;base64,SGVsbG8gV29ybGQ=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if contentType != "text/plain" {
		t.Errorf("expected text/plain, got %s", contentType)
	}

	if string(data) != "Hello World" {
		t.Errorf("expected decoded payload, got %q", data)
	}

	_, data, err = base64.Decode(pixelPNG)
	if err != nil || len(data) == 0 {
		t.Errorf("expected png payload, got %d bytes, err %v", len(data), err)
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, input := range []string{"", "plain text", "data:image/png;base64,@@not-base64@@"} {
		if _, _, err := base64.Decode(input); !errors.Is(err, base64.ErrInvalidDataURI) {
			t.Errorf("expected ErrInvalidDataURI for %q, got %v", input, err)
		}
	}
}
