package dataurl

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestParseDecodesJPEG(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	raw := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	img, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if img.ContentType != "image/jpeg" {
		t.Fatalf("content type = %q", img.ContentType)
	}
	if len(img.Data) != len(payload) {
		t.Fatalf("data length = %d, want %d", len(img.Data), len(payload))
	}
}

func TestParseRejectsMalformedInputs(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://example.com/pic.jpg",
		"data:image/jpeg,not-base64-marker",
		"data:;base64,aGk=",
		"data:image/jpeg;base64,@@@not-base64@@@",
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrNotDataURL) {
			t.Errorf("Parse(%q) error = %v, want ErrNotDataURL", raw, err)
		}
	}
}

func TestExtension(t *testing.T) {
	if ext := Extension("image/png"); ext != ".png" {
		t.Fatalf("png extension = %q", ext)
	}
	if ext := Extension("application/octet-stream"); ext != ".bin" {
		t.Fatalf("fallback extension = %q", ext)
	}
}
