// Package dataurl decodes the base64 data URLs mobile clients embed in
// site-visit payloads.
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrNotDataURL = errors.New("not a base64 data URL")

// Image is a decoded data-URL payload.
type Image struct {
	ContentType string
	Data        []byte
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// Parse decodes a "data:<mime>;base64,<payload>" string.
func Parse(raw string) (Image, error) {
	if !strings.HasPrefix(raw, "data:") {
		return Image{}, ErrNotDataURL
	}
	meta, payload, found := strings.Cut(raw[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return Image{}, ErrNotDataURL
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		return Image{}, ErrNotDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, ErrNotDataURL
	}
	return Image{ContentType: contentType, Data: data}, nil
}

// Extension maps a content type to a file extension, defaulting to .bin.
func Extension(contentType string) string {
	if ext, ok := extensions[strings.ToLower(contentType)]; ok {
		return ext
	}
	return ".bin"
}
