package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1234/products/abc123.jpg": "products/abc123",
		"https://res.cloudinary.com/demo/image/upload/products/abc123.png":       "products/abc123",
		"https://res.cloudinary.com/demo/image/upload/v99/solo.webp":             "solo",
		"https://example.com/no-upload-segment.jpg":                              "",
	}
	for url, want := range cases {
		assert.Equal(t, want, ExtractPublicID(url), url)
	}
}
