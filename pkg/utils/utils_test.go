package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "Unidad de fomento (UF)", NormalizeWhitespace("  Unidad\n\tde fomento   (UF) "))
	assert.Equal(t, "", NormalizeWhitespace(" \n "))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab...", TruncateString("abcdef", 2))
	assert.Equal(t, "Índ...", TruncateString("Índice", 3))
}

func TestIsValidURL(t *testing.T) {
	tests := map[string]bool{
		"https://si3.bcentral.cl/Siete/ES/Siete/Cuadro/CAP_PRECIOS": true,
		"http://localhost:8080/uf":                                   true,
		"file:///tmp/raw.html":                                       true,
		"ftp://example.com/uf":                                       false,
		"https://":                                                   false,
		"raw.html":                                                   false,
		"file://":                                                    false,
	}

	for raw, want := range tests {
		assert.Equal(t, want, IsValidURL(raw), raw)
	}
}

func TestBuildHeaders(t *testing.T) {
	h := BuildHeaders(map[string]string{"Accept-Language": "en"})

	assert.Equal(t, UserAgent, h.Get("User-Agent"))
	assert.Equal(t, "en", h.Get("Accept-Language"))
	assert.Contains(t, h.Get("Accept"), "text/html")
}
