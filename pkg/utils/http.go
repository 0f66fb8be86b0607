// Package utils provides common utility functions.
package utils

import (
	"net/http"
	"net/url"
)

// UserAgent is sent with every request; the statistics portal rejects empty agents.
const UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 ufscraper/1.0"

// IsValidURL reports whether raw is an absolute http, https or file URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "file":
		return u.Path != ""
	}

	return false
}

// BuildHeaders creates HTTP headers with defaults.
func BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	// Add default headers
	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	headers.Set("Accept-Language", "es-CL,es;q=0.9")

	// Add custom headers
	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
