package platform

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrURLScheme = errors.New("URL must start with http:// or https://")
	ErrURLHost   = errors.New("URL has no host")
)

// ValidateURL accepts empty input and absolute http(s) URLs
func ValidateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	parsed, err := url.Parse(input)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrURLScheme
	}
	if parsed.Host == "" {
		return ErrURLHost
	}
	return nil
}

// CleanURL strips control whitespace pasted along with a URL
func CleanURL(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
