package logging

import (
	"net/url"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

// RedactedValue replaces anything that looks like a credential.
const RedactedValue = "[REDACTED]"

// Query parameters and form fields whose values are masked.
var sensitiveFields = []string{
	"auth",
	"credential",
	"key",
	"password",
	"secret",
	"session",
	"sig",
	"token",
}

var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+[a-z0-9._~+/-]{20,}=*`),
	regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36}\b`),
	regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9]{22}_[A-Za-z0-9]+`),
	regexp.MustCompile(`(?i)\b(?:key|token|secret|password|auth)[=:]["']?[A-Za-z0-9+/=_-]{32,}["']?`),
}

var strictURL = xurls.Strict()

// Redact masks token-shaped substrings in s and credentials carried by any
// absolute URLs it contains.
func Redact(s string) string {
	s = strictURL.ReplaceAllStringFunc(s, RedactURL)
	for _, pattern := range tokenPatterns {
		s = pattern.ReplaceAllString(s, RedactedValue)
	}
	return s
}

// RedactURL masks userinfo and sensitive query values so raw can be logged.
// Input without a host is passed through Redact's token patterns only.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		for _, pattern := range tokenPatterns {
			raw = pattern.ReplaceAllString(raw, RedactedValue)
		}
		return raw
	}
	if u.User != nil {
		u.User = url.User(RedactedValue)
	}
	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if IsSensitiveField(name) {
				q.Set(name, RedactedValue)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// IsSensitiveField reports whether a parameter named name should be masked.
func IsSensitiveField(name string) bool {
	name = strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}
