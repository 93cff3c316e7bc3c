// Package redact masks secrets in text that leaves the process as narration
// or journal lines. It is never applied to the local report, which records
// what an infostealer would see.
package redact

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

const Placeholder = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	// Cloud keys
	regexp.MustCompile(`(?i)(aws_access_key_id|aws_secret_access_key|aws_session_token)\s*[=:]\s*['"]?[A-Za-z0-9/+=]{20,}['"]?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`ASIA[0-9A-Z]{16}`),

	// Source forge / registry tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`),
	regexp.MustCompile(`npm_[A-Za-z0-9]{36}`),

	// Generic assignments
	regexp.MustCompile(`(?i)(api_key|apikey|secret_key|access_token|auth_token|password|passwd|secret)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),

	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`),

	// Basic auth in URLs
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),
}

// sensitiveNameParts flag environment variable names whose values are
// credentials. Matching is case-insensitive on substrings.
var sensitiveNameParts = []string{
	"ACCESS_KEY",
	"SECRET",
	"SESSION_TOKEN",
	"TOKEN",
	"PASSWORD",
	"PASSWD",
	"API_KEY",
	"CLIENT_SECRET",
	"DATABASE_URL",
	"CONNECTION_STRING",
	"KUBECONFIG",
}

func Redact(input string) string {
	result := input
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, Placeholder)
	}
	return result
}

// URL strips userinfo and query values from raw so it can be printed.
// Unparseable input falls back to Redact.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Redact(raw)
	}
	if u.User != nil {
		u.User = url.User(Placeholder)
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			q.Set(k, Placeholder)
		}
		u.RawQuery = q.Encode()
	}
	// url.User escapes the brackets; restore them for readability.
	out := u.String()
	out = strings.ReplaceAll(out, url.QueryEscape(Placeholder), Placeholder)
	return strings.ReplaceAll(out, url.PathEscape(Placeholder), Placeholder)
}

// IsSensitiveName reports whether an environment variable name looks like it
// holds a credential.
func IsSensitiveName(name string) bool {
	upper := strings.ToUpper(name)
	for _, part := range sensitiveNameParts {
		if strings.Contains(upper, part) {
			return true
		}
	}
	return false
}

// SensitiveNames returns the sorted names in env that look like credentials.
func SensitiveNames(env map[string]string) []string {
	var names []string
	for name := range env {
		if IsSensitiveName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
