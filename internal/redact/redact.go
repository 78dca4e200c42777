// Package redact strips sensitive material from strings before they reach
// logs or error responses: connection strings, token values, secrets, and
// email addresses that tend to ride along inside wrapped errors.
package redact

import "regexp"

// Redaction placeholders.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
)

var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// JWTs: three base64url segments starting with the standard header prefix
	jwtRegex = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// Opaque hex secrets of refresh-token length or longer
	hexSecretRegex = regexp.MustCompile(`\b[0-9a-f]{64,}\b`)

	// Inline password/secret assignments
	secretRegex = regexp.MustCompile(`(?i)(password|secret|token)(['":=\s]+)[^'"&\s]{6,}`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String returns s with all recognized sensitive patterns replaced by
// placeholders.
func String(s string) string {
	if s == "" {
		return s
	}

	s = dbConnRegex.ReplaceAllString(s, CredentialPlaceholder+"@")
	s = jwtRegex.ReplaceAllString(s, TokenPlaceholder)
	s = hexSecretRegex.ReplaceAllString(s, TokenPlaceholder)
	s = secretRegex.ReplaceAllString(s, "$1$2"+CredentialPlaceholder)
	s = emailRegex.ReplaceAllString(s, EmailPlaceholder)

	return s
}

// Error redacts the message of err. Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
