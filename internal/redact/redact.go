// Package redact strips credential material from strings before they are
// logged. This service handles passwords and backend-issued tokens on every
// authentication request, and backend error text can echo parts of the
// request back; redaction keeps that material out of the log stream. It is
// never applied to client-facing responses, which must carry the backend's
// message verbatim.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedToken      = "[REDACTED_TOKEN]"
	RedactedEmail      = "[REDACTED_EMAIL]"
	RedactedKey        = "[REDACTED_KEY]"
)

var (
	// password=..., "password": "..." and friends
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)(['"]?[=:\s]['"]?)[^'"&\s]{1,}`)

	// Three-part base64url JWTs, the shape of every backend access token.
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// apikey headers and similar key/secret assignments
	apiKeyRegex = regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret|bearer)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts credential material from the input. Order matters: JWTs
// before generic key patterns, so a bearer token gets the token placeholder.
func String(input string) string {
	if input == "" {
		return input
	}
	out := passwordRegex.ReplaceAllString(input, "${1}${2}"+RedactedCredential)
	out = jwtRegex.ReplaceAllString(out, RedactedToken)
	out = apiKeyRegex.ReplaceAllString(out, "${1}${2}"+RedactedKey)
	out = emailRegex.ReplaceAllString(out, RedactedEmail)
	return out
}

// Error redacts an error's Error() output. Nil yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
