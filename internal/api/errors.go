package api

import (
	"errors"
	"net/http"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/platform/backend"
)

// MapBackendError maps a failed backend call to the HTTP status and message
// this service returns. Backend-reported failures keep their status and
// human-readable message; the backend's text is the user-facing error
// taxonomy. Anything else (network failure, decode failure) becomes a 502
// with a generic message so internal details never leak.
func MapBackendError(err error) (int, string) {
	var backendErr *backend.Error
	if errors.As(err, &backendErr) {
		status := backendErr.Status
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusBadGateway
		}
		return status, backendErr.Message
	}
	return http.StatusBadGateway, "Backend unavailable"
}
