package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a failure reported by the hosted backend. Message carries the
// backend's human-readable text and is surfaced to users verbatim.
type Error struct {
	Status  int    // HTTP status of the failing response
	Code    string // backend error code, when one was provided
	Message string // human-readable failure reason
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error (status %d, code %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// IsAuthError reports whether the error means the caller's credential was
// missing, invalid, or expired.
func (e *Error) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// errorBody covers the shapes the backend uses across its identity and row
// APIs. Older identity endpoints reply {"error": ..., "error_description": ...},
// newer ones {"error_code": ..., "msg": ...}; the row API replies
// {"code": ..., "message": ...}.
type errorBody struct {
	ErrorField       string          `json:"error"`
	ErrorCode        string          `json:"error_code"`
	ErrorDescription string          `json:"error_description"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Code             json.RawMessage `json:"code"`
}

// decodeError turns a non-2xx backend response into *Error, preferring the
// most specific message the body offers and falling back to the HTTP status
// text when the body is unusable.
func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(raw) == 0 {
		return e
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return e
	}

	switch {
	case body.Msg != "":
		e.Message = body.Msg
	case body.Message != "":
		e.Message = body.Message
	case body.ErrorDescription != "":
		e.Message = body.ErrorDescription
	case body.ErrorField != "":
		e.Message = body.ErrorField
	}

	switch {
	case body.ErrorCode != "":
		e.Code = body.ErrorCode
	case len(body.Code) > 0:
		// The row API sends string codes, the identity API numeric ones.
		var s string
		if err := json.Unmarshal(body.Code, &s); err == nil {
			e.Code = s
		}
	case body.ErrorField != "" && body.ErrorDescription != "":
		e.Code = body.ErrorField
	}

	return e
}
