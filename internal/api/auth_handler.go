package api

import (
	"net/http"
	"strings"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/actions"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/api/shared"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/session"
)

// AuthHandler handles the authentication endpoints. Login and session
// restoration run through a session store so the response is always the
// atomically merged view; the terminal flows (sign-up, logout, password
// reset/update) wrap a single action-layer call apiece.
type AuthHandler struct {
	actions *actions.Actions
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(actionLayer *actions.Actions) *AuthHandler {
	return &AuthHandler{actions: actionLayer}
}

// sessionResponse flattens a session snapshot into the wire shape.
func sessionResponse(store *session.Store) SessionResponse {
	st := store.Snapshot()
	return SessionResponse{
		LoggedIn:     st.IsLoggedIn,
		User:         st.User,
		Profile:      st.Profile,
		Stores:       st.Stores,
		CurrentStore: st.CurrentStore,
		AccessToken:  store.AccessToken(),
	}
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	store := session.New(h.actions)
	store.Login(r.Context(), actions.Credentials{Email: req.Email, Password: req.Password})

	if st := store.Snapshot(); st.Err != "" {
		// The session store carries the backend's reason verbatim.
		shared.RespondWithError(w, r, http.StatusUnauthorized, st.Err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse(store))
}

// Session handles the /auth/session endpoint: restoration of a session from
// a previously issued backend credential. Absence of a session is a normal
// state, so the response is always 200, with or without a user.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	store := session.New(h.actions)
	if token := bearerToken(r); token != "" {
		store.RestoreToken(token)
	}
	store.CheckUser(r.Context())

	shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse(store))
}

// SignUp handles the /auth/signup endpoint. Success reports only a status:
// the backend's confirm-before-login policy means registration never yields
// an authenticated session.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	creds := actions.Credentials{Email: req.Email, Password: req.Password}
	if _, err := h.actions.SignUpWithEmailAndPassword(r.Context(), creds); err != nil {
		status, message := MapBackendError(err)
		shared.RespondWithError(w, r, status, message)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, StatusResponse{Success: true})
}

// Logout handles the /auth/logout endpoint.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := shared.GetAccessToken(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	if err := h.actions.Logout(r.Context(), token); err != nil {
		status, message := MapBackendError(err)
		shared.RespondWithError(w, r, status, message)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Success: true})
}

// ForgotPassword handles the /auth/forgot-password endpoint.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.actions.SendPasswordResetEmail(r.Context(), req.Email); err != nil {
		status, message := MapBackendError(err)
		shared.RespondWithError(w, r, status, message)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Success: true})
}

// UpdatePassword handles the /auth/update-password endpoint.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	token, ok := shared.GetAccessToken(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	var req UpdatePasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.actions.UpdateUserPassword(r.Context(), token, req.Password); err != nil {
		status, message := MapBackendError(err)
		shared.RespondWithError(w, r, status, message)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Success: true})
}

// bearerToken leniently extracts a bearer token, returning "" when the
// header is missing or malformed. Used where an absent credential is a
// normal state rather than a rejection.
func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
