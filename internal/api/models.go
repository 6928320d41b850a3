package api

import (
	"github.com/google/uuid"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/domain"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/platform/backend"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// SignUpRequest defines the payload for the sign-up endpoint. The length
// floor mirrors the backend's default password policy so obviously doomed
// requests never leave this service; the backend remains the authority.
type SignUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ForgotPasswordRequest defines the payload for the password-reset-email
// endpoint.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest defines the payload for the password-update
// endpoint.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// SwitchStoreRequest defines the payload for the store-switch endpoint.
type SwitchStoreRequest struct {
	StoreID uuid.UUID `json:"store_id" validate:"required"`
}

// SessionResponse is the merged session view returned by login and session
// restoration: either everything is populated together or the session is
// absent, never a partial view.
type SessionResponse struct {
	LoggedIn     bool            `json:"logged_in"`
	User         *backend.User   `json:"user,omitempty"`
	Profile      *domain.Profile `json:"profile,omitempty"`
	Stores       []domain.Store  `json:"stores"`
	CurrentStore *domain.Store   `json:"current_store,omitempty"`
	AccessToken  string          `json:"access_token,omitempty"`
}

// StatusResponse reports the terminal outcome of sign-up and the password
// flows; the consuming screen reads Success once to drive its redirect.
type StatusResponse struct {
	Success bool `json:"success"`
}

// StoresResponse lists the stores visible to the caller.
type StoresResponse struct {
	Stores []domain.Store `json:"stores"`
}

// CurrentStoreResponse carries the result of a store switch: the matching
// store, or null when the requested ID is not among the caller's stores.
type CurrentStoreResponse struct {
	CurrentStore *domain.Store `json:"current_store"`
}
