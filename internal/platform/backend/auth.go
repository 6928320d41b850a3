package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// User is the identity record held by the backend's identity service. The
// application caches a read-only copy for the duration of a session.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Session is the credential bundle issued on successful authentication.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// signUpResponse covers both backend policies: with email confirmation
// required the body is a bare user record, without it a full session.
type signUpResponse struct {
	Session
	// Bare user fields, populated when confirmation is pending.
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// SignInWithPassword attempts password authentication. On success the
// returned session carries the access token and the identity record; on
// failure the error is a *Error with the backend's reason (invalid
// credentials, unconfirmed email, and so on). Single attempt, no retry.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	query := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", query, nil, body, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a new identity. Success does not imply immediate login:
// under the backend's confirm-before-login policy the returned session has
// no access token and only identifies the pending user.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp signUpResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, nil, body, "", &resp); err != nil {
		return nil, err
	}

	session := resp.Session
	if session.User == nil && resp.ID != uuid.Nil {
		session.User = &User{ID: resp.ID, Email: resp.Email}
	}
	return &session, nil
}

// SignOut invalidates the session the access token belongs to.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil, accessToken, nil)
}

// GetUser returns the identity the access token authenticates.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, nil, nil, accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SendPasswordReset asks the backend to email a password-reset link.
// redirectTo is where the emailed link lands after the backend verifies it.
func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/v1/recover", query, nil, body, "", nil)
}

// UpdatePassword changes the password of the authenticated session.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) (*User, error) {
	body := map[string]string{"password": newPassword}

	var user User
	if err := c.do(ctx, http.MethodPut, "/auth/v1/user", nil, nil, body, accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
