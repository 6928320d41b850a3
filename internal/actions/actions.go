// Package actions is the server-side action layer: a narrow set of
// stateless operations, each wrapping exactly one backend call on a fresh
// connection handle, with results normalized for the session store.
//
// Two result conventions live here, mirroring how callers consume them:
// operations whose failure the user must see (login, sign-up, password
// flows) return the backend error as-is, while the best-effort readers
// (GetUser, GetProfile, GetStores) treat absence as a normal state and
// log and return a zero value instead of propagating.
package actions

import (
	"context"
	"log/slog"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/config"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/domain"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/platform/backend"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/redact"

	"github.com/google/uuid"
)

// Table names in the hosted backend's row API.
const (
	profilesTable = "profiles"
	storesTable   = "stores"
)

// updatePasswordPath is where the emailed reset link lands, relative to the
// application base URL.
const updatePasswordPath = "/auth/update-password"

// Credentials is an email/password pair.
type Credentials struct {
	Email    string
	Password string
}

// AuthData is the normalized result of an authentication operation.
type AuthData struct {
	User         *backend.User
	AccessToken  string
	RefreshToken string
}

// Actions holds the configuration needed to reach the backend. It carries
// no session state; callers pass their access token per operation.
type Actions struct {
	cfg config.Config
}

// New creates the action layer from application configuration.
func New(cfg config.Config) *Actions {
	return &Actions{cfg: cfg}
}

// client constructs a fresh backend handle. Handles are cheap and never
// shared across calls.
func (a *Actions) client() (*backend.Client, error) {
	return backend.New(a.cfg.Backend)
}

// LoginWithEmailAndPassword attempts password authentication. A single
// attempt; the backend's failure reason comes back verbatim on error.
func (a *Actions) LoginWithEmailAndPassword(ctx context.Context, creds Credentials) (*AuthData, error) {
	client, err := a.client()
	if err != nil {
		return nil, err
	}
	session, err := client.SignInWithPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	return &AuthData{
		User:         session.User,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, nil
}

// SignUpWithEmailAndPassword registers a new identity. Success does not
// imply login: under the backend's confirm-before-login policy the returned
// AuthData has no access token.
func (a *Actions) SignUpWithEmailAndPassword(ctx context.Context, creds Credentials) (*AuthData, error) {
	client, err := a.client()
	if err != nil {
		return nil, err
	}
	session, err := client.SignUp(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	return &AuthData{
		User:         session.User,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, nil
}

// Logout invalidates the backend session the token belongs to.
func (a *Actions) Logout(ctx context.Context, accessToken string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	return client.SignOut(ctx, accessToken)
}

// GetUser returns the identity the token authenticates, or nil when no
// valid session exists or the lookup fails. Absence of a session is a
// normal state, not an error, so the failure is never propagated.
func (a *Actions) GetUser(ctx context.Context, accessToken string) *backend.User {
	client, err := a.client()
	if err != nil {
		return nil
	}
	user, err := client.GetUser(ctx, accessToken)
	if err != nil {
		return nil
	}
	return user
}

// GetProfile fetches the single profile row matching userID. Returns nil
// and logs on any fetch error, including the single-row fetch treating
// zero or multiple rows as an error.
func (a *Actions) GetProfile(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile {
	client, err := a.client()
	if err != nil {
		slog.Error("failed to construct backend client", "error", redact.Error(err))
		return nil
	}

	var profile domain.Profile
	filters := backend.Filters{"id": userID.String()}
	if err := client.SingleRow(ctx, accessToken, profilesTable, filters, &profile); err != nil {
		slog.Error("failed to fetch profile", "error", redact.Error(err), "user_id", userID)
		return nil
	}
	return &profile
}

// GetStores fetches every store row visible to the caller under the
// backend's row-level security. Returns an empty collection on error rather
// than propagating.
func (a *Actions) GetStores(ctx context.Context, accessToken string) []domain.Store {
	client, err := a.client()
	if err != nil {
		slog.Error("failed to construct backend client", "error", redact.Error(err))
		return []domain.Store{}
	}

	var stores []domain.Store
	if err := client.SelectRows(ctx, accessToken, storesTable, nil, &stores); err != nil {
		slog.Error("failed to fetch stores", "error", redact.Error(err))
		return []domain.Store{}
	}
	if stores == nil {
		stores = []domain.Store{}
	}
	return stores
}

// SendPasswordResetEmail triggers a backend-sent reset email whose link
// redirects to this application's update-password screen.
func (a *Actions) SendPasswordResetEmail(ctx context.Context, email string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	redirectTo := a.cfg.App.BaseURL + updatePasswordPath
	return client.SendPasswordReset(ctx, email, redirectTo)
}

// UpdateUserPassword updates the password of the authenticated session.
func (a *Actions) UpdateUserPassword(ctx context.Context, accessToken, password string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	_, err = client.UpdatePassword(ctx, accessToken, password)
	return err
}
