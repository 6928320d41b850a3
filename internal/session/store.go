// Package session implements the client session store: the in-memory,
// tab-scoped authoritative view of the current user's authentication and
// store-selection state. It sequences action-layer calls into coherent,
// observable transitions; presentation code reads consistent snapshots and
// never mutates state directly.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/actions"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/domain"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/platform/backend"
)

// errProfileUnavailable is the one failure the store names itself: the
// credentials were accepted but the account's profile row could not be
// loaded, so the merge is aborted. Every other user-visible message passes
// through from the backend verbatim.
var errProfileUnavailable = errors.New("unable to load profile for this account")

// ActionLayer is the slice of the action layer the store depends on. It is
// injected at construction so tests can substitute a scripted fake.
type ActionLayer interface {
	LoginWithEmailAndPassword(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error)
	SignUpWithEmailAndPassword(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error)
	Logout(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) *backend.User
	GetProfile(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile
	GetStores(ctx context.Context, accessToken string) []domain.Store
	SendPasswordResetEmail(ctx context.Context, email string) error
	UpdateUserPassword(ctx context.Context, accessToken, password string) error
}

// State is the observable session state. Invariants:
//
//   - IsLoggedIn is true if and only if User is non-nil.
//   - CurrentStore, when non-nil, is an element of Stores; selection is
//     derived by lookup, never set independently.
//   - Err and Success are mutually exclusive outcomes of the most recently
//     completed action; both are cleared at the start of every action and
//     by ResetStatus.
//   - Profile and Stores are only populated together with User.
type State struct {
	User         *backend.User
	Profile      *domain.Profile
	Stores       []domain.Store
	CurrentStore *domain.Store
	Loading      bool
	Err          string
	Success      bool
	IsLoggedIn   bool
}

// Store coordinates asynchronous action-layer calls into a consistent
// in-memory session view. Created once at application start and torn down
// never; reset through its own Logout and ResetStatus operations.
//
// Overlapping invocations of the store's actions are guarded by a
// generation counter: each invocation captures the generation issued at its
// start, and a completion is applied only while its generation is still the
// latest. A slower, earlier call that resolves after a newer one started is
// discarded instead of overwriting the newer result.
type Store struct {
	actions ActionLayer

	mu          sync.Mutex
	gen         uint64
	state       State
	accessToken string
}

// New creates an empty session store on top of the given action layer.
func New(actionLayer ActionLayer) *Store {
	return &Store{actions: actionLayer, state: State{Stores: []domain.Store{}}}
}

// RestoreToken seeds the store with a persisted backend credential so
// CheckUser can attempt session restoration. It does not touch any other
// field; only a successful CheckUser populates the session.
func (s *Store) RestoreToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
}

// AccessToken returns the backend credential of the current session, or ""
// when there is none.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Snapshot returns a consistent copy of the session state. The copy shares
// nothing mutable with the store, so readers can hold it across further
// actions.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

func copyState(st State) State {
	out := st
	if st.User != nil {
		u := *st.User
		out.User = &u
	}
	if st.Profile != nil {
		p := *st.Profile
		out.Profile = &p
	}
	out.Stores = append([]domain.Store(nil), st.Stores...)
	if st.CurrentStore != nil {
		cs := *st.CurrentStore
		out.CurrentStore = &cs
	}
	return out
}

// begin starts a three-phase action: it issues a new generation, sets the
// loading flag, and clears the previous action's outcome.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state.Loading = true
	s.state.Err = ""
	s.state.Success = false
	return s.gen
}

// complete applies the outcome of the invocation that holds gen. When a
// newer invocation has started since, the completion is stale and discarded
// entirely, including the loading flag, which now belongs to the newer
// invocation.
func (s *Store) complete(gen uint64, apply func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	if apply != nil {
		apply(&s.state)
	}
	s.state.Loading = false
}

// Login performs password authentication and, on success, loads the profile
// and store rows concurrently before applying the merged session in a
// single assignment. Either fetch failing aborts the whole merge; there is
// never a half-applied session.
func (s *Store) Login(ctx context.Context, creds actions.Credentials) {
	gen := s.begin()

	data, err := s.actions.LoginWithEmailAndPassword(ctx, creds)
	if err != nil {
		s.complete(gen, func(st *State) {
			st.Err = errMessage(err)
		})
		return
	}
	if data.User == nil {
		// The backend accepted the credentials but issued no identity
		// (e.g. confirmation still pending). Nothing to merge.
		s.complete(gen, nil)
		return
	}

	profile, stores, err := s.fetchSessionData(ctx, data.AccessToken, data.User.ID)
	if err != nil {
		s.complete(gen, func(st *State) {
			st.Err = errMessage(err)
		})
		return
	}

	user := data.User
	token := data.AccessToken
	s.complete(gen, func(st *State) {
		s.applyMerge(st, user, profile, stores, token)
	})
}

// CheckUser restores a session from a previously persisted backend
// credential, performing the same concurrent fetch and merge as Login.
// Every failure is swallowed: no prior session is an expected state on
// first visit and must not surface as a user-visible error.
func (s *Store) CheckUser(ctx context.Context) {
	gen := s.begin()

	token := s.AccessToken()
	user := s.actions.GetUser(ctx, token)
	if user == nil {
		s.complete(gen, nil)
		return
	}

	profile, stores, err := s.fetchSessionData(ctx, token, user.ID)
	if err != nil {
		s.complete(gen, nil)
		return
	}

	s.complete(gen, func(st *State) {
		s.applyMerge(st, user, profile, stores, token)
	})
}

// fetchSessionData loads the profile and store rows concurrently and waits
// for both before returning, so a merge never observes one without the
// other. A missing profile is reported as an error; stores degrade to an
// empty collection inside the action layer and cannot fail here.
func (s *Store) fetchSessionData(
	ctx context.Context,
	accessToken string,
	userID uuid.UUID,
) (*domain.Profile, []domain.Store, error) {
	var (
		profile *domain.Profile
		stores  []domain.Store
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile = s.actions.GetProfile(gctx, accessToken, userID)
		if profile == nil {
			return errProfileUnavailable
		}
		return nil
	})
	g.Go(func() error {
		stores = s.actions.GetStores(gctx, accessToken)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profile, stores, nil
}

// applyMerge assigns the authenticated session as a unit. Must run under
// the store lock (inside complete).
func (s *Store) applyMerge(
	st *State,
	user *backend.User,
	profile *domain.Profile,
	stores []domain.Store,
	accessToken string,
) {
	if stores == nil {
		stores = []domain.Store{}
	}
	st.User = user
	st.Profile = profile
	st.Stores = stores
	if len(stores) > 0 {
		first := stores[0]
		st.CurrentStore = &first
	} else {
		st.CurrentStore = nil
	}
	st.IsLoggedIn = true
	s.accessToken = accessToken
}

// Logout invalidates the backend session and, on success, clears every
// session field as a unit. On failure the session fields are left
// untouched and only Err is set; a stale-but-unauthenticated backend state
// is an accepted limitation.
func (s *Store) Logout(ctx context.Context) {
	gen := s.begin()

	token := s.AccessToken()
	if err := s.actions.Logout(ctx, token); err != nil {
		s.complete(gen, func(st *State) {
			st.Err = errMessage(err)
		})
		return
	}

	s.complete(gen, func(st *State) {
		st.User = nil
		st.Profile = nil
		st.Stores = []domain.Store{}
		st.CurrentStore = nil
		st.IsLoggedIn = false
		s.accessToken = ""
	})
}

// SignUp registers a new identity. On success it sets Success only; it
// deliberately does not populate User, matching the backend's
// confirm-before-login policy.
func (s *Store) SignUp(ctx context.Context, creds actions.Credentials) {
	gen := s.begin()

	if _, err := s.actions.SignUpWithEmailAndPassword(ctx, creds); err != nil {
		s.complete(gen, func(st *State) {
			st.Err = errMessage(err)
		})
		return
	}
	s.complete(gen, func(st *State) {
		st.Success = true
	})
}

// ForgotPassword triggers a backend-sent password-reset email.
func (s *Store) ForgotPassword(ctx context.Context, email string) {
	gen := s.begin()

	if err := s.actions.SendPasswordResetEmail(ctx, email); err != nil {
		s.complete(gen, func(st *State) {
			st.Err = errMessage(err)
		})
		return
	}
	s.complete(gen, func(st *State) {
		st.Success = true
	})
}

// UpdatePassword updates the password of the authenticated session.
func (s *Store) UpdatePassword(ctx context.Context, password string) {
	gen := s.begin()

	token := s.AccessToken()
	if err := s.actions.UpdateUserPassword(ctx, token, password); err != nil {
		s.complete(gen, func(st *State) {
			st.Err = errMessage(err)
		})
		return
	}
	s.complete(gen, func(st *State) {
		st.Success = true
	})
}

// SwitchStore points the current-store selection at the store with the
// given ID, or clears it when no fetched store matches. Synchronous, no
// network call; never mutates Stores.
func (s *Store) SwitchStore(storeID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := domain.FindStore(s.state.Stores, storeID)
	if !ok {
		s.state.CurrentStore = nil
		return
	}
	selected := *match
	s.state.CurrentStore = &selected
}

// ResetStatus clears Err and Success without touching any other field.
// Invoked when a view mounts or unmounts so stale status never bleeds into
// the next screen.
func (s *Store) ResetStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
	s.state.Success = false
}

// errMessage reduces any failure to the string surfaced in State.Err. For
// backend-reported failures that is the backend's human-readable message,
// passed through unmodified.
func errMessage(err error) string {
	var backendErr *backend.Error
	if errors.As(err, &backendErr) {
		return backendErr.Message
	}
	return err.Error()
}
