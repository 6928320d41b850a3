package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/actions"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/domain"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/platform/backend"
)

// fakeActions is a scripted action layer. Unset functions fall back to
// benign defaults so each test only scripts what it cares about.
type fakeActions struct {
	loginFn    func(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error)
	signUpFn   func(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error)
	logoutFn   func(ctx context.Context, accessToken string) error
	getUserFn  func(ctx context.Context, accessToken string) *backend.User
	profileFn  func(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile
	storesFn   func(ctx context.Context, accessToken string) []domain.Store
	forgotFn   func(ctx context.Context, email string) error
	updatePwFn func(ctx context.Context, accessToken, password string) error
}

func (f *fakeActions) LoginWithEmailAndPassword(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, creds)
	}
	return &actions.AuthData{}, nil
}

func (f *fakeActions) SignUpWithEmailAndPassword(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error) {
	if f.signUpFn != nil {
		return f.signUpFn(ctx, creds)
	}
	return &actions.AuthData{}, nil
}

func (f *fakeActions) Logout(ctx context.Context, accessToken string) error {
	if f.logoutFn != nil {
		return f.logoutFn(ctx, accessToken)
	}
	return nil
}

func (f *fakeActions) GetUser(ctx context.Context, accessToken string) *backend.User {
	if f.getUserFn != nil {
		return f.getUserFn(ctx, accessToken)
	}
	return nil
}

func (f *fakeActions) GetProfile(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile {
	if f.profileFn != nil {
		return f.profileFn(ctx, accessToken, userID)
	}
	return nil
}

func (f *fakeActions) GetStores(ctx context.Context, accessToken string) []domain.Store {
	if f.storesFn != nil {
		return f.storesFn(ctx, accessToken)
	}
	return []domain.Store{}
}

func (f *fakeActions) SendPasswordResetEmail(ctx context.Context, email string) error {
	if f.forgotFn != nil {
		return f.forgotFn(ctx, email)
	}
	return nil
}

func (f *fakeActions) UpdateUserPassword(ctx context.Context, accessToken, password string) error {
	if f.updatePwFn != nil {
		return f.updatePwFn(ctx, accessToken, password)
	}
	return nil
}

// happyActions scripts a fully successful login environment.
func happyActions(user *backend.User, profile *domain.Profile, stores []domain.Store) *fakeActions {
	return &fakeActions{
		loginFn: func(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error) {
			return &actions.AuthData{User: user, AccessToken: "token-123"}, nil
		},
		getUserFn: func(ctx context.Context, accessToken string) *backend.User {
			if accessToken == "token-123" {
				return user
			}
			return nil
		},
		profileFn: func(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile {
			return profile
		},
		storesFn: func(ctx context.Context, accessToken string) []domain.Store {
			return stores
		},
	}
}

func testUser() *backend.User {
	return &backend.User{ID: uuid.New(), Email: "ava@example.com"}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, FullName: "Ava Chen", Role: domain.RoleOwner}
	stores := []domain.Store{
		{ID: uuid.New(), Name: "Downtown"},
		{ID: uuid.New(), Name: "Uptown"},
	}

	store := New(happyActions(user, profile, stores))
	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})

	st := store.Snapshot()
	assert.True(t, st.IsLoggedIn)
	require.NotNil(t, st.User)
	assert.Equal(t, user.ID, st.User.ID)
	require.NotNil(t, st.Profile)
	assert.Equal(t, domain.RoleOwner, st.Profile.Role)
	assert.Equal(t, stores, st.Stores)
	require.NotNil(t, st.CurrentStore)
	assert.Equal(t, stores[0], *st.CurrentStore)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	assert.Equal(t, "token-123", store.AccessToken())
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	fake := &fakeActions{
		loginFn: func(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error) {
			return nil, &backend.Error{Status: 400, Code: "invalid_credentials", Message: "Invalid login credentials"}
		},
	}

	store := New(fake)
	store.Login(context.Background(), actions.Credentials{Email: "ava@example.com", Password: "wrong"})

	st := store.Snapshot()
	assert.False(t, st.IsLoggedIn)
	assert.Nil(t, st.User)
	// The backend's message text surfaces unmodified.
	assert.Equal(t, "Invalid login credentials", st.Err)
	assert.False(t, st.Loading)
	assert.False(t, st.Success)
}

func TestLoginProfileFetchFailureAbortsMerge(t *testing.T) {
	t.Parallel()

	user := testUser()
	fake := happyActions(user, nil, []domain.Store{{ID: uuid.New(), Name: "Downtown"}})
	fake.profileFn = func(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile {
		return nil // fetch failed; the action layer swallowed and logged it
	}

	store := New(fake)
	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})

	st := store.Snapshot()
	// No partial merge: user stays unset and the failure is surfaced.
	assert.False(t, st.IsLoggedIn)
	assert.Nil(t, st.User)
	assert.Nil(t, st.Profile)
	assert.Empty(t, st.Stores)
	assert.Nil(t, st.CurrentStore)
	assert.NotEmpty(t, st.Err)
	assert.False(t, st.Loading)
}

func TestLoginWithNoStores(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, Role: domain.RoleStaff}
	store := New(happyActions(user, profile, []domain.Store{}))

	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})

	st := store.Snapshot()
	assert.True(t, st.IsLoggedIn)
	assert.Empty(t, st.Stores)
	assert.Nil(t, st.CurrentStore)
}

func TestSignUpDoesNotLogIn(t *testing.T) {
	t.Parallel()

	store := New(&fakeActions{})
	store.SignUp(context.Background(), actions.Credentials{Email: "new@example.com", Password: "pw"})

	st := store.Snapshot()
	assert.True(t, st.Success)
	assert.Nil(t, st.User)
	assert.False(t, st.IsLoggedIn)
	assert.Empty(t, st.Err)
}

func TestSignUpError(t *testing.T) {
	t.Parallel()

	fake := &fakeActions{
		signUpFn: func(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error) {
			return nil, &backend.Error{Status: 422, Code: "user_already_exists", Message: "User already registered"}
		},
	}
	store := New(fake)
	store.SignUp(context.Background(), actions.Credentials{Email: "dup@example.com", Password: "pw"})

	st := store.Snapshot()
	assert.False(t, st.Success)
	assert.Equal(t, "User already registered", st.Err)
}

func TestLogoutClearsSessionAsUnit(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, Role: domain.RoleManager}
	stores := []domain.Store{{ID: uuid.New(), Name: "Downtown"}}
	store := New(happyActions(user, profile, stores))

	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})
	require.True(t, store.Snapshot().IsLoggedIn)

	store.Logout(context.Background())

	st := store.Snapshot()
	assert.False(t, st.IsLoggedIn)
	assert.Nil(t, st.User)
	assert.Nil(t, st.Profile)
	assert.Empty(t, st.Stores)
	assert.Nil(t, st.CurrentStore)
	assert.Empty(t, st.Err)
	assert.Empty(t, store.AccessToken())
}

func TestLogoutFailureLeavesSessionUntouched(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, Role: domain.RoleOwner}
	stores := []domain.Store{{ID: uuid.New(), Name: "Downtown"}}
	fake := happyActions(user, profile, stores)
	fake.logoutFn = func(ctx context.Context, accessToken string) error {
		return &backend.Error{Status: 503, Message: "Service unavailable"}
	}

	store := New(fake)
	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})
	store.Logout(context.Background())

	st := store.Snapshot()
	// Stale-but-unauthenticated is accepted: only Err changes.
	assert.True(t, st.IsLoggedIn)
	require.NotNil(t, st.User)
	assert.Equal(t, "Service unavailable", st.Err)
	assert.Equal(t, "token-123", store.AccessToken())
}

func TestLogoutThenCheckUser(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, Role: domain.RoleOwner}
	store := New(happyActions(user, profile, nil))

	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})
	store.Logout(context.Background())
	store.CheckUser(context.Background())

	st := store.Snapshot()
	assert.False(t, st.IsLoggedIn)
	assert.Empty(t, st.Err)
	assert.False(t, st.Loading)
}

func TestCheckUserRestoresSession(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, FullName: "Ava Chen", Role: domain.RoleOwner}
	stores := []domain.Store{{ID: uuid.New(), Name: "Downtown"}}

	store := New(happyActions(user, profile, stores))
	store.RestoreToken("token-123")
	store.CheckUser(context.Background())

	st := store.Snapshot()
	assert.True(t, st.IsLoggedIn)
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Ava Chen", st.Profile.FullName)
	require.NotNil(t, st.CurrentStore)
	assert.Equal(t, stores[0], *st.CurrentStore)
}

func TestCheckUserSwallowsFailures(t *testing.T) {
	t.Parallel()

	t.Run("no session", func(t *testing.T) {
		t.Parallel()
		store := New(&fakeActions{})
		store.CheckUser(context.Background())

		st := store.Snapshot()
		assert.False(t, st.IsLoggedIn)
		assert.Empty(t, st.Err)
	})

	t.Run("profile fetch failure", func(t *testing.T) {
		t.Parallel()
		user := testUser()
		fake := happyActions(user, nil, nil)
		store := New(fake)
		store.RestoreToken("token-123")
		store.CheckUser(context.Background())

		st := store.Snapshot()
		// Restoration failure is silent: no session, no error.
		assert.False(t, st.IsLoggedIn)
		assert.Nil(t, st.User)
		assert.Empty(t, st.Err)
		assert.False(t, st.Loading)
	})
}

func TestSwitchStore(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, Role: domain.RoleOwner}
	storeA := domain.Store{ID: uuid.New(), Name: "Downtown"}
	storeB := domain.Store{ID: uuid.New(), Name: "Uptown"}

	store := New(happyActions(user, profile, []domain.Store{storeA, storeB}))
	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})

	st := store.Snapshot()
	require.NotNil(t, st.CurrentStore)
	assert.Equal(t, storeA, *st.CurrentStore)

	store.SwitchStore(storeB.ID)
	st = store.Snapshot()
	require.NotNil(t, st.CurrentStore)
	assert.Equal(t, storeB, *st.CurrentStore)

	// An absent ID clears the selection.
	store.SwitchStore(uuid.New())
	st = store.Snapshot()
	assert.Nil(t, st.CurrentStore)
	// Stores themselves are never mutated.
	assert.Equal(t, []domain.Store{storeA, storeB}, st.Stores)
}

func TestResetStatus(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, Role: domain.RoleOwner}
	stores := []domain.Store{{ID: uuid.New(), Name: "Downtown"}}
	fake := happyActions(user, profile, stores)
	fake.updatePwFn = func(ctx context.Context, accessToken, password string) error {
		return &backend.Error{Status: 422, Message: "Password should be at least 6 characters."}
	}

	store := New(fake)
	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})
	store.UpdatePassword(context.Background(), "tiny")

	st := store.Snapshot()
	require.Equal(t, "Password should be at least 6 characters.", st.Err)

	store.ResetStatus()

	st = store.Snapshot()
	assert.Empty(t, st.Err)
	assert.False(t, st.Success)
	// Everything else is untouched.
	assert.True(t, st.IsLoggedIn)
	require.NotNil(t, st.User)
	assert.Equal(t, stores, st.Stores)
}

func TestForgotAndUpdatePasswordSuccess(t *testing.T) {
	t.Parallel()

	store := New(&fakeActions{})

	store.ForgotPassword(context.Background(), "ava@example.com")
	assert.True(t, store.Snapshot().Success)

	store.UpdatePassword(context.Background(), "new-password")
	st := store.Snapshot()
	assert.True(t, st.Success)
	assert.Empty(t, st.Err)
}

func TestOverlappingLoginsLatestWins(t *testing.T) {
	t.Parallel()

	userSlow := &backend.User{ID: uuid.New(), Email: "slow@example.com"}
	userFast := &backend.User{ID: uuid.New(), Email: "fast@example.com"}
	profileFor := func(u *backend.User) *domain.Profile {
		return &domain.Profile{ID: u.ID, Role: domain.RoleOwner}
	}

	release := make(chan struct{})
	started := make(chan struct{})

	fake := &fakeActions{
		loginFn: func(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error) {
			if creds.Email == userSlow.Email {
				close(started)
				<-release // hold the first invocation until the second finished
				return &actions.AuthData{User: userSlow, AccessToken: "slow-token"}, nil
			}
			return &actions.AuthData{User: userFast, AccessToken: "fast-token"}, nil
		},
		profileFn: func(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile {
			if userID == userSlow.ID {
				return profileFor(userSlow)
			}
			return profileFor(userFast)
		},
	}

	store := New(fake)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Login(context.Background(), actions.Credentials{Email: userSlow.Email, Password: "pw"})
	}()

	<-started
	store.Login(context.Background(), actions.Credentials{Email: userFast.Email, Password: "pw"})
	require.True(t, store.Snapshot().IsLoggedIn)

	close(release)
	wg.Wait()

	// The slower, earlier invocation resolved last but must not overwrite
	// the newer invocation's result.
	st := store.Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, userFast.ID, st.User.ID)
	assert.Equal(t, "fast-token", store.AccessToken())
	assert.False(t, st.Loading)
}

func TestStaleCompletionDiscarded(t *testing.T) {
	t.Parallel()

	user := testUser()
	firstDone := make(chan struct{})
	secondStarted := make(chan struct{})

	fake := &fakeActions{
		loginFn: func(ctx context.Context, creds actions.Credentials) (*actions.AuthData, error) {
			if creds.Password == "first" {
				return &actions.AuthData{User: user, AccessToken: "t1"}, nil
			}
			close(secondStarted)
			<-firstDone
			return &actions.AuthData{User: user, AccessToken: "t2"}, nil
		},
		profileFn: func(ctx context.Context, accessToken string, userID uuid.UUID) *domain.Profile {
			return &domain.Profile{ID: userID, Role: domain.RoleStaff}
		},
	}

	store := New(fake)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "second"})
	}()

	<-secondStarted
	// A new invocation supersedes the one still in flight; its completion
	// is the one that sticks.
	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "first"})
	close(firstDone)
	wg.Wait()

	st := store.Snapshot()
	assert.False(t, st.Loading)
	assert.True(t, st.IsLoggedIn)
	assert.Equal(t, "t1", store.AccessToken())
}

func TestSequentialActionsClearPreviousOutcome(t *testing.T) {
	t.Parallel()

	calls := 0
	fake := &fakeActions{
		forgotFn: func(ctx context.Context, email string) error {
			calls++
			if calls == 1 {
				return &backend.Error{Status: 500, Message: "Something went wrong"}
			}
			return nil
		},
	}

	store := New(fake)

	store.ForgotPassword(context.Background(), "ava@example.com")
	st := store.Snapshot()
	assert.Equal(t, "Something went wrong", st.Err)
	assert.False(t, st.Success)

	store.ForgotPassword(context.Background(), "ava@example.com")
	st = store.Snapshot()
	assert.Empty(t, st.Err)
	assert.True(t, st.Success)
}

func TestSnapshotIsIsolated(t *testing.T) {
	t.Parallel()

	user := testUser()
	profile := &domain.Profile{ID: user.ID, FullName: "Ava Chen", Role: domain.RoleOwner}
	stores := []domain.Store{{ID: uuid.New(), Name: "Downtown"}}
	store := New(happyActions(user, profile, stores))
	store.Login(context.Background(), actions.Credentials{Email: user.Email, Password: "pw"})

	st := store.Snapshot()
	st.Profile.FullName = "Mallory"
	st.Stores[0].Name = "Hijacked"
	st.User.Email = "mallory@example.com"

	fresh := store.Snapshot()
	assert.Equal(t, "Ava Chen", fresh.Profile.FullName)
	assert.Equal(t, "Downtown", fresh.Stores[0].Name)
	assert.Equal(t, user.Email, fresh.User.Email)
}

// TestLoadingVisibleDuringAction pins the three-phase shape: loading is set
// before the calls and cleared after.
func TestLoadingVisibleDuringAction(t *testing.T) {
	t.Parallel()

	inFlight := make(chan struct{})
	release := make(chan struct{})
	fake := &fakeActions{
		forgotFn: func(ctx context.Context, email string) error {
			close(inFlight)
			<-release
			return nil
		},
	}

	store := New(fake)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.ForgotPassword(context.Background(), "ava@example.com")
	}()

	select {
	case <-inFlight:
	case <-time.After(5 * time.Second):
		t.Fatal("action never started")
	}
	assert.True(t, store.Snapshot().Loading)

	close(release)
	wg.Wait()
	assert.False(t, store.Snapshot().Loading)
}
