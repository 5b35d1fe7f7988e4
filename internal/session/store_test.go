// Copyright (c) 2026 Ticketflow. All rights reserved.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketflow/gateway/internal/platform/sec"
)

// frozenNow pins the store clock for deterministic expiry checks.
var frozenNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	store := NewStore(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	store.now = func() time.Time { return frozenNow }
	return store, repo
}

// mintToken signs a token whose expiry is offset from the frozen clock.
func mintToken(t *testing.T, role sec.Role, plan sec.Plan, expiresIn time.Duration) string {
	t.Helper()
	claims := &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(frozenNow.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(frozenNow.Add(-time.Minute)),
		},
		Role:    role,
		OrgID:   7,
		OrgPlan: plan,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func testProfile() *Profile {
	return &Profile{ID: 42, Name: "Ada", Email: "ada@example.com"}
}

/*
TestStore_Login_InstallsEverythingAtOnce verifies that a successful login
sets token, claims, and profile together and persists both entries.
*/
func TestStore_Login_InstallsEverythingAtOnce(t *testing.T) {
	store, repo := newTestStore(t)
	token := mintToken(t, sec.RoleClient, sec.PlanPremium, time.Hour)

	state := store.Login(context.Background(), "sid-1", token, testProfile())

	assert.Equal(t, Authenticated, state.Phase())
	assert.Equal(t, token, state.Token())
	assert.True(t, state.AuthenticatedAt(frozenNow))
	assert.True(t, state.PremiumPlan())
	assert.True(t, state.HasRole(sec.RoleClient))
	assert.Equal(t, int64(7), state.OrganizationID())
	require.NotNil(t, state.Profile())
	assert.Equal(t, "ada@example.com", state.Profile().Email)

	record, err := repo.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, token, record.Token)
	assert.NotEmpty(t, record.Profile)
}

/*
TestStore_Login_BadTokens verifies that a malformed or already-expired token
yields a logged-out state without an error escaping, and persists nothing.
*/
func TestStore_Login_BadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"malformed", func(t *testing.T) string { return "not-a-token" }},
		{"expired", func(t *testing.T) string { return mintToken(t, sec.RoleClient, sec.PlanBase, -time.Minute) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, repo := newTestStore(t)

			state := store.Login(context.Background(), "sid-1", tt.token(t), testProfile())

			assert.Equal(t, LoggedOut, state.Phase())
			assert.False(t, state.AuthenticatedAt(frozenNow))
			assert.Equal(t, 0, repo.Len())
		})
	}
}

/*
TestStore_Login_WithoutProfile verifies that a valid token with no profile
lands in the explicit loading phase rather than a half-authenticated one.
*/
func TestStore_Login_WithoutProfile(t *testing.T) {
	store, _ := newTestStore(t)
	token := mintToken(t, sec.RoleDeveloper, sec.PlanBase, time.Hour)

	state := store.Login(context.Background(), "sid-1", token, nil)

	assert.Equal(t, LoadingProfile, state.Phase())
	assert.True(t, state.AuthenticatedAt(frozenNow))
	assert.False(t, state.ProfileLoaded())
}

// brokenRepository refuses every write; reads behave like empty storage.
type brokenRepository struct{}

func (brokenRepository) Save(context.Context, string, Record) error { return errors.New("storage down") }
func (brokenRepository) Load(context.Context, string) (*Record, error) {
	return nil, ErrNotFound
}
func (brokenRepository) Delete(context.Context, string) error { return nil }

/*
TestStore_Login_PersistFailureLastsOneRequest verifies what a failed persist
actually costs: the login response still reads authenticated, but storage is
the only place the session lives between requests, so the very next hydration
comes back logged-out.
*/
func TestStore_Login_PersistFailureLastsOneRequest(t *testing.T) {
	store := NewStore(brokenRepository{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	store.now = func() time.Time { return frozenNow }
	token := mintToken(t, sec.RoleClient, sec.PlanPremium, time.Hour)

	state := store.Login(context.Background(), "sid-1", token, testProfile())
	assert.Equal(t, Authenticated, state.Phase())

	next := store.Hydrate(context.Background(), "sid-1")
	assert.Equal(t, LoggedOut, next.Phase())
}

/*
TestStore_Hydrate_RestoresPersistedSession verifies the restart path: a
persisted token and profile rebuild the authenticated state exactly.
*/
func TestStore_Hydrate_RestoresPersistedSession(t *testing.T) {
	store, _ := newTestStore(t)
	token := mintToken(t, sec.RoleManager, sec.PlanPremium, time.Hour)
	store.Login(context.Background(), "sid-1", token, testProfile())

	state := store.Hydrate(context.Background(), "sid-1")

	assert.Equal(t, Authenticated, state.Phase())
	assert.Equal(t, token, state.Token())
	assert.True(t, state.HasRole(sec.RoleManager))
	require.NotNil(t, state.Profile())
	assert.Equal(t, int64(42), state.Profile().ID)
}

/*
TestStore_Hydrate_InvalidTokens verifies that malformed and expired persisted
tokens behave identically: logged-out state and erased storage.
*/
func TestStore_Hydrate_InvalidTokens(t *testing.T) {
	profileJSON, err := json.Marshal(testProfile())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"malformed", func(t *testing.T) string { return "corrupted-garbage" }},
		{"expired", func(t *testing.T) string { return mintToken(t, sec.RoleClient, sec.PlanBase, -time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, repo := newTestStore(t)
			require.NoError(t, repo.Save(context.Background(), "sid-1", Record{
				Token:   tt.token(t),
				Profile: profileJSON,
			}))

			state := store.Hydrate(context.Background(), "sid-1")

			assert.Equal(t, LoggedOut, state.Phase())
			assert.Equal(t, 0, repo.Len(), "invalid persisted entries must be erased")
		})
	}
}

/*
TestStore_Hydrate_MissingOrCorruptProfile verifies the token-only and
corrupt-profile hydration paths both land in LoadingProfile: the token is
good, only the profile needs re-fetching.
*/
func TestStore_Hydrate_MissingOrCorruptProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile []byte
	}{
		{"absent", nil},
		{"corrupt", []byte("{not json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, repo := newTestStore(t)
			token := mintToken(t, sec.RoleClient, sec.PlanBase, time.Hour)
			require.NoError(t, repo.Save(context.Background(), "sid-1", Record{
				Token:   token,
				Profile: tt.profile,
			}))

			state := store.Hydrate(context.Background(), "sid-1")

			assert.Equal(t, LoadingProfile, state.Phase())
			assert.True(t, state.AuthenticatedAt(frozenNow))
			assert.False(t, state.ProfileLoaded())
		})
	}
}

func TestStore_Hydrate_UnknownSession(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.Hydrate(context.Background(), "never-seen")

	assert.Equal(t, LoggedOut, state.Phase())
}

/*
TestStore_CompleteProfile verifies the LoadingProfile to Authenticated
transition, and that the transition is a no-op from any other phase.
*/
func TestStore_CompleteProfile(t *testing.T) {
	store, repo := newTestStore(t)
	token := mintToken(t, sec.RoleClient, sec.PlanBase, time.Hour)
	loading := store.Login(context.Background(), "sid-1", token, nil)
	require.Equal(t, LoadingProfile, loading.Phase())

	settled := store.CompleteProfile(context.Background(), "sid-1", loading, testProfile())

	assert.Equal(t, Authenticated, settled.Phase())
	assert.Equal(t, token, settled.Token())
	require.NotNil(t, settled.Profile())
	assert.Equal(t, "Ada", settled.Profile().Name)

	record, err := repo.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.NotEmpty(t, record.Profile)

	// Completing an already-settled session changes nothing.
	again := store.CompleteProfile(context.Background(), "sid-1", settled, &Profile{ID: 99})
	assert.Same(t, settled, again)

	// Completing a logged-out session changes nothing either.
	out := store.Logout(context.Background(), "sid-1")
	unchanged := store.CompleteProfile(context.Background(), "sid-1", out, testProfile())
	assert.Equal(t, LoggedOut, unchanged.Phase())
}

/*
TestStore_Logout_Idempotent verifies that logging out twice is
indistinguishable from logging out once: state and storage end identical.
*/
func TestStore_Logout_Idempotent(t *testing.T) {
	store, repo := newTestStore(t)
	token := mintToken(t, sec.RoleAdmin, sec.PlanPremium, time.Hour)
	store.Login(context.Background(), "sid-1", token, testProfile())
	require.Equal(t, 1, repo.Len())

	first := store.Logout(context.Background(), "sid-1")
	assert.Equal(t, LoggedOut, first.Phase())
	assert.Equal(t, 0, repo.Len())

	second := store.Logout(context.Background(), "sid-1")
	assert.Equal(t, LoggedOut, second.Phase())
	assert.Equal(t, 0, repo.Len())
}

/*
TestState_AuthenticatedAt verifies the per-call expiry re-check: the same
snapshot reads authenticated before expiry and unauthenticated after.
*/
func TestState_AuthenticatedAt(t *testing.T) {
	store, _ := newTestStore(t)
	token := mintToken(t, sec.RoleClient, sec.PlanBase, time.Hour)
	state := store.Login(context.Background(), "sid-1", token, testProfile())

	assert.True(t, state.AuthenticatedAt(frozenNow))
	assert.True(t, state.AuthenticatedAt(frozenNow.Add(59*time.Minute)))
	assert.False(t, state.AuthenticatedAt(frozenNow.Add(time.Hour)))
	assert.False(t, state.AuthenticatedAt(frozenNow.Add(2*time.Hour)))
}

func TestFromContext_Defaults(t *testing.T) {
	current := FromContext(context.Background())

	assert.Equal(t, LoggedOut, current.State.Phase())
	assert.Empty(t, current.ID)
}
