// Copyright (c) 2026 Ticketflow. All rights reserved.

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ticketflow/gateway/internal/platform/sec"
)

// Store owns every session state transition.
//
// It is constructor-injected wherever session access is needed; nothing in
// the gateway reaches for ambient global session state. There is one logical
// writer per session (the navigation/auth flow driving the current request)
// and arbitrarily many readers, which only ever see the immutable [State]
// snapshots the Store hands out.
type Store struct {
	repo Repository
	log  *slog.Logger

	// now is swapped out by tests to pin the clock.
	now func() time.Time
}

// NewStore constructs a Store backed by the given repository.
func NewStore(repo Repository, log *slog.Logger) *Store {
	return &Store{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// # Lifecycle Operations

/*
Hydrate rebuilds session state from persisted storage.

Description: Called once per navigation before the access guard runs. It
fails safe on every path — a missing record, a malformed token, or an expired
token all land in LoggedOut without an error escaping; the two invalid-token
cases additionally erase the persisted entries.

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier

Returns:
  - *State: Never nil; LoggedOut on any failure
*/
func (store *Store) Hydrate(ctx context.Context, sid string) *State {
	record, err := store.repo.Load(ctx, sid)
	if err != nil {
		// Storage trouble other than a plain miss is worth a log line, but
		// the navigation still proceeds as logged-out.
		if err != ErrNotFound {
			store.log.Warn("session_hydrate_load_failed", slog.String("error", err.Error()))
		}
		return loggedOut
	}

	claims, err := sec.DecodeClaims(record.Token)
	if err != nil {
		store.log.Warn("session_hydrate_malformed_token", slog.String("error", err.Error()))
		store.erase(ctx, sid)
		return loggedOut
	}

	if claims.ExpiresBy(store.now()) {
		store.log.Info("session_hydrate_token_expired", slog.String("subject", claims.SubjectID()))
		store.erase(ctx, sid)
		return loggedOut
	}

	// Token is good. A missing or corrupt profile record downgrades to the
	// explicit LoadingProfile phase instead of failing the whole session.
	profile := decodeProfile(record.Profile, store.log)
	if profile == nil {
		return &State{phase: LoadingProfile, token: record.Token, claims: claims}
	}

	return &State{phase: Authenticated, token: record.Token, claims: claims, profile: profile}
}

/*
Login installs a freshly issued token and its profile.

Description: Decodes the token and, on success, sets token, claims, and
profile atomically and persists both entries together. On a malformed or
already-expired token it logs and returns LoggedOut — surfacing the failure
to the user is the caller's job; this component never throws past its
boundary.

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier
  - token: bearer credential returned by the backend's credential exchange
  - profile: best-effort user profile captured at login

Returns:
  - *State: Authenticated on success, LoggedOut on a bad token
*/
func (store *Store) Login(ctx context.Context, sid, token string, profile *Profile) *State {
	claims, err := sec.DecodeClaims(token)
	if err != nil {
		store.log.Error("session_login_malformed_token", slog.String("error", err.Error()))
		return loggedOut
	}

	if claims.ExpiresBy(store.now()) {
		store.log.Error("session_login_expired_token", slog.String("subject", claims.SubjectID()))
		return loggedOut
	}

	record := Record{Token: token, Profile: encodeProfile(profile, store.log)}
	if err := store.repo.Save(ctx, sid, record); err != nil {
		// Storage is the only place the session lives between requests, so
		// this response will read authenticated but the next hydration will
		// come back logged-out and the browser lands on /login again.
		store.log.Warn("session_login_persist_failed", slog.String("error", err.Error()))
	}

	state := &State{phase: Authenticated, token: token, claims: claims, profile: profile}
	if profile == nil {
		state.phase = LoadingProfile
	}

	store.log.Info("session_login",
		slog.String("subject", claims.SubjectID()),
		slog.String("role", string(claims.Role)),
		slog.Int64("org_id", claims.OrgID),
	)
	return state
}

/*
CompleteProfile moves a LoadingProfile session to Authenticated.

Description: Persists the profile next to the already-stored token and
returns the settled state. Calling it on a session in any other phase is a
no-op that returns the state unchanged.

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier
  - state: current state as hydrated for this navigation
  - profile: the freshly fetched profile

Returns:
  - *State: Authenticated when the transition applied
*/
func (store *Store) CompleteProfile(ctx context.Context, sid string, state *State, profile *Profile) *State {
	if state.phase != LoadingProfile || profile == nil {
		return state
	}

	record := Record{Token: state.token, Profile: encodeProfile(profile, store.log)}
	if err := store.repo.Save(ctx, sid, record); err != nil {
		store.log.Warn("session_profile_persist_failed", slog.String("error", err.Error()))
	}

	return &State{phase: Authenticated, token: state.token, claims: state.claims, profile: profile}
}

/*
Logout clears the session and erases persisted storage.

Description: Idempotent — logging out an already logged-out session leaves
state and storage exactly as a single logout would. Never fails from the
caller's perspective.

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier

Returns:
  - *State: Always LoggedOut
*/
func (store *Store) Logout(ctx context.Context, sid string) *State {
	store.erase(ctx, sid)
	return loggedOut
}

// # Internals

// erase removes both persisted entries; storage errors are logged, never returned.
func (store *Store) erase(ctx context.Context, sid string) {
	if err := store.repo.Delete(ctx, sid); err != nil {
		store.log.Warn("session_erase_failed", slog.String("error", err.Error()))
	}
}

// encodeProfile serializes the profile record, or nil for an absent profile.
func encodeProfile(profile *Profile, log *slog.Logger) []byte {
	if profile == nil {
		return nil
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		log.Warn("session_profile_encode_failed", slog.String("error", err.Error()))
		return nil
	}
	return raw
}

// decodeProfile deserializes a persisted profile; corrupt data reads as absent.
func decodeProfile(raw []byte, log *slog.Logger) *Profile {
	if len(raw) == 0 {
		return nil
	}
	profile := &Profile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		log.Warn("session_profile_decode_failed", slog.String("error", err.Error()))
		return nil
	}
	return profile
}
