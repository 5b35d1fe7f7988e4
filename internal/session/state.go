// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package session is the single source of truth for "who is the current actor
and what may they do."

Each browser session is identified by an opaque cookie and owns exactly one
[State]: the bearer token issued by the ticket backend, the claims decoded
from it, and the user profile captured at login. State moves between three
explicit phases:

	LoggedOut ──login──▶ Authenticated
	LoggedOut ──hydrate (token only)──▶ LoadingProfile ──profile──▶ Authenticated
	any ──logout / expiry / malformed token──▶ LoggedOut

The phases are a tagged variant, not nullable fields, so "profile not loaded
yet" is a case the access guard matches on rather than a nil check it infers.

# Failure Semantics

A malformed or expired token is the only failure mode and it is absorbed
internally: the session lands in LoggedOut, persisted entries are erased, and
no error crosses the package boundary. A broken token never crashes a render
pass; it falls back to the logged-out experience.
*/
package session

import (
	"time"

	"github.com/ticketflow/gateway/internal/platform/sec"
)

// # Session Phases

// Phase is the lifecycle position of a browser session.
type Phase int

const (
	// LoggedOut means no valid token is held. The zero value on purpose:
	// an absent session is a logged-out session.
	LoggedOut Phase = iota

	// LoadingProfile means a valid token and claims are held but the user
	// profile has not been populated yet.
	LoadingProfile

	// Authenticated means token, claims, and profile are all present.
	Authenticated
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case LoadingProfile:
		return "loading_profile"
	case Authenticated:
		return "authenticated"
	default:
		return "logged_out"
	}
}

// # Profile

// Profile is the minimal user-facing record shown in the page chrome.
//
// It is captured best-effort at login time: the backend's credential exchange
// returns only the user ID, so Name may stay empty until a profile update
// lands through [Store.CompleteProfile].
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// # State

// State is an immutable snapshot of one browser session.
//
// All mutation happens wholesale through the [Store] operations (Hydrate,
// Login, CompleteProfile, Logout); readers only ever observe a fully-settled
// snapshot — there is no intermediate inconsistent state.
type State struct {
	phase   Phase
	token   string
	claims  *sec.Claims
	profile *Profile
}

// loggedOut is the canonical empty state shared by all logged-out sessions.
var loggedOut = &State{phase: LoggedOut}

// Phase returns the lifecycle position of the session.
func (s *State) Phase() Phase { return s.phase }

// Token returns the bearer credential, or "" when logged out. The token is
// owned by the session and only ever forwarded verbatim to the ticket backend.
func (s *State) Token() string { return s.token }

// Claims returns the decoded token claims, or nil when logged out.
func (s *State) Claims() *sec.Claims { return s.claims }

// Profile returns the user profile, or nil until it has been populated.
func (s *State) Profile() *Profile { return s.profile }

// # Derived Authorization Facts

// AuthenticatedAt reports whether the session holds a decodable token whose
// validity window is still open at the given instant.
//
// Expiry is re-checked on every call rather than only at hydration, so a
// session that outlives its token mid-run flips to unauthenticated on the
// next navigation.
func (s *State) AuthenticatedAt(now time.Time) bool {
	if s.phase == LoggedOut || s.claims == nil {
		return false
	}
	return !s.claims.ExpiresBy(now)
}

// HasRole reports whether the session's role is a member of the allowed set.
// It is always false for an unauthenticated session.
func (s *State) HasRole(allowed ...sec.Role) bool {
	if s.claims == nil {
		return false
	}
	return s.claims.Role.In(allowed...)
}

// PremiumPlan reports whether the session's organization is on the PREMIUM tier.
func (s *State) PremiumPlan() bool {
	return s.claims != nil && s.claims.OrgPlan == sec.PlanPremium
}

// ProfileLoaded reports whether the user profile has been populated.
func (s *State) ProfileLoaded() bool {
	return s.profile != nil
}

// OrganizationID returns the organization the session belongs to, or 0 when
// logged out.
func (s *State) OrganizationID() int64 {
	if s.claims == nil {
		return 0
	}
	return s.claims.OrgID
}
