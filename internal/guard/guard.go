// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package guard decides the outcome of every navigation attempt.

Given the current session state and a view's static requirements it produces
exactly one of five outcomes: render the view, redirect to login, redirect to
the default authenticated page, show a loading indicator, or show the
premium-upsell page.

# Rule Ordering

The decision is an ordered rule list where the first match wins, and the
order is load-bearing: authentication is checked before role, and role before
plan, because each later check is meaningless without the earlier one — a
role is undefined without an authenticated actor, and a plan is an
organization attribute only meaningful for an authenticated member.

# Not a Security Boundary

Claims feeding these decisions are decoded client-side without signature
verification (see the sec package). The guard is a UX convenience that keeps
users out of views they cannot use; the ticket backend independently
re-enforces role and plan on every data request and remains the sole
enforcement point.
*/
package guard

import (
	"time"

	"github.com/ticketflow/gateway/internal/platform/constants"
	"github.com/ticketflow/gateway/internal/platform/sec"
	"github.com/ticketflow/gateway/internal/session"
)

// # View Requirements

// Requirement is a view's static access declaration. Requirements never
// change at runtime; they are fixed per route when the router is built.
type Requirement struct {
	// RequiresAuth gates the view behind authentication. Every protected
	// view in this system sets it.
	RequiresAuth bool

	// AllowedRoles is the exact set of roles admitted to the view.
	// Nil means any authenticated role.
	AllowedRoles []sec.Role

	// RequiresPremium gates the view behind the PREMIUM organization plan.
	RequiresPremium bool
}

// # Outcomes

// Outcome is the kind of decision the guard reached.
type Outcome int

const (
	// OutcomeRender lets the requested view proceed. Terminal.
	OutcomeRender Outcome = iota

	// OutcomeRedirectLogin sends an unauthenticated actor to the login page. Terminal.
	OutcomeRedirectLogin

	// OutcomeShowLoading holds the navigation while the profile is still
	// being populated; the client re-evaluates once it lands.
	OutcomeShowLoading

	// OutcomeRedirectDefault sends a wrong-role actor to the default
	// authenticated page. A silent redirect, not an error. Terminal.
	OutcomeRedirectDefault

	// OutcomeShowUpsell blocks a plan-gated view with an actionable upgrade
	// page. Terminal until the user navigates away; nothing retries or
	// polls the plan automatically.
	OutcomeShowUpsell
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeShowLoading:
		return "show_loading"
	case OutcomeRedirectDefault:
		return "redirect_default"
	case OutcomeShowUpsell:
		return "show_upsell"
	default:
		return "render"
	}
}

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Outcome Outcome

	// Target is the redirect destination for the two redirect outcomes,
	// and the upsell page for OutcomeShowUpsell.
	Target string
}

// # Decision Logic

// Decide evaluates the ordered rule list against the session state.
//
// now feeds the per-call expiry re-check; callers outside tests pass
// time.Now().
func Decide(state *session.State, requirement Requirement, now time.Time) Decision {

	// Public views short-circuit: nothing below applies.
	if !requirement.RequiresAuth {
		return Decision{Outcome: OutcomeRender}
	}

	// 1. Unauthenticated → login. Covers absent, malformed, and expired
	// tokens alike; the session store has already collapsed those cases.
	if !state.AuthenticatedAt(now) {
		return Decision{Outcome: OutcomeRedirectLogin, Target: constants.LoginPath}
	}

	// 2. Profile still loading → hold and re-evaluate once populated.
	if !state.ProfileLoaded() {
		return Decision{Outcome: OutcomeShowLoading}
	}

	// 3. Role not in the view's allowed set → silent redirect to the
	// default page.
	if requirement.AllowedRoles != nil && !state.HasRole(requirement.AllowedRoles...) {
		return Decision{Outcome: OutcomeRedirectDefault, Target: constants.DefaultAuthenticatedPath}
	}

	// 4. Plan-gated view on a BASE organization → visible, actionable block.
	if requirement.RequiresPremium && !state.PremiumPlan() {
		return Decision{Outcome: OutcomeShowUpsell, Target: constants.UpsellPath}
	}

	// 5. All checks passed.
	return Decision{Outcome: OutcomeRender}
}
