// Copyright (c) 2026 Ticketflow. All rights reserved.

package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ticketflow/gateway/internal/guard"
	"github.com/ticketflow/gateway/internal/platform/constants"
	"github.com/ticketflow/gateway/internal/platform/sec"
	"github.com/ticketflow/gateway/internal/session"
)

// serve runs one request carrying the given session state through a
// protected page handler.
func serve(t *testing.T, state *session.State, requirement guard.Requirement) *httptest.ResponseRecorder {
	t.Helper()

	page := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("rendered"))
	})
	handler := guard.Protect(requirement)(page)

	request := httptest.NewRequest(http.MethodGet, "/page", nil)
	ctx := session.WithCurrent(request.Context(), session.Current{ID: "sid", State: state})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request.WithContext(ctx))
	return recorder
}

/*
TestProtect_RendersWhenAllowed verifies that an admitted request reaches the
wrapped handler untouched.
*/
func TestProtect_RendersWhenAllowed(t *testing.T) {
	b := newStateBuilder(t)
	state := b.authenticated(sec.RoleManager, sec.PlanBase)

	recorder := serve(t, state, guard.Requirement{
		RequiresAuth: true,
		AllowedRoles: []sec.Role{sec.RoleManager, sec.RoleAdmin},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "rendered", recorder.Body.String())
}

/*
TestProtect_RedirectsLoggedOut verifies the 303 to the login page.
*/
func TestProtect_RedirectsLoggedOut(t *testing.T) {
	b := newStateBuilder(t)

	recorder := serve(t, b.loggedOut(), guard.Requirement{RequiresAuth: true})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
}

/*
TestProtect_RedirectsWrongRole verifies the silent 303 to the default
authenticated page, not an error status.
*/
func TestProtect_RedirectsWrongRole(t *testing.T) {
	b := newStateBuilder(t)
	state := b.authenticated(sec.RoleClient, sec.PlanPremium)

	recorder := serve(t, state, guard.Requirement{
		RequiresAuth: true,
		AllowedRoles: []sec.Role{sec.RoleAdmin},
	})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.DefaultAuthenticatedPath, recorder.Header().Get("Location"))
}

/*
TestProtect_HoldsLoadingProfile verifies the 202 holding response with its
retry hint while the profile is in flight.
*/
func TestProtect_HoldsLoadingProfile(t *testing.T) {
	b := newStateBuilder(t)
	state := b.loadingProfile(sec.RoleClient, sec.PlanBase)

	recorder := serve(t, state, guard.Requirement{RequiresAuth: true})

	assert.Equal(t, http.StatusAccepted, recorder.Code)
	assert.Equal(t, "1", recorder.Header().Get("Retry-After"))
	assert.Contains(t, recorder.Body.String(), "profile_loading")
}

/*
TestProtect_UpsellsBasePlan verifies the 402 block with the machine-readable
upgrade code and the upsell target in the details.
*/
func TestProtect_UpsellsBasePlan(t *testing.T) {
	b := newStateBuilder(t)
	state := b.authenticated(sec.RoleDeveloper, sec.PlanBase)

	recorder := serve(t, state, guard.Requirement{RequiresAuth: true, RequiresPremium: true})

	assert.Equal(t, http.StatusPaymentRequired, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "PLAN_UPGRADE_REQUIRED")
	assert.Contains(t, recorder.Body.String(), constants.UpsellPath)
}

/*
TestProtect_MissingLoader verifies that a request that never passed through
the session loader is treated as logged out, not as a crash.
*/
func TestProtect_MissingLoader(t *testing.T) {
	page := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := guard.Protect(guard.Requirement{RequiresAuth: true})(page)

	request := httptest.NewRequest(http.MethodGet, "/page", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
}
