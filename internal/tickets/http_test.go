// Copyright (c) 2026 Ticketflow. All rights reserved.

package tickets_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketflow/gateway/internal/backend"
	"github.com/ticketflow/gateway/internal/platform/constants"
	"github.com/ticketflow/gateway/internal/platform/sec"
	"github.com/ticketflow/gateway/internal/session"
	"github.com/ticketflow/gateway/internal/tickets"
)

// fixture is a ticket stack with a real session store and a scripted backend.
type fixture struct {
	t       *testing.T
	router  http.Handler
	store   *session.Store
	backend *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(session.NewMemoryRepository(), log)
	handler := tickets.NewHandler(backend.NewClient(server.URL, log))

	router := chi.NewRouter()
	router.Use(session.Loader(store, session.CookieSettings{Secure: false}))
	router.Mount("/tickets", handler.Routes())

	return &fixture{t: t, router: router, store: store, backend: mux}
}

// loginAs installs an authenticated session and returns its cookie.
func (f *fixture) loginAs(role sec.Role, plan sec.Plan) *http.Cookie {
	f.t.Helper()

	claims := &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role:    role,
		OrgID:   7,
		OrgPlan: plan,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(f.t, err)

	state := f.store.Login(context.Background(), "sid-1", token,
		&session.Profile{ID: 42, Name: "Ada", Email: "ada@example.com"})
	require.Equal(f.t, session.Authenticated, state.Phase())

	return &http.Cookie{Name: constants.SessionCookieName, Value: "sid-1"}
}

func (f *fixture) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestList_ProxiesForAnyRole verifies that any authenticated role can read the
list and that the session token travels to the backend.
*/
func TestList_ProxiesForAnyRole(t *testing.T) {
	f := newFixture(t)
	f.backend.HandleFunc("/ticket/getalltickets", func(writer http.ResponseWriter, request *http.Request) {
		assert.True(t, strings.HasPrefix(request.Header.Get("Authorization"), "Bearer "))
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"success":true,"status":200,"data":[{"title":"VPN down","description":"","status":"OPEN","priority":"MEDIUM"}]}`))
	})

	cookie := f.loginAs(sec.RoleDeveloper, sec.PlanBase)
	recorder := f.do(http.MethodGet, "/tickets/", "", cookie)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VPN down")
}

/*
TestList_RedirectsAnonymous verifies the guard in front of the list view.
*/
func TestList_RedirectsAnonymous(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(http.MethodGet, "/tickets/", "", nil)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
}

/*
TestCreate_ClientOnly verifies that CLIENT may open tickets while every other
role is silently redirected to the default page.
*/
func TestCreate_ClientOnly(t *testing.T) {
	body := `{"title":"Broken printer","description":"It is on fire","priority":"URGENT"}`

	t.Run("client_creates", func(t *testing.T) {
		f := newFixture(t)
		f.backend.HandleFunc("/ticket/createticket", func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"success":true,"status":201,"data":{"id":15,"title":"Broken printer","description":"It is on fire","status":"OPEN","priority":"URGENT"}}`))
		})

		cookie := f.loginAs(sec.RoleClient, sec.PlanBase)
		recorder := f.do(http.MethodPost, "/tickets/", body, cookie)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Broken printer")
	})

	t.Run("manager_is_redirected", func(t *testing.T) {
		f := newFixture(t)

		cookie := f.loginAs(sec.RoleManager, sec.PlanBase)
		recorder := f.do(http.MethodPost, "/tickets/", body, cookie)

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.DefaultAuthenticatedPath, recorder.Header().Get("Location"))
	})
}

/*
TestCreate_ValidationFailures verifies input checks on the create path.
*/
func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing_title", `{"description":"x","priority":"LOW"}`},
		{"unknown_priority", `{"title":"t","description":"x","priority":"WHENEVER"}`},
		{"invalid_json", `{"title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cookie := f.loginAs(sec.RoleClient, sec.PlanBase)

			recorder := f.do(http.MethodPost, "/tickets/", tt.body, cookie)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

/*
TestAssign_ManagerAndAdminOnly verifies the assignment guard and the relay
of the assignment itself.
*/
func TestAssign_ManagerAndAdminOnly(t *testing.T) {
	body := `{"developerId":3}`

	t.Run("manager_assigns", func(t *testing.T) {
		f := newFixture(t)
		f.backend.HandleFunc("/ticket/15/assign", func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"success":true,"status":200}`))
		})

		cookie := f.loginAs(sec.RoleManager, sec.PlanBase)
		recorder := f.do(http.MethodPost, "/tickets/15/assign", body, cookie)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("developer_is_redirected", func(t *testing.T) {
		f := newFixture(t)

		cookie := f.loginAs(sec.RoleDeveloper, sec.PlanBase)
		recorder := f.do(http.MethodPost, "/tickets/15/assign", body, cookie)

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.DefaultAuthenticatedPath, recorder.Header().Get("Location"))
	})
}

/*
TestComment_AnyAuthenticatedRole verifies that every authenticated role may
post to a ticket's thread and that the comment body travels to the backend
unchanged.
*/
func TestComment_AnyAuthenticatedRole(t *testing.T) {
	body := `{"comment":"Tried turning it off and on again."}`

	t.Run("developer_comments", func(t *testing.T) {
		f := newFixture(t)
		f.backend.HandleFunc("/ticket/15/comment", func(writer http.ResponseWriter, request *http.Request) {
			relayed, err := io.ReadAll(request.Body)
			assert.NoError(t, err)
			assert.Contains(t, string(relayed), "Tried turning it off and on again.")
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"success":true,"status":200}`))
		})

		cookie := f.loginAs(sec.RoleDeveloper, sec.PlanBase)
		recorder := f.do(http.MethodPost, "/tickets/15/comment", body, cookie)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("anonymous_is_redirected", func(t *testing.T) {
		f := newFixture(t)

		recorder := f.do(http.MethodPost, "/tickets/15/comment", body, nil)

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
	})

	t.Run("empty_comment_is_rejected", func(t *testing.T) {
		f := newFixture(t)

		cookie := f.loginAs(sec.RoleClient, sec.PlanBase)
		recorder := f.do(http.MethodPost, "/tickets/15/comment", `{"comment":""}`, cookie)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestDetail_RejectsNonNumericID verifies path parameter validation after the
guard admits the request.
*/
func TestDetail_RejectsNonNumericID(t *testing.T) {
	f := newFixture(t)
	cookie := f.loginAs(sec.RoleClient, sec.PlanBase)

	recorder := f.do(http.MethodGet, "/tickets/not-a-number", "", cookie)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
