// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package dashboard serves the per-role landing views.

Every dashboard is an aggregation over the ticket list the backend already
scopes to the caller, so the handlers here fetch once and fold the result
into the counts each role's landing page renders. The interesting part is
again the guard topology: each role gets exactly its own view, and the
generic /dashboard overview is the redirect target for every wrong-role
navigation elsewhere in the gateway.
*/
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ticketflow/gateway/internal/backend"
	"github.com/ticketflow/gateway/internal/guard"
	"github.com/ticketflow/gateway/internal/platform/respond"
	"github.com/ticketflow/gateway/internal/platform/sec"
	"github.com/ticketflow/gateway/internal/session"
)

// # Definitions & Constructors

// Handler implements the dashboard HTTP endpoints.
type Handler struct {
	tickets *backend.Client
}

// NewHandler constructs a new [Handler].
func NewHandler(tickets *backend.Client) *Handler {
	return &Handler{tickets: tickets}
}

// Routes returns a [chi.Router] with the dashboard routes and their guards.
//
// # Access Topology
//   - GET /          : any authenticated role (the default landing page)
//   - GET /client    : CLIENT
//   - GET /developer : DEVELOPER
//   - GET /manager   : MANAGER, ADMIN
//   - GET /admin     : ADMIN
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(guard.RequireAuth()).Get("/", handler.view("overview"))
	router.With(guard.RequireRoles(sec.RoleClient)).Get("/client", handler.view("client"))
	router.With(guard.RequireRoles(sec.RoleDeveloper)).Get("/developer", handler.view("developer"))
	router.With(guard.RequireRoles(sec.RoleManager, sec.RoleAdmin)).Get("/manager", handler.view("manager"))
	router.With(guard.RequireRoles(sec.RoleAdmin)).Get("/admin", handler.view("admin"))

	return router
}

// # View Payload

// ticketSummary is the status breakdown a landing page renders.
type ticketSummary struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	Assigned   int `json:"assigned"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Reopened   int `json:"reopened"`
	Closed     int `json:"closed"`
	Urgent     int `json:"urgent"`
}

// dashboardView is one role's landing payload.
type dashboardView struct {
	View    string           `json:"view"`
	Role    sec.Role         `json:"role"`
	Profile *session.Profile `json:"profile,omitempty"`
	Summary ticketSummary    `json:"summary"`
}

// summarize folds the scoped ticket list into the status breakdown.
func summarize(list []backend.Ticket) ticketSummary {
	summary := ticketSummary{Total: len(list)}
	for _, ticket := range list {
		switch ticket.Status {
		case backend.StatusOpen:
			summary.Open++
		case backend.StatusAssigned:
			summary.Assigned++
		case backend.StatusInProgress:
			summary.InProgress++
		case backend.StatusResolved:
			summary.Resolved++
		case backend.StatusReopened:
			summary.Reopened++
		case backend.StatusClosed:
			summary.Closed++
		}
		if ticket.Priority == backend.PriorityUrgent {
			summary.Urgent++
		}
	}
	return summary
}

// # Endpoint Implementations

/*
view builds the handler for one named dashboard.

GET /dashboard, /dashboard/{role}

Description: Fetches the caller's scoped ticket list from the backend and
returns the view name, role, profile, and status breakdown. The backend does
the scoping; the gateway only counts.

Response:
  - 200: dashboardView
  - 4xx/5xx: Mirrored backend rejection
*/
func (handler *Handler) view(name string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		current := session.FromContext(request.Context())

		list, err := handler.tickets.ListTickets(request.Context(), current.State.Token())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, dashboardView{
			View:    name,
			Role:    current.State.Claims().Role,
			Profile: current.State.Profile(),
			Summary: summarize(list),
		})
	}
}
