// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package tickets is the HTTP relay for the ticket views.

The gateway owns no ticket data: every handler forwards the session's bearer
token to the ticket backend and re-shapes nothing on the way back. What this
package does own is the access topology — which roles may reach which ticket
operation — declared route-by-route on the access guard.
*/
package tickets

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ticketflow/gateway/internal/backend"
	"github.com/ticketflow/gateway/internal/guard"
	"github.com/ticketflow/gateway/internal/platform/apperr"
	requestutil "github.com/ticketflow/gateway/internal/platform/request"
	"github.com/ticketflow/gateway/internal/platform/respond"
	"github.com/ticketflow/gateway/internal/platform/sec"
	"github.com/ticketflow/gateway/internal/platform/validate"
	"github.com/ticketflow/gateway/internal/session"
)

// # Definitions & Constructors

// Field names used in validation error details.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldTicketID    = "ticketId"
	FieldDeveloperID = "developerId"
	FieldComment     = "comment"
)

// MaxTitleLength caps ticket titles at the backend's column width.
const MaxTitleLength = 200

// MaxCommentLength caps a single comment at the backend's column width.
const MaxCommentLength = 2000

// Handler implements the ticket HTTP endpoints.
type Handler struct {
	tickets *backend.Client
}

// NewHandler constructs a new [Handler].
func NewHandler(tickets *backend.Client) *Handler {
	return &Handler{tickets: tickets}
}

// Routes returns a [chi.Router] with the ticket routes and their guards.
//
// # Access Topology
//   - GET  /                   : any authenticated role
//   - GET  /{ticketID}         : any authenticated role
//   - POST /{ticketID}/comment : any authenticated role
//   - POST /                   : CLIENT only (clients open tickets)
//   - GET  /developers         : MANAGER, ADMIN (assignment candidates)
//   - POST /{ticketID}/assign  : MANAGER, ADMIN
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth())
		r.Get("/", handler.list)
		r.Get("/{ticketID}", handler.detail)
		r.Post("/{ticketID}/comment", handler.comment)
	})

	router.Group(func(r chi.Router) {
		r.Use(guard.RequireRoles(sec.RoleClient))
		r.Post("/", handler.create)
	})

	router.Group(func(r chi.Router) {
		r.Use(guard.RequireRoles(sec.RoleManager, sec.RoleAdmin))
		r.Get("/developers", handler.listDevelopers)
		r.Post("/{ticketID}/assign", handler.assign)
	})

	return router
}

// # Request Payloads

type createTicketRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    backend.Priority `json:"priority"`
	DueDate     string           `json:"dueDate,omitempty"`
}

type assignTicketRequest struct {
	DeveloperID int64 `json:"developerId"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// # Endpoint Implementations

/*
list returns every ticket visible to the current session.

GET /tickets

Description: The ticket backend scopes the list by the forwarded token's role
and organization; a CLIENT sees their own tickets, a MANAGER the whole queue.

Response:
  - 200: []backend.Ticket
  - 4xx/5xx: Mirrored backend rejection
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	current := session.FromContext(request.Context())

	list, err := handler.tickets.ListTickets(request.Context(), current.State.Token())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, list)
}

/*
detail returns one ticket with its comment thread.

GET /tickets/{ticketID}

Response:
  - 200: backend.TicketDetail
  - 400: Validation failure on a non-numeric ID
  - 404: Mirrored backend rejection for an unknown ticket
*/
func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	ticketID, err := numericParam(request, "ticketID", FieldTicketID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	current := session.FromContext(request.Context())
	detail, err := handler.tickets.GetTicket(request.Context(), current.State.Token(), ticketID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
create opens a new support ticket for the current client.

POST /tickets

Request:
  - Body: createTicketRequest (Title, Description, Priority, DueDate)

Response:
  - 201: backend.Ticket: The created ticket
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTicketRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldDescription, input.Description).
		OneOf(FieldPriority, string(input.Priority),
			string(backend.PriorityUrgent),
			string(backend.PriorityImportant),
			string(backend.PriorityMedium),
			string(backend.PriorityLow),
		)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	current := session.FromContext(request.Context())
	ticket, err := handler.tickets.CreateTicket(request.Context(), current.State.Token(), backend.CreateTicketInput{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, ticket)
}

/*
comment appends a comment to a ticket's thread.

POST /tickets/{ticketID}/comment

Description: Open to every authenticated role; clients, developers, and
managers all discuss on the same thread. The caller refreshes the detail view
afterwards to pick up the updated thread.

Request:
  - Body: commentRequest (Comment)

Response:
  - 204: Comment accepted
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) comment(writer http.ResponseWriter, request *http.Request) {
	ticketID, err := numericParam(request, "ticketID", FieldTicketID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldComment, input.Comment).
		MaxLen(FieldComment, input.Comment, MaxCommentLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	current := session.FromContext(request.Context())
	if err := handler.tickets.AddComment(request.Context(), current.State.Token(), ticketID, input.Comment); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
listDevelopers returns the organization's assignment candidates.

GET /tickets/developers

Response:
  - 200: []backend.User
*/
func (handler *Handler) listDevelopers(writer http.ResponseWriter, request *http.Request) {
	current := session.FromContext(request.Context())

	developers, err := handler.tickets.ListDevelopers(request.Context(), current.State.Token())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, developers)
}

/*
assign routes a ticket to a developer.

POST /tickets/{ticketID}/assign

Request:
  - Body: assignTicketRequest (DeveloperID)

Response:
  - 204: Assignment accepted
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) assign(writer http.ResponseWriter, request *http.Request) {
	ticketID, err := numericParam(request, "ticketID", FieldTicketID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input assignTicketRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Custom(FieldDeveloperID, input.DeveloperID <= 0, "Must be a positive developer ID")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	current := session.FromContext(request.Context())
	if err := handler.tickets.AssignTicket(request.Context(), current.State.Token(), ticketID, input.DeveloperID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// numericParam parses a positive int64 URL parameter.
func numericParam(request *http.Request, param, field string) (int64, error) {
	raw := requestutil.Param(request, param)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, apperr.ValidationError("Invalid path parameter",
			apperr.FieldError{Field: field, Message: "Must be a positive numeric ID"})
	}
	return value, nil
}
