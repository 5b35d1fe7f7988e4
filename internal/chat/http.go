// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package chat relays support questions to the AI assistant.

The assistant lives behind the ticket backend; the gateway's contribution is
the plan gate. The whole feature is PREMIUM-only, so every route here sits
behind the guard's upsell outcome: a BASE organization gets an actionable
402 with the upgrade page, never a silent failure.
*/
package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ticketflow/gateway/internal/backend"
	"github.com/ticketflow/gateway/internal/guard"
	requestutil "github.com/ticketflow/gateway/internal/platform/request"
	"github.com/ticketflow/gateway/internal/platform/respond"
	"github.com/ticketflow/gateway/internal/platform/validate"
	"github.com/ticketflow/gateway/internal/session"
)

// FieldQuestion names the single validated input field.
const FieldQuestion = "question"

// MaxQuestionLength caps a question at the assistant's context budget.
const MaxQuestionLength = 2000

// Handler implements the AI assistant HTTP endpoints.
type Handler struct {
	tickets *backend.Client
}

// NewHandler constructs a new [Handler].
func NewHandler(tickets *backend.Client) *Handler {
	return &Handler{tickets: tickets}
}

// Routes returns a [chi.Router] with the assistant routes. All of them
// require an authenticated session on a PREMIUM organization.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(guard.RequirePremium())
		r.Post("/ask", handler.ask)
	})

	return router
}

type askRequest struct {
	Question string `json:"question"`
}

/*
ask relays a support question to the assistant.

POST /chat/ask

Request:
  - Body: askRequest (Question)

Response:
  - 200: backend.AIAnswer: Grounded answer with sources
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 402: PLAN_UPGRADE_REQUIRED: BASE organization (from the guard)
*/
func (handler *Handler) ask(writer http.ResponseWriter, request *http.Request) {
	var input askRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldQuestion, input.Question).
		MaxLen(FieldQuestion, input.Question, MaxQuestionLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	current := session.FromContext(request.Context())
	answer, err := handler.tickets.AskAI(request.Context(), current.State.Token(), input.Question)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, answer)
}
