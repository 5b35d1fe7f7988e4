// Copyright (c) 2026 Ticketflow. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ticketflow/gateway/internal/backend"
	requestutil "github.com/ticketflow/gateway/internal/platform/request"
	"github.com/ticketflow/gateway/internal/platform/respond"
	"github.com/ticketflow/gateway/internal/platform/sec"
	"github.com/ticketflow/gateway/internal/platform/validate"
	"github.com/ticketflow/gateway/internal/session"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// Everything that creates or destroys a browser session enters here, plus
// the registration pass-throughs that do not touch the session at all.
type Handler struct {
	authService  *Service
	loginLimiter func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler].
//
// loginLimiter is the stricter rate-limit middleware applied to the login
// endpoint only; credential guessing gets a far smaller budget than browsing.
func NewHandler(service *Service, loginLimiter func(http.Handler) http.Handler) *Handler {
	return &Handler{authService: service, loginLimiter: loginLimiter}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login                   : Exchanges credentials for a session.
//   - POST /logout                  : Erases the session. Idempotent.
//   - GET  /session                 : Reports the current session state.
//   - POST /session/profile         : Completes a half-loaded session.
//   - POST /register/user           : Enrolls a member (no session created).
//   - POST /register/organization   : Creates a tenant organization.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.loginLimiter).Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/session", handler.currentSession)
	router.Post("/session/profile", handler.completeProfile)
	router.Post("/register/user", handler.registerUser)
	router.Post("/register/organization", handler.registerOrganization)

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type completeProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OrgName  string `json:"orgName"`
	OrgID    int64  `json:"orgId"`
}

type registerOrganizationRequest struct {
	OrgName      string   `json:"orgName"`
	OrgEmail     string   `json:"orgEmail"`
	OrgAddr      string   `json:"orgAddr"`
	OrgPhone     int64    `json:"orgPhone"`
	IndustryType string   `json:"industryType"`
	OrgPlan      sec.Plan `json:"orgPlan"`
}

// # Session View

// sessionView is what the browser app learns about its own session. The
// bearer token itself never appears here; it stays inside the gateway.
type sessionView struct {
	Phase         string           `json:"phase"`
	Authenticated bool             `json:"authenticated"`
	Role          sec.Role         `json:"role,omitempty"`
	OrgID         int64            `json:"orgId,omitempty"`
	Plan          sec.Plan         `json:"orgPlan,omitempty"`
	Profile       *session.Profile `json:"profile,omitempty"`
}

// viewOf projects a state snapshot into its client-facing view.
func viewOf(state *session.State, now time.Time) sessionView {
	view := sessionView{
		Phase:         state.Phase().String(),
		Authenticated: state.AuthenticatedAt(now),
		Profile:       state.Profile(),
	}
	if claims := state.Claims(); claims != nil {
		view.Role = claims.Role
		view.OrgID = claims.OrgID
		view.Plan = claims.OrgPlan
	}
	return view
}

// # Endpoint Implementations

/*
login exchanges credentials for an authenticated browser session.

POST /auth/login

Description: Validates input, performs the backend credential exchange, and
installs the resulting token and profile into this browser's session.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: sessionView: The authenticated session
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: Unauthorized: Wrong credentials
  - 502: Upstream: Ticket service unreachable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	current := session.FromContext(request.Context())
	state, err := handler.authService.Login(request.Context(), current.ID, LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, viewOf(state, time.Now()))
}

/*
logout erases the browser session.

POST /auth/logout

Description: Clears session state and persisted entries. Logging out twice is
indistinguishable from logging out once.

Response:
  - 200: sessionView: The logged-out session
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	current := session.FromContext(request.Context())
	state := handler.authService.Logout(request.Context(), current.ID)

	respond.OK(writer, viewOf(state, time.Now()))
}

/*
currentSession reports the session state for this browser.

GET /auth/session

Description: The browser app calls this on boot to restore its UI; the view
carries phase, role, and profile but never the token.

Response:
  - 200: sessionView
*/
func (handler *Handler) currentSession(writer http.ResponseWriter, request *http.Request) {
	current := session.FromContext(request.Context())
	respond.OK(writer, viewOf(current.State, time.Now()))
}

/*
completeProfile settles a session that authenticated without a full profile.

POST /auth/session/profile

Description: Applies only to a session in the loading_profile phase; any
other phase is returned unchanged.

Request:
  - Body: completeProfileRequest (Name, Email)

Response:
  - 200: sessionView: The settled session
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) completeProfile(writer http.ResponseWriter, request *http.Request) {
	var input completeProfileRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	current := session.FromContext(request.Context())
	if current.State.Phase() != session.LoadingProfile {
		// Nothing to settle; report the state as-is.
		respond.OK(writer, viewOf(current.State, time.Now()))
		return
	}

	profile := &session.Profile{
		ID:    current.State.Claims().SubjectNumericID(),
		Name:  input.Name,
		Email: input.Email,
	}

	state := handler.authService.CompleteProfile(request.Context(), current.ID, current.State, profile)
	respond.OK(writer, viewOf(state, time.Now()))
}

/*
registerUser enrolls a new member under an existing organization.

POST /auth/register/user

Description: Pure pass-through to the ticket backend; no session is created.
The new member signs in afterwards.

Request:
  - Body: registerUserRequest (Name, Email, Password, OrgName, OrgID)

Response:
  - 201: backend.User: Created account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 4xx/5xx: Mirrored backend rejection
*/
func (handler *Handler) registerUser(writer http.ResponseWriter, request *http.Request) {
	var input registerUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldOrgName, input.OrgName).
		Custom(FieldOrgID, input.OrgID <= 0, "Must be a positive organization ID")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.RegisterUser(request.Context(), input.OrgName, input.OrgID, backend.RegisterUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
registerOrganization creates a new tenant organization.

POST /auth/register/organization

Request:
  - Body: registerOrganizationRequest

Response:
  - 201: backend.Organization: Created organization
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 4xx/5xx: Mirrored backend rejection
*/
func (handler *Handler) registerOrganization(writer http.ResponseWriter, request *http.Request) {
	var input registerOrganizationRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOrgName, input.OrgName).
		Required(FieldOrgEmail, input.OrgEmail).
		Email(FieldOrgEmail, input.OrgEmail).
		OneOf(FieldOrgPlan, string(input.OrgPlan), string(sec.PlanBase), string(sec.PlanPremium))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	organization, err := handler.authService.RegisterOrganization(request.Context(), backend.RegisterOrganizationInput{
		OrgName:      input.OrgName,
		OrgEmail:     input.OrgEmail,
		OrgAddr:      input.OrgAddr,
		OrgPhone:     input.OrgPhone,
		IndustryType: input.IndustryType,
		OrgPlan:      input.OrgPlan,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, organization)
}
