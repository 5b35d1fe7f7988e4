// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package auth implements the gateway's sign-in surface.

It orchestrates the credential exchange with the ticket backend and the
browser-session transitions that follow: a successful login installs the
issued token and profile into the session store, a logout erases them.

Architecture:

  - Service: Orchestrates the backend exchange and session transitions.
  - Handler: Thin HTTP layer (decode, validate, respond).
  - Session: All state lives in the session package; this package never
    holds identity data of its own.
*/
package auth

import (
	"context"
	"errors"

	"github.com/ticketflow/gateway/internal/backend"
	"github.com/ticketflow/gateway/internal/platform/apperr"
	"github.com/ticketflow/gateway/internal/session"
)

// # Definitions & Constructors

// Service implements the sign-in, sign-out, and registration use cases.
type Service struct {
	tickets  *backend.Client
	sessions *session.Store
}

// NewService constructs a new [Service] with its dependencies.
func NewService(tickets *backend.Client, sessions *session.Store) *Service {
	return &Service{tickets: tickets, sessions: sessions}
}

// # Sign-in Flow

// LoginInput holds the submitted credentials.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login exchanges credentials with the ticket backend and installs the session.

Description: The backend's verdict drives everything. Wrong credentials are a
clean 401; a granted token is decoded locally and becomes the session's
claims, alongside a best-effort profile (the exchange only returns the user
ID, so the profile starts with ID and the submitted email).

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier
  - input: LoginInput

Returns:
  - *session.State: Authenticated session on success
  - err: Unauthorized on wrong credentials, Upstream on backend failure
*/
func (service *Service) Login(ctx context.Context, sid string, input LoginInput) (*session.State, error) {
	result, err := service.tickets.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if !result.IsCorrectCredentials {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	profile := &session.Profile{
		ID:    result.UserID,
		Email: input.Email,
	}

	state := service.sessions.Login(ctx, sid, result.JWT, profile)
	if state.Phase() == session.LoggedOut {
		// The backend said yes but issued a token the gateway cannot decode.
		return nil, apperr.Upstream(errors.New("credential exchange returned an unusable token"))
	}
	return state, nil
}

// Logout erases the browser session. Idempotent.
func (service *Service) Logout(ctx context.Context, sid string) *session.State {
	return service.sessions.Logout(ctx, sid)
}

// CompleteProfile settles a session that authenticated without a full profile.
func (service *Service) CompleteProfile(ctx context.Context, sid string, state *session.State, profile *session.Profile) *session.State {
	return service.sessions.CompleteProfile(ctx, sid, state, profile)
}

// # Registration

// RegisterUser enrolls a new member under an existing organization. The new
// account signs in separately afterwards; registration never creates a session.
func (service *Service) RegisterUser(ctx context.Context, orgName string, orgID int64, input backend.RegisterUserInput) (*backend.User, error) {
	return service.tickets.RegisterUser(ctx, orgName, orgID, input)
}

// RegisterOrganization creates a new tenant organization.
func (service *Service) RegisterOrganization(ctx context.Context, input backend.RegisterOrganizationInput) (*backend.Organization, error) {
	return service.tickets.RegisterOrganization(ctx, input)
}
