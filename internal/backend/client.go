// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package backend is the typed HTTP client for the ticket service.

Every data operation in the gateway ends up here: the gateway never owns
ticket, user, or organization records, it relays them. The client decodes the
service's uniform response envelope ({success, status, data, error}) and
translates rejections into [apperr.AppError] values the rest of the gateway
already knows how to render.

Architecture:

  - Client: One instance per process, safe for concurrent use.
  - Envelope: All responses unwrap through a single decode path.
  - Auth: The caller's bearer token is forwarded verbatim; the ticket
    service performs its own verification on every request.
*/
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ticketflow/gateway/internal/platform/apperr"
	"github.com/ticketflow/gateway/internal/platform/constants"
	"github.com/ticketflow/gateway/internal/platform/sec"
)

// Client talks to the ticket service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient constructs a [Client] rooted at baseURL.
func NewClient(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: constants.BackendRequestTimeout},
		log:        log.With(slog.String("component", "backend_client")),
	}
}

// # Authentication

/*
Login exchanges credentials for a signed token.

Description: A wrong password is NOT an error at this layer; the backend
reports it inside a successful envelope with IsCorrectCredentials false, and
the caller decides what to do with that.

Parameters:
  - ctx: context.Context
  - email, password: The submitted credentials.

Returns:
  - *LoginResult: Token and credential verdict.
  - err: Transport or envelope failures only.
*/
func (client *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}

	data, err := client.do(ctx, http.MethodPost, "/auth/login", "", payload)
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode login response: %w", err))
	}
	return &result, nil
}

// RegisterUserInput holds the data required to enroll a new member under an
// existing organization.
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
RegisterUser enrolls a new member under the named organization.

Parameters:
  - ctx: context.Context
  - orgName, orgID: The organization the member joins, passed as query
    parameters per the ticket service's contract.
  - input: RegisterUserInput

Returns:
  - *User: Created entity.
  - err: Upstream rejection (duplicate email, unknown organization) or
    transport failure.
*/
func (client *Client) RegisterUser(ctx context.Context, orgName string, orgID int64, input RegisterUserInput) (*User, error) {
	query := url.Values{}
	query.Set("orgname", orgName)
	query.Set("orgid", fmt.Sprintf("%d", orgID))

	data, err := client.do(ctx, http.MethodPost, "/api/auth/register?"+query.Encode(), "", input)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode registered user: %w", err))
	}
	return &user, nil
}

// RegisterOrganizationInput holds the data required to create a new tenant
// organization.
type RegisterOrganizationInput struct {
	OrgName      string   `json:"orgName"`
	OrgEmail     string   `json:"orgEmail"`
	OrgAddr      string   `json:"orgAddr"`
	OrgPhone     int64    `json:"orgPhone"`
	IndustryType string   `json:"industryType"`
	OrgPlan      sec.Plan `json:"orgPlan"`
}

// RegisterOrganization creates a new tenant organization.
func (client *Client) RegisterOrganization(ctx context.Context, input RegisterOrganizationInput) (*Organization, error) {
	data, err := client.do(ctx, http.MethodPost, "/organization/create-organization", "", input)
	if err != nil {
		return nil, err
	}

	var organization Organization
	if err := json.Unmarshal(data, &organization); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode organization: %w", err))
	}
	return &organization, nil
}

// # Tickets

// ListTickets fetches every ticket visible to the bearer of token. The ticket
// service scopes the list by the token's role and organization.
func (client *Client) ListTickets(ctx context.Context, token string) ([]Ticket, error) {
	data, err := client.do(ctx, http.MethodGet, "/ticket/getalltickets", token, nil)
	if err != nil {
		return nil, err
	}

	var tickets []Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode ticket list: %w", err))
	}
	return tickets, nil
}

// GetTicket fetches one ticket with its comment thread.
func (client *Client) GetTicket(ctx context.Context, token string, ticketID int64) (*TicketDetail, error) {
	data, err := client.do(ctx, http.MethodGet, fmt.Sprintf("/ticket/%d", ticketID), token, nil)
	if err != nil {
		return nil, err
	}

	var detail TicketDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode ticket detail: %w", err))
	}
	return &detail, nil
}

// CreateTicket opens a new ticket on behalf of the bearer of token.
func (client *Client) CreateTicket(ctx context.Context, token string, input CreateTicketInput) (*Ticket, error) {
	data, err := client.do(ctx, http.MethodPost, "/ticket/createticket", token, input)
	if err != nil {
		return nil, err
	}

	var ticket Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode created ticket: %w", err))
	}
	return &ticket, nil
}

// AddComment appends a comment to a ticket's thread on behalf of the bearer
// of token. The refreshed thread comes back with the next detail fetch.
func (client *Client) AddComment(ctx context.Context, token string, ticketID int64, comment string) error {
	payload := map[string]string{"comment": comment}

	_, err := client.do(ctx, http.MethodPost, fmt.Sprintf("/ticket/%d/comment", ticketID), token, payload)
	return err
}

// ListDevelopers fetches the organization's developer accounts, the candidate
// pool for ticket assignment.
func (client *Client) ListDevelopers(ctx context.Context, token string) ([]User, error) {
	query := url.Values{}
	query.Set("role", string(sec.RoleDeveloper))

	data, err := client.do(ctx, http.MethodGet, "/ticket/getdevelopers?"+query.Encode(), token, nil)
	if err != nil {
		return nil, err
	}

	var developers []User
	if err := json.Unmarshal(data, &developers); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode developer list: %w", err))
	}
	return developers, nil
}

// AssignTicket routes an open ticket to a developer.
func (client *Client) AssignTicket(ctx context.Context, token string, ticketID, developerID int64) error {
	payload := map[string]int64{"developerId": developerID}

	_, err := client.do(ctx, http.MethodPost, fmt.Sprintf("/ticket/%d/assign", ticketID), token, payload)
	return err
}

// # AI Assistant

// AskAI relays a support question to the assistant and returns its grounded
// answer.
func (client *Client) AskAI(ctx context.Context, token, question string) (*AIAnswer, error) {
	payload := map[string]string{"question": question}

	data, err := client.do(ctx, http.MethodPost, "/aichats/ask", token, payload)
	if err != nil {
		return nil, err
	}

	var answer AIAnswer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode assistant answer: %w", err))
	}
	return &answer, nil
}

// # Health

// Ping probes the ticket service's reachability for the readiness endpoint.
// Any HTTP response counts as reachable; only transport failures are errors.
func (client *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, client.baseURL+"/", nil)
	if err != nil {
		return err
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	response.Body.Close()
	return nil
}

// # Transport

/*
do performs one round-trip and unwraps the response envelope.

Description: The single chokepoint for all backend traffic. Transport
failures become 502 Upstream errors; envelope rejections are mirrored back
with the backend's own status, code, and message.

Parameters:
  - ctx: context.Context
  - method, path: The HTTP method and backend-relative path.
  - token: Bearer token to forward, or "" for unauthenticated calls.
  - body: Request payload to JSON-encode, or nil.

Returns:
  - json.RawMessage: The envelope's data payload.
  - err: *apperr.AppError on any failure.
*/
func (client *Client) do(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {

	// 1. Encode the payload, if any.
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	// 2. Build the request.
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build request: %w", err))
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	// 3. Round-trip. A network failure is the gateway's problem to report,
	// not the browser's.
	response, err := client.httpClient.Do(request)
	if err != nil {
		client.log.Error("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, apperr.Upstream(err)
	}
	defer response.Body.Close()

	// 4. Decode the envelope.
	var wrapped envelope
	if err := json.NewDecoder(response.Body).Decode(&wrapped); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("decode response envelope: %w", err))
	}

	// 5. Mirror an envelope rejection with the backend's own vocabulary.
	if !wrapped.Success {
		status := response.StatusCode
		code := "UPSTREAM_ERROR"
		message := "The ticket service rejected the request"
		if wrapped.Error != nil {
			if wrapped.Error.Status != 0 {
				status = wrapped.Error.Status
			}
			if wrapped.Error.ErrorCode != "" {
				code = wrapped.Error.ErrorCode
			}
			if wrapped.Error.Message != "" {
				message = wrapped.Error.Message
			}
		}
		return nil, apperr.UpstreamStatus(status, code, message)
	}

	return wrapped.Data, nil
}
