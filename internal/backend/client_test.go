// Copyright (c) 2026 Ticketflow. All rights reserved.

package backend_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketflow/gateway/internal/backend"
	"github.com/ticketflow/gateway/internal/platform/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return backend.NewClient(server.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestClient_Login_DecodesVerdict verifies that both credential verdicts come
back intact: the exchange result, not an HTTP error, carries "wrong password".
*/
func TestClient_Login_DecodesVerdict(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		correct bool
	}{
		{
			name:    "granted",
			body:    `{"success":true,"status":200,"data":{"userId":42,"jwt":"token-42","isCorrectCredentials":true}}`,
			correct: true,
		},
		{
			name:    "wrong_password",
			body:    `{"success":true,"status":200,"data":{"userId":0,"jwt":"","isCorrectCredentials":false}}`,
			correct: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, http.MethodPost, request.Method)
				assert.Equal(t, "/auth/login", request.URL.Path)

				payload, _ := io.ReadAll(request.Body)
				assert.Contains(t, string(payload), "ada@example.com")

				writer.Header().Set("Content-Type", "application/json")
				_, _ = writer.Write([]byte(tt.body))
			})

			result, err := client.Login(context.Background(), "ada@example.com", "hunter2")
			require.NoError(t, err)
			assert.Equal(t, tt.correct, result.IsCorrectCredentials)

			if tt.correct {
				assert.Equal(t, int64(42), result.UserID)
				assert.Equal(t, "token-42", result.JWT)
			}
		})
	}
}

/*
TestClient_MirrorsEnvelopeRejection verifies that a failed envelope surfaces
with the backend's own status, code, and message.
*/
func TestClient_MirrorsEnvelopeRejection(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"success":false,"status":404,"error":{"status":404,"message":"Ticket not found","errorCode":"TICKET_NOT_FOUND"}}`))
	})

	_, err := client.GetTicket(context.Background(), "token", 99)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	assert.Equal(t, "TICKET_NOT_FOUND", appError.Code)
	assert.Equal(t, "Ticket not found", appError.Message)
}

/*
TestClient_TransportFailureIsUpstream verifies that an unreachable backend
maps to the 502 upstream error, never a raw transport error.
*/
func TestClient_TransportFailureIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // deliberately dead

	client := backend.NewClient(server.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.ListTickets(context.Background(), "token")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadGateway, appError.HTTPStatus)
	assert.Equal(t, "UPSTREAM_ERROR", appError.Code)
}

/*
TestClient_ForwardsBearerToken verifies that the session's token travels
verbatim in the Authorization header on scoped calls.
*/
func TestClient_ForwardsBearerToken(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer session-token", request.Header.Get("Authorization"))
		assert.Equal(t, "/ticket/getalltickets", request.URL.Path)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"success":true,"status":200,"data":[{"title":"Printer on fire","description":"again","status":"OPEN","priority":"URGENT"}]}`))
	})

	tickets, err := client.ListTickets(context.Background(), "session-token")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, backend.StatusOpen, tickets[0].Status)
	assert.Equal(t, backend.PriorityUrgent, tickets[0].Priority)
}

/*
TestClient_RegisterUser_QueryContract verifies the organization routing
parameters the backend expects on enrollment.
*/
func TestClient_RegisterUser_QueryContract(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/auth/register", request.URL.Path)
		assert.Equal(t, "Acme", request.URL.Query().Get("orgname"))
		assert.Equal(t, "7", request.URL.Query().Get("orgid"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"success":true,"status":201,"data":{"id":42,"name":"Ada","email":"ada@example.com","role":"CLIENT","organizationName":"Acme"}}`))
	})

	user, err := client.RegisterUser(context.Background(), "Acme", 7, backend.RegisterUserInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Acme", user.OrganizationName)
}

/*
TestClient_AssignTicket verifies the assignment path and payload.
*/
func TestClient_AssignTicket(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/ticket/15/assign", request.URL.Path)

		payload, _ := io.ReadAll(request.Body)
		assert.Contains(t, string(payload), `"developerId":3`)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"success":true,"status":200}`))
	})

	err := client.AssignTicket(context.Background(), "token", 15, 3)
	assert.NoError(t, err)
}

/*
TestClient_AskAI verifies the assistant relay decodes answer and sources.
*/
func TestClient_AskAI(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/aichats/ask", request.URL.Path)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"success":true,"status":200,"data":{"answer":"Restart it.","sources":["kb/printers.md"]}}`))
	})

	answer, err := client.AskAI(context.Background(), "token", "The printer is on fire")
	require.NoError(t, err)
	assert.Equal(t, "Restart it.", answer.Answer)
	assert.Equal(t, []string{"kb/printers.md"}, answer.Sources)
}
