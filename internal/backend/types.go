// Copyright (c) 2026 Ticketflow. All rights reserved.

package backend

import (
	"encoding/json"

	"github.com/ticketflow/gateway/internal/platform/sec"
)

// # Wire Envelope

// envelope is the wrapper every backend response arrives in. On success the
// payload sits in Data; on failure Error describes the rejection.
type envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
}

// wireError is the backend's structured rejection.
type wireError struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// # Ticket Vocabulary

// Priority orders tickets for triage.
type Priority string

const (
	PriorityUrgent    Priority = "URGENT"
	PriorityImportant Priority = "IMPORTANT"
	PriorityMedium    Priority = "MEDIUM"
	PriorityLow       Priority = "LOW"
)

// Status tracks a ticket through its lifecycle.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "INPROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusReopened   Status = "REOPENED"
	StatusClosed     Status = "CLOSED"
)

// # Data Transfer Objects

// LoginResult is the backend's answer to a credential exchange. The token is
// only meaningful when IsCorrectCredentials is true.
type LoginResult struct {
	UserID               int64  `json:"userId"`
	JWT                  string `json:"jwt"`
	IsCorrectCredentials bool   `json:"isCorrectCredentials"`
}

// User mirrors the backend's user record.
type User struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Role             sec.Role `json:"role"`
	OrganizationName string   `json:"organizationName"`
	CreatedAt        string   `json:"createdAt"`
}

// Organization mirrors the backend's organization record.
type Organization struct {
	ID           int64    `json:"id"`
	OrgName      string   `json:"orgName"`
	OrgEmail     string   `json:"orgEmail"`
	OrgAddr      string   `json:"orgAddr"`
	OrgPhone     int64    `json:"orgPhone"`
	IndustryType string   `json:"industryType"`
	OrgPlan      sec.Plan `json:"orgPlan"`
	CreatedAt    string   `json:"createdAt"`
}

// Ticket is the list-view projection of a support ticket.
type Ticket struct {
	ID               int64    `json:"id,omitempty"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Status           Status   `json:"status"`
	Priority         Priority `json:"priority"`
	ClientName       string   `json:"clientName,omitempty"`
	AssignedToName   string   `json:"assignedToName,omitempty"`
	AssignedByName   string   `json:"assignedByName,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	DueDate          string   `json:"dueDate,omitempty"`
	PhotoPath        []string `json:"photoPath,omitempty"`
	OrganizationName string   `json:"organizationName,omitempty"`
}

// TicketDetail is the single-ticket projection, including comments.
type TicketDetail struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	ClientName     string   `json:"clientName"`
	AssignedToName string   `json:"assignedToName,omitempty"`
	AssignedByName string   `json:"assignedByName,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	DueDate        string   `json:"dueDate,omitempty"`
	PhotoPath      []string `json:"photoPath,omitempty"`
	Comments       []string `json:"comments,omitempty"`
}

// CreateTicketInput is the payload for opening a new ticket.
type CreateTicketInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"dueDate,omitempty"`
}

// AIAnswer is the assistant's response to a support question, with the
// knowledge-base fragments it was grounded on.
type AIAnswer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
