// Copyright (c) 2026 Ticketflow. All rights reserved.

package auth

// Field names used in validation error details.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
	FieldOrgName  = "orgName"
	FieldOrgID    = "orgId"
	FieldOrgEmail = "orgEmail"
	FieldOrgPlan  = "orgPlan"
)

// MinPasswordLength mirrors the ticket backend's password policy so obviously
// bad input is rejected before a round-trip.
const MinPasswordLength = 8
