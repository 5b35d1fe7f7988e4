// Copyright (c) 2026 Ticketflow. All rights reserved.

// Package sec defines the authorization vocabulary of the gateway: roles,
// organization plans, and the claims carried inside the backend-issued
// bearer token.
//
// # Security Model
//
// The gateway decodes token claims locally and trusts them for rendering
// decisions only. Signature verification is the ticket backend's job; it
// re-enforces role and plan checks on every data request. The access guard
// built on these claims is therefore a UX convenience, NOT a security
// boundary, and must never be treated as one.
package sec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload the ticket backend embeds in its access tokens.
//
// It carries everything the gateway needs to derive authorization facts
// without a network round-trip: identity, role, organization, plan, and the
// validity window.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the user inside their organization.
	Role Role `json:"role"`

	// OrgID is the numeric identifier of the user's organization.
	OrgID int64 `json:"orgId"`

	// OrgPlan is the organization's subscription tier.
	OrgPlan Plan `json:"orgPlan"`
}

// SubjectID returns the user identifier carried in the standard 'sub' claim.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// SubjectNumericID returns the 'sub' claim parsed as the backend's numeric
// user ID, or 0 when the subject is not numeric.
func (c *Claims) SubjectNumericID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ExpiresBy reports whether the token's validity window has closed at the
// given instant. A token without an expiry claim is always considered
// expired — the backend stamps one on every token it issues, so its absence
// means the token was not minted by the backend.
func (c *Claims) ExpiresBy(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now)
}

// DecodeClaims parses the bearer token payload without verifying its
// signature.
//
// The returned claims are structurally validated (decodable JWT, expiry claim
// present) but cryptographically unverified — see the package comment. Expiry
// is NOT checked here; callers decide whether a decoded-but-expired token is
// acceptable for their purpose.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("sec: malformed token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("sec: token carries no expiry claim")
	}

	return claims, nil
}
