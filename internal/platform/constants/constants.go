// Copyright (c) 2026 Ticketflow. All rights reserved.

/*
Package constants provides centralized, immutable values for the gateway.

It defines default timeouts, rate limits, and cross-cutting keys shared between
the transport, session, and guard layers.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Cookie configuration and persisted key names.
  - Navigation: Canonical paths the access guard redirects to.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "ticketflow-gateway"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle,
	// including the proxied round-trip to the ticket backend.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// BackendRequestTimeout bounds a single call to the ticket backend.
	BackendRequestTimeout = 15 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// LoginRateLimitRPS throttles credential-exchange attempts per IP.
	LoginRateLimitRPS = 1.0

	// LoginRateLimitBurst is the burst allowed for login attempts.
	LoginRateLimitBurst = 5

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session

const (
	// SessionCookieName identifies the browser session against the gateway.
	// The cookie carries an opaque session ID, never the bearer token itself.
	SessionCookieName = "tf_session"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// SessionTTL is how long persisted session entries survive without a login.
	// Tokens expire on their own schedule; this only bounds storage growth.
	SessionTTL = 7 * 24 * time.Hour
)

// # Navigation

const (
	// LoginPath is where unauthenticated navigation is redirected.
	LoginPath = "/login"

	// DefaultAuthenticatedPath is where navigation lands after login and after
	// a role-denied view access.
	DefaultAuthenticatedPath = "/dashboard"

	// UpsellPath renders the premium-plan block page.
	UpsellPath = "/upgrade"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Redis Prefixes (Storage Taxonomy)

const (
	RedisPrefixSessionToken   = "session:token:"
	RedisPrefixSessionProfile = "session:profile:"
)
