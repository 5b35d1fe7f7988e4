// Copyright (c) 2026 Ticketflow. All rights reserved.

package session

import (
	"context"

	"github.com/ticketflow/gateway/internal/platform/ctxkey"
)

// Current bundles what one request knows about its browser session: the
// opaque session ID from the cookie and the hydrated state snapshot.
type Current struct {
	// ID is the opaque browser-session identifier.
	ID string

	// State is the hydrated session state for this navigation.
	State *State
}

// WithCurrent returns a new context carrying the session for this request.
func WithCurrent(ctx context.Context, current Current) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, current)
}

// FromContext retrieves the session attached to the request.
//
// A request that never passed through the [Loader] middleware reads as a
// logged-out session rather than a nil to check for.
func FromContext(ctx context.Context) Current {
	current, ok := ctx.Value(ctxkey.KeySession).(Current)
	if !ok || current.State == nil {
		return Current{State: loggedOut}
	}
	return current
}
