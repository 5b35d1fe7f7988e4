// Copyright (c) 2026 Ticketflow. All rights reserved.

package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Repository.Load] when no record exists for the
// session ID.
var ErrNotFound = errors.New("session: record not found")

// Record is the persisted form of a session: exactly two entries, written
// together on login and erased together on logout or invalid-token detection.
type Record struct {
	// Token is the raw bearer credential. It must be stored verbatim because
	// the gateway replays it to the ticket backend on every proxied call.
	Token string

	// Profile is the JSON-serialized user profile, or nil when the profile
	// has not been captured yet.
	Profile []byte
}

// Repository is the persistence contract for session records.
//
// Implementations must treat Save and Delete as all-or-nothing over both
// entries: a record with a profile but no token must never be observable.
type Repository interface {

	/*
		Save persists the record under the session ID, replacing any
		previous record wholesale.

		Parameters:
		  - ctx: context.Context
		  - sid: opaque browser-session identifier
		  - record: Record

		Returns:
		  - error: Persistence failures
	*/
	Save(ctx context.Context, sid string, record Record) error

	/*
		Load returns the record stored under the session ID.

		Parameters:
		  - ctx: context.Context
		  - sid: opaque browser-session identifier

		Returns:
		  - *Record: Hydrated record
		  - error: ErrNotFound when absent, otherwise retrieval failures
	*/
	Load(ctx context.Context, sid string) (*Record, error)

	/*
		Delete erases both entries of the record. Deleting an absent
		record is not an error.

		Parameters:
		  - ctx: context.Context
		  - sid: opaque browser-session identifier

		Returns:
		  - error: Persistence failures
	*/
	Delete(ctx context.Context, sid string) error
}
