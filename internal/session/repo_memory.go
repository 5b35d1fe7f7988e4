// Copyright (c) 2026 Ticketflow. All rights reserved.

package session

import (
	"context"
	"sync"
)

// MemoryRepository implements [Repository] with an in-process map.
//
// It backs tests and single-instance development runs where a Redis is not
// worth standing up. Records do not survive a process restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryRepository creates an empty in-memory session repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record)}
}

// Save stores the record, replacing any previous one wholesale.
func (repository *MemoryRepository) Save(_ context.Context, sid string, record Record) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	// Copy the profile bytes so callers can't mutate stored state.
	stored := Record{Token: record.Token}
	if record.Profile != nil {
		stored.Profile = append([]byte(nil), record.Profile...)
	}
	repository.records[sid] = stored
	return nil
}

// Load returns the stored record or ErrNotFound.
func (repository *MemoryRepository) Load(_ context.Context, sid string) (*Record, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	record, ok := repository.records[sid]
	if !ok {
		return nil, ErrNotFound
	}

	out := Record{Token: record.Token}
	if record.Profile != nil {
		out.Profile = append([]byte(nil), record.Profile...)
	}
	return &out, nil
}

// Delete erases the record; deleting an absent record is not an error.
func (repository *MemoryRepository) Delete(_ context.Context, sid string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.records, sid)
	return nil
}

// Len reports the number of stored records. Test helper.
func (repository *MemoryRepository) Len() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return len(repository.records)
}
