// Package errlog keeps capped, JSON-encoded lists of error records in a
// store. Each list keeps only its most recent entries, oldest evicted first.
package errlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

// Store keys and capacities for the three diagnostic logs.
const (
	KeyApp      = "app_errors"
	KeyBoundary = "error_boundary_logs"
	KeyLoading  = "loading_error_logs"

	CapacityApp      = 3
	CapacityBoundary = 10
	CapacityLoading  = 5
)

// Log is a rotating list of records under one store key.
type Log struct {
	store    store.Store
	key      string
	capacity int

	// Serializes read-modify-write cycles from this process.
	mu sync.Mutex
}

// New returns a Log persisting to key in s, keeping at most capacity entries.
func New(s store.Store, key string, capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{store: s, key: key, capacity: capacity}
}

// NewApp returns the application-level log.
func NewApp(s store.Store) *Log { return New(s, KeyApp, CapacityApp) }

// NewBoundary returns the generic boundary log.
func NewBoundary(s store.Store) *Log { return New(s, KeyBoundary, CapacityBoundary) }

// NewLoading returns the loading boundary log.
func NewLoading(s store.Store) *Log { return New(s, KeyLoading, CapacityLoading) }

// Key returns the store key of the log.
func (l *Log) Key() string { return l.key }

// Capacity returns the maximum number of retained entries.
func (l *Log) Capacity() int { return l.capacity }

// Append adds rec and evicts the oldest entries beyond capacity.
func (l *Log) Append(ctx context.Context, rec model.ErrorRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, rec)
	if over := len(entries) - l.capacity; over > 0 {
		entries = entries[over:]
	}
	return l.write(ctx, entries)
}

// Entries returns the stored records, oldest first.
func (l *Log) Entries(ctx context.Context) ([]model.ErrorRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(ctx)
}

// Clear empties the log.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.write(ctx, []model.ErrorRecord{})
}

func (l *Log) read(ctx context.Context) ([]model.ErrorRecord, error) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("errlog %s: read: %w", l.key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []model.ErrorRecord
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// A corrupt log is not worth failing the caller over; start afresh.
		return nil, nil
	}
	return entries, nil
}

func (l *Log) write(ctx context.Context, entries []model.ErrorRecord) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("errlog %s: encode: %w", l.key, err)
	}
	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		return fmt.Errorf("errlog %s: write: %w", l.key, err)
	}
	return nil
}
