package store

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrValueTooLarge is returned when a value does not fit the backing medium.
var ErrValueTooLarge = errors.New("value too large")

// Store defines an expiring key-value store scoped to one browser.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent or has expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key until ttl has elapsed.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Checker is implemented by stores that can reject a value before anything
// is written.
type Checker interface {
	Check(key, value string) error
}

// Provider opens the Store that belongs to the browser behind a request.
type Provider interface {
	Open(w http.ResponseWriter, r *http.Request) (Store, error)
}

// Entry is a stored value with its expiry.
type Entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry is no longer readable at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Backend defines server-side persistence for namespaced entries.
type Backend interface {
	GetEntry(ctx context.Context, namespace, key string) (Entry, bool, error)
	PutEntry(ctx context.Context, namespace, key string, entry Entry) error
	// Purge removes entries that expired at or before now and returns how many were removed.
	Purge(ctx context.Context, now time.Time) (int64, error)

	// Lifecycle
	Close() error
}
