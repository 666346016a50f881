package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName identifies the browser for server-side backends.
const SessionCookieName = "todo_session"

// SessionProvider opens stores that live in a server-side Backend,
// namespaced by a per-browser session cookie.
type SessionProvider struct {
	Backend Backend
	Secure  bool
	// TTL is how long the session cookie lives after each request.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Open resolves or creates the browser's session and returns its scoped store.
func (p *SessionProvider) Open(w http.ResponseWriter, r *http.Request) (Store, error) {
	if p.Backend == nil {
		return nil, fmt.Errorf("session provider has no backend")
	}

	sessionID, ok := readSession(r)
	if !ok {
		sessionID = uuid.NewString()
	}
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    sessionID,
			Path:     "/",
			Expires:  p.now().Add(p.TTL),
			MaxAge:   int(p.TTL.Seconds()),
			HttpOnly: true,
			Secure:   p.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return &scopedStore{backend: p.Backend, namespace: sessionID, now: p.now}, nil
}

func (p *SessionProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func readSession(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if _, err := uuid.Parse(value); err != nil {
		return "", false
	}
	return value, true
}

// scopedStore adapts a Backend to the Store contract for one namespace.
type scopedStore struct {
	backend   Backend
	namespace string
	now       func() time.Time
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	entry, ok, err := s.backend.GetEntry(ctx, s.namespace, key)
	if err != nil {
		return "", false, err
	}
	if !ok || entry.Expired(s.now()) {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (s *scopedStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.backend.PutEntry(ctx, s.namespace, key, Entry{
		Value:     value,
		ExpiresAt: s.now().Add(ttl),
	})
}
