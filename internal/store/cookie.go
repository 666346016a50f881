package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxCookieValueSize is the largest encoded value a browser reliably keeps.
const MaxCookieValueSize = 4096

// CookieProvider opens stores backed by the browser's own cookies.
type CookieProvider struct {
	Secure bool
}

// Open returns a CookieStore bound to the request and its response.
func (p CookieProvider) Open(w http.ResponseWriter, r *http.Request) (Store, error) {
	return NewCookieStore(w, r, p.Secure), nil
}

// CookieStore implements Store over request cookies and Set-Cookie headers.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	secure  bool
	written map[string]string
}

// NewCookieStore creates a cookie store for a single request.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{
		w:       w,
		r:       r,
		secure:  secure,
		written: make(map[string]string),
	}
}

// Get returns the value written earlier in this request, or the request cookie.
func (s *CookieStore) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.written[key]; ok {
		return v, true, nil
	}
	if s.r == nil {
		return "", false, nil
	}
	cookie, err := s.r.Cookie(key)
	if err != nil || cookie == nil {
		return "", false, nil
	}
	return decodeCookieValue(cookie.Value), true, nil
}

// Check reports ErrValueTooLarge when the encoded value would not fit in a cookie.
func (s *CookieStore) Check(key, value string) error {
	if n := len(url.QueryEscape(value)); n > MaxCookieValueSize {
		return fmt.Errorf("cookie %s is %d bytes: %w", key, n, ErrValueTooLarge)
	}
	return nil
}

// Set writes the value as a cookie that expires after ttl.
func (s *CookieStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.w == nil {
		return fmt.Errorf("cookie store has no response writer")
	}

	if err := s.Check(key, value); err != nil {
		return err
	}
	encoded := url.QueryEscape(value)

	removeSetCookie(s.w.Header(), key)
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.written[key] = value

	return nil
}

// decodeCookieValue undoes query escaping. Values that are not escaped are
// returned unchanged.
func decodeCookieValue(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// removeSetCookie drops an earlier Set-Cookie header for name so the last
// write in a response is the only one the browser sees.
func removeSetCookie(h http.Header, name string) {
	values := h.Values("Set-Cookie")
	if len(values) == 0 {
		return
	}
	prefix := name + "="
	kept := values[:0:0]
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			continue
		}
		kept = append(kept, v)
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
}
