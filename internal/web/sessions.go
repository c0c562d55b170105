package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/price-estimator/internal/metrics"
	"github.com/evcraddock/price-estimator/internal/predict"
)

const (
	defaultSessionTTL = 2 * time.Hour
	cookieName        = "pe_session"
)

type session struct {
	form     *predict.Controller
	lastSeen time.Time
}

// sessionStore gives each browser its own form. Forms live in memory and
// are dropped after ttl without activity.
type sessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	newForm func() *predict.Controller
	items   map[string]*session
}

func newSessionStore(ttl time.Duration, newForm func() *predict.Controller) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		ttl:     ttl,
		now:     time.Now,
		newForm: newForm,
		items:   make(map[string]*session),
	}
}

// Get returns the caller's form, creating a session and setting the cookie
// when the request carries no live session.
func (s *sessionStore) Get(w http.ResponseWriter, r *http.Request) *predict.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.cleanupLocked(now)

	if cookie, err := r.Cookie(cookieName); err == nil {
		if sess, ok := s.items[cookie.Value]; ok {
			sess.lastSeen = now
			return sess.form
		}
	}

	id := uuid.NewString()
	sess := &session{form: s.newForm(), lastSeen: now}
	s.items[id] = sess
	metrics.SessionsActive.Set(float64(len(s.items)))

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sess.form
}

// Len returns the number of live sessions.
func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// cleanupLocked removes expired sessions. Forms with a request in flight
// are kept until they settle.
func (s *sessionStore) cleanupLocked(now time.Time) {
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) <= s.ttl {
			continue
		}
		if _, pending := sess.form.State().(predict.Pending); pending {
			continue
		}
		delete(s.items, id)
	}
	metrics.SessionsActive.Set(float64(len(s.items)))
}
