package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/paperlens/internal/dataset"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "paperlens_session"

// DefaultMaxSessions bounds the store when no cap is configured.
const DefaultMaxSessions = 256

// Session is one browser's private view of the data.
type Session struct {
	ID    string
	Table *dataset.Table
	// Source identifies the cached dataset the table was cloned from.
	Source   *Dataset
	lastSeen time.Time
}

// SessionStore keeps sessions in memory, expires idle ones lazily and evicts
// the least recently seen session once limit is exceeded.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	limit    int
	sessions map[string]*Session
	now      func() time.Time
	metrics  *Metrics
}

// NewSessionStore returns a store whose sessions expire after ttl of
// inactivity and which holds at most limit sessions.
func NewSessionStore(ttl time.Duration, limit int, m *Metrics) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return &SessionStore{ttl: ttl, limit: limit, sessions: make(map[string]*Session), now: time.Now, metrics: m}
}

// Attach returns the session named by the request cookie, creating one (and
// setting the cookie) when it is missing, expired, or bound to another dataset.
func (s *SessionStore) Attach(w http.ResponseWriter, r *http.Request, ds *Dataset) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok && sess.Source == ds {
			sess.lastSeen = s.now()
			return sess
		}
	}
	sess := &Session{ID: uuid.NewString(), Table: ds.Table.Clone(), Source: ds, lastSeen: s.now()}
	s.sessions[sess.ID] = sess
	s.evictLocked(sess.ID)
	s.gaugeLocked()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// Len reports live sessions, dropping expired ones first.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
	s.gaugeLocked()
}

// evictLocked drops least recently seen sessions, other than keep, until the
// store is within its limit.
func (s *SessionStore) evictLocked(keep string) {
	for len(s.sessions) > s.limit {
		var oldest *Session
		for id, sess := range s.sessions {
			if id == keep {
				continue
			}
			if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
				oldest = sess
			}
		}
		delete(s.sessions, oldest.ID)
	}
}

func (s *SessionStore) gaugeLocked() {
	if s.metrics != nil {
		s.metrics.Sessions.Set(float64(len(s.sessions)))
	}
}
