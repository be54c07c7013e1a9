package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookshelf-backend/application/session"
	"bookshelf-backend/pkg/common"
)

type sessionContextKey struct{}

// Session is the in-memory representation of one request's session.
// It is loaded by the session middleware, mutated by handlers, and
// persisted back when the request ends. Not safe for concurrent use;
// scope it to a single request.
type Session struct {
	ID        string
	Values    map[string]string
	destroyed bool
}

// Get returns a session value, empty when unset
func (s *Session) Get(key string) string {
	return s.Values[key]
}

// Set stores a session value
func (s *Session) Set(key, value string) {
	s.Values[key] = value
}

// Delete removes a session value
func (s *Session) Delete(key string) {
	delete(s.Values, key)
}

// Destroy marks the session for removal at request end
func (s *Session) Destroy() {
	s.destroyed = true
	s.Values = make(map[string]string)
}

// IsAuthenticated reports the fixed authenticated-user predicate:
// the session carries a user entry
func (s *Session) IsAuthenticated() bool {
	return s.Get(SessionKeyUser) != ""
}

// SessionKeyUser is the session entry holding the logged-in user's email
const SessionKeyUser = "user"

// SessionManager loads and persists sessions around each request
type SessionManager struct {
	handler    *session.Handler
	cookieName string
	ttl        time.Duration
	secure     bool
	logger     *zap.Logger
}

// NewSessionManager creates a session middleware manager
func NewSessionManager(handler *session.Handler, cookieName string, ttl time.Duration, secure bool, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		handler:    handler,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		logger:     logger,
	}
}

// Middleware wires the session lifecycle around the request: load
// before the handler runs, persist (or destroy) after it returns.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.load(r)
		if err != nil {
			common.RespondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "session store is unavailable")
			return
		}

		// The cookie must go out before the handler writes the
		// response body
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))

		m.persist(r.Context(), sess)
	})
}

// load resolves the session id from the cookie, generating a fresh
// one when absent, and reads the stored payload
func (m *SessionManager) load(r *http.Request) (*Session, error) {
	var sid string
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		sid = cookie.Value
	} else {
		generated, err := session.NewSessionID()
		if err != nil {
			return nil, err
		}
		sid = generated
	}

	data, err := m.handler.Read(r.Context(), sid)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if len(data) > 0 {
		// Undecodable payloads read as an empty session, same as the
		// store-level contract
		if err := json.Unmarshal(data, &values); err != nil {
			m.logger.Warn("Session payload is not valid JSON, starting empty",
				zap.String("sessionID", sid),
				zap.Error(err),
			)
			values = make(map[string]string)
		}
	}

	return &Session{ID: sid, Values: values}, nil
}

// persist writes the session back, or removes it when destroyed.
// The request is already answered at this point, so failures are
// logged rather than surfaced.
func (m *SessionManager) persist(ctx context.Context, sess *Session) {
	if sess.destroyed {
		if err := m.handler.Destroy(ctx, sess.ID); err != nil {
			m.logger.Error("Failed to destroy session",
				zap.String("sessionID", sess.ID),
				zap.Error(err),
			)
		}
		return
	}

	data, err := json.Marshal(sess.Values)
	if err != nil {
		m.logger.Error("Failed to encode session payload", zap.Error(err))
		return
	}
	if err := m.handler.Write(ctx, sess.ID, data); err != nil {
		m.logger.Error("Failed to persist session",
			zap.String("sessionID", sess.ID),
			zap.Error(err),
		)
	}
}

// SessionFrom returns the request's session, nil when the session
// middleware is not installed
func SessionFrom(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
