package httpapi

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/qikao/ordering/internal/engine"
	"github.com/qikao/ordering/internal/menu"
	"github.com/qikao/ordering/internal/store"
)

// SessionCookie carries the session id between requests.
const SessionCookie = "qikao_session"

// Sessions owns one engine per active session. Engines are created
// lazily on first request and rehydrate themselves from the backend,
// so a server restart does not lose live carts.
type Sessions struct {
	mu      sync.Mutex
	catalog *menu.Catalog
	backend store.Backend
	log     *slog.Logger
	opts    []engine.Option
	engines map[string]*engine.Engine
}

// NewSessions builds the session registry. opts are passed to every
// engine (test hooks use this to inject schedulers).
func NewSessions(catalog *menu.Catalog, backend store.Backend, log *slog.Logger, opts ...engine.Option) *Sessions {
	return &Sessions{
		catalog: catalog,
		backend: backend,
		log:     log,
		opts:    opts,
		engines: make(map[string]*engine.Engine),
	}
}

// ForRequest resolves the request's engine, minting a session cookie
// for first-time visitors.
func (s *Sessions) ForRequest(w http.ResponseWriter, r *http.Request) *engine.Engine {
	id := s.sessionID(w, r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.engines[id]; ok {
		return e
	}

	opts := append([]engine.Option{engine.WithLogger(s.log.With("session", id))}, s.opts...)
	e := engine.New(s.catalog, s.backend.Session(id), opts...)
	s.engines[id] = e
	return e
}

func (s *Sessions) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
