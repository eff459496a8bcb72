package auth

import (
	"context"
	"sync"
	"time"

	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Credential is one entry of the flat staff account list. Passwords are
// plain strings, matching the demo accounts this system ships with.
type Credential struct {
	Email    string
	Password string
}

// SessionStore persists session tokens. Implemented by the Redis client
// in production and MemorySessions for dev/tests.
type SessionStore interface {
	Set(ctx context.Context, token, email string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Gate authenticates staff against the credential list and tracks who is
// logged in via session tokens.
type Gate struct {
	users    []Credential
	sessions SessionStore
	ttl      time.Duration
	logger   *zap.Logger
}

// NewGate creates an authentication gate.
func NewGate(users []Credential, sessions SessionStore, ttl time.Duration) *Gate {
	return &Gate{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		logger:   util.GetLogger(),
	}
}

// Login checks the credential list and, on a match, issues a session token.
func (g *Gate) Login(ctx context.Context, email, password string) (string, bool) {
	for _, u := range g.users {
		if u.Email == email && u.Password == password {
			token := uuid.New().String()
			if err := g.sessions.Set(ctx, token, email, g.ttl); err != nil {
				g.logger.Error("Failed to store session", zap.Error(err))
				return "", false
			}
			util.LoginAttemptsTotal.WithLabelValues("success").Inc()
			g.logger.Info("User logged in", zap.String("email", email))
			return token, true
		}
	}
	util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
	g.logger.Warn("Login rejected", zap.String("email", email))
	return "", false
}

// Logout destroys a session token. Unknown tokens are a no-op.
func (g *Gate) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := g.sessions.Delete(ctx, token); err != nil {
		g.logger.Error("Failed to destroy session", zap.Error(err))
	}
}

// Authenticate resolves a session token to the acting user's email.
func (g *Gate) Authenticate(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	email, err := g.sessions.Get(ctx, token)
	if err != nil {
		return "", false
	}
	return email, true
}

// MemorySessions is an in-memory SessionStore for dev and tests.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	email   string
	expires time.Time
}

// NewMemorySessions returns an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]memorySession)}
}

func (m *MemorySessions) Set(_ context.Context, token, email string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memorySession{email: email, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MemorySessions) Get(_ context.Context, token string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok || time.Now().After(s.expires) {
		return "", ErrSessionNotFound
	}
	return s.email, nil
}

func (m *MemorySessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
