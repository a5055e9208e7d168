package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for ids with no live session
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken is returned when a session token fails verification
	ErrInvalidToken = errors.New("invalid session token")
)

const tokenIssuer = "gourmet"

// ManagerConfig configures session lifetime and token signing
type ManagerConfig struct {
	Secret   []byte
	TokenTTL time.Duration
	IdleTTL  time.Duration
	// OnCountChange receives the live session count after every create,
	// remove, eviction and close
	OnCountChange func(n int)
}

// Manager creates, finds and expires sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      ManagerConfig
	opts     Options
	logger   *zap.SugaredLogger

	// countMu orders OnCountChange calls so the last report is never stale
	countMu sync.Mutex
}

// NewManager creates a manager; opts is the template for every new session
func NewManager(cfg ManagerConfig, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
	}
}

// Create starts a new session and returns it with a signed token
func (m *Manager) Create() (*Session, string, error) {
	id := uuid.NewString()
	token, err := m.IssueToken(id)
	if err != nil {
		return nil, "", err
	}

	s := New(id, m.opts)
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Infow("Session created", "session_id", id)
	m.reportCount()
	return s, token, nil
}

// Get looks up a live session
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Authenticate verifies token and returns the session it names
func (m *Manager) Authenticate(token string) (*Session, error) {
	id, err := m.ParseToken(token)
	if err != nil {
		return nil, err
	}
	s, ok := m.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// IssueToken signs an HS256 token whose subject is the session id
func (m *Manager) IssueToken(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:  sessionID,
		Issuer:   tokenIssuer,
		IssuedAt: now.Unix(),
	}
	if m.cfg.TokenTTL > 0 {
		claims.ExpiresAt = now.Add(m.cfg.TokenTTL).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies token and returns the session id it carries
func (m *Manager) ParseToken(token string) (string, error) {
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.cfg.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != tokenIssuer || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Remove closes and forgets a session
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
		m.reportCount()
	}
}

// EvictIdle removes sessions idle since before now minus the idle TTL and
// returns how many were removed
func (m *Manager) EvictIdle(now time.Time) int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		m.logger.Infow("Session expired", "session_id", s.ID())
	}
	if len(expired) > 0 {
		m.reportCount()
	}
	return len(expired)
}

// Run evicts idle sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.EvictIdle(now)
		}
	}
}

// Close stops every session's scheduled advances and forgets all sessions
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.reportCount()
}

func (m *Manager) reportCount() {
	if m.cfg.OnCountChange == nil {
		return
	}
	m.countMu.Lock()
	defer m.countMu.Unlock()
	m.cfg.OnCountChange(m.Len())
}
