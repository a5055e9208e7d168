package session

import (
	"testing"
	"time"

	"gourmet/internal/menu"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(cfg ManagerConfig) *Manager {
	if cfg.Secret == nil {
		cfg.Secret = []byte("test-secret")
	}
	return NewManager(cfg, Options{Catalog: menu.Default()})
}

func TestCreateAndAuthenticate(t *testing.T) {
	m := newManager(ManagerConfig{TokenTTL: time.Hour})
	defer m.Close()

	s, token, err := m.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, m.Len())

	got, err := m.Authenticate(token)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	m := newManager(ManagerConfig{})
	defer m.Close()

	_, err := m.Authenticate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newManager(ManagerConfig{Secret: []byte("other-secret")})
	foreign, err := other.IssueToken("abc")
	require.NoError(t, err)
	_, err = m.Authenticate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unknown, err := m.IssueToken("no-such-session")
	require.NoError(t, err)
	_, err = m.Authenticate(unknown)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	m := newManager(ManagerConfig{})
	claims := jwt.StandardClaims{
		Subject:   "abc",
		Issuer:    tokenIssuer,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEvictIdle(t *testing.T) {
	m := newManager(ManagerConfig{IdleTTL: time.Minute})
	defer m.Close()
	s, _, err := m.Create()
	require.NoError(t, err)

	assert.Zero(t, m.EvictIdle(time.Now()))
	assert.Equal(t, 1, m.EvictIdle(time.Now().Add(2*time.Minute)))

	_, ok := m.Get(s.ID())
	assert.False(t, ok)
}

func TestRemoveAndClose(t *testing.T) {
	m := newManager(ManagerConfig{})
	a, _, _ := m.Create()
	_, _, _ = m.Create()

	m.Remove(a.ID())
	assert.Equal(t, 1, m.Len())

	m.Close()
	assert.Zero(t, m.Len())
}

func TestCountChangeFollowsEveryRemoval(t *testing.T) {
	var counts []int
	m := newManager(ManagerConfig{
		IdleTTL:       time.Minute,
		OnCountChange: func(n int) { counts = append(counts, n) },
	})

	a, _, err := m.Create()
	require.NoError(t, err)
	_, _, err = m.Create()
	require.NoError(t, err)
	_, _, err = m.Create()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, counts)

	m.Remove(a.ID())
	assert.Equal(t, 2, counts[len(counts)-1])

	m.Remove("missing")
	assert.Len(t, counts, 4)

	require.Equal(t, 2, m.EvictIdle(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, counts[len(counts)-1])

	m.Close()
	assert.Equal(t, []int{1, 2, 3, 2, 0, 0}, counts)
}
