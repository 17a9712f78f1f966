package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return &Manager{Secret: []byte("test-secret"), TTL: 24 * time.Hour, Issuer: "convenz-admin"}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newManager()

	token, err := m.NewToken("64b7f0c2a1b2c3d4e5f60718", "super-admin")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.ID)
	assert.Equal(t, "super-admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseRejects(t *testing.T) {
	m := newManager()

	expired := &Manager{Secret: m.Secret, TTL: -time.Hour}
	expiredToken, err := expired.NewToken("id", "admin")
	require.NoError(t, err)

	otherSecret := &Manager{Secret: []byte("other"), TTL: time.Hour}
	foreignToken, err := otherSecret.NewToken("id", "admin")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: "id", Role: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"alg none", noneToken},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.NoError(t, ComparePassword(hash, "admin123"))
	assert.Error(t, ComparePassword(hash, "admin124"))
	assert.Error(t, ComparePassword("", "admin123"))

	_, err = HashPassword("")
	assert.Error(t, err)
}
