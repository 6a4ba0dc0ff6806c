package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshop/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, m.ttl)

	token, err := m.Issue(domain.User{ID: "u1", Role: domain.RoleGarage})
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
	assert.Equal(t, domain.RoleGarage, claims.Role)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenManager_Expired(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(domain.User{ID: "u1", Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.True(t, errors.Is(err, ErrTokenExpired), "got %v", err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	a, _ := NewTokenManager("one", time.Hour)
	b, _ := NewTokenManager("two", time.Hour)
	token, err := a.Issue(domain.User{ID: "u1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.True(t, errors.Is(err, ErrTokenInvalid), "got %v", err)

	_, err = b.Parse("garbage")
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("  ", time.Hour)
	assert.Error(t, err)
}

func TestExtractBearer(t *testing.T) {
	tok, ok := ExtractBearer("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = ExtractBearer("bearer   xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	_, ok = ExtractBearer("Basic abc")
	assert.False(t, ok)
	_, ok = ExtractBearer("Bearer ")
	assert.False(t, ok)
	_, ok = ExtractBearer("")
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	ok, err := CheckPassword(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}
