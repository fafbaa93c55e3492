package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestJWT_Issue(t *testing.T) {
	secret := "test-secret"
	j := NewJWT(secret)

	token, err := j.Issue(domain.Identity{UserID: "user-123", Email: "u@example.com", DisplayName: "Ada"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
}

func TestJWT_Verify(t *testing.T) {
	j := NewJWT("test-secret")
	id := domain.Identity{UserID: "user-123", Email: "u@example.com"}

	t.Run("valid", func(t *testing.T) {
		token, err := j.Issue(id, time.Hour)
		require.NoError(t, err)
		got, err := j.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := j.Issue(id, -time.Minute)
		require.NoError(t, err)
		_, err = j.Verify(token)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWT("other").Issue(id, time.Hour)
		require.NoError(t, err)
		_, err = j.Verify(token)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("no subject", func(t *testing.T) {
		token, err := j.Issue(domain.Identity{Email: "u@example.com"}, time.Hour)
		require.NoError(t, err)
		_, err = j.Verify(token)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := j.Verify("not.a.token")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
