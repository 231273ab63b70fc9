package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condo-portal/ledger/internal/application/adapter"
)

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("test-secret", "condo-portal")

	t.Run("round trip keeps the community scope", func(t *testing.T) {
		token, err := svc.IssueAccessToken(ctx, adapter.TokenClaims{
			Subject: "admin-1",
			Email:   "admin@example.com",
			Scope:   adapter.CommunityScope{"com-1"},
		}, time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "admin-1", claims.Subject)
		assert.True(t, claims.Scope.Allows("com-1"))
		assert.False(t, claims.Scope.Allows("com-2"))
	})

	t.Run("expired tokens are rejected", func(t *testing.T) {
		token, err := svc.IssueAccessToken(ctx, adapter.TokenClaims{Subject: "admin-1"}, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("tokens signed with another secret are rejected", func(t *testing.T) {
		token, err := NewTokenService("other-secret", "condo-portal").IssueAccessToken(ctx, adapter.TokenClaims{Subject: "admin-1"}, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("tokens from another issuer are rejected", func(t *testing.T) {
		token, err := NewTokenService("test-secret", "someone-else").IssueAccessToken(ctx, adapter.TokenClaims{Subject: "admin-1"}, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("refresh tokens are not access tokens", func(t *testing.T) {
		claims := CustomClaims{
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "admin-1",
				Issuer:    "condo-portal",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(ctx, token)
		assert.Error(t, err)
	})
}
