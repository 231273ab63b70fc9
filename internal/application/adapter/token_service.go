// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// CommunityScope lists the communities a caller administers.
// An empty scope grants access to every community.
type CommunityScope []string

// Allows reports whether the scope covers the community.
func (s CommunityScope) Allows(communityID string) bool {
	if len(s) == 0 {
		return true
	}
	for _, id := range s {
		if id == communityID {
			return true
		}
	}
	return false
}

// TokenClaims represents the claims of a portal access token.
type TokenClaims struct {
	Subject   string
	Email     string
	Scope     CommunityScope
	ExpiresAt time.Time
}

// TokenService defines the interface for access token operations.
type TokenService interface {
	// IssueAccessToken signs a new access token for the given claims.
	IssueAccessToken(ctx context.Context, claims TokenClaims, ttl time.Duration) (string, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
