// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// SubjectKey holds the authenticated administrator's ID.
	SubjectKey ContextKey = "subject"
	// EmailKey holds the authenticated administrator's email.
	EmailKey ContextKey = "email"
	// ScopeKey holds the communities the token may act on.
	ScopeKey ContextKey = "community_scope"
)

const bearerPrefix = "Bearer "

// AuthMiddleware rejects requests without a valid portal access token.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate validates the bearer token and stores its claims on the request.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, message := bearerToken(c.GetHeader("Authorization"))
		if code != "" {
			unauthorized(c, code, message)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			slog.Debug("Rejected access token", "path", c.FullPath(), "error", err)
			unauthorized(c, domainerror.ErrCodeInvalidToken, domainerror.ErrInvalidToken.Error())
			return
		}

		c.Set(string(SubjectKey), claims.Subject)
		c.Set(string(EmailKey), claims.Email)
		c.Set(string(ScopeKey), claims.Scope)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. A non-empty
// code means the header is unusable.
func bearerToken(header string) (string, domainerror.AuthErrorCode, string) {
	if header == "" {
		return "", domainerror.ErrCodeMissingToken, "Authorization header is required"
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", domainerror.ErrCodeInvalidToken, "Authorization header must use the Bearer scheme"
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", domainerror.ErrCodeMissingToken, "Bearer token is empty"
	}
	return token, "", ""
}

func unauthorized(c *gin.Context, code domainerror.AuthErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}

// GetSubjectFromContext returns the token subject set by Authenticate.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	subject := c.GetString(string(SubjectKey))
	return subject, subject != ""
}

// GetScopeFromContext returns the community scope set by Authenticate.
func GetScopeFromContext(c *gin.Context) (adapter.CommunityScope, bool) {
	value, exists := c.Get(string(ScopeKey))
	if !exists {
		return nil, false
	}
	scope, ok := value.(adapter.CommunityScope)
	return scope, ok
}
