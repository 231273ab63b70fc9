package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/integration/adapters"
	"github.com/condo-portal/ledger/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(tokens adapter.TokenService, limiter *RateLimiter) *gin.Engine {
	engine := gin.New()
	engine.Use(NewAuthMiddleware(tokens).Authenticate())
	handlers := []gin.HandlerFunc{func(c *gin.Context) {
		subject, _ := GetSubjectFromContext(c)
		scope, _ := GetScopeFromContext(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject, "scope": scope})
	}}
	if limiter != nil {
		handlers = append([]gin.HandlerFunc{limiter.Middleware()}, handlers...)
	}
	engine.POST("/communities/:id/delinquents/notify", handlers...)
	return engine
}

func issue(t *testing.T, tokens adapter.TokenService, subject string, scope adapter.CommunityScope) string {
	t.Helper()
	token, err := tokens.IssueAccessToken(context.Background(), adapter.TokenClaims{
		Subject: subject,
		Email:   subject + "@example.com",
		Scope:   scope,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func send(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/communities/com-1/delinquents/notify", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestAuthenticate(t *testing.T) {
	tokens := adapters.NewTokenService("test-secret", "condo-portal")
	engine := newAuthEngine(tokens, nil)

	t.Run("missing header", func(t *testing.T) {
		w := send(engine, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "AUTH-030003", errorCode(t, w))
	})

	t.Run("malformed header", func(t *testing.T) {
		w := send(engine, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "AUTH-030001", errorCode(t, w))
	})

	t.Run("invalid token", func(t *testing.T) {
		w := send(engine, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "AUTH-030001", errorCode(t, w))
	})

	t.Run("valid token exposes subject and scope", func(t *testing.T) {
		w := send(engine, "Bearer "+issue(t, tokens, "admin-1", adapter.CommunityScope{"com-1"}))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Subject string   `json:"subject"`
			Scope   []string `json:"scope"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "admin-1", body.Subject)
		assert.Equal(t, []string{"com-1"}, body.Scope)
	})
}

func TestRateLimiter(t *testing.T) {
	tokens := adapters.NewTokenService("test-secret", "condo-portal")

	t.Run("limits each subject independently", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Hour)
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }
		engine := newAuthEngine(tokens, limiter)

		first := "Bearer " + issue(t, tokens, "admin-1", nil)
		second := "Bearer " + issue(t, tokens, "admin-2", nil)

		assert.Equal(t, http.StatusOK, send(engine, first).Code)
		assert.Equal(t, http.StatusOK, send(engine, first).Code)

		w := send(engine, first)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "AUTH-020003", errorCode(t, w))

		assert.Equal(t, http.StatusOK, send(engine, second).Code)
	})

	t.Run("tokens refill over the window", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Hour)
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }
		engine := newAuthEngine(tokens, limiter)
		auth := "Bearer " + issue(t, tokens, "admin-1", nil)

		send(engine, auth)
		send(engine, auth)
		assert.Equal(t, http.StatusTooManyRequests, send(engine, auth).Code)

		now = now.Add(30 * time.Minute)
		assert.Equal(t, http.StatusOK, send(engine, auth).Code)
	})

	t.Run("non-positive limit disables limiting", func(t *testing.T) {
		engine := newAuthEngine(tokens, NewRateLimiter(0, time.Hour))
		auth := "Bearer " + issue(t, tokens, "admin-1", nil)

		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, send(engine, auth).Code)
		}
	})

	t.Run("rejections carry retry-after", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Hour)
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }
		engine := newAuthEngine(tokens, limiter)
		auth := "Bearer " + issue(t, tokens, "admin-1", nil)

		send(engine, auth)
		send(engine, auth)
		w := send(engine, auth)
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1800", w.Header().Get("Retry-After"))
	})

	t.Run("idle keys are swept", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		allowed, _ := limiter.allow("k")
		assert.True(t, allowed)
		allowed, _ = limiter.allow("k")
		assert.False(t, allowed)

		now = now.Add(2 * time.Minute)
		allowed, _ = limiter.allow("other")
		assert.True(t, allowed)
		assert.NotContains(t, limiter.buckets, "k")
		assert.Contains(t, limiter.buckets, "other")
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		code   string
	}{
		{name: "empty header", header: "", code: "AUTH-030003"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", code: "AUTH-030001"},
		{name: "blank token", header: "Bearer   ", code: "AUTH-030003"},
		{name: "token with padding", header: "Bearer  abc.def ", token: "abc.def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, code, _ := bearerToken(tt.header)
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.code, string(code))
		})
	}
}
