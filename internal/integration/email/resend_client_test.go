package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condo-portal/ledger/internal/application/adapter"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

func newResendServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResendClient_Send(t *testing.T) {
	ctx := context.Background()
	message := adapter.SendEmailInput{
		To:      "ana@example.com",
		Name:    "Ana López",
		Subject: "Aviso de adeudo - Unidad A-101",
		HTML:    "<p>Saldo 2400.00</p>",
		Text:    "Saldo 2400.00",
		Tags:    map[string]string{"template": "delinquency_notice", "community": "com-1"},
	}

	t.Run("delivers with tags and reply-to", func(t *testing.T) {
		var request map[string]any
		server := newResendServer(t, http.StatusOK, `{"id":"msg-42"}`, &request)

		client, err := NewResendClient("re_test", "Administración", "admin@example.com",
			WithBaseURL(server.URL), WithReplyTo("oficina@example.com"))
		require.NoError(t, err)

		result, err := client.Send(ctx, message)
		require.NoError(t, err)
		assert.Equal(t, "msg-42", result.MessageID)

		assert.Equal(t, "Administración <admin@example.com>", request["from"])
		assert.Equal(t, []any{"Ana López <ana@example.com>"}, request["to"])
		assert.Equal(t, "oficina@example.com", request["reply_to"])
		assert.Equal(t, []any{
			map[string]any{"name": "community", "value": "com-1"},
			map[string]any{"name": "template", "value": "delinquency_notice"},
		}, request["tags"])
	})

	t.Run("validation errors are permanent", func(t *testing.T) {
		server := newResendServer(t, http.StatusUnprocessableEntity,
			`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`, nil)
		client, err := NewResendClient("re_test", "", "admin@example.com", WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = client.Send(ctx, message)

		var notificationErr *domainerror.NotificationError
		require.True(t, errors.As(err, &notificationErr))
		assert.True(t, notificationErr.IsPermanent())
	})

	t.Run("server errors are retried", func(t *testing.T) {
		server := newResendServer(t, http.StatusServiceUnavailable,
			`{"statusCode":503,"name":"application_error","message":"Service down"}`, nil)
		client, err := NewResendClient("re_test", "", "admin@example.com", WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = client.Send(ctx, message)

		var notificationErr *domainerror.NotificationError
		require.True(t, errors.As(err, &notificationErr))
		assert.False(t, notificationErr.IsPermanent())
	})

	t.Run("rejects a malformed base url", func(t *testing.T) {
		_, err := NewResendClient("re_test", "", "admin@example.com", WithBaseURL("http://[::1"))
		assert.Error(t, err)
	})
}
