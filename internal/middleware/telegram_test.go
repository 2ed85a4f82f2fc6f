package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelegramSecretMiddleware(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	body := `{"update_id":1}`

	t.Run("rejects everything when secret is empty", func(t *testing.T) {
		middleware := NewTelegramSecretMiddleware("")
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		forged := `{"update_id":1,"message":{"message_id":1,"from":{"id":7,"username":"admin"},"chat":{"id":7},"text":"/pin"}}`
		for _, header := range []string{"", "anything"} {
			req := httptest.NewRequest("POST", "/telegram/webhook", bytes.NewBufferString(forged))
			if header != "" {
				req.Header.Set(TelegramSecretHeader, header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("rejects request without secret header", func(t *testing.T) {
		middleware := NewTelegramSecretMiddleware(secret)
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("POST", "/telegram/webhook", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects request with wrong secret", func(t *testing.T) {
		middleware := NewTelegramSecretMiddleware(secret)
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("POST", "/telegram/webhook", bytes.NewBufferString(body))
		req.Header.Set(TelegramSecretHeader, "wrong")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_WEBHOOK_SECRET")
	})

	t.Run("accepts request with matching secret", func(t *testing.T) {
		middleware := NewTelegramSecretMiddleware(secret)
		called := false
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("POST", "/telegram/webhook", bytes.NewBufferString(body))
		req.Header.Set(TelegramSecretHeader, secret)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}
