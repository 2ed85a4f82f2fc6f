package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/audit"
	apperrors "github.com/eurofurence/admin-bot-go/internal/errors"
	"github.com/eurofurence/admin-bot-go/internal/httputil"
	"github.com/eurofurence/admin-bot-go/internal/util"
)

const TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// TelegramSecretMiddleware admits webhook calls carrying the secret token that
// was registered with setWebhook. Without a configured secret every call is
// rejected: the update body names the sender, so an open webhook would let
// anyone act as an administrator.
type TelegramSecretMiddleware struct {
	secret string
}

func NewTelegramSecretMiddleware(secret string) *TelegramSecretMiddleware {
	return &TelegramSecretMiddleware{secret: secret}
}

func (m *TelegramSecretMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			log.Error().Msg("telegram webhook rejected: no webhook secret configured")
		}

		token := r.Header.Get(TelegramSecretHeader)
		if m.secret == "" || token == "" || !util.ConstantTimeEqual(token, m.secret) {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventAuthFailure,
				Details: map[string]interface{}{"reason": "telegram secret token mismatch"},
			})
			httputil.WriteError(w, apperrors.InvalidSecret())
			return
		}

		next.ServeHTTP(w, r)
	})
}
