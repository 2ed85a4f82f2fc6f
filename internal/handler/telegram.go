package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/audit"
	"github.com/eurofurence/admin-bot-go/internal/conversation"
	"github.com/eurofurence/admin-bot-go/internal/metrics"
)

type UpdateRouter interface {
	OnMessage(ctx context.Context, ev conversation.MessageEvent) error
	OnOptionSelected(ctx context.Context, ev conversation.OptionEvent) error
}

type UpdateDeduper interface {
	FirstDelivery(ctx context.Context, updateID int64) (bool, error)
}

type ChatLimiter interface {
	AllowChat(ctx context.Context, chatID int64) (bool, time.Time, error)
}

type CallbackAnswerer interface {
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
}

// TelegramHandler receives Bot API updates. It always answers 200 once the
// body decodes, otherwise Telegram keeps redelivering the update. When Redis
// is unavailable both de-duplication and the per-chat limit are skipped; the
// webhook secret still keeps out unauthenticated callers.
type TelegramHandler struct {
	router   UpdateRouter
	dedup    UpdateDeduper
	limiter  ChatLimiter
	answerer CallbackAnswerer
}

func NewTelegramHandler(router UpdateRouter, dedup UpdateDeduper, limiter ChatLimiter, answerer CallbackAnswerer) *TelegramHandler {
	return &TelegramHandler{
		router:   router,
		dedup:    dedup,
		limiter:  limiter,
		answerer: answerer,
	}
}

func (h *TelegramHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("invalid telegram update")
		metrics.UpdatesTotal.WithLabelValues(updateKindOther, "invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result := h.process(r, &update)
	metrics.UpdatesTotal.WithLabelValues(updateKind(&update), result).Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *TelegramHandler) process(r *http.Request, update *tgbotapi.Update) string {
	ctx := r.Context()

	updateID := int64(update.UpdateID)
	first, err := h.dedup.FirstDelivery(ctx, updateID)
	if err != nil {
		log.Warn().Err(err).Int64("updateId", updateID).Msg("update dedup unavailable, processing anyway")
	} else if !first {
		log.Debug().Int64("updateId", updateID).Msg("duplicate telegram update")
		return "duplicate"
	}

	if cq := update.CallbackQuery; cq != nil {
		if err := h.answerer.AnswerCallbackQuery(ctx, cq.ID); err != nil {
			log.Warn().Err(err).Str("callbackQueryId", cq.ID).Msg("failed to answer callback query")
		}
	}

	chatID := updateChatID(update)
	if chatID == 0 {
		return "ignored"
	}

	allowed, resetAt, err := h.limiter.AllowChat(ctx, chatID)
	if err != nil {
		log.Warn().Err(err).Int64("chatId", chatID).Msg("chat rate limit unavailable, processing anyway")
	} else if !allowed {
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventRateLimitExceed,
			ChatID:  chatID,
			Details: map[string]interface{}{"reset_at": resetAt.UTC().Format(time.RFC3339)},
		})
		return "rate_limited"
	}

	switch {
	case update.Message != nil:
		return h.handleMessage(ctx, chatID, update.Message)
	case update.CallbackQuery != nil:
		return h.handleCallback(ctx, chatID, update.CallbackQuery)
	}
	return "ignored"
}

func (h *TelegramHandler) handleMessage(ctx context.Context, chatID int64, msg *tgbotapi.Message) string {
	if msg.From == nil || msg.From.IsBot || msg.Text == "" {
		return "ignored"
	}

	log.Info().
		Int64("chatId", chatID).
		Str("username", msg.From.UserName).
		Str("text", truncate(msg.Text, 50)).
		Msg("received telegram message")

	err := h.router.OnMessage(ctx, conversation.MessageEvent{
		ChatID: chatID,
		From:   identityOf(msg.From),
		Text:   msg.Text,
	})
	if err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("failed to process telegram message")
		return "error"
	}
	return "ok"
}

func (h *TelegramHandler) handleCallback(ctx context.Context, chatID int64, cq *tgbotapi.CallbackQuery) string {
	if cq.Data == "" || cq.From == nil {
		return "ignored"
	}

	log.Info().
		Int64("chatId", chatID).
		Str("username", cq.From.UserName).
		Str("value", cq.Data).
		Msg("received telegram option")

	err := h.router.OnOptionSelected(ctx, conversation.OptionEvent{
		ChatID:    chatID,
		From:      identityOf(cq.From),
		MessageID: cq.Message.MessageID,
		Value:     cq.Data,
	})
	if err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("failed to process telegram option")
		return "error"
	}
	return "ok"
}
