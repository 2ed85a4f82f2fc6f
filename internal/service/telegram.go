package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/eurofurence/admin-bot-go/internal/conversation"
	apperrors "github.com/eurofurence/admin-bot-go/internal/errors"
)

const (
	telegramTimeout   = 10 * time.Second
	parseModeMarkdown = tgbotapi.ModeMarkdown
)

var webhookUpdateKinds = []string{"message", "callback_query"}

// asAPIError extracts a Bot API rejection. tgbotapi.Error has a value
// receiver, so both the pointer and the value form are accepted.
func asAPIError(err error) (*tgbotapi.Error, bool) {
	var ptr *tgbotapi.Error
	if errors.As(err, &ptr) {
		return ptr, true
	}
	var val tgbotapi.Error
	if errors.As(err, &val) {
		return &val, true
	}
	return nil, false
}

func isAPIError(err error, fragment string) bool {
	apiErr, ok := asAPIError(err)
	return ok && strings.Contains(strings.ToLower(apiErr.Message), fragment)
}

// TelegramService talks to the Bot API through tgbotapi and implements
// conversation.Transport. Every call waits for a slot of the shared send
// limiter so bursts stay under Telegram's flood limits.
type TelegramService struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

// NewTelegramService builds the client without the getMe round trip that
// tgbotapi.NewBotAPI performs, so startup does not depend on Telegram.
func NewTelegramService(apiURL, token string, sendsPerSecond int) *TelegramService {
	if sendsPerSecond <= 0 {
		sendsPerSecond = 1
	}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: telegramTimeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(strings.TrimRight(apiURL, "/") + "/bot%s/%s")

	return &TelegramService{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), sendsPerSecond),
	}
}

// replyMarkup renders options as one row of inline buttons. Without options
// the client is told to remove its custom keyboard.
func replyMarkup(options []conversation.Option) interface{} {
	if len(options) == 0 {
		return tgbotapi.NewRemoveKeyboard(false)
	}

	row := make([]tgbotapi.InlineKeyboardButton, len(options))
	for i, o := range options {
		row[i] = tgbotapi.NewInlineKeyboardButtonData(o.Label, o.Value)
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func (s *TelegramService) SendMessage(ctx context.Context, chatID int64, text string, options []conversation.Option) (conversation.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseModeMarkdown
	msg.ReplyMarkup = replyMarkup(options)

	sent, err := s.send(ctx, msg)
	if isAPIError(err, "can't parse entities") {
		// User supplied text broke the markup; send it plain.
		log.Warn().Int64("chatId", chatID).Msg("markdown rejected, resending as plain text")
		msg.ParseMode = ""
		sent, err = s.send(ctx, msg)
	}
	if err != nil {
		return conversation.MessageRef{}, err
	}
	return conversation.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// RetractKeyboard removes the inline keyboard of a sent message.
func (s *TelegramService) RetractKeyboard(ctx context.Context, chatID int64, messageID int) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	err := s.request(ctx, "editMessageReplyMarkup", edit)
	if isAPIError(err, "message is not modified") {
		return nil
	}
	return err
}

func (s *TelegramService) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	return s.request(ctx, "answerCallbackQuery", tgbotapi.NewCallback(callbackQueryID, ""))
}

// SetWebhook registers url with the secret Telegram echoes in every delivery.
// tgbotapi.WebhookConfig predates secret_token, so the call is built by hand.
func (s *TelegramService) SetWebhook(ctx context.Context, url, secretToken string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secretToken)
	if err := params.AddInterface("allowed_updates", webhookUpdateKinds); err != nil {
		return fmt.Errorf("encode allowed_updates: %w", err)
	}
	return s.call(ctx, "setWebhook", func() error {
		_, err := s.bot.MakeRequest("setWebhook", params)
		return err
	})
}

func (s *TelegramService) send(ctx context.Context, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	var sent tgbotapi.Message
	err := s.call(ctx, "sendMessage", func() error {
		var err error
		sent, err = s.bot.Send(c)
		return err
	})
	return sent, err
}

func (s *TelegramService) request(ctx context.Context, method string, c tgbotapi.Chattable) error {
	return s.call(ctx, method, func() error {
		_, err := s.bot.Request(c)
		return err
	})
}

// call throttles fn and maps its failure: Bot API rejections become
// TELEGRAM_API_ERROR with the *tgbotapi.Error as cause, anything else is an
// unreachable upstream.
func (s *TelegramService) call(ctx context.Context, method string, fn func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if err == nil {
		log.Debug().
			Str("method", method).
			Dur("elapsed", elapsed).
			Msg("telegram request successful")
		return nil
	}

	if apiErr, ok := asAPIError(err); ok {
		log.Warn().
			Str("method", method).
			Int("code", apiErr.Code).
			Str("description", apiErr.Message).
			Dur("elapsed", elapsed).
			Msg("telegram request rejected")
		return apperrors.Telegram(method, apiErr.Message).WithCause(apiErr)
	}

	log.Error().
		Err(err).
		Str("method", method).
		Dur("elapsed", elapsed).
		Msg("telegram request error")
	return apperrors.External("Telegram Bot API", err)
}
