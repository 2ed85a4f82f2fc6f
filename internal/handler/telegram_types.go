package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/eurofurence/admin-bot-go/internal/conversation"
)

const (
	updateKindMessage  = "message"
	updateKindCallback = "callback_query"
	updateKindOther    = "other"
)

func updateKind(u *tgbotapi.Update) string {
	switch {
	case u.Message != nil:
		return updateKindMessage
	case u.CallbackQuery != nil:
		return updateKindCallback
	default:
		return updateKindOther
	}
}

// updateChatID returns the chat the update belongs to, or 0 if it has none.
// Update.FromChat is not used: it dereferences the message of inline
// callback queries, which Telegram omits.
func updateChatID(u *tgbotapi.Update) int64 {
	var msg *tgbotapi.Message
	switch {
	case u.Message != nil:
		msg = u.Message
	case u.CallbackQuery != nil:
		msg = u.CallbackQuery.Message
	}
	if msg == nil || msg.Chat == nil {
		return 0
	}
	return msg.Chat.ID
}

func identityOf(u *tgbotapi.User) conversation.Identity {
	return conversation.Identity{ID: u.ID, Username: u.UserName}
}
