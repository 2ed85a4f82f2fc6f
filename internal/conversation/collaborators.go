package conversation

import (
	"context"

	"github.com/eurofurence/admin-bot-go/internal/model"
	"github.com/eurofurence/admin-bot-go/internal/permission"
)

// Option is one button of a prompt keyboard. Selecting it sends Value back as
// if the user had typed it.
type Option struct {
	Label string
	Value string
}

// MessageRef identifies a message sent to a chat.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Transport delivers messages to a chat. A message sent without options
// removes any custom keyboard on the client.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, options []Option) (MessageRef, error)
	RetractKeyboard(ctx context.Context, chatID int64, messageID int) error
}

type UserACL struct {
	Username    string
	Permissions permission.Flags
}

// ACLStore holds the permission set of every bot user. Unknown users have None.
type ACLStore interface {
	GetPermissions(ctx context.Context, username string) (permission.Flags, error)
	SetPermissions(ctx context.Context, username string, flags permission.Flags) error
	ListUsers(ctx context.Context) ([]UserACL, error)
}

// PinProvider issues and looks up alternative login PINs. GetPin returns nil
// without error when no record exists.
type PinProvider interface {
	RequestPin(ctx context.Context, nameOnBadge, regNoOnBadge, requesterUID string) (*model.AlternativePin, error)
	GetPin(ctx context.Context, regNo int) (*model.AlternativePin, error)
}

type DeviceRegistry interface {
	FindAll(ctx context.Context, filter *model.ChannelFilter) ([]model.PushNotificationChannel, error)
}
