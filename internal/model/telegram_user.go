package model

import (
	"time"
)

// TelegramUser is an entry of the admin bot ACL. ACL holds the raw permission
// bits; the conversation package owns their meaning.
type TelegramUser struct {
	Username  string    `db:"username" json:"username"`
	ACL       int64     `db:"acl" json:"acl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
