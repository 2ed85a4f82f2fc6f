package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eurofurence/admin-bot-go/internal/database"
	"github.com/eurofurence/admin-bot-go/internal/model"
)

type TelegramUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.TelegramUser, error)
	FindAll(ctx context.Context) ([]model.TelegramUser, error)
	UpsertACL(ctx context.Context, username string, acl int64) error
}

type telegramUserRepo struct {
	db database.DBTX
}

func NewTelegramUserRepository(db *sqlx.DB) TelegramUserRepository {
	return &telegramUserRepo{db: db}
}

// FindByUsername matches case-insensitively, as Telegram does.
func (r *telegramUserRepo) FindByUsername(ctx context.Context, username string) (*model.TelegramUser, error) {
	var user model.TelegramUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM telegram_users WHERE lower(username) = lower($1)
	`, username)
	return optional(&user, err)
}

func (r *telegramUserRepo) FindAll(ctx context.Context) ([]model.TelegramUser, error) {
	var users []model.TelegramUser
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM telegram_users ORDER BY lower(username)
	`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *telegramUserRepo) UpsertACL(ctx context.Context, username string, acl int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO telegram_users (username, acl)
		VALUES (lower($1), $2)
		ON CONFLICT (username) DO UPDATE SET
			acl = EXCLUDED.acl,
			updated_at = NOW()
	`, username, acl)
	return err
}
