package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/conversation"
	apperrors "github.com/eurofurence/admin-bot-go/internal/errors"
	"github.com/eurofurence/admin-bot-go/internal/permission"
	"github.com/eurofurence/admin-bot-go/internal/repository"
)

var _ conversation.ACLStore = (*UserManager)(nil)

// UserManager stores the permission set of every Telegram user of the bot.
type UserManager struct {
	users repository.TelegramUserRepository
}

func NewUserManager(users repository.TelegramUserRepository) *UserManager {
	return &UserManager{users: users}
}

// GetPermissions returns None for unknown users and users without a username.
func (s *UserManager) GetPermissions(ctx context.Context, username string) (permission.Flags, error) {
	username = normalizeUsername(username)
	if username == "" {
		return permission.None, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return permission.None, apperrors.Database(err)
	}
	if user == nil {
		return permission.None, nil
	}
	return permission.Flags(user.ACL), nil
}

func (s *UserManager) SetPermissions(ctx context.Context, username string, flags permission.Flags) error {
	username = normalizeUsername(username)
	if username == "" {
		return apperrors.MissingRequired("username")
	}

	if err := s.users.UpsertACL(ctx, username, int64(flags)); err != nil {
		return apperrors.Database(err)
	}

	log.Info().
		Str("username", username).
		Str("acl", flags.String()).
		Msg("telegram user acl updated")
	return nil
}

func (s *UserManager) ListUsers(ctx context.Context) ([]conversation.UserACL, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	out := make([]conversation.UserACL, len(users))
	for i, u := range users {
		out[i] = conversation.UserACL{Username: u.Username, Permissions: permission.Flags(u.ACL)}
	}
	return out, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
