package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/eurofurence/admin-bot-go/internal/model"
)

type mockTelegramUserRepo struct {
	mock.Mock
}

func (m *mockTelegramUserRepo) FindByUsername(ctx context.Context, username string) (*model.TelegramUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TelegramUser), args.Error(1)
}

func (m *mockTelegramUserRepo) FindAll(ctx context.Context) ([]model.TelegramUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TelegramUser), args.Error(1)
}

func (m *mockTelegramUserRepo) UpsertACL(ctx context.Context, username string, acl int64) error {
	args := m.Called(ctx, username, acl)
	return args.Error(0)
}

type mockPushChannelRepo struct {
	mock.Mock
}

func (m *mockPushChannelRepo) FindAll(ctx context.Context, filter *model.ChannelFilter) ([]model.PushNotificationChannel, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PushNotificationChannel), args.Error(1)
}
