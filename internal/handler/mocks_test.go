package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/eurofurence/admin-bot-go/internal/conversation"
)

type mockRouter struct {
	mock.Mock
}

func (m *mockRouter) OnMessage(ctx context.Context, ev conversation.MessageEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *mockRouter) OnOptionSelected(ctx context.Context, ev conversation.OptionEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type mockDeduper struct {
	mock.Mock
}

func (m *mockDeduper) FirstDelivery(ctx context.Context, updateID int64) (bool, error) {
	args := m.Called(ctx, updateID)
	return args.Bool(0), args.Error(1)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) AllowChat(ctx context.Context, chatID int64) (bool, time.Time, error) {
	args := m.Called(ctx, chatID)
	return args.Bool(0), args.Get(1).(time.Time), args.Error(2)
}

type mockAnswerer struct {
	mock.Mock
}

func (m *mockAnswerer) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	args := m.Called(ctx, callbackQueryID)
	return args.Error(0)
}

type mockPinAuthenticator struct {
	mock.Mock
}

func (m *mockPinAuthenticator) ValidateAndConsume(ctx context.Context, regNo int, pin string) (string, error) {
	args := m.Called(ctx, regNo, pin)
	return args.String(0), args.Error(1)
}
