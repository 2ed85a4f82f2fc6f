package service

import (
	"context"

	"github.com/eurofurence/admin-bot-go/internal/conversation"
	apperrors "github.com/eurofurence/admin-bot-go/internal/errors"
	"github.com/eurofurence/admin-bot-go/internal/model"
	"github.com/eurofurence/admin-bot-go/internal/repository"
)

var _ conversation.DeviceRegistry = (*PushChannelService)(nil)

// PushChannelService is the read side of the push notification channel store.
type PushChannelService struct {
	channels repository.PushChannelRepository
}

func NewPushChannelService(channels repository.PushChannelRepository) *PushChannelService {
	return &PushChannelService{channels: channels}
}

func (s *PushChannelService) FindAll(ctx context.Context, filter *model.ChannelFilter) ([]model.PushNotificationChannel, error) {
	channels, err := s.channels.FindAll(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return channels, nil
}
