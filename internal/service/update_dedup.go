package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	redisclient "github.com/eurofurence/admin-bot-go/internal/redis"
)

// UpdateDeduper remembers Telegram update ids so redelivered webhooks are
// handled once.
type UpdateDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUpdateDeduper(client *redis.Client, ttl time.Duration) *UpdateDeduper {
	return &UpdateDeduper{client: client, ttl: ttl}
}

// FirstDelivery reports whether updateID has not been seen within the TTL.
func (d *UpdateDeduper) FirstDelivery(ctx context.Context, updateID int64) (bool, error) {
	return d.client.SetNX(ctx, redisclient.UpdateKey(updateID), 1, d.ttl).Result()
}
