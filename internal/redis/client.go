package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client shared by the update deduper and the rate
// limiters.
type Client struct {
	*redis.Client
}

// NewClient parses a redis:// or rediss:// URL and verifies the server
// answers before returning.
func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	c := &Client{redis.NewClient(opts)}
	if err := c.Healthy(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Healthy(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func UpdateKey(updateID int64) string {
	return fmt.Sprintf("telegram:update:%d", updateID)
}

func ChatRateLimitKey(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}
