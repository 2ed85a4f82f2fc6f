package config

import "time"

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 75 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout at start-up
const DBPingTimeout = 5 * time.Second

// Telegram setWebhook call at start-up
const WebhookSetupTimeout = 15 * time.Second

// Background job intervals
const SessionExpiryInterval = time.Minute

// Window of the per-chat and per-IP rate limits
const RateLimitWindow = time.Minute
