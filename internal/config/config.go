package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

// Telegram accepts 1-256 characters from this set as webhook secret token.
var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

const EnvProduction = "production"

type Config struct {
	AppEnv                    string `env:"APP_ENV" envDefault:"development"`
	Port                      int    `env:"PORT" envDefault:"8080"`
	DatabaseURL               string `env:"DATABASE_URL,required"`
	RedisURL                  string `env:"REDIS_URL,required"`
	TelegramBotToken          string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAPIURL            string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	TelegramWebhookURL        string `env:"TELEGRAM_WEBHOOK_URL"`
	TelegramWebhookSecret     string `env:"TELEGRAM_WEBHOOK_SECRET"`
	TelegramSendRatePerSec    int    `env:"TELEGRAM_SEND_RATE_PER_SEC" envDefault:"25"`
	ChatRateLimitPerMin       int    `env:"CHAT_RATE_LIMIT_PER_MIN" envDefault:"30"`
	PinLoginRateLimitPerMin   int    `env:"PIN_LOGIN_RATE_LIMIT_PER_MIN" envDefault:"10"`
	UpdateDedupTTLSeconds     int    `env:"UPDATE_DEDUP_TTL_SECONDS" envDefault:"86400"`
	SessionIdleTimeoutMinutes int    `env:"SESSION_IDLE_TIMEOUT_MINUTES" envDefault:"60"`
	ConventionNumber          int    `env:"CONVENTION_NUMBER" envDefault:"0"`
	LogLevel                  string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) UpdateDedupTTL() time.Duration {
	return time.Duration(c.UpdateDedupTTLSeconds) * time.Second
}

// SessionIdleTimeout is zero when idle sessions never expire.
func (c *Config) SessionIdleTimeout() time.Duration {
	if c.SessionIdleTimeoutMinutes <= 0 {
		return 0
	}
	return time.Duration(c.SessionIdleTimeoutMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// Validate rejects configurations that would leave the webhook open. A secret
// may be omitted only when TELEGRAM_WEBHOOK_URL is set, because the server
// then generates one and registers it with setWebhook.
func (c *Config) Validate() error {
	if c.TelegramWebhookSecret == "" && c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_SECRET is required when TELEGRAM_WEBHOOK_URL is not set")
	}
	if c.TelegramWebhookSecret != "" && !webhookSecretPattern.MatchString(c.TelegramWebhookSecret) {
		return fmt.Errorf("TELEGRAM_WEBHOOK_SECRET may only contain A-Z, a-z, 0-9, _ and - (1-256 characters)")
	}
	if c.TelegramSendRatePerSec <= 0 {
		return fmt.Errorf("TELEGRAM_SEND_RATE_PER_SEC must be positive")
	}

	if c.IsProduction() {
		if err := validateSecret("TELEGRAM_WEBHOOK_SECRET", c.TelegramWebhookSecret); err != nil {
			return err
		}

		if c.ConventionNumber == 0 {
			log.Warn().Msg("CONVENTION_NUMBER is 0 in production: RegSys identities will not match the registration system")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -hex 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// Load reads an optional .env file, then parses the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
