package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

const secretBytes = 32

// GenerateWebhookSecret returns 32 random bytes in unpadded base64url, which
// stays inside the alphabet Telegram accepts for secret_token.
func GenerateWebhookSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// MaskPin keeps the first two digits of a PIN for log correlation.
func MaskPin(pin string) string {
	if len(pin) <= 2 {
		return "****"
	}
	return pin[:2] + "****"
}
