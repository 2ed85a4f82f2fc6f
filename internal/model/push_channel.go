package model

import (
	"time"

	"github.com/lib/pq"
)

// PushNotificationChannel is a device registered for push delivery. UID carries
// the signed-in identity, e.g. "RegSys:27:12345", or is empty for anonymous devices.
type PushNotificationChannel struct {
	ID                    string         `db:"id" json:"id"`
	Platform              Platform       `db:"platform" json:"platform"`
	UID                   string         `db:"uid" json:"uid"`
	DeviceID              string         `db:"device_id" json:"deviceId"`
	Topics                pq.StringArray `db:"topics" json:"topics"`
	LastChangeDateTimeUTC time.Time      `db:"last_change_at" json:"lastChangeDateTimeUtc"`
}

// ChannelFilter narrows a channel scan. Empty fields match everything.
type ChannelFilter struct {
	UIDPrefix string
	UIDSuffix string
}
