package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AlternativePin lets an attendee log in with registration number and PIN when
// the registration system credentials are unavailable.
type AlternativePin struct {
	ID                     string         `db:"id" json:"id"`
	RegNo                  int            `db:"reg_no" json:"regNo"`
	NameOnBadge            string         `db:"name_on_badge" json:"nameOnBadge"`
	Pin                    string         `db:"pin" json:"pin"`
	IssuedDateTimeUTC      time.Time      `db:"issued_at" json:"issuedDateTimeUtc"`
	IssuedByUID            string         `db:"issued_by_uid" json:"issuedByUid"`
	IssueLog               PinIssueLog    `db:"issue_log" json:"issueLog"`
	PinConsumptionDatesUTC ConsumptionLog `db:"consumed_at" json:"pinConsumptionDatesUtc"`
	CreatedAt              time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt              time.Time      `db:"updated_at" json:"updatedAt"`
}

type PinIssueRecord struct {
	NameOnBadge        string    `json:"nameOnBadge"`
	RequesterUID       string    `json:"requesterUid"`
	RequestDateTimeUTC time.Time `json:"requestDateTimeUtc"`
}

// PinIssueLog is stored as a JSONB array.
type PinIssueLog []PinIssueRecord

func (l PinIssueLog) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *PinIssueLog) Scan(src any) error {
	return scanJSON(src, l)
}

// ConsumptionLog holds the UTC times a PIN was used to log in, stored as JSONB.
type ConsumptionLog []time.Time

func (c ConsumptionLog) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *ConsumptionLog) Scan(src any) error {
	return scanJSON(src, c)
}

func scanJSON(src any, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("scan json: unsupported source type %T", src)
	}
}

type UpsertAlternativePinParams struct {
	ID          string
	RegNo       int
	NameOnBadge string
	Pin         string
	IssuedAt    time.Time
	IssuedByUID string
	IssueLog    PinIssueLog
}
