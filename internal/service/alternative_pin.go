package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/eurofurence/admin-bot-go/internal/badge"
	"github.com/eurofurence/admin-bot-go/internal/conversation"
	"github.com/eurofurence/admin-bot-go/internal/database"
	apperrors "github.com/eurofurence/admin-bot-go/internal/errors"
	"github.com/eurofurence/admin-bot-go/internal/model"
	"github.com/eurofurence/admin-bot-go/internal/repository"
	"github.com/eurofurence/admin-bot-go/internal/util"
)

const pinLength = 6

var _ conversation.PinProvider = (*AlternativePinService)(nil)

// AlternativePinService issues PINs that let attendees log in with their
// registration number when the registration system is unavailable to them.
type AlternativePinService struct {
	db               *database.DB
	pins             repository.AlternativePinRepository
	conventionNumber int
	now              func() time.Time
}

func NewAlternativePinService(db *database.DB, pins repository.AlternativePinRepository, conventionNumber int) *AlternativePinService {
	return &AlternativePinService{
		db:               db,
		pins:             pins,
		conventionNumber: conventionNumber,
		now:              time.Now,
	}
}

// RequestPin issues a fresh PIN for the badge and appends the request to the
// issue log of its record, creating the record on first use.
func (s *AlternativePinService) RequestPin(ctx context.Context, nameOnBadge, regNoOnBadge, requesterUID string) (*model.AlternativePin, error) {
	regNo, ok := badge.Parse(regNoOnBadge)
	if !ok {
		return nil, apperrors.InvalidBadge(regNoOnBadge)
	}
	nameOnBadge = strings.TrimSpace(nameOnBadge)
	if nameOnBadge == "" {
		return nil, apperrors.MissingRequired("nameOnBadge")
	}

	pin, err := generatePin()
	if err != nil {
		return nil, apperrors.Internal("failed to generate pin").WithCause(err)
	}

	now := s.now().UTC()
	entry := model.PinIssueRecord{
		NameOnBadge:        nameOnBadge,
		RequesterUID:       requesterUID,
		RequestDateTimeUTC: now,
	}

	var issued *model.AlternativePin
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.pins.WithTx(tx)

		existing, err := repo.FindByRegNoForUpdate(ctx, regNo)
		if err != nil {
			return apperrors.Database(err)
		}

		params := model.UpsertAlternativePinParams{
			RegNo:       regNo,
			NameOnBadge: nameOnBadge,
			Pin:         pin,
			IssuedAt:    now,
			IssuedByUID: requesterUID,
		}
		if existing == nil {
			params.ID = uuid.NewString()
			params.IssueLog = model.PinIssueLog{entry}
			issued, err = repo.Create(ctx, params)
		} else {
			params.ID = existing.ID
			params.IssueLog = append(existing.IssueLog, entry)
			issued, err = repo.UpdateIssue(ctx, params)
		}
		if err != nil {
			return apperrors.Database(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("regNo", regNo).
		Str("requester", requesterUID).
		Str("pin", util.MaskPin(pin)).
		Msg("alternative pin issued")
	return issued, nil
}

func (s *AlternativePinService) GetPin(ctx context.Context, regNo int) (*model.AlternativePin, error) {
	pin, err := s.pins.FindByRegNo(ctx, regNo)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return pin, nil
}

// ValidateAndConsume checks a PIN login and records its use. It returns the
// RegSys identity the attendee is signed in as.
func (s *AlternativePinService) ValidateAndConsume(ctx context.Context, regNo int, pin string) (string, error) {
	record, err := s.pins.FindByRegNo(ctx, regNo)
	if err != nil {
		return "", apperrors.Database(err)
	}
	if record == nil || !util.ConstantTimeEqual(record.Pin, strings.TrimSpace(pin)) {
		return "", apperrors.InvalidCredentials()
	}

	if err := s.pins.AppendConsumption(ctx, record.ID, s.now().UTC()); err != nil {
		return "", apperrors.Database(err)
	}
	return s.RegSysUID(regNo), nil
}

func (s *AlternativePinService) RegSysUID(regNo int) string {
	return fmt.Sprintf("%s%d:%d", conversation.RegSysUIDPrefix, s.conventionNumber, regNo)
}

func generatePin() (string, error) {
	digits := make([]byte, pinLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
