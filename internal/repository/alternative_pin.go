package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eurofurence/admin-bot-go/internal/database"
	"github.com/eurofurence/admin-bot-go/internal/model"
)

type AlternativePinRepository interface {
	FindByRegNo(ctx context.Context, regNo int) (*model.AlternativePin, error)
	// FindByRegNoForUpdate locks the row until the surrounding transaction ends.
	FindByRegNoForUpdate(ctx context.Context, regNo int) (*model.AlternativePin, error)
	Create(ctx context.Context, params model.UpsertAlternativePinParams) (*model.AlternativePin, error)
	UpdateIssue(ctx context.Context, params model.UpsertAlternativePinParams) (*model.AlternativePin, error)
	AppendConsumption(ctx context.Context, id string, at time.Time) error
	WithTx(tx *sqlx.Tx) AlternativePinRepository
}

type alternativePinRepo struct {
	db database.DBTX
}

func NewAlternativePinRepository(db *sqlx.DB) AlternativePinRepository {
	return &alternativePinRepo{db: db}
}

func (r *alternativePinRepo) WithTx(tx *sqlx.Tx) AlternativePinRepository {
	return &alternativePinRepo{db: tx}
}

func (r *alternativePinRepo) FindByRegNo(ctx context.Context, regNo int) (*model.AlternativePin, error) {
	var pin model.AlternativePin
	err := r.db.GetContext(ctx, &pin, `
		SELECT * FROM alternative_pins WHERE reg_no = $1
	`, regNo)
	return optional(&pin, err)
}

func (r *alternativePinRepo) FindByRegNoForUpdate(ctx context.Context, regNo int) (*model.AlternativePin, error) {
	var pin model.AlternativePin
	err := r.db.GetContext(ctx, &pin, `
		SELECT * FROM alternative_pins WHERE reg_no = $1 FOR UPDATE
	`, regNo)
	return optional(&pin, err)
}

func (r *alternativePinRepo) Create(ctx context.Context, params model.UpsertAlternativePinParams) (*model.AlternativePin, error) {
	var pin model.AlternativePin
	err := r.db.GetContext(ctx, &pin, `
		INSERT INTO alternative_pins (id, reg_no, name_on_badge, pin, issued_at, issued_by_uid, issue_log, consumed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '[]'::jsonb)
		RETURNING *
	`, params.ID, params.RegNo, params.NameOnBadge, params.Pin, params.IssuedAt, params.IssuedByUID, params.IssueLog)
	if err != nil {
		return nil, err
	}
	return &pin, nil
}

func (r *alternativePinRepo) UpdateIssue(ctx context.Context, params model.UpsertAlternativePinParams) (*model.AlternativePin, error) {
	var pin model.AlternativePin
	err := r.db.GetContext(ctx, &pin, `
		UPDATE alternative_pins SET
			name_on_badge = $2,
			pin = $3,
			issued_at = $4,
			issued_by_uid = $5,
			issue_log = $6,
			updated_at = $4
		WHERE id = $1
		RETURNING *
	`, params.ID, params.NameOnBadge, params.Pin, params.IssuedAt, params.IssuedByUID, params.IssueLog)
	if err != nil {
		return nil, err
	}
	return &pin, nil
}

func (r *alternativePinRepo) AppendConsumption(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE alternative_pins SET
			consumed_at = consumed_at || to_jsonb($2::timestamptz),
			updated_at = $2
		WHERE id = $1
	`, id, at.UTC())
	return err
}
