package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eurofurence/admin-bot-go/internal/database"
	"github.com/eurofurence/admin-bot-go/internal/model"
)

type PushChannelRepository interface {
	FindAll(ctx context.Context, filter *model.ChannelFilter) ([]model.PushNotificationChannel, error)
}

type pushChannelRepo struct {
	db database.DBTX
}

func NewPushChannelRepository(db *sqlx.DB) PushChannelRepository {
	return &pushChannelRepo{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *pushChannelRepo) FindAll(ctx context.Context, filter *model.ChannelFilter) ([]model.PushNotificationChannel, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter != nil && filter.UIDPrefix != "" {
		args = append(args, likeEscaper.Replace(filter.UIDPrefix)+"%")
		conditions = append(conditions, fmt.Sprintf(`uid LIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter != nil && filter.UIDSuffix != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.UIDSuffix))
		conditions = append(conditions, fmt.Sprintf(`uid LIKE $%d ESCAPE '\'`, len(args)))
	}

	query := "SELECT * FROM push_notification_channels"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY last_change_at DESC"

	var channels []model.PushNotificationChannel
	if err := r.db.SelectContext(ctx, &channels, query, args...); err != nil {
		return nil, err
	}
	return channels, nil
}
