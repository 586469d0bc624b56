package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ytharvest/internal/domain"
	"ytharvest/pkg/database"
)

type PgChannelRepository struct {
	db *database.PostgresDB
}

func NewChannelRepository(db *database.PostgresDB) *PgChannelRepository {
	return &PgChannelRepository{db: db}
}

const upsertChannelQuery = `
	INSERT INTO channels (channel_id, channel_name, subscribers, views, total_videos, description, playlist_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (channel_id) DO UPDATE SET
		channel_name = EXCLUDED.channel_name,
		subscribers  = EXCLUDED.subscribers,
		views        = EXCLUDED.views,
		total_videos = EXCLUDED.total_videos,
		description  = EXCLUDED.description,
		playlist_id  = EXCLUDED.playlist_id,
		updated_at   = NOW()
`

// Upsert writes the batch in a single transaction. Re-harvesting the
// same channel overwrites every mutable column with the newest value.
func (r *PgChannelRepository) Upsert(ctx context.Context, channels []*domain.Channel) (int64, error) {
	var affected int64
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, ch := range channels {
			ct, err := tx.Exec(ctx, upsertChannelQuery,
				ch.ID,
				ch.Name,
				ch.Subscribers,
				ch.Views,
				ch.TotalVideos,
				ch.Description,
				ch.UploadsPlaylistID,
			)
			if err != nil {
				return err
			}
			affected += ct.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, storeError("upsert channels", err)
	}
	return affected, nil
}

// GetByID retrieves a channel by id
func (r *PgChannelRepository) GetByID(ctx context.Context, channelID string) (*domain.Channel, error) {
	query := `
		SELECT channel_id, channel_name, subscribers, views, total_videos, description, playlist_id
		FROM channels
		WHERE channel_id = $1
	`

	var ch domain.Channel
	err := r.db.Pool.QueryRow(ctx, query, channelID).Scan(
		&ch.ID,
		&ch.Name,
		&ch.Subscribers,
		&ch.Views,
		&ch.TotalVideos,
		&ch.Description,
		&ch.UploadsPlaylistID,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return &ch, nil
}

// List retrieves all harvested channels ordered by name
func (r *PgChannelRepository) List(ctx context.Context) ([]domain.Channel, error) {
	query := `
		SELECT channel_id, channel_name, subscribers, views, total_videos, description, playlist_id
		FROM channels
		ORDER BY channel_name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(
			&ch.ID,
			&ch.Name,
			&ch.Subscribers,
			&ch.Views,
			&ch.TotalVideos,
			&ch.Description,
			&ch.UploadsPlaylistID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, ch)
	}

	return channels, rows.Err()
}
