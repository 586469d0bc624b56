package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ytharvest/internal/domain"
	"ytharvest/pkg/database"
)

type PgVideoRepository struct {
	db *database.PostgresDB
}

func NewVideoRepository(db *database.PostgresDB) *PgVideoRepository {
	return &PgVideoRepository{db: db}
}

const upsertVideoQuery = `
	INSERT INTO videos (video_id, channel_id, title, tags, thumbnail, description,
	                    published_date, duration, views, comment_count, favorite_count,
	                    definition, caption_status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (video_id) DO UPDATE SET
		channel_id     = EXCLUDED.channel_id,
		title          = EXCLUDED.title,
		tags           = EXCLUDED.tags,
		thumbnail      = EXCLUDED.thumbnail,
		description    = EXCLUDED.description,
		published_date = EXCLUDED.published_date,
		duration       = EXCLUDED.duration,
		views          = EXCLUDED.views,
		comment_count  = EXCLUDED.comment_count,
		favorite_count = EXCLUDED.favorite_count,
		definition     = EXCLUDED.definition,
		caption_status = EXCLUDED.caption_status,
		updated_at     = NOW()
`

// Upsert writes the batch in one transaction. A video whose channel has
// not been stored yet fails the whole batch with a conflict error; the
// caller harvests the parent channel first.
func (r *PgVideoRepository) Upsert(ctx context.Context, videos []*domain.Video) (int64, error) {
	var affected int64
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, v := range videos {
			ct, err := tx.Exec(ctx, upsertVideoQuery,
				v.ID,
				v.ChannelID,
				v.Title,
				v.Tags,
				v.Thumbnail,
				v.Description,
				v.PublishedAt,
				v.DurationSeconds,
				v.Views,
				v.CommentCount,
				v.FavoriteCount,
				v.Definition,
				v.CaptionAvailable,
			)
			if err != nil {
				return err
			}
			affected += ct.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, storeError("upsert videos", err)
	}
	return affected, nil
}

// ListByChannel retrieves the videos of one channel, newest first
func (r *PgVideoRepository) ListByChannel(ctx context.Context, channelID string) ([]domain.Video, error) {
	query := `
		SELECT video_id, channel_id, title, tags, thumbnail, description,
		       published_date, duration, views, comment_count, favorite_count,
		       definition, caption_status
		FROM videos
		WHERE channel_id = $1
		ORDER BY published_date DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(
			&v.ID,
			&v.ChannelID,
			&v.Title,
			&v.Tags,
			&v.Thumbnail,
			&v.Description,
			&v.PublishedAt,
			&v.DurationSeconds,
			&v.Views,
			&v.CommentCount,
			&v.FavoriteCount,
			&v.Definition,
			&v.CaptionAvailable,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}

	return videos, rows.Err()
}
