package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ytharvest/internal/domain"
	"ytharvest/pkg/database"
)

type PgPlaylistRepository struct {
	db *database.PostgresDB
}

func NewPlaylistRepository(db *database.PostgresDB) *PgPlaylistRepository {
	return &PgPlaylistRepository{db: db}
}

const upsertPlaylistQuery = `
	INSERT INTO playlists (playlist_id, title, channel_id, channel_name, published_at, video_count)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (playlist_id) DO UPDATE SET
		title        = EXCLUDED.title,
		channel_id   = EXCLUDED.channel_id,
		channel_name = EXCLUDED.channel_name,
		published_at = EXCLUDED.published_at,
		video_count  = EXCLUDED.video_count,
		updated_at   = NOW()
`

func (r *PgPlaylistRepository) Upsert(ctx context.Context, playlists []*domain.Playlist) (int64, error) {
	var affected int64
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, pl := range playlists {
			ct, err := tx.Exec(ctx, upsertPlaylistQuery,
				pl.ID,
				pl.Title,
				pl.ChannelID,
				pl.ChannelName,
				pl.PublishedAt,
				pl.VideoCount,
			)
			if err != nil {
				return err
			}
			affected += ct.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, storeError("upsert playlists", err)
	}
	return affected, nil
}

// ListByChannel retrieves the playlists of one channel
func (r *PgPlaylistRepository) ListByChannel(ctx context.Context, channelID string) ([]domain.Playlist, error) {
	query := `
		SELECT playlist_id, title, channel_id, channel_name, published_at, video_count
		FROM playlists
		WHERE channel_id = $1
		ORDER BY published_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []domain.Playlist
	for rows.Next() {
		var pl domain.Playlist
		if err := rows.Scan(
			&pl.ID,
			&pl.Title,
			&pl.ChannelID,
			&pl.ChannelName,
			&pl.PublishedAt,
			&pl.VideoCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, pl)
	}

	return playlists, rows.Err()
}
