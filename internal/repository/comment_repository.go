package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ytharvest/internal/domain"
	"ytharvest/pkg/database"
)

type PgCommentRepository struct {
	db *database.PostgresDB
}

func NewCommentRepository(db *database.PostgresDB) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

const upsertCommentQuery = `
	INSERT INTO comments (comment_id, video_id, comment_text, comment_author, published_date, likes)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (comment_id) DO UPDATE SET
		video_id       = EXCLUDED.video_id,
		comment_text   = EXCLUDED.comment_text,
		comment_author = EXCLUDED.comment_author,
		published_date = EXCLUDED.published_date,
		likes          = EXCLUDED.likes,
		updated_at     = NOW()
`

func (r *PgCommentRepository) Upsert(ctx context.Context, comments []*domain.Comment) (int64, error) {
	var affected int64
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, c := range comments {
			ct, err := tx.Exec(ctx, upsertCommentQuery,
				c.ID,
				c.VideoID,
				c.Text,
				c.Author,
				c.PublishedAt,
				c.Likes,
			)
			if err != nil {
				return err
			}
			affected += ct.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, storeError("upsert comments", err)
	}
	return affected, nil
}

// ListByVideo retrieves the comments of one video, newest first
func (r *PgCommentRepository) ListByVideo(ctx context.Context, videoID string) ([]domain.Comment, error) {
	query := `
		SELECT comment_id, video_id, comment_text, comment_author, published_date, likes
		FROM comments
		WHERE video_id = $1
		ORDER BY published_date DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.VideoID,
			&c.Text,
			&c.Author,
			&c.PublishedAt,
			&c.Likes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
