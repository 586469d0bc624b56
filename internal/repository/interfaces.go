package repository

import (
	"context"

	"ytharvest/internal/domain"
)

// ChannelRepository defines storage operations for channels
type ChannelRepository interface {
	// Upsert inserts or updates channels by natural key in one transaction
	Upsert(ctx context.Context, channels []*domain.Channel) (int64, error)

	// GetByID retrieves a channel, nil when absent
	GetByID(ctx context.Context, channelID string) (*domain.Channel, error)

	// List retrieves all harvested channels
	List(ctx context.Context) ([]domain.Channel, error)
}

// PlaylistRepository defines storage operations for playlists
type PlaylistRepository interface {
	Upsert(ctx context.Context, playlists []*domain.Playlist) (int64, error)
	ListByChannel(ctx context.Context, channelID string) ([]domain.Playlist, error)
}

// VideoRepository defines storage operations for videos
type VideoRepository interface {
	Upsert(ctx context.Context, videos []*domain.Video) (int64, error)
	ListByChannel(ctx context.Context, channelID string) ([]domain.Video, error)
}

// CommentRepository defines storage operations for comments
type CommentRepository interface {
	Upsert(ctx context.Context, comments []*domain.Comment) (int64, error)
	ListByVideo(ctx context.Context, videoID string) ([]domain.Comment, error)
}

// ReportRepository runs the canned read-only insight queries exposed to
// the dashboard layer
type ReportRepository interface {
	Names() []string
	Run(ctx context.Context, name string) ([]map[string]interface{}, error)
}
