package domain

import "time"

// Video is the harvested metadata of a single video. Tags are stored as
// comma-separated text to match the warehouse column. DurationSeconds is
// the parsed whole-second duration of the upstream ISO-8601 code.
type Video struct {
	ID               string    `json:"video_id"`
	ChannelID        string    `json:"channel_id"`
	Title            string    `json:"title"`
	Tags             string    `json:"tags"`
	Thumbnail        string    `json:"thumbnail"`
	Description      string    `json:"description"`
	PublishedAt      time.Time `json:"published_at"`
	DurationSeconds  int64     `json:"duration_seconds"`
	Views            int64     `json:"views"`
	CommentCount     int64     `json:"comment_count"`
	FavoriteCount    int64     `json:"favorite_count"`
	Definition       string    `json:"definition"` // "hd" or "sd"
	CaptionAvailable bool      `json:"caption_available"`
}
