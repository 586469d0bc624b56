package domain

import "time"

// Playlist is a channel playlist. ChannelName is denormalized so report
// queries can avoid a join.
type Playlist struct {
	ID          string    `json:"playlist_id"`
	Title       string    `json:"title"`
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	PublishedAt time.Time `json:"published_at"`
	VideoCount  int64     `json:"video_count"`
}
