package domain

// Channel is the harvested metadata of a YouTube channel. ID is the
// natural key used for upserts.
type Channel struct {
	ID                string `json:"channel_id"`
	Name              string `json:"channel_name"`
	Subscribers       int64  `json:"subscribers"`
	Views             int64  `json:"views"`
	TotalVideos       int64  `json:"total_videos"`
	Description       string `json:"description"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
}
