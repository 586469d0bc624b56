package domain

import "time"

// Comment is a top-level comment on a video.
type Comment struct {
	ID          string    `json:"comment_id"`
	VideoID     string    `json:"video_id"`
	Text        string    `json:"comment_text"`
	Author      string    `json:"comment_author"`
	PublishedAt time.Time `json:"published_at"`
	Likes       int64     `json:"likes"`
}
