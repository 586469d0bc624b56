package domain

import "time"

// HarvestResult summarizes one harvest run over a channel scope.
type HarvestResult struct {
	RunID          string        `json:"run_id"`
	ChannelID      string        `json:"channel_id"`
	ChannelName    string        `json:"channel_name,omitempty"`
	ChannelsStored int64         `json:"channels_stored"`
	PlaylistsStored int64        `json:"playlists_stored"`
	VideosStored   int64         `json:"videos_stored"`
	CommentsStored int64         `json:"comments_stored"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration_ms"`
	// Errors carries per-scope diagnostics that did not abort the run,
	// e.g. videos whose comment threads could not be fetched.
	Errors []string `json:"errors,omitempty"`
}
