package harvest

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/youtube/v3"

	"ytharvest/internal/domain"
	"ytharvest/pkg/logger"
)

// TimestampLayout is the canonical storage format for publish timestamps:
// date plus time at second precision, UTC naive.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp accepts both upstream ISO-8601 variants (with and
// without fractional seconds) and returns the canonical UTC value
// truncated to whole seconds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t.UTC().Truncate(time.Second), nil
}

// FormatTimestamp renders a timestamp in the canonical storage format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Normalizer flattens the heterogeneous nested API items into flat
// records matching the warehouse columns. Each method returns nil when
// the item lacks its identity fields or carries an unparsable value the
// schema requires; callers skip nil records and continue the batch.
type Normalizer struct {
	log *logger.Logger
}

func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{log: log.Named("normalize")}
}

// Channel maps a channels.list item.
func (n *Normalizer) Channel(item *youtube.Channel) *domain.Channel {
	if item == nil || item.Id == "" || item.Snippet == nil {
		n.log.Warn("skipping channel item without identity")
		return nil
	}

	ch := &domain.Channel{
		ID:          item.Id,
		Name:        item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	if item.Statistics != nil {
		ch.Subscribers = int64(item.Statistics.SubscriberCount)
		ch.Views = int64(item.Statistics.ViewCount)
		ch.TotalVideos = int64(item.Statistics.VideoCount)
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		ch.UploadsPlaylistID = item.ContentDetails.RelatedPlaylists.Uploads
	}
	return ch
}

// Playlist maps a playlists.list item.
func (n *Normalizer) Playlist(item *youtube.Playlist) *domain.Playlist {
	if item == nil || item.Id == "" || item.Snippet == nil || item.Snippet.ChannelId == "" {
		n.log.Warn("skipping playlist item without identity")
		return nil
	}

	publishedAt, err := ParseTimestamp(item.Snippet.PublishedAt)
	if err != nil {
		n.log.WithError(err).WithField("playlist_id", item.Id).Warn("skipping playlist with bad timestamp")
		return nil
	}

	pl := &domain.Playlist{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		ChannelID:   item.Snippet.ChannelId,
		ChannelName: item.Snippet.ChannelTitle,
		PublishedAt: publishedAt,
	}
	if item.ContentDetails != nil {
		pl.VideoCount = item.ContentDetails.ItemCount
	}
	return pl
}

// Video maps a videos.list item. A malformed duration code skips only
// this record, never the batch.
func (n *Normalizer) Video(item *youtube.Video) *domain.Video {
	if item == nil || item.Id == "" || item.Snippet == nil || item.Snippet.ChannelId == "" {
		n.log.Warn("skipping video item without identity")
		return nil
	}

	publishedAt, err := ParseTimestamp(item.Snippet.PublishedAt)
	if err != nil {
		n.log.WithError(err).WithField("video_id", item.Id).Warn("skipping video with bad timestamp")
		return nil
	}

	v := &domain.Video{
		ID:          item.Id,
		ChannelID:   item.Snippet.ChannelId,
		Title:       item.Snippet.Title,
		Tags:        strings.Join(item.Snippet.Tags, ", "),
		Thumbnail:   bestThumbnail(item.Snippet.Thumbnails),
		Description: item.Snippet.Description,
		PublishedAt: publishedAt,
	}

	if item.ContentDetails != nil {
		seconds, err := ParseDuration(item.ContentDetails.Duration)
		if err != nil {
			n.log.WithError(err).WithField("video_id", item.Id).Warn("skipping video with bad duration")
			return nil
		}
		v.DurationSeconds = seconds
		v.Definition = item.ContentDetails.Definition
		v.CaptionAvailable = item.ContentDetails.Caption == "true"
	}

	if item.Statistics != nil {
		v.Views = int64(item.Statistics.ViewCount)
		v.CommentCount = int64(item.Statistics.CommentCount)
		v.FavoriteCount = int64(item.Statistics.FavoriteCount)
	}

	return v
}

// Comment maps the top-level comment of a commentThreads.list item.
func (n *Normalizer) Comment(item *youtube.CommentThread) *domain.Comment {
	if item == nil || item.Snippet == nil || item.Snippet.TopLevelComment == nil {
		n.log.Warn("skipping comment thread without top-level comment")
		return nil
	}

	top := item.Snippet.TopLevelComment
	if top.Id == "" || top.Snippet == nil || top.Snippet.VideoId == "" {
		n.log.Warn("skipping comment item without identity")
		return nil
	}

	publishedAt, err := ParseTimestamp(top.Snippet.PublishedAt)
	if err != nil {
		n.log.WithError(err).WithField("comment_id", top.Id).Warn("skipping comment with bad timestamp")
		return nil
	}

	return &domain.Comment{
		ID:          top.Id,
		VideoID:     top.Snippet.VideoId,
		Text:        top.Snippet.TextDisplay,
		Author:      top.Snippet.AuthorDisplayName,
		PublishedAt: publishedAt,
		Likes:       top.Snippet.LikeCount,
	}
}

// bestThumbnail picks the highest-quality thumbnail URL available.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
