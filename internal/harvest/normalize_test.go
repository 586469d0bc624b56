package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/youtube/v3"

	"ytharvest/pkg/logger"
)

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	log, err := logger.New("error", false)
	require.NoError(t, err)
	return NewNormalizer(log)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		code    string
		want    int64
		wantErr bool
	}{
		{code: "PT1H2M3S", want: 3723},
		{code: "PT45S", want: 45},
		{code: "PT4M13S", want: 253},
		{code: "PT2H", want: 7200},
		{code: "P1DT2H", want: 93600},
		{code: "PT0S", want: 0},
		{code: "P0D", want: 0},
		{code: "", wantErr: true},
		{code: "P", wantErr: true},
		{code: "PT", wantErr: true},
		{code: "4m13s", wantErr: true},
		{code: "PTXS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseDuration(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	// both upstream variants normalize to the identical canonical value
	withFraction, err := ParseTimestamp("2023-01-05T10:00:00.000Z")
	require.NoError(t, err)
	withoutFraction, err := ParseTimestamp("2023-01-05T10:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, withFraction, withoutFraction)
	assert.Equal(t, "2023-01-05 10:00:00", FormatTimestamp(withFraction))
	assert.Equal(t, "2023-01-05 10:00:00", FormatTimestamp(withoutFraction))

	_, err = ParseTimestamp("05/01/2023 10:00")
	assert.Error(t, err)
}

func TestNormalizer_Channel(t *testing.T) {
	n := testNormalizer(t)

	ch := n.Channel(&youtube.Channel{
		Id: "UC2J_VKrAzOEJuQvFFtj3KUw",
		Snippet: &youtube.ChannelSnippet{
			Title:       "Chennai Super Kings",
			Description: "Official channel",
		},
		Statistics: &youtube.ChannelStatistics{
			SubscriberCount: 14500000,
			ViewCount:       2900000000,
			VideoCount:      3200,
		},
		ContentDetails: &youtube.ChannelContentDetails{
			RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{
				Uploads: "UU2J_VKrAzOEJuQvFFtj3KUw",
			},
		},
	})

	require.NotNil(t, ch)
	assert.Equal(t, "UC2J_VKrAzOEJuQvFFtj3KUw", ch.ID)
	assert.Equal(t, "Chennai Super Kings", ch.Name)
	assert.Equal(t, int64(14500000), ch.Subscribers)
	assert.Equal(t, int64(2900000000), ch.Views)
	assert.Equal(t, int64(3200), ch.TotalVideos)
	assert.Equal(t, "UU2J_VKrAzOEJuQvFFtj3KUw", ch.UploadsPlaylistID)
}

func TestNormalizer_Channel_MissingStatistics(t *testing.T) {
	n := testNormalizer(t)

	ch := n.Channel(&youtube.Channel{
		Id:      "UCx",
		Snippet: &youtube.ChannelSnippet{Title: "Sparse"},
	})

	require.NotNil(t, ch)
	// absent numeric statistics default to zero, absent strings to empty
	assert.Zero(t, ch.Subscribers)
	assert.Zero(t, ch.Views)
	assert.Zero(t, ch.TotalVideos)
	assert.Empty(t, ch.Description)
	assert.Empty(t, ch.UploadsPlaylistID)
}

func TestNormalizer_Channel_MissingIdentity(t *testing.T) {
	n := testNormalizer(t)

	assert.Nil(t, n.Channel(nil))
	assert.Nil(t, n.Channel(&youtube.Channel{Snippet: &youtube.ChannelSnippet{Title: "no id"}}))
	assert.Nil(t, n.Channel(&youtube.Channel{Id: "UCx"}))
}

func TestNormalizer_Video(t *testing.T) {
	n := testNormalizer(t)

	v := n.Video(&youtube.Video{
		Id: "dQw4w9WgXcQ",
		Snippet: &youtube.VideoSnippet{
			ChannelId:   "UCx",
			Title:       "Match Highlights",
			Tags:        []string{"cricket", "ipl"},
			Description: "Final over drama",
			PublishedAt: "2023-01-05T10:00:00.000Z",
			Thumbnails: &youtube.ThumbnailDetails{
				High:    &youtube.Thumbnail{Url: "https://i.ytimg.com/hq.jpg"},
				Default: &youtube.Thumbnail{Url: "https://i.ytimg.com/default.jpg"},
			},
		},
		ContentDetails: &youtube.VideoContentDetails{
			Duration:   "PT4M13S",
			Definition: "hd",
			Caption:    "true",
		},
		Statistics: &youtube.VideoStatistics{
			ViewCount:     123456,
			CommentCount:  789,
			FavoriteCount: 10,
		},
	})

	require.NotNil(t, v)
	assert.Equal(t, "dQw4w9WgXcQ", v.ID)
	assert.Equal(t, "UCx", v.ChannelID)
	assert.Equal(t, "cricket, ipl", v.Tags)
	assert.Equal(t, "https://i.ytimg.com/hq.jpg", v.Thumbnail)
	assert.Equal(t, int64(253), v.DurationSeconds)
	assert.Equal(t, "2023-01-05 10:00:00", FormatTimestamp(v.PublishedAt))
	assert.Equal(t, int64(123456), v.Views)
	assert.Equal(t, int64(789), v.CommentCount)
	assert.Equal(t, "hd", v.Definition)
	assert.True(t, v.CaptionAvailable)
}

func TestNormalizer_Video_BadDurationSkipsRecord(t *testing.T) {
	n := testNormalizer(t)

	items := []*youtube.Video{
		videoItem("vid-1", "PT45S"),
		videoItem("vid-2", "4 minutes"),
		videoItem("vid-3", "PT1H2M3S"),
	}

	var kept []string
	for _, item := range items {
		if v := n.Video(item); v != nil {
			kept = append(kept, v.ID)
		}
	}

	// only the malformed record drops; the batch continues
	assert.Equal(t, []string{"vid-1", "vid-3"}, kept)
}

func TestNormalizer_Video_MissingIdentity(t *testing.T) {
	n := testNormalizer(t)

	noChannel := videoItem("vid-1", "PT45S")
	noChannel.Snippet.ChannelId = ""
	assert.Nil(t, n.Video(noChannel))

	noID := videoItem("", "PT45S")
	assert.Nil(t, n.Video(noID))
}

func TestNormalizer_Playlist(t *testing.T) {
	n := testNormalizer(t)

	pl := n.Playlist(&youtube.Playlist{
		Id: "PLx",
		Snippet: &youtube.PlaylistSnippet{
			Title:        "Season 2023",
			ChannelId:    "UCx",
			ChannelTitle: "Chennai Super Kings",
			PublishedAt:  "2023-01-05T10:00:00Z",
		},
		ContentDetails: &youtube.PlaylistContentDetails{ItemCount: 42},
	})

	require.NotNil(t, pl)
	assert.Equal(t, "PLx", pl.ID)
	assert.Equal(t, "Chennai Super Kings", pl.ChannelName)
	assert.Equal(t, int64(42), pl.VideoCount)
	assert.Equal(t, "2023-01-05 10:00:00", FormatTimestamp(pl.PublishedAt))

	assert.Nil(t, n.Playlist(&youtube.Playlist{Snippet: &youtube.PlaylistSnippet{ChannelId: "UCx"}}))
}

func TestNormalizer_Comment(t *testing.T) {
	n := testNormalizer(t)

	c := n.Comment(&youtube.CommentThread{
		Id: "thread-1",
		Snippet: &youtube.CommentThreadSnippet{
			TopLevelComment: &youtube.Comment{
				Id: "comment-1",
				Snippet: &youtube.CommentSnippet{
					VideoId:           "vid-1",
					TextDisplay:       "What a finish!",
					AuthorDisplayName: "fan42",
					PublishedAt:       "2023-01-05T10:00:00.000Z",
					LikeCount:         17,
				},
			},
		},
	})

	require.NotNil(t, c)
	assert.Equal(t, "comment-1", c.ID)
	assert.Equal(t, "vid-1", c.VideoID)
	assert.Equal(t, "fan42", c.Author)
	assert.Equal(t, int64(17), c.Likes)

	assert.Nil(t, n.Comment(&youtube.CommentThread{Snippet: &youtube.CommentThreadSnippet{}}))
}

func videoItem(id, duration string) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			ChannelId:   "UCx",
			Title:       "t",
			PublishedAt: "2023-01-05T10:00:00Z",
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: duration, Definition: "sd", Caption: "false"},
	}
}
