package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"ytharvest/internal/domain"
	"ytharvest/internal/harvest"
	apperrors "ytharvest/pkg/errors"
	"ytharvest/pkg/logger"
)

// stubSource lets each test wire page behavior per resource.
type stubSource struct {
	channelPage  harvest.PageFunc[*youtube.Channel]
	playlists    harvest.PageFunc[*youtube.Playlist]
	uploadsItems harvest.PageFunc[*youtube.PlaylistItem]
	videosPage   func(ids []string) harvest.PageFunc[*youtube.Video]
	commentsPage func(videoID string) harvest.PageFunc[*youtube.CommentThread]
	searchPage   harvest.PageFunc[*youtube.SearchResult]
}

func (s *stubSource) ChannelPage(string) harvest.PageFunc[*youtube.Channel] { return s.channelPage }
func (s *stubSource) PlaylistsPage(string) harvest.PageFunc[*youtube.Playlist] {
	return s.playlists
}
func (s *stubSource) PlaylistItemsPage(string) harvest.PageFunc[*youtube.PlaylistItem] {
	return s.uploadsItems
}
func (s *stubSource) VideosPage(ids []string) harvest.PageFunc[*youtube.Video] {
	return s.videosPage(ids)
}
func (s *stubSource) CommentThreadsPage(videoID string) harvest.PageFunc[*youtube.CommentThread] {
	return s.commentsPage(videoID)
}
func (s *stubSource) SearchVideoIDsPage(string) harvest.PageFunc[*youtube.SearchResult] {
	return s.searchPage
}

func onePage[T any](items []T) harvest.PageFunc[T] {
	return func(ctx context.Context, apiKey, pageToken string) ([]T, string, error) {
		return items, "", nil
	}
}

func failPage[T any](err error) harvest.PageFunc[T] {
	return func(ctx context.Context, apiKey, pageToken string) ([]T, string, error) {
		return nil, "", err
	}
}

// in-memory stores keyed by natural id

type memChannelRepo struct{ rows map[string]domain.Channel }

func newMemChannelRepo() *memChannelRepo { return &memChannelRepo{rows: map[string]domain.Channel{}} }

func (m *memChannelRepo) Upsert(ctx context.Context, channels []*domain.Channel) (int64, error) {
	for _, ch := range channels {
		m.rows[ch.ID] = *ch
	}
	return int64(len(channels)), nil
}
func (m *memChannelRepo) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	if ch, ok := m.rows[id]; ok {
		return &ch, nil
	}
	return nil, nil
}
func (m *memChannelRepo) List(ctx context.Context) ([]domain.Channel, error) { return nil, nil }

type memPlaylistRepo struct{ rows map[string]domain.Playlist }

func newMemPlaylistRepo() *memPlaylistRepo {
	return &memPlaylistRepo{rows: map[string]domain.Playlist{}}
}

func (m *memPlaylistRepo) Upsert(ctx context.Context, playlists []*domain.Playlist) (int64, error) {
	for _, pl := range playlists {
		m.rows[pl.ID] = *pl
	}
	return int64(len(playlists)), nil
}
func (m *memPlaylistRepo) ListByChannel(ctx context.Context, channelID string) ([]domain.Playlist, error) {
	return nil, nil
}

type memVideoRepo struct {
	rows    map[string]domain.Video
	upserts int
	err     error
}

func newMemVideoRepo() *memVideoRepo { return &memVideoRepo{rows: map[string]domain.Video{}} }

func (m *memVideoRepo) Upsert(ctx context.Context, videos []*domain.Video) (int64, error) {
	m.upserts++
	if m.err != nil {
		return 0, m.err
	}
	for _, v := range videos {
		m.rows[v.ID] = *v
	}
	return int64(len(videos)), nil
}
func (m *memVideoRepo) ListByChannel(ctx context.Context, channelID string) ([]domain.Video, error) {
	return nil, nil
}

type memCommentRepo struct{ rows map[string]domain.Comment }

func newMemCommentRepo() *memCommentRepo { return &memCommentRepo{rows: map[string]domain.Comment{}} }

func (m *memCommentRepo) Upsert(ctx context.Context, comments []*domain.Comment) (int64, error) {
	for _, c := range comments {
		m.rows[c.ID] = *c
	}
	return int64(len(comments)), nil
}
func (m *memCommentRepo) ListByVideo(ctx context.Context, videoID string) ([]domain.Comment, error) {
	return nil, nil
}

func testChannelItem() *youtube.Channel {
	return &youtube.Channel{
		Id:      "UCx",
		Snippet: &youtube.ChannelSnippet{Title: "Test Channel"},
		Statistics: &youtube.ChannelStatistics{
			SubscriberCount: 100,
			ViewCount:       1000,
			VideoCount:      2,
		},
		ContentDetails: &youtube.ChannelContentDetails{
			RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{Uploads: "UUx"},
		},
	}
}

func testVideoItem(id string) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			ChannelId:   "UCx",
			Title:       "video " + id,
			PublishedAt: "2023-01-05T10:00:00Z",
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT45S", Definition: "hd", Caption: "false"},
		Statistics:     &youtube.VideoStatistics{ViewCount: 7},
	}
}

func testCommentItem(id, videoID string) *youtube.CommentThread {
	return &youtube.CommentThread{
		Snippet: &youtube.CommentThreadSnippet{
			TopLevelComment: &youtube.Comment{
				Id: id,
				Snippet: &youtube.CommentSnippet{
					VideoId:           videoID,
					TextDisplay:       "nice",
					AuthorDisplayName: "viewer",
					PublishedAt:       "2023-01-05T10:00:00Z",
					LikeCount:         1,
				},
			},
		},
	}
}

type harness struct {
	svc       *HarvestService
	channels  *memChannelRepo
	playlists *memPlaylistRepo
	videos    *memVideoRepo
	comments  *memCommentRepo
}

func newHarness(t *testing.T, src harvest.MetadataSource, keys []string) *harness {
	t.Helper()
	log, err := logger.New("error", false)
	require.NoError(t, err)

	h := &harness{
		channels:  newMemChannelRepo(),
		playlists: newMemPlaylistRepo(),
		videos:    newMemVideoRepo(),
		comments:  newMemCommentRepo(),
	}
	h.svc = NewHarvestService(
		src,
		harvest.NewNormalizer(log),
		h.channels,
		h.playlists,
		h.videos,
		h.comments,
		keys,
		log,
	)
	return h
}

func TestHarvestService_FullRun(t *testing.T) {
	src := &stubSource{
		channelPage: onePage([]*youtube.Channel{testChannelItem()}),
		playlists: onePage([]*youtube.Playlist{{
			Id: "PLx",
			Snippet: &youtube.PlaylistSnippet{
				Title:       "uploads",
				ChannelId:   "UCx",
				PublishedAt: "2023-01-05T10:00:00Z",
			},
			ContentDetails: &youtube.PlaylistContentDetails{ItemCount: 2},
		}}),
		uploadsItems: onePage([]*youtube.PlaylistItem{
			{ContentDetails: &youtube.PlaylistItemContentDetails{VideoId: "vid-1"}},
			{ContentDetails: &youtube.PlaylistItemContentDetails{VideoId: "vid-2"}},
		}),
		videosPage: func(ids []string) harvest.PageFunc[*youtube.Video] {
			items := make([]*youtube.Video, len(ids))
			for i, id := range ids {
				items[i] = testVideoItem(id)
			}
			return onePage(items)
		},
		commentsPage: func(videoID string) harvest.PageFunc[*youtube.CommentThread] {
			return onePage([]*youtube.CommentThread{testCommentItem("c-"+videoID, videoID)})
		},
	}

	h := newHarness(t, src, []string{"key-a"})

	result, err := h.svc.HarvestChannel(context.Background(), "UCx")
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Test Channel", result.ChannelName)
	assert.Equal(t, int64(1), result.ChannelsStored)
	assert.Equal(t, int64(1), result.PlaylistsStored)
	assert.Equal(t, int64(2), result.VideosStored)
	assert.Equal(t, int64(2), result.CommentsStored)
	assert.Empty(t, result.Errors)

	assert.Contains(t, h.channels.rows, "UCx")
	assert.Contains(t, h.videos.rows, "vid-1")
	assert.Contains(t, h.comments.rows, "c-vid-2")
	assert.Equal(t, "vid-1", h.comments.rows["c-vid-1"].VideoID)

	// re-harvesting overwrites rather than duplicates
	result2, err := h.svc.HarvestChannel(context.Background(), "UCx")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result2.VideosStored)
	assert.Len(t, h.videos.rows, 2)
}

func TestHarvestService_CommentsDisabledSkipsVideo(t *testing.T) {
	disabled := &googleapi.Error{
		Code:   http.StatusForbidden,
		Errors: []googleapi.ErrorItem{{Reason: "commentsDisabled"}},
	}

	src := &stubSource{
		channelPage:  onePage([]*youtube.Channel{testChannelItem()}),
		playlists:    onePage([]*youtube.Playlist{}),
		uploadsItems: onePage([]*youtube.PlaylistItem{
			{ContentDetails: &youtube.PlaylistItemContentDetails{VideoId: "vid-1"}},
			{ContentDetails: &youtube.PlaylistItemContentDetails{VideoId: "vid-2"}},
		}),
		videosPage: func(ids []string) harvest.PageFunc[*youtube.Video] {
			items := make([]*youtube.Video, len(ids))
			for i, id := range ids {
				items[i] = testVideoItem(id)
			}
			return onePage(items)
		},
		commentsPage: func(videoID string) harvest.PageFunc[*youtube.CommentThread] {
			if videoID == "vid-1" {
				return failPage[*youtube.CommentThread](disabled)
			}
			return onePage([]*youtube.CommentThread{testCommentItem("c-2", videoID)})
		},
	}

	h := newHarness(t, src, []string{"key-a"})

	result, err := h.svc.HarvestChannel(context.Background(), "UCx")
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.CommentsStored)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "vid-1")
	assert.Contains(t, h.comments.rows, "c-2")
}

func TestHarvestService_QuotaExhaustionAborts(t *testing.T) {
	quota := &googleapi.Error{
		Code:   http.StatusForbidden,
		Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
	}

	src := &stubSource{
		channelPage: onePage([]*youtube.Channel{testChannelItem()}),
		playlists:   failPage[*youtube.Playlist](quota),
	}

	h := newHarness(t, src, []string{"key-a", "key-b"})

	result, err := h.svc.HarvestChannel(context.Background(), "UCx")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeRateLimit, appErr.Type)

	// the channel row landed before the keys burned out
	assert.Equal(t, int64(1), result.ChannelsStored)
	assert.Contains(t, h.channels.rows, "UCx")
}

func TestHarvestService_ChannelNotFound(t *testing.T) {
	src := &stubSource{channelPage: onePage([]*youtube.Channel{})}
	h := newHarness(t, src, []string{"key-a"})

	_, err := h.svc.HarvestChannel(context.Background(), "UC-missing")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestHarvestService_SearchFallback(t *testing.T) {
	channel := testChannelItem()
	channel.ContentDetails = nil // no uploads playlist

	src := &stubSource{
		channelPage: onePage([]*youtube.Channel{channel}),
		playlists:   onePage([]*youtube.Playlist{}),
		searchPage: onePage([]*youtube.SearchResult{
			{Id: &youtube.ResourceId{VideoId: "vid-9"}},
		}),
		videosPage: func(ids []string) harvest.PageFunc[*youtube.Video] {
			require.Equal(t, []string{"vid-9"}, ids)
			return onePage([]*youtube.Video{testVideoItem("vid-9")})
		},
		commentsPage: func(videoID string) harvest.PageFunc[*youtube.CommentThread] {
			return onePage([]*youtube.CommentThread{})
		},
	}

	h := newHarness(t, src, []string{"key-a"})

	result, err := h.svc.HarvestChannel(context.Background(), "UCx")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.VideosStored)
	assert.Contains(t, h.videos.rows, "vid-9")
}

func TestChunkIDs(t *testing.T) {
	ids := make([]string, 107)
	for i := range ids {
		ids[i] = "v"
	}

	chunks := chunkIDs(ids, 50)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 50)
	assert.Len(t, chunks[1], 50)
	assert.Len(t, chunks[2], 7)

	assert.Nil(t, chunkIDs(nil, 50))
}
