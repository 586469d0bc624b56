package harvest

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytharvest/pkg/logger"
)

// pageSize is the upstream maximum page size.
const pageSize = 50

// MetadataSource supplies page operations over the upstream video
// platform API, one per resource shape the harvester traverses.
type MetadataSource interface {
	ChannelPage(channelID string) PageFunc[*youtube.Channel]
	PlaylistsPage(channelID string) PageFunc[*youtube.Playlist]
	PlaylistItemsPage(playlistID string) PageFunc[*youtube.PlaylistItem]
	VideosPage(videoIDs []string) PageFunc[*youtube.Video]
	CommentThreadsPage(videoID string) PageFunc[*youtube.CommentThread]
	SearchVideoIDsPage(channelID string) PageFunc[*youtube.SearchResult]
}

// Source implements MetadataSource against the YouTube Data API v3.
// One service client is built per API key and cached for the lifetime of
// the source; the key in use is chosen per call by the fetcher.
type Source struct {
	log *logger.Logger

	mu       sync.Mutex
	services map[string]*youtube.Service

	// extra client options, used by tests to point at a stub server
	opts []option.ClientOption
}

// NewSource creates a source. opts are appended to the per-key options.
func NewSource(log *logger.Logger, opts ...option.ClientOption) *Source {
	return &Source{
		log:      log.Named("source"),
		services: make(map[string]*youtube.Service),
		opts:     opts,
	}
}

func (s *Source) service(ctx context.Context, apiKey string) (*youtube.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc, ok := s.services[apiKey]; ok {
		return svc, nil
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, s.opts...)
	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	s.services[apiKey] = svc
	return svc, nil
}

// ChannelPage lists one channel by id. The channels.list call for a
// single id never paginates.
func (s *Source) ChannelPage(channelID string) PageFunc[*youtube.Channel] {
	return func(ctx context.Context, apiKey, pageToken string) ([]*youtube.Channel, string, error) {
		svc, err := s.service(ctx, apiKey)
		if err != nil {
			return nil, "", err
		}
		resp, err := svc.Channels.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(channelID).
			Context(ctx).
			Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Items, "", nil
	}
}

// PlaylistsPage lists the playlists owned by a channel.
func (s *Source) PlaylistsPage(channelID string) PageFunc[*youtube.Playlist] {
	return func(ctx context.Context, apiKey, pageToken string) ([]*youtube.Playlist, string, error) {
		svc, err := s.service(ctx, apiKey)
		if err != nil {
			return nil, "", err
		}
		resp, err := svc.Playlists.List([]string{"snippet", "contentDetails"}).
			ChannelId(channelID).
			MaxResults(pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Items, resp.NextPageToken, nil
	}
}

// PlaylistItemsPage lists the entries of a playlist, typically the
// channel's uploads playlist.
func (s *Source) PlaylistItemsPage(playlistID string) PageFunc[*youtube.PlaylistItem] {
	return func(ctx context.Context, apiKey, pageToken string) ([]*youtube.PlaylistItem, string, error) {
		svc, err := s.service(ctx, apiKey)
		if err != nil {
			return nil, "", err
		}
		resp, err := svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Items, resp.NextPageToken, nil
	}
}

// VideosPage lists full video details for up to one page worth of ids.
func (s *Source) VideosPage(videoIDs []string) PageFunc[*youtube.Video] {
	return func(ctx context.Context, apiKey, pageToken string) ([]*youtube.Video, string, error) {
		svc, err := s.service(ctx, apiKey)
		if err != nil {
			return nil, "", err
		}
		resp, err := svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(videoIDs...).
			MaxResults(pageSize).
			Context(ctx).
			Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Items, "", nil
	}
}

// CommentThreadsPage lists the top-level comment threads of a video.
func (s *Source) CommentThreadsPage(videoID string) PageFunc[*youtube.CommentThread] {
	return func(ctx context.Context, apiKey, pageToken string) ([]*youtube.CommentThread, string, error) {
		svc, err := s.service(ctx, apiKey)
		if err != nil {
			return nil, "", err
		}
		resp, err := svc.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Items, resp.NextPageToken, nil
	}
}

// SearchVideoIDsPage discovers a channel's video ids via search. Used as
// a fallback when the channel exposes no uploads playlist.
func (s *Source) SearchVideoIDsPage(channelID string) PageFunc[*youtube.SearchResult] {
	return func(ctx context.Context, apiKey, pageToken string) ([]*youtube.SearchResult, string, error) {
		svc, err := s.service(ctx, apiKey)
		if err != nil {
			return nil, "", err
		}
		resp, err := svc.Search.List([]string{"id"}).
			ChannelId(channelID).
			Type("video").
			MaxResults(pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, "", err
		}
		return resp.Items, resp.NextPageToken, nil
	}
}
