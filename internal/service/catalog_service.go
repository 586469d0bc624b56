package service

import (
	"context"
	"encoding/json"
	"time"

	"ytharvest/internal/domain"
	"ytharvest/internal/harvest"
	"ytharvest/internal/repository"
	"ytharvest/pkg/logger"
	"ytharvest/pkg/redis"
)

// CatalogService serves the harvested catalog to the read surface,
// caching the hot channel lookups in Redis when a client is configured.
type CatalogService struct {
	channels  repository.ChannelRepository
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	cache     *redis.Client // nil when caching is disabled
	log       *logger.Logger
}

func NewCatalogService(
	channels repository.ChannelRepository,
	playlists repository.PlaylistRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	cache *redis.Client,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		channels:  channels,
		playlists: playlists,
		videos:    videos,
		comments:  comments,
		cache:     cache,
		log:       log.Named("catalog"),
	}
}

// ListChannels returns every harvested channel
func (s *CatalogService) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	if s.cache != nil {
		key := s.cache.KeyBuilder.KeyChannelsAll()
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var channels []domain.Channel
			if err := json.Unmarshal([]byte(cached), &channels); err == nil {
				return channels, nil
			}
			_ = s.cache.Delete(ctx, key)
		}
	}

	channels, err := s.channels.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, func() string { return s.cache.KeyBuilder.KeyChannelsAll() }, channels, redis.TTLChannels)
	return channels, nil
}

// GetChannel returns one channel, nil when it has not been harvested
func (s *CatalogService) GetChannel(ctx context.Context, channelID string) (*domain.Channel, error) {
	if s.cache != nil {
		key := s.cache.KeyBuilder.KeyChannelByID(channelID)
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var channel domain.Channel
			if err := json.Unmarshal([]byte(cached), &channel); err == nil {
				return &channel, nil
			}
			_ = s.cache.Delete(ctx, key)
		}
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil || channel == nil {
		return channel, err
	}

	s.cacheSet(ctx, func() string { return s.cache.KeyBuilder.KeyChannelByID(channelID) }, channel, redis.TTLChannel)
	return channel, nil
}

// ListPlaylists returns the harvested playlists of a channel
func (s *CatalogService) ListPlaylists(ctx context.Context, channelID string) ([]domain.Playlist, error) {
	return s.playlists.ListByChannel(ctx, channelID)
}

// ListVideos returns the harvested videos of a channel
func (s *CatalogService) ListVideos(ctx context.Context, channelID string) ([]domain.Video, error) {
	return s.videos.ListByChannel(ctx, channelID)
}

// ListComments returns the harvested comments of a video
func (s *CatalogService) ListComments(ctx context.Context, videoID string) ([]domain.Comment, error) {
	return s.comments.ListByVideo(ctx, videoID)
}

// RecordHarvest marks when a channel was last harvested and drops every
// cache entry the run may have invalidated.
func (s *CatalogService) RecordHarvest(ctx context.Context, channelID string, at time.Time) {
	if s.cache == nil {
		return
	}
	stamp := harvest.FormatTimestamp(at)
	if err := s.cache.Set(ctx, s.cache.KeyBuilder.KeyLastHarvestedAt(channelID), stamp, 0); err != nil {
		s.log.WithError(err).Warn("failed to record harvest timestamp")
	}
	keys := []string{
		s.cache.KeyBuilder.KeyChannelsAll(),
		s.cache.KeyBuilder.KeyChannelByID(channelID),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("failed to invalidate channel cache")
	}
}

// LastHarvestedAt returns the recorded timestamp of the channel's most
// recent harvest run, empty when none is known.
func (s *CatalogService) LastHarvestedAt(ctx context.Context, channelID string) string {
	if s.cache == nil {
		return ""
	}
	stamp, err := s.cache.Get(ctx, s.cache.KeyBuilder.KeyLastHarvestedAt(channelID))
	if err != nil {
		return ""
	}
	return stamp
}

func (s *CatalogService) cacheSet(ctx context.Context, key func() string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key(), payload, ttl); err != nil {
		s.log.WithError(err).Warn("failed to cache catalog entry")
	}
}
