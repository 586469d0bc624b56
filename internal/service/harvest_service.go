package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ytharvest/internal/domain"
	"ytharvest/internal/harvest"
	"ytharvest/internal/repository"
	apperrors "ytharvest/pkg/errors"
	"ytharvest/pkg/logger"
)

// videosPerLookup is the maximum number of ids per videos.list call.
const videosPerLookup = 50

// HarvestService drives one channel scope through the paginated fetch,
// normalize, upsert pipeline. Entities are stored in dependency order so
// foreign keys always find their parent rows: channel, then playlists
// and videos, then comments.
type HarvestService struct {
	source    harvest.MetadataSource
	norm      *harvest.Normalizer
	channels  repository.ChannelRepository
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	apiKeys   []string
	log       *logger.Logger
}

func NewHarvestService(
	source harvest.MetadataSource,
	norm *harvest.Normalizer,
	channels repository.ChannelRepository,
	playlists repository.PlaylistRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	apiKeys []string,
	log *logger.Logger,
) *HarvestService {
	return &HarvestService{
		source:    source,
		norm:      norm,
		channels:  channels,
		playlists: playlists,
		videos:    videos,
		comments:  comments,
		apiKeys:   apiKeys,
		log:       log.Named("harvest"),
	}
}

// HarvestChannel harvests everything reachable from one channel id.
// The key rotator is scoped to this run and re-armed before each entity
// scope, giving every scope a single pass over the full key list.
//
// Quota exhaustion aborts the run with whatever was already stored;
// per-video comment failures (e.g. comments disabled) are recorded in
// the result and do not abort the run.
func (h *HarvestService) HarvestChannel(ctx context.Context, channelID string) (*domain.HarvestResult, error) {
	result := &domain.HarvestResult{
		RunID:     uuid.NewString(),
		ChannelID: channelID,
		StartedAt: time.Now().UTC(),
	}
	log := h.log.WithFields(map[string]interface{}{
		"run_id":     result.RunID,
		"channel_id": channelID,
	})

	rot, err := harvest.NewKeyRotator(h.apiKeys)
	if err != nil {
		return result, apperrors.NewInternalError("no API keys configured", err)
	}

	log.Info("harvest run started")

	ch, err := h.harvestChannelInfo(ctx, rot, channelID, result)
	if err != nil {
		return result, err
	}
	result.ChannelName = ch.Name

	if err := h.harvestPlaylists(ctx, rot, channelID, result, log); err != nil {
		return result, err
	}

	videoIDs, err := h.collectVideoIDs(ctx, rot, ch, result, log)
	if err != nil {
		return result, err
	}

	storedVideoIDs, err := h.harvestVideos(ctx, rot, videoIDs, result, log)
	if err != nil {
		return result, err
	}

	if err := h.harvestComments(ctx, rot, storedVideoIDs, result, log); err != nil {
		return result, err
	}

	result.Duration = time.Since(result.StartedAt)
	log.WithFields(map[string]interface{}{
		"playlists": result.PlaylistsStored,
		"videos":    result.VideosStored,
		"comments":  result.CommentsStored,
		"duration":  result.Duration,
		"errors":    len(result.Errors),
	}).Info("harvest run finished")

	return result, nil
}

// harvestChannelInfo fetches and stores the channel row itself. A
// failure here is fatal for the run: nothing else can be stored without
// the parent channel.
func (h *HarvestService) harvestChannelInfo(ctx context.Context, rot *harvest.KeyRotator, channelID string, result *domain.HarvestResult) (*domain.Channel, error) {
	items, err := harvest.FetchPage(ctx, rot, h.source.ChannelPage(channelID))
	if err != nil {
		return nil, classifyFetchError("channel", err)
	}
	if len(items) == 0 {
		return nil, apperrors.NewNotFoundError("channel not found upstream")
	}

	ch := h.norm.Channel(items[0])
	if ch == nil {
		return nil, apperrors.NewExternalError("upstream returned channel without identity", nil)
	}

	stored, err := h.channels.Upsert(ctx, []*domain.Channel{ch})
	if err != nil {
		return nil, err
	}
	result.ChannelsStored = stored
	return ch, nil
}

func (h *HarvestService) harvestPlaylists(ctx context.Context, rot *harvest.KeyRotator, channelID string, result *domain.HarvestResult, log *logger.Logger) error {
	rot.Reset()
	items, err := harvest.FetchAll(ctx, rot, h.source.PlaylistsPage(channelID))
	if err != nil {
		if errors.Is(err, harvest.ErrKeysExhausted) {
			return classifyFetchError("playlists", err)
		}
		// non-quota failure: the playlist scope is lost, the run goes on
		log.WithError(err).Warn("playlist fetch aborted")
		result.Errors = append(result.Errors, "playlists: "+err.Error())
		return nil
	}

	playlists := make([]*domain.Playlist, 0, len(items))
	for _, item := range items {
		if pl := h.norm.Playlist(item); pl != nil {
			playlists = append(playlists, pl)
		}
	}
	if len(playlists) == 0 {
		return nil
	}

	stored, err := h.playlists.Upsert(ctx, playlists)
	if err != nil {
		return err
	}
	result.PlaylistsStored = stored
	return nil
}

// collectVideoIDs walks the uploads playlist, falling back to search
// when the channel exposes none.
func (h *HarvestService) collectVideoIDs(ctx context.Context, rot *harvest.KeyRotator, ch *domain.Channel, result *domain.HarvestResult, log *logger.Logger) ([]string, error) {
	rot.Reset()

	var ids []string
	if ch.UploadsPlaylistID != "" {
		items, err := harvest.FetchAll(ctx, rot, h.source.PlaylistItemsPage(ch.UploadsPlaylistID))
		if err != nil {
			if errors.Is(err, harvest.ErrKeysExhausted) {
				return nil, classifyFetchError("video ids", err)
			}
			log.WithError(err).Warn("uploads playlist fetch aborted")
			result.Errors = append(result.Errors, "video ids: "+err.Error())
			return nil, nil
		}
		for _, item := range items {
			if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}
		return ids, nil
	}

	items, err := harvest.FetchAll(ctx, rot, h.source.SearchVideoIDsPage(ch.ID))
	if err != nil {
		if errors.Is(err, harvest.ErrKeysExhausted) {
			return nil, classifyFetchError("video ids", err)
		}
		log.WithError(err).Warn("video search aborted")
		result.Errors = append(result.Errors, "video ids: "+err.Error())
		return nil, nil
	}
	for _, item := range items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

// harvestVideos looks up full details in pages of up to 50 ids and
// stores all surviving records as one batch. It returns the ids that
// were actually stored, the candidates for comment harvesting.
func (h *HarvestService) harvestVideos(ctx context.Context, rot *harvest.KeyRotator, videoIDs []string, result *domain.HarvestResult, log *logger.Logger) ([]string, error) {
	var videos []*domain.Video
	for _, chunk := range chunkIDs(videoIDs, videosPerLookup) {
		rot.Reset()
		items, err := harvest.FetchPage(ctx, rot, h.source.VideosPage(chunk))
		if err != nil {
			if errors.Is(err, harvest.ErrKeysExhausted) {
				return nil, classifyFetchError("videos", err)
			}
			log.WithError(err).Warn("video detail fetch aborted")
			result.Errors = append(result.Errors, "videos: "+err.Error())
			continue
		}
		for _, item := range items {
			if v := h.norm.Video(item); v != nil {
				videos = append(videos, v)
			}
		}
	}

	if len(videos) == 0 {
		return nil, nil
	}

	stored, err := h.videos.Upsert(ctx, videos)
	if err != nil {
		return nil, err
	}
	result.VideosStored = stored

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids, nil
}

func (h *HarvestService) harvestComments(ctx context.Context, rot *harvest.KeyRotator, videoIDs []string, result *domain.HarvestResult, log *logger.Logger) error {
	var comments []*domain.Comment
	for _, videoID := range videoIDs {
		rot.Reset()
		items, err := harvest.FetchAll(ctx, rot, h.source.CommentThreadsPage(videoID))
		if err != nil {
			if errors.Is(err, harvest.ErrKeysExhausted) {
				return classifyFetchError("comments", err)
			}
			// comments disabled or any other per-video failure: skip
			// this video, keep the rest
			log.WithError(err).WithField("video_id", videoID).Debug("comment fetch skipped")
			result.Errors = append(result.Errors, "comments "+videoID+": "+err.Error())
			continue
		}
		for _, item := range items {
			if c := h.norm.Comment(item); c != nil {
				comments = append(comments, c)
			}
		}
	}

	if len(comments) == 0 {
		return nil
	}

	stored, err := h.comments.Upsert(ctx, comments)
	if err != nil {
		return err
	}
	result.CommentsStored = stored
	return nil
}

// classifyFetchError maps fetch failures onto the error taxonomy.
func classifyFetchError(scope string, err error) error {
	if errors.Is(err, harvest.ErrKeysExhausted) {
		return apperrors.NewRateLimitError("API quota exhausted across all keys fetching "+scope, err)
	}
	return apperrors.NewExternalError("upstream API error fetching "+scope, err)
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
