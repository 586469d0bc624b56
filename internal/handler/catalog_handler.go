package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ytharvest/internal/domain"
	"ytharvest/internal/service"
	apperrors "ytharvest/pkg/errors"
	"ytharvest/pkg/logger"
)

// CatalogHandler serves the harvested catalog
type CatalogHandler struct {
	catalog *service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     log.Named("catalog_handler"),
	}
}

// ListChannels handles GET /api/channels
func (h *CatalogHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.catalog.ListChannels(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"channels": channels,
		"count":    len(channels),
	})
}

type channelResponse struct {
	*domain.Channel
	LastHarvestedAt string `json:"last_harvested_at,omitempty"`
}

// GetChannel handles GET /api/channels/{channelID}
func (h *CatalogHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channelID := chi.URLParam(r, "channelID")

	channel, err := h.catalog.GetChannel(ctx, channelID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if channel == nil {
		respondError(w, r, h.log, apperrors.NewNotFoundError("channel not harvested"))
		return
	}

	respondJSON(w, http.StatusOK, channelResponse{
		Channel:         channel,
		LastHarvestedAt: h.catalog.LastHarvestedAt(ctx, channelID),
	})
}

// ListPlaylists handles GET /api/channels/{channelID}/playlists
func (h *CatalogHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	playlists, err := h.catalog.ListPlaylists(r.Context(), channelID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"channel_id": channelID,
		"playlists":  playlists,
		"count":      len(playlists),
	})
}

// ListVideos handles GET /api/channels/{channelID}/videos
func (h *CatalogHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	videos, err := h.catalog.ListVideos(r.Context(), channelID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"channel_id": channelID,
		"videos":     videos,
		"count":      len(videos),
	})
}

// ListComments handles GET /api/videos/{videoID}/comments
func (h *CatalogHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")

	comments, err := h.catalog.ListComments(r.Context(), videoID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"video_id": videoID,
		"comments": comments,
		"count":    len(comments),
	})
}
