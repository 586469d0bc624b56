package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ytharvest/internal/service"
	apperrors "ytharvest/pkg/errors"
	"ytharvest/pkg/logger"
)

// channel IDs are 24 characters starting with "UC"
const channelIDLength = 24

// HarvestHandler triggers harvest runs over the HTTP surface
type HarvestHandler struct {
	harvester service.Harvester
	catalog   *service.CatalogService
	reports   *service.ReportService
	log       *logger.Logger
}

func NewHarvestHandler(harvester service.Harvester, catalog *service.CatalogService, reports *service.ReportService, log *logger.Logger) *HarvestHandler {
	return &HarvestHandler{
		harvester: harvester,
		catalog:   catalog,
		reports:   reports,
		log:       log.Named("harvest_handler"),
	}
}

// HarvestChannel handles POST /api/channels/{channelID}/harvest
func (h *HarvestHandler) HarvestChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channelID := chi.URLParam(r, "channelID")

	if err := validateChannelID(channelID); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	h.log.WithField("channel_id", channelID).Info("harvest run requested")

	result, err := h.harvester.HarvestChannel(ctx, channelID)
	if result != nil && result.ChannelsStored > 0 {
		// even a failed run may have written rows, so record it and
		// drop stale cache entries before reporting the error
		h.catalog.RecordHarvest(ctx, channelID, time.Now().UTC())
		h.reports.InvalidateReports(ctx)
	}
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func validateChannelID(channelID string) error {
	if channelID == "" {
		return apperrors.NewValidationError("channel ID is required", nil)
	}
	if len(channelID) != channelIDLength {
		return apperrors.NewValidationError(fmt.Sprintf("channel ID must be %d characters", channelIDLength), nil)
	}
	if channelID[:2] != "UC" {
		return apperrors.NewValidationError("channel ID must start with UC", nil)
	}
	for _, c := range channelID {
		if !isChannelIDChar(c) {
			return apperrors.NewValidationError("channel ID contains invalid characters", nil)
		}
	}
	return nil
}

func isChannelIDChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
