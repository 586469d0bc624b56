package service

import (
	"context"

	"ytharvest/internal/domain"
)

// Harvester defines the harvesting operations exposed to handlers
type Harvester interface {
	// HarvestChannel harvests a channel's metadata, playlists, videos
	// and comments into the store and returns a run summary
	HarvestChannel(ctx context.Context, channelID string) (*domain.HarvestResult, error)
}

// Reporter defines the read-only insight reporting operations
type Reporter interface {
	// ReportNames lists the available canned reports
	ReportNames() []string

	// RunReport executes one canned report
	RunReport(ctx context.Context, name string) ([]map[string]interface{}, error)
}
