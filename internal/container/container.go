package container

import (
	"ytharvest/internal/config"
	"ytharvest/internal/harvest"
	"ytharvest/internal/repository"
	"ytharvest/internal/service"
	"ytharvest/pkg/database"
	"ytharvest/pkg/logger"
	"ytharvest/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	Channels  repository.ChannelRepository
	Playlists repository.PlaylistRepository
	Videos    repository.VideoRepository
	Comments  repository.CommentRepository

	Harvester service.Harvester
	Catalog   *service.CatalogService
	Reports   *service.ReportService
}

// New wires repositories and services onto the shared resources. Redis
// is optional; without it the read surface simply skips caching.
func New(cfg *config.Config, log *logger.Logger, db *database.PostgresDB) (*Container, error) {
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	channels := repository.NewChannelRepository(db)
	playlists := repository.NewPlaylistRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	reports := repository.NewReportRepository(db)

	source := harvest.NewSource(log)
	normalizer := harvest.NewNormalizer(log)

	harvester := service.NewHarvestService(
		source,
		normalizer,
		channels,
		playlists,
		videos,
		comments,
		cfg.YouTubeAPIKeys,
		log,
	)

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Channels:    channels,
		Playlists:   playlists,
		Videos:      videos,
		Comments:    comments,
		Harvester:   harvester,
		Catalog:     service.NewCatalogService(channels, playlists, videos, comments, redisClient, log),
		Reports:     service.NewReportService(reports, redisClient, log),
	}, nil
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
