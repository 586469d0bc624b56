package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		// Channels are the harvest roots, everything else hangs off them
		`CREATE TABLE IF NOT EXISTS channels (
			channel_id VARCHAR(255) PRIMARY KEY,
			channel_name VARCHAR(255) NOT NULL,
			subscribers BIGINT DEFAULT 0,
			views BIGINT DEFAULT 0,
			total_videos BIGINT DEFAULT 0,
			description TEXT,
			playlist_id VARCHAR(255),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS playlists (
			playlist_id VARCHAR(255) PRIMARY KEY,
			title VARCHAR(512) NOT NULL,
			channel_id VARCHAR(255) NOT NULL REFERENCES channels(channel_id) ON DELETE CASCADE,
			channel_name VARCHAR(255),
			published_at TIMESTAMP,
			video_count BIGINT DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		// duration is stored in seconds
		`CREATE TABLE IF NOT EXISTS videos (
			video_id VARCHAR(255) PRIMARY KEY,
			channel_id VARCHAR(255) NOT NULL REFERENCES channels(channel_id) ON DELETE CASCADE,
			title VARCHAR(512) NOT NULL,
			tags TEXT,
			thumbnail TEXT,
			description TEXT,
			published_date TIMESTAMP,
			duration BIGINT DEFAULT 0,
			views BIGINT DEFAULT 0,
			comment_count BIGINT DEFAULT 0,
			favorite_count BIGINT DEFAULT 0,
			definition VARCHAR(10),
			caption_status BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			comment_id VARCHAR(255) PRIMARY KEY,
			video_id VARCHAR(255) NOT NULL REFERENCES videos(video_id) ON DELETE CASCADE,
			comment_text TEXT,
			comment_author VARCHAR(255),
			published_date TIMESTAMP,
			likes BIGINT DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_playlists_channel_id ON playlists(channel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_channel_id ON videos(channel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_published_date ON videos(published_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_views ON videos(views DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments(video_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_likes ON comments(likes DESC)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", objectName(query))
	}

	return nil
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS comments CASCADE`,
		`DROP TABLE IF EXISTS videos CASCADE`,
		`DROP TABLE IF EXISTS playlists CASCADE`,
		`DROP TABLE IF EXISTS channels CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	// A placeholder channel so the read surface has something to show
	// before the first harvest run
	query := `
		INSERT INTO channels (channel_id, channel_name, subscribers, views, total_videos, description, playlist_id) VALUES
		('UCshYDBsGsFkeSFT9urhY8mw', 'Sample Channel', 0, 0, 0, 'Seeded placeholder, replaced by the first harvest run', '')
		ON CONFLICT (channel_id) DO UPDATE SET
			channel_name = EXCLUDED.channel_name,
			updated_at = NOW()
	`

	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to seed channels: %w", err)
	}

	fmt.Println("  Seeded 1 channel")
	return nil
}

// objectName extracts the table or index name from a DDL statement for logging
func objectName(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		if strings.EqualFold(f, "EXISTS") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	if len(fields) > 2 {
		return fields[2]
	}
	return query
}
