package repository

import (
	"context"
	"fmt"
	"sort"

	"ytharvest/pkg/database"
	apperrors "ytharvest/pkg/errors"
)

// reportQueries are the canned read-only insight queries served to the
// dashboard. Each is a plain SELECT over the four harvest tables.
var reportQueries = map[string]string{
	"videos_with_channels": `
		SELECT v.title AS video_name, c.channel_name
		FROM videos v
		JOIN channels c ON v.channel_id = c.channel_id
		ORDER BY c.channel_name, v.title`,

	"channels_most_videos": `
		SELECT c.channel_name, COUNT(v.video_id) AS video_count
		FROM videos v
		JOIN channels c ON v.channel_id = c.channel_id
		GROUP BY c.channel_name
		ORDER BY video_count DESC`,

	"top_viewed_videos": `
		SELECT v.title AS video_name, c.channel_name, v.views
		FROM videos v
		JOIN channels c ON v.channel_id = c.channel_id
		ORDER BY v.views DESC
		LIMIT 10`,

	"total_views_per_channel": `
		SELECT c.channel_name, COALESCE(SUM(v.views), 0) AS total_views
		FROM channels c
		LEFT JOIN videos v ON c.channel_id = v.channel_id
		GROUP BY c.channel_name
		ORDER BY total_views DESC`,

	"channels_published_in_2022": `
		SELECT DISTINCT c.channel_name
		FROM videos v
		JOIN channels c ON v.channel_id = c.channel_id
		WHERE EXTRACT(YEAR FROM v.published_date) = 2022`,

	"average_duration_per_channel": `
		SELECT c.channel_name, AVG(v.duration) AS avg_duration_seconds
		FROM channels c
		JOIN videos v ON c.channel_id = v.channel_id
		GROUP BY c.channel_name
		ORDER BY avg_duration_seconds DESC`,

	"most_commented_videos": `
		SELECT v.title AS video_name, c.channel_name, COUNT(cm.comment_id) AS comment_count
		FROM comments cm
		JOIN videos v ON cm.video_id = v.video_id
		JOIN channels c ON v.channel_id = c.channel_id
		GROUP BY v.title, c.channel_name
		ORDER BY comment_count DESC
		LIMIT 10`,

	"most_liked_comments": `
		SELECT v.title AS video_name, c.channel_name, SUM(cm.likes) AS total_comment_likes
		FROM comments cm
		JOIN videos v ON cm.video_id = v.video_id
		JOIN channels c ON v.channel_id = c.channel_id
		GROUP BY v.title, c.channel_name
		ORDER BY total_comment_likes DESC
		LIMIT 10`,
}

type PgReportRepository struct {
	db *database.PostgresDB
}

func NewReportRepository(db *database.PostgresDB) *PgReportRepository {
	return &PgReportRepository{db: db}
}

// Names lists the available reports in stable order
func (r *PgReportRepository) Names() []string {
	names := make([]string, 0, len(reportQueries))
	for name := range reportQueries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes one named report and returns its rows as generic maps
// keyed by column name.
func (r *PgReportRepository) Run(ctx context.Context, name string) ([]map[string]interface{}, error) {
	query, ok := reportQueries[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown report %q", name))
	}

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Sprintf("report %q failed", name), err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, apperrors.NewStoreError(fmt.Sprintf("report %q failed", name), err)
		}
		row := make(map[string]interface{}, len(fields))
		for i, fd := range fields {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(fmt.Sprintf("report %q failed", name), err)
	}
	return results, nil
}
