package store

import (
	"context"
	"fmt"
)

// SearchResult is a single typed hit from a catalogue search.
type SearchResult struct {
	Type       string
	ID         int64
	Name       string
	ThumbURL   *string
	ArtistName *string
}

const searchLimit = 5

// Search runs case-insensitive substring matches across song names, user
// display names, and playlist names, each capped at a fixed count. Results
// are concatenated without ranking.
func (s *Store) Search(ctx context.Context, query string) ([]SearchResult, error) {
	pattern := "%" + query + "%"
	results := make([]SearchResult, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.thumb_url, u.username
		FROM songs s
		JOIN users u ON u.id = s.artist_id
		WHERE s.name ILIKE $1
		ORDER BY s.id ASC
		LIMIT $2
	`, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		r := SearchResult{Type: "song"}
		var artist string
		if err := rows.Scan(&r.ID, &r.Name, &r.ThumbURL, &artist); err != nil {
			return nil, fmt.Errorf("scan song result: %w", err)
		}
		r.ArtistName = &artist
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate song results: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, COALESCE(stage_name, username), profile_image
		FROM users
		WHERE username ILIKE $1 OR stage_name ILIKE $1
		ORDER BY id ASC
		LIMIT $2
	`, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		r := SearchResult{Type: "artist"}
		if err := rows.Scan(&r.ID, &r.Name, &r.ThumbURL); err != nil {
			return nil, fmt.Errorf("scan artist result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artist results: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.thumbnail, u.username
		FROM playlists p
		JOIN users u ON u.id = p.user_id
		WHERE p.name ILIKE $1
		ORDER BY p.id ASC
		LIMIT $2
	`, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search playlists: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		r := SearchResult{Type: "playlist"}
		var owner string
		if err := rows.Scan(&r.ID, &r.Name, &r.ThumbURL, &owner); err != nil {
			return nil, fmt.Errorf("scan playlist result: %w", err)
		}
		r.ArtistName = &owner
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist results: %w", err)
	}

	return results, nil
}
