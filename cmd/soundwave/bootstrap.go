package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"soundwave/internal/store"
)

// bootstrapDemoData seeds a demo account with a small catalog so a fresh
// environment has something to browse. Idempotent across restarts.
func bootstrapDemoData(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	if err := ensureDemoUser(ctx, dataStore); err != nil {
		return err
	}
	if err := ensureDemoSongs(ctx, db, dataStore); err != nil {
		return err
	}
	return nil
}

func ensureDemoUser(ctx context.Context, dataStore *store.Store) error {
	_, err := dataStore.CreateUser(ctx, store.NewUser{
		Username: "demo",
		Email:    "demo@soundwave.dev",
		Password: "demo123",
	})
	if err != nil && !errors.Is(err, store.ErrEmailTaken) && !errors.Is(err, store.ErrUsernameTaken) {
		return fmt.Errorf("bootstrap demo user: %w", err)
	}
	return nil
}

func ensureDemoSongs(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	songsTableExists, err := tableExists(ctx, db, "songs")
	if err != nil {
		return fmt.Errorf("check songs table: %w", err)
	}
	if !songsTableExists {
		return nil
	}

	var userID int64
	if err := db.QueryRowContext(ctx, `
		SELECT id
		FROM users
		WHERE username = $1
	`, "demo").Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("lookup demo user: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM songs
		WHERE artist_id = $1
	`, userID).Scan(&count); err != nil {
		return fmt.Errorf("count demo songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	genre := "Electronic"
	seeds := []store.NewSong{
		{
			Name:     "First Light",
			ArtistID: userID,
			Genre:    &genre,
			SongRef:  "https://soundwave-demo-sounds.s3.us-east-1.amazonaws.com/first-light.mp3",
		},
		{
			Name:     "Night Drive",
			ArtistID: userID,
			SongRef:  "https://soundwave-demo-sounds.s3.us-east-1.amazonaws.com/night-drive.mp3",
		},
	}
	for _, seed := range seeds {
		if _, err := dataStore.CreateSong(ctx, seed); err != nil {
			return fmt.Errorf("seed song %q: %w", seed.Name, err)
		}
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
