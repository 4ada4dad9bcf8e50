package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FavoritesPlaylistName is the auto-managed playlist that collects a user's
// liked songs. It is created on first like if absent.
const FavoritesPlaylistName = "My Favorites"

// LikeSong records a like for (userID, songID) and appends the song to the
// user's favorites playlist. Liking an already-liked song is a no-op.
func (s *Store) LikeSong(ctx context.Context, userID, songID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM songs
		WHERE id = $1
	`, songID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSongNotFound
	}
	if err != nil {
		return fmt.Errorf("check song: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO likes (user_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING
	`, userID, songID)
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if inserted > 0 {
		if err := s.addToFavoritesTx(ctx, tx, userID, songID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit like: %w", err)
	}
	tx = nil

	return nil
}

// UnlikeSong removes the like for (userID, songID). Removing an absent like
// is a no-op.
func (s *Store) UnlikeSong(ctx context.Context, userID, songID int64) error {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM songs
		WHERE id = $1
	`, songID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSongNotFound
	}
	if err != nil {
		return fmt.Errorf("check song: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM likes
		WHERE user_id = $1 AND song_id = $2
	`, userID, songID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

// LikedSongs returns the songs the user has liked, newest like first.
func (s *Store) LikedSongs(ctx context.Context, userID int64) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM likes k
		JOIN songs s ON s.id = k.song_id
		JOIN users u ON u.id = s.artist_id
		WHERE k.user_id = $1
		ORDER BY s.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked songs: %w", err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

func (s *Store) addToFavoritesTx(ctx context.Context, tx *sql.Tx, userID, songID int64) error {
	// Upsert against the partial unique index so two racing first likes end
	// up with a single favorites playlist. The conflict target has to repeat
	// the index predicate, hence the literal name.
	var playlistID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO playlists (name, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, name) WHERE name = 'My Favorites' DO UPDATE
		SET updated_at = NOW()
		RETURNING id
	`, FavoritesPlaylistName, userID).Scan(&playlistID)
	if err != nil {
		return fmt.Errorf("favorites playlist: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`, playlistID, songID); err != nil {
		return fmt.Errorf("append to favorites: %w", err)
	}
	return nil
}
