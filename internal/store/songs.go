package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSongNotFound indicates the referenced song does not exist.
var ErrSongNotFound = errors.New("song not found")

// Song is a persisted track. ArtistName and NumLikes are computed on read.
type Song struct {
	ID         int64
	Name       string
	ArtistID   int64
	ArtistName string
	Genre      *string
	ThumbURL   *string
	SongRef    string
	NumLikes   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSong carries the fields required to publish a song.
type NewSong struct {
	Name     string
	ArtistID int64
	Genre    *string
	ThumbURL *string
	SongRef  string
}

// SongUpdate carries optional fields; nil fields are left unchanged.
type SongUpdate struct {
	Name     *string
	Genre    *string
	ThumbURL *string
	SongRef  *string
}

// SongFilter narrows ListSongs. Zero values match everything.
type SongFilter struct {
	ArtistID int64
}

const songColumns = `s.id, s.name, s.artist_id, COALESCE(u.stage_name, u.username), s.genre, s.thumb_url, s.song_ref,
			(SELECT COUNT(*) FROM likes l WHERE l.song_id = s.id),
			s.created_at, s.updated_at`

// CreateSong persists a new song owned by the given artist.
func (s *Store) CreateSong(ctx context.Context, ns NewSong) (Song, error) {
	ns.Name = strings.TrimSpace(ns.Name)

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (name, artist_id, genre, thumb_url, song_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, ns.Name, ns.ArtistID, ns.Genre, ns.ThumbURL, ns.SongRef).Scan(&id)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}

	return s.SongByID(ctx, id)
}

// SongByID returns a single song with its like count and artist display name.
func (s *Store) SongByID(ctx context.Context, id int64) (Song, error) {
	var song Song
	err := s.db.QueryRowContext(ctx, `
		SELECT `+songColumns+`
		FROM songs s
		JOIN users u ON u.id = s.artist_id
		WHERE s.id = $1
	`, id).Scan(songFields(&song)...)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// ListSongs returns songs newest first, optionally filtered by artist.
func (s *Store) ListSongs(ctx context.Context, filter SongFilter) ([]Song, error) {
	query := `
		SELECT ` + songColumns + `
		FROM songs s
		JOIN users u ON u.id = s.artist_id`
	var args []any
	if filter.ArtistID != 0 {
		query += ` WHERE s.artist_id = $1`
		args = append(args, filter.ArtistID)
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

// UpdateSong applies the non-nil fields of upd to a song the artist owns.
func (s *Store) UpdateSong(ctx context.Context, songID, artistID int64, upd SongUpdate) (Song, error) {
	if err := s.checkSongOwner(ctx, songID, artistID); err != nil {
		return Song{}, err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE songs
		SET name = COALESCE($2, name),
		    genre = COALESCE($3, genre),
		    thumb_url = COALESCE($4, thumb_url),
		    song_ref = COALESCE($5, song_ref),
		    updated_at = NOW()
		WHERE id = $1
	`, songID, upd.Name, upd.Genre, upd.ThumbURL, upd.SongRef)
	if err != nil {
		return Song{}, fmt.Errorf("update song: %w", err)
	}

	return s.SongByID(ctx, songID)
}

// DeleteSong removes a song the artist owns along with its likes, playlist
// memberships, and comments. The deleted row is returned so callers can clean
// up the stored assets it referenced.
func (s *Store) DeleteSong(ctx context.Context, songID, artistID int64) (Song, error) {
	song, err := s.SongByID(ctx, songID)
	if err != nil {
		return Song{}, err
	}
	if song.ArtistID != artistID {
		return Song{}, ErrNotOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Song{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		`DELETE FROM likes WHERE song_id = $1`,
		`DELETE FROM playlist_songs WHERE song_id = $1`,
		`DELETE FROM comments WHERE song_id = $1`,
		`DELETE FROM songs WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, songID); err != nil {
			return Song{}, fmt.Errorf("delete song: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Song{}, fmt.Errorf("commit song delete: %w", err)
	}
	tx = nil

	return song, nil
}

func (s *Store) checkSongOwner(ctx context.Context, songID, artistID int64) error {
	var ownerID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT artist_id
		FROM songs
		WHERE id = $1
	`, songID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSongNotFound
	}
	if err != nil {
		return fmt.Errorf("check song owner: %w", err)
	}
	if ownerID != artistID {
		return ErrNotOwner
	}
	return nil
}

func songFields(song *Song) []any {
	return []any{
		&song.ID, &song.Name, &song.ArtistID, &song.ArtistName, &song.Genre,
		&song.ThumbURL, &song.SongRef, &song.NumLikes, &song.CreatedAt, &song.UpdatedAt,
	}
}

func scanSongs(rows *sql.Rows) ([]Song, error) {
	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(songFields(&song)...); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}
