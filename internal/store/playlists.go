package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrPlaylistNotFound indicates the referenced playlist does not exist.
var ErrPlaylistNotFound = errors.New("playlist not found")

// Playlist is a user-owned, ordered-irrelevant collection of songs. The owner
// is fixed at creation.
type Playlist struct {
	ID        int64
	Name      string
	UserID    int64
	Thumbnail *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlaylistUpdate carries optional fields; nil fields are left unchanged.
type PlaylistUpdate struct {
	Name      *string
	Thumbnail *string
}

const playlistColumns = `id, name, user_id, thumbnail, created_at, updated_at`

// CreatePlaylist persists a new playlist owned by userID.
func (s *Store) CreatePlaylist(ctx context.Context, userID int64, name string, thumbnail *string) (Playlist, error) {
	name = strings.TrimSpace(name)

	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, user_id, thumbnail)
		VALUES ($1, $2, $3)
		RETURNING `+playlistColumns+`
	`, name, userID, thumbnail).Scan(playlistFields(&playlist)...)
	if err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	return playlist, nil
}

// PlaylistsByUser returns the user's playlists, newest first.
func (s *Store) PlaylistsByUser(ctx context.Context, userID int64) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(playlistFields(&playlist)...); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// PlaylistByID returns a single playlist.
func (s *Store) PlaylistByID(ctx context.Context, id int64) (Playlist, error) {
	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE id = $1
	`, id).Scan(playlistFields(&playlist)...)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("get playlist: %w", err)
	}
	return playlist, nil
}

// UpdatePlaylist applies the non-nil fields of upd to a playlist the user owns.
func (s *Store) UpdatePlaylist(ctx context.Context, id, userID int64, upd PlaylistUpdate) (Playlist, error) {
	if err := s.checkPlaylistOwner(ctx, id, userID); err != nil {
		return Playlist{}, err
	}

	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		UPDATE playlists
		SET name = COALESCE($2, name),
		    thumbnail = COALESCE($3, thumbnail),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+playlistColumns+`
	`, id, upd.Name, upd.Thumbnail).Scan(playlistFields(&playlist)...)
	if err != nil {
		return Playlist{}, fmt.Errorf("update playlist: %w", err)
	}
	return playlist, nil
}

// DeletePlaylist removes a playlist the user owns along with its memberships.
// The deleted row is returned so callers can clean up its thumbnail asset.
func (s *Store) DeletePlaylist(ctx context.Context, id, userID int64) (Playlist, error) {
	playlist, err := s.PlaylistByID(ctx, id)
	if err != nil {
		return Playlist{}, err
	}
	if playlist.UserID != userID {
		return Playlist{}, ErrNotOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Playlist{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1`, id); err != nil {
		return Playlist{}, fmt.Errorf("clear playlist songs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id); err != nil {
		return Playlist{}, fmt.Errorf("delete playlist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Playlist{}, fmt.Errorf("commit playlist delete: %w", err)
	}
	tx = nil

	return playlist, nil
}

// AddPlaylistSong appends a song to a playlist the user owns. Appending a
// song already present is a no-op.
func (s *Store) AddPlaylistSong(ctx context.Context, playlistID, userID, songID int64) error {
	if err := s.checkPlaylistOwner(ctx, playlistID, userID); err != nil {
		return err
	}
	if _, err := s.SongByID(ctx, songID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`, playlistID, songID); err != nil {
		return fmt.Errorf("insert playlist song: %w", err)
	}

	return s.touchPlaylist(ctx, playlistID)
}

// RemovePlaylistSong removes a song from a playlist the user owns. Removing
// an absent song is a no-op.
func (s *Store) RemovePlaylistSong(ctx context.Context, playlistID, userID, songID int64) error {
	if err := s.checkPlaylistOwner(ctx, playlistID, userID); err != nil {
		return err
	}
	if _, err := s.SongByID(ctx, songID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID); err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}

	return s.touchPlaylist(ctx, playlistID)
}

// PlaylistSongs returns the songs in a playlist the user owns.
func (s *Store) PlaylistSongs(ctx context.Context, playlistID, userID int64) ([]Song, error) {
	if err := s.checkPlaylistOwner(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM playlist_songs p
		JOIN songs s ON s.id = p.song_id
		JOIN users u ON u.id = s.artist_id
		WHERE p.playlist_id = $1
		ORDER BY s.id ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	return scanSongs(rows)
}

func (s *Store) checkPlaylistOwner(ctx context.Context, playlistID, userID int64) error {
	var ownerID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("check playlist owner: %w", err)
	}
	if ownerID != userID {
		return ErrNotOwner
	}
	return nil
}

func (s *Store) touchPlaylist(ctx context.Context, playlistID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE playlists
		SET updated_at = NOW()
		WHERE id = $1
	`, playlistID); err != nil {
		return fmt.Errorf("touch playlist: %w", err)
	}
	return nil
}

func playlistFields(p *Playlist) []any {
	return []any{&p.ID, &p.Name, &p.UserID, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt}
}
