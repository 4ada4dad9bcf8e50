package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var playlistCols = []string{"id", "name", "user_id", "thumbnail", "created_at", "updated_at"}

func playlistRow(id int64, name string, userID int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(playlistCols).AddRow(id, name, userID, nil, now, now)
}

func TestCreatePlaylist(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO playlists (name, user_id, thumbnail)`)).
		WithArgs("Road Trip", int64(1), nil).
		WillReturnRows(playlistRow(4, "Road Trip", 1))

	playlist, err := s.CreatePlaylist(context.Background(), 1, "  Road Trip ", nil)
	if err != nil {
		t.Fatalf("CreatePlaylist error: %v", err)
	}
	if playlist.ID != 4 || playlist.UserID != 1 {
		t.Fatalf("unexpected playlist: %+v", playlist)
	}
	expectMet(t, mock)
}

func TestUpdatePlaylistNotOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)))

	name := "Hijacked"
	_, err := s.UpdatePlaylist(context.Background(), 4, 2, PlaylistUpdate{Name: &name})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	expectMet(t, mock)
}

func TestUpdatePlaylistNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	name := "Ghost"
	_, err := s.UpdatePlaylist(context.Background(), 99, 1, PlaylistUpdate{Name: &name})
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestDeletePlaylistClearsMemberships(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM playlists`)).
		WithArgs(int64(4)).
		WillReturnRows(playlistRow(4, "Road Trip", 1))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_songs WHERE playlist_id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	playlist, err := s.DeletePlaylist(context.Background(), 4, 1)
	if err != nil {
		t.Fatalf("DeletePlaylist error: %v", err)
	}
	if playlist.Name != "Road Trip" {
		t.Fatalf("unexpected playlist: %+v", playlist)
	}
	expectMet(t, mock)
}

func TestAddPlaylistSong(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM songs s`)).
		WithArgs(int64(3)).
		WillReturnRows(songRow(3, "First Light", 7, "demo", 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO playlist_songs (playlist_id, song_id)`)).
		WithArgs(int64(4), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE playlists`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.AddPlaylistSong(context.Background(), 4, 1, 3); err != nil {
		t.Fatalf("AddPlaylistSong error: %v", err)
	}
	expectMet(t, mock)
}

func TestAddPlaylistSongUnknownSong(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM songs s`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(songCols))

	err := s.AddPlaylistSong(context.Background(), 4, 1, 99)
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestPlaylistSongsNotOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)))

	_, err := s.PlaylistSongs(context.Background(), 4, 2)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	expectMet(t, mock)
}
