package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLikeSongFirstLike(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes (user_id, song_id)`)).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The favorites playlist is upserted so concurrent first likes converge
	// on one row.
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id, name) WHERE name = 'My Favorites' DO UPDATE`)).
		WithArgs(FavoritesPlaylistName, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO playlist_songs (playlist_id, song_id)`)).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.LikeSong(context.Background(), 1, 3); err != nil {
		t.Fatalf("LikeSong error: %v", err)
	}
	expectMet(t, mock)
}

func TestLikeSongAlreadyLiked(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes (user_id, song_id)`)).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Re-liking commits without touching the favorites playlist.
	if err := s.LikeSong(context.Background(), 1, 3); err != nil {
		t.Fatalf("LikeSong error: %v", err)
	}
	expectMet(t, mock)
}

func TestLikeSongUnknownSong(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := s.LikeSong(context.Background(), 1, 99)
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestUnlikeSongAbsentLike(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM likes`)).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.UnlikeSong(context.Background(), 1, 3); err != nil {
		t.Fatalf("UnlikeSong error: %v", err)
	}
	expectMet(t, mock)
}

func TestLikedSongs(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM likes k`)).
		WithArgs(int64(1)).
		WillReturnRows(songRow(3, "First Light", 7, "demo", 1))

	songs, err := s.LikedSongs(context.Background(), 1)
	if err != nil {
		t.Fatalf("LikedSongs error: %v", err)
	}
	if len(songs) != 1 || songs[0].NumLikes != 1 {
		t.Fatalf("unexpected songs: %+v", songs)
	}
	expectMet(t, mock)
}
