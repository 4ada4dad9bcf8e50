package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var commentCols = []string{"id", "song_id", "author_id", "comment_text", "created_at", "updated_at"}

func commentRow(id, songID, authorID int64, text string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(commentCols).AddRow(id, songID, authorID, text, now, now)
}

func TestCreateComment(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO comments (song_id, author_id, comment_text)`)).
		WithArgs(int64(3), int64(1), "Great track!").
		WillReturnRows(commentRow(10, 3, 1, "Great track!"))

	comment, err := s.CreateComment(context.Background(), 3, 1, "Great track!")
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if comment.ID != 10 || comment.Text != "Great track!" {
		t.Fatalf("unexpected comment: %+v", comment)
	}
	expectMet(t, mock)
}

func TestCreateCommentUnknownSong(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.CreateComment(context.Background(), 99, 1, "Hello there")
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestUpdateCommentNotAuthor(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT author_id`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"author_id"}).AddRow(int64(1)))

	_, err := s.UpdateComment(context.Background(), 10, 2, "Edited text")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	expectMet(t, mock)
}

func TestDeleteCommentNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT author_id`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"author_id"}))

	err := s.DeleteComment(context.Background(), 99, 1)
	if !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestCommentsBySong(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	rows := commentRow(10, 3, 1, "First!")
	rows.AddRow(int64(11), int64(3), int64(2), "Second comment", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`FROM comments`)).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	comments, err := s.CommentsBySong(context.Background(), 3)
	if err != nil {
		t.Fatalf("CommentsBySong error: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "First!" {
		t.Fatalf("unexpected comments: %+v", comments)
	}
	expectMet(t, mock)
}
