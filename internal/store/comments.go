package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrCommentNotFound indicates the referenced comment does not exist.
var ErrCommentNotFound = errors.New("comment not found")

// Comment is a remark left on a song by a user.
type Comment struct {
	ID        int64
	SongID    int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const commentColumns = `id, song_id, author_id, comment_text, created_at, updated_at`

// CreateComment persists a comment on a song.
func (s *Store) CreateComment(ctx context.Context, songID, authorID int64, text string) (Comment, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM songs
		WHERE id = $1
	`, songID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrSongNotFound
	}
	if err != nil {
		return Comment{}, fmt.Errorf("check song: %w", err)
	}

	var comment Comment
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO comments (song_id, author_id, comment_text)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns+`
	`, songID, authorID, text).Scan(commentFields(&comment)...)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

// CommentsBySong returns a song's comments, oldest first.
func (s *Store) CommentsBySong(ctx context.Context, songID int64) ([]Comment, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM songs
		WHERE id = $1
	`, songID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("check song: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE song_id = $1
		ORDER BY created_at ASC, id ASC
	`, songID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(commentFields(&comment)...); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// UpdateComment replaces the text of a comment the user authored.
func (s *Store) UpdateComment(ctx context.Context, id, authorID int64, text string) (Comment, error) {
	if err := s.checkCommentAuthor(ctx, id, authorID); err != nil {
		return Comment{}, err
	}

	var comment Comment
	err := s.db.QueryRowContext(ctx, `
		UPDATE comments
		SET comment_text = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+commentColumns+`
	`, id, text).Scan(commentFields(&comment)...)
	if err != nil {
		return Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment the user authored.
func (s *Store) DeleteComment(ctx context.Context, id, authorID int64) error {
	if err := s.checkCommentAuthor(ctx, id, authorID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM comments
		WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *Store) checkCommentAuthor(ctx context.Context, commentID, authorID int64) error {
	var owner int64
	err := s.db.QueryRowContext(ctx, `
		SELECT author_id
		FROM comments
		WHERE id = $1
	`, commentID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("check comment author: %w", err)
	}
	if owner != authorID {
		return ErrNotOwner
	}
	return nil
}

func commentFields(c *Comment) []any {
	return []any{&c.ID, &c.SongID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.UpdatedAt}
}
