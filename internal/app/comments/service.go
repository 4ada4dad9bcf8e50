package comments

import (
	"context"

	"soundwave/internal/store"
)

// Store captures the persistence needs for comment workflows.
type Store interface {
	CreateComment(ctx context.Context, songID, userID int64, text string) (store.Comment, error)
	CommentsBySong(ctx context.Context, songID int64) ([]store.Comment, error)
	UpdateComment(ctx context.Context, id, userID int64, text string) (store.Comment, error)
	DeleteComment(ctx context.Context, id, userID int64) error
}

// Service coordinates comment-related operations.
type Service interface {
	Create(ctx context.Context, songID, userID int64, text string) (store.Comment, error)
	ListBySong(ctx context.Context, songID int64) ([]store.Comment, error)
	Update(ctx context.Context, id, userID int64, text string) (store.Comment, error)
	Delete(ctx context.Context, id, userID int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Create(ctx context.Context, songID, userID int64, text string) (store.Comment, error) {
	if err := ctx.Err(); err != nil {
		return store.Comment{}, err
	}
	return s.store.CreateComment(ctx, songID, userID, text)
}

func (s *service) ListBySong(ctx context.Context, songID int64) ([]store.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CommentsBySong(ctx, songID)
}

func (s *service) Update(ctx context.Context, id, userID int64, text string) (store.Comment, error) {
	if err := ctx.Err(); err != nil {
		return store.Comment{}, err
	}
	return s.store.UpdateComment(ctx, id, userID, text)
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteComment(ctx, id, userID)
}
