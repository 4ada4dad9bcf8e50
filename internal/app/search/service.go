package search

import (
	"context"
	"strings"

	"soundwave/internal/store"
)

// Store captures the persistence needs for search.
type Store interface {
	Search(ctx context.Context, query string) ([]store.SearchResult, error)
}

// Service answers catalog search queries.
type Service interface {
	Search(ctx context.Context, query string) ([]store.SearchResult, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Search(ctx context.Context, query string) ([]store.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []store.SearchResult{}, nil
	}
	return s.store.Search(ctx, query)
}
