package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSearchConcatenatesCategories(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.name ILIKE $1`)).
		WithArgs("%light%", searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "thumb_url", "username"}).
			AddRow(int64(3), "First Light", nil, "demo"))

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE username ILIKE $1 OR stage_name ILIKE $1`)).
		WithArgs("%light%", searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "profile_image"}).
			AddRow(int64(7), "Lighthouse", nil))

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.name ILIKE $1`)).
		WithArgs("%light%", searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "thumbnail", "username"}))

	results, err := s.Search(context.Background(), "light")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Type != "song" || results[1].Type != "artist" {
		t.Fatalf("unexpected result types: %+v", results)
	}
	if results[0].ArtistName == nil || *results[0].ArtistName != "demo" {
		t.Fatalf("expected song artist name, got %+v", results[0].ArtistName)
	}
	expectMet(t, mock)
}

func TestSearchNoMatches(t *testing.T) {
	s, mock := newMockStore(t)

	for _, fragment := range []string{
		`WHERE s.name ILIKE $1`,
		`WHERE username ILIKE $1 OR stage_name ILIKE $1`,
		`WHERE p.name ILIKE $1`,
	} {
		mock.ExpectQuery(regexp.QuoteMeta(fragment)).
			WithArgs("%zzz%", searchLimit).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "extra", "more"}))
	}

	results, err := s.Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil result set, got %+v", results)
	}
	expectMet(t, mock)
}
