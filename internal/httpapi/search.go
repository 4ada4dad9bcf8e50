package httpapi

import (
	"net/http"
	"strings"

	"soundwave/internal/store"
)

// minQueryLength is the shortest query worth hitting the database for.
const minQueryLength = 2

type searchResponse struct {
	Results []searchResultView `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < minQueryLength {
		writeJSON(w, http.StatusOK, searchResponse{Results: []searchResultView{}})
		return
	}

	results, err := s.search.Search(r.Context(), query)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: s.searchResultsToView(results)})
}
