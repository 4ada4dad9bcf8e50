package main

import (
	"net/http"
	"strings"

	"soundwave/internal/app/comments"
	"soundwave/internal/app/playlists"
	"soundwave/internal/app/search"
	"soundwave/internal/app/songs"
	"soundwave/internal/app/users"
	"soundwave/internal/httpapi"
	"soundwave/internal/logging"
	"soundwave/internal/objectstore"
	"soundwave/internal/session"
	"soundwave/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, assets *objectstore.Client) http.Handler {
	userSvc := users.New(dataStore, assets)
	songSvc := songs.New(dataStore, assets)
	playlistSvc := playlists.New(dataStore, assets)
	commentSvc := comments.New(dataStore)
	searchSvc := search.New(dataStore)

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)

	api := httpapi.New(userSvc, songSvc, playlistSvc, commentSvc, searchSvc, sessions, assets.DefaultThumbnailURL())

	handler := withCORS(cfg.AllowedOrigins, api.Routes())
	handler = logging.Recovery()(handler)
	handler = logging.RequestLogging()(handler)
	return handler
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, "+session.CSRFHeader)
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
