package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"soundwave/internal/app/songs"
	"soundwave/internal/app/users"
	"soundwave/internal/forms"
	"soundwave/internal/objectstore"
	"soundwave/internal/session"
	"soundwave/internal/store"
)

// maxUploadSize bounds multipart request bodies. Audio files dominate; 30 MB
// covers lossless tracks of typical length.
const maxUploadSize = 30 << 20

// UserService captures account and artist-profile workflows.
type UserService interface {
	Signup(ctx context.Context, nu store.NewUser) (store.User, error)
	Authenticate(ctx context.Context, email, password string) (store.User, error)
	Get(ctx context.Context, id int64) (store.User, error)
	UpdateProfileImage(ctx context.Context, userID int64, image objectstore.Upload) (store.User, error)
	UpdateArtistProfile(ctx context.Context, userID int64, upd store.ArtistUpdate, image *objectstore.Upload) (store.User, error)
}

// SongService coordinates track-level operations, including likes.
type SongService interface {
	List(ctx context.Context, filter store.SongFilter) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, artistID int64, name string, genre *string, audio objectstore.Upload, thumb *objectstore.Upload) (store.Song, error)
	Update(ctx context.Context, songID, artistID int64, changes songs.Changes) (store.Song, error)
	Delete(ctx context.Context, songID, artistID int64) error
	Like(ctx context.Context, userID, songID int64) error
	Unlike(ctx context.Context, userID, songID int64) error
	Liked(ctx context.Context, userID int64) ([]store.Song, error)
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	Create(ctx context.Context, userID int64, name string, thumb *objectstore.Upload) (store.Playlist, error)
	ListMine(ctx context.Context, userID int64) ([]store.Playlist, error)
	Get(ctx context.Context, id int64) (store.Playlist, error)
	Update(ctx context.Context, id, userID int64, name *string, thumb *objectstore.Upload) (store.Playlist, error)
	Delete(ctx context.Context, id, userID int64) error
	AddSong(ctx context.Context, playlistID, userID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, userID, songID int64) error
	Songs(ctx context.Context, playlistID, userID int64) ([]store.Song, error)
}

// CommentService coordinates comment workflows.
type CommentService interface {
	Create(ctx context.Context, songID, userID int64, text string) (store.Comment, error)
	ListBySong(ctx context.Context, songID int64) ([]store.Comment, error)
	Update(ctx context.Context, id, userID int64, text string) (store.Comment, error)
	Delete(ctx context.Context, id, userID int64) error
}

// SearchService answers catalog search queries.
type SearchService interface {
	Search(ctx context.Context, query string) ([]store.SearchResult, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	songs     SongService
	playlists PlaylistService
	comments  CommentService
	search    SearchService

	sessions     *session.Manager
	defaultThumb string
}

// New configures a Server with the given services and session manager.
// defaultThumb is the URL substituted for missing song and playlist artwork.
func New(
	users UserService,
	songs SongService,
	playlists PlaylistService,
	comments CommentService,
	search SearchService,
	sessions *session.Manager,
	defaultThumb string,
) *Server {
	return &Server{
		users:        users,
		songs:        songs,
		playlists:    playlists,
		comments:     comments,
		search:       search,
		sessions:     sessions,
		defaultThumb: defaultThumb,
	}
}

// Routes exposes the HTTP handlers for the public API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes
	mux.HandleFunc("GET /api/auth", s.handleAuthCheck)
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/auth/profile", s.handleProfileImage)

	// Song routes
	mux.HandleFunc("GET /api/songs", s.handleListSongs)
	mux.HandleFunc("POST /api/songs", s.handleCreateSong)
	mux.HandleFunc("GET /api/songs/{id}", s.handleGetSong)
	mux.HandleFunc("PUT /api/songs/{id}", s.handleUpdateSong)
	mux.HandleFunc("DELETE /api/songs/{id}", s.handleDeleteSong)

	// Comment routes
	mux.HandleFunc("GET /api/songs/{id}/comments", s.handleListComments)
	mux.HandleFunc("POST /api/songs/{id}/comments", s.handleCreateComment)
	mux.HandleFunc("PUT /api/comments/{id}", s.handleUpdateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", s.handleDeleteComment)

	// Like routes
	mux.HandleFunc("POST /api/songs/{id}/likes", s.handleLikeSong)
	mux.HandleFunc("DELETE /api/songs/{id}/likes", s.handleUnlikeSong)
	mux.HandleFunc("GET /api/likes", s.handleLikedSongs)

	// Playlist routes
	mux.HandleFunc("GET /api/playlists/current", s.handleMyPlaylists)
	mux.HandleFunc("POST /api/playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /api/playlists/{id}", s.handleGetPlaylist)
	mux.HandleFunc("PUT /api/playlists/{id}", s.handleUpdatePlaylist)
	mux.HandleFunc("DELETE /api/playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("GET /api/playlists/{id}/songs", s.handlePlaylistSongs)
	mux.HandleFunc("POST /api/playlists/{id}/songs", s.handleAddPlaylistSong)
	mux.HandleFunc("DELETE /api/playlists/{id}/songs", s.handleRemovePlaylistSong)

	// Artist and user routes
	mux.HandleFunc("GET /api/artists/{id}", s.handleGetArtist)
	mux.HandleFunc("POST /api/artists", s.handleUpdateArtist)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)

	// Search
	mux.HandleFunc("GET /api/search", s.handleSearch)

	return mux
}

type errorResponse struct {
	Message string       `json:"message"`
	Errors  forms.Errors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func apiError(w http.ResponseWriter, status int, message string, errs forms.Errors) {
	if errs == nil {
		errs = forms.Errors{}
	}
	writeJSON(w, status, errorResponse{Message: message, Errors: errs})
}

// requireUser resolves the session principal. Requests with mutating methods
// must also carry a CSRF header matching the csrf cookie.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := s.sessions.UserID(r)
	if err != nil {
		apiError(w, http.StatusUnauthorized, "Authentication required", nil)
		return 0, false
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		if err := s.sessions.VerifyCSRF(r); err != nil {
			apiError(w, http.StatusUnauthorized, "Invalid CSRF token", nil)
			return 0, false
		}
	}
	return userID, true
}

// pathID parses the {id} segment of the request path.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, http.StatusBadRequest, "Invalid id", forms.Errors{"id": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// serviceError converts domain errors into their HTTP representation.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrSongNotFound):
		apiError(w, http.StatusNotFound, "Song not found", forms.Errors{"song_id": "No song found with id " + r.PathValue("id")})
	case errors.Is(err, store.ErrPlaylistNotFound):
		apiError(w, http.StatusNotFound, "Playlist not found", forms.Errors{"playlist_id": "No playlist found with id " + r.PathValue("id")})
	case errors.Is(err, store.ErrCommentNotFound):
		apiError(w, http.StatusNotFound, "Comment not found", forms.Errors{"comment_id": "No comment found with id " + r.PathValue("id")})
	case errors.Is(err, store.ErrUserNotFound):
		apiError(w, http.StatusNotFound, "User not found", forms.Errors{"user_id": "No user found with id " + r.PathValue("id")})
	case errors.Is(err, store.ErrNotOwner):
		apiError(w, http.StatusForbidden, "Forbidden", forms.Errors{"user": "You do not own this resource"})
	case errors.Is(err, users.ErrNotArtist):
		apiError(w, http.StatusForbidden, "Forbidden", forms.Errors{"user": "Only artists can perform this action"})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		apiError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apiError(w, http.StatusBadRequest, "Invalid JSON payload", nil)
		return false
	}
	return true
}
