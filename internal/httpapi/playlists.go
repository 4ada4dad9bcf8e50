package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"soundwave/internal/forms"
	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

type playlistsResponse struct {
	Playlists []playlistView `json:"playlists"`
}

type playlistSongRequest struct {
	SongID int64 `json:"song_id"`
}

func (s *Server) handleMyPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	list, err := s.playlists.ListMine(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistsResponse{Playlists: s.playlistsToView(list)})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	playlist, err := s.playlists.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.playlistToView(playlist))
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	thumb, thumbName, ok := formFile(w, r, "thumbnail_img")
	if !ok {
		return
	}
	if thumb != nil {
		defer thumb.Close()
	}

	form := forms.Playlist{
		Name:          r.FormValue("name"),
		ThumbFilename: thumbName,
		RequireName:   true,
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	var thumbUpload *objectstore.Upload
	if thumb != nil {
		thumbUpload = &objectstore.Upload{Body: thumb, Filename: thumbName}
	}

	playlist, err := s.playlists.Create(r.Context(), userID, form.Name, thumbUpload)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.playlistToView(playlist))
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	thumb, thumbName, ok := formFile(w, r, "thumbnail_img")
	if !ok {
		return
	}
	if thumb != nil {
		defer thumb.Close()
	}

	form := forms.Playlist{
		Name:          r.FormValue("name"),
		ThumbFilename: thumbName,
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	var name *string
	if form.Name != "" {
		name = &form.Name
	}
	var thumbUpload *objectstore.Upload
	if thumb != nil {
		thumbUpload = &objectstore.Upload{Body: thumb, Filename: thumbName}
	}

	playlist, err := s.playlists.Update(r.Context(), id, userID, name, thumbUpload)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.playlistToView(playlist))
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.playlists.Delete(r.Context(), id, userID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully deleted"})
}

func (s *Server) handlePlaylistSongs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := s.playlists.Songs(r.Context(), id, userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songsResponse{Songs: s.songsToView(list)})
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req playlistSongRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SongID <= 0 {
		apiError(w, http.StatusBadRequest, "Validation error", forms.Errors{"song_id": "song_id must be a positive integer"})
		return
	}

	if err := s.playlists.AddSong(r.Context(), id, userID, req.SongID); err != nil {
		s.playlistSongError(w, r, req.SongID, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Song added to playlist"})
}

func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req playlistSongRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SongID <= 0 {
		apiError(w, http.StatusBadRequest, "Validation error", forms.Errors{"song_id": "song_id must be a positive integer"})
		return
	}

	if err := s.playlists.RemoveSong(r.Context(), id, userID, req.SongID); err != nil {
		s.playlistSongError(w, r, req.SongID, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Song removed from playlist"})
}

// playlistSongError distinguishes a missing song from a missing playlist; the
// song id comes from the body, not the path.
func (s *Server) playlistSongError(w http.ResponseWriter, r *http.Request, songID int64, err error) {
	if errors.Is(err, store.ErrSongNotFound) {
		apiError(w, http.StatusNotFound, "Song not found",
			forms.Errors{"song_id": fmt.Sprintf("No song found with id %d", songID)})
		return
	}
	s.serviceError(w, r, err)
}
