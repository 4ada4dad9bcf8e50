package httpapi

import (
	"net/http"
	"strconv"

	"soundwave/internal/app/songs"
	"soundwave/internal/forms"
	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

type songsResponse struct {
	Songs []songView `json:"songs"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	var filter store.SongFilter
	if raw := r.URL.Query().Get("artist_id"); raw != "" {
		artistID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || artistID <= 0 {
			apiError(w, http.StatusBadRequest, "Invalid filter", forms.Errors{"artist_id": "artist_id must be a positive integer"})
			return
		}
		filter.ArtistID = artistID
	}

	list, err := s.songs.List(r.Context(), filter)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songsResponse{Songs: s.songsToView(list)})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	song, err := s.songs.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.songToView(song))
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	audio, audioName, ok := formFile(w, r, "song_file")
	if !ok {
		return
	}
	if audio != nil {
		defer audio.Close()
	}
	thumb, thumbName, ok := formFile(w, r, "thumb_file")
	if !ok {
		return
	}
	if thumb != nil {
		defer thumb.Close()
	}

	form := forms.Song{
		Name:          r.FormValue("name"),
		Genre:         r.FormValue("genre"),
		AudioFilename: audioName,
		ThumbFilename: thumbName,
		RequireAudio:  true,
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	var genre *string
	if form.Genre != "" {
		genre = &form.Genre
	}
	var thumbUpload *objectstore.Upload
	if thumb != nil {
		thumbUpload = &objectstore.Upload{Body: thumb, Filename: thumbName}
	}

	song, err := s.songs.Create(r.Context(), userID, form.Name, genre,
		objectstore.Upload{Body: audio, Filename: audioName}, thumbUpload)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.songToView(song))
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
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

	audio, audioName, ok := formFile(w, r, "song_file")
	if !ok {
		return
	}
	if audio != nil {
		defer audio.Close()
	}
	thumb, thumbName, ok := formFile(w, r, "thumb_file")
	if !ok {
		return
	}
	if thumb != nil {
		defer thumb.Close()
	}

	form := forms.Song{
		Name:          r.FormValue("name"),
		Genre:         r.FormValue("genre"),
		AudioFilename: audioName,
		ThumbFilename: thumbName,
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	changes := songs.Changes{Name: &form.Name}
	if form.Genre != "" {
		changes.Genre = &form.Genre
	}
	if audio != nil {
		changes.Audio = &objectstore.Upload{Body: audio, Filename: audioName}
	}
	if thumb != nil {
		changes.Thumb = &objectstore.Upload{Body: thumb, Filename: thumbName}
	}

	song, err := s.songs.Update(r.Context(), id, userID, changes)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.songToView(song))
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.songs.Delete(r.Context(), id, userID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully deleted"})
}

func (s *Server) handleLikeSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.songs.Like(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Song liked"})
}

func (s *Server) handleUnlikeSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.songs.Unlike(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Song unliked"})
}

func (s *Server) handleLikedSongs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	liked, err := s.songs.Liked(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songsResponse{Songs: s.songsToView(liked)})
}
