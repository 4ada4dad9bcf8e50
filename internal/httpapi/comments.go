package httpapi

import (
	"net/http"

	"soundwave/internal/forms"
)

type commentsResponse struct {
	Comments []commentView `json:"comments"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := s.comments.ListBySong(r.Context(), songID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commentsResponse{Comments: commentsToView(list)})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	songID, ok := pathID(w, r)
	if !ok {
		return
	}

	var form forms.Comment
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	comment, err := s.comments.Create(r.Context(), songID, userID, form.Text)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentToView(comment))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var form forms.Comment
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	comment, err := s.comments.Update(r.Context(), id, userID, form.Text)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commentToView(comment))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.comments.Delete(r.Context(), id, userID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully deleted"})
}
