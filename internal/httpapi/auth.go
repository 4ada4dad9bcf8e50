package httpapi

import (
	"errors"
	"mime/multipart"
	"net/http"

	"soundwave/internal/forms"
	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	userID, err := s.sessions.UserID(r)
	if err != nil {
		apiError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	user, err := s.users.Get(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToView(user))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var form forms.Signup
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	user, err := s.users.Signup(r.Context(), store.NewUser{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			apiError(w, http.StatusBadRequest, "Validation error", forms.Errors{"email": "Email address is already in use"})
		case errors.Is(err, store.ErrUsernameTaken):
			apiError(w, http.StatusBadRequest, "Validation error", forms.Errors{"username": "Username is already in use"})
		default:
			s.serviceError(w, r, err)
		}
		return
	}

	if err := s.sessions.Issue(w, user.ID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToView(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form forms.Login
	if !decodeJSON(w, r, &form) {
		return
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	user, err := s.users.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			apiError(w, http.StatusUnauthorized, "Invalid credentials", forms.Errors{"email": "Email or password is incorrect"})
			return
		}
		s.serviceError(w, r, err)
		return
	}

	if err := s.sessions.Issue(w, user.ID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToView(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "User logged out"})
}

func (s *Server) handleProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	upload, filename, ok := formFile(w, r, "profile_image")
	if !ok {
		return
	}
	if upload == nil {
		apiError(w, http.StatusBadRequest, "Validation error", forms.Errors{"profile_image": "An image file is required"})
		return
	}
	defer upload.Close()

	form := forms.Artist{ProfileImageName: filename}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	user, err := s.users.UpdateProfileImage(r.Context(), userID, objectstore.Upload{Body: upload, Filename: filename})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToView(user))
}

func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiError(w, http.StatusRequestEntityTooLarge, "Uploaded content is too large", nil)
			return false
		}
		apiError(w, http.StatusBadRequest, "Invalid multipart payload", nil)
		return false
	}
	return true
}

// formFile fetches an optional file field. A missing field yields a nil file
// with ok=true; transport errors are reported to the client.
func formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, string, bool) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", true
	}
	if err != nil {
		apiError(w, http.StatusBadRequest, "Invalid multipart payload", forms.Errors{field: "Could not read uploaded file"})
		return nil, "", false
	}
	return file, header.Filename, true
}
