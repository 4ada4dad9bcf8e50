package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"soundwave/internal/forms"
	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if user.StageName == nil || *user.StageName == "" {
		apiError(w, http.StatusNotFound, "Not an artist",
			forms.Errors{"artist_id": fmt.Sprintf("User %d is not an artist", id)})
		return
	}
	writeJSON(w, http.StatusOK, artistToView(user))
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r) {
		return
	}

	image, imageName, ok := formFile(w, r, "profile_image")
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}

	_, firstReleaseGiven := r.Form["first_release"]
	form := forms.Artist{
		FirstRelease:      r.FormValue("first_release"),
		ProfileImageName:  imageName,
		FirstReleaseGiven: firstReleaseGiven,
	}
	if errs := form.Validate(); errs != nil {
		apiError(w, http.StatusBadRequest, "Validation error", errs)
		return
	}

	upd := store.ArtistUpdate{
		StageName: optionalField(r, "stage_name"),
		Biography: optionalField(r, "biography"),
		Location:  optionalField(r, "location"),
		Homepage:  optionalField(r, "homepage"),
	}
	// A blank stage name would store as an empty string and strand the user
	// as an artist no profile lookup can see, so it counts as not submitted.
	if upd.StageName != nil && strings.TrimSpace(*upd.StageName) == "" {
		upd.StageName = nil
	}
	if firstReleaseGiven {
		date, err := time.Parse("2006-01-02", form.FirstRelease)
		if err != nil {
			apiError(w, http.StatusBadRequest, "Validation error",
				forms.Errors{"first_release": "Date must be in YYYY-MM-DD format"})
			return
		}
		upd.FirstRelease = &date
	}

	var imageUpload *objectstore.Upload
	if image != nil {
		imageUpload = &objectstore.Upload{Body: image, Filename: imageName}
	}

	user, err := s.users.UpdateArtistProfile(r.Context(), userID, upd, imageUpload)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artistToView(user))
}

// optionalField returns nil when the form field was not submitted at all,
// so absent fields leave the stored value untouched.
func optionalField(r *http.Request, field string) *string {
	if _, given := r.Form[field]; !given {
		return nil
	}
	value := r.FormValue(field)
	return &value
}
