// Package forms validates per-endpoint request input. Validation here is
// pure shape checking; store-backed rules (email already registered, wrong
// password) are surfaced by the handlers into the same field-error map.
package forms

import (
	"net/mail"
	"strings"

	"soundwave/internal/objectstore"
)

// Errors maps a field name to the violation reported for it.
type Errors map[string]string

// MinCommentLength is the shortest comment accepted.
const MinCommentLength = 5

// Signup is the input for POST /api/auth/signup.
type Signup struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate reports field-level violations, or nil when the form is valid.
func (f Signup) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(f.Username) == "" {
		errs["username"] = "Username is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "Email address is invalid"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Login is the input for POST /api/auth/login.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f Login) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Song is the multipart input for POST /api/songs and PUT /api/songs/{id}.
// Filenames stand in for the files themselves; only extensions are checked
// here, before any upload is attempted.
type Song struct {
	Name          string
	Genre         string
	AudioFilename string
	ThumbFilename string

	// RequireAudio is set on create, where the audio file is mandatory.
	RequireAudio bool
}

func (f Song) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Song name is required"
	}
	if f.AudioFilename == "" {
		if f.RequireAudio {
			errs["song_file"] = "An audio file is required"
		}
	} else if !objectstore.AllowedAudioFile(f.AudioFilename) {
		errs["song_file"] = "Unsupported audio format"
	}
	if f.ThumbFilename != "" && !objectstore.AllowedImageFile(f.ThumbFilename) {
		errs["thumb_file"] = "Unsupported image format"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Playlist is the input for POST /api/playlists and PUT /api/playlists/{id}.
type Playlist struct {
	Name          string
	ThumbFilename string

	// RequireName is set on create; updates may omit the name.
	RequireName bool
}

func (f Playlist) Validate() Errors {
	errs := Errors{}
	if f.RequireName && strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Playlist name cannot be empty"
	}
	if f.ThumbFilename != "" && !objectstore.AllowedImageFile(f.ThumbFilename) {
		errs["thumbnail_img"] = "Unsupported image format"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Comment is the input for comment create and update.
type Comment struct {
	Text string `json:"text"`
}

func (f Comment) Validate() Errors {
	if len(strings.TrimSpace(f.Text)) < MinCommentLength {
		return Errors{"text": "Comment must be at least 5 characters"}
	}
	return nil
}

// Artist is the multipart input for POST /api/artists and the profile image
// upload on POST /api/auth/profile.
type Artist struct {
	FirstRelease      string // YYYY-MM-DD when present
	ProfileImageName  string
	FirstReleaseGiven bool
}

func (f Artist) Validate() Errors {
	errs := Errors{}
	if f.FirstReleaseGiven && !validDate(f.FirstRelease) {
		errs["first_release"] = "Date must be in YYYY-MM-DD format"
	}
	if f.ProfileImageName != "" && !objectstore.AllowedImageFile(f.ProfileImageName) {
		errs["profile_image"] = "Unsupported image format"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
