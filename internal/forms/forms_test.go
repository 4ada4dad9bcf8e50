package forms

import "testing"

func TestSignupValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      Signup
		wantField string
	}{
		{
			name: "valid",
			form: Signup{Username: "alice", Email: "alice@example.com", Password: "pw"},
		},
		{
			name:      "missing username",
			form:      Signup{Email: "alice@example.com", Password: "pw"},
			wantField: "username",
		},
		{
			name:      "missing email",
			form:      Signup{Username: "alice", Password: "pw"},
			wantField: "email",
		},
		{
			name:      "malformed email",
			form:      Signup{Username: "alice", Email: "not-an-email", Password: "pw"},
			wantField: "email",
		},
		{
			name:      "missing password",
			form:      Signup{Username: "alice", Email: "alice@example.com"},
			wantField: "password",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.form.Validate()
			if tc.wantField == "" {
				if errs != nil {
					t.Fatalf("expected valid form, got %v", errs)
				}
				return
			}
			if _, ok := errs[tc.wantField]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.wantField, errs)
			}
		})
	}
}

func TestSongValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      Song
		wantField string
	}{
		{
			name: "valid create",
			form: Song{Name: "Track", AudioFilename: "track.mp3", RequireAudio: true},
		},
		{
			name: "valid update without files",
			form: Song{Name: "Track"},
		},
		{
			name:      "missing name",
			form:      Song{AudioFilename: "track.mp3", RequireAudio: true},
			wantField: "name",
		},
		{
			name:      "missing required audio",
			form:      Song{Name: "Track", RequireAudio: true},
			wantField: "song_file",
		},
		{
			name:      "disallowed audio extension",
			form:      Song{Name: "Track", AudioFilename: "track.exe", RequireAudio: true},
			wantField: "song_file",
		},
		{
			name:      "disallowed thumb extension",
			form:      Song{Name: "Track", AudioFilename: "track.mp3", ThumbFilename: "art.gif", RequireAudio: true},
			wantField: "thumb_file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.form.Validate()
			if tc.wantField == "" {
				if errs != nil {
					t.Fatalf("expected valid form, got %v", errs)
				}
				return
			}
			if _, ok := errs[tc.wantField]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.wantField, errs)
			}
		})
	}
}

func TestPlaylistValidate(t *testing.T) {
	if errs := (Playlist{RequireName: true}).Validate(); errs == nil {
		t.Fatal("expected name error on create")
	}
	if errs := (Playlist{Name: "  "}).Validate(); errs != nil {
		t.Fatalf("update may omit the name, got %v", errs)
	}
	if errs := (Playlist{Name: "Mix", ThumbFilename: "cover.bmp", RequireName: true}).Validate(); errs == nil {
		t.Fatal("expected thumbnail error for bmp")
	}
	if errs := (Playlist{Name: "Mix", ThumbFilename: "cover.png", RequireName: true}).Validate(); errs != nil {
		t.Fatalf("expected valid form, got %v", errs)
	}
}

func TestCommentValidate(t *testing.T) {
	if errs := (Comment{Text: "hey"}).Validate(); errs == nil {
		t.Fatal("expected error for sub-minimum comment")
	}
	if errs := (Comment{Text: "  hi  "}).Validate(); errs == nil {
		t.Fatal("expected trimmed length check to fail")
	}
	if errs := (Comment{Text: "long enough"}).Validate(); errs != nil {
		t.Fatalf("expected valid comment, got %v", errs)
	}
}

func TestArtistValidate(t *testing.T) {
	if errs := (Artist{FirstRelease: "bad-date", FirstReleaseGiven: true}).Validate(); errs == nil {
		t.Fatal("expected error for malformed date")
	}
	if errs := (Artist{FirstRelease: "2020-05-01", FirstReleaseGiven: true}).Validate(); errs != nil {
		t.Fatalf("expected valid date, got %v", errs)
	}
	if errs := (Artist{}).Validate(); errs != nil {
		t.Fatalf("empty update is valid, got %v", errs)
	}
	if errs := (Artist{ProfileImageName: "pic.tiff"}).Validate(); errs == nil {
		t.Fatal("expected error for unsupported image")
	}
}
