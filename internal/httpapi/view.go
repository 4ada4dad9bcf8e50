package httpapi

import (
	"time"

	"soundwave/internal/store"
)

// Wire representations of the domain rows. Mapping is total; every store
// value renders without error.

type artistRefView struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

type songView struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	ArtistID  int64         `json:"artist_id"`
	Genre     *string       `json:"genre,omitempty"`
	ThumbURL  string        `json:"thumb_url"`
	SongRef   string        `json:"song_ref"`
	NumLikes  int           `json:"num_likes"`
	Artist    artistRefView `json:"artist"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type playlistView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"user_id"`
	Thumbnail string    `json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type commentView struct {
	ID        int64     `json:"id"`
	SongID    int64     `json:"song_id"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userView struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profile_image,omitempty"`
	StageName    *string `json:"stage_name,omitempty"`
}

type artistView struct {
	ID           int64   `json:"id"`
	StageName    string  `json:"stage_name"`
	FirstRelease *string `json:"first_release,omitempty"`
	Biography    *string `json:"biography,omitempty"`
	Location     *string `json:"location,omitempty"`
	Homepage     *string `json:"homepage,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

type searchResultView struct {
	Type       string  `json:"type"`
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ThumbURL   string  `json:"thumb_url,omitempty"`
	ArtistName *string `json:"artist_name,omitempty"`
}

func (s *Server) songToView(song store.Song) songView {
	thumb := s.defaultThumb
	if song.ThumbURL != nil && *song.ThumbURL != "" {
		thumb = *song.ThumbURL
	}
	return songView{
		ID:       song.ID,
		Name:     song.Name,
		ArtistID: song.ArtistID,
		Genre:    song.Genre,
		ThumbURL: thumb,
		SongRef:  song.SongRef,
		NumLikes: song.NumLikes,
		Artist: artistRefView{
			ID:          song.ArtistID,
			DisplayName: song.ArtistName,
		},
		CreatedAt: song.CreatedAt,
		UpdatedAt: song.UpdatedAt,
	}
}

func (s *Server) songsToView(songs []store.Song) []songView {
	views := make([]songView, 0, len(songs))
	for _, song := range songs {
		views = append(views, s.songToView(song))
	}
	return views
}

func (s *Server) playlistToView(p store.Playlist) playlistView {
	thumb := s.defaultThumb
	if p.Thumbnail != nil && *p.Thumbnail != "" {
		thumb = *p.Thumbnail
	}
	return playlistView{
		ID:        p.ID,
		Name:      p.Name,
		UserID:    p.UserID,
		Thumbnail: thumb,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (s *Server) playlistsToView(playlists []store.Playlist) []playlistView {
	views := make([]playlistView, 0, len(playlists))
	for _, p := range playlists {
		views = append(views, s.playlistToView(p))
	}
	return views
}

func commentToView(c store.Comment) commentView {
	return commentView{
		ID:        c.ID,
		SongID:    c.SongID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func commentsToView(comments []store.Comment) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentToView(c))
	}
	return views
}

func userToView(u store.User) userView {
	return userView{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		StageName:    u.StageName,
	}
}

// artistToView renders a user as an artist profile. The caller guarantees a
// stage name is set.
func artistToView(u store.User) artistView {
	v := artistView{
		ID:           u.ID,
		Biography:    u.Biography,
		Location:     u.Location,
		Homepage:     u.Homepage,
		ProfileImage: u.ProfileImage,
	}
	if u.StageName != nil {
		v.StageName = *u.StageName
	}
	if u.FirstRelease != nil {
		date := u.FirstRelease.Format("2006-01-02")
		v.FirstRelease = &date
	}
	return v
}

func (s *Server) searchResultsToView(results []store.SearchResult) []searchResultView {
	views := make([]searchResultView, 0, len(results))
	for _, res := range results {
		v := searchResultView{
			Type:       res.Type,
			ID:         res.ID,
			Name:       res.Name,
			ArtistName: res.ArtistName,
		}
		if res.ThumbURL != nil && *res.ThumbURL != "" {
			v.ThumbURL = *res.ThumbURL
		} else if res.Type != "artist" {
			v.ThumbURL = s.defaultThumb
		}
		views = append(views, v)
	}
	return views
}
