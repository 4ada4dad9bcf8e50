package httpapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"soundwave/internal/store"
)

func testViewServer() *Server {
	return &Server{defaultThumb: testThumb}
}

func TestSongViewDefaultsThumbnail(t *testing.T) {
	s := testViewServer()

	view := s.songToView(sampleSong())
	require.Equal(t, testThumb, view.ThumbURL)

	custom := "https://images.s3.us-east-1.amazonaws.com/custom.png"
	song := sampleSong()
	song.ThumbURL = &custom
	require.Equal(t, custom, s.songToView(song).ThumbURL)
}

func TestSongViewOmitsUnsetGenre(t *testing.T) {
	s := testViewServer()

	raw, err := json.Marshal(s.songToView(sampleSong()))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, present := decoded["genre"]
	require.False(t, present, "genre key must be absent when unset")

	genre := "Electronic"
	song := sampleSong()
	song.Genre = &genre
	raw, err = json.Marshal(s.songToView(song))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "Electronic", decoded["genre"])
}

func TestSongViewNestedArtist(t *testing.T) {
	s := testViewServer()
	song := sampleSong()
	song.ArtistName = "DJ Demo"

	view := s.songToView(song)
	require.Equal(t, song.ArtistID, view.Artist.ID)
	require.Equal(t, "DJ Demo", view.Artist.DisplayName)
}

func TestPlaylistViewDefaultsThumbnail(t *testing.T) {
	s := testViewServer()
	now := time.Now()

	view := s.playlistToView(store.Playlist{ID: 4, Name: "Mix", UserID: 1, CreatedAt: now, UpdatedAt: now})
	require.Equal(t, testThumb, view.Thumbnail)

	custom := "https://images.s3.us-east-1.amazonaws.com/mix.png"
	view = s.playlistToView(store.Playlist{ID: 4, Name: "Mix", UserID: 1, Thumbnail: &custom})
	require.Equal(t, custom, view.Thumbnail)
}

func TestArtistViewFormatsFirstRelease(t *testing.T) {
	stage := "DJ Demo"
	release := time.Date(2019, time.March, 14, 0, 0, 0, 0, time.UTC)

	view := artistToView(store.User{ID: 7, Username: "demo", StageName: &stage, FirstRelease: &release})
	require.Equal(t, "DJ Demo", view.StageName)
	require.NotNil(t, view.FirstRelease)
	require.Equal(t, "2019-03-14", *view.FirstRelease)

	bare := artistToView(store.User{ID: 7, Username: "demo", StageName: &stage})
	require.Nil(t, bare.FirstRelease)
	require.Nil(t, bare.Biography)
}

func TestSearchResultViewThumbDefaults(t *testing.T) {
	s := testViewServer()

	views := s.searchResultsToView([]store.SearchResult{
		{Type: "song", ID: 3, Name: "First Light"},
		{Type: "artist", ID: 7, Name: "demo"},
	})
	require.Equal(t, testThumb, views[0].ThumbURL, "songs fall back to the shared art")
	require.Empty(t, views[1].ThumbURL, "artists have no fallback art")
}
