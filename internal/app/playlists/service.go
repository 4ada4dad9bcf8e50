package playlists

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	CreatePlaylist(ctx context.Context, userID int64, name string, thumbnail *string) (store.Playlist, error)
	PlaylistsByUser(ctx context.Context, userID int64) ([]store.Playlist, error)
	PlaylistByID(ctx context.Context, id int64) (store.Playlist, error)
	UpdatePlaylist(ctx context.Context, id, userID int64, upd store.PlaylistUpdate) (store.Playlist, error)
	DeletePlaylist(ctx context.Context, id, userID int64) (store.Playlist, error)
	AddPlaylistSong(ctx context.Context, playlistID, userID, songID int64) error
	RemovePlaylistSong(ctx context.Context, playlistID, userID, songID int64) error
	PlaylistSongs(ctx context.Context, playlistID, userID int64) ([]store.Song, error)
}

// ObjectStore captures the asset operations for playlist thumbnails.
type ObjectStore interface {
	UploadImage(ctx context.Context, body io.Reader, filename string) (string, error)
	DeleteImage(ctx context.Context, ref string) error
}

// Service coordinates playlist-related operations.
type Service interface {
	Create(ctx context.Context, userID int64, name string, thumb *objectstore.Upload) (store.Playlist, error)
	ListMine(ctx context.Context, userID int64) ([]store.Playlist, error)
	Get(ctx context.Context, id int64) (store.Playlist, error)
	Update(ctx context.Context, id, userID int64, name *string, thumb *objectstore.Upload) (store.Playlist, error)
	Delete(ctx context.Context, id, userID int64) error
	AddSong(ctx context.Context, playlistID, userID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, userID, songID int64) error
	Songs(ctx context.Context, playlistID, userID int64) ([]store.Song, error)
}

type service struct {
	store  Store
	assets ObjectStore
}

// New constructs a Service backed by the provided Store and ObjectStore.
func New(st Store, assets ObjectStore) Service {
	return &service{store: st, assets: assets}
}

func (s *service) Create(ctx context.Context, userID int64, name string, thumb *objectstore.Upload) (store.Playlist, error) {
	var thumbnail *string
	if thumb != nil {
		url, err := s.assets.UploadImage(ctx, thumb.Body, thumb.Filename)
		if err != nil {
			return store.Playlist{}, err
		}
		thumbnail = &url
	}

	playlist, err := s.store.CreatePlaylist(ctx, userID, name, thumbnail)
	if err != nil {
		if thumbnail != nil {
			s.discardImage(ctx, *thumbnail)
		}
		return store.Playlist{}, err
	}
	return playlist, nil
}

func (s *service) ListMine(ctx context.Context, userID int64) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.PlaylistsByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, id int64) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.PlaylistByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id, userID int64, name *string, thumb *objectstore.Upload) (store.Playlist, error) {
	current, err := s.store.PlaylistByID(ctx, id)
	if err != nil {
		return store.Playlist{}, err
	}
	if current.UserID != userID {
		return store.Playlist{}, store.ErrNotOwner
	}

	upd := store.PlaylistUpdate{Name: name}
	if thumb != nil {
		url, err := s.assets.UploadImage(ctx, thumb.Body, thumb.Filename)
		if err != nil {
			return store.Playlist{}, err
		}
		upd.Thumbnail = &url
	}

	updated, err := s.store.UpdatePlaylist(ctx, id, userID, upd)
	if err != nil {
		if upd.Thumbnail != nil {
			s.discardImage(ctx, *upd.Thumbnail)
		}
		return store.Playlist{}, err
	}

	if upd.Thumbnail != nil && current.Thumbnail != nil {
		s.discardImage(ctx, *current.Thumbnail)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	playlist, err := s.store.DeletePlaylist(ctx, id, userID)
	if err != nil {
		return err
	}
	if playlist.Thumbnail != nil {
		s.discardImage(ctx, *playlist.Thumbnail)
	}
	return nil
}

func (s *service) AddSong(ctx context.Context, playlistID, userID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddPlaylistSong(ctx, playlistID, userID, songID)
}

func (s *service) RemoveSong(ctx context.Context, playlistID, userID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemovePlaylistSong(ctx, playlistID, userID, songID)
}

func (s *service) Songs(ctx context.Context, playlistID, userID int64) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.PlaylistSongs(ctx, playlistID, userID)
}

func (s *service) discardImage(ctx context.Context, ref string) {
	if err := s.assets.DeleteImage(ctx, ref); err != nil {
		log.Warn().Err(err).Str("ref", ref).Msg("failed to remove stored image")
	}
}
