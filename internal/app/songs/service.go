package songs

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

// Store captures the persistence needs for song workflows.
type Store interface {
	ListSongs(ctx context.Context, filter store.SongFilter) ([]store.Song, error)
	SongByID(ctx context.Context, id int64) (store.Song, error)
	CreateSong(ctx context.Context, ns store.NewSong) (store.Song, error)
	UpdateSong(ctx context.Context, songID, artistID int64, upd store.SongUpdate) (store.Song, error)
	DeleteSong(ctx context.Context, songID, artistID int64) (store.Song, error)
	LikeSong(ctx context.Context, userID, songID int64) error
	UnlikeSong(ctx context.Context, userID, songID int64) error
	LikedSongs(ctx context.Context, userID int64) ([]store.Song, error)
}

// ObjectStore captures the asset operations for song workflows.
type ObjectStore interface {
	UploadAudio(ctx context.Context, body io.Reader, filename string) (string, error)
	UploadImage(ctx context.Context, body io.Reader, filename string) (string, error)
	DeleteAudio(ctx context.Context, ref string) error
	DeleteImage(ctx context.Context, ref string) error
}

// Changes carries the mutable parts of a song update; nil fields are left
// unchanged.
type Changes struct {
	Name  *string
	Genre *string
	Audio *objectstore.Upload
	Thumb *objectstore.Upload
}

// Service coordinates track-level operations, including upload bookkeeping.
type Service interface {
	List(ctx context.Context, filter store.SongFilter) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, artistID int64, name string, genre *string, audio objectstore.Upload, thumb *objectstore.Upload) (store.Song, error)
	Update(ctx context.Context, songID, artistID int64, changes Changes) (store.Song, error)
	Delete(ctx context.Context, songID, artistID int64) error
	Like(ctx context.Context, userID, songID int64) error
	Unlike(ctx context.Context, userID, songID int64) error
	Liked(ctx context.Context, userID int64) ([]store.Song, error)
}

type service struct {
	store  Store
	assets ObjectStore
}

// New constructs a Service backed by the provided Store and ObjectStore.
func New(st Store, assets ObjectStore) Service {
	return &service{store: st, assets: assets}
}

func (s *service) List(ctx context.Context, filter store.SongFilter) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx, filter)
}

func (s *service) Get(ctx context.Context, id int64) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.SongByID(ctx, id)
}

// Create uploads the audio (and optional thumbnail) before the insert; the
// uploads are discarded if the insert fails.
func (s *service) Create(ctx context.Context, artistID int64, name string, genre *string, audio objectstore.Upload, thumb *objectstore.Upload) (store.Song, error) {
	songRef, err := s.assets.UploadAudio(ctx, audio.Body, audio.Filename)
	if err != nil {
		return store.Song{}, err
	}

	var thumbURL *string
	if thumb != nil {
		url, err := s.assets.UploadImage(ctx, thumb.Body, thumb.Filename)
		if err != nil {
			s.discardAudio(ctx, songRef)
			return store.Song{}, err
		}
		thumbURL = &url
	}

	song, err := s.store.CreateSong(ctx, store.NewSong{
		Name:     name,
		ArtistID: artistID,
		Genre:    genre,
		ThumbURL: thumbURL,
		SongRef:  songRef,
	})
	if err != nil {
		s.discardAudio(ctx, songRef)
		if thumbURL != nil {
			s.discardImage(ctx, *thumbURL)
		}
		return store.Song{}, err
	}
	return song, nil
}

// Update applies metadata changes and replaces uploaded assets, deleting the
// superseded objects best-effort after the row is updated.
func (s *service) Update(ctx context.Context, songID, artistID int64, changes Changes) (store.Song, error) {
	current, err := s.store.SongByID(ctx, songID)
	if err != nil {
		return store.Song{}, err
	}
	if current.ArtistID != artistID {
		return store.Song{}, store.ErrNotOwner
	}

	upd := store.SongUpdate{Name: changes.Name, Genre: changes.Genre}

	if changes.Audio != nil {
		ref, err := s.assets.UploadAudio(ctx, changes.Audio.Body, changes.Audio.Filename)
		if err != nil {
			return store.Song{}, err
		}
		upd.SongRef = &ref
	}
	if changes.Thumb != nil {
		url, err := s.assets.UploadImage(ctx, changes.Thumb.Body, changes.Thumb.Filename)
		if err != nil {
			if upd.SongRef != nil {
				s.discardAudio(ctx, *upd.SongRef)
			}
			return store.Song{}, err
		}
		upd.ThumbURL = &url
	}

	updated, err := s.store.UpdateSong(ctx, songID, artistID, upd)
	if err != nil {
		if upd.SongRef != nil {
			s.discardAudio(ctx, *upd.SongRef)
		}
		if upd.ThumbURL != nil {
			s.discardImage(ctx, *upd.ThumbURL)
		}
		return store.Song{}, err
	}

	if upd.SongRef != nil {
		s.discardAudio(ctx, current.SongRef)
	}
	if upd.ThumbURL != nil && current.ThumbURL != nil {
		s.discardImage(ctx, *current.ThumbURL)
	}
	return updated, nil
}

// Delete removes the row and then its stored assets best-effort.
func (s *service) Delete(ctx context.Context, songID, artistID int64) error {
	song, err := s.store.DeleteSong(ctx, songID, artistID)
	if err != nil {
		return err
	}

	s.discardAudio(ctx, song.SongRef)
	if song.ThumbURL != nil {
		s.discardImage(ctx, *song.ThumbURL)
	}
	return nil
}

func (s *service) Like(ctx context.Context, userID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.LikeSong(ctx, userID, songID)
}

func (s *service) Unlike(ctx context.Context, userID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.UnlikeSong(ctx, userID, songID)
}

func (s *service) Liked(ctx context.Context, userID int64) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.LikedSongs(ctx, userID)
}

func (s *service) discardAudio(ctx context.Context, ref string) {
	if err := s.assets.DeleteAudio(ctx, ref); err != nil {
		log.Warn().Err(err).Str("ref", ref).Msg("failed to remove stored audio")
	}
}

func (s *service) discardImage(ctx context.Context, ref string) {
	if err := s.assets.DeleteImage(ctx, ref); err != nil {
		log.Warn().Err(err).Str("ref", ref).Msg("failed to remove stored image")
	}
}
