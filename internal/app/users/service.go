package users

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"soundwave/internal/objectstore"
	"soundwave/internal/store"
)

// ErrNotArtist indicates the caller has no stage name and is not setting one.
var ErrNotArtist = errors.New("not an artist")

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, nu store.NewUser) (store.User, error)
	Authenticate(ctx context.Context, email, password string) (store.User, error)
	UserByID(ctx context.Context, id int64) (store.User, error)
	UpdateArtistProfile(ctx context.Context, userID int64, upd store.ArtistUpdate) (store.User, error)
	UpdateProfileImage(ctx context.Context, userID int64, url string) (store.User, error)
}

// ObjectStore describes the asset operations required by the user service.
type ObjectStore interface {
	UploadImage(ctx context.Context, body io.Reader, filename string) (string, error)
	DeleteImage(ctx context.Context, ref string) error
}

// Service exposes account and artist-profile workflows.
type Service interface {
	Signup(ctx context.Context, nu store.NewUser) (store.User, error)
	Authenticate(ctx context.Context, email, password string) (store.User, error)
	Get(ctx context.Context, id int64) (store.User, error)
	UpdateProfileImage(ctx context.Context, userID int64, image objectstore.Upload) (store.User, error)
	UpdateArtistProfile(ctx context.Context, userID int64, upd store.ArtistUpdate, image *objectstore.Upload) (store.User, error)
}

type service struct {
	store  Store
	assets ObjectStore
}

// New wires a Service backed by the provided Store and ObjectStore.
func New(st Store, assets ObjectStore) Service {
	return &service{store: st, assets: assets}
}

func (s *service) Signup(ctx context.Context, nu store.NewUser) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(ctx, nu)
}

func (s *service) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.Authenticate(ctx, email, password)
}

func (s *service) Get(ctx context.Context, id int64) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.UserByID(ctx, id)
}

// UpdateProfileImage uploads the new image, swaps the URL, and removes the
// replaced asset best-effort.
func (s *service) UpdateProfileImage(ctx context.Context, userID int64, image objectstore.Upload) (store.User, error) {
	current, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return store.User{}, err
	}

	url, err := s.assets.UploadImage(ctx, image.Body, image.Filename)
	if err != nil {
		return store.User{}, err
	}

	updated, err := s.store.UpdateProfileImage(ctx, userID, url)
	if err != nil {
		s.discardImage(ctx, url)
		return store.User{}, err
	}

	if current.ProfileImage != nil {
		s.discardImage(ctx, *current.ProfileImage)
	}
	return updated, nil
}

// UpdateArtistProfile applies artist fields and the optional profile image.
// A user with no stage name may only call this to set one.
func (s *service) UpdateArtistProfile(ctx context.Context, userID int64, upd store.ArtistUpdate, image *objectstore.Upload) (store.User, error) {
	current, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return store.User{}, err
	}
	if current.StageName == nil && upd.StageName == nil {
		return store.User{}, ErrNotArtist
	}

	if image != nil {
		url, err := s.assets.UploadImage(ctx, image.Body, image.Filename)
		if err != nil {
			return store.User{}, err
		}
		upd.ProfileImage = &url
	}

	updated, err := s.store.UpdateArtistProfile(ctx, userID, upd)
	if err != nil {
		if upd.ProfileImage != nil {
			s.discardImage(ctx, *upd.ProfileImage)
		}
		return store.User{}, err
	}

	if upd.ProfileImage != nil && current.ProfileImage != nil {
		s.discardImage(ctx, *current.ProfileImage)
	}
	return updated, nil
}

func (s *service) discardImage(ctx context.Context, ref string) {
	if err := s.assets.DeleteImage(ctx, ref); err != nil {
		log.Warn().Err(err).Str("ref", ref).Msg("failed to remove stored image")
	}
}
