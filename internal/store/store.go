package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken signals the email address is already registered.
	ErrEmailTaken = errors.New("email address is already in use")
	// ErrUsernameTaken signals the username is already registered.
	ErrUsernameTaken = errors.New("username is already in use")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotOwner indicates the caller does not own the resource it is mutating.
	ErrNotOwner = errors.New("not the owner of this resource")

	dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// User is a persisted account. Artist fields are optional; an account with a
// stage name set is treated as an artist.
type User struct {
	ID           int64
	Username     string
	Email        string
	ProfileImage *string
	StageName    *string
	FirstRelease *time.Time
	Biography    *string
	Location     *string
	Homepage     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the stage name when set, otherwise the username.
func (u User) DisplayName() string {
	if u.StageName != nil && *u.StageName != "" {
		return *u.StageName
	}
	return u.Username
}

// NewUser carries the fields required to register an account.
type NewUser struct {
	Username string
	Email    string
	Password string
}

// ArtistUpdate carries optional profile fields; nil fields are left unchanged.
type ArtistUpdate struct {
	StageName    *string
	FirstRelease *time.Time
	Biography    *string
	Location     *string
	Homepage     *string
	ProfileImage *string
}

const userColumns = `id, username, email, profile_image, stage_name, first_release, biography, location, homepage, created_at, updated_at`

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	nu.Email = strings.TrimSpace(strings.ToLower(nu.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	var user User
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns+`
	`, nu.Username, nu.Email, string(hash)).Scan(userFields(&user)...)
	if err != nil {
		switch constraint(err) {
		case "users_email_key":
			return User{}, ErrEmailTaken
		case "users_username_key":
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the matching user.
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var (
		user User
		hash string
	)
	fields := append(userFields(&user), &hash)
	err := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE email = $1
	`, email).Scan(fields...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn comparable time so unknown emails are not distinguishable.
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id).Scan(userFields(&user)...)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateArtistProfile applies the non-nil fields of upd to the user's profile.
func (s *Store) UpdateArtistProfile(ctx context.Context, userID int64, upd ArtistUpdate) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET stage_name = COALESCE($2, stage_name),
		    first_release = COALESCE($3, first_release),
		    biography = COALESCE($4, biography),
		    location = COALESCE($5, location),
		    homepage = COALESCE($6, homepage),
		    profile_image = COALESCE($7, profile_image),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, upd.StageName, upd.FirstRelease, upd.Biography, upd.Location, upd.Homepage, upd.ProfileImage).
		Scan(userFields(&user)...)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("update artist profile: %w", err)
	}
	return user, nil
}

// UpdateProfileImage replaces the user's profile image URL.
func (s *Store) UpdateProfileImage(ctx context.Context, userID int64, url string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET profile_image = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, url).Scan(userFields(&user)...)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("update profile image: %w", err)
	}
	return user, nil
}

func userFields(u *User) []any {
	return []any{
		&u.ID, &u.Username, &u.Email, &u.ProfileImage, &u.StageName,
		&u.FirstRelease, &u.Biography, &u.Location, &u.Homepage,
		&u.CreatedAt, &u.UpdatedAt,
	}
}

// constraint returns the violated unique constraint name, or "".
func constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}
