// Package session issues and verifies cookie-based login state: a signed
// session token resolving to a user id, paired with a CSRF token the client
// must echo on mutating requests.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookie = "soundwave_session"
	csrfCookie    = "csrf_token"

	// CSRFHeader is the request header that must match the csrf_token cookie
	// on mutating requests.
	CSRFHeader = "X-CSRF-Token"
)

var (
	// ErrNoSession indicates a missing, expired, or tampered session token.
	ErrNoSession = errors.New("no valid session")
	// ErrCSRFMismatch indicates the CSRF header did not match the cookie.
	ErrCSRFMismatch = errors.New("csrf token mismatch")
)

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager builds a Manager signing tokens with secret. Sessions expire
// after ttl.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue starts a session for userID: sets the HttpOnly session cookie and a
// client-readable CSRF cookie.
func (m *Manager) Issue(w http.ResponseWriter, userID int64) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    uuid.NewString(),
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear ends the session by expiring both cookies.
func (m *Manager) Clear(w http.ResponseWriter) {
	for _, name := range []string{sessionCookie, csrfCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == sessionCookie,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// UserID resolves the authenticated principal from the request's session
// cookie.
func (m *Manager) UserID(r *http.Request) (int64, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, ErrNoSession
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrNoSession
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, ErrNoSession
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrNoSession
	}
	return userID, nil
}

// VerifyCSRF checks that the CSRF header echoes the CSRF cookie.
func (m *Manager) VerifyCSRF(r *http.Request) error {
	cookie, err := r.Cookie(csrfCookie)
	if err != nil || cookie.Value == "" {
		return ErrCSRFMismatch
	}
	header := r.Header.Get(CSRFHeader)
	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
		return ErrCSRFMismatch
	}
	return nil
}
