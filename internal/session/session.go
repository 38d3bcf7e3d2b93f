// Package session remembers the last org a browser looked at, carried in a
// signed cookie. Purely a convenience for the org list page; nothing here is
// persisted server-side.
package session

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const lastOrgCookieName = "LastOrg"

// session implements SessionService over a securecookie codec.
type session struct {
	cookie *securecookie.SecureCookie
}

// SessionService - reads and writes the last-viewed-org cookie.
type SessionService interface {
	// GetLastOrg returns the org identifier from the cookie, or an error
	// when the cookie is absent or fails signature validation.
	GetLastOrg(req *http.Request) (string, error)
	// SetLastOrg sets the signed cookie with the given org identifier.
	SetLastOrg(res http.ResponseWriter, org string) error
}

// newSecurecookie creates and returns a new securecookie instance for
// encoding and decoding cookie values.
func newSecurecookie(hashKey, blockKey []byte) *securecookie.SecureCookie {
	return securecookie.New(hashKey, blockKey)
}

// NewSessionService creates and returns a new instance of SessionService.
// hashKey must be 32 bytes, blockKey 16 bytes.
func NewSessionService(hashKey, blockKey []byte) SessionService {
	return &session{
		cookie: newSecurecookie(hashKey, blockKey),
	}
}

// GetLastOrg returns the last viewed org identifier from the HTTP request.
func (s *session) GetLastOrg(req *http.Request) (string, error) {
	cookie, err := req.Cookie(lastOrgCookieName)
	if err != nil {
		return "", err
	}

	var org string
	if err := s.cookie.Decode(lastOrgCookieName, cookie.Value, &org); err != nil {
		return "", err
	}

	return org, nil
}

// SetLastOrg sets the HTTP cookie with the last viewed org identifier.
func (s *session) SetLastOrg(res http.ResponseWriter, org string) error {
	encoded, err := s.cookie.Encode(lastOrgCookieName, org)
	if err != nil {
		return err
	}

	http.SetCookie(res, &http.Cookie{
		Name:     lastOrgCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})

	return nil
}
