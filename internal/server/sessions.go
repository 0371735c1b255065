package server

import (
	"net/http"
	"strings"

	"planning-poker/internal/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionStore hands out opaque session identifiers for browsers that
// arrive without one and remembers the last display name used per
// session so a rejoin form can be prefilled. The identifier is a bare
// correlation key: the server never verifies it beyond equality checks
// against a game's admin session.
type sessionStore struct {
	db *gorm.DB
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{db: conn}
}

const sessionCookie = "pp_session"

// resolve returns the caller's session id. An explicit id (request body
// or query) always wins; otherwise the session cookie is used, minted on
// first contact.
func (s *sessionStore) resolve(w http.ResponseWriter, r *http.Request, explicit string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	cookie, err := r.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *sessionStore) RememberName(sessionID, displayName string) {
	if s.db == nil || displayName == "" {
		return
	}
	record := db.Session{
		ID:          sessionID,
		DisplayName: displayName,
	}
	_ = s.db.Save(&record).Error
}

func (s *sessionStore) LastName(sessionID string) string {
	if s.db == nil {
		return ""
	}
	var record db.Session
	if err := s.db.Where("id = ?", sessionID).First(&record).Error; err != nil {
		return ""
	}
	return record.DisplayName
}
