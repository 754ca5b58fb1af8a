// Package session stores per-browser state: the id of the logged in user and
// one-shot flash messages.
package session

import (
	"net/http"
)

// CurrUserKey is the session key holding the id (uint) of the logged in user
const CurrUserKey = "curr_user"

// Flash is a one-shot message shown on the next rendered page. Category is
// one of "success", "danger", "info" or "warning".
type Flash struct {
	Message  string
	Category string
}

// Session is the state of one browser
type Session interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)
	// Clear drops every value but keeps pending flashes
	Clear()
	AddFlash(message, category string)
	// Flashes returns the pending flashes and removes them from the session
	Flashes() []Flash
	Save(r *http.Request, w http.ResponseWriter) error
}

// Store opens the session belonging to a request
type Store interface {
	Open(r *http.Request) (Session, error)
}

// UserID returns the logged in user id held by s
func UserID(s Session) (uint, bool) {
	v, ok := s.Get(CurrUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// Login marks s as belonging to userID
func Login(s Session, userID uint) {
	s.Set(CurrUserKey, userID)
}

// Logout returns s to the anonymous state. Pending flashes belong to the
// previous user and are dropped too.
func Logout(s Session) {
	s.Flashes()
	s.Clear()
}
