package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// CookieName is the name of the cookie written by CookieStore
const CookieName = "warbler_session"

func init() {
	gob.Register(Flash{})
}

// CookieStore keeps the whole session in a signed cookie
type CookieStore struct {
	store *sessions.CookieStore
}

// NewCookieStore returns a store signing cookies with secret. Secure marks
// the cookie as HTTPS only.
func NewCookieStore(secret string, secure bool) *CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store}
}

// Open returns the session of r. A cookie that fails verification yields a
// fresh, empty session rather than an error.
func (s *CookieStore) Open(r *http.Request) (Session, error) {
	sess, err := s.store.Get(r, CookieName)
	if err != nil && sess == nil {
		return nil, err
	}
	return &cookieSession{sess: sess}, nil
}

type cookieSession struct {
	sess *sessions.Session
}

func (c *cookieSession) Get(key string) (interface{}, bool) {
	v, ok := c.sess.Values[key]
	return v, ok
}

func (c *cookieSession) Set(key string, value interface{}) {
	c.sess.Values[key] = value
}

func (c *cookieSession) Delete(key string) {
	delete(c.sess.Values, key)
}

func (c *cookieSession) Clear() {
	for k := range c.sess.Values {
		if k == flashesKey {
			continue
		}
		delete(c.sess.Values, k)
	}
}

// gorilla's own flash key
const flashesKey = "_flash"

func (c *cookieSession) AddFlash(message, category string) {
	c.sess.AddFlash(Flash{Message: message, Category: category})
}

func (c *cookieSession) Flashes() []Flash {
	var out []Flash
	for _, f := range c.sess.Flashes() {
		if flash, ok := f.(Flash); ok {
			out = append(out, flash)
		}
	}
	return out
}

func (c *cookieSession) Save(r *http.Request, w http.ResponseWriter) error {
	return c.sess.Save(r, w)
}
