// Package cartstore keeps the storefront cart in a signed cookie.
package cartstore

import (
	"encoding/gob"
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/domain/cart"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "cart"
	itemsKey    = "items"
	maxAge      = 30 * 24 * 60 * 60
)

func init() {
	gob.Register(cart.Cart{})
}

type Store struct {
	sessions *sessions.CookieStore
}

// New builds a cookie store signed with secret. An empty secret gets a
// random key, which invalidates carts on every restart.
func New(secret []byte, secure bool) *Store {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}

	cs := sessions.NewCookieStore(secret)
	cs.Options.Path = "/"
	cs.Options.MaxAge = maxAge
	cs.Options.HttpOnly = true
	cs.Options.Secure = secure
	cs.Options.SameSite = http.SameSiteLaxMode

	return &Store{sessions: cs}
}

// Load reads the cart sent with r. A missing or tampered cookie yields an
// empty cart together with the decode error, if any.
func (s *Store) Load(r *http.Request) (cart.Cart, error) {
	sess, err := s.sessions.Get(r, SessionName)
	if err != nil {
		return cart.Cart{}, err
	}
	items, ok := sess.Values[itemsKey].(cart.Cart)
	if !ok {
		return cart.Cart{}, nil
	}
	return items, nil
}

// Save writes c back to the client.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, c cart.Cart) error {
	// a fresh session is handed back even when the old cookie is unreadable
	sess, _ := s.sessions.Get(r, SessionName)
	sess.Values[itemsKey] = c
	return sess.Save(r, w)
}
