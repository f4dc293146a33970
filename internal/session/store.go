package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// Name of the cookie the session rides in.
	Name = "warble_session"
	// CurrUserKey is the single key persisted across requests: the
	// authenticated user's id.
	CurrUserKey = "curr_user"
)

// Store binds a client to an authenticated user identity across requests and
// carries one-time flash messages.
type Store struct {
	cookies *sessions.CookieStore
}

func NewStore(secret string, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// CurrentUserID returns the user id bound to the request's session, if any.
func (s *Store) CurrentUserID(r *http.Request) (uint, bool) {
	sess, err := s.cookies.Get(r, Name)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Values[CurrUserKey].(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Login binds the user id to the session.
func (s *Store) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	sess, _ := s.cookies.Get(r, Name)
	sess.Values[CurrUserKey] = userID
	return sess.Save(r, w)
}

// Logout clears the identity binding but keeps the session alive so a flash
// written alongside still reaches the next page.
func (s *Store) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.cookies.Get(r, Name)
	delete(sess.Values, CurrUserKey)
	return sess.Save(r, w)
}

// Flash records a one-time status message shown on the next rendered view.
func (s *Store) Flash(w http.ResponseWriter, r *http.Request, msg string) {
	sess, _ := s.cookies.Get(r, Name)
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Flashes drains and returns the pending flash messages.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := s.cookies.Get(r, Name)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
