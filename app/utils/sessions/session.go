package sessions

import (
	"encoding/gob"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "wholesale-session"

	userEmailSessionKey = "userEmail"
	ledgerSessionKey    = "ledger"
	viewStateSessionKey = "viewState"
	feedKeySessionKey   = "feedKey"
)

func init() {
	gob.Register(map[string]int{})
}

type SessionStore interface {
	GetUserEmail(r *http.Request) string
	SetUserEmail(w http.ResponseWriter, r *http.Request, email string) error
	ClearUserEmail(w http.ResponseWriter, r *http.Request) error

	GetLedger(r *http.Request) map[string]int
	SetLedger(w http.ResponseWriter, r *http.Request, ledger map[string]int) error

	GetViewState(r *http.Request) string
	SetViewState(w http.ResponseWriter, r *http.Request, state string) error

	// GetFeedKey returns this session's feed-state key, minting one on
	// first use.
	GetFeedKey(w http.ResponseWriter, r *http.Request) (string, error)

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		// A stale or tampered cookie decodes to a fresh session.
		log.Printf("session: error decoding cookie: %v", err)
	}
	return session
}

func (c *CookieSessionStore) GetUserEmail(r *http.Request) string {
	session := c.getSession(r)
	if email, ok := session.Values[userEmailSessionKey].(string); ok {
		return email
	}
	return ""
}

func (c *CookieSessionStore) SetUserEmail(w http.ResponseWriter, r *http.Request, email string) error {
	session := c.getSession(r)
	session.Values[userEmailSessionKey] = email
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearUserEmail(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, userEmailSessionKey)
	return session.Save(r, w)
}

// GetLedger returns the selection ledger stored in the session. The zero
// value is an empty, usable map.
func (c *CookieSessionStore) GetLedger(r *http.Request) map[string]int {
	session := c.getSession(r)
	if ledger, ok := session.Values[ledgerSessionKey].(map[string]int); ok {
		return ledger
	}
	return map[string]int{}
}

func (c *CookieSessionStore) SetLedger(w http.ResponseWriter, r *http.Request, ledger map[string]int) error {
	session := c.getSession(r)
	session.Values[ledgerSessionKey] = ledger
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetViewState(r *http.Request) string {
	session := c.getSession(r)
	if state, ok := session.Values[viewStateSessionKey].(string); ok {
		return state
	}
	return ""
}

func (c *CookieSessionStore) SetViewState(w http.ResponseWriter, r *http.Request, state string) error {
	session := c.getSession(r)
	session.Values[viewStateSessionKey] = state
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetFeedKey(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if key, ok := session.Values[feedKeySessionKey].(string); ok && key != "" {
		return key, nil
	}

	newKey := uuid.New().String()
	session.Values[feedKeySessionKey] = newKey
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return newKey, nil
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Options.MaxAge = -1
	session.Values = make(map[interface{}]interface{})
	return session.Save(r, w)
}
