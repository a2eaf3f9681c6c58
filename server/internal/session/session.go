package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the name of the session cookie
	SessionName = "devverse_session"

	// TokenKey is the session key for storing the JWT token
	TokenKey = "token"

	// StateKey is the session key for the OAuth anti-forgery state
	StateKey = "oauth_state"
)

// Manager wraps gorilla/sessions for our use case
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a new session manager
// secretKey should be 32 bytes for AES-256
func NewManager(secretKey []byte) *Manager {
	store := sessions.NewCookieStore(secretKey)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60, // 7 days
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store: store,
	}
}

// SetToken stores the JWT token in the session
func (m *Manager) SetToken(r *http.Request, w http.ResponseWriter, token string) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		session, _ = m.store.New(r, SessionName)
	}

	session.Values[TokenKey] = token
	return session.Save(r, w)
}

// GetToken retrieves the JWT token from the session
func (m *Manager) GetToken(r *http.Request) (string, error) {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return "", err
	}

	token, ok := session.Values[TokenKey].(string)
	if !ok {
		return "", http.ErrNoCookie
	}

	return token, nil
}

// SetState stores the OAuth anti-forgery state in the session
func (m *Manager) SetState(r *http.Request, w http.ResponseWriter, state string) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		session, _ = m.store.New(r, SessionName)
	}

	session.Values[StateKey] = state
	return session.Save(r, w)
}

// ConsumeState retrieves the OAuth state and clears it so a state value
// can only be redeemed once
func (m *Manager) ConsumeState(r *http.Request, w http.ResponseWriter) (string, error) {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return "", err
	}

	state, ok := session.Values[StateKey].(string)
	if !ok {
		return "", http.ErrNoCookie
	}

	delete(session.Values, StateKey)
	if err := session.Save(r, w); err != nil {
		return "", err
	}

	return state, nil
}

// ClearToken removes the session (logout)
func (m *Manager) ClearToken(r *http.Request, w http.ResponseWriter) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return nil // Session doesn't exist, nothing to clear
	}

	// Set MaxAge to -1 to delete the session
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
