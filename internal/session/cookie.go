package session

import (
	"net/http"
	"time"

	"paygate-console/internal/model"
)

type Manager struct {
	codec  *Codec
	name   string
	secure bool
}

func NewManager(codec *Codec, cookieName string, secure bool) *Manager {
	if cookieName == "" {
		cookieName = "session"
	}
	return &Manager{codec: codec, name: cookieName, secure: secure}
}

// Create encodes s and writes it as the session cookie. The cookie expiry
// matches the embedded ExpiresAt.
func (m *Manager) Create(w http.ResponseWriter, s model.Session) (model.Session, error) {
	token, stored, err := m.codec.Issue(s)
	if err != nil {
		return model.Session{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    token,
		Path:     "/",
		Expires:  time.UnixMilli(stored.ExpiresAt).UTC(),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return stored, nil
}

func (m *Manager) Read(r *http.Request) (*model.Session, bool) {
	cookie, err := r.Cookie(m.name)
	if err != nil {
		return nil, false
	}
	return m.codec.Decode(cookie.Value)
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) CookieName() string {
	return m.name
}
