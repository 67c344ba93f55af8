package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/propertyhub/pkg/auth"
	"github.com/angelmondragon/propertyhub/pkg/config"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Store is the key/value surface the manager persists sessions into.
type Store interface {
	sessionStore
	sessionKeyer
}

// Manager loads, persists, and rotates server-side sessions referenced by a
// signed cookie.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	cfg   config.SessionConfig
	ttl   time.Duration
	now   func() time.Time
}

// NewManager constructs a session manager backed by the key/value store.
func NewManager(store Store, cfg config.SessionConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		return nil, fmt.Errorf("session cookie name is required")
	}

	return &Manager{
		store: store,
		keyer: store,
		cfg:   cfg,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// CookieName is the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// Start returns a fresh anonymous session.
func (m *Manager) Start() *State {
	return &State{ID: NewSessionID(), isNew: true}
}

// Load resolves the session referenced by the cookie value. Invalid, expired,
// or unknown cookies yield a fresh anonymous session rather than an error.
func (m *Manager) Load(ctx context.Context, cookieValue string) (*State, error) {
	if strings.TrimSpace(cookieValue) == "" {
		return m.Start(), nil
	}
	claims, err := auth.ParseSessionToken(m.cfg, cookieValue)
	if err != nil {
		return m.Start(), nil
	}

	raw, err := m.store.Get(ctx, m.keyer.SessionKey(claims.SessionID()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return m.Start(), nil
		}
		return nil, err
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return m.Start(), nil
	}
	return &State{ID: claims.SessionID(), Data: data}, nil
}

// Save persists dirty state and returns a freshly signed cookie value. An empty
// string means nothing needs to be written to the client.
func (m *Manager) Save(ctx context.Context, st *State) (string, error) {
	if st == nil || !st.dirty {
		return "", nil
	}
	if st.isNew && st.empty() {
		st.dirty = false
		return "", nil
	}

	payload, err := json.Marshal(st.Data)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(st.ID), string(payload), m.ttl); err != nil {
		return "", err
	}

	token, err := auth.MintSessionToken(m.cfg, m.now(), st.ID)
	if err != nil {
		return "", err
	}
	st.dirty = false
	st.isNew = false
	return token, nil
}

// Rotate moves the session to a new identifier and discards the old record.
// Called on login and logout so neither identifier outlives the principal
// change.
func (m *Manager) Rotate(ctx context.Context, st *State) error {
	if st == nil {
		return fmt.Errorf("session state is required")
	}
	if !st.isNew {
		if err := m.store.Del(ctx, m.keyer.SessionKey(st.ID)); err != nil {
			return err
		}
	}
	st.ID = NewSessionID()
	st.isNew = true
	st.dirty = true
	return nil
}

// Cookie builds the cookie carrying the signed session reference.
func (m *Manager) Cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewSessionID produces the identifier used as the cookie jti and store key.
func NewSessionID() string {
	return uuid.NewString()
}
