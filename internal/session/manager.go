package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"nucleav/internal/config"
	"nucleav/internal/model"
	"nucleav/internal/upstream"
)

// Status is the three-valued resolution state consumers key off.
// Anything other than StatusAuthenticated means "do not fetch": no
// authenticated upstream request may ever be fired without a resolved token.
type Status string

const (
	// StatusPending means resolution has not completed yet. The browser
	// shell starts here until its first GET /v1/session answer arrives.
	StatusPending         Status = "pending"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// ErrSecretRequired is returned when the manager is built without a signing secret.
var ErrSecretRequired = errors.New("session: auth secret is required")

// Resolution is the outcome of resolving a session cookie.
type Resolution struct {
	Status  Status
	Session *model.Session
}

// Resolver resolves a raw cookie token into a session. Split from Manager so
// middleware can be tested against a small surface.
type Resolver interface {
	Resolve(ctx context.Context, cookieToken string) Resolution
}

// Manager owns the full session lifecycle: credential exchange against the
// upstream API, persistence in the Store, cookie token issuance and logout.
type Manager struct {
	api    upstream.Client
	store  Store
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager wires the session manager. The TTL is the fixed session
// lifetime (defaults to one hour when unset).
func NewManager(api upstream.Client, store Store, cfg config.AuthConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, ErrSecretRequired
	}
	ttl := time.Duration(cfg.SessionTTLSec) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		api:    api,
		store:  store,
		secret: cfg.Secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the fixed session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Exchange performs the two-step login: credentials for a token, then the
// identity lookup to populate display claims. A failed identity lookup is
// tolerated: the session is kept with the token only and nil claims.
// Returns the stored session and the signed cookie token referencing it.
func (m *Manager) Exchange(ctx context.Context, email, password string) (*model.Session, string, error) {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	now := m.now().UTC()
	sess := &model.Session{
		ID:        uuid.NewString(),
		Token:     res.AccessToken,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if res.User.ID != "" {
		sess.User = &res.User
	} else if user, meErr := m.api.Me(ctx, res.AccessToken); meErr == nil {
		sess.User = user
	} else {
		// Token-only session: claims stay nil, the token still works.
		log.Printf("session: identity lookup failed, keeping token-only session: %v", meErr)
	}

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	cookieToken, err := NewCookieToken(m.secret, sess.ID, m.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("sign cookie: %w", err)
	}
	return sess, cookieToken, nil
}

// Resolve turns a raw cookie token into a session. Missing, unverifiable or
// expired tokens all resolve to StatusUnauthenticated; nothing here errors
// to the caller, unauthenticated is a normal state.
func (m *Manager) Resolve(ctx context.Context, cookieToken string) Resolution {
	if cookieToken == "" {
		return Resolution{Status: StatusUnauthenticated}
	}
	sid, err := ParseCookieToken(m.secret, cookieToken)
	if err != nil {
		return Resolution{Status: StatusUnauthenticated}
	}
	sess, err := m.store.Get(ctx, sid)
	if err != nil {
		return Resolution{Status: StatusUnauthenticated}
	}
	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, sid)
		return Resolution{Status: StatusUnauthenticated}
	}
	return Resolution{Status: StatusAuthenticated, Session: sess}
}

// RefreshClaims replaces the stored claims after a profile edit so the next
// resolution serves the updated identity.
func (m *Manager) RefreshClaims(ctx context.Context, sess *model.Session, user *model.User) error {
	sess.User = user
	if err := m.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Logout invalidates the session referenced by the cookie token, if any.
func (m *Manager) Logout(ctx context.Context, cookieToken string) error {
	if cookieToken == "" {
		return nil
	}
	sid, err := ParseCookieToken(m.secret, cookieToken)
	if err != nil {
		return nil // nothing to invalidate
	}
	return m.store.Delete(ctx, sid)
}
