package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/horizonten/gemenskap/pkg/profiles"
	"gitlab.com/horizonten/gemenskap/pkg/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid e-mail or password")
	ErrAccountExists      = errors.New("an account with that e-mail already exists")
	ErrNoSession          = errors.New("no active session")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Session is an authenticated session handle.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Event announces a change in session presence.
type Event struct {
	Status  Status
	Session *Session
}

// Provider is the authentication collaborator consumed by the portal.
type Provider interface {
	// Session returns the current session, or nil when there is none.
	Session(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignOut(ctx context.Context) error
	// Subscribe delivers session changes until cancel is called.
	Subscribe() (events <-chan Event, cancel func())
}

// ProfileLoader resolves the member profile for a session.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, s Session) (UserProfile, error)
}

// LocalConfig configures a LocalProvider.
type LocalConfig struct {
	Profiles profiles.Store
	Sessions session.Store
	// TokenPath persists the session token between runs. Empty disables it.
	TokenPath  string
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// LocalProvider authenticates against the profile store and keeps sessions
// in a session.Store. It implements both Provider and ProfileLoader.
type LocalProvider struct {
	profiles  profiles.Store
	sessions  session.Store
	tokenPath string
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	current *Session
	subs    map[int]chan Event
	nextSub int
}

// NewLocalProvider creates a provider. SessionTTL defaults to 30 days.
func NewLocalProvider(cfg LocalConfig) *LocalProvider {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LocalProvider{
		profiles:  cfg.Profiles,
		sessions:  cfg.Sessions,
		tokenPath: cfg.TokenPath,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		subs:      make(map[int]chan Event),
	}
}

func (p *LocalProvider) Session(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	if p.current != nil {
		s := *p.current
		p.mu.Unlock()
		return &s, nil
	}
	p.mu.Unlock()

	token, err := p.readToken()
	if err != nil || token == "" {
		return nil, err
	}
	rec, err := p.sessions.Lookup(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		p.logger.Info("stored session expired")
		p.removeToken()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	s := &Session{Token: token, UserID: rec.UserID, Email: rec.Email, ExpiresAt: rec.ExpiresAt}
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	out := *s
	return &out, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	row, err := p.profiles.ByEmail(ctx, email)
	if errors.Is(err, profiles.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if !profiles.CheckPassword(row.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return p.start(ctx, row)
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("sign up: invalid e-mail %q", email)
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	hash, err := profiles.HashPassword(password)
	if err != nil {
		return nil, err
	}
	row, err := p.profiles.Create(ctx, profiles.Profile{
		Email:        email,
		DisplayName:  strings.TrimSpace(name),
		Role:         string(RoleMember),
		PasswordHash: hash,
	})
	if errors.Is(err, profiles.ErrExists) {
		return nil, ErrAccountExists
	}
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	return p.start(ctx, row)
}

func (p *LocalProvider) start(ctx context.Context, row profiles.Profile) (*Session, error) {
	now := p.now()
	s := &Session{
		Token:     uuid.NewString(),
		UserID:    row.ID,
		Email:     row.Email,
		ExpiresAt: now.Add(p.ttl),
	}
	rec := session.Record{UserID: s.UserID, Email: s.Email, CreatedAt: now, ExpiresAt: s.ExpiresAt}
	if err := p.sessions.Save(ctx, s.Token, rec); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	if err := p.writeToken(s.Token); err != nil {
		p.logger.Warn("failed to persist session token", "error", err)
	}

	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	p.logger.Info("signed in", "user", s.UserID)

	out := *s
	p.publish(Event{Status: StatusAuthenticated, Session: &out})
	return &out, nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	cur := p.current
	p.current = nil
	p.mu.Unlock()

	token := ""
	if cur != nil {
		token = cur.Token
	} else if t, err := p.readToken(); err == nil {
		token = t
	}
	if token == "" {
		return ErrNoSession
	}

	p.removeToken()
	if err := p.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	p.logger.Info("signed out")
	p.publish(Event{Status: StatusUnauthenticated})
	return nil
}

func (p *LocalProvider) LoadProfile(ctx context.Context, s Session) (UserProfile, error) {
	row, err := p.profiles.ByID(ctx, s.UserID)
	if err != nil {
		return UserProfile{}, fmt.Errorf("load profile %s: %w", s.UserID, err)
	}
	return ProfileFromRow(row), nil
}

func (p *LocalProvider) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
			close(ch)
		})
	}
}

func (p *LocalProvider) publish(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.subs {
		select {
		case ch <- ev:
		default:
			p.logger.Warn("dropping auth event for slow subscriber", "subscriber", id, "status", ev.Status)
		}
	}
}

// Watch re-validates the current session every interval and announces
// StatusUnauthenticated when it was revoked or expired elsewhere. It
// returns when ctx is done, or at once when interval is not positive.
func (p *LocalProvider) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		p.logger.Debug("session watch disabled", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.revalidate(ctx)
		}
	}
}

func (p *LocalProvider) revalidate(ctx context.Context) {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	if cur == nil {
		return
	}

	_, err := p.sessions.Lookup(ctx, cur.Token)
	if !errors.Is(err, session.ErrNotFound) {
		if err != nil {
			p.logger.Warn("session check failed", "error", err)
		}
		return
	}

	p.mu.Lock()
	if p.current != nil && p.current.Token == cur.Token {
		p.current = nil
	}
	p.mu.Unlock()
	p.removeToken()
	p.logger.Info("session ended remotely", "user", cur.UserID)
	p.publish(Event{Status: StatusUnauthenticated})
}

func (p *LocalProvider) readToken() (string, error) {
	if p.tokenPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(p.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (p *LocalProvider) writeToken(token string) error {
	if p.tokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p.tokenPath, []byte(token+"\n"), 0o600)
}

func (p *LocalProvider) removeToken() {
	if p.tokenPath == "" {
		return
	}
	if err := os.Remove(p.tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("failed to remove session token", "error", err)
	}
}
