package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"gitlab.com/horizonten/gemenskap/pkg/profiles"
	"gitlab.com/horizonten/gemenskap/pkg/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEnv struct {
	provider *LocalProvider
	sessions *session.MemoryStore
	store    *profiles.SQLStore
	dir      string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	store, err := profiles.OpenSQLite(ctx, filepath.Join(dir, "profiles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	_, err = profiles.Import(ctx, store, []profiles.Seed{
		{Email: "admin@horizonten.se", Name: "Admin", Role: "admin", Password: "admin-lösen"},
		{Email: "medlem@horizonten.se", Name: "Medlem", Password: "medlem-lösen"},
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	sessions := session.NewMemoryStore()
	p := NewLocalProvider(LocalConfig{
		Profiles:  store,
		Sessions:  sessions,
		TokenPath: filepath.Join(dir, "state", "session"),
	})
	return testEnv{provider: p, sessions: sessions, store: store, dir: dir}
}

func TestSignInAndLoadProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.provider.SignIn(ctx, "admin@horizonten.se", "admin-lösen")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if s.Token == "" || s.UserID == "" {
		t.Fatalf("incomplete session %+v", s)
	}

	prof, err := env.provider.LoadProfile(ctx, *s)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if prof.Role != RoleAdmin || !prof.Privileged() {
		t.Errorf("expected privileged admin, got %+v", prof)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.provider.SignIn(ctx, "admin@horizonten.se", "fel"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.provider.SignIn(ctx, "okand@horizonten.se", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestSessionRestoredFromTokenFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.provider.SignIn(ctx, "medlem@horizonten.se", "medlem-lösen")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	// A fresh provider sharing the same stores picks the session up.
	restarted := NewLocalProvider(LocalConfig{
		Profiles:  env.store,
		Sessions:  env.sessions,
		TokenPath: filepath.Join(env.dir, "state", "session"),
	})
	got, err := restarted.Session(ctx)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if got == nil || got.Token != s.Token {
		t.Fatalf("expected restored session %q, got %+v", s.Token, got)
	}
}

func TestSessionAbsent(t *testing.T) {
	env := newTestEnv(t)
	got, err := env.provider.Session(context.Background())
	if err != nil || got != nil {
		t.Errorf("expected no session, got %+v (%v)", got, err)
	}
}

func TestStaleTokenIsDiscarded(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "state", "session")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stale\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := env.provider.Session(context.Background())
	if err != nil || got != nil {
		t.Errorf("expected no session, got %+v (%v)", got, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected stale token file to be removed, stat err %v", err)
	}
}

func TestSignOutPublishesAndRevokes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	events, cancel := env.provider.Subscribe()
	defer cancel()

	s, err := env.provider.SignIn(ctx, "medlem@horizonten.se", "medlem-lösen")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if ev := <-events; ev.Status != StatusAuthenticated {
		t.Errorf("expected authenticated event, got %s", ev.Status)
	}

	if err := env.provider.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if ev := <-events; ev.Status != StatusUnauthenticated {
		t.Errorf("expected unauthenticated event, got %s", ev.Status)
	}
	if _, err := env.sessions.Lookup(ctx, s.Token); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected revoked session, got %v", err)
	}
	if err := env.provider.SignOut(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession on second sign out, got %v", err)
	}
}

func TestSignUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.provider.SignUp(ctx, "ny@horizonten.se", "tillräckligt", "Ny Medlem")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	prof, err := env.provider.LoadProfile(ctx, *s)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if prof.Role != RoleMember || prof.DisplayName != "Ny Medlem" {
		t.Errorf("unexpected profile %+v", prof)
	}

	if _, err := env.provider.SignUp(ctx, "ny@horizonten.se", "tillräckligt", "Igen"); !errors.Is(err, ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
	if _, err := env.provider.SignUp(ctx, "kort@horizonten.se", "kort", ""); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	env := newTestEnv(t)
	events, cancel := env.provider.Subscribe()
	cancel()
	cancel()

	if _, ok := <-events; ok {
		t.Error("expected closed channel after cancel")
	}
}

func TestWatchAnnouncesRemoteRevocation(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	s, err := env.provider.SignIn(ctx, "medlem@horizonten.se", "medlem-lösen")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	events, unsubscribe := env.provider.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		env.provider.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	_ = env.sessions.Revoke(context.Background(), s.Token)

	select {
	case ev := <-events:
		if ev.Status != StatusUnauthenticated {
			t.Errorf("expected unauthenticated, got %s", ev.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for revocation event")
	}

	cancel()
	<-done
}

func TestWatchDisabledWithoutInterval(t *testing.T) {
	env := newTestEnv(t)
	for _, interval := range []time.Duration{0, -time.Second} {
		done := make(chan struct{})
		go func() {
			env.provider.Watch(context.Background(), interval)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Watch(%v) did not return", interval)
		}
	}
}

func TestSessionSurvivesRestartWithSQLStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokenPath := filepath.Join(env.dir, "state", "session")

	newProvider := func() *LocalProvider {
		sessions, err := session.NewSQLStore(ctx, env.store.DB(), string(env.store.Dialect()))
		if err != nil {
			t.Fatalf("NewSQLStore failed: %v", err)
		}
		return NewLocalProvider(LocalConfig{Profiles: env.store, Sessions: sessions, TokenPath: tokenPath})
	}

	first := newProvider()
	s, err := first.SignIn(ctx, "medlem@horizonten.se", "medlem-lösen")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	restored, err := newProvider().Session(ctx)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if restored == nil || restored.Token != s.Token || restored.UserID != s.UserID {
		t.Errorf("expected session %s to be restored, got %+v", s.Token, restored)
	}
}
