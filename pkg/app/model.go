package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/browser"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
	"gitlab.com/horizonten/gemenskap/pkg/screen"
	"gitlab.com/horizonten/gemenskap/pkg/theme"
	"gitlab.com/horizonten/gemenskap/pkg/tui"
)

// Options wires an AppModel to its collaborators.
type Options struct {
	// StartHash is the address the portal opens at.
	StartHash string
	// HistoryDepth is passed to nav.Options.
	HistoryDepth  int
	EchoPushState bool
	Theme         theme.Theme
	Provider      auth.Provider
	Profiles      auth.ProfileLoader
	// Zones enables mouse support. Nil disables it.
	Zones       *zone.Manager
	Logger      *slog.Logger
	Context     context.Context
	CallTimeout time.Duration
	// StatusTTL is how long status bar messages stay. Negative keeps them
	// until the next message.
	StatusTTL time.Duration
}

// DefaultOptions returns options with the default theme and timeouts. The
// provider and profile loader still have to be set.
func DefaultOptions() Options {
	return Options{
		EchoPushState: true,
		Theme:         theme.Get(theme.DefaultName),
		CallTimeout:   10 * time.Second,
		StatusTTL:     5 * time.Second,
	}
}

// AppModel is the root Bubble Tea model of the portal.
type AppModel struct {
	browser  *browser.Browser
	sync     *nav.Synchronizer
	machine  *auth.Machine
	unmount  func()
	events   <-chan auth.Event
	unsub    func()
	provider auth.Provider
	profiles auth.ProfileLoader

	renderer  tui.Renderer
	theme     theme.Theme
	keys      keyMap
	help      help.Model
	logger    *slog.Logger
	ctx       context.Context
	timeout   time.Duration
	statusTTL time.Duration

	screen     screen.Screen
	session    *auth.Session
	profile    *auth.UserProfile
	splashSeen bool
	loggingOut bool
	form       *loginForm
	focused    string

	address    textinput.Model
	addressing bool

	status    tui.Status
	statusSeq int

	width    int
	height   int
	showHelp bool
	quitting bool
}

// New builds the model: it creates the browser at opts.StartHash, mounts a
// synchronizer on it and subscribes to provider auth events.
func New(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	statusTTL := opts.StatusTTL
	if statusTTL == 0 {
		statusTTL = 5 * time.Second
	}
	th := opts.Theme
	if th.Name == "" {
		th = theme.Get(theme.DefaultName)
	}

	b := browser.New(opts.StartHash, browser.Options{EchoPushState: opts.EchoPushState})
	s := nav.NewSynchronizer(b, nav.Options{HistoryDepth: opts.HistoryDepth, Logger: logger})
	machine := &auth.Machine{}
	unmount := s.Mount(b, machine.Authenticated)

	var events <-chan auth.Event
	unsub := func() {}
	if opts.Provider != nil {
		events, unsub = opts.Provider.Subscribe()
	}

	addr := textinput.New()
	addr.Prompt = "adress: "
	addr.CharLimit = 512

	h := help.New()
	h.ShowAll = true

	m := AppModel{
		browser:  b,
		sync:     s,
		machine:  machine,
		unmount:  unmount,
		events:   events,
		unsub:    unsub,
		provider: opts.Provider,
		profiles: opts.Profiles,
		renderer: tui.NewRenderer(opts.Zones),
		theme:    th,
		keys:     defaultKeyMap(),
		help:     h,
		logger:   logger,
		ctx:      ctx,
		timeout:  timeout,
		address:  addr,

		statusTTL: statusTTL,
	}
	m.refresh()
	logger.Info("portal started", "location", b.Location(), "route", s.Route().Hash())
	return m
}

// Init resolves the stored session and starts listening for auth changes.
func (m AppModel) Init() tea.Cmd {
	if m.provider == nil {
		return nil
	}
	return tea.Batch(m.resolveSessionCmd(), waitForAuthEvent(m.events))
}

// Update handles one message. Browser events queued while handling it are
// dispatched before the screen is re-selected.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if l, ok := m.renderer.Clicked(msg, m.sidebar(), m.bodyLinks()); ok {
				m.focused = l.Hash
				m.follow(l.Hash)
			}
		}

	case SessionResolvedEvent:
		cmds = append(cmds, m.handleSessionResolved(msg))

	case SignInEvent:
		cmds = append(cmds, m.handleSignIn(msg))

	case SignOutEvent:
		cmds = append(cmds, m.handleSignOut(msg))

	case ProfileEvent:
		cmds = append(cmds, m.handleProfile(msg))

	case AuthChangeEvent:
		if !msg.Open {
			m.logger.Debug("auth subscription closed")
			break
		}
		cmds = append(cmds, m.handleAuthChange(msg.Event), waitForAuthEvent(m.events))

	case StatusExpiredEvent:
		if msg.Seq == m.statusSeq {
			m.status = tui.Status{}
		}
	}

	if m.quitting {
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, m.settle())
	return m, tea.Batch(cmds...)
}

// settle delivers queued browser events and re-selects the screen.
func (m *AppModel) settle() tea.Cmd {
	if n := m.browser.Dispatch(); n > 0 {
		m.logger.Debug("browser events dispatched", "count", n, "route", m.sync.Route().Hash())
	}
	return m.refresh()
}

// refresh re-runs the screen selector and keeps the form in step with it.
func (m *AppModel) refresh() tea.Cmd {
	intent := m.sync.State().Intent
	if f, ok := intent.(nav.LoginForm); !ok || f.Flavor != nav.FlavorPremium {
		m.splashSeen = false
	}
	m.screen = screen.Select(screen.Input{
		Status:     m.machine.Status(),
		Profile:    m.profile,
		Intent:     intent,
		SplashSeen: m.splashSeen,
	})

	if m.screen.Kind != screen.KindLogin {
		m.form = nil
		return nil
	}
	if m.form == nil || m.form.mode != m.screen.Form.Mode {
		m.form = newLoginForm(m.screen.Form.Mode)
		return textinput.Blink
	}
	return nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	if m.addressing {
		return m.handleAddressKey(msg)
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel):
			m.showHelp = false
		}
		return nil
	}

	switch m.screen.Kind {
	case screen.KindLogin:
		return m.handleFormKey(msg)
	case screen.KindSplash:
		switch {
		case key.Matches(msg, m.keys.Open):
			m.splashSeen = true
			return nil
		case key.Matches(msg, m.keys.Cancel):
			m.follow(nav.Home.Hash())
			return nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Address):
		return m.openAddress()
	case key.Matches(msg, m.keys.BrowserBack):
		m.browser.Back()
	case key.Matches(msg, m.keys.BrowserForward):
		m.browser.Forward()
	case key.Matches(msg, m.keys.Back):
		m.sync.Back(m.machine.Authenticated())
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.Next):
		m.CycleFocusForward()
	case key.Matches(msg, m.keys.Prev):
		m.CycleFocusBackward()
	case key.Matches(msg, m.keys.Open):
		m.followFocused()
	}
	return nil
}

// handleFormKey routes keys while a login form is shown. Printable keys go
// to the focused field, so only non-rune bindings act globally here.
func (m *AppModel) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	f := m.form
	if f == nil {
		return nil
	}
	if msg.Type != tea.KeyRunes {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return nil
		case key.Matches(msg, m.keys.Address):
			return m.openAddress()
		case key.Matches(msg, m.keys.BrowserBack):
			m.browser.Back()
			return nil
		case key.Matches(msg, m.keys.BrowserForward):
			m.browser.Forward()
			return nil
		}
	}

	switch msg.String() {
	case "esc":
		m.follow(nav.Home.Hash())
		return nil
	case "ctrl+n":
		target := nav.ViewSignup
		if f.mode == nav.ModeSignUp {
			target = nav.ViewLogin
		}
		m.sync.Navigate(target, "", false)
		return nil
	case "tab", "down":
		return f.cycle(1)
	case "shift+tab", "up":
		return f.cycle(-1)
	case "enter":
		if f.busy {
			return nil
		}
		if !f.last() {
			return f.cycle(1)
		}
		return m.submit()
	}
	return f.update(msg)
}

func (m *AppModel) submit() tea.Cmd {
	f := m.form
	if problem := f.validate(); problem != "" {
		f.err = problem
		return nil
	}
	if m.provider == nil {
		f.err = formError(errors.New("no provider"))
		return nil
	}
	f.busy = true
	f.err = ""
	email, password, name := f.values()
	if f.mode == nav.ModeSignUp {
		m.logger.Info("sign-up submitted", "email", email)
		return m.signUpCmd(email, password, name)
	}
	m.logger.Info("sign-in submitted", "email", email)
	return m.signInCmd(email, password)
}

func (m *AppModel) openAddress() tea.Cmd {
	m.addressing = true
	m.address.SetValue(m.browser.Location())
	m.address.CursorEnd()
	return m.address.Focus()
}

func (m *AppModel) closeAddress() {
	m.addressing = false
	m.address.Blur()
	m.address.Reset()
}

// handleAddressKey edits the address bar. Enter assigns the hash, which the
// browser reports as a hashchange like a typed URL.
func (m *AppModel) handleAddressKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		hash := m.address.Value()
		m.closeAddress()
		if m.browser.SetHash(hash) {
			m.logger.Debug("address entered", "hash", hash)
		}
		return nil
	case "esc":
		m.closeAddress()
		return nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return cmd
}

func (m *AppModel) handleSessionResolved(msg SessionResolvedEvent) tea.Cmd {
	if m.machine.Status() != auth.StatusIdle {
		return nil
	}
	if msg.Err != nil {
		m.logger.Warn("session lookup failed", "error", msg.Err)
		_ = m.machine.Resolve(false)
		return m.setStatus("Kunde inte läsa sessionen", tui.LevelError)
	}
	_ = m.machine.Resolve(msg.Session != nil)
	if msg.Session == nil {
		m.logger.Info("no stored session")
		return nil
	}
	m.session = msg.Session
	m.logger.Info("session restored", "user", msg.Session.UserID)
	return m.loadProfileCmd(*msg.Session)
}

func (m *AppModel) handleSignIn(msg SignInEvent) tea.Cmd {
	if m.form != nil {
		m.form.busy = false
	}
	if msg.Err != nil {
		m.logger.Info("sign-in rejected", "error", msg.Err)
		if m.form != nil {
			m.form.err = formError(msg.Err)
		}
		return nil
	}
	return m.signedIn(msg.Session)
}

// signedIn moves to the authenticated state and on to the intent's
// post-login route. Both the command result and the provider event lead
// here, so the second arrival is ignored.
func (m *AppModel) signedIn(s *auth.Session) tea.Cmd {
	if s == nil || m.machine.Authenticated() {
		return nil
	}
	intent := m.sync.State().Intent

	var err error
	if m.machine.Status() == auth.StatusIdle {
		err = m.machine.Resolve(true)
	} else {
		err = m.machine.SignedIn()
	}
	if err != nil {
		m.logger.Error("unexpected auth transition", "error", err)
		return nil
	}

	m.session = s
	m.profile = nil
	m.focused = ""
	m.sync.NavigateTo(intent.PostLogin())
	m.logger.Info("signed in", "user", s.UserID, "route", m.sync.Route().Hash())
	return tea.Batch(
		m.setStatus("Inloggad som "+s.Email, tui.LevelSuccess),
		m.loadProfileCmd(*s),
	)
}

func (m *AppModel) handleProfile(msg ProfileEvent) tea.Cmd {
	if m.session == nil || m.session.UserID != msg.UserID {
		return nil
	}
	if msg.Err != nil {
		m.logger.Warn("profile load failed", "user", msg.UserID, "error", msg.Err)
		m.endSession()
		return m.setStatus("Kunde inte läsa din profil", tui.LevelError)
	}
	p := msg.Profile
	m.profile = &p
	return nil
}

// logout signs out with the provider first; the local reset follows when
// the result arrives.
func (m *AppModel) logout() tea.Cmd {
	if !m.machine.Authenticated() || m.provider == nil {
		return nil
	}
	m.logger.Info("logout requested")
	m.loggingOut = true
	return m.signOutCmd()
}

func (m *AppModel) handleSignOut(msg SignOutEvent) tea.Cmd {
	m.loggingOut = false
	if msg.Err != nil && !errors.Is(msg.Err, auth.ErrNoSession) {
		m.logger.Warn("sign-out failed", "error", msg.Err)
		m.endSession()
		return m.setStatus("Utloggningen misslyckades, du är utloggad lokalt", tui.LevelError)
	}
	if m.endSession() {
		return m.setStatus("Du är utloggad", tui.LevelInfo)
	}
	return nil
}

func (m *AppModel) handleAuthChange(ev auth.Event) tea.Cmd {
	switch ev.Status {
	case auth.StatusAuthenticated:
		return m.signedIn(ev.Session)
	case auth.StatusUnauthenticated:
		if !m.endSession() {
			return nil
		}
		if m.loggingOut {
			return m.setStatus("Du är utloggad", tui.LevelInfo)
		}
		return m.setStatus("Sessionen har avslutats", tui.LevelInfo)
	}
	return nil
}

// endSession resets navigation and then leaves the authenticated state.
// It reports whether there was a session to end.
func (m *AppModel) endSession() bool {
	if !m.machine.Authenticated() {
		return false
	}
	m.sync.Reset()
	_ = m.machine.LoggedOut()
	m.session = nil
	m.profile = nil
	m.focused = ""
	m.logger.Info("session ended", "route", m.sync.Route().Hash())
	return true
}

func (m *AppModel) setStatus(text string, level tui.Level) tea.Cmd {
	m.statusSeq++
	m.status = tui.Status{Text: text, Level: level}
	if m.statusTTL < 0 {
		return nil
	}
	return StatusExpiryCmd(m.statusSeq, m.statusTTL)
}

func (m *AppModel) quit() tea.Cmd {
	m.quitting = true
	m.Close()
	return tea.Quit
}

// Close removes the browser listeners and cancels the auth subscription.
// It is safe to call more than once.
func (m AppModel) Close() {
	m.unmount()
	m.unsub()
}

// View renders the current frame.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Startar…"
	}
	return m.renderer.Render(m.frame())
}

func (m AppModel) frame() tui.Frame {
	entries, idx := m.browser.Entries()
	history := make([]string, len(entries))
	for i, e := range entries {
		history[i] = e.URL
	}

	f := tui.Frame{
		Width:        m.width,
		Height:       m.height,
		Theme:        m.theme,
		Screen:       m.screen,
		Location:     m.browser.Location(),
		Profile:      m.profile,
		Sidebar:      markFocus(m.sidebar(), m.focused),
		Links:        markFocus(m.bodyLinks(), m.focused),
		Stack:        m.sync.Stack().Entries(),
		History:      history,
		HistoryIndex: idx,
		Status:       m.status,
		ShowHelp:     m.showHelp,
	}
	if m.addressing {
		f.Address = m.address.View()
	}
	if m.showHelp {
		f.Help = m.help.View(m.keys)
	}
	if m.form != nil {
		f.Form = tui.Form{
			Title:  m.form.title(m.screen.Form.Flavor),
			Fields: m.form.fields(),
			Error:  m.form.err,
			Busy:   m.form.busy,
		}
	}
	return f
}

// Screen returns the selected top-level screen.
func (m AppModel) Screen() screen.Screen { return m.screen }

// Route returns the synchronised route.
func (m AppModel) Route() nav.Route { return m.sync.Route() }

// AuthStatus returns the auth state machine's status.
func (m AppModel) AuthStatus() auth.Status { return m.machine.Status() }

// Profile returns the loaded member profile, or nil.
func (m AppModel) Profile() *auth.UserProfile { return m.profile }

// Browser exposes the in-memory browser.
func (m AppModel) Browser() *browser.Browser { return m.browser }

// Navigator exposes the synchronizer.
func (m AppModel) Navigator() *nav.Synchronizer { return m.sync }

// Focused returns the hash of the focused link.
func (m AppModel) Focused() string { return m.focused }

// StatusText returns the status bar message.
func (m AppModel) StatusText() string { return m.status.Text }

// FormError returns the message under the login form.
func (m AppModel) FormError() string {
	if m.form == nil {
		return ""
	}
	return m.form.err
}

func (m AppModel) Width() int        { return m.width }
func (m AppModel) Height() int       { return m.height }
func (m AppModel) HelpVisible() bool { return m.showHelp }
func (m AppModel) Addressing() bool  { return m.addressing }
func (m AppModel) Quitting() bool    { return m.quitting }
