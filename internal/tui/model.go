package tui

import (
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/auth"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/boundary"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/messages"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/navigation"
)

// Deps are the services the TUI runs on.
type Deps struct {
	Auth        *auth.Service
	AppLog      *errlog.Log
	BoundaryLog *errlog.Log
	LoadingLog  *errlog.Log
	Catalog     *messages.Catalog
	Clock       clock.Clock
	Logger      *slog.Logger
	Delay       time.Duration
	DefaultPath string
}

// mounted holds the boundaries of the screen currently on display. A new
// set is created every time the screen changes, which resets retry budgets.
type mounted struct {
	path    string
	screen  *boundary.Boundary
	loading *boundary.LoadingBoundary
	widget  *boundary.Boundary // Component-level, wraps the dashboard activity list
}

func (s *mounted) dispose() {
	if s == nil {
		return
	}
	s.screen.Dispose()
	s.loading.Dispose()
	s.widget.Dispose()
}

// notifier forwards state changes that happen off the event loop (timer
// callbacks) into the running program. Sends happen on a fresh goroutine
// because callbacks can also fire from inside Update, where a synchronous
// Program.Send would deadlock.
type notifier struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (n *notifier) bind(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

func (n *notifier) notify(msg tea.Msg) {
	n.mu.RLock()
	send := n.send
	n.mu.RUnlock()
	if send != nil {
		go send(msg)
	}
}

// AppModel holds the TUI state.
type AppModel struct {
	deps     Deps
	notifier *notifier
	router   *navigation.MemoryRouter
	nav      *navigation.Coordinator
	app      *boundary.Boundary
	screen   *mounted
	faults   *faultSet

	// Navigation snapshot, refreshed on every MsgNavChanged
	NavState navigation.State

	// UI State
	WindowSize  tea.WindowSizeMsg
	Spinner     spinner.Model
	PhoneInput  textinput.Model
	PinInput    textinput.Model
	LoginErr    string
	Notice      string
	SelectedIdx int
	ShowDetails bool
	Reloads     int

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state. The first screen is the
// dashboard when a saved session exists, otherwise the sign-in screen.
func InitialModel(deps Deps) AppModel {
	if deps.Catalog == nil {
		deps.Catalog = messages.Default()
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	phone := textinput.New()
	phone.Placeholder = "Phone number"
	phone.CharLimit = 10
	phone.Width = 20
	phone.Focus()

	pin := textinput.New()
	pin.Placeholder = "6-digit PIN"
	pin.CharLimit = 6
	pin.Width = 20
	pin.EchoMode = textinput.EchoPassword
	pin.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	start := model.PathLogin
	if deps.Auth != nil && deps.Auth.Authenticated() {
		start = model.PathDashboard
	}

	n := &notifier{}
	m := AppModel{
		deps:            deps,
		notifier:        n,
		router:          navigation.NewMemoryRouter(start),
		faults:          newFaultSet(),
		Spinner:         sp,
		PhoneInput:      phone,
		PinInput:        pin,
		DetailsViewport: viewport.New(60, 8),
	}
	m.nav = navigation.New(m.router, navigation.Options{
		Delay:       deps.Delay,
		DefaultPath: deps.DefaultPath,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
		OnChange:    func(navigation.State) { n.notify(MsgNavChanged{}) },
	})
	m.app = m.newAppBoundary()
	m.screen = m.mount(start)
	m.NavState = m.nav.State()
	return m
}

// Attach connects timer-driven updates to p. Call it before p.Run.
func (m AppModel) Attach(p *tea.Program) {
	m.notifier.bind(p.Send)
}

// Close stops pending timers. Call it after the program exits.
func (m AppModel) Close() {
	m.nav.Cleanup()
	m.screen.dispose()
	m.app.Dispose()
}

// Coordinator exposes the navigation coordinator.
func (m AppModel) Coordinator() *navigation.Coordinator {
	return m.nav
}

func (m AppModel) authenticated() bool {
	return m.deps.Auth != nil && m.deps.Auth.Authenticated()
}

func (m AppModel) session() boundary.Session {
	if m.deps.Auth == nil {
		return nil
	}
	return m.deps.Auth
}

func (m AppModel) newAppBoundary() *boundary.Boundary {
	return boundary.New(boundary.Options{
		Level:   model.LevelApp,
		Name:    "app",
		Log:     m.deps.BoundaryLog,
		AppLog:  m.deps.AppLog,
		Session: m.session(),
		Clock:   m.deps.Clock,
		Logger:  m.deps.Logger,
	})
}

func (m AppModel) mount(path string) *mounted {
	n := m.notifier
	return &mounted{
		path: path,
		screen: boundary.New(boundary.Options{
			Level:   model.LevelScreen,
			Name:    "screen" + path,
			Log:     m.deps.BoundaryLog,
			Session: m.session(),
			Clock:   m.deps.Clock,
			Logger:  m.deps.Logger,
		}),
		loading: boundary.NewLoading(boundary.LoadingOptions{
			Name:     "loading" + path,
			Log:      m.deps.LoadingLog,
			Catalog:  m.deps.Catalog,
			Clock:    m.deps.Clock,
			Logger:   m.deps.Logger,
			OnChange: func() { n.notify(MsgBoundaryChanged{}) },
		}),
		widget: boundary.New(boundary.Options{
			Level:   model.LevelComponent,
			Name:    "widget" + path,
			Log:     m.deps.BoundaryLog,
			Session: m.session(),
			Clock:   m.deps.Clock,
			Logger:  m.deps.Logger,
		}),
	}
}

// remount swaps the screen boundaries for path, disposing the old ones.
func (m *AppModel) remount(path string) {
	m.screen.dispose()
	m.screen = m.mount(path)
	m.SelectedIdx = 0
	m.Notice = ""
	m.ShowDetails = false
}

// reload rebuilds everything below the app: a fresh app boundary and a
// fresh screen mount. The session and navigation history survive.
func (m *AppModel) reload() {
	m.app.Dispose()
	m.app = m.newAppBoundary()
	m.remount(m.router.CurrentPath())
	m.faults.clear()
	m.Reloads++
	m.deps.Logger.Info("application reloaded", "reloads", m.Reloads)
}
