// Package navigation wraps screen transitions in a loading state.
//
// A Coordinator accepts one navigation at a time. While the simulated
// latency delay is running the coordinator is blocked and further requests
// are dropped, not queued. When the delay elapses the underlying Router is
// asked to change path and the path is recorded in the history used for
// back navigation.
package navigation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/metrics"
)

const (
	// DefaultDelay is the uniform simulated latency applied to every transition.
	DefaultDelay = 3 * time.Second
	// DefaultPath is where GoBack lands when there is nothing to go back to.
	DefaultPath = "/dashboard"
	// DefaultMessage is shown when a caller does not supply one.
	DefaultMessage = "Loading..."
)

// Router performs the actual path change. Implementations are called with
// the coordinator lock held and must not call back into the Coordinator.
type Router interface {
	Navigate(path string)
	CurrentPath() string
}

// Options configures a Coordinator.
type Options struct {
	Delay          time.Duration
	DefaultPath    string
	DefaultMessage string
	Clock          clock.Clock
	Logger         *slog.Logger

	// OnChange is called with a fresh snapshot after every state change.
	// It runs without the coordinator lock held, on whichever goroutine
	// caused the change (the timer goroutine for completions).
	OnChange func(State)
}

// State is a read-only snapshot of a Coordinator.
type State struct {
	CurrentPath    string
	IsLoading      bool
	LoadingMessage string
	IsBlocked      bool
	History        []string
	Pending        bool
}

type transition struct {
	path string
	back bool
}

// Coordinator serializes screen transitions behind a loading state.
// All methods are safe for concurrent use.
type Coordinator struct {
	router Router
	opts   Options

	mu             sync.Mutex
	isLoading      bool
	loadingMessage string
	history        []string
	timer          clock.Timer
	pending        *transition
	generation     uint64
	disposed       bool
}

// New returns a Coordinator driving router.
func New(router Router, opts Options) *Coordinator {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.DefaultPath == "" {
		opts.DefaultPath = DefaultPath
	}
	if opts.DefaultMessage == "" {
		opts.DefaultMessage = DefaultMessage
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Coordinator{
		router: router,
		opts:   opts,
	}
}

// NavigateWithLoading starts a loading-wrapped transition to path. It
// reports whether the request was accepted; a request made while another
// transition is in flight, or after Cleanup, is silently dropped.
func (c *Coordinator) NavigateWithLoading(path, message string) bool {
	return c.start(transition{path: path}, message)
}

// GoBack transitions to the entry before the most recent history entry,
// or to the default path when there is none. On completion the most recent
// entry is removed so that the target becomes the top of history.
func (c *Coordinator) GoBack() bool {
	c.mu.Lock()
	target := c.opts.DefaultPath
	if n := len(c.history); n >= 2 {
		target = c.history[n-2]
	}
	c.mu.Unlock()

	return c.start(transition{path: target, back: true}, "")
}

func (c *Coordinator) start(t transition, message string) bool {
	c.mu.Lock()
	if c.disposed || c.isLoading {
		c.mu.Unlock()
		metrics.NavigationsTotal.WithLabelValues("dropped").Inc()
		c.opts.Logger.Debug("navigation dropped", "path", t.path, "disposed", c.disposed)
		return false
	}
	if message == "" {
		message = c.opts.DefaultMessage
	}

	c.isLoading = true
	c.loadingMessage = message
	c.pending = &t
	c.generation++
	gen := c.generation
	c.timer = c.opts.Clock.AfterFunc(c.opts.Delay, func() { c.complete(gen) })
	snap := c.snapshotLocked()
	c.mu.Unlock()

	metrics.NavigationsTotal.WithLabelValues("accepted").Inc()
	metrics.NavigationInFlight.Inc()
	c.opts.Logger.Debug("navigation started", "path", t.path, "back", t.back, "delay", c.opts.Delay)
	c.notify(snap)
	return true
}

func (c *Coordinator) complete(gen uint64) {
	c.mu.Lock()
	// A stale timer (cancelled or disposed after it was already firing)
	// must not touch state.
	if c.disposed || gen != c.generation || c.pending == nil {
		c.mu.Unlock()
		return
	}
	t := *c.pending
	c.pending = nil
	c.timer = nil

	c.router.Navigate(t.path)

	if t.back && len(c.history) > 0 {
		c.history = c.history[:len(c.history)-1]
	}
	if n := len(c.history); !t.back || n == 0 || c.history[n-1] != t.path {
		c.history = append(c.history, t.path)
	}
	c.isLoading = false
	c.loadingMessage = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()

	metrics.NavigationsTotal.WithLabelValues("completed").Inc()
	metrics.NavigationInFlight.Dec()
	c.opts.Logger.Info("navigated", "path", t.path, "back", t.back)
	c.notify(snap)
}

// CancelNavigation aborts the in-flight transition, if any. The route is
// not changed and history is left as it was.
func (c *Coordinator) CancelNavigation() {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return
	}
	path := c.pending.path
	c.stopLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	metrics.NavigationsTotal.WithLabelValues("cancelled").Inc()
	c.opts.Logger.Info("navigation cancelled", "path", path)
	c.notify(snap)
}

// History returns a copy of the visited paths, most recent last.
func (c *Coordinator) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.history...)
}

// ClearHistory forgets all visited paths.
func (c *Coordinator) ClearHistory() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.history = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// State returns a snapshot of the coordinator.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Cleanup stops any pending transition and detaches the coordinator. No
// state changes happen afterwards. Safe to call more than once.
func (c *Coordinator) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.stopLocked()
	c.disposed = true
}

// stopLocked must be called with c.mu held.
func (c *Coordinator) stopLocked() {
	if c.pending != nil {
		metrics.NavigationInFlight.Dec()
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
	c.generation++
	c.isLoading = false
	c.loadingMessage = ""
}

func (c *Coordinator) snapshotLocked() State {
	return State{
		CurrentPath:    c.router.CurrentPath(),
		IsLoading:      c.isLoading,
		LoadingMessage: c.loadingMessage,
		IsBlocked:      c.isLoading,
		History:        append([]string(nil), c.history...),
		Pending:        c.pending != nil,
	}
}

func (c *Coordinator) notify(s State) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(s)
	}
}
