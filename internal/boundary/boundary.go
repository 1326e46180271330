// Package boundary implements error boundaries for screen rendering.
//
// A Boundary contains failures raised while rendering a subtree. It records
// the failure, picks a fallback tier from the boundary level and the error
// severity, and allows a bounded number of retries. A LoadingBoundary only
// handles loading-class failures (chunk, network, timeout) and re-raises
// everything else to the enclosing Boundary.
package boundary

import (
	"log/slog"
	"sync"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/metrics"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

// MaxRetries is the retry budget of every boundary.
const MaxRetries = 3

// FallbackKind is the tier of fallback UI to render.
type FallbackKind int

const (
	FallbackNone      FallbackKind = iota // Healthy, render the subtree
	FallbackReload                        // Full-application reload only
	FallbackScreen                        // Retry, safe path, technical details
	FallbackComponent                     // Same actions, visually subordinate
)

func (k FallbackKind) String() string {
	switch k {
	case FallbackReload:
		return "reload"
	case FallbackScreen:
		return "screen"
	case FallbackComponent:
		return "component"
	default:
		return "none"
	}
}

// Fallback describes what to show in place of a failed subtree.
type Fallback struct {
	Kind         FallbackKind
	Record       model.ErrorRecord
	CanRetry     bool
	AttemptsLeft int
	SafePath     string
	ShowDetails  bool
}

// Session reports whether a user is signed in; it decides the safe path.
type Session interface {
	Authenticated() bool
}

// Options configures a Boundary.
type Options struct {
	Level model.Level
	// Name labels the boundary in logs and metrics.
	Name string
	// OnError is called for every caught error.
	OnError func(err error, info Info)
	// Log receives every caught error (the capped boundary log).
	Log *errlog.Log
	// AppLog additionally receives app-level errors.
	AppLog  *errlog.Log
	Session Session
	Clock   clock.Clock
	Logger  *slog.Logger
}

// Boundary is the state machine behind a generic error boundary. It is
// either healthy or failed with a record. The retry counter lives as long
// as the Boundary; create a new one to reset it.
type Boundary struct {
	opts Options

	mu         sync.Mutex
	failed     bool
	record     model.ErrorRecord
	retryCount int
	disposed   bool
}

// New returns a healthy Boundary.
func New(opts Options) *Boundary {
	if opts.Level == "" {
		opts.Level = model.LevelComponent
	}
	if opts.Name == "" {
		opts.Name = string(opts.Level)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With("boundary", opts.Name)
	return &Boundary{opts: opts}
}

// OnError moves the boundary to the failed state and returns the fallback
// to render.
func (b *Boundary) OnError(err error, info Info) Fallback {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return Fallback{}
	}
	rec := newRecord(b.opts.Clock, err, info)
	rec.Level = b.opts.Level
	rec.Severity = ClassifySeverity(b.opts.Level, rec.Name, rec.Message)
	rec.RetryCount = b.retryCount
	b.failed = true
	b.record = rec
	fb := b.fallbackLocked()
	b.mu.Unlock()

	metrics.BoundaryErrorsTotal.WithLabelValues(b.opts.Name, string(rec.Severity)).Inc()
	b.opts.Logger.Error("caught render error",
		"id", rec.ID,
		"error", err,
		"severity", rec.Severity,
		"path", rec.Path,
		"retries", rec.RetryCount,
	)

	if b.opts.OnError != nil {
		b.opts.OnError(err, info)
	}
	persist(b.opts.Logger, b.opts.Log, rec)
	if b.opts.Level == model.LevelApp {
		persist(b.opts.Logger, b.opts.AppLog, rec)
	}
	return fb
}

// Guard runs render and contains any panic it raises. It reports the
// fallback and true when the subtree is failed, either already or because
// render panicked. render is not called while the boundary is failed.
func (b *Boundary) Guard(info Info, render func()) (Fallback, bool) {
	if fb, failed := b.Fallback(); failed {
		return fb, true
	}
	perr, _ := recoverRender(b.opts.Clock, render)
	if perr == nil {
		return Fallback{}, false
	}
	return b.OnError(perr, info), true
}

// Retry clears the failure if retries remain. The boundary stays failed
// and ErrRetriesExhausted is returned once MaxRetries have been used.
func (b *Boundary) Retry() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.disposed:
		return ErrDisposed
	case !b.failed:
		return ErrNotFailed
	case b.kindLocked() == FallbackReload:
		return ErrRetryNotAllowed
	case b.retryCount >= MaxRetries:
		metrics.BoundaryRetriesTotal.WithLabelValues(b.opts.Name, "exhausted").Inc()
		return ErrRetriesExhausted
	}

	b.retryCount++
	b.failed = false
	b.record = model.ErrorRecord{}
	metrics.BoundaryRetriesTotal.WithLabelValues(b.opts.Name, "accepted").Inc()
	b.opts.Logger.Info("retrying after render error", "attempt", b.retryCount)
	return nil
}

// Fallback returns the current fallback and whether the boundary is failed.
func (b *Boundary) Fallback() (Fallback, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.failed {
		return Fallback{}, false
	}
	return b.fallbackLocked(), true
}

// RetryCount returns how many retries have been used.
func (b *Boundary) RetryCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.retryCount
}

// Level returns the boundary level.
func (b *Boundary) Level() model.Level {
	return b.opts.Level
}

// Dispose detaches the boundary. Later errors and retries are ignored.
func (b *Boundary) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disposed = true
}

func (b *Boundary) kindLocked() FallbackKind {
	switch b.record.Severity {
	case model.SeverityCritical:
		return FallbackReload
	case model.SeverityHigh:
		return FallbackScreen
	default:
		return FallbackComponent
	}
}

func (b *Boundary) fallbackLocked() Fallback {
	kind := b.kindLocked()
	fb := Fallback{
		Kind:         kind,
		Record:       b.record,
		AttemptsLeft: MaxRetries - b.retryCount,
		SafePath:     b.safePath(),
	}
	if kind != FallbackReload {
		fb.CanRetry = b.retryCount < MaxRetries
		fb.ShowDetails = true
	}
	return fb
}

func (b *Boundary) safePath() string {
	if b.opts.Session != nil && b.opts.Session.Authenticated() {
		return model.PathDashboard
	}
	return model.PathLogin
}
