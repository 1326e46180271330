package boundary

import (
	"log/slog"
	"sync"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/messages"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/metrics"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

// Backoff bounds for loading retries.
const (
	RetryBaseDelay = 1000 * time.Millisecond
	RetryMaxDelay  = 5000 * time.Millisecond
)

// LoadingOptions configures a LoadingBoundary.
type LoadingOptions struct {
	Name string
	// OnLoadingError is called for every handled loading failure.
	OnLoadingError func(err error)
	// FallbackMessage replaces the per-kind message when set.
	FallbackMessage string
	// RetryAction runs when a backoff delay elapses, just before the
	// subtree is rendered again.
	RetryAction func()
	// OnChange is called after a backoff completes. It runs on the timer
	// goroutine.
	OnChange func()
	Log      *errlog.Log
	Catalog  *messages.Catalog
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Outcome is the result of offering an error to a LoadingBoundary: either
// Handled with a record, or not handled (the zero Outcome) in which case
// the caller must pass the error on.
type Outcome struct {
	Handled bool
	Record  model.ErrorRecord
}

// LoadingState is a snapshot of a LoadingBoundary.
type LoadingState struct {
	HasLoadingError bool
	Record          model.ErrorRecord
	Kind            model.LoadingKind
	Message         string
	RetryCount      int
	Retrying        bool
	CanRetry        bool
	RetryLabel      string
}

// LoadingBoundary handles loading-class failures with backoff retries.
type LoadingBoundary struct {
	opts LoadingOptions

	mu         sync.Mutex
	failed     bool
	record     model.ErrorRecord
	retryCount int
	timer      clock.Timer
	generation uint64
	disposed   bool
}

// NewLoading returns a healthy LoadingBoundary.
func NewLoading(opts LoadingOptions) *LoadingBoundary {
	if opts.Name == "" {
		opts.Name = "loading"
	}
	if opts.Catalog == nil {
		opts.Catalog = messages.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With("boundary", opts.Name)
	return &LoadingBoundary{opts: opts}
}

// Catch offers err to the boundary. Errors that are not loading failures
// are left untouched and the zero Outcome is returned.
func (b *LoadingBoundary) Catch(err error, info Info) Outcome {
	if !IsLoadingError(err) {
		return Outcome{}
	}

	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return Outcome{}
	}
	rec := newRecord(b.opts.Clock, err, info)
	rec.Kind = ClassifyLoadingError(err)
	rec.RetryCount = b.retryCount
	b.failed = true
	b.record = rec
	b.mu.Unlock()

	metrics.BoundaryErrorsTotal.WithLabelValues(b.opts.Name, string(rec.Kind)).Inc()
	b.opts.Logger.Warn("caught loading error",
		"id", rec.ID,
		"kind", rec.Kind,
		"error", err,
		"retries", rec.RetryCount,
	)

	if b.opts.OnLoadingError != nil {
		b.opts.OnLoadingError(err)
	}
	persist(b.opts.Logger, b.opts.Log, rec)
	return Outcome{Handled: true, Record: rec}
}

// Guard runs render. A loading-class panic is contained and the boundary
// state returned with true. Any other panic is re-raised with its original
// value so an enclosing Boundary can handle it. render is not called while
// the boundary is failed.
func (b *LoadingBoundary) Guard(info Info, render func()) (LoadingState, bool) {
	if s := b.State(); s.HasLoadingError {
		return s, true
	}
	perr, value := recoverRender(b.opts.Clock, render)
	if perr == nil {
		return LoadingState{}, false
	}
	if out := b.Catch(perr, info); !out.Handled {
		panic(value)
	}
	return b.State(), true
}

// Retry schedules recovery after the backoff delay for the current
// attempt. The retry counter is incremented immediately; the failed state
// is cleared only when the delay elapses. It returns the delay.
func (b *LoadingBoundary) Retry() (time.Duration, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.disposed:
		return 0, ErrDisposed
	case !b.failed:
		return 0, ErrNotFailed
	case b.timer != nil:
		return 0, ErrRetryPending
	case b.retryCount >= MaxRetries:
		metrics.BoundaryRetriesTotal.WithLabelValues(b.opts.Name, "exhausted").Inc()
		return 0, ErrRetriesExhausted
	}

	delay := BackoffDelay(b.retryCount, RetryBaseDelay, RetryMaxDelay)
	b.retryCount++
	b.generation++
	gen := b.generation
	b.timer = b.opts.Clock.AfterFunc(delay, func() { b.completeRetry(gen) })

	metrics.BoundaryRetriesTotal.WithLabelValues(b.opts.Name, "accepted").Inc()
	b.opts.Logger.Info("retry scheduled", "attempt", b.retryCount, "delay", delay)
	return delay, nil
}

func (b *LoadingBoundary) completeRetry(gen uint64) {
	b.mu.Lock()
	if b.disposed || gen != b.generation || b.timer == nil {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.failed = false
	b.record = model.ErrorRecord{}
	b.mu.Unlock()

	if b.opts.RetryAction != nil {
		b.opts.RetryAction()
	}
	if b.opts.OnChange != nil {
		b.opts.OnChange()
	}
}

// State returns a snapshot of the boundary.
func (b *LoadingBoundary) State() LoadingState {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := LoadingState{
		HasLoadingError: b.failed,
		RetryCount:      b.retryCount,
		Retrying:        b.timer != nil,
		CanRetry:        b.failed && b.timer == nil && b.retryCount < MaxRetries,
		RetryLabel:      b.retryLabelLocked(),
	}
	if b.failed {
		s.Record = b.record
		s.Kind = b.record.Kind
		s.Message = b.messageLocked()
	}
	return s
}

// Dispose cancels a pending backoff and detaches the boundary. Safe to
// call more than once.
func (b *LoadingBoundary) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.generation++
	b.disposed = true
}

func (b *LoadingBoundary) retryLabelLocked() string {
	if b.retryCount >= MaxRetries {
		return b.opts.Catalog.Text(messages.RetryExhausted, nil)
	}
	return b.opts.Catalog.Text(messages.RetryAttempt, map[string]any{
		"Attempt": b.retryCount + 1,
		"Max":     MaxRetries,
	})
}

func (b *LoadingBoundary) messageLocked() string {
	if b.opts.FallbackMessage != "" {
		return b.opts.FallbackMessage
	}
	return b.opts.Catalog.Text(kindMessage(b.record.Kind), nil)
}

func kindMessage(k model.LoadingKind) string {
	switch k {
	case model.LoadingNetwork:
		return messages.LoadingNetwork
	case model.LoadingChunk:
		return messages.LoadingChunk
	case model.LoadingTimeout:
		return messages.LoadingTimeout
	default:
		return messages.LoadingGeneric
	}
}
