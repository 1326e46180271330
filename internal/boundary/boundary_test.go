package boundary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

type staticSession bool

func (s staticSession) Authenticated() bool { return bool(s) }

func newTestBoundary(t *testing.T, level model.Level, signedIn bool) (*Boundary, *errlog.Log, *errlog.Log) {
	t.Helper()
	s := store.NewMemory()
	log, appLog := errlog.NewBoundary(s), errlog.NewApp(s)
	b := New(Options{
		Level:   level,
		Log:     log,
		AppLog:  appLog,
		Session: staticSession(signedIn),
		Clock:   clock.NewFake(time.Unix(1700000000, 0)),
	})
	t.Cleanup(b.Dispose)
	return b, log, appLog
}

func TestAppLevelOffersOnlyReload(t *testing.T) {
	b, _, appLog := newTestBoundary(t, model.LevelApp, true)

	fb := b.OnError(errors.New("nil pointer dereference"), Info{})
	if fb.Kind != FallbackReload {
		t.Fatalf("Kind = %s, want reload", fb.Kind)
	}
	if fb.CanRetry {
		t.Error("app-level fallback offers retry")
	}
	if fb.Record.Severity != model.SeverityCritical {
		t.Errorf("Severity = %s, want critical", fb.Record.Severity)
	}
	if err := b.Retry(); !errors.Is(err, ErrRetryNotAllowed) {
		t.Errorf("Retry() = %v, want ErrRetryNotAllowed", err)
	}

	entries, _ := appLog.Entries(context.Background())
	if len(entries) != 1 {
		t.Errorf("app log has %d entries, want 1", len(entries))
	}
}

func TestRetryBudget(t *testing.T) {
	b, log, _ := newTestBoundary(t, model.LevelScreen, true)
	boom := errors.New("render failed")

	for i, wantLeft := range []int{3, 2, 1} {
		fb := b.OnError(boom, Info{Path: model.PathPayments})
		if fb.Kind != FallbackScreen {
			t.Fatalf("failure %d: Kind = %s, want screen", i+1, fb.Kind)
		}
		if !fb.CanRetry || fb.AttemptsLeft != wantLeft {
			t.Fatalf("failure %d: CanRetry=%v AttemptsLeft=%d, want true/%d", i+1, fb.CanRetry, fb.AttemptsLeft, wantLeft)
		}
		if err := b.Retry(); err != nil {
			t.Fatalf("retry %d: %v", i+1, err)
		}
		if _, failed := b.Fallback(); failed {
			t.Fatalf("retry %d did not clear the failure", i+1)
		}
	}

	fb := b.OnError(boom, Info{})
	if fb.CanRetry || fb.AttemptsLeft != 0 {
		t.Errorf("4th failure: CanRetry=%v AttemptsLeft=%d, want false/0", fb.CanRetry, fb.AttemptsLeft)
	}
	if err := b.Retry(); !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("Retry() = %v, want ErrRetriesExhausted", err)
	}
	if _, failed := b.Fallback(); !failed {
		t.Error("boundary left the failed state after a refused retry")
	}
	if b.RetryCount() != MaxRetries {
		t.Errorf("RetryCount = %d", b.RetryCount())
	}

	entries, _ := log.Entries(context.Background())
	if len(entries) != 4 {
		t.Fatalf("boundary log has %d entries, want 4", len(entries))
	}
	if entries[3].RetryCount != 3 || entries[0].RetryCount != 0 {
		t.Errorf("RetryCount in records = %d..%d", entries[0].RetryCount, entries[3].RetryCount)
	}
}

func TestRetryWhenHealthy(t *testing.T) {
	b, _, _ := newTestBoundary(t, model.LevelScreen, true)
	if err := b.Retry(); !errors.Is(err, ErrNotFailed) {
		t.Errorf("Retry() = %v, want ErrNotFailed", err)
	}
}

func TestSafePath(t *testing.T) {
	b, _, _ := newTestBoundary(t, model.LevelScreen, true)
	if fb := b.OnError(errors.New("x"), Info{}); fb.SafePath != model.PathDashboard {
		t.Errorf("signed-in SafePath = %s", fb.SafePath)
	}

	b, _, _ = newTestBoundary(t, model.LevelScreen, false)
	if fb := b.OnError(errors.New("x"), Info{}); fb.SafePath != model.PathLogin {
		t.Errorf("signed-out SafePath = %s", fb.SafePath)
	}
}

func TestComponentLevel(t *testing.T) {
	b, _, appLog := newTestBoundary(t, model.LevelComponent, true)

	fb := b.OnError(NewNamedError(NameTypeError, "cannot read balance"), Info{ComponentStack: "BalanceCard"})
	if fb.Kind != FallbackComponent {
		t.Errorf("Kind = %s, want component", fb.Kind)
	}
	if fb.Record.Severity != model.SeverityMedium {
		t.Errorf("Severity = %s, want medium", fb.Record.Severity)
	}
	if !fb.CanRetry || !fb.ShowDetails {
		t.Errorf("CanRetry=%v ShowDetails=%v", fb.CanRetry, fb.ShowDetails)
	}
	if fb.Record.ComponentStack != "BalanceCard" {
		t.Errorf("ComponentStack = %q", fb.Record.ComponentStack)
	}
	if entries, _ := appLog.Entries(context.Background()); len(entries) != 0 {
		t.Error("component error written to the app log")
	}
}

func TestGuard(t *testing.T) {
	var callbacks int
	b := New(Options{
		Level:   model.LevelScreen,
		OnError: func(error, Info) { callbacks++ },
		Clock:   clock.NewFake(time.Unix(0, 0)),
	})

	if _, failed := b.Guard(Info{}, func() {}); failed {
		t.Fatal("healthy render reported a failure")
	}

	calls := 0
	fb, failed := b.Guard(Info{Path: model.PathTopUp}, func() {
		calls++
		var m map[string]int
		m["x"] = 1
	})
	if !failed {
		t.Fatal("panic was not contained")
	}
	if fb.Record.Name != NameTypeError || !strings.Contains(fb.Record.Message, "nil map") {
		t.Errorf("record = %s: %s", fb.Record.Name, fb.Record.Message)
	}
	if fb.Record.Stack == "" {
		t.Error("record has no stack")
	}
	if fb.Record.Path != model.PathTopUp {
		t.Errorf("Path = %q", fb.Record.Path)
	}

	// While failed the subtree is not rendered again.
	b.Guard(Info{}, func() { calls++ })
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}
	if callbacks != 1 {
		t.Errorf("OnError callback called %d times, want 1", callbacks)
	}
}

func TestLogFailureIsNotEscalated(t *testing.T) {
	s := store.NewMemory()
	s.Close()
	b := New(Options{Level: model.LevelScreen, Log: errlog.NewBoundary(s), Clock: clock.NewFake(time.Unix(0, 0))})

	fb := b.OnError(errors.New("x"), Info{})
	if fb.Kind != FallbackScreen {
		t.Errorf("Kind = %s", fb.Kind)
	}
}

func TestDispose(t *testing.T) {
	b, _, _ := newTestBoundary(t, model.LevelScreen, true)
	b.Dispose()
	b.Dispose()
	if fb := b.OnError(errors.New("x"), Info{}); fb.Kind != FallbackNone {
		t.Errorf("disposed boundary produced %s fallback", fb.Kind)
	}
	if err := b.Retry(); !errors.Is(err, ErrDisposed) {
		t.Errorf("Retry() = %v, want ErrDisposed", err)
	}
}

func TestRecordIDs(t *testing.T) {
	b, _, _ := newTestBoundary(t, model.LevelComponent, true)
	first := b.OnError(errors.New("a"), Info{}).Record.ID
	_ = b.Retry()
	second := b.OnError(errors.New("b"), Info{}).Record.ID

	if !strings.HasPrefix(first, "error_1700000000000_") {
		t.Errorf("ID = %q, want time-derived prefix", first)
	}
	if first == second {
		t.Errorf("IDs collide: %q", first)
	}
}
