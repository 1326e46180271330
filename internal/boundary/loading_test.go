package boundary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

func newTestLoading(t *testing.T, opts LoadingOptions) (*LoadingBoundary, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(1700000000, 0))
	opts.Clock = fake
	b := NewLoading(opts)
	t.Cleanup(b.Dispose)
	return b, fake
}

func TestLoadingCatchClassifies(t *testing.T) {
	tests := []struct {
		err  error
		want model.LoadingKind
	}{
		{NewNamedError(NameChunkLoadError, "Loading chunk 3 failed"), model.LoadingChunk},
		{errors.New("Failed to fetch"), model.LoadingNetwork},
		{errors.New("request timeout"), model.LoadingTimeout},
	}
	for _, tt := range tests {
		b, _ := newTestLoading(t, LoadingOptions{})
		out := b.Catch(tt.err, Info{})
		if !out.Handled {
			t.Fatalf("Catch(%q) not handled", tt.err)
		}
		if out.Record.Kind != tt.want {
			t.Errorf("Catch(%q) kind = %s, want %s", tt.err, out.Record.Kind, tt.want)
		}
		s := b.State()
		if !s.HasLoadingError || s.Message == "" {
			t.Errorf("state after Catch(%q) = %+v", tt.err, s)
		}
	}
}

func TestLoadingCatchLeavesOtherErrors(t *testing.T) {
	called := false
	b, _ := newTestLoading(t, LoadingOptions{OnLoadingError: func(error) { called = true }})

	out := b.Catch(errors.New("This is not a loading error"), Info{})
	if out.Handled {
		t.Fatal("non-loading error was handled")
	}
	if b.State().HasLoadingError {
		t.Error("boundary failed on a non-loading error")
	}
	if called {
		t.Error("OnLoadingError called for a non-loading error")
	}
}

func TestLoadingGuardRethrows(t *testing.T) {
	b, _ := newTestLoading(t, LoadingOptions{})
	original := errors.New("This is not a loading error")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("non-loading panic was swallowed")
		}
		if err, ok := r.(error); !ok || err != original {
			t.Errorf("re-panicked with %v, want the original error", r)
		}
		if b.State().HasLoadingError {
			t.Error("boundary shows a fallback for a non-loading error")
		}
	}()

	b.Guard(Info{}, func() { panic(original) })
}

func TestLoadingGuardNestedInBoundary(t *testing.T) {
	outer := New(Options{Level: model.LevelScreen, Clock: clock.NewFake(time.Unix(0, 0))})
	inner, _ := newTestLoading(t, LoadingOptions{})

	fb, failed := outer.Guard(Info{}, func() {
		inner.Guard(Info{}, func() { panic(errors.New("This is not a loading error")) })
	})
	if !failed {
		t.Fatal("outer boundary did not catch the re-raised error")
	}
	if fb.Record.Message != "This is not a loading error" {
		t.Errorf("outer record message = %q", fb.Record.Message)
	}
	if inner.State().HasLoadingError {
		t.Error("inner boundary kept a non-loading error")
	}
}

func TestLoadingGuardContainsLoadingPanic(t *testing.T) {
	b, _ := newTestLoading(t, LoadingOptions{})
	s, failed := b.Guard(Info{Path: model.PathBillPay}, func() {
		panic(NewNamedError(NameChunkLoadError, "Loading chunk 9 failed"))
	})
	if !failed || s.Kind != model.LoadingChunk {
		t.Fatalf("Guard = %+v, %v", s, failed)
	}
	if s.Record.Path != model.PathBillPay {
		t.Errorf("Path = %q", s.Record.Path)
	}
}

func TestLoadingRetryBackoff(t *testing.T) {
	retried := 0
	changed := 0
	b, fake := newTestLoading(t, LoadingOptions{
		RetryAction: func() { retried++ },
		OnChange:    func() { changed++ },
	})
	fail := errors.New("Failed to fetch")

	wantDelays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	wantLabels := []string{"Try Again (Attempt 2/3)", "Try Again (Attempt 3/3)", "Maximum retries reached"}

	for i, want := range wantDelays {
		b.Catch(fail, Info{})
		delay, err := b.Retry()
		if err != nil {
			t.Fatalf("retry %d: %v", i+1, err)
		}
		if delay != want {
			t.Errorf("retry %d delay = %v, want %v", i+1, delay, want)
		}

		s := b.State()
		if s.RetryCount != i+1 {
			t.Errorf("retry %d: RetryCount = %d before the delay", i+1, s.RetryCount)
		}
		if s.RetryLabel != wantLabels[i] {
			t.Errorf("retry %d: label = %q, want %q", i+1, s.RetryLabel, wantLabels[i])
		}
		if !s.HasLoadingError || !s.Retrying {
			t.Errorf("retry %d: failure cleared before the delay", i+1)
		}
		if _, err := b.Retry(); !errors.Is(err, ErrRetryPending) {
			t.Errorf("retry %d: second Retry() = %v, want ErrRetryPending", i+1, err)
		}

		fake.Advance(want - time.Millisecond)
		if !b.State().HasLoadingError {
			t.Fatalf("retry %d: failure cleared early", i+1)
		}
		fake.Advance(time.Millisecond)
		if b.State().HasLoadingError {
			t.Fatalf("retry %d: failure not cleared after delay", i+1)
		}
	}

	if retried != 3 || changed != 3 {
		t.Errorf("RetryAction called %d times, OnChange %d times, want 3", retried, changed)
	}

	b.Catch(fail, Info{})
	s := b.State()
	if s.CanRetry {
		t.Error("retry control enabled after exhaustion")
	}
	if s.RetryLabel != "Maximum retries reached" {
		t.Errorf("label = %q", s.RetryLabel)
	}
	if _, err := b.Retry(); !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("Retry() = %v, want ErrRetriesExhausted", err)
	}
}

func TestLoadingFallbackMessageOverride(t *testing.T) {
	b, _ := newTestLoading(t, LoadingOptions{FallbackMessage: "Billers are unavailable right now."})
	b.Catch(errors.New("gateway timeout"), Info{})
	if got := b.State().Message; got != "Billers are unavailable right now." {
		t.Errorf("Message = %q", got)
	}
}

func TestLoadingLogCapacity(t *testing.T) {
	log := errlog.NewLoading(store.NewMemory())
	b, _ := newTestLoading(t, LoadingOptions{Log: log})
	for i := 0; i < 8; i++ {
		b.Catch(errors.New("NetworkError"), Info{})
	}
	entries, err := log.Entries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != errlog.CapacityLoading {
		t.Errorf("len = %d, want %d", len(entries), errlog.CapacityLoading)
	}
}

func TestLoadingDisposeCancelsBackoff(t *testing.T) {
	retried := false
	b, fake := newTestLoading(t, LoadingOptions{RetryAction: func() { retried = true }})
	b.Catch(errors.New("timeout"), Info{})
	if _, err := b.Retry(); err != nil {
		t.Fatal(err)
	}

	b.Dispose()
	b.Dispose()
	fake.Advance(time.Minute)

	if retried {
		t.Error("RetryAction ran after Dispose")
	}
	if fake.Pending() != 0 {
		t.Errorf("pending timers = %d", fake.Pending())
	}
}
