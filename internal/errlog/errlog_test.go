package errlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

func record(i int) model.ErrorRecord {
	return model.ErrorRecord{
		ID:        fmt.Sprintf("error_%d", i),
		Name:      "Error",
		Message:   fmt.Sprintf("failure %d", i),
		Timestamp: time.Unix(int64(1700000000+i), 0).UTC(),
	}
}

func TestBoundaryLogRotation(t *testing.T) {
	ctx := context.Background()
	l := NewBoundary(store.NewMemory())

	for i := 1; i <= 11; i++ {
		if err := l.Append(ctx, record(i)); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}

	entries, err := l.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != CapacityBoundary {
		t.Fatalf("len = %d, want %d", len(entries), CapacityBoundary)
	}
	for i, e := range entries {
		if want := fmt.Sprintf("error_%d", i+2); e.ID != want {
			t.Errorf("entries[%d].ID = %s, want %s", i, e.ID, want)
		}
	}
}

func TestCapacities(t *testing.T) {
	tests := []struct {
		log  *Log
		want int
	}{
		{NewApp(store.NewMemory()), 3},
		{NewBoundary(store.NewMemory()), 10},
		{NewLoading(store.NewMemory()), 5},
	}
	ctx := context.Background()
	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			if err := tt.log.Append(ctx, record(i)); err != nil {
				t.Fatal(err)
			}
		}
		entries, _ := tt.log.Entries(ctx)
		if len(entries) != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.log.Key(), len(entries), tt.want)
		}
		if entries[len(entries)-1].ID != "error_19" {
			t.Errorf("%s: newest = %s", tt.log.Key(), entries[len(entries)-1].ID)
		}
	}
}

func TestCorruptLogStartsFresh(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	_ = s.Set(ctx, KeyLoading, "{not json")

	l := NewLoading(s)
	if err := l.Append(ctx, record(1)); err != nil {
		t.Fatal(err)
	}
	entries, _ := l.Entries(ctx)
	if len(entries) != 1 {
		t.Errorf("len = %d, want 1", len(entries))
	}
}

func TestStoreFailureIsReturned(t *testing.T) {
	s := store.NewMemory()
	s.Close()
	err := NewApp(s).Append(context.Background(), record(1))
	if !errors.Is(err, store.ErrClosed) {
		t.Errorf("err = %v, want wrapped ErrClosed", err)
	}
}

func TestGenerateReport(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	app, boundary, loading := NewApp(s), NewBoundary(s), NewLoading(s)

	rec := record(7)
	rec.Severity = model.SeverityHigh
	rec.Level = model.LevelScreen
	rec.Path = model.PathPayments
	rec.Stack = "goroutine 1 [running]:\nmain.main()"
	_ = boundary.Append(ctx, rec)

	snap, err := Collect(ctx, app, boundary, loading)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Logs[KeyApp]) != 0 || len(snap.Logs[KeyBoundary]) != 1 {
		t.Fatalf("snapshot = %+v", snap.Logs)
	}

	short := GenerateReport(snap, false)
	if !strings.Contains(short, "severity=high") || !strings.Contains(short, "on /payments") {
		t.Errorf("report missing fields:\n%s", short)
	}
	if strings.Contains(short, "goroutine 1") {
		t.Error("non-verbose report includes the stack")
	}
	if !strings.Contains(GenerateReport(snap, true), "goroutine 1") {
		t.Error("verbose report is missing the stack")
	}

	empty := GenerateReport(Snapshot{Logs: map[string][]model.ErrorRecord{}}, false)
	if !strings.Contains(empty, "No errors recorded") {
		t.Errorf("empty report = %q", empty)
	}
}
