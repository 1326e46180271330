package errlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

// Snapshot holds the contents of several logs, keyed by store key.
type Snapshot struct {
	Logs map[string][]model.ErrorRecord `json:"logs"`
}

// Collect reads every log into a Snapshot.
func Collect(ctx context.Context, logs ...*Log) (Snapshot, error) {
	snap := Snapshot{Logs: make(map[string][]model.ErrorRecord, len(logs))}
	for _, l := range logs {
		entries, err := l.Entries(ctx)
		if err != nil {
			return snap, err
		}
		if entries == nil {
			entries = []model.ErrorRecord{}
		}
		snap.Logs[l.Key()] = entries
	}
	return snap, nil
}

// GenerateReport renders the snapshot as plain text. Verbose includes
// stacks.
func GenerateReport(snap Snapshot, verbose bool) string {
	var b strings.Builder
	b.WriteString("JuPay diagnostic report\n")
	b.WriteString("=======================\n")

	total := 0
	for _, key := range []string{KeyApp, KeyBoundary, KeyLoading} {
		entries, ok := snap.Logs[key]
		if !ok {
			continue
		}
		total += len(entries)
		fmt.Fprintf(&b, "\n[%s] %d entr%s\n", key, len(entries), plural(len(entries)))
		for i, e := range entries {
			fmt.Fprintf(&b, "  %d. %s  %s", i+1, e.Timestamp.Format(time.RFC3339), e.ID)
			if e.Severity != "" {
				fmt.Fprintf(&b, "  severity=%s", e.Severity)
			}
			if e.Kind != "" {
				fmt.Fprintf(&b, "  kind=%s", e.Kind)
			}
			if e.Level != "" {
				fmt.Fprintf(&b, "  level=%s", e.Level)
			}
			b.WriteString("\n")
			fmt.Fprintf(&b, "     %s: %s\n", e.Name, e.Message)
			if e.Path != "" {
				fmt.Fprintf(&b, "     on %s, retries %d\n", e.Path, e.RetryCount)
			}
			if verbose && e.Stack != "" {
				for _, line := range strings.Split(strings.TrimRight(e.Stack, "\n"), "\n") {
					b.WriteString("       " + line + "\n")
				}
			}
		}
	}
	if total == 0 {
		b.WriteString("\nNo errors recorded.\n")
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
