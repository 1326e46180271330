package boundary

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/metrics"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

// Info carries context about where an error was caught.
type Info struct {
	ComponentStack string
	Path           string
}

// logWriteTimeout bounds a single persistent log write.
const logWriteTimeout = 2 * time.Second

func newRecordID(now time.Time) string {
	return fmt.Sprintf("error_%d_%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}

func newRecord(c clock.Clock, err error, info Info) model.ErrorRecord {
	now := c.Now()
	return model.ErrorRecord{
		ID:             newRecordID(now),
		Name:           ErrorName(err),
		Message:        err.Error(),
		Stack:          StackOf(err),
		ComponentStack: info.ComponentStack,
		Path:           info.Path,
		Timestamp:      now.UTC(),
	}
}

// persist appends rec to l. Failures are reported and swallowed: the
// user-facing flow never depends on the diagnostic log.
func persist(logger *slog.Logger, l *errlog.Log, rec model.ErrorRecord) {
	if l == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), logWriteTimeout)
	defer cancel()
	if err := l.Append(ctx, rec); err != nil {
		metrics.ErrorLogWriteFailures.WithLabelValues(l.Key()).Inc()
		logger.Warn("failed to persist error record", "log", l.Key(), "id", rec.ID, "error", err)
	}
}

// recoverRender runs fn and converts a panic into a *PanicError. The raw
// panic value is returned alongside so it can be re-raised unchanged.
func recoverRender(c clock.Clock, fn func()) (perr *PanicError, value any) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				value = r
				perr = &PanicError{Value: r, StackTrace: string(debug.Stack()), Timestamp: c.Now()}
			}
		}()
		fn()
	}()
	return perr, value
}
