package boundary

import (
	"strings"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

// ClassifySeverity derives a severity from the boundary level and the
// error's name and message. App-level failures are always critical and
// screen-level failures high; below that chunk-load and type errors are
// medium and everything else low.
func ClassifySeverity(level model.Level, name, message string) model.Severity {
	switch level {
	case model.LevelApp:
		return model.SeverityCritical
	case model.LevelScreen:
		return model.SeverityHigh
	}
	if name == NameChunkLoadError || name == NameTypeError || strings.Contains(message, "Loading chunk") {
		return model.SeverityMedium
	}
	return model.SeverityLow
}

var loadingMarkers = []string{"Loading chunk", "Failed to fetch", "NetworkError", "timeout"}

// IsLoadingError reports whether err looks like a loading, network or
// timeout failure.
func IsLoadingError(err error) bool {
	if err == nil {
		return false
	}
	if ErrorName(err) == NameChunkLoadError {
		return true
	}
	msg := err.Error()
	for _, m := range loadingMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// ClassifyLoadingError sorts a loading failure into exactly one kind.
// Chunk errors are checked first, then fetch and network failures, then
// timeouts.
func ClassifyLoadingError(err error) model.LoadingKind {
	if err == nil {
		return model.LoadingGeneric
	}
	msg := err.Error()
	switch {
	case ErrorName(err) == NameChunkLoadError || strings.Contains(msg, "Loading chunk"):
		return model.LoadingChunk
	case strings.Contains(msg, "Failed to fetch") || strings.Contains(msg, "NetworkError") || strings.Contains(msg, "fetch"):
		return model.LoadingNetwork
	case strings.Contains(msg, "timeout"):
		return model.LoadingTimeout
	default:
		return model.LoadingGeneric
	}
}

// BackoffDelay returns the wait before retry number retryCount+1:
// base doubled per previous attempt, capped at limit.
func BackoffDelay(retryCount int, base, limit time.Duration) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	delay := base
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= limit {
			return limit
		}
	}
	if delay > limit {
		return limit
	}
	return delay
}
