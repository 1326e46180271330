package model

import "time"

// Level is where an error boundary sits in the screen tree.
type Level string

const (
	LevelApp       Level = "app"
	LevelScreen    Level = "screen"
	LevelComponent Level = "component"
)

// Severity ranks a caught error.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// LoadingKind classifies loading-class failures.
type LoadingKind string

const (
	LoadingNetwork LoadingKind = "network"
	LoadingChunk   LoadingKind = "chunk"
	LoadingTimeout LoadingKind = "timeout"
	LoadingGeneric LoadingKind = "generic"
)

// ErrorRecord is one caught error as persisted in the diagnostic logs.
type ErrorRecord struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Message        string      `json:"message"`
	Stack          string      `json:"stack,omitempty"`
	ComponentStack string      `json:"componentStack,omitempty"`
	Level          Level       `json:"level,omitempty"`
	Severity       Severity    `json:"severity,omitempty"`
	Kind           LoadingKind `json:"kind,omitempty"` // Set for loading-class errors only
	Path           string      `json:"path,omitempty"` // Screen the error happened on
	RetryCount     int         `json:"retryCount"`
	Timestamp      time.Time   `json:"timestamp"`
}
