package tui

import (
	"errors"
	"sync"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/boundary"
)

// fault is a demo failure armed from the keyboard and raised as a panic on
// the next render of its target.
type fault int

const (
	faultScreen  fault = iota // Generic error in the screen body
	faultChunk                // ChunkLoadError in the screen body
	faultTimeout              // Timeout in the screen body
	faultWidget               // Error inside the dashboard activity widget
	faultShell                // Error in the app chrome
)

func (f fault) err() error {
	switch f {
	case faultChunk:
		return boundary.NewNamedError(boundary.NameChunkLoadError, "Loading chunk 7 failed")
	case faultTimeout:
		return errors.New("request timeout while loading screen data")
	case faultWidget:
		return boundary.NewNamedError(boundary.NameTypeError, "cannot read property 'amount' of undefined")
	case faultShell:
		return errors.New("app shell crashed")
	default:
		return errors.New("unexpected render failure")
	}
}

// faultSet holds armed faults. Each one fires once.
type faultSet struct {
	mu    sync.Mutex
	armed map[fault]bool
}

func newFaultSet() *faultSet {
	return &faultSet{armed: make(map[fault]bool)}
}

func (s *faultSet) arm(f fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed[f] = true
}

// raise panics with f's error if f is armed, disarming it.
func (s *faultSet) raise(f fault) {
	s.mu.Lock()
	armed := s.armed[f]
	delete(s.armed, f)
	s.mu.Unlock()
	if armed {
		panic(f.err())
	}
}

func (s *faultSet) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = make(map[fault]bool)
}
