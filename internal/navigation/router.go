package navigation

import "sync"

// MemoryRouter is a Router that only remembers the current path. It backs
// the web mode and tests, where there is no screen to switch.
type MemoryRouter struct {
	mu      sync.Mutex
	current string
	changes int
}

// NewMemoryRouter returns a router positioned at start.
func NewMemoryRouter(start string) *MemoryRouter {
	return &MemoryRouter{current: start}
}

func (r *MemoryRouter) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
	r.changes++
}

func (r *MemoryRouter) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Changes reports how many times Navigate has been called.
func (r *MemoryRouter) Changes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes
}
