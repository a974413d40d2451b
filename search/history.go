package search

import "sync"

// History is an append-only record of the queries seen during the process
// lifetime. It is owned by the Service rather than living in package-level
// state, and tolerates concurrent appends and reads.
type History struct {
	mu      sync.Mutex
	entries []string
}

// Append records a query.
func (h *History) Append(query string) {
	h.mu.Lock()
	h.entries = append(h.entries, query)
	h.mu.Unlock()
}

// Snapshot returns a copy of the recorded queries in append order.
func (h *History) Snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
