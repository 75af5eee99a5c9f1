package orchestrator

import "sync"

// ResultStore provides thread-safe storage for payment results, keyed by
// order reference.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]Result
}

// NewResultStore creates a new empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string]Result),
	}
}

// Save stores a payment result. Results without an order reference (early
// validation failures) are not retrievable and are skipped.
func (s *ResultStore) Save(result Result) {
	if result.OrderReference == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.OrderReference] = result
}

// Get retrieves a payment result by order reference.
func (s *ResultStore) Get(orderReference string) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[orderReference]
	return r, ok
}
