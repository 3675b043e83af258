package score

import (
	"context"
	"sync"
)

// MemoryStore keeps the best score for the life of the process.
type MemoryStore struct {
	mu   sync.Mutex
	best int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best, nil
}

func (s *MemoryStore) WriteIfHigher(ctx context.Context, score int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if score <= s.best {
		return false, nil
	}
	s.best = score
	return true, nil
}

func (s *MemoryStore) Close() error { return nil }
