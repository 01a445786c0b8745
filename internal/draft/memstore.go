package draft

import "sync"

// MemStore keeps the collection in memory. Used in tests and when the
// service runs without a data directory.
type MemStore struct {
	mu     sync.Mutex
	drafts []Draft
}

func NewMemStore() *MemStore {
	return &MemStore{drafts: []Draft{}}
}

func (s *MemStore) List() []Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *MemStore) Upsert(d Draft) ([]Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = upsert(s.drafts, d)
	return s.snapshotLocked(), nil
}

func (s *MemStore) Delete(id string) ([]Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = remove(s.drafts, id)
	return s.snapshotLocked(), nil
}

func (s *MemStore) snapshotLocked() []Draft {
	out := make([]Draft, len(s.drafts))
	copy(out, s.drafts)
	return out
}
