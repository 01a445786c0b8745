package session

import (
	"context"
	"sync"
	"time"

	"github.com/nyayalink/lexdraft/internal/document"
	"github.com/nyayalink/lexdraft/internal/draft"
)

// Registry is a thread-safe in-memory session table with TTL eviction.
// Abandoned wizards age out; there is nothing to persist, since only
// saved drafts survive a session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create starts a fresh entry session and registers it.
func (r *Registry) Create(typ document.Type) *Session {
	s := New(draft.NewID(), typ)
	r.put(s)
	return s
}

// CreateResumed starts a session seeded from a saved draft and registers it.
func (r *Registry) CreateResumed(typ document.Type, d draft.Draft) *Session {
	s := Resume(draft.NewID(), typ, d)
	r.put(s)
	return s
}

// Get returns a session by id, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

// Remove drops a session. Cancelling the wizard exits the session
// entirely; collected fields are discarded.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Cleanup evicts sessions idle longer than the TTL.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, s := range r.sessions {
		if now.Sub(s.UpdatedAt()) > r.ttl {
			delete(r.sessions, id)
		}
	}
}

// Start launches the background eviction loop.
func (r *Registry) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				r.Cleanup()
			}
		}
	}()
}

// Stop halts the eviction loop.
func (r *Registry) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Registry) put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}
