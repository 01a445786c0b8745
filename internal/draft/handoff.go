package draft

import "sync"

// Handoff is the one-shot slot that carries a draft from the list view
// into a resumed edit session. Take clears the slot, so a value is read
// at most once; it is not a queue.
type Handoff struct {
	mu    sync.Mutex
	draft *Draft
}

func NewHandoff() *Handoff {
	return &Handoff{}
}

// Put places d in the slot, replacing any unread value.
func (h *Handoff) Put(d Draft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.draft = &d
}

// Take removes and returns the slotted draft, if any.
func (h *Handoff) Take() (Draft, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draft == nil {
		return Draft{}, false
	}
	d := *h.draft
	h.draft = nil
	return d, true
}
