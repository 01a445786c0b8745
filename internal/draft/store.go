package draft

// Store is keyed persistence for the draft collection. Implementations
// rewrite the whole collection on every mutation; there is no patch or
// append path. The model is single-writer, single-reader: two concurrent
// processes sharing one store can clobber each other, which is accepted
// for a single interactive session.
type Store interface {
	// List returns the persisted collection. Missing or corrupt storage
	// yields an empty collection, never an error.
	List() []Draft

	// Upsert replaces the entry whose id matches d.ID, or appends d if
	// none does, and returns the resulting collection.
	Upsert(d Draft) ([]Draft, error)

	// Delete removes the entry with the given id and returns the
	// resulting collection. A missing id is a no-op, not an error.
	Delete(id string) ([]Draft, error)
}

// upsert applies Store upsert semantics to a collection in memory.
func upsert(drafts []Draft, d Draft) []Draft {
	for i := range drafts {
		if drafts[i].ID == d.ID {
			drafts[i] = d
			return drafts
		}
	}
	return append(drafts, d)
}

// remove applies Store delete semantics to a collection in memory.
func remove(drafts []Draft, id string) []Draft {
	out := drafts[:0]
	for _, d := range drafts {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}
