package draft

// Status is the lifecycle state of a saved draft.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusCompleted
}

// Draft is a persisted snapshot of a generated document plus its
// metadata. The JSON shape is the persisted wire format and must stay
// stable across versions.
type Draft struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	Status  Status `json:"status"`
	Content string `json:"content"`
}
