package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nyayalink/lexdraft/internal/document"
	"github.com/nyayalink/lexdraft/internal/draft"
)

// Step is one of the three ordered entry sub-steps. The closed enum plus
// the transition methods below replace the free integer counter the form
// historically used, so an out-of-range step cannot be represented.
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepDocumentDetails
	StepReview
)

// Next returns the following step, or ok=false from the last one.
// Forward movement requires no field validation: empty fields render as
// placeholders.
func (s Step) Next() (Step, bool) {
	if s < StepPersonalInfo || s >= StepReview {
		return s, false
	}
	return s + 1, true
}

// Prev returns the preceding step, or ok=false from the first one.
func (s Step) Prev() (Step, bool) {
	if s <= StepPersonalInfo || s > StepReview {
		return s, false
	}
	return s - 1, true
}

// Phase is the coarse state of a drafting session.
type Phase string

const (
	// PhaseEntry is multi-step data collection, StepReview included.
	PhaseEntry Phase = "entry"
	// PhaseGenerated means a rendered document is available for edit,
	// export and save.
	PhaseGenerated Phase = "generated"
	// PhaseEditingExisting is PhaseGenerated seeded from a saved draft
	// rather than a fresh form.
	PhaseEditingExisting Phase = "editing_existing"
)

var (
	ErrStepOutOfRange = errors.New("no step in that direction")
	ErrNotEntry       = errors.New("session is not in the entry phase")
	ErrNotGenerated   = errors.New("session has no generated document")
	ErrNotReview      = errors.New("session is not on the review step")
	ErrNoDocument     = errors.New("no document to save")
)

// Session walks one user through data entry, generation and editing of a
// single document. All methods are safe for concurrent use, though the
// model is a single interactive caller.
type Session struct {
	mu sync.Mutex

	ID   string
	Type document.Type

	step      Step
	phase     Phase
	fields    document.Fields
	doc       string
	editID    string
	updatedAt time.Time
}

// New starts a fresh entry session for the given document type.
func New(id string, typ document.Type) *Session {
	return &Session{
		ID:        id,
		Type:      typ,
		step:      StepPersonalInfo,
		phase:     PhaseEntry,
		updatedAt: time.Now(),
	}
}

// Resume starts a session directly in the editing phase from a saved
// draft. Form fields are recovered best-effort from the rendered text,
// for display only; editing them does not re-render the document.
func Resume(id string, typ document.Type, d draft.Draft) *Session {
	f := document.ExtractFields(d.Content)
	f.DocumentType = typ.Label()
	return &Session{
		ID:        id,
		Type:      typ,
		step:      StepReview,
		phase:     PhaseEditingExisting,
		fields:    f,
		doc:       d.Content,
		editID:    d.ID,
		updatedAt: time.Now(),
	}
}

// Advance moves entry to the next sub-step.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEntry {
		return ErrNotEntry
	}
	next, ok := s.step.Next()
	if !ok {
		return ErrStepOutOfRange
	}
	s.step = next
	s.touchLocked()
	return nil
}

// Back moves entry to the previous sub-step. From the first sub-step
// there is nowhere to go back to; cancelling the session is a separate
// operation owned by the registry.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEntry {
		return ErrNotEntry
	}
	prev, ok := s.step.Prev()
	if !ok {
		return ErrStepOutOfRange
	}
	s.step = prev
	s.touchLocked()
	return nil
}

// SetFields replaces the collected form data. Allowed in any phase: once
// a document exists it is decoupled from the fields, so later field edits
// never re-render over manual document edits.
func (s *Session) SetFields(f document.Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = f
	s.touchLocked()
}

// Generate renders the document from the current fields and moves the
// session to the generated phase. Rendering is local and deterministic;
// an unexpected internal fault is reported as a generic error and leaves
// the collected fields intact.
func (s *Session) Generate(now time.Time) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEntry {
		return ErrNotEntry
	}
	if s.step != StepReview {
		return ErrNotReview
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to generate document: %v", r)
		}
	}()

	s.doc = document.Render(s.Type, s.fields, now)
	s.phase = PhaseGenerated
	s.touchLocked()
	return nil
}

// ReturnToForm discards the rendered document and goes back to entry,
// keeping every collected field.
func (s *Session) ReturnToForm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGenerated && s.phase != PhaseEditingExisting {
		return ErrNotGenerated
	}
	s.doc = ""
	s.phase = PhaseEntry
	s.touchLocked()
	return nil
}

// SetDocument replaces the document of record with free-text edits. The
// edited text stays decoupled from the form fields.
func (s *Session) SetDocument(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseGenerated && s.phase != PhaseEditingExisting {
		return ErrNotGenerated
	}
	s.doc = text
	s.touchLocked()
	return nil
}

// BuildDraft packages the current document for persistence. A session
// opened via resume keeps its original id so saving overwrites the same
// entry; a fresh session mints a new id on every call, so callers save
// the returned draft and then resume it to keep overwriting.
func (s *Session) BuildDraft(now time.Time) (draft.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == "" {
		return draft.Draft{}, ErrNoDocument
	}

	id := s.editID
	if id == "" {
		id = draft.NewID()
		s.editID = id
		s.phase = PhaseEditingExisting
	}

	purpose := s.fields.Purpose
	if purpose == "" {
		purpose = "Draft"
	}
	label := s.Type.Label()

	s.touchLocked()
	return draft.Draft{
		ID:      id,
		Title:   label + " - " + purpose,
		Type:    label,
		Date:    now.Format("1/2/2006"),
		Status:  draft.StatusDraft,
		Content: s.doc,
	}, nil
}

// Snapshot is a JSON-safe copy of session state.
type Snapshot struct {
	ID       string          `json:"session_id"`
	TypeID   int             `json:"type_id"`
	TypeName string          `json:"type"`
	Step     int             `json:"step"`
	Phase    Phase           `json:"phase"`
	Fields   document.Fields `json:"fields"`
	Document string          `json:"document"`
	EditID   string          `json:"edit_id,omitempty"`
}

// Snapshot returns a copy of the session state for API responses.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:       s.ID,
		TypeID:   int(s.Type),
		TypeName: s.Type.Label(),
		Step:     int(s.step),
		Phase:    s.phase,
		Fields:   s.fields,
		Document: s.doc,
		EditID:   s.editID,
	}
}

// UpdatedAt reports the last mutation time, used for registry eviction.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touchLocked() {
	s.updatedAt = time.Now()
}
