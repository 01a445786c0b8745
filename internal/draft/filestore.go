package draft

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// storeFilename is the fixed slot the collection lives under.
const storeFilename = "savedDocumentDrafts.json"

// FileStore persists the draft collection as a single JSON array on disk.
// Every mutation rewrites the whole file.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

// NewFileStore creates a store rooted at dir, creating dir if needed.
func NewFileStore(dir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{
		path: filepath.Join(dir, storeFilename),
		log:  log,
	}, nil
}

func (s *FileStore) List() []Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore) Upsert(d Draft) ([]Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := upsert(s.readLocked(), d)
	if err := s.writeLocked(drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (s *FileStore) Delete(id string) ([]Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := remove(s.readLocked(), id)
	if err := s.writeLocked(drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// readLocked loads the collection. A missing file is a fresh install and
// a corrupt file is local scratch damage; both read as empty, logged for
// diagnostics only.
func (s *FileStore) readLocked() []Draft {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("draft store unreadable, starting empty", "path", s.path, "error", err)
		}
		return []Draft{}
	}

	var drafts []Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		s.log.Warn("draft store corrupt, starting empty", "path", s.path, "error", err)
		return []Draft{}
	}
	if drafts == nil {
		drafts = []Draft{}
	}
	return drafts
}

func (s *FileStore) writeLocked(drafts []Draft) error {
	data, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal drafts: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write drafts: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace drafts file: %w", err)
	}
	return nil
}
