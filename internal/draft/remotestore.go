package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// storeKey is the fixed slot the collection lives under on the remote
// key-value service. It matches the file store's filename stem so the two
// backends stay interchangeable.
const storeKey = "savedDocumentDrafts"

// RemoteStore persists the draft collection under a single key on an HTTP
// key-value service. Like the file store it rewrites the whole collection
// on every mutation; the remote node value is the serialized array.
type RemoteStore struct {
	mu         sync.Mutex
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

func NewRemoteStore(baseURL, apiKey string, log *slog.Logger) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// nodeBody is the wire shape for both directions: the value under the key.
type nodeBody struct {
	Value []Draft `json:"value"`
}

func (s *RemoteStore) List() []Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetch()
}

func (s *RemoteStore) Upsert(d Draft) ([]Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := upsert(s.fetch(), d)
	if err := s.put(drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (s *RemoteStore) Delete(id string) ([]Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := remove(s.fetch(), id)
	if err := s.put(drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// fetch reads the collection. Network faults, missing keys and undecodable
// values all read as empty: the remote slot has the same scratch-storage
// trust level as the local file.
func (s *RemoteStore) fetch() []Draft {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/kv/"+storeKey, nil)
	if err != nil {
		s.log.Warn("remote draft store request failed, starting empty", "error", err)
		return []Draft{}
	}
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn("remote draft store unreachable, starting empty", "error", err)
		return []Draft{}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []Draft{}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.log.Warn("remote draft store read failed, starting empty",
			"status", resp.StatusCode, "body", string(body))
		return []Draft{}
	}

	var node nodeBody
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		s.log.Warn("remote draft store corrupt, starting empty", "error", err)
		return []Draft{}
	}
	if node.Value == nil {
		return []Draft{}
	}
	return node.Value
}

func (s *RemoteStore) put(drafts []Draft) error {
	body, err := json.Marshal(nodeBody{Value: drafts})
	if err != nil {
		return fmt.Errorf("marshal drafts: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, s.baseURL+"/kv/"+storeKey, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put drafts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put drafts: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (s *RemoteStore) authorize(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}

// Close releases idle connections.
func (s *RemoteStore) Close() {
	s.httpClient.CloseIdleConnections()
}
