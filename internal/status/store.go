package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/treinasus/admin-api/internal/model"
)

// Store is the persistence adapter behind the registry. Production uses
// the file-backed store; tests substitute MemoryStore.
type Store interface {
	Load() ([]model.ClassStatus, error)
	Save(statuses []model.ClassStatus) error
}

// FileStore persists the status vocabulary as a JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]model.ClassStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read status store: %w", err)
	}

	var statuses []model.ClassStatus
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, fmt.Errorf("failed to decode status store: %w", err)
	}
	return statuses, nil
}

func (s *FileStore) Save(statuses []model.ClassStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create status store dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write status store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace status store: %w", err)
	}
	return nil
}

// MemoryStore keeps statuses in memory. Used in tests.
type MemoryStore struct {
	mu       sync.Mutex
	statuses []model.ClassStatus
}

func NewMemoryStore(seed []model.ClassStatus) *MemoryStore {
	return &MemoryStore{statuses: append([]model.ClassStatus(nil), seed...)}
}

func (s *MemoryStore) Load() ([]model.ClassStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ClassStatus(nil), s.statuses...), nil
}

func (s *MemoryStore) Save(statuses []model.ClassStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append([]model.ClassStatus(nil), statuses...)
	return nil
}
