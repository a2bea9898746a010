package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"abrengine/internal/domain"
)

const (
	modelFile   = "network_model.bin"
	viewingFile = "viewing_patterns.json"
)

// Store persists controller state as flat files in one directory: the opaque
// model blob and the viewing history as JSON.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) SaveModel(data []byte) error {
	return s.writeAtomic(modelFile, data)
}

func (s *Store) LoadModel() ([]byte, bool, error) {
	return s.read(modelFile)
}

func (s *Store) SaveViewing(records []domain.ViewingRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode viewing history: %w", err)
	}
	return s.writeAtomic(viewingFile, data)
}

func (s *Store) LoadViewing() ([]domain.ViewingRecord, bool, error) {
	data, ok, err := s.read(viewingFile)
	if err != nil || !ok {
		return nil, ok, err
	}
	var records []domain.ViewingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("decode viewing history: %w", err)
	}
	return records, true, nil
}

// writeAtomic writes to a temp file first, then renames for atomicity so a
// crash mid-save never leaves a truncated state file behind.
func (s *Store) writeAtomic(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) read(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", name, err)
	}
	return data, true, nil
}
