package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rollmark/attendance-api/internal/models"
)

// ErrInvalidLimit is returned when a capacity limit below 1 is submitted.
// The store is the single validation boundary for limits.
var ErrInvalidLimit = errors.New("settings: limit must be at least 1")

// Snapshot is the full tri-map settings blob. Every mutation rewrites the
// whole snapshot; there is no partial-field update primitive.
type Snapshot struct {
	Status map[string]bool   `json:"status"`
	Codes  map[string]string `json:"codes"`
	Limits map[string]int    `json:"limits"`
}

// NewSnapshot returns an all-empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{
		Status: make(map[string]bool),
		Codes:  make(map[string]string),
		Limits: make(map[string]int),
	}
}

// Get resolves the per-classroom tuple, applying defaults for absent
// entries: closed portal, empty token, limit 1.
func (s Snapshot) Get(classroom string) models.ClassroomSettings {
	entry := models.ClassroomSettings{
		Classroom: classroom,
		Open:      s.Status[classroom],
		Token:     s.Codes[classroom],
		Limit:     models.DefaultLimit,
	}
	if limit, ok := s.Limits[classroom]; ok && limit >= 1 {
		entry.Limit = limit
	}
	return entry
}

// Store persists the settings blob as JSON. The persisted file is the sole
// source of truth: mutators load fresh, mutate and save, so no stale
// in-process cache survives across requests.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store writing to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the blob. A missing file yields an empty snapshot with no
// error; a corrupt file yields an empty snapshot plus the error so the
// caller can surface it without blocking the portal.
func (s *Store) Load() (Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), nil
		}
		return NewSnapshot(), fmt.Errorf("read settings blob: %w", err)
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(raw, &snap); err != nil {
		return NewSnapshot(), fmt.Errorf("decode settings blob: %w", err)
	}
	if snap.Status == nil {
		snap.Status = make(map[string]bool)
	}
	if snap.Codes == nil {
		snap.Codes = make(map[string]string)
	}
	if snap.Limits == nil {
		snap.Limits = make(map[string]int)
	}
	return snap, nil
}

// Save overwrites the entire blob through a temp file and rename.
func (s *Store) Save(snap Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings blob: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "settings.*.tmp")
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return fmt.Errorf("write settings blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings blob: %w", err)
	}
	return nil
}

// SetOpen flips the portal gate for a classroom.
func (s *Store) SetOpen(classroom string, open bool) error {
	return s.mutate(func(snap *Snapshot) error {
		snap.Status[classroom] = open
		return nil
	})
}

// SetToken replaces the attendance token for a classroom.
func (s *Store) SetToken(classroom, token string) error {
	return s.mutate(func(snap *Snapshot) error {
		snap.Codes[classroom] = token
		return nil
	})
}

// SetLimit replaces the daily capacity limit for a classroom. Limits below
// 1 are rejected, never clamped.
func (s *Store) SetLimit(classroom string, limit int) error {
	if limit < 1 {
		return ErrInvalidLimit
	}
	return s.mutate(func(snap *Snapshot) error {
		snap.Limits[classroom] = limit
		return nil
	})
}

// Purge removes the classroom from all three maps. No-op when absent.
func (s *Store) Purge(classroom string) error {
	return s.mutate(func(snap *Snapshot) error {
		delete(snap.Status, classroom)
		delete(snap.Codes, classroom)
		delete(snap.Limits, classroom)
		return nil
	})
}

// mutate serializes load-mutate-save cycles within the process. A corrupt
// blob is replaced by the mutated empty snapshot rather than blocking the
// admin.
func (s *Store) mutate(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, _ := s.Load()
	if err := fn(&snap); err != nil {
		return err
	}
	return s.Save(snap)
}
