package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sentinel conditions surfaced by Read. Services map these onto the API error
// taxonomy; ErrEmpty in particular is control flow, not a failure — callers
// substitute the default two-column table.
var (
	ErrMissing = errors.New("ledger: storage missing")
	ErrEmpty   = errors.New("ledger: empty storage")
	ErrFormat  = errors.New("ledger: required columns missing")
)

const fileExt = ".csv"

// Store persists one CSV ledger per classroom under a base directory and
// hands out a per-classroom mutex so the read-modify-write cycle of a
// submission is serialized within the process.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore ensures the data directory exists and returns a handle.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Locker returns the mutex guarding the named classroom's ledger. Callers
// hold it across the whole read-modify-write cycle.
func (s *Store) Locker(classroom string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[classroom]
	if !ok {
		l = &sync.Mutex{}
		s.locks[classroom] = l
	}
	return l
}

// Exists reports whether storage exists for the classroom.
func (s *Store) Exists(classroom string) bool {
	_, err := os.Stat(s.path(classroom))
	return err == nil
}

// Create initializes an empty ledger with the two fixed columns. No-op when
// storage already exists.
func (s *Store) Create(classroom string) error {
	if s.Exists(classroom) {
		return nil
	}
	return s.Write(classroom, NewTable())
}

// Delete removes the ledger entirely. No-op when absent.
func (s *Store) Delete(classroom string) error {
	if err := os.Remove(s.path(classroom)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete ledger: %w", err)
	}
	return nil
}

// List enumerates classrooms with existing storage, sorted by name. Only
// ledger files count; the settings blob and marker live under the same
// directory but carry different extensions.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Read loads the full ledger. Returns ErrMissing when no storage exists,
// ErrEmpty when the file holds no header, and ErrFormat when the fixed
// columns are absent or the CSV is malformed.
func (s *Store) Read(classroom string) (*Table, error) {
	f, err := os.Open(s.path(classroom))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissing
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	table := &Table{Columns: records[0]}
	if !table.HasColumn(ColumnRoll) || !table.HasColumn(ColumnName) {
		return nil, ErrFormat
	}

	table.Rows = make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Write sorts the table by roll number and overwrites the ledger in full.
// The write goes through a temp file and rename so readers never observe a
// partially written ledger.
func (s *Store) Write(classroom string, table *Table) error {
	table.Sort()

	tmp, err := os.CreateTemp(s.dir, classroom+".*.tmp")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	writer := csv.NewWriter(tmp)
	if err := writer.Write(table.Columns); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			tmp.Close() //nolint:errcheck,gosec
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(classroom)); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func (s *Store) path(classroom string) string {
	return filepath.Join(s.dir, classroom+fileExt)
}
