package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Marker is the shared change signal: a single file whose textual content is
// an opaque, strictly-changing token. Consumers only compare values; the
// timestamp form is for human debugging.
type Marker struct {
	path string
}

// NewMarker returns a marker backed by the given file path.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// EnsureExists seeds the marker file so first-boot readers have a value to
// diff against.
func (m *Marker) EnsureExists() error {
	if _, err := os.Stat(m.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}
	if err := os.WriteFile(m.path, []byte("init"), 0o644); err != nil {
		return fmt.Errorf("seed marker file: %w", err)
	}
	return nil
}

// Signal writes a fresh distinguishing value and returns it. Values are
// RFC3339Nano timestamps, strictly changing between calls.
func (m *Marker) Signal() (string, error) {
	value := time.Now().UTC().Format(time.RFC3339Nano)
	if current, err := m.Current(); err == nil && current == value {
		time.Sleep(time.Nanosecond)
		value = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if err := os.WriteFile(m.path, []byte(value), 0o644); err != nil {
		return "", fmt.Errorf("write marker file: %w", err)
	}
	return value, nil
}

// Current reads the present signal value. A missing file reads as empty.
func (m *Marker) Current() (string, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read marker file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Watch blocks until the signal differs from lastSeen, the timeout elapses
// or ctx is done. It returns the observed value and whether it changed.
func (m *Marker) Watch(ctx context.Context, lastSeen string, timeout, interval time.Duration) (string, bool, error) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	current, err := m.Current()
	if err != nil {
		return lastSeen, false, err
	}
	if current != lastSeen {
		return current, true, nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return lastSeen, false, ctx.Err()
		case <-deadline.C:
			return lastSeen, false, nil
		case <-ticker.C:
			current, err := m.Current()
			if err != nil {
				return lastSeen, false, err
			}
			if current != lastSeen {
				return current, true, nil
			}
		}
	}
}
