package notify

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarker(t *testing.T) *Marker {
	t.Helper()
	return NewMarker(filepath.Join(t.TempDir(), "refresh_trigger.txt"))
}

func TestEnsureExistsSeedsOnce(t *testing.T) {
	marker := newTestMarker(t)

	require.NoError(t, marker.EnsureExists())
	value, err := marker.Current()
	require.NoError(t, err)
	assert.Equal(t, "init", value)

	// A second call leaves the existing value alone.
	require.NoError(t, marker.EnsureExists())
	value, err = marker.Current()
	require.NoError(t, err)
	assert.Equal(t, "init", value)
}

func TestCurrentMissingReadsEmpty(t *testing.T) {
	marker := newTestMarker(t)

	value, err := marker.Current()
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSignalChangesValue(t *testing.T) {
	marker := newTestMarker(t)
	require.NoError(t, marker.EnsureExists())

	first, err := marker.Signal()
	require.NoError(t, err)
	assert.NotEqual(t, "init", first)

	second, err := marker.Signal()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	current, err := marker.Current()
	require.NoError(t, err)
	assert.Equal(t, second, current)
}

func TestWatchReturnsImmediatelyOnStaleValue(t *testing.T) {
	marker := newTestMarker(t)
	require.NoError(t, marker.EnsureExists())

	value, changed, err := marker.Watch(context.Background(), "older", time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "init", value)
}

func TestWatchObservesSignal(t *testing.T) {
	marker := newTestMarker(t)
	require.NoError(t, marker.EnsureExists())

	done := make(chan struct{})
	var value string
	var changed bool
	var err error
	go func() {
		defer close(done)
		value, changed, err = marker.Watch(context.Background(), "init", 5*time.Second, 5*time.Millisecond)
	}()

	time.Sleep(25 * time.Millisecond)
	fresh, sigErr := marker.Signal()
	require.NoError(t, sigErr)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not observe the signal")
	}
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, fresh, value)
}

func TestWatchTimesOutUnchanged(t *testing.T) {
	marker := newTestMarker(t)
	require.NoError(t, marker.EnsureExists())

	value, changed, err := marker.Watch(context.Background(), "init", 50*time.Millisecond, 5*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "init", value)
}

func TestWatchHonorsContextCancel(t *testing.T) {
	marker := newTestMarker(t)
	require.NoError(t, marker.EnsureExists())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, changed, err := marker.Watch(ctx, "init", 5*time.Second, 5*time.Millisecond)
	assert.False(t, changed)
	assert.ErrorIs(t, err, context.Canceled)
}
