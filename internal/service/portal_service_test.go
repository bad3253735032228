package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rollmark/attendance-api/internal/ledger"
	"github.com/rollmark/attendance-api/internal/notify"
	"github.com/rollmark/attendance-api/internal/settings"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
)

type portalFixture struct {
	svc      *PortalService
	ledger   *ledger.Store
	settings *settings.Store
	marker   *notify.Marker
}

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()

	dir := t.TempDir()
	ledgerStore, err := ledger.NewStore(dir)
	require.NoError(t, err)
	settingsStore := settings.NewStore(filepath.Join(dir, "portal_settings.json"))
	marker := notify.NewMarker(filepath.Join(dir, "refresh_trigger.txt"))
	require.NoError(t, marker.EnsureExists())
	notifier := notify.NewNotifier(marker, nil, zap.NewNop())

	svc := NewPortalService(ledgerStore, settingsStore, notifier, zap.NewNop(), nil)
	f := &portalFixture{svc: svc, ledger: ledgerStore, settings: settingsStore, marker: marker}
	require.NoError(t, ledgerStore.Create("10A"))
	return f
}

func (f *portalFixture) signal(t *testing.T) string {
	t.Helper()
	value, err := f.marker.Current()
	require.NoError(t, err)
	return value
}

func TestPortalSettingsDefaults(t *testing.T) {
	f := newPortalFixture(t)

	entry, err := f.svc.Settings(context.Background(), "10A")
	require.NoError(t, err)
	assert.False(t, entry.Open)
	assert.Equal(t, "", entry.Token)
	assert.Equal(t, 1, entry.Limit)
}

func TestPortalOpsRequireExistingClassroom(t *testing.T) {
	f := newPortalFixture(t)
	ctx := context.Background()

	_, err := f.svc.Settings(ctx, "ghost")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.True(t, appErrors.Is(f.svc.SetOpen(ctx, "ghost", true, adminClaims(), ""), appErrors.ErrNotFound))
	assert.True(t, appErrors.Is(f.svc.SetToken(ctx, "ghost", "XYZ", adminClaims(), ""), appErrors.ErrNotFound))
	assert.True(t, appErrors.Is(f.svc.SetLimit(ctx, "ghost", 2, adminClaims(), ""), appErrors.ErrNotFound))
}

func TestSetOpenPersistsAndSignals(t *testing.T) {
	f := newPortalFixture(t)
	before := f.signal(t)

	require.NoError(t, f.svc.SetOpen(context.Background(), "10A", true, adminClaims(), "127.0.0.1"))

	entry, err := f.svc.Settings(context.Background(), "10A")
	require.NoError(t, err)
	assert.True(t, entry.Open)
	assert.NotEqual(t, before, f.signal(t))

	require.NoError(t, f.svc.SetOpen(context.Background(), "10A", false, adminClaims(), "127.0.0.1"))
	entry, err = f.svc.Settings(context.Background(), "10A")
	require.NoError(t, err)
	assert.False(t, entry.Open)
}

func TestSetTokenPersistsAndSignals(t *testing.T) {
	f := newPortalFixture(t)
	before := f.signal(t)

	require.NoError(t, f.svc.SetToken(context.Background(), "10A", "XYZ", adminClaims(), ""))

	entry, err := f.svc.Settings(context.Background(), "10A")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", entry.Token)
	assert.NotEqual(t, before, f.signal(t))
}

func TestSetLimitPersistsAndSignals(t *testing.T) {
	f := newPortalFixture(t)
	before := f.signal(t)

	require.NoError(t, f.svc.SetLimit(context.Background(), "10A", 7, adminClaims(), ""))

	entry, err := f.svc.Settings(context.Background(), "10A")
	require.NoError(t, err)
	assert.Equal(t, 7, entry.Limit)
	assert.NotEqual(t, before, f.signal(t))
}

func TestSetLimitRejectsBelowOne(t *testing.T) {
	f := newPortalFixture(t)
	before := f.signal(t)

	err := f.svc.SetLimit(context.Background(), "10A", 0, adminClaims(), "")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	// A rejected limit neither persists nor rotates the signal.
	entry, sErr := f.svc.Settings(context.Background(), "10A")
	require.NoError(t, sErr)
	assert.Equal(t, 1, entry.Limit)
	assert.Equal(t, before, f.signal(t))
}
