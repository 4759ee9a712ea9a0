package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niva-gps/internal/geo"
)

func newTestStore(t *testing.T, clock clockwork.Clock) *SqliteStore {
	t.Helper()
	s := NewSqliteStore(filepath.Join(t.TempDir(), "waypoints.db"), clock)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return s
}

func mustWaypoint(t *testing.T, lat, lon geo.Degrees, alt geo.Metres) geo.Waypoint {
	t.Helper()
	w, err := geo.NewWaypoint(lat, lon, alt)
	require.NoError(t, err)
	return w
}

func TestSqliteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	s := newTestStore(t, clock)

	id, err := s.CreateScan(ctx, "flight-1.log")
	require.NoError(t, err)

	want := []geo.Waypoint{
		mustWaypoint(t, 45.67, -23.24, 231.56),
		mustWaypoint(t, 78.6125, -23.715556, 23.62),
		mustWaypoint(t, -78.6125, 23.232222, 56.89),
	}
	require.NoError(t, s.SaveWaypoints(ctx, id, want))

	got, err := s.Waypoints(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSqliteStore_SaveAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	id, err := s.CreateScan(ctx, "stdin")
	require.NoError(t, err)

	first := mustWaypoint(t, 1, 2, 3)
	second := mustWaypoint(t, 4, 5, 6)
	third := mustWaypoint(t, 7, 8, 9)
	require.NoError(t, s.SaveWaypoints(ctx, id, []geo.Waypoint{first, second}))
	require.NoError(t, s.SaveWaypoints(ctx, id, nil))
	require.NoError(t, s.SaveWaypoints(ctx, id, []geo.Waypoint{third}))

	got, err := s.Waypoints(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []geo.Waypoint{first, second, third}, got)
}

func TestSqliteStore_ScansAreSeparate(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	s := newTestStore(t, clock)

	a, err := s.CreateScan(ctx, "a.log")
	require.NoError(t, err)
	clock.Advance(90 * time.Second)
	b, err := s.CreateScan(ctx, "b.log")
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.NoError(t, s.SaveWaypoints(ctx, a, []geo.Waypoint{mustWaypoint(t, 1, 1, 1)}))
	require.NoError(t, s.SaveWaypoints(ctx, b, []geo.Waypoint{mustWaypoint(t, 2, 2, 2), mustWaypoint(t, 3, 3, 3)}))

	scans, err := s.Scans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 2)

	assert.Equal(t, Scan{ID: a, Source: "a.log", StartedAt: time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC), Waypoints: 1}, scans[0])
	assert.Equal(t, Scan{ID: b, Source: "b.log", StartedAt: time.Date(2024, time.April, 26, 15, 11, 30, 0, time.UTC), Waypoints: 2}, scans[1])

	got, err := s.Waypoints(ctx, a)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSqliteStore_EmptyScan(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	scans, err := s.Scans(ctx)
	require.NoError(t, err)
	assert.Empty(t, scans)

	id, err := s.CreateScan(ctx, "empty.log")
	require.NoError(t, err)
	got, err := s.Waypoints(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSqliteStore_UnknownScan(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	err := s.SaveWaypoints(ctx, 42, []geo.Waypoint{mustWaypoint(t, 1, 1, 1)})
	assert.True(t, errors.Is(err, ErrScanNotFound), "err=%v", err)

	_, err = s.Waypoints(ctx, 42)
	assert.True(t, errors.Is(err, ErrScanNotFound), "err=%v", err)
}

func TestSqliteStore_CancelledContext(t *testing.T) {
	s := newTestStore(t, nil)
	id, err := s.CreateScan(context.Background(), "x.log")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, s.SaveWaypoints(ctx, id, []geo.Waypoint{mustWaypoint(t, 1, 1, 1)}))

	got, err := s.Waypoints(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSqliteStore_CloseIsIdempotent(t *testing.T) {
	s := NewSqliteStore(filepath.Join(t.TempDir(), "w.db"), nil)
	_, err := s.CreateScan(context.Background(), "x.log")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestSqliteStore_BadPath(t *testing.T) {
	s := NewSqliteStore(filepath.Join(t.TempDir(), "missing", "dir", "w.db"), nil)
	defer s.Close()

	_, err := s.CreateScan(context.Background(), "x.log")
	require.Error(t, err)
	_, err = s.Scans(context.Background())
	require.Error(t, err)
}
