package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStore_Swap(t *testing.T) {
	empty := NewStore(nil)
	assert.Nil(t, empty.Current())

	first := DefaultSnapshot()
	store := NewStore(first)
	assert.Same(t, first, store.Current())

	tables := DefaultTables()
	tables.Version = "next"
	second, err := NewSnapshot(tables)
	require.NoError(t, err)

	// a reader holding the old snapshot keeps a consistent view
	held := store.Current()
	prev := store.Swap(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, store.Current())
	assert.Equal(t, "2026.10-demo", held.Version())
}

const watchedTables = `
version: %s
plans:
  - id: plan_x
    total_price_by_line_count: {1: 105}
jurisdictions:
  - id: standard
`

func loadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tables, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(tables)
}

func writeTables(t *testing.T, path, version string) {
	t.Helper()
	doc := []byte(fmt.Sprintf(watchedTables, version))
	require.NoError(t, os.WriteFile(path, doc, 0o644))
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	writeTables(t, path, "v1")

	initial, err := loadFile(path)
	require.NoError(t, err)
	store := NewStore(initial)

	w, err := NewWatcher(path, store, loadFile, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	var mu sync.Mutex
	var attempts []error
	w.OnReload(func(_ *Snapshot, err error) {
		mu.Lock()
		defer mu.Unlock()
		attempts = append(attempts, err)
	})

	writeTables(t, path, "v2")
	require.NoError(t, w.Reload())
	assert.Equal(t, "v2", store.Current().Version())

	// a broken file keeps the previous snapshot
	require.NoError(t, os.WriteFile(path, []byte("plans: [broken"), 0o644))
	assert.Error(t, w.Reload())
	assert.Equal(t, "v2", store.Current().Version())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, attempts, 2)
	assert.NoError(t, attempts[0])
	assert.Error(t, attempts[1])
}

func TestWatcher_RunPicksUpWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	writeTables(t, path, "v1")

	initial, err := loadFile(path)
	require.NoError(t, err)
	store := NewStore(initial)

	w, err := NewWatcher(path, store, loadFile, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeTables(t, path, "v3")
	require.Eventually(t, func() bool {
		return store.Current().Version() == "v3"
	}, 5*time.Second, 20*time.Millisecond)

	plan, err := store.Current().Plan("plan_x")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanID("plan_x"), plan.ID)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
