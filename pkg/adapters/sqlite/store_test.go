package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/tally/pkg/adapters/sqlite"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "coverage.db"))
	ports.RunCoverageStoreContract(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "coverage.db")

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Merge(ctx, domain.Report{"main.go": {1: 4, 2: 0}}))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	report, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Report{"main.go": {1: 4, 2: 0}}, report)
}

func TestSQLiteStore_OpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseNil(t *testing.T) {
	var store *sqlite.Store
	assert.NoError(t, store.Close())
}
