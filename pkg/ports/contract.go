package ports

import (
	"context"
	"testing"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCoverageStoreContract runs a suite of tests to verify that a CoverageStore
// implementation adheres to the defined interface contract.
// The store must be empty when the contract starts.
func RunCoverageStoreContract(t *testing.T, store CoverageStore) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, report)
		assert.Empty(t, report)
	})

	t.Run("Merge and Load", func(t *testing.T) {
		err := store.Merge(ctx, domain.Report{
			"app/models/user.go": {1: 1, 2: 0, 7: 3},
			"app/main.go":        {3: 1},
		})
		require.NoError(t, err)

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.LineHits{1: 1, 2: 0, 7: 3}, report["app/models/user.go"])
		assert.Equal(t, domain.LineHits{3: 1}, report["app/main.go"])
	})

	t.Run("Merge Accumulates", func(t *testing.T) {
		err := store.Merge(ctx, domain.Report{
			"app/models/user.go": {2: 2, 7: 1, 9: 0},
		})
		require.NoError(t, err)

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.LineHits{1: 1, 2: 2, 7: 4, 9: 0}, report["app/models/user.go"])
	})

	t.Run("Merge Empty", func(t *testing.T) {
		require.NoError(t, store.Merge(ctx, domain.Report{}))
		require.NoError(t, store.Merge(ctx, nil))
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		report, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, report)

		// Clearing an empty store is not an error.
		require.NoError(t, store.Clear(ctx))
	})
}
