package reload_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/reload"
	"github.com/aretw0/tally/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_ReloadAndReconfigure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	first := writeFile(t, dir, "base.yaml", "title: Base\nignore:\n  - vendor\n")
	second := writeFile(t, dir, "override.yaml", "title: Override\nroot: example.com/app\n")

	var applied []report.Settings
	l := reload.New(func(s report.Settings) { applied = append(applied, s) })

	require.NoError(t, l.Reload(ctx, first))
	require.NoError(t, l.Reload(ctx, second))
	require.NoError(t, l.Reconfigure(ctx))

	require.Len(t, applied, 1)
	assert.Equal(t, report.Settings{
		Title:  "Override",
		Ignore: []string{"vendor"},
		Root:   "example.com/app",
	}, applied[0])
}

func TestLoader_ReconfigureWithoutFragmentsAppliesBase(t *testing.T) {
	var got report.Settings
	base := report.Settings{Title: "Base", Ignore: []string{"gen"}}
	l := reload.New(func(s report.Settings) { got = s }, reload.WithBase(base))

	require.NoError(t, l.Reconfigure(context.Background()))
	assert.Equal(t, base, got)
}

func TestLoader_IgnoreReplacesBase(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "s.yaml", "ignore: [\"*_test.go\"]\n")

	var got report.Settings
	l := reload.New(func(s report.Settings) { got = s }, reload.WithBase(report.Settings{Title: "T", Ignore: []string{"gen"}}))

	require.NoError(t, l.Reload(ctx, path))
	require.NoError(t, l.Reconfigure(ctx))
	assert.Equal(t, []string{"*_test.go"}, got.Ignore)
	assert.Equal(t, "T", got.Title)
}

func TestLoader_MissingFileNamesPath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "title: Staged\n")
	missing := filepath.Join(dir, "missing.yaml")

	var got report.Settings
	l := reload.New(func(s report.Settings) { got = s })

	require.NoError(t, l.Reload(ctx, good))
	err := l.Reload(ctx, missing)

	var reloadErr *domain.ReloadError
	require.ErrorAs(t, err, &reloadErr)
	assert.Equal(t, missing, reloadErr.Path)

	// The failed reload dropped what was staged before it.
	require.NoError(t, l.Reconfigure(ctx))
	assert.Equal(t, report.DefaultSettings().Title, got.Title)
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "title: [unterminated\n")
	l := reload.New(nil)

	err := l.Reload(context.Background(), path)
	assert.ErrorContains(t, err, "bad.yaml")
}

func TestLoader_UnknownKeyRejected(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "typo.yaml", "titel: Oops\n")
	applied := false
	l := reload.New(func(report.Settings) { applied = true })

	require.NoError(t, l.Reload(ctx, path))
	assert.Error(t, l.Reconfigure(ctx))
	assert.False(t, applied)
}

func TestLoader_RecoversAfterFailedReconfigure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.yaml", "titel: typo\n")

	var got report.Settings
	l := reload.New(func(s report.Settings) { got = s })

	require.NoError(t, l.Reload(ctx, path))
	require.Error(t, l.Reconfigure(ctx))

	writeFile(t, dir, "settings.yaml", "title: Fixed\n")
	require.NoError(t, l.Reload(ctx, path))
	require.NoError(t, l.Reconfigure(ctx))
	assert.Equal(t, "Fixed", got.Title)
}

func TestLoader_InterleavedReconfigureKeepsSettings(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "settings.yaml", "title: Configured\n")

	var got report.Settings
	l := reload.New(func(s report.Settings) { got = s })

	require.NoError(t, l.Reload(ctx, path))
	require.NoError(t, l.Reload(ctx, path))
	require.NoError(t, l.Reconfigure(ctx))
	require.NoError(t, l.Reconfigure(ctx))

	assert.Equal(t, "Configured", got.Title)
}

func TestLoader_ReloadAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	first := writeFile(t, dir, "a.yaml", "title: First\n")
	second := writeFile(t, dir, "b.yaml", "root: example.com/app\n")

	var got report.Settings
	l := reload.New(func(s report.Settings) { got = s })

	require.NoError(t, l.ReloadAll(ctx, []string{first, second}))
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, "example.com/app", got.Root)

	t.Run("a failing file applies nothing", func(t *testing.T) {
		changed := writeFile(t, dir, "c.yaml", "title: Changed\n")
		missing := filepath.Join(dir, "missing.yaml")

		err := l.ReloadAll(ctx, []string{changed, missing})
		var reloadErr *domain.ReloadError
		require.ErrorAs(t, err, &reloadErr)
		assert.Equal(t, missing, reloadErr.Path)
		assert.Equal(t, "First", got.Title)
	})

	t.Run("does not disturb staged fragments", func(t *testing.T) {
		staged := writeFile(t, dir, "staged.yaml", "title: Staged\n")
		require.NoError(t, l.Reload(ctx, staged))
		require.NoError(t, l.ReloadAll(ctx, []string{first}))
		require.NoError(t, l.Reconfigure(ctx))
		assert.Equal(t, "Staged", got.Title)
	})
}

func TestLoader_ConcurrentReloadAll(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "settings.yaml", "title: Configured\n")

	var mu sync.Mutex
	var titles []string
	l := reload.New(func(s report.Settings) {
		mu.Lock()
		titles = append(titles, s.Title)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.ReloadAll(ctx, []string{path}))
		}()
	}
	wg.Wait()

	require.Len(t, titles, 16)
	for _, title := range titles {
		assert.Equal(t, "Configured", title)
	}
}
