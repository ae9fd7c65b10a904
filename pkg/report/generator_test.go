package report_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Merge(context.Background(), domain.Report{
		"example.com/app/main.go":         {1: 1, 2: 0, 3: 5},
		"example.com/app/vendor/lib/x.go": {1: 0},
		"example.com/app/<evil>.go":       {1: 1},
	}))
	return store
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	objects := memory.NewObjects()
	g := report.New(objects, "reports", report.WithVersion("1.2.3"))

	require.NoError(t, g.Generate(ctx, seededStore(t), ports.GenerateOptions{}))

	body, err := objects.GetObject(ctx, "reports", domain.ReportKey)
	require.NoError(t, err)
	html := string(body)

	assert.Contains(t, html, "<title>Coverage Report</title>")
	assert.Contains(t, html, "href='application.css'")
	assert.Contains(t, html, "src='application.js'")
	assert.Contains(t, html, "src='loading.gif'")
	assert.Contains(t, html, "url(/images/bar.png)")
	assert.Contains(t, html, "example.com/app/main.go")
	assert.Contains(t, html, "66.67 %")
	assert.Contains(t, html, "v1.2.3")
	// File names are escaped.
	assert.NotContains(t, html, "<evil>")
	assert.Contains(t, html, "&lt;evil&gt;")
}

func TestGenerator_SettingsApplied(t *testing.T) {
	ctx := context.Background()
	g := report.New(memory.NewObjects(), "reports")
	g.Apply(report.Settings{
		Title:  "Nightly <Build>",
		Ignore: []string{"example.com/app/vendor"},
		Root:   "example.com/app",
	})

	var buf bytes.Buffer
	data, err := seededStore(t).Load(ctx)
	require.NoError(t, err)
	require.NoError(t, g.Render(ctx, &buf, data))
	html := buf.String()

	assert.Contains(t, html, "Nightly &lt;Build&gt;")
	assert.NotContains(t, html, "vendor/lib/x.go")
	assert.Contains(t, html, ">main.go</a>")
}

func TestGenerator_ApplyDefaultsTitle(t *testing.T) {
	g := report.New(nil, "")
	g.Apply(report.Settings{Root: "x"})
	assert.Equal(t, "Coverage Report", g.Settings().Title)
	assert.Equal(t, "x", g.Settings().Root)
}

func TestGenerator_NoObjectStorage(t *testing.T) {
	g := report.New(nil, "reports")
	err := g.Generate(context.Background(), memory.NewStore(), ports.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestGenerator_OpenReport(t *testing.T) {
	ctx := context.Background()
	var opened []string
	g := report.New(memory.NewObjects(), "reports", report.WithOpener(func(ctx context.Context, bucket, key string) error {
		opened = append(opened, bucket+"/"+key)
		return nil
	}))

	require.NoError(t, g.Generate(ctx, memory.NewStore(), ports.GenerateOptions{}))
	assert.Empty(t, opened)

	require.NoError(t, g.Generate(ctx, memory.NewStore(), ports.GenerateOptions{OpenReport: true}))
	assert.Equal(t, []string{"reports/tally/index.html"}, opened)
}

type brokenObjects struct{}

func (brokenObjects) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	return nil, errors.New("unreachable")
}

func (brokenObjects) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	return errors.New("unreachable")
}

func TestGenerator_PutFailure(t *testing.T) {
	g := report.New(brokenObjects{}, "reports")
	err := g.Generate(context.Background(), memory.NewStore(), ports.GenerateOptions{})
	assert.ErrorContains(t, err, "store report")
}

func TestSettings_Ignored(t *testing.T) {
	s := report.Settings{Ignore: []string{"*_test.go", "gen"}}
	assert.True(t, s.Ignored("foo_test.go"))
	assert.True(t, s.Ignored("gen/a/b.go"))
	assert.False(t, s.Ignored("cmd/main.go"))
}
