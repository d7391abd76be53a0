package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"bracefix/internal/config"
	"bracefix/internal/repair"
	"bracefix/internal/rules"
	"bracefix/internal/scan"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memFS is an in-memory Source/Sink for runner tests.
type memFS struct {
	mu     sync.Mutex
	files  map[string]string
	writes map[string]string
}

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files, writes: make(map[string]string)}
}

func (m *memFS) Read(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("open %s: no such file", path)
	}
	return content, nil
}

func (m *memFS) Write(path string, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
	m.writes[path] = content
	return nil
}

func (m *memFS) written(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.writes[path]
	return content, ok
}

func testEngine() *repair.Engine {
	return repair.NewEngine(rules.Catalog()...)
}

func TestRunBatchOutcomes(t *testing.T) {
	broken := strings.Join([]string{
		"    'agent.tool': (args) => ({",
		"      content: [],",
		"    },",
	}, "\n")
	clean := "export const ok = true;\n"

	fs := newMemFS(map[string]string{
		"src/broken.ts": broken,
		"src/clean.ts":  clean,
	})
	r := New(testEngine(), fs, fs, Options{Jobs: 2})

	summary, err := r.Run(context.Background(), []string{
		"src/broken.ts",
		"src/clean.ts",
		"src/missing.ts",
	})
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1, summary.Modified)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)

	// Results are sorted by path regardless of completion order.
	paths := make([]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		paths = append(paths, res.Path)
	}
	assert.Equal(t, []string{"src/broken.ts", "src/clean.ts", "src/missing.ts"}, paths)

	written, ok := fs.written("src/broken.ts")
	require.True(t, ok)
	assert.Contains(t, written, "}),")

	_, ok = fs.written("src/clean.ts")
	assert.False(t, ok, "unchanged file must not be rewritten")
}

func TestRunFailureDoesNotWriteFile(t *testing.T) {
	// An unterminated block makes the structural fixer fail; the original
	// document must stay on disk.
	unterminated := "    'agent.tool': (args) => ({\n      content: [,"
	fs := newMemFS(map[string]string{"src/bad.ts": unterminated})

	r := New(testEngine(), fs, fs, Options{Jobs: 1})
	summary, err := r.Run(context.Background(), []string{"src/bad.ts"})
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, scan.ErrUnterminated)

	_, ok := fs.written("src/bad.ts")
	assert.False(t, ok)
	assert.Equal(t, unterminated, fs.files["src/bad.ts"])
}

func TestRunDryRun(t *testing.T) {
	fs := newMemFS(map[string]string{
		"a.ts": "try { x(); } catch (error) {}\n",
	})
	r := New(testEngine(), fs, fs, Options{Jobs: 1, DryRun: true})

	summary, err := r.Run(context.Background(), []string{"a.ts"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Modified)

	_, ok := fs.written("a.ts")
	assert.False(t, ok, "dry run must not persist anything")

	res := summary.Results[0]
	require.NotNil(t, res.Diff)
	assert.Contains(t, res.Diff.Render(), "catch (_error)")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := newMemFS(map[string]string{"a.ts": "x"})
	r := New(testEngine(), fs, fs, Options{Jobs: 1})
	_, err := r.Run(ctx, []string{"a.ts"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildFixers(t *testing.T) {
	t.Run("defaults to catalog", func(t *testing.T) {
		cfg := config.DefaultConfig()
		fixers, err := BuildFixers(cfg)
		require.NoError(t, err)
		require.Len(t, fixers, 2)
		assert.Equal(t, "syntax", fixers[0].Name())
	})

	t.Run("named fixers plus blocks", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Fixers = []string{"arrow-return-closer"}
		cfg.Blocks = []config.BlockRule{{
			Name:        "responses-block",
			Marker:      "const responses = {",
			Replacement: "const responses = {\n};\n",
		}}
		fixers, err := BuildFixers(cfg)
		require.NoError(t, err)
		require.Len(t, fixers, 2)
		assert.Equal(t, "arrow-return-closer", fixers[0].Name())
		assert.Equal(t, "responses-block", fixers[1].Name())
	})

	t.Run("unknown fixer", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Fixers = []string{"nope"}
		_, err := BuildFixers(cfg)
		assert.ErrorContains(t, err, "unknown fixer")
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "modified", OutcomeModified.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
