package files_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bennypowers.dev/gtf/internal/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matcher = files.Matcher{
	Include: []string{"**/*.css", "**/*.{html,js}"},
	Exclude: []string{"**/node_modules/**", "dist/**"},
}

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(".a{}"), 0o644))
	return path
}

func TestMatcher(t *testing.T) {
	assert.True(t, matcher.Match("main.css"))
	assert.True(t, matcher.Match("src/components/card.js"))
	assert.True(t, matcher.Match(filepath.Join("src", "index.html")))
	assert.False(t, matcher.Match("README.md"))
	assert.False(t, matcher.Match("node_modules/lib/a.css"))
	assert.False(t, matcher.Match("dist/bundle.css"))

	assert.True(t, matcher.Skip("node_modules"))
	assert.True(t, matcher.Skip("packages/a/node_modules"))
	assert.True(t, matcher.Skip("dist"))
	assert.False(t, matcher.Skip("src"))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	want := []string{
		touch(t, root, "a.css"),
		touch(t, root, "src/b.js"),
		touch(t, root, "src/page/index.html"),
	}
	touch(t, root, "README.md")
	touch(t, root, "node_modules/pkg/c.css")
	touch(t, root, "dist/d.css")

	found, err := files.Discover(root, matcher)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, found)
	assert.IsIncreasing(t, found)
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := files.Discover(filepath.Join(t.TempDir(), "missing"), matcher)
	assert.Error(t, err)
}

func TestDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/a.css")
	touch(t, root, "node_modules/pkg/c.css")

	dirs, err := files.Dirs(root, matcher)
	require.NoError(t, err)
	assert.Contains(t, dirs, root)
	assert.Contains(t, dirs, filepath.Join(root, "src"))
	assert.NotContains(t, dirs, filepath.Join(root, "node_modules"))
}

func TestWatcherReportsChangedFiles(t *testing.T) {
	root := t.TempDir()
	path := touch(t, root, "src/a.css")

	changes := make(chan []string, 4)
	w, err := files.NewWatcher(root, matcher, 20*time.Millisecond, func(paths []string) error {
		changes <- paths
		return nil
	}, func(err error) {
		t.Errorf("unexpected watch error: %v", err)
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(".a{background:red}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "notes.txt"), []byte("x"), 0o644))

	select {
	case paths := <-changes:
		assert.Equal(t, []string{path}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := files.NewWatcher(t.TempDir(), matcher, 0, nil, nil)
	require.NoError(t, err)

	w.Stop()
	w.Start()
	w.Stop()
	w.Stop()
}
