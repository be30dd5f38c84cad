package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
)

func TestResolveWatchDirs(t *testing.T) {
	root := t.TempDir()

	_, _, err := resolveWatchDirs(root, "")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, _, err = resolveWatchDirs(root, root)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, _, err = resolveWatchDirs(root, filepath.Join(root, "out"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, _, err = resolveWatchDirs(root, filepath.Join(root, "..out"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, _, err = resolveWatchDirs(filepath.Join(root, "missing"), t.TempDir())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	out := t.TempDir()
	absRoot, absOut, err := resolveWatchDirs(root, out)
	require.NoError(t, err)
	assert.Equal(t, root, absRoot)
	assert.Equal(t, out, absOut)
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join(t.TempDir(), "book")

	assert.True(t, isWithin(root, root))
	assert.True(t, isWithin(root, filepath.Join(root, "out")))
	assert.True(t, isWithin(root, filepath.Join(root, "..out")))
	assert.False(t, isWithin(root, filepath.Dir(root)))
	assert.False(t, isWithin(root, filepath.Join(filepath.Dir(root), "out")))

	_, _, err := resolveWatchDirs(t.TempDir(), filepath.Join(t.TempDir(), "..out"))
	require.NoError(t, err)
}

func TestShouldIgnoreEvent(t *testing.T) {
	for _, p := range []string{"/d/.git", "/d/file.md~", "/d/.file.md.swp", "/d/a.swx", "/d/#a.md#", "/d/Thumbs.db"} {
		assert.True(t, shouldIgnoreEvent(p), p)
	}
	for _, p := range []string{"/d/a.md", "/d/sub", "/d/notes.markdown"} {
		assert.False(t, shouldIgnoreEvent(p), p)
	}
}

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	fire, trigger, stop := newDebouncer(20 * time.Millisecond)
	defer stop()

	for range 5 {
		trigger()
	}

	select {
	case <-fire:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not fire")
	}
	select {
	case <-fire:
		t.Fatal("debouncer fired twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatch_RenumbersOnChange(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeDoc(t, filepath.Join(root, "a.md"), "---\nsection_number: \"1.1\"\n---\n## A\n")

	runs := make(chan TreeReport, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	n := newTestNumberer(Options{}, WithDebounce(20*time.Millisecond))
	go func() {
		done <- n.Watch(ctx, root, out, func(r TreeReport, _ error) { runs <- r })
	}()

	select {
	case r := <-runs:
		assert.Equal(t, 1, r.Numbered)
	case <-time.After(5 * time.Second):
		t.Fatal("initial run did not happen")
	}
	assert.Equal(t, "---\nsection_number: \"1.1\"\n---\n## 1.1 A\n", readDoc(t, filepath.Join(out, "a.md")))

	writeDoc(t, filepath.Join(root, "b.md"), "---\nsection_number: \"2.1\"\n---\n## B\n")

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(out, "b.md")) // #nosec G304 -- test temp dir.
		return err == nil && string(data) == "---\nsection_number: \"2.1\"\n---\n## 2.1 B\n"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
