package files

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/secnum/internal/foundation/errors"
	"git.home.luguber.info/inful/secnum/internal/numbering"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNumberer(opts Options, options ...Option) *Numberer {
	return New(numbering.DefaultOptions(), opts, append([]Option{WithLogger(quietLogger())}, options...)...)
}

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	// #nosec G304 -- test reads a temp file path under t.TempDir().
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNumberContent_FrontmatterStart(t *testing.T) {
	n := newTestNumberer(Options{})
	in := "---\ntitle: Setup\nsection_number: \"2.1\"\n---\n## Install\n\n### Linux\n"

	out, res, err := n.NumberContent([]byte(in))

	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Setup\nsection_number: \"2.1\"\n---\n## 2.1 Install\n\n### 2.1.1 Linux\n", string(out))
	assert.Equal(t, []uint{2, 1}, res.Start)
	assert.Len(t, res.Headings, 2)
	assert.True(t, res.Changed)
}

func TestNumberContent_ExplicitStartWins(t *testing.T) {
	n := newTestNumberer(Options{Start: []uint{3}})
	in := "---\nsection_number: [2, 1]\n---\n# Title\n\n## Part\n"

	out, res, err := n.NumberContent([]byte(in))

	require.NoError(t, err)
	assert.Equal(t, "---\nsection_number: [2, 1]\n---\n# Chapter 3:  Title\n\n## 3.1 Part\n", string(out))
	assert.Equal(t, []uint{3}, res.Start)
}

func TestNumberContent_CustomStartKey(t *testing.T) {
	n := newTestNumberer(Options{StartKey: "chapter"})

	out, _, err := n.NumberContent([]byte("---\nchapter: 5\n---\n## A\n"))

	require.NoError(t, err)
	assert.Equal(t, "---\nchapter: 5\n---\n## 4.1 A\n", string(out))
}

func TestNumberContent_NoStartIsUnchanged(t *testing.T) {
	n := newTestNumberer(Options{})
	in := "# Title\n\n## Sub\n"

	out, res, err := n.NumberContent([]byte(in))

	require.NoError(t, err)
	assert.Equal(t, in, string(out))
	assert.True(t, res.Skipped())
	assert.False(t, res.Changed)
}

func TestNumberContent_CRLFFrontmatter(t *testing.T) {
	n := newTestNumberer(Options{})
	in := "---\r\nsection_number: \"1\"\r\n---\r\n# One\r\n\r\n## Two\r\n"

	out, _, err := n.NumberContent([]byte(in))

	require.NoError(t, err)
	assert.Equal(t, "---\r\nsection_number: \"1\"\r\n---\r\n# One\r\n\r\n## 1.1 Two\r\n", string(out))
}

func TestNumberContent_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unterminated frontmatter", "---\nsection_number: 1\n# Title\n"},
		{"invalid yaml", "---\n: [\n---\n# Title\n"},
		{"invalid start", "---\nsection_number: \"two\"\n---\n# Title\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newTestNumberer(Options{}).NumberContent([]byte(tt.in))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
		})
	}
}

func TestNumberContent_Fingerprint(t *testing.T) {
	n := newTestNumberer(Options{Fingerprint: true})

	out, _, err := n.NumberContent([]byte("---\nsection_number: \"2\"\n---\n# Title\n\n## Sub\n"))

	require.NoError(t, err)
	assert.Contains(t, string(out), "fingerprint:")
	assert.Contains(t, string(out), "## 2.1 Sub")
	ok, err := mdfp.VerifyFingerprint(string(out))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNumberFile_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	writeDoc(t, path, "---\nsection_number: \"1\"\n---\n# Intro\n\n## Scope\n")

	res, err := newTestNumberer(Options{}).NumberFile(path, "")

	require.NoError(t, err)
	assert.Equal(t, path, res.Dest)
	assert.Equal(t, "---\nsection_number: \"1\"\n---\n# Intro\n\n## 1.1 Scope\n", readDoc(t, path))
}

func TestNumberFile_DryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	in := "# Intro\n\n## Scope\n"
	writeDoc(t, path, in)

	res, err := newTestNumberer(Options{Start: []uint{1}, DryRun: true}).NumberFile(path, filepath.Join(dir, "out.md"))

	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.Len(t, res.Headings, 2)
	assert.Equal(t, "1.1", res.Headings[1].Number)
	assert.Equal(t, in, readDoc(t, path))
	assert.NoFileExists(t, filepath.Join(dir, "out.md"))
}

func TestNumberFile_Missing(t *testing.T) {
	_, err := newTestNumberer(Options{}).NumberFile(filepath.Join(t.TempDir(), "nope.md"), "")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestNumberFile_ErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.md")
	writeDoc(t, path, "---\nsection_number: x\n---\n# A\n")

	_, err := newTestNumberer(Options{}).NumberFile(path, "")

	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	got, _ := classified.Context()["path"].(string)
	assert.Equal(t, path, got)
}
