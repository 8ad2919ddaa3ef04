package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/arcanaland/bbcards/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newRunner(t *testing.T) (*Runner, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Runner{
		Geometry: geometry.Compute(2.0, 2.0, false, false),
		Logger:   zap.New(core),
		OutDir:   t.TempDir(),
	}, logs
}

func isPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "%s is not a pdf", path)
}

func TestRenderDirectoryRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "office", "white.txt"), "Spreadsheets.\nThe printer.\n")
	writeFile(t, filepath.Join(root, "office", "party", "black.txt"), "___ and ___\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0755))
	writeFile(t, filepath.Join(root, ".hidden", "white.txt"), "secret\n")

	r, logs := newRunner(t)
	res := r.RenderDirectory(root, deck.DefaultFiles, "", true)

	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{
		filepath.Join(r.OutDir, "office.pdf"),
		filepath.Join(r.OutDir, "party.pdf"),
	}, res.Written)
	assert.Equal(t, []string{root, filepath.Join(root, "empty")}, res.Skipped)

	for _, path := range res.Written {
		isPDF(t, path)
	}
	_, err := os.Stat(filepath.Join(r.OutDir, "hidden.pdf"))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, 2, logs.FilterMessage("Wrote document").Len())
}

func TestRenderDirectoryNoRecurse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "white.txt"), "top\n")
	writeFile(t, filepath.Join(root, "sub", "white.txt"), "nested\n")

	r, _ := newRunner(t)
	res := r.RenderDirectory(root, deck.DefaultFiles, "", false)

	require.Len(t, res.Written, 1)
	assert.Equal(t, filepath.Join(r.OutDir, filepath.Base(root)+".pdf"), res.Written[0])
}

func TestRenderDirectoryWithIcon(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "white.txt"), "a\n")
	writeFile(t, filepath.Join(root, "icon.png"), "not really a png")

	r, logs := newRunner(t)
	res := r.RenderDirectory(root, deck.DefaultFiles, "Custom", false)

	require.Len(t, res.Written, 1)
	assert.Equal(t, 1, logs.FilterMessage("Ignoring icon").Len())
}

func TestRenderDirectoryBadDeckConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "white.txt"), "a\n")
	writeFile(t, filepath.Join(root, "deck.toml"), "[deck\n")

	r, _ := newRunner(t)
	res := r.RenderDirectory(root, deck.DefaultFiles, "", false)

	assert.Empty(t, res.Written)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, root, res.Failed[0].Path)
}

func TestRenderDirectoryUnwritableOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "white.txt"), "a\n")

	r, _ := newRunner(t)
	r.OutDir = filepath.Join(t.TempDir(), "missing")
	res := r.RenderDirectory(root, deck.DefaultFiles, "", false)

	require.Len(t, res.Failed, 1)
	assert.Empty(t, res.Written)
}

func TestRenderFiles(t *testing.T) {
	dir := t.TempDir()
	white := filepath.Join(dir, "w.txt")
	writeFile(t, white, "one\ntwo\n")

	r, _ := newRunner(t)
	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, r.RenderFiles(deck.Files{White: white, Black: filepath.Join(dir, "none.txt")}, out, ""))
	isPDF(t, out)

	empty := filepath.Join(dir, "empty.pdf")
	err := r.RenderFiles(deck.Files{White: filepath.Join(dir, "none.txt")}, empty, "")
	assert.ErrorIs(t, err, render.ErrNoCards)
	_, statErr := os.Stat(empty)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	black := filepath.Join(dir, "b.txt")
	writeFile(t, black, "What is ___?\n")

	r, _ := newRunner(t)
	var buf bytes.Buffer
	require.NoError(t, r.WriteFiles(&buf, deck.Files{Black: black}, ""))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Explicit", titleFor("Explicit", "Deck", "x.pdf"))
	assert.Equal(t, "Deck", titleFor("", "Deck", "x.pdf"))
	assert.Equal(t, "office", titleFor("", "", "/out/office.pdf"))
	assert.Equal(t, "", titleFor("", "", "cards.pdf"))
}
