package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0644))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"Times_New_Roman.ttf", "Times_New_Roman_Bold.ttf", "Times_New_Roman_Italic.ttf", "Times_New_Roman_Bold_Italic.ttf",
		"Arial.ttf", "Arial_Bold.ttf",
		"Georgia.ttf", "Georgia_Italic.ttf",
		"Orphan_Bold.ttf",
		"readme.txt",
	)

	families := Load(dir)
	require.Len(t, families, 3)

	arial := families[0]
	assert.Equal(t, "Arial", arial.Name)
	assert.Equal(t, filepath.Join(dir, "Arial_Bold.ttf"), arial.Bold)
	assert.Equal(t, filepath.Join(dir, "Arial.ttf"), arial.Italic)
	assert.Equal(t, filepath.Join(dir, "Arial_Bold.ttf"), arial.BoldItalic)

	georgia := families[1]
	assert.Equal(t, "Georgia", georgia.Name)
	assert.Equal(t, filepath.Join(dir, "Georgia.ttf"), georgia.Bold)
	assert.Equal(t, filepath.Join(dir, "Georgia_Italic.ttf"), georgia.BoldItalic)

	times := families[2]
	assert.Equal(t, "Times New Roman", times.Name)
	assert.Equal(t, filepath.Join(dir, "Times_New_Roman_Bold_Italic.ttf"), times.Style("BI"))
	assert.Equal(t, filepath.Join(dir, "Times_New_Roman.ttf"), times.Style(""))
	assert.Equal(t, filepath.Join(dir, "Times_New_Roman_Italic.ttf"), times.Style("I"))
	assert.Equal(t, filepath.Join(dir, "Times_New_Roman_Bold.ttf"), times.Style("B"))
}

func TestLoadMissingDirectory(t *testing.T) {
	assert.Empty(t, Load(filepath.Join(t.TempDir(), "nope")))
	assert.Empty(t, Load(""))
	assert.False(t, Exists(filepath.Join(t.TempDir(), "nope")))
	assert.True(t, Exists(t.TempDir()))
}
