package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var small = geometry.Compute(2.0, 2.0, false, false)

func setupDeck(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func validate(t *testing.T, dir string, g geometry.Geometry) ValidationResults {
	t.Helper()
	results, err := NewValidator(dir, deck.DefaultFiles, g).Validate()
	require.NoError(t, err)
	return results
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanDeck(t *testing.T) {
	dir := setupDeck(t, map[string]string{
		"white.txt": "Being on fire.\n<i>Science</i>.\n",
		"black.txt": "___ + ___ = ___.\nMake a haiku.\t3\nWhy? ___\n",
		"deck.toml": "[deck]\nname = \"Base\"\n",
	})

	results := validate(t, dir, small)
	assert.True(t, results.Valid())
	assert.Empty(t, results.Errors)
	assert.Empty(t, results.Warnings)
}

func TestValidateMissingDeckFiles(t *testing.T) {
	results := validate(t, t.TempDir(), small)
	assert.False(t, results.Valid())
	assert.True(t, hasMessage(results.Errors, "neither white.txt nor black.txt"))
}

func TestValidateDegenerateGeometry(t *testing.T) {
	dir := setupDeck(t, map[string]string{"white.txt": "a\n"})

	results := validate(t, dir, geometry.Compute(9.0, 2.0, false, false))
	assert.True(t, hasMessage(results.Errors, "does not fit"))
}

func TestValidateMalformedDeckToml(t *testing.T) {
	dir := setupDeck(t, map[string]string{
		"white.txt": "a\n",
		"deck.toml": "[deck\n",
	})

	results := validate(t, dir, small)
	assert.True(t, hasMessage(results.Errors, "deck.toml"))
}

func TestValidateWarnings(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		line  string
		warns string
	}{
		{"unclosed bracket", "white.txt", "A [[dangling thought", "unclosed [["},
		{"unknown tag", "white.txt", "An <em>emphatic</em> card", "not a recognized tag"},
		{"text after second close", "white.txt", "[[note]] kept ]] lost", "after a second ]] is not printed"},
		{"pick on response card", "white.txt", "Bees.\t2", "no effect on a response card"},
		{"ignored pick", "black.txt", "Pick one: ___\t4", "only 2 or 3"},
		{"pick disagrees with blanks", "black.txt", "___ and ___\t3", "disagrees with 2 blanks"},
		{"empty deck file", "white.txt", "\n\n", "contains no cards"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupDeck(t, map[string]string{tt.file: tt.line + "\n"})

			results := validate(t, dir, small)
			assert.Empty(t, results.Errors)
			assert.True(t, hasMessage(results.Warnings, tt.warns), "warnings: %v", results.Warnings)
		})
	}
}

func TestValidateWarningLocation(t *testing.T) {
	dir := setupDeck(t, map[string]string{"black.txt": "Fine. ___\n\nBroken [[\n"})

	results := validate(t, dir, small)
	require.Len(t, results.Warnings, 1)
	assert.True(t, strings.HasPrefix(results.Warnings[0], "black.txt:3:"))
}

func TestValidateComparisonIsNotATag(t *testing.T) {
	dir := setupDeck(t, map[string]string{"white.txt": "Proof that 3 > 2.\n"})

	results := validate(t, dir, small)
	assert.Empty(t, results.Warnings)
}

func TestValidateExplicitPickWithoutBlanks(t *testing.T) {
	dir := setupDeck(t, map[string]string{"black.txt": "Make a haiku.\t3\n"})

	results := validate(t, dir, small)
	assert.Empty(t, results.Warnings)
}

func TestValidateUnreadableIcon(t *testing.T) {
	dir := setupDeck(t, map[string]string{
		"white.txt": "a\n",
		"icon.png":  "not an image",
	})

	results := validate(t, dir, small)
	assert.True(t, hasMessage(results.Warnings, "icon.png is not a readable image"))
}

func TestValidateDeckTomlWithoutName(t *testing.T) {
	dir := setupDeck(t, map[string]string{
		"white.txt": "a\n",
		"deck.toml": "[deck]\nauthor = \"Someone\"\n",
	})

	results := validate(t, dir, small)
	assert.True(t, hasMessage(results.Warnings, "deck.name"))
}

func TestValidateNotADirectory(t *testing.T) {
	dir := setupDeck(t, map[string]string{"white.txt": "a\n"})

	_, err := NewValidator(filepath.Join(dir, "white.txt"), deck.DefaultFiles, small).Validate()
	assert.Error(t, err)

	_, err = NewValidator(filepath.Join(dir, "missing"), deck.DefaultFiles, small).Validate()
	assert.Error(t, err)
}
