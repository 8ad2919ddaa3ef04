package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcanaland/bbcards/internal/card"
	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/arcanaland/bbcards/internal/render"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were found.
func (r ValidationResults) Valid() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	DeckPath string
	Files    deck.Files
	Geometry geometry.Geometry
	Results  ValidationResults
}

func NewValidator(deckPath string, files deck.Files, g geometry.Geometry) *Validator {
	return &Validator{
		DeckPath: deckPath,
		Files:    files,
		Geometry: g,
		Results:  ValidationResults{},
	}
}

// Validate lints the card directory. The returned error is reserved for
// directories that cannot be read at all.
func (v *Validator) Validate() (ValidationResults, error) {
	info, err := os.Stat(v.DeckPath)
	if err != nil {
		return v.Results, fmt.Errorf("error reading card directory: %w", err)
	}
	if !info.IsDir() {
		return v.Results, fmt.Errorf("%s is not a directory", v.DeckPath)
	}

	v.validateGeometry()
	v.validateDeckToml()
	v.validateIcon()

	white := filepath.Join(v.DeckPath, v.Files.White)
	black := filepath.Join(v.DeckPath, v.Files.Black)
	whiteFound := v.validateCardFile(white, false)
	blackFound := v.validateCardFile(black, true)
	if !whiteFound && !blackFound {
		v.addError("neither %s nor %s found in %s", v.Files.White, v.Files.Black, v.DeckPath)
	}

	return v.Results, nil
}

func (v *Validator) addError(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) addWarning(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) validateGeometry() {
	g := v.Geometry
	if g.Degenerate() {
		v.addError("a %.2fx%.2f in card does not fit on a %.0fx%.0f pt sheet",
			g.CardWidth/geometry.PointsPerInch, g.CardHeight/geometry.PointsPerInch,
			g.PaperWidth, g.PaperHeight)
	}
}

func (v *Validator) validateDeckToml() {
	d, err := deck.LoadDeck(v.DeckPath, v.Files, v.Geometry)
	if err != nil {
		v.addError("%v", err)
		return
	}
	if d.HasConfig() && d.Name == "" {
		v.addWarning("deck.toml does not set deck.name; the title falls back to the output file name")
	}
}

func (v *Validator) validateIcon() {
	if v.Files.Icon == "" {
		return
	}
	path := filepath.Join(v.DeckPath, v.Files.Icon)
	if _, err := os.Stat(path); err != nil {
		return
	}
	if _, err := render.LoadIcon(path); err != nil {
		v.addWarning("%s is not a readable image and will be skipped: %v", v.Files.Icon, err)
	}
}

// validateCardFile lints every card line of path and reports whether the
// file exists.
func (v *Validator) validateCardFile(path string, prompt bool) bool {
	lines, err := deck.ReadLines(path)
	if err != nil {
		if !os.IsNotExist(err) {
			v.addError("error reading %s: %v", filepath.Base(path), err)
		}
		return false
	}

	name := filepath.Base(path)
	cards := 0
	for i, line := range lines {
		record := strings.Trim(line, "\t\r\n")
		if record == "" {
			continue
		}
		cards++
		v.validateCard(fmt.Sprintf("%s:%d", name, i+1), record, prompt)
	}
	if cards == 0 {
		v.addWarning("%s contains no cards", name)
	}
	return true
}

func (v *Validator) validateCard(where, record string, prompt bool) {
	fields := strings.Split(record, "\t")

	for _, t := range card.Tokenize(fields[0]) {
		switch t.Kind {
		case card.TokenUnclosed:
			v.addWarning("%s: unclosed [[ is printed literally", where)
		case card.TokenDropped:
			v.addWarning("%s: %q after a second ]] is not printed", where, strings.TrimSpace(t.Text))
		case card.TokenText:
			if strings.Contains(t.Text, "<") {
				v.addWarning("%s: %q is not a recognized tag and is printed literally", where, strings.TrimSpace(t.Text))
			}
		}
	}

	override := ""
	if len(fields) > 1 {
		override = strings.TrimSpace(fields[1])
	}

	if !prompt {
		if isNumber(override) {
			v.addWarning("%s: pick %s has no effect on a response card", where, override)
		}
		return
	}

	c := card.Parse(record, true)
	switch {
	case override != "" && c.PickSource != card.PickExplicit:
		v.addWarning("%s: pick %q is ignored; only 2 or 3 override the blank count", where, fields[1])
	case c.PickSource == card.PickExplicit && c.Blanks > 0 && c.Pick != inferredPick(c.Blanks):
		v.addWarning("%s: pick %d disagrees with %d blanks", where, c.Pick, c.Blanks)
	}
}

func inferredPick(blanks int) int {
	switch {
	case blanks >= 3:
		return 3
	case blanks == 2:
		return 2
	default:
		return 1
	}
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
