package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/fonts"
	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/arcanaland/bbcards/internal/render"
	"go.uber.org/zap"
)

const (
	// DefaultOutput is the document name when none can be derived.
	DefaultOutput = "cards.pdf"
	// StdoutTitle titles documents streamed to standard output.
	StdoutTitle = render.Producer
)

// Runner renders card directories and file pairs one document at a time
type Runner struct {
	Geometry    geometry.Geometry
	DefaultIcon string
	Fonts       []fonts.Family
	Logger      *zap.Logger
	Now         func() time.Time

	// OutDir receives documents named after their directory; empty means
	// the working directory.
	OutDir string
}

// Failure records a directory whose document could not be written
type Failure struct {
	Path string
	Err  error
}

// Result summarizes a run
type Result struct {
	Written []string
	Skipped []string
	Failed  []Failure
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// RenderDirectory renders dir, reading the named files inside it, into a
// document named after the directory. With recurse set every subdirectory
// is then rendered the same way, depth first. Directories without cards
// are skipped.
func (r *Runner) RenderDirectory(dir string, files deck.Files, title string, recurse bool) Result {
	var res Result
	r.walk(filepath.Clean(dir), files, title, recurse, &res, map[string]bool{})
	return res
}

func (r *Runner) walk(dir string, files deck.Files, title string, recurse bool, res *Result, seen map[string]bool) {
	log := r.logger().With(zap.String("dir", dir))

	// Symlinked directories may loop back on themselves
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		if seen[real] {
			log.Debug("Already visited, skipping")
			return
		}
		seen[real] = true
	}
	log.Debug("Visiting directory")

	output := DefaultOutput
	if dir != "." && isDir(dir) {
		output = filepath.Base(dir) + ".pdf"
	}
	output = filepath.Join(r.OutDir, output)

	d, err := deck.LoadDeck(dir, files, r.Geometry)
	if err != nil {
		log.Warn("Failed to load deck", zap.Error(err))
		res.Failed = append(res.Failed, Failure{Path: dir, Err: err})
	} else if d.Empty() {
		log.Debug("No cards found, skipping")
		res.Skipped = append(res.Skipped, dir)
	} else if err := r.writeFile(d, output, title); err != nil {
		log.Warn("Failed to write document", zap.String("output", output), zap.Error(err))
		res.Failed = append(res.Failed, Failure{Path: dir, Err: err})
	} else {
		log.Info("Wrote document", zap.String("output", output),
			zap.Int("white", deck.Cards(d.White)), zap.Int("black", deck.Cards(d.Black)))
		res.Written = append(res.Written, output)
	}

	if !recurse {
		return
	}
	for _, sub := range subdirectories(dir) {
		r.walk(sub, files, "", true, res, seen)
	}
}

// RenderFiles renders an explicit white/black file pair to output. An empty
// deck pair writes nothing and returns render.ErrNoCards.
func (r *Runner) RenderFiles(files deck.Files, output, title string) error {
	if output == "" {
		output = DefaultOutput
	}
	d := r.filesDeck(files)
	if d.Empty() {
		return render.ErrNoCards
	}
	if err := r.writeFile(d, output, title); err != nil {
		return err
	}
	r.logger().Info("Wrote document", zap.String("output", output))
	return nil
}

// WriteFiles renders an explicit file pair to w.
func (r *Runner) WriteFiles(w io.Writer, files deck.Files, title string) error {
	if title == "" {
		title = StdoutTitle
	}
	return r.write(w, r.filesDeck(files), title)
}

func (r *Runner) filesDeck(files deck.Files) *deck.Deck {
	d := &deck.Deck{Icon: files.Icon}
	if files.White != "" {
		d.White = deck.FromFile(files.White, r.Geometry)
	}
	if files.Black != "" {
		d.Black = deck.FromFile(files.Black, r.Geometry)
	}
	return d
}

// titleFor picks the document title: the explicit title, then the deck's
// name, then the output file name unless it is the default.
func titleFor(title, deckName, output string) string {
	if title != "" {
		return title
	}
	if deckName != "" {
		return deckName
	}
	if base := filepath.Base(output); base != DefaultOutput {
		return strings.TrimSuffix(base, ".pdf")
	}
	return ""
}

func (r *Runner) writeFile(d *deck.Deck, output, title string) (err error) {
	title = titleFor(title, d.Name, output)

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", output, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(output)
		}
	}()

	return r.write(file, d, title)
}

func (r *Runner) write(w io.Writer, d *deck.Deck, title string) error {
	return render.WriteDeck(w, d, render.Options{
		Geometry: r.Geometry,
		Title:    title,
		Author:   d.Author,
		Icon:     r.loadIcon(d.Icon),
		Fonts:    r.Fonts,
		Now:      r.Now,
	})
}

// loadIcon loads the deck's icon, falling back to the default icon. A
// missing or unreadable icon renders cards without one.
func (r *Runner) loadIcon(path string) *render.Icon {
	if path == "" || !isFile(path) {
		path = r.DefaultIcon
	}
	if path == "" || !isFile(path) {
		return nil
	}
	icon, err := render.LoadIcon(path)
	if err != nil {
		r.logger().Warn("Ignoring icon", zap.String("icon", path), zap.Error(err))
		return nil
	}
	return icon
}

func subdirectories(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if isDir(path) {
			dirs = append(dirs, path)
		}
	}
	sort.Strings(dirs)
	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
