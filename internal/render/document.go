package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/fonts"
	"github.com/arcanaland/bbcards/internal/geometry"
)

// Sentinel errors returned by the renderer.
var (
	// ErrDegenerateGeometry is returned when no card fits on the sheet.
	ErrDegenerateGeometry = errors.New("render: card is larger than the paper")
	// ErrNoCards is returned when both decks are empty.
	ErrNoCards = errors.New("render: no cards to render")
)

// Options configures one document render
type Options struct {
	Geometry geometry.Geometry
	Title    string
	Author   string
	Icon     *Icon
	Fonts    []fonts.Family
	Now      func() time.Time
}

// WriteDeck renders the deck pair to w as a PDF: response sheets first,
// then prompt sheets.
func WriteDeck(w io.Writer, d *deck.Deck, opts Options) error {
	if opts.Geometry.Degenerate() {
		return ErrDegenerateGeometry
	}
	if d.Empty() {
		return ErrNoCards
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	pdf := NewPDF(opts.Geometry, Metadata{
		Title:   opts.Title,
		Author:  opts.Author,
		Created: now(),
	}, opts.Fonts)

	r := &Renderer{Geometry: opts.Geometry, Icon: opts.Icon}
	r.RenderDecks(pdf, d.White, d.Black)

	if err := pdf.Finish(w); err != nil {
		return fmt.Errorf("error writing pdf: %w", err)
	}
	return nil
}
