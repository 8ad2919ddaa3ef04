package geometry

import "math"

// PointsPerInch is the PDF user-space unit conversion.
const PointsPerInch = 72.0

// SlotInset is the margin between a card's cut lines and its content box.
const SlotInset = 10.0

// Paper is a physical sheet size in points
type Paper struct {
	Name   string
	Width  float64
	Height float64
}

var (
	Letter = Paper{Name: "LETTER", Width: 8.5 * PointsPerInch, Height: 11.0 * PointsPerInch}
	A4     = Paper{Name: "A4", Width: 210.0 / 25.4 * PointsPerInch, Height: 297.0 / 25.4 * PointsPerInch}
)

// DefaultPaper is the sheet used unless one card is printed per page.
var DefaultPaper = Letter

// Geometry describes how cards are laid out on a sheet. All lengths are in
// points.
type Geometry struct {
	CardWidth  float64
	CardHeight float64

	PaperWidth  float64
	PaperHeight float64

	// CornerRadius is zero when corners are square.
	CornerRadius   float64
	OneCardPerPage bool

	CardsAcross int
	CardsHigh   int

	PageWidth  float64
	PageHeight float64

	MarginLeft float64
	MarginTop  float64
}

// Box is a card's content area in grid coordinates: the origin is the
// bottom-left corner of the grid and (X, Y) is the box's top-left corner.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (b Box) Left() float64   { return b.X }
func (b Box) Right() float64  { return b.X + b.Width }
func (b Box) Top() float64    { return b.Y }
func (b Box) Bottom() float64 { return b.Y - b.Height }

// Compute returns the geometry for cards of the given size in inches on
// the default paper.
func Compute(cardWidth, cardHeight float64, rounded, onePerPage bool) Geometry {
	return ComputeOnPaper(cardWidth, cardHeight, rounded, onePerPage, DefaultPaper)
}

// ComputeOnPaper is Compute with an explicit sheet size. The paper is
// ignored when onePerPage is set.
func ComputeOnPaper(cardWidth, cardHeight float64, rounded, onePerPage bool, paper Paper) Geometry {
	g := Geometry{
		CardWidth:      cardWidth * PointsPerInch,
		CardHeight:     cardHeight * PointsPerInch,
		OneCardPerPage: onePerPage,
	}
	if rounded {
		g.CornerRadius = PointsPerInch / 8.0
	}

	if onePerPage {
		g.PaperWidth = g.CardWidth
		g.PaperHeight = g.CardHeight
	} else {
		g.PaperWidth = paper.Width
		g.PaperHeight = paper.Height
	}

	g.CardsAcross = fit(g.PaperWidth, g.CardWidth)
	g.CardsHigh = fit(g.PaperHeight, g.CardHeight)

	g.PageWidth = g.CardWidth * float64(g.CardsAcross)
	g.PageHeight = g.CardHeight * float64(g.CardsHigh)

	g.MarginLeft = (g.PaperWidth - g.PageWidth) / 2
	g.MarginTop = (g.PaperHeight - g.PageHeight) / 2

	return g
}

func fit(paper, card float64) int {
	if card <= 0 || math.IsNaN(card) || math.IsInf(paper/card, 0) {
		return 0
	}
	return int(math.Floor(paper / card))
}

// Rounded reports whether cards are drawn with rounded corners.
func (g Geometry) Rounded() bool {
	return g.CornerRadius > 0
}

// Capacity is the number of cards on one sheet.
func (g Geometry) Capacity() int {
	return g.CardsAcross * g.CardsHigh
}

// Degenerate reports whether no card fits on the sheet.
func (g Geometry) Degenerate() bool {
	return g.CardsAcross <= 0 || g.CardsHigh <= 0
}

// SlotBox returns the content box of the card at index, counted row-major
// from the top-left of the grid. The inset is taken from both sides
// horizontally but only from the top vertically.
func (g Geometry) SlotBox(index int) Box {
	if g.CardsAcross <= 0 {
		return Box{}
	}
	column := index % g.CardsAcross
	row := g.CardsHigh - index/g.CardsAcross

	return Box{
		X:      g.CardWidth*float64(column) + SlotInset,
		Y:      g.CardHeight*float64(row) - SlotInset,
		Width:  g.CardWidth - 2*SlotInset,
		Height: g.CardHeight - SlotInset,
	}
}
