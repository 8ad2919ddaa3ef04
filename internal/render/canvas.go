package render

// Color is an RGB colour
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// DefaultFamily is the font used unless markup selects another.
const DefaultFamily = "Helvetica"

// Font selects a face and size for text drawing and measurement
type Font struct {
	Family string
	Bold   bool
	Italic bool
	Size   float64
}

// Measurer reports the advance width of a string in points.
type Measurer interface {
	StringWidth(s string, f Font) float64
}

// Canvas is the drawing backend. Coordinates are in points with the origin
// at the bottom-left corner of the card grid and y growing upwards;
// rectangles and images are positioned by their top-left corner and text by
// its baseline.
type Canvas interface {
	Measurer

	AddPage()
	// FillSheet paints the whole sheet, margins included.
	FillSheet(c Color)
	// SetColor sets the stroke, fill and text colour.
	SetColor(c Color)
	SetTextColor(c Color)
	SetLineWidth(w float64)

	Line(x1, y1, x2, y2 float64)
	RoundedRect(x, y, w, h, r float64)
	// Circle is filled and stroked in the current colour.
	Circle(x, y, r float64)
	Text(x, y float64, s string, f Font)
	Image(icon *Icon, x, y, w, h float64)
}
