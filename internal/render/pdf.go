package render

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/arcanaland/bbcards/internal/fonts"
	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/jung-kurt/gofpdf"
)

// Producer names the program in document metadata.
const Producer = "Bigger, Blacker Cards"

// Metadata is written into the document info dictionary
type Metadata struct {
	Title   string
	Author  string
	Created time.Time
}

// PDF is a Canvas backed by gofpdf. Sheet size and margins come from the
// geometry so that grid coordinates map onto the centered card grid.
type PDF struct {
	pdf       *gofpdf.Fpdf
	geometry  geometry.Geometry
	translate func(string) string
	families  map[string]bool
	images    map[string]bool
}

var coreFamilies = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
	"courier":   "Courier",
}

// NewPDF starts an empty document. Every family is registered as a UTF-8
// TrueType font; families must all live in one directory.
func NewPDF(g geometry.Geometry, meta Metadata, families []fonts.Family) *PDF {
	fontDir := ""
	if len(families) > 0 {
		fontDir = filepath.Dir(families[0].Normal)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: g.PaperWidth, Ht: g.PaperHeight},
		FontDirStr:     fontDir,
	})
	pdf.SetMargins(g.MarginLeft, g.MarginTop, g.MarginLeft)
	pdf.SetAutoPageBreak(false, g.MarginTop)
	pdf.SetTitle(meta.Title, true)
	pdf.SetCreator(Producer, true)
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}

	p := &PDF{
		pdf:       pdf,
		geometry:  g,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		families:  make(map[string]bool),
		images:    make(map[string]bool),
	}

	for _, f := range families {
		if _, core := coreFamilies[strings.ToLower(f.Name)]; core {
			continue
		}
		for _, style := range []string{"", "B", "I", "BI"} {
			pdf.AddUTF8Font(f.Name, style, filepath.Base(f.Style(style)))
		}
		p.families[f.Name] = true
	}

	pdf.SetFont(DefaultFamily, "", DefaultFontSize)
	return p
}

// Finish serializes the document.
func (p *PDF) Finish(w io.Writer) error {
	return p.pdf.Output(w)
}

func (p *PDF) x(x float64) float64 {
	return p.geometry.MarginLeft + x
}

func (p *PDF) y(y float64) float64 {
	return p.geometry.PaperHeight - p.geometry.MarginTop - y
}

func (p *PDF) AddPage() {
	p.pdf.AddPage()
}

func (p *PDF) FillSheet(c Color) {
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.pdf.Rect(0, 0, p.geometry.PaperWidth, p.geometry.PaperHeight, "FD")
}

func (p *PDF) SetColor(c Color) {
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.SetTextColor(c)
}

func (p *PDF) SetTextColor(c Color) {
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

func (p *PDF) SetLineWidth(w float64) {
	p.pdf.SetLineWidth(w)
}

func (p *PDF) Line(x1, y1, x2, y2 float64) {
	p.pdf.Line(p.x(x1), p.y(y1), p.x(x2), p.y(y2))
}

// RoundedRect strokes a rectangle whose corners are quarter circles
// approximated by cubic Béziers.
func (p *PDF) RoundedRect(x, y, w, h, r float64) {
	left, top := p.x(x), p.y(y)
	right, bottom := left+w, top+h
	k := 0.5523 * r

	f := p.pdf
	f.MoveTo(left+r, top)
	f.LineTo(right-r, top)
	f.CurveBezierCubicTo(right-r+k, top, right, top+r-k, right, top+r)
	f.LineTo(right, bottom-r)
	f.CurveBezierCubicTo(right, bottom-r+k, right-r+k, bottom, right-r, bottom)
	f.LineTo(left+r, bottom)
	f.CurveBezierCubicTo(left+r-k, bottom, left, bottom-r+k, left, bottom-r)
	f.LineTo(left, top+r)
	f.CurveBezierCubicTo(left, top+r-k, left+r-k, top, left+r, top)
	f.ClosePath()
	f.DrawPath("D")
}

func (p *PDF) Circle(x, y, r float64) {
	p.pdf.Circle(p.x(x), p.y(y), r, "FD")
}

func (p *PDF) Text(x, y float64, s string, f Font) {
	if p.setFont(f) {
		s = p.translate(s)
	}
	p.pdf.Text(p.x(x), p.y(y), s)
}

func (p *PDF) StringWidth(s string, f Font) float64 {
	if p.setFont(f) {
		s = p.translate(s)
	}
	return p.pdf.GetStringWidth(s)
}

func (p *PDF) Image(icon *Icon, x, y, w, h float64) {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if !p.images[icon.Name] {
		p.pdf.RegisterImageOptionsReader(icon.Name, opts, bytes.NewReader(icon.Data))
		p.images[icon.Name] = true
	}
	p.pdf.ImageOptions(icon.Name, p.x(x), p.y(y), w, h, false, opts, 0, "")
}

// setFont selects f, falling back to Helvetica for unknown families, and
// reports whether the selected font is a core font needing cp1252 text.
func (p *PDF) setFont(f Font) bool {
	style := ""
	if f.Bold {
		style += "B"
	}
	if f.Italic {
		style += "I"
	}

	family := f.Family
	core := true
	if p.families[family] {
		core = false
	} else if name, ok := coreFamilies[strings.ToLower(family)]; ok {
		family = name
	} else {
		family = DefaultFamily
	}

	p.pdf.SetFont(family, style, f.Size)
	return core
}
