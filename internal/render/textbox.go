package render

import (
	"strings"
	"unicode"
)

const (
	// DefaultFontSize is the starting size before shrinking to fit.
	DefaultFontSize = 14.0
	// MinFontSize is the smallest size text shrinks to.
	MinFontSize = 5.0
	shrinkStep  = 0.5

	lineSpacing  = 1.15
	ascentRatio  = 0.85
	scriptScale  = 0.583
	supRaise     = 0.33
	subDrop      = 0.16
	underlineGap = 0.12
	strikeRaise  = 0.28
)

type piece struct {
	text  string
	style Style
	font  Font
	width float64
	space bool
}

type textLine struct {
	pieces []piece
	width  float64
	size   float64 // Largest font size on the line
}

func (l textLine) height(base float64) float64 {
	if l.size == 0 {
		return base * lineSpacing
	}
	return l.size * lineSpacing
}

// TextBox is a laid-out block of markup ready to draw.
type TextBox struct {
	Size  float64
	lines []textLine
}

// Height is the vertical extent of the laid-out text.
func (tb TextBox) Height() float64 {
	h := 0.0
	for _, l := range tb.lines {
		h += l.height(tb.Size)
	}
	return h
}

// Lines returns the text of each laid-out line.
func (tb TextBox) Lines() []string {
	out := make([]string, len(tb.lines))
	for i, l := range tb.lines {
		var b strings.Builder
		for _, p := range l.pieces {
			b.WriteString(p.text)
		}
		out[i] = b.String()
	}
	return out
}

// FitText lays runs out inside width, shrinking from DefaultFontSize by
// half points until the text is no taller than height or MinFontSize is
// reached.
func FitText(m Measurer, runs []Run, width, height float64) TextBox {
	var tb TextBox
	for size := DefaultFontSize; ; size -= shrinkStep {
		tb = TextBox{Size: size, lines: wrap(m, runs, width, size)}
		if tb.Height() <= height || size-shrinkStep < MinFontSize {
			return tb
		}
	}
}

func fontFor(st Style, base float64) Font {
	size := base
	if st.Size > 0 {
		size = st.Size * base / DefaultFontSize
	}
	if st.Sub || st.Sup {
		size *= scriptScale
	}
	family := st.Family
	if family == "" {
		family = DefaultFamily
	}
	return Font{Family: family, Bold: st.Bold, Italic: st.Italic, Size: size}
}

func wrap(m Measurer, runs []Run, width, size float64) []textLine {
	var lines []textLine
	var cur textLine

	finish := func() {
		for len(cur.pieces) > 0 && cur.pieces[len(cur.pieces)-1].space {
			cur.width -= cur.pieces[len(cur.pieces)-1].width
			cur.pieces = cur.pieces[:len(cur.pieces)-1]
		}
		lines = append(lines, cur)
		cur = textLine{}
	}

	for _, run := range runs {
		if run.Break {
			finish()
			continue
		}
		f := fontFor(run.Style, size)
		for _, word := range splitWords(run.Text) {
			p := piece{
				text:  word,
				style: run.Style,
				font:  f,
				width: m.StringWidth(word, f),
				space: strings.TrimSpace(word) == "",
			}
			if p.space && len(cur.pieces) == 0 && len(lines) > 0 {
				continue
			}
			if !p.space && len(cur.pieces) > 0 && cur.width+p.width > width {
				finish()
			}
			cur.pieces = append(cur.pieces, p)
			cur.width += p.width
			if f.Size > cur.size {
				cur.size = f.Size
			}
		}
	}
	if len(cur.pieces) > 0 || len(lines) > 0 {
		finish()
	}
	return lines
}

// splitWords splits s into alternating runs of spaces and non-spaces.
func splitWords(s string) []string {
	var words []string
	start := 0
	prevSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > start && space != prevSpace {
			words = append(words, s[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}

// Draw paints the text box with its top-left corner at (x, y).
func (tb TextBox) Draw(c Canvas, x, y float64, base Color) {
	top := y
	for _, l := range tb.lines {
		size := l.size
		if size == 0 {
			size = tb.Size
		}
		baseline := top - size*ascentRatio
		cx := x
		for _, p := range l.pieces {
			if p.space {
				cx += p.width
				continue
			}
			py := baseline
			switch {
			case p.style.Sup:
				py += size * supRaise
			case p.style.Sub:
				py -= size * subDrop
			}

			color := base
			if p.style.Color != nil {
				color = *p.style.Color
			}
			c.SetTextColor(color)
			c.Text(cx, py, p.text, p.font)

			if p.style.Underline {
				uy := py - p.font.Size*underlineGap
				c.Line(cx, uy, cx+p.width, uy)
			}
			if p.style.Strike {
				sy := py + p.font.Size*strikeRaise
				c.Line(cx, sy, cx+p.width, sy)
			}
			cx += p.width
		}
		top -= l.height(tb.Size)
	}
	c.SetTextColor(base)
}
