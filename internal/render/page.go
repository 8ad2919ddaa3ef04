package render

import (
	"github.com/arcanaland/bbcards/internal/card"
	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/geometry"
)

const (
	lineWidth       = 0.5
	textBottomSpace = 35.0
	pick3Space      = 55.0
	labelSize       = 11.0
	badgeSize       = 14.0
	badgeRadius     = 7.5
	iconRaise       = 25.0
)

// Renderer draws pages of cards for one geometry
type Renderer struct {
	Geometry geometry.Geometry
	Icon     *Icon
}

// RenderDecks draws response pages then prompt pages, one sheet each.
func (r *Renderer) RenderDecks(c Canvas, white, black []deck.Page) {
	for _, p := range white {
		r.RenderPage(c, p, false)
	}
	for _, p := range black {
		r.RenderPage(c, p, true)
	}
}

// RenderPage draws one sheet: background, grid, card text with badges, then
// icons in every slot of the grid whether or not it holds a card.
func (r *Renderer) RenderPage(c Canvas, records deck.Page, prompt bool) {
	g := r.Geometry
	c.AddPage()
	c.SetLineWidth(lineWidth)

	fg := Black
	if prompt {
		c.FillSheet(Black)
		fg = White
	}
	c.SetColor(fg)

	r.drawGrid(c)
	for idx, line := range records {
		box := g.SlotBox(idx)
		parsed := card.Parse(line, prompt)

		height := g.CardHeight - textBottomSpace
		if parsed.Pick == 3 {
			height = g.CardHeight - pick3Space
		}
		tb := FitText(c, ParseMarkup(parsed.Text), box.Width, height)
		tb.Draw(c, box.Left(), box.Top(), fg)

		drawBadges(c, box, parsed.Pick, fg)
	}
	r.drawIcons(c)

	c.SetColor(Black)
}

func (r *Renderer) drawGrid(c Canvas) {
	g := r.Geometry
	if !g.Rounded() {
		for i := 0; i <= g.CardsAcross; i++ {
			x := g.CardWidth * float64(i)
			c.Line(x, 0, x, g.PageHeight)
		}
		for i := 0; i <= g.CardsHigh; i++ {
			y := g.CardHeight * float64(i)
			c.Line(0, y, g.PageWidth, y)
		}
		return
	}

	for i := 0; i < g.CardsAcross; i++ {
		for j := 0; j < g.CardsHigh; j++ {
			c.RoundedRect(
				float64(i)*g.CardWidth,
				g.CardHeight+float64(j)*g.CardHeight,
				g.CardWidth,
				g.CardHeight,
				g.CornerRadius,
			)
		}
	}
}

func (r *Renderer) drawIcons(c Canvas) {
	if r.Icon == nil {
		return
	}
	g := r.Geometry
	for idx := 0; idx < g.Capacity(); idx++ {
		box := g.SlotBox(idx)
		w, h := r.Icon.Fit(g.CardWidth/2, IconMaxHeight)
		c.Image(r.Icon, box.Left(), box.Bottom()+iconRaise, w, h)
	}
}

func drawBadges(c Canvas, box geometry.Box, pick int, fg Color) {
	switch pick {
	case 2:
		drawBadge(c, box, "PICK", 30, 0, "2", fg)
	case 3:
		drawBadge(c, box, "PICK", 30, 0, "3", fg)
		drawBadge(c, box, "DRAW", 35, 20, "2", fg)
	}
}

// drawBadge draws a right-aligned label beside a numbered disc anchored to
// the box's bottom-right corner, raised by lift.
func drawBadge(c Canvas, box geometry.Box, label string, labelWidth, lift float64, number string, fg Color) {
	right, bottom := box.Right(), box.Bottom()+lift

	labelFont := Font{Family: DefaultFamily, Bold: true, Size: labelSize}
	labelLeft := right - 20 - labelWidth
	lw := c.StringWidth(label, labelFont)
	c.Text(labelLeft+labelWidth-lw, bottom+20-labelSize*ascentRatio, label, labelFont)

	c.SetColor(White)
	c.Circle(right-10, bottom+15.5, badgeRadius)

	c.SetColor(Black)
	numberFont := Font{Family: DefaultFamily, Bold: true, Size: badgeSize}
	nw := c.StringWidth(number, numberFont)
	c.Text(right-14+(8-nw)/2, bottom+21-badgeSize*ascentRatio, number, numberFont)

	c.SetColor(fg)
}
