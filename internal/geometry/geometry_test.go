package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		rounded       bool
		onePerPage    bool
		across, high  int
	}{
		{"small", 2.0, 2.0, false, false, 4, 5},
		{"large", 2.5, 3.5, false, false, 3, 3},
		{"small rounded", 2.0, 2.0, true, false, 4, 5},
		{"one per page", 2.5, 3.5, false, true, 1, 1},
		{"larger than paper", 9.0, 12.0, false, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Compute(tt.width, tt.height, tt.rounded, tt.onePerPage)

			assert.Equal(t, tt.across, g.CardsAcross)
			assert.Equal(t, tt.high, g.CardsHigh)
			assert.Equal(t, tt.across*tt.high, g.Capacity())
			assert.Equal(t, tt.rounded, g.Rounded())
			assert.Equal(t, tt.across == 0, g.Degenerate())

			assert.InDelta(t, g.CardWidth*float64(g.CardsAcross), g.PageWidth, 1e-9)
			assert.InDelta(t, g.CardHeight*float64(g.CardsHigh), g.PageHeight, 1e-9)
			assert.InDelta(t, g.PaperWidth, 2*g.MarginLeft+g.PageWidth, 1e-9)
			assert.InDelta(t, g.PaperHeight, 2*g.MarginTop+g.PageHeight, 1e-9)
		})
	}
}

func TestComputePaperAndMargins(t *testing.T) {
	g := Compute(2.0, 2.0, false, false)
	assert.Equal(t, 612.0, g.PaperWidth)
	assert.Equal(t, 792.0, g.PaperHeight)
	assert.Equal(t, 144.0, g.CardWidth)
	assert.Equal(t, 576.0, g.PageWidth)
	assert.Equal(t, 18.0, g.MarginLeft)
	assert.Equal(t, 36.0, g.MarginTop)
	assert.Zero(t, g.CornerRadius)

	rounded := Compute(2.0, 2.0, true, false)
	assert.Equal(t, 9.0, rounded.CornerRadius)

	single := Compute(2.5, 3.5, false, true)
	assert.Equal(t, single.CardWidth, single.PaperWidth)
	assert.Equal(t, single.CardHeight, single.PaperHeight)
	assert.Zero(t, single.MarginLeft)
	assert.Zero(t, single.MarginTop)
}

func TestComputeProperties(t *testing.T) {
	for w := 0.5; w <= 8.5; w += 0.25 {
		for h := 0.5; h <= 11.0; h += 0.75 {
			g := Compute(w, h, false, false)
			assert.Equal(t, int(math.Floor(g.PaperWidth/g.CardWidth)), g.CardsAcross)
			assert.LessOrEqual(t, g.PageWidth, g.PaperWidth)
			assert.LessOrEqual(t, g.PageHeight, g.PaperHeight)
			assert.GreaterOrEqual(t, g.MarginLeft, 0.0)
			assert.GreaterOrEqual(t, g.MarginTop, 0.0)
		}
	}
}

func TestComputeOnA4(t *testing.T) {
	g := ComputeOnPaper(2.0, 2.0, false, false, A4)
	assert.Equal(t, 4, g.CardsAcross)
	assert.Equal(t, 5, g.CardsHigh)
	assert.InDelta(t, 595.28, g.PaperWidth, 0.01)
}

func TestSlotBox(t *testing.T) {
	g := Compute(2.0, 2.0, false, false)

	first := g.SlotBox(0)
	assert.Equal(t, Box{X: 10, Y: 5*144 - 10, Width: 124, Height: 134}, first)

	second := g.SlotBox(1)
	assert.Equal(t, 144.0+10, second.X)
	assert.Equal(t, first.Y, second.Y)

	nextRow := g.SlotBox(4)
	assert.Equal(t, first.X, nextRow.X)
	assert.Equal(t, 4*144.0-10, nextRow.Y)

	last := g.SlotBox(19)
	assert.Equal(t, 3*144.0+10, last.X)
	assert.Equal(t, 144.0-10, last.Top())
	assert.Equal(t, 0.0, last.Bottom())
	assert.Equal(t, last.X+124, last.Right())
}

func TestSlotBoxDegenerate(t *testing.T) {
	g := Compute(9.0, 12.0, false, false)
	assert.Equal(t, Box{}, g.SlotBox(0))
}
