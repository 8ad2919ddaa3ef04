package cmd

import (
	"fmt"
	"image"
	"image/color" // This is the standard library color package
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	"github.com/arcanaland/bbcards/internal/card"
	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/render"

	colorize "github.com/fatih/color" // Rename this import to avoid the conflict
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Print the cards of a deck file as they will be laid out",
	Long: `Preview parses a deck file and prints every card grouped by page, with its
styled text, pick count and any [[...]] or tab fields.

Cards in the configured black file (black.txt) are previewed as prompt cards;
use --black to treat any other file that way. With --icon the icon image is
drawn in the terminal above the cards.

Examples:
  bbcards preview white.txt
  bbcards preview --large decks/party/black.txt
  bbcards preview --black --icon icon.png questions.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("deck file not found: %s", path)
		}

		c, err := renderConfig(cmd)
		if err != nil {
			return err
		}
		g, err := c.Geometry()
		if err != nil {
			return err
		}

		prompt, _ := cmd.Flags().GetBool("black")
		if !cmd.Flags().Changed("black") {
			prompt = filepath.Base(path) == c.BlackFile
		}

		// Get terminal width
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80 // Default if we can't get terminal width
		}

		if iconPath, _ := cmd.Flags().GetString("icon"); iconPath != "" {
			art, err := iconArt(iconPath, min(width/2, 32))
			if err != nil {
				return fmt.Errorf("error drawing icon: %w", err)
			}
			fmt.Print(art)
		}

		pages := deck.FromFile(path, g)
		if len(pages) == 0 {
			colorize.Yellow("No cards found in %s", path)
			return nil
		}
		printPages(os.Stdout, pages, prompt, width)
		return nil
	},
}

func init() {
	previewCmd.Flags().Bool("black", false, "preview the file as prompt cards")
	previewCmd.Flags().StringP("icon", "i", "", "draw an icon image above the cards")
	addLayoutFlags(previewCmd)
}

func printPages(w io.Writer, pages []deck.Page, prompt bool, width int) {
	kind := "response"
	if prompt {
		kind = "prompt"
	}

	n := 0
	for p, page := range pages {
		fmt.Fprintln(w)
		fmt.Fprintln(w, colorize.CyanString("Page %d", p+1)+colorize.HiBlackString(" · %d %s cards", len(page), kind))
		for _, raw := range page {
			n++
			for _, line := range previewCard(card.Parse(raw, prompt), n, width) {
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
	fmt.Fprintln(w)
}

// previewCard formats one card: a header line, its wrapped text and its
// fields.
func previewCard(c card.Card, index, width int) []string {
	header := colorize.CyanString("#%d", index)
	if c.Prompt {
		source := "from blanks"
		if c.PickSource == card.PickExplicit {
			source = "explicit"
		}
		header += colorize.HiWhiteString(" Pick %d", c.Pick) + colorize.HiBlackString(" (%s)", source)
	}

	lines := []string{header}
	for _, line := range styledLines(render.ParseMarkup(c.Text), width-6) {
		lines = append(lines, "  "+line)
	}
	if len(c.Fields) > 0 {
		lines = append(lines, "  "+colorize.CyanString("Fields: ")+strings.Join(c.Fields, " | "))
	}
	return lines
}

// styledLines word-wraps markup runs to width visible characters, painting
// each word with its run's style.
func styledLines(runs []render.Run, width int) []string {
	// Ensure width is reasonable
	if width < 10 {
		width = 40
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0
	trailingSpace := true

	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		currentWidth = 0
		trailingSpace = true
	}

	for _, run := range runs {
		if run.Break {
			flush()
			continue
		}

		words := strings.Fields(run.Text)
		leadingSpace := strings.TrimLeft(run.Text, " ") != run.Text
		for i, word := range words {
			// A word continuing the previous run without a space stays attached
			glued := i == 0 && !leadingSpace && !trailingSpace && currentWidth > 0
			wordWidth := utf8.RuneCountInString(word)

			if !glued && currentWidth > 0 && currentWidth+1+wordWidth > width {
				flush()
			}
			if !glued && currentWidth > 0 {
				current.WriteString(" ")
				currentWidth++
			}
			current.WriteString(paint(word, run.Style))
			currentWidth += wordWidth
		}

		if len(words) == 0 {
			trailingSpace = trailingSpace || run.Text != ""
		} else {
			trailingSpace = strings.TrimRight(run.Text, " ") != run.Text
		}
	}

	if currentWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

func paint(word string, style render.Style) string {
	var attrs []colorize.Attribute
	if style.Bold {
		attrs = append(attrs, colorize.Bold)
	}
	if style.Italic {
		attrs = append(attrs, colorize.Italic)
	}
	if style.Underline {
		attrs = append(attrs, colorize.Underline)
	}
	if style.Strike {
		attrs = append(attrs, colorize.CrossedOut)
	}
	if len(attrs) == 0 {
		return word
	}
	return colorize.New(attrs...).Sprint(word)
}

// iconArt draws an image file as ANSI half-block art cols characters wide
func iconArt(path string, cols int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("empty image")
	}
	// Terminal cells are about twice as tall as wide
	rows := max(1, cols*bounds.Dy()/bounds.Dx()/2)

	return imageToAnsi(img, cols, rows), nil
}

// imageToAnsi converts an image to ANSI art
func imageToAnsi(img image.Image, width, height int) string {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Top pixels as foreground, bottom pixels as background
			upper := averageColor(colorAt(resized, x, y), colorAt(resized, x+1, y))
			lower := averageColor(colorAt(resized, x, y+1), colorAt(resized, x+1, y+1))
			buffer.WriteString(ansiColorString('▀', upper, lower))
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}

// colorAt returns the color at a specific coordinate, composited over white
func colorAt(img image.Image, x, y int) colorful.Color {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	alpha := float64(c.A) / 255
	col, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return colorful.Color{R: 1, G: 1, B: 1}.BlendRgb(col, alpha)
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// ansiColorString formats a character with 24-bit ANSI color codes
func ansiColorString(char rune, fg, bg colorful.Color) string {
	r1, g1, b1 := fg.Clamped().RGB255()
	r2, g2, b2 := bg.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		r1, g1, b1, r2, g2, b2, char)
}
