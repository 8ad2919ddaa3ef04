package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcanaland/bbcards/internal/batch"
	"github.com/arcanaland/bbcards/internal/config"
	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/fonts"
	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/arcanaland/bbcards/internal/render"
	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render card lists into printable PDF sheets",
	Long: `Render lays out response (white) and prompt (black) cards on letter or A4
sheets and writes one PDF per card set.

In directory mode (--dir) white.txt, black.txt and icon.png are read from the
directory, the document is named after the directory and every subdirectory
is rendered the same way. In file mode (--white/--black) exactly those files
are rendered into --output.

Examples:
  bbcards render --dir ./decks
  bbcards render --large --rounded --dir ./expansion
  bbcards render --white answers.txt --black questions.txt --output party.pdf
  bbcards render --white answers.txt --stdout > cards.pdf`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	flags := renderCmd.Flags()
	flags.StringP("dir", "d", "", "render a card directory and its subdirectories")
	flags.StringP("white", "w", "", "response card file")
	flags.StringP("black", "b", "", "prompt card file")
	flags.StringP("icon", "i", "", "icon image drawn on every card (png, jpeg or gif)")
	flags.StringP("output", "o", batch.DefaultOutput, "output file in file mode")
	flags.String("title", "", "document title")
	flags.Bool("stdout", false, "write the document to standard output")
	flags.Bool("no-recurse", false, "do not render subdirectories in directory mode")
	addLayoutFlags(renderCmd)

	renderCmd.MarkFlagsMutuallyExclusive("dir", "white")
	renderCmd.MarkFlagsMutuallyExclusive("dir", "black")
}

func runRender(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	dir, _ := flags.GetString("dir")
	white, _ := flags.GetString("white")
	black, _ := flags.GetString("black")

	if dir == "" && white == "" && black == "" {
		return cmd.Help()
	}

	c, err := renderConfig(cmd)
	if err != nil {
		return err
	}

	g, err := c.Geometry()
	if err != nil {
		return err
	}
	if g.Degenerate() {
		return fmt.Errorf("%.2fx%.2f in cards on %s paper: %w",
			g.CardWidth/geometry.PointsPerInch, g.CardHeight/geometry.PointsPerInch,
			c.Paper, render.ErrDegenerateGeometry)
	}

	runner := &batch.Runner{
		Geometry:    g,
		DefaultIcon: c.DefaultIcon,
		Logger:      logger,
	}
	if fonts.Exists(c.FontDir) {
		runner.Fonts = fonts.Load(c.FontDir)
		logger.Debug("Loaded fonts", zap.String("dir", c.FontDir), zap.Int("families", len(runner.Fonts)))
	}

	icon, _ := flags.GetString("icon")
	toStdout, _ := flags.GetBool("stdout")

	if toStdout {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write a PDF to a terminal; redirect standard output")
		}
		files := deck.Files{White: white, Black: black, Icon: icon}
		if dir != "" {
			files = deck.Files{
				White: filepath.Join(dir, c.WhiteFile),
				Black: filepath.Join(dir, c.BlackFile),
				Icon:  filepath.Join(dir, c.IconFile),
			}
		}
		return runner.WriteFiles(os.Stdout, files, c.Title)
	}

	if dir != "" {
		noRecurse, _ := flags.GetBool("no-recurse")
		res := runner.RenderDirectory(dir, c.Files(), c.Title, !noRecurse)
		return reportResult(res)
	}

	output, _ := flags.GetString("output")
	err = runner.RenderFiles(deck.Files{White: white, Black: black, Icon: icon}, output, c.Title)
	if errors.Is(err, render.ErrNoCards) {
		colorize.Yellow("No cards found in %s", describeFiles(white, black))
		return nil
	}
	if err != nil {
		return err
	}
	colorize.Green("Wrote %s", output)
	return nil
}

// addLayoutFlags registers the card size and page layout flags shared by
// the commands that compute a geometry.
func addLayoutFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolP("small", "s", false, "2.0x2.0 inch cards (default)")
	flags.BoolP("large", "l", false, "2.5x3.5 inch cards")
	flags.Float64("width", 0, "custom card width in inches")
	flags.Float64("height", 0, "custom card height in inches")
	flags.BoolP("rounded", "r", false, "rounded card corners")
	flags.BoolP("oneperpage", "p", false, "one card per page, page sized to the card")
	flags.String("paper", "", "paper size: letter or a4")
	cmd.MarkFlagsMutuallyExclusive("small", "large")
}

// renderConfig applies the command-line flags on top of the loaded config.
func renderConfig(cmd *cobra.Command) (*config.Config, error) {
	c := *cfg
	flags := cmd.Flags()

	if small, _ := flags.GetBool("small"); small {
		c.CardSize, c.CardWidth, c.CardHeight = "small", 0, 0
	}
	if large, _ := flags.GetBool("large"); large {
		c.CardSize, c.CardWidth, c.CardHeight = "large", 0, 0
	}
	if flags.Changed("width") {
		c.CardWidth, _ = flags.GetFloat64("width")
	}
	if flags.Changed("height") {
		c.CardHeight, _ = flags.GetFloat64("height")
	}
	if c.CardWidth < 0 || c.CardHeight < 0 {
		return nil, fmt.Errorf("card dimensions must be positive")
	}
	if rounded, _ := flags.GetBool("rounded"); rounded {
		c.RoundedCorners = true
	}
	if onePerPage, _ := flags.GetBool("oneperpage"); onePerPage {
		c.OneCardPerPage = true
	}
	if flags.Changed("paper") {
		c.Paper, _ = flags.GetString("paper")
	}
	if flags.Changed("title") {
		c.Title, _ = flags.GetString("title")
	}
	return &c, nil
}

func reportResult(res batch.Result) error {
	for _, path := range res.Written {
		colorize.Green("Wrote %s", path)
	}
	for _, dir := range res.Skipped {
		colorize.Yellow("Skipped %s: no cards", dir)
	}
	for _, f := range res.Failed {
		colorize.Red("Failed %s: %v", f.Path, f.Err)
	}

	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d directories failed", len(res.Failed),
			len(res.Written)+len(res.Skipped)+len(res.Failed))
	}
	if len(res.Written) == 0 {
		colorize.Yellow("No documents written")
	}
	return nil
}

func describeFiles(white, black string) string {
	switch {
	case white != "" && black != "":
		return white + " or " + black
	case white != "":
		return white
	default:
		return black
	}
}
