package deck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/bbcards/internal/geometry"
)

// Page is one sheet's worth of raw card lines, in source order
type Page []string

var lineSplit = regexp.MustCompile(`[\r\n]+`)

// Paginate drops blank lines and splits the rest into pages holding at most
// one sheet's capacity. Only tabs and line terminators are trimmed, so a
// line of spaces is a (blank-looking) card.
func Paginate(lines []string, g geometry.Geometry) []Page {
	records := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Trim(line, "\t\r\n")
		if line != "" {
			records = append(records, line)
		}
	}

	perPage := g.Capacity()
	if perPage <= 0 || len(records) == 0 {
		return nil
	}

	pages := make([]Page, 0, (len(records)+perPage-1)/perPage)
	for start := 0; start < len(records); start += perPage {
		end := min(start+perPage, len(records))
		pages = append(pages, Page(records[start:end]))
	}
	return pages
}

// FromString paginates an in-memory deck.
func FromString(s string, g geometry.Geometry) []Page {
	return Paginate(lineSplit.Split(s, -1), g)
}

// FromFile paginates a deck file. A missing or unreadable file is an empty
// deck.
func FromFile(path string, g geometry.Geometry) []Page {
	lines, err := ReadLines(path)
	if err != nil {
		return nil
	}
	return Paginate(lines, g)
}

// ReadLines reads a deck file line by line.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Cards counts the records across pages.
func Cards(pages []Page) int {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	return n
}

// Files names the inputs of a card directory
type Files struct {
	White string
	Black string
	Icon  string
}

// DefaultFiles are the file names looked up in a card directory.
var DefaultFiles = Files{White: "white.txt", Black: "black.txt", Icon: "icon.png"}

// Deck represents a response/prompt deck pair ready to render
type Deck struct {
	Name   string
	Author string
	Path   string

	White []Page
	Black []Page
	Icon  string

	// Raw config data, nil without deck.toml
	config *DeckConfig
}

// LoadDeck loads the decks of a card directory. Missing deck files are empty
// decks; only a malformed deck.toml is an error.
func LoadDeck(dir string, files Files, g geometry.Geometry) (*Deck, error) {
	d := &Deck{
		Path:  dir,
		White: FromFile(filepath.Join(dir, files.White), g),
		Black: FromFile(filepath.Join(dir, files.Black), g),
	}

	if files.Icon != "" {
		d.Icon = filepath.Join(dir, files.Icon)
	}

	deckTomlPath := filepath.Join(dir, "deck.toml")
	if _, err := os.Stat(deckTomlPath); err == nil {
		var config DeckConfig
		if _, err := toml.DecodeFile(deckTomlPath, &config); err != nil {
			return nil, fmt.Errorf("error parsing deck.toml: %w", err)
		}
		d.config = &config
		d.Name = config.Deck.Name
		d.Author = config.Deck.Author
		if config.Deck.Icon != "" {
			d.Icon = filepath.Join(dir, config.Deck.Icon)
		}
	}

	return d, nil
}

// FromStrings builds a deck from in-memory card lists. When both lists are
// empty each deck is a single space, which renders one blank sheet of each.
func FromStrings(white, black string, g geometry.Geometry) *Deck {
	if white == "" && black == "" {
		white, black = " ", " "
	}
	return &Deck{
		White: FromString(white, g),
		Black: FromString(black, g),
	}
}

// Empty reports whether neither deck has any pages.
func (d *Deck) Empty() bool {
	return len(d.White) == 0 && len(d.Black) == 0
}

// HasConfig reports whether the deck was described by a deck.toml.
func (d *Deck) HasConfig() bool {
	return d.config != nil
}

// DeckConfig is the optional deck.toml of a card directory
type DeckConfig struct {
	Deck DeckSection `toml:"deck"`
}

type DeckSection struct {
	Name   string `toml:"name"`
	Author string `toml:"author"`
	Icon   string `toml:"icon"`
}
