package card

// Card is one parsed line of a deck
type Card struct {
	Raw    string   // Source line, tab-delimited
	Text   string   // Display markup, wrapped in <b>
	Fields []string // Extracted [[...]] segments, then trailing tab fields
	Pick   int      // 0 for response cards, 1-3 for prompt cards
	Prompt bool     // Parsed as a prompt (black) card

	PickSource PickSource
	Blanks     int // Blank runs in the card text
}

// PickSource describes where a prompt card's pick count came from.
type PickSource int

const (
	PickNone     PickSource = iota // Response card
	PickExplicit                   // Tab field "2" or "3"
	PickInferred                   // Counted from blank runs
)
