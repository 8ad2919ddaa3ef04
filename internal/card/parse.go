package card

import (
	"regexp"
	"strings"
)

var (
	newlineEscape = regexp.MustCompile(`\\n *`)
	edgeSpace     = regexp.MustCompile(`(?m)^[\t ]+|[\t ]+$`)
)

// Parse turns one raw deck line into display markup, auxiliary fields and,
// for prompt cards, a pick count.
func Parse(raw string, prompt bool) Card {
	parts := strings.Split(raw, "\t")
	text := expandEscapes(parts[0])
	trailing := parts[1:]

	tokens := Tokenize(text)

	var extracted []string
	blanks := 0
	for _, t := range tokens {
		switch t.Kind {
		case TokenField:
			inner := tokenizeText(t.Text)
			blanks += countBlanks(inner)
			extracted = append(extracted, Render(inner))
		case TokenDropped:
			blanks += countBlanks(tokenizeText(t.Text))
		case TokenBlank:
			blanks++
		}
	}
	fields := append(extracted, trailing...)

	display := edgeSpace.ReplaceAllString(Render(tokens), "")

	c := Card{
		Raw:    raw,
		Text:   "<b>" + display + "</b>",
		Fields: fields,
		Prompt: prompt,
		Blanks: blanks,
	}

	if prompt {
		// The first tab field overrides the pick, else the first [[...]] field
		override := ""
		if len(trailing) > 0 {
			override = trailing[0]
		} else if len(extracted) > 0 {
			override = extracted[0]
		}
		c.Pick, c.PickSource = resolvePick(override, blanks)
	}

	return c
}

// resolvePick returns the explicit pick when the override is "2" or "3" and
// otherwise infers it from the number of blank runs. Any other override
// value falls through to inference.
func resolvePick(override string, blanks int) (int, PickSource) {
	switch override {
	case "2":
		return 2, PickExplicit
	case "3":
		return 3, PickExplicit
	}

	switch {
	case blanks == 2:
		return 2, PickInferred
	case blanks >= 3:
		return 3, PickInferred
	default:
		return 1, PickInferred
	}
}

func expandEscapes(s string) string {
	s = newlineEscape.ReplaceAllString(s, "\n")
	return strings.ReplaceAll(s, `\t`, "\t")
}

func countBlanks(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.Kind == TokenBlank {
			n++
		}
	}
	return n
}
