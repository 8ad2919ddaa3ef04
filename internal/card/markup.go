package card

import "strings"

// TokenKind classifies a run of card text.
type TokenKind int

const (
	TokenText    TokenKind = iota // Literal text, escaped on output
	TokenTag                      // Whitelisted style tag
	TokenBlank                    // Two or more underscores
	TokenField                    // [[...]] segment extracted from the text
	TokenUnclosed                 // [[ with no ]] before the next [[
	TokenDropped                  // Text after a second ]], never displayed
)

// Token is one classified run of card text.
type Token struct {
	Kind TokenKind
	Text string
}

// styleTags maps each recognized tag name to whether it takes attributes.
var styleTags = map[string]bool{
	"b":             false,
	"i":             false,
	"u":             false,
	"strikethrough": false,
	"sub":           false,
	"sup":           false,
	"font":          true,
	"color":         true,
}

// IsStyleTag reports whether name is a recognized inline style tag.
func IsStyleTag(name string) bool {
	_, ok := styleTags[name]
	return ok
}

var lineBreaks = []string{"<br>", "<br/>", "<br />"}

// Tokenize splits card text into literal, tag, blank and bracket runs.
//
// The text is cut at every "[[". A piece holding a "]]" is a field: the
// text before its first "]]" is extracted and only the text up to a second
// "]]" stays in the card, anything after that is dropped. The leading
// piece follows the same rule, so a stray "]]" extracts the text before it.
// A piece without "]]" keeps its "[[" literally.
func Tokenize(s string) []Token {
	var tokens []Token
	for i, piece := range strings.Split(s, "[[") {
		if !strings.Contains(piece, "]]") {
			if i > 0 {
				tokens = append(tokens, Token{Kind: TokenUnclosed, Text: "[["})
			}
			tokens = append(tokens, tokenizeText(piece)...)
			continue
		}

		parts := strings.SplitN(piece, "]]", 3)
		tokens = append(tokens, Token{Kind: TokenField, Text: parts[0]})
		tokens = append(tokens, tokenizeText(parts[1])...)
		if len(parts) == 3 && parts[2] != "" {
			tokens = append(tokens, Token{Kind: TokenDropped, Text: parts[2]})
		}
	}
	return tokens
}

// tokenizeText classifies tag, blank and literal runs in a single
// left-to-right pass.
func tokenizeText(s string) []Token {
	var tokens []Token
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case rest[0] == '<':
			if tag, ok := matchTag(rest); ok {
				flush()
				tokens = append(tokens, Token{Kind: TokenTag, Text: tag})
				i += len(tag)
			} else {
				text.WriteByte('<')
				i++
			}

		case strings.HasPrefix(rest, "__"):
			flush()
			n := 0
			for n < len(rest) && rest[n] == '_' {
				n++
			}
			tokens = append(tokens, Token{Kind: TokenBlank, Text: rest[:n]})
			i += n

		default:
			text.WriteByte(rest[0])
			i++
		}
	}
	flush()

	return tokens
}

// matchTag returns the whitelisted tag at the start of s. Tags taking
// attributes match on their name prefix and extend to the closing '>'
// when there is one.
func matchTag(s string) (string, bool) {
	for _, br := range lineBreaks {
		if strings.HasPrefix(s, br) {
			return br, true
		}
	}

	for name, attrs := range styleTags {
		if strings.HasPrefix(s, "</"+name+">") {
			return "</" + name + ">", true
		}
		if !attrs {
			if strings.HasPrefix(s, "<"+name+">") {
				return "<" + name + ">", true
			}
			continue
		}
		if strings.HasPrefix(s, "<"+name) {
			end := strings.IndexAny(s[1:], "<>") + 1
			if end > 0 && s[end] == '>' {
				return s[:end+1], true
			}
			return "<" + name, true
		}
	}

	return "", false
}

// Render writes tokens back out as display markup. Tags are kept live,
// every other '<' is escaped, fields and dropped text are left out and
// unclosed brackets stay literal.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		switch t.Kind {
		case TokenTag:
			if isLineBreak(t.Text) {
				b.WriteString("<br/>")
			} else {
				b.WriteString(t.Text)
			}
		case TokenField, TokenDropped:
		case TokenText:
			b.WriteString(escape(t.Text))
		default:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

func isLineBreak(tag string) bool {
	for _, br := range lineBreaks {
		if tag == br {
			return true
		}
	}
	return false
}

func escape(s string) string {
	return strings.ReplaceAll(s, "<", "&lt;")
}
