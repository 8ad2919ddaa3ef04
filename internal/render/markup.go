package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Style is the inline formatting in effect for a run of text.
type Style struct {
	Family    string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Sub       bool
	Sup       bool
	Size      float64 // 0 inherits the text box size
	Color     *Color  // nil inherits the page colour
}

// Run is a span of text sharing one style, or a line break.
type Run struct {
	Text  string
	Style Style
	Break bool
}

var (
	attrPattern = regexp.MustCompile(`([A-Za-z_]+)\s*=\s*["']([^"']*)["']`)
	entities    = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

type openTag struct {
	name  string
	attrs map[string]string
}

// ParseMarkup splits card display markup into styled runs. Closing tags pop
// the innermost open tag of the same name; unmatched closing tags are
// ignored. Newlines and <br/> become breaks.
func ParseMarkup(s string) []Run {
	var runs []Run
	var stack []openTag

	emit := func(text string) {
		if text == "" {
			return
		}
		text = entities.Replace(strings.ReplaceAll(text, "\t", "    "))
		style := fold(stack)
		for i, part := range strings.Split(text, "\n") {
			if i > 0 {
				runs = append(runs, Run{Break: true})
			}
			if part != "" {
				runs = append(runs, Run{Text: part, Style: style})
			}
		}
	}

	for s != "" {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			emit(s)
			break
		}
		emit(s[:open])
		s = s[open:]

		end := strings.IndexByte(s, '>')
		if end < 0 {
			emit(s)
			break
		}
		tag := s[1:end]
		s = s[end+1:]

		switch {
		case strings.HasPrefix(tag, "br"):
			runs = append(runs, Run{Break: true})
		case strings.HasPrefix(tag, "/"):
			name := strings.TrimSpace(tag[1:])
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == name {
					stack = append(stack[:i], stack[i+1:]...)
					break
				}
			}
		default:
			name, rest, _ := strings.Cut(tag, " ")
			t := openTag{name: name, attrs: map[string]string{}}
			for _, m := range attrPattern.FindAllStringSubmatch(rest, -1) {
				t.attrs[strings.ToLower(m[1])] = m[2]
			}
			stack = append(stack, t)
		}
	}

	return runs
}

func fold(stack []openTag) Style {
	var st Style
	for _, t := range stack {
		switch t.name {
		case "b":
			st.Bold = true
		case "i":
			st.Italic = true
		case "u":
			st.Underline = true
		case "strikethrough":
			st.Strike = true
		case "sub":
			st.Sub, st.Sup = true, false
		case "sup":
			st.Sup, st.Sub = true, false
		case "font":
			if name := t.attrs["name"]; name != "" {
				st.Family = name
			}
			if size, err := strconv.ParseFloat(t.attrs["size"], 64); err == nil && size > 0 {
				st.Size = size
			}
		case "color":
			if c, ok := parseColor(t.attrs); ok {
				st.Color = &c
			}
		}
	}
	return st
}

// parseColor reads an rgb="rrggbb" or c/m/y/k percentage colour.
func parseColor(attrs map[string]string) (Color, bool) {
	if rgb, ok := attrs["rgb"]; ok {
		if !strings.HasPrefix(rgb, "#") {
			rgb = "#" + rgb
		}
		c, err := colorful.Hex(rgb)
		if err != nil {
			return Color{}, false
		}
		r, g, b := c.Clamped().RGB255()
		return Color{r, g, b}, true
	}

	var cmyk [4]float64
	found := false
	for i, key := range []string{"c", "m", "y", "k"} {
		if v, err := strconv.ParseFloat(attrs[key], 64); err == nil {
			cmyk[i] = clamp(v/100, 0, 1)
			found = true
		}
	}
	if !found {
		return Color{}, false
	}
	k := cmyk[3]
	c := colorful.Color{
		R: (1 - cmyk[0]) * (1 - k),
		G: (1 - cmyk[1]) * (1 - k),
		B: (1 - cmyk[2]) * (1 - k),
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, true
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
