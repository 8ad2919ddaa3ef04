package fonts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is where the core Microsoft TrueType fonts install on Debian.
const DefaultDir = "/usr/share/fonts/truetype/msttcorefonts"

// Family holds the TTF file for each style of one font family. Missing
// styles fall back to another style of the same family.
type Family struct {
	Name       string
	Normal     string
	Bold       string
	Italic     string
	BoldItalic string
}

// Style returns the file for a gofpdf style string ("", "B", "I", "BI").
func (f Family) Style(style string) string {
	switch style {
	case "B":
		return f.Bold
	case "I":
		return f.Italic
	case "BI", "IB":
		return f.BoldItalic
	default:
		return f.Normal
	}
}

var suffixes = []struct {
	suffix string
	style  string
}{
	{"_Bold_Italic", "bold_italic"},
	{"_Italic", "italic"},
	{"_Bold", "bold"},
}

// Load scans dir for *.ttf files named Family_Name[_Bold|_Italic|_Bold_Italic].ttf.
// Families without a normal style are skipped. A missing directory yields
// no families.
func Load(dir string) []Family {
	if dir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.ttf"))
	if err != nil || len(matches) == 0 {
		return nil
	}

	styles := make(map[string]map[string]string)
	for _, path := range matches {
		name, style := splitName(strings.TrimSuffix(filepath.Base(path), ".ttf"))
		if styles[name] == nil {
			styles[name] = make(map[string]string)
		}
		styles[name][style] = path
	}

	var families []Family
	for name, files := range styles {
		normal, ok := files["normal"]
		if !ok {
			continue
		}
		f := Family{Name: name, Normal: normal, Italic: normal, Bold: normal, BoldItalic: normal}
		if italic, ok := files["italic"]; ok {
			f.Italic = italic
		}
		if bold, ok := files["bold"]; ok {
			f.Bold = bold
		}
		switch {
		case files["bold_italic"] != "":
			f.BoldItalic = files["bold_italic"]
		case files["italic"] != "":
			f.BoldItalic = f.Italic
		case files["bold"] != "":
			f.BoldItalic = f.Bold
		}
		families = append(families, f)
	}

	sort.Slice(families, func(i, j int) bool { return families[i].Name < families[j].Name })
	return families
}

// Exists reports whether dir is an existing directory.
func Exists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func splitName(base string) (string, string) {
	style := "normal"
	for _, s := range suffixes {
		if strings.HasSuffix(base, s.suffix) {
			style = s.style
			base = strings.TrimSuffix(base, s.suffix)
			break
		}
	}
	return strings.ReplaceAll(base, "_", " "), style
}
