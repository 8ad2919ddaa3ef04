package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/fonts"
	"github.com/arcanaland/bbcards/internal/geometry"
)

var (
	ErrUnknownCardSize = errors.New("unknown card size")
	ErrUnknownPaper    = errors.New("unknown paper size")
)

// Card size presets in inches
var cardSizes = map[string][2]float64{
	"small": {2.0, 2.0},
	"large": {2.5, 3.5},
}

var papers = map[string]geometry.Paper{
	"letter": geometry.Letter,
	"a4":     geometry.A4,
}

// Config represents the application configuration
type Config struct {
	CardSize       string  `toml:"card_size"`
	CardWidth      float64 `toml:"card_width,omitempty"`
	CardHeight     float64 `toml:"card_height,omitempty"`
	RoundedCorners bool    `toml:"rounded_corners"`
	OneCardPerPage bool    `toml:"one_card_per_page"`
	Paper          string  `toml:"paper"`

	WhiteFile string `toml:"white_file"`
	BlackFile string `toml:"black_file"`
	IconFile  string `toml:"icon_file"`
	// DefaultIcon is used when a card directory has no icon of its own.
	DefaultIcon string `toml:"default_icon,omitempty"`
	FontDir     string `toml:"font_dir"`
	Title       string `toml:"title,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CardSize:    "small",
		Paper:       "letter",
		WhiteFile:   deck.DefaultFiles.White,
		BlackFile:   deck.DefaultFiles.Black,
		IconFile:    deck.DefaultFiles.Icon,
		DefaultIcon: "default.png",
		FontDir:     fonts.DefaultDir,
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	if path := os.Getenv("BBCARDS_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(GetXDGConfigHome(), "bbcards", "config.toml")
}

// LoadConfig loads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	config := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return config, nil
}

// InitConfig writes the default config to path unless a file is already
// there, and returns the path written.
func InitConfig(path string) (string, error) {
	if path == "" {
		path = GetConfigFilePath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := Default().Encode(file); err != nil {
		return "", err
	}
	return path, nil
}

// Encode writes the config as TOML.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}

// CardInches resolves the card dimensions in inches. Explicit width and
// height override the size preset.
func (c *Config) CardInches() (float64, float64, error) {
	preset, ok := cardSizes[strings.ToLower(c.CardSize)]
	if !ok {
		if c.CardWidth <= 0 || c.CardHeight <= 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnknownCardSize, c.CardSize)
		}
	}
	w, h := preset[0], preset[1]
	if c.CardWidth > 0 {
		w = c.CardWidth
	}
	if c.CardHeight > 0 {
		h = c.CardHeight
	}
	return w, h, nil
}

// PaperSize resolves the configured sheet.
func (c *Config) PaperSize() (geometry.Paper, error) {
	if c.Paper == "" {
		return geometry.DefaultPaper, nil
	}
	p, ok := papers[strings.ToLower(c.Paper)]
	if !ok {
		return geometry.Paper{}, fmt.Errorf("%w: %q", ErrUnknownPaper, c.Paper)
	}
	return p, nil
}

// Geometry computes the card layout described by the config.
func (c *Config) Geometry() (geometry.Geometry, error) {
	w, h, err := c.CardInches()
	if err != nil {
		return geometry.Geometry{}, err
	}
	paper, err := c.PaperSize()
	if err != nil {
		return geometry.Geometry{}, err
	}
	return geometry.ComputeOnPaper(w, h, c.RoundedCorners, c.OneCardPerPage, paper), nil
}

// Files returns the per-directory input file names.
func (c *Config) Files() deck.Files {
	return deck.Files{White: c.WhiteFile, Black: c.BlackFile, Icon: c.IconFile}
}
