package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/multicaret/internal/config/loader"
	"github.com/dshills/multicaret/internal/engine"
	"github.com/dshills/multicaret/internal/engine/layout"
	"github.com/dshills/multicaret/internal/engine/lines"
	"github.com/dshills/multicaret/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MULTICARET_"

// selectionBlend is how far the derived selection colour moves from the
// background toward the text colour.
const selectionBlend = 0.25

// Config holds every editor setting.
type Config struct {
	Editor Editor `toml:"editor" yaml:"editor"`
	View   View   `toml:"view" yaml:"view"`
	Theme  Theme  `toml:"theme" yaml:"theme"`
	Log    Log    `toml:"log" yaml:"log"`
}

// Editor holds editing behaviour.
type Editor struct {
	// TabWidth is the tab stop distance in space advances.
	TabWidth int `toml:"tabWidth" yaml:"tabWidth"`
	// LineEnding is the terminator given to new lines: lf, crlf or cr.
	LineEnding string `toml:"lineEnding" yaml:"lineEnding"`
	// Overwrite starts the editor in overwrite mode.
	Overwrite bool `toml:"overwrite" yaml:"overwrite"`
	// ChunkCapacity is the number of lines per line store chunk.
	ChunkCapacity int `toml:"chunkCapacity" yaml:"chunkCapacity"`
}

// View holds geometry.
type View struct {
	LineHeight float64 `toml:"lineHeight" yaml:"lineHeight"`
	CellWidth  float64 `toml:"cellWidth" yaml:"cellWidth"`
	FontFamily string  `toml:"fontFamily" yaml:"fontFamily"`
	FontSize   float64 `toml:"fontSize" yaml:"fontSize"`
}

// Theme holds colours as hex strings ("#rrggbb"). An empty Selection is
// derived from Background and Text.
type Theme struct {
	Text       string `toml:"text" yaml:"text"`
	Background string `toml:"background" yaml:"background"`
	Selection  string `toml:"selection" yaml:"selection"`
	Caret      string `toml:"caret" yaml:"caret"`
}

// Log holds logger settings.
type Log struct {
	Level string `toml:"level" yaml:"level"`
	JSON  bool   `toml:"json" yaml:"json"`
	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: Editor{
			TabWidth:      engine.DefaultTabWidth,
			LineEnding:    "lf",
			ChunkCapacity: lines.DefaultChunkCapacity,
		},
		View: View{
			LineHeight: engine.DefaultLineHeight,
			CellWidth:  engine.DefaultCellWidth,
		},
		Theme: Theme{
			Text:       "#d8dee9",
			Background: "#2e3440",
			Caret:      "#eceff4",
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the user configuration file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "multicaret", "config.toml"), nil
}

// Load builds a configuration from the defaults, the file at path and the
// environment, then validates it. An empty path skips the file.
func Load(path string) (*Config, error) {
	return load(loader.DefaultFS(), loader.NewEnvLoader(EnvPrefix), path)
}

// LoadDefault loads the file at DefaultPath if it exists.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr != nil {
			path = ""
		}
	} else {
		path = ""
	}
	return Load(path)
}

func load(fsys loader.FileSystem, env *loader.EnvLoader, path string) (*Config, error) {
	c := Default()
	if path != "" {
		if err := loader.DecodeFile(fsys, path, c); err != nil {
			return nil, err
		}
	}
	if err := env.Overlay(c); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Editor.TabWidth < 1 {
		errs = append(errs, invalid("editor.tabWidth", "must be at least 1, got %d", c.Editor.TabWidth))
	}
	if _, err := lines.ParseLineEnding(c.Editor.LineEnding); err != nil {
		errs = append(errs, invalid("editor.lineEnding", "%v", err))
	}
	if c.Editor.ChunkCapacity < 1 {
		errs = append(errs, invalid("editor.chunkCapacity", "must be at least 1, got %d", c.Editor.ChunkCapacity))
	}
	if c.View.LineHeight <= 0 {
		errs = append(errs, invalid("view.lineHeight", "must be positive, got %g", c.View.LineHeight))
	}
	if c.View.CellWidth <= 0 {
		errs = append(errs, invalid("view.cellWidth", "must be positive, got %g", c.View.CellWidth))
	}
	if c.View.FontSize < 0 {
		errs = append(errs, invalid("view.fontSize", "must not be negative, got %g", c.View.FontSize))
	}
	for _, f := range []struct {
		name, value string
		optional    bool
	}{
		{"theme.text", c.Theme.Text, false},
		{"theme.background", c.Theme.Background, false},
		{"theme.selection", c.Theme.Selection, true},
		{"theme.caret", c.Theme.Caret, false},
	} {
		if f.optional && f.value == "" {
			continue
		}
		if _, err := colorful.Hex(f.value); err != nil {
			errs = append(errs, invalid(f.name, "not a hex colour: %q", f.value))
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, invalid("log.level", "%v", err))
	}
	return errors.Join(errs...)
}

// EngineOptions returns the engine options the configuration implies.
// The configuration must be valid.
func (c *Config) EngineOptions(log *logging.Logger) []engine.Option {
	ending, _ := lines.ParseLineEnding(c.Editor.LineEnding)
	opts := []engine.Option{
		engine.WithTabWidth(c.Editor.TabWidth),
		engine.WithLineEnding(ending),
		engine.WithOverwrite(c.Editor.Overwrite),
		engine.WithChunkCapacity(c.Editor.ChunkCapacity),
		engine.WithLineHeight(c.View.LineHeight),
		engine.WithMetrics(layout.Monospace{CellWidth: c.View.CellWidth}),
		engine.WithFont(layout.Font{Family: c.View.FontFamily, Size: c.View.FontSize}),
	}
	if log != nil {
		opts = append(opts, engine.WithLogger(log))
	}
	return opts
}

// LogConfig returns the logger configuration, writing to out unless a log
// file is configured. The returned closer releases the file, if any.
func (c *Config) LogConfig(out io.Writer) (logging.Config, io.Closer, error) {
	cfg := logging.DefaultConfig()
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return cfg, nil, err
	}
	cfg.Level = level
	cfg.JSON = c.Log.JSON
	cfg.Output = out

	var closer io.Closer = nopCloser{}
	if c.Log.File != "" {
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return cfg, nil, fmt.Errorf("opening log file: %w", err)
		}
		cfg.Output = f
		closer = f
	}
	return cfg, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Palette is a resolved Theme.
type Palette struct {
	Text       colorful.Color
	Background colorful.Color
	Selection  colorful.Color
	Caret      colorful.Color
}

// Palette resolves the theme colours. An empty selection colour is blended
// in Lab space from the background toward the text.
func (t Theme) Palette() (Palette, error) {
	var p Palette
	var err error
	if p.Text, err = colorful.Hex(t.Text); err != nil {
		return p, invalid("theme.text", "not a hex colour: %q", t.Text)
	}
	if p.Background, err = colorful.Hex(t.Background); err != nil {
		return p, invalid("theme.background", "not a hex colour: %q", t.Background)
	}
	if p.Caret, err = colorful.Hex(t.Caret); err != nil {
		return p, invalid("theme.caret", "not a hex colour: %q", t.Caret)
	}
	if t.Selection == "" {
		p.Selection = p.Background.BlendLab(p.Text, selectionBlend).Clamped()
		return p, nil
	}
	if p.Selection, err = colorful.Hex(t.Selection); err != nil {
		return p, invalid("theme.selection", "not a hex colour: %q", t.Selection)
	}
	return p, nil
}
