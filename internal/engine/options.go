package engine

import (
	"github.com/google/uuid"

	"github.com/dshills/multicaret/internal/engine/layout"
	"github.com/dshills/multicaret/internal/engine/lines"
	"github.com/dshills/multicaret/internal/logging"
)

// Default configuration values.
const (
	DefaultTabWidth   = layout.DefaultTabWidth
	DefaultLineHeight = 1.0
	DefaultCellWidth  = 1.0
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of an engine built with New.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabWidth sets the tab width in space advances.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.resolver.TabWidth = width
		}
	}
}

// WithLineEnding sets the terminator given to lines split by a newline.
// None is ignored.
func WithLineEnding(ending lines.LineEnding) Option {
	return func(e *Engine) {
		if ending != lines.None {
			e.lineEnding = ending
		}
	}
}

// WithMetrics sets the glyph measurement provider.
func WithMetrics(m layout.Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.resolver.Metrics = m
		}
	}
}

// WithFont sets the font passed to the metrics provider.
func WithFont(font layout.Font) Option {
	return func(e *Engine) {
		e.resolver.Font = font
	}
}

// WithLineHeight sets the height of one line in pixels.
func WithLineHeight(h float64) Option {
	return func(e *Engine) {
		if h > 0 {
			e.lineHeight = h
		}
	}
}

// WithOverwrite starts the engine in overwrite mode.
func WithOverwrite(on bool) Option {
	return func(e *Engine) {
		e.overwrite = on
	}
}

// WithChunkCapacity sets the chunk capacity of a store built by New.
func WithChunkCapacity(n int) Option {
	return func(e *Engine) {
		e.chunkCapacity = n
	}
}

// WithLogger sets the logger. The engine logs under the "engine" component.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l.WithComponent("engine")
		}
	}
}

// WithID sets the engine identifier, e.g. to continue a saved session.
func WithID(id uuid.UUID) Option {
	return func(e *Engine) {
		if id != uuid.Nil {
			e.id = id
		}
	}
}
