package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/multicaret/internal/config"
	"github.com/dshills/multicaret/internal/engine"
	"github.com/dshills/multicaret/internal/logging"
	"github.com/dshills/multicaret/internal/textio"
)

// Host runs the event loop of one engine on a screen. Only the goroutine
// calling Run touches the engine.
type Host struct {
	screen Screen
	e      *engine.Engine
	log    *logging.Logger
	styles styles

	path   string
	format textio.Format

	// Scroll offset in cells and lines.
	scrollX, scrollY int

	// Mouse button 1 state from the previous mouse event.
	pressed bool

	// Bracketed paste in progress.
	pasting bool
	paste   strings.Builder

	modified bool
	status   string
	quit     bool
}

// Option configures a Host.
type Option func(*Host)

// WithFile sets the file Ctrl+S saves to and its format.
func WithFile(path string, f textio.Format) Option {
	return func(h *Host) {
		h.path = path
		h.format = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l.WithComponent("host")
		}
	}
}

// WithPalette sets the colours.
func WithPalette(p config.Palette) Option {
	return func(h *Host) {
		h.styles = newStyles(p)
	}
}

// New creates a host showing e on screen. The screen is initialised by
// Run.
func New(screen Screen, e *engine.Engine, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		e:      e,
		log:    logging.Nop(),
	}
	if p, err := config.Default().Theme.Palette(); err == nil {
		h.styles = newStyles(p)
	}
	for _, opt := range opts {
		opt(h)
	}

	e.OnModified(func() { h.modified = true })
	e.OnScroll(h.scrollTo)
	return h
}

// Apply applies a configuration reloaded while running. Only the colours
// change; engine settings take effect on the next start.
func (h *Host) Apply(c *config.Config) {
	p, err := c.Theme.Palette()
	if err != nil {
		h.log.Error("applying theme: %v", err)
		return
	}
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(p))
}

// Run initialises the screen and processes events until Ctrl+Q or until
// ctx is done.
func (h *Host) Run(ctx context.Context) error {
	if err := initScreen(h.screen); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}
	defer h.screen.Fini()
	h.log.Info("editing %s (%d lines)", h.displayName(), h.e.LineCount())

	stop := context.AfterFunc(ctx, func() {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(ctx))
	})
	defer stop()

	for !h.quit {
		h.draw()
		ev := h.screen.PollEvent()
		if ev == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
		h.handleEvent(ev)
	}
	h.log.Info("closing %s", h.displayName())
	return ctx.Err()
}

func (h *Host) displayName() string {
	if h.path == "" {
		return "[scratch]"
	}
	return h.path
}

// handleEvent dispatches one screen event.
func (h *Host) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if h.pasting {
			h.collectPaste(ev)
			return
		}
		h.handleKey(ev)
	case *tcell.EventPaste:
		if ev.Start() {
			h.pasting = true
			h.paste.Reset()
			return
		}
		h.pasting = false
		if h.paste.Len() > 0 {
			h.e.ApplyEdit(engine.InsertText(h.paste.String()))
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.handleMouse(x, y, ev.Buttons(), ev.Modifiers())
	case *tcell.EventInterrupt:
		if p, ok := ev.Data().(config.Palette); ok {
			h.styles = newStyles(p)
		}
	}
}

// collectPaste accumulates the keys of a bracketed paste.
func (h *Host) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		h.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		h.paste.WriteByte('\n')
	case tcell.KeyTab:
		h.paste.WriteByte('\t')
	}
}

func (h *Host) handleKey(ev *tcell.EventKey) {
	b := translateKey(ev)
	switch b.cmd {
	case cmdEdit:
		h.status = ""
		h.e.ApplyEdit(b.action)
	case cmdSave:
		h.save()
	case cmdQuit:
		h.quit = true
	}
}

// save writes the document to its file.
func (h *Host) save() {
	if h.path == "" {
		h.status = "no file to save to"
		return
	}
	if err := textio.SaveFile(h.path, h.e.Store(), h.format); err != nil {
		h.log.Error("saving %s: %v", h.path, err)
		h.status = "save failed: " + err.Error()
		return
	}
	h.modified = false
	h.status = "saved " + h.path
	h.log.Info("saved %s", h.path)
}

// handleMouse feeds button 1 transitions to the interaction state machine.
// Alt makes a press additive.
func (h *Host) handleMouse(x, y int, buttons tcell.ButtonMask, mod tcell.ModMask) {
	down := buttons&tcell.Button1 != 0
	dx, dy := h.docPoint(x, y)
	switch {
	case down && !h.pressed:
		h.e.MouseDown(dx, dy, mod&tcell.ModAlt != 0)
	case down:
		h.e.MouseMove(dx, dy)
	case h.pressed:
		h.e.MouseMove(dx, dy)
		h.e.MouseUp()
	}
	h.pressed = down
}

// docPoint converts a screen cell to document coordinates.
func (h *Host) docPoint(x, y int) (float64, float64) {
	cw := h.cellWidth()
	return float64(x+h.scrollX) * cw, float64(y+h.scrollY) * h.e.LineHeight()
}

func (h *Host) cellWidth() float64 {
	res := h.e.Resolver()
	w := res.Metrics.Advance(res.Font, ' ')
	if w <= 0 {
		return 1
	}
	return w
}

// scrollTo scrolls so that the document point (x, y) is on screen.
func (h *Host) scrollTo(x, y float64) {
	width, height := h.textArea()
	col := int(x / h.cellWidth())
	row := int(y / h.e.LineHeight())
	switch {
	case row < h.scrollY:
		h.scrollY = row
	case row >= h.scrollY+height:
		h.scrollY = row - height + 1
	}
	switch {
	case col < h.scrollX:
		h.scrollX = col
	case col >= h.scrollX+width:
		h.scrollX = col - width + 1
	}
}

// textArea returns the size of the text region, which is the screen minus
// the status line.
func (h *Host) textArea() (int, int) {
	w, ht := h.screen.Size()
	return max(w, 1), max(ht-1, 1)
}
