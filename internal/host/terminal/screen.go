// Package terminal hosts an editing engine in a tcell terminal screen.
package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/multicaret/internal/config"
)

// Screen is the part of tcell.Screen the host draws with and reads
// events from.
type Screen interface {
	Init() error
	Fini()
	Size() (width, height int)
	Clear()
	Show()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	ShowCursor(x, y int)
	HideCursor()
	PollEvent() tcell.Event
	PostEvent(ev tcell.Event) error
	EnableMouse(flags ...tcell.MouseFlags)
	EnablePaste()
}

// NewScreen creates the terminal screen.
func NewScreen() (Screen, error) {
	return tcell.NewScreen()
}

// initScreen prepares s for editing: mouse and bracketed paste enabled.
func initScreen(s Screen) error {
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	s.EnablePaste()
	return nil
}

// styles are the cell styles the host draws with.
type styles struct {
	text      tcell.Style
	selection tcell.Style
	caret     tcell.Style
	status    tcell.Style
}

func rgb(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// newStyles builds the styles of palette p.
func newStyles(p config.Palette) styles {
	text := rgb(p.Text)
	bg := rgb(p.Background)
	return styles{
		text:      tcell.StyleDefault.Foreground(text).Background(bg),
		selection: tcell.StyleDefault.Foreground(text).Background(rgb(p.Selection)),
		caret:     tcell.StyleDefault.Foreground(bg).Background(rgb(p.Caret)),
		status:    tcell.StyleDefault.Foreground(bg).Background(text),
	}
}
