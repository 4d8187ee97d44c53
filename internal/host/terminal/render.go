package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/multicaret/internal/engine/caret"
)

// span is a selected horizontal interval of one line.
type span struct{ min, max float64 }

func selected(spans []span, x float64) bool {
	for _, s := range spans {
		if x >= s.min && x < s.max {
			return true
		}
	}
	return false
}

// draw renders the visible lines, the carets and the status line.
func (h *Host) draw() {
	width, height := h.textArea()
	lh := h.e.LineHeight()

	spans := make([][]span, height)
	for _, r := range h.e.SelectionRects() {
		row := int(math.Floor(r.MinY/lh)) - h.scrollY
		if row >= 0 && row < height {
			spans[row] = append(spans[row], span{r.MinX, r.MaxX})
		}
	}

	for row := range height {
		h.fill(row, width, h.styles.text)
		h.drawLine(row, spans[row])
	}
	h.drawCarets(height)
	h.drawStatus(height, width)
	h.screen.Show()
}

func (h *Host) fill(row, width int, style tcell.Style) {
	for x := range width {
		h.screen.SetContent(x, row, ' ', nil, style)
	}
}

// drawLine renders the document line shown on screen row row. Tabs are
// expanded to the cells the resolver gives them.
func (h *Host) drawLine(row int, spans []span) {
	ln, err := h.e.Line(row + h.scrollY)
	if err != nil {
		return
	}
	res := h.e.Resolver()
	cw := h.cellWidth()

	it := res.Iterate(ln.Content)
	for it.Next() {
		left := it.Left()
		cells := int(math.Round((it.NextLeft() - left) / cw))
		if cells <= 0 {
			continue
		}
		style := h.styles.text
		if selected(spans, left) {
			style = h.styles.selection
		}
		x := int(math.Round(left/cw)) - h.scrollX
		if r := it.Rune(); r == '\t' {
			for i := range cells {
				h.screen.SetContent(x+i, row, ' ', nil, style)
			}
		} else {
			h.screen.SetContent(x, row, r, nil, style)
		}
	}

	// The selected line break shows as one cell past the end.
	if end := res.LineWidth(ln.Content); selected(spans, end) {
		h.screen.SetContent(int(math.Round(end/cw))-h.scrollX, row, ' ', nil, h.styles.selection)
	}
}

// drawCarets places the terminal cursor on the primary caret and draws
// the others as reversed cells.
func (h *Host) drawCarets(height int) {
	carets := h.e.DisplayCarets()
	h.screen.HideCursor()
	if carets.Len() == 0 {
		return
	}
	primary := carets.Primary()
	for _, c := range carets.All() {
		x, row, r, ok := h.caretCell(c.End, height)
		if !ok {
			continue
		}
		if c.End == primary.End {
			h.screen.ShowCursor(x, row)
			continue
		}
		h.screen.SetContent(x, row, r, nil, h.styles.caret)
	}
}

// caretCell returns the screen cell of p and the rune shown under it.
func (h *Host) caretCell(p caret.Position, height int) (x, row int, r rune, ok bool) {
	row = p.Line - h.scrollY
	if row < 0 || row >= height {
		return 0, 0, 0, false
	}
	ln, err := h.e.Line(p.Line)
	if err != nil {
		return 0, 0, 0, false
	}
	x = int(math.Round(h.e.Resolver().ColumnToX(ln.Content, p.Column)/h.cellWidth())) - h.scrollX
	width, _ := h.textArea()
	if x < 0 || x >= width {
		return 0, 0, 0, false
	}
	r = ' '
	if p.Column < len(ln.Content) && ln.Content[p.Column] != '\t' {
		r = ln.Content[p.Column]
	}
	return x, row, r, true
}

// statusText describes the document and the primary caret.
func (h *Host) statusText() string {
	name := h.displayName()
	if h.modified {
		name += " *"
	}
	mode := "INS"
	if h.e.Overwrite() {
		mode = "OVR"
	}
	carets := h.e.DisplayCarets()
	pos := "-"
	if carets.Len() > 0 {
		p := carets.Primary().End
		pos = fmt.Sprintf("Ln %d, Col %d", p.Line+1, p.Column+1)
	}
	s := fmt.Sprintf(" %s  %s  %d carets  %s", name, pos, carets.Len(), mode)
	if h.status != "" {
		s += "  " + h.status
	}
	return s
}

func (h *Host) drawStatus(row, width int) {
	h.fill(row, width, h.styles.status)
	x := 0
	for _, r := range h.statusText() {
		if x >= width {
			break
		}
		h.screen.SetContent(x, row, r, nil, h.styles.status)
		x++
	}
}
