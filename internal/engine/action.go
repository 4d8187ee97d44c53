package engine

import (
	"fmt"

	"github.com/dshills/multicaret/internal/engine/caret"
)

// ActionKind identifies an edit action.
type ActionKind int

// Action kinds.
const (
	ActionInsertChar ActionKind = iota
	ActionInsertText
	ActionDeleteBefore
	ActionDeleteAfter
	ActionMove
	ActionCollapse
	ActionToggleOverwrite
	ActionAddCaret
	ActionSelectAll
)

// Action is one user command applied at every caret.
type Action struct {
	Kind      ActionKind
	Char      rune
	Text      string
	Direction Direction
	Extend    bool
	Pos       Position
}

// InsertChar types r at every caret.
func InsertChar(r rune) Action {
	return Action{Kind: ActionInsertChar, Char: r}
}

// InsertText pastes s at every caret.
func InsertText(s string) Action {
	return Action{Kind: ActionInsertText, Text: s}
}

// DeleteBefore is backspace.
func DeleteBefore() Action {
	return Action{Kind: ActionDeleteBefore}
}

// DeleteAfter is delete.
func DeleteAfter() Action {
	return Action{Kind: ActionDeleteAfter}
}

// Move moves every caret in direction d, extending selections if extend.
func Move(d Direction, extend bool) Action {
	return Action{Kind: ActionMove, Direction: d, Extend: extend}
}

// Collapse drops every selection, keeping the caret ends.
func Collapse() Action {
	return Action{Kind: ActionCollapse}
}

// ToggleOverwrite switches between insert and overwrite mode.
func ToggleOverwrite() Action {
	return Action{Kind: ActionToggleOverwrite}
}

// AddCaret adds a plain caret at p.
func AddCaret(p Position) Action {
	return Action{Kind: ActionAddCaret, Pos: p}
}

// SelectAll replaces the carets with one selection over the document.
func SelectAll() Action {
	return Action{Kind: ActionSelectAll}
}

// String returns a short description of the action.
func (a Action) String() string {
	switch a.Kind {
	case ActionInsertChar:
		return fmt.Sprintf("insert %q", a.Char)
	case ActionInsertText:
		return fmt.Sprintf("insert text (%d bytes)", len(a.Text))
	case ActionDeleteBefore:
		return "delete before"
	case ActionDeleteAfter:
		return "delete after"
	case ActionMove:
		if a.Extend {
			return "extend " + a.Direction.String()
		}
		return "move " + a.Direction.String()
	case ActionCollapse:
		return "collapse"
	case ActionToggleOverwrite:
		return "toggle overwrite"
	case ActionAddCaret:
		return "add caret at " + a.Pos.String()
	case ActionSelectAll:
		return "select all"
	default:
		return "unknown action"
	}
}

// ApplyEdit applies a at every caret and reports whether the document
// changed.
func (e *Engine) ApplyEdit(a Action) bool {
	e.mustBeIdleTx()
	e.log.Debug("apply %s at %d carets", a, e.carets.Len())

	switch a.Kind {
	case ActionToggleOverwrite:
		e.overwrite = !e.overwrite
		return false
	case ActionAddCaret:
		if e.state == StateSelecting {
			e.commitSelection()
		}
		p := e.clampPosition(a.Pos)
		e.insertCaret(e.carets, caret.NewCaret(p, e.xAt(p)))
		e.rebuildSelectionCache()
		return false
	case ActionSelectAll:
		end := e.EndPosition()
		e.cancelInteraction()
		e.carets.Reset(caret.NewRange(Position{}, end, e.xAt(end)))
		e.rebuildSelectionCache()
		e.makeVisible()
		return false
	}

	var step func(m *Modifier)
	switch a.Kind {
	case ActionInsertChar:
		step = func(m *Modifier) { m.InsertChar(a.Char) }
	case ActionInsertText:
		step = func(m *Modifier) { m.InsertText(a.Text, false) }
	case ActionDeleteBefore:
		step = (*Modifier).DeleteBefore
	case ActionDeleteAfter:
		step = (*Modifier).DeleteAfter
	case ActionMove:
		step = func(m *Modifier) { m.Move(a.Direction, a.Extend) }
	case ActionCollapse:
		step = (*Modifier).Collapse
	default:
		return false
	}

	tx := e.Begin()
	for ; !tx.Done(); tx.Next() {
		step(tx)
	}
	return tx.End()
}
