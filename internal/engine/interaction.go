package engine

import "github.com/dshills/multicaret/internal/engine/caret"

// InteractionState is the state of mouse interaction.
type InteractionState int

// Interaction states.
const (
	// StateIdle: no button held.
	StateIdle InteractionState = iota
	// StateSelecting: a selection is being dragged out.
	StateSelecting
	// StatePreDrag: the button went down inside a selection.
	StatePreDrag
)

func (s InteractionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StatePreDrag:
		return "predrag"
	default:
		return "unknown"
	}
}

// interactionEvent is an input to the interaction state machine.
type interactionEvent int

const (
	evPressOutside interactionEvent = iota
	evPressInside
	evMove
	evRelease
)

// transitions lists every legal state change. Pairs missing from the
// table leave the state alone and are ignored.
var transitions = map[InteractionState]map[interactionEvent]InteractionState{
	StateIdle: {
		evPressOutside: StateSelecting,
		evPressInside:  StatePreDrag,
	},
	StateSelecting: {
		evMove:    StateSelecting,
		evRelease: StateIdle,
	},
	StatePreDrag: {
		evMove:    StatePreDrag,
		evRelease: StateIdle,
	},
}

// step returns the state following ev and whether the event applies.
func (e *Engine) step(ev interactionEvent) (InteractionState, bool) {
	next, ok := transitions[e.state][ev]
	return next, ok
}

// State returns the current interaction state.
func (e *Engine) State() InteractionState {
	return e.state
}

// MouseDown handles a primary button press at document point (x, y).
// Inside a selection it arms a drag; elsewhere it starts a new selection,
// dropping the other carets unless additive.
func (e *Engine) MouseDown(x, y float64, additive bool) {
	e.mustBeIdleTx()
	hit := e.HitTest(x, y)
	ev := evPressOutside
	if e.carets.Contains(hit) {
		ev = evPressInside
	}
	next, ok := e.step(ev)
	if !ok {
		return
	}
	e.state = next

	switch next {
	case StatePreDrag:
		e.press = hit
	case StateSelecting:
		if !additive {
			e.carets = caret.Empty()
		}
		e.pending = caret.NewCaret(hit, e.xAt(hit))
	}
	e.log.Debug("mouse down at %s: %s", hit, next)
}

// MouseMove handles pointer motion at document point (x, y).
func (e *Engine) MouseMove(x, y float64) {
	if _, ok := e.step(evMove); !ok || e.state != StateSelecting {
		return
	}
	hit := e.HitTest(x, y)
	if hit == e.pending.End {
		return
	}
	e.pending = caret.NewRange(e.pending.Anchor, hit, e.xAt(hit))
	e.makeVisiblePoint(hit)
}

// MouseUp handles the release of the primary button. A selection being
// dragged out is committed; a press inside a selection that did not turn
// into a drag collapses the carets to the press position.
func (e *Engine) MouseUp() {
	next, ok := e.step(evRelease)
	if !ok {
		return
	}
	switch e.state {
	case StateSelecting:
		e.commitSelection()
	case StatePreDrag:
		e.carets = caret.NewSet()
		e.carets.Reset(caret.NewCaret(e.press, e.xAt(e.press)))
		e.rebuildSelectionCache()
	}
	e.state = next
}

// CaptureLost handles the view losing the mouse; it acts as a release.
func (e *Engine) CaptureLost() {
	e.MouseUp()
}

// commitSelection merges the selection being dragged out into the live set.
func (e *Engine) commitSelection() {
	if e.state != StateSelecting {
		return
	}
	e.insertCaret(e.carets, e.pending)
	e.pending = caret.Range{}
	e.state = StateIdle
	e.rebuildSelectionCache()
}

// cancelInteraction forgets any mouse interaction in progress.
func (e *Engine) cancelInteraction() {
	e.pending = caret.Range{}
	e.state = StateIdle
	if e.carets.Len() == 0 {
		e.carets = caret.NewSet()
	}
}

func (e *Engine) makeVisiblePoint(p Position) {
	x, y := e.xAt(p), float64(p.Line)*e.lineHeight
	for _, fn := range e.scrollListeners {
		fn(x, y)
	}
}
