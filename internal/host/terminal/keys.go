package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/multicaret/internal/engine"
)

// command is what a key press asks the host to do.
type command int

const (
	cmdNone command = iota
	cmdEdit
	cmdSave
	cmdQuit
)

// binding is the result of translating a key press.
type binding struct {
	cmd    command
	action engine.Action
}

func edit(a engine.Action) binding {
	return binding{cmd: cmdEdit, action: a}
}

// navigation maps cursor keys to directions, plain and with Ctrl.
var navigation = map[tcell.Key][2]engine.Direction{
	tcell.KeyLeft:  {engine.Left, engine.WordLeft},
	tcell.KeyRight: {engine.Right, engine.WordRight},
	tcell.KeyUp:    {engine.Up, engine.Up},
	tcell.KeyDown:  {engine.Down, engine.Down},
	tcell.KeyHome:  {engine.Home, engine.DocStart},
	tcell.KeyEnd:   {engine.End, engine.DocEnd},
}

// translateKey maps a key event to a binding.
func translateKey(ev *tcell.EventKey) binding {
	mod := ev.Modifiers()
	if dirs, ok := navigation[ev.Key()]; ok {
		d := dirs[0]
		if mod&tcell.ModCtrl != 0 {
			d = dirs[1]
		}
		return edit(engine.Move(d, mod&tcell.ModShift != 0))
	}

	switch ev.Key() {
	case tcell.KeyRune:
		if mod&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			return binding{}
		}
		return edit(engine.InsertChar(ev.Rune()))
	case tcell.KeyEnter:
		return edit(engine.InsertChar('\n'))
	case tcell.KeyTab:
		return edit(engine.InsertChar('\t'))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return edit(engine.DeleteBefore())
	case tcell.KeyDelete:
		return edit(engine.DeleteAfter())
	case tcell.KeyEscape:
		return edit(engine.Collapse())
	case tcell.KeyInsert:
		return edit(engine.ToggleOverwrite())
	case tcell.KeyCtrlA:
		return edit(engine.SelectAll())
	case tcell.KeyCtrlS:
		return binding{cmd: cmdSave}
	case tcell.KeyCtrlQ:
		return binding{cmd: cmdQuit}
	default:
		return binding{}
	}
}
