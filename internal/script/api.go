package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/multicaret/internal/engine"
)

// api returns the functions of the mc module. Positions are zero-based,
// the same as the engine's.
func (r *Runner) api() map[string]lua.LGFunction {
	edit := func(build func(L *lua.LState) engine.Action) lua.LGFunction {
		return func(L *lua.LState) int {
			a := build(L)
			r.count(L)
			L.Push(lua.LBool(r.e.ApplyEdit(a)))
			return 1
		}
	}

	return map[string]lua.LGFunction{
		"insert": edit(func(L *lua.LState) engine.Action {
			return engine.InsertText(L.CheckString(1))
		}),
		"newline": edit(func(*lua.LState) engine.Action {
			return engine.InsertChar('\n')
		}),
		"backspace": edit(func(*lua.LState) engine.Action {
			return engine.DeleteBefore()
		}),
		"delete": edit(func(*lua.LState) engine.Action {
			return engine.DeleteAfter()
		}),
		"move": edit(func(L *lua.LState) engine.Action {
			name := L.CheckString(1)
			d, ok := engine.ParseDirection(name)
			if !ok {
				L.ArgError(1, "unknown direction "+name)
			}
			return engine.Move(d, L.OptBool(2, false))
		}),
		"add_caret": edit(func(L *lua.LState) engine.Action {
			return engine.AddCaret(engine.Position{Line: L.CheckInt(1), Column: L.CheckInt(2)})
		}),
		"collapse": edit(func(*lua.LState) engine.Action {
			return engine.Collapse()
		}),
		"select_all": edit(func(*lua.LState) engine.Action {
			return engine.SelectAll()
		}),
		"toggle_overwrite": edit(func(*lua.LState) engine.Action {
			return engine.ToggleOverwrite()
		}),
		"carets":     r.carets,
		"text":       r.text,
		"line":       r.line,
		"line_count": r.lineCount,
	}
}

// count charges one call against the edit limit.
func (r *Runner) count(L *lua.LState) {
	r.edits++
	if r.editLimit > 0 && r.edits > r.editLimit {
		L.RaiseError("%v (%d)", ErrEditLimit, r.editLimit)
	}
}

// carets returns an array of {line, col, anchor_line, anchor_col}.
func (r *Runner) carets(L *lua.LState) int {
	set := r.e.Carets()
	tb := L.CreateTable(set.Len(), 0)
	for i, c := range set.All() {
		t := L.CreateTable(0, 4)
		t.RawSetString("line", lua.LNumber(c.End.Line))
		t.RawSetString("col", lua.LNumber(c.End.Column))
		t.RawSetString("anchor_line", lua.LNumber(c.Anchor.Line))
		t.RawSetString("anchor_col", lua.LNumber(c.Anchor.Column))
		tb.RawSetInt(i+1, t)
	}
	L.Push(tb)
	return 1
}

func (r *Runner) text(L *lua.LState) int {
	L.Push(lua.LString(r.e.Text()))
	return 1
}

// line returns the content of line i without its terminator.
func (r *Runner) line(L *lua.LState) int {
	ln, err := r.e.Line(L.CheckInt(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	L.Push(lua.LString(ln.String()))
	return 1
}

func (r *Runner) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.e.LineCount()))
	return 1
}
