package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lexi/internal/engine/document"
	"github.com/dshills/lexi/internal/engine/history"
	"github.com/dshills/lexi/internal/logger"
	"github.com/dshills/lexi/internal/session"
)

// ModuleName is the global table scripts use to reach the editor.
const ModuleName = "lexi"

// api binds a Lua state to a session.
type api struct {
	state *State
	sess  *session.Session
}

// Bind installs the lexi table in s, operating on sess.
//
// Positions are zero-based (row, col) pairs as in the document model.
// Go errors are raised as Lua errors.
func Bind(s *State, sess *session.Session) {
	a := &api{state: s, sess: sess}
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"insert":        a.insert,
		"delete":        a.delete,
		"replace":       a.replace,
		"copy":          a.copy,
		"paste":         a.paste,
		"undo":          a.undo,
		"redo":          a.redo,
		"can_undo":      a.canUndo,
		"can_redo":      a.canRedo,
		"clear_history": a.clearHistory,
		"text":          a.text,
		"command":       a.command,
		"begin_group":   a.beginGroup,
		"end_group":     a.endGroup,
		"quit":          a.quit,
		"log":           a.log,
	})
}

func checkPos(L *lua.LState, n int) document.Position {
	return document.Position{Row: L.CheckInt(n), Col: L.CheckInt(n + 1)}
}

func raise(L *lua.LState, err error) int {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// lexi.insert(row, col, text)
func (a *api) insert(L *lua.LState) int {
	pos := checkPos(L, 1)
	return raise(L, a.sess.Insert(pos, L.CheckString(3)))
}

// lexi.delete(row, col, count)
func (a *api) delete(L *lua.LState) int {
	pos := checkPos(L, 1)
	return raise(L, a.sess.Delete(pos, L.CheckInt(3)))
}

// lexi.replace(row, col, count, text)
func (a *api) replace(L *lua.LState) int {
	pos := checkPos(L, 1)
	return raise(L, a.sess.Replace(pos, L.CheckInt(3), L.CheckString(4)))
}

// lexi.copy(row, col, count)
func (a *api) copy(L *lua.LState) int {
	pos := checkPos(L, 1)
	return raise(L, a.sess.Copy(pos, L.CheckInt(3)))
}

// lexi.paste(row, col)
func (a *api) paste(L *lua.LState) int {
	return raise(L, a.sess.Paste(checkPos(L, 1)))
}

func (a *api) undo(L *lua.LState) int {
	return raise(L, a.sess.Undo())
}

func (a *api) redo(L *lua.LState) int {
	return raise(L, a.sess.Redo())
}

func (a *api) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(a.sess.History().CanUndo()))
	return 1
}

func (a *api) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(a.sess.History().CanRedo()))
	return 1
}

func (a *api) clearHistory(*lua.LState) int {
	a.sess.History().Clear()
	return 0
}

func (a *api) text(L *lua.LState) int {
	L.Push(lua.LString(a.sess.Text()))
	return 1
}

func (a *api) beginGroup(L *lua.LState) int {
	a.sess.History().BeginGroup(L.OptString(1, "Script edit"))
	return 0
}

func (a *api) endGroup(*lua.LState) int {
	a.sess.History().EndGroup()
	return 0
}

func (a *api) quit(L *lua.LState) int {
	return raise(L, a.sess.Quit())
}

func (a *api) log(L *lua.LState) int {
	a.sess.Logger().Writeln(logger.LevelMessage, "%s", L.CheckString(1))
	return 0
}

// lexi.command{description=, execute=fn, unexecute=fn, reversible=bool}
//
// Executes a command implemented in Lua through the session's history.
// reversible defaults to true when unexecute is given.
func (a *api) command(L *lua.LState) int {
	def := L.CheckTable(1)

	exec, ok := def.RawGetString("execute").(*lua.LFunction)
	if !ok {
		L.ArgError(1, "execute must be a function")
		return 0
	}
	undo, hasUndo := def.RawGetString("unexecute").(*lua.LFunction)

	reversible := hasUndo
	if rv, ok := def.RawGetString("reversible").(lua.LBool); ok {
		reversible = bool(rv)
	}
	if reversible && !hasUndo {
		L.ArgError(1, "reversible commands need an unexecute function")
		return 0
	}

	name := "Lua command"
	if d, ok := def.RawGetString("description").(lua.LString); ok && d != "" {
		name = string(d)
	}

	cmd := &history.FuncCommand{
		Name:        name,
		ExecuteFunc: a.callback(exec),
		Reversible:  reversible,
	}
	if hasUndo {
		cmd.UnexecuteFunc = a.callback(undo)
	}
	return raise(L, a.sess.Execute(cmd))
}

// callback wraps fn so Go can call it after the defining chunk returned.
func (a *api) callback(fn *lua.LFunction) func() error {
	return func() error {
		if a.state.IsClosed() {
			return ErrStateClosed
		}
		return doWithRecovery(func() error {
			return a.state.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
		})
	}
}
