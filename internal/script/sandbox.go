package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lexi/internal/logger"
)

// installSandbox removes the functions that can load code from disk,
// strings or modules and sends print output to the logger.
func installSandbox(L *lua.LState, log logger.Sink) {
	dangerousFuncs := []string{
		"dofile",     // Load and execute file
		"loadfile",   // Load file as function
		"load",       // Load string as function
		"loadstring", // Load string as function
		"require",    // Load module
		"module",     // Define module
	}
	for _, name := range dangerousFuncs {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		log.Writeln(logger.LevelMessage, "%s", strings.Join(parts, "\t"))
		return 0
	}))
}
