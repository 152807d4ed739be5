// Package luascript binds Lua files to aura script hooks.
//
// A script file declares behaviours with
//
//	aura.register(spell_id, name, {
//	    calc_amount = function(ctx) return ctx.amount * 2 end,
//	    check_proc  = function(ev) return ev.damage > 0 end,
//	})
//
// Supported hooks: check_area_target, calc_amount, effect_periodic,
// check_proc, after_proc, after_remove.
package luascript

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Shopify/go-lua"

	"github.com/udisondev/auracore/internal/game/aura"
)

// hooksTable is the Lua global holding registered hook tables by reference.
const hooksTable = "__aura_hooks"

// Hook names recognised in a hooks table.
const (
	HookCheckAreaTarget = "check_area_target"
	HookCalcAmount      = "calc_amount"
	HookEffectPeriodic  = "effect_periodic"
	HookCheckProc       = "check_proc"
	HookAfterProc       = "after_proc"
	HookAfterRemove     = "after_remove"
)

var knownHooks = []string{
	HookCheckAreaTarget, HookCalcAmount, HookEffectPeriodic,
	HookCheckProc, HookAfterProc, HookAfterRemove,
}

// Declaration is one aura.register call.
type Declaration struct {
	SpellID uint32
	Name    string
	Hooks   []string

	ref int
}

// Runtime owns one Lua state shared by every declared script.
// Hooks are serialised by a mutex: lua.State is not safe for concurrent use.
type Runtime struct {
	mu    sync.Mutex
	state *lua.State
	decls []Declaration
}

// NewRuntime creates a Lua state with the standard libraries and the aura table.
func NewRuntime() *Runtime {
	rt := &Runtime{state: lua.NewState()}
	lua.OpenLibraries(rt.state)

	rt.state.NewTable()
	rt.state.SetGlobal(hooksTable)

	rt.state.NewTable()
	lua.SetFunctions(rt.state, []lua.RegistryFunction{
		{Name: "register", Function: rt.register},
		{Name: "log", Function: luaLog},
	}, 0)
	rt.state.SetGlobal("aura")
	return rt
}

// Declarations returns registered scripts in declaration order.
func (rt *Runtime) Declarations() []Declaration {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make([]Declaration, len(rt.decls))
	copy(out, rt.decls)
	return out
}

// DoFile runs a script file.
func (rt *Runtime) DoFile(path string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := lua.LoadFile(rt.state, path, ""); err != nil {
		return fmt.Errorf("load lua %s: %w", path, err)
	}
	if err := rt.state.ProtectedCall(0, 0, 0); err != nil {
		return fmt.Errorf("run lua %s: %w", path, err)
	}
	return nil
}

// DoString runs a chunk of Lua source.
func (rt *Runtime) DoString(src string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if err := lua.DoString(rt.state, src); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// Install attaches every declared script to the registry.
func (rt *Runtime) Install(reg *aura.ScriptRegistry) {
	for _, d := range rt.Declarations() {
		reg.Register(d.SpellID, func() aura.Script {
			return &script{rt: rt, decl: d}
		})
	}
}

// Load runs every *.lua file of dir in name order and installs the declared
// scripts into reg. A missing dir is not an error.
func Load(dir string, reg *aura.ScriptRegistry) (*Runtime, error) {
	rt := NewRuntime()
	if dir == "" {
		return rt, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Warn("scripts directory not found", "dir", dir)
		return rt, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, fmt.Errorf("listing scripts in %s: %w", dir, err)
	}
	sort.Strings(files)
	for _, f := range files {
		if err := rt.DoFile(f); err != nil {
			return nil, err
		}
	}
	rt.Install(reg)
	slog.Info("aura scripts loaded", "files", len(files), "scripts", len(rt.decls))
	return rt, nil
}

// register implements aura.register(spell_id, name, hooks).
func (rt *Runtime) register(l *lua.State) int {
	spellID := lua.CheckInteger(l, 1)
	name := lua.CheckString(l, 2)
	lua.CheckType(l, 3, lua.TypeTable)
	if spellID <= 0 {
		lua.ArgumentError(l, 1, "spell id must be positive")
	}

	var hooks []string
	for _, h := range knownHooks {
		l.Field(3, h)
		if l.IsFunction(-1) {
			hooks = append(hooks, h)
		}
		l.Pop(1)
	}

	ref := len(rt.decls) + 1
	l.Global(hooksTable)
	l.PushValue(3)
	l.RawSetInt(-2, ref)
	l.Pop(1)

	rt.decls = append(rt.decls, Declaration{SpellID: uint32(spellID), Name: name, Hooks: hooks, ref: ref})
	return 0
}

func luaLog(l *lua.State) int {
	msg := lua.CheckString(l, 1)
	slog.Info("lua", "msg", msg)
	return 0
}

// call invokes hook of declaration d with one table argument built by args.
// results reads the return values; it is skipped when the call fails.
func (rt *Runtime) call(d Declaration, hook string, args map[string]any, nresults int, results func(l *lua.State)) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	l := rt.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(hooksTable)
	l.RawGetInt(-1, d.ref)
	l.Field(-1, hook)
	if !l.IsFunction(-1) {
		return
	}
	pushTable(l, args)
	if err := l.ProtectedCall(1, nresults, 0); err != nil {
		slog.Warn("lua hook failed", "script", d.Name, "spell", d.SpellID, "hook", hook, "error", err)
		return
	}
	if results != nil {
		results(l)
	}
}

// pushTable pushes a flat table of ints, floats, strings and bools.
func pushTable(l *lua.State, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l.NewTable()
	for _, k := range keys {
		switch v := fields[k].(type) {
		case int:
			l.PushInteger(v)
		case int32:
			l.PushInteger(int(v))
		case uint32:
			l.PushInteger(int(v))
		case uint8:
			l.PushInteger(int(v))
		case float64:
			l.PushNumber(v)
		case string:
			l.PushString(v)
		case bool:
			l.PushBoolean(v)
		default:
			continue
		}
		l.SetField(-2, k)
	}
}
