// Package script runs Lua programs against genomes.
//
// Scripts get a global "genome" module:
//
//	local g = genome.new("linked", 10)
//	local id = g:insert(2, 3)
//	print(g:str(), #g, id)
//
// Genome values expose insert, copy, disable, active, span, len and str. copy
// returns nil when the source TE is not active; insert raises a Lua error for
// an out-of-range position or a non-positive length.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ErrClosed is returned when running code on a closed Engine.
var ErrClosed = errors.New("script engine is closed")

const genomeTypeName = "tesim.genome"

// Engine is a sandboxed Lua state. It is not safe for concurrent use.
type Engine struct {
	L      *lua.LState
	out    io.Writer
	closed bool
}

// NewEngine creates a state whose print writes to out.
func NewEngine(out io.Writer) *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	e := &Engine{L: L, out: out}
	e.sandbox()
	e.registerGenome()
	return e
}

func (e *Engine) sandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		e.L.SetGlobal(name, lua.LNil)
	}
	e.L.SetGlobal("print", e.L.NewFunction(e.print))
}

func (e *Engine) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(e.out, strings.Join(parts, "\t"))
	return 0
}

// Run executes src. Lua errors, including errors raised by genome methods, are
// returned wrapped with the chunk name.
func (e *Engine) Run(ctx context.Context, name, src string) error {
	if e.closed {
		return ErrClosed
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	fn, err := e.L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// RunFile executes the Lua file at path.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return e.Run(ctx, path, string(src))
}

func (e *Engine) Close() {
	if !e.closed {
		e.L.Close()
		e.closed = true
	}
}

// Run executes src in a fresh engine.
func Run(ctx context.Context, src string, out io.Writer) error {
	e := NewEngine(out)
	defer e.Close()
	return e.Run(ctx, "script", src)
}

// RunFile executes the file at path in a fresh engine.
func RunFile(ctx context.Context, path string, out io.Writer) error {
	e := NewEngine(out)
	defer e.Close()
	return e.RunFile(ctx, path)
}
