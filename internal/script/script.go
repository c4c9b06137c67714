// Package script runs Lua navigation scripts against a session.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. The global table nav drives the session:
//
//	nav.move("next", "word")     -- move without selecting
//	nav.select("prev")           -- extend the selection (default unit)
//	nav.first("block")           -- jump to the first unit
//	nav.last()                   -- jump to the last unit
//	nav.selection()              -- text of the live selection
//	speak("note")                -- add a line to the transcript
//
// The navigation calls return the rendered narration and also append it
// to the transcript. print is redirected to the transcript.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/selnarrate/internal/engine/walker"
	"github.com/dshills/selnarrate/internal/logging"
	"github.com/dshills/selnarrate/internal/narration"
	"github.com/dshills/selnarrate/internal/session"
)

// ErrStepLimit is raised when a script exceeds its navigation step budget.
var ErrStepLimit = errors.New("script step limit exceeded")

// DefaultStepLimit bounds navigation calls per run.
const DefaultStepLimit = 10_000

// Runner executes scripts against one session.
// A Runner is not safe for concurrent use.
type Runner struct {
	sess      *session.Session
	unit      walker.Granularity
	style     narration.EarconStyle
	stepLimit int
	logger    *logging.Logger

	steps      int
	transcript []string
	err        error // last Go error raised into Lua
}

// Option configures a Runner.
type Option func(*Runner)

// WithGranularity sets the unit used when a script omits one.
func WithGranularity(g walker.Granularity) Option {
	return func(r *Runner) {
		r.unit = g
	}
}

// WithEarconStyle sets how earcons appear in returned narration.
func WithEarconStyle(s narration.EarconStyle) Option {
	return func(r *Runner) {
		r.style = s
	}
}

// WithStepLimit sets the navigation call budget.
func WithStepLimit(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.stepLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l.WithComponent("script")
		}
	}
}

// New creates a runner for sess.
func New(sess *session.Session, opts ...Option) *Runner {
	r := &Runner{
		sess:      sess,
		unit:      walker.Word,
		style:     narration.EarconStyleBrackets,
		stepLimit: DefaultStepLimit,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile executes the Lua file at path and returns the transcript.
func (r *Runner) RunFile(ctx context.Context, path string) ([]string, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return r.Run(ctx, path, string(code))
}

// Run executes code and returns the transcript. name labels errors.
// The transcript collected before a failure is returned with the error.
func (r *Runner) Run(ctx context.Context, name, code string) (transcript []string, err error) {
	r.steps = 0
	r.transcript = nil
	r.err = nil

	L := newState()
	defer L.Close()
	L.SetContext(ctx)
	r.install(L)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic in %s: %v", name, rec)
		}
		transcript = r.transcript
	}()

	fn, err := L.Load(strings.NewReader(code), name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// A Go error caught by pcall in the script must not leak into a
		// later, unrelated failure.
		if r.err != nil && strings.Contains(err.Error(), r.err.Error()) {
			return nil, fmt.Errorf("running %s: %w", name, r.err)
		}
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	r.logger.Debug("ran %s: %d steps", name, r.steps)
	return nil, nil
}

// newState creates a Lua state with only safe libraries.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func (r *Runner) install(L *lua.LState) {
	nav := L.NewTable()
	L.SetField(nav, "move", L.NewFunction(r.luaStep(stepMove)))
	L.SetField(nav, "select", L.NewFunction(r.luaStep(stepSelect)))
	L.SetField(nav, "first", L.NewFunction(r.luaJump(session.Backward)))
	L.SetField(nav, "last", L.NewFunction(r.luaJump(session.Forward)))
	L.SetField(nav, "selection", L.NewFunction(r.luaSelection))
	L.SetGlobal("nav", nav)

	speak := L.NewFunction(r.luaSpeak)
	L.SetGlobal("speak", speak)
	L.SetGlobal("print", speak)
}

type stepKind int

const (
	stepMove stepKind = iota
	stepSelect
)

// luaStep implements nav.move(dir, unit) and nav.select(dir, unit).
func (r *Runner) luaStep(kind stepKind) lua.LGFunction {
	return func(L *lua.LState) int {
		dir, err := session.ParseDirection(L.OptString(1, "next"))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		unit := r.checkUnit(L, 2)

		return r.navigate(L, func(ctx context.Context) ([]narration.Description, error) {
			if kind == stepSelect {
				return r.sess.Select(ctx, dir, unit)
			}
			return r.sess.Move(ctx, dir, unit)
		})
	}
}

// luaJump implements nav.first(unit) and nav.last(unit).
func (r *Runner) luaJump(dir session.Direction) lua.LGFunction {
	return func(L *lua.LState) int {
		unit := r.checkUnit(L, 1)
		return r.navigate(L, func(ctx context.Context) ([]narration.Description, error) {
			return r.sess.Jump(ctx, dir, unit)
		})
	}
}

// checkUnit reads an optional granularity argument at n.
func (r *Runner) checkUnit(L *lua.LState, n int) walker.Granularity {
	if L.GetTop() < n {
		return r.unit
	}
	unit, err := walker.ParseGranularity(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return unit
}

// navigate charges one step against the budget, runs fn and pushes the
// rendered narration. Go errors are kept on the runner so Run can return
// them unwrapped from the Lua error.
func (r *Runner) navigate(L *lua.LState, fn func(context.Context) ([]narration.Description, error)) int {
	r.err = nil

	r.steps++
	if r.steps > r.stepLimit {
		r.raise(L, fmt.Errorf("%w (%d)", ErrStepLimit, r.stepLimit))
		return 0
	}

	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	desc, err := fn(ctx)
	if err != nil {
		r.raise(L, err)
		return 0
	}

	text := narration.Render(desc, r.style)
	r.transcript = append(r.transcript, text)
	L.Push(lua.LString(text))
	return 1
}

func (r *Runner) raise(L *lua.LState, err error) {
	r.err = err
	L.RaiseError("%v", err)
}

func (r *Runner) luaSelection(L *lua.LState) int {
	L.Push(lua.LString(r.sess.Selection()))
	return 1
}

func (r *Runner) luaSpeak(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.transcript = append(r.transcript, strings.Join(parts, " "))
	return 0
}
