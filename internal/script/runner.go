// Package script runs Lua scripts against an editing engine.
//
// Scripts see a global module mc whose functions apply edits at every
// caret, exactly as a key press would:
//
//	mc.move("doc_end")
//	mc.insert("-- generated\n")
//	for _, c in ipairs(mc.carets()) do print(c.line, c.col) end
//
// Each mutating call is one ApplyEdit. The state is sandboxed: no io, os,
// debug or package libraries and no way to load further code.
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/multicaret/internal/engine"
	"github.com/dshills/multicaret/internal/logging"
)

// Default limits for a Runner.
const (
	DefaultTimeout   = 5 * time.Second
	DefaultEditLimit = 1_000_000
)

// Runner wraps a sandboxed gopher-lua state bound to one engine.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes Run
// calls from Go.
type Runner struct {
	L *lua.LState
	e *engine.Engine

	mu sync.Mutex

	log       *logging.Logger
	out       io.Writer
	timeout   time.Duration
	editLimit int
	edits     int

	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithTimeout bounds each Run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithEditLimit bounds the number of mc calls per Run. Zero disables it.
func WithEditLimit(n int) Option {
	return func(r *Runner) {
		r.editLimit = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l.WithComponent("script")
		}
	}
}

// New creates a runner editing e.
func New(e *engine.Engine, opts ...Option) *Runner {
	r := &Runner{
		e:         e,
		log:       logging.Nop(),
		out:       os.Stdout,
		timeout:   DefaultTimeout,
		editLimit: DefaultEditLimit,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	installSandbox(r.L, r.out)
	r.L.SetGlobal("mc", r.L.SetFuncs(r.L.NewTable(), r.api()))
	return r
}

// Run executes code.
func (r *Runner) Run(ctx context.Context, code string) error {
	return r.run(ctx, "<string>", func() error { return r.L.DoString(code) })
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func() error { return r.L.DoFile(path) })
}

func (r *Runner) run(ctx context.Context, name string, fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStateClosed
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()
	r.edits = 0

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
		if err != nil && ctx.Err() != nil {
			err = fmt.Errorf("running %s: %w", name, ctx.Err())
		}
		if err != nil {
			r.log.Error("script %s failed after %d edits: %v", name, r.edits, err)
			return
		}
		r.log.Debug("script %s: %d edits in %s", name, r.edits, time.Since(start))
	}()
	return fn()
}

// Edits returns the number of mc calls made by the last Run.
func (r *Runner) Edits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edits
}

// Close releases the Lua state. Later runs return ErrStateClosed.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}
