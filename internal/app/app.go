// Package app wires configuration, logging, the engine and a front end
// into the multicaret program.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dshills/multicaret/internal/config"
	"github.com/dshills/multicaret/internal/engine"
	"github.com/dshills/multicaret/internal/engine/lines"
	"github.com/dshills/multicaret/internal/host/terminal"
	"github.com/dshills/multicaret/internal/logging"
	"github.com/dshills/multicaret/internal/script"
	"github.com/dshills/multicaret/internal/session"
	"github.com/dshills/multicaret/internal/textio"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses the default path
	// when it exists.
	ConfigPath string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// File is the document to edit. It is created on save if missing.
	File string

	// ScriptPath is a Lua script to run instead of the terminal host.
	ScriptPath string

	// SessionPath stores the carets between runs when set.
	SessionPath string

	// Interactive selects the terminal host. Without it the script from
	// ScriptPath, or else from Stdin, is run and the document saved.
	Interactive bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Application owns one open document and the components around it.
type Application struct {
	opts Options

	cfg       *config.Config
	log       *logging.Logger
	logCloser io.Closer

	engine *engine.Engine
	format textio.Format

	running atomic.Bool
}

// New loads the configuration and opens the document.
func New(opts Options) (*Application, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	var err error

	// 1. Configuration
	if app.opts.ConfigPath != "" {
		app.cfg, err = config.Load(app.opts.ConfigPath)
	} else {
		app.cfg, err = config.LoadDefault()
	}
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.LogLevel != "" {
		app.cfg.Log.Level = app.opts.LogLevel
		if err := app.cfg.Validate(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}

	// 2. Logging; the terminal host owns the screen, so it only logs to a
	// configured file
	out := app.opts.Stderr
	if app.opts.Interactive && app.opts.ScriptPath == "" {
		out = io.Discard
	}
	logCfg, closer, err := app.cfg.LogConfig(out)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	logCfg.Name = "multicaret"
	app.log = logging.New(logCfg)
	app.logCloser = closer

	// 3. Document, continuing the saved session when it is for this file
	snap, resume := app.readSession()
	opts := app.cfg.EngineOptions(app.log)
	if resume {
		opts = append(opts, engine.WithID(snap.DocumentID))
	}
	store, err := app.openDocument()
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.engine = engine.Open(store, opts...)
	if resume {
		session.Restore(app.engine, snap)
		app.log.Debug("restored %d carets from %s", len(snap.Carets), app.opts.SessionPath)
	}
	return nil
}

// openDocument loads the file, or starts an empty document if it does not
// exist yet.
func (app *Application) openDocument() (*lines.Store, error) {
	storeOpts := []lines.Option{lines.WithChunkCapacity(app.cfg.Editor.ChunkCapacity)}
	if app.opts.File == "" {
		return lines.NewStore(storeOpts...), nil
	}
	store, format, err := textio.LoadFile(app.opts.File, storeOpts...)
	if errors.Is(err, os.ErrNotExist) {
		app.log.Info("new file %s", app.opts.File)
		return lines.NewStore(storeOpts...), nil
	}
	if err != nil {
		return nil, err
	}
	app.format = format
	return store, nil
}

func (app *Application) readSession() (session.Snapshot, bool) {
	if app.opts.SessionPath == "" {
		return session.Snapshot{}, false
	}
	snap, err := session.ReadFile(app.opts.SessionPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			app.log.Warn("ignoring session: %v", err)
		}
		return snap, false
	}
	return snap, snap.Path == app.opts.File
}

// Engine returns the engine of the open document.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Config returns the configuration in effect at startup.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Run edits the document until the host quits, the script ends or ctx is
// done.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if app.opts.Interactive && app.opts.ScriptPath == "" {
		return app.runHost(ctx)
	}
	return app.runScript(ctx)
}

// runScript runs the script and saves the document if it changed.
func (app *Application) runScript(ctx context.Context) error {
	r := script.New(app.engine, script.WithOutput(app.opts.Stdout), script.WithLogger(app.log))
	defer r.Close()

	changed := false
	app.engine.OnModified(func() { changed = true })

	var err error
	if app.opts.ScriptPath != "" {
		err = r.RunFile(ctx, app.opts.ScriptPath)
	} else {
		var code []byte
		code, err = io.ReadAll(app.opts.Stdin)
		if err == nil && len(code) == 0 {
			err = ErrNoScript
		}
		if err == nil {
			err = r.Run(ctx, string(code))
		}
	}
	if err != nil {
		return err
	}
	if !changed || app.opts.File == "" {
		return nil
	}
	if err := textio.SaveFile(app.opts.File, app.engine.Store(), app.format); err != nil {
		return fmt.Errorf("saving %s: %w", app.opts.File, err)
	}
	app.log.Info("saved %s after %d edits", app.opts.File, r.Edits())
	return nil
}

// runHost runs the terminal host, live reloading the theme when a config
// file is in use.
func (app *Application) runHost(ctx context.Context) error {
	screen, err := terminal.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	opts := []terminal.Option{
		terminal.WithFile(app.opts.File, app.format),
		terminal.WithLogger(app.log),
	}
	if p, err := app.cfg.Theme.Palette(); err == nil {
		opts = append(opts, terminal.WithPalette(p))
	}
	host := terminal.New(screen, app.engine, opts...)

	if app.opts.ConfigPath != "" {
		w, err := config.Watch(app.opts.ConfigPath, app.log, host.Apply)
		if err != nil {
			app.log.Warn("live reload disabled: %v", err)
		} else {
			defer w.Close()
		}
	}
	return host.Run(ctx)
}

// Shutdown saves the session and releases the logger.
func (app *Application) Shutdown() {
	if app.opts.SessionPath != "" && app.engine != nil {
		snap := session.Take(app.engine, app.opts.File)
		if err := session.WriteFile(app.opts.SessionPath, snap); err != nil {
			app.log.Error("saving session: %v", err)
		}
	}
	app.closeLog()
}

func (app *Application) closeLog() {
	if app.log != nil {
		_ = app.log.Sync()
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}
