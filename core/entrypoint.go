package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"reflect"
	"runtime"
	"syscall"
	"time"

	"github.com/dvnet/dvnet/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// BuildLogger builds the process logger: tinted stderr output prefixed with
// the node id, fanned out to a rotating log file when logPath is set.
func BuildLogger(prefix, logPath string, logLevel slog.Level) *slog.Logger {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        logLevel,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	if logPath != "" {
		var w io.Writer = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// StartRelay runs the relay until SIGINT/SIGTERM. The topology must already
// be validated.
func StartRelay(cfg state.RelayCfg, topo state.Topology, logLevel slog.Level) error {
	env, dispatch := NewEnv(BuildLogger("relay", cfg.LogPath, logLevel))
	env.Relay = &cfg
	env.Topology = topo
	s := NewState(env)
	notifySignals(s)
	return Run(s, dispatch, &Relay{})
}

// StartRouter runs one router agent until SIGINT/SIGTERM.
func StartRouter(cfg state.RouterCfg, logLevel slog.Level) error {
	env, dispatch := NewEnv(BuildLogger(string(cfg.Id), cfg.LogPath, logLevel))
	env.Router = &cfg
	s := NewState(env)
	notifySignals(s)
	return Run(s, dispatch, &Router{})
}

// NewEnv wires up a fresh environment and its dispatch channel. Callers that
// need test control (custom table writer, no signal handling) build on this
// directly.
func NewEnv(log *slog.Logger) (*state.Env, chan func(*state.State) error) {
	ctx, cancel := context.WithCancelCause(context.Background())
	dispatch := make(chan func(*state.State) error, 128)
	return &state.Env{
		Context:         ctx,
		Cancel:          cancel,
		DispatchChannel: dispatch,
		Log:             log,
		TableWriter:     os.Stdout,
	}, dispatch
}

func NewState(env *state.Env) *state.State {
	return &state.State{
		Env:     env,
		Modules: make(map[string]state.Module),
	}
}

func notifySignals(s *state.State) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			s.Cancel(errors.New("received shutdown signal"))
		case <-s.Context.Done():
		}
		signal.Stop(c)
	}()
}

// Run initializes the modules and drives the main loop until the context is
// cancelled.
func Run(s *state.State, dispatch <-chan func(*state.State) error, modules ...state.Module) error {
	for _, module := range modules {
		s.Modules[reflect.TypeOf(module).String()] = module
		if err := module.Init(s); err != nil {
			Stop(s)
			return err
		}
	}
	return MainLoop(s, dispatch)
}

func MainLoop(s *state.State, dispatch <-chan func(*state.State) error) error {
	s.Log.Debug("started main loop")
	s.Started.Store(true)
	for {
		select {
		case fun := <-dispatch:
			if fun == nil {
				goto endLoop
			}
			start := time.Now()
			err := fun(s)
			if err != nil {
				s.Log.Error("error occurred during dispatch", "error", err)
				s.Cancel(err)
			}
			elapsed := time.Since(start)
			if elapsed > time.Millisecond*50 {
				s.Log.Warn("dispatch took a long time!", "fun", runtime.FuncForPC(reflect.ValueOf(fun).Pointer()).Name(), "elapsed", elapsed)
			}
		case <-s.Context.Done():
			goto endLoop
		}
	}
endLoop:
	s.Log.Info("stopped main loop", "reason", context.Cause(s.Context).Error())
	Stop(s)
	return nil
}

func Stop(s *state.State) {
	if s.Stopping.Swap(true) {
		return // don't stop twice
	}
	s.Cancel(context.Canceled)
	s.Log.Info("cleaning up modules")
	for moduleName, module := range s.Modules {
		err := module.Cleanup(s)
		if err != nil {
			s.Log.Error("error occurred during Stop", "module", moduleName, "error", err)
		}
	}
	s.Log.Info("stopped")
}
