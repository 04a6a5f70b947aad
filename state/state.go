package state

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

type Module interface {
	Init(s *State) error
	Cleanup(s *State) error
}

// State access must be done only on a single goroutine, the process's main
// loop. Everything mutable hangs off here.
type State struct {
	*Env
	Modules map[string]Module
}

// Env can be read from any goroutine.
type Env struct {
	DispatchChannel chan<- func(s *State) error
	Context         context.Context
	Cancel          context.CancelCauseFunc
	Log             *slog.Logger

	// Relay holds the relay's configuration and Topology the full graph;
	// both are nil on router agents.
	Relay    *RelayCfg
	Topology Topology

	// Router is nil on the relay.
	Router *RouterCfg

	// TableWriter receives the one-shot converged forwarding table.
	// Defaults to os.Stdout.
	TableWriter io.Writer

	Started  atomic.Bool
	Stopping atomic.Bool
}
