//go:build integration

package integration

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/netip"
	"testing"
	"time"

	"github.com/dvnet/dvnet/core"
	"github.com/dvnet/dvnet/state"
	"github.com/stretchr/testify/require"
)

// Cluster runs one relay and any number of router agents as real processes
// would, over UDP loopback, each with its own main loop.
type Cluster struct {
	t         *testing.T
	RelayPort uint16

	relay   *member
	routers map[state.Node]*member
}

type member struct {
	st    *state.State
	table *bytes.Buffer
	done  chan error
}

// shortenIntervals rescales the protocol timers so a full convergence run
// fits in a test, and restores them afterwards. Tests using it must not run
// in parallel.
func shortenIntervals(t *testing.T) {
	t.Helper()
	tick, backoffMin, backoffMax := state.TickInterval, state.RegisterBackoffMin, state.RegisterBackoffMax
	state.TickInterval = 10 * time.Millisecond
	state.RegisterBackoffMin = 20 * time.Millisecond
	state.RegisterBackoffMax = 200 * time.Millisecond
	t.Cleanup(func() {
		state.TickInterval, state.RegisterBackoffMin, state.RegisterBackoffMax = tick, backoffMin, backoffMax
	})
}

func NewCluster(t *testing.T, topo state.Topology) *Cluster {
	t.Helper()
	shortenIntervals(t)
	c := &Cluster{t: t, routers: make(map[state.Node]*member)}

	env, dispatch := core.NewEnv(core.BuildLogger("relay", "", slog.LevelWarn))
	env.Relay = &state.RelayCfg{Bind: "127.0.0.1:0"}
	env.Topology = topo
	c.relay = &member{st: core.NewState(env), done: make(chan error, 1)}
	go func() { c.relay.done <- core.Run(c.relay.st, dispatch, &core.Relay{}) }()
	c.waitStarted(c.relay)

	// the relay picked an ephemeral port; ask it on its own loop
	addr, err := env.DispatchWait(func(s *state.State) (any, error) {
		return core.Get[*core.Relay](s).Addr(), nil
	})
	require.NoError(t, err)
	c.RelayPort = addr.(netip.AddrPort).Port()
	return c
}

// StartRouter brings up one agent. Its forwarding table output is captured
// per router.
func (c *Cluster) StartRouter(id state.Node) {
	c.t.Helper()
	env, dispatch := core.NewEnv(core.BuildLogger(string(id), "", slog.LevelWarn))
	env.Router = &state.RouterCfg{Id: id, RelayHost: "127.0.0.1", RelayPort: c.RelayPort}
	m := &member{st: core.NewState(env), table: &bytes.Buffer{}, done: make(chan error, 1)}
	env.TableWriter = m.table
	c.routers[id] = m
	go func() { m.done <- core.Run(m.st, dispatch, &core.Router{}) }()
	c.waitStarted(m)
}

func (c *Cluster) waitStarted(m *member) {
	c.t.Helper()
	deadline := time.After(5 * time.Second)
	for !m.st.Started.Load() {
		select {
		case err := <-m.done:
			c.t.Fatalf("member exited before starting: %v", err)
		case <-deadline:
			c.t.Fatal("timed out waiting for main loop")
		case <-time.After(time.Millisecond):
		}
	}
}

// WaitConverged blocks until every running router has declared convergence,
// then returns each router's final vector.
func (c *Cluster) WaitConverged(timeout time.Duration) map[state.Node]state.Vector {
	c.t.Helper()
	deadline := time.Now().Add(timeout)
	out := make(map[state.Node]state.Vector)
	for id, m := range c.routers {
		for {
			res, err := m.st.DispatchWait(func(s *state.State) (any, error) {
				r := core.Get[*core.Router](s)
				if !r.Converged {
					return nil, nil
				}
				return r.Vector.Clone(), nil
			})
			require.NoError(c.t, err)
			if res != nil {
				out[id] = res.(state.Vector)
				break
			}
			if time.Now().After(deadline) {
				c.t.Fatalf("router %s did not converge within %v", id, timeout)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
	return out
}

// Vectors snapshots every running router's current vector.
func (c *Cluster) Vectors() map[state.Node]state.Vector {
	c.t.Helper()
	out := make(map[state.Node]state.Vector)
	for id, m := range c.routers {
		res, err := m.st.DispatchWait(func(s *state.State) (any, error) {
			return core.Get[*core.Router](s).Vector.Clone(), nil
		})
		require.NoError(c.t, err)
		out[id] = res.(state.Vector)
	}
	return out
}

// WaitFor polls the routers' vectors until cond accepts them. Used when the
// network was already converged and the test disturbed it.
func (c *Cluster) WaitFor(timeout time.Duration, cond func(map[state.Node]state.Vector) bool) map[state.Node]state.Vector {
	c.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		vectors := c.Vectors()
		if cond(vectors) {
			return vectors
		}
		if time.Now().After(deadline) {
			c.t.Fatal("timed out waiting for routing state")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Table returns what the router printed after convergence.
func (c *Cluster) Table(id state.Node) string {
	c.t.Helper()
	m := c.routers[id]
	res, err := m.st.DispatchWait(func(s *state.State) (any, error) {
		return m.table.String(), nil
	})
	require.NoError(c.t, err)
	return res.(string)
}

// Stop tears every member down and waits for their loops to exit, so leak
// detection sees a quiet process.
func (c *Cluster) Stop() {
	members := []*member{c.relay}
	for _, m := range c.routers {
		members = append(members, m)
	}
	for _, m := range members {
		m.st.Cancel(fmt.Errorf("stopping cluster"))
	}
	for _, m := range members {
		select {
		case <-m.done:
		case <-time.After(5 * time.Second):
			c.t.Error("timed out waiting for member to stop")
		}
	}
}
