//go:build integration

package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/dvnet/dvnet/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestSixRouterConvergence(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCluster(t, state.SixRouterTopology())
	defer c.Stop()
	for _, id := range []state.Node{"u", "v", "w", "x", "y", "z"} {
		c.StartRouter(id)
	}

	vectors := c.WaitConverged(30 * time.Second)

	wantU := state.Vector{
		"u": {Cost: 0, NextHop: "u"},
		"v": {Cost: 6, NextHop: "w"},
		"w": {Cost: 3, NextHop: "w"},
		"x": {Cost: 5, NextHop: "x"},
		"y": {Cost: 10, NextHop: "w"},
		"z": {Cost: 12, NextHop: "w"},
	}
	if diff := cmp.Diff(wantU, vectors["u"]); diff != "" {
		t.Errorf("u's vector mismatch (-want +got):\n%s", diff)
	}

	wantV := state.Vector{
		"u": {Cost: 6, NextHop: "w"},
		"v": {Cost: 0, NextHop: "v"},
		"w": {Cost: 3, NextHop: "w"},
		"x": {Cost: 7, NextHop: "w"},
		"y": {Cost: 4, NextHop: "y"},
		"z": {Cost: 6, NextHop: "y"},
	}
	if diff := cmp.Diff(wantV, vectors["v"]); diff != "" {
		t.Errorf("v's vector mismatch (-want +got):\n%s", diff)
	}

	// every router prints its table exactly once
	for _, id := range []state.Node{"u", "v", "w", "x", "y", "z"} {
		out := c.Table(id)
		assert.Equal(t, 1, strings.Count(out, "FORWARDING TABLE FOR ROUTER"), "router %s", id)
	}
	assert.Contains(t, c.Table("u"), "z           |   12 | w")
}

// A router that starts late must still pull the network to the same answer,
// repaired by periodic refreshes from its neighbours.
func TestLateJoinerConverges(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCluster(t, state.SixRouterTopology())
	defer c.Stop()
	for _, id := range []state.Node{"u", "v", "w", "x", "y"} {
		c.StartRouter(id)
	}
	// let the partial network settle before z appears
	c.WaitConverged(30 * time.Second)
	c.StartRouter("z")

	vectors := c.WaitFor(30*time.Second, func(v map[state.Node]state.Vector) bool {
		return v["u"]["z"] == state.Entry{Cost: 12, NextHop: "w"} &&
			v["z"]["u"] == state.Entry{Cost: 12, NextHop: "y"}
	})

	assert.Equal(t, state.Entry{Cost: 0, NextHop: "z"}, vectors["z"]["z"])
	// z was unreachable while absent, so the early tables say so
	assert.Contains(t, c.Table("u"), "z           |  INF | -")
}
