package state

import (
	"maps"
	"slices"
)

type Node string

// Entry is one row of a distance vector: the believed cost to a destination
// and the neighbour traffic would be forwarded through. NextHop is empty when
// the destination is unreachable.
type Entry struct {
	Cost    uint32
	NextHop Node
}

// Vector is a router's table of believed shortest costs to every destination
// in the topology. The owning agent is the only writer.
type Vector map[Node]Entry

// NewVector seeds a vector at agent startup: zero cost to self via self,
// direct link costs to declared neighbours, INF everywhere else.
func NewVector(self Node, universe []Node, direct map[Node]uint32) Vector {
	v := make(Vector, len(universe))
	for _, n := range universe {
		v[n] = Entry{Cost: INF}
	}
	for n, c := range direct {
		v[n] = Entry{Cost: c, NextHop: n}
	}
	v[self] = Entry{Cost: 0, NextHop: self}
	return v
}

func (v Vector) Clone() Vector {
	return maps.Clone(v)
}

// Costs flattens the vector to the advertised form, dropping next hops.
// Next hops are a purely local derivation and never leave the agent.
func (v Vector) Costs() map[Node]uint32 {
	out := make(map[Node]uint32, len(v))
	for n, e := range v {
		out[n] = e.Cost
	}
	return out
}

func (v Vector) Destinations() []Node {
	dests := slices.Collect(maps.Keys(v))
	slices.Sort(dests)
	return dests
}

// AddCost saturates at INF, so INF + anything stays INF.
func AddCost(a, b uint32) uint32 {
	if a == INF || b == INF {
		return INF
	}
	sum := uint64(a) + uint64(b)
	if sum >= uint64(INF) {
		return INF
	}
	return uint32(sum)
}
