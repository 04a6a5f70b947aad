package core

import (
	"maps"
	"slices"

	"github.com/dvnet/dvnet/protocol"
	"github.com/dvnet/dvnet/state"
)

// Seed initializes the routing state from the relay's registration ack: the
// destination universe and our direct neighbour costs. The initial vector is
// zero to self, link cost to neighbours, INF elsewhere.
func (r *Router) Seed(universe []state.Node, direct map[state.Node]uint32) {
	r.Universe = slices.Clone(universe)
	slices.Sort(r.Universe)
	if !slices.Contains(r.Universe, r.Self) {
		r.Universe = append(r.Universe, r.Self)
		slices.Sort(r.Universe)
	}
	r.known = make(map[state.Node]bool, len(r.Universe))
	for _, n := range r.Universe {
		r.known[n] = true
	}
	r.Direct = maps.Clone(direct)
	r.neighbours = slices.Sorted(maps.Keys(r.Direct))
	r.NeighCosts = make(map[state.Node]map[state.Node]uint32, len(r.Direct))
	r.Vector = state.NewVector(r.Self, r.Universe, r.Direct)
}

// ApplyUpdate stores a neighbour's advertised costs. Updates from
// non-neighbours and destinations outside the configured universe are
// ignored; the protocol is closed-world. Applying the same update twice is
// indistinguishable from applying it once.
func (r *Router) ApplyUpdate(u *protocol.Update) {
	if _, ok := r.Direct[u.From]; !ok {
		return
	}
	costs := r.NeighCosts[u.From]
	if costs == nil {
		costs = make(map[state.Node]uint32, len(r.Universe))
		r.NeighCosts[u.From] = costs
	}
	for dest, cost := range u.Costs {
		if dest == r.Self || !r.known[dest] {
			continue
		}
		costs[dest] = cost
	}
}

// ComputeVector recomputes the whole vector from the direct links and the
// retained neighbour costs, and reports whether any entry changed. The self
// entry is pinned to (0, self) and never subject to updates.
func (r *Router) ComputeVector() bool {
	changed := false
	next := make(state.Vector, len(r.Vector))
	next[r.Self] = state.Entry{Cost: 0, NextHop: r.Self}
	for _, dest := range r.Universe {
		if dest == r.Self {
			continue
		}
		entry := r.bestRoute(dest)
		if entry != r.Vector[dest] {
			changed = true
		}
		next[dest] = entry
	}
	r.Vector = next
	return changed
}

// candidate is the cost to dest when forwarding through neighbour via:
// c(self, via) + d_via(dest), with the raw link cost as the baseline when
// via is the destination itself.
func (r *Router) candidate(via, dest state.Node) uint32 {
	cost := state.INF
	if advertised, ok := r.NeighCosts[via]; ok {
		if c, ok := advertised[dest]; ok {
			cost = state.AddCost(r.Direct[via], c)
		}
	}
	if via == dest {
		cost = min(cost, r.Direct[via])
	}
	return cost
}

func (r *Router) bestRoute(dest state.Node) state.Entry {
	best := state.INF
	for _, via := range r.neighbours {
		best = min(best, r.candidate(via, dest))
	}
	if best == state.INF {
		return state.Entry{Cost: state.INF}
	}

	// ties keep the incumbent next hop if it still attains the minimum,
	// otherwise take the lowest router id
	if incumbent := r.Vector[dest].NextHop; incumbent != "" && incumbent != r.Self {
		if _, ok := r.Direct[incumbent]; ok && r.candidate(incumbent, dest) == best {
			return state.Entry{Cost: best, NextHop: incumbent}
		}
	}
	for _, via := range r.neighbours {
		if r.candidate(via, dest) == best {
			return state.Entry{Cost: best, NextHop: via}
		}
	}
	return state.Entry{Cost: state.INF}
}

// AdvertisementFor builds the cost map advertised to one neighbour, applying
// split horizon without poisoned reverse: destinations currently routed
// through that neighbour are omitted entirely, not advertised at INF.
func (r *Router) AdvertisementFor(neigh state.Node) map[state.Node]uint32 {
	out := make(map[state.Node]uint32, len(r.Vector))
	for dest, entry := range r.Vector {
		if dest != r.Self && entry.NextHop == neigh {
			continue
		}
		out[dest] = entry.Cost
	}
	return out
}
