// Package protocol defines the datagrams exchanged between router agents and
// the relay. The transport is unreliable: messages may be lost, duplicated,
// or reordered, and every handler must stay correct under all three.
package protocol

import (
	"github.com/dvnet/dvnet/state"
	"github.com/google/uuid"
)

type Kind string

const (
	// KindJoin registers a router with the relay.
	KindJoin Kind = "JOIN"
	// KindNeighbors acknowledges a Join and carries the router's direct
	// neighbour costs plus the closed-world destination set.
	KindNeighbors Kind = "NEIGHBORS"
	// KindUpdate carries one advertisement from a router to one neighbour.
	KindUpdate Kind = "UPDATE"
	// KindNack tells a sender the relay does not know it; the sender must
	// re-register and retry through its periodic cycle.
	KindNack Kind = "NACK"
)

// Packet is the envelope for every datagram. Exactly one body field matching
// Kind must be set.
type Packet struct {
	Kind      Kind       `json:"kind"`
	Join      *Join      `json:"join,omitempty"`
	Neighbors *Neighbors `json:"neighbors,omitempty"`
	Update    *Update    `json:"update,omitempty"`
	Nack      *Nack      `json:"nack,omitempty"`
}

type Join struct {
	Router state.Node `json:"router"`
	// Instance changes when the agent process restarts, letting the relay
	// log re-registrations distinctly from duplicate Joins.
	Instance uuid.UUID `json:"instance"`
}

type Neighbors struct {
	Router   state.Node            `json:"router"`
	Costs    map[state.Node]uint32 `json:"costs"`
	Universe []state.Node          `json:"universe"`
}

// Update is the sender's currently believed cost to every destination it is
// willing to advertise to To. Omitted destinations mean "no information this
// cycle", not cost zero and not unreachable; unreachable is state.INF.
type Update struct {
	From  state.Node            `json:"from"`
	To    state.Node            `json:"to"`
	Costs map[state.Node]uint32 `json:"costs"`
}

type Nack struct {
	Reason string `json:"reason"`
}

func NewJoin(router state.Node, instance uuid.UUID) *Packet {
	return &Packet{Kind: KindJoin, Join: &Join{Router: router, Instance: instance}}
}

func NewNeighbors(router state.Node, costs map[state.Node]uint32, universe []state.Node) *Packet {
	return &Packet{Kind: KindNeighbors, Neighbors: &Neighbors{Router: router, Costs: costs, Universe: universe}}
}

func NewUpdate(from, to state.Node, costs map[state.Node]uint32) *Packet {
	return &Packet{Kind: KindUpdate, Update: &Update{From: from, To: to, Costs: costs}}
}

func NewNack(reason string) *Packet {
	return &Packet{Kind: KindNack, Nack: &Nack{Reason: reason}}
}
