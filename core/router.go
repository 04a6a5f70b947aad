package core

import (
	"fmt"
	"net"
	"time"

	"github.com/dvnet/dvnet/protocol"
	"github.com/dvnet/dvnet/state"
	"github.com/google/uuid"
)

// Router is the Bellman-Ford engine. One instance owns one distance vector;
// nothing else ever writes it. All fields are touched only on the main loop.
type Router struct {
	Self state.Node

	// Vector is the current distance vector, seeded at registration.
	Vector state.Vector
	// Direct holds the link costs to declared neighbours, learned from the
	// relay's registration ack.
	Direct map[state.Node]uint32
	// NeighCosts retains the last advertised cost per (neighbour,
	// destination). Destinations a neighbour omits keep their old value
	// until a more informative update arrives.
	NeighCosts map[state.Node]map[state.Node]uint32
	// Universe is the closed-world destination set, sorted.
	Universe []state.Node

	StableCycles int
	Cycle        int
	Converged    bool

	neighbours []state.Node
	known      map[state.Node]bool
	registered bool

	instance        uuid.UUID
	registerAttempt int
	conn            *net.UDPConn
	inbox           chan *protocol.Packet
}

func (r *Router) Init(s *state.State) error {
	s.Log.Debug("init router")
	r.Self = s.Router.Id
	r.instance = uuid.New()
	r.inbox = make(chan *protocol.Packet, state.InboxSize)

	conn, err := net.Dial("udp", s.Router.RelayAddr())
	if err != nil {
		return err
	}
	r.conn = conn.(*net.UDPConn)
	go r.readLoop(s)

	s.Env.ScheduleTask(r.register, 0)
	s.Env.RepeatTask(r.tick, state.TickInterval)
	return nil
}

func (r *Router) Cleanup(s *state.State) error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// register sends a Join and re-arms itself with bounded exponential backoff
// until the relay acknowledges with our neighbour costs.
func (r *Router) register(s *state.State) error {
	if r.registered || s.Context.Err() != nil {
		return nil
	}
	s.Log.Debug("registering with relay", "attempt", r.registerAttempt+1)
	r.sendJoin(s)
	delay := registerBackoff(r.registerAttempt)
	r.registerAttempt++
	s.ScheduleTask(r.register, delay)
	return nil
}

func registerBackoff(attempt int) time.Duration {
	delay := state.RegisterBackoffMin
	for i := 0; i < attempt && delay < state.RegisterBackoffMax; i++ {
		delay *= 2
	}
	return min(delay, state.RegisterBackoffMax)
}

// tick is one cycle of the steady-state loop: drain, recompute, conditionally
// advertise, update the stability counter. Ticks never overlap; suspension
// only happens between cycles.
func (r *Router) tick(s *state.State) error {
	r.drainInbox(s)
	if !r.registered {
		return nil
	}

	changed := r.ComputeVector()
	r.Cycle++

	// triggered update on change, periodic refresh every K cycles
	if changed || r.Cycle%state.PeriodicRefreshCycles == 0 {
		r.advertise(s)
	}

	if changed {
		r.StableCycles = 0
	} else {
		r.StableCycles++
	}
	if r.StableCycles >= state.ConvergenceThreshold && !r.Converged {
		// converged: print the table exactly once, then keep running to
		// serve late joiners
		r.Converged = true
		s.Log.Info("algorithm converged", "cycles", r.Cycle)
		fmt.Fprint(s.TableWriter, FormatTable(r.Self, r.Vector))
	}
	return nil
}

// drainInbox consumes every advertisement currently pending without ever
// blocking the cycle.
func (r *Router) drainInbox(s *state.State) {
	for {
		select {
		case pkt := <-r.inbox:
			r.handlePacket(s, pkt)
		default:
			return
		}
	}
}

func (r *Router) handlePacket(s *state.State, pkt *protocol.Packet) {
	switch pkt.Kind {
	case protocol.KindNeighbors:
		r.handleNeighbors(s, pkt.Neighbors)
	case protocol.KindUpdate:
		if r.registered {
			r.ApplyUpdate(pkt.Update)
		}
	case protocol.KindNack:
		// relay lost our registration; join again right away
		s.Log.Warn("relay rejected update", "reason", pkt.Nack.Reason)
		r.sendJoin(s)
	default:
		s.Log.Debug("unexpected packet kind", "kind", pkt.Kind)
	}
}

func (r *Router) handleNeighbors(s *state.State, n *protocol.Neighbors) {
	if r.registered {
		// duplicate ack, nothing new to learn
		return
	}
	if n.Router != r.Self {
		s.Log.Debug("dropping registration ack for someone else", "router", n.Router)
		return
	}
	r.Seed(n.Universe, n.Costs)
	r.registered = true
	s.Log.Info("registered with relay", "neighbours", len(r.Direct), "destinations", len(r.Universe))
}
