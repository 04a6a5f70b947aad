package core

import (
	"errors"
	"net"

	"github.com/dvnet/dvnet/protocol"
	"github.com/dvnet/dvnet/state"
)

func (r *Router) readLoop(s *state.State) {
	buf := make([]byte, state.MaxDatagramSize)
	for {
		n, err := r.conn.Read(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.Context.Err() != nil {
				return
			}
			// transient; the relay may not be up yet
			s.Log.Debug("read error", "error", err)
			continue
		}
		pkt, err := protocol.Decode(buf[:n])
		if err != nil {
			s.Log.Debug("dropping malformed datagram", "error", err)
			continue
		}
		select {
		case r.inbox <- pkt:
		default:
			// overflow is safe to shed, periodic refresh repairs it
			s.Log.Debug("inbox full, dropping datagram")
		}
	}
}

func (r *Router) sendPacket(s *state.State, pkt *protocol.Packet) {
	data, err := protocol.Encode(pkt)
	if err != nil {
		s.Log.Error("encode packet", "kind", pkt.Kind, "error", err)
		return
	}
	if _, err := r.conn.Write(data); err != nil {
		// transient; lost updates are repaired by the periodic refresh
		s.Log.Debug("send failed", "kind", pkt.Kind, "error", err)
	}
}

func (r *Router) sendJoin(s *state.State) {
	r.sendPacket(s, protocol.NewJoin(r.Self, r.instance))
}

// advertise sends the split-horizon-filtered vector to every direct
// neighbour through the relay.
func (r *Router) advertise(s *state.State) {
	for _, neigh := range r.neighbours {
		r.sendPacket(s, protocol.NewUpdate(r.Self, neigh, r.AdvertisementFor(neigh)))
	}
}
