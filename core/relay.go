package core

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"

	"github.com/dvnet/dvnet/protocol"
	"github.com/dvnet/dvnet/state"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// Registration is the relay's record of where a router currently lives. The
// table is the relay's only mutable state; everything else it does is a pure
// forwarding function over it.
type Registration struct {
	Endpoint netip.AddrPort
	Instance uuid.UUID
}

// Relay is the rendezvous service. Routers register under their id, and the
// relay forwards advertisements between declared neighbours without ever
// inspecting routing state.
type Relay struct {
	conn          *net.UDPConn
	registrations *ttlcache.Cache[state.Node, Registration]

	// send is swapped out by tests to capture outbound datagrams.
	send func(data []byte, to netip.AddrPort)

	metricsSrv *http.Server
}

func newRegistrationTable() *ttlcache.Cache[state.Node, Registration] {
	// touch-on-hit keeps chatty routers registered; silent ones expire
	return ttlcache.New[state.Node, Registration](
		ttlcache.WithTTL[state.Node, Registration](state.RegistrationTTL),
	)
}

func (r *Relay) Init(s *state.State) error {
	s.Log.Debug("init relay")
	bind, err := netip.ParseAddrPort(s.Relay.Bind)
	if err != nil {
		return fmt.Errorf("relay bind %q: %w", s.Relay.Bind, err)
	}
	conn, err := net.ListenUDP("udp", net.UDPAddrFromAddrPort(bind))
	if err != nil {
		return err
	}
	r.conn = conn
	r.send = func(data []byte, to netip.AddrPort) {
		if _, err := conn.WriteToUDPAddrPort(data, to); err != nil {
			s.Log.Debug("send failed", "to", to, "error", err)
			droppedTotal.WithLabelValues(dropSendFailed).Inc()
		}
	}

	r.registrations = newRegistrationTable()
	go r.registrations.Start()

	if s.Relay.MetricsBind != "" {
		r.metricsSrv = &http.Server{Addr: s.Relay.MetricsBind, Handler: MetricsHandler()}
		go func() {
			if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.Log.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	go r.readLoop(s)
	s.Log.Info("relay listening", "bind", r.Addr(), "routers", len(s.Topology))
	return nil
}

func (r *Relay) Cleanup(s *state.State) error {
	if r.metricsSrv != nil {
		_ = r.metricsSrv.Close()
	}
	if r.registrations != nil {
		r.registrations.Stop()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// Addr reports the bound address, useful when the configured port is 0.
func (r *Relay) Addr() netip.AddrPort {
	return r.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

func (r *Relay) readLoop(s *state.State) {
	buf := make([]byte, state.MaxDatagramSize)
	for {
		n, from, err := r.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.Context.Err() != nil {
				return
			}
			s.Log.Warn("relay read error", "error", err)
			continue
		}
		pkt, err := protocol.Decode(buf[:n])
		if err != nil {
			// one bad datagram must never take the relay down
			s.Log.Debug("dropping malformed datagram", "from", from, "error", err)
			droppedTotal.WithLabelValues(dropMalformed).Inc()
			continue
		}
		raw := make([]byte, n)
		copy(raw, buf[:n])
		s.Dispatch(func(s *state.State) error {
			return r.handlePacket(s, pkt, raw, from)
		})
	}
}

func (r *Relay) handlePacket(s *state.State, pkt *protocol.Packet, raw []byte, from netip.AddrPort) error {
	switch pkt.Kind {
	case protocol.KindJoin:
		r.handleJoin(s, pkt.Join, from)
	case protocol.KindUpdate:
		r.handleUpdate(s, pkt.Update, raw, from)
	default:
		s.Log.Debug("unexpected packet kind", "kind", pkt.Kind, "from", from)
		droppedTotal.WithLabelValues(dropUnexpectedKind).Inc()
	}
	return nil
}

// handleJoin records or overwrites the sender's endpoint and acknowledges
// with its direct neighbour costs. Registration is idempotent.
func (r *Relay) handleJoin(s *state.State, join *protocol.Join, from netip.AddrPort) {
	row, ok := s.Topology.Row(join.Router)
	if !ok {
		s.Log.Warn("join from router not in topology", "router", join.Router, "from", from)
		droppedTotal.WithLabelValues(dropUnknownRouter).Inc()
		return
	}

	if prev := r.registrations.Get(join.Router); prev != nil {
		if prev.Value().Instance != join.Instance {
			s.Log.Info("router restarted", "router", join.Router, "endpoint", from)
		}
	} else {
		s.Log.Info("router registered", "router", join.Router, "endpoint", from)
	}
	r.registrations.Set(join.Router, Registration{Endpoint: from, Instance: join.Instance}, ttlcache.DefaultTTL)
	registrationsTotal.Inc()

	reply, err := protocol.Encode(protocol.NewNeighbors(join.Router, row, s.Topology.Nodes()))
	if err != nil {
		s.Log.Error("encode neighbors reply", "error", err)
		return
	}
	r.send(reply, from)
}

// handleUpdate forwards one advertisement, unmodified, to its destination's
// registered endpoint. The relay never reads or rewrites the cost map.
func (r *Relay) handleUpdate(s *state.State, update *protocol.Update, raw []byte, from netip.AddrPort) {
	sender := r.registrations.Get(update.From) // touch refreshes the TTL
	if sender == nil {
		// recoverable: tell the sender to register again
		s.Log.Debug("update from unregistered sender", "router", update.From, "from", from)
		droppedTotal.WithLabelValues(dropSenderUnknown).Inc()
		if nack, err := protocol.Encode(protocol.NewNack("sender not registered")); err == nil {
			r.send(nack, from)
		}
		return
	}

	if !s.Topology.AreNeighbours(update.From, update.To) {
		s.Log.Debug("update to non-neighbour", "from", update.From, "to", update.To)
		droppedTotal.WithLabelValues(dropNotNeighbour).Inc()
		return
	}

	dest := r.registrations.Get(update.To)
	if dest == nil {
		// expected while routers are still starting up
		s.Log.Debug("destination not yet registered", "to", update.To)
		droppedTotal.WithLabelValues(dropUnknownDest).Inc()
		return
	}

	r.send(raw, dest.Value().Endpoint)
	forwardedTotal.Inc()
}
