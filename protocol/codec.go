package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dvnet/dvnet/state"
)

// ErrMalformed wraps every decode failure. Receivers drop and log malformed
// datagrams; they must never let one halt the cycle.
var ErrMalformed = errors.New("malformed packet")

func Encode(p *Packet) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if len(data) > state.MaxDatagramSize {
		return nil, fmt.Errorf("packet of %d bytes exceeds datagram size %d", len(data), state.MaxDatagramSize)
	}
	return data, nil
}

func Decode(data []byte) (*Packet, error) {
	var p Packet
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &p, nil
}

func (p *Packet) validate() error {
	switch p.Kind {
	case KindJoin:
		if p.Join == nil {
			return errors.New("join body missing")
		}
		if p.Join.Router == "" {
			return errors.New("join without router id")
		}
	case KindNeighbors:
		if p.Neighbors == nil {
			return errors.New("neighbors body missing")
		}
		if p.Neighbors.Router == "" {
			return errors.New("neighbors without router id")
		}
	case KindUpdate:
		if p.Update == nil {
			return errors.New("update body missing")
		}
		if p.Update.From == "" || p.Update.To == "" {
			return errors.New("update without sender or destination")
		}
	case KindNack:
		if p.Nack == nil {
			return errors.New("nack body missing")
		}
	default:
		return fmt.Errorf("unknown kind %q", p.Kind)
	}
	return nil
}
