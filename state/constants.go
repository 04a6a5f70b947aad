package state

import "time"

const (
	// INF is the cost sentinel for an unreachable destination.
	INF = ^(uint32)(0)

	// NoLink is the config sentinel for "no direct edge". It is filtered out
	// during parsing and never stored as a cost.
	NoLink = -1
)

var (
	// TickInterval is the period of the router agent's compute cycle.
	TickInterval = time.Second

	// PeriodicRefreshCycles forces an advertisement every K cycles even when
	// nothing changed, so lost datagrams and late joiners are repaired.
	PeriodicRefreshCycles = 3

	// ConvergenceThreshold is the number of consecutive cycles without a
	// vector change before an agent prints its forwarding table.
	ConvergenceThreshold = 10

	RegisterBackoffMin = time.Millisecond * 500
	RegisterBackoffMax = time.Second * 8

	// RegistrationTTL bounds how long the relay remembers a silent router.
	// Any traffic from the router refreshes it.
	RegistrationTTL = time.Second * 90

	InboxSize       = 256
	MaxDatagramSize = 4096

	DefaultRelayPort = uint16(5500)
)
