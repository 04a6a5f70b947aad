package core

import (
	"fmt"
	"strings"

	"github.com/dvnet/dvnet/state"
)

// FormatTable renders the converged forwarding table, one destination per
// line sorted by id. Unreachable destinations show INF with no next hop.
func FormatTable(self state.Node, v state.Vector) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "FORWARDING TABLE FOR ROUTER %s\n", self)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Destination | Cost | Next Hop")
	fmt.Fprintln(&b, strings.Repeat("-", 33))
	for _, dest := range v.Destinations() {
		entry := v[dest]
		if entry.Cost == state.INF {
			fmt.Fprintf(&b, "%-11s |  INF | -\n", dest)
		} else {
			fmt.Fprintf(&b, "%-11s | %4d | %s\n", dest, entry.Cost, entry.NextHop)
		}
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}
