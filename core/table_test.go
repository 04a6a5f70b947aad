package core

import (
	"strings"
	"testing"

	"github.com/dvnet/dvnet/state"
	"github.com/stretchr/testify/assert"
)

func TestFormatTable(t *testing.T) {
	v := state.Vector{
		"u": {Cost: 0, NextHop: "u"},
		"w": {Cost: 3, NextHop: "w"},
		"v": {Cost: 6, NextHop: "w"},
		"z": {Cost: state.INF},
	}
	out := FormatTable("u", v)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Contains(t, lines[1], "FORWARDING TABLE FOR ROUTER u")

	// sorted by destination, INF rendered with no next hop
	assert.Equal(t, "u           |    0 | u", lines[4])
	assert.Equal(t, "v           |    6 | w", lines[5])
	assert.Equal(t, "w           |    3 | w", lines[6])
	assert.Equal(t, "z           |  INF | -", lines[7])
}
