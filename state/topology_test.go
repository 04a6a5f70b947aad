package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopology_SixRouterExample(t *testing.T) {
	topo, err := ParseTopology(strings.NewReader(SixRouterConfig))
	require.NoError(t, err)
	assert.Equal(t, SixRouterTopology(), topo)
	assert.Equal(t, []Node{"u", "v", "w", "x", "y", "z"}, topo.Nodes())
}

func TestParseTopology_SentinelIsNotACost(t *testing.T) {
	topo, err := ParseTopology(strings.NewReader(`a <b, -1>, <c, 2>
b <a, -1>, <c, 7>
c <a, 2>, <b, 7>
`))
	require.NoError(t, err)
	// -1 means no edge, never cost 0
	assert.False(t, topo.AreNeighbours("a", "b"))
	assert.False(t, topo.AreNeighbours("b", "a"))
	assert.True(t, topo.AreNeighbours("a", "c"))
}

func TestParseTopology_CommentsAndBlanks(t *testing.T) {
	topo, err := ParseTopology(strings.NewReader(`# heading

a <b, 1>
# mid comment
b <a, 1>
`))
	require.NoError(t, err)
	assert.Len(t, topo, 2)
}

func TestParseTopology_ZeroCostEdge(t *testing.T) {
	topo, err := ParseTopology(strings.NewReader(`a <b, 0>
b <a, 0>
`))
	require.NoError(t, err)
	cost, ok := topo["a"]["b"]
	assert.True(t, ok)
	assert.Equal(t, uint32(0), cost)
}

func TestParseTopology_Errors(t *testing.T) {
	fail := func(cfg, wantErr string) {
		t.Helper()
		_, err := ParseTopology(strings.NewReader(cfg))
		assert.ErrorContains(t, err, wantErr)
	}

	fail(``, "topology is empty")
	fail(`a`, "no neighbour list")
	fail("a <b, 1>\na <b, 1>\nb <a, 1>\n", "duplicate router a")
	fail("a <a, 1>\n", "edge to itself")
	fail("a <b, -2>\nb <a, -2>\n", "negative cost")
	fail("a <b, 1>, <b, 2>\nb <a, 1>\n", "duplicate edge a-b")
	fail("a <b, 1>\n", "references undeclared router b")
	fail("a <b, 1>\nb <a, -1>\n", "one direction only")
	fail("a <b, 1>\nb <a, 2>\n", "inconsistent costs")
	fail("a <b, 1> junk\nb <a, 1>\n", "malformed neighbour list")
	fail("a <b, x>\nb <a, 1>\n", "no <neighbour, cost> pairs")
	fail("A <b, 1>\nb <A, 1>\n", "not a valid router id")
}

func TestTopology_Row(t *testing.T) {
	topo := SixRouterTopology()
	row, ok := topo.Row("u")
	require.True(t, ok)
	assert.Equal(t, map[Node]uint32{"w": 3, "x": 5}, row)

	// the returned row is a copy
	row["w"] = 99
	assert.Equal(t, uint32(3), topo["u"]["w"])

	_, ok = topo.Row("nope")
	assert.False(t, ok)
}
