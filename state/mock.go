package state

// SixRouterConfig is the documented example network in the on-disk topology
// format. Shortest paths from u: v=6 (via w), w=3, x=5, y=10 (via w),
// z=12 (via w).
const SixRouterConfig = `# six router example topology
u <v, -1>, <w, 3>, <x, 5>, <y, -1>, <z, -1>
v <u, -1>, <w, 3>, <x, -1>, <y, 4>, <z, -1>
w <u, 3>, <v, 3>, <x, 4>, <y, -1>, <z, -1>
x <u, 5>, <v, -1>, <w, 4>, <y, -1>, <z, -1>
y <u, -1>, <v, 4>, <w, -1>, <x, -1>, <z, 2>
z <u, -1>, <v, -1>, <w, -1>, <x, -1>, <y, 2>
`

func SixRouterTopology() Topology {
	return Topology{
		"u": {"w": 3, "x": 5},
		"v": {"w": 3, "y": 4},
		"w": {"u": 3, "v": 3, "x": 4},
		"x": {"u": 5, "w": 4},
		"y": {"v": 4, "z": 2},
		"z": {"y": 2},
	}
}
