package state

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Topology is the static router graph: router id -> neighbour id -> link
// cost. It is parsed once at startup and read-only afterwards. Only the
// relay holds the full table; agents learn their own row at registration.
type Topology map[Node]map[Node]uint32

var edgePattern = regexp.MustCompile(`<\s*([0-9a-z._-]+)\s*,\s*(-?\d+)\s*>`)

// ParseTopology reads the line-oriented topology format, one router per
// line:
//
//	router_id <neighbour_id, cost>, <neighbour_id, cost>, ...
//
// A cost of -1 means "no edge" and is dropped, never stored. Lines starting
// with '#' and blank lines are skipped. Every referenced neighbour must have
// its own line, and every edge must be declared in both directions with the
// same cost; anything else is a fatal configuration error.
func ParseTopology(r io.Reader) (Topology, error) {
	topo := make(Topology)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, row, err := parseTopologyLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, ok := topo[id]; ok {
			return nil, fmt.Errorf("line %d: duplicate router %s", lineNo, id)
		}
		topo[id] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(topo) == 0 {
		return nil, fmt.Errorf("topology is empty")
	}
	if err := validateTopology(topo); err != nil {
		return nil, err
	}
	return topo, nil
}

func parseTopologyLine(line string) (Node, map[Node]uint32, error) {
	idEnd := strings.IndexByte(line, '<')
	if idEnd < 0 {
		return "", nil, fmt.Errorf("no neighbour list on line %q", line)
	}
	id := Node(strings.Trim(strings.TrimSpace(line[:idEnd]), ","))
	if err := NameValidator(string(id)); err != nil {
		return "", nil, err
	}

	rest := line[idEnd:]
	matches := edgePattern.FindAllStringSubmatch(rest, -1)
	if matches == nil {
		return "", nil, fmt.Errorf("no <neighbour, cost> pairs on line %q", line)
	}
	// reject garbage between pairs rather than silently skipping it
	if leftover := strings.Trim(edgePattern.ReplaceAllString(rest, ""), ", \t"); leftover != "" {
		return "", nil, fmt.Errorf("malformed neighbour list near %q", leftover)
	}

	row := make(map[Node]uint32)
	for _, m := range matches {
		neigh := Node(m[1])
		cost, err := strconv.Atoi(m[2])
		if err != nil {
			return "", nil, fmt.Errorf("bad cost %q for edge %s-%s", m[2], id, neigh)
		}
		if neigh == id {
			return "", nil, fmt.Errorf("router %s declares an edge to itself", id)
		}
		if cost == NoLink {
			continue
		}
		if cost < 0 {
			return "", nil, fmt.Errorf("negative cost %d for edge %s-%s", cost, id, neigh)
		}
		if _, ok := row[neigh]; ok {
			return "", nil, fmt.Errorf("duplicate edge %s-%s", id, neigh)
		}
		row[neigh] = uint32(cost)
	}
	return id, row, nil
}

func validateTopology(topo Topology) error {
	for id, row := range topo {
		for neigh, cost := range row {
			reverseRow, ok := topo[neigh]
			if !ok {
				return fmt.Errorf("router %s references undeclared router %s", id, neigh)
			}
			reverse, ok := reverseRow[id]
			if !ok {
				return fmt.Errorf("edge %s-%s is declared in one direction only", id, neigh)
			}
			if reverse != cost {
				return fmt.Errorf("edge %s-%s has inconsistent costs %d and %d", id, neigh, cost, reverse)
			}
		}
	}
	return nil
}

func LoadTopology(path string) (Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	topo, err := ParseTopology(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return topo, nil
}

// Nodes returns every router id, sorted.
func (t Topology) Nodes() []Node {
	nodes := slices.Collect(maps.Keys(t))
	slices.Sort(nodes)
	return nodes
}

// Row returns a copy of a router's direct neighbour costs.
func (t Topology) Row(id Node) (map[Node]uint32, bool) {
	row, ok := t[id]
	if !ok {
		return nil, false
	}
	return maps.Clone(row), true
}

func (t Topology) AreNeighbours(a, b Node) bool {
	_, ok := t[a][b]
	return ok
}
