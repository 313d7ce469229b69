package digraph

import "slices"

// Graph is a directed graph with insertion-ordered vertices and edges.
// It is not safe for concurrent mutation.
type Graph struct {
	labels []string
	out    [][]int
	seen   []map[int]bool
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{}
}

// AddVertex adds a vertex with the given label and returns its id.
func (g *Graph) AddVertex(label string) int {
	g.labels = append(g.labels, label)
	g.out = append(g.out, nil)
	g.seen = append(g.seen, make(map[int]bool))
	return len(g.labels) - 1
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.labels) }

// Label returns the label of vertex v.
func (g *Graph) Label(v int) string { return g.labels[v] }

// AddEdge adds the edge from→to. Duplicate edges are ignored; self edges are kept.
func (g *Graph) AddEdge(from, to int) {
	if g.seen[from][to] {
		return
	}
	g.seen[from][to] = true
	g.out[from] = append(g.out[from], to)
}

// Successors returns the targets of edges leaving v, in insertion order.
func (g *Graph) Successors(v int) []int { return g.out[v] }

// Labels maps vertex ids to their labels.
func (g *Graph) Labels(vs []int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = g.labels[v]
	}
	return out
}

const (
	white = iota
	grey
	black
)

// Cycles returns the cycles of the graph. Every back edge u→v found by an
// iterative three-color depth-first search yields the shortest cycle through
// it, v⇝u→v. Cycles with the same vertex set are reported once, each
// rotated to start at its lowest vertex id.
func (g *Graph) Cycles() [][]int {
	color := make([]int, len(g.labels))
	next := make([]int, len(g.labels))
	var cycles [][]int
	reported := make(map[string]bool)

	for root := range g.labels {
		if color[root] != white {
			continue
		}
		stack := []int{root}
		color[root] = grey
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			if next[u] == len(g.out[u]) {
				color[u] = black
				stack = stack[:len(stack)-1]
				continue
			}
			v := g.out[u][next[u]]
			next[u]++
			switch color[v] {
			case white:
				color[v] = grey
				stack = append(stack, v)
			case grey:
				c := g.shortestCycle(u, v)
				if key := cycleKey(c); !reported[key] {
					reported[key] = true
					cycles = append(cycles, c)
				}
			}
		}
	}
	return cycles
}

// shortestCycle returns the vertices of the shortest path v⇝u, which closes
// into a cycle through the edge u→v.
func (g *Graph) shortestCycle(u, v int) []int {
	if u == v {
		return []int{v}
	}
	prev := make(map[int]int, len(g.labels))
	prev[v] = v
	queue := []int{v}
	for len(queue) > 0 && !containsKey(prev, u) {
		x := queue[0]
		queue = queue[1:]
		for _, y := range g.out[x] {
			if _, ok := prev[y]; !ok {
				prev[y] = x
				queue = append(queue, y)
			}
		}
	}
	path := []int{u}
	for x := u; x != v; {
		x = prev[x]
		path = append(path, x)
	}
	slices.Reverse(path)
	return rotate(path)
}

func containsKey(m map[int]int, k int) bool {
	_, ok := m[k]
	return ok
}

func rotate(c []int) []int {
	i := slices.Index(c, slices.Min(c))
	return append(slices.Clone(c[i:]), c[:i]...)
}

func cycleKey(c []int) string {
	sorted := slices.Clone(c)
	slices.Sort(sorted)
	key := make([]byte, 0, len(sorted)*4)
	for _, v := range sorted {
		key = append(key, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return string(key)
}

// TopoSort returns the vertices in a topological order, preferring lower ids
// when several vertices are ready. ok is false when the graph has a cycle.
func (g *Graph) TopoSort() (order []int, ok bool) {
	inDegree := make([]int, len(g.labels))
	for _, succ := range g.out {
		for _, v := range succ {
			inDegree[v]++
		}
	}
	var ready []int
	for v, d := range inDegree {
		if d == 0 {
			ready = append(ready, v)
		}
	}
	for len(ready) > 0 {
		slices.Sort(ready)
		v := ready[0]
		ready = ready[1:]
		order = append(order, v)
		for _, w := range g.out[v] {
			inDegree[w]--
			if inDegree[w] == 0 {
				ready = append(ready, w)
			}
		}
	}
	return order, len(order) == len(g.labels)
}
