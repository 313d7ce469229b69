package validate

import (
	"strings"

	"github.com/born-ml/graphir/internal/digraph"
	"github.com/born-ml/graphir/internal/ir"
)

// dag builds the node dependency graph of one body and reports its cycles.
// Edges run from the producer of a value to each consumer of that value,
// and from each control_input to the node that names it. A node that lists
// the same name as input and output reads the other producer of that name
// when one exists. Declared names are never produced by a node.
func (w *walker) dag(path string, nodes []*ir.Node, declared map[string]bool) {
	g := digraph.New()
	producers := make(map[string][]int)
	byName := make(map[string]int)
	for i, n := range nodes {
		g.AddVertex(n.Label(i))
		if n.Name() != "" {
			if _, ok := byName[n.Name()]; !ok {
				byName[n.Name()] = i
			}
		}
		for _, out := range n.Output() {
			if out != "" && !declared[out] {
				producers[out] = append(producers[out], i)
			}
		}
	}

	for i, n := range nodes {
		for _, in := range consumed(n) {
			ps := producers[in]
			for _, p := range ps {
				if p == i && len(ps) > 1 {
					continue
				}
				g.AddEdge(p, i)
			}
		}
		for _, c := range n.ControlInput() {
			p, ok := byName[c]
			if !ok {
				w.errs.Add(&ir.Error{
					Kind:      ir.KindUnresolvedReference,
					Path:      ir.Elem(path, "node", n.Label(i)),
					Namespace: ir.NamespaceNode,
					Name:      c,
					Detail:    "control_input names no node of this body",
				})
				continue
			}
			g.AddEdge(p, i)
		}
	}

	for _, cycle := range g.Cycles() {
		labels := g.Labels(cycle)
		w.errs.Add(&ir.Error{
			Kind:      ir.KindCycleDetected,
			Path:      path,
			Namespace: ir.NamespaceNode,
			Names:     labels,
			Detail:    strings.Join(labels, " -> ") + " -> " + labels[0],
		})
	}
}

// consumed returns the value names n reads: its inputs plus the outer
// values its nested graphs capture.
func consumed(n *ir.Node) []string {
	var names []string
	for _, in := range n.Input() {
		if in != "" {
			names = append(names, in)
		}
	}
	for _, a := range n.Attributes() {
		for _, sub := range a.Subgraphs() {
			names = append(names, outerReads(sub)...)
		}
	}
	return names
}

// outerReads returns the value names g reads without declaring or producing them.
func outerReads(g *ir.Graph) []string {
	local := make(map[string]bool)
	for _, vi := range g.Inputs() {
		local[vi.Name()] = true
	}
	for _, t := range g.Initializers() {
		local[t.Name()] = true
	}
	for _, n := range g.Nodes() {
		for _, out := range n.Output() {
			local[out] = true
		}
	}

	var reads []string
	for _, n := range g.Nodes() {
		for _, in := range consumed(n) {
			if !local[in] {
				reads = append(reads, in)
			}
		}
	}
	return reads
}
