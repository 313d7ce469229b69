package engine

import (
	"slices"

	"github.com/born-ml/graphir/internal/ir"
	"github.com/born-ml/graphir/internal/validate"
)

// Summary contains basic information about a model.
type Summary struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	Graph           string
	InputNames      []string // graph inputs not backed by an initializer
	OutputNames     []string
	Imports         []string
	NodeCount       int // nodes of the main graph
	TotalNodes      int // including nested graphs and function bodies
	WeightCount     int
	FunctionCount   int
	OperatorCount   int
	OpTypes         []string // distinct op_types over all bodies, sorted
}

// Summarize collects a Summary of m.
func Summarize(m *ir.Model) Summary {
	s := Summary{
		IRVersion:       m.IRVersion(),
		ProducerName:    m.ProducerName(),
		ProducerVersion: m.ProducerVersion(),
		Domain:          m.Domain(),
		ModelVersion:    m.ModelVersion(),
	}
	g := m.Graph()
	if g == nil {
		return s
	}
	s.Graph = g.Name()

	weights := make(map[string]bool, len(g.Initializers()))
	for _, t := range g.Initializers() {
		weights[t.Name()] = true
	}
	for _, in := range g.Inputs() {
		if !weights[in.Name()] {
			s.InputNames = append(s.InputNames, in.Name())
		}
	}
	for _, out := range g.Outputs() {
		s.OutputNames = append(s.OutputNames, out.Name())
	}
	s.Imports = g.ImportedLibraries()
	s.NodeCount = len(g.Nodes())
	s.WeightCount = len(g.Initializers())
	s.FunctionCount = len(g.Functions())
	s.OperatorCount = len(g.Operators())

	nodes := validate.ModelTables(m).Nodes()
	s.TotalNodes = len(nodes)
	for _, ref := range nodes {
		s.OpTypes = append(s.OpTypes, ref.Node.OpType())
	}
	slices.Sort(s.OpTypes)
	s.OpTypes = slices.Compact(s.OpTypes)
	return s
}
