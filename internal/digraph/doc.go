// Package digraph provides a small ordered directed graph used for node
// dependency analysis and library import analysis.
//
// Vertices are dense integer ids handed out in insertion order, each with a
// display label. Iteration is always in insertion order so results are
// deterministic.
package digraph
