package resolve

import (
	"fmt"

	"github.com/born-ml/graphir/internal/ir"
)

// checkArity reports whether n's input and output counts fit sig.
//
// With input_arg_count, there is one entry per formal input: variadic inputs
// take any number of arguments, the others exactly one, and the entries sum
// to len(input). Without it, every formal input is taken to be non-variadic
// and bound to exactly one argument, so variadic formals receive none.
func checkArity(sig *ir.Signature, n *ir.Node) error {
	formals := sig.Inputs()
	if counts, ok := n.InputArgCount(); ok {
		if len(counts) != len(formals) {
			return fmt.Errorf("input_arg_count has %d entries for %d formal inputs", len(counts), len(formals))
		}
		sum := 0
		for i, c := range counts {
			switch {
			case c < 0:
				return fmt.Errorf("input_arg_count[%d] is negative", i)
			case !formals[i].Variadic() && c != 1:
				return fmt.Errorf("input %q takes exactly 1 argument, got %d", formals[i].Name(), c)
			}
			sum += int(c)
		}
		if sum != len(n.Input()) {
			return fmt.Errorf("input_arg_count sums to %d, node has %d inputs", sum, len(n.Input()))
		}
	} else if fixed := countFixed(formals); len(n.Input()) != fixed {
		return fmt.Errorf("node has %d inputs, want %d", len(n.Input()), fixed)
	}

	outs := sig.Outputs()
	fixed := countFixed(outs)
	if fixed < len(outs) {
		if len(n.Output()) < fixed {
			return fmt.Errorf("node has %d outputs, want at least %d", len(n.Output()), fixed)
		}
	} else if len(n.Output()) != len(outs) {
		return fmt.Errorf("node has %d outputs, want %d", len(n.Output()), len(outs))
	}
	return nil
}

func countFixed(ps []*ir.Param) int {
	n := 0
	for _, p := range ps {
		if !p.Variadic() {
			n++
		}
	}
	return n
}
