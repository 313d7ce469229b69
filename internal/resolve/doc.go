// Package resolve binds every node's op_type to the OperatorDecl or
// FunctionDef it invokes.
//
// Resolution runs against an explicit, immutable Context of libraries keyed
// by import URI, so several models can be resolved concurrently against
// different library sets:
//
//	ctx := resolve.NewContext(map[string]*ir.Library{"ai.graphir.std": std})
//	if err := ctx.ImportCycles(); err != nil {
//		return err
//	}
//	bindings, err := resolve.New(ctx).Resolve(model, tables)
//
// An unqualified name is searched in the enclosing scopes, innermost first,
// then in the libraries those scopes import, breadth-first in declaration
// order. A name of the form domain.library.entry goes straight to the named
// library.
package resolve
