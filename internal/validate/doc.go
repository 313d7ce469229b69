// Package validate enforces the structural and cross-field invariants of a
// built model that the builders cannot check on their own.
//
// A Validator walks Graph, Node, Attribute and nested Graph depth-first and
// collects every defect into a single ir.ErrorList, each error tagged with
// the name path of the offending entity:
//
//	v := validate.New(validate.WithLogger(logger))
//	tables, err := v.Validate(model)
//	if list, ok := ir.AsList(err); ok {
//		for _, e := range list {
//			fmt.Println(e)
//		}
//	}
//
// The returned Tables describe the lexical scopes of the model (local
// functions, operators and imports per graph) and are what the resolve
// package binds op_types against.
package validate
