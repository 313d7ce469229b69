package resolve

import (
	"slices"
	"strings"

	"github.com/born-ml/graphir/internal/digraph"
	"github.com/born-ml/graphir/internal/ir"
)

// Context is an immutable set of libraries keyed by import URI. It is safe
// for concurrent use.
type Context struct {
	libs     map[string]*ir.Library
	uris     []string
	byPrefix map[string]*ir.Library
}

// NewContext returns a Context over libs. When two libraries share a
// domain.name prefix, the one with the lowest URI owns qualified references.
func NewContext(libs map[string]*ir.Library) *Context {
	c := &Context{
		libs:     make(map[string]*ir.Library, len(libs)),
		byPrefix: make(map[string]*ir.Library, len(libs)),
	}
	for uri, lib := range libs {
		if lib == nil {
			continue
		}
		c.libs[uri] = lib
		c.uris = append(c.uris, uri)
	}
	slices.Sort(c.uris)
	for _, uri := range c.uris {
		lib := c.libs[uri]
		if _, ok := c.byPrefix[lib.Prefix()]; !ok {
			c.byPrefix[lib.Prefix()] = lib
		}
	}
	return c
}

// Library returns the library imported as uri.
func (c *Context) Library(uri string) (*ir.Library, bool) {
	lib, ok := c.libs[uri]
	return lib, ok
}

// URIs returns the import URIs of the context in sorted order.
func (c *Context) URIs() []string { return c.uris }

// Len returns the number of libraries.
func (c *Context) Len() int { return len(c.uris) }

// qualified splits ref into a library and an entry name when ref starts
// with the domain.name prefix of some library. The longest prefix wins.
func (c *Context) qualified(ref string) (*ir.Library, string, bool) {
	for i := strings.LastIndexByte(ref, '.'); i > 0; i = strings.LastIndexByte(ref[:i], '.') {
		if lib, ok := c.byPrefix[ref[:i]]; ok {
			return lib, ref[i+1:], true
		}
	}
	return nil, "", false
}

// reachable returns the libraries imported by uris, then their imports,
// breadth-first in declaration order. Each library appears once; skip is
// never returned. Unknown URIs are ignored.
func (c *Context) reachable(uris []string, skip *ir.Library) []*ir.Library {
	queue := slices.Clone(uris)
	seen := make(map[*ir.Library]bool)
	if skip != nil {
		seen[skip] = true
	}
	var libs []*ir.Library
	for len(queue) > 0 {
		uri := queue[0]
		queue = queue[1:]
		lib, ok := c.libs[uri]
		if !ok || seen[lib] {
			continue
		}
		seen[lib] = true
		libs = append(libs, lib)
		queue = append(queue, lib.ImportedLibraries()...)
	}
	return libs
}

// ImportCycles checks the library import graph. Every cycle is reported as
// ImportCycle naming the URIs on it; imports of URIs missing from the
// context are reported as UnresolvedReference.
func (c *Context) ImportCycles() error {
	var errs ir.ErrorList
	g := digraph.New()
	ids := make(map[string]int, len(c.uris))
	for _, uri := range c.uris {
		ids[uri] = g.AddVertex(uri)
	}
	for _, uri := range c.uris {
		lib := c.libs[uri]
		for _, imp := range lib.ImportedLibraries() {
			to, ok := ids[imp]
			if !ok {
				errs.Add(&ir.Error{
					Kind:      ir.KindUnresolvedReference,
					Path:      libraryPath(lib),
					Namespace: ir.NamespaceLibrary,
					Name:      imp,
					Detail:    "imported library is not in the resolution context",
				})
				continue
			}
			g.AddEdge(ids[uri], to)
		}
	}
	for _, cycle := range g.Cycles() {
		uris := g.Labels(cycle)
		errs.Add(&ir.Error{
			Kind:      ir.KindImportCycle,
			Path:      libraryPath(c.libs[uris[0]]),
			Namespace: ir.NamespaceLibrary,
			Names:     uris,
			Detail:    strings.Join(uris, " -> ") + " -> " + uris[0],
		})
	}
	return errs.Err()
}

func libraryPath(lib *ir.Library) string {
	return ir.Elem("", "library", lib.Name())
}
