// Package checker implements structural unification and call-site
// inference over an arena of type nodes. A Checker owns one arena and is
// used for one inference run; it is not safe for concurrent use.
package checker

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/structural/internal/typesystem"
)

type Checker struct {
	Arena *typesystem.Store
}

func New() *Checker {
	return &Checker{Arena: typesystem.NewStore()}
}

// Prune resolves a variable chain to its representative.
func (c *Checker) Prune(t typesystem.Index) typesystem.Index {
	return c.Arena.Prune(t)
}

// Print renders the type at t for diagnostics.
func (c *Checker) Print(t typesystem.Index) string {
	return c.Arena.Sprint(t)
}

// occursInType reports whether the variable v appears anywhere inside t.
// Binding a variable to a type containing itself would make the graph
// cyclic, so bind refuses it.
func (c *Checker) occursInType(v, t typesystem.Index) bool {
	visited := set.New[typesystem.Index](8)
	var walk func(t typesystem.Index) bool
	walk = func(t typesystem.Index) bool {
		t = c.Prune(t)
		if t == v {
			return true
		}
		if visited.Contains(t) {
			return false
		}
		visited.Insert(t)
		for _, child := range typesystem.ChildIndices(c.Arena.Get(t).Kind) {
			if walk(child) {
				return true
			}
		}
		return false
	}
	return walk(t)
}
