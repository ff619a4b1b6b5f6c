// Package symbols provides the lexical scope the checker resolves names
// against: value bindings and named type schemes, with parent-chain lookup.
package symbols

import (
	"github.com/funvibe/structural/internal/typesystem"
)

// Binding is a value-level name bound in some scope.
type Binding struct {
	Index   typesystem.Index
	Mutable bool
}

// Scheme is a possibly polymorphic named type. A zero-arg scheme is a
// plain alias; type params are substituted per use site.
type Scheme struct {
	TypeParams []typesystem.TypeParam
	Type       typesystem.Index
}

// Context is one lexical scope. Lookups fall through to the parent.
type Context struct {
	parent  *Context
	values  map[string]Binding
	schemes map[string]Scheme

	// IsAsync marks scopes inside async functions.
	IsAsync bool
}

func NewContext() *Context {
	return &Context{
		values:  make(map[string]Binding),
		schemes: make(map[string]Scheme),
	}
}

// Child opens a nested scope.
func (c *Context) Child() *Context {
	child := NewContext()
	child.parent = c
	child.IsAsync = c.IsAsync
	return child
}

// Define binds a value name in this scope, shadowing any outer binding.
func (c *Context) Define(name string, b Binding) {
	c.values[name] = b
}

// Lookup resolves a value name, walking outward through parents.
func (c *Context) Lookup(name string) (Binding, bool) {
	for s := c; s != nil; s = s.parent {
		if b, ok := s.values[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// DefineScheme registers a named type in this scope.
func (c *Context) DefineScheme(name string, s Scheme) {
	c.schemes[name] = s
}

// Scheme resolves a named type, walking outward through parents.
func (c *Context) Scheme(name string) (Scheme, bool) {
	for s := c; s != nil; s = s.parent {
		if sch, ok := s.schemes[name]; ok {
			return sch, true
		}
	}
	return Scheme{}, false
}
