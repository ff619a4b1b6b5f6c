package typesystem

import "fmt"

// Lit is the value payload of a literal type. Numbers are kept as their
// source text so that 0.1 + 0.2 style drift can never make two equal
// literals unequal.
type Lit interface {
	litNode()
	String() string
	Equal(other Lit) bool
}

type NumLit struct {
	Value string
}

func (l NumLit) litNode()       {}
func (l NumLit) String() string { return l.Value }
func (l NumLit) Equal(other Lit) bool {
	o, ok := other.(NumLit)
	return ok && o.Value == l.Value
}

type StrLit struct {
	Value string
}

func (l StrLit) litNode()       {}
func (l StrLit) String() string { return fmt.Sprintf("%q", l.Value) }
func (l StrLit) Equal(other Lit) bool {
	o, ok := other.(StrLit)
	return ok && o.Value == l.Value
}

type BoolLit struct {
	Value bool
}

func (l BoolLit) litNode() {}
func (l BoolLit) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}
func (l BoolLit) Equal(other Lit) bool {
	o, ok := other.(BoolLit)
	return ok && o.Value == l.Value
}
