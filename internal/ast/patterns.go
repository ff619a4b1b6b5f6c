package ast

import "github.com/funvibe/structural/internal/typesystem"

// IdentPat binds a single name: x, or mut x.
type IdentPat struct {
	inferredSlot
	Name    string
	Mutable bool
}

func (p *IdentPat) node()        {}
func (p *IdentPat) patternNode() {}

// RestPat collects remaining elements: ...rest.
type RestPat struct {
	inferredSlot
	Arg Pattern
}

func (p *RestPat) node()        {}
func (p *RestPat) patternNode() {}

// ObjectPatProp is one entry of an object pattern.
type ObjectPatProp interface {
	objectPatProp()
}

// KeyValuePatProp destructures a key into a nested pattern: {a: [x, y]}.
type KeyValuePatProp struct {
	Key   string
	Value Pattern
}

func (*KeyValuePatProp) objectPatProp() {}

// ShorthandPatProp binds a key to a name of the same spelling: {a}.
type ShorthandPatProp struct {
	Key     string
	Mutable bool
}

func (*ShorthandPatProp) objectPatProp() {}

// RestPatProp collects remaining properties: {a, ...rest}.
type RestPatProp struct {
	Value Pattern
}

func (*RestPatProp) objectPatProp() {}

// ObjectPat destructures an object: {a, b: [x], ...rest}.
type ObjectPat struct {
	inferredSlot
	Props []ObjectPatProp
}

func (p *ObjectPat) node()        {}
func (p *ObjectPat) patternNode() {}

// TuplePat destructures a tuple: [a, , b]. A nil element is a hole.
type TuplePat struct {
	inferredSlot
	Elems []Pattern
}

func (p *TuplePat) node()        {}
func (p *TuplePat) patternNode() {}

// LitPat matches an exact literal value.
type LitPat struct {
	inferredSlot
	Lit typesystem.Lit
}

func (p *LitPat) node()        {}
func (p *LitPat) patternNode() {}

// IsPat binds a name refined to a named type: x is number.
type IsPat struct {
	inferredSlot
	Name   string
	IsName string
}

func (p *IsPat) node()        {}
func (p *IsPat) patternNode() {}

// WildcardPat matches anything and binds nothing: _.
type WildcardPat struct {
	inferredSlot
}

func (p *WildcardPat) node()        {}
func (p *WildcardPat) patternNode() {}
