package typesystem

// Index addresses a type node inside a Store. Nodes reference each other
// only by index, never by value, because type graphs can be mutually
// recursive.
type Index = int

// NoIndex marks an absent optional index (an unbound variable instance, a
// missing constraint, a function without a declared throws type).
const NoIndex Index = -1

// Type is a single node in the Store.
type Type struct {
	Kind TypeKind
}

// TypeKind is the closed set of type-node variants. The unifier and the
// call resolver switch over every variant; adding one means updating every
// switch.
type TypeKind interface {
	typeKind()
}

// Variable is an inference variable. Instance is the forward link of the
// union-find chain (NoIndex while unbound); Constraint, when present, is
// unified against whatever the variable is eventually bound to.
type Variable struct {
	Instance   Index
	Constraint Index
}

// Constructor is a named type applied to arguments: Array<T>, Promise<T>,
// or a user alias. Schemes live in the Context; a Constructor node only
// carries the name and the argument indices.
type Constructor struct {
	Name  string
	Types []Index
}

// Literal is an exact value type such as 5, "hello" or true.
type Literal struct {
	Value Lit
}

type PrimKind int

const (
	PrimNumber PrimKind = iota
	PrimString
	PrimBoolean
	PrimSymbol
)

func (p PrimKind) String() string {
	switch p {
	case PrimNumber:
		return "number"
	case PrimString:
		return "string"
	case PrimBoolean:
		return "boolean"
	case PrimSymbol:
		return "symbol"
	}
	return "unknown primitive"
}

// Primitive is a widened literal target: number, string, boolean, symbol.
type Primitive struct {
	Prim PrimKind
}

type KeywordKind int

const (
	KeywordUnknown KeywordKind = iota
	KeywordNever
	KeywordUndefined
	KeywordNull
)

func (k KeywordKind) String() string {
	switch k {
	case KeywordUnknown:
		return "unknown"
	case KeywordNever:
		return "never"
	case KeywordUndefined:
		return "undefined"
	case KeywordNull:
		return "null"
	}
	return "unknown keyword"
}

// Keyword covers unknown, never, undefined and null. `unknown` absorbs
// anything on the right-hand side; `never` is the default throws type.
type Keyword struct {
	Word KeywordKind
}

// FuncParam is one function parameter: its binding pattern, its type index
// and whether the parameter may be omitted.
type FuncParam struct {
	Pattern  TPat
	Type     Index
	Optional bool
}

// IsSelf reports whether the parameter is a leading method receiver
// (`self` or `mut self`), which unification strips before comparing
// parameter lists.
func (p FuncParam) IsSelf() bool {
	ident, ok := p.Pattern.(*TPatIdent)
	return ok && ident.Name == "self"
}

// IsRest reports whether the parameter absorbs all remaining arguments.
func (p FuncParam) IsRest() bool {
	_, ok := p.Pattern.(*TPatRest)
	return ok
}

// TypeParam is a declared generic parameter with an optional constraint
// and an optional default, both as indices (NoIndex when absent).
type TypeParam struct {
	Name       string
	Constraint Index
	Default    Index
}

// Function is a function type. Throws is NoIndex when the function does
// not declare a thrown type; comparisons substitute `never`.
type Function struct {
	Params     []FuncParam
	Ret        Index
	TypeParams []TypeParam
	Throws     Index
}

type Union struct {
	Types []Index
}

// Intersection doubles as the encoding of overloads: a callee that is an
// intersection of function types is resolved member by member.
type Intersection struct {
	Types []Index
}

// Tuple is an ordered list of element types; any element may be a Rest
// node absorbing the remainder.
type Tuple struct {
	Types []Index
}

// Object is a structural object type. Elems holds named properties, call
// signatures, construct signatures and at most one mapped element.
type Object struct {
	Elems []ObjElem
}

// ObjElem is the closed set of object members.
type ObjElem interface {
	objElem()
}

// PropElem is a named property. Optional properties read as T | undefined.
type PropElem struct {
	Name     string
	Optional bool
	Mutable  bool
	Type     Index
}

// Callable is the shared shape of call and construct signatures.
type Callable struct {
	Params     []FuncParam
	Ret        Index
	TypeParams []TypeParam
}

type CallElem struct {
	Fn Callable
}

type ConstructorElem struct {
	Fn Callable
}

// MappedElem is an indexer `[Target in Source]: Value`. Key is the key
// scheme, which may reference Target; reconciling two indexers
// substitutes each side's Target with its own Source first.
type MappedElem struct {
	Target string
	Source Index
	Key    Index
	Value  Index
}

func (*PropElem) objElem()        {}
func (*CallElem) objElem()        {}
func (*ConstructorElem) objElem() {}
func (*MappedElem) objElem()      {}

// Rest marks "the remaining elements" inside a tuple or a parameter list.
type Rest struct {
	Arg Index
}

// KeyOf, IndexedAccess, Conditional and Infer are deferred type-level
// computations, evaluated on demand during expansion.
type KeyOf struct {
	Type Index
}

type IndexedAccess struct {
	Obj Index
	Key Index
}

type Conditional struct {
	Check     Index
	Extends   Index
	TrueType  Index
	FalseType Index
}

type Infer struct {
	Name string
}

// Wildcard unifies with anything; it is the type of `_`.
type Wildcard struct{}

func (*Variable) typeKind()      {}
func (*Constructor) typeKind()   {}
func (*Literal) typeKind()       {}
func (*Primitive) typeKind()     {}
func (*Keyword) typeKind()       {}
func (*Function) typeKind()      {}
func (*Union) typeKind()         {}
func (*Intersection) typeKind()  {}
func (*Tuple) typeKind()         {}
func (*Object) typeKind()        {}
func (*Rest) typeKind()          {}
func (*KeyOf) typeKind()         {}
func (*IndexedAccess) typeKind() {}
func (*Conditional) typeKind()   {}
func (*Infer) typeKind()         {}
func (*Wildcard) typeKind()      {}

// TPat is the binding-pattern shape carried by function parameters. It
// mirrors the syntactic patterns the pattern inferencer accepts in
// irrefutable positions.
type TPat interface {
	tpatNode()
}

type TPatIdent struct {
	Name    string
	Mutable bool
}

type TPatRest struct {
	Arg TPat
}

// TPatTuple elements may be nil for holes.
type TPatTuple struct {
	Elems []TPat
}

type TPatObject struct {
	Props []TPatObjectProp
}

// TPatObjectProp is one member of an object pattern. Rest marks the
// `...rest` member, in which case Value is the rest pattern and Key is
// empty. A nil Value with a Key is shorthand ({x} for {x: x}).
type TPatObjectProp struct {
	Key   string
	Value TPat
	Rest  bool
}

func (*TPatIdent) tpatNode()  {}
func (*TPatRest) tpatNode()   {}
func (*TPatTuple) tpatNode()  {}
func (*TPatObject) tpatNode() {}

// ChildIndices returns every type index a node refers to directly. The
// occurs check and structural traversals use it so that a new variant
// only has to be described once.
func ChildIndices(k TypeKind) []Index {
	var out []Index
	add := func(idx Index) {
		if idx != NoIndex {
			out = append(out, idx)
		}
	}
	addParams := func(params []FuncParam) {
		for _, p := range params {
			add(p.Type)
		}
	}
	addTypeParams := func(tps []TypeParam) {
		for _, tp := range tps {
			add(tp.Constraint)
			add(tp.Default)
		}
	}

	switch k := k.(type) {
	case *Variable:
		add(k.Instance)
		add(k.Constraint)
	case *Constructor:
		out = append(out, k.Types...)
	case *Literal, *Primitive, *Keyword, *Infer, *Wildcard:
	case *Function:
		addParams(k.Params)
		addTypeParams(k.TypeParams)
		add(k.Ret)
		add(k.Throws)
	case *Union:
		out = append(out, k.Types...)
	case *Intersection:
		out = append(out, k.Types...)
	case *Tuple:
		out = append(out, k.Types...)
	case *Object:
		for _, elem := range k.Elems {
			switch elem := elem.(type) {
			case *PropElem:
				add(elem.Type)
			case *CallElem:
				addParams(elem.Fn.Params)
				addTypeParams(elem.Fn.TypeParams)
				add(elem.Fn.Ret)
			case *ConstructorElem:
				addParams(elem.Fn.Params)
				addTypeParams(elem.Fn.TypeParams)
				add(elem.Fn.Ret)
			case *MappedElem:
				add(elem.Source)
				add(elem.Key)
				add(elem.Value)
			}
		}
	case *Rest:
		add(k.Arg)
	case *KeyOf:
		add(k.Type)
	case *IndexedAccess:
		add(k.Obj)
		add(k.Key)
	case *Conditional:
		add(k.Check)
		add(k.Extends)
		add(k.TrueType)
		add(k.FalseType)
	}
	return out
}
