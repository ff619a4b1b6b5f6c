package typesystem

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
)

// Store is the append-only arena owning every type node of one inference
// run. Indices are never reused, so bindings and AST inferred-type slots
// may hold an index for the whole run. The Store performs no validation;
// it is a bare arena.
//
// A Store is not safe for concurrent mutation. Hosts wanting parallelism
// run one Store per compilation unit and merge results afterwards.
type Store struct {
	// RunID identifies this inference run in diagnostics, so output from
	// independent per-file runs can be told apart.
	RunID string

	nodes []Type
}

func NewStore() *Store {
	return &Store{RunID: uuid.NewString()}
}

// Push appends a node and returns its index.
func (s *Store) Push(kind TypeKind) Index {
	s.nodes = append(s.nodes, Type{Kind: kind})
	return Index(len(s.nodes) - 1)
}

// Get returns the node at i. The pointer stays valid for the lifetime of
// the run; only Variable nodes are ever mutated through it.
func (s *Store) Get(i Index) *Type {
	return &s.nodes[i]
}

func (s *Store) Len() int {
	return len(s.nodes)
}

// Prune resolves a Variable's forward-link chain to its current binding,
// compressing the path as it goes. For any other node it returns i
// unchanged.
func (s *Store) Prune(i Index) Index {
	v, ok := s.nodes[i].Kind.(*Variable)
	if !ok || v.Instance == NoIndex {
		return i
	}
	root := s.Prune(v.Instance)
	v.Instance = root
	return root
}

// SetInstance writes a Variable's forward link. Callers run the occurs
// check first; the Store itself does not.
func (s *Store) SetInstance(i, instance Index) {
	v, ok := s.nodes[i].Kind.(*Variable)
	if !ok {
		panic(fmt.Sprintf("typesystem: SetInstance on non-variable node %d", i))
	}
	v.Instance = instance
}

// SetVarConstraint attaches a constraint to an unbound Variable. Used
// when instantiating constrained type parameters, where the constraint
// may reference sibling parameters and so can only be built after all
// fresh variables exist.
func (s *Store) SetVarConstraint(i, constraint Index) {
	v, ok := s.nodes[i].Kind.(*Variable)
	if !ok {
		panic(fmt.Sprintf("typesystem: SetVarConstraint on non-variable node %d", i))
	}
	v.Constraint = constraint
}

// Dump writes every node to w in spew's verbose form. Debug aid only.
func (s *Store) Dump(w io.Writer) {
	fmt.Fprintf(w, "store %s (%d nodes)\n", s.RunID, len(s.nodes))
	for i := range s.nodes {
		fmt.Fprintf(w, "#%d %s", i, spew.Sdump(s.nodes[i].Kind))
	}
}

func (s *Store) NewVar() Index {
	return s.Push(&Variable{Instance: NoIndex, Constraint: NoIndex})
}

func (s *Store) NewVarWithConstraint(constraint Index) Index {
	return s.Push(&Variable{Instance: NoIndex, Constraint: constraint})
}

func (s *Store) NewConstructor(name string, types ...Index) Index {
	return s.Push(&Constructor{Name: name, Types: types})
}

func (s *Store) NewNumLit(value string) Index {
	return s.Push(&Literal{Value: NumLit{Value: value}})
}

func (s *Store) NewStrLit(value string) Index {
	return s.Push(&Literal{Value: StrLit{Value: value}})
}

func (s *Store) NewBoolLit(value bool) Index {
	return s.Push(&Literal{Value: BoolLit{Value: value}})
}

func (s *Store) NewPrimitive(prim PrimKind) Index {
	return s.Push(&Primitive{Prim: prim})
}

func (s *Store) NewKeyword(word KeywordKind) Index {
	return s.Push(&Keyword{Word: word})
}

func (s *Store) NewFunc(params []FuncParam, ret Index, typeParams []TypeParam, throws Index) Index {
	return s.Push(&Function{Params: params, Ret: ret, TypeParams: typeParams, Throws: throws})
}

// ParamsFromTypes builds plain positional parameters (arg0, arg1, ...)
// from bare type indices. Handy for synthesized function types and tests.
func ParamsFromTypes(types ...Index) []FuncParam {
	params := make([]FuncParam, len(types))
	for i, t := range types {
		params[i] = FuncParam{
			Pattern: &TPatIdent{Name: fmt.Sprintf("arg%d", i)},
			Type:    t,
		}
	}
	return params
}

// NewUnion flattens nested unions and removes duplicate members by index
// identity, preserving order. Zero members collapse to `never`, a single
// member is returned directly.
func (s *Store) NewUnion(types ...Index) Index {
	var flat []Index
	seen := make(map[Index]bool, len(types))
	var collect func(ts []Index)
	collect = func(ts []Index) {
		for _, t := range ts {
			if u, ok := s.nodes[t].Kind.(*Union); ok {
				collect(u.Types)
				continue
			}
			if !seen[t] {
				seen[t] = true
				flat = append(flat, t)
			}
		}
	}
	collect(types)

	switch len(flat) {
	case 0:
		return s.NewKeyword(KeywordNever)
	case 1:
		return flat[0]
	}
	return s.Push(&Union{Types: flat})
}

func (s *Store) NewIntersection(types ...Index) Index {
	return s.Push(&Intersection{Types: types})
}

func (s *Store) NewTuple(types ...Index) Index {
	return s.Push(&Tuple{Types: types})
}

func (s *Store) NewObject(elems ...ObjElem) Index {
	return s.Push(&Object{Elems: elems})
}

func (s *Store) NewRest(arg Index) Index {
	return s.Push(&Rest{Arg: arg})
}

func (s *Store) NewKeyOf(t Index) Index {
	return s.Push(&KeyOf{Type: t})
}

func (s *Store) NewIndexedAccess(obj, key Index) Index {
	return s.Push(&IndexedAccess{Obj: obj, Key: key})
}

func (s *Store) NewConditional(check, extends, trueType, falseType Index) Index {
	return s.Push(&Conditional{Check: check, Extends: extends, TrueType: trueType, FalseType: falseType})
}

func (s *Store) NewInfer(name string) Index {
	return s.Push(&Infer{Name: name})
}

func (s *Store) NewWildcard() Index {
	return s.Push(&Wildcard{})
}
