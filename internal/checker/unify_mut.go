package checker

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

// UnifyMut checks that t1 and t2 are exactly the same type. Mutable
// bindings are invariant: where Unify allows widening and width
// subtyping, UnifyMut allows nothing.
func (c *Checker) UnifyMut(ctx *symbols.Context, t1, t2 typesystem.Index) error {
	a := c.Prune(t1)
	b := c.Prune(t2)

	a, err := c.Expand(ctx, a)
	if err != nil {
		return err
	}
	b, err = c.Expand(ctx, b)
	if err != nil {
		return err
	}

	if c.equals(a, b) {
		return nil
	}
	return diagnostics.NewError(diagnostics.ErrMutUnifyMismatch, c.Print(a), c.Print(b))
}

type indexPair struct {
	a, b typesystem.Index
}

// equals is structural equality over pruned nodes. The visited set breaks
// cycles through recursive types.
func (c *Checker) equals(a, b typesystem.Index) bool {
	visited := set.New[indexPair](8)
	return c.equalsRec(a, b, visited)
}

func (c *Checker) equalsRec(a, b typesystem.Index, visited *set.Set[indexPair]) bool {
	a = c.Prune(a)
	b = c.Prune(b)
	if a == b {
		return true
	}
	pair := indexPair{a: a, b: b}
	if visited.Contains(pair) {
		return true
	}
	visited.Insert(pair)

	eq := func(x, y typesystem.Index) bool {
		return c.equalsRec(x, y, visited)
	}
	eqOpt := func(x, y typesystem.Index) bool {
		if x == typesystem.NoIndex || y == typesystem.NoIndex {
			return x == y
		}
		return eq(x, y)
	}
	eqList := func(xs, ys []typesystem.Index) bool {
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !eq(xs[i], ys[i]) {
				return false
			}
		}
		return true
	}
	eqParams := func(ps, qs []typesystem.FuncParam) bool {
		if len(ps) != len(qs) {
			return false
		}
		for i := range ps {
			if ps[i].Optional != qs[i].Optional || ps[i].IsRest() != qs[i].IsRest() {
				return false
			}
			if !eq(ps[i].Type, qs[i].Type) {
				return false
			}
		}
		return true
	}
	eqTypeParams := func(ps, qs []typesystem.TypeParam) bool {
		if len(ps) != len(qs) {
			return false
		}
		for i := range ps {
			if ps[i].Name != qs[i].Name {
				return false
			}
			if !eqOpt(ps[i].Constraint, qs[i].Constraint) || !eqOpt(ps[i].Default, qs[i].Default) {
				return false
			}
		}
		return true
	}

	switch ak := c.Arena.Get(a).Kind.(type) {
	case *typesystem.Variable:
		// Two distinct unbound variables are never equal.
		return false
	case *typesystem.Constructor:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Constructor)
		return ok && ak.Name == bk.Name && eqList(ak.Types, bk.Types)
	case *typesystem.Literal:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Literal)
		return ok && ak.Value.Equal(bk.Value)
	case *typesystem.Primitive:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Primitive)
		return ok && ak.Prim == bk.Prim
	case *typesystem.Keyword:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Keyword)
		return ok && ak.Word == bk.Word
	case *typesystem.Function:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Function)
		return ok &&
			eqParams(ak.Params, bk.Params) &&
			eq(ak.Ret, bk.Ret) &&
			eqTypeParams(ak.TypeParams, bk.TypeParams) &&
			eqOpt(ak.Throws, bk.Throws)
	case *typesystem.Union:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Union)
		return ok && eqList(ak.Types, bk.Types)
	case *typesystem.Intersection:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Intersection)
		return ok && eqList(ak.Types, bk.Types)
	case *typesystem.Tuple:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Tuple)
		return ok && eqList(ak.Types, bk.Types)
	case *typesystem.Object:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Object)
		if !ok || len(ak.Elems) != len(bk.Elems) {
			return false
		}
		for i := range ak.Elems {
			if !c.objElemEquals(ak.Elems[i], bk.Elems[i], visited) {
				return false
			}
		}
		return true
	case *typesystem.Rest:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Rest)
		return ok && eq(ak.Arg, bk.Arg)
	case *typesystem.KeyOf:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.KeyOf)
		return ok && eq(ak.Type, bk.Type)
	case *typesystem.IndexedAccess:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.IndexedAccess)
		return ok && eq(ak.Obj, bk.Obj) && eq(ak.Key, bk.Key)
	case *typesystem.Conditional:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Conditional)
		return ok && eq(ak.Check, bk.Check) && eq(ak.Extends, bk.Extends) &&
			eq(ak.TrueType, bk.TrueType) && eq(ak.FalseType, bk.FalseType)
	case *typesystem.Infer:
		bk, ok := c.Arena.Get(b).Kind.(*typesystem.Infer)
		return ok && ak.Name == bk.Name
	case *typesystem.Wildcard:
		_, ok := c.Arena.Get(b).Kind.(*typesystem.Wildcard)
		return ok
	}
	return false
}

func (c *Checker) objElemEquals(a, b typesystem.ObjElem, visited *set.Set[indexPair]) bool {
	switch ae := a.(type) {
	case *typesystem.PropElem:
		be, ok := b.(*typesystem.PropElem)
		return ok && ae.Name == be.Name && ae.Optional == be.Optional &&
			ae.Mutable == be.Mutable && c.equalsRec(ae.Type, be.Type, visited)
	case *typesystem.CallElem:
		be, ok := b.(*typesystem.CallElem)
		return ok && c.callableEquals(ae.Fn, be.Fn, visited)
	case *typesystem.ConstructorElem:
		be, ok := b.(*typesystem.ConstructorElem)
		return ok && c.callableEquals(ae.Fn, be.Fn, visited)
	case *typesystem.MappedElem:
		be, ok := b.(*typesystem.MappedElem)
		return ok && ae.Target == be.Target &&
			c.equalsRec(ae.Source, be.Source, visited) &&
			c.equalsRec(ae.Key, be.Key, visited) &&
			c.equalsRec(ae.Value, be.Value, visited)
	}
	return false
}

func (c *Checker) callableEquals(a, b typesystem.Callable, visited *set.Set[indexPair]) bool {
	if len(a.Params) != len(b.Params) || len(a.TypeParams) != len(b.TypeParams) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Optional != b.Params[i].Optional {
			return false
		}
		if !c.equalsRec(a.Params[i].Type, b.Params[i].Type, visited) {
			return false
		}
	}
	return c.equalsRec(a.Ret, b.Ret, visited)
}
