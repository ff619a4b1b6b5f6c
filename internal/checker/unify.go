package checker

import (
	"github.com/funvibe/structural/internal/config"
	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

// Unify makes t1 a subtype of t2, binding variables as needed. On failure
// the arena may hold partial bindings; callers that need speculative
// unification (union members, overloads) accept that, matching the
// first-match resolution policy.
func (c *Checker) Unify(ctx *symbols.Context, t1, t2 typesystem.Index) error {
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

	aKind := c.Arena.Get(a).Kind
	bKind := c.Arena.Get(b).Kind

	if _, ok := aKind.(*typesystem.Variable); ok {
		return c.bind(ctx, a, b)
	}
	if _, ok := bKind.(*typesystem.Variable); ok {
		return c.bind(ctx, b, a)
	}

	if _, ok := aKind.(*typesystem.Wildcard); ok {
		return nil
	}
	if _, ok := bKind.(*typesystem.Wildcard); ok {
		return nil
	}

	if kw1, ok := aKind.(*typesystem.Keyword); ok {
		if kw2, ok := bKind.(*typesystem.Keyword); ok {
			if kw1.Word == kw2.Word {
				return nil
			}
			return diagnostics.NewError(diagnostics.ErrTypesNotEqual, c.Print(a), c.Print(b))
		}
	}

	// Everything is assignable to unknown.
	if kw, ok := bKind.(*typesystem.Keyword); ok && kw.Word == typesystem.KeywordUnknown {
		return nil
	}

	if union, ok := aKind.(*typesystem.Union); ok {
		for _, t := range union.Types {
			if err := c.Unify(ctx, t, b); err != nil {
				return err
			}
		}
		return nil
	}
	if union, ok := bKind.(*typesystem.Union); ok {
		for _, t := range union.Types {
			if c.Unify(ctx, a, t) == nil {
				return nil
			}
		}
		return diagnostics.NewError(diagnostics.ErrTypeMismatch, c.Print(a), c.Print(b))
	}

	switch ak := aKind.(type) {
	case *typesystem.Tuple:
		switch bk := bKind.(type) {
		case *typesystem.Tuple:
			return c.unifyTuples(ctx, ak, bk)
		case *typesystem.Constructor:
			if bk.Name == config.ArrayTypeName {
				return c.unifyTupleWithArray(ctx, ak, b, bk)
			}
		case *typesystem.Rest:
			return c.Unify(ctx, a, bk.Arg)
		}
	case *typesystem.Constructor:
		if ak.Name == config.ArrayTypeName {
			switch bk := bKind.(type) {
			case *typesystem.Tuple:
				return c.unifyArrayWithTuple(ctx, a, ak, bk)
			case *typesystem.Rest:
				return c.Unify(ctx, a, bk.Arg)
			}
		}
	case *typesystem.Rest:
		switch bk := bKind.(type) {
		case *typesystem.Constructor:
			if bk.Name == config.ArrayTypeName {
				return c.Unify(ctx, ak.Arg, b)
			}
		case *typesystem.Tuple:
			return c.Unify(ctx, ak.Arg, b)
		}
	}

	switch ak := aKind.(type) {
	case *typesystem.Constructor:
		if bk, ok := bKind.(*typesystem.Constructor); ok {
			if ak.Name != bk.Name || len(ak.Types) != len(bk.Types) {
				return diagnostics.NewError(diagnostics.ErrTypesNotEqual, c.Print(a), c.Print(b))
			}
			// Type arguments are invariant: a Box<5> is not a Box<number>.
			for i := range ak.Types {
				if err := c.Unify(ctx, ak.Types[i], bk.Types[i]); err != nil {
					return err
				}
				if err := c.Unify(ctx, bk.Types[i], ak.Types[i]); err != nil {
					return err
				}
			}
			return nil
		}
	case *typesystem.Function:
		if bk, ok := bKind.(*typesystem.Function); ok {
			return c.unifyFuncs(ctx, a, ak, b, bk)
		}
	case *typesystem.Literal:
		switch bk := bKind.(type) {
		case *typesystem.Literal:
			if ak.Value.Equal(bk.Value) {
				return nil
			}
			return diagnostics.NewError(diagnostics.ErrTypesNotEqual, c.Print(a), c.Print(b))
		case *typesystem.Primitive:
			// Literals widen to their primitive, never the other way.
			if litWidensTo(ak.Value, bk.Prim) {
				return nil
			}
		}
	case *typesystem.Primitive:
		if bk, ok := bKind.(*typesystem.Primitive); ok {
			if ak.Prim == bk.Prim {
				return nil
			}
			return diagnostics.NewError(diagnostics.ErrTypesNotEqual, c.Print(a), c.Print(b))
		}
	case *typesystem.Object:
		switch bk := bKind.(type) {
		case *typesystem.Object:
			return c.unifyObjects(ctx, a, ak, b, bk)
		case *typesystem.Intersection:
			return c.unifyObjectWithIntersection(ctx, a, ak, bk, false)
		}
	case *typesystem.Intersection:
		if bk, ok := bKind.(*typesystem.Object); ok {
			return c.unifyObjectWithIntersection(ctx, b, bk, ak, true)
		}
	}

	return diagnostics.NewError(diagnostics.ErrTypeMismatch, c.Print(a), c.Print(b))
}

func litWidensTo(lit typesystem.Lit, prim typesystem.PrimKind) bool {
	switch lit.(type) {
	case typesystem.NumLit:
		return prim == typesystem.PrimNumber
	case typesystem.StrLit:
		return prim == typesystem.PrimString
	case typesystem.BoolLit:
		return prim == typesystem.PrimBoolean
	}
	return false
}

func (c *Checker) unifyTuples(ctx *symbols.Context, tuple1, tuple2 *typesystem.Tuple) error {
	if len(tuple1.Types) < len(tuple2.Types) {
		// A trailing rest element in tuple1 absorbs the remaining
		// elements of tuple2.
		endsInRest := false
		if n := len(tuple1.Types); n > 0 {
			_, endsInRest = c.Arena.Get(tuple1.Types[n-1]).Kind.(*typesystem.Rest)
		}
		if !endsInRest {
			return diagnostics.NewError(diagnostics.ErrTupleLength, len(tuple2.Types), len(tuple1.Types))
		}
	}

	for i := 0; i < len(tuple1.Types) && i < len(tuple2.Types); i++ {
		p, q := tuple1.Types[i], tuple2.Types[i]
		_, pRest := c.Arena.Get(p).Kind.(*typesystem.Rest)
		_, qRest := c.Arena.Get(q).Kind.(*typesystem.Rest)
		switch {
		case pRest && qRest:
			return diagnostics.NewError(diagnostics.ErrTwoRestElements)
		case pRest:
			restQ := c.Arena.NewTuple(tuple2.Types[i:]...)
			if err := c.Unify(ctx, p, restQ); err != nil {
				return err
			}
		case qRest:
			restP := c.Arena.NewTuple(tuple1.Types[i:]...)
			if err := c.Unify(ctx, restP, q); err != nil {
				return err
			}
		default:
			if err := c.Unify(ctx, p, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// unifyTupleWithArray checks [p0, p1, ...] against Array<q>: every element
// must be a subtype of q. Extra tuple elements beyond any array are fine.
func (c *Checker) unifyTupleWithArray(ctx *symbols.Context, tuple *typesystem.Tuple, b typesystem.Index, array *typesystem.Constructor) error {
	q := array.Types[0]
	for _, p := range tuple.Types {
		switch pk := c.Arena.Get(p).Kind.(type) {
		case *typesystem.Constructor:
			if pk.Name == config.ArrayTypeName {
				if err := c.Unify(ctx, pk.Types[0], q); err != nil {
					return err
				}
				continue
			}
			if err := c.Unify(ctx, p, q); err != nil {
				return err
			}
		case *typesystem.Rest:
			if err := c.Unify(ctx, p, b); err != nil {
				return err
			}
		default:
			if err := c.Unify(ctx, p, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// unifyArrayWithTuple checks Array<p> against [q0, q1, ...]: an array
// element may be absent, so each tuple element sees p | undefined.
func (c *Checker) unifyArrayWithTuple(ctx *symbols.Context, a typesystem.Index, array *typesystem.Constructor, tuple *typesystem.Tuple) error {
	p := array.Types[0]
	for _, q := range tuple.Types {
		if _, ok := c.Arena.Get(q).Kind.(*typesystem.Rest); ok {
			if err := c.Unify(ctx, a, q); err != nil {
				return err
			}
			continue
		}
		undefined := c.Arena.NewKeyword(typesystem.KeywordUndefined)
		pOrUndefined := c.Arena.NewUnion(p, undefined)
		if err := c.Unify(ctx, pOrUndefined, q); err != nil {
			return err
		}
	}
	return nil
}

// findRestParam returns the index of the single rest parameter, or -1.
// More than one is an error.
func (c *Checker) findRestParam(params []typesystem.FuncParam) (int, error) {
	rest := -1
	for i, p := range params {
		if p.IsRest() {
			if rest != -1 {
				return 0, diagnostics.NewError(diagnostics.ErrMultipleRestParams)
			}
			rest = i
		}
	}
	return rest, nil
}

func (c *Checker) unifyFuncs(ctx *symbols.Context, a typesystem.Index, fa *typesystem.Function, b typesystem.Index, fb *typesystem.Function) error {
	funcA, err := c.instantiateFunc(fa, nil)
	if err != nil {
		return err
	}
	funcB, err := c.instantiateFunc(fb, nil)
	if err != nil {
		return err
	}

	paramsA := funcA.Params
	paramsB := funcB.Params
	if len(paramsA) > 0 && paramsA[0].IsSelf() {
		paramsA = paramsA[1:]
	}
	if len(paramsB) > 0 && paramsB[0].IsSelf() {
		paramsB = paramsB[1:]
	}

	restA, err := c.findRestParam(paramsA)
	if err != nil {
		return err
	}
	restB, err := c.findRestParam(paramsB)
	if err != nil {
		return err
	}

	minParamsA := len(paramsA)
	if restA != -1 {
		minParamsA--
	}
	minParamsB := len(paramsB)
	if restB != -1 {
		minParamsB--
	}

	if minParamsA > minParamsB {
		if restB == -1 {
			return diagnostics.NewError(diagnostics.ErrRequiresMoreParams, c.Print(a), c.Print(b))
		}
		// funcA must accept whatever funcB accepts, so params unify in
		// reverse. funcB's rest absorbs funcA's surplus params as a tuple.
		for i := 0; i < minParamsB; i++ {
			if err := c.Unify(ctx, paramsB[i].Type, paramsA[i].Type); err != nil {
				return err
			}
		}

		var remaining []typesystem.Index
		for _, p := range paramsA[minParamsB:] {
			if !p.IsRest() {
				remaining = append(remaining, p.Type)
				continue
			}
			switch pk := c.Arena.Get(p.Type).Kind.(type) {
			case *typesystem.Tuple:
				remaining = append(remaining, pk.Types...)
			case *typesystem.Constructor:
				if pk.Name != config.ArrayTypeName {
					return diagnostics.NewError(diagnostics.ErrBadRestParamType, c.Print(p.Type))
				}
				remaining = append(remaining, c.Arena.NewRest(p.Type))
			default:
				return diagnostics.NewError(diagnostics.ErrBadRestParamType, c.Print(p.Type))
			}
		}
		remainingTuple := c.Arena.NewTuple(remaining...)
		if err := c.Unify(ctx, paramsB[restB].Type, remainingTuple); err != nil {
			return err
		}
		return c.Unify(ctx, funcA.Ret, funcB.Ret)
	}

	for i := 0; i < minParamsA; i++ {
		if err := c.Unify(ctx, paramsB[i].Type, paramsA[i].Type); err != nil {
			return err
		}
	}

	if restA != -1 {
		for i := minParamsA; i < minParamsB; i++ {
			if err := c.Unify(ctx, paramsB[i].Type, paramsA[restA].Type); err != nil {
				return err
			}
		}
		if restB != -1 {
			if err := c.Unify(ctx, paramsB[restB].Type, paramsA[restA].Type); err != nil {
				return err
			}
		}
	}

	if err := c.Unify(ctx, funcA.Ret, funcB.Ret); err != nil {
		return err
	}

	throwsA := funcA.Throws
	if throwsA == typesystem.NoIndex {
		throwsA = c.Arena.NewKeyword(typesystem.KeywordNever)
	}
	throwsB := funcB.Throws
	if throwsB == typesystem.NoIndex {
		throwsB = c.Arena.NewKeyword(typesystem.KeywordNever)
	}
	return c.Unify(ctx, throwsA, throwsB)
}

// propType is the type a property reads as: optional props include
// undefined.
func (c *Checker) propType(prop *typesystem.PropElem) typesystem.Index {
	if !prop.Optional {
		return prop.Type
	}
	undefined := c.Arena.NewKeyword(typesystem.KeywordUndefined)
	return c.Arena.NewUnion(prop.Type, undefined)
}

func namedProps(elems []typesystem.ObjElem) map[string]*typesystem.PropElem {
	props := make(map[string]*typesystem.PropElem)
	for _, elem := range elems {
		if prop, ok := elem.(*typesystem.PropElem); ok {
			props[prop.Name] = prop
		}
	}
	return props
}

func mappedElems(elems []typesystem.ObjElem) []*typesystem.MappedElem {
	var mapped []*typesystem.MappedElem
	for _, elem := range elems {
		if m, ok := elem.(*typesystem.MappedElem); ok {
			mapped = append(mapped, m)
		}
	}
	return mapped
}

// unifyObjects checks width subtyping: object1 must have at least the
// properties of object2, each a subtype of object2's.
func (c *Checker) unifyObjects(ctx *symbols.Context, a typesystem.Index, object1 *typesystem.Object, b typesystem.Index, object2 *typesystem.Object) error {
	props1 := namedProps(object1.Elems)

	for _, elem := range object2.Elems {
		prop2, ok := elem.(*typesystem.PropElem)
		if !ok {
			continue
		}
		prop1, ok := props1[prop2.Name]
		if !ok {
			return diagnostics.NewError(diagnostics.ErrMissingProperty, prop2.Name, c.Print(a))
		}
		if err := c.Unify(ctx, c.propType(prop1), c.propType(prop2)); err != nil {
			return err
		}
	}

	mapped1 := mappedElems(object1.Elems)
	mapped2 := mappedElems(object2.Elems)

	switch len(mapped2) {
	case 0:
	case 1:
		switch len(mapped1) {
		case 0:
			// object2's indexer makes lookups optional, so every named
			// prop of object1 must fit value | undefined.
			for _, prop1 := range props1 {
				undefined := c.Arena.NewKeyword(typesystem.KeywordUndefined)
				t2 := c.Arena.NewUnion(mapped2[0].Value, undefined)
				if err := c.Unify(ctx, c.propType(prop1), t2); err != nil {
					return err
				}
			}
		case 1:
			if err := c.Unify(ctx, mapped1[0].Value, mapped2[0].Value); err != nil {
				return err
			}
			// Keys unify reversed: object1 must accept at least the keys
			// object2 accepts. Each side's key scheme is instantiated
			// with its own source first.
			key1 := c.instantiateScheme(mapped1[0].Key, map[string]typesystem.Index{mapped1[0].Target: mapped1[0].Source})
			key2 := c.instantiateScheme(mapped2[0].Key, map[string]typesystem.Index{mapped2[0].Target: mapped2[0].Source})
			if err := c.Unify(ctx, key2, key1); err != nil {
				return err
			}
		default:
			return diagnostics.NewError(diagnostics.ErrMultipleIndexers, c.Print(a))
		}
	default:
		return diagnostics.NewError(diagnostics.ErrMultipleIndexers, c.Print(b))
	}

	return nil
}

// unifyObjectWithIntersection reconciles an object against an
// intersection of object parts plus at most one row variable. Named props
// claimed by the object parts unify structurally; the leftovers become a
// fresh object bound to the row variable. reversed flips the subtype
// direction for the intersection-on-the-left case.
func (c *Checker) unifyObjectWithIntersection(ctx *symbols.Context, objIdx typesystem.Index, object *typesystem.Object, intersection *typesystem.Intersection, reversed bool) error {
	var objTypes, restTypes []typesystem.Index
	for _, t := range intersection.Types {
		switch c.Arena.Get(c.Prune(t)).Kind.(type) {
		case *typesystem.Object:
			objTypes = append(objTypes, t)
		case *typesystem.Variable:
			restTypes = append(restTypes, t)
		}
	}

	objType := c.simplifyIntersection(objTypes)

	switch len(restTypes) {
	case 0:
		if reversed {
			return c.Unify(ctx, objType, objIdx)
		}
		return c.Unify(ctx, objIdx, objType)
	case 1:
		var allElems []typesystem.ObjElem
		if obj, ok := c.Arena.Get(c.Prune(objType)).Kind.(*typesystem.Object); ok {
			allElems = obj.Elems
		}
		claimed := namedProps(allElems)

		var objElems, restElems []typesystem.ObjElem
		for _, elem := range object.Elems {
			prop, ok := elem.(*typesystem.PropElem)
			if ok {
				if _, found := claimed[prop.Name]; found {
					objElems = append(objElems, elem)
					continue
				}
			}
			restElems = append(restElems, elem)
		}

		newObjType := c.Arena.NewObject(objElems...)
		newRestType := c.Arena.NewObject(restElems...)
		if reversed {
			if err := c.Unify(ctx, objType, newObjType); err != nil {
				return err
			}
			return c.Unify(ctx, restTypes[0], newRestType)
		}
		if err := c.Unify(ctx, newObjType, objType); err != nil {
			return err
		}
		return c.Unify(ctx, newRestType, restTypes[0])
	default:
		return diagnostics.NewError(diagnostics.ErrUndecidable)
	}
}

// bind points the unbound variable a at b, after the occurs check. A
// constraint on a is checked against b immediately.
func (c *Checker) bind(ctx *symbols.Context, a, b typesystem.Index) error {
	if a == b {
		return nil
	}
	if c.occursInType(a, b) {
		return diagnostics.NewError(diagnostics.ErrRecursiveUnify)
	}
	v, ok := c.Arena.Get(a).Kind.(*typesystem.Variable)
	if !ok {
		return diagnostics.NewError(diagnostics.ErrTypeMismatch, c.Print(a), c.Print(b))
	}
	constraint := v.Constraint
	c.Arena.SetInstance(a, b)
	if constraint != typesystem.NoIndex {
		return c.Unify(ctx, b, constraint)
	}
	return nil
}
