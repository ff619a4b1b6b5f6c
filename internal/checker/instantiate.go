package checker

import (
	"github.com/funvibe/structural/internal/typesystem"
)

// instantiateScheme copies the graph rooted at t, replacing zero-argument
// constructor references whose name appears in mapping. Nodes that
// contain no replaced reference are shared, not copied, so repeated
// instantiation stays cheap.
func (c *Checker) instantiateScheme(t typesystem.Index, mapping map[string]typesystem.Index) typesystem.Index {
	memo := make(map[typesystem.Index]typesystem.Index)
	return c.substituteNames(t, mapping, memo)
}

func (c *Checker) substituteNames(t typesystem.Index, mapping map[string]typesystem.Index, memo map[typesystem.Index]typesystem.Index) typesystem.Index {
	t = c.Prune(t)
	if r, ok := memo[t]; ok {
		return r
	}
	// Self references resolve to the original node until a replacement
	// is decided, which keeps recursive types from looping.
	memo[t] = t

	sub := func(i typesystem.Index) typesystem.Index {
		if i == typesystem.NoIndex {
			return typesystem.NoIndex
		}
		return c.substituteNames(i, mapping, memo)
	}
	subList := func(ts []typesystem.Index) ([]typesystem.Index, bool) {
		changed := false
		out := make([]typesystem.Index, len(ts))
		for i, x := range ts {
			out[i] = sub(x)
			if out[i] != c.Prune(x) {
				changed = true
			}
		}
		return out, changed
	}
	subParams := func(params []typesystem.FuncParam) ([]typesystem.FuncParam, bool) {
		changed := false
		out := make([]typesystem.FuncParam, len(params))
		for i, p := range params {
			out[i] = p
			out[i].Type = sub(p.Type)
			if out[i].Type != c.Prune(p.Type) {
				changed = true
			}
		}
		return out, changed
	}

	result := t
	switch k := c.Arena.Get(t).Kind.(type) {
	case *typesystem.Constructor:
		if len(k.Types) == 0 {
			if r, ok := mapping[k.Name]; ok {
				result = r
				break
			}
		}
		if types, changed := subList(k.Types); changed {
			result = c.Arena.NewConstructor(k.Name, types...)
		}
	case *typesystem.Function:
		params, pc := subParams(k.Params)
		ret := sub(k.Ret)
		throws := sub(k.Throws)
		tps := make([]typesystem.TypeParam, len(k.TypeParams))
		tc := false
		for i, tp := range k.TypeParams {
			tps[i] = tp
			tps[i].Constraint = sub(tp.Constraint)
			tps[i].Default = sub(tp.Default)
			if tps[i] != tp {
				tc = true
			}
		}
		if pc || tc || ret != c.Prune(k.Ret) || (k.Throws != typesystem.NoIndex && throws != c.Prune(k.Throws)) {
			result = c.Arena.NewFunc(params, ret, tps, throws)
		}
	case *typesystem.Union:
		if types, changed := subList(k.Types); changed {
			result = c.Arena.Push(&typesystem.Union{Types: types})
		}
	case *typesystem.Intersection:
		if types, changed := subList(k.Types); changed {
			result = c.Arena.NewIntersection(types...)
		}
	case *typesystem.Tuple:
		if types, changed := subList(k.Types); changed {
			result = c.Arena.NewTuple(types...)
		}
	case *typesystem.Object:
		changed := false
		elems := make([]typesystem.ObjElem, len(k.Elems))
		for i, elem := range k.Elems {
			switch elem := elem.(type) {
			case *typesystem.PropElem:
				t := sub(elem.Type)
				if t != c.Prune(elem.Type) {
					changed = true
				}
				elems[i] = &typesystem.PropElem{Name: elem.Name, Optional: elem.Optional, Mutable: elem.Mutable, Type: t}
			case *typesystem.CallElem:
				fn, fc := c.substituteCallable(elem.Fn, mapping, memo)
				changed = changed || fc
				elems[i] = &typesystem.CallElem{Fn: fn}
			case *typesystem.ConstructorElem:
				fn, fc := c.substituteCallable(elem.Fn, mapping, memo)
				changed = changed || fc
				elems[i] = &typesystem.ConstructorElem{Fn: fn}
			case *typesystem.MappedElem:
				source := sub(elem.Source)
				key := sub(elem.Key)
				value := sub(elem.Value)
				if source != c.Prune(elem.Source) || key != c.Prune(elem.Key) || value != c.Prune(elem.Value) {
					changed = true
				}
				elems[i] = &typesystem.MappedElem{Target: elem.Target, Source: source, Key: key, Value: value}
			}
		}
		if changed {
			result = c.Arena.NewObject(elems...)
		}
	case *typesystem.Rest:
		if arg := sub(k.Arg); arg != c.Prune(k.Arg) {
			result = c.Arena.NewRest(arg)
		}
	case *typesystem.KeyOf:
		if inner := sub(k.Type); inner != c.Prune(k.Type) {
			result = c.Arena.NewKeyOf(inner)
		}
	case *typesystem.IndexedAccess:
		obj, key := sub(k.Obj), sub(k.Key)
		if obj != c.Prune(k.Obj) || key != c.Prune(k.Key) {
			result = c.Arena.NewIndexedAccess(obj, key)
		}
	case *typesystem.Conditional:
		check, extends := sub(k.Check), sub(k.Extends)
		trueType, falseType := sub(k.TrueType), sub(k.FalseType)
		if check != c.Prune(k.Check) || extends != c.Prune(k.Extends) ||
			trueType != c.Prune(k.TrueType) || falseType != c.Prune(k.FalseType) {
			result = c.Arena.NewConditional(check, extends, trueType, falseType)
		}
	}

	memo[t] = result
	return result
}

func (c *Checker) substituteCallable(fn typesystem.Callable, mapping map[string]typesystem.Index, memo map[typesystem.Index]typesystem.Index) (typesystem.Callable, bool) {
	changed := false
	params := make([]typesystem.FuncParam, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p
		params[i].Type = c.substituteNames(p.Type, mapping, memo)
		if params[i].Type != c.Prune(p.Type) {
			changed = true
		}
	}
	ret := c.substituteNames(fn.Ret, mapping, memo)
	if ret != c.Prune(fn.Ret) {
		changed = true
	}
	return typesystem.Callable{Params: params, Ret: ret, TypeParams: fn.TypeParams}, changed
}

// instantiateFunc replaces a generic function's type parameters with
// fresh variables (or the given explicit type arguments), producing a
// monomorphic copy for one use site. Each call site instantiates
// independently, so one use can never leak bindings into another.
func (c *Checker) instantiateFunc(fn *typesystem.Function, typeArgs []typesystem.Index) (*typesystem.Function, error) {
	if len(fn.TypeParams) == 0 {
		return fn, nil
	}

	mapping := make(map[string]typesystem.Index, len(fn.TypeParams))
	fresh := make([]typesystem.Index, len(fn.TypeParams))
	for i, tp := range fn.TypeParams {
		switch {
		case i < len(typeArgs):
			fresh[i] = typeArgs[i]
		case tp.Default != typesystem.NoIndex:
			fresh[i] = tp.Default
		default:
			fresh[i] = c.Arena.NewVar()
		}
		mapping[tp.Name] = fresh[i]
	}

	// Constraints may reference sibling type params, so they are only
	// substituted once the whole mapping exists.
	for i, tp := range fn.TypeParams {
		if tp.Constraint == typesystem.NoIndex {
			continue
		}
		constraint := c.instantiateScheme(tp.Constraint, mapping)
		if _, ok := c.Arena.Get(c.Prune(fresh[i])).Kind.(*typesystem.Variable); ok {
			c.Arena.SetVarConstraint(c.Prune(fresh[i]), constraint)
		}
	}

	params := make([]typesystem.FuncParam, len(fn.Params))
	memo := make(map[typesystem.Index]typesystem.Index)
	for i, p := range fn.Params {
		params[i] = p
		params[i].Type = c.substituteNames(p.Type, mapping, memo)
	}
	ret := c.substituteNames(fn.Ret, mapping, memo)
	throws := typesystem.NoIndex
	if fn.Throws != typesystem.NoIndex {
		throws = c.substituteNames(fn.Throws, mapping, memo)
	}

	return &typesystem.Function{Params: params, Ret: ret, Throws: throws}, nil
}

// generalizeFunc closes a function type over its unbound variables,
// turning each into a named type parameter (A, B, C, ...). Called when a
// declaration binds a lambda, so later calls instantiate fresh copies.
func (c *Checker) generalizeFunc(t typesystem.Index) typesystem.Index {
	t = c.Prune(t)
	fn, ok := c.Arena.Get(t).Kind.(*typesystem.Function)
	if !ok {
		return t
	}
	if len(fn.TypeParams) > 0 {
		return t
	}

	var order []typesystem.Index
	seen := make(map[typesystem.Index]bool)
	var collect func(i typesystem.Index)
	collect = func(i typesystem.Index) {
		i = c.Prune(i)
		if seen[i] {
			return
		}
		seen[i] = true
		if _, isVar := c.Arena.Get(i).Kind.(*typesystem.Variable); isVar {
			order = append(order, i)
			return
		}
		for _, child := range typesystem.ChildIndices(c.Arena.Get(i).Kind) {
			collect(child)
		}
	}
	collect(t)

	if len(order) == 0 {
		return t
	}

	namer := typesystem.NewNamer()
	typeParams := make([]typesystem.TypeParam, len(order))
	replacements := make(map[typesystem.Index]typesystem.Index, len(order))
	for i, v := range order {
		name := namer.Name(v)
		typeParams[i] = typesystem.TypeParam{Name: name, Constraint: typesystem.NoIndex, Default: typesystem.NoIndex}
		replacements[v] = c.Arena.NewConstructor(name)
	}

	memo := make(map[typesystem.Index]typesystem.Index)
	params := make([]typesystem.FuncParam, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p
		params[i].Type = c.substituteVars(p.Type, replacements, memo)
	}
	ret := c.substituteVars(fn.Ret, replacements, memo)
	throws := typesystem.NoIndex
	if fn.Throws != typesystem.NoIndex {
		throws = c.substituteVars(fn.Throws, replacements, memo)
	}

	return c.Arena.NewFunc(params, ret, typeParams, throws)
}

// substituteVars is substituteNames keyed by variable index instead of
// constructor name.
func (c *Checker) substituteVars(t typesystem.Index, replacements map[typesystem.Index]typesystem.Index, memo map[typesystem.Index]typesystem.Index) typesystem.Index {
	t = c.Prune(t)
	if r, ok := replacements[t]; ok {
		return r
	}
	if r, ok := memo[t]; ok {
		return r
	}
	memo[t] = t

	sub := func(i typesystem.Index) typesystem.Index {
		if i == typesystem.NoIndex {
			return typesystem.NoIndex
		}
		return c.substituteVars(i, replacements, memo)
	}

	result := t
	switch k := c.Arena.Get(t).Kind.(type) {
	case *typesystem.Constructor:
		types := make([]typesystem.Index, len(k.Types))
		changed := false
		for i, x := range k.Types {
			types[i] = sub(x)
			if types[i] != c.Prune(x) {
				changed = true
			}
		}
		if changed {
			result = c.Arena.NewConstructor(k.Name, types...)
		}
	case *typesystem.Function:
		params := make([]typesystem.FuncParam, len(k.Params))
		changed := false
		for i, p := range k.Params {
			params[i] = p
			params[i].Type = sub(p.Type)
			if params[i].Type != c.Prune(p.Type) {
				changed = true
			}
		}
		ret := sub(k.Ret)
		throws := sub(k.Throws)
		if changed || ret != c.Prune(k.Ret) || (k.Throws != typesystem.NoIndex && throws != c.Prune(k.Throws)) {
			result = c.Arena.NewFunc(params, ret, k.TypeParams, throws)
		}
	case *typesystem.Union:
		types := make([]typesystem.Index, len(k.Types))
		changed := false
		for i, x := range k.Types {
			types[i] = sub(x)
			if types[i] != c.Prune(x) {
				changed = true
			}
		}
		if changed {
			result = c.Arena.Push(&typesystem.Union{Types: types})
		}
	case *typesystem.Intersection:
		types := make([]typesystem.Index, len(k.Types))
		changed := false
		for i, x := range k.Types {
			types[i] = sub(x)
			if types[i] != c.Prune(x) {
				changed = true
			}
		}
		if changed {
			result = c.Arena.NewIntersection(types...)
		}
	case *typesystem.Tuple:
		types := make([]typesystem.Index, len(k.Types))
		changed := false
		for i, x := range k.Types {
			types[i] = sub(x)
			if types[i] != c.Prune(x) {
				changed = true
			}
		}
		if changed {
			result = c.Arena.NewTuple(types...)
		}
	case *typesystem.Object:
		elems := make([]typesystem.ObjElem, len(k.Elems))
		changed := false
		for i, elem := range k.Elems {
			elems[i] = elem
			if prop, ok := elem.(*typesystem.PropElem); ok {
				t := sub(prop.Type)
				if t != c.Prune(prop.Type) {
					changed = true
					elems[i] = &typesystem.PropElem{Name: prop.Name, Optional: prop.Optional, Mutable: prop.Mutable, Type: t}
				}
			}
		}
		if changed {
			result = c.Arena.NewObject(elems...)
		}
	case *typesystem.Rest:
		if arg := sub(k.Arg); arg != c.Prune(k.Arg) {
			result = c.Arena.NewRest(arg)
		}
	}

	memo[t] = result
	return result
}
