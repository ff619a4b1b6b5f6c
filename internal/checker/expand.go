package checker

import (
	"sort"
	"strconv"

	"github.com/funvibe/structural/internal/config"
	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

// Expand evaluates deferred type-level computations at t: named type
// references, keyof, indexed access and conditionals. Array and Promise
// stay opaque so their values keep nominal identity.
func (c *Checker) Expand(ctx *symbols.Context, t typesystem.Index) (typesystem.Index, error) {
	t = c.Prune(t)

	switch k := c.Arena.Get(t).Kind.(type) {
	case *typesystem.Constructor:
		if k.Name == config.ArrayTypeName || k.Name == config.PromiseTypeName {
			return t, nil
		}
		scheme, ok := ctx.Scheme(k.Name)
		if !ok {
			// Unknown names stay opaque nominal types. They still unify
			// with themselves through the constructor rule.
			return t, nil
		}
		mapping := make(map[string]typesystem.Index, len(scheme.TypeParams))
		for i, tp := range scheme.TypeParams {
			switch {
			case i < len(k.Types):
				mapping[tp.Name] = k.Types[i]
			case tp.Default != typesystem.NoIndex:
				mapping[tp.Name] = tp.Default
			default:
				mapping[tp.Name] = c.Arena.NewVar()
			}
		}
		return c.Expand(ctx, c.instantiateScheme(scheme.Type, mapping))
	case *typesystem.KeyOf:
		obj, err := c.Expand(ctx, k.Type)
		if err != nil {
			return typesystem.NoIndex, err
		}
		objKind, ok := c.Arena.Get(obj).Kind.(*typesystem.Object)
		if !ok {
			return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrInvalidKey, c.Print(k.Type))
		}
		var keys []typesystem.Index
		for _, elem := range objKind.Elems {
			if prop, ok := elem.(*typesystem.PropElem); ok {
				keys = append(keys, c.Arena.NewStrLit(prop.Name))
			}
		}
		return c.Arena.NewUnion(keys...), nil
	case *typesystem.IndexedAccess:
		prop, err := c.getProp(ctx, k.Obj, k.Key)
		if err != nil {
			return typesystem.NoIndex, err
		}
		return c.Expand(ctx, prop)
	case *typesystem.Conditional:
		if c.Unify(ctx, k.Check, k.Extends) == nil {
			return c.Expand(ctx, k.TrueType)
		}
		return c.Expand(ctx, k.FalseType)
	}
	return t, nil
}

// getProp resolves a property lookup obj[key] for member access, indexed
// access types and tuple indexing.
func (c *Checker) getProp(ctx *symbols.Context, obj, key typesystem.Index) (typesystem.Index, error) {
	obj = c.Prune(obj)
	obj, err := c.Expand(ctx, obj)
	if err != nil {
		return typesystem.NoIndex, err
	}
	key = c.Prune(key)

	switch k := c.Arena.Get(obj).Kind.(type) {
	case *typesystem.Object:
		return c.getObjectProp(ctx, k, key)
	case *typesystem.Tuple:
		return c.getTupleProp(k, key)
	case *typesystem.Constructor:
		if k.Name == config.ArrayTypeName {
			if keyIsNumeric(c.Arena.Get(key).Kind) {
				undefined := c.Arena.NewKeyword(typesystem.KeywordUndefined)
				return c.Arena.NewUnion(k.Types[0], undefined), nil
			}
			return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrInvalidKey, c.Print(key))
		}
	case *typesystem.Union:
		var results []typesystem.Index
		for _, t := range k.Types {
			r, err := c.getProp(ctx, t, key)
			if err != nil {
				return typesystem.NoIndex, err
			}
			results = append(results, r)
		}
		return c.Arena.NewUnion(results...), nil
	}
	return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrInvalidKey, c.Print(key))
}

func keyIsNumeric(k typesystem.TypeKind) bool {
	switch k := k.(type) {
	case *typesystem.Primitive:
		return k.Prim == typesystem.PrimNumber
	case *typesystem.Literal:
		_, ok := k.Value.(typesystem.NumLit)
		return ok
	}
	return false
}

func (c *Checker) getObjectProp(ctx *symbols.Context, obj *typesystem.Object, key typesystem.Index) (typesystem.Index, error) {
	lit, isLit := c.Arena.Get(key).Kind.(*typesystem.Literal)
	if isLit {
		if name, ok := lit.Value.(typesystem.StrLit); ok {
			for _, elem := range obj.Elems {
				prop, isProp := elem.(*typesystem.PropElem)
				if !isProp || prop.Name != name.Value {
					continue
				}
				return c.propType(prop), nil
			}
			// Fall through to an indexer when no named prop matches.
			for _, elem := range obj.Elems {
				mapped, isMapped := elem.(*typesystem.MappedElem)
				if !isMapped {
					continue
				}
				mappedKey := c.instantiateScheme(mapped.Key, map[string]typesystem.Index{mapped.Target: mapped.Source})
				if c.Unify(ctx, key, mappedKey) == nil {
					undefined := c.Arena.NewKeyword(typesystem.KeywordUndefined)
					return c.Arena.NewUnion(mapped.Value, undefined), nil
				}
			}
			return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrPropertyNotFound, name.Value)
		}
	}

	// Non-literal keys only match an indexer.
	for _, elem := range obj.Elems {
		mapped, isMapped := elem.(*typesystem.MappedElem)
		if !isMapped {
			continue
		}
		mappedKey := c.instantiateScheme(mapped.Key, map[string]typesystem.Index{mapped.Target: mapped.Source})
		if c.Unify(ctx, key, mappedKey) == nil {
			undefined := c.Arena.NewKeyword(typesystem.KeywordUndefined)
			return c.Arena.NewUnion(mapped.Value, undefined), nil
		}
	}
	return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrInvalidKey, c.Print(key))
}

func (c *Checker) getTupleProp(tuple *typesystem.Tuple, key typesystem.Index) (typesystem.Index, error) {
	switch k := c.Arena.Get(key).Kind.(type) {
	case *typesystem.Literal:
		num, ok := k.Value.(typesystem.NumLit)
		if !ok {
			return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrInvalidKey, c.Print(key))
		}
		i, err := strconv.Atoi(num.Value)
		if err != nil || i < 0 || i >= len(tuple.Types) {
			return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrTupleOutOfBounds, i, len(tuple.Types))
		}
		return tuple.Types[i], nil
	case *typesystem.Primitive:
		if k.Prim == typesystem.PrimNumber {
			undefined := c.Arena.NewKeyword(typesystem.KeywordUndefined)
			elems := append([]typesystem.Index{}, tuple.Types...)
			elems = append(elems, undefined)
			return c.Arena.NewUnion(elems...), nil
		}
	}
	return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrInvalidKey, c.Print(key))
}

// simplifyIntersection merges the object members of an intersection into
// a single object. A property named by more than one member becomes an
// intersection of the contributed types. Call, construct and mapped
// members are carried through in order.
func (c *Checker) simplifyIntersection(types []typesystem.Index) typesystem.Index {
	var propNames []string
	propTypes := make(map[string][]typesystem.Index)
	var carried []typesystem.ObjElem
	var nonObj []typesystem.Index

	for _, t := range types {
		obj, ok := c.Arena.Get(c.Prune(t)).Kind.(*typesystem.Object)
		if !ok {
			nonObj = append(nonObj, t)
			continue
		}
		for _, elem := range obj.Elems {
			if prop, isProp := elem.(*typesystem.PropElem); isProp {
				if _, seen := propTypes[prop.Name]; !seen {
					propNames = append(propNames, prop.Name)
				}
				dup := false
				for _, existing := range propTypes[prop.Name] {
					if existing == prop.Type {
						dup = true
						break
					}
				}
				if !dup {
					propTypes[prop.Name] = append(propTypes[prop.Name], prop.Type)
				}
				continue
			}
			carried = append(carried, elem)
		}
	}

	sort.Strings(propNames)

	var elems []typesystem.ObjElem
	for _, name := range propNames {
		ts := propTypes[name]
		t := ts[0]
		if len(ts) > 1 {
			t = c.Arena.NewIntersection(ts...)
		}
		elems = append(elems, &typesystem.PropElem{Name: name, Type: t})
	}
	elems = append(elems, carried...)

	out := nonObj
	if len(elems) > 0 {
		out = append(out, c.Arena.NewObject(elems...))
	}
	if len(out) == 1 {
		return out[0]
	}
	return c.Arena.NewIntersection(out...)
}
