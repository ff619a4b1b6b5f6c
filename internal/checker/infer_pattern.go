package checker

import (
	"github.com/funvibe/structural/internal/ast"
	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

// InferPattern assigns a type to a binding pattern and collects the
// bindings it introduces. The caller unifies the returned pattern type
// against the matched value's type, which flows through to the bindings.
func (c *Checker) InferPattern(pattern ast.Pattern, ctx *symbols.Context) (map[string]symbols.Binding, typesystem.Index, error) {
	assump := make(map[string]symbols.Binding)
	t, err := c.inferPatternRec(pattern, assump, ctx)
	if err != nil {
		return nil, typesystem.NoIndex, err
	}
	return assump, t, nil
}

func (c *Checker) inferPatternRec(pattern ast.Pattern, assump map[string]symbols.Binding, ctx *symbols.Context) (typesystem.Index, error) {
	var t typesystem.Index

	switch pat := pattern.(type) {
	case *ast.IdentPat:
		t = c.Arena.NewVar()
		if _, dup := assump[pat.Name]; dup {
			return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrDuplicateIdent)
		}
		assump[pat.Name] = symbols.Binding{Index: t, Mutable: pat.Mutable}

	case *ast.RestPat:
		argType, err := c.inferPatternRec(pat.Arg, assump, ctx)
		if err != nil {
			return typesystem.NoIndex, err
		}
		t = c.Arena.NewRest(argType)

	case *ast.ObjectPat:
		// {x, y, ...rest} types as {x: A, y: B} & C, with C bound to
		// whatever properties the matched object has beyond x and y.
		restType := typesystem.NoIndex
		var elems []typesystem.ObjElem

		for _, prop := range pat.Props {
			switch prop := prop.(type) {
			case *ast.KeyValuePatProp:
				valueType, err := c.inferPatternRec(prop.Value, assump, ctx)
				if err != nil {
					return typesystem.NoIndex, err
				}
				elems = append(elems, &typesystem.PropElem{Name: prop.Key, Type: valueType})
			case *ast.ShorthandPatProp:
				t := c.Arena.NewVar()
				if _, dup := assump[prop.Key]; dup {
					return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrDuplicateIdent)
				}
				assump[prop.Key] = symbols.Binding{Index: t, Mutable: prop.Mutable}
				elems = append(elems, &typesystem.PropElem{Name: prop.Key, Type: t})
			case *ast.RestPatProp:
				if restType != typesystem.NoIndex {
					return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrMultipleRestInPat)
				}
				var err error
				restType, err = c.inferPatternRec(prop.Value, assump, ctx)
				if err != nil {
					return typesystem.NoIndex, err
				}
			}
		}

		objType := c.Arena.NewObject(elems...)
		if restType != typesystem.NoIndex {
			t = c.Arena.NewIntersection(objType, restType)
		} else {
			t = objType
		}

	case *ast.TuplePat:
		elemTypes := make([]typesystem.Index, len(pat.Elems))
		for i, elem := range pat.Elems {
			if elem == nil {
				elemTypes[i] = c.Arena.NewKeyword(typesystem.KeywordUndefined)
				continue
			}
			et, err := c.inferPatternRec(elem, assump, ctx)
			if err != nil {
				return typesystem.NoIndex, err
			}
			elemTypes[i] = et
		}
		t = c.Arena.NewTuple(elemTypes...)

	case *ast.LitPat:
		t = c.Arena.Push(&typesystem.Literal{Value: pat.Lit})

	case *ast.IsPat:
		switch pat.IsName {
		case "number":
			t = c.Arena.NewPrimitive(typesystem.PrimNumber)
		case "string":
			t = c.Arena.NewPrimitive(typesystem.PrimString)
		case "boolean":
			t = c.Arena.NewPrimitive(typesystem.PrimBoolean)
		default:
			scheme, ok := ctx.Scheme(pat.IsName)
			if !ok {
				return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrUndefinedSymbol, pat.IsName)
			}
			t = scheme.Type
		}
		assump[pat.Name] = symbols.Binding{Index: t, Mutable: false}

	case *ast.WildcardPat:
		t = c.Arena.NewVar()

	default:
		return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrRefutablePattern, "Unknown")
	}

	pattern.SetInferredType(t)
	return t, nil
}

// patternToTPat converts a syntactic parameter pattern to the pattern
// shape carried by function types. Refutable patterns are rejected here:
// a function must accept every value of its parameter type.
func patternToTPat(pattern ast.Pattern) (typesystem.TPat, error) {
	switch pat := pattern.(type) {
	case *ast.IdentPat:
		return &typesystem.TPatIdent{Name: pat.Name, Mutable: pat.Mutable}, nil
	case *ast.RestPat:
		arg, err := patternToTPat(pat.Arg)
		if err != nil {
			return nil, err
		}
		return &typesystem.TPatRest{Arg: arg}, nil
	case *ast.ObjectPat:
		props := make([]typesystem.TPatObjectProp, 0, len(pat.Props))
		for _, prop := range pat.Props {
			switch prop := prop.(type) {
			case *ast.KeyValuePatProp:
				value, err := patternToTPat(prop.Value)
				if err != nil {
					return nil, err
				}
				props = append(props, typesystem.TPatObjectProp{Key: prop.Key, Value: value})
			case *ast.ShorthandPatProp:
				props = append(props, typesystem.TPatObjectProp{Key: prop.Key})
			case *ast.RestPatProp:
				value, err := patternToTPat(prop.Value)
				if err != nil {
					return nil, err
				}
				props = append(props, typesystem.TPatObjectProp{Value: value, Rest: true})
			}
		}
		return &typesystem.TPatObject{Props: props}, nil
	case *ast.TuplePat:
		elems := make([]typesystem.TPat, len(pat.Elems))
		for i, elem := range pat.Elems {
			if elem == nil {
				continue
			}
			e, err := patternToTPat(elem)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return &typesystem.TPatTuple{Elems: elems}, nil
	case *ast.LitPat:
		return nil, diagnostics.NewError(diagnostics.ErrRefutablePattern, "Literal")
	case *ast.IsPat:
		return nil, diagnostics.NewError(diagnostics.ErrRefutablePattern, "'is'")
	case *ast.WildcardPat:
		return nil, diagnostics.NewError(diagnostics.ErrRefutablePattern, "Wildcard")
	}
	return nil, diagnostics.NewError(diagnostics.ErrRefutablePattern, "Unknown")
}
