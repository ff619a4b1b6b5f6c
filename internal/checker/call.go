package checker

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/structural/internal/ast"
	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

// UnifyCall infers and checks a call site: it unifies the argument types
// against the callee's parameters and returns the call's result type plus
// the thrown type (NoIndex when the callee cannot throw).
//
// An unbound variable as callee is constrained to a fresh function type,
// a union callee returns the union of per-member results, and an
// intersection callee resolves overloads by first match.
func (c *Checker) UnifyCall(ctx *symbols.Context, args []ast.Expression, typeArgs []typesystem.Index, t2 typesystem.Index) (typesystem.Index, typesystem.Index, error) {
	retType := c.Arena.NewVar()
	throwsType := typesystem.NoIndex

	b := c.Prune(t2)

	switch bk := c.Arena.Get(b).Kind.(type) {
	case *typesystem.Variable:
		argTypes := make([]typesystem.Index, len(args))
		for i, arg := range args {
			t, err := c.InferExpression(arg, ctx)
			if err != nil {
				return typesystem.NoIndex, typesystem.NoIndex, err
			}
			argTypes[i] = t
		}
		callType := c.Arena.NewFunc(typesystem.ParamsFromTypes(argTypes...), retType, nil, typesystem.NoIndex)
		if err := c.bind(ctx, b, callType); err != nil {
			return typesystem.NoIndex, typesystem.NoIndex, err
		}

	case *typesystem.Union:
		seenRets := set.New[typesystem.Index](len(bk.Types))
		seenThrows := set.New[typesystem.Index](len(bk.Types))
		var retTypes, throwsTypes []typesystem.Index
		for _, t := range bk.Types {
			ret, throws, err := c.UnifyCall(ctx, args, typeArgs, t)
			if err != nil {
				return typesystem.NoIndex, typesystem.NoIndex, err
			}
			if !seenRets.Contains(ret) {
				seenRets.Insert(ret)
				retTypes = append(retTypes, ret)
			}
			if throws != typesystem.NoIndex && !seenThrows.Contains(throws) {
				seenThrows.Insert(throws)
				throwsTypes = append(throwsTypes, throws)
			}
		}
		ret := c.Arena.NewUnion(retTypes...)
		throws := typesystem.NoIndex
		if len(throwsTypes) > 0 {
			throws = c.Arena.NewUnion(throwsTypes...)
			if kw, ok := c.Arena.Get(throws).Kind.(*typesystem.Keyword); ok && kw.Word == typesystem.KeywordNever {
				throws = typesystem.NoIndex
			}
		}
		return ret, throws, nil

	case *typesystem.Intersection:
		for _, t := range bk.Types {
			ret, throws, err := c.UnifyCall(ctx, args, typeArgs, t)
			if err == nil {
				return ret, throws, nil
			}
		}
		return typesystem.NoIndex, typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrNoValidOverload)

	case *typesystem.Constructor:
		scheme, ok := ctx.Scheme(bk.Name)
		if !ok {
			return typesystem.NoIndex, typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrUndefinedSymbol, bk.Name)
		}
		mapping := make(map[string]typesystem.Index, len(scheme.TypeParams))
		for i, tp := range scheme.TypeParams {
			if i < len(bk.Types) {
				mapping[tp.Name] = bk.Types[i]
			}
		}
		t := c.instantiateScheme(scheme.Type, mapping)
		forwarded := typeArgs
		if len(bk.Types) > 0 {
			forwarded = bk.Types
		}
		return c.UnifyCall(ctx, args, forwarded, t)

	case *typesystem.Function:
		fn := bk
		if len(bk.TypeParams) > 0 {
			var err error
			fn, err = c.instantiateFunc(bk, typeArgs)
			if err != nil {
				return typesystem.NoIndex, typesystem.NoIndex, err
			}
		}

		required := 0
		for _, p := range fn.Params {
			if !p.Optional && !p.IsRest() {
				required++
			}
		}
		if len(args) < required {
			return typesystem.NoIndex, typesystem.NoIndex,
				diagnostics.NewError(diagnostics.ErrTooFewArguments, required, len(args))
		}

		argTypes := make([]typesystem.Index, len(args))
		for i, arg := range args {
			t, err := c.InferExpression(arg, ctx)
			if err != nil {
				return typesystem.NoIndex, typesystem.NoIndex, err
			}
			argTypes[i] = t
		}

		for i, param := range fn.Params {
			if i >= len(args) {
				break
			}
			mut, err := c.checkMutability(ctx, param.Pattern, args[i])
			if err != nil {
				return typesystem.NoIndex, typesystem.NoIndex, err
			}
			if mut {
				err = c.UnifyMut(ctx, argTypes[i], param.Type)
			} else {
				err = c.Unify(ctx, argTypes[i], param.Type)
			}
			if err != nil {
				return typesystem.NoIndex, typesystem.NoIndex, err
			}
		}

		if err := c.Unify(ctx, retType, fn.Ret); err != nil {
			return typesystem.NoIndex, typesystem.NoIndex, err
		}

		if fn.Throws != typesystem.NoIndex {
			tv := c.Arena.NewVar()
			if err := c.Unify(ctx, tv, fn.Throws); err != nil {
				return typesystem.NoIndex, typesystem.NoIndex, err
			}
			tv = c.Prune(tv)
			if kw, ok := c.Arena.Get(tv).Kind.(*typesystem.Keyword); !ok || kw.Word != typesystem.KeywordNever {
				throwsType = tv
			}
		}

	case *typesystem.IndexedAccess:
		t, err := c.getProp(ctx, bk.Obj, bk.Key)
		if err != nil {
			return typesystem.NoIndex, typesystem.NoIndex, err
		}
		return c.UnifyCall(ctx, args, typeArgs, t)

	case *typesystem.Conditional:
		if c.Unify(ctx, bk.Check, bk.Extends) == nil {
			return c.UnifyCall(ctx, args, typeArgs, bk.TrueType)
		}
		return c.UnifyCall(ctx, args, typeArgs, bk.FalseType)

	default:
		return typesystem.NoIndex, typesystem.NoIndex,
			diagnostics.NewError(diagnostics.ErrNotCallable, c.calleeShape(b))
	}

	return c.Prune(retType), throwsType, nil
}

// calleeShape describes a non-callable callee for the error message.
func (c *Checker) calleeShape(t typesystem.Index) string {
	switch k := c.Arena.Get(t).Kind.(type) {
	case *typesystem.Tuple:
		return "tuple"
	case *typesystem.Literal:
		return "literal " + k.Value.String()
	case *typesystem.Primitive:
		return "primitive " + k.Prim.String()
	case *typesystem.Keyword:
		return k.Word.String()
	case *typesystem.Object:
		return "object"
	case *typesystem.Rest:
		return "rest"
	case *typesystem.KeyOf:
		return "keyof " + c.Print(k.Type)
	case *typesystem.Infer:
		return "infer " + k.Name
	case *typesystem.Wildcard:
		return "_"
	}
	return c.Print(t)
}
