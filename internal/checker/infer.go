package checker

import (
	"fmt"

	"github.com/funvibe/structural/internal/ast"
	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

// InferExpression infers the type of expr in ctx and records it on the
// node's inferred-type slot.
func (c *Checker) InferExpression(expr ast.Expression, ctx *symbols.Context) (typesystem.Index, error) {
	var t typesystem.Index
	var err error

	switch e := expr.(type) {
	case *ast.NumberLit:
		t = c.Arena.NewNumLit(e.Value)
	case *ast.StringLit:
		t = c.Arena.NewStrLit(e.Value)
	case *ast.BooleanLit:
		t = c.Arena.NewBoolLit(e.Value)
	case *ast.Ident:
		binding, ok := ctx.Lookup(e.Name)
		if !ok {
			return typesystem.NoIndex, diagnostics.NewError(diagnostics.ErrUndefinedSymbol, e.Name)
		}
		t = binding.Index
	case *ast.Lambda:
		t, err = c.inferLambda(e, ctx)
	case *ast.Call:
		var callee typesystem.Index
		callee, err = c.InferExpression(e.Callee, ctx)
		if err != nil {
			return typesystem.NoIndex, err
		}
		t, _, err = c.UnifyCall(ctx, e.Args, nil, callee)
	case *ast.TupleLit:
		elems := make([]typesystem.Index, len(e.Elems))
		for i, elem := range e.Elems {
			elems[i], err = c.InferExpression(elem, ctx)
			if err != nil {
				return typesystem.NoIndex, err
			}
		}
		t = c.Arena.NewTuple(elems...)
	case *ast.ObjectLit:
		elems := make([]typesystem.ObjElem, len(e.Props))
		for i, prop := range e.Props {
			var pt typesystem.Index
			pt, err = c.InferExpression(prop.Value, ctx)
			if err != nil {
				return typesystem.NoIndex, err
			}
			elems[i] = &typesystem.PropElem{Name: prop.Key, Type: pt}
		}
		t = c.Arena.NewObject(elems...)
	case *ast.Member:
		var obj typesystem.Index
		obj, err = c.InferExpression(e.Object, ctx)
		if err != nil {
			return typesystem.NoIndex, err
		}
		key := c.Arena.NewStrLit(e.Prop)
		t, err = c.getProp(ctx, obj, key)
	case *ast.IndexExpr:
		var obj, key typesystem.Index
		obj, err = c.InferExpression(e.Object, ctx)
		if err != nil {
			return typesystem.NoIndex, err
		}
		key, err = c.InferExpression(e.Index, ctx)
		if err != nil {
			return typesystem.NoIndex, err
		}
		t, err = c.getProp(ctx, obj, key)
	default:
		return typesystem.NoIndex, fmt.Errorf("checker: cannot infer %T", expr)
	}

	if err != nil {
		return typesystem.NoIndex, err
	}
	expr.SetInferredType(t)
	return t, nil
}

func (c *Checker) inferLambda(lambda *ast.Lambda, ctx *symbols.Context) (typesystem.Index, error) {
	child := ctx.Child()

	params := make([]typesystem.FuncParam, len(lambda.Params))
	for i, pat := range lambda.Params {
		assump, paramType, err := c.InferPattern(pat, child)
		if err != nil {
			return typesystem.NoIndex, err
		}
		for name, binding := range assump {
			child.Define(name, binding)
		}
		tpat, err := patternToTPat(pat)
		if err != nil {
			return typesystem.NoIndex, err
		}
		params[i] = typesystem.FuncParam{Pattern: tpat, Type: paramType}
	}

	var retType typesystem.Index
	switch {
	case lambda.Body != nil:
		t, err := c.InferExpression(lambda.Body, child)
		if err != nil {
			return typesystem.NoIndex, err
		}
		retType = t
	default:
		retType = c.Arena.NewKeyword(typesystem.KeywordUndefined)
		for _, stmt := range lambda.Block {
			switch stmt := stmt.(type) {
			case *ast.ReturnStmt:
				if stmt.Arg == nil {
					retType = c.Arena.NewKeyword(typesystem.KeywordUndefined)
					continue
				}
				t, err := c.InferExpression(stmt.Arg, child)
				if err != nil {
					return typesystem.NoIndex, err
				}
				retType = t
			case *ast.ExprStmt:
				if _, err := c.InferExpression(stmt.Expr, child); err != nil {
					return typesystem.NoIndex, err
				}
			case *ast.VarDecl:
				if err := c.inferVarDecl(stmt, child); err != nil {
					return typesystem.NoIndex, err
				}
			}
		}
	}

	return c.Arena.NewFunc(params, retType, nil, typesystem.NoIndex), nil
}

func (c *Checker) inferVarDecl(decl *ast.VarDecl, ctx *symbols.Context) error {
	initType, err := c.InferExpression(decl.Init, ctx)
	if err != nil {
		return err
	}

	if decl.Pattern != nil {
		assump, patType, err := c.InferPattern(decl.Pattern, ctx)
		if err != nil {
			return err
		}
		if err := c.Unify(ctx, initType, patType); err != nil {
			return err
		}
		for name, binding := range assump {
			ctx.Define(name, binding)
		}
		return nil
	}

	t := initType
	if _, isLambda := decl.Init.(*ast.Lambda); isLambda && !decl.Mutable {
		t = c.generalizeFunc(t)
	}
	ctx.Define(decl.Name, symbols.Binding{Index: t, Mutable: decl.Mutable})
	return nil
}

// InferProgram checks every statement in order, stopping at the first
// error.
func (c *Checker) InferProgram(prog *ast.Program, ctx *symbols.Context) error {
	for _, stmt := range prog.Statements {
		switch stmt := stmt.(type) {
		case *ast.VarDecl:
			if err := c.inferVarDecl(stmt, ctx); err != nil {
				return err
			}
		case *ast.ExprStmt:
			if _, err := c.InferExpression(stmt.Expr, ctx); err != nil {
				return err
			}
		case *ast.ReturnStmt:
			if stmt.Arg != nil {
				if _, err := c.InferExpression(stmt.Arg, ctx); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CheckProgram is InferProgram for hosts that want every error instead of
// the first: failures land in the report and checking moves to the next
// statement.
func (c *Checker) CheckProgram(prog *ast.Program, ctx *symbols.Context, report *diagnostics.Report) {
	for _, stmt := range prog.Statements {
		var err error
		switch stmt := stmt.(type) {
		case *ast.VarDecl:
			err = c.inferVarDecl(stmt, ctx)
		case *ast.ExprStmt:
			_, err = c.InferExpression(stmt.Expr, ctx)
		case *ast.ReturnStmt:
			if stmt.Arg != nil {
				_, err = c.InferExpression(stmt.Arg, ctx)
			}
		}
		if !report.Add(err) {
			return
		}
	}
}
