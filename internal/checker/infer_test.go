package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/structural/internal/ast"
	"github.com/funvibe/structural/internal/config"
	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

func lookupType(t *testing.T, c *Checker, ctx *symbols.Context, name string) string {
	t.Helper()
	binding, ok := ctx.Lookup(name)
	require.True(t, ok, "binding %s not found", name)
	return c.Print(binding.Index)
}

func TestInferLiterals(t *testing.T) {
	c, ctx := newTestChecker()

	tests := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"number", &ast.NumberLit{Value: "5"}, "5"},
		{"string", &ast.StringLit{Value: "hello"}, `"hello"`},
		{"boolean", &ast.BooleanLit{Value: true}, "true"},
		{"tuple", &ast.TupleLit{Elems: []ast.Expression{numArg("1"), strArg("two")}}, `[1, "two"]`},
		{
			"object",
			&ast.ObjectLit{Props: []ast.ObjectProp{{Key: "a", Value: numArg("5")}}},
			"{a: 5}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := c.InferExpression(tt.expr, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Print(idx))

			inferred, ok := tt.expr.InferredType()
			require.True(t, ok)
			assert.Equal(t, idx, inferred)
		})
	}
}

func TestInferUndefinedSymbol(t *testing.T) {
	c, ctx := newTestChecker()

	_, err := c.InferExpression(identArg("nope"), ctx)
	require.Error(t, err)
	assert.Equal(t, `Undefined symbol "nope"`, err.Error())
}

func TestInferGenericInstantiation(t *testing.T) {
	c, ctx := newTestChecker()

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Name: "id", Init: &ast.Lambda{
			Params: []ast.Pattern{&ast.IdentPat{Name: "x"}},
			Body:   identArg("x"),
		}},
		&ast.VarDecl{Name: "a", Init: &ast.Call{Callee: identArg("id"), Args: []ast.Expression{numArg("5")}}},
		&ast.VarDecl{Name: "b", Init: &ast.Call{Callee: identArg("id"), Args: []ast.Expression{strArg("hello")}}},
	}}

	require.NoError(t, c.InferProgram(prog, ctx))

	// Uses at different types stay independent and the declaration stays
	// polymorphic.
	assert.Equal(t, "5", lookupType(t, c, ctx, "a"))
	assert.Equal(t, `"hello"`, lookupType(t, c, ctx, "b"))
	assert.Equal(t, "<A>(A) => A", lookupType(t, c, ctx, "id"))
}

func TestInferCallbackContravariance(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	str := s.NewPrimitive(typesystem.PrimString)
	boolean := s.NewPrimitive(typesystem.PrimBoolean)

	cb := s.NewFunc(typesystem.ParamsFromTypes(num), boolean, nil, typesystem.NoIndex)
	foo := s.NewFunc(typesystem.ParamsFromTypes(cb), boolean, nil, typesystem.NoIndex)
	bar := s.NewFunc(typesystem.ParamsFromTypes(s.NewUnion(s.NewPrimitive(typesystem.PrimNumber), str)), s.NewBoolLit(true), nil, typesystem.NoIndex)

	ctx.Define("foo", symbols.Binding{Index: foo})
	ctx.Define("bar", symbols.Binding{Index: bar})

	call := &ast.Call{Callee: identArg("foo"), Args: []ast.Expression{identArg("bar")}}
	idx, err := c.InferExpression(call, ctx)
	require.NoError(t, err)
	assert.Equal(t, "boolean", c.Print(idx))
}

func TestInferLambdaBlockBody(t *testing.T) {
	c, ctx := newTestChecker()

	lambda := &ast.Lambda{
		Params: []ast.Pattern{&ast.IdentPat{Name: "x"}},
		Block: []ast.Statement{
			&ast.VarDecl{Name: "y", Init: numArg("1")},
			&ast.ReturnStmt{Arg: identArg("y")},
		},
	}

	idx, err := c.InferExpression(lambda, ctx)
	require.NoError(t, err)
	assert.Equal(t, "(A) => 1", c.Print(idx))
}

func TestInferMemberAccess(t *testing.T) {
	c, ctx := newTestChecker()

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Name: "p", Init: &ast.ObjectLit{Props: []ast.ObjectProp{
			{Key: "x", Value: numArg("5")},
			{Key: "y", Value: strArg("hi")},
		}}},
	}}
	require.NoError(t, c.InferProgram(prog, ctx))

	idx, err := c.InferExpression(&ast.Member{Object: identArg("p"), Prop: "x"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "5", c.Print(idx))

	_, err = c.InferExpression(&ast.Member{Object: identArg("p"), Prop: "z"}, ctx)
	require.Error(t, err)
	assert.Equal(t, "Couldn't find property 'z' on object", err.Error())
}

func TestInferTupleIndexing(t *testing.T) {
	c, ctx := newTestChecker()

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Name: "pair", Init: &ast.TupleLit{Elems: []ast.Expression{numArg("1"), strArg("two")}}},
	}}
	require.NoError(t, c.InferProgram(prog, ctx))

	idx, err := c.InferExpression(&ast.IndexExpr{Object: identArg("pair"), Index: numArg("1")}, ctx)
	require.NoError(t, err)
	assert.Equal(t, `"two"`, c.Print(idx))

	_, err = c.InferExpression(&ast.IndexExpr{Object: identArg("pair"), Index: numArg("2")}, ctx)
	require.Error(t, err)
	assert.Equal(t, "2 was outside the bounds 0..2 of the tuple", err.Error())
}

func TestInferVarDeclWithPattern(t *testing.T) {
	c, ctx := newTestChecker()

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{
			Pattern: &ast.ObjectPat{Props: []ast.ObjectPatProp{
				&ast.ShorthandPatProp{Key: "x"},
				&ast.ShorthandPatProp{Key: "y"},
			}},
			Init: &ast.ObjectLit{Props: []ast.ObjectProp{
				{Key: "x", Value: numArg("5")},
				{Key: "y", Value: strArg("hi")},
			}},
		},
	}}

	require.NoError(t, c.InferProgram(prog, ctx))
	assert.Equal(t, "5", lookupType(t, c, ctx, "x"))
	assert.Equal(t, `"hi"`, lookupType(t, c, ctx, "y"))
}

func TestInferMutableDeclSkipsGeneralization(t *testing.T) {
	c, ctx := newTestChecker()

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.VarDecl{Name: "f", Mutable: true, Init: &ast.Lambda{
			Params: []ast.Pattern{&ast.IdentPat{Name: "x"}},
			Body:   identArg("x"),
		}},
	}}

	require.NoError(t, c.InferProgram(prog, ctx))
	assert.Equal(t, "(A) => A", lookupType(t, c, ctx, "f"))
}

func TestCheckProgramCollectsErrors(t *testing.T) {
	c, ctx := newTestChecker()

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.ExprStmt{Expr: identArg("missing")},
		&ast.ExprStmt{Expr: &ast.Call{Callee: numArg("5")}},
		&ast.VarDecl{Name: "ok", Init: numArg("1")},
	}}

	report := diagnostics.NewReport(c.Arena.RunID, config.Default())
	c.CheckProgram(prog, ctx, report)

	require.True(t, report.HasErrors())
	require.Len(t, report.Errors, 2)
	assert.Equal(t, `Undefined symbol "missing"`, report.Errors[0].Message)
	assert.Equal(t, "literal 5 is not callable", report.Errors[1].Message)

	// Checking continued past the failures.
	assert.Equal(t, "1", lookupType(t, c, ctx, "ok"))
}

func TestCheckProgramHonorsMaxDiagnostics(t *testing.T) {
	c, ctx := newTestChecker()

	prog := &ast.Program{Statements: []ast.Statement{
		&ast.ExprStmt{Expr: identArg("a")},
		&ast.ExprStmt{Expr: identArg("b")},
		&ast.ExprStmt{Expr: identArg("c")},
	}}

	opts := config.Default()
	opts.MaxDiagnostics = 2
	report := diagnostics.NewReport(c.Arena.RunID, opts)
	c.CheckProgram(prog, ctx, report)

	assert.Len(t, report.Errors, 2)
}
