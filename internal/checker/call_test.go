package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/structural/internal/ast"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

func numArg(v string) ast.Expression  { return &ast.NumberLit{Value: v} }
func strArg(v string) ast.Expression  { return &ast.StringLit{Value: v} }
func boolArg(v bool) ast.Expression   { return &ast.BooleanLit{Value: v} }
func identArg(n string) ast.Expression { return &ast.Ident{Name: n} }

func TestUnifyCallFunction(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	str := s.NewPrimitive(typesystem.PrimString)
	fn := s.NewFunc(typesystem.ParamsFromTypes(num), str, nil, typesystem.NoIndex)

	ret, throws, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, fn)
	require.NoError(t, err)
	assert.Equal(t, "string", c.Print(ret))
	assert.Equal(t, typesystem.NoIndex, throws)
}

func TestUnifyCallTooFewArguments(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	fn := s.NewFunc(typesystem.ParamsFromTypes(num, s.NewPrimitive(typesystem.PrimNumber)), num, nil, typesystem.NoIndex)

	_, _, err := c.UnifyCall(ctx, nil, nil, fn)
	require.Error(t, err)
	assert.Equal(t, "too few arguments to function: expected 2, got 0", err.Error())
}

func TestUnifyCallOptionalParams(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	params := typesystem.ParamsFromTypes(num, s.NewPrimitive(typesystem.PrimString))
	params[1].Optional = true
	fn := s.NewFunc(params, num, nil, typesystem.NoIndex)

	_, _, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, fn)
	assert.NoError(t, err)
}

func TestUnifyCallArgumentMismatch(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	fn := s.NewFunc(typesystem.ParamsFromTypes(num), num, nil, typesystem.NoIndex)

	_, _, err := c.UnifyCall(ctx, []ast.Expression{strArg("nope")}, nil, fn)
	assert.Error(t, err)
}

func TestUnifyCallVariableCallee(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	v := s.NewVar()
	ret, _, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, v)
	require.NoError(t, err)

	// The callee variable is now a function accepting the arguments.
	fn, ok := c.Arena.Get(c.Prune(v)).Kind.(*typesystem.Function)
	require.True(t, ok)
	assert.Len(t, fn.Params, 1)
	assert.Equal(t, "A", c.Print(ret))
}

func TestUnifyCallNotCallable(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	tests := []struct {
		name   string
		callee typesystem.Index
		want   string
	}{
		{"literal", s.NewNumLit("5"), "literal 5 is not callable"},
		{"primitive", s.NewPrimitive(typesystem.PrimNumber), "primitive number is not callable"},
		{"tuple", s.NewTuple(), "tuple is not callable"},
		{"object", s.NewObject(), "object is not callable"},
		{"keyword", s.NewKeyword(typesystem.KeywordUndefined), "undefined is not callable"},
		{"wildcard", s.NewWildcard(), "_ is not callable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.UnifyCall(ctx, nil, nil, tt.callee)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestUnifyCallUnionCallee(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	str := s.NewPrimitive(typesystem.PrimString)
	boolean := s.NewPrimitive(typesystem.PrimBoolean)

	fn1 := s.NewFunc(typesystem.ParamsFromTypes(num), str, nil, typesystem.NoIndex)
	fn2 := s.NewFunc(typesystem.ParamsFromTypes(s.NewPrimitive(typesystem.PrimNumber)), boolean, nil, typesystem.NoIndex)
	callee := s.NewUnion(fn1, fn2)

	ret, _, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, callee)
	require.NoError(t, err)
	assert.Equal(t, "string | boolean", c.Print(ret))
}

func TestUnifyCallOverloads(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	str := s.NewPrimitive(typesystem.PrimString)

	numToNum := s.NewFunc(typesystem.ParamsFromTypes(num), s.NewPrimitive(typesystem.PrimNumber), nil, typesystem.NoIndex)
	strToStr := s.NewFunc(typesystem.ParamsFromTypes(str), s.NewPrimitive(typesystem.PrimString), nil, typesystem.NoIndex)
	overloaded := s.NewIntersection(numToNum, strToStr)

	ret, _, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, overloaded)
	require.NoError(t, err)
	assert.Equal(t, "number", c.Print(ret))

	ret, _, err = c.UnifyCall(ctx, []ast.Expression{strArg("hi")}, nil, overloaded)
	require.NoError(t, err)
	assert.Equal(t, "string", c.Print(ret))

	_, _, err = c.UnifyCall(ctx, []ast.Expression{boolArg(true)}, nil, overloaded)
	require.Error(t, err)
	assert.Equal(t, "no valid overload for args", err.Error())
}

func TestUnifyCallGenericFunction(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	a := s.NewConstructor("A")
	id := s.NewFunc(typesystem.ParamsFromTypes(a), a, []typesystem.TypeParam{{Name: "A", Constraint: typesystem.NoIndex, Default: typesystem.NoIndex}}, typesystem.NoIndex)

	ret1, _, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, id)
	require.NoError(t, err)
	ret2, _, err := c.UnifyCall(ctx, []ast.Expression{strArg("hello")}, nil, id)
	require.NoError(t, err)

	// Each call instantiates independently and the declaration keeps its
	// type parameters.
	assert.Equal(t, "5", c.Print(ret1))
	assert.Equal(t, `"hello"`, c.Print(ret2))
	assert.Equal(t, "<A>(A) => A", c.Print(id))
}

func TestUnifyCallExplicitTypeArgs(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	a := s.NewConstructor("A")
	id := s.NewFunc(typesystem.ParamsFromTypes(a), a, []typesystem.TypeParam{{Name: "A", Constraint: typesystem.NoIndex, Default: typesystem.NoIndex}}, typesystem.NoIndex)

	num := s.NewPrimitive(typesystem.PrimNumber)
	ret, _, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, []typesystem.Index{num}, id)
	require.NoError(t, err)
	assert.Equal(t, "number", c.Print(ret))

	_, _, err = c.UnifyCall(ctx, []ast.Expression{strArg("hi")}, []typesystem.Index{s.NewPrimitive(typesystem.PrimNumber)}, id)
	assert.Error(t, err)
}

func TestUnifyCallThrows(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	rangeErr := s.NewConstructor("RangeError")
	fn := s.NewFunc(typesystem.ParamsFromTypes(num), num, nil, rangeErr)

	_, throws, err := c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, fn)
	require.NoError(t, err)
	require.NotEqual(t, typesystem.NoIndex, throws)
	assert.Equal(t, "RangeError", c.Print(throws))

	// A never throws collapses to no throws at all.
	pure := s.NewFunc(typesystem.ParamsFromTypes(s.NewPrimitive(typesystem.PrimNumber)), num, nil, s.NewKeyword(typesystem.KeywordNever))
	_, throws, err = c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, pure)
	require.NoError(t, err)
	assert.Equal(t, typesystem.NoIndex, throws)
}

func TestUnifyCallSchemeCallee(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	fnType := s.NewFunc(typesystem.ParamsFromTypes(num), num, nil, typesystem.NoIndex)
	ctx.DefineScheme("Adder", symbols.Scheme{Type: fnType})

	callee := s.NewConstructor("Adder")
	ret, _, err := c.UnifyCall(ctx, []ast.Expression{numArg("1")}, nil, callee)
	require.NoError(t, err)
	assert.Equal(t, "number", c.Print(ret))

	missing := s.NewConstructor("Nope")
	_, _, err = c.UnifyCall(ctx, nil, nil, missing)
	require.Error(t, err)
	assert.Equal(t, `Undefined symbol "Nope"`, err.Error())
}

func TestUnifyCallMutableParam(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	params := []typesystem.FuncParam{{
		Pattern: &typesystem.TPatIdent{Name: "x", Mutable: true},
		Type:    num,
	}}
	fn := s.NewFunc(params, num, nil, typesystem.NoIndex)

	ctx.Define("frozen", symbols.Binding{Index: s.NewPrimitive(typesystem.PrimNumber), Mutable: false})
	_, _, err := c.UnifyCall(ctx, []ast.Expression{identArg("frozen")}, nil, fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "immutable binding")

	// A mutable binding of the exact type is accepted.
	ctx.Define("open", symbols.Binding{Index: s.NewPrimitive(typesystem.PrimNumber), Mutable: true})
	_, _, err = c.UnifyCall(ctx, []ast.Expression{identArg("open")}, nil, fn)
	assert.NoError(t, err)

	// Mutable params are invariant, so a literal argument is rejected.
	_, _, err = c.UnifyCall(ctx, []ast.Expression{numArg("5")}, nil, fn)
	assert.Error(t, err)
}
