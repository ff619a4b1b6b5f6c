package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/structural/internal/config"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

func TestExpandScheme(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	point := s.NewObject(
		&typesystem.PropElem{Name: "x", Type: num},
		&typesystem.PropElem{Name: "y", Type: num},
	)
	ctx.DefineScheme("Point", symbols.Scheme{Type: point})

	ref := s.NewConstructor("Point")
	expanded, err := c.Expand(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "{x: number, y: number}", c.Print(expanded))

	// Unification sees through the alias.
	lit := s.NewObject(
		&typesystem.PropElem{Name: "x", Type: s.NewNumLit("1")},
		&typesystem.PropElem{Name: "y", Type: s.NewNumLit("2")},
	)
	assert.NoError(t, c.Unify(ctx, lit, ref))
}

func TestExpandGenericScheme(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	value := s.NewConstructor("T")
	box := s.NewObject(&typesystem.PropElem{Name: "value", Type: value})
	ctx.DefineScheme("Box", symbols.Scheme{
		TypeParams: []typesystem.TypeParam{{Name: "T", Constraint: typesystem.NoIndex, Default: typesystem.NoIndex}},
		Type:       box,
	})

	ref := s.NewConstructor("Box", s.NewPrimitive(typesystem.PrimNumber))
	expanded, err := c.Expand(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "{value: number}", c.Print(expanded))
}

func TestExpandKeepsArrayAndPromiseOpaque(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	arr := s.NewConstructor(config.ArrayTypeName, num)
	promise := s.NewConstructor(config.PromiseTypeName, num)

	got, err := c.Expand(ctx, arr)
	require.NoError(t, err)
	assert.Equal(t, arr, got)

	got, err = c.Expand(ctx, promise)
	require.NoError(t, err)
	assert.Equal(t, promise, got)
}

func TestExpandUnknownConstructorStaysOpaque(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	ref := s.NewConstructor("Mystery")
	got, err := c.Expand(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, ref, got)

	// Opaque nominal types still unify with themselves.
	assert.NoError(t, c.Unify(ctx, ref, s.NewConstructor("Mystery")))
}

func TestExpandKeyOf(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	obj := s.NewObject(
		&typesystem.PropElem{Name: "a", Type: s.NewPrimitive(typesystem.PrimNumber)},
		&typesystem.PropElem{Name: "b", Type: s.NewPrimitive(typesystem.PrimString)},
	)

	got, err := c.Expand(ctx, s.NewKeyOf(obj))
	require.NoError(t, err)
	assert.Equal(t, `"a" | "b"`, c.Print(got))
}

func TestExpandIndexedAccess(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	obj := s.NewObject(&typesystem.PropElem{Name: "a", Type: s.NewPrimitive(typesystem.PrimNumber)})
	access := s.NewIndexedAccess(obj, s.NewStrLit("a"))

	got, err := c.Expand(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "number", c.Print(got))

	missing := s.NewIndexedAccess(obj, s.NewStrLit("c"))
	_, err = c.Expand(ctx, missing)
	require.Error(t, err)
	assert.Equal(t, "Couldn't find property 'c' on object", err.Error())
}

func TestExpandConditional(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	cond := s.NewConditional(
		s.NewNumLit("5"), num,
		s.NewStrLit("yes"), s.NewStrLit("no"),
	)
	got, err := c.Expand(ctx, cond)
	require.NoError(t, err)
	assert.Equal(t, `"yes"`, c.Print(got))

	cond = s.NewConditional(
		s.NewBoolLit(true), s.NewPrimitive(typesystem.PrimNumber),
		s.NewStrLit("yes"), s.NewStrLit("no"),
	)
	got, err = c.Expand(ctx, cond)
	require.NoError(t, err)
	assert.Equal(t, `"no"`, c.Print(got))
}

func TestGetPropOnOptional(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	obj := s.NewObject(&typesystem.PropElem{Name: "a", Optional: true, Type: s.NewPrimitive(typesystem.PrimNumber)})
	got, err := c.getProp(ctx, obj, s.NewStrLit("a"))
	require.NoError(t, err)
	assert.Equal(t, "number | undefined", c.Print(got))
}

func TestGetPropOnArray(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	arr := s.NewConstructor(config.ArrayTypeName, s.NewPrimitive(typesystem.PrimString))
	got, err := c.getProp(ctx, arr, s.NewNumLit("3"))
	require.NoError(t, err)
	assert.Equal(t, "string | undefined", c.Print(got))
}

func TestGetPropOnTupleWithNumberKey(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	tup := s.NewTuple(s.NewNumLit("1"), s.NewStrLit("two"))
	got, err := c.getProp(ctx, tup, s.NewPrimitive(typesystem.PrimNumber))
	require.NoError(t, err)
	assert.Equal(t, `1 | "two" | undefined`, c.Print(got))
}

func TestGetPropOnUnion(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	a := s.NewObject(&typesystem.PropElem{Name: "kind", Type: s.NewStrLit("circle")})
	b := s.NewObject(&typesystem.PropElem{Name: "kind", Type: s.NewStrLit("square")})
	union := s.NewUnion(a, b)

	got, err := c.getProp(ctx, union, s.NewStrLit("kind"))
	require.NoError(t, err)
	assert.Equal(t, `"circle" | "square"`, c.Print(got))
}

func TestGetPropThroughIndexer(t *testing.T) {
	c, ctx := newTestChecker()
	s := c.Arena

	obj := s.NewObject(&typesystem.MappedElem{
		Target: "K",
		Source: s.NewPrimitive(typesystem.PrimString),
		Key:    s.NewConstructor("K"),
		Value:  s.NewPrimitive(typesystem.PrimNumber),
	})
	got, err := c.getProp(ctx, obj, s.NewStrLit("anything"))
	require.NoError(t, err)
	assert.Equal(t, "number | undefined", c.Print(got))
}

func TestSimplifyIntersectionMergesProps(t *testing.T) {
	c, _ := newTestChecker()
	s := c.Arena

	num := s.NewPrimitive(typesystem.PrimNumber)
	str := s.NewPrimitive(typesystem.PrimString)

	o1 := s.NewObject(&typesystem.PropElem{Name: "b", Type: str})
	o2 := s.NewObject(&typesystem.PropElem{Name: "a", Type: num})

	merged := c.simplifyIntersection([]typesystem.Index{o1, o2})
	assert.Equal(t, "{a: number, b: string}", c.Print(merged))
}
