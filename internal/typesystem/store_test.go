package typesystem

import (
	"strings"
	"testing"
)

func TestStorePushAndGet(t *testing.T) {
	s := NewStore()

	n := s.NewNumLit("5")
	str := s.NewStrLit("hello")
	b := s.NewBoolLit(true)

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	if _, ok := s.Get(n).Kind.(*Literal); !ok {
		t.Errorf("node %d should be a literal", n)
	}
	if got := s.Sprint(n); got != "5" {
		t.Errorf("Sprint(n) = %s, want 5", got)
	}
	if got := s.Sprint(str); got != `"hello"` {
		t.Errorf(`Sprint(str) = %s, want "hello"`, got)
	}
	if got := s.Sprint(b); got != "true" {
		t.Errorf("Sprint(b) = %s, want true", got)
	}

	if s.RunID == "" {
		t.Errorf("RunID should not be empty")
	}
}

func TestStorePrune(t *testing.T) {
	s := NewStore()

	v1 := s.NewVar()
	v2 := s.NewVar()
	num := s.NewPrimitive(PrimNumber)

	// Unbound variables prune to themselves.
	if got := s.Prune(v1); got != v1 {
		t.Errorf("Prune(v1) = %d, want %d", got, v1)
	}

	// v1 -> v2 -> number resolves to number and compresses the path.
	s.SetInstance(v2, num)
	s.SetInstance(v1, v2)
	if got := s.Prune(v1); got != num {
		t.Errorf("Prune(v1) = %d, want %d", got, num)
	}
	if inst := s.Get(v1).Kind.(*Variable).Instance; inst != num {
		t.Errorf("path not compressed: instance = %d, want %d", inst, num)
	}
}

func TestSetInstancePanicsOnNonVariable(t *testing.T) {
	s := NewStore()
	num := s.NewPrimitive(PrimNumber)

	defer func() {
		if recover() == nil {
			t.Errorf("SetInstance on a non-variable should panic")
		}
	}()
	s.SetInstance(num, num)
}

func TestNewUnion(t *testing.T) {
	s := NewStore()

	num := s.NewPrimitive(PrimNumber)
	str := s.NewPrimitive(PrimString)

	tests := []struct {
		name  string
		types []Index
		want  string
	}{
		{
			name:  "empty collapses to never",
			types: nil,
			want:  "never",
		},
		{
			name:  "single member is itself",
			types: []Index{num},
			want:  "number",
		},
		{
			name:  "two members",
			types: []Index{num, str},
			want:  "number | string",
		},
		{
			name:  "duplicates removed",
			types: []Index{num, str, num},
			want:  "number | string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sprint(s.NewUnion(tt.types...))
			if got != tt.want {
				t.Errorf("NewUnion = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewUnionFlattensNested(t *testing.T) {
	s := NewStore()

	num := s.NewPrimitive(PrimNumber)
	str := s.NewPrimitive(PrimString)
	boolean := s.NewPrimitive(PrimBoolean)

	inner := s.NewUnion(num, str)
	got := s.Sprint(s.NewUnion(inner, boolean))
	if got != "number | string | boolean" {
		t.Errorf("flattened union = %s, want number | string | boolean", got)
	}
}

func TestStoreDump(t *testing.T) {
	s := NewStore()
	s.NewPrimitive(PrimNumber)

	var sb strings.Builder
	s.Dump(&sb)
	out := sb.String()
	if !strings.Contains(out, s.RunID) {
		t.Errorf("dump should mention the run id")
	}
	if !strings.Contains(out, "Primitive") {
		t.Errorf("dump should mention the node kinds, got:\n%s", out)
	}
}
