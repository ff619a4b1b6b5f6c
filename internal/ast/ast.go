// Package ast defines the expression, statement and pattern nodes the
// checker infers types for. Nodes carry an inferred-type slot that the
// checker fills in as it walks the tree.
package ast

import (
	"github.com/funvibe/structural/internal/typesystem"
)

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// Expression is a Node whose inference produces a type.
type Expression interface {
	Node
	expressionNode()
	SetInferredType(t typesystem.Index)
	InferredType() (typesystem.Index, bool)
}

// Statement is a Node executed for its bindings or effects.
type Statement interface {
	Node
	statementNode()
}

// Pattern is a binding form appearing in declarations and params.
type Pattern interface {
	Node
	patternNode()
	SetInferredType(t typesystem.Index)
	InferredType() (typesystem.Index, bool)
}

// inferredSlot holds the type the checker assigned to a node.
type inferredSlot struct {
	inferred    typesystem.Index
	hasInferred bool
}

func (s *inferredSlot) SetInferredType(t typesystem.Index) {
	s.inferred = t
	s.hasInferred = true
}

func (s *inferredSlot) InferredType() (typesystem.Index, bool) {
	return s.inferred, s.hasInferred
}

// Program is the root node.
type Program struct {
	Statements []Statement
}

func (p *Program) node() {}
