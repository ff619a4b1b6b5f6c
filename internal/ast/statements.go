package ast

// VarDecl binds a name or a pattern to the value of Init.
// let x = 5, or let {a, b} = point. Name and Pattern are mutually
// exclusive; Pattern bindings cannot be mutable.
type VarDecl struct {
	Name    string
	Pattern Pattern
	Mutable bool
	Init    Expression
}

func (d *VarDecl) node()          {}
func (d *VarDecl) statementNode() {}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) node()          {}
func (s *ExprStmt) statementNode() {}

// ReturnStmt ends a function body. Arg may be nil.
type ReturnStmt struct {
	Arg Expression
}

func (r *ReturnStmt) node()          {}
func (r *ReturnStmt) statementNode() {}
