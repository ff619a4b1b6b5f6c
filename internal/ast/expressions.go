package ast

// NumberLit is a numeric literal, kept as its source text.
// 5 or 1.25
type NumberLit struct {
	inferredSlot
	Value string
}

func (n *NumberLit) node()           {}
func (n *NumberLit) expressionNode() {}

// StringLit is a string literal.
// "hello"
type StringLit struct {
	inferredSlot
	Value string
}

func (s *StringLit) node()           {}
func (s *StringLit) expressionNode() {}

// BooleanLit is true or false.
type BooleanLit struct {
	inferredSlot
	Value bool
}

func (b *BooleanLit) node()           {}
func (b *BooleanLit) expressionNode() {}

// Ident is a reference to a bound name.
type Ident struct {
	inferredSlot
	Name string
}

func (i *Ident) node()           {}
func (i *Ident) expressionNode() {}

// Lambda is a function literal. Exactly one of Body or Block is set:
// fn (x) => x + 1, or fn (x) { return x }
type Lambda struct {
	inferredSlot
	Params []Pattern
	Body   Expression
	Block  []Statement
}

func (l *Lambda) node()           {}
func (l *Lambda) expressionNode() {}

// Call applies a callee to arguments: f(a, b).
type Call struct {
	inferredSlot
	Callee Expression
	Args   []Expression
}

func (c *Call) node()           {}
func (c *Call) expressionNode() {}

// TupleLit is [a, b, c].
type TupleLit struct {
	inferredSlot
	Elems []Expression
}

func (t *TupleLit) node()           {}
func (t *TupleLit) expressionNode() {}

// ObjectProp is one key-value entry of an object literal.
type ObjectProp struct {
	Key   string
	Value Expression
}

// ObjectLit is {a: 1, b: "two"}.
type ObjectLit struct {
	inferredSlot
	Props []ObjectProp
}

func (o *ObjectLit) node()           {}
func (o *ObjectLit) expressionNode() {}

// Member is property access: obj.prop.
type Member struct {
	inferredSlot
	Object Expression
	Prop   string
}

func (m *Member) node()           {}
func (m *Member) expressionNode() {}

// IndexExpr is computed access: obj[key].
type IndexExpr struct {
	inferredSlot
	Object Expression
	Index  Expression
}

func (x *IndexExpr) node()           {}
func (x *IndexExpr) expressionNode() {}
