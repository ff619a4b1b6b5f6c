package config

// Built-in type names the unifier treats as opaque nominal wrappers
// instead of expanding them to their scheme bodies.
const (
	ArrayTypeName   = "Array"
	PromiseTypeName = "Promise"
)

// SelfParamName is the leading receiver parameter stripped before
// function types are compared.
const SelfParamName = "self"

// NormalizeVarNames controls how unbound inference variables print: when
// true they are named A, B, C per print call (deterministic output for
// tests and UIs); when false they print as t<index> for debugging.
var NormalizeVarNames = true
