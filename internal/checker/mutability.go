package checker

import (
	"github.com/funvibe/structural/internal/ast"
	"github.com/funvibe/structural/internal/diagnostics"
	"github.com/funvibe/structural/internal/symbols"
	"github.com/funvibe/structural/internal/typesystem"
)

// checkMutability decides whether an argument is passed to a mutable
// parameter, which switches the call site from Unify to UnifyMut.
// Passing an immutable binding where mutation is expected is an error;
// fresh values (literals, lambdas) are fine either way.
func (c *Checker) checkMutability(ctx *symbols.Context, pat typesystem.TPat, arg ast.Expression) (bool, error) {
	ident, ok := pat.(*typesystem.TPatIdent)
	if !ok || !ident.Mutable {
		return false, nil
	}

	argIdent, ok := arg.(*ast.Ident)
	if !ok {
		return true, nil
	}
	binding, found := ctx.Lookup(argIdent.Name)
	if found && !binding.Mutable {
		return false, diagnostics.NewError(diagnostics.ErrImmutableArgument, argIdent.Name)
	}
	return true, nil
}
