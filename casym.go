// Package casym implements the symbolic expression algebra used when
// lifting machine-code semantics: constants, registers, memory reads,
// bit composites, conditionals and path-merge vectors, together with a
// normalizing simplifier that keeps expressions in canonical form and
// bounds rewriting cost by absorbing overly complex values into Top.
package casym

import (
	"errors"
	"fmt"
)

// Standard widths.
const (
	WidthBool = 1
	Width8    = 8
	Width16   = 16
	Width32   = 32
	Width64   = 64
)

// Error kinds reported on invariant violations. Construction-time checks
// fail at the call site by panicking with an *Error wrapping one of these;
// routine "value unknown" situations never error, they resolve to Top.
var (
	ErrBounds       = errors.New("casym: slice bounds")
	ErrSizeMismatch = errors.New("casym: size mismatch")
	ErrType         = errors.New("casym: type error")
	ErrEval         = errors.New("casym: unsupported evaluation")
)

// Error is the panic payload raised on invariant violations.
// errors.Is(err, ErrBounds) etc. hold for the wrapped kind.
type Error struct {
	Kind error
	Msg  string
}

// Error returns the string representation of the error.
func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Msg }

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.Kind }

// failf panics with an *Error of the given kind.
func failf(kind error, format string, args ...interface{}) {
	panic(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}

// DefaultThreshold is the complexity above which simplification gives up
// on an operand and substitutes Top. Zero disables absorption.
const DefaultThreshold = 100.0

// SimplifyOptions control a simplification pass. The zero value performs
// plain rewriting with no complexity bound.
type SimplifyOptions struct {
	// Threshold bounds operand complexity before Top absorption kicks in.
	Threshold float64

	// BitSlice distributes bitwise operations and constant shifts bit by
	// bit instead of rewriting them into composite windows.
	BitSlice bool

	// Widening caps conditionals into merge vectors instead of keeping
	// the symbolic condition.
	Widening bool
}

// DefaultOptions returns the options used by the operator constructors.
func DefaultOptions() SimplifyOptions {
	return SimplifyOptions{Threshold: DefaultThreshold}
}

// Env is the environment expressions evaluate against. It is implemented
// by the state-mapping layer of an analyzer; Mapper provides a reference
// implementation for tests and simple consumers.
type Env interface {
	// Resolve returns the expression currently bound to a location
	// (register, register slice or memory read). Unbound locations
	// resolve to themselves.
	Resolve(loc Expr) Expr

	// Assign binds an expression to a location.
	Assign(loc, v Expr)

	// Use returns a mutation-isolated copy of the environment, used when
	// replaying pending aliasing writes of a memory read.
	Use() Env

	// Conds returns the boolean expressions asserted on the current path.
	Conds() []Expr
}
