package casym

import (
	"fmt"
	"strconv"
)

// mask returns the width mask for an n-bit value.
func mask(n uint) uint64 {
	assert(n >= 1 && n <= Width64, "invalid width %d", n)
	return ^uint64(0) >> (64 - n)
}

// signVal interprets the n-bit pattern v as a two's-complement value.
func signVal(v uint64, n uint) int64 {
	if n < Width64 && v&(uint64(1)<<(n-1)) != 0 {
		return int64(v | ^mask(n))
	}
	return int64(v)
}

// Const is a concrete two's-complement constant. The payload is stored
// as the masked bit pattern; the sign flag selects the interpretation
// returned by Value.
type Const struct {
	v    uint64
	size uint
	sf   bool
}

// NewConst returns a constant holding v truncated to size bits. Negative
// v marks the constant signed.
func NewConst(v int64, size uint) *Const {
	return &Const{v: uint64(v) & mask(size), size: size, sf: v < 0}
}

// NewUConst returns an unsigned constant holding v truncated to size
// bits.
func NewUConst(v uint64, size uint) *Const {
	return &Const{v: v & mask(size), size: size}
}

// Bool returns the 1-bit constant for b.
func Bool(b bool) *Const {
	if b {
		return &Const{v: 1, size: 1}
	}
	return &Const{size: 1}
}

// Size returns the bit width of the expression.
func (e *Const) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Const) SignFlag() bool { return e.sf }

// Raw returns the bit pattern, zero-extended to 64 bits.
func (e *Const) Raw() uint64 { return e.v }

// Value returns the constant interpreted per its sign flag.
func (e *Const) Value() int64 {
	if e.sf {
		return signVal(e.v, e.size)
	}
	return int64(e.v)
}

// Eval returns the constant itself.
func (e *Const) Eval(env Env) Expr { return e }

// Simplify returns the constant itself.
func (e *Const) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *Const) String() string { return fmt.Sprintf("%#x", e.Value()) }

// Toks returns the pretty-printing token stream.
func (e *Const) Toks() []Token {
	return []Token{{Kind: TokConstant, Text: e.String()}}
}

// bit returns the i-th bit of the constant as a 1-bit constant.
func (e *Const) bit(i uint) *Const {
	assert(i < e.size, "bit %d out of %d-bit constant", i, e.size)
	return &Const{v: (e.v >> i) & 1, size: 1}
}

// slice returns bits [start,stop) of the constant.
func (e *Const) slice(start, stop uint) *Const {
	if start >= stop || stop > e.size {
		failf(ErrBounds, "const slice [%d:%d] of %d bits", start, stop, e.size)
	}
	return &Const{v: (e.v >> start) & mask(stop - start), size: stop - start}
}

// zext returns the constant zero-extended to size bits.
func (e *Const) zext(size uint) *Const {
	assert(size >= e.size, "cannot zero-extend %d bits to %d", e.size, size)
	return &Const{v: e.v, size: size}
}

// sext returns the constant sign-extended to size bits.
func (e *Const) sext(size uint) *Const {
	assert(size >= e.size, "cannot sign-extend %d bits to %d", e.size, size)
	return &Const{v: uint64(signVal(e.v, e.size)) & mask(size), size: size, sf: true}
}

// Float is a concrete floating-point constant tagged with a bit width.
// Unlike Const, its arithmetic is not masked.
type Float struct {
	v    float64
	size uint
}

// NewFloat returns a float constant of the given width.
func NewFloat(v float64, size uint) *Float {
	return &Float{v: v, size: size}
}

// Size returns the bit width of the expression.
func (e *Float) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
// Floats are always signed.
func (e *Float) SignFlag() bool { return true }

// Value returns the float payload.
func (e *Float) Value() float64 { return e.v }

// Eval returns the constant itself.
func (e *Float) Eval(env Env) Expr { return e }

// Simplify returns the constant itself.
func (e *Float) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *Float) String() string {
	return strconv.FormatFloat(e.v, 'g', -1, 64)
}

// Toks returns the pretty-printing token stream.
func (e *Float) Toks() []Token {
	return []Token{{Kind: TokConstant, Text: e.String()}}
}

// Sym is a constant with a display name. It folds like the constant it
// wraps but prints as #name.
type Sym struct {
	c   Const
	ref string
}

// NewSym returns a named constant.
func NewSym(ref string, v int64, size uint) *Sym {
	return &Sym{c: *NewConst(v, size), ref: ref}
}

// Ref returns the symbol name.
func (e *Sym) Ref() string { return e.ref }

// Size returns the bit width of the expression.
func (e *Sym) Size() uint { return e.c.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Sym) SignFlag() bool { return e.c.sf }

// Raw returns the bit pattern, zero-extended to 64 bits.
func (e *Sym) Raw() uint64 { return e.c.v }

// Value returns the constant interpreted per its sign flag.
func (e *Sym) Value() int64 { return e.c.Value() }

// Eval returns the symbol itself.
func (e *Sym) Eval(env Env) Expr { return e }

// Simplify returns the symbol itself.
func (e *Sym) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *Sym) String() string { return "#" + e.ref }

// Toks returns the pretty-printing token stream.
func (e *Sym) Toks() []Token {
	return []Token{{Kind: TokName, Text: e.String()}}
}
