package casym

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Expr represents a symbolic expression node. Expressions are immutable
// by convention: simplification and evaluation return new nodes and never
// patch a child that may be shared by another tree. The only sanctioned
// in-place rewrite is Comp's bit-partition update while the Comp is still
// exclusively owned by its builder.
type Expr interface {
	// Size returns the bit width of the expression.
	Size() uint

	// SignFlag reports whether the expression is interpreted as signed.
	SignFlag() bool

	// Eval resolves locations through env and folds the result.
	Eval(env Env) Expr

	// Simplify rewrites the expression using algebraic identities,
	// bounded by the complexity threshold in o.
	Simplify(o SimplifyOptions) Expr

	// Toks returns the pretty-printing token stream.
	Toks() []Token

	// String returns the canonical display form. Two expressions are
	// structurally equal iff their canonical forms and sizes match.
	String() string

	expr()
}

func (*Void) expr()    {}
func (*Top) expr()     {}
func (*Const) expr()   {}
func (*Float) expr()   {}
func (*Sym) expr()     {}
func (*Reg) expr()     {}
func (*Ext) expr()     {}
func (*Label) expr()   {}
func (*Comp) expr()    {}
func (*Ptr) expr()     {}
func (*Mem) expr()     {}
func (*Slice) expr()   {}
func (*Cond) expr()    {}
func (*Binary) expr()  {}
func (*Unary) expr()   {}
func (*Vec) expr()     {}
func (*WideVec) expr() {}

// IsTop returns true if expr is the absorbing unknown value. A widened
// vector counts: it behaves as Top for all algebraic purposes.
func IsTop(e Expr) bool {
	switch e.(type) {
	case *Top, *WideVec:
		return true
	}
	return false
}

// IsDefined returns true if expr carries a value: neither Top nor an
// undefined placeholder.
func IsDefined(e Expr) bool {
	switch e.(type) {
	case *Top, *WideVec, *Void, nil:
		return false
	}
	return true
}

// IsConst returns true if expr is a concrete value (integer constant,
// float constant or named symbol).
func IsConst(e Expr) bool {
	switch e.(type) {
	case *Const, *Sym, *Float:
		return true
	}
	return false
}

// IsReg returns true if expr is register-like: a register, an external
// or label reference, or a slice of one.
func IsReg(e Expr) bool {
	switch e := e.(type) {
	case *Reg, *Ext, *Label:
		return true
	case *Slice:
		return IsReg(e.x)
	}
	return false
}

// IsExt returns true if expr is an external-symbol or label reference.
func IsExt(e Expr) bool {
	switch e.(type) {
	case *Ext, *Label:
		return true
	}
	return false
}

// constOf returns the integer constant payload of expr, unwrapping named
// symbols.
func constOf(e Expr) (*Const, bool) {
	switch e := e.(type) {
	case *Const:
		return e, true
	case *Sym:
		return &e.c, true
	}
	return nil, false
}

// withSign returns expr reinterpreted with the given sign flag. Nodes
// for which signedness is meaningless (Top, Void, Ptr, Float) are
// returned unchanged.
func withSign(e Expr, sf bool) Expr {
	if e == nil || e.SignFlag() == sf {
		return e
	}
	switch e := e.(type) {
	case *Const:
		c := *e
		c.sf = sf
		return &c
	case *Sym:
		s := *e
		s.c.sf = sf
		return &s
	case *Reg:
		r := *e
		r.sf = sf
		return &r
	case *Ext:
		x := *e
		x.sf = sf
		return &x
	case *Label:
		l := *e
		l.sf = sf
		return &l
	case *Comp:
		c := e.copy()
		c.sf = sf
		return c
	case *Mem:
		m := *e
		m.sf = sf
		return &m
	case *Slice:
		s := *e
		s.sf = sf
		return &s
	case *Cond:
		c := *e
		c.sf = sf
		return &c
	case *Binary:
		b := *e
		b.sf = sf
		return &b
	case *Unary:
		u := *e
		u.sf = sf
		return &u
	case *Vec:
		v := *e
		v.sf = sf
		return &v
	default:
		return e
	}
}

// Signed returns expr interpreted as signed.
func Signed(e Expr) Expr { return withSign(e, true) }

// Unsigned returns expr interpreted as unsigned.
func Unsigned(e Expr) Expr { return withSign(e, false) }

// ExprBool coerces expr to a boolean verdict. Only the 1-bit constant
// one is true; every other expression, including wider constants and
// symbolic comparisons, is false.
func ExprBool(e Expr) bool {
	c, ok := e.(*Const)
	return ok && c.size == 1 && c.v == 1
}

// StructurallyEqual reports whether a and b print to the same canonical
// form at the same width. This is syntactic equality, used for canonical
// ordering and deduplication; build a comparison operator node when the
// semantic question is wanted.
func StructurallyEqual(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Size() == b.Size() && a.String() == b.String()
}

// ExprHash returns a digest of the canonical form of expr, usable as a
// fast pre-filter for StructurallyEqual.
func ExprHash(e Expr) uint64 {
	return xxhash.Sum64String(e.String()) + uint64(e.Size())
}

// Symbols returns the register-like leaves contained in expr, in
// left-to-right order. Duplicates are kept.
func Symbols(e Expr) []Expr {
	switch e := e.(type) {
	case nil, *Void, *Top, *Const, *Sym, *Float:
		return nil
	case *Reg:
		return []Expr{e}
	case *Ext:
		return []Expr{e}
	case *Label:
		return []Expr{e}
	case *Mem:
		return Symbols(e.a.base)
	case *Ptr:
		return Symbols(e.base)
	case *Binary:
		return append(Symbols(e.L), Symbols(e.R)...)
	case *Unary:
		return Symbols(e.X)
	case *Cond:
		s := Symbols(e.C)
		s = append(s, Symbols(e.L)...)
		return append(s, Symbols(e.R)...)
	case *Slice:
		return Symbols(e.x)
	case *Comp:
		var s []Expr
		for _, k := range e.sortedKeys() {
			s = append(s, Symbols(e.parts[k])...)
		}
		return s
	case *Vec:
		var s []Expr
		for _, x := range e.list {
			s = append(s, Symbols(x)...)
		}
		return s
	case *WideVec:
		var s []Expr
		for _, x := range e.list {
			s = append(s, Symbols(x)...)
		}
		return s
	default:
		failf(ErrType, "symbols: unexpected node %T", e)
		return nil
	}
}

// Locations returns the resolvable locations (registers, externals,
// memory reads, pointers) contained in expr.
func Locations(e Expr) []Expr {
	switch e := e.(type) {
	case nil, *Void, *Top, *Const, *Sym, *Float:
		return nil
	case *Reg:
		return []Expr{e}
	case *Ext:
		return []Expr{e}
	case *Label:
		return []Expr{e}
	case *Mem:
		return []Expr{e}
	case *Ptr:
		return []Expr{e}
	case *Binary:
		return append(Locations(e.L), Locations(e.R)...)
	case *Unary:
		return Locations(e.X)
	case *Cond:
		s := Locations(e.C)
		s = append(s, Locations(e.L)...)
		return append(s, Locations(e.R)...)
	case *Slice:
		return Locations(e.x)
	case *Comp:
		var s []Expr
		for _, k := range e.sortedKeys() {
			s = append(s, Locations(e.parts[k])...)
		}
		return s
	case *Vec:
		var s []Expr
		for _, x := range e.list {
			s = append(s, Locations(x)...)
		}
		return s
	case *WideVec:
		var s []Expr
		for _, x := range e.list {
			s = append(s, Locations(x)...)
		}
		return s
	default:
		failf(ErrType, "locations: unexpected node %T", e)
		return nil
	}
}

// symkey returns the joined names of the symbols in expr. It drives the
// lexical canonical ordering of non-constant operands.
func symkey(e Expr) string {
	s := ""
	for _, x := range Symbols(e) {
		s += x.String()
	}
	return s
}

// Depth returns the depth measure of the expression tree. Top and
// widened vectors are infinitely deep so any complexity bound absorbs
// them immediately.
func Depth(e Expr) float64 {
	switch e := e.(type) {
	case *Top, *WideVec:
		return math.Inf(1)
	case *Binary:
		return Depth(e.L) + Depth(e.R)
	case *Unary:
		return Depth(e.X)
	case *Slice:
		return 2 * Depth(e.x)
	case *Cond:
		return (Depth(e.C) + Depth(e.L) + Depth(e.R)) / 3.0
	case *Comp:
		d := 0.0
		for _, k := range e.sortedKeys() {
			d += Depth(e.parts[k])
		}
		return d
	case *Vec:
		if len(e.list) == 0 {
			return 0
		}
		d := 0.0
		for _, x := range e.list {
			d = math.Max(d, Depth(x))
		}
		return d * float64(len(e.list))
	default:
		return 1.0
	}
}

// Complexity returns the cost measure bounding rewrites: tree depth plus
// symbol count, scaled by the operator class for operator nodes.
func Complexity(e Expr) float64 {
	factor := 1.0
	switch e := e.(type) {
	case *Binary:
		factor = float64(e.prop)
	case *Unary:
		factor = float64(e.prop)
	}
	return (Depth(e) + float64(len(Symbols(e)))) * factor
}

// rng is a half-open bit range [lo,hi). The zero value marks "unset" in
// Comp's ownership index.
type rng struct {
	lo, hi uint
}

func (r rng) empty() bool { return r.lo == r.hi }

// Void is a placeholder of known width with no value yet. It is distinct
// from Top: Void means "never written", Top means "lost to complexity".
type Void struct {
	size uint
}

// NewVoid returns a new undefined placeholder of the given width.
func NewVoid(size uint) *Void { return &Void{size: size} }

// Size returns the bit width of the expression.
func (e *Void) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Void) SignFlag() bool { return false }

// Eval returns the placeholder itself; there is nothing to resolve.
func (e *Void) Eval(env Env) Expr { return e }

// Simplify returns the placeholder itself.
func (e *Void) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *Void) String() string { return fmt.Sprintf("bot%d", e.size) }

// Toks returns the pretty-printing token stream.
func (e *Void) Toks() []Token { return []Token{literal(e.String())} }

// Top is the absorbing unknown of a given width: any operation involving
// Top yields Top of the appropriate width.
type Top struct {
	size uint
}

// NewTop returns a new absorbing unknown of the given width.
func NewTop(size uint) *Top { return &Top{size: size} }

// Size returns the bit width of the expression.
func (e *Top) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Top) SignFlag() bool { return false }

// Eval returns Top; unknown stays unknown.
func (e *Top) Eval(env Env) Expr { return e }

// Simplify returns Top.
func (e *Top) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *Top) String() string { return fmt.Sprintf("top%d", e.size) }

// Toks returns the pretty-printing token stream.
func (e *Top) Toks() []Token { return []Token{literal(e.String())} }
