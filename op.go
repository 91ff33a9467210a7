package casym

import (
	"math/bits"
)

// OpSym is an operator symbol. The set is closed; constructing an
// operator node with an unknown symbol panics.
type OpSym string

// Operator symbols. OpMul2 is the widening multiply (result width is
// twice the operand width). OpAsr is the arithmetic (sign-preserving)
// right shift; OpShr is logical. OpLtu/OpGeu are the unsigned
// comparisons, OpLt/OpGe the sign-aware ones.
const (
	OpAdd  OpSym = "+"
	OpSub  OpSym = "-"
	OpMul  OpSym = "*"
	OpMul2 OpSym = "**"
	OpDiv  OpSym = "/"
	OpMod  OpSym = "%"
	OpAnd  OpSym = "&"
	OpOr   OpSym = "|"
	OpXor  OpSym = "^"
	OpNot  OpSym = "~"
	OpEq   OpSym = "=="
	OpNe   OpSym = "!="
	OpLe   OpSym = "<="
	OpGe   OpSym = ">="
	OpGeu  OpSym = ">=."
	OpLt   OpSym = "<"
	OpLtu  OpSym = "<."
	OpGt   OpSym = ">"
	OpShl  OpSym = "<<"
	OpShr  OpSym = ">>"
	OpAsr  OpSym = ".>>"
	OpRor  OpSym = ">>>"
	OpRol  OpSym = "<<<"
)

// Operator classes. The class doubles as the complexity factor of the
// node and gates the canonical-ordering rules.
const (
	classArith   = 1
	classLogic   = 2
	classCompare = 4
	classShift   = 8
)

func opClass(sym OpSym) uint {
	switch sym {
	case OpAdd, OpSub, OpMul, OpMul2, OpDiv, OpMod:
		return classArith
	case OpAnd, OpOr, OpXor, OpNot:
		return classLogic
	case OpEq, OpNe, OpLe, OpGe, OpGeu, OpLt, OpLtu, OpGt:
		return classCompare
	case OpShl, OpShr, OpAsr, OpRor, OpRol:
		return classShift
	}
	failf(ErrType, "unknown operator %q", sym)
	return 0
}

// opUnsigned reports whether the operator coerces its operands to an
// unsigned interpretation.
func opUnsigned(sym OpSym) bool {
	switch sym {
	case OpAnd, OpOr, OpXor, OpNot, OpGeu, OpLtu:
		return true
	}
	return false
}

// combine merges two additive symbols: ++ and -- make +, +- and -+
// make -. Any other pair does not combine.
func combine(a, b OpSym) (OpSym, bool) {
	switch {
	case a == OpAdd && b == OpAdd, a == OpSub && b == OpSub:
		return OpAdd, true
	case a == OpAdd && b == OpSub, a == OpSub && b == OpAdd:
		return OpSub, true
	}
	return "", false
}

// negCompare maps each comparison to its logical negation.
func negCompare(sym OpSym) OpSym {
	switch sym {
	case OpEq:
		return OpNe
	case OpNe:
		return OpEq
	case OpLt:
		return OpGe
	case OpGt:
		return OpLe
	case OpLtu:
		return OpGeu
	case OpGeu:
		return OpLtu
	case OpLe:
		return OpGt
	case OpGe:
		return OpLt
	}
	failf(ErrType, "cannot negate operator %q", sym)
	return ""
}

// opSize returns the result width of sym applied to an operand of l's
// width.
func opSize(sym OpSym, l Expr) uint {
	if opClass(sym) == classCompare {
		return 1
	}
	if sym == OpMul2 {
		return l.Size() * 2
	}
	return l.Size()
}

func childProp(e Expr) uint {
	switch e := e.(type) {
	case *Binary:
		return e.prop
	case *Unary:
		return e.prop
	}
	return 0
}

// Binary is a two-operand operator node.
type Binary struct {
	Op   OpSym
	L, R Expr
	prop uint
	size uint
	sf   bool
}

// newBinary builds the raw node, checking widths and computing the
// result width, sign and class. It performs no rewriting.
func newBinary(sym OpSym, l, r Expr) *Binary {
	cls := opClass(sym)
	// A zero width is unconstrained and matches anything.
	if cls <= classCompare && l.Size() > 0 && r.Size() > 0 && l.Size() != r.Size() {
		failf(ErrSizeMismatch, "%q operands: %d != %d bits", sym, l.Size(), r.Size())
	}
	sf := l.SignFlag()
	if cls == classArith {
		sf = sf || r.SignFlag()
	}
	if opUnsigned(sym) {
		l, r = Unsigned(l), Unsigned(r)
		sf = false
	}
	return &Binary{
		Op:   sym,
		L:    l,
		R:    r,
		prop: cls | childProp(l) | childProp(r),
		size: opSize(sym, l),
		sf:   sf,
	}
}

// Unary is a one-operand operator node: negation or bitwise not.
type Unary struct {
	Op   OpSym
	X    Expr
	prop uint
	size uint
	sf   bool
}

func newUnary(sym OpSym, x Expr) *Unary {
	var cls uint
	switch sym {
	case OpAdd, OpSub:
		cls = classArith
	case OpNot:
		cls = classLogic
	default:
		failf(ErrType, "unknown unary operator %q", sym)
	}
	sf := x.SignFlag()
	if sym == OpNot {
		x = Unsigned(x)
		sf = false
	}
	return &Unary{Op: sym, X: x, prop: cls | childProp(x), size: x.Size(), sf: sf}
}

// NewOp builds the binary operation sym(l, r) and normalizes it with the
// default options. The result may be any node kind: constants fold,
// masks become composites, Top absorbs.
func NewOp(sym OpSym, l, r Expr) Expr {
	return NewOpOpt(sym, l, r, DefaultOptions())
}

// NewOpOpt is NewOp with explicit simplification options.
func NewOpOpt(sym OpSym, l, r Expr, o SimplifyOptions) Expr {
	return newBinary(sym, l, r).Simplify(o)
}

// NewOpC is NewOp with the right operand given as a raw value of the
// left operand's width.
func NewOpC(sym OpSym, l Expr, v uint64) Expr {
	return NewOp(sym, l, NewUConst(v, l.Size()))
}

// NewOpF is NewOp with the right operand given as a float of the left
// operand's width.
func NewOpF(sym OpSym, l Expr, v float64) Expr {
	return NewOp(sym, l, NewFloat(v, l.Size()))
}

// NewUnOp builds the unary operation sym(x) and normalizes it with the
// default options.
func NewUnOp(sym OpSym, x Expr) Expr {
	return NewUnOpOpt(sym, x, DefaultOptions())
}

// NewUnOpOpt is NewUnOp with explicit simplification options.
func NewUnOpOpt(sym OpSym, x Expr, o SimplifyOptions) Expr {
	u := newUnary(sym, x)
	return u.Simplify(o)
}

// Ror rotates x right by n bits.
func Ror(x, n Expr) Expr { return NewOp(OpRor, x, n) }

// Rol rotates x left by n bits.
func Rol(x, n Expr) Expr { return NewOp(OpRol, x, n) }

// Ltu compares x < y unsigned.
func Ltu(x, y Expr) Expr { return NewOp(OpLtu, x, y) }

// Geu compares x >= y unsigned.
func Geu(x, y Expr) Expr { return NewOp(OpGeu, x, y) }

// Size returns the bit width of the expression.
func (e *Binary) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Binary) SignFlag() bool { return e.sf }

// Eval evaluates both operands and folds the operator when the results
// are concrete. No algebraic rewriting happens here.
func (e *Binary) Eval(env Env) Expr {
	res := foldOrRebuild(e.Op, e.L.Eval(env), e.R.Eval(env))
	return withSign(res, e.sf)
}

// Simplify normalizes the node: canonical operand order, constant
// folding, Top absorption, then the binary rewrite rules.
func (e *Binary) Simplify(o SimplifyOptions) Expr {
	sym := e.Op
	l := e.L.Simplify(o)
	r := e.R.Simplify(o)
	if opClass(sym) < classCompare && sym != OpDiv && sym != OpMod {
		if IsTop(l) || IsTop(r) {
			return NewTop(e.size)
		}
		minus := sym == OpSub
		if IsConst(l) {
			if IsConst(r) {
				if f, ok := tryFold(sym, l, r); ok {
					return f
				}
			}
			if minus {
				l, r = eqn1(OpSub, r, o), l
				sym = OpAdd
			} else {
				l, r = r, l
			}
		} else if !IsConst(r) {
			if symkey(l) > symkey(r) {
				if minus {
					l, r = eqn1(OpSub, r, o), l
					sym = OpAdd
				} else {
					l, r = r, l
				}
			}
		}
	}
	return eqn2(sym, l, r, o)
}

// String returns the canonical display form.
func (e *Binary) String() string {
	return "(" + e.L.String() + string(e.Op) + e.R.String() + ")"
}

// Toks returns the pretty-printing token stream.
func (e *Binary) Toks() []Token {
	t := []Token{literal("(")}
	t = append(t, e.L.Toks()...)
	t = append(t, literal(string(e.Op)))
	t = append(t, e.R.Toks()...)
	return append(t, literal(")"))
}

// Size returns the bit width of the expression.
func (e *Unary) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Unary) SignFlag() bool { return e.sf }

// Eval evaluates the operand and folds when it is concrete.
func (e *Unary) Eval(env Env) Expr {
	x := e.X.Eval(env)
	var res Expr
	if c, ok := constOf(x); ok {
		res = unaryFold(e.Op, c)
	} else if f, ok := x.(*Float); ok && e.Op == OpSub {
		res = NewFloat(-f.v, f.size)
	} else {
		res = newUnary(e.Op, x)
	}
	return withSign(res, e.sf)
}

// Simplify normalizes the node with the unary rewrite rules.
func (e *Unary) Simplify(o SimplifyOptions) Expr {
	x := e.X.Simplify(o)
	if IsTop(x) {
		return NewTop(e.size)
	}
	return eqn1(e.Op, x, o)
}

// String returns the canonical display form.
func (e *Unary) String() string {
	return "(" + string(e.Op) + e.X.String() + ")"
}

// Toks returns the pretty-printing token stream.
func (e *Unary) Toks() []Token {
	t := []Token{literal("(" + string(e.Op))}
	t = append(t, e.X.Toks()...)
	return append(t, literal(")"))
}

// foldOrRebuild applies sym to already-evaluated operands: it folds
// concrete operands, absorbs Top, and otherwise rebuilds a raw node
// without further rewriting.
func foldOrRebuild(sym OpSym, l, r Expr) Expr {
	if f, ok := tryFold(sym, l, r); ok {
		return f
	}
	if IsTop(l) || IsTop(r) {
		return NewTop(opSize(sym, l))
	}
	return newBinary(sym, l, r)
}

// tryFold folds sym over two concrete operands. Mixed concrete kinds
// (integer with float) do not fold.
func tryFold(sym OpSym, l, r Expr) (Expr, bool) {
	if cl, ok := constOf(l); ok {
		if cr, ok := constOf(r); ok {
			return constFold(sym, cl, cr), true
		}
		return nil, false
	}
	if fl, ok := l.(*Float); ok {
		if fr, ok := r.(*Float); ok {
			return floatFold(sym, fl, fr), true
		}
	}
	return nil, false
}

// eqn1 rewrites a unary operation over an already-simplified operand.
func eqn1(sym OpSym, x Expr, o SimplifyOptions) Expr {
	if c, ok := constOf(x); ok {
		return unaryFold(sym, c)
	}
	if f, ok := x.(*Float); ok && sym == OpSub {
		return NewFloat(-f.v, f.size)
	}
	switch xe := x.(type) {
	case *Vec:
		list := make([]Expr, len(xe.list))
		for i, m := range xe.list {
			list[i] = eqn1(sym, m, o)
		}
		return newVec(list).Simplify(o)
	case *Unary:
		if ss, ok := combine(sym, xe.Op); ok {
			if ss == OpAdd {
				return xe.X
			}
			return eqn1(OpSub, xe.X, o)
		}
	case *Binary:
		if sym == OpSub && (xe.Op == OpSub || xe.Op == OpAdd) {
			xop, _ := combine(sym, xe.Op)
			return foldOrRebuild(xop, eqn1(OpSub, xe.L, o), xe.R)
		}
		if sym == OpNot && opClass(xe.Op) == classCompare {
			return foldOrRebuild(negCompare(xe.Op), xe.L, xe.R)
		}
	}
	return newUnary(sym, x)
}

// eqn2 rewrites a binary operation over already-simplified, canonically
// ordered operands.
func eqn2(sym OpSym, l, r Expr, o SimplifyOptions) Expr {
	if o.Threshold > 0 {
		if Complexity(r) > o.Threshold {
			r = NewTop(r.Size())
		}
		if Complexity(l) > o.Threshold {
			l = NewTop(l.Size())
		}
	}
	if IsTop(l) || IsTop(r) {
		return NewTop(opSize(sym, l))
	}

	// ((a lop c) sym r): move the inner constant to the right,
	// e := ((a sym r) lop c).
	if lb, ok := l.(*Binary); ok {
		if _, isC := constOf(lb.R); isC {
			if _, ok := combine(sym, lb.Op); ok {
				l2 := foldOrRebuild(sym, lb.L, r)
				sym, l, r = lb.Op, l2, lb.R
			}
		}
	}

	// l + (-r)  →  l - r
	if ur, ok := r.(*Unary); ok && sym == OpAdd && ur.Op == OpSub {
		sym, r = OpSub, ur.X
	}

	// l ± (a ± c)  →  (l ± a) xop c
	if rb, ok := r.(*Binary); ok {
		if _, isC := constOf(rb.R); isC {
			if xop, ok := combine(sym, rb.Op); ok {
				l = foldOrRebuild(sym, l, rb.L)
				r = rb.R
				sym = xop
			}
		}
	}

	if rc, ok := constOf(r); ok {
		if e, ok := eqnRConst(sym, l, rc, o); ok {
			return e
		}
	} else if _, ok := r.(*Float); ok {
		if f, ok := tryFold(sym, l, r); ok {
			return f
		}
	}

	// Vec operands distribute the operation over each alternative.
	if lv, ok := l.(*Vec); ok {
		list := make([]Expr, len(lv.list))
		for i, m := range lv.list {
			list[i] = foldOrRebuild(sym, m, r)
		}
		return newVec(list).Simplify(o)
	}
	if rv, ok := r.(*Vec); ok {
		list := make([]Expr, len(rv.list))
		for i, m := range rv.list {
			list[i] = foldOrRebuild(sym, l, m)
		}
		return newVec(list).Simplify(o)
	}

	// Identical operands fold for idempotent and cancelling operators.
	if l.String() == r.String() {
		switch sym {
		case OpNe, OpLt, OpGt:
			return Bool(false)
		case OpEq, OpLe, OpGe:
			return Bool(true)
		case OpSub, OpXor:
			return NewUConst(0, opSize(sym, l))
		case OpAnd, OpOr:
			return l
		}
	}
	return newBinary(sym, l, r)
}

// eqnRConst rewrites (l sym c) for a constant right operand. The second
// return value is false when no rule applies and the caller should keep
// rewriting.
func eqnRConst(sym OpSym, l Expr, rc *Const, o SimplifyOptions) (Expr, bool) {
	size := opSize(sym, l)
	switch {
	case rc.v == 0:
		switch sym {
		case OpOr, OpXor, OpAdd, OpSub, OpShr, OpShl, OpRor, OpRol:
			return l, true
		case OpAnd, OpMul, OpMul2:
			return NewUConst(0, size), true
		case OpEq:
			// Externals are assumed defined, hence nonzero.
			if IsExt(l) {
				return Bool(false), true
			}
		case OpNe:
			if IsExt(l) {
				return Bool(true), true
			}
		}
	case rc.v == 1 && (sym == OpMul || sym == OpMul2 || sym == OpDiv):
		return l, true
	case sym == OpAnd && isMask(rc.v):
		lsb, msb := lsbMsb(rc.v)
		c := NewComp(l.Size())
		c.Put(0, l.Size(), NewUConst(0, l.Size()))
		c.Put(lsb, msb+1, ExprSlice(l, lsb, msb+1))
		return c.Simplify(o), true
	case o.BitSlice && (sym == OpAnd || sym == OpOr || sym == OpXor):
		parts := make([]Expr, l.Size())
		for i := uint(0); i < l.Size(); i++ {
			parts[i] = foldOrRebuild(sym, Bit(l, i), rc.bit(i))
		}
		return Composer(parts), true
	case o.BitSlice && sym == OpShl:
		n := shiftCount(rc, l.Size())
		parts := make([]Expr, 0, l.Size())
		for i := uint(0); i < n; i++ {
			parts = append(parts, Bool(false))
		}
		for i := uint(0); i < l.Size()-n; i++ {
			parts = append(parts, Bit(l, i))
		}
		return Composer(parts), true
	case o.BitSlice && sym == OpShr:
		n := shiftCount(rc, l.Size())
		parts := make([]Expr, 0, l.Size())
		for i := n; i < l.Size(); i++ {
			parts = append(parts, Bit(l, i))
		}
		for i := uint(0); i < n; i++ {
			parts = append(parts, Bool(false))
		}
		return Composer(parts), true
	case sym == OpShl || sym == OpShr:
		// Constant shift becomes a composite window over l.
		n := uint(rc.v)
		c := NewComp(l.Size())
		c.Put(0, l.Size(), NewUConst(0, l.Size()))
		if l.Size() > n {
			if sym == OpShl {
				c.Put(n, l.Size(), ExprSlice(l, 0, l.Size()-n))
			} else {
				c.Put(0, l.Size()-n, ExprSlice(l, n, l.Size()))
			}
		}
		return c.Simplify(o), true
	}

	switch lx := l.(type) {
	case *Binary:
		if xop, ok := combine(sym, lx.Op); ok {
			// ((a ± c1) ± c2): merge the constants into a single term
			// and rewrite again so a zero term cancels.
			if lc, isC := constOf(lx.R); isC {
				cc := constFold(xop, lc, rc)
				return eqn2(lx.Op, lx.L, cc, o), true
			}
			return newBinary(sym, l, rc), true
		}
		if rc.size == 1 {
			// Comparing a boolean equation against a bit literal
			// keeps the equation or its negation.
			if sym == OpEq {
				if rc.v == 1 {
					return l, true
				}
				return eqn1(OpNot, l, o), true
			}
			if sym == OpNe {
				if rc.v == 1 {
					return eqn1(OpNot, l, o), true
				}
				return l, true
			}
		}
	case *Ptr:
		if sym == OpAdd || sym == OpSub {
			d := rc.Value()
			if sym == OpSub {
				d = -d
			}
			return newPtrDisp(lx, d), true
		}
	case *Comp:
		if sym == OpAnd || sym == OpOr || sym == OpXor {
			cc := NewComp(lx.Size())
			for _, k := range lx.sortedKeys() {
				cc.Put(k.lo, k.hi, foldOrRebuild(sym, lx.parts[k], rc.slice(k.lo, k.hi)))
			}
			return cc.Simplify(o), true
		}
	default:
		if IsConst(l) {
			if f, ok := tryFold(sym, l, rc); ok {
				return f, true
			}
		}
	}
	return nil, false
}

// lsbMsb returns the positions of the lowest and highest set bits of v.
func lsbMsb(v uint64) (lsb, msb uint) {
	assert(v != 0, "lsbMsb of zero")
	return uint(bits.TrailingZeros64(v)), uint(63 - bits.LeadingZeros64(v))
}

// isMask reports whether v is a contiguous run of set bits.
func isMask(v uint64) bool {
	if v == 0 {
		return false
	}
	lsb, msb := lsbMsb(v)
	return (mask(msb+1)^(uint64(1)<<lsb-1)) == v
}

// shiftCount clamps a constant shift amount to the operand width.
func shiftCount(c *Const, width uint) uint {
	n := uint(c.v)
	if n > width {
		return width
	}
	return n
}

// constFold folds sym over two integer constants.
func constFold(sym OpSym, a, b *Const) Expr {
	cls := opClass(sym)
	if cls <= classCompare && a.size != b.size {
		failf(ErrSizeMismatch, "%q operands: %d != %d bits", sym, a.size, b.size)
	}
	size := a.size
	sf := a.sf || b.sf
	switch sym {
	case OpAdd:
		return &Const{v: (a.v + b.v) & mask(size), size: size, sf: sf}
	case OpSub:
		return &Const{v: (a.v - b.v) & mask(size), size: size, sf: sf}
	case OpMul:
		return &Const{v: (a.v * b.v) & mask(size), size: size, sf: sf}
	case OpMul2:
		if 2*size > Width64 {
			return NewTop(2 * size)
		}
		var p uint64
		if sf {
			p = uint64(a.Value() * b.Value())
		} else {
			p = a.v * b.v
		}
		return &Const{v: p & mask(2 * size), size: 2 * size, sf: sf}
	case OpDiv:
		if b.v == 0 {
			failf(ErrEval, "division by zero")
		}
		if sf {
			return &Const{v: uint64(a.Value()/b.Value()) & mask(size), size: size, sf: true}
		}
		return &Const{v: a.v / b.v, size: size}
	case OpMod:
		if b.v == 0 {
			failf(ErrEval, "modulo by zero")
		}
		if sf {
			return &Const{v: uint64(a.Value()%b.Value()) & mask(size), size: size, sf: true}
		}
		return &Const{v: a.v % b.v, size: size}
	case OpAnd:
		return &Const{v: a.v & b.v, size: size}
	case OpOr:
		return &Const{v: a.v | b.v, size: size}
	case OpXor:
		return &Const{v: a.v ^ b.v, size: size}
	case OpEq:
		return Bool(a.v == b.v)
	case OpNe:
		return Bool(a.v != b.v)
	case OpLt, OpLe, OpGt, OpGe:
		return Bool(signedCompare(sym, a, b))
	case OpLtu:
		return Bool(a.v < b.v)
	case OpGeu:
		return Bool(a.v >= b.v)
	case OpShl:
		n := shiftCount(b, Width64)
		return &Const{v: (a.v << n) & mask(size), size: size, sf: a.sf}
	case OpShr:
		n := shiftCount(b, Width64)
		return &Const{v: a.v >> n, size: size}
	case OpAsr:
		n := shiftCount(b, Width64-1)
		return &Const{v: uint64(signVal(a.v, size)>>n) & mask(size), size: size, sf: a.sf}
	case OpRor:
		n := uint(b.v) % size
		return &Const{v: (a.v>>n | a.v<<(size-n)) & mask(size), size: size}
	case OpRol:
		n := uint(b.v) % size
		return &Const{v: (a.v<<n | a.v>>(size-n)) & mask(size), size: size}
	}
	failf(ErrType, "unknown operator %q", sym)
	return nil
}

// signedCompare compares two constants, each interpreted per its own
// sign flag, so a signed negative sorts below any unsigned pattern.
func signedCompare(sym OpSym, a, b *Const) bool {
	lt, eq := constOrder(a, b)
	switch sym {
	case OpLt:
		return lt
	case OpLe:
		return lt || eq
	case OpGt:
		return !lt && !eq
	case OpGe:
		return !lt
	}
	failf(ErrType, "unknown comparison %q", sym)
	return false
}

// constOrder reports whether a sorts before b, and whether they are
// equal, interpreting each constant per its own sign flag.
func constOrder(a, b *Const) (lt, eq bool) {
	an, av := constMag(a)
	bn, bv := constMag(b)
	if an != bn {
		return an, false
	}
	if an {
		// Both negative: the larger magnitude sorts first.
		return av > bv, av == bv
	}
	return av < bv, av == bv
}

// constMag returns the sign and magnitude of a constant per its own
// flag.
func constMag(c *Const) (neg bool, mag uint64) {
	if c.sf {
		if v := signVal(c.v, c.size); v < 0 {
			return true, uint64(-v)
		}
	}
	return false, c.v
}

// floatFold folds sym over two float constants. Bitwise and modular
// operators have no float meaning.
func floatFold(sym OpSym, a, b *Float) Expr {
	if a.size != b.size {
		failf(ErrSizeMismatch, "%q operands: %d != %d bits", sym, a.size, b.size)
	}
	switch sym {
	case OpAdd:
		return NewFloat(a.v+b.v, a.size)
	case OpSub:
		return NewFloat(a.v-b.v, a.size)
	case OpMul, OpMul2:
		return NewFloat(a.v*b.v, a.size)
	case OpDiv:
		if b.v == 0 {
			failf(ErrEval, "division by zero")
		}
		return NewFloat(a.v/b.v, a.size)
	case OpEq:
		return Bool(a.v == b.v)
	case OpNe:
		return Bool(a.v != b.v)
	case OpLt, OpLtu:
		return Bool(a.v < b.v)
	case OpLe:
		return Bool(a.v <= b.v)
	case OpGt:
		return Bool(a.v > b.v)
	case OpGe, OpGeu:
		return Bool(a.v >= b.v)
	}
	failf(ErrEval, "operator %q undefined on floats", sym)
	return nil
}

// unaryFold folds a unary operator over an integer constant.
func unaryFold(sym OpSym, c *Const) Expr {
	switch sym {
	case OpAdd:
		return c
	case OpSub:
		return NewConst(-c.Value(), c.size)
	case OpNot:
		return &Const{v: ^c.v & mask(c.size), size: c.size}
	}
	failf(ErrType, "unknown unary operator %q", sym)
	return nil
}

// ExtractOffset splits e into a base expression and a constant byte
// offset, unsigned-normalized: e == base + offset.
func ExtractOffset(e Expr) (Expr, int64) {
	x := Unsigned(e.Simplify(DefaultOptions()))
	if b, ok := x.(*Binary); ok {
		if c, isC := constOf(b.R); isC {
			switch b.Op {
			case OpAdd:
				return b.L, c.Value()
			case OpSub:
				return b.L, -c.Value()
			}
		}
	}
	return x, 0
}
