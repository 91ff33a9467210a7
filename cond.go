package casym

import "fmt"

// Cond is a conditional expression: a 1-bit condition selecting between
// two equal-width branches.
type Cond struct {
	C, L, R Expr
	sf      bool
}

// NewCond returns the conditional (c ? l : r). A constant condition
// selects a branch immediately and no node is built.
func NewCond(c, l, r Expr) Expr {
	if cc, ok := c.(*Const); ok && cc.size == 1 {
		if cc.v == 1 {
			return l
		}
		return r
	}
	if c.Size() != 1 {
		failf(ErrSizeMismatch, "condition is %d bits, want 1", c.Size())
	}
	if l.Size() != r.Size() {
		failf(ErrSizeMismatch, "branches: %d != %d bits", l.Size(), r.Size())
	}
	return &Cond{C: c, L: l, R: r}
}

// Size returns the bit width of the expression.
func (e *Cond) Size() uint { return e.L.Size() }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Cond) SignFlag() bool { return e.sf }

// Verify evaluates the condition and checks it against the path
// conditions already asserted in env: an asserted condition settles the
// flag to true, an asserted negation settles it to false. Without a
// solver this check is purely structural.
func (e *Cond) Verify(env Env) Expr {
	flag := e.C.Eval(env)
	if _, ok := constOf(flag); ok {
		return flag
	}
	neg := NewUnOp(OpNot, flag)
	for _, c := range env.Conds() {
		if StructurallyEqual(c, flag) {
			return Bool(true)
		}
		if StructurallyEqual(c, neg) {
			return Bool(false)
		}
	}
	return flag
}

// Eval resolves the condition through Verify and the branches through
// env; a settled condition selects its branch.
func (e *Cond) Eval(env Env) Expr {
	cond := e.Verify(env)
	l := e.L.Eval(env)
	r := e.R.Eval(env)
	return withSign(NewCond(cond, l, r), e.sf)
}

// Simplify simplifies the condition and branches. A widening pass or an
// undefined condition merges the branches into a vector; equal branches
// fold.
func (e *Cond) Simplify(o SimplifyOptions) Expr {
	c := e.C.Simplify(o)
	if o.Widening || !IsDefined(c) {
		// The merge is exhaustive: only these two branches exist, so
		// the vector stays enumerable and is never widened itself.
		vo := o
		vo.Widening = false
		return NewVec([]Expr{e.L, e.R}).Simplify(vo)
	}
	l := e.L.Simplify(o)
	if ExprBool(c) {
		return l
	}
	r := e.R.Simplify(o)
	if cc, ok := c.(*Const); ok && cc.size == 1 && cc.v == 0 {
		return r
	}
	if StructurallyEqual(l, r) {
		return l
	}
	return &Cond{C: c, L: l, R: r, sf: e.sf}
}

// String returns the canonical display form.
func (e *Cond) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.C, e.L, e.R)
}

// Toks returns the pretty-printing token stream.
func (e *Cond) Toks() []Token {
	t := e.C.Toks()
	t = append(t, literal(" ? "))
	t = append(t, e.L.Toks()...)
	t = append(t, literal(" : "))
	return append(t, e.R.Toks()...)
}
