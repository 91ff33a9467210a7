package casym

import "fmt"

// Slice is a bit window [pos,pos+size) over a carrier expression. A
// slice of a register may carry a display alias (al for eax[0:8]) which
// is cached on the register so later slices at the same window inherit
// it.
type Slice struct {
	x    Expr
	pos  uint
	size uint
	sf   bool
	ref  string
}

// newSlc builds the raw node: nested slices collapse, register aliases
// resolve through the carrier's cache.
func newSlc(x Expr, pos, size uint, ref string) *Slice {
	if sx, ok := x.(*Slice); ok {
		pos += sx.pos
		x = sx.x
	}
	e := &Slice{x: x, pos: pos, size: size, sf: x.SignFlag(), ref: ref}
	if r := regOf(x); r != nil {
		k := rng{pos, pos + size}
		if ref == "" {
			e.ref, _ = r.alias(k)
		} else {
			r.setAlias(k, ref)
		}
	}
	return e
}

func regOf(x Expr) *Reg {
	switch x := x.(type) {
	case *Reg:
		return x
	case *Ext:
		return &x.Reg
	case *Label:
		return &x.Reg
	}
	return nil
}

// NewSlice returns x[pos:pos+size] with a display alias. Slicing a
// register registers the alias on it; any other carrier goes through the
// normalizing slicer and the alias is dropped.
func NewSlice(x Expr, pos, size uint, ref string) Expr {
	if pos+size > x.Size() || size == 0 {
		failf(ErrBounds, "slice [%d:%d] of %d bits", pos, pos+size, x.Size())
	}
	if ref != "" && regOf(x) != nil && !(pos == 0 && size == x.Size()) {
		return newSlc(x, pos, size, ref)
	}
	return Slicer(x, pos, size)
}

// Slicer returns the normalized x[pos:pos+size].
func Slicer(x Expr, pos, size uint) Expr {
	return ExprSlice(x, pos, pos+size)
}

// ExprSlice returns bits [start,stop) of e, dispatching on the carrier
// kind: constants narrow, composites and memory reads delegate to their
// own slicing, vectors distribute, undefined values widen to Top.
func ExprSlice(e Expr, start, stop uint) Expr {
	if start >= stop || stop > e.Size() {
		failf(ErrBounds, "slice [%d:%d] of %d bits", start, stop, e.Size())
	}
	if w, ok := e.(*WideVec); ok {
		list := make([]Expr, len(w.list))
		for i, m := range w.list {
			list[i] = ExprSlice(m, start, stop)
		}
		return NewWideVec(list)
	}
	if !IsDefined(e) {
		return NewTop(stop - start)
	}
	if start == 0 && stop == e.Size() {
		return e
	}
	switch x := e.(type) {
	case *Const:
		return x.slice(start, stop)
	case *Sym:
		return x.c.slice(start, stop)
	case *Float:
		failf(ErrType, "cannot slice a float")
	case *Mem:
		return withSign(x.slice(start, stop), x.sf)
	case *Comp:
		return withSign(x.slice(start, stop), x.sf)
	case *Vec:
		list := make([]Expr, len(x.list))
		for i, m := range x.list {
			list[i] = ExprSlice(m, start, stop)
		}
		return NewVec(list)
	case *Slice:
		return ExprSlice(x.x, x.pos+start, x.pos+stop)
	}
	return newSlc(e, start, stop-start, "")
}

// Bit returns the i-th bit of e.
func Bit(e Expr, i uint) Expr {
	return ExprSlice(e, i, i+1)
}

// Bytes returns bytes [from,to) of e. Memory reads narrow through their
// own byte selection so the byte order is honored; any other expression
// slices at bit granularity.
func Bytes(e Expr, from, to uint) Expr {
	if m, ok := e.(*Mem); ok {
		return m.Bytes(from, to)
	}
	return ExprSlice(e, from*8, to*8)
}

// ZeroExtend returns e widened to size bits with zero high bits.
func ZeroExtend(e Expr, size uint) Expr {
	return extendExpr(e, size, false)
}

// SignExtend returns e widened to size bits, duplicating the sign bit.
// For a symbolic carrier the high bits become a conditional on the sign
// bit.
func SignExtend(e Expr, size uint) Expr {
	return extendExpr(e, size, true)
}

func extendExpr(e Expr, size uint, signed bool) Expr {
	if size < e.Size() {
		failf(ErrSizeMismatch, "cannot extend %d bits to %d", e.Size(), size)
	}
	if size == e.Size() {
		return e
	}
	switch x := e.(type) {
	case *Const:
		if signed {
			return x.sext(size)
		}
		return x.zext(size)
	case *Sym:
		if signed {
			return x.c.sext(size)
		}
		return x.c.zext(size)
	case *Top:
		return NewTop(size)
	case *Void:
		return NewVoid(size)
	}
	pad := size - e.Size()
	var hi Expr
	if signed {
		sign := Bit(e, e.Size()-1)
		hi = NewCond(sign, NewConst(-1, pad), NewUConst(0, pad))
	} else {
		hi = NewUConst(0, pad)
	}
	return withSign(Composer([]Expr{e, hi}), signed)
}

// Carrier returns the sliced expression.
func (e *Slice) Carrier() Expr { return e.x }

// Pos returns the start bit of the window.
func (e *Slice) Pos() uint { return e.pos }

// Ref returns the display alias, or "".
func (e *Slice) Ref() string { return e.ref }

// Raw returns the canonical window name, ignoring any display alias.
// Environment bindings key slices by this form so al and eax[0:8] are
// the same location.
func (e *Slice) Raw() string {
	return fmt.Sprintf("%s[%d:%d]", e.x, e.pos, e.pos+e.size)
}

// Size returns the bit width of the expression.
func (e *Slice) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Slice) SignFlag() bool { return e.sf }

// Eval evaluates the carrier and narrows the result.
func (e *Slice) Eval(env Env) Expr {
	n := e.x.Eval(env)
	return withSign(ExprSlice(n, e.pos, e.pos+e.size), e.sf)
}

// Simplify pushes the window into the carrier: constants and composites
// narrow directly, byte-aligned memory windows become narrower reads,
// bitwise operations and low-bit arithmetic distribute, vectors
// distribute per member.
func (e *Slice) Simplify(o SimplifyOptions) Expr {
	x := e.x.Simplify(o)
	if !IsDefined(x) {
		return NewTop(e.size)
	}
	switch xe := x.(type) {
	case *Const:
		return withSign(xe.slice(e.pos, e.pos+e.size), e.sf)
	case *Sym:
		return withSign(xe.c.slice(e.pos, e.pos+e.size), e.sf)
	case *Comp:
		return withSign(xe.slice(e.pos, e.pos+e.size), e.sf)
	case *Mem:
		return withSign(xe.slice(e.pos, e.pos+e.size), e.sf)
	case *Binary:
		// A window distributes over bitwise operators anywhere, and
		// over add/sub only at bit 0 where carries cannot enter.
		if opClass(xe.Op) == classLogic ||
			((xe.Op == OpAdd || xe.Op == OpSub) && e.pos == 0) {
			l := ExprSlice(xe.L, e.pos, e.pos+e.size)
			r := ExprSlice(xe.R, e.pos, e.pos+e.size)
			return foldOrRebuild(xe.Op, l, r)
		}
	case *Unary:
		if xe.Op == OpNot || (xe.Op == OpSub && e.pos == 0) {
			return eqn1(xe.Op, ExprSlice(xe.X, e.pos, e.pos+e.size), o)
		}
	case *Vec:
		list := make([]Expr, len(xe.list))
		for i, m := range xe.list {
			list[i] = ExprSlice(m, e.pos, e.pos+e.size)
		}
		return NewVec(list)
	}
	if x == e.x {
		return e
	}
	return newSlc(x, e.pos, e.size, "")
}

// String returns the display alias when one exists, else the canonical
// window name.
func (e *Slice) String() string {
	if e.ref != "" {
		return e.ref
	}
	return e.Raw()
}

// Toks returns the pretty-printing token stream.
func (e *Slice) Toks() []Token {
	if IsReg(e.x) {
		return []Token{{Kind: TokRegister, Text: e.String()}}
	}
	t := e.x.Toks()
	return append(t, literal(fmt.Sprintf("[%d:%d]", e.pos, e.pos+e.size)))
}
