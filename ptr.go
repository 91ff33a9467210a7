package casym

import "fmt"

// Ptr is a memory address: a symbolic base expression, an integer byte
// displacement and an optional segment register. Construction keeps the
// base offset-free: constant offsets inside the base are folded into the
// displacement, and a pointer base collapses into this pointer.
type Ptr struct {
	base Expr
	seg  Expr
	disp int64
	size uint
}

// NewPtr returns a normalized pointer over base. A nil seg inherits the
// base pointer's segment when base is itself a pointer.
func NewPtr(base, seg Expr, disp int64) *Ptr {
	if b, ok := base.(*Ptr); ok {
		if seg == nil {
			seg = b.seg
		}
		disp += b.disp
		base = b.base
	}
	b, off := ExtractOffset(base)
	return &Ptr{base: b, seg: seg, disp: disp + off, size: base.Size()}
}

func newPtrDisp(p *Ptr, disp int64) *Ptr {
	return NewPtr(p, nil, disp)
}

// Base returns the offset-free base expression.
func (e *Ptr) Base() Expr { return e.base }

// Seg returns the segment register, or nil.
func (e *Ptr) Seg() Expr { return e.seg }

// Disp returns the byte displacement.
func (e *Ptr) Disp() int64 { return e.disp }

// Size returns the bit width of the expression.
func (e *Ptr) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
// Addresses are unsigned.
func (e *Ptr) SignFlag() bool { return false }

// Eval resolves the base through env. An external base short-circuits:
// the address of an import stays the import itself.
func (e *Ptr) Eval(env Env) Expr {
	a := e.base.Eval(env)
	if IsExt(a) {
		return a
	}
	return NewPtr(a, e.seg, e.disp)
}

// Simplify re-extracts any constant offset exposed by simplifying the
// base. An undefined base clears the displacement.
func (e *Ptr) Simplify(o SimplifyOptions) Expr {
	base, off := ExtractOffset(e.base.Simplify(o))
	disp := e.disp + off
	seg := e.seg
	if seg != nil {
		seg = seg.Simplify(o)
	}
	if !IsDefined(base) {
		disp = 0
	}
	return &Ptr{base: base, seg: seg, disp: disp, size: e.size}
}

// String returns the canonical display form.
func (e *Ptr) String() string {
	seg := ""
	if e.seg != nil {
		seg = e.seg.String()
	}
	if e.disp == 0 {
		return fmt.Sprintf("%s(%s)", seg, e.base)
	}
	return fmt.Sprintf("%s(%s%+d)", seg, e.base, e.disp)
}

// Toks returns the pretty-printing token stream.
func (e *Ptr) Toks() []Token {
	return []Token{{Kind: TokAddress, Text: e.String()}}
}
