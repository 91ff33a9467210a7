package casym

import "fmt"

// Byte orders for memory expressions.
const (
	LittleEndian int8 = 1
	BigEndian    int8 = -1
)

// Mod is a pending aliasing write attached to a memory read: when the
// read is evaluated, Loc is assigned Val in a scratch copy of the
// environment before the read resolves.
type Mod struct {
	Loc Expr
	Val Expr
}

// Mem is a symbolic memory read of size bits at a pointer address.
type Mem struct {
	a      *Ptr
	size   uint
	sf     bool
	endian int8
	mods   []Mod
}

// NewMem returns a little-endian memory read of size bits at address a.
func NewMem(a Expr, size uint) *Mem {
	return NewMemEx(a, size, nil, 0, nil, LittleEndian)
}

// NewMemEx returns a memory read with explicit segment, displacement,
// pending writes and byte order.
func NewMemEx(a Expr, size uint, seg Expr, disp int64, mods []Mod, endian int8) *Mem {
	assert(size >= 1, "invalid memory width %d", size)
	if endian != LittleEndian && endian != BigEndian {
		failf(ErrType, "invalid endianness %d", endian)
	}
	return &Mem{a: NewPtr(a, seg, disp), size: size, mods: mods, endian: endian}
}

// Addr returns the read's address evaluated through env, unsigned.
func (e *Mem) Addr(env Env) Expr {
	return Unsigned(e.a.Eval(env))
}

// Ptr returns the address expression.
func (e *Mem) Ptr() *Ptr { return e.a }

// Mods returns the pending aliasing writes.
func (e *Mem) Mods() []Mod { return e.mods }

// Endian returns the byte order (LittleEndian or BigEndian).
func (e *Mem) Endian() int8 { return e.endian }

// Size returns the bit width of the expression.
func (e *Mem) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Mem) SignFlag() bool { return e.sf }

// Eval resolves the read through env. Pending writes replay first into a
// mutation-isolated copy so they shadow the environment for this read
// only; pointer-valued write locations are evaluated before assignment.
func (e *Mem) Eval(env Env) Expr {
	a := e.a.Eval(env)
	m := env
	if len(e.mods) > 0 {
		m = env.Use()
		for _, mod := range e.mods {
			loc := mod.Loc
			if p, ok := loc.(*Ptr); ok {
				// A raw pointer destination is a store of the value's
				// width at that address.
				loc = &Mem{a: toPtr(p.Eval(env)), size: mod.Val.Size(), endian: e.endian}
			}
			m.Assign(loc, mod.Val.Eval(env))
		}
	}
	if IsExt(a) {
		return withSign(a, e.sf)
	}
	key := &Mem{a: toPtr(a), size: e.size, endian: e.endian}
	return withSign(m.Resolve(key), e.sf)
}

func toPtr(a Expr) *Ptr {
	if p, ok := a.(*Ptr); ok {
		return p
	}
	return NewPtr(a, nil, 0)
}

// Simplify simplifies the address. A vector base distributes the read
// over the alternatives, widening when the base is already widened.
func (e *Mem) Simplify(o SimplifyOptions) Expr {
	a, _ := e.a.Simplify(o).(*Ptr)
	if a == nil {
		return e
	}
	distribute := func(list []Expr) []Expr {
		out := make([]Expr, len(list))
		for i, b := range list {
			out[i] = &Mem{
				a:      NewPtr(b, a.seg, a.disp),
				size:   e.size,
				sf:     e.sf,
				endian: e.endian,
				mods:   e.mods,
			}
		}
		return out
	}
	switch b := a.base.(type) {
	case *Vec:
		return NewVec(distribute(b.list))
	case *WideVec:
		return NewWideVec(distribute(b.list))
	}
	return &Mem{a: a, size: e.size, sf: e.sf, endian: e.endian, mods: e.mods}
}

// Bytes returns the read narrowed to bytes [from,to), adjusting the
// displacement and keeping pending writes and byte order.
func (e *Mem) Bytes(from, to uint) *Mem {
	if from >= to || to*8 > e.size {
		failf(ErrBounds, "byte range [%d:%d] of %d-bit read", from, to, e.size)
	}
	return &Mem{
		a:      NewPtr(e.a, nil, int64(from)),
		size:   (to - from) * 8,
		sf:     e.sf,
		endian: e.endian,
		mods:   e.mods,
	}
}

// slice narrows the read to bits [sta,sto), rewriting to a byte-aligned
// narrower read plus a residual bit slice. Byte selection honors the
// byte order: big-endian reads count displacement from the high end.
func (e *Mem) slice(sta, sto uint) Expr {
	b1, r1 := sta/8, sta%8
	b2, r2 := sto/8, sto%8
	if r2 > 0 {
		b2++
	}
	length := e.size / 8
	if e.endian == BigEndian {
		b1, b2 = length-b2, length-b1
	}
	x := &Mem{
		a:      NewPtr(e.a, nil, int64(b1)),
		size:   (b2 - b1) * 8,
		sf:     e.sf,
		endian: e.endian,
		mods:   e.mods,
	}
	if r1 > 0 || r2 > 0 {
		return newSlc(x, r1, sto-sta, "")
	}
	return x
}

// String returns the canonical display form. Pending writes show as a
// $count marker.
func (e *Mem) String() string {
	n := ""
	if len(e.mods) > 0 {
		n = fmt.Sprintf("$%d", len(e.mods))
	}
	return fmt.Sprintf("M%d%s%s", e.size, n, e.a)
}

// Toks returns the pretty-printing token stream.
func (e *Mem) Toks() []Token {
	return []Token{{Kind: TokMemory, Text: e.String()}}
}
