package casym

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Wire tags, one per node kind.
const (
	tagVoid byte = iota + 1
	tagTop
	tagConst
	tagFloat
	tagSym
	tagReg
	tagExt
	tagLabel
	tagComp
	tagPtr
	tagMem
	tagSlice
	tagCond
	tagBinary
	tagUnary
	tagVec
	tagWideVec
)

// Marshal serializes e to a compact little-endian binary form. The
// format is tag-based and position-dependent; Unmarshal rebuilds the
// expression through the public constructors so every derived invariant
// (pointer normalization, composite ownership index, register aliases)
// is reconstructed rather than trusted from the wire.
func Marshal(e Expr) []byte {
	var b bytes.Buffer
	encode(&b, e)
	return b.Bytes()
}

func encode(b *bytes.Buffer, e Expr) {
	switch x := e.(type) {
	case *Void:
		b.WriteByte(tagVoid)
		putU32(b, uint32(x.size))
	case *Top:
		b.WriteByte(tagTop)
		putU32(b, uint32(x.size))
	case *Const:
		b.WriteByte(tagConst)
		putU32(b, uint32(x.size))
		putBool(b, x.sf)
		putU64(b, x.v)
	case *Float:
		b.WriteByte(tagFloat)
		putU32(b, uint32(x.size))
		putU64(b, math.Float64bits(x.v))
	case *Sym:
		b.WriteByte(tagSym)
		putString(b, x.ref)
		putU32(b, uint32(x.c.size))
		putBool(b, x.c.sf)
		putU64(b, x.c.v)
	case *Reg:
		b.WriteByte(tagReg)
		encodeReg(b, x)
	case *Ext:
		b.WriteByte(tagExt)
		encodeReg(b, &x.Reg)
	case *Label:
		b.WriteByte(tagLabel)
		encodeReg(b, &x.Reg)
	case *Comp:
		b.WriteByte(tagComp)
		putU32(b, uint32(x.size))
		putBool(b, x.sf)
		keys := x.sortedKeys()
		putU16(b, uint16(len(keys)))
		for _, k := range keys {
			putU32(b, uint32(k.lo))
			putU32(b, uint32(k.hi))
			encode(b, x.parts[k])
		}
	case *Ptr:
		b.WriteByte(tagPtr)
		encode(b, x.base)
		putBool(b, x.seg != nil)
		if x.seg != nil {
			encode(b, x.seg)
		}
		putU64(b, uint64(x.disp))
	case *Mem:
		b.WriteByte(tagMem)
		encode(b, x.a)
		putU32(b, uint32(x.size))
		putBool(b, x.sf)
		b.WriteByte(byte(x.endian))
		putU16(b, uint16(len(x.mods)))
		for _, m := range x.mods {
			encode(b, m.Loc)
			encode(b, m.Val)
		}
	case *Slice:
		b.WriteByte(tagSlice)
		encode(b, x.x)
		putU32(b, uint32(x.pos))
		putU32(b, uint32(x.size))
		putBool(b, x.sf)
		putString(b, x.ref)
	case *Cond:
		b.WriteByte(tagCond)
		putBool(b, x.sf)
		encode(b, x.C)
		encode(b, x.L)
		encode(b, x.R)
	case *Binary:
		b.WriteByte(tagBinary)
		putString(b, string(x.Op))
		putBool(b, x.sf)
		encode(b, x.L)
		encode(b, x.R)
	case *Unary:
		b.WriteByte(tagUnary)
		putString(b, string(x.Op))
		putBool(b, x.sf)
		encode(b, x.X)
	case *Vec:
		b.WriteByte(tagVec)
		putU16(b, uint16(len(x.list)))
		for _, m := range x.list {
			encode(b, m)
		}
	case *WideVec:
		b.WriteByte(tagWideVec)
		putU16(b, uint16(len(x.list)))
		for _, m := range x.list {
			encode(b, m)
		}
	default:
		failf(ErrType, "marshal: unexpected node %T", e)
	}
}

func encodeReg(b *bytes.Buffer, r *Reg) {
	putString(b, r.ref)
	putU32(b, uint32(r.size))
	putBool(b, r.sf)
	putU32(b, uint32(r.cat))
	putU16(b, uint16(len(r.subs)))
	for k, name := range r.subs {
		putU32(b, uint32(k.lo))
		putU32(b, uint32(k.hi))
		putString(b, name)
	}
}

func putU16(b *bytes.Buffer, v uint16) { _ = binary.Write(b, binary.LittleEndian, v) }
func putU32(b *bytes.Buffer, v uint32) { _ = binary.Write(b, binary.LittleEndian, v) }
func putU64(b *bytes.Buffer, v uint64) { _ = binary.Write(b, binary.LittleEndian, v) }

func putBool(b *bytes.Buffer, v bool) {
	if v {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
}

func putString(b *bytes.Buffer, s string) {
	putU16(b, uint16(len(s)))
	b.WriteString(s)
}

// Unmarshal decodes an expression serialized by Marshal. Corrupt input
// returns an error wrapping ErrType.
func Unmarshal(data []byte) (e Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			e = nil
			if de, ok := r.(*Error); ok {
				err = de
			} else {
				err = &Error{Kind: ErrType, Msg: fmt.Sprintf("unmarshal: %v", r)}
			}
		}
	}()
	d := &decoder{r: bytes.NewReader(data)}
	e = d.decode()
	if d.r.Len() > 0 {
		return nil, &Error{Kind: ErrType, Msg: "unmarshal: trailing bytes"}
	}
	return e, nil
}

type decoder struct {
	r *bytes.Reader
}

func (d *decoder) decode() Expr {
	switch tag := d.u8(); tag {
	case tagVoid:
		return NewVoid(d.width())
	case tagTop:
		return NewTop(d.width())
	case tagConst:
		size := d.width()
		sf := d.bool()
		c := NewUConst(d.u64(), size)
		if sf {
			return Signed(c)
		}
		return c
	case tagFloat:
		size := d.width()
		return NewFloat(math.Float64frombits(d.u64()), size)
	case tagSym:
		ref := d.str()
		size := d.width()
		sf := d.bool()
		c := Const{v: d.u64() & mask(size), size: size, sf: sf}
		return &Sym{c: c, ref: ref}
	case tagReg:
		return d.reg(NewReg(d.str(), d.width()))
	case tagExt:
		x := NewExt(d.str(), d.width())
		d.reg(&x.Reg)
		return x
	case tagLabel:
		l := NewLabel(d.str(), d.width())
		d.reg(&l.Reg)
		return l
	case tagComp:
		size := d.width()
		sf := d.bool()
		c := NewComp(size)
		c.sf = sf
		n := d.u16()
		for i := 0; i < n; i++ {
			lo := uint(d.u32())
			hi := uint(d.u32())
			c.Put(lo, hi, d.decode())
		}
		return c
	case tagPtr:
		base := d.decode()
		var seg Expr
		if d.bool() {
			seg = d.decode()
		}
		return NewPtr(base, seg, int64(d.u64()))
	case tagMem:
		p, ok := d.decode().(*Ptr)
		if !ok {
			failf(ErrType, "unmarshal: memory address is not a pointer")
		}
		size := d.width()
		sf := d.bool()
		endian := int8(d.u8())
		mods := make([]Mod, d.u16())
		for i := range mods {
			mods[i] = Mod{Loc: d.decode(), Val: d.decode()}
		}
		if len(mods) == 0 {
			mods = nil
		}
		return withSign(NewMemEx(p, size, nil, 0, mods, endian), sf)
	case tagSlice:
		x := d.decode()
		pos := uint(d.u32())
		size := d.width()
		sf := d.bool()
		ref := d.str()
		return withSign(NewSlice(x, pos, size, ref), sf)
	case tagCond:
		sf := d.bool()
		c := d.decode()
		l := d.decode()
		return withSign(NewCond(c, l, d.decode()), sf)
	case tagBinary:
		sym := OpSym(d.str())
		sf := d.bool()
		l := d.decode()
		return withSign(NewOpOpt(sym, l, d.decode(), SimplifyOptions{}), sf)
	case tagUnary:
		sym := OpSym(d.str())
		sf := d.bool()
		return withSign(NewUnOpOpt(sym, d.decode(), SimplifyOptions{}), sf)
	case tagVec:
		list := make([]Expr, d.u16())
		for i := range list {
			list[i] = d.decode()
		}
		return NewVec(list)
	case tagWideVec:
		list := make([]Expr, d.u16())
		for i := range list {
			list[i] = d.decode()
		}
		return NewWideVec(list)
	default:
		failf(ErrType, "unmarshal: unknown tag %#x", tag)
		return nil
	}
}

// reg fills the post-name fields shared by registers, externals and
// labels.
func (d *decoder) reg(r *Reg) *Reg {
	r.sf = d.bool()
	r.cat = RegCategory(d.u32())
	n := d.u16()
	for i := 0; i < n; i++ {
		lo := uint(d.u32())
		hi := uint(d.u32())
		r.setAlias(rng{lo, hi}, d.str())
	}
	return r
}

func (d *decoder) width() uint {
	size := uint(d.u32())
	if size == 0 || size > Width64*2 {
		failf(ErrType, "unmarshal: invalid width %d", size)
	}
	return size
}

func (d *decoder) u8() byte {
	v, err := d.r.ReadByte()
	if err != nil {
		failf(ErrType, "unmarshal: truncated input")
	}
	return v
}

func (d *decoder) u16() int {
	var v uint16
	d.read(&v)
	return int(v)
}

func (d *decoder) u32() uint32 {
	var v uint32
	d.read(&v)
	return v
}

func (d *decoder) u64() uint64 {
	var v uint64
	d.read(&v)
	return v
}

func (d *decoder) bool() bool { return d.u8() != 0 }

func (d *decoder) str() string {
	n := d.u16()
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		failf(ErrType, "unmarshal: truncated string")
	}
	return string(buf)
}

func (d *decoder) read(v interface{}) {
	if err := binary.Read(d.r, binary.LittleEndian, v); err != nil {
		failf(ErrType, "unmarshal: truncated input")
	}
}
