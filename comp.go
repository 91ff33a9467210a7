package casym

import (
	"fmt"
	"sort"
	"strings"
)

// Comp is a composite expression: an aggregate of parts, each owning a
// bit range of the whole. Writes cut overlapped parts; reads walk the
// per-bit ownership index. A Comp whose single part covers the full
// width degenerates to that part during simplification.
//
// Unlike every other node, a Comp is built by mutation (Put) while its
// builder still owns it exclusively; Simplify and Eval operate on copies
// so shared composites are never patched.
type Comp struct {
	size  uint
	sf    bool
	parts map[rng]Expr

	// smask maps each bit to the key of the part owning it; the zero
	// rng marks unowned bits.
	smask []rng
}

// NewComp returns an empty composite of the given width.
func NewComp(size uint) *Comp {
	assert(size >= 1, "invalid composite width %d", size)
	return &Comp{
		size:  size,
		parts: map[rng]Expr{},
		smask: make([]rng, size),
	}
}

// Composer assembles parts into a single expression, low significant
// bits first. The last part's sign flag propagates to the result.
func Composer(parts []Expr) Expr {
	assert(len(parts) > 0, "composer of no parts")
	if len(parts) == 1 {
		return parts[0]
	}
	size := uint(0)
	for _, x := range parts {
		size += x.Size()
	}
	c := NewComp(size)
	c.sf = parts[len(parts)-1].SignFlag()
	pos := uint(0)
	for _, x := range parts {
		c.Put(pos, pos+x.Size(), x)
		pos += x.Size()
	}
	return c.Simplify(DefaultOptions())
}

// Size returns the bit width of the expression.
func (e *Comp) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Comp) SignFlag() bool { return e.sf }

func (e *Comp) copy() *Comp {
	res := NewComp(e.size)
	res.sf = e.sf
	copy(res.smask, e.smask)
	for k, v := range e.parts {
		res.parts[k] = v
	}
	return res
}

func (e *Comp) sortedKeys() []rng {
	keys := make([]rng, 0, len(e.parts))
	for k := range e.parts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].lo < keys[j].lo })
	return keys
}

// Put writes v into bits [start,stop), cutting any overlapped parts.
// Nested composites are flattened so a Comp never contains a Comp.
func (e *Comp) Put(start, stop uint, v Expr) {
	if start >= stop || stop > e.size {
		failf(ErrBounds, "composite write [%d:%d] of %d bits", start, stop, e.size)
	}
	if v.Size() != stop-start {
		failf(ErrSizeMismatch, "composite write [%d:%d] with %d-bit value", start, stop, v.Size())
	}
	if vc, ok := v.(*Comp); ok {
		for _, k := range vc.sortedKeys() {
			e.Put(start+k.lo, start+k.hi, vc.parts[k])
		}
		return
	}
	k := rng{start, stop}
	if _, ok := e.parts[k]; ok {
		e.parts[k] = v
		return
	}
	e.parts[k] = v
	e.cut(start, stop)
}

// cut splits the parts spanning over the [start,stop) bounds, keeping
// their outer halves, and claims the range in the ownership index.
func (e *Comp) cut(start, stop uint) {
	var maskset []rng
	for _, k := range e.smask[start:stop] {
		if k.empty() {
			continue
		}
		seen := false
		for _, m := range maskset {
			if m == k {
				seen = true
				break
			}
		}
		if !seen && k != (rng{start, stop}) {
			maskset = append(maskset, k)
		}
	}
	for _, k := range maskset {
		v := e.parts[k]
		delete(e.parts, k)
		if k.lo < start {
			left := rng{k.lo, start}
			e.parts[left] = ExprSlice(v, 0, start-k.lo)
			e.claim(left)
		}
		if k.hi > stop {
			right := rng{stop, k.hi}
			e.parts[right] = ExprSlice(v, stop-k.lo, k.hi-k.lo)
			e.claim(right)
		}
	}
	e.claim(rng{start, stop})
}

func (e *Comp) claim(k rng) {
	for i := k.lo; i < k.hi; i++ {
		e.smask[i] = k
	}
}

// slice reads bits [start,stop) by walking the ownership index. An
// exact-key read returns the part itself; a fully unset range stays a
// symbolic slice of the composite.
func (e *Comp) slice(start, stop uint) Expr {
	if start >= stop || stop > e.size {
		failf(ErrBounds, "composite read [%d:%d] of %d bits", start, stop, e.size)
	}
	if p, ok := e.parts[rng{start, stop}]; ok {
		return p
	}
	if start == 0 && stop == e.size {
		return e.copy()
	}
	l := stop - start
	res := NewComp(l)
	res.sf = e.sf
	b, cur := uint(0), start
	for b < l {
		idx := e.smask[cur]
		if idx.empty() {
			b++
			cur++
			continue
		}
		s := e.parts[idx]
		deb := cur - idx.lo
		fin := idx.hi
		if stop < fin {
			fin = stop
		}
		fin -= idx.lo
		d := fin - deb
		res.Put(b, b+d, ExprSlice(s, deb, fin))
		b += d
		cur += d
	}
	res.restruct()
	if len(res.parts) == 0 {
		return newSlc(e, start, stop-start, "")
	}
	if len(res.parts) == 1 {
		for _, v := range res.parts {
			return v
		}
	}
	return res
}

// restruct merges adjacent constant parts (low bits first) and adjacent
// undefined parts into Top, repeating until a fixed point.
func (e *Comp) restruct() {
	for {
		keys := e.sortedKeys()
		merged := false
		for i := 0; i+1 < len(keys); i++ {
			ra, rb := keys[i], keys[i+1]
			if ra.hi != rb.lo {
				continue
			}
			na, nb := e.parts[ra], e.parts[rb]
			if ca, ok := constOf(na); ok {
				if cb, ok := constOf(nb); ok {
					size := ca.size + cb.size
					v := (cb.v << ca.size) | ca.v
					e.merge(ra, rb, &Const{v: v & mask(size), size: size})
					merged = true
					break
				}
			}
			if !IsDefined(na) && !IsDefined(nb) {
				e.merge(ra, rb, NewTop(rb.hi-ra.lo))
				merged = true
				break
			}
		}
		if !merged {
			return
		}
	}
}

func (e *Comp) merge(ra, rb rng, v Expr) {
	delete(e.parts, ra)
	delete(e.parts, rb)
	k := rng{ra.lo, rb.hi}
	e.parts[k] = v
	e.claim(k)
}

// Eval evaluates each part against env on a copy, then merges and
// degenerates the result.
func (e *Comp) Eval(env Env) Expr {
	res := e.copy()
	for k, v := range res.parts {
		res.parts[k] = v.Eval(env)
	}
	res.restruct()
	if p, ok := res.parts[rng{0, res.size}]; ok {
		return withSign(p, res.sf)
	}
	return res
}

// Simplify simplifies each part on a copy, merges adjacent constants,
// and degenerates to the single full-width part when one exists.
func (e *Comp) Simplify(o SimplifyOptions) Expr {
	res := e.copy()
	for k, v := range res.parts {
		res.parts[k] = v.Simplify(o)
	}
	res.restruct()
	if p, ok := res.parts[rng{0, res.size}]; ok {
		return p
	}
	return res
}

// String returns the canonical display form.
func (e *Comp) String() string {
	var b strings.Builder
	b.WriteString("{ |")
	for _, k := range e.sortedKeys() {
		fmt.Fprintf(&b, " [%d:%d]->%s |", k.lo, k.hi, e.parts[k])
	}
	b.WriteString(" }")
	return b.String()
}

// Toks returns the pretty-printing token stream.
func (e *Comp) Toks() []Token {
	t := []Token{literal("{")}
	for i, k := range e.sortedKeys() {
		if i > 0 {
			t = append(t, literal(", "))
		}
		t = append(t, literal(fmt.Sprintf("[%2d:%2d] -> ", k.lo, k.hi)))
		t = append(t, e.parts[k].Toks()...)
	}
	return append(t, literal("}"))
}
