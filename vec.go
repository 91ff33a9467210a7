package casym

import "strings"

// Vec is a path-merge expression: a list of alternatives for the same
// value, one per merged execution path. All members share one width.
type Vec struct {
	list []Expr
	size uint
	sf   bool
}

// NewVec returns the merge of the given alternatives. The list is kept
// as given; Simplify deduplicates, flattens and bounds it.
func NewVec(list []Expr) *Vec {
	return newVec(list)
}

func newVec(list []Expr) *Vec {
	size := uint(0)
	sf := false
	for _, e := range list {
		if e.Size() > size {
			size = e.Size()
		}
		sf = sf || e.SignFlag()
	}
	for _, e := range list {
		if e.Size() != size {
			failf(ErrSizeMismatch, "vector member: %d != %d bits", e.Size(), size)
		}
	}
	return &Vec{list: list, size: size, sf: sf}
}

// Members returns the alternatives.
func (e *Vec) Members() []Expr { return e.list }

// Size returns the bit width of the expression.
func (e *Vec) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Vec) SignFlag() bool { return e.sf }

// Eval evaluates each alternative.
func (e *Vec) Eval(env Env) Expr {
	list := make([]Expr, len(e.list))
	for i, m := range e.list {
		list[i] = m.Eval(env)
	}
	return newVec(list)
}

// Simplify simplifies each alternative, absorbs into any undefined
// member, flattens nested vectors, deduplicates, unwraps a single
// member, and caps the whole at Top when the cumulative complexity
// exceeds the threshold. A widening pass returns a widened vector.
func (e *Vec) Simplify(o SimplifyOptions) Expr {
	var flat []Expr
	for _, m := range e.list {
		ee := m.Simplify(o)
		if !IsDefined(ee) {
			return ee
		}
		if v, ok := ee.(*Vec); ok {
			flat = append(flat, v.list...)
		} else {
			flat = append(flat, ee)
		}
	}
	var out []Expr
	seen := make(map[string]bool, len(flat))
	for _, x := range flat {
		s := x.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, x)
	}
	if len(out) == 1 {
		return out[0]
	}
	res := newVec(out)
	res.sf = e.sf
	if o.Widening {
		return NewWideVec(out)
	}
	total := 0.0
	for _, x := range out {
		total += Complexity(x)
	}
	if o.Threshold > 0 && total > o.Threshold {
		return NewTop(e.size)
	}
	return res
}

// String returns the canonical display form.
func (e *Vec) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, x := range e.list {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(x.String())
	}
	b.WriteString("]")
	return b.String()
}

// Toks returns the pretty-printing token stream.
func (e *Vec) Toks() []Token {
	t := []Token{literal("[")}
	for i, x := range e.list {
		if i > 0 {
			t = append(t, literal(", "))
		}
		t = append(t, x.Toks()...)
	}
	return append(t, literal("]"))
}

// WideVec is a widened merge: the member list is kept for display and
// slicing, but the value is treated as Top by the whole algebra.
type WideVec struct {
	list []Expr
	size uint
}

// NewWideVec returns a widened merge of the given alternatives.
func NewWideVec(list []Expr) *WideVec {
	v := newVec(list)
	return &WideVec{list: v.list, size: v.size}
}

// Members returns the alternatives.
func (e *WideVec) Members() []Expr { return e.list }

// Size returns the bit width of the expression.
func (e *WideVec) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *WideVec) SignFlag() bool { return false }

// Eval evaluates each alternative, keeping the widened marker.
func (e *WideVec) Eval(env Env) Expr {
	list := make([]Expr, len(e.list))
	for i, m := range e.list {
		list[i] = m.Eval(env)
	}
	return NewWideVec(list)
}

// Simplify returns the widened vector itself: it is already absorbing.
func (e *WideVec) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *WideVec) String() string {
	var b strings.Builder
	b.WriteString("[")
	for _, x := range e.list {
		b.WriteString(x.String())
		b.WriteString(",")
	}
	b.WriteString(" ...]")
	return b.String()
}

// Toks returns the pretty-printing token stream.
func (e *WideVec) Toks() []Token {
	t := []Token{literal("[")}
	for i, x := range e.list {
		if i > 0 {
			t = append(t, literal(", "))
		}
		t = append(t, x.Toks()...)
	}
	return append(t, literal(", ...]"))
}
