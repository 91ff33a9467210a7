package casym

import "strings"

// RegCategory classifies a register for consumers (printers, slicers,
// stack analyzers). It does not affect the algebra.
type RegCategory int

// Register categories.
const (
	RegStd   RegCategory = 0x00
	RegPC    RegCategory = 0x10
	RegFlags RegCategory = 0x20
	RegStack RegCategory = 0x40
	RegOther RegCategory = 0x80
)

var regCategory = RegStd

// RegScope switches the category assigned to registers created until the
// returned restore function runs:
//
//	defer RegScope(RegFlags)()
//	eflags := NewReg("eflags", 32)
func RegScope(cat RegCategory) func() {
	prev := regCategory
	regCategory = cat
	return func() { regCategory = prev }
}

// Reg is a named register of fixed width. Width and name are immutable
// after construction; only the sign interpretation may vary between
// views of the same register.
type Reg struct {
	ref  string
	size uint
	sf   bool
	cat  RegCategory

	// subs caches display aliases for sub-slices (al/ah/ax of eax).
	subs map[rng]string
}

// NewReg returns a register of the given name and width, tagged with the
// category currently set by RegScope.
func NewReg(ref string, size uint) *Reg {
	assert(size >= 1 && size <= Width64, "invalid register width %d", size)
	return &Reg{ref: ref, size: size, cat: regCategory}
}

// Ref returns the register name.
func (e *Reg) Ref() string { return e.ref }

// Category returns the register category.
func (e *Reg) Category() RegCategory { return e.cat }

// Size returns the bit width of the expression.
func (e *Reg) Size() uint { return e.size }

// SignFlag reports whether the expression is interpreted as signed.
func (e *Reg) SignFlag() bool { return e.sf }

// Eval resolves the register through env; unbound registers resolve to
// themselves.
func (e *Reg) Eval(env Env) Expr { return env.Resolve(e) }

// Simplify returns the register itself.
func (e *Reg) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *Reg) String() string { return e.ref }

// Toks returns the pretty-printing token stream.
func (e *Reg) Toks() []Token {
	return []Token{{Kind: TokRegister, Text: e.String()}}
}

func (e *Reg) alias(r rng) (string, bool) {
	name, ok := e.subs[r]
	return name, ok
}

func (e *Reg) setAlias(r rng, name string) {
	if e.subs == nil {
		e.subs = map[rng]string{}
	}
	e.subs[r] = name
}

// Stub computes the effect of calling an external symbol. It may consult
// and mutate env; opts carry caller-specific arguments.
type Stub func(env Env, size uint, opts map[string]Expr) (Expr, error)

var stubs = map[string]Stub{}

// RegisterStub binds a call stub to an external symbol name. Externals
// with no registered stub evaluate calls to Top.
func RegisterStub(name string, stub Stub) {
	stubs[name] = stub
}

// Ext is a register-like reference to an external symbol (an import, a
// PLT entry). It stays symbolic through the algebra; Call applies its
// registered stub.
type Ext struct {
	Reg
}

// NewExt returns an external-symbol reference of the given width.
func NewExt(ref string, size uint) *Ext {
	assert(size >= 1 && size <= Width64, "invalid external width %d", size)
	return &Ext{Reg: Reg{ref: ref, size: size, cat: regCategory}}
}

// Call applies the stub registered for the external's name and clamps
// the result to the external's width. A missing or failing stub yields
// Top.
func (e *Ext) Call(env Env, opts map[string]Expr) Expr {
	stub, ok := stubs[e.ref]
	if !ok {
		return NewTop(e.size)
	}
	res, err := stub(env, e.size, opts)
	if err != nil || res == nil {
		return NewTop(e.size)
	}
	if res.Size() > e.size {
		return ExprSlice(res, 0, e.size)
	}
	if res.Size() < e.size {
		return ZeroExtend(res, e.size)
	}
	return res
}

// Eval resolves the external through env; unbound externals resolve to
// themselves.
func (e *Ext) Eval(env Env) Expr { return env.Resolve(e) }

// Simplify returns the external itself.
func (e *Ext) Simplify(o SimplifyOptions) Expr { return e }

// String returns the canonical display form.
func (e *Ext) String() string { return "@" + e.ref }

// Toks returns the pretty-printing token stream. Names carrying a "!"
// marker render as tainted.
func (e *Ext) Toks() []Token {
	kind := TokName
	if strings.Contains(e.ref, "!") {
		kind = TokTainted
	}
	return []Token{{Kind: kind, Text: e.String()}}
}

// Label is an assembler/relocation symbol. It behaves exactly like an
// external reference but is distinguishable by type for linkers and
// printers.
type Label struct {
	Ext
}

// NewLabel returns a label reference of the given width.
func NewLabel(ref string, size uint) *Label {
	return &Label{Ext: *NewExt(ref, size)}
}

// Eval resolves the label through env; unbound labels resolve to
// themselves.
func (e *Label) Eval(env Env) Expr { return env.Resolve(e) }

// Simplify returns the label itself.
func (e *Label) Simplify(o SimplifyOptions) Expr { return e }
