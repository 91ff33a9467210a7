package casym_test

import (
	"testing"

	"github.com/binred/casym"
)

func TestNewPtr(t *testing.T) {
	ebp := casym.NewReg("ebp", 32)

	t.Run("Flatten", func(t *testing.T) {
		inner := casym.NewPtr(ebp, nil, -2)
		p := casym.NewPtr(inner, nil, -2)
		if p.Base() != casym.Expr(ebp) {
			t.Fatalf("unexpected base: %s", p.Base())
		}
		if p.Disp() != -4 {
			t.Fatalf("unexpected displacement: %d", p.Disp())
		}
		equalStr(t, p, "(ebp-4)")
	})
	t.Run("OffsetExtraction", func(t *testing.T) {
		p := casym.NewPtr(casym.NewOpC(casym.OpAdd, ebp, 4), nil, 2)
		if p.Base() != casym.Expr(ebp) {
			t.Fatalf("unexpected base: %s", p.Base())
		}
		equalStr(t, p, "(ebp+6)")
	})
	t.Run("NegativeOffset", func(t *testing.T) {
		p := casym.NewPtr(casym.NewOpC(casym.OpSub, ebp, 4), nil, 0)
		equalStr(t, p, "(ebp-4)")
	})
	t.Run("Segment", func(t *testing.T) {
		ss := casym.NewReg("ss", 16)
		equalStr(t, casym.NewPtr(ebp, ss, 0), "ss(ebp)")
	})
}

func TestPtr_Arith(t *testing.T) {
	ebp := casym.NewReg("ebp", 32)
	p := casym.NewPtr(ebp, nil, -4)

	equalStr(t, casym.NewOpC(casym.OpAdd, p, 8), "(ebp+4)")
	equalStr(t, casym.NewOpC(casym.OpSub, p, 8), "(ebp-12)")
}

func TestPtr_Eval(t *testing.T) {
	t.Run("BoundBase", func(t *testing.T) {
		ebp := casym.NewReg("ebp", 32)
		env := casym.NewMapper()
		env.Assign(ebp, casym.NewUConst(0x1000, 32))
		p := casym.NewPtr(ebp, nil, 4)
		equalStr(t, p.Eval(env), "(0x1000+4)")
	})
	t.Run("ExternalBase", func(t *testing.T) {
		// The address of an import is the import itself.
		tbl := casym.NewExt("tbl", 32)
		p := casym.NewPtr(tbl, nil, 4)
		equalStr(t, p.Eval(casym.NewMapper()), "@tbl")
	})
}

func TestPtr_Simplify(t *testing.T) {
	// A lost base makes the displacement meaningless.
	p := casym.NewPtr(casym.NewTop(32), nil, 8)
	equalStr(t, p, "(top32+8)")
	equalStr(t, p.Simplify(casym.DefaultOptions()), "(top32)")
}
