package casym_test

import (
	"testing"

	"github.com/binred/casym"
)

func TestVec_Simplify(t *testing.T) {
	t.Run("Dedup", func(t *testing.T) {
		// Merging the same two states twice keeps two alternatives.
		eax := casym.NewReg("eax", 32)
		v := casym.NewVec([]casym.Expr{
			eax, casym.NewUConst(1, 32),
			casym.NewReg("eax", 32), casym.NewUConst(1, 32),
		})
		got := v.Simplify(casym.DefaultOptions())
		equalStr(t, got, "[eax,0x1]")
		if n := len(got.(*casym.Vec).Members()); n != 2 {
			t.Fatalf("unexpected member count: %d", n)
		}
	})
	t.Run("Flatten", func(t *testing.T) {
		inner := casym.NewVec([]casym.Expr{
			casym.NewReg("eax", 32), casym.NewReg("ebx", 32),
		})
		v := casym.NewVec([]casym.Expr{inner, casym.NewReg("ecx", 32)})
		equalStr(t, v.Simplify(casym.DefaultOptions()), "[eax,ebx,ecx]")
	})
	t.Run("Single", func(t *testing.T) {
		eax := casym.NewReg("eax", 32)
		v := casym.NewVec([]casym.Expr{eax, casym.NewReg("eax", 32)})
		if got := v.Simplify(casym.DefaultOptions()); got != casym.Expr(eax) {
			t.Fatalf("unexpected expression: %s", got)
		}
	})
	t.Run("Absorb", func(t *testing.T) {
		v := casym.NewVec([]casym.Expr{casym.NewReg("eax", 32), casym.NewTop(32)})
		equalStr(t, v.Simplify(casym.DefaultOptions()), "top32")
	})
	t.Run("Threshold", func(t *testing.T) {
		v := casym.NewVec([]casym.Expr{
			casym.NewOp(casym.OpAdd, casym.NewReg("a", 32), casym.NewReg("b", 32)),
			casym.NewOp(casym.OpAdd, casym.NewReg("c", 32), casym.NewReg("d", 32)),
		})
		equalStr(t, v.Simplify(casym.SimplifyOptions{Threshold: 5}), "top32")
	})
	t.Run("Widening", func(t *testing.T) {
		v := casym.NewVec([]casym.Expr{casym.NewReg("eax", 32), casym.NewReg("ebx", 32)})
		got := v.Simplify(casym.SimplifyOptions{Widening: true})
		equalStr(t, got, "[eax,ebx, ...]")
		if !casym.IsTop(got) {
			t.Fatal("widened merge must absorb")
		}
	})
	t.Run("WidthMismatch", func(t *testing.T) {
		wantPanic(t, casym.ErrSizeMismatch, func() {
			casym.NewVec([]casym.Expr{casym.NewReg("eax", 32), casym.NewUConst(1, 16)})
		})
	})
}

func TestVec_Eval(t *testing.T) {
	eax := casym.NewReg("eax", 32)
	ebx := casym.NewReg("ebx", 32)
	env := casym.NewMapper()
	env.Assign(eax, casym.NewUConst(1, 32))

	v := casym.NewVec([]casym.Expr{eax, ebx})
	equalStr(t, v.Eval(env), "[0x1,ebx]")
}

func TestWideVec_Slice(t *testing.T) {
	w := casym.NewWideVec([]casym.Expr{
		casym.NewUConst(0x1234, 32), casym.NewReg("eax", 32),
	})
	equalStr(t, casym.ExprSlice(w, 0, 8), "[0x34,eax[0:8], ...]")
}
