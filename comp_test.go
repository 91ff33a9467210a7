package casym_test

import (
	"testing"

	"github.com/binred/casym"
)

func TestComp_Restruct(t *testing.T) {
	// A byte write followed by a zero fill over the rest of the word
	// collapses into one 32-bit constant.
	c := casym.NewComp(32)
	c.Put(0, 8, casym.NewUConst(0x9d, 8))
	c.Put(8, 32, casym.NewUConst(0, 24))

	got := c.Simplify(casym.DefaultOptions())
	equalStr(t, got, "0x9d")
	if got.Size() != 32 {
		t.Fatalf("unexpected size: %d", got.Size())
	}
}

func TestComp_WriteRead(t *testing.T) {
	t.Run("Window", func(t *testing.T) {
		eax := casym.NewReg("eax", 32)
		c := casym.NewComp(32)
		c.Put(0, 32, eax)
		equalStr(t, casym.ExprSlice(c, 8, 16), "eax[8:16]")
	})
	t.Run("ExactKey", func(t *testing.T) {
		x := casym.NewReg("x", 8)
		c := casym.NewComp(32)
		c.Put(8, 16, x)
		if got := casym.ExprSlice(c, 8, 16); got != casym.Expr(x) {
			t.Fatalf("unexpected expression: %s", got)
		}
	})
	t.Run("Cut", func(t *testing.T) {
		eax := casym.NewReg("eax", 32)
		x := casym.NewReg("x", 8)
		c := casym.NewComp(32)
		c.Put(0, 32, eax)
		c.Put(8, 16, x)
		equalStr(t, c, "{ | [0:8]->eax[0:8] | [8:16]->x | [16:32]->eax[16:32] | }")
	})
	t.Run("Unowned", func(t *testing.T) {
		x := casym.NewReg("x", 8)
		c := casym.NewComp(32)
		c.Put(0, 8, x)
		equalStr(t, casym.ExprSlice(c, 8, 16), "{ | [0:8]->x | }[8:16]")
	})
	t.Run("Bounds", func(t *testing.T) {
		c := casym.NewComp(32)
		wantPanic(t, casym.ErrBounds, func() {
			c.Put(24, 40, casym.NewUConst(0, 16))
		})
	})
	t.Run("WidthMismatch", func(t *testing.T) {
		c := casym.NewComp(32)
		wantPanic(t, casym.ErrSizeMismatch, func() {
			c.Put(0, 8, casym.NewUConst(0, 16))
		})
	})
}

func TestComp_UndefinedMerge(t *testing.T) {
	c := casym.NewComp(32)
	c.Put(0, 8, casym.NewTop(8))
	c.Put(8, 32, casym.NewVoid(24))
	equalStr(t, c.Simplify(casym.DefaultOptions()), "top32")
}

func TestComp_Eval(t *testing.T) {
	rx := casym.NewReg("rx", 16)
	ry := casym.NewReg("ry", 16)
	c := casym.NewComp(32)
	c.Put(0, 16, rx)
	c.Put(16, 32, ry)

	env := casym.NewMapper()
	env.Assign(rx, casym.NewUConst(0x1234, 16))
	env.Assign(ry, casym.NewUConst(0x5678, 16))
	equalStr(t, c.Eval(env), "0x56781234")
}

func TestComposer(t *testing.T) {
	t.Run("Single", func(t *testing.T) {
		x := casym.NewReg("x", 8)
		if got := casym.Composer([]casym.Expr{x}); got != casym.Expr(x) {
			t.Fatalf("unexpected expression: %s", got)
		}
	})
	t.Run("Constants", func(t *testing.T) {
		got := casym.Composer([]casym.Expr{
			casym.NewUConst(0x9d, 8),
			casym.NewUConst(0, 24),
		})
		equalStr(t, got, "0x9d")
	})
	t.Run("Symbolic", func(t *testing.T) {
		eax := casym.NewReg("eax", 32)
		got := casym.Composer([]casym.Expr{
			casym.ExprSlice(eax, 0, 8),
			casym.NewUConst(0, 24),
		})
		equalStr(t, got, "{ | [0:8]->eax[0:8] | [8:32]->0x0 | }")
	})
}

func TestComp_LogicDistribution(t *testing.T) {
	eax := casym.NewReg("eax", 32)
	c := casym.NewComp(32)
	c.Put(0, 8, casym.ExprSlice(eax, 0, 8))
	c.Put(8, 32, casym.NewUConst(0, 24))

	got := casym.NewOpC(casym.OpXor, c, 0xffffffff)
	equalStr(t, got, "{ | [0:8]->(eax[0:8]^0xff) | [8:32]->0xffffff | }")
}
