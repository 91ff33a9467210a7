package casym_test

import (
	"testing"

	"github.com/binred/casym"
)

func TestConst(t *testing.T) {
	t.Run("Mask", func(t *testing.T) {
		c := casym.NewConst(0x1ff, 8)
		if v := c.Raw(); v != 0xff {
			t.Fatalf("unexpected raw value: %#x", v)
		}
		if c.Size() != 8 {
			t.Fatalf("unexpected size: %d", c.Size())
		}
	})
	t.Run("Signed", func(t *testing.T) {
		c := casym.NewConst(-1, 8)
		if !c.SignFlag() {
			t.Fatal("expected sign flag")
		}
		if v := c.Raw(); v != 0xff {
			t.Fatalf("unexpected raw value: %#x", v)
		}
		if v := c.Value(); v != -1 {
			t.Fatalf("unexpected value: %d", v)
		}
		equalStr(t, c, "-0x1")
	})
	t.Run("Unsigned", func(t *testing.T) {
		c := casym.NewUConst(0xff, 8)
		if v := c.Value(); v != 255 {
			t.Fatalf("unexpected value: %d", v)
		}
		equalStr(t, c, "0xff")
	})
	t.Run("Reinterpret", func(t *testing.T) {
		c := casym.Signed(casym.NewUConst(0xff, 8)).(*casym.Const)
		if v := c.Value(); v != -1 {
			t.Fatalf("unexpected value: %d", v)
		}
	})
	t.Run("Bool", func(t *testing.T) {
		if !casym.ExprBool(casym.Bool(true)) {
			t.Fatal("expected true")
		}
		if casym.ExprBool(casym.Bool(false)) {
			t.Fatal("expected false")
		}
		if casym.ExprBool(casym.NewUConst(1, 32)) {
			t.Fatal("wide constant is not a boolean")
		}
	})
}

func TestConst_Extend(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		c := casym.ZeroExtend(casym.NewUConst(0x80, 8), 32).(*casym.Const)
		if v := c.Raw(); v != 0x80 {
			t.Fatalf("unexpected raw value: %#x", v)
		}
		if c.Size() != 32 {
			t.Fatalf("unexpected size: %d", c.Size())
		}
	})
	t.Run("Sign", func(t *testing.T) {
		c := casym.SignExtend(casym.NewUConst(0x80, 8), 32).(*casym.Const)
		if v := c.Raw(); v != 0xffffff80 {
			t.Fatalf("unexpected raw value: %#x", v)
		}
		if v := c.Value(); v != -128 {
			t.Fatalf("unexpected value: %d", v)
		}
	})
	t.Run("NoOp", func(t *testing.T) {
		c := casym.NewUConst(0x80, 8)
		if got := casym.ZeroExtend(c, 8); got != casym.Expr(c) {
			t.Fatal("expected identical expression")
		}
	})
	t.Run("Narrowing", func(t *testing.T) {
		wantPanic(t, casym.ErrSizeMismatch, func() {
			casym.ZeroExtend(casym.NewUConst(1, 32), 8)
		})
	})
}

func TestConst_Slice(t *testing.T) {
	c := casym.NewUConst(0x12345678, 32)
	t.Run("Low", func(t *testing.T) {
		equalStr(t, casym.ExprSlice(c, 0, 8), "0x78")
	})
	t.Run("Mid", func(t *testing.T) {
		equalStr(t, casym.ExprSlice(c, 8, 24), "0x3456")
	})
	t.Run("Bit", func(t *testing.T) {
		equalStr(t, casym.Bit(c, 4), "0x1")
	})
	t.Run("OutOfBounds", func(t *testing.T) {
		wantPanic(t, casym.ErrBounds, func() {
			casym.ExprSlice(c, 8, 40)
		})
	})
}

func TestSym(t *testing.T) {
	s := casym.NewSym("argc", 2, 32)
	equalStr(t, s, "#argc")
	if s.Value() != 2 {
		t.Fatalf("unexpected value: %d", s.Value())
	}

	// Named constants fold like the constants they wrap.
	equalStr(t, casym.NewOp(casym.OpAdd, s, casym.NewUConst(3, 32)), "0x5")
}

func TestFloat(t *testing.T) {
	f := casym.NewFloat(1.5, 64)
	equalStr(t, f, "1.5")
	equalStr(t, casym.NewOp(casym.OpMul, f, casym.NewFloat(2, 64)), "3")
	equalStr(t, casym.NewOpF(casym.OpAdd, f, 0.5), "2")
	equalStr(t, casym.NewOp(casym.OpLt, f, casym.NewFloat(2, 64)), "0x1")
	t.Run("NoBitwise", func(t *testing.T) {
		wantPanic(t, casym.ErrEval, func() {
			casym.NewOp(casym.OpAnd, casym.NewFloat(1, 64), casym.NewFloat(2, 64))
		})
	})
}
