package casym_test

import (
	"errors"
	"testing"

	"github.com/binred/casym"
)

func TestRegScope(t *testing.T) {
	restore := casym.RegScope(casym.RegStack)
	esp := casym.NewReg("esp", 32)
	restore()
	eax := casym.NewReg("eax", 32)

	if esp.Category() != casym.RegStack {
		t.Fatalf("unexpected category: %#x", esp.Category())
	}
	if eax.Category() != casym.RegStd {
		t.Fatalf("unexpected category: %#x", eax.Category())
	}
}

func TestReg_Alias(t *testing.T) {
	// Slicing with a name caches the alias on the register, so later
	// anonymous slices of the same window pick it up.
	eax := casym.NewReg("eax", 32)
	al := casym.NewSlice(eax, 0, 8, "al")
	equalStr(t, al, "al")
	equalStr(t, casym.Slicer(eax, 0, 8), "al")
	equalStr(t, casym.Slicer(eax, 8, 8), "eax[8:16]")
}

func TestExt_Call(t *testing.T) {
	t.Run("NoStub", func(t *testing.T) {
		e := casym.NewExt("unknown_fn", 32)
		equalStr(t, e.Call(casym.NewMapper(), nil), "top32")
	})
	t.Run("Stub", func(t *testing.T) {
		casym.RegisterStub("getpid", func(env casym.Env, size uint, opts map[string]casym.Expr) (casym.Expr, error) {
			return casym.NewUConst(42, 64), nil
		})
		e := casym.NewExt("getpid", 32)
		got := e.Call(casym.NewMapper(), nil)
		equalStr(t, got, "0x2a")
		if got.Size() != 32 {
			t.Fatalf("unexpected size: %d", got.Size())
		}
	})
	t.Run("Narrow", func(t *testing.T) {
		casym.RegisterStub("geteuid", func(env casym.Env, size uint, opts map[string]casym.Expr) (casym.Expr, error) {
			return casym.NewUConst(1, 8), nil
		})
		e := casym.NewExt("geteuid", 32)
		got := e.Call(casym.NewMapper(), nil)
		if got.Size() != 32 {
			t.Fatalf("unexpected size: %d", got.Size())
		}
		equalStr(t, got, "0x1")
	})
	t.Run("Failing", func(t *testing.T) {
		casym.RegisterStub("brk", func(env casym.Env, size uint, opts map[string]casym.Expr) (casym.Expr, error) {
			return nil, errors.New("not modeled")
		})
		e := casym.NewExt("brk", 32)
		equalStr(t, e.Call(casym.NewMapper(), nil), "top32")
	})
}

func TestLabel(t *testing.T) {
	l := casym.NewLabel("start", 32)
	equalStr(t, l, "@start")
	if !casym.IsExt(l) {
		t.Fatal("labels are external references")
	}
}
