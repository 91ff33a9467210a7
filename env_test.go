package casym_test

import (
	"testing"

	"github.com/binred/casym"
)

func TestMapper(t *testing.T) {
	t.Run("Unbound", func(t *testing.T) {
		eax := casym.NewReg("eax", 32)
		env := casym.NewMapper()
		if got := env.Resolve(eax); got != casym.Expr(eax) {
			t.Fatalf("unexpected expression: %s", got)
		}
	})
	t.Run("AssignResolve", func(t *testing.T) {
		eax := casym.NewReg("eax", 32)
		env := casym.NewMapper()
		env.Assign(eax, casym.NewUConst(5, 32))
		equalStr(t, eax.Eval(env), "0x5")

		env.Assign(eax, casym.NewUConst(6, 32))
		equalStr(t, eax.Eval(env), "0x6")
	})
	t.Run("WidthMismatch", func(t *testing.T) {
		env := casym.NewMapper()
		wantPanic(t, casym.ErrSizeMismatch, func() {
			env.Assign(casym.NewReg("eax", 32), casym.NewUConst(1, 16))
		})
	})
}

func TestMapper_SliceKeying(t *testing.T) {
	// al and eax[0:8] are the same location: bindings key by the raw
	// window, not the display alias.
	eax := casym.NewReg("eax", 32)
	al := casym.NewSlice(eax, 0, 8, "al")
	env := casym.NewMapper()
	env.Assign(al, casym.NewUConst(7, 8))
	equalStr(t, env.Resolve(casym.Slicer(eax, 0, 8)), "0x7")
}

func TestMapper_Use(t *testing.T) {
	eax := casym.NewReg("eax", 32)
	env := casym.NewMapper()
	env.Assign(eax, casym.NewUConst(1, 32))

	u := env.Use()
	u.Assign(eax, casym.NewUConst(2, 32))
	equalStr(t, u.Resolve(eax), "0x2")
	equalStr(t, env.Resolve(eax), "0x1")
}

func TestMapper_Conds(t *testing.T) {
	eax := casym.NewReg("eax", 32)
	flag := casym.NewOpC(casym.OpEq, eax, 0)

	env := casym.NewMapper()
	env.AssumeCond(flag)
	if n := len(env.Conds()); n != 1 {
		t.Fatalf("unexpected condition count: %d", n)
	}

	t.Run("UseCopies", func(t *testing.T) {
		u := env.Use().(*casym.Mapper)
		u.AssumeCond(casym.NewOpC(casym.OpNe, eax, 1))
		if n := len(env.Conds()); n != 1 {
			t.Fatalf("conditions leaked: %d", n)
		}
		if n := len(u.Conds()); n != 2 {
			t.Fatalf("unexpected condition count: %d", n)
		}
	})
	t.Run("WideCondition", func(t *testing.T) {
		wantPanic(t, casym.ErrSizeMismatch, func() {
			env.AssumeCond(casym.NewUConst(1, 32))
		})
	})
}
