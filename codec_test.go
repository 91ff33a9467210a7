package casym_test

import (
	"errors"
	"testing"

	"github.com/binred/casym"
)

func TestMarshal_RoundTrip(t *testing.T) {
	eax := casym.NewReg("eax", 32)
	ebp := casym.NewReg("ebp", 32)
	esp := casym.NewReg("esp", 32)
	zf := casym.NewReg("zf", 1)

	comp := casym.NewComp(32)
	comp.Put(0, 8, casym.ExprSlice(eax, 0, 8))
	comp.Put(8, 32, casym.NewUConst(0, 24))

	for _, tt := range []struct {
		name string
		expr casym.Expr
	}{
		{"Void", casym.NewVoid(8)},
		{"Top", casym.NewTop(32)},
		{"Const", casym.NewConst(-5, 32)},
		{"Float", casym.NewFloat(2.5, 64)},
		{"Sym", casym.NewSym("argc", 2, 32)},
		{"Reg", eax},
		{"Ext", casym.NewExt("malloc", 32)},
		{"Label", casym.NewLabel("loop", 32)},
		{"Comp", comp},
		{"Ptr", casym.NewPtr(ebp, nil, -4)},
		{"SegPtr", casym.NewPtr(ebp, casym.NewReg("ss", 16), 2)},
		{"Mem", casym.NewMemEx(esp, 32, nil, 4, []casym.Mod{
			{Loc: casym.NewMem(esp, 32), Val: casym.NewUConst(7, 32)},
		}, casym.BigEndian)},
		{"Slice", casym.NewSlice(casym.NewReg("ecx", 32), 0, 8, "cl")},
		{"Cond", casym.NewCond(zf, casym.NewUConst(1, 32), casym.NewUConst(2, 32))},
		{"Binary", casym.NewOpC(casym.OpAdd, eax, 5)},
		{"Unary", casym.NewUnOp(casym.OpSub, eax)},
		{"Vec", casym.NewVec([]casym.Expr{eax, casym.NewUConst(1, 32)})},
		{"WideVec", casym.NewWideVec([]casym.Expr{eax, casym.NewUConst(1, 32)})},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := casym.Unmarshal(casym.Marshal(tt.expr))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.expr.String() {
				t.Fatalf("unexpected expression: %s, want %s", got, tt.expr)
			}
			if got.Size() != tt.expr.Size() {
				t.Fatalf("unexpected size: %d, want %d", got.Size(), tt.expr.Size())
			}
			if got.SignFlag() != tt.expr.SignFlag() {
				t.Fatalf("unexpected sign flag: %v", got.SignFlag())
			}
		})
	}
}

func TestUnmarshal_Corrupt(t *testing.T) {
	for _, tt := range []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"UnknownTag", []byte{0xff}},
		{"Truncated", casym.Marshal(casym.NewUConst(5, 32))[:3]},
		{"Trailing", append(casym.Marshal(casym.NewTop(32)), 0x00)},
		{"ZeroWidth", func() []byte {
			data := casym.Marshal(casym.NewTop(32))
			data[1], data[2], data[3], data[4] = 0, 0, 0, 0
			return data
		}()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e, err := casym.Unmarshal(tt.data)
			if !errors.Is(err, casym.ErrType) {
				t.Fatalf("unexpected error: %v", err)
			}
			if e != nil {
				t.Fatalf("unexpected expression: %s", e)
			}
		})
	}
}
