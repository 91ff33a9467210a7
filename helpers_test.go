package casym_test

import (
	"errors"
	"testing"

	"github.com/binred/casym"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

// equalStr fails the test when the canonical form of got differs from want.
func equalStr(tb testing.TB, got casym.Expr, want string) {
	tb.Helper()
	if got.String() != want {
		tb.Fatalf("unexpected expression (-want +got):\n%s\n%s",
			cmp.Diff(want, got.String()), spew.Sdump(got))
	}
}

// wantPanic runs fn and fails unless it panics with an error matching kind.
func wantPanic(tb testing.TB, kind error, fn func()) {
	tb.Helper()
	defer func() {
		r := recover()
		if r == nil {
			tb.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, kind) {
			tb.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}
