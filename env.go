package casym

import (
	"fmt"

	"github.com/benbjohnson/immutable"
)

// Mapper is a reference Env: an immutable sorted map from canonical
// location keys to bound expressions, plus the list of path conditions
// asserted so far. The immutable store makes Use a constant-time copy;
// writes to the copy never reach the original.
type Mapper struct {
	bindings *immutable.SortedMap
	conds    []Expr
}

// NewMapper returns an empty environment.
func NewMapper() *Mapper {
	return &Mapper{bindings: immutable.NewSortedMap(&stringComparer{})}
}

// locKey returns the canonical binding key of a location. Aliased
// register slices key by their raw window so al and eax[0:8] share a
// binding; memory reads key without their pending-write marker.
func locKey(loc Expr) string {
	switch l := loc.(type) {
	case *Slice:
		return l.Raw()
	case *Mem:
		return fmt.Sprintf("M%d%s", l.size, l.a)
	}
	return loc.String()
}

// Resolve returns the expression bound to loc, or loc itself when
// unbound.
func (m *Mapper) Resolve(loc Expr) Expr {
	if v, ok := m.bindings.Get(locKey(loc)); ok {
		return v.(Expr)
	}
	return loc
}

// Assign binds v to loc, replacing any previous binding.
func (m *Mapper) Assign(loc, v Expr) {
	if loc.Size() != v.Size() {
		failf(ErrSizeMismatch, "assign %d-bit value to %d-bit location", v.Size(), loc.Size())
	}
	m.bindings = m.bindings.Set(locKey(loc), v)
}

// Use returns a mutation-isolated copy: assignments and assumptions on
// the copy do not affect this environment.
func (m *Mapper) Use() Env {
	conds := make([]Expr, len(m.conds))
	copy(conds, m.conds)
	return &Mapper{bindings: m.bindings, conds: conds}
}

// AssumeCond asserts a path condition.
func (m *Mapper) AssumeCond(c Expr) {
	if c.Size() != 1 {
		failf(ErrSizeMismatch, "path condition is %d bits, want 1", c.Size())
	}
	m.conds = append(m.conds, c)
}

// Conds returns the asserted path conditions.
func (m *Mapper) Conds() []Expr { return m.conds }

// stringComparer compares two string keys. Implements immutable.Comparer.
type stringComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than
// b, and returns 0 if a is equal to b. Panic if a or b is not a string.
func (c *stringComparer) Compare(a, b interface{}) int {
	if i, j := a.(string), b.(string); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
