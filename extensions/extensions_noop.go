//go:build nomiddleware

package extensions

// Enabled reports whether extension values are stored.
const Enabled = false

// Extensions is empty in builds without middleware support. Every operation
// is a no-op and lookups always report absence.
type Extensions struct{}

// New returns an empty bag.
func New() *Extensions { return &Extensions{} }

// Insert discards v.
func Insert[T any](_ *Extensions, _ T) (T, bool) {
	var zero T
	return zero, false
}

// InsertAny discards v.
func InsertAny(_ *Extensions, _ any) (any, bool) { return nil, false }

// Get always reports absence.
func Get[T any](_ *Extensions) (T, bool) {
	var zero T
	return zero, false
}

// Remove always reports absence.
func Remove[T any](_ *Extensions) (T, bool) {
	var zero T
	return zero, false
}

// Contains always returns false.
func Contains[T any](_ *Extensions) bool { return false }

// Len always returns 0.
func (e *Extensions) Len() int { return 0 }

// Clone returns another empty bag.
func (e *Extensions) Clone() *Extensions { return New() }

// Extend does nothing.
func (e *Extensions) Extend(_ *Extensions) {}

// Clear does nothing.
func (e *Extensions) Clear() {}
