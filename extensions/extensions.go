//go:build !nomiddleware

package extensions

import "reflect"

// Enabled reports whether extension values are stored.
const Enabled = true

// Extensions is a type-indexed map of request-scoped values.
// It is not safe for concurrent use; it belongs to a single request.
type Extensions struct {
	m map[reflect.Type]any
}

// New returns an empty bag.
func New() *Extensions {
	return &Extensions{}
}

// Insert stores v under its type T and returns the value it replaced, if any.
// Inserting into a nil bag is a no-op.
func Insert[T any](e *Extensions, v T) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	prev, ok := e.insert(reflect.TypeFor[T](), v)
	if !ok {
		return zero, false
	}
	return as[T](prev), true
}

// InsertAny stores v under its dynamic type. It is the non-generic form used
// by builders that accept arbitrary values. Nil values are ignored.
func InsertAny(e *Extensions, v any) (any, bool) {
	if e == nil || v == nil {
		return nil, false
	}
	return e.insert(reflect.TypeOf(v), v)
}

// Get returns the value stored under T.
func Get[T any](e *Extensions) (T, bool) {
	var zero T
	if e == nil || e.m == nil {
		return zero, false
	}
	v, ok := e.m[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	return as[T](v), true
}

// Remove deletes and returns the value stored under T.
func Remove[T any](e *Extensions) (T, bool) {
	var zero T
	if e == nil || e.m == nil {
		return zero, false
	}
	key := reflect.TypeFor[T]()
	v, ok := e.m[key]
	if !ok {
		return zero, false
	}
	delete(e.m, key)
	return as[T](v), true
}

// Contains reports whether a value of type T is present.
func Contains[T any](e *Extensions) bool {
	if e == nil || e.m == nil {
		return false
	}
	_, ok := e.m[reflect.TypeFor[T]()]
	return ok
}

// Len returns the number of stored values.
func (e *Extensions) Len() int {
	if e == nil {
		return 0
	}
	return len(e.m)
}

// Clone returns a shallow copy. Stored values are not deep-copied.
func (e *Extensions) Clone() *Extensions {
	out := New()
	if e == nil || len(e.m) == 0 {
		return out
	}
	out.m = make(map[reflect.Type]any, len(e.m))
	for k, v := range e.m {
		out.m[k] = v
	}
	return out
}

// Extend copies every value of other into e, overwriting values of the same type.
func (e *Extensions) Extend(other *Extensions) {
	if e == nil || other == nil {
		return
	}
	for k, v := range other.m {
		e.insert(k, v)
	}
}

// Clear removes all values.
func (e *Extensions) Clear() {
	if e == nil {
		return
	}
	e.m = nil
}

func (e *Extensions) insert(key reflect.Type, v any) (any, bool) {
	if e.m == nil {
		e.m = make(map[reflect.Type]any)
	}
	prev, ok := e.m[key]
	e.m[key] = v
	return prev, ok
}

// as converts a stored value back to T. A nil stored under an interface type
// comes back as the zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
