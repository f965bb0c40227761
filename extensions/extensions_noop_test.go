//go:build nomiddleware

package extensions

import "testing"

type traceID string

func TestNoop_EverythingIsAbsent(t *testing.T) {
	if Enabled {
		t.Fatal("Enabled must be false under nomiddleware")
	}
	ext := New()
	if _, ok := Insert(ext, traceID("abc")); ok {
		t.Error("Insert must report no previous value")
	}
	if _, ok := Get[traceID](ext); ok {
		t.Error("Get must report absence")
	}
	if _, ok := Remove[traceID](ext); ok {
		t.Error("Remove must report absence")
	}
	if _, ok := InsertAny(ext, traceID("x")); ok {
		t.Error("InsertAny must report absence")
	}
	if Contains[traceID](ext) || ext.Len() != 0 || ext.Clone().Len() != 0 {
		t.Error("bag must stay empty")
	}
	ext.Extend(New())
	ext.Clear()
}
