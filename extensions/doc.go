// Package extensions provides a per-request, type-indexed bag of values that
// middlewares read and write while a request travels through the pipeline.
//
// Each value is keyed by its own type, so a bag holds at most one value per
// type and inserting a second value of the same type replaces the first:
//
//	type traceID string
//
//	ext := extensions.New()
//	extensions.Insert(ext, traceID("abc"))
//	id, ok := extensions.Get[traceID](ext)
//
// A nil *Extensions is a valid, empty, read-only bag.
//
// Building with -tags nomiddleware replaces the bag with a zero-size stand-in
// whose operations do nothing, so caller code compiles against either build.
package extensions
