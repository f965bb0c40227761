//go:build nomiddleware && !nojson

package compat

func (b *mwBuilder) JSON(any) *mwBuilder { return b }
