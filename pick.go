package gshade

import (
	"github.com/soypat/gshade/glsrc"
	"github.com/soypat/gshade/glsrc/glsllib"
)

// AppendPickObjectVertex appends the vertex stage of the whole-object picking pass.
func AppendPickObjectVertex(b []byte) []byte {
	return append(b, glsllib.PickObjectVertex()...)
}

// AppendPickObjectFragment appends the fragment stage of the whole-object picking pass,
// which paints the uniform pick color.
func AppendPickObjectFragment(b []byte, p glsrc.Precision) []byte {
	b = glsrc.AppendPrecisionDecl(b, p)
	return append(b, glsllib.PickObjectFragment()...)
}

// AppendPickPrimitiveVertex appends the vertex stage of the per-primitive picking pass.
func AppendPickPrimitiveVertex(b []byte) []byte {
	return append(b, glsllib.PickPrimitiveVertex()...)
}

// AppendPickPrimitiveFragment appends the fragment stage of the per-primitive picking pass,
// which writes the interpolated vertex color.
func AppendPickPrimitiveFragment(b []byte, p glsrc.Precision) []byte {
	b = glsrc.AppendPrecisionDecl(b, p)
	return append(b, glsllib.PickPrimitiveFragment()...)
}

// BuildPickObjectVertex returns the source appended by [AppendPickObjectVertex].
func BuildPickObjectVertex() string {
	return string(AppendPickObjectVertex(nil))
}

// BuildPickObjectFragment returns the source appended by [AppendPickObjectFragment].
func BuildPickObjectFragment(p glsrc.Precision) string {
	return string(AppendPickObjectFragment(nil, p))
}

// BuildPickPrimitiveVertex returns the source appended by [AppendPickPrimitiveVertex].
func BuildPickPrimitiveVertex() string {
	return string(AppendPickPrimitiveVertex(nil))
}

// BuildPickPrimitiveFragment returns the source appended by [AppendPickPrimitiveFragment].
func BuildPickPrimitiveFragment(p glsrc.Precision) string {
	return string(AppendPickPrimitiveFragment(nil, p))
}
