// Package glsllib holds the fixed shader sources shared by every program bundle.
// The sources are written in GLSL ES 1.00 and carry no precision statement;
// callers prepend the dialect header and precision declaration.
package glsllib

import (
	_ "embed"
)

//go:embed pick_object.vert
var pickObjectVertSrc string

// PickObjectVertex is the vertex stage of the whole-object picking pass.
//
//	attribute vec3 xeo_aPosition;
func PickObjectVertex() string { return pickObjectVertSrc }

//go:embed pick_object.frag
var pickObjectFragSrc string

// PickObjectFragment paints every fragment with the object's pick color.
//
//	uniform vec4 xeo_uPickColor;
func PickObjectFragment() string { return pickObjectFragSrc }

//go:embed pick_primitive.vert
var pickPrimitiveVertSrc string

// PickPrimitiveVertex is the vertex stage of the per-primitive picking pass.
// The per-vertex color attribute encodes the primitive index.
//
//	attribute vec4 xeo_aColor;
func PickPrimitiveVertex() string { return pickPrimitiveVertSrc }

//go:embed pick_primitive.frag
var pickPrimitiveFragSrc string

// PickPrimitiveFragment writes the interpolated primitive color unmodified.
func PickPrimitiveFragment() string { return pickPrimitiveFragSrc }
