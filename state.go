// Package gshade generates GLSL shader program sources from a description of the
// active render state and caches the generated bundles, reference counted by state hash.
//
// The generated sources reference uniforms and attributes prefixed with xeo_
// (xeo_uModelMatrix, xeo_aPosition, ...) which the caller supplies at draw time.
package gshade

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidRenderState is wrapped by all errors returned for render states
// that cannot be turned into shader source.
var ErrInvalidRenderState = errors.New("invalid render state")

// PrimitiveKind is the primitive topology geometry is drawn with.
type PrimitiveKind uint8

const (
	PrimitiveUndefined PrimitiveKind = iota
	PrimitivePoints
	PrimitiveLines
	PrimitiveLineLoop
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

var primitiveNames = [...]string{
	PrimitiveUndefined:     "undefined",
	PrimitivePoints:        "points",
	PrimitiveLines:         "lines",
	PrimitiveLineLoop:      "line-loop",
	PrimitiveLineStrip:     "line-strip",
	PrimitiveTriangles:     "triangles",
	PrimitiveTriangleStrip: "triangle-strip",
	PrimitiveTriangleFan:   "triangle-fan",
}

func (pk PrimitiveKind) String() string {
	if int(pk) < len(primitiveNames) {
		return primitiveNames[pk]
	}
	return "PrimitiveKind(" + strconv.Itoa(int(pk)) + ")"
}

// ParsePrimitiveKind parses the lowercase hyphenated primitive name, i.e: "triangle-strip".
func ParsePrimitiveKind(s string) (PrimitiveKind, error) {
	for i := PrimitivePoints; i <= PrimitiveTriangleFan; i++ {
		if primitiveNames[i] == s {
			return i, nil
		}
	}
	return PrimitiveUndefined, fmt.Errorf("unknown primitive kind %q", s)
}

// IsSurface reports whether the primitive kind rasterizes filled triangles.
func (pk PrimitiveKind) IsSurface() bool {
	return pk == PrimitiveTriangles || pk == PrimitiveTriangleStrip || pk == PrimitiveTriangleFan
}

// Geometry describes the vertex attributes available to the draw.
type Geometry struct {
	Primitive       PrimitiveKind
	HasUV           bool
	HasNormals      bool
	HasVertexColors bool
}

// TextureMap marks a material texture slot as present.
type TextureMap struct {
	// Matrix is set when texture coordinates are transformed by a per-slot matrix uniform.
	Matrix bool
}

// TextureSlot identifies one of the material's texture slots.
type TextureSlot uint8

const (
	SlotAmbient TextureSlot = iota
	SlotDiffuse
	SlotSpecular
	SlotEmissive
	SlotOpacity
	SlotReflectivity
	SlotNormal
	numSlots
)

var slotNames = [numSlots]string{
	SlotAmbient:      "ambient",
	SlotDiffuse:      "diffuse",
	SlotSpecular:     "specular",
	SlotEmissive:     "emissive",
	SlotOpacity:      "opacity",
	SlotReflectivity: "reflectivity",
	SlotNormal:       "normal",
}

func (s TextureSlot) String() string {
	if s < numSlots {
		return slotNames[s]
	}
	return "TextureSlot(" + strconv.Itoa(int(s)) + ")"
}

// Material holds the presence of each texture slot. A nil map is absent.
type Material struct {
	AmbientMap      *TextureMap
	DiffuseMap      *TextureMap
	SpecularMap     *TextureMap
	EmissiveMap     *TextureMap
	OpacityMap      *TextureMap
	ReflectivityMap *TextureMap
	NormalMap       *TextureMap
}

// Map returns the texture map in the slot or nil if absent. Safe to call on a nil Material.
func (m *Material) Map(slot TextureSlot) *TextureMap {
	if m == nil {
		return nil
	}
	switch slot {
	case SlotAmbient:
		return m.AmbientMap
	case SlotDiffuse:
		return m.DiffuseMap
	case SlotSpecular:
		return m.SpecularMap
	case SlotEmissive:
		return m.EmissiveMap
	case SlotOpacity:
		return m.OpacityMap
	case SlotReflectivity:
		return m.ReflectivityMap
	case SlotNormal:
		return m.NormalMap
	}
	return nil
}

// LightKind is the type of a light source.
type LightKind uint8

const (
	LightUndefined LightKind = iota
	// LightAmbient contributes only the scene-wide ambient uniforms, no per-light code.
	LightAmbient
	LightDirectional
	LightPoint
	LightSpot
)

func (lk LightKind) String() string {
	switch lk {
	case LightUndefined:
		return "undefined"
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "dir"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	}
	return "LightKind(" + strconv.Itoa(int(lk)) + ")"
}

// LightSpace is the coordinate space a light's direction or position uniform is given in.
type LightSpace uint8

const (
	SpaceView LightSpace = iota
	SpaceWorld
)

func (ls LightSpace) String() string {
	switch ls {
	case SpaceView:
		return "view"
	case SpaceWorld:
		return "world"
	}
	return "LightSpace(" + strconv.Itoa(int(ls)) + ")"
}

// Light describes a light source. Its index in [RenderState.Lights] names its uniforms
// and varyings in generated source, i.e. xeo_uLightColor2 for the third light.
type Light struct {
	Kind  LightKind
	Space LightSpace
}

// Billboard configures camera-facing geometry.
type Billboard struct {
	Active bool
	// Spherical billboards face the camera around all axes, otherwise
	// the geometry only rotates about its Y axis (cylindrical).
	Spherical bool
}

// CustomShader holds pre-authored sources. A non-empty stage is used verbatim
// instead of generating that stage.
type CustomShader struct {
	Vertex   string
	Fragment string
}

// RenderState describes everything that determines the generated draw shaders.
// The caller owns it; the package never modifies it.
type RenderState struct {
	Geometry  *Geometry
	Material  *Material
	Lights    []Light
	Billboard Billboard
	Shader    CustomShader
	// Precision reports the fragment stage float precision capability.
	// A nil probe selects highp.
	Precision PrecisionProbe
}

func (st *RenderState) geometry() Geometry {
	if st == nil || st.Geometry == nil {
		return Geometry{}
	}
	return *st.Geometry
}

func (st *RenderState) material() *Material {
	if st == nil {
		return nil
	}
	return st.Material
}

func (st *RenderState) lights() []Light {
	if st == nil {
		return nil
	}
	return st.Lights
}

func (st *RenderState) billboard() Billboard {
	if st == nil {
		return Billboard{}
	}
	return st.Billboard
}

func (st *RenderState) customShader() CustomShader {
	if st == nil {
		return CustomShader{}
	}
	return st.Shader
}

// Validate returns a non-nil error wrapping [ErrInvalidRenderState] if the state
// is missing data needed to generate source. All problems found are joined in the result.
func (st *RenderState) Validate() error {
	if st == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidRenderState)
	}
	var v validator
	bothCustom := st.Shader.Vertex != "" && st.Shader.Fragment != ""
	if st.Geometry == nil {
		if !bothCustom {
			v.errorf("nil geometry")
		}
	} else if st.Geometry.Primitive == PrimitiveUndefined || st.Geometry.Primitive > PrimitiveTriangleFan {
		v.errorf("geometry primitive %s", st.Geometry.Primitive)
	}
	for i, l := range st.Lights {
		if l.Kind == LightUndefined || l.Kind > LightSpot {
			v.errorf("light %d kind %s", i, l.Kind)
		}
		if l.Space > SpaceWorld {
			v.errorf("light %d space %s", i, l.Space)
		}
	}
	return v.Err()
}

// validator accumulates render state problems.
type validator struct {
	accumErrs []error
}

func (v *validator) errorf(msg string, args ...any) {
	v.accumErrs = append(v.accumErrs, fmt.Errorf("%w: "+msg, append([]any{ErrInvalidRenderState}, args...)...))
}

func (v *validator) Err() error {
	if len(v.accumErrs) == 0 {
		return nil
	}
	return errors.Join(v.accumErrs...)
}
