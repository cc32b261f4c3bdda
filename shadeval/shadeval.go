// Package shadeval evaluates the lighting model of generated draw shaders on the CPU.
// It mirrors the generated GLSL operation for operation, both the view space path and
// the normal mapped tangent space path, and is used to check shading results and
// billboard transforms without a GPU context. Texture sampling is not modeled.
package shadeval

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshade"
)

// Light is a light source with its direction or position already in view space.
type Light struct {
	Kind gshade.LightKind
	// Dir is the direction light travels in for directional lights.
	Dir ms3.Vec
	// Pos is the light position for point and spot lights.
	Pos       ms3.Vec
	Color     ms3.Vec
	Intensity float32
	// Attenuation holds constant, linear and quadratic factors in X, Y and Z. Point lights only.
	Attenuation ms3.Vec
}

// Material holds the per-draw material uniforms.
type Material struct {
	Diffuse   ms3.Vec
	Specular  ms3.Vec
	Emissive  ms3.Vec
	Opacity   float32
	Shininess float32
}

// Scene holds the scene-wide ambient term and the lights in uniform index order.
type Scene struct {
	AmbientColor     ms3.Vec
	AmbientIntensity float32
	Lights           []Light
}

// Fragment is an interpolated surface sample in view space.
type Fragment struct {
	ViewPosition ms3.Vec
	ViewNormal   ms3.Vec
	// Eye is the view space eye position. Zero for a view matrix placing the eye at the origin.
	Eye ms3.Vec
}

// EyeVector returns the vector from the fragment to the eye, the value of the eye vector varying.
func (frag Fragment) EyeVector() ms3.Vec {
	return ms3.Sub(frag.Eye, frag.ViewPosition)
}

// Basis is the tangent space basis of a normal mapped fragment expressed in view space.
type Basis struct {
	Tangent   ms3.Vec
	Bitangent ms3.Vec
	Normal    ms3.Vec
}

// ToTangent returns v in tangent space, the vertex stage's v *= TBM.
func (tb Basis) ToTangent(v ms3.Vec) ms3.Vec {
	return ms3.Vec{X: ms3.Dot(v, tb.Tangent), Y: ms3.Dot(v, tb.Bitangent), Z: ms3.Dot(v, tb.Normal)}
}

// LightVector returns the vector from the fragment at viewPos towards the light
// as written to the light varying by the vertex stage. dist is the distance to
// the light for point lights and zero otherwise. Ambient lights return zero values.
func LightVector(l Light, viewPos ms3.Vec) (vec ms3.Vec, dist float32) {
	switch l.Kind {
	case gshade.LightDirectional:
		return ms3.Scale(-1, ms3.Unit(l.Dir)), 0
	case gshade.LightPoint:
		vec = ms3.Sub(l.Pos, viewPos)
		return vec, ms3.Norm(vec)
	case gshade.LightSpot:
		return ms3.Sub(l.Pos, viewPos), 0
	}
	return ms3.Vec{}, 0
}

// Attenuation returns the point light attenuation factor 1/(c + l*d + q*d²) for factors a.
func Attenuation(a ms3.Vec, dist float32) float32 {
	return 1 / (a.X + a.Y*dist + a.Z*dist*dist)
}

// Reflect returns the reflection of incident vector i about the unit normal n.
func Reflect(i, n ms3.Vec) ms3.Vec {
	return ms3.Sub(i, ms3.Scale(2*ms3.Dot(n, i), n))
}

// Shade returns the color written by the lit fragment stage without normal mapping.
// Light and eye vectors are in view space.
func Shade(sc Scene, m Material, frag Fragment) (rgb ms3.Vec, alpha float32) {
	toSpace := func(v ms3.Vec) ms3.Vec { return v }
	return shade(sc, m, frag, ms3.Unit(frag.ViewNormal), toSpace)
}

// ShadeNormalMapped returns the color written by the lit fragment stage with normal mapping.
// Light and eye vectors are moved to the tangent space of tb and lit against
// the constant tangent space normal (0,1,0).
func ShadeNormalMapped(sc Scene, m Material, frag Fragment, tb Basis) (rgb ms3.Vec, alpha float32) {
	return shade(sc, m, frag, ms3.Vec{Y: 1}, tb.ToTangent)
}

func shade(sc Scene, m Material, frag Fragment, n ms3.Vec, toSpace func(ms3.Vec) ms3.Vec) (rgb ms3.Vec, alpha float32) {
	viewDir := ms3.Unit(toSpace(frag.EyeVector()))
	var diffuseLight ms3.Vec
	var specularLight float32
	for _, l := range sc.Lights {
		if l.Kind == gshade.LightAmbient {
			continue
		}
		lv, dist := LightVector(l, frag.ViewPosition)
		lv = toSpace(lv)
		attenuation := float32(1)
		switch l.Kind {
		case gshade.LightPoint:
			lv = ms3.Unit(lv)
			attenuation = Attenuation(l.Attenuation, dist)
		case gshade.LightSpot:
			lv = ms3.Unit(lv)
		}
		dotN := math32.Max(ms3.Dot(n, lv), 0)
		diffuseLight = ms3.Add(diffuseLight, ms3.Scale(dotN*attenuation, l.Color))
		r := Reflect(ms3.Scale(-1, lv), ms3.Scale(-1, n))
		specularLight += l.Intensity * math32.Pow(math32.Max(ms3.Dot(r, viewDir), 0), m.Shininess) * attenuation
	}
	ambient := ms3.Scale(sc.AmbientIntensity, sc.AmbientColor)
	rgb = ms3.Scale(specularLight, m.Specular)
	rgb = ms3.Add(rgb, ms3.MulElem(m.Diffuse, ms3.Add(diffuseLight, ambient)))
	rgb = ms3.Add(rgb, m.Emissive)
	return rgb, m.Opacity
}

// ShadeUnlit returns the color written by the unlit fragment stage.
func ShadeUnlit(sc Scene, m Material) (rgb ms3.Vec, alpha float32) {
	return ms3.Add(ms3.Add(m.Diffuse, sc.AmbientColor), m.Emissive), m.Opacity
}

// Billboard returns m with the rotation removed from its upper 3x3 the same way the
// generated billboard function does. Basis column lengths and translation are kept.
// Cylindrical billboards (spherical false) keep the Y column.
func Billboard(m ms3.Mat4, spherical bool) ms3.Mat4 {
	a := m.Array() // Row major.
	col := func(c int) float32 {
		return math32.Sqrt(a[c]*a[c] + a[4+c]*a[4+c] + a[8+c]*a[8+c])
	}
	a[0], a[4], a[8] = col(0), 0, 0
	if spherical {
		a[1], a[5], a[9] = 0, col(1), 0
	}
	a[2], a[6], a[10] = 0, 0, col(2)
	return ms3.NewMat4(a[:])
}
