package gshade

// Flags are the features derived from a [RenderState] that drive conditional code generation.
// Computed once by [Classify] and passed unchanged to every builder.
type Flags struct {
	Textures      bool
	Shading       bool
	NormalMapping bool
	Reflection    bool
}

// Classify derives the feature flags of st. Missing fields count as absent.
func Classify(st *RenderState) Flags {
	return Flags{
		Textures:      HasTextures(st),
		Shading:       HasShading(st),
		NormalMapping: HasNormalMapping(st),
		Reflection:    HasReflection(st),
	}
}

// HasTextures reports whether the geometry has UVs and the material has at least one of the
// diffuse, specular, emissive, opacity or reflectivity maps. Ambient and normal maps do not
// enable texturing on their own.
func HasTextures(st *RenderState) bool {
	if !st.geometry().HasUV {
		return false
	}
	m := st.material()
	return m.Map(SlotDiffuse) != nil || m.Map(SlotSpecular) != nil || m.Map(SlotEmissive) != nil ||
		m.Map(SlotOpacity) != nil || m.Map(SlotReflectivity) != nil
}

// HasShading reports whether per-fragment lighting applies: the geometry has normals
// and is drawn as triangles. Points and lines are never lit.
func HasShading(st *RenderState) bool {
	g := st.geometry()
	return g.HasNormals && g.Primitive.IsSurface()
}

// HasNormalMapping reports whether the geometry has normals and the material a normal map.
func HasNormalMapping(st *RenderState) bool {
	return st.geometry().HasNormals && st.material().Map(SlotNormal) != nil
}

// HasReflection is reserved for cubemap reflections and always returns false.
func HasReflection(*RenderState) bool { return false }
