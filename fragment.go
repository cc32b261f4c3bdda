package gshade

import "github.com/soypat/gshade/glsrc"

// fragmentMaps lists the texture slots the fragment stage samples, in emission order.
// The normal map is absent: normal mapping uses a fixed tangent space normal.
var fragmentMaps = [...]struct {
	slot    TextureSlot
	sampler string
	matrix  string
	target  string // Working value overwritten by the sample.
	swizzle string
}{
	{slot: SlotAmbient, sampler: "xeo_uAmbientMap", matrix: "xeo_uAmbientMapMatrix", target: "ambient", swizzle: "rgb"},
	{slot: SlotDiffuse, sampler: "xeo_uDiffuseMap", matrix: "xeo_uDiffuseMapMatrix", target: "diffuse", swizzle: "rgb"},
	{slot: SlotSpecular, sampler: "xeo_uSpecularMap", matrix: "xeo_uSpecularMapMatrix", target: "specular", swizzle: "rgb"},
	{slot: SlotEmissive, sampler: "xeo_uEmissiveMap", matrix: "xeo_uEmissiveMapMatrix", target: "emissive", swizzle: "rgb"},
	{slot: SlotOpacity, sampler: "xeo_uOpacityMap", matrix: "xeo_uOpacityMapMatrix", target: "opacity", swizzle: "b"},
	{slot: SlotReflectivity, sampler: "xeo_uReflectivityMap", matrix: "xeo_uReflectivityMapMatrix", target: "reflectivity", swizzle: "b"},
}

// BuildDrawFragment returns the draw pass fragment shader for st. See [AppendDrawFragment].
func BuildDrawFragment(st *RenderState, f Flags) string {
	return string(AppendDrawFragment(nil, st, f))
}

// AppendDrawFragment appends the draw pass fragment shader for st with features f to b.
// If st has a custom fragment shader it is appended verbatim and nothing is generated.
func AppendDrawFragment(b []byte, st *RenderState, f Flags) []byte {
	if custom := st.customShader().Fragment; custom != "" {
		return append(b, custom...)
	}
	g := st.geometry()
	mat := st.material()
	b = glsrc.AppendPrecisionDecl(b, st.fragmentPrecision())
	b = append(b, "uniform vec3 xeo_uDiffuse;\n"...)
	b = append(b, "uniform vec3 xeo_uSpecular;\n"...)
	b = append(b, "uniform vec3 xeo_uEmissive;\n"...)
	b = append(b, "uniform float xeo_uOpacity;\n"...)
	b = append(b, "uniform float xeo_uShininess;\n"...)
	b = append(b, "uniform float xeo_uReflectivity;\n"...)
	if f.Textures {
		b = append(b, "varying vec2 xeo_vUV;\n"...)
		for _, fm := range fragmentMaps {
			tm := mat.Map(fm.slot)
			if tm == nil {
				continue
			}
			b = append(b, "uniform sampler2D "...)
			b = append(b, fm.sampler...)
			b = append(b, ";\n"...)
			if tm.Matrix {
				b = append(b, "uniform mat4 "...)
				b = append(b, fm.matrix...)
				b = append(b, ";\n"...)
			}
		}
	}
	b = append(b, "uniform vec3 xeo_uLightAmbientColor;\n"...)
	b = append(b, "uniform float xeo_uLightAmbientIntensity;\n"...)
	if g.HasVertexColors {
		b = append(b, "varying vec4 xeo_vColor;\n"...)
	}
	if f.Shading {
		// Eye vector is in tangent space when normal mapping, like the light vectors.
		b = append(b, "varying vec3 xeo_vViewEyeVec;\n"...)
		b = append(b, "varying vec3 xeo_vViewNormal;\n"...)
		for i, light := range st.lights() {
			if !light.Kind.perFragment() {
				continue
			}
			b = glsrc.AppendIndexed(b, "uniform vec3 xeo_uLightColor", i, ";\n")
			b = glsrc.AppendIndexed(b, "uniform float xeo_uLightIntensity", i, ";\n")
			if light.Kind == LightPoint {
				b = glsrc.AppendIndexed(b, "uniform vec3 xeo_uLightAttenuation", i, ";\n")
			}
			b = glsrc.AppendIndexed(b, "varying vec4 xeo_vViewLightVecAndDist", i, ";\n")
		}
	}
	return appendFragmentMain(b, st, f)
}

func appendFragmentMain(b []byte, st *RenderState, f Flags) []byte {
	g := st.geometry()
	mat := st.material()
	b = append(b, "void main(void) {\n"...)
	b = append(b, "\tvec3 ambient = xeo_uLightAmbientColor;\n"...)
	b = append(b, "\tvec3 diffuse = xeo_uDiffuse;\n"...)
	b = append(b, "\tvec3 specular = xeo_uSpecular;\n"...)
	b = append(b, "\tvec3 emissive = xeo_uEmissive;\n"...)
	b = append(b, "\tfloat opacity = xeo_uOpacity;\n"...)
	b = append(b, "\tfloat shininess = xeo_uShininess;\n"...)
	b = append(b, "\tfloat reflectivity = xeo_uReflectivity;\n"...)
	if g.HasVertexColors {
		b = append(b, "\tdiffuse = xeo_vColor.rgb;\n"...)
	}
	if f.Shading {
		if f.NormalMapping {
			// Light vectors are in tangent space where the unperturbed normal is up.
			b = append(b, "\tvec3 viewNormal = vec3(0.0, 1.0, 0.0);\n"...)
		} else {
			b = append(b, "\tvec3 viewNormal = normalize(xeo_vViewNormal);\n"...)
		}
	}
	if f.Textures {
		b = append(b, "\tvec4 texturePos = vec4(xeo_vUV.s, xeo_vUV.t, 1.0, 1.0);\n"...)
		b = append(b, "\tvec2 textureCoord;\n"...)
		for _, fm := range fragmentMaps {
			tm := mat.Map(fm.slot)
			if tm == nil {
				continue
			}
			if tm.Matrix {
				b = append(b, "\ttextureCoord = ("...)
				b = append(b, fm.matrix...)
				b = append(b, " * texturePos).xy;\n"...)
			} else {
				b = append(b, "\ttextureCoord = texturePos.xy;\n"...)
			}
			b = append(b, "\ttextureCoord.y = -textureCoord.y;\n"...)
			b = append(b, '\t')
			b = append(b, fm.target...)
			b = append(b, " = texture2D("...)
			b = append(b, fm.sampler...)
			b = append(b, ", textureCoord)."...)
			b = append(b, fm.swizzle...)
			b = append(b, ";\n"...)
		}
	}
	if f.Shading {
		b = appendFragmentLighting(b, st.lights())
		b = append(b, "\tgl_FragColor = vec4((specularLight * specular) + (diffuse * (diffuseLight + (ambient * xeo_uLightAmbientIntensity))) + emissive, opacity);\n"...)
	} else {
		b = append(b, "\tgl_FragColor = vec4(diffuse + ambient + emissive, opacity);\n"...)
	}
	b = append(b, "}\n"...)
	return b
}

// appendFragmentLighting accumulates Lambert diffuse and Phong specular terms
// for every non-ambient light in the order the lights are given.
func appendFragmentLighting(b []byte, lights []Light) []byte {
	b = append(b, "\tvec3 diffuseLight = vec3(0.0, 0.0, 0.0);\n"...)
	b = append(b, "\tvec3 specularLight = vec3(0.0, 0.0, 0.0);\n"...)
	b = append(b, "\tvec3 viewDir = normalize(xeo_vViewEyeVec);\n"...)
	b = append(b, "\tvec3 viewLightVec;\n"...)
	b = append(b, "\tfloat dotN;\n"...)
	b = append(b, "\tfloat lightDist;\n"...)
	b = append(b, "\tfloat attenuation;\n"...)
	for i, light := range lights {
		switch light.Kind {
		case LightPoint:
			b = glsrc.AppendIndexed(b, "\tviewLightVec = normalize(xeo_vViewLightVecAndDist", i, ".xyz);\n")
			b = append(b, "\tdotN = max(dot(viewNormal, viewLightVec), 0.0);\n"...)
			b = glsrc.AppendIndexed(b, "\tlightDist = xeo_vViewLightVecAndDist", i, ".w;\n")
			b = glsrc.AppendIndexed(b, "\tattenuation = 1.0 / (xeo_uLightAttenuation", i, "[0]")
			b = glsrc.AppendIndexed(b, " + xeo_uLightAttenuation", i, "[1] * lightDist")
			b = glsrc.AppendIndexed(b, " + xeo_uLightAttenuation", i, "[2] * lightDist * lightDist);\n")
			b = glsrc.AppendIndexed(b, "\tdiffuseLight += dotN * xeo_uLightColor", i, " * attenuation;\n")
			b = glsrc.AppendIndexed(b, "\tspecularLight += xeo_uLightIntensity", i, " * pow(max(dot(reflect(-viewLightVec, -viewNormal), viewDir), 0.0), shininess) * attenuation;\n")

		case LightDirectional, LightSpot:
			if light.Kind == LightSpot {
				b = glsrc.AppendIndexed(b, "\tviewLightVec = normalize(xeo_vViewLightVecAndDist", i, ".xyz);\n")
			} else {
				b = glsrc.AppendIndexed(b, "\tviewLightVec = xeo_vViewLightVecAndDist", i, ".xyz;\n")
			}
			b = append(b, "\tdotN = max(dot(viewNormal, viewLightVec), 0.0);\n"...)
			b = glsrc.AppendIndexed(b, "\tdiffuseLight += dotN * xeo_uLightColor", i, ";\n")
			b = glsrc.AppendIndexed(b, "\tspecularLight += xeo_uLightIntensity", i, " * pow(max(dot(reflect(-viewLightVec, -viewNormal), viewDir), 0.0), shininess);\n")
		}
	}
	return b
}

// perFragment reports whether the light kind gets its own uniforms and varying.
func (lk LightKind) perFragment() bool {
	return lk == LightDirectional || lk == LightPoint || lk == LightSpot
}
