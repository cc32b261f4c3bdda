package gshade

import "github.com/soypat/gshade/glsrc"

// BuildDrawVertex returns the draw pass vertex shader for st. See [AppendDrawVertex].
func BuildDrawVertex(st *RenderState, f Flags) string {
	return string(AppendDrawVertex(nil, st, f))
}

// AppendDrawVertex appends the draw pass vertex shader for st with features f to b.
// If st has a custom vertex shader it is appended verbatim and nothing is generated.
func AppendDrawVertex(b []byte, st *RenderState, f Flags) []byte {
	if custom := st.customShader().Vertex; custom != "" {
		return append(b, custom...)
	}
	g := st.geometry()
	bb := st.billboard()
	b = append(b, "uniform mat4 xeo_uModelMatrix;\n"...)
	b = append(b, "uniform mat4 xeo_uViewMatrix;\n"...)
	b = append(b, "uniform mat4 xeo_uProjMatrix;\n"...)
	b = append(b, "uniform vec3 xeo_uEye;\n"...)
	b = append(b, "attribute vec3 xeo_aPosition;\n"...)
	b = append(b, "varying vec3 xeo_vViewPosition;\n"...)
	b = append(b, "varying vec3 xeo_vViewEyeVec;\n"...)
	if f.Shading {
		b = append(b, "attribute vec3 xeo_aNormal;\n"...)
		b = append(b, "uniform mat4 xeo_uModelNormalMatrix;\n"...)
		b = append(b, "uniform mat4 xeo_uViewNormalMatrix;\n"...)
		b = append(b, "varying vec3 xeo_vViewNormal;\n"...)
		if f.NormalMapping {
			b = append(b, "attribute vec4 xeo_aTangent;\n"...)
		}
		for i, light := range st.lights() {
			switch light.Kind {
			case LightDirectional:
				b = glsrc.AppendIndexed(b, "uniform vec3 xeo_uLightDir", i, ";\n")
			case LightPoint, LightSpot:
				b = glsrc.AppendIndexed(b, "uniform vec3 xeo_uLightPos", i, ";\n")
			default:
				continue
			}
			// Vector from vertex to light. Point lights pack the distance to the light in w.
			b = glsrc.AppendIndexed(b, "varying vec4 xeo_vViewLightVecAndDist", i, ";\n")
		}
	}
	if f.Textures {
		b = append(b, "attribute vec2 xeo_aUV;\n"...)
		b = append(b, "varying vec2 xeo_vUV;\n"...)
	}
	if g.HasVertexColors {
		b = append(b, "attribute vec4 xeo_aColor;\n"...)
		b = append(b, "varying vec4 xeo_vColor;\n"...)
	}
	if g.Primitive == PrimitivePoints {
		b = append(b, "uniform float xeo_uPointSize;\n"...)
	}
	if bb.Active {
		b = appendBillboardFunc(b, bb.Spherical)
	}
	return appendVertexMain(b, st, f)
}

// appendBillboardFunc appends a function that removes the rotation from the upper 3x3 of a matrix.
// Each neutralized basis column keeps its length so scale survives. Translation is untouched.
// Cylindrical billboards keep the Y column so geometry only turns about its up axis.
func appendBillboardFunc(b []byte, spherical bool) []byte {
	b = append(b, "void billboard(inout mat4 mat) {\n"...)
	b = append(b, "\tmat[0].xyz = vec3(length(mat[0].xyz), 0.0, 0.0);\n"...)
	if spherical {
		b = append(b, "\tmat[1].xyz = vec3(0.0, length(mat[1].xyz), 0.0);\n"...)
	}
	b = append(b, "\tmat[2].xyz = vec3(0.0, 0.0, length(mat[2].xyz));\n"...)
	b = append(b, "}\n"...)
	return b
}

func appendVertexMain(b []byte, st *RenderState, f Flags) []byte {
	g := st.geometry()
	billboard := st.billboard().Active
	b = append(b, "void main(void) {\n"...)
	b = append(b, "\tvec4 localPosition = vec4(xeo_aPosition, 1.0);\n"...)
	b = append(b, "\tmat4 modelMatrix = xeo_uModelMatrix;\n"...)
	b = append(b, "\tmat4 viewMatrix = xeo_uViewMatrix;\n"...)
	b = append(b, "\tmat4 modelViewMatrix = viewMatrix * modelMatrix;\n"...)
	if f.Shading {
		b = append(b, "\tvec4 localNormal = vec4(xeo_aNormal, 0.0);\n"...)
		b = append(b, "\tmat4 modelNormalMatrix = xeo_uModelNormalMatrix;\n"...)
		b = append(b, "\tmat4 viewNormalMatrix = xeo_uViewNormalMatrix;\n"...)
	}
	if billboard {
		// Correction precedes every use of the matrices.
		b = append(b, "\tbillboard(modelMatrix);\n"...)
		b = append(b, "\tbillboard(viewMatrix);\n"...)
		b = append(b, "\tbillboard(modelViewMatrix);\n"...)
		if f.Shading {
			b = append(b, "\tbillboard(modelNormalMatrix);\n"...)
			b = append(b, "\tbillboard(viewNormalMatrix);\n"...)
		}
	}
	b = append(b, "\tvec4 worldPosition = modelMatrix * localPosition;\n"...)
	if billboard {
		b = append(b, "\tvec4 viewPosition = modelViewMatrix * localPosition;\n"...)
	} else {
		b = append(b, "\tvec4 viewPosition = viewMatrix * worldPosition;\n"...)
	}
	b = append(b, "\txeo_vViewPosition = viewPosition.xyz;\n"...)
	b = append(b, "\txeo_vViewEyeVec = (xeo_uViewMatrix * vec4(xeo_uEye, 1.0)).xyz - viewPosition.xyz;\n"...)
	if f.Shading {
		b = appendVertexLighting(b, st.lights(), f.NormalMapping)
	}
	if f.Textures {
		b = append(b, "\txeo_vUV = xeo_aUV;\n"...)
	}
	if g.HasVertexColors {
		b = append(b, "\txeo_vColor = xeo_aColor;\n"...)
	}
	if g.Primitive == PrimitivePoints {
		b = append(b, "\tgl_PointSize = xeo_uPointSize;\n"...)
	}
	b = append(b, "\tgl_Position = xeo_uProjMatrix * viewPosition;\n"...)
	b = append(b, "}\n"...)
	return b
}

// appendVertexLighting appends the normal transform, the tangent basis when normal mapping
// and one light vector varying write per non-ambient light, in light order.
func appendVertexLighting(b []byte, lights []Light, normalMapping bool) []byte {
	b = append(b, "\tvec3 worldNormal = (modelNormalMatrix * localNormal).xyz;\n"...)
	b = append(b, "\txeo_vViewNormal = normalize((viewNormalMatrix * vec4(worldNormal, 0.0)).xyz);\n"...)
	if normalMapping {
		b = append(b, "\tvec3 worldTangent = (modelNormalMatrix * vec4(xeo_aTangent.xyz, 0.0)).xyz;\n"...)
		b = append(b, "\tvec3 viewTangent = normalize((viewNormalMatrix * vec4(worldTangent, 0.0)).xyz);\n"...)
		b = append(b, "\tvec3 viewBitangent = normalize(cross(xeo_vViewNormal, viewTangent) * xeo_aTangent.w);\n"...)
		b = append(b, "\tmat3 TBM = mat3(viewTangent, viewBitangent, xeo_vViewNormal);\n"...)
		b = append(b, "\txeo_vViewEyeVec *= TBM;\n"...)
	}
	b = append(b, "\tvec3 tmpVec3;\n"...)
	b = append(b, "\tfloat lightDist;\n"...)
	for i, light := range lights {
		switch light.Kind {
		case LightDirectional:
			if light.Space == SpaceWorld {
				b = glsrc.AppendIndexed(b, "\ttmpVec3 = -normalize((xeo_uViewMatrix * vec4(xeo_uLightDir", i, ", 0.0)).xyz);\n")
			} else {
				b = glsrc.AppendIndexed(b, "\ttmpVec3 = -normalize(xeo_uLightDir", i, ");\n")
			}
			if normalMapping {
				b = append(b, "\ttmpVec3 *= TBM;\n"...)
			}
			b = glsrc.AppendIndexed(b, "\txeo_vViewLightVecAndDist", i, " = vec4(tmpVec3, 0.0);\n")

		case LightPoint, LightSpot:
			if light.Space == SpaceWorld {
				b = glsrc.AppendIndexed(b, "\ttmpVec3 = (xeo_uViewMatrix * vec4(xeo_uLightPos", i, ", 1.0)).xyz - viewPosition.xyz;\n")
			} else {
				b = glsrc.AppendIndexed(b, "\ttmpVec3 = xeo_uLightPos", i, " - viewPosition.xyz;\n")
			}
			if light.Kind == LightPoint {
				b = append(b, "\tlightDist = length(tmpVec3);\n"...)
			}
			if normalMapping {
				b = append(b, "\ttmpVec3 *= TBM;\n"...)
			}
			if light.Kind == LightPoint {
				b = glsrc.AppendIndexed(b, "\txeo_vViewLightVecAndDist", i, " = vec4(tmpVec3, lightDist);\n")
			} else {
				b = glsrc.AppendIndexed(b, "\txeo_vViewLightVecAndDist", i, " = vec4(tmpVec3, 0.0);\n")
			}
		}
	}
	return b
}
