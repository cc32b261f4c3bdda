package gshade_test

import (
	"strings"
	"testing"

	"github.com/soypat/gshade"
	"github.com/soypat/gshade/glsrc"
)

const litColorLine = "gl_FragColor = vec4((specularLight * specular) + (diffuse * (diffuseLight + (ambient * xeo_uLightAmbientIntensity))) + emissive, opacity);"

func scenarioState() *gshade.RenderState {
	return &gshade.RenderState{
		Geometry: &gshade.Geometry{Primitive: gshade.PrimitiveTriangles, HasNormals: true},
		Material: &gshade.Material{},
		Lights:   []gshade.Light{{Kind: gshade.LightDirectional, Space: gshade.SpaceView}},
	}
}

// testStates covers every branch of the builders.
func testStates() map[string]*gshade.RenderState {
	tm := &gshade.TextureMap{}
	tmm := &gshade.TextureMap{Matrix: true}
	return map[string]*gshade.RenderState{
		"scenario": scenarioState(),
		"unlit points": {
			Geometry: &gshade.Geometry{Primitive: gshade.PrimitivePoints, HasNormals: true, HasVertexColors: true},
		},
		"textured": {
			Geometry: &gshade.Geometry{Primitive: gshade.PrimitiveTriangleStrip, HasUV: true, HasNormals: true},
			Material: &gshade.Material{AmbientMap: tm, DiffuseMap: tmm, OpacityMap: tm, ReflectivityMap: tmm},
			Lights:   []gshade.Light{{Kind: gshade.LightPoint, Space: gshade.SpaceWorld}},
		},
		"normal mapped": {
			Geometry: &gshade.Geometry{Primitive: gshade.PrimitiveTriangles, HasUV: true, HasNormals: true},
			Material: &gshade.Material{SpecularMap: tm, NormalMap: tm},
			Lights: []gshade.Light{
				{Kind: gshade.LightAmbient},
				{Kind: gshade.LightDirectional, Space: gshade.SpaceWorld},
				{Kind: gshade.LightSpot},
				{Kind: gshade.LightPoint},
			},
		},
		"billboard": {
			Geometry:  &gshade.Geometry{Primitive: gshade.PrimitiveTriangleFan, HasNormals: true},
			Billboard: gshade.Billboard{Active: true, Spherical: true},
			Lights:    []gshade.Light{{Kind: gshade.LightPoint}},
		},
	}
}

func TestBuildDeterministic(t *testing.T) {
	for name, st := range testStates() {
		f := gshade.Classify(st)
		v1, v2 := gshade.BuildDrawVertex(st, f), gshade.BuildDrawVertex(st, f)
		f1, f2 := gshade.BuildDrawFragment(st, f), gshade.BuildDrawFragment(st, f)
		if v1 != v2 {
			t.Errorf("%s: vertex source differs between builds", name)
		}
		if f1 != f2 {
			t.Errorf("%s: fragment source differs between builds", name)
		}
		// Appending to a non-empty buffer must not change generated text.
		prefixed := string(gshade.AppendDrawVertex([]byte("//\n"), st, f))
		if prefixed != "//\n"+v1 {
			t.Errorf("%s: append to non-empty buffer altered source", name)
		}
		if !strings.HasPrefix(v1, "uniform mat4 xeo_uModelMatrix;\n") {
			t.Errorf("%s: unexpected vertex preamble:\n%s", name, v1)
		}
		if !strings.HasSuffix(v1, "\tgl_Position = xeo_uProjMatrix * viewPosition;\n}\n") {
			t.Errorf("%s: vertex shader must end writing gl_Position:\n%s", name, v1)
		}
	}
}

func TestScenarioDirectionalLight(t *testing.T) {
	st := scenarioState()
	f := gshade.Classify(st)
	want := gshade.Flags{Shading: true}
	if f != want {
		t.Fatalf("want flags %+v, got %+v", want, f)
	}
	vert := gshade.BuildDrawVertex(st, f)
	frag := gshade.BuildDrawFragment(st, f)
	if n := strings.Count(vert, "varying vec4 xeo_vViewLightVecAndDist0;"); n != 1 {
		t.Errorf("want one light vector varying, got %d:\n%s", n, vert)
	}
	if strings.Contains(vert, "xeo_aUV") {
		t.Errorf("unexpected UV attribute:\n%s", vert)
	}
	if !strings.Contains(vert, "uniform vec3 xeo_uLightDir0;\n") {
		t.Errorf("missing light direction uniform:\n%s", vert)
	}
	if !strings.Contains(frag, litColorLine) {
		t.Errorf("fragment shader does not take lit branch:\n%s", frag)
	}
	if strings.Contains(frag, "gl_FragColor = vec4(diffuse + ambient + emissive, opacity);") {
		t.Errorf("fragment shader has unlit output:\n%s", frag)
	}
}

func TestLightOrdering(t *testing.T) {
	st := &gshade.RenderState{
		Geometry: &gshade.Geometry{Primitive: gshade.PrimitiveTriangles, HasNormals: true},
		Lights: []gshade.Light{
			{Kind: gshade.LightDirectional},
			{Kind: gshade.LightDirectional, Space: gshade.SpaceWorld},
			{Kind: gshade.LightPoint},
		},
	}
	f := gshade.Classify(st)
	vert := gshade.BuildDrawVertex(st, f)
	frag := gshade.BuildDrawFragment(st, f)
	if n := strings.Count(vert, "varying vec4 xeo_vViewLightVecAndDist"); n != 3 {
		t.Errorf("want 3 light vector varyings, got %d:\n%s", n, vert)
	}
	last := -1
	for i, want := range []string{
		"diffuseLight += dotN * xeo_uLightColor0;",
		"diffuseLight += dotN * xeo_uLightColor1;",
		"diffuseLight += dotN * xeo_uLightColor2 * attenuation;",
	} {
		idx := strings.Index(frag, want)
		if idx < 0 {
			t.Fatalf("light %d: missing %q in:\n%s", i, want, frag)
		} else if idx < last {
			t.Errorf("light %d accumulated out of order", i)
		}
		last = idx
	}
	if !strings.Contains(vert, "xeo_vViewLightVecAndDist2 = vec4(tmpVec3, lightDist);") {
		t.Errorf("point light must pack distance in w:\n%s", vert)
	}
	if !strings.Contains(frag, "uniform vec3 xeo_uLightAttenuation2;") || strings.Contains(frag, "xeo_uLightAttenuation0") {
		t.Errorf("attenuation uniforms only expected for point light:\n%s", frag)
	}
}

func TestAmbientLightsHaveNoPerLightCode(t *testing.T) {
	st := &gshade.RenderState{
		Geometry: &gshade.Geometry{Primitive: gshade.PrimitiveTriangles, HasNormals: true},
		Lights: []gshade.Light{
			{Kind: gshade.LightAmbient},
			{Kind: gshade.LightDirectional},
			{Kind: gshade.LightAmbient},
			{Kind: gshade.LightPoint},
		},
	}
	f := gshade.Classify(st)
	vert := gshade.BuildDrawVertex(st, f)
	frag := gshade.BuildDrawFragment(st, f)
	for _, src := range []string{vert, frag} {
		if n := strings.Count(src, "varying vec4 xeo_vViewLightVecAndDist"); n != 2 {
			t.Errorf("want 2 light varyings, got %d", n)
		}
		if strings.Contains(src, "xeo_vViewLightVecAndDist0") || strings.Contains(src, "xeo_vViewLightVecAndDist2") {
			t.Errorf("ambient light got a varying:\n%s", src)
		}
	}
	if n := strings.Count(frag, "uniform vec3 xeo_uLightColor"); n != 2 {
		t.Errorf("want 2 light color uniforms, got %d", n)
	}
	if !strings.Contains(frag, "uniform vec3 xeo_uLightAmbientColor;") {
		t.Error("missing scene ambient uniform")
	}
}

func TestUnlitPrimitives(t *testing.T) {
	st := &gshade.RenderState{
		Geometry: &gshade.Geometry{Primitive: gshade.PrimitivePoints, HasNormals: true, HasVertexColors: true},
		Lights:   []gshade.Light{{Kind: gshade.LightDirectional}},
	}
	f := gshade.Classify(st)
	vert := gshade.BuildDrawVertex(st, f)
	frag := gshade.BuildDrawFragment(st, f)
	for _, want := range []string{
		"uniform float xeo_uPointSize;\n",
		"\tgl_PointSize = xeo_uPointSize;\n",
		"attribute vec4 xeo_aColor;\n",
		"\txeo_vColor = xeo_aColor;\n",
	} {
		if !strings.Contains(vert, want) {
			t.Errorf("missing %q in vertex:\n%s", want, vert)
		}
	}
	if strings.Contains(vert, "xeo_aNormal") || strings.Contains(vert, "xeo_uLightDir0") {
		t.Errorf("points must not be lit:\n%s", vert)
	}
	if !strings.Contains(frag, "\tdiffuse = xeo_vColor.rgb;\n") {
		t.Errorf("vertex color must override diffuse:\n%s", frag)
	}
	if !strings.Contains(frag, "\tgl_FragColor = vec4(diffuse + ambient + emissive, opacity);\n") {
		t.Errorf("want unlit output:\n%s", frag)
	}
}

func TestTextureSampling(t *testing.T) {
	st := testStates()["textured"]
	f := gshade.Classify(st)
	vert := gshade.BuildDrawVertex(st, f)
	frag := gshade.BuildDrawFragment(st, f)
	if !strings.Contains(vert, "attribute vec2 xeo_aUV;\n") || !strings.Contains(vert, "\txeo_vUV = xeo_aUV;\n") {
		t.Errorf("missing UV passthrough:\n%s", vert)
	}
	for _, want := range []string{
		"uniform sampler2D xeo_uAmbientMap;\n",
		"uniform sampler2D xeo_uDiffuseMap;\nuniform mat4 xeo_uDiffuseMapMatrix;\n",
		"\ttextureCoord = (xeo_uDiffuseMapMatrix * texturePos).xy;\n\ttextureCoord.y = -textureCoord.y;\n\tdiffuse = texture2D(xeo_uDiffuseMap, textureCoord).rgb;\n",
		"\tambient = texture2D(xeo_uAmbientMap, textureCoord).rgb;\n",
		"\topacity = texture2D(xeo_uOpacityMap, textureCoord).b;\n",
		"\treflectivity = texture2D(xeo_uReflectivityMap, textureCoord).b;\n",
	} {
		if !strings.Contains(frag, want) {
			t.Errorf("missing %q in fragment:\n%s", want, frag)
		}
	}
	if strings.Contains(frag, "xeo_uAmbientMapMatrix") || strings.Contains(frag, "xeo_uSpecularMap") {
		t.Errorf("unexpected texture uniforms:\n%s", frag)
	}
	// Samplers are emitted in slot order.
	if strings.Index(frag, "xeo_uAmbientMap;") > strings.Index(frag, "xeo_uDiffuseMap;") {
		t.Error("ambient sampler must precede diffuse sampler")
	}
}

func TestAmbientMapAloneNotSampled(t *testing.T) {
	st := &gshade.RenderState{
		Geometry: &gshade.Geometry{Primitive: gshade.PrimitiveTriangles, HasUV: true},
		Material: &gshade.Material{AmbientMap: &gshade.TextureMap{}},
	}
	f := gshade.Classify(st)
	frag := gshade.BuildDrawFragment(st, f)
	vert := gshade.BuildDrawVertex(st, f)
	if strings.Contains(frag, "xeo_uAmbientMap") || strings.Contains(vert, "xeo_aUV") {
		t.Errorf("ambient map alone must not enable texturing:\n%s\n%s", vert, frag)
	}
}

func TestNormalMapping(t *testing.T) {
	st := testStates()["normal mapped"]
	f := gshade.Classify(st)
	if !f.NormalMapping || !f.Shading || !f.Textures {
		t.Fatalf("unexpected flags %+v", f)
	}
	vert := gshade.BuildDrawVertex(st, f)
	frag := gshade.BuildDrawFragment(st, f)
	for _, want := range []string{
		"attribute vec4 xeo_aTangent;\n",
		"\tmat3 TBM = mat3(viewTangent, viewBitangent, xeo_vViewNormal);\n",
		"\ttmpVec3 = -normalize((xeo_uViewMatrix * vec4(xeo_uLightDir1, 0.0)).xyz);\n\ttmpVec3 *= TBM;\n",
		"uniform vec3 xeo_uLightPos2;\n",
		"\txeo_vViewLightVecAndDist2 = vec4(tmpVec3, 0.0);\n",
		"\txeo_vViewLightVecAndDist3 = vec4(tmpVec3, lightDist);\n",
	} {
		if !strings.Contains(vert, want) {
			t.Errorf("missing %q in vertex:\n%s", want, vert)
		}
	}
	if !strings.Contains(frag, "\tvec3 viewNormal = vec3(0.0, 1.0, 0.0);\n") {
		t.Errorf("normal mapping uses fixed tangent space normal:\n%s", frag)
	}
	if strings.Contains(frag, "xeo_uNormalMap") {
		t.Errorf("normal map is never sampled:\n%s", frag)
	}
	// Specular view direction must be in the same tangent space as the light vectors.
	if !strings.Contains(vert, "\txeo_vViewEyeVec *= TBM;\n") {
		t.Errorf("eye vector not moved to tangent space:\n%s", vert)
	}
	if !strings.Contains(frag, "varying vec3 xeo_vViewEyeVec;\n") || !strings.Contains(frag, "\tvec3 viewDir = normalize(xeo_vViewEyeVec);\n") {
		t.Errorf("fragment must derive view direction from eye vector:\n%s", frag)
	}
	if strings.Contains(frag, "xeo_vViewPosition") {
		t.Errorf("fragment mixes view space position into tangent space lighting:\n%s", frag)
	}
}

func TestViewDirFromEyeVector(t *testing.T) {
	st := scenarioState()
	f := gshade.Classify(st)
	vert := gshade.BuildDrawVertex(st, f)
	frag := gshade.BuildDrawFragment(st, f)
	if !strings.Contains(vert, "\txeo_vViewEyeVec = (xeo_uViewMatrix * vec4(xeo_uEye, 1.0)).xyz - viewPosition.xyz;\n") {
		t.Errorf("vertex must write eye vector:\n%s", vert)
	}
	if strings.Contains(vert, "*= TBM") {
		t.Errorf("tangent space transform without normal map:\n%s", vert)
	}
	if !strings.Contains(frag, "\tvec3 viewDir = normalize(xeo_vViewEyeVec);\n") {
		t.Errorf("fragment must derive view direction from eye vector:\n%s", frag)
	}
}

func TestBillboard(t *testing.T) {
	for _, spherical := range []bool{false, true} {
		st := &gshade.RenderState{
			Geometry:  &gshade.Geometry{Primitive: gshade.PrimitiveTriangles, HasNormals: true},
			Billboard: gshade.Billboard{Active: true, Spherical: spherical},
		}
		vert := gshade.BuildDrawVertex(st, gshade.Classify(st))
		if !strings.Contains(vert, "void billboard(inout mat4 mat) {\n") {
			t.Fatalf("missing billboard helper:\n%s", vert)
		}
		hasY := strings.Contains(vert, "mat[1].xyz")
		if hasY != spherical {
			t.Errorf("spherical=%v: Y column neutralized=%v", spherical, hasY)
		}
		correct := strings.Index(vert, "\tbillboard(modelViewMatrix);\n")
		use := strings.Index(vert, "\tvec4 viewPosition = modelViewMatrix * localPosition;\n")
		if correct < 0 || use < 0 || correct > use {
			t.Errorf("billboard correction must precede matrix use:\n%s", vert)
		}
		if !strings.Contains(vert, "\tbillboard(viewNormalMatrix);\n") {
			t.Errorf("normal matrices must be corrected when shading:\n%s", vert)
		}
	}
	st := scenarioState()
	if vert := gshade.BuildDrawVertex(st, gshade.Classify(st)); strings.Contains(vert, "billboard") {
		t.Errorf("billboard code emitted while inactive:\n%s", vert)
	}
}

func TestCustomShaderBypass(t *testing.T) {
	const vs = "void main(void) { gl_Position = vec4(0.0); }\n"
	const fs = "void main(void) { gl_FragColor = vec4(1.0); }\n"
	// No geometry: generation would have nothing to work with.
	st := &gshade.RenderState{Shader: gshade.CustomShader{Vertex: vs, Fragment: fs}}
	f := gshade.Classify(st)
	if got := gshade.BuildDrawVertex(st, f); got != vs {
		t.Errorf("want custom vertex verbatim, got:\n%s", got)
	}
	if got := gshade.BuildDrawFragment(st, f); got != fs {
		t.Errorf("want custom fragment verbatim, got:\n%s", got)
	}
	// Only one stage custom: the other is generated.
	st = scenarioState()
	st.Shader.Vertex = vs
	f = gshade.Classify(st)
	if got := gshade.BuildDrawVertex(st, f); got != vs {
		t.Errorf("want custom vertex verbatim, got:\n%s", got)
	}
	if got := gshade.BuildDrawFragment(st, f); !strings.Contains(got, litColorLine) {
		t.Errorf("fragment should be generated:\n%s", got)
	}
}

type noHighProbe struct{}

func (noHighProbe) FragmentFloatPrecision(p glsrc.Precision) int {
	if p == glsrc.PrecisionHigh {
		return 0
	}
	return 10
}

type nothingProbe struct{}

func (nothingProbe) FragmentFloatPrecision(glsrc.Precision) int { return 0 }

func TestFragmentPrecision(t *testing.T) {
	for _, test := range []struct {
		probe gshade.PrecisionProbe
		want  string
	}{
		{probe: nil, want: "precision highp float;\n"},
		{probe: gshade.FixedPrecision(glsrc.PrecisionHigh), want: "precision highp float;\n"},
		{probe: gshade.FixedPrecision(glsrc.PrecisionMedium), want: "precision mediump float;\n"},
		{probe: noHighProbe{}, want: "precision mediump float;\n"},
		{probe: nothingProbe{}, want: "precision lowp float;\n"},
	} {
		st := scenarioState()
		st.Precision = test.probe
		frag := gshade.BuildDrawFragment(st, gshade.Classify(st))
		if !strings.HasPrefix(frag, test.want) {
			t.Errorf("probe %T: want prefix %q, got:\n%s", test.probe, test.want, frag)
		}
		pick := gshade.BuildPickObjectFragment(gshade.FragmentPrecision(test.probe))
		if !strings.HasPrefix(pick, test.want) {
			t.Errorf("probe %T: pick fragment want prefix %q, got:\n%s", test.probe, test.want, pick)
		}
	}
}

func TestPickShaders(t *testing.T) {
	pov := gshade.BuildPickObjectVertex()
	pof := gshade.BuildPickObjectFragment(glsrc.PrecisionHigh)
	ppv := gshade.BuildPickPrimitiveVertex()
	ppf := gshade.BuildPickPrimitiveFragment(glsrc.PrecisionHigh)
	if !strings.Contains(pof, "gl_FragColor = xeo_uPickColor;") {
		t.Errorf("object pick must write pick color:\n%s", pof)
	}
	if !strings.Contains(ppv, "attribute vec4 xeo_aColor;") || !strings.Contains(ppf, "gl_FragColor = xeo_vColor;") {
		t.Errorf("primitive pick must pass vertex color through:\n%s\n%s", ppv, ppf)
	}
	for _, src := range []string{pov, ppv} {
		if !strings.Contains(src, "gl_Position = xeo_uProjMatrix * ") {
			t.Errorf("pick vertex does not project:\n%s", src)
		}
	}
}
