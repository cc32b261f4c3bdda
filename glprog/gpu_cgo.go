//go:build !tinygo && cgo

package glprog

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.1-core/glgl"
	"github.com/soypat/gshade"
	"github.com/soypat/gshade/glsrc"
)

// InitHidden starts GLFW with an invisible 1x1 window and makes its OpenGL 4.1
// core context current on the calling thread, which should be locked with runtime.LockOSThread.
// It returns a termination function to call when done using the GPU.
func InitHidden() (terminate func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	window, err := glfw.CreateWindow(1, 1, "gshade", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return glfw.Terminate, nil
}

// Precision is a [gshade.PrecisionProbe] querying the current OpenGL context.
type Precision struct{}

// FragmentFloatPrecision implements [gshade.PrecisionProbe].
func (Precision) FragmentFloatPrecision(p glsrc.Precision) int {
	var kind uint32
	switch p {
	case glsrc.PrecisionHigh:
		kind = gl.HIGH_FLOAT
	case glsrc.PrecisionMedium:
		kind = gl.MEDIUM_FLOAT
	default:
		kind = gl.LOW_FLOAT
	}
	var rng [2]int32
	var precision int32
	gl.GetShaderPrecisionFormat(gl.FRAGMENT_SHADER, kind, &rng[0], &precision)
	return int(precision)
}

// Programs holds the three linked programs of one bundle.
type Programs struct {
	Draw          glgl.Program
	PickObject    glgl.Program
	PickPrimitive glgl.Program
}

// Delete frees all programs on the GPU.
func (p Programs) Delete() {
	for _, prog := range [...]glgl.Program{p.Draw, p.PickObject, p.PickPrimitive} {
		if prog.ID() != 0 {
			prog.Delete()
		}
	}
}

// Compile links the draw and picking programs of ps.
func Compile(ps *gshade.ProgramSource) (progs Programs, err error) {
	pairs := [...]struct {
		name     string
		dst      *glgl.Program
		vertex   string
		fragment string
	}{
		{name: "draw", dst: &progs.Draw, vertex: ps.VertexDraw, fragment: ps.FragmentDraw},
		{name: "pick object", dst: &progs.PickObject, vertex: ps.VertexPickObject, fragment: ps.FragmentPickObject},
		{name: "pick primitive", dst: &progs.PickPrimitive, vertex: ps.VertexPickPrimitive, fragment: ps.FragmentPickPrimitive},
	}
	for _, pair := range pairs {
		*pair.dst, err = glgl.CompileProgram(glgl.ShaderSource{
			Vertex:   pair.vertex + "\x00",
			Fragment: pair.fragment + "\x00",
		})
		if err != nil {
			progs.Delete()
			return Programs{}, fmt.Errorf("%s program: %w", pair.name, err)
		}
	}
	if err = glgl.Err(); err != nil {
		progs.Delete()
		return Programs{}, err
	}
	return progs, nil
}

// NewGLRegistry returns a registry compiling bundles from cache with [Compile].
// The cache should generate [glsrc.DialectGL41] sources.
func NewGLRegistry(cache *gshade.Cache) (*Registry[Programs], error) {
	if cache != nil && cache.Dialect() != glsrc.DialectGL41 {
		return nil, errors.New("OpenGL 4.1 registry requires cache with GL41 dialect")
	}
	return NewRegistry(cache, Compile, Programs.Delete)
}
