//go:build tinygo || !cgo

package glprog

import (
	"errors"

	"github.com/soypat/gshade"
	"github.com/soypat/gshade/glsrc"
)

var errNoCGO = errors.New("GPU program compilation requires CGo and is not supported on TinyGo")

func InitHidden() (terminate func(), err error) {
	return nil, errNoCGO
}

// Precision reports no precision support without a GPU context.
type Precision struct{}

func (Precision) FragmentFloatPrecision(p glsrc.Precision) int { return 0 }

type Programs struct{}

func (p Programs) Delete() {}

func Compile(ps *gshade.ProgramSource) (Programs, error) {
	return Programs{}, errNoCGO
}

func NewGLRegistry(cache *gshade.Cache) (*Registry[Programs], error) {
	return nil, errNoCGO
}
