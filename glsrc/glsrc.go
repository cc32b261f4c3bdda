// Package glsrc contains the low level helpers used to emit GLSL source text:
// dialect headers, precision declarations, indexed identifiers and line iteration.
// All functions follow the append convention: they append to the argument buffer
// and return the result.
package glsrc

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Dialect selects the GLSL flavour generated source is wrapped for.
// The generated shader bodies are written once in GLSL ES 1.00 syntax;
// other dialects prepend a header that maps the legacy keywords.
type Dialect uint8

const (
	// DialectWebGL1 is GLSL ES 1.00 as consumed by WebGL 1. No header is emitted.
	DialectWebGL1 Dialect = iota
	// DialectWebGL2 is GLSL ES 3.00 as consumed by WebGL 2.
	DialectWebGL2
	// DialectGL41 is desktop GLSL 4.10 core profile.
	DialectGL41
)

// FragColorName is the output variable declared by non-legacy dialects in place of gl_FragColor.
const FragColorName = "xeo_FragColor"

func (d Dialect) String() string {
	switch d {
	case DialectWebGL1:
		return "webgl1"
	case DialectWebGL2:
		return "webgl2"
	case DialectGL41:
		return "gl41"
	}
	return "Dialect(" + strconv.Itoa(int(d)) + ")"
}

// Validate returns an error if the dialect is not one of the defined dialects.
func (d Dialect) Validate() error {
	if d > DialectGL41 {
		return fmt.Errorf("unknown GLSL dialect %d", d)
	}
	return nil
}

func (d Dialect) version() string {
	switch d {
	case DialectWebGL2:
		return "#version 300 es\n"
	case DialectGL41:
		return "#version 410 core\n"
	}
	return ""
}

// AppendVertexHeader appends the dialect's vertex stage header.
func (d Dialect) AppendVertexHeader(b []byte) []byte {
	if d == DialectWebGL1 {
		return b
	}
	b = append(b, d.version()...)
	b = AppendDefineDecl(b, "attribute", "in")
	b = AppendDefineDecl(b, "varying", "out")
	return b
}

// AppendFragmentHeader appends the dialect's fragment stage header. For non-legacy
// dialects gl_FragColor is aliased to a declared output variable.
func (d Dialect) AppendFragmentHeader(b []byte) []byte {
	if d == DialectWebGL1 {
		return b
	}
	b = append(b, d.version()...)
	b = AppendDefineDecl(b, "varying", "in")
	b = AppendDefineDecl(b, "texture2D", "texture")
	// Explicit precision since the default float precision statement comes later.
	b = append(b, "out highp vec4 "+FragColorName+";\n"...)
	b = AppendDefineDecl(b, "gl_FragColor", FragColorName)
	return b
}

// Precision is a GLSL float precision qualifier.
type Precision uint8

const (
	PrecisionLow Precision = iota
	PrecisionMedium
	PrecisionHigh
)

func (p Precision) String() string {
	switch p {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	}
	return "Precision(" + strconv.Itoa(int(p)) + ")"
}

// AppendPrecisionDecl appends a default float precision statement:
//
//	precision <p> float;
func AppendPrecisionDecl(b []byte, p Precision) []byte {
	b = append(b, "precision "...)
	b = append(b, p.String()...)
	b = append(b, " float;\n"...)
	return b
}

func AppendDefineDecl(b []byte, aliasToDefine, aliasReplace string) []byte {
	b = append(b, "#define "...)
	b = append(b, aliasToDefine...)
	b = append(b, ' ')
	b = append(b, aliasReplace...)
	b = append(b, '\n')
	return b
}

// AppendIndexed appends prefix, the decimal index i and suffix. Used for per-light identifiers
// such as xeo_uLightColor3.
func AppendIndexed(b []byte, prefix string, i int, suffix string) []byte {
	b = append(b, prefix...)
	b = strconv.AppendInt(b, int64(i), 10)
	b = append(b, suffix...)
	return b
}

// Lines returns an iterator over the lines of src without their trailing newline.
// The iterator may be ranged over any number of times and yields the same lines each time.
func Lines(src string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s := src
		for len(s) > 0 {
			line, rest, _ := strings.Cut(s, "\n")
			if !yield(line) {
				return
			}
			s = rest
		}
	}
}

// CountLines returns the number of lines [Lines] yields for src.
func CountLines(src string) (n int) {
	for range Lines(src) {
		n++
	}
	return n
}
