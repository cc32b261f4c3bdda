package gshade

import (
	"crypto/sha256"
	"encoding/hex"
)

// StateHash returns a cache key for st built from exactly the fields that determine
// the generated sources: primitive and attribute flags, present texture slots and their
// matrix flags, light kinds and spaces in order, billboard flags, resolved fragment precision
// and the SHA-256 digest of any custom shader sources. Equal keys yield byte-identical bundles.
func StateHash(st *RenderState) string {
	return string(AppendStateHash(nil, st))
}

// AppendStateHash appends the key returned by [StateHash] to b.
func AppendStateHash(b []byte, st *RenderState) []byte {
	g := st.geometry()
	b = append(b, g.Primitive.String()...)
	b = append(b, ':')
	b = appendFlag(b, g.HasUV, 'u')
	b = appendFlag(b, g.HasNormals, 'n')
	b = appendFlag(b, g.HasVertexColors, 'c')

	b = append(b, "|m"...)
	mat := st.material()
	for slot := SlotAmbient; slot < numSlots; slot++ {
		tm := mat.Map(slot)
		if tm == nil {
			continue
		}
		b = append(b, slotNames[slot][0:2]...)
		if tm.Matrix {
			b = append(b, '*')
		}
	}

	b = append(b, "|l"...)
	for i, l := range st.lights() {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, l.Kind.String()...)
		if l.Space == SpaceWorld {
			b = append(b, 'w')
		}
	}

	bb := st.billboard()
	b = append(b, "|b"...)
	b = appendFlag(b, bb.Active, 'a')
	b = appendFlag(b, bb.Spherical, 's')

	b = append(b, '|')
	b = append(b, st.fragmentPrecision().String()...)

	custom := st.customShader()
	if custom.Vertex != "" {
		b = append(b, "|vs"...)
		b = appendDigest(b, custom.Vertex)
	}
	if custom.Fragment != "" {
		b = append(b, "|fs"...)
		b = appendDigest(b, custom.Fragment)
	}
	return b
}

func appendFlag(b []byte, v bool, c byte) []byte {
	if v {
		b = append(b, c)
	}
	return b
}

func appendDigest(b []byte, src string) []byte {
	sum := sha256.Sum256([]byte(src))
	return hex.AppendEncode(b, sum[:])
}
