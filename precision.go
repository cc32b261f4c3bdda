package gshade

import "github.com/soypat/gshade/glsrc"

// PrecisionProbe reports the float precision the fragment stage of the target
// device supports. FragmentFloatPrecision returns the number of bits of precision
// for the qualifier, or zero or less if unsupported.
type PrecisionProbe interface {
	FragmentFloatPrecision(p glsrc.Precision) int
}

// FixedPrecision is a [PrecisionProbe] reporting support for its value and all lower precisions.
type FixedPrecision glsrc.Precision

// FragmentFloatPrecision implements [PrecisionProbe].
func (fp FixedPrecision) FragmentFloatPrecision(p glsrc.Precision) int {
	if p > glsrc.Precision(fp) {
		return 0
	}
	switch p {
	case glsrc.PrecisionHigh:
		return 23
	case glsrc.PrecisionMedium:
		return 10
	}
	return 8
}

// FragmentPrecision selects the highest precision the probe reports as supported:
// highp if its precision is positive, else mediump if positive, else lowp.
// A nil probe selects highp.
func FragmentPrecision(probe PrecisionProbe) glsrc.Precision {
	if probe == nil {
		return glsrc.PrecisionHigh
	}
	if probe.FragmentFloatPrecision(glsrc.PrecisionHigh) > 0 {
		return glsrc.PrecisionHigh
	} else if probe.FragmentFloatPrecision(glsrc.PrecisionMedium) > 0 {
		return glsrc.PrecisionMedium
	}
	return glsrc.PrecisionLow
}

func (st *RenderState) fragmentPrecision() glsrc.Precision {
	if st == nil {
		return FragmentPrecision(nil)
	}
	return FragmentPrecision(st.Precision)
}
