package devcaps

// Resolutions describes the scan resolutions a source supports, in
// samples per inch applied uniformly to both axes.  Exactly one of
// the two forms is produced for a parsed source: DiscreteResolutions
// when the device lists exact values, ResolutionRange when it
// advertises a continuous range.
type Resolutions interface {
	// Select returns the supported resolution closest to wanted.
	// It never fails; the result is always within the supported
	// domain.
	Select(wanted int) int

	isResolutions()
}

// DiscreteResolutions is an ascending, non-empty list of exact
// supported resolutions.
type DiscreteResolutions []int

func (DiscreteResolutions) isResolutions() {}

// Select returns the listed resolution nearest to wanted.  When two
// values are equally near, the smaller one wins: the scan keeps its
// current best unless a later value is strictly closer.
func (r DiscreteResolutions) Select(wanted int) int {
	best := r[0]
	delta := abs(wanted - best)
	for _, res := range r[1:] {
		if d := abs(wanted - res); d < delta {
			best, delta = res, d
		}
	}
	return best
}

// ResolutionRange is a continuous range of supported resolutions.
// Quant is the step between valid values counted from Min; zero
// means any value within the bounds is valid.
type ResolutionRange struct {
	Min   int
	Max   int
	Quant int
}

func (ResolutionRange) isResolutions() {}

// Select clamps wanted into the range and, if the range is
// quantized, rounds to the nearest step, never exceeding Max.
func (r ResolutionRange) Select(wanted int) int {
	if wanted < r.Min {
		return r.Min
	}
	if wanted > r.Max {
		return r.Max
	}
	if r.Quant == 0 {
		return wanted
	}
	v := wanted - r.Min
	v = (v + r.Quant/2) / r.Quant * r.Quant
	v += r.Min
	if v > r.Max {
		return r.Max
	}
	return v
}

// SelectResolution returns the resolution from r best matching
// wanted.  It is a pure function, safe for concurrent use.
func SelectResolution(r Resolutions, wanted int) int { return r.Select(wanted) }

// mergeResolutionRanges reconciles the per-axis X and Y ranges of a
// capability document into the single range a uniform resolution
// value must satisfy.  The bounds intersect; quantization steps must
// agree unless one axis is unconstrained.  ok is false when no
// single range satisfies both axes.
func mergeResolutionRanges(x, y ResolutionRange) (out ResolutionRange, ok bool) {
	out.Min = x.Min
	if y.Min > out.Min {
		out.Min = y.Min
	}
	out.Max = x.Max
	if y.Max < out.Max {
		out.Max = y.Max
	}
	if out.Min > out.Max {
		return ResolutionRange{}, false
	}

	switch {
	case x.Quant == 0:
		out.Quant = y.Quant
	case y.Quant == 0:
		out.Quant = x.Quant
	case x.Quant == y.Quant:
		out.Quant = x.Quant
	default:
		return ResolutionRange{}, false
	}
	return out, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
