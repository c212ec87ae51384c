package devcaps

import "fmt"

// Fixed is a fixed point number with 16 bits of fraction, the
// representation used for physical window sizes in millimetres.
type Fixed int32

// FixedFromFloat converts v to Fixed, truncating the excess
// precision.
func FixedFromFloat(v float64) Fixed { return Fixed(v * 65536) }

// Float returns the floating point value of f.
func (f Fixed) Float() float64 { return float64(f) / 65536 }

func (f Fixed) String() string { return fmt.Sprintf("%g", f.Float()) }

// FixedRange is a closed interval of Fixed values.
type FixedRange struct {
	Min Fixed
	Max Fixed
}

// The scan window bounds of a capability document are pixel counts at
// this reference resolution; physical sizes derive from it.
const windowDPI = 300

// millimetres converts a pixel count at the reference resolution to
// a physical length.
func millimetres(px int) Fixed {
	return FixedFromFloat(float64(px) * 25.4 / windowDPI)
}
