package devcaps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SourceKind identifies a physical input path of the scanner.
type SourceKind int

const (
	// SourcePlaten is the flatbed scan source
	SourcePlaten SourceKind = iota
	// SourceADFSimplex is the single-sided document feeder source
	SourceADFSimplex
	// SourceADFDuplex is the double-sided document feeder source
	SourceADFDuplex
)

func (k SourceKind) String() string {
	switch k {
	case SourcePlaten:
		return "Flatbed"
	case SourceADFSimplex:
		return "ADF"
	case SourceADFDuplex:
		return "ADF Duplex"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// ColorMode represents a scan color mode advertised by the device.
type ColorMode int

const (
	// ColorBW1 is 1 bit per pixel black and white
	ColorBW1 ColorMode = iota
	// ColorGrayscale8 is 8 bit per pixel grayscale
	ColorGrayscale8
	// ColorRGB24 is 24 bit per pixel color
	ColorRGB24
)

func (m ColorMode) String() string {
	switch m {
	case ColorBW1:
		return "BlackAndWhite1"
	case ColorGrayscale8:
		return "Grayscale8"
	case ColorRGB24:
		return "RGB24"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

func (m ColorMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *ColorMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "BlackAndWhite1":
		*m = ColorBW1
	case "Grayscale8":
		*m = ColorGrayscale8
	case "RGB24":
		*m = ColorRGB24
	default:
		return errors.New("unknown value")
	}
	return nil
}

// ColorModeSet is a set of color modes.
type ColorModeSet map[ColorMode]bool

// Add adds m to the set.
func (s ColorModeSet) Add(m ColorMode) { s[m] = true }

// Contains reports whether m is in the set.
func (s ColorModeSet) Contains(m ColorMode) bool { return s[m] }

// Slice returns the set contents in ascending order.
func (s ColorModeSet) Slice() []ColorMode {
	modes := make([]ColorMode, 0, len(s))
	for m := range s {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// Format represents a document format the device can produce,
// identified on the wire by its MIME type.
type Format int

const (
	// FormatJPEG is the image/jpeg document format
	FormatJPEG Format = iota
	// FormatPNG is the image/png document format
	FormatPNG
	// FormatPDF is the application/pdf document format
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText parses a MIME type, compared case-insensitively.
func (f *Format) UnmarshalText(b []byte) error {
	switch s := string(b); {
	case strings.EqualFold(s, "image/jpeg"):
		*f = FormatJPEG
	case strings.EqualFold(s, "image/png"):
		*f = FormatPNG
	case strings.EqualFold(s, "application/pdf"):
		*f = FormatPDF
	default:
		return errors.New("unknown value")
	}
	return nil
}

// FormatSet is a set of document formats.
type FormatSet map[Format]bool

// Add adds f to the set.
func (s FormatSet) Add(f Format) { s[f] = true }

// Contains reports whether f is in the set.
func (s FormatSet) Contains(f Format) bool { return s[f] }

// Slice returns the set contents in ascending order.
func (s FormatSet) Slice() []Format {
	formats := make([]Format, 0, len(s))
	for f := range s {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Source describes the capabilities of one input source.
type Source struct {
	// Scan window bounds, in pixels at 300 DPI. A zero bound means
	// the device did not constrain that dimension.
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int

	// HasSize reports whether both max bounds were given and valid,
	// in which case WindowX and WindowY hold the physical window
	// size ranges in millimetres.
	HasSize bool
	WindowX FixedRange
	WindowY FixedRange

	ColorModes ColorModeSet
	Formats    FormatSet

	// Resolutions is never nil in a parsed Source.
	Resolutions Resolutions
}

// Capabilities is the parsed capability document of a scan device.
type Capabilities struct {
	Vendor string
	Model  string

	// Sources lists the present source kinds, in the fixed order
	// Flatbed, ADF, ADF Duplex.
	Sources []SourceKind

	Platen     *Source
	ADFSimplex *Source
	ADFDuplex  *Source
}

// ForKind returns the capabilities of the given source kind, or nil
// if the device lacks that source.
func (c *Capabilities) ForKind(k SourceKind) *Source {
	switch k {
	case SourcePlaten:
		return c.Platen
	case SourceADFSimplex:
		return c.ADFSimplex
	case SourceADFDuplex:
		return c.ADFDuplex
	default:
		return nil
	}
}
