package devcaps

import (
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/escl-scan/escl/xmltree"
)

// Qualified element names of the eSCL ScannerCapabilities document.
const (
	elmScannerCapabilities = "scan:ScannerCapabilities"
	elmModelName           = "pwg:ModelName"
	elmMakeAndModel        = "pwg:MakeAndModel"
	elmPlaten              = "scan:Platen"
	elmPlatenInputCaps     = "scan:PlatenInputCaps"
	elmADF                 = "scan:Adf"
	elmADFSimplexInputCaps = "scan:AdfSimplexInputCaps"
	elmADFDuplexInputCaps  = "scan:AdfDuplexInputCaps"

	elmMinWidth        = "scan:MinWidth"
	elmMaxWidth        = "scan:MaxWidth"
	elmMinHeight       = "scan:MinHeight"
	elmMaxHeight       = "scan:MaxHeight"
	elmSettingProfiles = "scan:SettingProfiles"
	elmSettingProfile  = "scan:SettingProfile"

	elmColorModes        = "scan:ColorModes"
	elmColorMode         = "scan:ColorMode"
	elmDocumentFormats   = "scan:DocumentFormats"
	elmDocumentFormat    = "pwg:DocumentFormat"
	elmDocumentFormatExt = "scan:DocumentFormatExt"

	elmSupportedResolutions = "scan:SupportedResolutions"
	elmDiscreteResolutions  = "scan:DiscreteResolutions"
	elmDiscreteResolution   = "scan:DiscreteResolution"
	elmResolutionRange      = "scan:ResolutionRange"
	elmXResolution          = "scan:XResolution"
	elmYResolution          = "scan:YResolution"
	elmRangeMin             = "scan:Min"
	elmRangeMax             = "scan:Max"
	elmRangeStep            = "scan:Step"
)

var (
	// ErrNoScannerCapabilities indicates the document root is not a
	// scan:ScannerCapabilities element.
	ErrNoScannerCapabilities = errors.New("XML: missed scan:ScannerCapabilities")

	// ErrNoSources indicates the document defines no input source at all.
	ErrNoSources = errors.New("no scan sources are defined")

	// ErrNoResolutions indicates an input source defines neither
	// discrete resolutions nor a resolution range.
	ErrNoResolutions = errors.New("source resolutions are not defined")

	// ErrIncompatibleResolutionRanges indicates the X and Y
	// resolution ranges cannot be satisfied by a single value.
	ErrIncompatibleResolutionRanges = errors.New(
		"incompatible scan:XResolution and scan:YResolution ranges")

	// ErrInvalidXResolutionRange indicates an inverted scan:XResolution range.
	ErrInvalidXResolutionRange = errors.New("invalid scan:XResolution range")

	// ErrInvalidYResolutionRange indicates an inverted scan:YResolution range.
	ErrInvalidYResolutionRange = errors.New("invalid scan:YResolution range")

	// ErrInvalidWidth indicates inverted scan:MinWidth/scan:MaxWidth bounds.
	ErrInvalidWidth = errors.New("invalid scan:MinWidth or scan:MaxWidth")

	// ErrInvalidHeight indicates inverted scan:MinHeight/scan:MaxHeight bounds.
	ErrInvalidHeight = errors.New("invalid scan:MinHeight or scan:MaxHeight")
)

var xpRoot = xpath.MustCompile(`/*`)

// ParseXML reads an XML document from r and parses it as a
// ScannerCapabilities document.  See Parse.
func ParseXML(r io.Reader) (*Capabilities, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "XML")
	}
	root := xmlquery.QuerySelector(doc, xpRoot)
	if root == nil {
		return nil, errors.WithStack(ErrNoScannerCapabilities)
	}
	return Parse(root)
}

// Parse interprets root as the scan:ScannerCapabilities element of an
// eSCL capability document and returns the parsed Capabilities.
//
// Parse is all or nothing: any violation anywhere in the document
// aborts the parse, and the first violation found is returned.
// Unknown elements and duplicate source blocks are ignored for
// forward compatibility with vendor extensions.
func Parse(root *xmlquery.Node) (*Capabilities, error) {
	cur := xmltree.NewCursor(root)
	if !cur.Matches(elmScannerCapabilities) {
		return nil, errors.WithStack(ErrNoScannerCapabilities)
	}

	caps := &Capabilities{}
	var model, makeAndModel string
	var err error

	cur.Enter()
	for ; err == nil && !cur.AtEnd(); cur.Advance() {
		switch {
		case cur.Matches(elmModelName):
			model = cur.Text()
		case cur.Matches(elmMakeAndModel):
			makeAndModel = cur.Text()
		case cur.Matches(elmPlaten):
			cur.Enter()
			if cur.Matches(elmPlatenInputCaps) {
				err = parseSource(cur, &caps.Platen)
			}
			cur.Leave()
		case cur.Matches(elmADF):
			cur.Enter()
			for ; err == nil && !cur.AtEnd(); cur.Advance() {
				if cur.Matches(elmADFSimplexInputCaps) {
					err = parseSource(cur, &caps.ADFSimplex)
				} else if cur.Matches(elmADFDuplexInputCaps) {
					err = parseSource(cur, &caps.ADFDuplex)
				}
			}
			cur.Leave()
		}
	}
	cur.Leave()

	if err != nil {
		return nil, err
	}

	caps.Vendor = guessVendor(model, makeAndModel)
	if model != "" {
		caps.Model = model
	} else {
		caps.Model = makeAndModel
	}

	if caps.Platen != nil {
		caps.Sources = append(caps.Sources, SourcePlaten)
	}
	if caps.ADFSimplex != nil {
		caps.Sources = append(caps.Sources, SourceADFSimplex)
	}
	if caps.ADFDuplex != nil {
		caps.Sources = append(caps.Sources, SourceADFDuplex)
	}
	if len(caps.Sources) == 0 {
		return nil, errors.WithStack(ErrNoSources)
	}

	glog.V(1).Infof("devcaps: vendor=%q model=%q sources=%v",
		caps.Vendor, caps.Model, caps.Sources)
	return caps, nil
}

// guessVendor extracts the vendor name from the make-and-model
// string when the model string is its proper suffix.  This is a best
// effort heuristic; anything else yields "Unknown".
func guessVendor(model, makeAndModel string) string {
	if model != "" && len(makeAndModel) > len(model) &&
		strings.HasSuffix(makeAndModel, model) {
		vendor := makeAndModel[:len(makeAndModel)-len(model)]
		vendor = strings.TrimRightFunc(vendor, unicode.IsSpace)
		if vendor != "" {
			return vendor
		}
	}
	return "Unknown"
}

// parseSource parses one input source capability block.  The first
// successfully parsed block of a kind wins; a later duplicate is
// validated, then dropped.
func parseSource(cur *xmltree.Cursor, out **Source) error {
	src := &Source{
		ColorModes: ColorModeSet{},
		Formats:    FormatSet{},
	}
	var err error

	cur.Enter()
	for ; err == nil && !cur.AtEnd(); cur.Advance() {
		switch {
		case cur.Matches(elmMinWidth):
			src.MinWidth, err = cur.TextUint()
		case cur.Matches(elmMaxWidth):
			src.MaxWidth, err = cur.TextUint()
		case cur.Matches(elmMinHeight):
			src.MinHeight, err = cur.TextUint()
		case cur.Matches(elmMaxHeight):
			src.MaxHeight, err = cur.TextUint()
		case cur.Matches(elmSettingProfiles):
			err = parseSettingProfiles(cur, src)
		}
	}
	cur.Leave()

	if err != nil {
		return err
	}
	if src.Resolutions == nil {
		return errors.WithStack(ErrNoResolutions)
	}

	if src.MaxWidth != 0 && src.MaxHeight != 0 {
		if src.MinWidth >= src.MaxWidth {
			return errors.WithStack(ErrInvalidWidth)
		}
		if src.MinHeight >= src.MaxHeight {
			return errors.WithStack(ErrInvalidHeight)
		}
		src.HasSize = true
		src.WindowX = FixedRange{
			Min: millimetres(src.MinWidth),
			Max: millimetres(src.MaxWidth),
		}
		src.WindowY = FixedRange{
			Min: millimetres(src.MinHeight),
			Max: millimetres(src.MaxHeight),
		}
	}

	if *out == nil {
		*out = src
	}
	return nil
}

// parseSettingProfiles accumulates color modes, document formats and
// resolutions from every setting profile into src.
func parseSettingProfiles(cur *xmltree.Cursor, src *Source) error {
	var err error

	cur.Enter()
	for ; err == nil && !cur.AtEnd(); cur.Advance() {
		if !cur.Matches(elmSettingProfile) {
			continue
		}
		cur.Enter()
		for ; err == nil && !cur.AtEnd(); cur.Advance() {
			switch {
			case cur.Matches(elmColorModes):
				parseColorModes(cur, src)
			case cur.Matches(elmDocumentFormats):
				parseDocumentFormats(cur, src)
			case cur.Matches(elmSupportedResolutions):
				err = parseResolutions(cur, src)
			}
		}
		cur.Leave()
	}
	cur.Leave()

	return err
}

func parseColorModes(cur *xmltree.Cursor, src *Source) {
	cur.Enter()
	for ; !cur.AtEnd(); cur.Advance() {
		if !cur.Matches(elmColorMode) {
			continue
		}
		var mode ColorMode
		if err := mode.UnmarshalText([]byte(cur.Text())); err == nil {
			src.ColorModes.Add(mode)
		}
	}
	cur.Leave()
}

func parseDocumentFormats(cur *xmltree.Cursor, src *Source) {
	cur.Enter()
	for ; !cur.AtEnd(); cur.Advance() {
		if !cur.Matches(elmDocumentFormat) && !cur.Matches(elmDocumentFormatExt) {
			continue
		}
		var format Format
		if err := format.UnmarshalText([]byte(cur.Text())); err == nil {
			src.Formats.Add(format)
		}
	}
	cur.Leave()
}

// parseResolutions parses one scan:SupportedResolutions block.
// Discrete resolutions take precedence over a resolution range, both
// within a block and across setting profiles.
func parseResolutions(cur *xmltree.Cursor, src *Source) error {
	var discrete DiscreteResolutions
	var rng *ResolutionRange
	var err error

	cur.Enter()
	for ; err == nil && !cur.AtEnd(); cur.Advance() {
		switch {
		case cur.Matches(elmDiscreteResolutions):
			discrete, err = parseDiscreteResolutions(cur)
		case cur.Matches(elmResolutionRange):
			rng, err = parseResolutionRange(cur)
		}
	}
	cur.Leave()

	if err != nil {
		return err
	}

	switch {
	case len(discrete) > 0:
		if prev, ok := src.Resolutions.(DiscreteResolutions); ok {
			discrete = append(prev, discrete...)
			sort.Ints(discrete)
		}
		src.Resolutions = discrete
	case rng != nil:
		if _, ok := src.Resolutions.(DiscreteResolutions); !ok {
			src.Resolutions = *rng
		}
	}
	return nil
}

// parseDiscreteResolutions collects the X values of all square
// discrete resolution pairs, sorted ascending.  Pairs with unequal
// or zero axes are dropped.
func parseDiscreteResolutions(cur *xmltree.Cursor) (DiscreteResolutions, error) {
	var res DiscreteResolutions
	var err error

	cur.Enter()
	for ; err == nil && !cur.AtEnd(); cur.Advance() {
		if !cur.Matches(elmDiscreteResolution) {
			continue
		}
		var x, y int
		cur.Enter()
		for ; err == nil && !cur.AtEnd(); cur.Advance() {
			if cur.Matches(elmXResolution) {
				x, err = cur.TextUint()
			} else if cur.Matches(elmYResolution) {
				y, err = cur.TextUint()
			}
		}
		cur.Leave()
		if err == nil && x != 0 && x == y {
			res = append(res, x)
		}
	}
	cur.Leave()

	if err != nil {
		return nil, err
	}
	sort.Ints(res)
	return res, nil
}

// parseResolutionRange parses the X and Y axis ranges, each from its
// own element, validates them and merges them into the single range
// a uniform resolution must satisfy.
func parseResolutionRange(cur *xmltree.Cursor) (*ResolutionRange, error) {
	var rangeX, rangeY ResolutionRange
	var err error

	cur.Enter()
	for ; err == nil && !cur.AtEnd(); cur.Advance() {
		var axis *ResolutionRange
		if cur.Matches(elmXResolution) {
			axis = &rangeX
		} else if cur.Matches(elmYResolution) {
			axis = &rangeY
		}
		if axis == nil {
			continue
		}
		cur.Enter()
		for ; err == nil && !cur.AtEnd(); cur.Advance() {
			switch {
			case cur.Matches(elmRangeMin):
				axis.Min, err = cur.TextUint()
			case cur.Matches(elmRangeMax):
				axis.Max, err = cur.TextUint()
			case cur.Matches(elmRangeStep):
				axis.Quant, err = cur.TextUint()
			}
		}
		cur.Leave()
	}
	cur.Leave()

	if err != nil {
		return nil, err
	}
	if rangeX.Min > rangeX.Max {
		return nil, errors.WithStack(ErrInvalidXResolutionRange)
	}
	if rangeY.Min > rangeY.Max {
		return nil, errors.WithStack(ErrInvalidYResolutionRange)
	}

	// A step of 1 imposes no constraint; the convention is 0.
	if rangeX.Quant == 1 {
		rangeX.Quant = 0
	}
	if rangeY.Quant == 1 {
		rangeY.Quant = 0
	}

	merged, ok := mergeResolutionRanges(rangeX, rangeY)
	if !ok {
		return nil, errors.WithStack(ErrIncompatibleResolutionRanges)
	}
	return &merged, nil
}
