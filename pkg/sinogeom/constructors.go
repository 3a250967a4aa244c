package sinogeom

import (
	"fmt"
	"math"
	"strings"

	"sinogeom/internal/units"
)

// Options holds the user-supplied parameters for the variant constructors.
// Zero values select the documented defaults, so an empty Options builds a
// sensible geometry for every variant.
type Options struct {
	// Units is a descriptive physical unit tag (empty, "mm", "cm", ...).
	Units string

	// NB is the number of radial samples per view (default 128).
	NB int

	// NA is the number of angular views. The default 2*floor(nb*pi/4)
	// approximates full angular sampling for the chosen nb.
	NA int

	// D is the radial sample spacing (default 1).
	D float64

	// Orbit is the total angular coverage in degrees. Defaults to 180 for
	// parallel and mojette records and 360 for fan records.
	Orbit float64

	// OrbitShort requests a fan-beam short-scan orbit of
	// 180 + 2*gamma_max degrees, resolved during construction. It takes
	// precedence over Orbit and is invalid outside fan geometry.
	OrbitShort bool

	// OrbitStart is the angle of the first view in degrees.
	OrbitStart float64

	// Offset is the sub-sample detector centering offset.
	Offset float64

	// StripWidth is the detector-element width (default D).
	StripWidth float64

	// SourceOffset is the lateral source/detector offset (fan only).
	SourceOffset float64

	// DSD is the source-to-detector distance (fan only, default 4*nb*d).
	DSD float64

	// DOD is the isocenter-to-detector distance (fan only, default nb*d).
	DOD float64

	// FlatDetector selects a flat detector (dfs = +Inf) instead of the
	// default equiangular arc (dfs = 0). Fan only.
	FlatDetector bool

	// Down is an optional downsampling factor applied to the finished
	// record (values below 2 are the identity).
	Down int
}

// withDefaults resolves the zero-value defaults shared by all variants.
func (o Options) withDefaults(v Variant) Options {
	if o.NB <= 0 {
		o.NB = 128
	}
	if o.NA <= 0 {
		o.NA = 2 * int(math.Floor(float64(o.NB)*math.Pi/4))
	}
	if o.D == 0 {
		o.D = 1
	}
	if o.StripWidth == 0 {
		o.StripWidth = o.D
	}
	if o.Orbit == 0 && !o.OrbitShort {
		if v == Fan {
			o.Orbit = 360
		} else {
			o.Orbit = 180
		}
	}
	return o
}

// newParallelLike builds a parallel or mojette record; the two variants
// share everything except the interpretation of the sample spacing.
func newParallelLike(v Variant, o Options) (*Geom, error) {
	if o.OrbitShort {
		return nil, fmt.Errorf("%w: short-scan orbit is undefined for %s geometry", ErrInvalidOrbit, v)
	}
	o = o.withDefaults(v)
	g := &Geom{
		Variant:    v,
		Units:      o.Units,
		NB:         o.NB,
		NA:         o.NA,
		D:          o.D,
		Orbit:      o.Orbit,
		OrbitStart: o.OrbitStart,
		Offset:     o.Offset,
		StripWidth: o.StripWidth,
	}
	return g.Downsample(o.Down), nil
}

// NewParallel builds a parallel-beam geometry record.
func NewParallel(o Options) (*Geom, error) {
	return newParallelLike(Parallel, o)
}

// NewMojette builds a mojette geometry record. The sample spacing d is
// interpreted in the image-pixel domain; the effective per-view spacing is
// exposed through the d_ang derived property.
func NewMojette(o Options) (*Geom, error) {
	return newParallelLike(Mojette, o)
}

// NewFan builds a fan-beam geometry record. A short-scan orbit request is
// resolved here: a provisional record with orbit 0 supplies the fan
// half-angle, and the final orbit becomes 180 + 2*gamma_max degrees. The
// finished record always carries a concrete orbit.
func NewFan(o Options) (*Geom, error) {
	o = o.withDefaults(Fan)
	if o.DSD == 0 {
		o.DSD = 4 * float64(o.NB) * o.D
	}
	if o.DOD == 0 {
		o.DOD = float64(o.NB) * o.D
	}
	dfs := 0.0
	if o.FlatDetector {
		dfs = math.Inf(1)
	}
	g := &Geom{
		Variant:      Fan,
		Units:        o.Units,
		NB:           o.NB,
		NA:           o.NA,
		D:            o.D,
		Orbit:        o.Orbit,
		OrbitStart:   o.OrbitStart,
		Offset:       o.Offset,
		StripWidth:   o.StripWidth,
		SourceOffset: o.SourceOffset,
		DSD:          o.DSD,
		DOD:          o.DOD,
		DFS:          dfs,
	}
	if o.OrbitShort {
		orbit, err := g.OrbitShortAngle()
		if err != nil {
			return nil, err
		}
		g.Orbit = orbit
	}
	return g.Downsample(o.Down), nil
}

// GE1 scanner constants, in millimeters. The short-scan protocol of this
// scanner uses a fixed reduced view count rather than the derived
// 180 + 2*gamma_max orbit.
const (
	ge1NB     = 888
	ge1NA     = 984
	ge1NAShrt = 642
	ge1D      = 1.0239
	ge1Offset = 1.25
	ge1DSD    = 949.075
	ge1DOD    = 408.075
)

// HD1 scanner constants, in millimeters.
const (
	hd1NB     = 888
	hd1NA     = 984
	hd1D      = 1.0964
	hd1Offset = 1.25
	hd1DSD    = 946.746
	hd1DOD    = 405.996
)

// presetScale validates the unit tag for a scanner preset and returns the
// factor applied to the millimeter constants. Only unitless, mm, and cm
// tags are accepted.
func presetScale(tag string) (float64, error) {
	scale, err := units.Scale(tag)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnits, tag)
	}
	return scale, nil
}

// NewGE1 builds the fan-beam geometry of the GE LightSpeed scanner. Only
// the Units, OrbitStart, OrbitShort, and Down options are honored; the
// geometric constants are fixed. A short-scan request substitutes the
// scanner's reduced view count and a proportionally reduced orbit.
func NewGE1(o Options) (*Geom, error) {
	scale, err := presetScale(o.Units)
	if err != nil {
		return nil, err
	}
	na, orbit := ge1NA, 360.0
	if o.OrbitShort {
		na = ge1NAShrt
		orbit = float64(ge1NAShrt) / float64(ge1NA) * 360
	}
	return NewFan(Options{
		Units:      o.Units,
		NB:         ge1NB,
		NA:         na,
		D:          ge1D * scale,
		Orbit:      orbit,
		OrbitStart: o.OrbitStart,
		Offset:     ge1Offset,
		DSD:        ge1DSD * scale,
		DOD:        ge1DOD * scale,
		Down:       o.Down,
	})
}

// NewHD1 builds the fan-beam geometry of the GE Discovery HD scanner.
// Only the Units, OrbitStart, OrbitShort, and Down options are honored. A
// short-scan request resolves through the usual 180 + 2*gamma_max orbit.
func NewHD1(o Options) (*Geom, error) {
	scale, err := presetScale(o.Units)
	if err != nil {
		return nil, err
	}
	return NewFan(Options{
		Units:      o.Units,
		NB:         hd1NB,
		NA:         hd1NA,
		D:          hd1D * scale,
		OrbitShort: o.OrbitShort,
		OrbitStart: o.OrbitStart,
		Offset:     hd1Offset,
		DSD:        hd1DSD * scale,
		DOD:        hd1DOD * scale,
		Down:       o.Down,
	})
}

// MakeGeometry builds a record from a variant tag and options. Recognized
// tags are "par"/"parallel", "fan", "moj"/"mojette", and the scanner
// presets "ge1" and "hd1".
func MakeGeometry(variant string, o Options) (*Geom, error) {
	switch strings.ToLower(variant) {
	case "par", "parallel":
		return NewParallel(o)
	case "fan":
		return NewFan(o)
	case "moj", "mojette":
		return NewMojette(o)
	case "ge1":
		return NewGE1(o)
	case "hd1":
		return NewHD1(o)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}
