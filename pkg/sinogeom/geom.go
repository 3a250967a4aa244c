// Package sinogeom describes the acquisition geometry of a 2D tomographic
// sinogram: the radial and angular sampling layout shared by parallel-beam,
// fan-beam, and mojette CT systems. Reconstruction and projection code
// consults a Geom to learn how raw sinogram samples map onto physical ray
// geometry.
//
// A Geom holds only the primary acquisition parameters. Everything else
// (sample coordinates, view angles, fan angles, detector positions, the
// field-of-view radius) is recomputed on demand from those parameters, so a
// record is always internally consistent no matter which derived quantity
// is read first.
package sinogeom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Error kinds raised by the geometry builders and accessors. All of them
// indicate programming errors in the calling code rather than transient
// conditions; retrying an identical call cannot change the outcome.
var (
	// ErrUnknownVariant is returned for an unrecognized construction tag.
	ErrUnknownVariant = errors.New("sinogeom: unknown variant")

	// ErrInvalidOrbit is returned when a short-scan orbit is requested for
	// a variant that has no fan half-angle to derive it from.
	ErrInvalidOrbit = errors.New("sinogeom: invalid orbit")

	// ErrInvalidUnits is returned by the scanner presets for a unit tag
	// with no defined scale factor.
	ErrInvalidUnits = errors.New("sinogeom: invalid units")

	// ErrInvalidDetectorModel is returned when a fan-beam record carries a
	// focal-spot distance outside {0, +Inf}.
	ErrInvalidDetectorModel = errors.New("sinogeom: invalid detector model")

	// ErrUnknownProperty is returned by Get for an unrecognized name.
	ErrUnknownProperty = errors.New("sinogeom: unknown property")

	// ErrShapeMismatch is returned when array arguments disagree in shape.
	ErrShapeMismatch = errors.New("sinogeom: shape mismatch")
)

// Variant identifies the beam geometry of a sinogram. The set is closed:
// every formula in this package matches exhaustively on it and fails fast
// on anything else.
type Variant int

const (
	// Parallel is the parallel-beam geometry: all rays within a view are
	// mutually parallel.
	Parallel Variant = iota

	// Fan is the fan-beam geometry: rays diverge from a point source to a
	// detector arc or line.
	Fan

	// Mojette is a parallel-beam variant whose sample spacing is defined
	// in the reconstruction pixel grid rather than physical detector units.
	Mojette
)

// String returns the conventional short tag for the variant.
func (v Variant) String() string {
	switch v {
	case Parallel:
		return "par"
	case Fan:
		return "fan"
	case Mojette:
		return "moj"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Geom holds the primary acquisition parameters of a 2D sinogram.
//
// A Geom is created by one of the variant constructors and must be treated
// as read-only afterwards; Downsample returns a new record instead of
// mutating the receiver. For parallel and mojette records the fan-only
// fields (SourceOffset, DSD, DOD, DFS) are zero and ignored by every
// derived formula.
type Geom struct {
	// Variant is the beam geometry of this record.
	Variant Variant

	// Units is a descriptive physical unit tag for the length fields
	// (empty for unitless, "mm", "cm", ...). No conversion is performed.
	Units string

	// NB is the number of radial samples per view.
	NB int

	// NA is the number of angular views.
	NA int

	// D is the radial sample spacing. For mojette records the spacing is
	// expressed in the image-pixel domain.
	D float64

	// Orbit is the total angular coverage in degrees and OrbitStart the
	// angle of the first view. A finished record always carries a concrete
	// orbit; short-scan requests are resolved during construction.
	Orbit      float64
	OrbitStart float64

	// Offset is the sub-sample detector centering offset, unitless and
	// relative to the midpoint between the two central channels.
	Offset float64

	// StripWidth is the detector-element width, defaulting to D.
	StripWidth float64

	// SourceOffset is the lateral source/detector offset (fan only).
	SourceOffset float64

	// DSD is the source-to-detector distance and DOD the isocenter-to-
	// detector distance (fan only).
	DSD float64
	DOD float64

	// DFS is the focal-spot-to-source distance: 0 selects an equiangular
	// "3rd generation" arc detector, +Inf a flat detector. No other value
	// is valid for fan geometry.
	DFS float64
}

// Dim returns the sinogram dimensions (radial samples, views).
func (g *Geom) Dim() (nb, na int) {
	return g.NB, g.NA
}

// W returns the "middle" radial sample index, (nb-1)/2 + offset.
func (g *Geom) W() float64 {
	return float64(g.NB-1)/2 + g.Offset
}

// R returns the radial sample coordinates, d*(i - w) for i = 0..nb-1.
func (g *Geom) R() []float64 {
	w := g.W()
	r := make([]float64, g.NB)
	for i := range r {
		r[i] = g.D * (float64(i) - w)
	}
	return r
}

// S is an alias for R; fan-beam literature writes the detector coordinate
// as s.
func (g *Geom) S() []float64 {
	return g.R()
}

// Ad returns the view angles in degrees, i/na*orbit + orbit_start.
func (g *Geom) Ad() []float64 {
	ad := make([]float64, g.NA)
	for i := range ad {
		ad[i] = float64(i)/float64(g.NA)*g.Orbit + g.OrbitStart
	}
	return ad
}

// Ar returns the view angles in radians.
func (g *Geom) Ar() []float64 {
	ar := g.Ad()
	for i, deg := range ar {
		ar[i] = deg * math.Pi / 180
	}
	return ar
}

// DSO returns the source-to-isocenter distance, dsd - dod. Parallel and
// mojette records have no point source, so the distance is +Inf.
func (g *Geom) DSO() float64 {
	if g.Variant != Fan {
		return math.Inf(1)
	}
	return g.DSD - g.DOD
}

// Ones returns a freshly allocated nb-by-na matrix filled with ones.
func (g *Geom) Ones() *mat.Dense {
	m := mat.NewDense(g.NB, g.NA, nil)
	for i := 0; i < g.NB; i++ {
		for j := 0; j < g.NA; j++ {
			m.Set(i, j, 1)
		}
	}
	return m
}

// Zeros returns a freshly allocated nb-by-na matrix of zeros.
func (g *Geom) Zeros() *mat.Dense {
	return mat.NewDense(g.NB, g.NA, nil)
}

// Reshape folds a flat sinogram, stored radial-index fastest, into an
// nb-by-na matrix. The input length must be exactly nb*na.
func (g *Geom) Reshape(flat []float64) (*mat.Dense, error) {
	nb, na := g.Dim()
	if len(flat) != nb*na {
		return nil, fmt.Errorf("%w: reshape of %d samples into %dx%d", ErrShapeMismatch, len(flat), nb, na)
	}
	m := mat.NewDense(nb, na, nil)
	for ia := 0; ia < na; ia++ {
		for ib := 0; ib < nb; ib++ {
			m.Set(ib, ia, flat[ia*nb+ib])
		}
	}
	return m, nil
}

// String summarizes the record for diagnostics.
func (g *Geom) String() string {
	s := fmt.Sprintf("%s: nb=%d na=%d d=%g orbit=%g start=%g offset=%g",
		g.Variant, g.NB, g.NA, g.D, g.Orbit, g.OrbitStart, g.Offset)
	if g.Variant == Fan {
		detector := "arc"
		if math.IsInf(g.DFS, 1) {
			detector = "flat"
		}
		s += fmt.Sprintf(" dsd=%g dod=%g detector=%s", g.DSD, g.DOD, detector)
	}
	if g.Units != "" {
		s += " [" + g.Units + "]"
	}
	return s
}
