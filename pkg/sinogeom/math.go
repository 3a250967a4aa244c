package sinogeom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// detectorModel classifies the fan-beam detector from the dfs field: an
// equiangular arc for dfs = 0 or a flat detector for dfs = +Inf.
func (g *Geom) detectorModel() (flat bool, err error) {
	switch {
	case g.DFS == 0:
		return false, nil
	case math.IsInf(g.DFS, 1):
		return true, nil
	default:
		return false, fmt.Errorf("%w: dfs=%g, want 0 or +Inf", ErrInvalidDetectorModel, g.DFS)
	}
}

// Gamma returns the fan angle of each radial sample relative to the
// central ray: s/dsd for an arc detector, atan(s/dsd) for a flat one.
// Gamma is undefined outside fan geometry.
func (g *Geom) Gamma() ([]float64, error) {
	if g.Variant != Fan {
		return nil, fmt.Errorf("sinogeom: gamma is undefined for %s geometry", g.Variant)
	}
	flat, err := g.detectorModel()
	if err != nil {
		return nil, err
	}
	gamma := g.S()
	for i, s := range gamma {
		if flat {
			gamma[i] = math.Atan(s / g.DSD)
		} else {
			gamma[i] = s / g.DSD
		}
	}
	return gamma, nil
}

// GammaMax returns the fan half-angle, max(|gamma|), in radians.
func (g *Geom) GammaMax() (float64, error) {
	gamma, err := g.Gamma()
	if err != nil {
		return 0, err
	}
	for i, v := range gamma {
		gamma[i] = math.Abs(v)
	}
	return floats.Max(gamma), nil
}

// OrbitShortAngle returns the short-scan orbit in degrees,
// 180 + 2*gamma_max. The fan constructor uses it to resolve a symbolic
// "short" orbit request before the record is finalized.
func (g *Geom) OrbitShortAngle() (float64, error) {
	gm, err := g.GammaMax()
	if err != nil {
		return 0, err
	}
	return 180 + 2*gm*180/math.Pi, nil
}

// RFOV returns the radius of the disk guaranteed to be fully sampled by
// every view: max(|r|) for parallel and mojette records, dso*sin(gamma_max)
// for fan records.
func (g *Geom) RFOV() (float64, error) {
	switch g.Variant {
	case Parallel, Mojette:
		r := g.R()
		for i, v := range r {
			r[i] = math.Abs(v)
		}
		return floats.Max(r), nil
	case Fan:
		gm, err := g.GammaMax()
		if err != nil {
			return 0, err
		}
		return g.DSO() * math.Sin(gm), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownVariant, g.Variant)
	}
}

// Xds returns the x coordinates of the detector element centers at view
// angle 0, shifted laterally by the source offset.
func (g *Geom) Xds() ([]float64, error) {
	switch g.Variant {
	case Parallel, Mojette:
		return g.S(), nil
	case Fan:
		flat, err := g.detectorModel()
		if err != nil {
			return nil, err
		}
		xds := g.S()
		if !flat {
			gamma, err := g.Gamma()
			if err != nil {
				return nil, err
			}
			for i, gam := range gamma {
				xds[i] = g.DSD * math.Sin(gam)
			}
		}
		for i := range xds {
			xds[i] += g.SourceOffset
		}
		return xds, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, g.Variant)
	}
}

// Yds returns the y coordinates of the detector element centers at view
// angle 0. Parallel and mojette detectors sit on the x axis; a flat fan
// detector sits at y = -dod; an arc detector curves around the source.
func (g *Geom) Yds() ([]float64, error) {
	yds := make([]float64, g.NB)
	switch g.Variant {
	case Parallel, Mojette:
		return yds, nil
	case Fan:
		flat, err := g.detectorModel()
		if err != nil {
			return nil, err
		}
		if flat {
			for i := range yds {
				yds[i] = -g.DOD
			}
			return yds, nil
		}
		gamma, err := g.Gamma()
		if err != nil {
			return nil, err
		}
		dso := g.DSO()
		for i, gam := range gamma {
			yds[i] = dso - g.DSD*math.Cos(gam)
		}
		return yds, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, g.Variant)
	}
}

// DAng returns the mojette angular-dependent sample spacing for each view,
// d * max(|cos ar|, |sin ar|). For other variants it degenerates to the
// same formula over their view angles; callers normally consult it only
// for mojette records.
func (g *Geom) DAng() []float64 {
	dang := g.Ar()
	for i, a := range dang {
		dang[i] = g.D * math.Max(math.Abs(math.Cos(a)), math.Abs(math.Sin(a)))
	}
	return dang
}

// Tau projects object-space points onto the detector for every view and
// normalizes by the sample spacing, yielding unitless detector coordinates
// (s/ds). The result has one row per point and one column per view. The x
// and y arrays must have the same length.
//
// For parallel beam the projection is (x*cos(ar) + y*sin(ar)) / d. Mojette
// records use the angular-dependent spacing d_ang in the denominator. Fan
// beam rotates each point into the view's source-centered frame and forms
// the tangent of the ray angle, scaled to detector samples according to
// the detector model.
func (g *Geom) Tau(x, y []float64) (*mat.Dense, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: tau inputs have %d and %d points", ErrShapeMismatch, len(x), len(y))
	}
	ar := g.Ar()
	out := mat.NewDense(len(x), g.NA, nil)
	switch g.Variant {
	case Parallel, Mojette:
		for ia, a := range ar {
			ca, sa := math.Cos(a), math.Sin(a)
			ds := g.D
			if g.Variant == Mojette {
				ds = g.D * math.Max(math.Abs(ca), math.Abs(sa))
			}
			for ip := range x {
				out.Set(ip, ia, (x[ip]*ca+y[ip]*sa)/ds)
			}
		}
		return out, nil
	case Fan:
		flat, err := g.detectorModel()
		if err != nil {
			return nil, err
		}
		dso := g.DSO()
		for ia, a := range ar {
			ca, sa := math.Cos(a), math.Sin(a)
			for ip := range x {
				xb := x[ip]*ca + y[ip]*sa
				yb := -x[ip]*sa + y[ip]*ca
				tangam := (xb - g.SourceOffset) / (dso - yb)
				tau := g.DSD / g.D * tangam
				if !flat {
					tau = g.DSD / g.D * math.Atan(tangam)
				}
				out.Set(ip, ia, tau)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, g.Variant)
	}
}

// Unitv returns an nb-by-na sinogram of zeros with a single 1 at radial
// index ib and view index ia, used to probe the response of a system to
// one ray. A negative index selects the central sample, nb/2 or na/2.
func (g *Geom) Unitv(ib, ia int) (*mat.Dense, error) {
	if ib < 0 {
		ib = g.NB / 2
	}
	if ia < 0 {
		ia = g.NA / 2
	}
	if ib >= g.NB || ia >= g.NA {
		return nil, fmt.Errorf("sinogeom: unitv index (%d,%d) outside %dx%d sinogram", ib, ia, g.NB, g.NA)
	}
	m := g.Zeros()
	m.Set(ib, ia, 1)
	return m, nil
}
