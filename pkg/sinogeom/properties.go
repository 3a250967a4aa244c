package sinogeom

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// propFunc computes one derived quantity from the primary fields of a
// record. Results are never cached; every access recomputes.
type propFunc func(*Geom) (any, error)

// primaryNames is the closed set of primary field names reachable through
// Get. The derived registry is checked against it at package init, so a
// name can never resolve ambiguously at access time.
var primaryNames = map[string]struct{}{
	"variant":       {},
	"units":         {},
	"nb":            {},
	"na":            {},
	"d":             {},
	"orbit":         {},
	"orbit_start":   {},
	"offset":        {},
	"strip_width":   {},
	"source_offset": {},
	"dsd":           {},
	"dod":           {},
	"dfs":           {},
}

// derived maps derived-quantity names to their formulas. The closures
// returned for "shape", "taufun", "unitv", and "down" are the matching
// Geom methods partially applied to the record.
var derived = map[string]propFunc{
	"dim": func(g *Geom) (any, error) {
		nb, na := g.Dim()
		return [2]int{nb, na}, nil
	},
	"w":           func(g *Geom) (any, error) { return g.W(), nil },
	"r":           func(g *Geom) (any, error) { return g.R(), nil },
	"s":           func(g *Geom) (any, error) { return g.S(), nil },
	"ones":        func(g *Geom) (any, error) { return g.Ones(), nil },
	"zeros":       func(g *Geom) (any, error) { return g.Zeros(), nil },
	"dr":          func(g *Geom) (any, error) { return g.D, nil },
	"ds":          func(g *Geom) (any, error) { return g.D, nil },
	"ad":          func(g *Geom) (any, error) { return g.Ad(), nil },
	"ar":          func(g *Geom) (any, error) { return g.Ar(), nil },
	"dso":         func(g *Geom) (any, error) { return g.DSO(), nil },
	"gamma":       func(g *Geom) (any, error) { return g.Gamma() },
	"gamma_max":   func(g *Geom) (any, error) { return g.GammaMax() },
	"orbit_short": func(g *Geom) (any, error) { return g.OrbitShortAngle() },
	"rfov":        func(g *Geom) (any, error) { return g.RFOV() },
	"xds":         func(g *Geom) (any, error) { return g.Xds() },
	"yds":         func(g *Geom) (any, error) { return g.Yds() },
	"d_ang":       func(g *Geom) (any, error) { return g.DAng(), nil },
	"shape": func(g *Geom) (any, error) {
		return func(flat []float64) (*mat.Dense, error) { return g.Reshape(flat) }, nil
	},
	"taufun": func(g *Geom) (any, error) {
		return func(x, y []float64) (*mat.Dense, error) { return g.Tau(x, y) }, nil
	},
	"unitv": func(g *Geom) (any, error) {
		return func(ib, ia int) (*mat.Dense, error) { return g.Unitv(ib, ia) }, nil
	},
	"down": func(g *Geom) (any, error) {
		return func(factor int) *Geom { return g.Downsample(factor) }, nil
	},
}

func init() {
	// A derived name shadowing a primary field is a registry construction
	// error, caught here rather than at access time.
	for name := range derived {
		if _, clash := primaryNames[name]; clash {
			panic(fmt.Sprintf("sinogeom: derived property %q collides with a primary field", name))
		}
	}
}

// Properties returns the sorted names recognized by Get, derived
// quantities first, then primary fields.
func Properties() []string {
	names := make([]string, 0, len(derived)+len(primaryNames))
	for name := range derived {
		names = append(names, name)
	}
	sort.Strings(names)
	primary := make([]string, 0, len(primaryNames))
	for name := range primaryNames {
		primary = append(primary, name)
	}
	sort.Strings(primary)
	return append(names, primary...)
}

// Get resolves a property name against a record: derived quantities are
// recomputed from the primary fields, unrecognized names fall back to the
// primary fields themselves, and anything else is an unknown-property
// error. The two name spaces cannot overlap (see init), so the precedence
// order is immaterial.
func Get(g *Geom, name string) (any, error) {
	if fn, ok := derived[name]; ok {
		return fn(g)
	}
	switch name {
	case "variant":
		return g.Variant, nil
	case "units":
		return g.Units, nil
	case "nb":
		return g.NB, nil
	case "na":
		return g.NA, nil
	case "d":
		return g.D, nil
	case "orbit":
		return g.Orbit, nil
	case "orbit_start":
		return g.OrbitStart, nil
	case "offset":
		return g.Offset, nil
	case "strip_width":
		return g.StripWidth, nil
	case "source_offset":
		return g.SourceOffset, nil
	case "dsd":
		return g.DSD, nil
	case "dod":
		return g.DOD, nil
	case "dfs":
		return g.DFS, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
}
