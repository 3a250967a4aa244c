package sinogeom

import "math"

// Downsample returns a new record with coarser radial and angular sampling.
// A factor below 2 is the identity (modulo a fresh copy). The radial count
// is forced even, 2*round(nb/factor/2), the view count becomes
// round(na/factor), and both the sample spacing and the strip width scale
// by the factor so the detector still covers the same physical extent. The
// receiver is never modified.
func (g *Geom) Downsample(factor int) *Geom {
	out := *g
	if factor <= 1 {
		return &out
	}
	f := float64(factor)
	nb := 2 * int(math.Round(float64(g.NB)/f/2))
	if nb < 2 {
		nb = 2
	}
	na := int(math.Round(float64(g.NA) / f))
	if na < 1 {
		na = 1
	}
	out.NB = nb
	out.NA = na
	out.D = g.D * f
	out.StripWidth = g.StripWidth * f
	return &out
}
