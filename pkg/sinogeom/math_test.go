package sinogeom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioFan is the reference fan geometry used throughout the math
// tests: nb=128, d=1, dsd=512, dod=128, arc detector.
func scenarioFan(t *testing.T, flat bool) *Geom {
	t.Helper()
	g, err := NewFan(Options{NB: 128, D: 1, DSD: 512, DOD: 128, FlatDetector: flat})
	require.NoError(t, err)
	return g
}

// TestGammaArc verifies the equiangular arc formula gamma = s/dsd.
func TestGammaArc(t *testing.T) {
	g := scenarioFan(t, false)
	gamma, err := g.Gamma()
	require.NoError(t, err)

	s := g.S()
	require.Len(t, gamma, len(s))
	for i := range s {
		assert.InDelta(t, s[i]/g.DSD, gamma[i], 1e-12)
	}
}

// TestGammaFlat verifies the flat-detector formula gamma = atan(s/dsd).
func TestGammaFlat(t *testing.T) {
	g := scenarioFan(t, true)
	gamma, err := g.Gamma()
	require.NoError(t, err)

	s := g.S()
	for i := range s {
		assert.InDelta(t, math.Atan(s[i]/g.DSD), gamma[i], 1e-12)
	}
}

func TestGammaRequiresFan(t *testing.T) {
	g, err := NewParallel(Options{NB: 32})
	require.NoError(t, err)
	_, err = g.Gamma()
	assert.Error(t, err)
	_, err = g.GammaMax()
	assert.Error(t, err)
	_, err = g.OrbitShortAngle()
	assert.Error(t, err)
}

// TestGammaInvalidDetectorModel hand-builds a fan record with a focal-spot
// distance outside {0, +Inf}; every detector-dependent formula must reject
// it.
func TestGammaInvalidDetectorModel(t *testing.T) {
	g := scenarioFan(t, false)
	bad := *g
	bad.DFS = 5

	_, err := bad.Gamma()
	assert.ErrorIs(t, err, ErrInvalidDetectorModel)
	_, err = bad.Xds()
	assert.ErrorIs(t, err, ErrInvalidDetectorModel)
	_, err = bad.Yds()
	assert.ErrorIs(t, err, ErrInvalidDetectorModel)
	_, err = bad.Tau([]float64{0}, []float64{0})
	assert.ErrorIs(t, err, ErrInvalidDetectorModel)
}

// TestGammaMaxRange covers the reference scenario: the fan half-angle of a
// 128-channel arc detector at dsd=512 is strictly between 0 and pi/2.
func TestGammaMaxRange(t *testing.T) {
	g := scenarioFan(t, false)
	gm, err := g.GammaMax()
	require.NoError(t, err)
	assert.Greater(t, gm, 0.0)
	assert.Less(t, gm, math.Pi/2)
	assert.InDelta(t, 63.5/512, gm, 1e-12)
}

func TestOrbitShortAngle(t *testing.T) {
	g := scenarioFan(t, false)
	gm, err := g.GammaMax()
	require.NoError(t, err)
	orbit, err := g.OrbitShortAngle()
	require.NoError(t, err)
	assert.InDelta(t, 180+2*gm*180/math.Pi, orbit, 1e-12)
}

// TestRFOV verifies the field-of-view radius per variant: max(|r|) for
// parallel and mojette records, dso*sin(gamma_max) for fan records.
func TestRFOV(t *testing.T) {
	par, err := NewParallel(Options{NB: 64, D: 0.5, Offset: 0.25})
	require.NoError(t, err)
	rfov, err := par.RFOV()
	require.NoError(t, err)
	maxAbs := 0.0
	for _, v := range par.R() {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	assert.InDelta(t, maxAbs, rfov, 1e-12)

	moj, err := NewMojette(Options{NB: 64, D: 0.5})
	require.NoError(t, err)
	rfov, err = moj.RFOV()
	require.NoError(t, err)
	assert.InDelta(t, 63.0/2*0.5, rfov, 1e-12)

	fan := scenarioFan(t, false)
	rfov, err = fan.RFOV()
	require.NoError(t, err)
	gm, err := fan.GammaMax()
	require.NoError(t, err)
	assert.InDelta(t, fan.DSO()*math.Sin(gm), rfov, 1e-12)
}

// TestDetectorCenters verifies xds/yds for all three detector layouts.
func TestDetectorCenters(t *testing.T) {
	par, err := NewParallel(Options{NB: 16})
	require.NoError(t, err)
	xds, err := par.Xds()
	require.NoError(t, err)
	assert.Equal(t, par.S(), xds)
	yds, err := par.Yds()
	require.NoError(t, err)
	for _, v := range yds {
		assert.Zero(t, v)
	}

	arc := scenarioFan(t, false)
	gamma, err := arc.Gamma()
	require.NoError(t, err)
	xds, err = arc.Xds()
	require.NoError(t, err)
	yds, err = arc.Yds()
	require.NoError(t, err)
	for i := range gamma {
		assert.InDelta(t, arc.DSD*math.Sin(gamma[i]), xds[i], 1e-12)
		assert.InDelta(t, arc.DSO()-arc.DSD*math.Cos(gamma[i]), yds[i], 1e-12)
	}

	flat := scenarioFan(t, true)
	xds, err = flat.Xds()
	require.NoError(t, err)
	assert.Equal(t, flat.S(), xds)
	yds, err = flat.Yds()
	require.NoError(t, err)
	for _, v := range yds {
		assert.Equal(t, -flat.DOD, v)
	}
}

func TestDetectorCentersSourceOffset(t *testing.T) {
	g, err := NewFan(Options{NB: 32, SourceOffset: 1.5})
	require.NoError(t, err)
	gamma, err := g.Gamma()
	require.NoError(t, err)
	xds, err := g.Xds()
	require.NoError(t, err)
	for i := range xds {
		assert.InDelta(t, g.DSD*math.Sin(gamma[i])+1.5, xds[i], 1e-12)
	}
}

// TestDAng verifies the mojette angular-dependent spacing
// d * max(|cos ar|, |sin ar|).
func TestDAng(t *testing.T) {
	g, err := NewMojette(Options{NB: 8, NA: 4, D: 2, Orbit: 180})
	require.NoError(t, err)

	h := math.Sqrt(2) / 2
	assert.InDeltaSlice(t, []float64{2, 2 * h, 2, 2 * h}, g.DAng(), 1e-12)
}

// TestTauIsocenter checks that a point at the isocenter projects onto the
// detector center for every view, in every geometry.
func TestTauIsocenter(t *testing.T) {
	for _, g := range []*Geom{scenarioFan(t, false), scenarioFan(t, true)} {
		tau, err := g.Tau([]float64{0}, []float64{0})
		require.NoError(t, err)
		rows, cols := tau.Dims()
		assert.Equal(t, 1, rows)
		assert.Equal(t, g.NA, cols)
		for ia := 0; ia < cols; ia++ {
			assert.Zero(t, tau.At(0, ia))
		}
	}
}

// TestTauParallel checks the corrected parallel-beam projection
// (x*cos + y*sin)/d against hand-computed values for a point on the x axis.
func TestTauParallel(t *testing.T) {
	g, err := NewParallel(Options{NB: 8, NA: 4, D: 0.5, Orbit: 180})
	require.NoError(t, err)

	tau, err := g.Tau([]float64{2}, []float64{0})
	require.NoError(t, err)
	for ia, a := range g.Ar() {
		assert.InDelta(t, 2*math.Cos(a)/0.5, tau.At(0, ia), 1e-12)
	}

	// A point on the y axis picks up the sin coefficient instead.
	tau, err = g.Tau([]float64{0}, []float64{2})
	require.NoError(t, err)
	for ia, a := range g.Ar() {
		assert.InDelta(t, 2*math.Sin(a)/0.5, tau.At(0, ia), 1e-12)
	}
}

// TestTauMojette checks that mojette projections normalize by the
// per-view spacing d_ang rather than the fixed d.
func TestTauMojette(t *testing.T) {
	g, err := NewMojette(Options{NB: 8, NA: 4, D: 2, Orbit: 180})
	require.NoError(t, err)

	dang := g.DAng()
	tau, err := g.Tau([]float64{1}, []float64{3})
	require.NoError(t, err)
	for ia, a := range g.Ar() {
		want := (1*math.Cos(a) + 3*math.Sin(a)) / dang[ia]
		assert.InDelta(t, want, tau.At(0, ia), 1e-12)
	}
}

// TestTauFanArc checks the fan projection against a direct evaluation of
// the rotated-frame formula for an off-center point.
func TestTauFanArc(t *testing.T) {
	g, err := NewFan(Options{NB: 64, D: 1, DSD: 400, DOD: 100, SourceOffset: 2})
	require.NoError(t, err)

	x, y := 10.0, -5.0
	tau, err := g.Tau([]float64{x}, []float64{y})
	require.NoError(t, err)
	dso := g.DSO()
	for ia, a := range g.Ar() {
		xb := x*math.Cos(a) + y*math.Sin(a)
		yb := -x*math.Sin(a) + y*math.Cos(a)
		tangam := (xb - g.SourceOffset) / (dso - yb)
		assert.InDelta(t, g.DSD/g.D*math.Atan(tangam), tau.At(0, ia), 1e-12)
	}
}

func TestTauFanFlatScaling(t *testing.T) {
	g := scenarioFan(t, true)
	x := []float64{5, -3}
	y := []float64{1, 2}
	tau, err := g.Tau(x, y)
	require.NoError(t, err)
	dso := g.DSO()
	for ia, a := range g.Ar() {
		for ip := range x {
			xb := x[ip]*math.Cos(a) + y[ip]*math.Sin(a)
			yb := -x[ip]*math.Sin(a) + y[ip]*math.Cos(a)
			want := g.DSD / g.D * (xb / (dso - yb))
			assert.InDelta(t, want, tau.At(ip, ia), 1e-12)
		}
	}
}

func TestTauShapeMismatch(t *testing.T) {
	g := scenarioFan(t, false)
	_, err := g.Tau([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

// TestUnitv checks that the single-ray sinogram has exactly one entry
// equal to 1, at the default center or the requested indices.
func TestUnitv(t *testing.T) {
	g, err := NewParallel(Options{NB: 8, NA: 6})
	require.NoError(t, err)

	m, err := g.Unitv(-1, -1)
	require.NoError(t, err)
	sum, ones := 0.0, 0
	for ib := 0; ib < 8; ib++ {
		for ia := 0; ia < 6; ia++ {
			sum += m.At(ib, ia)
			if m.At(ib, ia) == 1 {
				ones++
			}
		}
	}
	assert.Equal(t, 1.0, sum)
	assert.Equal(t, 1, ones)
	assert.Equal(t, 1.0, m.At(4, 3))

	m, err = g.Unitv(2, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.At(2, 5))

	_, err = g.Unitv(8, 0)
	assert.Error(t, err)
}
