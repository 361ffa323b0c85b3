package cosmic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitalElements describe a body's Keplerian orbit around its parent. The
// line of nodes is taken along the reference X axis: inclination tilts the
// orbital plane about it.
type OrbitalElements struct {
	SemiMajorAxis  float64 // m
	Eccentricity   float64 // [0, 1)
	Inclination    float64 // rad
	Period         float64 // s, > 0
	MeanAnomalyAt0 float64 // rad, mean anomaly at simulation time zero
}

// StateAt returns the parent-relative position and velocity at simulation
// time t. Pure function of the elements and t: the simulation clock is always
// passed in, never read from shared state, so sessions may run divergent
// clocks without interference.
func (oe OrbitalElements) StateAt(t float64) (r, v mgl64.Vec3) {
	n := 2 * math.Pi / oe.Period // mean motion
	M := math.Mod(oe.MeanAnomalyAt0+n*t, 2*math.Pi)
	E := solveKepler(M, oe.Eccentricity)
	sinE, cosE := math.Sincos(E)
	sqOME := math.Sqrt(1 - oe.Eccentricity*oe.Eccentricity)

	// In-plane coordinates, periapsis along +X.
	x := oe.SemiMajorAxis * (cosE - oe.Eccentricity)
	y := oe.SemiMajorAxis * sqOME * sinE
	// dE/dt from Kepler's equation.
	Ė := n / (1 - oe.Eccentricity*cosE)
	vx := -oe.SemiMajorAxis * sinE * Ė
	vy := oe.SemiMajorAxis * sqOME * cosE * Ė

	sinI, cosI := math.Sincos(oe.Inclination)
	r = mgl64.Vec3{x, y * cosI, y * sinI}
	v = mgl64.Vec3{vx, vy * cosI, vy * sinI}
	return
}

// solveKepler computes the eccentric anomaly from the mean anomaly via
// Newton iteration on Kepler's equation M = E - e*sin(E). Converges in a
// handful of iterations for any elliptical eccentricity.
func solveKepler(M, e float64) float64 {
	if e < 1e-9 {
		return M // circular orbit
	}
	E := M
	if e > 0.8 {
		E = math.Pi // better seed for highly eccentric orbits
	}
	for iter := 0; iter < 25; iter++ {
		f := E - e*math.Sin(E) - M
		if math.Abs(f) < 1e-12 {
			break
		}
		E -= f / (1 - e*math.Cos(E))
	}
	return E
}
