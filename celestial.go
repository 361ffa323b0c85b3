package cosmic

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// G is the universal gravitational constant in m³/(kg·s²).
	G = 6.67430e-11
	// AU is one astronomical unit in meters.
	AU = 1.49597870700e11
)

// CelestialBody defines a star, planet, moon or asteroid. Bodies form a tree:
// every body except the root names its parent, and its position at a given
// simulation time is a pure function of its own elements and the parent's
// position at that time.
type CelestialBody struct {
	ID       string
	Name     string
	Mass     float64 // kg, > 0
	Radius   float64 // m, > 0
	ParentID string  // empty for the root body
	Elements OrbitalElements

	// Atmosphere, used by the environment queries below.
	AtmospherePressure float64 // surface pressure, kPa
	AtmosphereDepth    float64 // m above the surface
	HasAtmosphere      bool
	HasWater           bool
}

// SurfaceGravity returns the gravitational acceleration at the body surface
// in m/s².
func (c CelestialBody) SurfaceGravity() float64 {
	if c.Radius == 0 {
		return 0
	}
	return G * c.Mass / (c.Radius * c.Radius)
}

// String implements the Stringer interface.
func (c CelestialBody) String() string {
	return c.Name + " body"
}

// BodyState is a body's position and velocity at a given simulation time.
type BodyState struct {
	Body     *CelestialBody
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// InAtmosphere returns whether the given position is within this body's
// atmosphere at the snapshot's time.
func (bs BodyState) InAtmosphere(pos mgl64.Vec3) bool {
	if !bs.Body.HasAtmosphere {
		return false
	}
	return pos.Sub(bs.Position).Len() <= bs.Body.Radius+bs.Body.AtmosphereDepth
}

// DistanceToSurface returns the distance from pos to the body surface in
// meters, negative when below the surface.
func (bs BodyState) DistanceToSurface(pos mgl64.Vec3) float64 {
	return pos.Sub(bs.Position).Len() - bs.Body.Radius
}

// Snapshot holds the state of every body at one simulation time. It is a
// read-only broadcast value: compute it once per tick and share it freely
// between sessions, it is never mutated by spacecraft updates.
type Snapshot struct {
	Time   float64
	order  []string
	states map[string]BodyState
}

// Body returns the state of the body with the given ID.
func (s Snapshot) Body(id string) (BodyState, bool) {
	bs, ok := s.states[id]
	return bs, ok
}

// Each calls fn for every body in insertion order.
func (s Snapshot) Each(fn func(BodyState)) {
	for _, id := range s.order {
		fn(s.states[id])
	}
}

// Len returns the number of bodies in the snapshot.
func (s Snapshot) Len() int { return len(s.order) }

// SolarSystem is a flat mapping from body ID to body, plus the parent links
// that form the orbital hierarchy. Child lists are never stored inline; the
// tree shape is validated once at load time.
type SolarSystem struct {
	bodies map[string]*CelestialBody
	order  []string
	rootID string
}

// NewSolarSystem builds a system from the given bodies and validates the
// orbital hierarchy.
func NewSolarSystem(bodies ...*CelestialBody) (*SolarSystem, error) {
	sys := &SolarSystem{bodies: make(map[string]*CelestialBody, len(bodies))}
	for _, b := range bodies {
		if _, dup := sys.bodies[b.ID]; dup {
			return nil, fmt.Errorf("duplicate body %q", b.ID)
		}
		sys.bodies[b.ID] = b
		sys.order = append(sys.order, b.ID)
	}
	if err := sys.validate(); err != nil {
		return nil, err
	}
	return sys, nil
}

// Body returns the body with the given ID.
func (sys *SolarSystem) Body(id string) (*CelestialBody, bool) {
	b, ok := sys.bodies[id]
	return b, ok
}

// Root returns the root body (the star).
func (sys *SolarSystem) Root() *CelestialBody { return sys.bodies[sys.rootID] }

// Len returns the number of bodies.
func (sys *SolarSystem) Len() int { return len(sys.order) }

func (sys *SolarSystem) validate() error {
	roots := 0
	for _, id := range sys.order {
		b := sys.bodies[id]
		if b.Mass <= 0 {
			return fmt.Errorf("body %q: mass must be positive, got %g", id, b.Mass)
		}
		if b.Radius <= 0 {
			return fmt.Errorf("body %q: radius must be positive, got %g", id, b.Radius)
		}
		if b.ParentID == "" {
			roots++
			sys.rootID = id
			continue
		}
		if _, ok := sys.bodies[b.ParentID]; !ok {
			return fmt.Errorf("body %q: unknown parent %q", id, b.ParentID)
		}
		if b.Elements.Period <= 0 {
			return fmt.Errorf("body %q: orbital period must be positive when a parent is set", id)
		}
		if e := b.Elements.Eccentricity; e < 0 || e >= 1 {
			return fmt.Errorf("body %q: eccentricity must be in [0,1), got %g", id, e)
		}
	}
	if roots != 1 {
		return fmt.Errorf("system must have exactly one root body, found %d", roots)
	}
	// Walk each parent chain; a chain longer than the body count is a cycle.
	for _, id := range sys.order {
		seen := 0
		for cur := sys.bodies[id]; cur.ParentID != ""; cur = sys.bodies[cur.ParentID] {
			seen++
			if seen > len(sys.order) {
				return fmt.Errorf("body %q: parent chain does not reach the root", id)
			}
		}
	}
	return nil
}

// StateAt computes every body's position and velocity at simulation time t,
// top-down from the root. The root is fixed at the origin.
func (sys *SolarSystem) StateAt(t float64) Snapshot {
	snap := Snapshot{Time: t, order: sys.order, states: make(map[string]BodyState, len(sys.order))}
	var resolve func(id string) BodyState
	resolve = func(id string) BodyState {
		if bs, done := snap.states[id]; done {
			return bs
		}
		b := sys.bodies[id]
		var bs BodyState
		if b.ParentID == "" {
			bs = BodyState{Body: b}
		} else {
			parent := resolve(b.ParentID)
			r, v := b.Elements.StateAt(t)
			bs = BodyState{Body: b, Position: parent.Position.Add(r), Velocity: parent.Velocity.Add(v)}
		}
		snap.states[id] = bs
		return bs
	}
	for _, id := range sys.order {
		resolve(id)
	}
	return snap
}

// OrbitalSpeedAround returns the circular orbital speed at distance r from
// the body center, from the vis-viva relation for a circular orbit.
func OrbitalSpeedAround(body *CelestialBody, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(G * body.Mass / r)
}

// DefaultSystem returns a small Sun-Earth-Luna-Mars system with real masses
// and radii and simplified orbital elements, handy for free flight and tests.
func DefaultSystem() *SolarSystem {
	sys, err := NewSolarSystem(
		&CelestialBody{ID: "sun", Name: "Sun", Mass: 1.989e30, Radius: 6.957e8},
		&CelestialBody{
			ID: "earth", Name: "Earth", Mass: 5.972e24, Radius: 6.371e6, ParentID: "sun",
			Elements:           OrbitalElements{SemiMajorAxis: AU, Eccentricity: 0.0167, Period: 365.25 * 86400},
			AtmospherePressure: 101.3, AtmosphereDepth: 1e5, HasAtmosphere: true, HasWater: true,
		},
		&CelestialBody{
			ID: "luna", Name: "Luna", Mass: 7.342e22, Radius: 1.7374e6, ParentID: "earth",
			Elements: OrbitalElements{SemiMajorAxis: 3.844e8, Eccentricity: 0.0549, Inclination: Deg2rad(5.145), Period: 27.32 * 86400},
		},
		&CelestialBody{
			ID: "mars", Name: "Mars", Mass: 6.417e23, Radius: 3.3895e6, ParentID: "sun",
			Elements:           OrbitalElements{SemiMajorAxis: 1.524 * AU, Eccentricity: 0.0934, Inclination: Deg2rad(1.85), Period: 686.97 * 86400},
			AtmospherePressure: 0.6, AtmosphereDepth: 8e4, HasAtmosphere: true,
		},
	)
	if err != nil {
		panic(err) // the built-in catalog is known valid
	}
	return sys
}
