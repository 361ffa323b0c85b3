package cosmic

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func testBody(id, parent string) *CelestialBody {
	b := &CelestialBody{ID: id, Name: id, Mass: 1e24, Radius: 1e6, ParentID: parent}
	if parent != "" {
		b.Elements = OrbitalElements{SemiMajorAxis: 1e9, Period: 1e6}
	}
	return b
}

func TestSolarSystemValidation(t *testing.T) {
	cases := []struct {
		about  string
		bodies []*CelestialBody
		errHas string
	}{
		{"two roots", []*CelestialBody{testBody("a", ""), testBody("b", "")}, "exactly one root"},
		{"no root", []*CelestialBody{testBody("a", "b"), testBody("b", "a")}, "exactly one root"},
		{"unknown parent", []*CelestialBody{testBody("a", ""), testBody("b", "nope")}, "unknown parent"},
		{"duplicate id", []*CelestialBody{testBody("a", ""), testBody("a", "")}, "duplicate"},
		{"zero mass", []*CelestialBody{{ID: "a", Mass: 0, Radius: 1}}, "mass"},
		{"zero radius", []*CelestialBody{{ID: "a", Mass: 1, Radius: 0}}, "radius"},
		{"zero period", []*CelestialBody{testBody("a", ""), {ID: "b", Mass: 1, Radius: 1, ParentID: "a"}}, "period"},
		{"bad eccentricity", []*CelestialBody{testBody("a", ""), {ID: "b", Mass: 1, Radius: 1, ParentID: "a", Elements: OrbitalElements{Period: 10, Eccentricity: 1.0}}}, "eccentricity"},
	}
	for _, tc := range cases {
		_, err := NewSolarSystem(tc.bodies...)
		if err == nil {
			t.Fatalf("%s: expected an error", tc.about)
		}
		if !strings.Contains(err.Error(), tc.errHas) {
			t.Fatalf("%s: error %q does not mention %q", tc.about, err, tc.errHas)
		}
	}
}

func TestSolarSystemHierarchy(t *testing.T) {
	sys := DefaultSystem()
	if sys.Root().ID != "sun" {
		t.Fatalf("expected sun as root, got %s", sys.Root().ID)
	}
	snap := sys.StateAt(1e6)
	sun, _ := snap.Body("sun")
	if sun.Position.Len() != 0 {
		t.Fatal("root body must stay at the origin")
	}
	earth, _ := snap.Body("earth")
	luna, _ := snap.Body("luna")
	sep := luna.Position.Sub(earth.Position).Len()
	a := 3.844e8
	if sep < a*(1-0.0549)-1e3 || sep > a*(1+0.0549)+1e3 {
		t.Fatalf("earth-luna separation %.0f m outside the orbit bounds", sep)
	}
	if snap.Len() != sys.Len() {
		t.Fatal("snapshot dropped a body")
	}
}

func TestSnapshotDeterministic(t *testing.T) {
	sys := DefaultSystem()
	a := sys.StateAt(4321.5)
	b := sys.StateAt(4321.5)
	ea, _ := a.Body("earth")
	eb, _ := b.Body("earth")
	if ea.Position != eb.Position || ea.Velocity != eb.Velocity {
		t.Fatal("StateAt is not a pure function of t")
	}
}

func TestSurfaceGravity(t *testing.T) {
	earth, _ := DefaultSystem().Body("earth")
	if !scalar.EqualWithinAbs(earth.SurfaceGravity(), 9.82, 0.02) {
		t.Fatalf("earth surface gravity %f", earth.SurfaceGravity())
	}
}

func TestAtmosphereQueries(t *testing.T) {
	sys := DefaultSystem()
	snap := sys.StateAt(0)
	earth, _ := snap.Body("earth")
	onSurface := earth.Position.Add(mgl64.Vec3{earth.Body.Radius + 1e3, 0, 0})
	if !earth.InAtmosphere(onSurface) {
		t.Fatal("1 km altitude should be inside the atmosphere")
	}
	deepSpace := earth.Position.Add(mgl64.Vec3{earth.Body.Radius + 1e6, 0, 0})
	if earth.InAtmosphere(deepSpace) {
		t.Fatal("1000 km altitude should be above the atmosphere")
	}
	luna, _ := snap.Body("luna")
	if luna.InAtmosphere(luna.Position) {
		t.Fatal("luna has no atmosphere")
	}
	if !scalar.EqualWithinAbs(earth.DistanceToSurface(onSurface), 1e3, 1e-6) {
		t.Fatal("wrong distance to surface")
	}
}

func TestOrbitalSpeedAround(t *testing.T) {
	earth, _ := DefaultSystem().Body("earth")
	// ISS-like orbit: ~7.67 km/s at 420 km altitude.
	v := OrbitalSpeedAround(earth, earth.Radius+420e3)
	if !scalar.EqualWithinAbs(v, 7657, 10) {
		t.Fatalf("LEO speed %f", v)
	}
}
