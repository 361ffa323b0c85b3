package cosmic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestShipClassStats(t *testing.T) {
	for _, class := range []ShipClass{Scout, Freighter, Fighter} {
		stats := class.Stats()
		if stats.DryMass <= 0 || stats.MaxThrust <= 0 || stats.MaxFuel <= 0 || stats.SpecificImpulse <= 0 || stats.HullRadius <= 0 {
			t.Fatalf("%s has non-positive stats: %+v", class, stats)
		}
	}
	if Freighter.Stats().DryMass <= Scout.Stats().DryMass {
		t.Fatal("a freighter should outweigh a scout")
	}
}

func TestShipClassFromString(t *testing.T) {
	for _, name := range []string{"scout", "freighter", "fighter"} {
		class, err := ShipClassFromString(name)
		if err != nil {
			t.Fatal(err)
		}
		if class.String() != name {
			t.Fatalf("round trip broke: %s != %s", class, name)
		}
	}
	if _, err := ShipClassFromString("battlestar"); err == nil {
		t.Fatal("unknown ship class must be an error")
	}
}

func TestNewSpacecraftFuelClamp(t *testing.T) {
	sc := NewSpacecraft("sc1", "Overfull", Scout, mgl64.Vec3{}, 1e9, nil)
	if sc.Fuel != Scout.Stats().MaxFuel {
		t.Fatalf("fuel not clamped to capacity: %f", sc.Fuel)
	}
	sc = NewSpacecraft("sc2", "Drained", Scout, mgl64.Vec3{}, -5, nil)
	if sc.Fuel != 0 {
		t.Fatal("negative start fuel must clamp to zero")
	}
	if sc.Orientation != mgl64.QuatIdent() {
		t.Fatal("spacecraft must start with identity orientation")
	}
}

func TestCurrentMass(t *testing.T) {
	sc := NewSpacecraft("sc", "Test", Scout, mgl64.Vec3{}, 1000, nil)
	if !scalar.EqualWithinAbs(sc.CurrentMass(), 4000+1000*0.75, 1e-9) {
		t.Fatalf("mass %f", sc.CurrentMass())
	}
	sc.Fuel = 0
	if !scalar.EqualWithinAbs(sc.CurrentMass(), 4000, 1e-9) {
		t.Fatal("empty craft mass must equal dry mass")
	}
}

func TestBurnRate(t *testing.T) {
	sc := NewSpacecraft("sc", "Test", Scout, mgl64.Vec3{}, 1000, nil)
	// 50 kN at Isp 320 s: 50e3/(320·9.81) kg/s over 0.75 kg/L.
	if !scalar.EqualWithinAbs(sc.BurnRate(), 21.235, 0.01) {
		t.Fatalf("burn rate %f L/s", sc.BurnRate())
	}
}

func TestSetThrottleClamp(t *testing.T) {
	sc := NewSpacecraft("sc", "Test", Scout, mgl64.Vec3{}, 0, nil)
	sc.SetThrottle(250)
	if sc.Throttle != 100 {
		t.Fatal("throttle must clamp at 100")
	}
	sc.SetThrottle(-3)
	if sc.Throttle != 0 {
		t.Fatal("throttle must clamp at 0")
	}
	sc.SetThrottle(42)
	if !scalar.EqualWithinAbs(sc.ThrustLevel(), 0.42, 1e-12) {
		t.Fatal("thrust level must be throttle/100")
	}
}

func TestApplyDamageFloor(t *testing.T) {
	sc := NewSpacecraft("sc", "Test", Fighter, mgl64.Vec3{}, 0, nil)
	sc.ApplyDamage(0.4)
	if !scalar.EqualWithinAbs(sc.HullIntegrity, 0.6, 1e-12) {
		t.Fatalf("hull %f", sc.HullIntegrity)
	}
	sc.ApplyDamage(2)
	if sc.HullIntegrity != 0 {
		t.Fatal("hull integrity must floor at zero")
	}
}

func TestLifeSupportThresholds(t *testing.T) {
	sc := NewSpacecraft("sc", "Test", Scout, mgl64.Vec3{}, 0, nil)
	if sc.LifeSupport() != LifeSupportNominal {
		t.Fatal("fresh craft should be nominal")
	}
	sc.OxygenLevel = 50
	if sc.LifeSupport() != LifeSupportWarning {
		t.Fatal("50% oxygen should be a warning")
	}
	sc.OxygenLevel = 20
	if sc.LifeSupport() != LifeSupportCritical {
		t.Fatal("20% oxygen should be critical")
	}
	sc.ReplenishOxygen(200)
	if sc.OxygenLevel != 100 {
		t.Fatal("oxygen must cap at 100%")
	}
}
