package cosmic

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-kit/log"
)

const (
	// g0 is standard gravity in m/s², used in the rocket-equation burn rate.
	g0 = 9.81
	// fuelDensity converts fuel volume to mass, in kg/L.
	fuelDensity = 0.75

	lifeSupportWarning  = 50.0 // oxygen %, below which status degrades
	lifeSupportCritical = 20.0 // oxygen %, below which status is critical
)

// ShipClass enumerates the spacecraft variants. Each class fixes its physical
// parameters; behavior dispatches on the class rather than on subtypes.
type ShipClass uint8

const (
	Scout ShipClass = iota + 1
	Freighter
	Fighter
)

func (c ShipClass) String() string {
	switch c {
	case Scout:
		return "scout"
	case Freighter:
		return "freighter"
	case Fighter:
		return "fighter"
	}
	panic("cannot stringify unknown ship class")
}

// ShipClassFromString returns the class for a scenario-file name.
func ShipClassFromString(s string) (ShipClass, error) {
	switch s {
	case "scout":
		return Scout, nil
	case "freighter":
		return Freighter, nil
	case "fighter":
		return Fighter, nil
	default:
		return 0, fmt.Errorf("undefined ship class '%s'", s)
	}
}

// ShipStats are the fixed parameters of a ship class.
type ShipStats struct {
	DryMass         float64 // kg
	MaxThrust       float64 // N
	MaxFuel         float64 // L
	SpecificImpulse float64 // s
	CruiseSpeed     float64 // m/s
	HullRadius      float64 // m, collision envelope
}

// Stats returns the fixed parameters for the class.
func (c ShipClass) Stats() ShipStats {
	switch c {
	case Scout:
		return ShipStats{
			DryMass:         4000,
			MaxThrust:       50e3,
			MaxFuel:         1000,
			SpecificImpulse: 320,
			CruiseSpeed:     12e3,
			HullRadius:      6,
		}
	case Freighter:
		return ShipStats{
			DryMass:         25000,
			MaxThrust:       180e3,
			MaxFuel:         8000,
			SpecificImpulse: 290,
			CruiseSpeed:     7e3,
			HullRadius:      22,
		}
	case Fighter:
		return ShipStats{
			DryMass:         6500,
			MaxThrust:       140e3,
			MaxFuel:         1800,
			SpecificImpulse: 260,
			CruiseSpeed:     18e3,
			HullRadius:      8,
		}
	}
	panic("unknown ship class")
}

// LifeSupportStatus is derived from the cabin environment each tick.
type LifeSupportStatus string

const (
	LifeSupportNominal  LifeSupportStatus = "nominal"
	LifeSupportWarning  LifeSupportStatus = "warning"
	LifeSupportCritical LifeSupportStatus = "critical"
)

// Spacecraft is a vessel's full mutable state. It is owned by the flight
// session that created it: the physics engine mutates it once per tick and
// the mission tracker only ever reads it.
type Spacecraft struct {
	ID    string
	Name  string
	Class ShipClass
	Stats ShipStats

	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Acceleration    mgl64.Vec3 // m/s², total from the last step
	Orientation     mgl64.Quat // unit quaternion
	AngularVelocity mgl64.Vec3 // rad/s, body frame

	Fuel          float64 // L, in [0, Stats.MaxFuel]
	Throttle      float64 // percent, [0, 100]
	Boost         bool
	HullIntegrity float64 // [0, 1]
	ShieldsActive bool

	OxygenLevel   float64 // percent, [0, 100]
	CabinPressure float64 // kPa
	CabinTemp     float64 // °C

	logger log.Logger
}

// NewSpacecraft returns a spacecraft of the given class at the given start
// position, fueled to startFuel (clamped to the class capacity).
func NewSpacecraft(id, name string, class ShipClass, startPos mgl64.Vec3, startFuel float64, logger log.Logger) *Spacecraft {
	stats := class.Stats()
	if startFuel < 0 {
		startFuel = 0
	}
	if startFuel > stats.MaxFuel {
		startFuel = stats.MaxFuel
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Spacecraft{
		ID:            id,
		Name:          name,
		Class:         class,
		Stats:         stats,
		Position:      startPos,
		Orientation:   mgl64.QuatIdent(),
		Fuel:          startFuel,
		HullIntegrity: 1.0,
		OxygenLevel:   100.0,
		CabinPressure: 101.3,
		CabinTemp:     20.0,
		logger:        log.With(logger, "subsys", "sc", "sc", id),
	}
}

// CurrentMass returns the total mass including fuel, in kg.
func (s *Spacecraft) CurrentMass() float64 {
	return s.Stats.DryMass + s.Fuel*fuelDensity
}

// FuelPercent returns the remaining fuel as a percentage of capacity.
func (s *Spacecraft) FuelPercent() float64 {
	if s.Stats.MaxFuel == 0 {
		return 0
	}
	return s.Fuel / s.Stats.MaxFuel * 100
}

// BurnRate returns the full-throttle fuel consumption in L/s, from the
// rocket-equation relation burn = thrust / (Isp * g0) converted by the fuel
// density.
func (s *Spacecraft) BurnRate() float64 {
	return s.Stats.MaxThrust / (s.Stats.SpecificImpulse * g0) / fuelDensity
}

// ThrustLevel returns the throttle as a [0,1] thrust fraction.
func (s *Spacecraft) ThrustLevel() float64 {
	return s.Throttle / 100
}

// SetThrottle sets the throttle percentage, clamped to [0, 100].
func (s *Spacecraft) SetThrottle(pct float64) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	s.Throttle = pct
}

// ApplyDamage reduces hull integrity by the given fraction, floored at zero.
func (s *Spacecraft) ApplyDamage(frac float64) {
	s.HullIntegrity -= frac
	if s.HullIntegrity <= 0 {
		s.HullIntegrity = 0
		s.logger.Log("level", "critical", "hull", 0.0)
	}
}

// LifeSupport returns the derived life-support status.
func (s *Spacecraft) LifeSupport() LifeSupportStatus {
	switch {
	case s.OxygenLevel > lifeSupportWarning:
		return LifeSupportNominal
	case s.OxygenLevel > lifeSupportCritical:
		return LifeSupportWarning
	default:
		return LifeSupportCritical
	}
}

// ReplenishOxygen restores oxygen, capped at 100% (external resupply hook).
func (s *Spacecraft) ReplenishOxygen(pct float64) {
	s.OxygenLevel += pct
	if s.OxygenLevel > 100 {
		s.OxygenLevel = 100
	}
}

func (s *Spacecraft) String() string {
	return fmt.Sprintf("%s (%s, fuel %.1f%%)", s.Name, s.Class, s.FuelPercent())
}
