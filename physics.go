package cosmic

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-kit/log"
)

// boostFactor multiplies thrust and fuel consumption while boost is active.
const boostFactor = 2.0

// oxygenDecayRate is the life-support oxygen depletion in %/s.
const oxygenDecayRate = 0.1

// Command is the per-tick control input from the input boundary: the core
// never interprets raw device events.
type Command struct {
	ThrustLevel     float64    // [0, 1]
	ThrustDirection mgl64.Vec3 // unit vector, ship-local frame
	AngularVelocity mgl64.Vec3 // rad/s, body frame
	Boost           bool
}

// Coast is the zero command: no thrust, no rotation.
var Coast = Command{}

// StepResult reports what a single physics step did, for telemetry.
type StepResult struct {
	FuelBurned  float64    // L
	Gravity     mgl64.Vec3 // m/s²
	Thrust      mgl64.Vec3 // m/s²
	Speed       float64    // m/s after the step
	EffectiveTL float64    // thrust level actually applied after fuel clamp
}

// Engine advances spacecraft state over a timestep. It holds tuning constants
// only: no state persists between calls, every step is a function of its
// inputs plus the spacecraft it mutates.
type Engine struct {
	influenceCutoff float64 // m, bodies farther than this exert no gravity
	maxStep         float64 // s, recommended stability ceiling for dt
	logger          log.Logger
}

// NewEngine returns an engine with the given configuration.
func NewEngine(cfg Config, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Engine{
		influenceCutoff: cfg.InfluenceCutoff,
		maxStep:         cfg.MaxStep,
		logger:          log.With(logger, "subsys", "physics"),
	}
}

// Step advances the spacecraft by dt seconds under the given command and
// gravity field. A step either succeeds, producing a valid next state, or
// fails validation and changes nothing; there are no retries. A position
// inside a body's radius is reported as a CollisionError rather than fed to
// the gravity singularity, with the spacecraft state untouched.
func (e *Engine) Step(sc *Spacecraft, cmd Command, bodies Snapshot, dt float64) (StepResult, error) {
	if err := e.validate(sc, cmd, dt); err != nil {
		return StepResult{}, err
	}
	if dt == 0 {
		return StepResult{Speed: sc.Velocity.Len()}, nil // zero-duration step is a no-op
	}
	if dt > e.maxStep {
		e.logger.Log("level", "warning", "dt", dt, "max", e.maxStep)
	}

	// Gravity, with the collision guard ahead of the 1/r² singularity.
	var aGrav mgl64.Vec3
	var collision error
	bodies.Each(func(bs BodyState) {
		if collision != nil {
			return
		}
		toBody := bs.Position.Sub(sc.Position)
		r := toBody.Len()
		if r <= bs.Body.Radius+sc.Stats.HullRadius {
			collision = CollisionError{Body: bs.Body.ID, Distance: r}
			return
		}
		if r > e.influenceCutoff {
			return // deliberate approximation, not true N-body accuracy
		}
		aGrav = aGrav.Add(unit(toBody).Mul(G * bs.Body.Mass / (r * r)))
	})
	if collision != nil {
		return StepResult{}, collision
	}

	// Thrust, clamped to the fuel actually available this tick.
	level := cmd.ThrustLevel
	boost := 1.0
	if cmd.Boost {
		boost = boostFactor
	}
	fuelNeeded := level * sc.BurnRate() * boost * dt
	burned := fuelNeeded
	if fuelNeeded > sc.Fuel {
		// Scale thrust down to what the remaining fuel can deliver, rather
		// than zeroing it retroactively.
		level *= sc.Fuel / fuelNeeded
		burned = sc.Fuel
	}
	var aThrust mgl64.Vec3
	if level > 0 && burned > 0 {
		dir := sc.Orientation.Rotate(unit(cmd.ThrustDirection))
		aThrust = dir.Mul(level * sc.Stats.MaxThrust * boost / sc.CurrentMass())
	} else {
		level = 0
		burned = 0
	}

	// Semi-implicit Euler: the velocity update feeds the position update,
	// which conserves orbital energy far better than the explicit form over
	// long runs.
	accel := aGrav.Add(aThrust)
	sc.Velocity = sc.Velocity.Add(accel.Mul(dt))
	sc.Position = sc.Position.Add(sc.Velocity.Mul(dt))
	sc.Acceleration = accel

	sc.Fuel -= burned
	if sc.Fuel < 0 {
		sc.Fuel = 0
	}
	if sc.Fuel > sc.Stats.MaxFuel {
		sc.Fuel = sc.Stats.MaxFuel
	}
	sc.Throttle = cmd.ThrustLevel * 100
	sc.Boost = cmd.Boost

	sc.AngularVelocity = cmd.AngularVelocity
	sc.Orientation = integrateOrientation(sc.Orientation, sc.AngularVelocity, dt)

	sc.OxygenLevel -= oxygenDecayRate * dt
	if sc.OxygenLevel < 0 {
		sc.OxygenLevel = 0
	}

	return StepResult{
		FuelBurned:  burned,
		Gravity:     aGrav,
		Thrust:      aThrust,
		Speed:       sc.Velocity.Len(),
		EffectiveTL: level,
	}, nil
}

// validate rejects malformed input before any state mutation.
func (e *Engine) validate(sc *Spacecraft, cmd Command, dt float64) error {
	if !finiteScalar(dt) {
		return ValidationError{Field: "dt", Reason: "not a finite number"}
	}
	if dt < 0 {
		return ValidationError{Field: "dt", Reason: "must not be negative"}
	}
	if !finiteScalar(cmd.ThrustLevel) || cmd.ThrustLevel < 0 || cmd.ThrustLevel > 1 {
		return ValidationError{Field: "thrust_level", Reason: "must be within [0, 1]"}
	}
	if !finite(cmd.ThrustDirection) {
		return ValidationError{Field: "thrust_direction", Reason: "not a finite vector"}
	}
	if cmd.ThrustLevel > 0 && cmd.ThrustDirection.Len() < 1e-12 {
		return ValidationError{Field: "thrust_direction", Reason: "zero vector with positive thrust"}
	}
	if !finite(cmd.AngularVelocity) {
		return ValidationError{Field: "angular_velocity", Reason: "not a finite vector"}
	}
	if !finite(sc.Position) || !finite(sc.Velocity) {
		return ValidationError{Field: "spacecraft state", Reason: "not finite"}
	}
	return nil
}
