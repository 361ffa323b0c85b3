package cosmic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-kit/log"
)

// InputProvider supplies the command for each tick. The session samples it
// exactly once per tick; the core never sees raw device events.
type InputProvider interface {
	Sample() Command
}

// CommandFunc adapts a plain function to an InputProvider.
type CommandFunc func() Command

// Sample implements InputProvider.
func (f CommandFunc) Sample() Command { return f() }

// SessionState is the read-only per-tick snapshot published to observers.
// It contains values only, so observers in other goroutines can hold it
// without touching live session state.
type SessionState struct {
	Tick          uint64
	Time          float64 // s, simulation clock
	Status        MissionStatus
	FailureReason string

	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Orientation mgl64.Quat
	Speed       float64
	Fuel        float64
	FuelBurned  float64 // this tick
	Oxygen      float64
	Hull        float64
	LifeSupport LifeSupportStatus

	NewlyCompleted []string // objective IDs completed this tick
}

// FlightSession binds one spacecraft, one mission and one solar system to a
// physics engine and drives them in strict per-tick order: sample input,
// physics, mission, publish. Sessions share nothing mutable, so independent
// sessions may run concurrently without locks.
type FlightSession struct {
	Craft   *Spacecraft
	Mission *Mission
	System  *SolarSystem

	engine  *Engine
	metrics *Metrics           // optional
	publish func(SessionState) // optional
	clock   float64
	tick    uint64
	logger  log.Logger
}

// NewFlightSession wires a session together. The mission's ship-class
// constraint is enforced here so an illegal pairing never reaches the loop.
func NewFlightSession(system *SolarSystem, mission *Mission, craft *Spacecraft, engine *Engine, logger log.Logger) (*FlightSession, error) {
	if !mission.Constraints.Allows(craft.Class) {
		return nil, ValidationError{Field: "ship_class", Reason: fmt.Sprintf("%s not allowed for mission %s", craft.Class, mission.ID)}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &FlightSession{
		Craft:   craft,
		Mission: mission,
		System:  system,
		engine:  engine,
		logger:  log.With(logger, "subsys", "session", "mission", mission.ID),
	}, nil
}

// SetPublisher installs the per-tick state observer. Must be set before Run.
func (s *FlightSession) SetPublisher(fn func(SessionState)) { s.publish = fn }

// SetMetrics installs the metrics collector. Must be set before Run.
func (s *FlightSession) SetMetrics(m *Metrics) { s.metrics = m }

// Clock returns the current simulation time in seconds.
func (s *FlightSession) Clock() float64 { return s.clock }

// Tick advances the session by one synchronous step. A collision reported by
// the engine becomes a mission failure ("collision:<body>") rather than an
// error: it is a legitimate simulation outcome. Validation errors propagate
// to the caller with no state change.
func (s *FlightSession) Tick(cmd Command, dt float64) (SessionState, error) {
	if s.Mission.Status != InProgress {
		return SessionState{}, InvalidStateError{Op: "tick", State: s.Mission.Status}
	}
	snapshot := s.System.StateAt(s.clock)

	res, err := s.engine.Step(s.Craft, cmd, snapshot, dt)
	if err != nil {
		var collision CollisionError
		if !errors.As(err, &collision) {
			return SessionState{}, err
		}
		s.Craft.ApplyDamage(1.0) // a body strike is not survivable here
		if ffErr := s.Mission.ForceFail("collision:" + collision.Body); ffErr != nil {
			return SessionState{}, ffErr
		}
		state := s.state(res, nil)
		s.record(state)
		return state, nil
	}

	_, newly, err := s.Mission.Tick(s.Craft, snapshot, dt)
	if err != nil {
		return SessionState{}, err
	}
	s.clock += dt
	s.tick++

	state := s.state(res, newly)
	s.record(state)
	return state, nil
}

// Run drives the session at the given fixed rate (Hz) until the mission
// reaches a terminal state or ctx is cancelled. Cancellation aborts the
// mission at the next tick boundary, never mid-step. input may be nil, in
// which case the craft coasts.
func (s *FlightSession) Run(ctx context.Context, input InputProvider, rate float64) error {
	if rate <= 0 {
		return ValidationError{Field: "rate", Reason: "must be positive"}
	}
	if s.Mission.Status == NotStarted {
		if err := s.Mission.Start(); err != nil {
			return err
		}
	}
	dt := 1 / rate
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()
	s.logger.Log("level", "info", "running", true, "rate(hz)", rate)

	for {
		select {
		case <-ctx.Done():
			if err := s.Mission.Abort(); err != nil {
				return err
			}
			s.record(s.state(StepResult{Speed: s.Craft.Velocity.Len()}, nil))
			s.logger.Log("level", "notice", "aborted", true, "tick", s.tick)
			return ctx.Err()
		case <-ticker.C:
			cmd := Coast
			if input != nil {
				cmd = input.Sample()
			}
			state, err := s.Tick(cmd, dt)
			if err != nil {
				return err
			}
			if state.Status.Terminal() {
				s.logger.Log("level", "notice", "status", state.Status, "tick", s.tick, "elapsed(s)", s.Mission.ElapsedTime)
				return nil
			}
		}
	}
}

func (s *FlightSession) state(res StepResult, newly []string) SessionState {
	return SessionState{
		Tick:           s.tick,
		Time:           s.clock,
		Status:         s.Mission.Status,
		FailureReason:  s.Mission.FailureReason,
		Position:       s.Craft.Position,
		Velocity:       s.Craft.Velocity,
		Orientation:    s.Craft.Orientation,
		Speed:          res.Speed,
		Fuel:           s.Craft.Fuel,
		FuelBurned:     res.FuelBurned,
		Oxygen:         s.Craft.OxygenLevel,
		Hull:           s.Craft.HullIntegrity,
		LifeSupport:    s.Craft.LifeSupport(),
		NewlyCompleted: newly,
	}
}

func (s *FlightSession) record(state SessionState) {
	if s.metrics != nil {
		s.metrics.Observe(state)
	}
	if s.publish != nil {
		s.publish(state)
	}
}
