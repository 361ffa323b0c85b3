package cosmic

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-kit/log"
)

// MissionType enumerates the mission variants.
type MissionType uint8

const (
	Tutorial MissionType = iota + 1
	FreeFlight
	Challenge
)

func (t MissionType) String() string {
	switch t {
	case Tutorial:
		return "tutorial"
	case FreeFlight:
		return "free_flight"
	case Challenge:
		return "challenge"
	}
	panic("cannot stringify unknown mission type")
}

// MissionTypeFromString returns the type for a scenario-file name.
func MissionTypeFromString(s string) (MissionType, error) {
	switch s {
	case "tutorial":
		return Tutorial, nil
	case "free_flight":
		return FreeFlight, nil
	case "challenge":
		return Challenge, nil
	default:
		return 0, fmt.Errorf("undefined mission type '%s'", s)
	}
}

// Difficulty enumerates mission difficulty levels.
type Difficulty uint8

const (
	Beginner Difficulty = iota + 1
	Intermediate
	Advanced
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	}
	panic("cannot stringify unknown difficulty")
}

// DifficultyFromString returns the difficulty for a scenario-file name.
func DifficultyFromString(s string) (Difficulty, error) {
	switch s {
	case "beginner":
		return Beginner, nil
	case "intermediate":
		return Intermediate, nil
	case "advanced":
		return Advanced, nil
	default:
		return 0, fmt.Errorf("undefined difficulty '%s'", s)
	}
}

// MissionStatus is the mission state machine:
// NotStarted → InProgress → {Completed | Failed}. Terminal states absorb.
type MissionStatus uint8

const (
	NotStarted MissionStatus = iota
	InProgress
	Completed
	Failed
)

func (s MissionStatus) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	panic("cannot stringify unknown mission status")
}

// Terminal returns whether the status absorbs all further transitions.
func (s MissionStatus) Terminal() bool { return s == Completed || s == Failed }

// ObjectiveType enumerates the objective variants.
type ObjectiveType uint8

const (
	Reach ObjectiveType = iota + 1
	Collect
	Maintain
	Avoid
)

func (t ObjectiveType) String() string {
	switch t {
	case Reach:
		return "reach"
	case Collect:
		return "collect"
	case Maintain:
		return "maintain"
	case Avoid:
		return "avoid"
	}
	panic("cannot stringify unknown objective type")
}

// ObjectiveTypeFromString returns the type for a scenario-file name.
func ObjectiveTypeFromString(s string) (ObjectiveType, error) {
	switch s {
	case "reach":
		return Reach, nil
	case "collect":
		return Collect, nil
	case "maintain":
		return Maintain, nil
	case "avoid":
		return Avoid, nil
	default:
		return 0, fmt.Errorf("undefined objective type '%s'", s)
	}
}

// Objective is a single measurable sub-goal of a mission. The type selects
// which of the variant fields apply; once Completed is set it never reverts
// within the same mission instance.
type Objective struct {
	ID          string
	Description string
	Type        ObjectiveType

	TargetID       string      // celestial body reference, lookup only
	TargetPosition *mgl64.Vec3 // fixed-point target, overrides TargetID when set

	Radius         float64 // m: completion radius (Reach), collection radius (Collect), hold region (Maintain)
	MinDistance    float64 // m: forbidden proximity (Avoid)
	SpeedTolerance float64 // m/s: band around the target orbital speed (Maintain)
	HoldDuration   float64 // s: how long the Maintain condition must hold

	Completed bool

	held    float64 // Maintain: accumulated hold time, resets when the condition breaks
	tripped bool    // Avoid: forbidden condition was observed
}

// NewReachObjective targets a celestial body within the completion radius.
func NewReachObjective(id, desc, targetID string, radius float64) *Objective {
	return &Objective{ID: id, Description: desc, Type: Reach, TargetID: targetID, Radius: radius}
}

// NewReachPositionObjective targets a fixed position within the completion radius.
func NewReachPositionObjective(id, desc string, pos mgl64.Vec3, radius float64) *Objective {
	return &Objective{ID: id, Description: desc, Type: Reach, TargetPosition: &pos, Radius: radius}
}

// NewCollectObjective requires an explicit collect action within the radius
// of the target.
func NewCollectObjective(id, desc, targetID string, radius float64) *Objective {
	return &Objective{ID: id, Description: desc, Type: Collect, TargetID: targetID, Radius: radius}
}

// NewMaintainObjective requires the relative speed around the target body to
// stay within tolerance of the circular orbital speed for hold seconds.
func NewMaintainObjective(id, desc, targetID string, speedTol, hold float64) *Objective {
	return &Objective{ID: id, Description: desc, Type: Maintain, TargetID: targetID, SpeedTolerance: speedTol, HoldDuration: hold}
}

// NewAvoidObjective fails the mission if the spacecraft ever comes closer
// than minDistance to the target.
func NewAvoidObjective(id, desc, targetID string, minDistance float64) *Objective {
	return &Objective{ID: id, Description: desc, Type: Avoid, TargetID: targetID, MinDistance: minDistance}
}

func (o *Objective) String() string {
	mark := "○"
	if o.Completed {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s: %s", mark, o.Type, o.Description)
}

// targetAt resolves the objective's target point against the snapshot.
func (o *Objective) targetAt(bodies Snapshot) (mgl64.Vec3, bool) {
	if o.TargetPosition != nil {
		return *o.TargetPosition, true
	}
	if bs, ok := bodies.Body(o.TargetID); ok {
		return bs.Position, true
	}
	return mgl64.Vec3{}, false
}

// FailOnFuelExhausted is the failure-condition descriptor that fails a
// mission once fuel reaches zero while Reach or Collect objectives remain.
const FailOnFuelExhausted = "fuel_exhausted"

// Constraints are the mission's configuration limits.
type Constraints struct {
	MaxFuel            float64 // L, starting fuel for the spacecraft
	TimeLimit          float64 // s, 0 means unlimited
	AllowedShipClasses []ShipClass
	StartPosition      mgl64.Vec3
	FailureConditions  []string // optional descriptors such as FailOnFuelExhausted
}

// Allows returns whether the constraints permit the given ship class. An
// empty allow-list permits every class.
func (c Constraints) Allows(class ShipClass) bool {
	if len(c.AllowedShipClasses) == 0 {
		return true
	}
	for _, a := range c.AllowedShipClasses {
		if a == class {
			return true
		}
	}
	return false
}

func (c Constraints) failsOnFuelExhausted() bool {
	for _, f := range c.FailureConditions {
		if f == FailOnFuelExhausted {
			return true
		}
	}
	return false
}

// Mission owns its ordered objective list and derives completion or failure
// from the spacecraft state it is shown each tick. It never mutates the
// spacecraft.
type Mission struct {
	ID          string
	Name        string
	Type        MissionType
	Difficulty  Difficulty
	Objectives  []*Objective
	Constraints Constraints

	// Sequential gates completable objectives to insertion order. Avoid
	// objectives are always live regardless of gating.
	Sequential bool
	// CountPendingAvoid counts Avoid objectives still pending at mission end
	// toward ObjectivesCompleted.
	CountPendingAvoid bool

	Status        MissionStatus
	FailureReason string

	// Tracking counters, monotonically non-decreasing while InProgress.
	ElapsedTime         float64
	DistanceTraveled    float64
	FuelConsumed        float64
	ObjectivesCompleted int

	collectArmed bool
	logger       log.Logger
}

// NewMission returns a mission in the NotStarted state.
func NewMission(id, name string, mt MissionType, diff Difficulty, objectives []*Objective, constraints Constraints, logger log.Logger) *Mission {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Mission{
		ID:                id,
		Name:              name,
		Type:              mt,
		Difficulty:        diff,
		Objectives:        objectives,
		Constraints:       constraints,
		CountPendingAvoid: true,
		logger:            log.With(logger, "subsys", "mission", "mission", id),
	}
}

// Start transitions NotStarted → InProgress and resets the tracking counters.
func (m *Mission) Start() error {
	if m.Status != NotStarted {
		return InvalidStateError{Op: "start", State: m.Status}
	}
	m.Status = InProgress
	m.ElapsedTime = 0
	m.DistanceTraveled = 0
	m.FuelConsumed = 0
	m.ObjectivesCompleted = 0
	m.logger.Log("level", "info", "status", m.Status)
	return nil
}

// RequestCollect arms the collect action for the next tick. Collect
// objectives complete only when the action is invoked while the spacecraft is
// within collection range; proximity alone is not enough.
func (m *Mission) RequestCollect() {
	m.collectArmed = true
}

// ForceFail transitions the mission to Failed with the given reason. It
// fails with InvalidStateError once the mission is terminal.
func (m *Mission) ForceFail(reason string) error {
	if m.Status.Terminal() {
		return InvalidStateError{Op: "force_fail", State: m.Status}
	}
	m.fail(reason)
	return nil
}

// Abort fails the mission with reason "aborted"; used by the session at tick
// boundaries when cancelled externally.
func (m *Mission) Abort() error {
	return m.ForceFail("aborted")
}

func (m *Mission) fail(reason string) {
	m.Status = Failed
	m.FailureReason = reason
	m.logger.Log("level", "notice", "status", m.Status, "reason", reason)
}

// Tick evaluates the mission against the spacecraft state produced by this
// tick's physics update. It returns the resulting status and the IDs of
// objectives newly completed this tick. Calling Tick on a mission that is not
// InProgress fails loudly with InvalidStateError: the tracker never silently
// skips a tick.
func (m *Mission) Tick(sc *Spacecraft, bodies Snapshot, dt float64) (MissionStatus, []string, error) {
	if m.Status != InProgress {
		return m.Status, nil, InvalidStateError{Op: "tick", State: m.Status}
	}
	if !finiteScalar(dt) {
		return m.Status, nil, ValidationError{Field: "dt", Reason: "not a finite number"}
	}
	if dt < 0 {
		return m.Status, nil, ValidationError{Field: "dt", Reason: "must not be negative"}
	}
	if dt == 0 {
		return m.Status, nil, nil // zero-duration step changes nothing
	}

	// 1. Tracking counters.
	m.ElapsedTime += dt
	m.DistanceTraveled += sc.Velocity.Len() * dt
	if consumed := m.Constraints.MaxFuel - sc.Fuel; consumed > m.FuelConsumed {
		m.FuelConsumed = consumed
	}

	// 2. Objective predicates against the new spacecraft state.
	newly := m.evaluateObjectives(sc, bodies, dt)
	m.collectArmed = false

	// 3. Failure conditions. A failure found in the same tick as a
	// completion wins: failure is irrecoverable, the completion might be an
	// artifact of the same final state.
	if reason, failed := m.checkFailure(sc); failed {
		m.fail(reason)
		return m.Status, newly, nil
	}

	// 4. Completion.
	if m.completionReached() {
		newly = append(newly, m.settlePendingAvoid()...)
		m.Status = Completed
		m.logger.Log("level", "notice", "status", m.Status, "elapsed(s)", m.ElapsedTime, "fuel(L)", m.FuelConsumed)
	}
	return m.Status, newly, nil
}

// evaluateObjectives runs each live incomplete objective's predicate and
// returns the IDs completed this tick.
func (m *Mission) evaluateObjectives(sc *Spacecraft, bodies Snapshot, dt float64) []string {
	var newly []string
	gated := false // set once the first incomplete completable objective was seen
	for _, o := range m.Objectives {
		if o.Completed {
			continue
		}
		if o.Type == Avoid {
			if pos, ok := o.targetAt(bodies); ok && sc.Position.Sub(pos).Len() < o.MinDistance {
				o.tripped = true
			}
			continue
		}
		if m.Sequential {
			if gated {
				continue
			}
			gated = true
		}
		if m.evaluate(o, sc, bodies, dt) {
			o.Completed = true
			m.ObjectivesCompleted++
			newly = append(newly, o.ID)
			m.logger.Log("level", "info", "objective", o.ID, "completed", true)
		}
	}
	return newly
}

func (m *Mission) evaluate(o *Objective, sc *Spacecraft, bodies Snapshot, dt float64) bool {
	switch o.Type {
	case Reach:
		pos, ok := o.targetAt(bodies)
		return ok && sc.Position.Sub(pos).Len() <= o.Radius
	case Collect:
		if !m.collectArmed {
			return false
		}
		pos, ok := o.targetAt(bodies)
		return ok && sc.Position.Sub(pos).Len() <= o.Radius
	case Maintain:
		bs, ok := bodies.Body(o.TargetID)
		if !ok {
			return false
		}
		dist := sc.Position.Sub(bs.Position).Len()
		relSpeed := sc.Velocity.Sub(bs.Velocity).Len()
		want := OrbitalSpeedAround(bs.Body, dist)
		held := relSpeed >= want-o.SpeedTolerance && relSpeed <= want+o.SpeedTolerance
		if o.Radius > 0 && dist > o.Radius {
			held = false
		}
		if !held {
			o.held = 0 // the condition broke, the clock restarts
			return false
		}
		o.held += dt
		return o.held >= o.HoldDuration
	}
	return false
}

// checkFailure evaluates the data-driven failure conditions in a fixed order.
func (m *Mission) checkFailure(sc *Spacecraft) (string, bool) {
	for _, o := range m.Objectives {
		if o.tripped {
			return "objective_failed:" + o.ID, true
		}
	}
	if m.Constraints.TimeLimit > 0 && m.ElapsedTime > m.Constraints.TimeLimit {
		return "time_limit_exceeded", true
	}
	if sc.HullIntegrity <= 0 {
		return "hull_breached", true
	}
	if sc.OxygenLevel <= 0 {
		return "life_support_failure", true
	}
	if m.Constraints.failsOnFuelExhausted() && sc.Fuel <= 0 && m.hasIncompleteThrustObjectives() {
		return "fuel_exhausted", true
	}
	return "", false
}

func (m *Mission) hasIncompleteThrustObjectives() bool {
	for _, o := range m.Objectives {
		if !o.Completed && (o.Type == Reach || o.Type == Collect) {
			return true
		}
	}
	return false
}

// completionReached reports whether every objective is completed, counting
// untripped Avoid objectives as satisfiable at mission end. A mission with no
// objectives completes vacuously unless it is a FreeFlight, which is
// open-ended by definition.
func (m *Mission) completionReached() bool {
	if len(m.Objectives) == 0 {
		return m.Type != FreeFlight
	}
	for _, o := range m.Objectives {
		if o.Completed {
			continue
		}
		if o.Type == Avoid && !o.tripped {
			continue // settles at mission end
		}
		return false
	}
	return true
}

// settlePendingAvoid marks still-pending Avoid objectives complete at mission
// end and returns their IDs. Whether they count toward ObjectivesCompleted is
// the CountPendingAvoid policy.
func (m *Mission) settlePendingAvoid() []string {
	var ids []string
	for _, o := range m.Objectives {
		if o.Type == Avoid && !o.Completed && !o.tripped {
			o.Completed = true
			ids = append(ids, o.ID)
			if m.CountPendingAvoid {
				m.ObjectivesCompleted++
			}
		}
	}
	return ids
}
