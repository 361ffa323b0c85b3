package cosmic

import "fmt"

// ValidationError reports malformed input to a single call: an invalid
// timestep, a non-finite vector, an out-of-range throttle. It is always
// returned before any state mutation occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports a contract violation such as starting an
// already-started mission or ticking a terminal one. Mission state is left
// unchanged.
type InvalidStateError struct {
	Op    string
	State MissionStatus
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s mission in state %s", e.Op, e.State)
}

// CollisionError reports that the spacecraft position intersects a celestial
// body's radius. It is a distinguished event for the caller to handle,
// typically as a mission failure, never silently absorbed into the position
// update.
type CollisionError struct {
	Body     string
	Distance float64 // distance to body center in meters
}

func (e CollisionError) Error() string {
	return fmt.Sprintf("collided with %s (%.0f m from center)", e.Body, e.Distance)
}
