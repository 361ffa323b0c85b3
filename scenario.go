package cosmic

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-kit/log"
	"gopkg.in/yaml.v3"
)

// scenarioFile is the YAML document layout. It stays a dumb transfer type:
// all semantics live in the entities it is converted into.
type scenarioFile struct {
	Name   string `yaml:"name"`
	System struct {
		Bodies []bodyFile `yaml:"bodies"`
	} `yaml:"system"`
	Ship struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Class string `yaml:"class"`
	} `yaml:"ship"`
	Mission missionFile `yaml:"mission"`
}

type bodyFile struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Mass     float64 `yaml:"mass"`
	Radius   float64 `yaml:"radius"`
	Parent   string  `yaml:"parent"`
	Elements struct {
		SemiMajorAxis float64 `yaml:"semi_major_axis"`
		Eccentricity  float64 `yaml:"eccentricity"`
		Inclination   float64 `yaml:"inclination"`
		Period        float64 `yaml:"period"`
		MeanAnomaly   float64 `yaml:"mean_anomaly"`
	} `yaml:"elements"`
	Atmosphere struct {
		Pressure float64 `yaml:"pressure"`
		Depth    float64 `yaml:"depth"`
	} `yaml:"atmosphere"`
	HasWater bool `yaml:"has_water"`
}

type missionFile struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	Type              string  `yaml:"type"`
	Difficulty        string  `yaml:"difficulty"`
	Sequential        bool    `yaml:"sequential"`
	CountPendingAvoid *bool   `yaml:"count_pending_avoid"`
	Constraints       struct {
		MaxFuel           float64   `yaml:"max_fuel"`
		TimeLimit         float64   `yaml:"time_limit"`
		AllowedShips      []string  `yaml:"allowed_ship_classes"`
		StartPosition     []float64 `yaml:"start_position"`
		FailureConditions []string  `yaml:"failure_conditions"`
	} `yaml:"constraints"`
	Objectives []objectiveFile `yaml:"objectives"`
}

type objectiveFile struct {
	ID             string    `yaml:"id"`
	Description    string    `yaml:"description"`
	Type           string    `yaml:"type"`
	Target         string    `yaml:"target"`
	Position       []float64 `yaml:"position"`
	Radius         float64   `yaml:"radius"`
	MinDistance    float64   `yaml:"min_distance"`
	SpeedTolerance float64   `yaml:"speed_tolerance"`
	HoldDuration   float64   `yaml:"hold_duration"`
}

// Scenario is a fully validated simulation setup: the entities a session is
// built from.
type Scenario struct {
	Name    string
	System  *SolarSystem
	Mission *Mission
	Craft   *Spacecraft
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string, logger log.Logger) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data, logger)
}

// ParseScenario builds a Scenario from YAML bytes. Every reference is
// resolved here so the session never encounters a dangling target or an
// illegal ship class at runtime.
func ParseScenario(data []byte, logger log.Logger) (*Scenario, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	system, err := buildSystem(file.System.Bodies)
	if err != nil {
		return nil, err
	}
	mission, err := buildMission(file.Mission, system, logger)
	if err != nil {
		return nil, err
	}

	class, err := ShipClassFromString(file.Ship.Class)
	if err != nil {
		return nil, ValidationError{Field: "ship.class", Reason: err.Error()}
	}
	if !mission.Constraints.Allows(class) {
		return nil, ValidationError{Field: "ship.class", Reason: fmt.Sprintf("%s not allowed for mission %s", class, mission.ID)}
	}
	craft := NewSpacecraft(file.Ship.ID, file.Ship.Name, class, mission.Constraints.StartPosition, mission.Constraints.MaxFuel, logger)

	return &Scenario{Name: file.Name, System: system, Mission: mission, Craft: craft}, nil
}

func buildSystem(files []bodyFile) (*SolarSystem, error) {
	if len(files) == 0 {
		return nil, ValidationError{Field: "system.bodies", Reason: "empty"}
	}
	bodies := make([]*CelestialBody, len(files))
	for i, bf := range files {
		bodies[i] = &CelestialBody{
			ID:       bf.ID,
			Name:     bf.Name,
			Mass:     bf.Mass,
			Radius:   bf.Radius,
			ParentID: bf.Parent,
			Elements: OrbitalElements{
				SemiMajorAxis:  bf.Elements.SemiMajorAxis,
				Eccentricity:   bf.Elements.Eccentricity,
				Inclination:    bf.Elements.Inclination,
				Period:         bf.Elements.Period,
				MeanAnomalyAt0: bf.Elements.MeanAnomaly,
			},
			AtmospherePressure: bf.Atmosphere.Pressure,
			AtmosphereDepth:    bf.Atmosphere.Depth,
			HasAtmosphere:      bf.Atmosphere.Pressure > 0,
			HasWater:           bf.HasWater,
		}
	}
	return NewSolarSystem(bodies...)
}

func buildMission(mf missionFile, system *SolarSystem, logger log.Logger) (*Mission, error) {
	mt, err := MissionTypeFromString(mf.Type)
	if err != nil {
		return nil, ValidationError{Field: "mission.type", Reason: err.Error()}
	}
	diff, err := DifficultyFromString(mf.Difficulty)
	if err != nil {
		return nil, ValidationError{Field: "mission.difficulty", Reason: err.Error()}
	}

	objectives := make([]*Objective, len(mf.Objectives))
	for i, of := range mf.Objectives {
		o, err := buildObjective(of, system)
		if err != nil {
			return nil, err
		}
		objectives[i] = o
	}

	constraints := Constraints{
		MaxFuel:           mf.Constraints.MaxFuel,
		TimeLimit:         mf.Constraints.TimeLimit,
		FailureConditions: mf.Constraints.FailureConditions,
	}
	if pos := mf.Constraints.StartPosition; pos != nil {
		if len(pos) != 3 {
			return nil, ValidationError{Field: "constraints.start_position", Reason: "must have three components"}
		}
		constraints.StartPosition = mgl64.Vec3{pos[0], pos[1], pos[2]}
	}
	for _, name := range mf.Constraints.AllowedShips {
		class, err := ShipClassFromString(name)
		if err != nil {
			return nil, ValidationError{Field: "constraints.allowed_ship_classes", Reason: err.Error()}
		}
		constraints.AllowedShipClasses = append(constraints.AllowedShipClasses, class)
	}

	m := NewMission(mf.ID, mf.Name, mt, diff, objectives, constraints, logger)
	m.Sequential = mf.Sequential
	if mf.CountPendingAvoid != nil {
		m.CountPendingAvoid = *mf.CountPendingAvoid
	}
	return m, nil
}

func buildObjective(of objectiveFile, system *SolarSystem) (*Objective, error) {
	ot, err := ObjectiveTypeFromString(of.Type)
	if err != nil {
		return nil, ValidationError{Field: "objective.type", Reason: err.Error()}
	}
	o := &Objective{
		ID:             of.ID,
		Description:    of.Description,
		Type:           ot,
		TargetID:       of.Target,
		Radius:         of.Radius,
		MinDistance:    of.MinDistance,
		SpeedTolerance: of.SpeedTolerance,
		HoldDuration:   of.HoldDuration,
	}
	if of.Position != nil {
		if len(of.Position) != 3 {
			return nil, ValidationError{Field: "objective.position", Reason: "must have three components"}
		}
		pos := mgl64.Vec3{of.Position[0], of.Position[1], of.Position[2]}
		o.TargetPosition = &pos
	}
	if o.TargetPosition == nil {
		if o.TargetID == "" {
			return nil, ValidationError{Field: "objective.target", Reason: fmt.Sprintf("objective %s has neither target nor position", o.ID)}
		}
		if _, ok := system.Body(o.TargetID); !ok {
			return nil, ValidationError{Field: "objective.target", Reason: fmt.Sprintf("unknown body '%s'", o.TargetID)}
		}
	}
	switch ot {
	case Maintain:
		if o.TargetID == "" {
			return nil, ValidationError{Field: "objective.target", Reason: fmt.Sprintf("maintain objective %s needs a body target", o.ID)}
		}
		if o.HoldDuration <= 0 {
			return nil, ValidationError{Field: "objective.hold_duration", Reason: "must be positive"}
		}
	case Avoid:
		if o.MinDistance <= 0 {
			return nil, ValidationError{Field: "objective.min_distance", Reason: "must be positive"}
		}
	case Reach, Collect:
		if o.Radius <= 0 {
			return nil, ValidationError{Field: "objective.radius", Reason: "must be positive"}
		}
	}
	return o, nil
}
