package cosmic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validScenario = `
name: Luna run
system:
  bodies:
    - id: earth
      name: Earth
      mass: 5.972e24
      radius: 6.371e6
    - id: luna
      name: Luna
      mass: 7.342e22
      radius: 1.7374e6
      parent: earth
      elements:
        semi_major_axis: 3.844e8
        eccentricity: 0.0549
        inclination: 0.0898
        period: 2.3606e6
ship:
  id: sc-1
  name: Pathfinder
  class: scout
mission:
  id: luna-run
  name: Reach Luna
  type: challenge
  difficulty: intermediate
  sequential: true
  constraints:
    max_fuel: 800
    time_limit: 3600
    allowed_ship_classes: [scout, fighter]
    start_position: [7.0e6, 0, 0]
    failure_conditions: [fuel_exhausted]
  objectives:
    - id: depart
      description: Leave low orbit
      type: reach
      position: [8.0e6, 0, 0]
      radius: 1.0e5
    - id: arrive
      description: Reach Luna
      type: reach
      target: luna
      radius: 2.0e6
    - id: clear
      description: Do not skim the surface
      type: avoid
      target: earth
      min_distance: 6.5e6
`

func TestParseScenario(t *testing.T) {
	scenario, err := ParseScenario([]byte(validScenario), nil)
	if err != nil {
		t.Fatal(err)
	}
	if scenario.Name != "Luna run" {
		t.Fatalf("name %q", scenario.Name)
	}
	if scenario.System.Len() != 2 || scenario.System.Root().ID != "earth" {
		t.Fatal("solar system did not build")
	}
	m := scenario.Mission
	if m.Type != Challenge || m.Difficulty != Intermediate || !m.Sequential {
		t.Fatalf("mission flags wrong: %+v", m)
	}
	if len(m.Objectives) != 3 || m.Objectives[1].TargetID != "luna" || m.Objectives[2].Type != Avoid {
		t.Fatal("objectives did not build")
	}
	if m.Constraints.TimeLimit != 3600 || !m.Constraints.failsOnFuelExhausted() {
		t.Fatal("constraints did not build")
	}
	if m.Status != NotStarted {
		t.Fatal("a loaded mission must be NotStarted")
	}
	sc := scenario.Craft
	if sc.Class != Scout || sc.Fuel != 800 {
		t.Fatalf("craft %s fueled %f", sc.Class, sc.Fuel)
	}
	if sc.Position.X() != 7.0e6 {
		t.Fatal("craft must start at the mission start position")
	}
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "luna.yaml")
	if err := os.WriteFile(path, []byte(validScenario), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("a missing file must be an error")
	}
}

func TestParseScenarioRejections(t *testing.T) {
	cases := []struct {
		about   string
		mangle  func(string) string
		errHas  string
	}{
		{"unknown ship class", func(s string) string { return strings.Replace(s, "class: scout", "class: battlestar", 1) }, "ship class"},
		{"disallowed ship class", func(s string) string { return strings.Replace(s, "class: scout", "class: freighter", 1) }, "not allowed"},
		{"unknown objective type", func(s string) string { return strings.Replace(s, "type: avoid", "type: destroy", 1) }, "objective type"},
		{"unknown target body", func(s string) string { return strings.Replace(s, "target: luna", "target: phobos", 1) }, "unknown body"},
		{"unknown mission type", func(s string) string { return strings.Replace(s, "type: challenge", "type: raid", 1) }, "mission type"},
		{"unknown difficulty", func(s string) string { return strings.Replace(s, "difficulty: intermediate", "difficulty: nightmare", 1) }, "difficulty"},
		{"bad avoid distance", func(s string) string { return strings.Replace(s, "min_distance: 6.5e6", "min_distance: 0", 1) }, "min_distance"},
		{"not yaml", func(string) string { return "{{{" }, "parsing scenario"},
	}
	for _, tc := range cases {
		_, err := ParseScenario([]byte(tc.mangle(validScenario)), nil)
		if err == nil {
			t.Fatalf("%s: expected an error", tc.about)
		}
		if !strings.Contains(err.Error(), tc.errHas) {
			t.Fatalf("%s: error %q does not mention %q", tc.about, err, tc.errHas)
		}
	}
}

func TestParseScenarioObjectiveNeedsTarget(t *testing.T) {
	broken := strings.Replace(validScenario, "      target: luna\n", "", 1)
	_, err := ParseScenario([]byte(broken), nil)
	if err == nil || !strings.Contains(err.Error(), "neither target nor position") {
		t.Fatalf("expected a missing-target error, got %v", err)
	}
}
