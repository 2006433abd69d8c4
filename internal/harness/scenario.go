package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test case: a world fixture plus a set of
// query expressions with their expected results.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files are keyed by it.
	Name string `yaml:"name"`

	// Fixture is the path to the world fixture, relative to the scenario
	// file location.
	Fixture string `yaml:"fixture"`

	// Queries are evaluated in order against the fixture world.
	Queries []QueryCase `yaml:"queries"`

	// dir is the directory the scenario was loaded from, for resolving the
	// fixture path.
	dir string
}

// QueryCase is one expression with its expected surviving entity ids.
type QueryCase struct {
	Name string   `yaml:"name"`
	Expr string   `yaml:"expr"`
	Want []string `yaml:"want"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)

	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if sc.Fixture == "" {
		return nil, fmt.Errorf("scenario %s: missing fixture", path)
	}
	if len(sc.Queries) == 0 {
		return nil, fmt.Errorf("scenario %s: no queries", path)
	}
	for i, q := range sc.Queries {
		if q.Name == "" {
			return nil, fmt.Errorf("scenario %s: query %d has no name", path, i)
		}
		if q.Expr == "" {
			return nil, fmt.Errorf("scenario %s: query %q has no expression", path, q.Name)
		}
	}
	return &sc, nil
}

func (s *Scenario) fixturePath() string {
	if filepath.IsAbs(s.Fixture) {
		return s.Fixture
	}
	return filepath.Join(s.dir, s.Fixture)
}
