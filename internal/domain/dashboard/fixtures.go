package dashboard

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// Fixtures is the mock data every new session starts from.
type Fixtures struct {
	Tasks     []Task     `yaml:"tasks"`
	Reminders []Reminder `yaml:"reminders"`
	Emails    []Email    `yaml:"emails"`
}

// LoadFixtures decodes the embedded mock data.
func LoadFixtures() (*Fixtures, error) {
	return ParseFixtures(fixturesYAML)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard fixtures: %w", err)
	}
	return &f, nil
}
