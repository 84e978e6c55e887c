package irradiance

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Static returns the same values for every request. It backs offline runs
// and designs that carry their own irradiance table.
type Static struct {
	Values Monthly
}

func (s *Static) Name() string { return "static" }

func (s *Static) Monthly(ctx context.Context, _ Request) (Monthly, error) {
	if err := ctx.Err(); err != nil {
		return Monthly{}, err
	}
	return s.Values, nil
}

// NewStatic validates values and wraps them in a Static provider.
func NewStatic(values []float64) (*Static, error) {
	m, err := FromSlice(values)
	if err != nil {
		return nil, err
	}
	return &Static{Values: m}, nil
}

type staticFile struct {
	Monthly []float64 `yaml:"monthly"`
}

// LoadStatic reads a YAML file of the form "monthly: [12 values]".
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading irradiance file: %w", err)
	}
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing irradiance YAML: %w", err)
	}
	return NewStatic(f.Monthly)
}
