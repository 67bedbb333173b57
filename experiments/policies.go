package experiments

import (
	"fmt"
	"os"

	"gossip/experiments/metrics"

	"gopkg.in/yaml.v3"
)

type policyFile struct {
	Policies []metrics.PolicyConfig `yaml:"policies"`
}

// LoadPolicies reads the contestants of a comparison from a YAML file with a
// top-level policies list.
func LoadPolicies(path string) ([]metrics.PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policies: %w", err)
	}
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse policies %s: %w", path, err)
	}
	if len(f.Policies) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPolicies)
	}
	return f.Policies, nil
}

// SinglePolicy is a one-contestant list for playing a whole table with the
// same policy.
func SinglePolicy(kind, modelPath string, temperature float64) []metrics.PolicyConfig {
	return []metrics.PolicyConfig{{ID: 0, Name: kind, Kind: kind, ModelPath: modelPath, Temperature: temperature}}
}
