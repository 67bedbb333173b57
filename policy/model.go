package policy

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Activation names accepted in model files.
const (
	ActivationNone = ""
	ActivationReLU = "relu"
	ActivationTanh = "tanh"
)

// Layer is a dense layer: out = activation(Weights·in + Bias). Weights has one
// row per output.
type Layer struct {
	Weights    [][]float32 `yaml:"weights"`
	Bias       []float32   `yaml:"bias"`
	Activation string      `yaml:"activation"`
}

// Model is a feed-forward network whose output holds NumCodes action logits
// followed by NumSwitches cursor-switch logits.
type Model struct {
	Name   string  `yaml:"name"`
	Layers []Layer `yaml:"layers"`
}

// LoadModel reads a model from a YAML file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that layers chain together and end in the expected heads.
func (m *Model) Validate() error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("model has no layers")
	}
	for i, l := range m.Layers {
		if len(l.Weights) == 0 {
			return fmt.Errorf("layer %d has no weights", i)
		}
		if len(l.Bias) != len(l.Weights) {
			return fmt.Errorf("layer %d has %d outputs but %d biases", i, len(l.Weights), len(l.Bias))
		}
		for r, row := range l.Weights {
			if len(row) != len(l.Weights[0]) {
				return fmt.Errorf("layer %d row %d has %d inputs, want %d", i, r, len(row), len(l.Weights[0]))
			}
		}
		if i > 0 && len(l.Weights[0]) != len(m.Layers[i-1].Weights) {
			return fmt.Errorf("layer %d expects %d inputs but layer %d has %d outputs", i, len(l.Weights[0]), i-1, len(m.Layers[i-1].Weights))
		}
		switch l.Activation {
		case ActivationNone, ActivationReLU, ActivationTanh:
		default:
			return fmt.Errorf("layer %d has unknown activation %q", i, l.Activation)
		}
	}
	if out := len(m.Layers[len(m.Layers)-1].Weights); out != int(NumCodes)+NumSwitches {
		return fmt.Errorf("model outputs %d values, want %d", out, int(NumCodes)+NumSwitches)
	}
	return nil
}

// InputDim is the observation length the model accepts.
func (m *Model) InputDim() int {
	return len(m.Layers[0].Weights[0])
}

// Forward evaluates the network.
func (m *Model) Forward(input []float32) ([]float64, error) {
	if len(input) != m.InputDim() {
		return nil, fmt.Errorf("%w: model expects %d values, got %d", ErrDimension, m.InputDim(), len(input))
	}
	x := make([]float64, len(input))
	for i, v := range input {
		x[i] = float64(v)
	}
	for _, l := range m.Layers {
		y := make([]float64, len(l.Weights))
		for o, row := range l.Weights {
			sum := float64(l.Bias[o])
			for i, w := range row {
				sum += float64(w) * x[i]
			}
			y[o] = activate(l.Activation, sum)
		}
		x = y
	}
	return x, nil
}

func activate(name string, v float64) float64 {
	switch name {
	case ActivationReLU:
		return math.Max(0, v)
	case ActivationTanh:
		return math.Tanh(v)
	default:
		return v
	}
}
