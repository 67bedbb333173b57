package policy

import (
	"math"

	"golang.org/x/exp/rand"
)

type Option func(l *Learned)

// WithSampling makes the policy sample each head from its softmax instead of
// taking the argmax. Temperatures <= 0 are ignored.
func WithSampling(rng *rand.Rand, temperature float64) Option {
	return func(l *Learned) {
		l.rng = rng
		if temperature > 0 {
			l.temperature = temperature
		}
	}
}

// Learned evaluates a trained model.
type Learned struct {
	model       *Model
	rng         *rand.Rand
	temperature float64
}

func NewLearned(model *Model, options ...Option) *Learned {
	if model == nil {
		panic("learned policy needs a model")
	}
	l := &Learned{model: model, temperature: 1.0}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *Learned) Choose(observation []float32) (Choice, error) {
	out, err := l.model.Forward(observation)
	if err != nil {
		return Choice{}, err
	}
	actionLogits := out[:NumCodes]
	switchLogits := out[NumCodes:]

	if l.rng == nil {
		return Choice{Code: Code(findMax(actionLogits)), Shift: ShiftOf(findMax(switchLogits))}, nil
	}
	code := sample(l.rng, adjustTemperature(softmax(actionLogits), l.temperature))
	sw := sample(l.rng, adjustTemperature(softmax(switchLogits), l.temperature))
	return Choice{Code: Code(code), Shift: ShiftOf(sw)}, nil
}

func findMax(values []float64) int {
	maxIndex := 0
	for i, v := range values {
		if v > values[maxIndex] {
			maxIndex = i
		}
	}
	return maxIndex
}

func softmax(logits []float64) []float64 {
	peak := logits[findMax(logits)]
	sum := 0.0
	probs := make([]float64, len(logits))
	for i, v := range logits {
		probs[i] = math.Exp(v - peak)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func adjustTemperature(probs []float64, temperature float64) []float64 {
	// Compute temperature-adjusted probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(probs))
	for i, p := range probs {
		adjusted[i] = math.Pow(p, exponent)
		sum += adjusted[i]
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(rng *rand.Rand, probs []float64) int {
	sampled := rng.Float64()
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if sampled < cumulative {
			return i
		}
	}
	return len(probs) - 1 // Fallback in case of rounding errors
}
