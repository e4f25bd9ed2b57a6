// Package neural provides the feedforward brains that drive creatures.
package neural

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Brain is a two-layer feedforward network with sigmoid units.
// Its architecture is fixed at construction.
type Brain struct {
	WIH *mat.Dense    // hidden x input weights
	WHO *mat.Dense    // output x hidden weights
	BH  *mat.VecDense // hidden biases
	BO  *mat.VecDense // output biases

	inputs, hidden, outputs int
}

// NewBrain creates a network with every weight and bias drawn from U(-1, 1).
func NewBrain(rng *rand.Rand, inputs, hidden, outputs int) *Brain {
	b := newZeroBrain(inputs, hidden, outputs)
	for _, genes := range b.genes() {
		for i := range genes {
			genes[i] = rng.Float64()*2 - 1
		}
	}
	return b
}

func newZeroBrain(inputs, hidden, outputs int) *Brain {
	if inputs < 1 || hidden < 1 || outputs < 1 {
		panic(fmt.Sprintf("neural: invalid architecture %dx%dx%d", inputs, hidden, outputs))
	}
	return &Brain{
		WIH:     mat.NewDense(hidden, inputs, nil),
		WHO:     mat.NewDense(outputs, hidden, nil),
		BH:      mat.NewVecDense(hidden, nil),
		BO:      mat.NewVecDense(outputs, nil),
		inputs:  inputs,
		hidden:  hidden,
		outputs: outputs,
	}
}

// Architecture returns the input, hidden and output layer sizes.
func (b *Brain) Architecture() (inputs, hidden, outputs int) {
	return b.inputs, b.hidden, b.outputs
}

// genes returns the backing slices of all weights and biases in a fixed order.
func (b *Brain) genes() [4][]float64 {
	return [4][]float64{
		b.WIH.RawMatrix().Data,
		b.BH.RawVector().Data,
		b.WHO.RawMatrix().Data,
		b.BO.RawVector().Data,
	}
}

// Predict maps a sensor vector to an action vector with every element in (0, 1).
// It panics if len(inputs) does not match the input size or if any value is
// not finite. Predict does not modify the brain and is safe for concurrent use.
func (b *Brain) Predict(inputs []float64) []float64 {
	out, _ := b.forward(inputs, false)
	return out
}

// Activations holds captured intermediate layer values.
type Activations struct {
	Inputs  []float64
	Hidden  []float64
	Outputs []float64
}

// PredictWithCapture is Predict plus the layer activations for inspection.
func (b *Brain) PredictWithCapture(inputs []float64) ([]float64, *Activations) {
	return b.forward(inputs, true)
}

func (b *Brain) forward(inputs []float64, capture bool) ([]float64, *Activations) {
	if len(inputs) != b.inputs {
		panic(fmt.Sprintf("neural: input length %d, want %d", len(inputs), b.inputs))
	}
	for i, v := range inputs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("neural: non-finite input %d: %v", i, v))
		}
	}

	x := mat.NewVecDense(b.inputs, append([]float64(nil), inputs...))

	h := mat.NewVecDense(b.hidden, nil)
	h.MulVec(b.WIH, x)
	h.AddVec(h, b.BH)
	applySigmoid(h)

	o := mat.NewVecDense(b.outputs, nil)
	o.MulVec(b.WHO, h)
	o.AddVec(o, b.BO)
	applySigmoid(o)

	out := o.RawVector().Data
	for i, v := range out {
		if math.IsNaN(v) {
			panic(fmt.Sprintf("neural: non-finite output %d", i))
		}
	}

	if !capture {
		return out, nil
	}
	act := &Activations{
		Inputs:  x.RawVector().Data,
		Hidden:  h.RawVector().Data,
		Outputs: append([]float64(nil), out...),
	}
	return out, act
}

func applySigmoid(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, sigmoid(v.AtVec(i)))
	}
}

// Saturation bounds keep sigmoid inside the open interval (0, 1).
var (
	sigmoidMin = math.SmallestNonzeroFloat64
	sigmoidMax = math.Nextafter(1, 0)
)

func sigmoid(x float64) float64 {
	y := 1 / (1 + math.Exp(-x))
	if y < sigmoidMin {
		return sigmoidMin
	}
	if y > sigmoidMax {
		return sigmoidMax
	}
	return y
}

// Crossover builds a child whose every weight and bias is taken from a or b
// with equal probability. It panics if the architectures differ.
func Crossover(rng *rand.Rand, a, b *Brain) *Brain {
	if a.inputs != b.inputs || a.hidden != b.hidden || a.outputs != b.outputs {
		panic(fmt.Sprintf("neural: crossover of %dx%dx%d with %dx%dx%d",
			a.inputs, a.hidden, a.outputs, b.inputs, b.hidden, b.outputs))
	}

	child := newZeroBrain(a.inputs, a.hidden, a.outputs)
	ga, gb, gc := a.genes(), b.genes(), child.genes()
	for k := range gc {
		for i := range gc[k] {
			if rng.Float64() < 0.5 {
				gc[k][i] = ga[k][i]
			} else {
				gc[k][i] = gb[k][i]
			}
		}
	}
	return child
}

// Mutate perturbs each gene independently with probability rate by a value
// drawn from U(-strength, strength).
func (b *Brain) Mutate(rng *rand.Rand, rate, strength float64) {
	for _, genes := range b.genes() {
		for i := range genes {
			if rng.Float64() < rate {
				genes[i] += (rng.Float64()*2 - 1) * strength
			}
		}
	}
}

// Clone creates a deep copy of the network.
func (b *Brain) Clone() *Brain {
	return &Brain{
		WIH:     mat.DenseCopyOf(b.WIH),
		WHO:     mat.DenseCopyOf(b.WHO),
		BH:      mat.VecDenseCopyOf(b.BH),
		BO:      mat.VecDenseCopyOf(b.BO),
		inputs:  b.inputs,
		hidden:  b.hidden,
		outputs: b.outputs,
	}
}

// Equal reports whether two brains have the same architecture and genes.
func (b *Brain) Equal(other *Brain) bool {
	if b.inputs != other.inputs || b.hidden != other.hidden || b.outputs != other.outputs {
		return false
	}
	return mat.Equal(b.WIH, other.WIH) && mat.Equal(b.WHO, other.WHO) &&
		mat.Equal(b.BH, other.BH) && mat.Equal(b.BO, other.BO)
}

// BrainWeights holds flattened network weights for serialization.
// Matrices are stored row-major.
type BrainWeights struct {
	InputSize  int       `json:"inputSize"`
	HiddenSize int       `json:"hiddenSize"`
	OutputSize int       `json:"outputSize"`
	WeightsIH  []float64 `json:"weightsIH"` // [HiddenSize * InputSize]
	WeightsHO  []float64 `json:"weightsHO"` // [OutputSize * HiddenSize]
	BiasH      []float64 `json:"biasH"`
	BiasO      []float64 `json:"biasO"`
}

// ErrWeightShape is returned when a weights record does not match its sizes.
var ErrWeightShape = errors.New("neural: weight slice does not match architecture")

// MarshalWeights flattens the network weights for serialization.
func (b *Brain) MarshalWeights() BrainWeights {
	g := b.genes()
	return BrainWeights{
		InputSize:  b.inputs,
		HiddenSize: b.hidden,
		OutputSize: b.outputs,
		WeightsIH:  append([]float64(nil), g[0]...),
		BiasH:      append([]float64(nil), g[1]...),
		WeightsHO:  append([]float64(nil), g[2]...),
		BiasO:      append([]float64(nil), g[3]...),
	}
}

// UnmarshalWeights builds a brain from a flattened weights record.
func UnmarshalWeights(bw BrainWeights) (*Brain, error) {
	if bw.InputSize < 1 || bw.HiddenSize < 1 || bw.OutputSize < 1 {
		return nil, fmt.Errorf("architecture %dx%dx%d: %w", bw.InputSize, bw.HiddenSize, bw.OutputSize, ErrWeightShape)
	}
	if len(bw.WeightsIH) != bw.HiddenSize*bw.InputSize ||
		len(bw.WeightsHO) != bw.OutputSize*bw.HiddenSize ||
		len(bw.BiasH) != bw.HiddenSize ||
		len(bw.BiasO) != bw.OutputSize {
		return nil, ErrWeightShape
	}

	b := newZeroBrain(bw.InputSize, bw.HiddenSize, bw.OutputSize)
	g := b.genes()
	copy(g[0], bw.WeightsIH)
	copy(g[1], bw.BiasH)
	copy(g[2], bw.WeightsHO)
	copy(g[3], bw.BiasO)
	return b, nil
}
