package neural

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

const (
	testInputs  = 8
	testHidden  = 12
	testOutputs = 4
)

func newTestBrain(seed int64) *Brain {
	return NewBrain(rand.New(rand.NewSource(seed)), testInputs, testHidden, testOutputs)
}

func TestNewBrain(t *testing.T) {
	b := newTestBrain(42)

	in, hid, out := b.Architecture()
	if in != testInputs || hid != testHidden || out != testOutputs {
		t.Fatalf("Architecture() = %d,%d,%d, want %d,%d,%d", in, hid, out, testInputs, testHidden, testOutputs)
	}
	if r, c := b.WIH.Dims(); r != testHidden || c != testInputs {
		t.Errorf("WIH dims = %dx%d, want %dx%d", r, c, testHidden, testInputs)
	}
	if r, c := b.WHO.Dims(); r != testOutputs || c != testHidden {
		t.Errorf("WHO dims = %dx%d, want %dx%d", r, c, testOutputs, testHidden)
	}

	for k, genes := range b.genes() {
		for i, v := range genes {
			if v < -1 || v >= 1 {
				t.Fatalf("gene[%d][%d] = %v, want in [-1,1)", k, i, v)
			}
		}
	}
}

func TestPredictRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := newTestBrain(42)

	for trial := 0; trial < 200; trial++ {
		inputs := make([]float64, testInputs)
		for i := range inputs {
			inputs[i] = rng.Float64()*2 - 1
		}
		out := b.Predict(inputs)
		if len(out) != testOutputs {
			t.Fatalf("len(out) = %d, want %d", len(out), testOutputs)
		}
		for i, v := range out {
			if v <= 0 || v >= 1 {
				t.Fatalf("trial %d: out[%d] = %v, want in (0,1)", trial, i, v)
			}
		}
	}
}

func TestPredictDeterministic(t *testing.T) {
	b := newTestBrain(42)

	inputs := make([]float64, testInputs)
	for i := range inputs {
		inputs[i] = float64(i) / testInputs
	}

	a1 := b.Predict(inputs)
	a2 := b.Predict(inputs)
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatal("Predict is not deterministic")
		}
	}
}

func TestPredictPanics(t *testing.T) {
	b := newTestBrain(42)

	tests := []struct {
		name   string
		inputs []float64
	}{
		{"short", make([]float64, testInputs-1)},
		{"long", make([]float64, testInputs+1)},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic on input length mismatch")
				}
			}()
			b.Predict(tt.inputs)
		})
	}
}

func TestPredictWithCapture(t *testing.T) {
	b := newTestBrain(42)
	inputs := []float64{0.1, -0.2, 0, 0, 0.3, 0.4, 0.9, -0.5}

	out, act := b.PredictWithCapture(inputs)
	plain := b.Predict(inputs)

	if len(act.Hidden) != testHidden {
		t.Errorf("len(Hidden) = %d, want %d", len(act.Hidden), testHidden)
	}
	for i := range out {
		if out[i] != plain[i] || act.Outputs[i] != plain[i] {
			t.Fatalf("captured output %d differs from Predict", i)
		}
	}
	// Captured inputs are a copy
	inputs[0] = 99
	if act.Inputs[0] == 99 {
		t.Error("captured inputs alias caller slice")
	}
}

func TestCrossoverMembership(t *testing.T) {
	a := newTestBrain(1)
	b := newTestBrain(2)
	child := Crossover(rand.New(rand.NewSource(3)), a, b)

	ga, gb, gc := a.genes(), b.genes(), child.genes()
	fromA, fromB := 0, 0
	for k := range gc {
		for i, v := range gc[k] {
			switch {
			case v == ga[k][i]:
				fromA++
			case v == gb[k][i]:
				fromB++
			default:
				t.Fatalf("gene[%d][%d] = %v from neither parent", k, i, v)
			}
		}
	}
	if fromA == 0 || fromB == 0 {
		t.Errorf("expected genes from both parents, got %d from A and %d from B", fromA, fromB)
	}
}

func TestCrossoverArchitectureMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := NewBrain(rng, testInputs, testHidden, testOutputs)
	b := NewBrain(rng, testInputs, testHidden+1, testOutputs)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on architecture mismatch")
		}
	}()
	Crossover(rng, a, b)
}

func TestMutate(t *testing.T) {
	t.Run("rate zero", func(t *testing.T) {
		b := newTestBrain(42)
		orig := b.Clone()
		b.Mutate(rand.New(rand.NewSource(1)), 0, 0.5)
		if !b.Equal(orig) {
			t.Error("Mutate(0) changed the brain")
		}
	})

	t.Run("rate one", func(t *testing.T) {
		b := newTestBrain(42)
		orig := b.Clone()
		b.Mutate(rand.New(rand.NewSource(1)), 1, 0.5)

		gb, gorig := b.genes(), orig.genes()
		for k := range gb {
			for i := range gb[k] {
				d := gb[k][i] - gorig[k][i]
				if d == 0 {
					t.Fatalf("gene[%d][%d] unchanged", k, i)
				}
				if d < -0.5 || d > 0.5 {
					t.Fatalf("gene[%d][%d] moved by %v, want within 0.5", k, i, d)
				}
			}
		}
	})
}

func TestClone(t *testing.T) {
	b := newTestBrain(42)
	clone := b.Clone()

	inputs := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	p1, p2 := b.Predict(inputs), clone.Predict(inputs)
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatal("clone predicts differently")
		}
	}

	// Modifying clone shouldn't affect original
	clone.WIH.Set(0, 0, 999)
	if b.WIH.At(0, 0) == 999 {
		t.Error("Clone is not independent")
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	b := newTestBrain(42)

	data, err := json.Marshal(b.MarshalWeights())
	if err != nil {
		t.Fatal(err)
	}
	var bw BrainWeights
	if err := json.Unmarshal(data, &bw); err != nil {
		t.Fatal(err)
	}
	restored, err := UnmarshalWeights(bw)
	if err != nil {
		t.Fatalf("UnmarshalWeights: %v", err)
	}
	if !restored.Equal(b) {
		t.Error("restored brain differs from original")
	}
}

func TestUnmarshalWeightsShape(t *testing.T) {
	bw := newTestBrain(42).MarshalWeights()
	bw.BiasO = bw.BiasO[:1]

	if _, err := UnmarshalWeights(bw); !errors.Is(err, ErrWeightShape) {
		t.Errorf("err = %v, want ErrWeightShape", err)
	}
}

func BenchmarkPredict(b *testing.B) {
	brain := newTestBrain(42)
	inputs := make([]float64, testInputs)
	for i := range inputs {
		inputs[i] = 0.5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		brain.Predict(inputs)
	}
}

func TestPredictSaturatesInsideOpenInterval(t *testing.T) {
	b := newTestBrain(3)
	b.WHO.Zero()
	b.BO.SetVec(0, 40)
	b.BO.SetVec(1, -800)

	out := b.Predict(make([]float64, testInputs))
	if out[0] <= 0 || out[0] >= 1 {
		t.Errorf("large positive activation = %v, want in (0,1)", out[0])
	}
	if out[1] <= 0 || out[1] >= 1 {
		t.Errorf("large negative activation = %v, want in (0,1)", out[1])
	}
}
