// Package neuralnet implements a small value network for Othello positions.
// The network maps a board, seen from the side that just moved, to an
// expected final disc margin scaled to [-1, 1].
package neuralnet

import (
	"errors"
	"fmt"

	"github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
)

// ErrShape is returned when weights do not fit the configured layout.
var ErrShape = errors.New("weights do not match network layout")

// Config describes the network architecture and, optionally, trained weights.
type Config struct {
	Name         string        `json:"name"`
	Hidden       []int         `json:"hidden"`
	LearningRate float64       `json:"learning_rate"`
	Weights      [][][]float64 `json:"weights,omitempty"`
}

// DefaultConfig returns a small two-layer network.
func DefaultConfig() Config {
	return Config{
		Name:         "default",
		Hidden:       []int{32, 16},
		LearningRate: 0.01,
	}
}

// Example is one training sample: features and the target value.
type Example struct {
	Input  []float64
	Target float64
}

// NeuralNet wraps a go-deep network. It is not safe for concurrent use;
// create one per goroutine with Clone.
type NeuralNet struct {
	net *deep.Neural
	cfg Config
}

// New creates a network from cfg. Without weights the network is randomly
// initialised.
func New(cfg Config) (*NeuralNet, error) {
	if len(cfg.Hidden) == 0 {
		cfg.Hidden = DefaultConfig().Hidden
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultConfig().LearningRate
	}

	layout := append(append([]int{}, cfg.Hidden...), 1) // Output: single value
	net := deep.NewNeural(&deep.Config{
		Inputs:     NumInputs,
		Layout:     layout,
		Activation: deep.ActivationTanh,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})

	if cfg.Weights != nil {
		if err := checkShape(cfg.Weights, net.Dump().Weights); err != nil {
			return nil, err
		}
		net.ApplyWeights(cfg.Weights)
	}

	return &NeuralNet{net: net, cfg: cfg}, nil
}

// checkShape compares loaded weights against a freshly built network.
func checkShape(w, want [][][]float64) error {
	if len(w) != len(want) {
		return fmt.Errorf("%w: %d layers, want %d", ErrShape, len(w), len(want))
	}
	for i := range want {
		if len(w[i]) != len(want[i]) {
			return fmt.Errorf("%w: layer %d has %d neurons, want %d", ErrShape, i, len(w[i]), len(want[i]))
		}
		for j := range want[i] {
			if len(w[i][j]) != len(want[i][j]) {
				return fmt.Errorf("%w: layer %d neuron %d has %d inputs, want %d", ErrShape, i, j, len(w[i][j]), len(want[i][j]))
			}
		}
	}
	return nil
}

// Evaluate returns the network output for a feature vector.
func (nn *NeuralNet) Evaluate(input []float64) float64 {
	return nn.net.Predict(input)[0]
}

// Train runs SGD over the examples for the given number of epochs.
func (nn *NeuralNet) Train(examples []Example, epochs int) {
	if len(examples) == 0 || epochs <= 0 {
		return
	}
	data := make(training.Examples, len(examples))
	for i, ex := range examples {
		data[i] = training.Example{Input: ex.Input, Response: []float64{ex.Target}}
	}
	data.Shuffle()

	trainer := training.NewTrainer(training.NewSGD(nn.cfg.LearningRate, 0.5, 0.0, false), 0)
	trainer.Train(nn.net, data, nil, epochs)
}

// Config returns the configuration with the current weights.
func (nn *NeuralNet) Config() Config {
	cfg := nn.cfg
	cfg.Weights = nn.net.Dump().Weights
	return cfg
}

// Clone returns an independent copy with the same weights.
func (nn *NeuralNet) Clone() *NeuralNet {
	c, err := New(nn.Config())
	if err != nil {
		// Shapes come from nn itself.
		panic(err)
	}
	return c
}
