package neuralnet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadWeights loads a network from a JSON weights file written by SaveWeights.
func LoadWeights(path string) (*NeuralNet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weights file: %w", err)
	}
	defer f.Close()

	return LoadWeightsFromReader(f)
}

// LoadWeightsFromReader loads a network from JSON.
func LoadWeightsFromReader(r io.Reader) (*NeuralNet, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding weights: %w", err)
	}
	if cfg.Weights == nil {
		return nil, fmt.Errorf("%w: file has no weights", ErrShape)
	}
	return New(cfg)
}

// SaveWeights writes the network configuration and weights to path.
func (nn *NeuralNet) SaveWeights(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating weights file: %w", err)
	}
	if err := nn.WriteWeights(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteWeights writes the network configuration and weights as JSON.
func (nn *NeuralNet) WriteWeights(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	if err := enc.Encode(nn.Config()); err != nil {
		return fmt.Errorf("encoding weights: %w", err)
	}
	return nil
}

// String returns a one-line description of the network.
func (nn *NeuralNet) String() string {
	return fmt.Sprintf("%s: %d inputs, hidden %v, 1 output", nn.cfg.Name, NumInputs, nn.cfg.Hidden)
}
