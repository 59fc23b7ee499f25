package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/yourusername/othello/internal/neuralnet"
)

// NeuralStrategy plays the move whose resulting position the value network
// rates highest for the mover. The first move in row-major order wins ties.
// It is safe for concurrent use.
type NeuralStrategy struct {
	mu  sync.Mutex
	net *neuralnet.NeuralNet
	in  []float64
}

// NewNeuralStrategy wraps a trained network.
func NewNeuralStrategy(net *neuralnet.NeuralNet) *NeuralStrategy {
	return &NeuralStrategy{net: net, in: make([]float64, neuralnet.NumInputs)}
}

// LoadNeuralStrategy reads a weights file written by TrainNeural.
func LoadNeuralStrategy(path string) (*NeuralStrategy, error) {
	net, err := neuralnet.LoadWeights(path)
	if err != nil {
		return nil, err
	}
	return NewNeuralStrategy(net), nil
}

func (n *NeuralStrategy) Name() string { return "neural" }

// Evaluate rates b from the point of view of s.
func (n *NeuralStrategy) Evaluate(b Board, s Side) float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	neuralnet.InputsInto(b.Trits(), uint8(s.Cell()), n.in)
	return n.net.Evaluate(n.in)
}

func (n *NeuralStrategy) Choose(b Board, s Side) (Move, bool) {
	moves := LegalMoves(b, s)
	if len(moves) == 0 {
		return Pass, false
	}
	best := moves[0]
	bestValue := 0.0
	for i, m := range moves {
		v := n.Evaluate(Play(b, m, s), s)
		if i == 0 || v > bestValue {
			best, bestValue = m, v
		}
	}
	return best, true
}

// Factory returns a StrategyFactory giving each self-play worker its own copy
// of the network.
func (n *NeuralStrategy) Factory() StrategyFactory {
	return func(int64) (Strategy, error) {
		n.mu.Lock()
		net := n.net.Clone()
		n.mu.Unlock()
		return NewNeuralStrategy(net), nil
	}
}

// TrainOptions controls value network training.
type TrainOptions struct {
	Games     int              // Self-play games per round (default 200)
	Rounds    int              // Generate-then-train rounds (default 3)
	Epochs    int              // Training epochs per round (default 5)
	Seed      int64            // RNG seed (0 = random)
	Network   neuralnet.Config // Architecture; weights continue training
	Exploring float64          // Probability of a random move instead of the network's (default 0.1)
}

// DefaultTrainOptions returns a short training schedule.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Games:     200,
		Rounds:    3,
		Epochs:    5,
		Network:   neuralnet.DefaultConfig(),
		Exploring: 0.1,
	}
}

// TrainProgress is reported after each training round.
type TrainProgress struct {
	Round     int
	Rounds    int
	Examples  int
	DarkWins  int
	LightWins int
	Draws     int
}

// TrainNeural trains a value network by self-play. Each round plays games in
// which both sides use the current network with some random exploration, then
// fits every position reached to the final disc margin from the point of view
// of the side that produced it.
func TrainNeural(ctx context.Context, opts TrainOptions, progress func(TrainProgress)) (*neuralnet.NeuralNet, error) {
	def := DefaultTrainOptions()
	if opts.Games <= 0 {
		opts.Games = def.Games
	}
	if opts.Rounds <= 0 {
		opts.Rounds = def.Rounds
	}
	if opts.Epochs <= 0 {
		opts.Epochs = def.Epochs
	}
	if opts.Exploring < 0 || opts.Exploring > 1 {
		return nil, fmt.Errorf("exploring rate %v outside [0,1]", opts.Exploring)
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}

	net, err := neuralnet.New(opts.Network)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	for round := 1; round <= opts.Rounds; round++ {
		player := &exploringStrategy{
			base:   NewNeuralStrategy(net),
			random: NewRandomStrategy(rng.Int63() | 1),
			rng:    rng,
			rate:   opts.Exploring,
		}

		var examples []neuralnet.Example
		stats := TrainProgress{Round: round, Rounds: opts.Rounds}
		for g := 0; g < opts.Games; g++ {
			if err := ctx.Err(); err != nil {
				return net, fmt.Errorf("training interrupted in round %d: %w", round, err)
			}
			examples = append(examples, gameExamples(player, &stats)...)
		}

		net.Train(examples, opts.Epochs)
		stats.Examples = len(examples)
		if progress != nil {
			progress(stats)
		}
	}
	return net, nil
}

// gameExamples plays one game and labels each position after a move.
func gameExamples(player Strategy, stats *TrainProgress) []neuralnet.Example {
	type sample struct {
		board Board
		side  Side
	}
	var samples []sample

	b := StartingPosition()
	side := Dark
	for !IsTerminal(b) {
		if m, ok := player.Choose(b, side); ok {
			ApplyMove(&b, m.Row, m.Col, side)
			samples = append(samples, sample{b, side})
		}
		side = side.Opponent()
	}

	margin := float64(b.Count(DarkDisc)-b.Count(LightDisc)) / float64(BoardSize*BoardSize)
	switch {
	case margin > 0:
		stats.DarkWins++
	case margin < 0:
		stats.LightWins++
	default:
		stats.Draws++
	}

	examples := make([]neuralnet.Example, len(samples))
	for i, s := range samples {
		target := margin
		if s.side == Light {
			target = -margin
		}
		examples[i] = neuralnet.Example{
			Input:  neuralnet.Inputs(s.board.Trits(), uint8(s.side.Cell())),
			Target: target,
		}
	}
	return examples
}

// exploringStrategy plays a random move with probability rate.
type exploringStrategy struct {
	base   Strategy
	random Strategy
	rng    *rand.Rand
	rate   float64
}

func (e *exploringStrategy) Name() string { return e.base.Name() }

func (e *exploringStrategy) Choose(b Board, s Side) (Move, bool) {
	if e.rng.Float64() < e.rate {
		return e.random.Choose(b, s)
	}
	return e.base.Choose(b, s)
}
