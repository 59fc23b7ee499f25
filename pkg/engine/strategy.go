package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// StrategyMode selects how the engine picks its move.
type StrategyMode int

const (
	ModeGreedy StrategyMode = iota // Highest flip count, first seen wins ties (default)
	ModeRandom                     // Uniform over legal moves
)

func (m StrategyMode) String() string {
	switch m {
	case ModeGreedy:
		return "greedy"
	case ModeRandom:
		return "random"
	}
	return fmt.Sprintf("StrategyMode(%d)", int(m))
}

// ParseStrategyMode parses "greedy" or "random". The numeric intelligence
// levels "1" and "0" are accepted as aliases.
func ParseStrategyMode(s string) (StrategyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greedy", "1", "":
		return ModeGreedy, nil
	case "random", "0":
		return ModeRandom, nil
	}
	return ModeGreedy, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Strategy chooses a move for a side. ok is false when the side must pass.
type Strategy interface {
	Name() string
	Choose(b Board, s Side) (m Move, ok bool)
}

// NewStrategy returns the strategy for a mode.
// seed only affects ModeRandom; 0 means seed from the clock.
func NewStrategy(mode StrategyMode, seed int64) (Strategy, error) {
	switch mode {
	case ModeGreedy:
		return GreedyStrategy{}, nil
	case ModeRandom:
		return NewRandomStrategy(seed), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
}

// GreedyStrategy plays the move with the strictly highest Score. The first
// move in row-major order wins ties. It does not look ahead.
type GreedyStrategy struct{}

func (GreedyStrategy) Name() string { return "greedy" }

func (GreedyStrategy) Choose(b Board, s Side) (Move, bool) {
	best := Pass
	bestScore := -1
	for _, m := range LegalMoves(b, s) {
		if sc := Score(b, m.Row, m.Col, s); sc > bestScore {
			bestScore = sc
			best = m
		}
	}
	return best, bestScore >= 0
}

// RandomStrategy plays a uniformly random legal move.
// It is safe for concurrent use.
type RandomStrategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStrategy creates a random strategy. seed 0 seeds from the clock.
func NewRandomStrategy(seed int64) *RandomStrategy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomStrategy) Name() string { return "random" }

func (r *RandomStrategy) Choose(b Board, s Side) (Move, bool) {
	moves := LegalMoves(b, s)
	if len(moves) == 0 {
		return Pass, false
	}
	r.mu.Lock()
	i := r.rng.Intn(len(moves))
	r.mu.Unlock()
	return moves[i], true
}
