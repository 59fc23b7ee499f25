package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned when the human side tries a move IsLegal rejects
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidMove is returned when move notation cannot be parsed
	ErrInvalidMove = errors.New("invalid move notation")
	// ErrInvalidSide is returned when a side name cannot be parsed
	ErrInvalidSide = errors.New("invalid side")
	// ErrUnknownMode is returned for an unsupported strategy mode
	ErrUnknownMode = errors.New("unknown strategy mode")
)

// Engine plays one side of a game against a human. It holds configuration
// only; boards are passed in and returned by value.
type Engine struct {
	human    Side
	strategy Strategy
}

// EngineOptions configures the engine
type EngineOptions struct {
	HumanSide Side         // Side controlled by the human; the engine plays the opponent
	Mode      StrategyMode // Opponent strategy (default greedy)
	Seed      int64        // RNG seed for ModeRandom (0 = current time)
}

// DefaultEngineOptions returns the usual setup: human dark, engine light, greedy.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		HumanSide: Dark,
		Mode:      ModeGreedy,
	}
}

// NewEngine creates a new engine with the given options
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.HumanSide != Dark && opts.HumanSide != Light {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, opts.HumanSide)
	}
	strategy, err := NewStrategy(opts.Mode, opts.Seed)
	if err != nil {
		return nil, err
	}
	return &Engine{human: opts.HumanSide, strategy: strategy}, nil
}

// NewEngineWithStrategy creates an engine using a caller-supplied strategy.
func NewEngineWithStrategy(human Side, s Strategy) *Engine {
	return &Engine{human: human, strategy: s}
}

// HumanSide returns the side the human plays.
func (e *Engine) HumanSide() Side { return e.human }

// EngineSide returns the side the engine plays.
func (e *Engine) EngineSide() Side { return e.human.Opponent() }

// Strategy returns the strategy used for engine moves.
func (e *Engine) Strategy() Strategy { return e.strategy }

// OpponentMove chooses a move for the engine side and applies it to b.
// ok is false when the engine has no legal move; b is then unchanged.
func (e *Engine) OpponentMove(b *Board) (Move, bool) {
	side := e.EngineSide()
	m, ok := e.strategy.Choose(*b, side)
	if !ok {
		return Pass, false
	}
	ApplyMove(b, m.Row, m.Col, side)
	return m, true
}

// NewGame returns the opening position, with the engine's first move already
// played when the engine is dark.
func (e *Engine) NewGame() (Board, []Move) {
	b := StartingPosition()
	if e.EngineSide() != Dark {
		return b, nil
	}
	m, _ := e.OpponentMove(&b)
	return b, []Move{m}
}

// TurnResult describes the outcome of one human move and the engine's reply.
type TurnResult struct {
	Board        Board  `json:"-"`
	HumanMove    Move   `json:"human_move"`
	EngineMoves  []Move `json:"engine_moves"`            // Engine replies in order; more than one when the human passes
	EnginePassed bool   `json:"engine_passed,omitempty"` // Engine had no legal reply
	HumanPassed  bool   `json:"human_passed,omitempty"`  // Human had no move and the engine moved again
	Result
}

// GameOver reports whether the turn ended the game.
func (t *TurnResult) GameOver() bool { return t.Terminal }

// PlayTurn applies the human move and the engine's reply.
//
// An illegal human move returns ErrIllegalMove together with a result holding
// the unchanged board. After a legal move the engine replies, passing if it
// has no move. While the human then has no legal move and the engine still
// does, the engine keeps playing.
func (e *Engine) PlayTurn(b Board, m Move) (*TurnResult, error) {
	res := &TurnResult{Board: b, HumanMove: m}

	if !IsLegal(b, m.Row, m.Col, e.human) {
		res.Result = Summarize(b)
		return res, fmt.Errorf("%w: %s for %s", ErrIllegalMove, m.Notation(), e.human)
	}

	ApplyMove(&res.Board, m.Row, m.Col, e.human)

	reply, ok := e.OpponentMove(&res.Board)
	if !ok {
		res.EnginePassed = true
	} else {
		res.EngineMoves = append(res.EngineMoves, reply)
		for !HasLegalMove(res.Board, e.human) && !IsTerminal(res.Board) {
			reply, ok = e.OpponentMove(&res.Board)
			if !ok {
				break
			}
			res.HumanPassed = true
			res.EngineMoves = append(res.EngineMoves, reply)
		}
	}

	res.Result = Summarize(res.Board)
	return res, nil
}
