// Package match provides game record import/export for Othello games.
// Supports a tagged transcript format and SGF (Smart Game Format).
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/othello/pkg/engine"
)

// ErrIllegalRecord is returned when a record contains a move that cannot be
// played in the position reached so far.
var ErrIllegalRecord = errors.New("illegal move in record")

// Record represents a complete Othello game.
type Record struct {
	// Game metadata
	Dark   string // Name of the dark player (moves first)
	Light  string // Name of the light player
	Date   string // Game date (YYYY-MM-DD format)
	Event  string // Event name
	Result string // Final score such as "19-45", empty while unfinished

	Moves []engine.Move // Moves in order; passes may be omitted
}

// Step is one ply of a replayed game.
type Step struct {
	Ply    int          // 1-indexed
	Side   engine.Side  // Side that acted
	Move   engine.Move  // engine.Pass when Passed is set
	Flips  int          // Discs flipped by the move
	Passed bool         // Side had no legal move
	Board  engine.Board // Position after the step
}

// NewRecord creates a new empty record.
func NewRecord(dark, light string) *Record {
	return &Record{
		Dark:  dark,
		Light: light,
		Moves: make([]engine.Move, 0, 60),
	}
}

// Add appends a move to the record.
func (r *Record) Add(m engine.Move) {
	r.Moves = append(r.Moves, m)
}

// Transcript returns the moves as concatenated notation, e.g. "f5d6c3".
// Passes are omitted; Replay restores them.
func (r *Record) Transcript() string {
	var sb strings.Builder
	for _, m := range r.Moves {
		if m.IsPass() {
			continue
		}
		sb.WriteString(m.Notation())
	}
	return sb.String()
}

// ParseTranscript parses concatenated move notation. Whitespace is ignored and
// "--" is read as an explicit pass.
func ParseTranscript(s string) ([]engine.Move, error) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: transcript has odd length %d", engine.ErrInvalidMove, len(s))
	}

	moves := make([]engine.Move, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		tok := s[i : i+2]
		if tok != "--" && (tok[0] < 'a' || tok[0] > 'h') {
			return nil, fmt.Errorf("%w: %q at offset %d", engine.ErrInvalidMove, tok, i)
		}
		m, err := engine.ParseMove(tok)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Replay plays the record from the opening position.
//
// When the side to move has no legal move it passes automatically, so
// records without explicit passes replay correctly. An explicit pass while a
// move exists, or an illegal move, returns ErrIllegalRecord together with the
// steps played so far.
func Replay(r *Record) (engine.Board, []Step, error) {
	b := engine.StartingPosition()
	side := engine.Dark
	steps := make([]Step, 0, len(r.Moves)+2)

	pass := func() {
		steps = append(steps, Step{Ply: len(steps) + 1, Side: side, Move: engine.Pass, Passed: true, Board: b})
		side = side.Opponent()
	}

	for i, m := range r.Moves {
		if m.IsPass() {
			if engine.HasLegalMove(b, side) {
				return b, steps, fmt.Errorf("%w: move %d: %s passes with a legal move", ErrIllegalRecord, i+1, side)
			}
			pass()
			continue
		}

		if !engine.HasLegalMove(b, side) && engine.HasLegalMove(b, side.Opponent()) {
			pass()
		}
		if !engine.IsLegal(b, m.Row, m.Col, side) {
			return b, steps, fmt.Errorf("%w: move %d: %s for %s", ErrIllegalRecord, i+1, m.Notation(), side)
		}

		n := engine.ApplyMove(&b, m.Row, m.Col, side)
		steps = append(steps, Step{Ply: len(steps) + 1, Side: side, Move: m, Flips: n, Board: b})
		side = side.Opponent()
	}
	return b, steps, nil
}

// ResultString formats the final disc counts of b as "dark-light".
func ResultString(b engine.Board) string {
	return fmt.Sprintf("%d-%d", b.Count(engine.DarkDisc), b.Count(engine.LightDisc))
}
