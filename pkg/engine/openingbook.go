package engine

import "strings"

// OpeningBook names well-known opening sequences.
// Keys are transcripts in the orientation where dark opens with f5; games
// starting with d3, c4 or e6 are mapped onto it by board symmetry.

// OpeningEntry is a named opening line
type OpeningEntry struct {
	Transcript string // Moves from the opening position, e.g. "f5d6c3d3c4"
	Name       string
}

var openingBook = []OpeningEntry{
	{"f5", "Opening"},
	{"f5d6", "Perpendicular"},
	{"f5f6", "Diagonal"},
	{"f5f4", "Parallel"},
	{"f5d6c5", "Cow"},
	{"f5d6c3d3c4", "Tiger"},
	{"f5f6e6f4", "Heath"},
}

// symmetry maps a square so that the first move lands on f5 (row 4, col 5).
// The four symmetries below all preserve the opening position.
type symmetry func(m Move) Move

var (
	symIdentity  symmetry = func(m Move) Move { return m }
	symRotate180 symmetry = func(m Move) Move { return Move{Row: 7 - m.Row, Col: 7 - m.Col} }
	symTranspose symmetry = func(m Move) Move { return Move{Row: m.Col, Col: m.Row} }
	symAntiDiag  symmetry = func(m Move) Move { return Move{Row: 7 - m.Col, Col: 7 - m.Row} }
)

// normalize returns the symmetry that maps first onto f5, or nil.
func normalize(first Move) symmetry {
	f5 := Move{Row: 4, Col: 5}
	for _, sym := range []symmetry{symIdentity, symRotate180, symTranspose, symAntiDiag} {
		if sym(first) == f5 {
			return sym
		}
	}
	return nil
}

// LookupOpening returns the longest named opening that prefixes moves.
// Passes end the lookup.
func LookupOpening(moves []Move) (*OpeningEntry, bool) {
	if len(moves) == 0 {
		return nil, false
	}
	sym := normalize(moves[0])
	if sym == nil {
		return nil, false
	}

	var sb strings.Builder
	for _, m := range moves {
		if m.IsPass() || !m.InBounds() {
			break
		}
		sb.WriteString(sym(m).Notation())
	}
	t := sb.String()

	var best *OpeningEntry
	for i := range openingBook {
		e := &openingBook[i]
		if strings.HasPrefix(t, e.Transcript) && (best == nil || len(e.Transcript) > len(best.Transcript)) {
			best = e
		}
	}
	return best, best != nil
}
