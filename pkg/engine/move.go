package engine

// Directions lists the eight scan directions as (row, col) deltas.
// The order is fixed so every scan over them is deterministic.
var Directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func inBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// bracketRun walks from (row,col) in direction (dr,dc) through a maximal run of
// opponent discs. It returns the run length if the run ends on a disc of own,
// and 0 if it ends on an empty square or the edge.
func bracketRun(b *Board, row, col, dr, dc int, own Cell) int {
	r, c := row+dr, col+dc
	n := 0
	for inBounds(r, c) && b[r][c] != Empty && b[r][c] != own {
		r += dr
		c += dc
		n++
	}
	if n > 0 && inBounds(r, c) && b[r][c] == own {
		return n
	}
	return 0
}

// IsLegal reports whether side s may place a disc at (row, col).
// The square must be on the board, empty, and bracket at least one run of
// opponent discs in one of the eight directions.
func IsLegal(b Board, row, col int, s Side) bool {
	if !inBounds(row, col) || b[row][col] != Empty {
		return false
	}
	own := s.Cell()
	for _, d := range Directions {
		if bracketRun(&b, row, col, d[0], d[1], own) > 0 {
			return true
		}
	}
	return false
}

// ApplyMove places a disc for side s at (row, col) and flips every bracketed
// run in all eight directions. It returns the number of discs flipped.
// Callers must check IsLegal first; an illegal move leaves the board unchanged
// and returns 0.
func ApplyMove(b *Board, row, col int, s Side) int {
	if !IsLegal(*b, row, col, s) {
		return 0
	}

	own := s.Cell()

	// Measure every direction before placing so flips in one direction
	// cannot influence another.
	var runs [8]int
	for i, d := range Directions {
		runs[i] = bracketRun(b, row, col, d[0], d[1], own)
	}

	b[row][col] = own
	flipped := 0
	for i, d := range Directions {
		r, c := row, col
		for k := 0; k < runs[i]; k++ {
			r += d[0]
			c += d[1]
			b[r][c] = own
		}
		flipped += runs[i]
	}
	return flipped
}

// Play returns a copy of b with the move applied.
func Play(b Board, m Move, s Side) Board {
	ApplyMove(&b, m.Row, m.Col, s)
	return b
}

// LegalMoves returns all legal moves for side s in row-major order.
func LegalMoves(b Board, s Side) []Move {
	moves := make([]Move, 0, 16)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if IsLegal(b, row, col, s) {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

// HasLegalMove reports whether side s has at least one legal move.
func HasLegalMove(b Board, s Side) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if IsLegal(b, row, col, s) {
				return true
			}
		}
	}
	return false
}

// Flips returns the squares that would change colour if side s played at
// (row, col). It is empty for an illegal move.
func Flips(b Board, row, col int, s Side) []Move {
	if !IsLegal(b, row, col, s) {
		return nil
	}
	own := s.Cell()
	var out []Move
	for _, d := range Directions {
		n := bracketRun(&b, row, col, d[0], d[1], own)
		r, c := row, col
		for k := 0; k < n; k++ {
			r += d[0]
			c += d[1]
			out = append(out, Move{Row: r, Col: c})
		}
	}
	return out
}
