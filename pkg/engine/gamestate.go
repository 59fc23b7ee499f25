package engine

// IsFull reports whether no empty square remains.
func IsFull(b Board) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col] == Empty {
				return false
			}
		}
	}
	return true
}

// IsTerminal reports whether the game is over: the board is full, or neither
// side has a legal move. Either condition is sufficient.
func IsTerminal(b Board) bool {
	if IsFull(b) {
		return true
	}
	return !HasLegalMove(b, Dark) && !HasLegalMove(b, Light)
}

// Winner returns the side with more discs. ok is false on equal counts.
// It only makes sense once IsTerminal is true but may be called at any time.
func Winner(b Board) (winner Side, ok bool) {
	dark, light := b.Count(DarkDisc), b.Count(LightDisc)
	switch {
	case dark > light:
		return Dark, true
	case light > dark:
		return Light, true
	}
	return Dark, false
}

// Result summarises a position for adapters.
type Result struct {
	Dark     int   `json:"dark"`
	Light    int   `json:"light"`
	Empty    int   `json:"empty"`
	Terminal bool  `json:"terminal"`
	Winner   *Side `json:"winner,omitempty"` // nil while running or on a draw
}

// Summarize counts discs and reports the terminal verdict.
func Summarize(b Board) Result {
	r := Result{
		Dark:     b.Count(DarkDisc),
		Light:    b.Count(LightDisc),
		Empty:    b.Count(Empty),
		Terminal: IsTerminal(b),
	}
	if r.Terminal {
		if w, ok := Winner(b); ok {
			r.Winner = &w
		}
	}
	return r
}
