package engine

import "sort"

// Score rates a candidate move for side s without touching the board.
//
// For each direction it walks outward through a maximal run of non-empty
// squares not held by s. When the run ends on a disc of s its length is
// added; a run ending on an empty square or the edge adds nothing. The result
// is the number of discs the move would flip. Corners, edges and mobility are
// not considered.
func Score(b Board, row, col int, s Side) int {
	own := s.Cell()
	score := 0
	for _, d := range Directions {
		score += bracketRun(&b, row, col, d[0], d[1], own)
	}
	return score
}

// ScoredMove is a legal move together with its heuristic score.
type ScoredMove struct {
	Move  Move `json:"move"`
	Score int  `json:"score"`
}

// RankMoves scores every legal move for side s, best first.
// Moves with equal scores keep row-major order.
func RankMoves(b Board, s Side) []ScoredMove {
	moves := LegalMoves(b, s)
	ranked := make([]ScoredMove, len(moves))
	for i, m := range moves {
		ranked[i] = ScoredMove{Move: m, Score: Score(b, m.Row, m.Col, s)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
