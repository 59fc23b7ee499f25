package engine

import (
	"reflect"
	"testing"
)

// tutorBoard gives dark three moves flipping 4, 1 and 2 discs.
func tutorBoard(t testing.TB) Board {
	t.Helper()
	return boardFromRows(t,
		"XOOOO...",
		"........",
		"........",
		"...XO...",
		"........",
		"........",
		"XOO.....",
		"........",
	)
}

func TestScore(t *testing.T) {
	b := boardFromRows(t,
		".OOX....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	if got := Score(b, 0, 0, Dark); got != 2 {
		t.Errorf("Score(0,0,dark) = %d, want 2", got)
	}
	// Light cannot bracket anything from a1.
	if got := Score(b, 0, 0, Light); got != 0 {
		t.Errorf("Score(0,0,light) = %d, want 0", got)
	}
}

func TestScoreMatchesFlips(t *testing.T) {
	b := tutorBoard(t)
	for _, m := range LegalMoves(b, Dark) {
		score := Score(b, m.Row, m.Col, Dark)
		after := b
		if n := ApplyMove(&after, m.Row, m.Col, Dark); n != score {
			t.Errorf("%v: Score = %d, ApplyMove flipped %d", m, score, n)
		}
	}
}

func TestRankMoves(t *testing.T) {
	got := RankMoves(tutorBoard(t), Dark)
	want := []ScoredMove{
		{Move: Move{0, 5}, Score: 4},
		{Move: Move{6, 3}, Score: 2},
		{Move: Move{3, 5}, Score: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankMoves = %v, want %v", got, want)
	}
}

func TestRankMovesStableOnTies(t *testing.T) {
	got := RankMoves(StartingPosition(), Dark)
	if len(got) != 4 {
		t.Fatalf("len(RankMoves) = %d, want 4", len(got))
	}
	for i, m := range LegalMoves(StartingPosition(), Dark) {
		if got[i].Move != m || got[i].Score != 1 {
			t.Errorf("RankMoves[%d] = %v, want %v with score 1", i, got[i], m)
		}
	}
}

func TestRankMovesNoMoves(t *testing.T) {
	if got := RankMoves(Board{}, Dark); len(got) != 0 {
		t.Errorf("RankMoves(empty) = %v, want none", got)
	}
}
