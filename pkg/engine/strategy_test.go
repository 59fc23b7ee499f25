package engine

import (
	"errors"
	"testing"
)

func TestGreedyPicksHighestScore(t *testing.T) {
	m, ok := GreedyStrategy{}.Choose(tutorBoard(t), Dark)
	if !ok {
		t.Fatal("Choose returned ok=false")
	}
	if want := (Move{0, 5}); m != want {
		t.Errorf("Choose = %v, want %v", m, want)
	}
}

func TestGreedyFirstWinsTies(t *testing.T) {
	// All four opening moves flip one disc.
	m, ok := GreedyStrategy{}.Choose(StartingPosition(), Dark)
	if !ok || m != (Move{2, 3}) {
		t.Errorf("Choose(start, dark) = %v, %v; want d3", m, ok)
	}

	after := Play(StartingPosition(), Move{2, 3}, Dark)
	m, ok = GreedyStrategy{}.Choose(after, Light)
	if !ok || m != (Move{2, 2}) {
		t.Errorf("Choose(after d3, light) = %v, %v; want c3", m, ok)
	}
}

func TestGreedyNoMoves(t *testing.T) {
	m, ok := GreedyStrategy{}.Choose(Board{}, Dark)
	if ok {
		t.Error("Choose on empty board ok = true")
	}
	if !m.IsPass() {
		t.Errorf("Choose = %v, want pass", m)
	}
}

func TestRandomStrategyLegalAndSeeded(t *testing.T) {
	b := StartingPosition()
	r1 := NewRandomStrategy(42)
	r2 := NewRandomStrategy(42)
	for i := 0; i < 20; i++ {
		m1, ok1 := r1.Choose(b, Dark)
		m2, ok2 := r2.Choose(b, Dark)
		if !ok1 || !ok2 {
			t.Fatal("Choose returned ok=false on opening position")
		}
		if !IsLegal(b, m1.Row, m1.Col, Dark) {
			t.Errorf("random move %v is illegal", m1)
		}
		if m1 != m2 {
			t.Errorf("same seed gave %v and %v", m1, m2)
		}
	}

	if _, ok := r1.Choose(Board{}, Light); ok {
		t.Error("Choose on empty board ok = true")
	}
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy(ModeGreedy, 0)
	if err != nil || s.Name() != "greedy" {
		t.Errorf("NewStrategy(greedy) = %v, %v", s, err)
	}
	s, err = NewStrategy(ModeRandom, 7)
	if err != nil || s.Name() != "random" {
		t.Errorf("NewStrategy(random) = %v, %v", s, err)
	}
	if _, err := NewStrategy(StrategyMode(9), 0); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("NewStrategy(9) error = %v, want ErrUnknownMode", err)
	}
}

func TestParseStrategyMode(t *testing.T) {
	tests := []struct {
		in   string
		want StrategyMode
	}{
		{"greedy", ModeGreedy},
		{"GREEDY", ModeGreedy},
		{"1", ModeGreedy},
		{"", ModeGreedy},
		{"random", ModeRandom},
		{"0", ModeRandom},
	}
	for _, tt := range tests {
		got, err := ParseStrategyMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseStrategyMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseStrategyMode("minimax"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseStrategyMode(minimax) error = %v, want ErrUnknownMode", err)
	}
}
