package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewEngineDefaults(t *testing.T) {
	e, err := NewEngine(DefaultEngineOptions())
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	if e.HumanSide() != Dark || e.EngineSide() != Light {
		t.Errorf("sides = %v/%v, want dark/light", e.HumanSide(), e.EngineSide())
	}
	if e.Strategy().Name() != "greedy" {
		t.Errorf("strategy = %s, want greedy", e.Strategy().Name())
	}
}

func TestNewEngineInvalid(t *testing.T) {
	if _, err := NewEngine(EngineOptions{HumanSide: Side(5)}); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("NewEngine(side 5) error = %v, want ErrInvalidSide", err)
	}
	if _, err := NewEngine(EngineOptions{Mode: StrategyMode(3)}); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("NewEngine(mode 3) error = %v, want ErrUnknownMode", err)
	}
}

func TestNewGame(t *testing.T) {
	e, _ := NewEngine(DefaultEngineOptions())
	b, moves := e.NewGame()
	if b != StartingPosition() || len(moves) != 0 {
		t.Errorf("NewGame(human dark) = %v moves, board changed=%v", moves, b != StartingPosition())
	}

	e, _ = NewEngine(EngineOptions{HumanSide: Light})
	b, moves = e.NewGame()
	if want := []Move{{2, 3}}; !reflect.DeepEqual(moves, want) {
		t.Errorf("NewGame(human light) moves = %v, want %v", moves, want)
	}
	if b.Count(DarkDisc) != 4 || b.Count(LightDisc) != 1 {
		t.Errorf("counts after engine opening = %d/%d, want 4/1", b.Count(DarkDisc), b.Count(LightDisc))
	}
}

func TestPlayTurnOpening(t *testing.T) {
	e, _ := NewEngine(DefaultEngineOptions())

	res, err := e.PlayTurn(StartingPosition(), Move{2, 3})
	if err != nil {
		t.Fatalf("PlayTurn error: %v", err)
	}
	if want := []Move{{2, 2}}; !reflect.DeepEqual(res.EngineMoves, want) {
		t.Errorf("EngineMoves = %v, want %v", res.EngineMoves, want)
	}
	if res.EnginePassed || res.HumanPassed {
		t.Errorf("passed flags = %v/%v, want false/false", res.EnginePassed, res.HumanPassed)
	}
	if res.Dark != 3 || res.Light != 3 {
		t.Errorf("counts = %d/%d, want 3/3", res.Dark, res.Light)
	}
	if res.GameOver() {
		t.Error("GameOver() = true after opening")
	}
	if res.Board[2][2] != LightDisc || res.Board[2][3] != DarkDisc {
		t.Error("board does not hold both moves")
	}
}

func TestPlayTurnIllegal(t *testing.T) {
	e, _ := NewEngine(DefaultEngineOptions())
	start := StartingPosition()

	for _, m := range []Move{{0, 0}, {3, 3}, {9, 9}, Pass} {
		res, err := e.PlayTurn(start, m)
		if !errors.Is(err, ErrIllegalMove) {
			t.Errorf("PlayTurn(%v) error = %v, want ErrIllegalMove", m, err)
		}
		if res == nil || res.Board != start {
			t.Errorf("PlayTurn(%v) changed the board", m)
		}
		if len(res.EngineMoves) != 0 {
			t.Errorf("PlayTurn(%v) engine moved: %v", m, res.EngineMoves)
		}
	}
}

func TestPlayTurnHumanPasses(t *testing.T) {
	e, _ := NewEngine(DefaultEngineOptions())
	b := boardFromRows(t,
		"OOOOOOOO",
		"OOOOOOOO",
		"OOOOOOOO",
		"OXOOOXOO",
		"XOOOOOOO",
		"X.OOOOOO",
		"XOOOOOO.",
		"OOOOOO.O",
	)

	res, err := e.PlayTurn(b, Move{6, 7})
	if err != nil {
		t.Fatalf("PlayTurn error: %v", err)
	}
	if want := []Move{{5, 1}, {7, 6}}; !reflect.DeepEqual(res.EngineMoves, want) {
		t.Errorf("EngineMoves = %v, want %v", res.EngineMoves, want)
	}
	if !res.HumanPassed {
		t.Error("HumanPassed = false")
	}
	if !res.GameOver() {
		t.Error("GameOver() = false on full board")
	}
	if res.Dark != 8 || res.Light != 56 {
		t.Errorf("counts = %d/%d, want 8/56", res.Dark, res.Light)
	}
	if res.Winner == nil || *res.Winner != Light {
		t.Errorf("Winner = %v, want light", res.Winner)
	}
}

func TestPlayTurnEnginePasses(t *testing.T) {
	// Dark takes the last light disc; light has nothing left to play.
	b := boardFromRows(t,
		"XO......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	e, _ := NewEngine(DefaultEngineOptions())
	res, err := e.PlayTurn(b, Move{0, 2})
	if err != nil {
		t.Fatalf("PlayTurn error: %v", err)
	}
	if !res.EnginePassed {
		t.Error("EnginePassed = false")
	}
	if len(res.EngineMoves) != 0 {
		t.Errorf("EngineMoves = %v, want none", res.EngineMoves)
	}
	if !res.Terminal || res.Winner == nil || *res.Winner != Dark {
		t.Errorf("result = %+v, want dark win", res.Result)
	}
}

func TestOpponentMoveNoMove(t *testing.T) {
	e, _ := NewEngine(DefaultEngineOptions())
	var b Board
	b[0][0] = DarkDisc
	before := b
	m, ok := e.OpponentMove(&b)
	if ok || !m.IsPass() || b != before {
		t.Errorf("OpponentMove = %v, %v; board changed=%v", m, ok, b != before)
	}
}
