package engine

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStartingPosition(t *testing.T) {
	b := StartingPosition()
	if b[3][3] != LightDisc || b[4][4] != LightDisc {
		t.Error("light discs not on d4/e5")
	}
	if b[3][4] != DarkDisc || b[4][3] != DarkDisc {
		t.Error("dark discs not on e4/d5")
	}
	if got := b.Count(Empty); got != 60 {
		t.Errorf("Count(Empty) = %d, want 60", got)
	}
}

func TestBoardString(t *testing.T) {
	s := StartingPosition().String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("String() has %d lines, want 9", len(lines))
	}
	if lines[0] != "  a b c d e f g h" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[4] != "4 . . . O X . . ." {
		t.Errorf("row 4 = %q", lines[4])
	}
	if lines[5] != "5 . . . X O . . ." {
		t.Errorf("row 5 = %q", lines[5])
	}
}

func TestPositionIDRoundTrip(t *testing.T) {
	boards := []Board{
		{},
		StartingPosition(),
		Play(StartingPosition(), Move{2, 3}, Dark),
		PlayGame(GreedyStrategy{}, GreedyStrategy{}).Final,
	}
	for i, b := range boards {
		id := b.PositionID()
		got, err := BoardFromPositionID(id)
		if err != nil {
			t.Fatalf("board %d: BoardFromPositionID(%q) error: %v", i, id, err)
		}
		if got != b {
			t.Errorf("board %d: round trip mismatch\n%v\nwant\n%v", i, got, b)
		}
	}
}

func TestStartingPositionID(t *testing.T) {
	if got, want := StartingPosition().PositionID(), "250211104677393444"; got != want {
		t.Errorf("PositionID() = %s, want %s", got, want)
	}
	if got := (Board{}).PositionID(); got != "0" {
		t.Errorf("empty PositionID() = %s, want 0", got)
	}
}

func TestBoardFromPositionIDInvalid(t *testing.T) {
	for _, id := range []string{"", "abc", "-5", "12x"} {
		if _, err := BoardFromPositionID(id); err == nil {
			t.Errorf("BoardFromPositionID(%q) succeeded, want error", id)
		}
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"d3", Move{2, 3}},
		{"D3", Move{2, 3}},
		{"a1", Move{0, 0}},
		{"h8", Move{7, 7}},
		{"23", Move{2, 3}},
		{"77", Move{7, 7}},
		{"pass", Pass},
		{" f5 ", Move{4, 5}},
	}
	for _, tt := range tests {
		got, err := ParseMove(tt.in)
		if err != nil {
			t.Errorf("ParseMove(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMove(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "i1", "a9", "88", "d", "d33"} {
		_, err := ParseMove(in)
		if !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrInvalidMove", in, err)
		}
	}
}

func TestMoveNotation(t *testing.T) {
	if got := (Move{2, 3}).Notation(); got != "d3" {
		t.Errorf("Notation() = %s, want d3", got)
	}
	if got := Pass.Notation(); got != "pass" {
		t.Errorf("Pass.Notation() = %s, want pass", got)
	}
}

func TestParseSide(t *testing.T) {
	for _, in := range []string{"dark", "Black", "x", "B"} {
		if s, err := ParseSide(in); err != nil || s != Dark {
			t.Errorf("ParseSide(%q) = %v, %v; want dark", in, s, err)
		}
	}
	for _, in := range []string{"light", "WHITE", "o", "w"} {
		if s, err := ParseSide(in); err != nil || s != Light {
			t.Errorf("ParseSide(%q) = %v, %v; want light", in, s, err)
		}
	}
	if _, err := ParseSide("red"); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("ParseSide(red) error = %v, want ErrInvalidSide", err)
	}
}

func TestSideJSON(t *testing.T) {
	var v struct {
		Side Side `json:"side"`
	}
	if err := json.Unmarshal([]byte(`{"side":"light"}`), &v); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if v.Side != Light {
		t.Errorf("Side = %v, want light", v.Side)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `{"side":"light"}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestCellSide(t *testing.T) {
	if s, ok := DarkDisc.Side(); !ok || s != Dark {
		t.Errorf("DarkDisc.Side() = %v, %v", s, ok)
	}
	if _, ok := Empty.Side(); ok {
		t.Error("Empty.Side() ok = true")
	}
	if Dark.Cell() != DarkDisc || Light.Cell() != LightDisc {
		t.Error("Side.Cell mismatch")
	}
}
