package engine

import "testing"

func parseMoves(t *testing.T, transcript string) []Move {
	t.Helper()
	var moves []Move
	for i := 0; i+2 <= len(transcript); i += 2 {
		m, err := ParseMove(transcript[i : i+2])
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", transcript[i:i+2], err)
		}
		moves = append(moves, m)
	}
	return moves
}

func TestLookupOpening(t *testing.T) {
	tests := []struct {
		transcript string
		want       string
	}{
		{"f5", "Opening"},
		{"f5d6", "Perpendicular"},
		{"f5d6c3", "Perpendicular"},
		{"f5d6c3d3c4", "Tiger"},
		{"f5d6c5", "Cow"},
		{"f5f6e6f4", "Heath"},
		// d3 is the anti-diagonal reflection of f5, c3 of f6.
		{"d3c3", "Diagonal"},
		// c4 and e3 are f5 and d6 rotated by 180 degrees.
		{"c4e3", "Perpendicular"},
		{greedyTranscript, "Diagonal"},
	}
	for _, tt := range tests {
		e, ok := LookupOpening(parseMoves(t, tt.transcript))
		if !ok {
			t.Errorf("LookupOpening(%s) found nothing, want %s", tt.transcript, tt.want)
			continue
		}
		if e.Name != tt.want {
			t.Errorf("LookupOpening(%s) = %s, want %s", tt.transcript, e.Name, tt.want)
		}
	}
}

func TestLookupOpeningMiss(t *testing.T) {
	if _, ok := LookupOpening(nil); ok {
		t.Error("LookupOpening(nil) ok = true")
	}
	if _, ok := LookupOpening([]Move{{0, 0}}); ok {
		t.Error("LookupOpening(a1) ok = true")
	}
}
