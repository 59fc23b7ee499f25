package match

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/yourusername/othello/pkg/engine"
)

// Greedy against greedy from the opening position.
const greedyGame = "d3c3b3b2b1e3f3a1c4g3h3e2f5a3e1d6c2d2a2c1d7g6d1c5e6f2g2e7e8f4f6h2f1g1h1b4c6c7b8f7g8d8g4h4b5c8b7b6g5h5a6f8g7h7h6a8a4a5h8a7"

// A game where dark has to pass before its 59th disc; one square stays empty.
const passGame = "f5f4c3g6f3c5d6f2b5c4g3a6f6c2e3g4b3g7d3h4b1c7e7d2b8e6a5e2f7d7b4b2f8d8e1b7h2b6h5a4h7d1a3h6e8f1a7g8h8g2g5c6a2a8h3a1c8g1c1"

func mustRecord(t *testing.T, transcript string) *Record {
	t.Helper()
	moves, err := ParseTranscript(transcript)
	if err != nil {
		t.Fatalf("ParseTranscript error: %v", err)
	}
	rec := NewRecord("alice", "bob")
	for _, m := range moves {
		rec.Add(m)
	}
	return rec
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("Alice", "Bob")
	if r.Dark != "Alice" {
		t.Errorf("Dark = %q, want %q", r.Dark, "Alice")
	}
	if r.Light != "Bob" {
		t.Errorf("Light = %q, want %q", r.Light, "Bob")
	}
	if len(r.Moves) != 0 {
		t.Errorf("Moves = %v, want empty", r.Moves)
	}
}

func TestParseTranscript(t *testing.T) {
	moves, err := ParseTranscript("F5 d6\nc3--")
	if err != nil {
		t.Fatalf("ParseTranscript error: %v", err)
	}
	want := []engine.Move{{Row: 4, Col: 5}, {Row: 5, Col: 3}, {Row: 2, Col: 2}, engine.Pass}
	if len(moves) != len(want) {
		t.Fatalf("len = %d, want %d", len(moves), len(want))
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("moves[%d] = %v, want %v", i, moves[i], want[i])
		}
	}

	for _, bad := range []string{"f5d", "f5z9", "2323"} {
		if _, err := ParseTranscript(bad); !errors.Is(err, engine.ErrInvalidMove) {
			t.Errorf("ParseTranscript(%q) error = %v, want ErrInvalidMove", bad, err)
		}
	}
}

func TestTranscriptOmitsPasses(t *testing.T) {
	r := NewRecord("", "")
	r.Add(engine.Move{Row: 4, Col: 5})
	r.Add(engine.Pass)
	r.Add(engine.Move{Row: 5, Col: 3})
	if got := r.Transcript(); got != "f5d6" {
		t.Errorf("Transcript() = %q, want f5d6", got)
	}
}

func TestReplayGreedyGame(t *testing.T) {
	rec := mustRecord(t, greedyGame)
	final, steps, err := Replay(rec)
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	if len(steps) != 60 {
		t.Errorf("steps = %d, want 60", len(steps))
	}
	if got := ResultString(final); got != "19-45" {
		t.Errorf("result = %s, want 19-45", got)
	}
	if steps[0].Side != engine.Dark || steps[1].Side != engine.Light {
		t.Error("sides do not alternate from dark")
	}
	if steps[59].Board != final {
		t.Error("last step board differs from final board")
	}
	if rec.Transcript() != greedyGame {
		t.Error("Transcript() does not round trip")
	}

	// Replay agrees with the engine playing the same game.
	o := engine.PlayGame(engine.GreedyStrategy{}, engine.GreedyStrategy{})
	if o.Final != final {
		t.Error("replayed board differs from PlayGame")
	}
}

func TestReplayAutoPass(t *testing.T) {
	final, steps, err := Replay(mustRecord(t, passGame))
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	if len(steps) != 60 {
		t.Fatalf("steps = %d, want 60 (59 moves and a pass)", len(steps))
	}
	pass := steps[58]
	if !pass.Passed || pass.Side != engine.Dark || !pass.Move.IsPass() {
		t.Errorf("steps[58] = %+v, want dark pass", pass)
	}
	if steps[59].Side != engine.Light {
		t.Errorf("steps[59].Side = %v, want light", steps[59].Side)
	}
	if got := ResultString(final); got != "25-38" {
		t.Errorf("result = %s, want 25-38", got)
	}
	if !engine.IsTerminal(final) {
		t.Error("final board not terminal")
	}
}

func TestReplayIllegal(t *testing.T) {
	_, steps, err := Replay(mustRecord(t, "f5a1"))
	if !errors.Is(err, ErrIllegalRecord) {
		t.Fatalf("Replay error = %v, want ErrIllegalRecord", err)
	}
	if len(steps) != 1 {
		t.Errorf("steps = %d, want 1", len(steps))
	}

	// Passing with a legal move available is rejected too.
	rec := NewRecord("", "")
	rec.Add(engine.Pass)
	if _, _, err := Replay(rec); !errors.Is(err, ErrIllegalRecord) {
		t.Errorf("Replay(pass) error = %v, want ErrIllegalRecord", err)
	}
}

func TestExportImportText(t *testing.T) {
	rec := mustRecord(t, greedyGame)
	rec.Event = "Club night"
	rec.Date = "2026-10-17"
	rec.Result = "19-45"

	var buf bytes.Buffer
	if err := ExportText(&buf, rec); err != nil {
		t.Fatalf("ExportText error: %v", err)
	}
	output := buf.String()
	for _, want := range []string{`[Dark "alice"]`, `[Result "19-45"]`, `[Opening "Diagonal"]`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s:\n%s", want, output)
		}
	}

	got, err := ImportText(strings.NewReader(output))
	if err != nil {
		t.Fatalf("ImportText error: %v", err)
	}
	if got.Dark != "alice" || got.Light != "bob" || got.Event != "Club night" || got.Date != "2026-10-17" {
		t.Errorf("tags = %+v", got)
	}
	if got.Transcript() != greedyGame {
		t.Errorf("transcript = %s, want %s", got.Transcript(), greedyGame)
	}
}

func TestImportTextErrors(t *testing.T) {
	if _, err := ImportText(strings.NewReader("[Dark alice]\nf5")); err == nil {
		t.Error("ImportText accepted a malformed tag")
	}
	if _, err := ImportText(strings.NewReader("f5d")); err == nil {
		t.Error("ImportText accepted an odd transcript")
	}
}

func TestExportImportSGF(t *testing.T) {
	rec := mustRecord(t, passGame)
	rec.Result = "25-38"

	var buf bytes.Buffer
	if err := ExportSGF(&buf, rec); err != nil {
		t.Fatalf("ExportSGF error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "GM[2]") || !strings.Contains(output, ";B[fe]") {
		t.Errorf("output missing SGF markers:\n%s", output)
	}
	if !strings.Contains(output, ";B[]") {
		t.Error("output missing explicit pass")
	}

	records, err := ImportSGF(strings.NewReader(output))
	if err != nil {
		t.Fatalf("ImportSGF error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	got := records[0]
	if got.Dark != "alice" || got.Result != "25-38" {
		t.Errorf("metadata = %+v", got)
	}
	if len(got.Moves) != 60 {
		t.Errorf("moves = %d, want 60", len(got.Moves))
	}
	if got.Transcript() != passGame {
		t.Errorf("transcript = %s", got.Transcript())
	}
	if _, _, err := Replay(got); err != nil {
		t.Errorf("Replay(imported) error: %v", err)
	}
}

func TestImportSGFRejectsOtherGames(t *testing.T) {
	if _, err := ImportSGF(strings.NewReader("(;FF[4]GM[6]PW[a]PB[b];W[31])")); err == nil {
		t.Error("ImportSGF accepted a backgammon game")
	}
}

func TestParseSGFMove(t *testing.T) {
	m, err := parseSGFMove("fe")
	if err != nil || m != (engine.Move{Row: 4, Col: 5}) {
		t.Errorf("parseSGFMove(fe) = %v, %v; want f5", m, err)
	}
	if m, _ := parseSGFMove("tt"); !m.IsPass() {
		t.Error("parseSGFMove(tt) is not a pass")
	}
	if _, err := parseSGFMove("zz"); err == nil {
		t.Error("parseSGFMove(zz) succeeded")
	}
	if got := formatSGFMove(engine.Move{Row: 4, Col: 5}); got != "fe" {
		t.Errorf("formatSGFMove(f5) = %q, want fe", got)
	}
}
