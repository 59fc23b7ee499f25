package match

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yourusername/othello/pkg/engine"
)

// SGF (Smart Game Format) is a standard format for recording games.
// Othello is game type 2. Points are two letters, column then row, so f5 is
// "fe". An empty value or "tt" is a pass.
//
// Example SGF:
// (;FF[4]GM[2]SZ[8]AP[othello:1.0]
//  PB[alice]PW[engine]
//  ;B[fe];W[fd];B[cd]
//  ...)

var (
	sgfPropertyRE = regexp.MustCompile(`([A-Z]+)\[([^\]]*)\]`)
)

// ImportSGF reads every game tree in SGF content.
func ImportSGF(r io.Reader) ([]*Record, error) {
	scanner := bufio.NewScanner(r)
	var content strings.Builder

	for scanner.Scan() {
		content.WriteString(scanner.Text())
		content.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading SGF file: %w", err)
	}

	return parseSGF(content.String())
}

// parseSGF parses SGF content into records.
func parseSGF(content string) ([]*Record, error) {
	var records []*Record

	// Find all game trees (each starts with '(')
	for i, gameContent := range splitSGFGames(content) {
		rec, err := parseSGFGame(gameContent)
		if err != nil {
			return nil, fmt.Errorf("parsing game %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// splitSGFGames splits SGF content into individual game trees.
func splitSGFGames(content string) []string {
	var games []string
	depth := 0
	start := -1

	for i, ch := range content {
		if ch == '(' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == ')' {
			depth--
			if depth == 0 && start >= 0 {
				games = append(games, content[start:i+1])
				start = -1
			}
		}
	}

	return games
}

// parseSGFProperties extracts all properties from SGF content.
func parseSGFProperties(content string) map[string]string {
	props := make(map[string]string)

	matches := sgfPropertyRE.FindAllStringSubmatch(content, -1)
	for _, m := range matches {
		if len(m) >= 3 {
			props[m[1]] = m[2]
		}
	}

	return props
}

// parseSGFGame parses a single SGF game tree.
func parseSGFGame(content string) (*Record, error) {
	rec := NewRecord("", "")

	// Split into nodes (separated by ';')
	nodes := strings.Split(content, ";")
	if len(nodes) < 2 {
		return nil, fmt.Errorf("no root node")
	}

	root := parseSGFProperties(nodes[1])
	if gm, ok := root["GM"]; ok && gm != "2" {
		return nil, fmt.Errorf("game type %s is not Othello", gm)
	}
	if sz, ok := root["SZ"]; ok && sz != "8" {
		return nil, fmt.Errorf("board size %s not supported", sz)
	}
	rec.Dark = root["PB"]
	rec.Light = root["PW"]
	rec.Date = root["DT"]
	rec.Event = root["EV"]
	rec.Result = root["RE"]

	for _, node := range nodes[1:] {
		props := parseSGFProperties(node)
		for _, key := range []string{"B", "W"} {
			v, ok := props[key]
			if !ok {
				continue
			}
			m, err := parseSGFMove(v)
			if err != nil {
				return nil, err
			}
			rec.Add(m)
		}
	}

	return rec, nil
}

// parseSGFMove parses SGF point notation.
func parseSGFMove(v string) (engine.Move, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "tt" {
		return engine.Pass, nil
	}
	if len(v) != 2 || v[0] < 'a' || v[0] > 'h' || v[1] < 'a' || v[1] > 'h' {
		return engine.Move{}, fmt.Errorf("%w: SGF point %q", engine.ErrInvalidMove, v)
	}
	return engine.Move{Row: int(v[1] - 'a'), Col: int(v[0] - 'a')}, nil
}

// formatSGFMove formats a move as SGF point notation.
func formatSGFMove(m engine.Move) string {
	if m.IsPass() {
		return ""
	}
	return string([]byte{byte('a' + m.Col), byte('a' + m.Row)})
}

// ExportSGF writes records in SGF format. Passes are re-derived by Replay
// and written explicitly so the colours alternate.
func ExportSGF(w io.Writer, records ...*Record) error {
	for _, rec := range records {
		if err := exportGameSGF(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// exportGameSGF writes a single game in SGF format.
func exportGameSGF(w io.Writer, rec *Record) error {
	_, steps, err := Replay(rec)
	if err != nil {
		return err
	}

	// Write game tree header
	fmt.Fprintf(w, "(;FF[4]GM[2]SZ[8]AP[othello:1.0]\n")

	// Write player names
	fmt.Fprintf(w, "PB[%s]PW[%s]\n", rec.Dark, rec.Light)

	if rec.Date != "" {
		fmt.Fprintf(w, "DT[%s]\n", rec.Date)
	}
	if rec.Event != "" {
		fmt.Fprintf(w, "EV[%s]\n", rec.Event)
	}
	if rec.Result != "" {
		fmt.Fprintf(w, "RE[%s]\n", rec.Result)
	}

	for _, st := range steps {
		colour := "B"
		if st.Side == engine.Light {
			colour = "W"
		}
		fmt.Fprintf(w, ";%s[%s]", colour, formatSGFMove(st.Move))
	}

	// Close game tree
	_, err = fmt.Fprintf(w, ")\n")
	return err
}
