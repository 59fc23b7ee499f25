package match

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yourusername/othello/pkg/engine"
)

// The text format is a tag header followed by the transcript.
// Example:
//
//	[Event "Club night"]
//	[Date "2026-10-17"]
//	[Dark "alice"]
//	[Light "engine"]
//	[Result "19-45"]
//	[Opening "Diagonal"]
//
//	d3c3b3b2b1e3f3a1c4g3h3e2f5a3e1d6c2d2a2c1
//	d7g6d1c5e6f2g2e7e8f4f6h2f1g1h1b4c6c7b8f7

var tagRE = regexp.MustCompile(`^\[(\w+)\s+"([^"]*)"\]$`)

// movesPerLine is the transcript wrap width when exporting.
const movesPerLine = 20

// ImportText reads a record in the tagged transcript format.
func ImportText(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	rec := NewRecord("", "")
	var transcript strings.Builder

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			m := tagRE.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("malformed tag line %q", line)
			}
			switch strings.ToLower(m[1]) {
			case "dark", "black":
				rec.Dark = m[2]
			case "light", "white":
				rec.Light = m[2]
			case "date":
				rec.Date = m[2]
			case "event":
				rec.Event = m[2]
			case "result":
				rec.Result = m[2]
			}
			// Opening and unknown tags are informational.
			continue
		}

		transcript.WriteString(line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}

	moves, err := ParseTranscript(transcript.String())
	if err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}
	rec.Moves = moves
	return rec, nil
}

// ExportText writes a record in the tagged transcript format. The Opening tag
// is added when the moves start a named line.
func ExportText(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)

	writeTag := func(name, value string) {
		if value != "" {
			fmt.Fprintf(bw, "[%s \"%s\"]\n", name, value)
		}
	}
	writeTag("Event", rec.Event)
	writeTag("Date", rec.Date)
	writeTag("Dark", rec.Dark)
	writeTag("Light", rec.Light)
	writeTag("Result", rec.Result)
	if op, ok := engine.LookupOpening(rec.Moves); ok {
		writeTag("Opening", op.Name)
	}
	bw.WriteString("\n")

	n := 0
	for _, m := range rec.Moves {
		if m.IsPass() {
			continue
		}
		bw.WriteString(m.Notation())
		n++
		if n%movesPerLine == 0 {
			bw.WriteString("\n")
		}
	}
	if n%movesPerLine != 0 {
		bw.WriteString("\n")
	}
	return bw.Flush()
}
