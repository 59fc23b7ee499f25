package external

import (
	"fmt"
	"strings"

	"github.com/yourusername/othello/pkg/engine"
)

// boardPrefix introduces a literal board string.
const boardPrefix = "board:"

// ParseBoardString parses a literal board of the form
//
//	board:<64 cells>[:<side>]
//
// with cells in row-major order as X (dark), O (light) or . / - (empty).
// The optional side names the player to move; it defaults to dark.
func ParseBoardString(s string) (engine.Board, engine.Side, error) {
	var b engine.Board
	s = strings.TrimPrefix(strings.TrimSpace(s), boardPrefix)

	parts := strings.Split(s, ":")
	if len(parts) > 2 {
		return b, engine.Dark, fmt.Errorf("invalid board string: %d fields", len(parts))
	}
	cells := parts[0]
	if len(cells) != engine.BoardSize*engine.BoardSize {
		return b, engine.Dark, fmt.Errorf("invalid board string: %d cells, want %d", len(cells), engine.BoardSize*engine.BoardSize)
	}
	for i := 0; i < len(cells); i++ {
		row, col := i/engine.BoardSize, i%engine.BoardSize
		switch cells[i] {
		case 'X', 'x':
			b[row][col] = engine.DarkDisc
		case 'O', 'o':
			b[row][col] = engine.LightDisc
		case '.', '-':
		default:
			return b, engine.Dark, fmt.Errorf("invalid board string: cell %d is %q", i, cells[i])
		}
	}

	side := engine.Dark
	if len(parts) == 2 {
		var err error
		if side, err = engine.ParseSide(parts[1]); err != nil {
			return b, engine.Dark, err
		}
	}
	return b, side, nil
}

// FormatBoardString is the inverse of ParseBoardString.
func FormatBoardString(b engine.Board, side engine.Side) string {
	var sb strings.Builder
	sb.WriteString(boardPrefix)
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			switch b[row][col] {
			case engine.DarkDisc:
				sb.WriteByte('X')
			case engine.LightDisc:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
	}
	sb.WriteByte(':')
	sb.WriteString(side.String())
	return sb.String()
}

// parsePosition accepts either a position ID or a board string.
func parsePosition(arg string) (engine.Board, error) {
	if strings.HasPrefix(arg, boardPrefix) {
		b, _, err := ParseBoardString(arg)
		return b, err
	}
	return engine.BoardFromPositionID(arg)
}
