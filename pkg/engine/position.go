// Package engine provides the public API for the Othello engine.
package engine

import (
	"fmt"
	"strings"

	"github.com/yourusername/othello/internal/positionid"
)

// BoardSize is the number of rows and columns on the board.
const BoardSize = positionid.BoardSize

// Cell is the content of a single square.
// Values match the trits used by the position codec.
type Cell uint8

const (
	Empty     Cell = Cell(positionid.TritEmpty)
	LightDisc Cell = Cell(positionid.TritLight)
	DarkDisc  Cell = Cell(positionid.TritDark)
)

// String returns the lower-case name of the cell content.
func (c Cell) String() string {
	switch c {
	case DarkDisc:
		return "dark"
	case LightDisc:
		return "light"
	default:
		return "empty"
	}
}

// Glyph returns the label used when a cell is rendered as a button.
func (c Cell) Glyph() string {
	switch c {
	case DarkDisc:
		return "⚫️"
	case LightDisc:
		return "⚪️"
	default:
		return "  "
	}
}

// Side reports which side occupies the cell. ok is false for Empty.
func (c Cell) Side() (s Side, ok bool) {
	switch c {
	case DarkDisc:
		return Dark, true
	case LightDisc:
		return Light, true
	}
	return Dark, false
}

// Side is one of the two players. It is distinct from Cell so an empty square
// can never be passed where a player is expected.
type Side uint8

const (
	Dark Side = iota
	Light
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Dark {
		return Light
	}
	return Dark
}

// Cell returns the disc a side places on the board.
func (s Side) Cell() Cell {
	if s == Dark {
		return DarkDisc
	}
	return LightDisc
}

func (s Side) String() string {
	if s == Dark {
		return "dark"
	}
	return "light"
}

// MarshalText encodes a side as "dark" or "light".
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names understood by ParseSide.
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseSide parses "dark"/"black"/"x" or "light"/"white"/"o".
func ParseSide(str string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "dark", "black", "b", "x":
		return Dark, nil
	case "light", "white", "w", "o":
		return Light, nil
	}
	return Dark, fmt.Errorf("%w: %q", ErrInvalidSide, str)
}

// Board is the 8x8 grid, indexed [row][col]. It is a plain value: assigning
// a Board copies it.
type Board [BoardSize][BoardSize]Cell

// StartingPosition returns the standard Othello opening position.
func StartingPosition() Board {
	var b Board
	mid := BoardSize / 2
	b[mid-1][mid-1], b[mid][mid] = LightDisc, LightDisc
	b[mid-1][mid], b[mid][mid-1] = DarkDisc, DarkDisc
	return b
}

// Count returns the number of cells holding c.
func (b Board) Count(c Cell) int {
	n := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col] == c {
				n++
			}
		}
	}
	return n
}

// String renders the board as text, dark as X and light as O.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < BoardSize; row++ {
		fmt.Fprintf(&sb, "%d", row+1)
		for col := 0; col < BoardSize; col++ {
			switch b[row][col] {
			case DarkDisc:
				sb.WriteString(" X")
			case LightDisc:
				sb.WriteString(" O")
			default:
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Trits converts the board to the codec representation.
func (b Board) Trits() positionid.Board {
	var t positionid.Board
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			t[row][col] = uint8(b[row][col])
		}
	}
	return t
}

// BoardFromTrits converts a codec board back to cells.
// Values outside the trit range become Empty.
func BoardFromTrits(t positionid.Board) Board {
	var b Board
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch c := Cell(t[row][col]); c {
			case DarkDisc, LightDisc:
				b[row][col] = c
			}
		}
	}
	return b
}

// PositionID returns the opaque token for the board.
func (b Board) PositionID() string {
	return positionid.PositionID(b.Trits())
}

// BoardFromPositionID decodes a token produced by Board.PositionID.
func BoardFromPositionID(posID string) (Board, error) {
	t, err := positionid.BoardFromPositionID(posID)
	if err != nil {
		return Board{}, err
	}
	return BoardFromTrits(t), nil
}

// Move is a square on the board. The acting side is supplied separately.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pass is the move recorded when a side has no legal move.
var Pass = Move{Row: -1, Col: -1}

// IsPass reports whether m is the pass sentinel.
func (m Move) IsPass() bool {
	return m == Pass
}

// InBounds reports whether the move addresses a square on the board.
func (m Move) InBounds() bool {
	return inBounds(m.Row, m.Col)
}

// Notation returns the move in standard notation: column letter then
// 1-based row, e.g. "d3". A pass is "pass".
func (m Move) Notation() string {
	if m.IsPass() {
		return "pass"
	}
	if !m.InBounds() {
		return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

func (m Move) String() string {
	return m.Notation()
}

// ParseMove parses "d3"/"D3" notation, a two-digit "row col" form such as
// "23" (zero-based, as used by keyboard tokens), or "pass".
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "pass" || s == "--" {
		return Pass, nil
	}
	if len(s) != 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	var m Move
	switch {
	case s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8':
		m = Move{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}
	case s[0] >= '0' && s[0] <= '7' && s[1] >= '0' && s[1] <= '7':
		m = Move{Row: int(s[0] - '0'), Col: int(s[1] - '0')}
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	return m, nil
}
