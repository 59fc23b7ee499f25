// Package positionid implements position encoding/decoding for Othello boards.
//
// A board is treated as a base-3 numeral with one trit per cell, read row-major
// with cell (0,0) as the most significant trit. Trit values are 0 for an empty
// cell, 1 for a light disc and 2 for a dark disc. The resulting non-negative
// integer is the only state carried between interactions; its decimal string
// form is the position ID.
package positionid

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// BoardSize is the number of rows and columns.
	BoardSize = 8
	// NumTrits is the number of trits in an encoded board.
	NumTrits = BoardSize * BoardSize
)

// Trit values for a single cell.
const (
	TritEmpty uint8 = 0
	TritLight uint8 = 1
	TritDark  uint8 = 2
)

// Board is the codec view of a position: one trit per cell, [row][col].
type Board [BoardSize][BoardSize]uint8

var three = big.NewInt(3)

var (
	// ErrInvalidPositionID is returned when a position ID is not a non-negative decimal integer
	ErrInvalidPositionID = errors.New("invalid position ID")
	// ErrInvalidCallbackData is returned when a keyboard token cannot be split into row, col and position
	ErrInvalidCallbackData = errors.New("invalid callback data")
)

// Encode converts a board to its base-3 integer.
// Trits outside 0-2 are treated as empty.
func Encode(board Board) *big.Int {
	n := new(big.Int)
	t := new(big.Int)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			n.Mul(n, three)
			v := board[row][col]
			if v == TritLight || v == TritDark {
				n.Add(n, t.SetUint64(uint64(v)))
			}
		}
	}
	return n
}

// Decode converts a base-3 integer back to a board.
//
// Exactly 64 trits are read starting from the least significant one (cell (7,7)).
// A short numeral leaves the leading cells empty, so 0 decodes to an empty board.
// Trits beyond the 64th are discarded. Nil and negative values decode as 0.
func Decode(n *big.Int) Board {
	var board Board
	if n == nil || n.Sign() <= 0 {
		return board
	}

	q := new(big.Int).Set(n)
	r := new(big.Int)
	for row := BoardSize - 1; row >= 0; row-- {
		for col := BoardSize - 1; col >= 0; col-- {
			q.QuoRem(q, three, r)
			board[row][col] = uint8(r.Uint64())
		}
	}
	return board
}

// PositionID returns the decimal string form of a board's encoding.
func PositionID(board Board) string {
	return Encode(board).String()
}

// BoardFromPositionID decodes a decimal position ID string to a board.
func BoardFromPositionID(posID string) (Board, error) {
	var board Board

	n, err := parsePositionNumber(posID)
	if err != nil {
		return board, err
	}
	return Decode(n), nil
}

func parsePositionNumber(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidPositionID
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, ErrInvalidPositionID
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, ErrInvalidPositionID
	}
	return n, nil
}

// CallbackData builds the keyboard token for a cell: one digit for the row,
// one digit for the column, then the position ID of the board.
func CallbackData(row, col int, board Board) string {
	return fmt.Sprintf("%d%d%s", row, col, PositionID(board))
}

// ParseCallbackData splits a keyboard token produced by CallbackData.
func ParseCallbackData(data string) (row, col int, board Board, err error) {
	data = strings.TrimSpace(data)
	if len(data) < 3 {
		return 0, 0, board, fmt.Errorf("%w: too short", ErrInvalidCallbackData)
	}
	if !isDigit(data[0]) || !isDigit(data[1]) {
		return 0, 0, board, fmt.Errorf("%w: bad cell %q", ErrInvalidCallbackData, data[:2])
	}
	row = int(data[0] - '0')
	col = int(data[1] - '0')
	if row >= BoardSize || col >= BoardSize {
		return 0, 0, board, fmt.Errorf("%w: cell %d,%d out of range", ErrInvalidCallbackData, row, col)
	}

	board, err = BoardFromPositionID(data[2:])
	if err != nil {
		return 0, 0, board, fmt.Errorf("%w: %v", ErrInvalidCallbackData, err)
	}
	return row, col, board, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
