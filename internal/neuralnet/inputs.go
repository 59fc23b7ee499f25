package neuralnet

import "github.com/yourusername/othello/internal/positionid"

// NumInputs is one input per square.
const NumInputs = positionid.NumTrits

// Inputs converts a board to network inputs from the point of view of the
// player whose discs are own: +1 for own discs, -1 for the opponent's, 0 for
// empty squares.
func Inputs(board positionid.Board, own uint8) []float64 {
	inputs := make([]float64, NumInputs)
	InputsInto(board, own, inputs)
	return inputs
}

// InputsInto writes the inputs for board into a slice of length NumInputs.
func InputsInto(board positionid.Board, own uint8, inputs []float64) {
	i := 0
	for row := 0; row < positionid.BoardSize; row++ {
		for col := 0; col < positionid.BoardSize; col++ {
			switch v := board[row][col]; {
			case v == positionid.TritEmpty:
				inputs[i] = 0
			case v == own:
				inputs[i] = 1
			default:
				inputs[i] = -1
			}
			i++
		}
	}
}
