package api

import (
	"strings"

	"github.com/yourusername/othello/internal/positionid"
	"github.com/yourusername/othello/pkg/engine"
)

// Keyboard renders b as an 8x8 grid of buttons. Every button carries the
// callback token for its square and the current position, so a client can
// post the token back to /api/move without keeping any state.
func Keyboard(b engine.Board) [][]Button {
	t := b.Trits()
	rows := make([][]Button, engine.BoardSize)
	for row := range rows {
		rows[row] = make([]Button, engine.BoardSize)
		for col := range rows[row] {
			rows[row][col] = Button{
				Label:        b[row][col].Glyph(),
				CallbackData: positionid.CallbackData(row, col, t),
			}
		}
	}
	return rows
}

// boardRows renders each row as eight characters of X, O and '.'.
func boardRows(b engine.Board) []string {
	rows := make([]string, engine.BoardSize)
	for row := range rows {
		var sb strings.Builder
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
		rows[row] = sb.String()
	}
	return rows
}

func moveInfo(m engine.Move) MoveInfo {
	return MoveInfo{Move: m.Notation(), Row: m.Row, Col: m.Col}
}

func moveInfos(moves []engine.Move) []MoveInfo {
	out := make([]MoveInfo, len(moves))
	for i, m := range moves {
		out[i] = moveInfo(m)
	}
	return out
}

func scoredMoveInfo(b engine.Board, sm engine.ScoredMove, s engine.Side) ScoredMoveInfo {
	flips := engine.Flips(b, sm.Move.Row, sm.Move.Col, s)
	info := ScoredMoveInfo{MoveInfo: moveInfo(sm.Move), Score: sm.Score}
	for _, f := range flips {
		info.Flips = append(info.Flips, f.Notation())
	}
	return info
}

func rankedInfos(b engine.Board, s engine.Side) []ScoredMoveInfo {
	ranked := engine.RankMoves(b, s)
	out := make([]ScoredMoveInfo, len(ranked))
	for i, sm := range ranked {
		out[i] = scoredMoveInfo(b, sm, s)
	}
	return out
}

// newBoardResponse describes b from the human's point of view.
func newBoardResponse(b engine.Board, human engine.Side) BoardResponse {
	return BoardResponse{
		Position:   b.PositionID(),
		Rows:       boardRows(b),
		HumanSide:  human.String(),
		LegalMoves: moveInfos(engine.LegalMoves(b, human)),
		Keyboard:   Keyboard(b),
		Result:     engine.Summarize(b),
	}
}
