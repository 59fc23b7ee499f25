package engine

import "fmt"

// SkillType represents the skill rating of a move.
type SkillType int

const (
	SkillVeryBad  SkillType = iota // Blunder: flips >= 4 fewer discs than the best move
	SkillBad                       // Error: 2-3 fewer
	SkillDoubtful                  // Doubtful: 1 fewer
	SkillNone                      // Best or tied for best
)

// String returns the display name of the skill type.
func (s SkillType) String() string {
	return [...]string{"Very Bad", "Bad", "Doubtful", "None"}[s]
}

// Abbr returns the abbreviated notation (?, ??, ?!).
func (s SkillType) Abbr() string {
	return [...]string{"??", "?", "?!", ""}[s]
}

// SkillThresholds are the flip-count loss thresholds for skill ratings.
var SkillThresholds = [3]int{
	4, // very bad
	2, // bad
	1, // doubtful
}

// ClassifySkill returns the skill rating for a loss in flipped discs.
func ClassifySkill(loss int) SkillType {
	switch {
	case loss >= SkillThresholds[0]:
		return SkillVeryBad
	case loss >= SkillThresholds[1]:
		return SkillBad
	case loss >= SkillThresholds[2]:
		return SkillDoubtful
	}
	return SkillNone
}

// MoveAnalysis compares a played move with the alternatives.
type MoveAnalysis struct {
	Played   ScoredMove   `json:"played"`
	Best     ScoredMove   `json:"best"`
	Loss     int          `json:"loss"` // Best score minus played score
	Rank     int          `json:"rank"` // 1-based position in RankMoves
	NumLegal int          `json:"num_legal"`
	IsForced bool         `json:"is_forced"`
	Skill    SkillType    `json:"skill"`
	TopMoves []ScoredMove `json:"top_moves,omitempty"`
}

// AnalyzeMove rates move m for side s on board b.
func AnalyzeMove(b Board, m Move, s Side) (*MoveAnalysis, error) {
	if !IsLegal(b, m.Row, m.Col, s) {
		return nil, fmt.Errorf("%w: %s for %s", ErrIllegalMove, m.Notation(), s)
	}

	ranked := RankMoves(b, s)
	a := &MoveAnalysis{
		Best:     ranked[0],
		NumLegal: len(ranked),
		IsForced: len(ranked) == 1,
	}
	for i, sm := range ranked {
		if sm.Move == m {
			a.Played = sm
			a.Rank = i + 1
			break
		}
	}
	a.Loss = a.Best.Score - a.Played.Score
	a.Skill = ClassifySkill(a.Loss)

	n := len(ranked)
	if n > 5 {
		n = 5
	}
	a.TopMoves = ranked[:n]
	return a, nil
}

// Suggestion returns a one-line comment on the analysis.
func (a *MoveAnalysis) Suggestion() string {
	if a.IsForced {
		return "Forced move."
	}
	if a.Skill == SkillNone {
		return fmt.Sprintf("%s flips the most discs (%d).", a.Played.Move, a.Played.Score)
	}
	return fmt.Sprintf("%s%s flips %d; %s would flip %d.",
		a.Played.Move, a.Skill.Abbr(), a.Played.Score, a.Best.Move, a.Best.Score)
}
