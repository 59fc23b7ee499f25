// Package api provides the HTTP/JSON and WebSocket API for the Othello engine.
package api

import "github.com/yourusername/othello/pkg/engine"

// ============================================================================
// Request Types
// ============================================================================

// NewGameRequest is the optional body for POST /api/new.
type NewGameRequest struct {
	HumanSide string `json:"human_side,omitempty"` // "dark" or "light" (default: server setting)
}

// MoveRequest is the body for POST /api/move. The move is given either as
// row/col, as notation ("d3"), or as a keyboard callback token that also
// carries the position.
type MoveRequest struct {
	Position     string `json:"position,omitempty"`      // Position ID
	Row          *int   `json:"row,omitempty"`           // 0-based row
	Col          *int   `json:"col,omitempty"`           // 0-based column
	Move         string `json:"move,omitempty"`          // Notation, e.g. "d3"
	CallbackData string `json:"callback_data,omitempty"` // "<row><col><position>"
	HumanSide    string `json:"human_side,omitempty"`    // Override the server's human side
}

// PositionRequest is the body for endpoints that take a position and a side.
type PositionRequest struct {
	Position string `json:"position"`       // Position ID
	Side     string `json:"side,omitempty"` // "dark" or "light" (default: human side for legal, engine side for best)
}

// TutorRequest is the body for POST /api/tutor/move.
type TutorRequest struct {
	Position string `json:"position"`       // Position before the move
	Side     string `json:"side,omitempty"` // Side that moved (default: human side)
	Move     string `json:"move"`           // Played move, e.g. "f4"
}

// OpeningRequest is the body for POST /api/opening.
type OpeningRequest struct {
	Moves string `json:"moves"` // Transcript from the opening position, e.g. "f5d6c3"
}

// SelfPlayRequest is the body for POST /api/selfplay. The stream endpoint
// takes the same fields as query parameters.
type SelfPlayRequest struct {
	Games     int    `json:"games,omitempty"`      // Number of games (default 100, max 10000)
	DarkMode  string `json:"dark_mode,omitempty"`  // "greedy" or "random" (default greedy)
	LightMode string `json:"light_mode,omitempty"` // "greedy" or "random" (default random)
	Seed      int64  `json:"seed,omitempty"`       // RNG seed (0 = random)
	Workers   int    `json:"workers,omitempty"`    // Parallel workers (0 = GOMAXPROCS)
}

// ============================================================================
// Response Types
// ============================================================================

// MoveInfo describes one move.
type MoveInfo struct {
	Move string `json:"move"` // Notation, "pass" for a pass
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// ScoredMoveInfo is a legal move with its heuristic score and flipped squares.
type ScoredMoveInfo struct {
	MoveInfo
	Score int      `json:"score"`
	Flips []string `json:"flips,omitempty"`
}

// Button is one keyboard cell. Pressing it sends CallbackData back as a move.
type Button struct {
	Label        string `json:"label"`
	CallbackData string `json:"callback_data"`
}

// BoardResponse describes a position.
type BoardResponse struct {
	Position   string     `json:"position"`              // Position ID
	Rows       []string   `json:"rows"`                  // Eight rows of X, O and .
	HumanSide  string     `json:"human_side"`            // Side the human plays
	LegalMoves []MoveInfo `json:"legal_moves"`           // Human's legal moves
	Keyboard   [][]Button `json:"keyboard,omitempty"`    // 8x8 inline keyboard
	EngineMove []MoveInfo `json:"engine_move,omitempty"` // Engine's opening move on a new game

	engine.Result
}

// TurnResponse is returned by POST /api/move.
type TurnResponse struct {
	HumanMove    MoveInfo      `json:"human_move"`
	EngineMoves  []MoveInfo    `json:"engine_moves"`
	EnginePassed bool          `json:"engine_passed"`
	HumanPassed  bool          `json:"human_passed"`
	GameOver     bool          `json:"game_over"`
	Board        BoardResponse `json:"board"`
}

// IllegalMoveResponse is the 422 body for an illegal move.
type IllegalMoveResponse struct {
	ErrorResponse
	Board BoardResponse `json:"board"`
}

// LegalResponse lists the legal moves for a side.
type LegalResponse struct {
	Position string           `json:"position"`
	Side     string           `json:"side"`
	Moves    []ScoredMoveInfo `json:"moves"`
	Count    int              `json:"count"`
}

// BestResponse is the strategy's choice for a side.
type BestResponse struct {
	Position string           `json:"position"`
	Side     string           `json:"side"`
	Strategy string           `json:"strategy"`
	Move     MoveInfo         `json:"move"`
	Pass     bool             `json:"pass"`
	Ranked   []ScoredMoveInfo `json:"ranked"`
}

// TutorResponse rates a played move.
type TutorResponse struct {
	Played     ScoredMoveInfo   `json:"played"`
	Best       ScoredMoveInfo   `json:"best"`
	Loss       int              `json:"loss"`
	Rank       int              `json:"rank"`
	NumLegal   int              `json:"num_legal"`
	IsForced   bool             `json:"is_forced"`
	Skill      string           `json:"skill"`
	SkillAbbr  string           `json:"skill_abbr"`
	Suggestion string           `json:"suggestion"`
	TopMoves   []ScoredMoveInfo `json:"top_moves,omitempty"`
}

// OpeningResponse names the opening a transcript follows.
type OpeningResponse struct {
	Moves      string `json:"moves"`
	Name       string `json:"name,omitempty"`
	Transcript string `json:"transcript,omitempty"` // Book line, oriented to start with f5
	Found      bool   `json:"found"`
}

// SelfPlayResponse aggregates a self-play batch.
type SelfPlayResponse struct {
	Games        int     `json:"games"`
	DarkMode     string  `json:"dark_mode"`
	LightMode    string  `json:"light_mode"`
	DarkWins     int     `json:"dark_wins"`
	LightWins    int     `json:"light_wins"`
	Draws        int     `json:"draws"`
	MeanMargin   float64 `json:"mean_margin"`
	MarginStdDev float64 `json:"margin_std_dev"`
	MarginCI     float64 `json:"margin_ci"`
	MeanPlies    float64 `json:"mean_plies"`
}

// SelfPlayProgressEvent is streamed by GET /api/selfplay/stream.
type SelfPlayProgressEvent struct {
	GamesCompleted int     `json:"games_completed"`
	GamesTotal     int     `json:"games_total"`
	Percent        float64 `json:"percent"`
	DarkWinRate    float64 `json:"dark_win_rate"`
	MeanMargin     float64 `json:"mean_margin"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string     `json:"status"`
	Version  string     `json:"version"`
	Ready    bool       `json:"ready"`
	Strategy string     `json:"strategy,omitempty"`
	Pool     *PoolStats `json:"pool,omitempty"`
}

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
