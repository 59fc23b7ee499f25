package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourusername/othello/internal/positionid"
	"github.com/yourusername/othello/pkg/engine"
	"github.com/yourusername/othello/pkg/match"
)

// maxSelfPlayGames caps a single self-play request.
const maxSelfPlayGames = 10000

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine  *engine.Engine
	version string
	pool    *WorkerPool
}

// NewHandlers creates handlers without a worker pool.
func NewHandlers(e *engine.Engine, version string) *Handlers {
	return &Handlers{engine: e, version: version}
}

// NewHandlersWithPool creates handlers whose requests are bounded by pool.
func NewHandlersWithPool(e *engine.Engine, version string, pool *WorkerPool) *Handlers {
	return &Handlers{engine: e, version: version, pool: pool}
}

// apiError is a request failure with its HTTP status and error code.
type apiError struct {
	status int
	code   string
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func badRequest(code, format string, args ...interface{}) *apiError {
	return &apiError{status: http.StatusBadRequest, code: code, msg: fmt.Sprintf(format, args...)}
}

var errNotReady = &apiError{status: http.StatusServiceUnavailable, code: "NOT_READY", msg: "engine not loaded"}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

func writeAPIError(w http.ResponseWriter, e *apiError) {
	writeError(w, e.status, e.msg, e.code)
}

// decodeBody decodes a JSON request body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) *apiError {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("INVALID_JSON", "invalid JSON: %v", err)
	}
	return nil
}

// acquireMove takes a move slot, writing 503 when none is available.
func (h *Handlers) acquireMove(w http.ResponseWriter, r *http.Request) bool {
	if aerr := h.takeMoveSlot(r.Context()); aerr != nil {
		writeAPIError(w, aerr)
		return false
	}
	return true
}

// takeMoveSlot waits for a move slot until ctx is done.
func (h *Handlers) takeMoveSlot(ctx context.Context) *apiError {
	if h.pool == nil {
		return nil
	}
	if err := h.pool.AcquireMove(ctx); err != nil {
		return &apiError{status: http.StatusServiceUnavailable, code: "SERVER_BUSY", msg: "server busy"}
	}
	return nil
}

func (h *Handlers) releaseMove() {
	if h.pool != nil {
		h.pool.ReleaseMove()
	}
}

// parsePosition decodes a required position ID.
func parsePosition(posID string) (engine.Board, *apiError) {
	if posID == "" {
		return engine.Board{}, badRequest("MISSING_POSITION", "position is required")
	}
	b, err := engine.BoardFromPositionID(posID)
	if err != nil {
		return engine.Board{}, badRequest("INVALID_POSITION", "invalid position: %v", err)
	}
	return b, nil
}

// parseSide parses an optional side name.
func parseSide(name string, def engine.Side) (engine.Side, *apiError) {
	if name == "" {
		return def, nil
	}
	s, err := engine.ParseSide(name)
	if err != nil {
		return def, badRequest("INVALID_SIDE", "%v", err)
	}
	return s, nil
}

// engineFor returns the configured engine, or one sharing its strategy with
// the human on another side.
func (h *Handlers) engineFor(sideName string) (*engine.Engine, *apiError) {
	if h.engine == nil {
		return nil, errNotReady
	}
	side, aerr := parseSide(sideName, h.engine.HumanSide())
	if aerr != nil {
		return nil, aerr
	}
	if side == h.engine.HumanSide() {
		return h.engine, nil
	}
	return engine.NewEngineWithStrategy(side, h.engine.Strategy()), nil
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine != nil,
	}
	if h.engine != nil {
		resp.Strategy = h.engine.Strategy().Name()
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) newGame(req NewGameRequest) (*BoardResponse, *apiError) {
	eng, aerr := h.engineFor(req.HumanSide)
	if aerr != nil {
		return nil, aerr
	}
	b, opening := eng.NewGame()
	resp := newBoardResponse(b, eng.HumanSide())
	resp.EngineMove = moveInfos(opening)
	return &resp, nil
}

// NewGame handles POST /api/new
func (h *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	if !h.acquireMove(w, r) {
		return
	}
	defer h.releaseMove()

	var req NewGameRequest
	if aerr := decodeBody(r, &req); aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	resp, aerr := h.newGame(req)
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveMove reads the board and move from a request. A callback token
// carries both and takes precedence.
func resolveMove(req MoveRequest) (engine.Board, engine.Move, *apiError) {
	if req.CallbackData != "" {
		row, col, t, err := positionid.ParseCallbackData(req.CallbackData)
		if err != nil {
			return engine.Board{}, engine.Move{}, badRequest("INVALID_CALLBACK_DATA", "%v", err)
		}
		return engine.BoardFromTrits(t), engine.Move{Row: row, Col: col}, nil
	}

	b, aerr := parsePosition(req.Position)
	if aerr != nil {
		return b, engine.Move{}, aerr
	}
	switch {
	case req.Move != "":
		m, err := engine.ParseMove(req.Move)
		if err != nil {
			return b, m, badRequest("INVALID_MOVE", "%v", err)
		}
		return b, m, nil
	case req.Row != nil && req.Col != nil:
		return b, engine.Move{Row: *req.Row, Col: *req.Col}, nil
	}
	return b, engine.Move{}, badRequest("INVALID_MOVE", "move, row/col or callback_data is required")
}

// playMove runs one turn. For an illegal move the unchanged board is
// returned alongside the error.
func (h *Handlers) playMove(req MoveRequest) (*TurnResponse, *BoardResponse, *apiError) {
	eng, aerr := h.engineFor(req.HumanSide)
	if aerr != nil {
		return nil, nil, aerr
	}
	b, m, aerr := resolveMove(req)
	if aerr != nil {
		return nil, nil, aerr
	}

	res, err := eng.PlayTurn(b, m)
	board := newBoardResponse(res.Board, eng.HumanSide())
	if err != nil {
		return nil, &board, &apiError{status: http.StatusUnprocessableEntity, code: "ILLEGAL_MOVE", msg: err.Error()}
	}
	return &TurnResponse{
		HumanMove:    moveInfo(res.HumanMove),
		EngineMoves:  moveInfos(res.EngineMoves),
		EnginePassed: res.EnginePassed,
		HumanPassed:  res.HumanPassed,
		GameOver:     res.GameOver(),
		Board:        board,
	}, nil, nil
}

// Move handles POST /api/move
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	if !h.acquireMove(w, r) {
		return
	}
	defer h.releaseMove()

	var req MoveRequest
	if aerr := decodeBody(r, &req); aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	resp, board, aerr := h.playMove(req)
	if aerr != nil {
		if board != nil {
			writeJSON(w, aerr.status, IllegalMoveResponse{
				ErrorResponse: ErrorResponse{Error: aerr.msg, Code: aerr.code},
				Board:         *board,
			})
			return
		}
		writeAPIError(w, aerr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) legal(req PositionRequest) (*LegalResponse, *apiError) {
	if h.engine == nil {
		return nil, errNotReady
	}
	b, aerr := parsePosition(req.Position)
	if aerr != nil {
		return nil, aerr
	}
	side, aerr := parseSide(req.Side, h.engine.HumanSide())
	if aerr != nil {
		return nil, aerr
	}

	// Row-major order, unlike the ranked list from /api/best.
	moves := engine.LegalMoves(b, side)
	infos := make([]ScoredMoveInfo, len(moves))
	for i, m := range moves {
		infos[i] = scoredMoveInfo(b, engine.ScoredMove{Move: m, Score: engine.Score(b, m.Row, m.Col, side)}, side)
	}
	return &LegalResponse{
		Position: req.Position,
		Side:     side.String(),
		Moves:    infos,
		Count:    len(infos),
	}, nil
}

// Legal handles POST /api/legal
func (h *Handlers) Legal(w http.ResponseWriter, r *http.Request) {
	if !h.acquireMove(w, r) {
		return
	}
	defer h.releaseMove()

	var req PositionRequest
	if aerr := decodeBody(r, &req); aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	resp, aerr := h.legal(req)
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) best(req PositionRequest) (*BestResponse, *apiError) {
	if h.engine == nil {
		return nil, errNotReady
	}
	b, aerr := parsePosition(req.Position)
	if aerr != nil {
		return nil, aerr
	}
	side, aerr := parseSide(req.Side, h.engine.EngineSide())
	if aerr != nil {
		return nil, aerr
	}

	st := h.engine.Strategy()
	m, ok := st.Choose(b, side)
	return &BestResponse{
		Position: req.Position,
		Side:     side.String(),
		Strategy: st.Name(),
		Move:     moveInfo(m),
		Pass:     !ok,
		Ranked:   rankedInfos(b, side),
	}, nil
}

// Best handles POST /api/best
func (h *Handlers) Best(w http.ResponseWriter, r *http.Request) {
	if !h.acquireMove(w, r) {
		return
	}
	defer h.releaseMove()

	var req PositionRequest
	if aerr := decodeBody(r, &req); aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	resp, aerr := h.best(req)
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// KeyboardHandler handles GET /api/keyboard?position=...&side=...
func (h *Handlers) KeyboardHandler(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeAPIError(w, errNotReady)
		return
	}
	q := r.URL.Query()
	b, aerr := parsePosition(q.Get("position"))
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	side, aerr := parseSide(q.Get("side"), h.engine.HumanSide())
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	writeJSON(w, http.StatusOK, newBoardResponse(b, side))
}

// Tutor handles POST /api/tutor/move
func (h *Handlers) Tutor(w http.ResponseWriter, r *http.Request) {
	if !h.acquireMove(w, r) {
		return
	}
	defer h.releaseMove()

	if h.engine == nil {
		writeAPIError(w, errNotReady)
		return
	}
	var req TutorRequest
	if aerr := decodeBody(r, &req); aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	b, aerr := parsePosition(req.Position)
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	side, aerr := parseSide(req.Side, h.engine.HumanSide())
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	m, err := engine.ParseMove(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_MOVE")
		return
	}

	a, err := engine.AnalyzeMove(b, m, side)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "ILLEGAL_MOVE")
		return
	}
	resp := TutorResponse{
		Played:     scoredMoveInfo(b, a.Played, side),
		Best:       scoredMoveInfo(b, a.Best, side),
		Loss:       a.Loss,
		Rank:       a.Rank,
		NumLegal:   a.NumLegal,
		IsForced:   a.IsForced,
		Skill:      a.Skill.String(),
		SkillAbbr:  a.Skill.Abbr(),
		Suggestion: a.Suggestion(),
	}
	for _, sm := range a.TopMoves {
		resp.TopMoves = append(resp.TopMoves, scoredMoveInfo(b, sm, side))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Opening handles POST /api/opening
func (h *Handlers) Opening(w http.ResponseWriter, r *http.Request) {
	var req OpeningRequest
	if aerr := decodeBody(r, &req); aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	moves, err := match.ParseTranscript(req.Moves)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_MOVE")
		return
	}
	resp := OpeningResponse{Moves: strings.ToLower(req.Moves)}
	if e, ok := engine.LookupOpening(moves); ok {
		resp.Name = e.Name
		resp.Transcript = e.Transcript
		resp.Found = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// selfPlayOptions validates a self-play request.
func selfPlayOptions(req SelfPlayRequest) (engine.SelfPlayOptions, *apiError) {
	opts := engine.DefaultSelfPlayOptions()
	if req.Games > 0 {
		opts.Games = req.Games
	}
	if opts.Games > maxSelfPlayGames {
		return opts, badRequest("INVALID_GAMES", "games must be at most %d", maxSelfPlayGames)
	}
	for _, m := range []struct {
		name string
		dst  *engine.StrategyMode
	}{
		{req.DarkMode, &opts.DarkMode},
		{req.LightMode, &opts.LightMode},
	} {
		if m.name == "" {
			continue
		}
		mode, err := engine.ParseStrategyMode(m.name)
		if err != nil {
			return opts, badRequest("INVALID_MODE", "%v", err)
		}
		*m.dst = mode
	}
	opts.Seed = req.Seed
	opts.Workers = req.Workers
	return opts, nil
}

func selfPlayResponse(opts engine.SelfPlayOptions, res *engine.SelfPlayResult) SelfPlayResponse {
	return SelfPlayResponse{
		Games:        res.GamesCompleted,
		DarkMode:     opts.DarkMode.String(),
		LightMode:    opts.LightMode.String(),
		DarkWins:     res.DarkWins,
		LightWins:    res.LightWins,
		Draws:        res.Draws,
		MeanMargin:   res.MeanMargin,
		MarginStdDev: res.MarginStdDev,
		MarginCI:     res.MarginCI,
		MeanPlies:    res.MeanPlies,
	}
}

// SelfPlay handles POST /api/selfplay
func (h *Handlers) SelfPlay(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if !h.pool.TryAcquireBatch() {
			writeError(w, http.StatusServiceUnavailable, "server busy, try again later", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseBatch()
	}

	var req SelfPlayRequest
	if aerr := decodeBody(r, &req); aerr != nil {
		writeAPIError(w, aerr)
		return
	}
	opts, aerr := selfPlayOptions(req)
	if aerr != nil {
		writeAPIError(w, aerr)
		return
	}

	res, err := engine.SelfPlay(r.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, r.Context().Err()) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "self-play failed: "+err.Error(), "SELFPLAY_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, selfPlayResponse(opts, res))
}
