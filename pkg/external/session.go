package external

import (
	"fmt"
	"strings"

	"github.com/yourusername/othello/pkg/engine"
)

// session is the per-connection state: the engine as configured by the
// connection's set commands.
type session struct {
	engine *engine.Engine
	seed   int64
}

func newSession(eng *engine.Engine, seed int64) *session {
	return &session{engine: eng, seed: seed}
}

// process handles one command line. quit is true after exit.
func (s *session) process(line string) (resp string, quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "Error: empty command\n", false
	}
	args := parts[1:]

	switch cmd := strings.ToLower(parts[0]); cmd {
	case "version":
		return Version + "\n", false
	case "help":
		return helpText, false
	case "exit", "quit":
		return "Goodbye\n", true
	case "set":
		return s.handleSet(args), false
	case "new":
		return s.handleNew(), false
	case "show":
		return s.handleShow(args), false
	case "legal":
		return s.handleLegal(args), false
	case "best":
		return s.handleBest(args), false
	case "play":
		return s.handlePlay(args), false
	default:
		return fmt.Sprintf("Error: unknown command '%s'\n", cmd), false
	}
}

const helpText = `Available commands:
  version                  - Show version information
  help                     - Show this help
  new                      - Start a game; prints the position and any engine move
  show <pos>               - Print the board
  legal <pos> [side]       - List legal moves (default: human side)
  best <pos> [side]        - Strategy's move (default: engine side)
  play <pos> <move>        - Play a human move and the engine's reply
  set mode greedy|random   - Change the engine strategy
  set side dark|light      - Change the human side
  exit                     - Close connection
Positions are position IDs or board:<64 cells of X, O and .>[:side].
`

func errorLine(err error) string {
	return fmt.Sprintf("Error: %v\n", err)
}

func (s *session) handleSet(args []string) string {
	if len(args) != 2 {
		return "Error: set requires option and value\n"
	}
	switch opt := strings.ToLower(args[0]); opt {
	case "mode":
		mode, err := engine.ParseStrategyMode(args[1])
		if err != nil {
			return errorLine(err)
		}
		eng, err := engine.NewEngine(engine.EngineOptions{HumanSide: s.engine.HumanSide(), Mode: mode, Seed: s.seed})
		if err != nil {
			return errorLine(err)
		}
		s.engine = eng
		return fmt.Sprintf("mode set to %s\n", mode)
	case "side":
		side, err := engine.ParseSide(args[1])
		if err != nil {
			return errorLine(err)
		}
		s.engine = engine.NewEngineWithStrategy(side, s.engine.Strategy())
		return fmt.Sprintf("side set to %s\n", side)
	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", opt)
	}
}

// handleNew prints "position <id>", followed by "engine <move>" when the
// engine opens.
func (s *session) handleNew() string {
	b, opening := s.engine.NewGame()
	var sb strings.Builder
	fmt.Fprintf(&sb, "position %s", b.PositionID())
	for _, m := range opening {
		fmt.Fprintf(&sb, " engine %s", m)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func (s *session) handleShow(args []string) string {
	if len(args) != 1 {
		return "Error: show requires a position\n"
	}
	b, err := parsePosition(args[0])
	if err != nil {
		return errorLine(err)
	}
	r := engine.Summarize(b)
	return fmt.Sprintf("%sdark %d light %d empty %d\n", b, r.Dark, r.Light, r.Empty)
}

// positionAndSide parses "<pos> [side]".
func positionAndSide(args []string, def engine.Side) (engine.Board, engine.Side, error) {
	if len(args) < 1 || len(args) > 2 {
		return engine.Board{}, def, fmt.Errorf("expected <pos> [side]")
	}
	b, err := parsePosition(args[0])
	if err != nil {
		return b, def, err
	}
	if len(args) == 2 {
		side, err := engine.ParseSide(args[1])
		return b, side, err
	}
	return b, def, nil
}

func (s *session) handleLegal(args []string) string {
	b, side, err := positionAndSide(args, s.engine.HumanSide())
	if err != nil {
		return errorLine(err)
	}
	moves := engine.LegalMoves(b, side)
	if len(moves) == 0 {
		return "none\n"
	}
	notes := make([]string, len(moves))
	for i, m := range moves {
		notes[i] = m.Notation()
	}
	return strings.Join(notes, " ") + "\n"
}

func (s *session) handleBest(args []string) string {
	b, side, err := positionAndSide(args, s.engine.EngineSide())
	if err != nil {
		return errorLine(err)
	}
	m, _ := s.engine.Strategy().Choose(b, side)
	return m.Notation() + "\n"
}

// handlePlay prints "position <id> engine <moves...>" with "pass" for an
// engine pass, then "human-passed" and a "result" clause when they apply.
func (s *session) handlePlay(args []string) string {
	if len(args) != 2 {
		return "Error: play requires a position and a move\n"
	}
	b, err := parsePosition(args[0])
	if err != nil {
		return errorLine(err)
	}
	m, err := engine.ParseMove(args[1])
	if err != nil {
		return errorLine(err)
	}

	res, err := s.engine.PlayTurn(b, m)
	if err != nil {
		return errorLine(err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "position %s engine", res.Board.PositionID())
	if res.EnginePassed {
		sb.WriteString(" pass")
	}
	for _, em := range res.EngineMoves {
		fmt.Fprintf(&sb, " %s", em)
	}
	if res.HumanPassed {
		sb.WriteString(" human-passed")
	}
	if res.GameOver() {
		winner := "draw"
		if res.Winner != nil {
			winner = res.Winner.String()
		}
		fmt.Fprintf(&sb, " result %d-%d %s", res.Dark, res.Light, winner)
	}
	sb.WriteByte('\n')
	return sb.String()
}
