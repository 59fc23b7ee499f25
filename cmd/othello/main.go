// othello - command-line Othello engine: play, analyse, self-play and training
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/othello/internal/neuralnet"
	"github.com/yourusername/othello/pkg/engine"
	"github.com/yourusername/othello/pkg/match"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "new":
		cmdNew(args)
	case "show":
		cmdShow(args)
	case "legal":
		cmdLegal(args)
	case "best":
		cmdBest(args)
	case "play":
		cmdPlay(args)
	case "tutor":
		cmdTutor(args)
	case "opening":
		cmdOpening(args)
	case "selfplay":
		cmdSelfPlay(args)
	case "train":
		cmdTrain(args)
	case "replay":
		cmdReplay(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`othello - Othello engine

Usage: othello <command> [options]

Commands:
  new       Start a game and print the opening position
  show      Print a position
  legal     List legal moves
  best      Rank moves and show the strategy's choice
  play      Play a move and the engine's reply
  tutor     Rate a played move
  opening   Name the opening of a transcript
  selfplay  Engine-vs-engine batch with statistics
  train     Train a neural strategy by self-play
  replay    Replay or convert a game record (text or SGF)

Use "othello <command> -h" for command-specific help.

Positions:
  A position is the decimal position ID printed by every command,
  e.g. 250211104677393444 for the opening position.`)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// positionFlags registers -position and its short form -p.
func positionFlags(fs *flag.FlagSet) func() engine.Board {
	long := fs.String("position", "", "Position ID")
	short := fs.String("p", "", "Position ID (short form)")
	return func() engine.Board {
		pos := *long
		if pos == "" {
			pos = *short
		}
		if pos == "" {
			fatalf("position required (-position <id>)")
		}
		b, err := engine.BoardFromPositionID(pos)
		if err != nil {
			fatalf("invalid position: %v", err)
		}
		return b
	}
}

func parseSideFlag(name string) engine.Side {
	s, err := engine.ParseSide(name)
	if err != nil {
		fatalf("%v", err)
	}
	return s
}

func createEngine(human, mode string, seed int64) *engine.Engine {
	m, err := engine.ParseStrategyMode(mode)
	if err != nil {
		fatalf("%v", err)
	}
	e, err := engine.NewEngine(engine.EngineOptions{HumanSide: parseSideFlag(human), Mode: m, Seed: seed})
	if err != nil {
		fatalf("failed to create engine: %v", err)
	}
	return e
}

func printBoard(b engine.Board) {
	r := engine.Summarize(b)
	fmt.Print(b)
	fmt.Printf("Dark (X): %d  Light (O): %d  Empty: %d\n", r.Dark, r.Light, r.Empty)
	fmt.Printf("Position: %s\n", b.PositionID())
}

func printResult(r engine.Result) {
	switch {
	case !r.Terminal:
		return
	case r.Winner == nil:
		fmt.Printf("Game over: draw %d-%d\n", r.Dark, r.Light)
	default:
		fmt.Printf("Game over: %s wins %d-%d\n", r.Winner, r.Dark, r.Light)
	}
}

func cmdNew(args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	human := fs.String("human", "dark", "Side the human plays (dark or light)")
	mode := fs.String("mode", "greedy", "Engine strategy (greedy or random)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	fs.Parse(args)

	e := createEngine(*human, *mode, *seed)
	b, opening := e.NewGame()
	for _, m := range opening {
		fmt.Printf("Engine (%s) plays %s\n", e.EngineSide(), m)
	}
	printBoard(b)
}

func cmdShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	pos := positionFlags(fs)
	fs.Parse(args)

	b := pos()
	printBoard(b)
	printResult(engine.Summarize(b))
}

func cmdLegal(args []string) {
	fs := flag.NewFlagSet("legal", flag.ExitOnError)
	pos := positionFlags(fs)
	side := fs.String("side", "dark", "Side to move")
	fs.Parse(args)

	b, s := pos(), parseSideFlag(*side)
	moves := engine.LegalMoves(b, s)
	if len(moves) == 0 {
		fmt.Printf("No legal moves for %s (pass)\n", s)
		return
	}
	for _, m := range moves {
		fmt.Printf("  %s  flips %d\n", m, engine.Score(b, m.Row, m.Col, s))
	}
}

func cmdBest(args []string) {
	fs := flag.NewFlagSet("best", flag.ExitOnError)
	pos := positionFlags(fs)
	side := fs.String("side", "light", "Side to move")
	mode := fs.String("mode", "greedy", "Strategy (greedy or random)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	numMoves := fs.Int("n", 5, "Number of ranked moves to show")
	fs.Parse(args)

	b, s := pos(), parseSideFlag(*side)
	m, err := engine.ParseStrategyMode(*mode)
	if err != nil {
		fatalf("%v", err)
	}
	st, err := engine.NewStrategy(m, *seed)
	if err != nil {
		fatalf("%v", err)
	}

	choice, ok := st.Choose(b, s)
	if !ok {
		fmt.Printf("No legal moves for %s (pass)\n", s)
		return
	}
	fmt.Printf("%s plays %s (%s)\n", s, choice, st.Name())

	ranked := engine.RankMoves(b, s)
	if *numMoves > 0 && *numMoves < len(ranked) {
		ranked = ranked[:*numMoves]
	}
	fmt.Println("Ranked by discs flipped:")
	for i, sm := range ranked {
		fmt.Printf("  %d. %s  %d\n", i+1, sm.Move, sm.Score)
	}
}

func cmdPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	pos := positionFlags(fs)
	moveStr := fs.String("move", "", "Move to play, e.g. d3")
	human := fs.String("human", "dark", "Side the human plays")
	mode := fs.String("mode", "greedy", "Engine strategy (greedy or random)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	fs.Parse(args)

	b := pos()
	m, err := engine.ParseMove(*moveStr)
	if err != nil {
		fatalf("%v", err)
	}
	e := createEngine(*human, *mode, *seed)

	res, err := e.PlayTurn(b, m)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("%s plays %s\n", e.HumanSide(), res.HumanMove)
	if res.EnginePassed {
		fmt.Printf("%s has no move and passes\n", e.EngineSide())
	}
	for i, em := range res.EngineMoves {
		if i > 0 {
			fmt.Printf("%s has no move and passes\n", e.HumanSide())
		}
		fmt.Printf("%s plays %s\n", e.EngineSide(), em)
	}
	printBoard(res.Board)
	printResult(res.Result)
}

func cmdTutor(args []string) {
	fs := flag.NewFlagSet("tutor", flag.ExitOnError)
	pos := positionFlags(fs)
	moveStr := fs.String("move", "", "Played move, e.g. f4")
	side := fs.String("side", "dark", "Side that played")
	fs.Parse(args)

	b, s := pos(), parseSideFlag(*side)
	m, err := engine.ParseMove(*moveStr)
	if err != nil {
		fatalf("%v", err)
	}
	a, err := engine.AnalyzeMove(b, m, s)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("%s%s: rank %d of %d, %s\n", a.Played.Move, a.Skill.Abbr(), a.Rank, a.NumLegal, a.Skill)
	fmt.Println(a.Suggestion())
}

func cmdOpening(args []string) {
	fs := flag.NewFlagSet("opening", flag.ExitOnError)
	moves := fs.String("moves", "", "Transcript from the opening position, e.g. f5d6c3")
	fs.Parse(args)

	ms, err := match.ParseTranscript(*moves)
	if err != nil {
		fatalf("%v", err)
	}
	e, ok := engine.LookupOpening(ms)
	if !ok {
		fmt.Println("Unknown opening")
		return
	}
	fmt.Printf("%s (%s)\n", e.Name, e.Transcript)
}

// sideFactory builds the self-play factory for one side. A script or weights
// file overrides the mode.
func sideFactory(mode, script, weights string) (engine.StrategyFactory, string) {
	switch {
	case script != "":
		s, err := engine.LoadScriptStrategy(script)
		if err != nil {
			fatalf("%v", err)
		}
		defer s.Close()
		return s.Factory(), "script " + filepath.Base(script)
	case weights != "":
		n, err := engine.LoadNeuralStrategy(weights)
		if err != nil {
			fatalf("%v", err)
		}
		return n.Factory(), "neural " + filepath.Base(weights)
	}
	m, err := engine.ParseStrategyMode(mode)
	if err != nil {
		fatalf("%v", err)
	}
	return engine.ModeFactory(m), m.String()
}

func cmdSelfPlay(args []string) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	games := fs.Int("games", 100, "Number of games")
	dark := fs.String("dark", "greedy", "Dark strategy (greedy or random)")
	light := fs.String("light", "random", "Light strategy (greedy or random)")
	darkScript := fs.String("dark-script", "", "Lua strategy script for dark")
	lightScript := fs.String("light-script", "", "Lua strategy script for light")
	darkWeights := fs.String("dark-weights", "", "Neural weights file for dark")
	lightWeights := fs.String("light-weights", "", "Neural weights file for light")
	workers := fs.Int("workers", 0, "Number of worker goroutines (0 = auto)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	progress := fs.Bool("progress", false, "Print progress after every 10% of games")
	fs.Parse(args)

	darkF, darkName := sideFactory(*dark, *darkScript, *darkWeights)
	lightF, lightName := sideFactory(*light, *lightScript, *lightWeights)
	opts := engine.SelfPlayOptions{
		Games:   *games,
		Seed:    *seed,
		Workers: *workers,
		Dark:    darkF,
		Light:   lightF,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var callback engine.SelfPlayCallback
	if *progress {
		step := *games / 10
		if step < 1 {
			step = 1
		}
		callback = func(p engine.SelfPlayProgress) {
			if p.GamesCompleted%step == 0 || p.GamesCompleted == p.GamesTotal {
				fmt.Printf("  %5.1f%%  dark wins %.1f%%  mean margin %+.2f\n", p.Percent, p.DarkWinRate*100, p.MeanMargin)
			}
		}
	}

	start := time.Now()
	res, err := engine.SelfPlayWithProgress(ctx, opts, callback)
	if err != nil {
		fatalf("self-play: %v", err)
	}
	n := float64(res.GamesCompleted)
	fmt.Printf("Self-play: %s (dark) vs %s (light), %d games, %.1fs\n", darkName, lightName, res.GamesCompleted, time.Since(start).Seconds())
	fmt.Printf("  Dark wins:  %d (%.1f%%)\n", res.DarkWins, float64(res.DarkWins)/n*100)
	fmt.Printf("  Light wins: %d (%.1f%%)\n", res.LightWins, float64(res.LightWins)/n*100)
	fmt.Printf("  Draws:      %d\n", res.Draws)
	fmt.Printf("  Margin:     %+.2f ± %.2f (95%% CI: ±%.2f)\n", res.MeanMargin, res.MarginStdDev, res.MarginCI)
	fmt.Printf("  Mean plies: %.1f\n", res.MeanPlies)
}

func parseHidden(s string) []int {
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			fatalf("invalid hidden layer size %q", f)
		}
		out = append(out, n)
	}
	return out
}

func cmdTrain(args []string) {
	def := engine.DefaultTrainOptions()
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	games := fs.Int("games", def.Games, "Self-play games per round")
	rounds := fs.Int("rounds", def.Rounds, "Training rounds")
	epochs := fs.Int("epochs", def.Epochs, "Epochs per round")
	hidden := fs.String("hidden", "32,16", "Hidden layer sizes")
	rate := fs.Float64("rate", def.Network.LearningRate, "Learning rate")
	explore := fs.Float64("explore", def.Exploring, "Probability of a random move during generation")
	from := fs.String("from", "", "Continue training from this weights file")
	out := fs.String("out", "othello.weights.json", "Output weights file")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	fs.Parse(args)

	cfg := neuralnet.Config{Name: filepath.Base(*out), Hidden: parseHidden(*hidden), LearningRate: *rate}
	if *from != "" {
		prev, err := neuralnet.LoadWeights(*from)
		if err != nil {
			fatalf("%v", err)
		}
		cfg = prev.Config()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := engine.TrainOptions{
		Games:     *games,
		Rounds:    *rounds,
		Epochs:    *epochs,
		Seed:      *seed,
		Network:   cfg,
		Exploring: *explore,
	}
	net, err := engine.TrainNeural(ctx, opts, func(p engine.TrainProgress) {
		fmt.Printf("Round %d/%d: %d positions, dark %d light %d draws %d\n",
			p.Round, p.Rounds, p.Examples, p.DarkWins, p.LightWins, p.Draws)
	})
	if err != nil && net == nil {
		fatalf("training: %v", err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; saving partial network\n", err)
	}
	if err := net.SaveWeights(*out); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Saved %s\n", *out)
}

func cmdReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	file := fs.String("file", "", "Game record (.sgf for SGF, anything else is the text format)")
	export := fs.String("export", "", "Convert to this format instead of replaying (text or sgf)")
	fs.Parse(args)

	if *file == "" {
		fatalf("record file required (-file <path>)")
	}
	f, err := os.Open(*file)
	if err != nil {
		fatalf("%v", err)
	}
	defer f.Close()

	var records []*match.Record
	if strings.EqualFold(filepath.Ext(*file), ".sgf") {
		records, err = match.ImportSGF(f)
	} else {
		var rec *match.Record
		rec, err = match.ImportText(f)
		records = []*match.Record{rec}
	}
	if err != nil {
		fatalf("%v", err)
	}

	switch *export {
	case "":
		for _, rec := range records {
			replayRecord(os.Stdout, rec)
		}
	case "sgf":
		if err := match.ExportSGF(os.Stdout, records...); err != nil {
			fatalf("%v", err)
		}
	case "text":
		for _, rec := range records {
			if err := match.ExportText(os.Stdout, rec); err != nil {
				fatalf("%v", err)
			}
		}
	default:
		fatalf("unknown export format %q", *export)
	}
}

func replayRecord(w io.Writer, rec *match.Record) {
	fmt.Fprintf(w, "%s (dark) vs %s (light)", rec.Dark, rec.Light)
	if rec.Event != "" {
		fmt.Fprintf(w, ", %s", rec.Event)
	}
	fmt.Fprintln(w)
	if e, ok := engine.LookupOpening(rec.Moves); ok {
		fmt.Fprintf(w, "Opening: %s\n", e.Name)
	}

	final, steps, err := match.Replay(rec)
	for _, st := range steps {
		if st.Passed {
			fmt.Fprintf(w, "%3d. %-5s pass\n", st.Ply, st.Side)
			continue
		}
		fmt.Fprintf(w, "%3d. %-5s %s  flips %d\n", st.Ply, st.Side, st.Move, st.Flips)
	}
	if err != nil {
		fmt.Fprintf(w, "Stopped: %v\n", err)
		return
	}
	fmt.Fprint(w, final)
	fmt.Fprintf(w, "Result: %s\n", match.ResultString(final))
	printResult(engine.Summarize(final))
}
