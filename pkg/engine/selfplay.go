package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// SelfPlayOptions controls a batch of engine-vs-engine games
type SelfPlayOptions struct {
	Games     int          // Number of games to play (default 100)
	DarkMode  StrategyMode // Strategy for dark
	LightMode StrategyMode // Strategy for light
	Seed      int64        // RNG seed (0 = random)
	Workers   int          // Number of parallel workers (0 = GOMAXPROCS)

	// Optional factories; when set they replace DarkMode/LightMode.
	Dark  StrategyFactory
	Light StrategyFactory
}

// StrategyFactory builds a strategy for one self-play worker. Strategies that
// are not safe for concurrent use get one instance per worker this way.
type StrategyFactory func(seed int64) (Strategy, error)

// ModeFactory returns the factory for a built-in strategy mode.
func ModeFactory(mode StrategyMode) StrategyFactory {
	return func(seed int64) (Strategy, error) {
		return NewStrategy(mode, seed)
	}
}

// DefaultSelfPlayOptions returns greedy dark against random light.
func DefaultSelfPlayOptions() SelfPlayOptions {
	return SelfPlayOptions{
		Games:     100,
		DarkMode:  ModeGreedy,
		LightMode: ModeRandom,
	}
}

// SelfPlayProgress contains progress information during self-play
type SelfPlayProgress struct {
	GamesCompleted int     // Number of games finished so far
	GamesTotal     int     // Total number of games
	Percent        float64 // Percentage complete (0-100)
	DarkWinRate    float64 // Dark wins / games completed
	MeanMargin     float64 // Mean dark-minus-light disc margin so far
}

// SelfPlayCallback is called after each finished game
type SelfPlayCallback func(progress SelfPlayProgress)

// SelfPlayResult aggregates a batch of games
type SelfPlayResult struct {
	GamesCompleted int
	DarkWins       int
	LightWins      int
	Draws          int

	// Dark discs minus light discs at the end of each game
	MeanMargin   float64
	MarginStdDev float64
	MarginCI     float64 // 95% confidence interval (+/-)

	MeanPlies float64 // Average number of discs placed per game
}

// GameOutcome is the final state of one self-play game.
type GameOutcome struct {
	Final  Board
	Moves  []Move // Moves in order, passes included
	Margin int    // Dark minus light
}

// PlayGame plays a full game between two strategies from the opening
// position. Dark moves first; a side with no move passes.
func PlayGame(dark, light Strategy) GameOutcome {
	b := StartingPosition()
	var moves []Move
	side := Dark
	for !IsTerminal(b) {
		st := dark
		if side == Light {
			st = light
		}
		m, ok := st.Choose(b, side)
		if ok {
			ApplyMove(&b, m.Row, m.Col, side)
		}
		moves = append(moves, m)
		side = side.Opponent()
	}
	return GameOutcome{
		Final:  b,
		Moves:  moves,
		Margin: b.Count(DarkDisc) - b.Count(LightDisc),
	}
}

// SelfPlay plays opts.Games games in parallel and aggregates the results.
func SelfPlay(ctx context.Context, opts SelfPlayOptions) (*SelfPlayResult, error) {
	return SelfPlayWithProgress(ctx, opts, nil)
}

// SelfPlayWithProgress is SelfPlay with a callback after every game.
// The callback runs on the aggregating goroutine.
func SelfPlayWithProgress(ctx context.Context, opts SelfPlayOptions, callback SelfPlayCallback) (*SelfPlayResult, error) {
	// Set defaults
	if opts.Games <= 0 {
		opts.Games = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Workers > opts.Games {
		opts.Workers = opts.Games
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}
	if opts.Dark == nil {
		opts.Dark = ModeFactory(opts.DarkMode)
	}
	if opts.Light == nil {
		opts.Light = ModeFactory(opts.LightMode)
	}
	for _, f := range []StrategyFactory{opts.Dark, opts.Light} {
		s, err := f(1)
		if err != nil {
			return nil, err
		}
		closeStrategy(s)
	}

	// Distribute games across workers
	perWorker := opts.Games / opts.Workers
	extra := opts.Games % opts.Workers

	outcomes := make(chan GameOutcome, opts.Workers)
	errs := make(chan error, opts.Workers)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		games := perWorker
		if i < extra {
			games++
		}
		workerSeed := opts.Seed + int64(i)*1000000

		go func(games int, seed int64) {
			defer wg.Done()
			if err := selfPlayWorker(ctx, opts, games, seed, outcomes); err != nil {
				errs <- err
			}
		}(games, workerSeed)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	result := &SelfPlayResult{}
	margins := make([]float64, 0, opts.Games)
	plies := 0
	for o := range outcomes {
		result.GamesCompleted++
		margins = append(margins, float64(o.Margin))
		plies += o.Final.Count(DarkDisc) + o.Final.Count(LightDisc) - 4
		switch {
		case o.Margin > 0:
			result.DarkWins++
		case o.Margin < 0:
			result.LightWins++
		default:
			result.Draws++
		}

		if callback != nil {
			callback(SelfPlayProgress{
				GamesCompleted: result.GamesCompleted,
				GamesTotal:     opts.Games,
				Percent:        float64(result.GamesCompleted) / float64(opts.Games) * 100,
				DarkWinRate:    float64(result.DarkWins) / float64(result.GamesCompleted),
				MeanMargin:     stat.Mean(margins, nil),
			})
		}
	}

	if result.GamesCompleted < opts.Games {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("self-play interrupted after %d games: %w", result.GamesCompleted, err)
		}
	}
	close(errs)
	if err := <-errs; err != nil {
		return result, fmt.Errorf("self-play worker: %w", err)
	}

	if n := len(margins); n > 0 {
		result.MeanPlies = float64(plies) / float64(n)
		if n > 1 {
			result.MeanMargin, result.MarginStdDev = stat.MeanStdDev(margins, nil)
			result.MarginCI = 1.96 * stat.StdErr(result.MarginStdDev, float64(n))
		} else {
			result.MeanMargin = margins[0]
		}
	}
	if math.IsNaN(result.MarginStdDev) {
		result.MarginStdDev = 0
	}
	return result, nil
}

// selfPlayWorker plays games with its own strategies and RNG seed
func selfPlayWorker(ctx context.Context, opts SelfPlayOptions, games int, seed int64, out chan<- GameOutcome) error {
	dark, err := opts.Dark(seed)
	if err != nil {
		return err
	}
	defer closeStrategy(dark)
	light, err := opts.Light(seed + 1)
	if err != nil {
		return err
	}
	defer closeStrategy(light)

	for g := 0; g < games; g++ {
		if ctx.Err() != nil {
			return nil
		}
		o := PlayGame(dark, light)
		select {
		case out <- o:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

// closeStrategy releases strategies that hold resources, such as Lua states.
func closeStrategy(s Strategy) {
	if c, ok := s.(interface{ Close() }); ok {
		c.Close()
	}
}
