// Command othelloserver runs the Othello REST/WebSocket API server and,
// optionally, the TCP line protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/othello/pkg/api"
	"github.com/yourusername/othello/pkg/engine"
	"github.com/yourusername/othello/pkg/external"
)

const version = "0.1.0"

func main() {
	defaults := api.DefaultConfig()

	host := flag.String("host", defaults.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", defaults.Port, "Port to listen on")
	human := flag.String("human", "dark", "Side the human plays (dark or light)")
	mode := flag.String("mode", "greedy", "Engine strategy (greedy or random)")
	seed := flag.Int64("seed", 0, "Random seed for the random strategy (0 = clock)")
	weightsFile := flag.String("weights", "", "Neural weights file; overrides -mode")
	scriptFile := flag.String("script", "", "Lua strategy script; overrides -mode")
	readTimeout := flag.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	scriptTimeout := flag.Duration("script-timeout", engine.DefaultScriptTimeout, "Time limit for one script move")
	maxWorkers := flag.Int("max-workers", defaults.MaxMoveWorkers, "Max concurrent move requests")
	maxBatch := flag.Int("max-selfplay", defaults.MaxBatchWorkers, "Max concurrent self-play batches")
	tcpPort := flag.Int("tcp-port", 0, "Also serve the TCP line protocol on this port (0 = off)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("Othello API Server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("Othello API Server v%s", version)

	eng, err := createEngine(*human, *mode, *seed, *weightsFile, *scriptFile, *scriptTimeout)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	log.Printf("Engine ready: human %s, engine %s plays %s", eng.HumanSide(), eng.Strategy().Name(), eng.EngineSide())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *tcpPort > 0 {
		opts := external.DefaultServerOptions()
		opts.Host = *host
		opts.Port = *tcpPort
		opts.Seed = *seed
		tcp := external.NewServer(eng, opts)
		if err := tcp.Start(); err != nil {
			log.Fatalf("TCP server: %v", err)
		}
		log.Printf("TCP protocol listening on %s", tcp.Addr())
		defer tcp.Stop()
	}

	config := defaults
	config.Host = *host
	config.Port = *port
	config.ReadTimeout = *readTimeout
	config.WriteTimeout = *writeTimeout
	config.MaxMoveWorkers = *maxWorkers
	config.MaxBatchWorkers = *maxBatch

	server := api.NewServer(eng, config, version)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// createEngine builds the engine; a script or weights file replaces the
// built-in strategy.
func createEngine(human, mode string, seed int64, weights, script string, scriptTimeout time.Duration) (*engine.Engine, error) {
	side, err := engine.ParseSide(human)
	if err != nil {
		return nil, err
	}

	switch {
	case script != "" && weights != "":
		return nil, fmt.Errorf("-script and -weights are mutually exclusive")
	case script != "":
		s, err := engine.LoadScriptStrategy(script)
		if err != nil {
			return nil, err
		}
		s.SetTimeout(scriptTimeout)
		return engine.NewEngineWithStrategy(side, s), nil
	case weights != "":
		n, err := engine.LoadNeuralStrategy(weights)
		if err != nil {
			return nil, err
		}
		return engine.NewEngineWithStrategy(side, n), nil
	}

	m, err := engine.ParseStrategyMode(mode)
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(engine.EngineOptions{HumanSide: side, Mode: m, Seed: seed})
}
