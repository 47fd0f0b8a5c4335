// Command georoute loads a graph description, applies any --congestion and
// --route operations supplied on the command line in the order given, and
// optionally serves the same Router over HTTP until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/georoute/georoute/internal/engine"
	"github.com/georoute/georoute/internal/graph"
	"github.com/georoute/georoute/internal/httpapi"
	"github.com/georoute/georoute/internal/router"
)

type congestionOp struct {
	edgeStart int
	edgeEnd   int
	factor    float32
}

type routeOp struct {
	source uint32
	target uint32
}

type operation struct {
	congestion *congestionOp
	route      *routeOp
}

type cliArgs struct {
	graphPath  string
	serve      bool
	operations []operation
}

func printUsage(binary string) {
	fmt.Fprintf(os.Stderr,
		"GeoRoute CLI\nUsage: %s --graph <path> [--serve] [--congestion <edge_start> <edge_end> <factor>]... [--route <source> <target>]...\n",
		binary)
}

func parseArguments(args []string) (cliArgs, error) {
	var out cliArgs

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--graph":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--graph requires a path argument")
			}
			i++
			out.graphPath = args[i]
		case "--serve":
			out.serve = true
		case "--congestion":
			if i+3 >= len(args) {
				return cliArgs{}, fmt.Errorf("--congestion requires start end factor")
			}
			start, err := strconv.Atoi(args[i+1])
			if err != nil {
				return cliArgs{}, fmt.Errorf("invalid --congestion edge_start: %w", err)
			}
			end, err := strconv.Atoi(args[i+2])
			if err != nil {
				return cliArgs{}, fmt.Errorf("invalid --congestion edge_end: %w", err)
			}
			factor, err := strconv.ParseFloat(args[i+3], 32)
			if err != nil {
				return cliArgs{}, fmt.Errorf("invalid --congestion factor: %w", err)
			}
			i += 3
			out.operations = append(out.operations, operation{
				congestion: &congestionOp{edgeStart: start, edgeEnd: end, factor: float32(factor)},
			})
		case "--route":
			if i+2 >= len(args) {
				return cliArgs{}, fmt.Errorf("--route requires source target")
			}
			source, err := strconv.ParseUint(args[i+1], 10, 32)
			if err != nil {
				return cliArgs{}, fmt.Errorf("invalid --route source: %w", err)
			}
			target, err := strconv.ParseUint(args[i+2], 10, 32)
			if err != nil {
				return cliArgs{}, fmt.Errorf("invalid --route target: %w", err)
			}
			i += 2
			out.operations = append(out.operations, operation{
				route: &routeOp{source: uint32(source), target: uint32(target)},
			})
		case "--help", "-h":
			return cliArgs{}, fmt.Errorf("help requested")
		default:
			return cliArgs{}, fmt.Errorf("unknown argument: %s", args[i])
		}
	}

	if out.graphPath == "" {
		return cliArgs{}, fmt.Errorf("--graph argument is required")
	}

	return out, nil
}

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(binary string, args []string) error {
	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	parsed, err := parseArguments(args)
	if err != nil {
		printUsage(binary)
		return err
	}

	file, err := os.Open(parsed.graphPath)
	if err != nil {
		return fmt.Errorf("failed to open graph file: %w", err)
	}
	defer file.Close()

	desc, err := router.DecodeGraphDescription(file)
	if err != nil {
		return fmt.Errorf("failed to parse graph JSON: %w", err)
	}

	r, err := router.FromDescription(desc)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	eng := engine.New(r, log)

	if len(parsed.operations) == 0 && !parsed.serve {
		fmt.Println("No operations supplied. Use --route, --congestion, and/or --serve.")
	}

	for _, op := range parsed.operations {
		switch {
		case op.congestion != nil:
			c := op.congestion
			if err := eng.ApplyCongestionUpdate(c.edgeStart, c.edgeEnd, c.factor); err != nil {
				return fmt.Errorf("error during CLI execution: %w", err)
			}
			fmt.Printf("Applied congestion factor %v to edges [%d, %d]\n", c.factor, c.edgeStart, c.edgeEnd)
		case op.route != nil:
			q := op.route
			comp, _, _, _, err := eng.Route(graph.NodeID(q.source), graph.NodeID(q.target))
			if err != nil {
				return fmt.Errorf("error during CLI execution: %w", err)
			}
			fmt.Printf("Route from %d to %d:\n", q.source, q.target)
			if !comp.Result.Reachable {
				fmt.Println("Route unreachable")
				continue
			}
			fmt.Printf("Total travel time: %v seconds\n", comp.Result.TotalTravelTime)
			fmt.Print("Path nodes: ")
			for i, n := range comp.Result.Nodes {
				if i > 0 {
					fmt.Print(" -> ")
				}
				fmt.Print(n)
			}
			fmt.Println()
		}
	}

	if !parsed.serve {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := httpapi.New(eng, log)
	cfg := httpapi.DefaultConfig()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", zap.Int("port", cfg.Port))
		return api.ListenAndServe(gctx, cfg)
	})

	return g.Wait()
}
