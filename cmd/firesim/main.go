// firesim runs firefighter simulations from the command line, without the
// API server: load a graph, pick a strategy, print the outcome.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberworks/firefighter-simulator/core"
	"github.com/emberworks/firefighter-simulator/internal/logging"
	"github.com/emberworks/firefighter-simulator/internal/sim"
	"github.com/emberworks/firefighter-simulator/internal/sim/strategy"
	"github.com/emberworks/firefighter-simulator/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "firesim",
		Short:         "Run firefighter problem simulations on road graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newInfoCmd(), newStrategiesCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		graphPath     string
		strategyName  string
		numRoots      int
		numFFs        int
		strategyEvery uint64
		seed          int64
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and print the summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := core.LoadGraph(graphPath)
			if err != nil {
				return err
			}

			settings := model.Settings{
				GraphName:     graphPath,
				StrategyName:  strategyName,
				NumRoots:      numRoots,
				NumFFs:        numFFs,
				StrategyEvery: model.TimeUnit(strategyEvery),
			}
			strat, err := strategy.New(strategyName, strategy.NewShortestPaths(graph))
			if err != nil {
				return err
			}

			opts := []sim.Option{}
			if verbose {
				opts = append(opts, sim.WithLogger(logging.NewFromEnv()))
			}
			if seed != 0 {
				opts = append(opts, sim.WithRand(rand.New(rand.NewSource(seed))))
			}

			engine, err := sim.New(graph, settings, strat, opts...)
			if err != nil {
				return err
			}
			if err := engine.Simulate(context.Background()); err != nil {
				return err
			}

			out := struct {
				Roots   []int       `json:"roots"`
				Summary sim.Summary `json:"summary"`
			}{
				Roots:   engine.Roots(),
				Summary: engine.Summary(),
			}
			body, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}

	cmd.Flags().StringVar(&graphPath, "graph", "", "path to the graph file")
	cmd.Flags().StringVar(&strategyName, "strategy", strategy.NameGreedy, "containment strategy")
	cmd.Flags().IntVar(&numRoots, "roots", 1, "number of fire roots")
	cmd.Flags().IntVar(&numFFs, "ffs", 1, "number of firefighters per decision round")
	cmd.Flags().Uint64Var(&strategyEvery, "every", 1, "tick cadence of containment decisions")
	cmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed for reproducible root selection (0 = random)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log simulation progress")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}

func newInfoCmd() *cobra.Command {
	var graphPath string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print size and bounds of a graph file",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := core.LoadGraph(graphPath)
			if err != nil {
				return err
			}

			bounds := graph.GridBounds()
			out := struct {
				Nodes  int             `json:"nodes"`
				Edges  int             `json:"edges"`
				Bounds core.GridBounds `json:"bounds"`
				Center core.Coords     `json:"center"`
			}{
				Nodes:  graph.NumNodes,
				Edges:  graph.NumEdges,
				Bounds: bounds,
				Center: bounds.Center(),
			}
			body, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}

	cmd.Flags().StringVar(&graphPath, "graph", "", "path to the graph file")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the registered containment strategies",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range strategy.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
