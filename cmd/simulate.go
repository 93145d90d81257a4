// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/pkg/joybus"
	"github.com/Thermoquad/gcpad/pkg/script"
	"github.com/Thermoquad/gcpad/pkg/trace"
)

var (
	simCount     int
	simSpacing   int
	simIdleEvery int
	simScript    string
	simTrace     string
	simTUI       bool
	simRate      int
	simShowAll   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [col,rot[,drop] | 0xNN]...",
	Short: "Run the firmware loop against a simulated console",
	Long: `Run the controller's poll loop offline, in virtual time, against a
simulated console that identifies the controller, reads its origin, then
polls status.

Moves given as arguments (or loaded with --script) are injected on the
simulated host link, one every --spacing iterations. Each transaction is
decoded from the simulated wire, so the output shows exactly what a console
would read.

By default only transactions that carry a move, advance the queue or fail are
printed. Use --show-all to print every transaction. With --tui the simulation
runs live at --rate polls per second. With --trace every transaction is
written to a CBOR capture that the trace command can dump.`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVarP(&simCount, "count", "n", 120, "Number of transactions (text mode)")
	simulateCmd.Flags().IntVar(&simSpacing, "spacing", 40, "Iterations between injected moves")
	simulateCmd.Flags().IntVar(&simIdleEvery, "idle-every", 0, "Skip a console poll every N iterations (0 = never)")
	simulateCmd.Flags().StringVar(&simScript, "script", "", "Load moves from a YAML script")
	simulateCmd.Flags().StringVar(&simTrace, "trace", "", "Write a CBOR capture to this file")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Use terminal UI")
	simulateCmd.Flags().IntVar(&simRate, "rate", 60, "Polls per second (TUI mode)")
	simulateCmd.Flags().BoolVar(&simShowAll, "show-all", false, "Print every transaction (text mode)")
}

// simRun drives a Simulator, feeding moves on schedule and capturing a
// trace
type simRun struct {
	sim       *joybus.Simulator
	moves     []joybus.MoveCode
	next      int
	spacing   int
	idleEvery int
	iteration int
	trace     *trace.Writer
}

func newSimRun(moves []joybus.MoveCode, spacing, idleEvery int) *simRun {
	if spacing < 1 {
		spacing = 1
	}
	return &simRun{
		sim:       joybus.NewSimulator(),
		moves:     moves,
		spacing:   spacing,
		idleEvery: idleEvery,
	}
}

// step runs one transaction
func (r *simRun) step() (joybus.Transaction, error) {
	r.iteration++

	// Let the console finish its startup before the first move
	if r.next < len(r.moves) && r.iteration > 2 && (r.iteration-3)%r.spacing == 0 {
		r.sim.Inject(r.moves[r.next])
		r.next++
	}

	var tx joybus.Transaction
	if r.idleEvery > 0 && r.iteration%r.idleEvery == 0 {
		tx = r.sim.Idle()
	} else {
		tx = r.sim.Next()
	}

	if r.trace != nil {
		if err := r.trace.Write(trace.FromTransaction(tx)); err != nil {
			return tx, err
		}
	}
	return tx, nil
}

// pending is the number of moves not yet injected
func (r *simRun) pending() int {
	return len(r.moves) - r.next
}

// elapsed is the virtual time since the simulation started
func (r *simRun) elapsed() time.Duration {
	return r.sim.Wire.Now()
}

func simulationMoves(args []string) ([]joybus.MoveCode, error) {
	var moves []joybus.MoveCode
	if simScript != "" {
		s, err := script.Load(simScript)
		if err != nil {
			return nil, err
		}
		steps, err := s.Steps()
		if err != nil {
			return nil, err
		}
		for _, st := range steps {
			moves = append(moves, st.Code)
		}
	}
	codes, err := parseMoves(args, false)
	if err != nil {
		return nil, err
	}
	return append(moves, codes...), nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	moves, err := simulationMoves(args)
	if err != nil {
		return err
	}
	run := newSimRun(moves, simSpacing, simIdleEvery)

	if simTrace != "" {
		f, err := os.Create(simTrace)
		if err != nil {
			return err
		}
		defer f.Close()
		w, err := trace.NewWriter(f)
		if err != nil {
			return err
		}
		run.trace = w
		defer func() {
			slog.Info("trace written", "file", simTrace, "records", w.Count())
		}()
	}

	if simTUI {
		return runSimulateTUI(run)
	}
	return runSimulateText(run)
}

func runSimulateTUI(run *simRun) error {
	rate := simRate
	if rate < 1 {
		rate = 1
	}
	p := tea.NewProgram(initialSimModel(run, time.Second/time.Duration(rate)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runSimulateText(run *simRun) error {
	fmt.Printf("gcpad - Simulation\n")
	fmt.Printf("Transactions: %d, moves: %d, spacing: %d\n\n", simCount, len(run.moves), run.spacing)

	for i := 0; i < simCount; i++ {
		tx, err := run.step()
		if err != nil {
			return err
		}
		printTransaction(tx, simShowAll)
	}

	stats := run.sim.Engine.Stats()
	stats.CalculateRates(run.elapsed())
	fmt.Println()
	fmt.Printf("Virtual time: %s\n", run.elapsed())
	fmt.Println(stats.String())
	return nil
}

// printTransaction prints one transaction, highlighting the interesting ones
func printTransaction(tx joybus.Transaction, showAll bool) {
	p := tx.Poll
	notable := p.HasMove || p.Advanced || tx.Err != nil || p.LinkErr != nil ||
		(tx.Polled && !tx.Command.Known())
	if !notable && !showAll {
		return
	}

	line := joybus.FormatPoll(p)
	switch {
	case tx.Err != nil:
		fmt.Printf("\033[1;31m%s\033[0m console: %v\n", line, tx.Err)
		return
	case p.HasMove:
		fmt.Printf("\033[1;33m%s\033[0m\n", line)
	default:
		fmt.Printf("%s", line)
		if p.Advanced {
			fmt.Printf(" | advance")
		}
		fmt.Println()
	}
	if len(tx.Reply) > 0 && showAll {
		fmt.Printf("  reply: %s\n", joybus.FormatHex(tx.Reply))
	}
}
