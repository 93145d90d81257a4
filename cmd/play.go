// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/pkg/hostlink"
	"github.com/Thermoquad/gcpad/pkg/script"
)

var (
	playLoop   bool
	playDryRun bool
)

var playCmd = &cobra.Command{
	Use:   "play <script.yaml>",
	Short: "Play a YAML move script",
	Long: `Send the moves listed in a YAML script to the controller.

Example script:

  pace: 50ms
  moves:
    - column: 0
      rotation: 3
    - column: 4
      rotation: -1
      drop: true
      wait: 400ms
    - code: 0x10

With --dry-run the script is validated and printed without connecting.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "Repeat the script until interrupted")
	playCmd.Flags().BoolVar(&playDryRun, "dry-run", false, "Validate and print the script only")
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	steps, err := s.Steps()
	if err != nil {
		return err
	}

	fmt.Printf("Script: %s (%d moves, %s per pass)\n", args[0], len(steps), s.Duration())
	if playDryRun {
		for i, st := range steps {
			fmt.Printf("%3d  %s  wait %s\n", i+1, st.Code, st.Wait)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	conn, connInfo, err := OpenConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	slog.Info("connected", "link", connInfo)

	sender := hostlink.NewSender(conn)
	onStep := func(i int, st script.Step) {
		fmt.Printf("[%3d/%d] %s\n", i+1, len(steps), st.Code)
	}

	for pass := 1; ; pass++ {
		err := s.Play(ctx, sender, onStep)
		if errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			return err
		}
		if !playLoop {
			break
		}
		slog.Debug("script pass complete", "pass", pass)
	}

	fmt.Printf("Sent %d move(s)\n", sender.Sent())
	return nil
}
