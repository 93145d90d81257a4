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
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/pkg/hostlink"
	"github.com/Thermoquad/gcpad/pkg/joybus"
)

var (
	sendPace time.Duration
	sendDrop bool
)

var sendCmd = &cobra.Command{
	Use:   "send <col,rot[,drop] | 0xNN>...",
	Short: "Send moves to the controller",
	Long: `Send one or more moves to the firmware over the host link.

Each argument is a placement, a target column and a number of quarter turns
separated by a comma with no space, or a raw Move Code byte:

  0,3       leftmost column, rotate 3 times clockwise
  5,-1      rightmost column, rotate once anticlockwise
  2,0,drop  stay in the spawn column and fast drop
  0x15      raw Move Code

Columns run from 0 to 5 and rotations from -3 to 3. Moves are sent one byte
at a time with a pause between them (--pace).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().DurationVar(&sendPace, "pace", hostlink.DefaultPace, "Pause between moves")
	sendCmd.Flags().BoolVar(&sendDrop, "drop", false, "Fast drop every placement")
}

func runSend(cmd *cobra.Command, args []string) error {
	codes, err := parseMoves(args, sendDrop)
	if err != nil {
		return err
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
	sender.Pace = sendPace
	for _, code := range codes {
		fmt.Printf("-> %s\n", code)
	}
	if err := sender.SendAll(ctx, codes); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("Sent %d move(s)\n", sender.Sent())
	return nil
}

// parseMoves parses placement or raw code arguments, optionally forcing
// fast drop on every code
func parseMoves(args []string, drop bool) ([]joybus.MoveCode, error) {
	codes, err := hostlink.ParseMoveCodes(args)
	if err != nil {
		return nil, err
	}
	if drop {
		for i, c := range codes {
			codes[i] = c.WithFastDrop()
		}
	}
	return codes, nil
}
