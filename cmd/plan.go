// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

var planDrop bool

var planCmd = &cobra.Command{
	Use:   "plan <col,rot[,drop] | 0xNN>...",
	Short: "Show the controller states a move expands to",
	Long: `Print the Move Queue the firmware builds for each move, without a
connection.

Each entry is held for its repeat count of advance ticks, and the firmware
advances once every 5 idle loop iterations. The poll count is the number of
status polls the whole move takes to play out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().BoolVar(&planDrop, "drop", false, "Fast drop every placement")
}

func runPlan(cmd *cobra.Command, args []string) error {
	codes, err := parseMoves(args, planDrop)
	if err != nil {
		return err
	}

	for i, code := range codes {
		if i > 0 {
			fmt.Println()
		}
		var q joybus.Queue
		q.Build(code)

		fmt.Printf("%s\n", code)
		fmt.Print(joybus.FormatEntries(q.Entries(), -1))
		fmt.Printf("  %d entries, %d ticks, ~%d polls", q.Len(), q.Ticks(), q.Ticks()*joybus.AdvanceEvery)
		if q.Truncated() {
			fmt.Print(" (truncated at queue capacity)")
		}
		fmt.Println()
	}
	return nil
}
