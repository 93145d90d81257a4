// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/pkg/trace"
)

var (
	traceMovesOnly bool
	traceSummary   bool
)

var traceCmd = &cobra.Command{
	Use:   "trace <file.cbor>",
	Short: "Dump a simulation capture in human-readable form",
	Long: `Decode and print the transactions recorded by simulate --trace.

Each line shows the sequence number, virtual time, console command and the
controller's reply. Status replies are decoded back into controller states.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().BoolVar(&traceMovesOnly, "moves", false, "Only show transactions that carried a move")
	traceCmd.Flags().BoolVar(&traceSummary, "summary", false, "Print totals after the records")
}

func runTrace(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var count, replies, timeouts, moves int
	r := trace.NewReader(f)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			return err
		}

		count++
		if len(rec.Response) > 0 {
			replies++
		}
		if rec.Timeout {
			timeouts++
		}
		if rec.HasMove {
			moves++
		}
		if traceMovesOnly && !rec.HasMove {
			continue
		}
		fmt.Println(rec.String())
	}

	if traceSummary {
		fmt.Printf("\n%d records: %d replies, %d timeouts, %d moves\n", count, replies, timeouts, moves)
	}
	return nil
}
