// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/pkg/hostlink"
	"github.com/Thermoquad/gcpad/pkg/joybus"
)

var (
	linkTestDuration int
	linkTestInterval time.Duration
)

var linkTestCmd = &cobra.Command{
	Use:   "link_test",
	Short: "Test host link stability",
	Long: `Hold the host link open and periodically write the neutral Move Code.

The neutral code resets the controller to a released state, so it is safe to
send while a game is running. Any bytes the link returns are logged.

Exit codes:
  0 - Test completed normally
  1 - Link failed during the test
  2 - Connection error`,
	RunE: runLinkTest,
}

func init() {
	rootCmd.AddCommand(linkTestCmd)
	linkTestCmd.Flags().IntVar(&linkTestDuration, "duration", 30, "Test duration in seconds")
	linkTestCmd.Flags().DurationVar(&linkTestInterval, "interval", time.Second, "Time between neutral writes")
}

func runLinkTest(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Host Link Stability Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Duration: %d seconds\n\n", linkTestDuration)

	readChan := make(chan []byte, 100)
	errChan := make(chan error, 1)
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				readChan <- data
			}
		}
	}()

	sender := hostlink.NewSender(conn)
	ticker := time.NewTicker(linkTestInterval)
	defer ticker.Stop()

	start := time.Now()
	endTime := start.Add(time.Duration(linkTestDuration) * time.Second)
	bytesReceived := 0

	results := func(result string) {
		fmt.Printf("\n--- Test Results ---\n")
		fmt.Printf("Duration: %v\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("Moves sent: %d\n", sender.Sent())
		fmt.Printf("Bytes received: %d\n", bytesReceived)
		fmt.Printf("Result: %s\n", result)
	}

	for time.Now().Before(endTime) {
		select {
		case data := <-readChan:
			bytesReceived += len(data)
			fmt.Printf("[%s] Received %d bytes: %x\n", time.Now().Format("15:04:05.000"), len(data), data)

		case err := <-errChan:
			fmt.Printf("\n[%s] Link error: %v\n", time.Now().Format("15:04:05.000"), err)
			results("FAILED (link error)")
			os.Exit(1)

		case <-ticker.C:
			if err := sender.Send(joybus.NeutralMove); err != nil {
				fmt.Printf("\n[%s] Write error: %v\n", time.Now().Format("15:04:05.000"), err)
				results("FAILED (write error)")
				os.Exit(1)
			}
			fmt.Printf("[%s] Neutral sent (%.0fs remaining)\n",
				time.Now().Format("15:04:05.000"), time.Until(endTime).Seconds())
		}
	}

	results("PASSED (link stable)")
	return nil
}
