// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/internal/log"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Logging flags
	logLevel string
	logFile  string

	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "gcpad",
	Short: "GameCube controller emulator host tools",
	Long: `gcpad - Host tools for a microcontroller that emulates a GameCube controller.

The firmware answers the console's identify, origin and status polls and
plays back moves it receives as single Move Code bytes over its serial link.
These commands send moves to the firmware, and simulate the firmware's poll
loop against a virtual console for offline checks.

Connection modes:
  Serial:    --port /dev/ttyACM0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the GCPAD_PASSWORD
environment variable, or prompted interactively if not set.`,
	Version:      "1.0.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := log.Setup(logLevel, logFile)
		if err != nil {
			return err
		}
		logCloser = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
