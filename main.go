// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// gcpad - GameCube controller emulator host tools
//
// Sends moves to the controller firmware over its serial link and simulates
// the firmware's poll loop against a virtual console.

package main

import (
	"os"

	"github.com/Thermoquad/gcpad/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
