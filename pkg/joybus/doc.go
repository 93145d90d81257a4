// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package joybus emulates a wired GameCube controller on a microcontroller.
//
// The console polls the controller over a single open-drain data line. The
// controller answers three commands:
//
//	Command | Reply
//	--------|------------------------------------------
//	0x00    | 3-byte identify record
//	0x41    | 10-byte origin (calibration) record
//	0x40    | 8-byte live ControllerState
//
// Anything else goes unanswered, as on real hardware.
//
// # Layers
//
//   - Transport encodes and decodes bytes as pulse-width bit cells on a Line,
//     with interrupts masked for the duration of each transfer.
//   - Dispatcher reads one command and sends the reply within the bus
//     response window.
//   - Queue expands one MoveCode from the host into a timed plan of
//     ControllerStates.
//   - Engine is the loop tying them together: one bus transaction attempt,
//     one host link check, and a queue advance every AdvanceEvery
//     iterations.
//
// # Simulation
//
// Wire, Recorder, Player, Console and Simulator run the same Transport in
// virtual time so the whole loop can be exercised without hardware.
//
// The package has no dependencies outside the standard library so it builds
// with TinyGo.
package joybus
