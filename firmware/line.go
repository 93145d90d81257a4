// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build tinygo

package main

import (
	"device"
	"machine"
	"runtime/interrupt"
	"time"
)

// pinLine drives the data line open-drain: low by switching the pin to an
// output, released by switching it back to an input.
type pinLine struct {
	pin machine.Pin
}

func newPinLine(pin machine.Pin) *pinLine {
	l := &pinLine{pin: pin}
	l.Release()
	return l
}

func (l *pinLine) Pull() {
	l.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	l.pin.Low()
}

func (l *pinLine) Release() {
	l.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
}

func (l *pinLine) Get() bool {
	return l.pin.Get()
}

// Each busy loop iteration costs about this many CPU cycles.
const cyclesPerLoop = 4

// busyClock delays by spinning on nop.
type busyClock struct {
	loopsPerMicro uint32
}

func newBusyClock(cpuHz uint32) busyClock {
	loops := cpuHz / 1_000_000 / cyclesPerLoop
	if loops == 0 {
		loops = 1
	}
	return busyClock{loopsPerMicro: loops}
}

func (c busyClock) Delay(d time.Duration) {
	n := uint32(d.Nanoseconds()) * c.loopsPerMicro / 1000
	for i := uint32(0); i < n; i++ {
		device.Asm("nop")
	}
}

// interruptMasker masks interrupts for the duration of a bus transfer
type interruptMasker struct{}

func (interruptMasker) Disable() uintptr      { return uintptr(interrupt.Disable()) }
func (interruptMasker) Restore(state uintptr) { interrupt.Restore(interrupt.State(state)) }
