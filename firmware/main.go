// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build tinygo

// Firmware that emulates a GameCube controller.
//
// Wiring:
//
//	controller port pin 2 (data, 3.3V) -> dataPin, with the console's pull-up
//	controller port pin 3/4 (ground)   -> GND
//	USB serial                          -> host running gcpad send/play/pad
//
// Build and flash with TinyGo, for example:
//
//	tinygo flash -target=pico ./firmware
package main

import (
	"machine"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

const hostBaudRate = 115200

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: hostBaudRate})

	line := newPinLine(dataPin)
	clock := newBusyClock(machine.CPUFrequency())
	bus := joybus.NewTransport(line, clock, interruptMasker{})

	engine := joybus.NewEngine(joybus.NewDispatcher(bus, clock), machine.Serial)

	println("gcpad: controller ready")
	engine.Run()
}
