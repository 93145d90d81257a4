// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import "time"

// Bus timing
const (
	// BitUnit is one quarter of a bit cell. A "1" is 1 unit low then 3 high,
	// a "0" is 3 units low then 1 high.
	BitUnit = 1 * time.Microsecond

	// BitPeriod is the length of one bit cell on the wire.
	BitPeriod = 4 * BitUnit

	// SampleDelay is how long after a falling edge the receiver samples the
	// line. Half a cell lands between the "1" and "0" low times.
	SampleDelay = 2 * BitUnit

	// SpinStep is the cost of one iteration of a receive spin-wait.
	SpinStep = 250 * time.Nanosecond

	// SpinBudget bounds every receive spin-wait. At SpinStep this is ~64µs.
	SpinBudget = 255
)

// Response windows
const (
	// OriginDelay gives the console time to finish its stop bit and turn the
	// line around before the origin record.
	OriginDelay = BitPeriod

	// StatusDelay covers the rest of a status poll after its first byte: two
	// more bytes from the console plus its stop bit.
	StatusDelay = 17 * BitPeriod
)

// Commands from the console
const (
	CmdIdentify Command = 0x00
	CmdStatus   Command = 0x40
	CmdOrigin   Command = 0x41
)

// Record sizes
const (
	IdentifySize = 3
	OriginSize   = 10
	StateSize    = 8

	// CommandSize is how many bytes the controller reads per transaction.
	// Extra bytes of a status poll are skipped with StatusDelay.
	CommandSize = 1

	// StatusPollSize is the full length of a console status poll.
	StatusPollSize = 3
)

// Scheduling
const (
	// QueueCapacity is the maximum number of entries in a Move Queue.
	QueueCapacity = 10

	// AdvanceEvery is how many loop iterations pass between queue advances
	// when no new move code arrives.
	AdvanceEvery = 5

	// FastDropHold is how many ticks the stick is held down for a fast drop.
	FastDropHold = 8
)

// Stick and trigger values
const (
	StickCenter uint8 = 128
	StickMin    uint8 = 0
	StickMax    uint8 = 255
	TriggerRest uint8 = 0
)

// identifyRecord is what a standard wired controller answers to 0x00.
var identifyRecord = [IdentifySize]byte{0x09, 0x00, 0x03}

// originRecord is the calibration reply: neutral buttons, centered sticks,
// released triggers, and two reserved bytes.
var originRecord = [OriginSize]byte{
	0x00, 0x00,
	StickCenter, StickCenter,
	StickCenter, StickCenter,
	TriggerRest, TriggerRest,
	0x00, 0x00,
}

// IdentifyRecord returns a copy of the fixed identification reply.
func IdentifyRecord() []byte {
	b := identifyRecord
	return b[:]
}

// OriginRecord returns a copy of the fixed calibration reply.
func OriginRecord() []byte {
	b := originRecord
	return b[:]
}
