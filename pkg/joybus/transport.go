// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"errors"
	"time"
)

var (
	// ErrBusTimeout is returned when a receive spin-wait runs out. It is
	// ordinary bus noise; callers retry.
	ErrBusTimeout = errors.New("bus timeout")

	// ErrEmptyBuffer is returned for a zero-length send or receive.
	ErrEmptyBuffer = errors.New("empty bus buffer")
)

// Line is the single open-drain data line. Pull drives it low, Release lets
// the pull-up take it high, Get samples it (true is high).
type Line interface {
	Pull()
	Release()
	Get() bool
}

// Clock provides short deterministic busy-wait delays.
type Clock interface {
	Delay(d time.Duration)
}

// InterruptMasker suspends interrupt delivery. Disable returns the previous
// state for Restore, matching runtime/interrupt on TinyGo.
type InterruptMasker interface {
	Disable() uintptr
	Restore(state uintptr)
}

// BusTransport moves whole byte buffers across the bus. Receive fills buf
// exactly; there is no byte count.
type BusTransport interface {
	Send(buf []byte) error
	Receive(buf []byte) error
}

// Transport is the pulse-width BusTransport. Each bit cell is BitPeriod
// long and starts with the line pulled low: 1 unit for a "1", 3 units for a
// "0". Bytes go most significant bit first, and a transmission ends with a
// "1" stop bit.
type Transport struct {
	line  Line
	clock Clock
	irq   InterruptMasker
}

// NewTransport builds a Transport. irq may be nil when nothing can preempt
// the caller.
func NewTransport(line Line, clock Clock, irq InterruptMasker) *Transport {
	if irq == nil {
		irq = noMask{}
	}
	return &Transport{line: line, clock: clock, irq: irq}
}

// Send transmits buf followed by the stop bit with interrupts masked.
func (t *Transport) Send(buf []byte) error {
	if len(buf) == 0 {
		return ErrEmptyBuffer
	}

	state := t.irq.Disable()
	for _, b := range buf {
		for bit := 7; bit >= 0; bit-- {
			t.sendBit(b>>uint(bit)&1 == 1)
		}
	}
	t.sendBit(true)
	t.irq.Restore(state)
	return nil
}

func (t *Transport) sendBit(one bool) {
	t.line.Pull()
	if one {
		t.clock.Delay(BitUnit)
		t.line.Release()
		t.clock.Delay(3 * BitUnit)
		return
	}
	t.clock.Delay(3 * BitUnit)
	t.line.Release()
	t.clock.Delay(BitUnit)
}

// Receive decodes len(buf) bytes with interrupts masked. Every bit waits for
// a falling edge, then samples the line SampleDelay later. After the last
// bit it waits for the line to return high. Any wait longer than SpinBudget
// spins fails with ErrBusTimeout and leaves buf partially written.
func (t *Transport) Receive(buf []byte) error {
	if len(buf) == 0 {
		return ErrEmptyBuffer
	}

	state := t.irq.Disable()
	defer t.irq.Restore(state)

	for i := range buf {
		var b byte
		for bit := 0; bit < 8; bit++ {
			if !t.waitFor(true) || !t.waitFor(false) {
				return ErrBusTimeout
			}
			t.clock.Delay(SampleDelay)
			b <<= 1
			if t.line.Get() {
				b |= 1
			}
		}
		buf[i] = b
	}

	if !t.waitFor(true) {
		return ErrBusTimeout
	}
	return nil
}

// waitFor spins until the line reads high (or low), at most SpinBudget times.
func (t *Transport) waitFor(high bool) bool {
	for n := 0; n < SpinBudget; n++ {
		if t.line.Get() == high {
			return true
		}
		t.clock.Delay(SpinStep)
	}
	return false
}

// Delay waits on the transport's clock.
func (t *Transport) Delay(d time.Duration) {
	t.clock.Delay(d)
}

type noMask struct{}

func (noMask) Disable() uintptr { return 0 }
func (noMask) Restore(uintptr)  {}
