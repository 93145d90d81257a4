// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import "fmt"

// Buttons holds the digital inputs of one controller snapshot.
type Buttons struct {
	A     bool
	B     bool
	X     bool
	Y     bool
	Start bool
	L     bool
	R     bool
	Z     bool
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// ControllerState is one complete snapshot of the emulated controller.
type ControllerState struct {
	Buttons

	StickX  uint8
	StickY  uint8
	CStickX uint8
	CStickY uint8

	TriggerL uint8
	TriggerR uint8
}

// Neutral returns the rest state: centered sticks, no buttons, released
// triggers.
func Neutral() ControllerState {
	return ControllerState{
		StickX:   StickCenter,
		StickY:   StickCenter,
		CStickX:  StickCenter,
		CStickY:  StickCenter,
		TriggerL: TriggerRest,
		TriggerR: TriggerRest,
	}
}

// IsNeutral reports whether s equals the rest state.
func (s ControllerState) IsNeutral() bool {
	return s == Neutral()
}

// Button bits, first status byte
const (
	bitA     = 1 << 0
	bitB     = 1 << 1
	bitX     = 1 << 2
	bitY     = 1 << 3
	bitStart = 1 << 4
	// bits 5-7 are protocol flags and always sent as 0
)

// Button bits, second status byte
const (
	bitLeft  = 1 << 0
	bitRight = 1 << 1
	bitDown  = 1 << 2
	bitUp    = 1 << 3
	bitZ     = 1 << 4
	bitR     = 1 << 5
	bitL     = 1 << 6
	// bit 7 is always sent as 0
)

// Bytes packs s into the 8-byte status reply:
//
//	0: A B X Y Start (bits 0-4), bits 5-7 zero
//	1: D-left D-right D-down D-up Z R L (bits 0-6), bit 7 zero
//	2: stick X
//	3: stick Y
//	4: C-stick X
//	5: C-stick Y
//	6: L trigger
//	7: R trigger
func (s ControllerState) Bytes() [StateSize]byte {
	var b [StateSize]byte
	b[0] = flag(s.A, bitA) | flag(s.B, bitB) | flag(s.X, bitX) |
		flag(s.Y, bitY) | flag(s.Start, bitStart)
	b[1] = flag(s.Left, bitLeft) | flag(s.Right, bitRight) |
		flag(s.Down, bitDown) | flag(s.Up, bitUp) |
		flag(s.Z, bitZ) | flag(s.R, bitR) | flag(s.L, bitL)
	b[2] = s.StickX
	b[3] = s.StickY
	b[4] = s.CStickX
	b[5] = s.CStickY
	b[6] = s.TriggerL
	b[7] = s.TriggerR
	return b
}

// ParseState unpacks a status reply produced by Bytes. The fixed protocol
// bits are ignored.
func ParseState(b []byte) (ControllerState, error) {
	if len(b) != StateSize {
		return ControllerState{}, fmt.Errorf("status record is %d bytes, want %d", len(b), StateSize)
	}
	return ControllerState{
		Buttons: Buttons{
			A:     b[0]&bitA != 0,
			B:     b[0]&bitB != 0,
			X:     b[0]&bitX != 0,
			Y:     b[0]&bitY != 0,
			Start: b[0]&bitStart != 0,
			Left:  b[1]&bitLeft != 0,
			Right: b[1]&bitRight != 0,
			Down:  b[1]&bitDown != 0,
			Up:    b[1]&bitUp != 0,
			Z:     b[1]&bitZ != 0,
			R:     b[1]&bitR != 0,
			L:     b[1]&bitL != 0,
		},
		StickX:   b[2],
		StickY:   b[3],
		CStickX:  b[4],
		CStickY:  b[5],
		TriggerL: b[6],
		TriggerR: b[7],
	}, nil
}

func flag(set bool, bit byte) byte {
	if set {
		return bit
	}
	return 0
}
