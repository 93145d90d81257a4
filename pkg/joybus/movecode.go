// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

// MoveCode is one byte from the host link:
//
//	bits 5-3: displacement code, displacement = code - 2
//	bits 2-1: rotation code
//	bit 0:    fast drop
//
// Bits 7-6 are ignored.
type MoveCode byte

const (
	displacementShift = 3
	displacementMask  = 0x07
	displacementBias  = 2
	rotationShift     = 1
	rotationMask      = 0x03
	fastDropBit       = 0x01
)

// NewMoveCode packs a move. displacementCode and rotation are masked to
// their field widths.
func NewMoveCode(displacementCode, rotation uint8, fastDrop bool) MoveCode {
	c := (displacementCode&displacementMask)<<displacementShift |
		(rotation&rotationMask)<<rotationShift
	if fastDrop {
		c |= fastDropBit
	}
	return MoveCode(c)
}

// Displacement is the signed horizontal move, -2..5. Values above 2 still
// expand, one step each.
func (m MoveCode) Displacement() int {
	return int(byte(m)>>displacementShift&displacementMask) - displacementBias
}

// Rotation is the raw rotation code, 0..3.
func (m MoveCode) Rotation() int {
	return int(byte(m) >> rotationShift & rotationMask)
}

// FastDrop reports whether the piece is pushed down after the move.
func (m MoveCode) FastDrop() bool {
	return byte(m)&fastDropBit != 0
}

// WithFastDrop returns m with the fast drop bit set.
func (m MoveCode) WithFastDrop() MoveCode {
	return m | fastDropBit
}

// NeutralMove is the code that expands to a single neutral entry.
var NeutralMove = NewMoveCode(displacementBias, 0, false)
