// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"bytes"
	"testing"
)

func TestNeutral_Bytes(t *testing.T) {
	got := Neutral().Bytes()
	want := [StateSize]byte{0x00, 0x00, 128, 128, 128, 128, 0, 0}
	if got != want {
		t.Errorf("neutral bytes = % X, want % X", got, want)
	}
	if !Neutral().IsNeutral() {
		t.Error("Neutral() should report IsNeutral")
	}
}

func TestControllerState_Bytes_ButtonBits(t *testing.T) {
	tests := []struct {
		name    string
		buttons Buttons
		byte0   byte
		byte1   byte
	}{
		{"A", Buttons{A: true}, 0x01, 0x00},
		{"B", Buttons{B: true}, 0x02, 0x00},
		{"X", Buttons{X: true}, 0x04, 0x00},
		{"Y", Buttons{Y: true}, 0x08, 0x00},
		{"Start", Buttons{Start: true}, 0x10, 0x00},
		{"D-left", Buttons{Left: true}, 0x00, 0x01},
		{"D-right", Buttons{Right: true}, 0x00, 0x02},
		{"D-down", Buttons{Down: true}, 0x00, 0x04},
		{"D-up", Buttons{Up: true}, 0x00, 0x08},
		{"Z", Buttons{Z: true}, 0x00, 0x10},
		{"R", Buttons{R: true}, 0x00, 0x20},
		{"L", Buttons{L: true}, 0x00, 0x40},
		{
			"everything",
			Buttons{A: true, B: true, X: true, Y: true, Start: true, L: true, R: true, Z: true, Up: true, Down: true, Left: true, Right: true},
			0x1F, 0x7F,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Neutral()
			s.Buttons = tt.buttons
			b := s.Bytes()
			if b[0] != tt.byte0 || b[1] != tt.byte1 {
				t.Errorf("button bytes = %02X %02X, want %02X %02X", b[0], b[1], tt.byte0, tt.byte1)
			}
			if b[0]&0xE0 != 0 || b[1]&0x80 != 0 {
				t.Errorf("fixed protocol bits must be zero, got %02X %02X", b[0], b[1])
			}
		})
	}
}

func TestControllerState_Bytes_Axes(t *testing.T) {
	s := ControllerState{StickX: 1, StickY: 2, CStickX: 3, CStickY: 4, TriggerL: 5, TriggerR: 6}
	b := s.Bytes()
	if !bytes.Equal(b[2:], []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("axis bytes = % X, want 01 02 03 04 05 06", b[2:])
	}
}

func TestParseState_RoundTrip(t *testing.T) {
	states := []ControllerState{
		Neutral(),
		{Buttons: Buttons{A: true, Z: true, Up: true}, StickX: 255, StickY: 0, CStickX: 128, CStickY: 7, TriggerL: 200, TriggerR: 1},
		{Buttons: Buttons{B: true, Start: true, Left: true, L: true}, StickX: 0, StickY: 255},
	}
	for _, s := range states {
		b := s.Bytes()
		got, err := ParseState(b[:])
		if err != nil {
			t.Fatalf("ParseState: %v", err)
		}
		if got != s {
			t.Errorf("round trip = %+v, want %+v", got, s)
		}
	}
}

func TestParseState_IgnoresFixedBits(t *testing.T) {
	got, err := ParseState([]byte{0xE0, 0x80, 128, 128, 128, 128, 0, 0})
	if err != nil {
		t.Fatalf("ParseState: %v", err)
	}
	if !got.IsNeutral() {
		t.Errorf("expected neutral, got %+v", got)
	}
}

func TestParseState_WrongLength(t *testing.T) {
	if _, err := ParseState([]byte{0x00, 0x00}); err == nil {
		t.Error("expected error for short record")
	}
}

func TestMoveCode_Fields(t *testing.T) {
	tests := []struct {
		code         MoveCode
		displacement int
		rotation     int
		drop         bool
	}{
		{0x00, -2, 0, false},
		{0x10, 0, 0, false},
		{0x20, 2, 0, false},
		{0x16, 0, 3, false},
		{0x11, 0, 0, true},
		{0x3F, 5, 3, true},
		{0xD0, 0, 0, false}, // bits 7-6 ignored
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.Displacement(); got != tt.displacement {
				t.Errorf("Displacement() = %d, want %d", got, tt.displacement)
			}
			if got := tt.code.Rotation(); got != tt.rotation {
				t.Errorf("Rotation() = %d, want %d", got, tt.rotation)
			}
			if got := tt.code.FastDrop(); got != tt.drop {
				t.Errorf("FastDrop() = %v, want %v", got, tt.drop)
			}
		})
	}
}

func TestNewMoveCode(t *testing.T) {
	if got := NewMoveCode(4, 1, true); got != 0x23 {
		t.Errorf("NewMoveCode(4, 1, true) = 0x%02X, want 0x23", byte(got))
	}
	if got := NewMoveCode(0xFF, 0xFF, false); got != 0x3E {
		t.Errorf("fields should be masked, got 0x%02X", byte(got))
	}
	if NeutralMove != 0x10 {
		t.Errorf("NeutralMove = 0x%02X, want 0x10", byte(NeutralMove))
	}
}

func TestMoveCode_WithFastDrop(t *testing.T) {
	m := NewMoveCode(3, 2, false).WithFastDrop()
	if !m.FastDrop() || m.Displacement() != 1 || m.Rotation() != 2 {
		t.Errorf("WithFastDrop() = %s", m)
	}
	if m.WithFastDrop() != m {
		t.Error("WithFastDrop() should be idempotent")
	}
}
