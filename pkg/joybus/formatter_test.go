// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"strings"
	"testing"
)

func TestCommand_String(t *testing.T) {
	tests := map[Command]string{
		CmdIdentify: "IDENTIFY",
		CmdOrigin:   "ORIGIN",
		CmdStatus:   "STATUS",
		0x7F:        "UNKNOWN(0x7F)",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestMoveCode_String(t *testing.T) {
	if got := NewMoveCode(2, 2, true).String(); got != "0x15 dx=+0 rot=2 drop" {
		t.Errorf("got %q", got)
	}
	if got := NewMoveCode(0, 0, false).String(); got != "0x00 dx=-2 rot=0" {
		t.Errorf("got %q", got)
	}
}

func TestFormatState(t *testing.T) {
	if got := FormatState(Neutral()); got != "neutral" {
		t.Errorf("neutral = %q", got)
	}

	s := Neutral()
	s.A = true
	s.Z = true
	s.StickX = 255
	s.TriggerR = 40
	got := FormatState(s)
	for _, part := range []string{"A+Z", "stick=(255,128)", "triggers=(0,40)"} {
		if !strings.Contains(got, part) {
			t.Errorf("FormatState = %q, missing %q", got, part)
		}
	}
	if strings.Contains(got, "cstick") {
		t.Errorf("centered C-stick should be omitted: %q", got)
	}
}

func TestFormatEntries_MarksCursor(t *testing.T) {
	q := &Queue{}
	q.Build(NewMoveCode(3, 0, false))
	q.Advance()
	out := FormatEntries(q.Entries(), q.Cursor())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], ">") {
		t.Errorf("cursor marker missing on line 1:\n%s", out)
	}
}

func TestFormatPoll(t *testing.T) {
	p := Poll{Iteration: 7, Command: CmdStatus, State: Neutral(), HasMove: true, Move: NewMoveCode(2, 0, true)}
	got := FormatPoll(p)
	want := "#7 STATUS -> neutral | move 0x11 dx=+0 rot=0 drop"
	if got != want {
		t.Errorf("FormatPoll = %q, want %q", got, want)
	}

	if got := FormatPoll(Poll{Iteration: 1, Err: ErrBusTimeout}); got != "#1 timeout" {
		t.Errorf("timeout poll = %q", got)
	}
}

func TestFormatHex(t *testing.T) {
	if got := FormatHex([]byte{0x09, 0x00, 0x03}); got != "09 00 03" {
		t.Errorf("FormatHex = %q", got)
	}
}
