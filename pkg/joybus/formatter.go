// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"errors"
	"fmt"
	"strings"
)

// String returns the command name
func (c Command) String() string {
	switch c {
	case CmdIdentify:
		return "IDENTIFY"
	case CmdStatus:
		return "STATUS"
	case CmdOrigin:
		return "ORIGIN"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", byte(c))
	}
}

// String describes the decoded move, e.g. "0x15 dx=+0 rot=2 drop"
func (m MoveCode) String() string {
	s := fmt.Sprintf("0x%02X dx=%+d rot=%d", byte(m), m.Displacement(), m.Rotation())
	if m.FastDrop() {
		s += " drop"
	}
	return s
}

// Names returns the pressed buttons in wire order
func (b Buttons) Names() []string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(b.A, "A")
	add(b.B, "B")
	add(b.X, "X")
	add(b.Y, "Y")
	add(b.Start, "START")
	add(b.Left, "LEFT")
	add(b.Right, "RIGHT")
	add(b.Down, "DOWN")
	add(b.Up, "UP")
	add(b.Z, "Z")
	add(b.R, "R")
	add(b.L, "L")
	return names
}

// FormatState renders a controller state on one line
func FormatState(s ControllerState) string {
	if s.IsNeutral() {
		return "neutral"
	}
	var parts []string
	if names := s.Names(); len(names) > 0 {
		parts = append(parts, strings.Join(names, "+"))
	}
	if s.StickX != StickCenter || s.StickY != StickCenter {
		parts = append(parts, fmt.Sprintf("stick=(%d,%d)", s.StickX, s.StickY))
	}
	if s.CStickX != StickCenter || s.CStickY != StickCenter {
		parts = append(parts, fmt.Sprintf("cstick=(%d,%d)", s.CStickX, s.CStickY))
	}
	if s.TriggerL != TriggerRest || s.TriggerR != TriggerRest {
		parts = append(parts, fmt.Sprintf("triggers=(%d,%d)", s.TriggerL, s.TriggerR))
	}
	return strings.Join(parts, " ")
}

// FormatEntries renders a queue plan, one entry per line, marking the cursor
func FormatEntries(entries []Entry, cursor int) string {
	var sb strings.Builder
	for i, e := range entries {
		marker := " "
		if i == cursor {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s %2d  x%-2d %s\n", marker, i, e.Repeat, FormatState(e.State))
	}
	return sb.String()
}

// FormatPoll renders one loop iteration
func FormatPoll(p Poll) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d ", p.Iteration)
	switch {
	case errors.Is(p.Err, ErrBusTimeout):
		sb.WriteString("timeout")
	case p.Err != nil:
		fmt.Fprintf(&sb, "error: %v", p.Err)
	case p.Command == CmdStatus:
		fmt.Fprintf(&sb, "%s -> %s", p.Command, FormatState(p.State))
	case p.Command.Known():
		fmt.Fprintf(&sb, "%s", p.Command)
	default:
		fmt.Fprintf(&sb, "%s (ignored)", p.Command)
	}
	if p.HasMove {
		fmt.Fprintf(&sb, " | move %s", p.Move)
		if p.Truncated {
			sb.WriteString(" (truncated)")
		}
	}
	if p.LinkErr != nil {
		fmt.Fprintf(&sb, " | link error: %v", p.LinkErr)
	}
	return sb.String()
}

// FormatHex renders bytes as space separated hex
func FormatHex(b []byte) string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}
