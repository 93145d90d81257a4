// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package hostlink encodes piece placements as joybus Move Codes and
// writes them to the controller's host link.
package hostlink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

// Board geometry. A new piece spawns in SpawnColumn, so the displacement
// code of a placement equals its target column.
const (
	MinColumn   = 0
	MaxColumn   = 5
	SpawnColumn = 2

	MinRotation = -3
	MaxRotation = 3
)

// Placement is a target column and a number of quarter turns. Positive
// rotations are clockwise.
type Placement struct {
	Column   int
	Rotation int
	Drop     bool
}

// Validate checks the placement against the board limits
func (p Placement) Validate() error {
	if p.Column < MinColumn || p.Column > MaxColumn {
		return fmt.Errorf("column must be an integer between %d and %d inclusive, not %d", MinColumn, MaxColumn, p.Column)
	}
	if p.Rotation < MinRotation || p.Rotation > MaxRotation {
		return fmt.Errorf("rotation must be an integer between %d and %d inclusive, not %d", MinRotation, MaxRotation, p.Rotation)
	}
	return nil
}

// MoveCode encodes the placement.
//
// The firmware reads rotation codes 1 and 2 as clockwise presses and 3 as
// a single anticlockwise press, so the rotation is taken modulo 4: -1
// becomes 3, -2 becomes 2 (two clockwise turns land on the same
// orientation) and -3 becomes 1.
func (p Placement) MoveCode() (joybus.MoveCode, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	rot := ((p.Rotation % 4) + 4) % 4
	return joybus.NewMoveCode(uint8(p.Column-SpawnColumn+2), uint8(rot), p.Drop), nil
}

// String renders the placement in the "col,rot[,drop]" form
func (p Placement) String() string {
	s := fmt.Sprintf("%d,%d", p.Column, p.Rotation)
	if p.Drop {
		s += ",drop"
	}
	return s
}

// ParsePlacement parses "col,rot" or "col,rot,drop".
func ParsePlacement(s string) (Placement, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) < 2 {
		return Placement{}, fmt.Errorf("placement %q: want col,rot[,drop]", s)
	}
	if len(parts) > 3 {
		return Placement{}, fmt.Errorf("placement %q: too many commas", s)
	}

	col, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Placement{}, fmt.Errorf("column must be an integer between %d and %d inclusive, not %q", MinColumn, MaxColumn, parts[0])
	}
	rot, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Placement{}, fmt.Errorf("rotation must be an integer between %d and %d inclusive, not %q", MinRotation, MaxRotation, parts[1])
	}

	p := Placement{Column: col, Rotation: rot}
	if len(parts) == 3 {
		switch strings.ToLower(strings.TrimSpace(parts[2])) {
		case "drop", "d", "1", "true":
			p.Drop = true
		case "", "0", "false":
		default:
			return Placement{}, fmt.Errorf("placement %q: unknown flag %q", s, parts[2])
		}
	}
	return p, p.Validate()
}

// ParseMoveCode accepts either a placement or a raw byte such as "0x15".
// Raw bytes are passed through unchecked.
func ParseMoveCode(s string) (joybus.MoveCode, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ",") {
		v, err := strconv.ParseUint(s, 0, 8)
		if err != nil {
			return 0, fmt.Errorf("move %q: want col,rot[,drop] or a byte like 0x15", s)
		}
		return joybus.MoveCode(v), nil
	}
	p, err := ParsePlacement(s)
	if err != nil {
		return 0, err
	}
	return p.MoveCode()
}

// ParseMoveCodes parses each argument with ParseMoveCode
func ParseMoveCodes(args []string) ([]joybus.MoveCode, error) {
	codes := make([]joybus.MoveCode, 0, len(args))
	for _, a := range args {
		c, err := ParseMoveCode(a)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, nil
}
