// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package hostlink

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

func TestPlacement_MoveCode(t *testing.T) {
	tests := []struct {
		p    Placement
		disp int
		rot  int
	}{
		{Placement{Column: 2}, 0, 0},
		{Placement{Column: 0}, -2, 0},
		{Placement{Column: 4}, 2, 0},
		{Placement{Column: 5, Rotation: 1}, 3, 1},
		{Placement{Column: 2, Rotation: -1}, 0, 3},
		{Placement{Column: 2, Rotation: -2}, 0, 2},
		{Placement{Column: 2, Rotation: -3}, 0, 1},
		{Placement{Column: 1, Rotation: 3}, -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			code, err := tt.p.MoveCode()
			require.NoError(t, err)
			assert.Equal(t, tt.disp, code.Displacement())
			assert.Equal(t, tt.rot, code.Rotation())
			assert.False(t, code.FastDrop())
		})
	}
}

func TestPlacement_DropFlag(t *testing.T) {
	code, err := Placement{Column: 2, Rotation: 2, Drop: true}.MoveCode()
	require.NoError(t, err)
	assert.Equal(t, joybus.MoveCode(0x15), code)
}

func TestPlacement_OutOfRange(t *testing.T) {
	_, err := Placement{Column: 6}.MoveCode()
	assert.ErrorContains(t, err, "column must be an integer between 0 and 5")

	_, err = Placement{Column: 1, Rotation: 4}.MoveCode()
	assert.ErrorContains(t, err, "rotation must be an integer between -3 and 3")
}

func TestParsePlacement(t *testing.T) {
	p, err := ParsePlacement("0,3")
	require.NoError(t, err)
	assert.Equal(t, Placement{Column: 0, Rotation: 3}, p)

	p, err = ParsePlacement(" 5,-1,drop ")
	require.NoError(t, err)
	assert.Equal(t, Placement{Column: 5, Rotation: -1, Drop: true}, p)

	for _, bad := range []string{"3", "1,2,3,4", "a,1", "1,b", "1,1,maybe", "9,0"} {
		_, err := ParsePlacement(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseMoveCode(t *testing.T) {
	code, err := ParseMoveCode("0x15")
	require.NoError(t, err)
	assert.Equal(t, joybus.MoveCode(0x15), code)

	code, err = ParseMoveCode("16")
	require.NoError(t, err)
	assert.Equal(t, joybus.MoveCode(16), code)

	code, err = ParseMoveCode("4,0")
	require.NoError(t, err)
	assert.Equal(t, joybus.NewMoveCode(4, 0, false), code)

	_, err = ParseMoveCode("0x100")
	assert.Error(t, err)

	codes, err := ParseMoveCodes([]string{"2,0", "0x11"})
	require.NoError(t, err)
	assert.Equal(t, []joybus.MoveCode{joybus.NeutralMove, 0x11}, codes)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("port gone") }

func TestSender_SendAll(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf)
	s.Pace = time.Millisecond

	require.NoError(t, s.SendAll(context.Background(), []joybus.MoveCode{0x10, 0x15, 0x20}))
	assert.Equal(t, []byte{0x10, 0x15, 0x20}, buf.Bytes())
	assert.Equal(t, 3, s.Sent())
}

func TestSender_StopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf)
	s.Pace = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.SendAll(ctx, []joybus.MoveCode{0x10, 0x11})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, buf.Len())
}

func TestSender_WriteError(t *testing.T) {
	s := NewSender(failingWriter{})
	err := s.Send(joybus.NeutralMove)
	assert.ErrorContains(t, err, "port gone")
	assert.Equal(t, 0, s.Sent())
}
