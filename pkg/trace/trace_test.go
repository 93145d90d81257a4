// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package trace

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

func simulate(t *testing.T, n int) []joybus.Transaction {
	t.Helper()
	sim := joybus.NewSimulator()
	sim.Inject(joybus.NewMoveCode(3, 1, false))
	var out []joybus.Transaction
	for i := 0; i < n; i++ {
		out = append(out, sim.Next())
	}
	out = append(out, sim.Idle())
	return out
}

func TestWriterReader(t *testing.T) {
	txs := simulate(t, 6)

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	for _, tx := range txs {
		require.NoError(t, w.Write(FromTransaction(tx)))
	}
	assert.Equal(t, len(txs), w.Count())

	records, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Len(t, records, len(txs))

	assert.Equal(t, uint8(joybus.CmdIdentify), records[0].Command)
	assert.Equal(t, joybus.IdentifyRecord(), records[0].Response)
	assert.True(t, records[0].HasMove)

	assert.Equal(t, uint8(joybus.CmdOrigin), records[1].Command)
	assert.Len(t, records[1].Response, joybus.OriginSize)

	for _, r := range records[2:6] {
		assert.Equal(t, uint8(joybus.CmdStatus), r.Command)
		assert.Len(t, r.Response, joybus.StateSize)
	}

	idle := records[len(records)-1]
	assert.False(t, idle.Polled)
	assert.True(t, idle.Timeout)
	assert.Empty(t, idle.Response)

	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i].At, records[i-1].At)
	}
}

func TestReader_EOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_Garbage(t *testing.T) {
	_, err := ReadAll(bytes.NewReader([]byte{0xFF, 0x00, 0x13}))
	assert.Error(t, err)
}

func TestRecord_String(t *testing.T) {
	txs := simulate(t, 3)
	assert.Contains(t, FromTransaction(txs[0]).String(), "IDENTIFY -> 09 00 03")
	assert.Contains(t, FromTransaction(txs[0]).String(), "move 0x1A")
	assert.Contains(t, FromTransaction(txs[2]).String(), "STATUS -> ")
	assert.Contains(t, FromTransaction(txs[3]).String(), "idle timeout")
}
