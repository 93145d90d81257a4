// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// record sends buf on a fresh Recorder and returns the waveform.
func record(t *testing.T, buf []byte) (Waveform, time.Duration) {
	t.Helper()
	rec := NewRecorder(0)
	if err := NewTransport(rec, rec, nil).Send(buf); err != nil {
		t.Fatalf("Send: %v", err)
	}
	return rec.Edges(), rec.Now()
}

func TestSend_BitTiming(t *testing.T) {
	wave, end := record(t, []byte{0x80})

	// 8 data bits plus the stop bit, one fall and one rise each
	if len(wave) != 18 {
		t.Fatalf("got %d edges, want 18", len(wave))
	}

	us := time.Microsecond
	want := Waveform{
		{0, true}, {1 * us, false},      // bit 7 = 1
		{4 * us, true}, {7 * us, false}, // bit 6 = 0
	}
	for i, e := range want {
		if wave[i] != e {
			t.Errorf("edge %d = %+v, want %+v", i, wave[i], e)
		}
	}

	stop := wave[16:]
	if stop[0] != (Edge{32 * us, true}) || stop[1] != (Edge{33 * us, false}) {
		t.Errorf("stop bit edges = %+v, want fall at 32µs and rise at 33µs", stop)
	}
	if end != 9*BitPeriod {
		t.Errorf("transmission took %v, want %v", end, 9*BitPeriod)
	}
}

func TestSend_EmptyBuffer(t *testing.T) {
	rec := NewRecorder(0)
	if err := NewTransport(rec, rec, nil).Send(nil); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("Send(nil) = %v, want ErrEmptyBuffer", err)
	}
}

func TestTransport_Loopback(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"single zero", []byte{0x00}},
		{"single ones", []byte{0xFF}},
		{"alternating", []byte{0xAA, 0x55}},
		{"identify", IdentifyRecord()},
		{"origin", OriginRecord()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wave, _ := record(t, tt.data)
			got, err := DecodeReply(wave, len(tt.data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("decoded % X, want % X", got, tt.data)
			}
		})
	}
}

func TestTransport_LoopbackControllerState(t *testing.T) {
	s := ControllerState{
		Buttons:  Buttons{A: true, Start: true, Right: true, Z: true},
		StickX:   255,
		StickY:   3,
		CStickX:  128,
		CStickY:  90,
		TriggerL: 17,
		TriggerR: 250,
	}
	b := s.Bytes()
	wave, _ := record(t, b[:])

	reply, err := DecodeReply(wave, StateSize)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := ParseState(reply)
	if err != nil {
		t.Fatalf("ParseState: %v", err)
	}
	if got != s {
		t.Errorf("round trip = %+v, want %+v", got, s)
	}
}

func TestReceive_TimeoutOnIdleLine(t *testing.T) {
	w := NewWire()
	buf := make([]byte, 1)
	err := NewTransport(w, w, w).Receive(buf)
	if !errors.Is(err, ErrBusTimeout) {
		t.Fatalf("Receive on idle line = %v, want ErrBusTimeout", err)
	}
	if w.Now() != SpinBudget*SpinStep {
		t.Errorf("timeout took %v, want %v", w.Now(), SpinBudget*SpinStep)
	}
	if w.Masked() {
		t.Error("interrupts left masked after timeout")
	}
}

func TestReceive_TimeoutOnTruncatedFrame(t *testing.T) {
	wave, _ := record(t, []byte{0x41})
	if _, err := DecodeReply(wave, 2); !errors.Is(err, ErrBusTimeout) {
		t.Errorf("decoding past the frame = %v, want ErrBusTimeout", err)
	}
}

func TestReceive_StuckLow(t *testing.T) {
	wave := Waveform{{0, true}}
	p := NewPlayer(wave, -SpinStep)
	err := NewTransport(p, p, nil).Receive(make([]byte, 1))
	if !errors.Is(err, ErrBusTimeout) {
		t.Errorf("Receive on stuck line = %v, want ErrBusTimeout", err)
	}
}

func TestTransport_MasksInterrupts(t *testing.T) {
	w := NewWire()
	tr := NewTransport(w, w, w)

	if err := tr.Send([]byte{0x12}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if w.MaskCount() != 1 || w.Masked() {
		t.Errorf("after Send: masks=%d masked=%v, want 1 and false", w.MaskCount(), w.Masked())
	}

	_ = tr.Receive(make([]byte, 1))
	if w.MaskCount() != 2 || w.Masked() {
		t.Errorf("after Receive: masks=%d masked=%v, want 2 and false", w.MaskCount(), w.Masked())
	}
}

func TestWire_ScheduledFrame(t *testing.T) {
	w := NewWire()
	end, err := w.Schedule([]byte{0x41}, 5*time.Microsecond)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if end != 5*time.Microsecond+9*BitPeriod {
		t.Errorf("frame end = %v", end)
	}

	buf := make([]byte, 1)
	if err := NewTransport(w, w, w).Receive(buf); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if buf[0] != 0x41 {
		t.Errorf("received 0x%02X, want 0x41", buf[0])
	}
}

func TestWire_WiredAnd(t *testing.T) {
	w := NewWire()
	if !w.Get() {
		t.Fatal("idle wire should read high")
	}
	w.Pull()
	if w.Get() {
		t.Error("local pull should hold the line low")
	}
	w.Release()
	if !w.Get() {
		t.Error("released wire should read high")
	}
	if got := len(w.TakeLocal()); got != 2 {
		t.Errorf("recorded %d local edges, want 2", got)
	}
	if got := len(w.TakeLocal()); got != 0 {
		t.Errorf("TakeLocal should reset, got %d edges", got)
	}
}

func TestWaveform_LevelAt(t *testing.T) {
	us := time.Microsecond
	w := Waveform{{1 * us, true}, {3 * us, false}}
	cases := map[time.Duration]bool{0: true, 1 * us: false, 2 * us: false, 3 * us: true, 10 * us: true}
	for at, want := range cases {
		if got := w.LevelAt(at); got != want {
			t.Errorf("LevelAt(%v) = %v, want %v", at, got, want)
		}
	}
}
