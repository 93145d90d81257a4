// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"io"
	"time"
)

// Edge is a level change on a simulated line at a virtual time.
type Edge struct {
	At  time.Duration
	Low bool
}

// Waveform is a time-ordered list of edges. The line is high before the
// first edge.
type Waveform []Edge

// LevelAt reports whether the line is high at t.
func (w Waveform) LevelAt(t time.Duration) bool {
	high := true
	for _, e := range w {
		if e.At > t {
			break
		}
		high = !e.Low
	}
	return high
}

// End is the time of the last edge.
func (w Waveform) End() time.Duration {
	if len(w) == 0 {
		return 0
	}
	return w[len(w)-1].At
}

// Recorder captures what a transmitter drives, in virtual time.
type Recorder struct {
	now   time.Duration
	low   bool
	edges Waveform
}

// NewRecorder starts recording at virtual time start.
func NewRecorder(start time.Duration) *Recorder {
	return &Recorder{now: start}
}

func (r *Recorder) Pull() {
	if !r.low {
		r.low = true
		r.edges = append(r.edges, Edge{At: r.now, Low: true})
	}
}

func (r *Recorder) Release() {
	if r.low {
		r.low = false
		r.edges = append(r.edges, Edge{At: r.now, Low: false})
	}
}

func (r *Recorder) Get() bool             { return !r.low }
func (r *Recorder) Delay(d time.Duration) { r.now += d }
func (r *Recorder) Now() time.Duration    { return r.now }
func (r *Recorder) Edges() Waveform       { return r.edges }

// Player replays a Waveform to a receiver. Writes are ignored.
type Player struct {
	wave Waveform
	now  time.Duration
	i    int
	high bool
}

// NewPlayer starts playback at virtual time start.
func NewPlayer(wave Waveform, start time.Duration) *Player {
	return &Player{wave: wave, now: start, high: true}
}

func (p *Player) Pull()                 {}
func (p *Player) Release()              {}
func (p *Player) Delay(d time.Duration) { p.now += d }
func (p *Player) Now() time.Duration    { return p.now }

func (p *Player) Get() bool {
	for p.i < len(p.wave) && p.wave[p.i].At <= p.now {
		p.high = !p.wave[p.i].Low
		p.i++
	}
	return p.high
}

// Wire is the bus as seen by the emulated controller: frames scheduled by a
// remote driver, wired-AND with what the controller drives itself. Virtual
// time only moves through Delay. Wire also counts interrupt masking so tests
// can check the transport's critical sections.
type Wire struct {
	now time.Duration

	remote     Waveform
	ri         int
	remoteHigh bool

	localLow bool
	local    Waveform

	depth int
	masks int
}

// NewWire returns an idle, high line at virtual time 0.
func NewWire() *Wire {
	return &Wire{remoteHigh: true}
}

func (w *Wire) Pull() {
	if !w.localLow {
		w.localLow = true
		w.local = append(w.local, Edge{At: w.now, Low: true})
	}
}

func (w *Wire) Release() {
	if w.localLow {
		w.localLow = false
		w.local = append(w.local, Edge{At: w.now, Low: false})
	}
}

func (w *Wire) Get() bool {
	for w.ri < len(w.remote) && w.remote[w.ri].At <= w.now {
		w.remoteHigh = !w.remote[w.ri].Low
		w.ri++
	}
	return w.remoteHigh && !w.localLow
}

func (w *Wire) Delay(d time.Duration) { w.now += d }

// Now is the current virtual time.
func (w *Wire) Now() time.Duration { return w.now }

func (w *Wire) Disable() uintptr {
	prev := w.depth
	w.depth++
	w.masks++
	return uintptr(prev)
}

func (w *Wire) Restore(state uintptr) { w.depth = int(state) }

// Masked reports whether interrupts are currently suspended.
func (w *Wire) Masked() bool { return w.depth > 0 }

// MaskCount is how many critical sections have been entered.
func (w *Wire) MaskCount() int { return w.masks }

// Schedule encodes frame as the remote driver, starting no earlier than at
// and never overlapping a frame already scheduled. It returns when the frame
// ends.
func (w *Wire) Schedule(frame []byte, at time.Duration) (time.Duration, error) {
	if at < w.now {
		at = w.now
	}
	if end := w.remote.End(); len(w.remote) > 0 && at < end {
		at = end
	}

	rec := NewRecorder(at)
	if err := NewTransport(rec, rec, nil).Send(frame); err != nil {
		return 0, err
	}

	// Drop edges already consumed; the current remote level is kept.
	w.remote = append(w.remote[:0], w.remote[w.ri:]...)
	w.ri = 0
	w.remote = append(w.remote, rec.Edges()...)
	return rec.Now(), nil
}

// TakeLocal returns and forgets everything the controller drove so far.
func (w *Wire) TakeLocal() Waveform {
	out := w.local
	w.local = nil
	return out
}

// ByteQueue is an in-memory HostLink. Writes append, reads consume.
type ByteQueue struct {
	buf []byte
}

func (q *ByteQueue) Write(p []byte) (int, error) {
	q.buf = append(q.buf, p...)
	return len(p), nil
}

func (q *ByteQueue) Buffered() int { return len(q.buf) }

func (q *ByteQueue) ReadByte() (byte, error) {
	if len(q.buf) == 0 {
		return 0, io.EOF
	}
	b := q.buf[0]
	q.buf = q.buf[1:]
	return b, nil
}
