// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import "errors"

// ErrQueueFull is returned by Append when the queue is at capacity.
var ErrQueueFull = errors.New("move queue full")

// Entry is one step of a motion: a state held for Repeat poll ticks.
type Entry struct {
	State  ControllerState
	Repeat int
}

// Queue is the bounded, timed plan realizing one MoveCode. The zero value is
// an empty, drained queue. A Queue is owned by a single loop and is not safe
// for concurrent use.
type Queue struct {
	entries   [QueueCapacity]Entry
	n         int
	cursor    int
	truncated bool
}

// Clear drops every entry. Current returns neutral afterwards.
func (q *Queue) Clear() {
	q.n = 0
	q.cursor = 0
	q.truncated = false
}

// Append adds an entry at the tail. A repeat below 1 is stored as 1. When the
// queue is full nothing is changed and ErrQueueFull is returned.
func (q *Queue) Append(s ControllerState, repeat int) error {
	if q.n >= QueueCapacity {
		q.truncated = true
		return ErrQueueFull
	}
	if repeat < 1 {
		repeat = 1
	}
	q.entries[q.n] = Entry{State: s, Repeat: repeat}
	q.n++
	return nil
}

// push appends and drops overflow silently.
func (q *Queue) push(s ControllerState, repeat int) {
	_ = q.Append(s, repeat)
}

// Build replaces the queue with the expansion of m and rewinds playback.
//
// Each lateral step or rotation is a press followed by a one-tick release so
// the console sees a discrete edge. Rotation codes 1 and 2 press the
// clockwise button once each; code 3 is a single anticlockwise press. A fast
// drop holds the stick down for FastDropHold ticks. The plan always ends on
// neutral; entries past QueueCapacity are lost.
func (q *Queue) Build(m MoveCode) {
	q.Clear()

	d := m.Displacement()
	r := m.Rotation()
	for d != 0 || r != 0 {
		s := Neutral()
		switch {
		case d < 0:
			s.StickX = StickMin
			d++
		case d > 0:
			s.StickX = StickMax
			d--
		}

		switch r {
		case 1, 2:
			s.A = true
			r--
		case 3:
			s.B = true
			r = 0
		}

		q.push(s, 1)
		q.push(Neutral(), 1)
	}

	if m.FastDrop() {
		s := Neutral()
		s.StickY = StickMin
		q.push(s, FastDropHold)
	}

	q.push(Neutral(), 1)
	q.cursor = 0
}

// Current is the state at the cursor, or neutral once the queue is drained.
func (q *Queue) Current() ControllerState {
	if q.cursor < 0 || q.cursor >= q.n {
		return Neutral()
	}
	return q.entries[q.cursor].State
}

// Advance consumes one tick of the current entry. When its repeat count runs
// out the cursor moves on; moving past the last entry clears the queue.
func (q *Queue) Advance() {
	if q.cursor >= q.n {
		if q.n > 0 {
			q.Clear()
		}
		return
	}
	q.entries[q.cursor].Repeat--
	if q.entries[q.cursor].Repeat > 0 {
		return
	}
	q.cursor++
	if q.cursor >= q.n {
		q.Clear()
	}
}

// Len is the number of entries, consumed or not.
func (q *Queue) Len() int {
	return q.n
}

// Cursor is the index of the current entry.
func (q *Queue) Cursor() int {
	return q.cursor
}

// Drained reports whether playback has nothing left.
func (q *Queue) Drained() bool {
	return q.cursor >= q.n
}

// Truncated reports whether an append was dropped since the last Clear.
func (q *Queue) Truncated() bool {
	return q.truncated
}

// Entries returns a copy of the entries with their remaining repeat counts.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, q.n)
	copy(out, q.entries[:q.n])
	return out
}

// Ticks is the number of Advance calls left before the queue drains.
func (q *Queue) Ticks() int {
	total := 0
	for i := q.cursor; i < q.n; i++ {
		total += q.entries[i].Repeat
	}
	return total
}
