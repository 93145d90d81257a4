// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

// HostLink is the non-blocking byte source for move codes. TinyGo's
// machine.Serial satisfies it.
type HostLink interface {
	Buffered() int
	ReadByte() (byte, error)
}

// Poll describes one loop iteration.
type Poll struct {
	Iteration uint64

	// Command is valid when Err is nil.
	Command Command
	Err     error

	// State is what a status reply in this iteration reported.
	State ControllerState

	// Move is valid when HasMove is set. Truncated marks a move whose
	// expansion did not fit the queue.
	Move      MoveCode
	HasMove   bool
	Truncated bool
	LinkErr   error

	Advanced bool
}

// Responded reports whether the controller sent a reply in this iteration.
func (p Poll) Responded() bool {
	return p.Err == nil && p.Command.Known()
}

// Engine is the scheduling loop. It owns the live controller state and the
// move queue; nothing else touches them.
type Engine struct {
	dispatcher *Dispatcher
	link       HostLink

	queue     Queue
	state     ControllerState
	idle      int
	iteration uint64

	stats *Statistics
}

// NewEngine wires a dispatcher to a host link. link may be nil, in which
// case the controller only ever reports neutral.
func NewEngine(d *Dispatcher, link HostLink) *Engine {
	return &Engine{
		dispatcher: d,
		link:       link,
		state:      Neutral(),
		stats:      NewStatistics(),
	}
}

// Step runs one iteration: one bus transaction attempt, then at most one
// move code from the host. A new move code replaces the queue; otherwise the
// queue advances every AdvanceEvery iterations.
func (e *Engine) Step() Poll {
	e.iteration++
	p := Poll{Iteration: e.iteration, State: e.state}

	p.Command, p.Err = e.dispatcher.Serve(e.state)

	if code, ok := e.readMove(&p); ok {
		e.queue.Build(code)
		e.idle = 0
		p.Move = code
		p.HasMove = true
		p.Truncated = e.queue.Truncated()
	} else {
		e.idle++
		if e.idle >= AdvanceEvery {
			e.idle = 0
			e.queue.Advance()
			p.Advanced = true
		}
	}

	e.state = e.queue.Current()
	e.stats.Record(p)
	return p
}

func (e *Engine) readMove(p *Poll) (MoveCode, bool) {
	if e.link == nil || e.link.Buffered() == 0 {
		return 0, false
	}
	b, err := e.link.ReadByte()
	if err != nil {
		p.LinkErr = err
		return 0, false
	}
	return MoveCode(b), true
}

// Run steps forever.
func (e *Engine) Run() {
	for {
		e.Step()
	}
}

// State is the snapshot the next status reply will carry.
func (e *Engine) State() ControllerState {
	return e.state
}

// Plan returns a copy of the queued entries and the playback cursor.
func (e *Engine) Plan() ([]Entry, int) {
	return e.queue.Entries(), e.queue.Cursor()
}

// Stats returns the engine's running counters.
func (e *Engine) Stats() *Statistics {
	return e.stats
}
