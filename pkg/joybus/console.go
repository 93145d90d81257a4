// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import "time"

// DefaultGap is the idle time the simulated console leaves before each
// request. It must stay under the receiver's spin budget.
const DefaultGap = 10 * time.Microsecond

// Console is a simulated bus master driving a Wire.
type Console struct {
	wire *Wire
	Gap  time.Duration
}

// NewConsole returns a console on w.
func NewConsole(w *Wire) *Console {
	return &Console{wire: w, Gap: DefaultGap}
}

// Frame is what the console puts on the wire for cmd. A status poll carries
// two trailing bytes (poll mode and rumble off).
func Frame(cmd Command) []byte {
	if cmd == CmdStatus {
		return []byte{byte(CmdStatus), 0x03, 0x00}
	}
	return []byte{byte(cmd)}
}

// Request schedules cmd after the console's gap and returns when the frame
// ends.
func (c *Console) Request(cmd Command) (time.Duration, error) {
	return c.wire.Schedule(Frame(cmd), c.wire.Now()+c.Gap)
}

// DecodeReply reads n bytes from what the controller drove. A silent
// controller decodes as ErrBusTimeout.
func DecodeReply(wave Waveform, n int) ([]byte, error) {
	if len(wave) == 0 {
		return nil, ErrBusTimeout
	}
	p := NewPlayer(wave, wave[0].At-SpinStep)
	buf := make([]byte, n)
	if err := NewTransport(p, p, nil).Receive(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Transaction is one simulated console request and what came back.
type Transaction struct {
	Seq     uint64
	At      time.Duration
	Command Command
	Polled  bool
	Reply   []byte
	Err     error
	Poll    Poll
}

// Simulator runs an Engine against a Console in virtual time. The console
// identifies the controller, reads its origin, then polls status.
type Simulator struct {
	Wire    *Wire
	Console *Console
	Link    *ByteQueue
	Engine  *Engine

	seq uint64
}

// NewSimulator wires a fresh engine to a simulated console and host link.
func NewSimulator() *Simulator {
	w := NewWire()
	link := &ByteQueue{}
	t := NewTransport(w, w, w)
	return &Simulator{
		Wire:    w,
		Console: NewConsole(w),
		Link:    link,
		Engine:  NewEngine(NewDispatcher(t, w), link),
	}
}

// Inject queues move codes on the host link. The engine takes one per
// iteration.
func (s *Simulator) Inject(codes ...MoveCode) {
	for _, c := range codes {
		s.Link.Write([]byte{byte(c)})
	}
}

// Next performs the console's next request in its startup-then-poll cycle.
func (s *Simulator) Next() Transaction {
	switch s.seq {
	case 0:
		return s.Send(CmdIdentify)
	case 1:
		return s.Send(CmdOrigin)
	}
	return s.Send(CmdStatus)
}

// Send performs one request of cmd and steps the engine once.
func (s *Simulator) Send(cmd Command) Transaction {
	s.seq++
	tx := Transaction{Seq: s.seq, At: s.Wire.Now(), Command: cmd, Polled: true}

	end, err := s.Console.Request(cmd)
	if err != nil {
		tx.Err = err
		return tx
	}

	tx.Poll = s.Engine.Step()
	wave := s.Wire.TakeLocal()
	if n := cmd.ReplySize(); n > 0 {
		tx.Reply, tx.Err = DecodeReply(wave, n)
	}

	if now := s.Wire.Now(); now < end {
		s.Wire.Delay(end - now)
	}
	return tx
}

// Idle steps the engine with no request on the bus.
func (s *Simulator) Idle() Transaction {
	s.seq++
	tx := Transaction{Seq: s.seq, At: s.Wire.Now()}
	tx.Poll = s.Engine.Step()
	s.Wire.TakeLocal()
	return tx
}
