// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

// Command is the first byte of a console request.
type Command byte

// Known reports whether the controller answers c.
func (c Command) Known() bool {
	switch c {
	case CmdIdentify, CmdStatus, CmdOrigin:
		return true
	}
	return false
}

// ReplySize is the length of the reply to c, or 0 for commands that get no
// reply.
func (c Command) ReplySize() int {
	switch c {
	case CmdIdentify:
		return IdentifySize
	case CmdOrigin:
		return OriginSize
	case CmdStatus:
		return StateSize
	}
	return 0
}

// Dispatcher answers one console command per call to Serve.
type Dispatcher struct {
	bus   BusTransport
	clock Clock
}

// NewDispatcher returns a Dispatcher speaking over bus and timing its
// response windows with clock.
func NewDispatcher(bus BusTransport, clock Clock) *Dispatcher {
	return &Dispatcher{bus: bus, clock: clock}
}

// Serve reads one command byte and sends the matching reply: the identify
// record for 0x00, the origin record for 0x41, and state for 0x40. Other
// commands get no reply and no error. A failed receive returns its error
// (normally ErrBusTimeout) and the caller should simply try again.
func (d *Dispatcher) Serve(state ControllerState) (Command, error) {
	var buf [CommandSize]byte
	if err := d.bus.Receive(buf[:]); err != nil {
		return 0, err
	}

	cmd := Command(buf[0])
	switch cmd {
	case CmdIdentify:
		return cmd, d.bus.Send(identifyRecord[:])

	case CmdOrigin:
		d.clock.Delay(OriginDelay)
		return cmd, d.bus.Send(originRecord[:])

	case CmdStatus:
		d.clock.Delay(StatusDelay)
		reply := state.Bytes()
		return cmd, d.bus.Send(reply[:])
	}

	return cmd, nil
}
