// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks loop iterations and bus traffic
type Statistics struct {
	StartTime time.Time

	// Counters
	Iterations   uint64
	Timeouts     uint64
	BusErrors    uint64
	Identify     uint64
	Origin       uint64
	Status       uint64
	Unrecognized uint64
	MoveCodes    uint64
	Truncated    uint64
	LinkErrors   uint64
	Advances     uint64

	// Rates (calculated)
	PollRate    float64 // replies/sec
	TimeoutRate float64 // timeouts/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Record counts one loop iteration
func (s *Statistics) Record(p Poll) {
	s.Iterations++

	switch {
	case errors.Is(p.Err, ErrBusTimeout):
		s.Timeouts++
	case p.Err != nil:
		s.BusErrors++
	case p.Command == CmdIdentify:
		s.Identify++
	case p.Command == CmdOrigin:
		s.Origin++
	case p.Command == CmdStatus:
		s.Status++
	default:
		s.Unrecognized++
	}

	if p.HasMove {
		s.MoveCodes++
		if p.Truncated {
			s.Truncated++
		}
	}
	if p.LinkErr != nil {
		s.LinkErrors++
	}
	if p.Advanced {
		s.Advances++
	}
}

// Replies is the number of commands answered
func (s *Statistics) Replies() uint64 {
	return s.Identify + s.Origin + s.Status
}

// CalculateRates calculates reply and timeout rates over elapsed time
func (s *Statistics) CalculateRates(elapsed time.Duration) {
	secs := elapsed.Seconds()
	if secs > 0 {
		s.PollRate = float64(s.Replies()) / secs
		s.TimeoutRate = float64(s.Timeouts) / secs
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	return fmt.Sprintf(
		"iterations=%d replies=%d (identify=%d origin=%d status=%d) unrecognized=%d timeouts=%d bus_errors=%d moves=%d truncated=%d link_errors=%d advances=%d",
		s.Iterations, s.Replies(), s.Identify, s.Origin, s.Status,
		s.Unrecognized, s.Timeouts, s.BusErrors,
		s.MoveCodes, s.Truncated, s.LinkErrors, s.Advances,
	)
}
