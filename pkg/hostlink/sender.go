// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package hostlink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

// DefaultPace is the gap between consecutive moves.
const DefaultPace = 50 * time.Millisecond

// Sender writes Move Codes to the host link one byte at a time.
type Sender struct {
	w    io.Writer
	Pace time.Duration
	sent int
}

// NewSender creates a sender with DefaultPace
func NewSender(w io.Writer) *Sender {
	return &Sender{w: w, Pace: DefaultPace}
}

// Sent returns the number of codes written so far
func (s *Sender) Sent() int {
	return s.sent
}

// Send writes one code without pacing
func (s *Sender) Send(code joybus.MoveCode) error {
	if _, err := s.w.Write([]byte{byte(code)}); err != nil {
		return fmt.Errorf("write move %s: %w", code, err)
	}
	s.sent++
	slog.Debug("move sent", "code", code.String())
	return nil
}

// SendAll writes each code followed by the pacing gap. It stops early when
// ctx is cancelled.
func (s *Sender) SendAll(ctx context.Context, codes []joybus.MoveCode) error {
	for _, code := range codes {
		if err := s.Send(code); err != nil {
			return err
		}
		if err := Sleep(ctx, s.Pace); err != nil {
			return err
		}
	}
	return nil
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
