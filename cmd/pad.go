// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/gcpad/pkg/hostlink"
	"github.com/Thermoquad/gcpad/pkg/joybus"
)

var padCmd = &cobra.Command{
	Use:   "pad",
	Short: "Interactive TUI for sending moves",
	Long: `Send moves to the controller from an interactive terminal UI.

Board keys:
  left/right  choose the target column
  z / x       rotate anticlockwise / clockwise
  d           toggle fast drop
  enter       send the placement

Tab moves focus to the input box, where a placement (col,rot[,drop]) or a raw
code (0x15) can be typed, and to the history list, where enter resends the
selected move. The link reconnects automatically if it drops.

Supports both serial and WebSocket connections.`,
	RunE: runPad,
}

func init() {
	rootCmd.AddCommand(padCmd)
}

// linkManager owns the host link and reconnects it when it fails
type linkManager struct {
	conn     Connection
	connInfo string
	mu       sync.RWMutex
	p        *tea.Program
	done     chan struct{}
	lost     chan struct{}
	isLost   bool
	ctx      context.Context
}

func (lm *linkManager) getConn() Connection {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return lm.conn
}

// setConn installs a fresh link and rearms loss detection
func (lm *linkManager) setConn(conn Connection, connInfo string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.conn = conn
	lm.connInfo = connInfo
	lm.lost = make(chan struct{})
	lm.isLost = false
}

// send writes one move code. A write failure marks the link lost.
func (lm *linkManager) send(code joybus.MoveCode) error {
	conn := lm.getConn()
	if conn == nil {
		return errors.New("connection lost")
	}
	if err := hostlink.NewSender(conn).Send(code); err != nil {
		lm.markLost()
		return err
	}
	return nil
}

func (lm *linkManager) markLost() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if !lm.isLost {
		lm.isLost = true
		close(lm.lost)
	}
}

func runPad(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection(cmd.Context())
	if err != nil {
		return err
	}

	lm := &linkManager{
		conn:     conn,
		connInfo: connInfo,
		done:     make(chan struct{}),
		lost:     make(chan struct{}),
		ctx:      cmd.Context(),
	}

	m := initialPadModel(lm, connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())
	lm.p = p

	go lm.supervise()

	_, err = p.Run()
	close(lm.done)
	if c := lm.getConn(); c != nil {
		c.Close()
	}
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// supervise reads the link until it fails, then reconnects
func (lm *linkManager) supervise() {
	for {
		lm.readUntilLost()

		select {
		case <-lm.done:
			return
		default:
		}

		lm.p.Send(connectionLostMsg{})
		if !lm.reconnect() {
			return
		}
	}
}

// readUntilLost forwards anything the firmware sends back and returns when
// the link fails or a send marks it lost
func (lm *linkManager) readUntilLost() {
	lm.mu.RLock()
	lost := lm.lost
	lm.mu.RUnlock()

	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 128)
		for {
			conn := lm.getConn()
			if conn == nil {
				readErr <- errors.New("connection lost")
				return
			}
			n, err := conn.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				lm.p.Send(linkDataMsg{data: data})
			}
		}
	}()

	select {
	case <-lm.done:
	case <-lost:
	case err := <-readErr:
		slog.Debug("link read failed", "error", err)
	}
}

// reconnect retries with exponential backoff. It returns false if the TUI
// quit first.
func (lm *linkManager) reconnect() bool {
	if conn := lm.getConn(); conn != nil {
		conn.Close()
	}

	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-lm.done:
			return false
		case <-time.After(backoff):
		}

		conn, connInfo, err := OpenConnection(lm.ctx)
		if err == nil {
			lm.setConn(conn, connInfo)

			lm.p.Send(reconnectedMsg{connInfo: connInfo})
			slog.Info("reconnected", "link", connInfo)
			return true
		}
		slog.Debug("reconnect failed", "error", err, "retry_in", backoff)

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
