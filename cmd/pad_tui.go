// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/gcpad/pkg/hostlink"
	"github.com/Thermoquad/gcpad/pkg/joybus"
)

// Focus states
const (
	focusBoard = iota
	focusInput
	focusHistory
	focusCount
)

const maxHistory = 50

// sentMove is one history entry
type sentMove struct {
	code  joybus.MoveCode
	label string
	at    time.Time
}

// Implement list.Item interface
func (s sentMove) Title() string       { return s.label }
func (s sentMove) Description() string { return s.code.String() + "  " + s.at.Format("15:04:05") }
func (s sentMove) FilterValue() string { return s.label }

// padModel is the Bubble Tea model for the pad TUI
type padModel struct {
	link     *linkManager
	connInfo string

	placement hostlink.Placement

	input   textinput.Model
	history list.Model
	sent    []sentMove
	focused int

	events eventLog
	stats  padStats

	width          int
	height         int
	quitting       bool
	connectionLost bool
}

// padStats counts what the pad has done on the link
type padStats struct {
	sent      int
	failed    int
	received  int
	reconnect int
}

// Messages
type connectionLostMsg struct{}

type reconnectedMsg struct {
	connInfo string
}

type linkDataMsg struct {
	data []byte
}

func initialPadModel(link *linkManager, connInfo string) padModel {
	ti := textinput.New()
	ti.Placeholder = "col,rot[,drop] or 0x15"
	ti.CharLimit = 16
	ti.Width = 24

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	history := list.New([]list.Item{}, delegate, 30, 10)
	history.Title = "History"
	history.SetShowStatusBar(false)
	history.SetShowHelp(false)
	history.SetFilteringEnabled(false)

	return padModel{
		link:      link,
		connInfo:  connInfo,
		placement: hostlink.Placement{Column: hostlink.SpawnColumn},
		input:     ti,
		history:   history,
		focused:   focusBoard,
		events:    eventLog{max: 100},
		width:     80,
		height:    24,
	}
}

func (m padModel) Init() tea.Cmd {
	return nil
}

func (m padModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height / 3
		if listHeight < 5 {
			listHeight = 5
		}
		m.history.SetSize(28, listHeight)

	case connectionLostMsg:
		m.connectionLost = true
		m.events.add("Connection lost - reconnecting...", true)

	case reconnectedMsg:
		m.connectionLost = false
		m.connInfo = msg.connInfo
		m.stats.reconnect++
		m.events.add("Reconnected: "+msg.connInfo, false)

	case linkDataMsg:
		m.stats.received += len(msg.data)
		m.events.add(fmt.Sprintf("Link sent %d bytes: %s", len(msg.data), joybus.FormatHex(msg.data)), false)
	}
	return m, nil
}

func (m padModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focused + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focused + focusCount - 1) % focusCount)
		return m, nil
	}

	switch m.focused {
	case focusInput:
		if msg.String() == "enter" {
			m.sendTyped()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case focusHistory:
		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.history.SelectedItem().(sentMove); ok {
				m.send(item.code, item.label)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		if m.placement.Column > hostlink.MinColumn {
			m.placement.Column--
		}
	case "right", "l":
		if m.placement.Column < hostlink.MaxColumn {
			m.placement.Column++
		}
	case "z":
		if m.placement.Rotation > hostlink.MinRotation {
			m.placement.Rotation--
		}
	case "x":
		if m.placement.Rotation < hostlink.MaxRotation {
			m.placement.Rotation++
		}
	case "d":
		m.placement.Drop = !m.placement.Drop
	case "0":
		m.placement = hostlink.Placement{Column: hostlink.SpawnColumn}
	case "enter":
		code, err := m.placement.MoveCode()
		if err != nil {
			m.events.add(err.Error(), true)
			break
		}
		m.send(code, m.placement.String())
	}
	return m, nil
}

func (m *padModel) setFocus(f int) {
	m.focused = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *padModel) sendTyped() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	code, err := hostlink.ParseMoveCode(text)
	if err != nil {
		m.events.add(err.Error(), true)
		return
	}
	m.send(code, text)
	m.input.SetValue("")
}

func (m *padModel) send(code joybus.MoveCode, label string) {
	if m.connectionLost {
		m.events.add("Cannot send move: connection lost", true)
		return
	}
	if err := m.link.send(code); err != nil {
		m.stats.failed++
		m.events.add(fmt.Sprintf("Failed to send %s: %v", label, err), true)
		return
	}

	m.stats.sent++
	m.events.add(fmt.Sprintf("Sent %s (%s)", label, code), false)

	m.sent = append([]sentMove{{code: code, label: label, at: time.Now()}}, m.sent...)
	if len(m.sent) > maxHistory {
		m.sent = m.sent[:maxHistory]
	}
	items := make([]list.Item, len(m.sent))
	for i, s := range m.sent {
		items[i] = s
	}
	m.history.SetItems(items)
}

func (m padModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("GCPAD"))
	s.WriteString(" ")
	connStatus := m.connInfo
	if m.connectionLost {
		connStatus = warningStyle.Render("RECONNECTING...")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | q=quit Tab=switch", connStatus)))
	s.WriteString("\n\n")

	leftWidth := 30
	rightWidth := m.width - leftWidth - 6
	if rightWidth < 30 {
		rightWidth = 30
	}

	historyStyle := boxStyle.Width(leftWidth)
	if m.focused == focusHistory {
		historyStyle = focusedBoxStyle.Width(leftWidth)
	}
	historyPanel := historyStyle.Render(m.history.View())

	boardStyle := boxStyle.Width(rightWidth)
	if m.focused == focusBoard {
		boardStyle = focusedBoxStyle.Width(rightWidth)
	}
	boardPanel := boardStyle.Render(m.renderBoard())

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, historyPanel, " ", boardPanel))
	s.WriteString("\n")

	inputStyle := boxStyle.Width(m.width - 4)
	if m.focused == focusInput {
		inputStyle = focusedBoxStyle.Width(m.width - 4)
	}
	s.WriteString(inputStyle.Render(labelStyle.Render("Move: ") + m.input.View()))
	s.WriteString("\n")

	s.WriteString(boxStyle.Width(m.width - 4).Render(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("Sent:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.sent)),
		labelStyle.Render("Failed:"), countStyle(uint64(m.stats.failed)).Render(fmt.Sprintf("%d", m.stats.failed)),
		labelStyle.Render("Received:"), valueStyle.Render(fmt.Sprintf("%d B", m.stats.received)),
		labelStyle.Render("Reconnects:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.reconnect)),
	)))
	s.WriteString("\n")

	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")
	s.WriteString(m.events.render(8, m.width-4))
	return s.String()
}

// renderBoard draws the column picker and the pending move
func (m padModel) renderBoard() string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("PLACEMENT"))
	s.WriteString("\n\n")

	for col := hostlink.MinColumn; col <= hostlink.MaxColumn; col++ {
		cell := fmt.Sprintf(" %d ", col)
		switch {
		case col == m.placement.Column:
			s.WriteString(valueStyle.Render("[" + strings.TrimSpace(cell) + "]"))
		case col == hostlink.SpawnColumn:
			s.WriteString(headerStyle.Render("(" + strings.TrimSpace(cell) + ")"))
		default:
			s.WriteString(cell)
		}
		s.WriteString(" ")
	}
	s.WriteString("\n\n")

	rot := m.placement.Rotation
	dir := "none"
	switch {
	case rot > 0:
		dir = fmt.Sprintf("%d clockwise", rot)
	case rot < 0:
		dir = fmt.Sprintf("%d anticlockwise", -rot)
	}
	fmt.Fprintf(&s, "%s %s\n", labelStyle.Render("Rotation:"), valueStyle.Render(dir))
	drop := "off"
	if m.placement.Drop {
		drop = "on"
	}
	fmt.Fprintf(&s, "%s %s\n", labelStyle.Render("Fast drop:"), valueStyle.Render(drop))

	if code, err := m.placement.MoveCode(); err == nil {
		var q joybus.Queue
		q.Build(code)
		fmt.Fprintf(&s, "%s %s\n", labelStyle.Render("Code:"), valueStyle.Render(code.String()))
		fmt.Fprintf(&s, "%s %s", labelStyle.Render("Length:"),
			headerStyle.Render(fmt.Sprintf("%d entries, %d ticks", q.Len(), q.Ticks())))
	}
	s.WriteString("\n\n")
	s.WriteString(headerStyle.Render("left/right column  z/x rotate  d drop  0 reset  enter send"))
	return s.String()
}
