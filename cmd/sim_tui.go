// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

// Event log entry
type logEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// eventLog keeps the most recent entries
type eventLog struct {
	entries []logEntry
	max     int
}

func (l *eventLog) add(message string, isError bool) {
	l.entries = append(l.entries, logEntry{timestamp: time.Now(), message: message, isError: isError})
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Styles shared by the TUIs
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	focusedBoxStyle = boxStyle.
		BorderForeground(lipgloss.Color("12"))
)

func (l eventLog) render(height, width int) string {
	if height < 1 {
		height = 1
	}
	var s strings.Builder
	start := len(l.entries) - height
	if start < 0 {
		start = 0
	}
	if len(l.entries) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	}
	for _, entry := range l.entries[start:] {
		ts := headerStyle.Render(entry.timestamp.Format("15:04:05.000"))
		if entry.isError {
			fmt.Fprintf(&s, "%s %s\n", ts, errorStyle.Render("x "+entry.message))
		} else {
			fmt.Fprintf(&s, "%s %s\n", ts, warningStyle.Render("i "+entry.message))
		}
	}
	return boxStyle.Width(width).Render(strings.TrimRight(s.String(), "\n"))
}

// simModel is the Bubble Tea model for the live simulation
type simModel struct {
	run      *simRun
	interval time.Duration
	last     joybus.Transaction
	events   eventLog
	paused   bool
	width    int
	height   int
	quitting bool
	err      error
}

type simTickMsg time.Time

func initialSimModel(run *simRun, interval time.Duration) simModel {
	return simModel{
		run:      run,
		interval: interval,
		events:   eventLog{max: 100},
		width:    80,
		height:   24,
	}
}

func (m simModel) Init() tea.Cmd {
	return m.tick()
}

func (m simModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return simTickMsg(t)
	})
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "s":
			if m.paused {
				m.advance()
			}
		case "n":
			m.run.sim.Inject(joybus.NeutralMove)
			m.events.add("Injected neutral move", false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case simTickMsg:
		if !m.paused && m.err == nil {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *simModel) advance() {
	tx, err := m.run.step()
	if err != nil {
		m.err = err
		m.events.add(fmt.Sprintf("Trace write failed: %v", err), true)
		return
	}
	m.last = tx

	p := tx.Poll
	switch {
	case tx.Err != nil:
		m.events.add(fmt.Sprintf("#%d console: %v", p.Iteration, tx.Err), true)
	case tx.Polled && !tx.Command.Known():
		m.events.add(fmt.Sprintf("#%d %s ignored", p.Iteration, tx.Command), false)
	}
	if p.HasMove {
		msg := fmt.Sprintf("#%d move %s", p.Iteration, p.Move)
		if p.Truncated {
			msg += " (truncated)"
		}
		m.events.add(msg, p.Truncated)
	}
	if p.LinkErr != nil {
		m.events.add(fmt.Sprintf("#%d link error: %v", p.Iteration, p.LinkErr), true)
	}
}

func (m simModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	mode := "running"
	if m.paused {
		mode = "paused"
	}
	s.WriteString(titleStyle.Render("GCPAD - SIMULATION"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | q=quit space=pause s=step n=neutral", mode)))
	s.WriteString("\n\n")

	width := m.width - 4
	stats := m.run.sim.Engine.Stats()
	stats.CalculateRates(m.run.elapsed())

	var statsContent strings.Builder
	fmt.Fprintf(&statsContent, "%s %s   %s %s   %s %s   %s %s\n",
		labelStyle.Render("Iterations:"), valueStyle.Render(fmt.Sprintf("%d", stats.Iterations)),
		labelStyle.Render("Replies:"), valueStyle.Render(fmt.Sprintf("%d", stats.Replies())),
		labelStyle.Render("Timeouts:"), countStyle(stats.Timeouts).Render(fmt.Sprintf("%d", stats.Timeouts)),
		labelStyle.Render("Ignored:"), countStyle(stats.Unrecognized).Render(fmt.Sprintf("%d", stats.Unrecognized)),
	)
	fmt.Fprintf(&statsContent, "%s %s   %s %s   %s %s\n",
		labelStyle.Render("Moves:"), valueStyle.Render(fmt.Sprintf("%d (%d pending)", stats.MoveCodes, m.run.pending())),
		labelStyle.Render("Truncated:"), countStyle(stats.Truncated).Render(fmt.Sprintf("%d", stats.Truncated)),
		labelStyle.Render("Advances:"), valueStyle.Render(fmt.Sprintf("%d", stats.Advances)),
	)
	fmt.Fprintf(&statsContent, "%s %s   %s %s",
		labelStyle.Render("Virtual time:"), valueStyle.Render(m.run.elapsed().Round(time.Microsecond).String()),
		labelStyle.Render("Poll rate:"), valueStyle.Render(fmt.Sprintf("%.0f/s", stats.PollRate)),
	)
	s.WriteString(boxStyle.Width(width).Render(statsContent.String()))
	s.WriteString("\n")

	var stateContent strings.Builder
	stateContent.WriteString(labelStyle.Render("STATE"))
	stateContent.WriteString("\n")
	state := m.run.sim.Engine.State()
	fmt.Fprintf(&stateContent, "%s\n", valueStyle.Render(joybus.FormatState(state)))
	b := state.Bytes()
	fmt.Fprintf(&stateContent, "%s %s\n", headerStyle.Render("wire:"), joybus.FormatHex(b[:]))
	if m.last.Seq > 0 {
		fmt.Fprintf(&stateContent, "%s %s", headerStyle.Render("last:"), joybus.FormatPoll(m.last.Poll))
	}

	entries, cursor := m.run.sim.Engine.Plan()
	var planContent strings.Builder
	planContent.WriteString(labelStyle.Render("QUEUE"))
	planContent.WriteString("\n")
	if len(entries) == 0 {
		planContent.WriteString(headerStyle.Render("(empty)"))
	} else {
		planContent.WriteString(strings.TrimRight(joybus.FormatEntries(entries, cursor), "\n"))
	}

	half := width/2 - 1
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		focusedBoxStyle.Width(half).Render(stateContent.String()),
		boxStyle.Width(half).Render(planContent.String()),
	))
	s.WriteString("\n")

	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")
	s.WriteString(m.events.render(m.height-22, width))
	return s.String()
}

func countStyle(n uint64) lipgloss.Style {
	if n > 0 {
		return errorStyle
	}
	return valueStyle
}
