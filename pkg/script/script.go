// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package script loads YAML move scripts.
//
// A script is a pacing gap and a list of moves:
//
//	pace: 50ms
//	moves:
//	  - column: 0
//	    rotation: 3
//	  - column: 4
//	    rotation: -1
//	    drop: true
//	    wait: 400ms
//	  - code: 0x10
//
// Each move is either a placement (column, rotation, drop) or a raw Move
// Code. A move's wait, when set, replaces the pace after that move.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Thermoquad/gcpad/pkg/hostlink"
	"github.com/Thermoquad/gcpad/pkg/joybus"
)

// Move is one script entry as written in YAML
type Move struct {
	Column   *int          `yaml:"column,omitempty"`
	Rotation int           `yaml:"rotation,omitempty"`
	Drop     bool          `yaml:"drop,omitempty"`
	Code     *int          `yaml:"code,omitempty"`
	Wait     time.Duration `yaml:"wait,omitempty"`
}

// Script is a parsed move script
type Script struct {
	Pace  time.Duration `yaml:"pace,omitempty"`
	Moves []Move        `yaml:"moves"`
}

// Step is a resolved move ready to send
type Step struct {
	Code joybus.MoveCode
	Wait time.Duration
}

// Load reads and validates a script file
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode parses and validates a script
func Decode(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty script")
		}
		return nil, err
	}
	if s.Pace == 0 {
		s.Pace = hostlink.DefaultPace
	}
	if s.Pace < 0 {
		return nil, fmt.Errorf("pace must not be negative, got %s", s.Pace)
	}
	if _, err := s.Steps(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode writes the script as YAML
func (s *Script) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// MoveCode resolves a single move
func (m Move) MoveCode() (joybus.MoveCode, error) {
	switch {
	case m.Code != nil && m.Column != nil:
		return 0, errors.New("move has both code and column")
	case m.Code != nil:
		if *m.Code < 0 || *m.Code > 0xFF {
			return 0, fmt.Errorf("code must be a byte, not %d", *m.Code)
		}
		return joybus.MoveCode(*m.Code), nil
	case m.Column != nil:
		p := hostlink.Placement{Column: *m.Column, Rotation: m.Rotation, Drop: m.Drop}
		return p.MoveCode()
	default:
		return 0, errors.New("move needs a column or a code")
	}
}

// Steps resolves every move with its effective wait
func (s *Script) Steps() ([]Step, error) {
	steps := make([]Step, 0, len(s.Moves))
	for i, m := range s.Moves {
		code, err := m.MoveCode()
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		wait := s.Pace
		if m.Wait > 0 {
			wait = m.Wait
		}
		steps = append(steps, Step{Code: code, Wait: wait})
	}
	return steps, nil
}

// Duration is the total time the script takes to play
func (s *Script) Duration() time.Duration {
	steps, err := s.Steps()
	if err != nil {
		return 0
	}
	var d time.Duration
	for _, st := range steps {
		d += st.Wait
	}
	return d
}

// Play sends each step through the sender, waiting between moves
func (s *Script) Play(ctx context.Context, sender *hostlink.Sender, onStep func(i int, st Step)) error {
	steps, err := s.Steps()
	if err != nil {
		return err
	}
	for i, st := range steps {
		if err := sender.Send(st.Code); err != nil {
			return err
		}
		if onStep != nil {
			onStep(i, st)
		}
		if err := hostlink.Sleep(ctx, st.Wait); err != nil {
			return err
		}
	}
	return nil
}
