// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package joybus

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 500
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 500
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := time.Now().UnixNano()
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if s, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			seed = s
		}
	}
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func randomState(rng *rand.Rand) ControllerState {
	bit := func() bool { return rng.Intn(2) == 1 }
	return ControllerState{
		Buttons: Buttons{
			A: bit(), B: bit(), X: bit(), Y: bit(), Start: bit(),
			L: bit(), R: bit(), Z: bit(),
			Up: bit(), Down: bit(), Left: bit(), Right: bit(),
		},
		StickX:   uint8(rng.Intn(256)),
		StickY:   uint8(rng.Intn(256)),
		CStickX:  uint8(rng.Intn(256)),
		CStickY:  uint8(rng.Intn(256)),
		TriggerL: uint8(rng.Intn(256)),
		TriggerR: uint8(rng.Intn(256)),
	}
}

func TestFuzz_StatusOverWire(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		s := randomState(rng)
		b := s.Bytes()

		rec := NewRecorder(time.Duration(rng.Intn(1000)) * SpinStep)
		if err := NewTransport(rec, rec, nil).Send(b[:]); err != nil {
			t.Fatalf("round %d: Send: %v", i, err)
		}
		reply, err := DecodeReply(rec.Edges(), StateSize)
		if err != nil {
			t.Fatalf("round %d: decode: %v", i, err)
		}
		got, err := ParseState(reply)
		if err != nil {
			t.Fatalf("round %d: ParseState: %v", i, err)
		}
		if got != s {
			t.Fatalf("round %d: got %+v, want %+v", i, got, s)
		}
	}
}

func TestFuzz_AnyMoveCode(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		code := MoveCode(rng.Intn(256))
		q := &Queue{}
		q.Build(code)

		if q.Len() < 1 || q.Len() > QueueCapacity {
			t.Fatalf("%s: Len() = %d", code, q.Len())
		}
		entries := q.Entries()
		if !entries[len(entries)-1].State.IsNeutral() {
			t.Fatalf("%s: plan ends on %s", code, FormatState(entries[len(entries)-1].State))
		}

		valid := code.Displacement() >= -2 && code.Displacement() <= 2
		if valid && q.Truncated() {
			t.Fatalf("%s: valid move truncated", code)
		}

		ticks := q.Ticks()
		for n := 0; n < ticks; n++ {
			q.Advance()
		}
		if !q.Drained() || !q.Current().IsNeutral() {
			t.Fatalf("%s: not drained after %d ticks", code, ticks)
		}
	}
}

func TestFuzz_RandomConsoleTraffic(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()
	sim := NewSimulator()

	for i := 0; i < rounds; i++ {
		if rng.Intn(8) == 0 {
			sim.Inject(MoveCode(rng.Intn(256)))
		}

		switch rng.Intn(6) {
		case 0:
			sim.Idle()
		case 1:
			tx := sim.Send(Command(rng.Intn(256)))
			if tx.Command.Known() && tx.Err != nil {
				t.Fatalf("round %d: %s: %v", i, tx.Command, tx.Err)
			}
		default:
			tx := sim.Send(CmdStatus)
			if tx.Err != nil {
				t.Fatalf("round %d: status: %v", i, tx.Err)
			}
			if _, err := ParseState(tx.Reply); err != nil {
				t.Fatalf("round %d: %v", i, err)
			}
		}
	}

	if sim.Wire.Masked() {
		t.Error("interrupts left masked")
	}
}
