// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package trace captures simulated bus transactions as a stream of CBOR
// records, one map per transaction with small integer keys.
package trace

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/Thermoquad/gcpad/pkg/joybus"
)

// Record is one bus transaction as seen from the console side
type Record struct {
	Seq      uint64        `cbor:"1,keyasint"`
	At       time.Duration `cbor:"2,keyasint"`
	Polled   bool          `cbor:"3,keyasint,omitempty"`
	Command  uint8         `cbor:"4,keyasint"`
	Response []byte        `cbor:"5,keyasint,omitempty"`
	Timeout  bool          `cbor:"6,keyasint,omitempty"`
	Move     uint8         `cbor:"7,keyasint,omitempty"`
	HasMove  bool          `cbor:"8,keyasint,omitempty"`
	Advanced bool          `cbor:"9,keyasint,omitempty"`
	Error    string        `cbor:"10,keyasint,omitempty"`
}

// FromTransaction converts a simulator transaction
func FromTransaction(tx joybus.Transaction) Record {
	r := Record{
		Seq:      tx.Seq,
		At:       tx.At,
		Polled:   tx.Polled,
		Command:  byte(tx.Command),
		Response: tx.Reply,
		Timeout:  errors.Is(tx.Poll.Err, joybus.ErrBusTimeout),
		Move:     byte(tx.Poll.Move),
		HasMove:  tx.Poll.HasMove,
		Advanced: tx.Poll.Advanced,
	}
	if tx.Err != nil {
		r.Error = tx.Err.Error()
	}
	return r
}

// String renders the record on one line
func (r Record) String() string {
	s := fmt.Sprintf("%6d %10s ", r.Seq, r.At)
	switch {
	case !r.Polled:
		s += "idle"
	default:
		s += joybus.Command(r.Command).String()
	}
	switch {
	case r.Error != "":
		s += " error: " + r.Error
	case r.Timeout:
		s += " timeout"
	case len(r.Response) > 0:
		s += " -> " + joybus.FormatHex(r.Response)
		if joybus.Command(r.Command) == joybus.CmdStatus {
			if st, err := joybus.ParseState(r.Response); err == nil {
				s += " (" + joybus.FormatState(st) + ")"
			}
		}
	}
	if r.HasMove {
		s += " | move " + joybus.MoveCode(r.Move).String()
	}
	if r.Advanced {
		s += " | advance"
	}
	return s
}

// Writer appends records to a stream
type Writer struct {
	enc *cbor.Encoder
	n   int
}

// NewWriter creates a writer on w
func NewWriter(w io.Writer) (*Writer, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return &Writer{enc: em.NewEncoder(w)}, nil
}

// Write encodes one record
func (w *Writer) Write(r Record) error {
	if err := w.enc.Encode(r); err != nil {
		return fmt.Errorf("encode record %d: %w", r.Seq, err)
	}
	w.n++
	return nil
}

// Count returns the number of records written
func (w *Writer) Count() int {
	return w.n
}

// Reader decodes records from a stream
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a reader on r
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the stream
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// ReadAll decodes every record in the stream
func ReadAll(r io.Reader) ([]Record, error) {
	rd := NewReader(r)
	var out []Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
