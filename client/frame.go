package client

import (
	"bytes"
	"io"
	"strings"
)

// dataPrefix marks a line as a data record. Lines without it (blank
// keep-alives, ": ..." comments) are not records and are skipped.
const dataPrefix = "data:"

// FrameDecoder turns the raw byte stream of a generation response into
// discrete record payloads. Reads may split a record anywhere, including
// mid-rune; the decoder carries the unterminated tail of each read over to
// the next one and only ever emits complete, newline-terminated records.
//
// The sequence it produces is lazy, finite and not restartable: Next
// returns io.EOF once the underlying stream ends, and an unterminated
// tail left at that point is discarded because it can never be completed.
type FrameDecoder struct {
	r       io.Reader
	carry   []byte   // unterminated tail of previous reads
	pending []string // complete payloads not yet handed out
	scratch []byte
	err     error
	eof     bool
}

// NewFrameDecoder wraps r, which must yield chunks in network delivery order.
func NewFrameDecoder(r io.Reader) *FrameDecoder {
	return &FrameDecoder{r: r, scratch: make([]byte, 4096)}
}

// Next returns the payload of the next data record (the text after the
// data prefix). It blocks on the underlying reader when no complete record
// is buffered. Once the stream ends it returns io.EOF, or the read error
// that terminated it.
func (d *FrameDecoder) Next() (string, error) {
	for {
		if len(d.pending) > 0 {
			p := d.pending[0]
			d.pending = d.pending[1:]
			return p, nil
		}
		if d.eof {
			return "", d.err
		}

		n, err := d.r.Read(d.scratch)
		if n > 0 {
			d.carry = append(d.carry, d.scratch[:n]...)
			d.splitCarry()
		}
		if err != nil {
			d.eof = true
			d.err = err
			d.carry = nil // truncated record; cannot be completed
		}
	}
}

// splitCarry moves every complete line out of the carry buffer, keeping the
// final unterminated segment for the next read.
func (d *FrameDecoder) splitCarry() {
	for {
		i := bytes.IndexByte(d.carry, '\n')
		if i < 0 {
			return
		}
		line := strings.TrimSuffix(string(d.carry[:i]), "\r")
		d.carry = d.carry[i+1:]

		payload, ok := strings.CutPrefix(line, dataPrefix)
		if !ok {
			continue
		}
		d.pending = append(d.pending, strings.TrimPrefix(payload, " "))
	}
}
