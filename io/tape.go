package io

import (
	"errors"
	"io"
)

// Tape provides console I/O over plain byte streams.
// Input is consumed one byte per key; Output receives every displayed
// character. A nil Input behaves as an empty keyboard, a nil Output
// discards.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Console = (*Tape)(nil)

// Poll reads the next input byte, if there is one.
// End of input is reported as no key available.
func (tc *Tape) Poll() (key byte, ok bool, err error) {
	if tc.Input == nil {
		return
	}

	var one [1]byte
	n, err := tc.Input.Read(one[:])
	if n == 1 {
		key = one[0]
		ok = true
		err = nil
		return
	}

	if errors.Is(err, io.EOF) {
		err = nil
	}

	return
}

// ReadKey reads the next input byte.
// Returns ErrInputClosed at end of input.
func (tc *Tape) ReadKey() (key byte, err error) {
	if tc.Input == nil {
		err = ErrInputClosed
		return
	}

	var one [1]byte
	_, err = io.ReadFull(tc.Input, one[:])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrInputClosed
		return
	}
	if err != nil {
		return
	}

	key = one[0]
	return
}

// Write sends data to the output stream.
func (tc *Tape) Write(data []byte) (n int, err error) {
	if tc.Output == nil {
		n = len(data)
		return
	}

	return tc.Output.Write(data)
}
