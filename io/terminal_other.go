//go:build !linux

package io

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal is a console on the host terminal.
// On this platform the terminal mode is switched with golang.org/x/term,
// and keys can not be polled without blocking. ReadKey waits for the key
// on a separate goroutine, so that a done context can abandon it.
type Terminal struct {
	Input  *os.File
	Output *os.File

	ctx   context.Context
	saved *term.State
}

var _ Console = (*Terminal)(nil)

// NewTerminal creates a terminal console, entering raw mode if the input
// is a TTY. ReadKey gives up with the context error once ctx is done.
func NewTerminal(ctx context.Context, input, output *os.File) (tc *Terminal, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	tc = &Terminal{
		Input:  input,
		Output: output,
		ctx:    ctx,
	}

	fd := int(input.Fd())
	if !term.IsTerminal(fd) {
		return
	}

	tc.saved, err = term.MakeRaw(fd)

	return
}

// Raw returns true if the terminal is in raw mode.
func (tc *Terminal) Raw() bool {
	return tc.saved != nil
}

// Close restores the saved terminal state.
func (tc *Terminal) Close() (err error) {
	if tc.saved == nil {
		return
	}

	err = term.Restore(int(tc.Input.Fd()), tc.saved)
	tc.saved = nil

	return
}

// Poll never reports a key on this platform.
func (tc *Terminal) Poll() (key byte, ok bool, err error) {
	return
}

// ReadKey blocks for the next key, or until the terminal's context is done.
func (tc *Terminal) ReadKey() (key byte, err error) {
	type result struct {
		key byte
		err error
	}

	done := make(chan result, 1)
	go func() {
		var one [1]byte
		_, rerr := io.ReadFull(tc.Input, one[:])
		done <- result{key: one[0], err: rerr}
	}()

	select {
	case <-tc.ctx.Done():
		err = tc.ctx.Err()
		return
	case res := <-done:
		key, err = res.key, res.err
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		key = 0
		err = ErrInputClosed
	}

	return
}

// Write sends data to the terminal output.
func (tc *Terminal) Write(data []byte) (n int, err error) {
	return tc.Output.Write(data)
}
