//go:build linux

package io

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Interval between context checks while ReadKey waits for a key.
const _read_interval = 50 * time.Millisecond

// Terminal is a console on the host terminal.
// When the input is a TTY it is switched to non-canonical, no-echo mode
// until Close is called.
type Terminal struct {
	Input  *os.File
	Output *os.File

	ctx   context.Context
	saved unix.Termios
	raw   bool
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

	if !term.IsTerminal(int(input.Fd())) {
		return
	}

	err = termios.Tcgetattr(input.Fd(), &tc.saved)
	if err != nil {
		return
	}

	attr := tc.saved
	attr.Lflag &^= unix.ICANON | unix.ECHO
	err = termios.Tcsetattr(input.Fd(), termios.TCSANOW, &attr)
	if err != nil {
		return
	}

	tc.raw = true

	return
}

// Raw returns true if the terminal is in raw mode.
func (tc *Terminal) Raw() bool {
	return tc.raw
}

// Close restores the saved terminal attributes.
func (tc *Terminal) Close() (err error) {
	if !tc.raw {
		return
	}

	err = termios.Tcsetattr(tc.Input.Fd(), termios.TCSANOW, &tc.saved)
	tc.raw = false

	return
}

// ready waits up to timeout for the input to become readable.
func (tc *Terminal) ready(timeout time.Duration) (ok bool, err error) {
	fd := int(tc.Input.Fd())

	var readfds unix.FdSet
	readfds.Set(fd)
	tv := unix.NsecToTimeval(timeout.Nanoseconds())

	n, err := unix.Select(fd+1, &readfds, nil, nil, &tv)
	if errors.Is(err, unix.EINTR) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	ok = n != 0
	return
}

// Poll checks for a pending key with a zero-timeout select.
func (tc *Terminal) Poll() (key byte, ok bool, err error) {
	ready, err := tc.ready(0)
	if err != nil || !ready {
		return
	}

	var one [1]byte
	n, err := tc.Input.Read(one[:])
	if errors.Is(err, io.EOF) {
		err = nil
		return
	}
	if err != nil || n == 0 {
		return
	}

	key = one[0]
	ok = true
	return
}

// ReadKey blocks for the next key, or until the terminal's context is done.
func (tc *Terminal) ReadKey() (key byte, err error) {
	for ready := false; !ready; {
		err = tc.ctx.Err()
		if err != nil {
			return
		}

		ready, err = tc.ready(_read_interval)
		if err != nil {
			return
		}
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

// Write sends data to the terminal output.
func (tc *Terminal) Write(data []byte) (n int, err error) {
	return tc.Output.Write(data)
}
