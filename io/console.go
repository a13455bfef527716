// Package io provides the console devices for the LC-3 emulator.
// A console supplies keyboard input, both as a non-blocking poll for the
// memory-mapped keyboard registers and as a blocking read for the
// character traps, and accepts character output.
//
// Tape is backed by an io.Reader/io.Writer pair, for batch runs and tests.
// Terminal drives the host terminal in raw mode.
package io

// Keyboard is the input side of a console.
type Keyboard interface {
	// Poll returns a key if one is available, without blocking.
	Poll() (key byte, ok bool, err error)
	// ReadKey blocks until a key is available.
	ReadKey() (key byte, err error)
}

// Console defines the interface for all LC-3 consoles.
type Console interface {
	Keyboard
	// Write emits characters to the display.
	Write(data []byte) (n int, err error)
}
