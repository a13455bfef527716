package cpu

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("cpu halted"))
	ErrPcRange        = errors.New(f("pc past end of memory"))
	ErrStringRange    = errors.New(f("string past end of memory"))
	ErrConsoleMissing = errors.New(f("console missing"))

	// Instruction decode errors
	ErrOpcodeDecode      = errors.New(f("decode"))
	ErrOpcodeUnsupported = errors.New(f("unsupported opcode"))

	// Image errors
	ErrImageEmpty     = errors.New(f("image empty"))
	ErrImageTruncated = errors.New(f("image truncated mid-word"))
	ErrImageTooLarge  = errors.New(f("image past end of memory"))
)

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", uint16(eo), Code(eo).Op().String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrTrap is an unknown trap vector.
type ErrTrap uint16

func (et ErrTrap) Error() string {
	return f("unknown trap vector 0x%02x", uint16(et))
}

func (et ErrTrap) Is(err error) (ok bool) {
	_, ok = err.(ErrTrap)
	return
}
