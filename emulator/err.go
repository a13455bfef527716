package emulator

import (
	"errors"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc   uint16   // Address of the faulting instruction.
	Code cpu.Code // Instruction word at Pc.
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%04x %v: %v", err.Pc, err.Code, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
