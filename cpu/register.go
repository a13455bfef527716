package cpu

import (
	"fmt"
)

// Register is a general-purpose register index.
type Register int

const (
	R0 = Register(0)
	R1 = Register(1)
	R2 = Register(2)
	R3 = Register(3)
	R4 = Register(4)
	R5 = Register(5)
	R6 = Register(6)
	R7 = Register(7) // Subroutine link.

	REGISTER_COUNT = 8
)

func (r Register) String() string {
	return fmt.Sprintf("r%d", int(r))
}

// Flag is a condition code. Exactly one flag is held in COND.
type Flag uint16

const (
	FLAG_POS  = Flag(1 << 0) // p
	FLAG_ZERO = Flag(1 << 1) // z
	FLAG_NEG  = Flag(1 << 2) // n
)

// FlagOf returns the condition code for a register value.
func FlagOf(value uint16) Flag {
	switch {
	case value == 0:
		return FLAG_ZERO
	case (value >> 15) != 0:
		return FLAG_NEG
	default:
		return FLAG_POS
	}
}

// String returns the flags in nzp order, with '-' for a clear flag.
func (fl Flag) String() string {
	out := []byte("---")
	if fl&FLAG_NEG != 0 {
		out[0] = 'n'
	}
	if fl&FLAG_ZERO != 0 {
		out[1] = 'z'
	}
	if fl&FLAG_POS != 0 {
		out[2] = 'p'
	}
	return string(out)
}

// Registers is the register file.
// PC and COND are kept apart from the general registers, so a decoded
// register field can only ever select r0-r7.
type Registers struct {
	Gpr  [REGISTER_COUNT]uint16 // General-purpose registers.
	Pc   uint16                 // Address of the next fetch.
	Cond Flag                   // Condition code of the last register write.
}

// Get returns a general register value.
func (regs *Registers) Get(r Register) uint16 {
	return regs.Gpr[r&7]
}

// Set writes a general register without touching COND.
func (regs *Registers) Set(r Register, value uint16) {
	regs.Gpr[r&7] = value
}

// Update writes a general register and sets COND from the new value.
func (regs *Registers) Update(r Register, value uint16) {
	regs.Set(r, value)
	regs.Cond = FlagOf(value)
}

// Reset zeros the general registers, sets PC and sets COND to zero.
func (regs *Registers) Reset(pc uint16) {
	clear(regs.Gpr[:])
	regs.Pc = pc
	regs.Cond = FLAG_ZERO
}
