package cpu

import (
	"log"

	"github.com/ezrec/lc3/internal"
)

// CodeTrap is a trap service routine vector.
type CodeTrap int

//go:generate go tool stringer -linecomment -type=CodeTrap
const (
	TRAP_GETC  = CodeTrap(0x20) // getc
	TRAP_OUT   = CodeTrap(0x21) // out
	TRAP_PUTS  = CodeTrap(0x22) // puts
	TRAP_IN    = CodeTrap(0x23) // in
	TRAP_PUTSP = CodeTrap(0x24) // putsp
	TRAP_HALT  = CodeTrap(0x25) // halt
)

var _trap_defines = internal.Defines{}.
	Hex("TRAP_GETC", int(TRAP_GETC)).
	Hex("TRAP_OUT", int(TRAP_OUT)).
	Hex("TRAP_PUTS", int(TRAP_PUTS)).
	Hex("TRAP_IN", int(TRAP_IN)).
	Hex("TRAP_PUTSP", int(TRAP_PUTSP)).
	Hex("TRAP_HALT", int(TRAP_HALT))

// DecodeTrap converts a trap vector into a CodeTrap.
// Unknown vectors return ErrTrap.
func DecodeTrap(vector uint16) (trap CodeTrap, err error) {
	trap = CodeTrap(vector)
	if trap < TRAP_GETC || trap > TRAP_HALT {
		err = ErrTrap(vector)
	}
	return
}

// Trap runs a trap service routine to completion.
// R7 is not saved, and COND is not changed.
func (cpu *Cpu) Trap(vector uint16) (err error) {
	trap, err := DecodeTrap(vector)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: trap %v", trap)
	}

	if trap == TRAP_HALT {
		cpu.Halted = true
		return
	}

	if cpu.Console == nil {
		err = ErrConsoleMissing
		return
	}

	regs := &cpu.Register

	switch trap {
	case TRAP_GETC:
		var key byte
		key, err = cpu.Console.ReadKey()
		if err != nil {
			return
		}
		regs.Set(R0, uint16(key))
	case TRAP_OUT:
		_, err = cpu.Console.Write([]byte{byte(regs.Get(R0))})
	case TRAP_PUTS:
		err = cpu.writeString(regs.Get(R0), false)
	case TRAP_IN:
		_, err = cpu.Console.Write([]byte(cpu.Prompt))
		if err != nil {
			return
		}
		var key byte
		key, err = cpu.Console.ReadKey()
		if err != nil {
			return
		}
		_, err = cpu.Console.Write([]byte{key})
		if err != nil {
			return
		}
		regs.Set(R0, uint16(key))
	case TRAP_PUTSP:
		err = cpu.writeString(regs.Get(R0), true)
	}

	return
}

// writeString writes a string to the console. A string that runs off the
// end of memory is written up to the last cell before ErrStringRange is
// returned.
func (cpu *Cpu) writeString(addr uint16, packed bool) (err error) {
	text, err := cpu.readString(addr, packed)
	if len(text) != 0 {
		_, werr := cpu.Console.Write(text)
		if err == nil {
			err = werr
		}
	}

	return
}

// readString collects a zero-terminated string starting at addr.
// Unpacked strings hold one character per cell, in the low byte, and end
// at a zero cell. Packed strings hold the low byte then the high byte of
// each cell, and end at a cell with a zero low byte.
func (cpu *Cpu) readString(addr uint16, packed bool) (text []byte, err error) {
	for {
		var word uint16
		word, err = cpu.Memory.Read(addr)
		if err != nil {
			return
		}

		if packed {
			lo := byte(word)
			if lo == 0 {
				return
			}
			text = append(text, lo)
			if hi := byte(word >> 8); hi != 0 {
				text = append(text, hi)
			}
		} else {
			if word == 0 {
				return
			}
			text = append(text, byte(word))
		}

		if addr == MEMORY_SIZE-1 {
			err = ErrStringRange
			return
		}
		addr++
	}
}
