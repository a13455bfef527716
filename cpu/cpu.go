package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"

	"github.com/ezrec/lc3/internal"
	"github.com/ezrec/lc3/io"
)

// Console is the character I/O device used by the trap routines.
type Console io.Console

const (
	PC_START = uint16(0x3000) // PC after reset.

	DEFAULT_PROMPT = "Enter a character: " // Prompt written by the IN trap.
)

var _cpu_defines = internal.Defines{}.
	Hex("PC_START", int(PC_START)).
	Hex("MEMORY_SIZE", MEMORY_SIZE).
	Hex("REGISTER_COUNT", REGISTER_COUNT).
	Hex("KBSR", int(KBSR)).
	Hex("KBDR", int(KBDR)).
	Hex("KBSR_READY", int(KBSR_READY))

// Cpu is the simulation context for the LC-3 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register Registers // Register file.
	Memory   Memory    // Address space.
	Console  Console   // Trap routine I/O.
	Prompt   string    // Prompt written by the IN trap.
	Halted   bool      // Set by the HALT trap.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU attached to a console.
func NewCpu(console Console) (cpu *Cpu) {
	cpu = &Cpu{
		Prompt: DEFAULT_PROMPT,
	}

	cpu.SetConsole(console)
	cpu.Reset()

	return
}

// SetConsole attaches the console to the trap routines and the
// memory-mapped keyboard.
func (cpu *Cpu) SetConsole(console Console) {
	cpu.Console = console
	cpu.Memory.Keyboard = console
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return internal.Concat(_cpu_defines.All(), _trap_defines.All())
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := &cpu.Register

	text += fmt.Sprintf("% 5s: %04X\n", "pc", regs.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "cond", regs.Cond)
	for n := range REGISTER_COUNT {
		r := Register(n)
		text += fmt.Sprintf("% 5s: %04X\n", r.String(), regs.Get(r))
	}
	text += fmt.Sprintf("% 5s: %v\n", "halt", cpu.Halted)
	text += fmt.Sprintf("% 5s: %v\n", "ticks", cpu.Ticks)

	return
}

// Reset the CPU state.
// - Clears memory and the general registers.
// - Sets PC to PC_START and COND to zero.
// - Clears the halt state and the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Register.Reset(PC_START)
	cpu.Halted = false
	cpu.Ticks = 0
}

// Fetch reads the instruction at PC and advances PC.
func (cpu *Cpu) Fetch() (code Code, err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.Register.Pc
	if pc == MEMORY_SIZE-1 {
		// The advanced PC would lie outside memory.
		err = ErrPcRange
		return
	}

	word, err := cpu.Memory.Read(pc)
	if err != nil {
		return
	}

	code = Code(word)
	cpu.Register.Pc = pc + 1

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Execute executes a single decoded instruction.
// PC must already point past the instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	regs := &cpu.Register
	mem := &cpu.Memory

	if cpu.Verbose {
		log.Printf("%04x: %v", regs.Pc-1, code)
	}

	switch code.Op() {
	case OP_ADD:
		regs.Update(code.Dr(), regs.Get(code.Sr1())+cpu.operand(code))
	case OP_AND:
		regs.Update(code.Dr(), regs.Get(code.Sr1())&cpu.operand(code))
	case OP_NOT:
		regs.Update(code.Dr(), ^regs.Get(code.Sr1()))
	case OP_BR:
		if (code.Nzp() & regs.Cond) != 0 {
			regs.Pc += code.Offset9()
		}
	case OP_JMP:
		regs.Pc = regs.Get(code.BaseR())
	case OP_JSR:
		link := regs.Pc
		if code.JsrMode() {
			regs.Pc += code.Offset11()
		} else {
			regs.Pc = regs.Get(code.BaseR())
		}
		regs.Set(R7, link)
	case OP_LD:
		var value uint16
		value, err = mem.Read(regs.Pc + code.Offset9())
		if err != nil {
			return
		}
		regs.Update(code.Dr(), value)
	case OP_LDI:
		var addr, value uint16
		addr, err = mem.Read(regs.Pc + code.Offset9())
		if err != nil {
			return
		}
		value, err = mem.Read(addr)
		if err != nil {
			return
		}
		regs.Update(code.Dr(), value)
	case OP_LDR:
		var value uint16
		value, err = mem.Read(regs.Get(code.BaseR()) + code.Offset6())
		if err != nil {
			return
		}
		regs.Update(code.Dr(), value)
	case OP_LEA:
		regs.Update(code.Dr(), regs.Pc+code.Offset9())
	case OP_ST:
		mem.Write(regs.Pc+code.Offset9(), regs.Get(code.Sr()))
	case OP_STI:
		var addr uint16
		addr, err = mem.Read(regs.Pc + code.Offset9())
		if err != nil {
			return
		}
		mem.Write(addr, regs.Get(code.Sr()))
	case OP_STR:
		mem.Write(regs.Get(code.BaseR())+code.Offset6(), regs.Get(code.Sr()))
	case OP_TRAP:
		err = cpu.Trap(code.Vector())
	case OP_RTI, OP_RES:
		err = ErrOpcodeUnsupported
	default:
		err = ErrOpcodeDecode
	}

	return
}

// operand returns the second ADD/AND operand: imm5 or Sr2.
func (cpu *Cpu) operand(code Code) uint16 {
	if code.ImmMode() {
		return code.Imm5()
	}
	return cpu.Register.Get(code.Sr2())
}
