package cpu

import (
	"bytes"
	"errors"
	"math/bits"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/lc3/io"
)

// Instruction encoders for test programs.

func opImm(op CodeOp, dr, sr Register, imm int) Code {
	return Code(uint16(op)<<12 | uint16(dr)<<9 | uint16(sr)<<6 | 1<<5 | uint16(imm)&0x1f)
}

func opReg(op CodeOp, dr, sr1, sr2 Register) Code {
	return Code(uint16(op)<<12 | uint16(dr)<<9 | uint16(sr1)<<6 | uint16(sr2))
}

func opOff9(op CodeOp, r Register, offset int) Code {
	return Code(uint16(op)<<12 | uint16(r)<<9 | uint16(offset)&0x1ff)
}

func opOff6(op CodeOp, r, base Register, offset int) Code {
	return Code(uint16(op)<<12 | uint16(r)<<9 | uint16(base)<<6 | uint16(offset)&0x3f)
}

func opBr(nzp Flag, offset int) Code {
	return Code(uint16(nzp)<<9 | uint16(offset)&0x1ff)
}

func opJmp(base Register) Code {
	return Code(uint16(OP_JMP)<<12 | uint16(base)<<6)
}

func opJsr(offset int) Code {
	return Code(uint16(OP_JSR)<<12 | 1<<11 | uint16(offset)&0x7ff)
}

func opJsrr(base Register) Code {
	return Code(uint16(OP_JSR)<<12 | uint16(base)<<6)
}

func opTrap(trap CodeTrap) Code {
	return Code(uint16(OP_TRAP)<<12 | uint16(trap))
}

func newTestCpu(input string) (cpu *Cpu, output *bytes.Buffer) {
	output = &bytes.Buffer{}
	cpu = NewCpu(&io.Tape{
		Input:  strings.NewReader(input),
		Output: output,
	})
	return
}

func loadCodes(cpu *Cpu, codes ...Code) {
	prog := &Program{Origin: PC_START}
	for _, code := range codes {
		prog.Words = append(prog.Words, uint16(code))
	}
	cpu.Memory.Load(prog)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")
	assert.Equal(PC_START, cpu.Register.Pc)
	assert.Equal(FLAG_ZERO, cpu.Register.Cond)
	assert.Equal(DEFAULT_PROMPT, cpu.Prompt)
	assert.False(cpu.Halted)

	cpu.Register.Set(R2, 9)
	cpu.Memory.Write(0x4000, 9)
	cpu.Halted = true
	cpu.Ticks = 3

	cpu.Reset()
	assert.Equal(uint16(0), cpu.Register.Get(R2))
	assert.Equal(uint16(0), cpu.Memory.Peek(0x4000))
	assert.False(cpu.Halted)
	assert.Equal(0, cpu.Ticks)
}

func TestCpu_Add(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")

	cpu.Register.Set(R1, 5)
	assert.NoError(cpu.Execute(opImm(OP_ADD, R0, R1, -1)))
	assert.Equal(uint16(4), cpu.Register.Get(R0))
	assert.Equal(FLAG_POS, cpu.Register.Cond)

	cpu.Register.Set(R1, 0)
	cpu.Register.Set(R2, 0)
	assert.NoError(cpu.Execute(opReg(OP_ADD, R3, R1, R2)))
	assert.Equal(uint16(0), cpu.Register.Get(R3))
	assert.Equal(FLAG_ZERO, cpu.Register.Cond)

	// Wraps modulo 2^16.
	cpu.Register.Set(R1, 0x7fff)
	cpu.Register.Set(R2, 0x0001)
	assert.NoError(cpu.Execute(opReg(OP_ADD, R3, R1, R2)))
	assert.Equal(uint16(0x8000), cpu.Register.Get(R3))
	assert.Equal(FLAG_NEG, cpu.Register.Cond)

	cpu.Register.Set(R1, 0)
	assert.NoError(cpu.Execute(opImm(OP_ADD, R1, R1, -16)))
	assert.Equal(uint16(0xfff0), cpu.Register.Get(R1))
	assert.Equal(FLAG_NEG, cpu.Register.Cond)
}

func TestCpu_AndNot(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")

	assert.NoError(cpu.Execute(opReg(OP_AND, R0, R1, R2)))
	assert.Equal(uint16(0), cpu.Register.Get(R0))
	assert.Equal(FLAG_ZERO, cpu.Register.Cond)

	cpu.Register.Set(R1, 0xf0f3)
	assert.NoError(cpu.Execute(opImm(OP_AND, R0, R1, 0x0f)))
	assert.Equal(uint16(0x0003), cpu.Register.Get(R0))
	assert.Equal(FLAG_POS, cpu.Register.Cond)

	cpu.Register.Set(R2, 0xff00)
	assert.NoError(cpu.Execute(opReg(OP_AND, R0, R1, R2)))
	assert.Equal(uint16(0xf000), cpu.Register.Get(R0))
	assert.Equal(FLAG_NEG, cpu.Register.Cond)

	assert.NoError(cpu.Execute(opReg(OP_NOT, R4, R1, 0)))
	assert.Equal(uint16(0x0f0c), cpu.Register.Get(R4))
	assert.Equal(FLAG_POS, cpu.Register.Cond)

	cpu.Register.Set(R5, 0xffff)
	assert.NoError(cpu.Execute(opReg(OP_NOT, R5, R5, 0)))
	assert.Equal(uint16(0), cpu.Register.Get(R5))
	assert.Equal(FLAG_ZERO, cpu.Register.Cond)
}

func TestCpu_Flags(t *testing.T) {
	assert := assert.New(t)

	values := []uint16{0x0000, 0x0001, 0x1234, 0x7fff, 0x8000, 0xabcd, 0xffff}

	for _, value := range values {
		cpu, _ := newTestCpu("")
		cpu.Register.Pc = 0x3001
		cpu.Register.Set(R1, value)
		cpu.Memory.Write(0x3001, value)
		cpu.Memory.Write(0x3002, 0x3001)

		codes := []Code{
			opImm(OP_ADD, R0, R1, 0),
			opImm(OP_AND, R0, R1, -1),
			opOff9(OP_LD, R0, 0),
			opOff9(OP_LDI, R0, 1),
			opOff6(OP_LDR, R0, R2, 0),
		}
		cpu.Register.Set(R2, 0x3001)

		for _, code := range codes {
			cpu.Register.Cond = FLAG_NEG | FLAG_ZERO | FLAG_POS
			assert.NoError(cpu.Execute(code))
			cond := cpu.Register.Cond
			assert.Equal(value, cpu.Register.Get(R0), code.String())
			assert.Equal(1, bits.OnesCount16(uint16(cond)), code.String())
			switch {
			case int16(value) < 0:
				assert.Equal(FLAG_NEG, cond, code.String())
			case value == 0:
				assert.Equal(FLAG_ZERO, cond, code.String())
			default:
				assert.Equal(FLAG_POS, cond, code.String())
			}
		}
	}
}

func TestCpu_FlagsUnchanged(t *testing.T) {
	assert := assert.New(t)

	codes := []Code{
		opOff9(OP_ST, R0, 4),
		opOff9(OP_STI, R0, 4),
		opOff6(OP_STR, R0, R1, 0),
		opJsr(2),
		opJmp(R1),
		opBr(FLAG_NEG|FLAG_ZERO|FLAG_POS, 1),
		opTrap(TRAP_OUT),
		opTrap(TRAP_GETC),
	}

	for _, code := range codes {
		cpu, _ := newTestCpu("k")
		cpu.Register.Set(R1, 0x4000)
		cpu.Memory.Write(0x3004, 0x4100)
		cpu.Register.Cond = FLAG_NEG
		assert.NoError(cpu.Execute(code), code.String())
		assert.Equal(FLAG_NEG, cpu.Register.Cond, code.String())
	}
}

func TestCpu_Branch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		cond  Flag
		nzp   Flag
		taken bool
	}){
		{"brn_neg", FLAG_NEG, FLAG_NEG, true},
		{"brn_pos", FLAG_POS, FLAG_NEG, false},
		{"brz_zero", FLAG_ZERO, FLAG_ZERO, true},
		{"brp_pos", FLAG_POS, FLAG_POS, true},
		{"brnp_zero", FLAG_ZERO, FLAG_NEG | FLAG_POS, false},
		{"brnzp_zero", FLAG_ZERO, FLAG_NEG | FLAG_ZERO | FLAG_POS, true},
		{"nop", FLAG_ZERO, 0, false},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu("")
		cpu.Register.Pc = 0x3001
		cpu.Register.Cond = entry.cond
		assert.NoError(cpu.Execute(opBr(entry.nzp, -2)), entry.name)
		if entry.taken {
			assert.Equal(uint16(0x2fff), cpu.Register.Pc, entry.name)
		} else {
			assert.Equal(uint16(0x3001), cpu.Register.Pc, entry.name)
		}
	}
}

func TestCpu_Subroutine(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")

	loadCodes(cpu,
		opJsr(3),                 // 0x3000: jsr 0x3004
		opImm(OP_ADD, R0, R0, 1), // 0x3001
		opTrap(TRAP_HALT),        // 0x3002
		0,                        // 0x3003
		opImm(OP_ADD, R1, R1, 7), // 0x3004
		opJmp(R7),                // 0x3005: ret
	)

	assert.NoError(cpu.Tick())
	assert.Equal(uint16(0x3001), cpu.Register.Get(R7))
	assert.Equal(uint16(0x3004), cpu.Register.Pc)

	assert.NoError(cpu.Tick())
	assert.NoError(cpu.Tick())
	assert.Equal(uint16(0x3001), cpu.Register.Pc)

	for !cpu.Halted {
		assert.NoError(cpu.Tick())
	}

	assert.Equal(uint16(1), cpu.Register.Get(R0))
	assert.Equal(uint16(7), cpu.Register.Get(R1))
	assert.Equal(5, cpu.Ticks)
}

func TestCpu_Jsrr(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")

	cpu.Register.Pc = 0x3001
	cpu.Register.Set(R2, 0x5000)
	assert.NoError(cpu.Execute(opJsrr(R2)))
	assert.Equal(uint16(0x5000), cpu.Register.Pc)
	assert.Equal(uint16(0x3001), cpu.Register.Get(R7))

	// The base register is read before the link is written.
	cpu.Register.Pc = 0x3001
	cpu.Register.Set(R7, 0x6000)
	assert.NoError(cpu.Execute(opJsrr(R7)))
	assert.Equal(uint16(0x6000), cpu.Register.Pc)
	assert.Equal(uint16(0x3001), cpu.Register.Get(R7))
}

func TestCpu_StoreLoad(t *testing.T) {
	assert := assert.New(t)

	for _, offset := range []int{0, 5, -7, 255, -256} {
		cpu, _ := newTestCpu("")
		cpu.Register.Pc = 0x3001
		cpu.Register.Set(R2, 0xbeef)

		assert.NoError(cpu.Execute(opOff9(OP_ST, R2, offset)))
		assert.Equal(uint16(0xbeef), cpu.Memory.Peek(0x3001+uint16(offset)))

		assert.NoError(cpu.Execute(opOff9(OP_LD, R3, offset)))
		assert.Equal(uint16(0xbeef), cpu.Register.Get(R3))
		assert.Equal(FLAG_NEG, cpu.Register.Cond)
	}
}

func TestCpu_Indirect(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")
	cpu.Register.Pc = 0x3001
	cpu.Memory.Write(0x3011, 0x4000)
	cpu.Memory.Write(0x4000, 0x0042)

	assert.NoError(cpu.Execute(opOff9(OP_LDI, R5, 0x10)))
	assert.Equal(uint16(0x0042), cpu.Register.Get(R5))
	assert.Equal(FLAG_POS, cpu.Register.Cond)

	cpu.Register.Set(R6, 0x1234)
	assert.NoError(cpu.Execute(opOff9(OP_STI, R6, 0x10)))
	assert.Equal(uint16(0x1234), cpu.Memory.Peek(0x4000))
	assert.Equal(uint16(0x4000), cpu.Memory.Peek(0x3011))
}

func TestCpu_BaseOffset(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")
	cpu.Register.Set(R1, 0x4010)
	cpu.Register.Set(R2, 0x0777)

	assert.NoError(cpu.Execute(opOff6(OP_STR, R2, R1, -16)))
	assert.Equal(uint16(0x0777), cpu.Memory.Peek(0x4000))

	assert.NoError(cpu.Execute(opOff6(OP_LDR, R3, R1, -16)))
	assert.Equal(uint16(0x0777), cpu.Register.Get(R3))

	cpu.Register.Pc = 0x3001
	assert.NoError(cpu.Execute(opOff9(OP_LEA, R4, -2)))
	assert.Equal(uint16(0x2fff), cpu.Register.Get(R4))
	assert.Equal(FLAG_POS, cpu.Register.Cond)
}

func TestCpu_Unsupported(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []uint16{0x8000, 0xd000, 0xdfff} {
		cpu, _ := newTestCpu("")
		pc := cpu.Register.Pc

		err := cpu.Execute(Code(word))
		assert.ErrorIs(err, ErrOpcodeUnsupported)
		assert.ErrorIs(err, ErrOpcode(0))

		var eo ErrOpcode
		assert.True(errors.As(err, &eo))
		assert.Equal(ErrOpcode(word), eo)
		assert.Equal(pc, cpu.Register.Pc)
	}
}

func TestCpu_Halt(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")
	loadCodes(cpu, opTrap(TRAP_HALT), opImm(OP_ADD, R0, R0, 1))

	assert.NoError(cpu.Tick())
	assert.True(cpu.Halted)
	assert.Equal(1, cpu.Ticks)

	assert.ErrorIs(cpu.Tick(), ErrHalted)
	assert.Equal(uint16(0x3001), cpu.Register.Pc)
	assert.Equal(uint16(0), cpu.Register.Get(R0))
	assert.Equal(1, cpu.Ticks)
}

func TestCpu_PcRange(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")
	cpu.Register.Pc = 0xfffe

	assert.NoError(cpu.Tick())
	assert.Equal(uint16(0xffff), cpu.Register.Pc)

	assert.ErrorIs(cpu.Tick(), ErrPcRange)
	assert.Equal(uint16(0xffff), cpu.Register.Pc)
}

func TestCpu_FetchKeyboard(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("z")

	// ldi r0,KBSR_PTR ; ldi r1,KBDR_PTR ; halt
	loadCodes(cpu,
		opOff9(OP_LDI, R0, 2),
		opOff9(OP_LDI, R1, 2),
		opTrap(TRAP_HALT),
		Code(KBSR),
		Code(KBDR),
	)

	for !cpu.Halted {
		assert.NoError(cpu.Tick())
	}

	assert.Equal(KBSR_READY, cpu.Register.Get(R0))
	assert.Equal(uint16('z'), cpu.Register.Get(R1))
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")
	cpu.Register.Set(R3, 0xabcd)

	text := cpu.String()
	assert.Contains(text, "   pc: 3000\n")
	assert.Contains(text, " cond: -z-\n")
	assert.Contains(text, "   r3: ABCD\n")
	assert.Contains(text, " halt: false\n")
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu("")

	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("0x3000", defines["PC_START"])
	assert.Equal("0xfe00", defines["KBSR"])
	assert.Equal("0x25", defines["TRAP_HALT"])
}
