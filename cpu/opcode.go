package cpu

import (
	"fmt"
)

// CodeOp is an opcode, the top four bits of an instruction.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_BR   = CodeOp(0x0) // br
	OP_ADD  = CodeOp(0x1) // add
	OP_LD   = CodeOp(0x2) // ld
	OP_ST   = CodeOp(0x3) // st
	OP_JSR  = CodeOp(0x4) // jsr
	OP_AND  = CodeOp(0x5) // and
	OP_LDR  = CodeOp(0x6) // ldr
	OP_STR  = CodeOp(0x7) // str
	OP_RTI  = CodeOp(0x8) // rti
	OP_NOT  = CodeOp(0x9) // not
	OP_LDI  = CodeOp(0xa) // ldi
	OP_STI  = CodeOp(0xb) // sti
	OP_JMP  = CodeOp(0xc) // jmp
	OP_RES  = CodeOp(0xd) // res
	OP_LEA  = CodeOp(0xe) // lea
	OP_TRAP = CodeOp(0xf) // trap
)

// Supported returns false for the reserved opcodes.
func (op CodeOp) Supported() bool {
	return op != OP_RTI && op != OP_RES
}

// SignExtend extends the low 'bits' bits of x to 16 bits.
func SignExtend(x uint16, bits uint) uint16 {
	if ((x >> (bits - 1)) & 1) != 0 {
		x |= 0xffff << bits
	}
	return x
}

// Code is a single instruction word.
type Code uint16

// Op returns the opcode.
func (code Code) Op() CodeOp {
	return CodeOp((code >> 12) & 0xf)
}

// Dr returns the destination register, bits [11:9].
func (code Code) Dr() Register {
	return Register((code >> 9) & 0x7)
}

// Sr returns the store source register, bits [11:9].
func (code Code) Sr() Register {
	return code.Dr()
}

// Sr1 returns the first source register, bits [8:6].
func (code Code) Sr1() Register {
	return Register((code >> 6) & 0x7)
}

// BaseR returns the base register, bits [8:6].
func (code Code) BaseR() Register {
	return code.Sr1()
}

// Sr2 returns the second source register, bits [2:0].
func (code Code) Sr2() Register {
	return Register(code & 0x7)
}

// ImmMode is true if ADD/AND use imm5 instead of Sr2.
func (code Code) ImmMode() bool {
	return ((code >> 5) & 1) != 0
}

// Imm5 returns the sign-extended immediate, bits [4:0].
func (code Code) Imm5() uint16 {
	return SignExtend(uint16(code)&0x1f, 5)
}

// Offset6 returns the sign-extended base offset, bits [5:0].
func (code Code) Offset6() uint16 {
	return SignExtend(uint16(code)&0x3f, 6)
}

// Offset9 returns the sign-extended PC offset, bits [8:0].
func (code Code) Offset9() uint16 {
	return SignExtend(uint16(code)&0x1ff, 9)
}

// Offset11 returns the sign-extended JSR offset, bits [10:0].
func (code Code) Offset11() uint16 {
	return SignExtend(uint16(code)&0x7ff, 11)
}

// Nzp returns the branch condition mask, bits [11:9].
func (code Code) Nzp() Flag {
	return Flag((code >> 9) & 0x7)
}

// JsrMode is true for PC-relative JSR, false for JSRR.
func (code Code) JsrMode() bool {
	return ((code >> 11) & 1) != 0
}

// Vector returns the trap vector, bits [7:0].
func (code Code) Vector() uint16 {
	return uint16(code) & 0xff
}

// String returns the opcode and operands of the instruction.
func (code Code) String() (out string) {
	op := code.Op()

	var str string

	switch op {
	case OP_ADD, OP_AND:
		if code.ImmMode() {
			str = fmt.Sprintf("%v,%v,#%d", code.Dr(), code.Sr1(), int16(code.Imm5()))
		} else {
			str = fmt.Sprintf("%v,%v,%v", code.Dr(), code.Sr1(), code.Sr2())
		}
	case OP_NOT:
		str = fmt.Sprintf("%v,%v", code.Dr(), code.Sr1())
	case OP_BR:
		str = fmt.Sprintf("%v,#%d", code.Nzp(), int16(code.Offset9()))
	case OP_JMP:
		str = code.BaseR().String()
	case OP_JSR:
		if code.JsrMode() {
			str = fmt.Sprintf("#%d", int16(code.Offset11()))
		} else {
			str = code.BaseR().String()
		}
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		str = fmt.Sprintf("%v,#%d", code.Dr(), int16(code.Offset9()))
	case OP_LDR, OP_STR:
		str = fmt.Sprintf("%v,%v,#%d", code.Dr(), code.BaseR(), int16(code.Offset6()))
	case OP_TRAP:
		str = fmt.Sprintf("0x%02x", code.Vector())
	}

	if len(str) == 0 {
		out = fmt.Sprintf("%v [0x%04x]", op.String(), uint16(code))
	} else {
		out = fmt.Sprintf("%v %v [0x%04x]", op.String(), str, uint16(code))
	}

	return
}
