// Package cpu implements the LC-3 processor for the emulator.
//
// The CPU consists of a program counter (PC), eight 16-bit general-purpose
// registers (r0-r7), a condition register holding exactly one of the
// n/z/p flags, and a 64K-word memory whose keyboard status and data
// registers are mapped at KBSR and KBDR.
//
// Each Tick fetches the word at PC, advances PC, and executes it. The TRAP
// instruction dispatches to the built-in character I/O and halt routines
// against the attached Console.
//
// Program images are read with ReadProgram and placed in memory with
// Memory.Load.
package cpu
