package cpu

const (
	MEMORY_SIZE = 1 << 16 // Words of memory.

	KBSR = uint16(0xfe00) // Keyboard status register.
	KBDR = uint16(0xfe02) // Keyboard data register.

	KBSR_READY = uint16(0x8000) // Key available in KBDR.
)

// Keyboard is polled by reads of KBSR.
type Keyboard interface {
	Poll() (key byte, ok bool, err error)
}

// Memory is the LC-3 address space.
// Every cell is plain storage except KBSR: a Read of KBSR polls the
// keyboard first, and updates KBSR and KBDR with the result.
type Memory struct {
	Data     [MEMORY_SIZE]uint16
	Keyboard Keyboard
}

// Reset zeros all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}

// Peek returns a cell with no side effects.
func (mem *Memory) Peek(addr uint16) uint16 {
	return mem.Data[addr]
}

// Write stores a value into a cell.
func (mem *Memory) Write(addr uint16, value uint16) {
	mem.Data[addr] = value
}

// Read returns a cell, performing memory-mapped device side effects.
func (mem *Memory) Read(addr uint16) (value uint16, err error) {
	if addr == KBSR {
		err = mem.pollKeyboard()
		if err != nil {
			return
		}
	}

	value = mem.Data[addr]
	return
}

// pollKeyboard refreshes KBSR and KBDR.
func (mem *Memory) pollKeyboard() (err error) {
	if mem.Keyboard == nil {
		mem.Data[KBSR] = 0
		return
	}

	key, ok, err := mem.Keyboard.Poll()
	if err != nil {
		return
	}

	if ok {
		mem.Data[KBSR] = KBSR_READY
		mem.Data[KBDR] = uint16(key)
	} else {
		mem.Data[KBSR] = 0
	}

	return
}

// Load places a program image into memory.
func (mem *Memory) Load(prog *Program) {
	for addr, word := range prog.Codes() {
		mem.Data[addr] = word
	}
}
