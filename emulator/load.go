package emulator

import (
	"io"
	"os"

	"github.com/ezrec/lc3/cpu"
)

// Load reads a program image and adds it to the emulator.
// The image is placed in memory at the next Reset.
func (emu *Emulator) Load(r io.Reader) (err error) {
	prog, err := cpu.ReadProgram(r)
	if err != nil {
		return
	}

	emu.Programs = append(emu.Programs, prog)

	return
}

// LoadFile reads a program image file.
func (emu *Emulator) LoadFile(name string) (err error) {
	inf, err := os.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return emu.Load(inf)
}
