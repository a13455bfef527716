// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"iter"
	"log"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/internal"
	"github.com/ezrec/lc3/io"
)

const (
	LIMIT_NONE = 0 // Run without a tick limit.
)

var _emulator_defines = internal.Defines{}.
	Hex("LIMIT_NONE", LIMIT_NONE)

// Emulator state. CPU + console + program images.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	*cpu.Cpu                // Reference to the CPU simulation.
	Programs []*cpu.Program // Images loaded into memory on Reset, in order.
	Limit    int            // Maximum ticks, or LIMIT_NONE.
}

// NewEmulator creates a new emulator.
func NewEmulator(console io.Console) (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(console),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat(_emulator_defines.All(),
		emu.Cpu.Defines(),
	)
}

// SetConsole replaces the console.
func (emu *Emulator) SetConsole(console io.Console) {
	emu.Cpu.SetConsole(console)
}

// Reset the emulator: clear the CPU, and load all programs.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	for _, prog := range emu.Programs {
		if emu.Verbose {
			log.Printf("emulator: load 0x%04x words at 0x%04x", len(prog.Words), prog.Origin)
		}
		emu.Cpu.Memory.Load(prog)
	}

	return
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Cpu.Register.Pc
}

// Tick performs a single tick of the emulator.
// Returns done once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	pc := emu.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{
				Pc:   pc,
				Code: cpu.Code(emu.Cpu.Memory.Peek(pc)),
				Err:  err,
			}
		}
	}()

	if emu.Limit != LIMIT_NONE && emu.Cpu.Ticks >= emu.Limit {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	if done && emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Cpu.Ticks)
	}

	return
}

// Run ticks the emulator until it halts or fails, or until ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for done := false; !done; {
		err = ctx.Err()
		if err != nil {
			return
		}

		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
