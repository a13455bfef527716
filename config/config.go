// Package config reads emulator settings from Starlark scripts.
//
// A configuration script runs with the emulator defines (PC_START, KBSR,
// TRAP_HALT, ...) predeclared as integers, and sets any of these globals:
//
//	verbose = True          # log every instruction
//	prompt = "> "           # prompt written by the IN trap
//	dump = True             # dump registers on exit
//	limit = 1000000         # tick limit, LIMIT_NONE for none
//
// Other globals are ignored, so scripts are free to compute values with
// helper variables and functions.
package config

import (
	"iter"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/emulator"
)

// Config holds the emulator settings.
type Config struct {
	Verbose bool
	Prompt  string
	Dump    bool
	Limit   int
}

// Default returns the settings used without a configuration script.
func Default() Config {
	return Config{
		Prompt: cpu.DEFAULT_PROMPT,
		Limit:  emulator.LIMIT_NONE,
	}
}

// Load runs a configuration script. src is passed to Starlark as-is: if
// nil, the script is read from filename.
func Load(filename string, src any, defines iter.Seq2[string, string]) (cfg Config, err error) {
	cfg = Default()

	thread := starlark.Thread{Name: "config"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	if defines != nil {
		for key, str := range defines {
			value, perr := strconv.ParseInt(str, 0, 64)
			if perr != nil {
				// Non-integer defines are not exported.
				continue
			}
			pred[key] = starlark.MakeInt64(value)
		}
	}

	globals, err := starlark.ExecFileOptions(&opts, &thread, filename, src, pred)
	if err != nil {
		return
	}

	for name, value := range globals {
		switch name {
		case "verbose":
			cfg.Verbose, err = toBool(name, value)
		case "dump":
			cfg.Dump, err = toBool(name, value)
		case "prompt":
			str, ok := value.(starlark.String)
			if !ok {
				err = ErrConfigType{Name: name, Type: value.Type()}
			}
			cfg.Prompt = string(str)
		case "limit":
			cfg.Limit, err = toLimit(name, value)
		}
		if err != nil {
			return
		}
	}

	return
}

func toBool(name string, value starlark.Value) (b bool, err error) {
	st_bool, ok := value.(starlark.Bool)
	if !ok {
		err = ErrConfigType{Name: name, Type: value.Type()}
		return
	}

	b = bool(st_bool)
	return
}

func toLimit(name string, value starlark.Value) (limit int, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrConfigType{Name: name, Type: value.Type()}
		return
	}

	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > int64(^uint32(0)>>1) {
		err = ErrConfigRange{Name: name, Value: st_int.String()}
		return
	}

	limit = int(st_int64)
	return
}

// Apply configures an emulator.
func (cfg Config) Apply(emu *emulator.Emulator) {
	emu.Verbose = cfg.Verbose
	emu.Cpu.Prompt = cfg.Prompt
	emu.Limit = cfg.Limit
}
