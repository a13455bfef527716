// Package internal holds helpers shared by the emulator packages.
package internal

import (
	"fmt"
	"iter"
	"maps"
)

// Defines is a table of named constants, exported to configuration scripts.
type Defines map[string]string

// Hex adds a constant in 0x notation.
func (defs Defines) Hex(name string, value int) Defines {
	defs[name] = fmt.Sprintf("0x%x", value)
	return defs
}

// All iterates over the table.
func (defs Defines) All() iter.Seq2[string, string] {
	return maps.All(defs)
}

// Concat concatenates define sequences. Later sequences may repeat names
// from earlier ones; consumers see both, in order.
func Concat(seqs ...iter.Seq2[string, string]) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, seq := range seqs {
			for name, value := range seq {
				if !yield(name, value) {
					return
				}
			}
		}
	}
}
