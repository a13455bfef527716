package cpu

import (
	"encoding/binary"
	"io"
	"iter"
)

// Program is an LC-3 object image: a load origin and the words placed
// consecutively from it.
type Program struct {
	Origin uint16
	Words  []uint16
}

// ReadProgram decodes an image of big-endian words. The first word is the
// origin. The whole image is decoded before it is returned, so a failed
// read never leaves a partial program.
func ReadProgram(r io.Reader) (prog *Program, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data) < 2 {
		if len(data) == 0 {
			err = ErrImageEmpty
		} else {
			err = ErrImageTruncated
		}
		return
	}

	if len(data)%2 != 0 {
		err = ErrImageTruncated
		return
	}

	origin := binary.BigEndian.Uint16(data)
	data = data[2:]

	count := len(data) / 2
	if int(origin)+count > MEMORY_SIZE {
		err = ErrImageTooLarge
		return
	}

	words := make([]uint16, count)
	for n := range words {
		words[n] = binary.BigEndian.Uint16(data[n*2:])
	}

	prog = &Program{
		Origin: origin,
		Words:  words,
	}

	return
}

// Codes returns the address and value of each word of the image.
func (prog *Program) Codes() iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, word uint16) bool) {
		for n, word := range prog.Words {
			if !yield(prog.Origin+uint16(n), word) {
				return
			}
		}
	}
}

// Binary encodes the program in image form.
func (prog *Program) Binary() (data []byte) {
	data = binary.BigEndian.AppendUint16(data, prog.Origin)
	for _, word := range prog.Words {
		data = binary.BigEndian.AppendUint16(data, word)
	}

	return
}
