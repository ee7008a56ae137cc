package cpu

import (
	"iter"
)

// Program is the assembled, padded machine-word image.
type Program struct {
	Words []uint16
}

// Binary renders the image as big-endian bytes for a loader.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, 0, len(prog.Words)*2)
	for _, word := range prog.Words {
		bin = append(bin, byte(word>>8), byte(word))
	}

	return
}

// Codes iterates (offset, instruction) pairs over the image, consuming the
// extra words each instruction word demands. Trailing padding decodes as
// zero words.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(offset uint16, code Code) bool) {
		for n := 0; n < len(prog.Words); {
			code := Code{Word: prog.Words[n]}

			need := code.ExtraNeed()
			if n+1+need > len(prog.Words) {
				need = len(prog.Words) - n - 1
			}
			code.Extra = prog.Words[n+1 : n+1+need]

			if !yield(uint16(n), code) {
				return
			}
			n += 1 + need
		}
	}
}
