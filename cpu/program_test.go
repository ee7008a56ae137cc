package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramBinary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Words: []uint16{0x7c01, 0x0030}}
	assert.Equal([]byte{0x7c, 0x01, 0x00, 0x30}, prog.Binary())
}

func TestProgramCodes(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"SET A, 0x30",
		"SET [0x1000], 0x20",
		"SET PC, POP",
	)
	assert.Equal(12, len(prog.Words)) // 6 emitted, 6 padding

	type entry struct {
		offset uint16
		code   Code
	}
	var got []entry
	for offset, code := range prog.Codes() {
		got = append(got, entry{offset, code})
	}

	assert.Equal(9, len(got))
	assert.Equal([]entry{
		{0, Code{Word: 0x7c01, Extra: []uint16{0x0030}}},
		{2, Code{Word: 0x7de1, Extra: []uint16{0x1000, 0x0020}}},
		{5, Code{Word: 0x61c1, Extra: []uint16{}}},
	}, got[:3])

	for n, entry := range got[3:] {
		assert.Equal(uint16(6+n), entry.offset)
		assert.Equal(uint16(0), entry.code.Word)
	}
}

func TestProgramCodesStops(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Words: []uint16{0x8401, 0x8401, 0x8401}}

	var seen int
	for range prog.Codes() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(2, seen)
}
