package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeBasicRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for n, mnemonic := range basicOps {
		op := uint16(n + 1)
		code := MakeBasicCode(op, 0x03, 0x21)

		assert.True(code.Basic(), mnemonic)
		gotOp, a, b := code.BasicDecode()
		assert.Equal(op, gotOp, mnemonic)
		assert.Equal(uint16(0x03), a, mnemonic)
		assert.Equal(uint16(0x21), b, mnemonic)
		assert.Equal(mnemonic, code.Op())
	}
}

func TestCodeNonBasicRoundTrip(t *testing.T) {
	assert := assert.New(t)

	code := MakeNonBasicCode(1, codeNextWord, 0x1234)

	assert.False(code.Basic())
	op, a := code.NonBasicDecode()
	assert.Equal(uint16(1), op)
	assert.Equal(codeNextWord, a)
	assert.Equal("JSR", code.Op())
	assert.Equal(1, code.ExtraNeed())
	assert.Equal("JSR 0x1234", code.String())
}

func TestCodeExtraNeed(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word uint16
		need int
	}){
		{0x7c01, 1}, // SET A, next
		{0x7de1, 2}, // SET [next], next
		{0x9561, 1}, // SET [next+I], 0x05
		{0xc00d, 0}, // IFN A, 0x10
		{0x7c10, 1}, // JSR next
		{0x0000, 0}, // padding word
	}

	for _, entry := range table {
		code := Code{Word: entry.word}
		assert.Equal(entry.need, code.ExtraNeed(), "%04x", entry.word)
	}
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		out  string
	}){
		{Code{Word: 0x7c01, Extra: []uint16{0x0030}}, "SET A, 0x0030"},
		{Code{Word: 0x9561, Extra: []uint16{0x1000}}, "SET [0x1000+I], 0x05"},
		{Code{Word: 0x7de1, Extra: []uint16{0x1000, 0x0020}}, "SET [0x1000], 0x0020"},
		{Code{Word: 0xa861}, "SET I, 0x0a"},
		{Code{Word: 0x61c1}, "SET PC, POP"},
		{Code{Word: 0x7803, Extra: []uint16{0x1000}}, "SUB A, [0x1000]"},
		{Code{Word: 0x7c10, Extra: []uint16{0x0018}}, "JSR 0x0018"},
	}

	for _, entry := range table {
		assert.Equal(entry.out, entry.code.String())
	}
}

// Assembling a literal-only line and decoding the resulting words recovers
// the original mnemonic and operand values.
func TestCodeRecoversSource(t *testing.T) {
	assert := assert.New(t)

	lines := []string{
		"SET A, 0x0030",
		"SUB [0x1000], 0x05",
		"IFN I, 0x0a",
		"SHL X, 0x04",
	}

	for _, line := range lines {
		prog := assemble(t, line)
		for offset, code := range prog.Codes() {
			if code.Word == 0 {
				continue // padding
			}
			assert.Equal(uint16(0), offset)
			assert.Equal(line, code.String())
		}
	}
}
