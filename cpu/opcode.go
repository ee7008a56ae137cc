package cpu

import (
	"fmt"
	"strings"
)

// Mnemonic tables. Table order is load-bearing: a basic opcode is its index
// plus one, and the pseudo-operand aliases encode as 0x18 plus the index.
var basicOps = []string{
	"SET", "ADD", "SUB", "MUL", "DIV", "MOD", "SHL", "SHR", "AND",
	"BOR", "XOR", "IFE", "IFN", "IFG", "IFB",
}

var nonBasicOps = []string{"JSR"}

var registers = []string{"A", "B", "C", "X", "Y", "Z", "I", "J"}

var specialRegisters = []string{"SP", "PC", "O"}

var programOps = []string{"POP", "PEEK", "PUSH", "SP", "PC", "O"}

// The 6-bit operand code space.
const (
	codeRegister     = uint16(0x00) // register value
	codeRegisterMem  = uint16(0x08) // [register]
	codeNextWordPlus = uint16(0x10) // [extra word + register]
	codeProgramOp    = uint16(0x18) // POP PEEK PUSH SP PC O
	codeSpecial      = uint16(0x1b) // SP PC O as values
	codeNextWordMem  = uint16(0x1e) // [extra word]
	codeNextWord     = uint16(0x1f) // extra word as value
	codeLiteral      = uint16(0x20) // small literal embedded in the code
)

// Code is one assembled instruction: the instruction word plus the extra
// words its operands demand, in operand order.
type Code struct {
	Word  uint16
	Extra []uint16
}

// MakeBasicCode encodes a two-operand instruction word. op indexes the basic
// mnemonic table starting from one; b is zero when the instruction carries
// no second operand.
func MakeBasicCode(op, a, b uint16, extra ...uint16) Code {
	return Code{
		Word:  (b << 10) | (a << 4) | op,
		Extra: extra,
	}
}

// MakeNonBasicCode encodes a single-operand instruction word. The low four
// bits stay zero as the non-basic discriminator.
func MakeNonBasicCode(op, a uint16, extra ...uint16) Code {
	return Code{
		Word:  (a << 10) | (op << 4),
		Extra: extra,
	}
}

// Basic reports whether the word uses the two-operand format.
func (code Code) Basic() bool {
	return code.Word&0xf != 0
}

// BasicDecode returns the opcode and both operand codes of a basic word.
func (code Code) BasicDecode() (op, a, b uint16) {
	op = code.Word & 0xf
	a = (code.Word >> 4) & 0x3f
	b = (code.Word >> 10) & 0x3f
	return
}

// NonBasicDecode returns the opcode and operand code of a non-basic word.
func (code Code) NonBasicDecode() (op, a uint16) {
	op = (code.Word >> 4) & 0x3f
	a = (code.Word >> 10) & 0x3f
	return
}

// Op returns the mnemonic of the instruction word, or "???" when the opcode
// indexes outside its table.
func (code Code) Op() string {
	if code.Basic() {
		op, _, _ := code.BasicDecode()
		return basicOps[op-1]
	}
	op, _ := code.NonBasicDecode()
	if op < 1 || int(op) > len(nonBasicOps) {
		return "???"
	}
	return nonBasicOps[op-1]
}

// operandNeedsExtra reports whether the operand code consumes an extra word.
func operandNeedsExtra(c uint16) bool {
	return (c >= codeNextWordPlus && c < codeProgramOp) ||
		c == codeNextWordMem || c == codeNextWord
}

// ExtraNeed returns the number of extra words the instruction word demands.
func (code Code) ExtraNeed() (need int) {
	var a, b uint16
	if code.Basic() {
		_, a, b = code.BasicDecode()
	} else {
		_, a = code.NonBasicDecode()
	}

	if operandNeedsExtra(a) {
		need++
	}
	if code.Basic() && operandNeedsExtra(b) {
		need++
	}

	return
}

// operandString renders one operand code, consuming an extra word from
// extra when the code demands one.
func operandString(c uint16, extra []uint16, n *int) string {
	next := func() uint16 {
		if *n >= len(extra) {
			return 0
		}
		w := extra[*n]
		*n++
		return w
	}

	switch {
	case c < codeRegisterMem:
		return registers[c]
	case c < codeNextWordPlus:
		return "[" + registers[c-codeRegisterMem] + "]"
	case c < codeProgramOp:
		return fmt.Sprintf("[0x%04x+%v]", next(), registers[c-codeNextWordPlus])
	case c < codeNextWordMem:
		return programOps[c-codeProgramOp]
	case c == codeNextWordMem:
		return fmt.Sprintf("[0x%04x]", next())
	case c == codeNextWord:
		return fmt.Sprintf("0x%04x", next())
	default:
		return fmt.Sprintf("0x%02x", c-codeLiteral)
	}
}

// String renders the instruction in source form, e.g. "SET [0x1000+I], 0x05".
func (code Code) String() string {
	var sb strings.Builder
	var n int

	sb.WriteString(code.Op())
	if code.Basic() {
		_, a, b := code.BasicDecode()
		sb.WriteString(" " + operandString(a, code.Extra, &n))
		sb.WriteString(", " + operandString(b, code.Extra, &n))
	} else {
		_, a := code.NonBasicDecode()
		sb.WriteString(" " + operandString(a, code.Extra, &n))
	}

	return sb.String()
}
