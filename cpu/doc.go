// Package cpu implements an assembler for the DCPU-16, a fictional 16-bit
// word-addressed processor.
//
// The assembler is a single forward pass: each source line is tokenized,
// its operands are classified into 6-bit addressing codes, and one or two
// machine words are appended to the word buffer. Label definitions bind to
// the offset of the word emitted next; references to labels not yet known
// are emitted as unresolved slots and patched once the whole input has been
// scanned. The finished image is padded with trailing zero words.
//
// Source lines may also define equates with .equ and use compile-time
// $(...) constant expressions, evaluated by starlark before the line is
// matched against the statement grammar.
package cpu
