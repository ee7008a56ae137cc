package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Statement grammar: an optional ':label', a mnemonic, a first operand, and
// an optional comma-separated second operand. Operands may be bracketed to
// denote memory addressing.
var instructionPattern = regexp.MustCompile(
	`^(?::` + identGroup + `?\s+)?([a-zA-Z]+)\s+(\[?[\w+]+\]?)(?:\s*,?\s*(\[?.+\]?))?$`)

var exprPattern = regexp.MustCompile(`\$\([^$]*\)`)

// statement is one matched source line.
type statement struct {
	label    string
	mnemonic string
	opa, opb string
}

// backfill is a deferred patch request for a label referenced before the
// label table is complete. anchor is the word-buffer offset of the
// referencing line's instruction word.
type backfill struct {
	anchor int
	label  string
}

// session is the state of one assembly invocation. Parse constructs a fresh
// session per call, so nothing leaks between invocations.
type session struct {
	buf       []cell
	labels    map[string]uint16
	backfills []backfill
	equates   map[string]string
}

// Assembler assembles DCPU-16 source text into machine words.
//
// An Assembler value must not be used from more than one goroutine at a
// time.
type Assembler struct {
	Verbose bool // If set, verbosely logs each scanned line.

	predefine map[string]string
}

// Predefine defines an equate visible to $() expressions before any source
// line is scanned, or replaces an earlier predefine of the same name.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Parse assembles an input stream into a padded Program image.
//
// The pass is all-or-nothing: the first error aborts the assembly and no
// partial output is produced. Errors raised while scanning carry the
// offending line via ErrSyntax; an undefined label surfaces after the scan
// as ErrUnknownLabel.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	ses := &session{
		labels:  make(map[string]uint16),
		equates: map[string]string{"LINENO": "0"},
	}
	for equ, value := range asm.predefine {
		ses.equates[equ] = value
	}

	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		if asm.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		if err = ses.scanLine(text, lineno); err != nil {
			return nil, &ErrSyntax{LineNo: lineno, Line: text, Err: err}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}

	words, err := ses.link()
	if err != nil {
		return nil, err
	}

	return &Program{Words: words}, nil
}

// scanLine processes one raw source line: comment stripping, compile-time
// expansion, equate definitions, and finally statement encoding.
func (ses *session) scanLine(text string, lineno int) error {
	if n := strings.IndexByte(text, ';'); n >= 0 {
		text = text[:n]
	}
	line := strings.TrimSpace(text)
	if line == "" {
		return nil
	}

	line, err := ses.expand(line, lineno)
	if err != nil {
		return err
	}

	if strings.HasPrefix(line, ".equ") {
		return ses.equ(line)
	}

	tok, err := tokenize(line)
	if err != nil {
		return err
	}

	if tok.label != "" {
		// The label names the word emitted next: the instruction that
		// follows it. A later definition of the same name wins.
		ses.labels[tok.label] = uint16(len(ses.buf))
	}

	return ses.encode(tok)
}

// tokenize matches one comment-free, non-blank line against the statement
// grammar.
func tokenize(line string) (tok statement, err error) {
	m := instructionPattern.FindStringSubmatch(line)
	if m == nil {
		return tok, ErrStatement
	}

	tok = statement{
		label:    strings.TrimSpace(m[1]),
		mnemonic: strings.TrimSpace(m[2]),
		opa:      strings.TrimSpace(m[3]),
		opb:      strings.TrimSpace(m[4]),
	}

	if tok.mnemonic == "" || tok.opa == "" {
		return statement{}, ErrStatement
	}

	return tok, nil
}

// encode resolves the statement's operands and appends its machine words:
// the instruction word, then operand-a's extra word, then operand-b's.
func (ses *session) encode(tok statement) error {
	op, basic, err := opcodeOf(tok.mnemonic)
	if err != nil {
		return err
	}

	a, err := ses.resolveOperand(tok.opa)
	if err != nil {
		return err
	}

	// Only the basic format carries a second operand; a non-basic
	// instruction ignores anything after its single operand.
	var b operand
	if basic && tok.opb != "" {
		b, err = ses.resolveOperand(tok.opb)
		if err != nil {
			return err
		}
	}

	var word uint16
	if basic {
		word = MakeBasicCode(op, a.code, b.code).Word
	} else {
		word = MakeNonBasicCode(op, a.code).Word
	}

	ses.buf = append(ses.buf, cell{value: word})
	ses.buf = append(ses.buf, a.extra...)
	ses.buf = append(ses.buf, b.extra...)

	return nil
}

// opcodeOf looks a mnemonic up in the basic table, then the non-basic table.
func opcodeOf(mnemonic string) (op uint16, basic bool, err error) {
	if i := slices.Index(basicOps, mnemonic); i >= 0 {
		return uint16(i + 1), true, nil
	}
	if i := slices.Index(nonBasicOps, mnemonic); i >= 0 {
		return uint16(i + 1), false, nil
	}
	return 0, false, ErrUnknownMnemonic(mnemonic)
}

// link is the second phase: patch every backfill request against the
// completed label table, then linearize the buffer and append trailing
// padding of len%8 zero words.
func (ses *session) link() ([]uint16, error) {
	for _, bf := range ses.backfills {
		addr, ok := ses.labels[bf.label]
		if !ok {
			return nil, ErrUnknownLabel(bf.label)
		}

		// The request does not record which extra-word slot is its own:
		// at recording time the resolver cannot know whether it filled
		// the first or second slot of its instruction. Patch whichever
		// of the two slots after the anchor still awaits resolution; no
		// instruction ever reserves more than two extra words, and a
		// slot holding a real value is never overwritten.
		for i := 1; i <= 2; i++ {
			n := bf.anchor + i
			if n >= len(ses.buf) {
				continue
			}
			if ses.buf[n].unresolved {
				ses.buf[n] = cell{value: addr}
			}
		}
	}

	padding := len(ses.buf) % 8
	words := make([]uint16, 0, len(ses.buf)+padding)
	for _, c := range ses.buf {
		words = append(words, c.value)
	}
	for ; padding > 0; padding-- {
		words = append(words, 0)
	}

	return words, nil
}

// equ handles a '.equ NAME VALUE' line.
func (ses *session) equ(line string) error {
	words := strings.Fields(line)
	if len(words) != 3 || words[0] != ".equ" {
		return ErrEquateSyntax
	}
	if _, ok := ses.equates[words[1]]; ok {
		return ErrEquateDuplicate
	}
	ses.equates[words[1]] = words[2]
	return nil
}

// expand evaluates every $() expression on the line and splices the results
// back in as numeric literals, before any grammar matching happens.
func (ses *session) expand(line string, lineno int) (string, error) {
	ses.equates["LINENO"] = strconv.Itoa(lineno)

	if !strings.Contains(line, "$(") {
		return line, nil
	}

	var expErr error
	line = exprPattern.ReplaceAllStringFunc(line, func(src string) string {
		value, err := ses.eval(src[2 : len(src)-1])
		if err != nil {
			expErr = err
			return src
		}
		return fmt.Sprintf("%v", value)
	})

	return line, expErr
}

// eval runs one $() expression under starlark with every integer-valued
// equate predeclared.
func (ses *session) eval(expr string) (int64, error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}

	env := starlark.StringDict{}
	for equ, str := range ses.equates {
		value, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Non-integer equates stay invisible to expressions.
			continue
		}
		env[equ] = starlark.MakeInt64(value)
	}

	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", "rc="+expr+"\n", env)
	if err != nil {
		return 0, ErrParseExpression(expr)
	}

	rc, ok := dict["rc"]
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	rcInt, ok := rc.(starlark.Int)
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	value, ok := rcInt.Int64()
	if !ok {
		return 0, ErrParseExpression(expr)
	}

	return value, nil
}
