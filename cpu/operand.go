package cpu

import (
	"regexp"
	"slices"
	"strconv"
)

// Token grammar fragments. Identifiers are a letter followed by at least one
// word character, so a single letter can never name a label.
const (
	identGroup    = `([a-zA-Z]\w+)`
	literalGroup  = `(?:0?x([a-fA-F0-9]+))|([0-9]+)`
	registerGroup = `([a-cA-C]|[x-zX-Z]|[i-jI-J])`
)

var (
	addressPattern      = regexp.MustCompile(`^\[([\w+]+)\]$`)
	literalPattern      = regexp.MustCompile(`^(?:` + literalGroup + `)$`)
	identPattern        = regexp.MustCompile(`^` + identGroup + `$`)
	plusRegisterPattern = regexp.MustCompile(`^(` + literalGroup + `)\s*\+\s*` + registerGroup + `$`)
)

// cell is one 16-bit slot of the word buffer. A slot awaiting a label
// backfill carries the unresolved flag instead of a reserved numeric marker,
// so no legitimate value can collide with it.
type cell struct {
	value      uint16
	unresolved bool
}

// operand is an addressing-mode code plus its optional extra word.
type operand struct {
	code  uint16
	extra []cell // at most one
}

// literalValue parses a decimal or hex literal token. ok is false when the
// token is not literal-shaped at all; a literal-shaped token outside the
// signed 16-bit range is an invalid operand.
func literalValue(token string) (v int16, ok bool, err error) {
	m := literalPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false, nil
	}

	base := 10
	digits := m[2]
	if m[1] != "" {
		base = 16
		digits = m[1]
	}

	v64, perr := strconv.ParseInt(digits, base, 16)
	if perr != nil {
		return 0, false, ErrInvalidOperand(token)
	}

	return int16(v64), true, nil
}

// resolveOperand classifies one operand token into its addressing code and
// optional extra word. Classification is strict first-match-wins; the
// ordering is a contract, since the token classes are not mutually exclusive
// by grammar alone. A bare identifier is a label reference: it emits an
// unresolved extra word and records a backfill request anchored at the
// word-buffer offset of the instruction word under construction.
func (ses *session) resolveOperand(token string) (operand, error) {
	if i := slices.Index(basicOps, token); i >= 0 {
		return operand{code: codeProgramOp + uint16(i)}, nil
	}

	var isAddress bool
	if m := addressPattern.FindStringSubmatch(token); m != nil {
		token = m[1]
		isAddress = true
	}

	if i := slices.Index(registers, token); i >= 0 {
		if isAddress {
			return operand{code: codeRegisterMem + uint16(i)}, nil
		}
		return operand{code: codeRegister + uint16(i)}, nil
	}

	if i := slices.Index(specialRegisters, token); i >= 0 {
		if isAddress {
			return operand{}, ErrInvalidOperand(token)
		}
		return operand{code: codeSpecial + uint16(i)}, nil
	}

	if i := slices.Index(programOps, token); i >= 0 {
		return operand{code: codeProgramOp + uint16(i)}, nil
	}

	if v, ok, err := literalValue(token); err != nil {
		return operand{}, err
	} else if ok {
		if v <= 0x1f && !isAddress {
			return operand{code: codeLiteral + uint16(v)}, nil
		}
		code := codeNextWord
		if isAddress {
			code = codeNextWordMem
		}
		return operand{code: code, extra: []cell{{value: uint16(v)}}}, nil
	}

	if m := plusRegisterPattern.FindStringSubmatch(token); m != nil {
		v, _, err := literalValue(m[1])
		if err != nil {
			return operand{}, err
		}
		i := slices.Index(registers, m[4])
		if i < 0 {
			return operand{}, ErrInvalidOperand(token)
		}
		return operand{code: codeNextWordPlus + uint16(i), extra: []cell{{value: uint16(v)}}}, nil
	}

	if identPattern.MatchString(token) {
		ses.backfills = append(ses.backfills, backfill{
			anchor: len(ses.buf),
			label:  token,
		})
		return operand{code: codeNextWord, extra: []cell{{unresolved: true}}}, nil
	}

	return operand{}, ErrUnresolvedOperand(token)
}
