// Package instr implements the Redcode instruction data model: opcodes,
// modifiers, operands with their addressing-mode prefixes, and the
// Instruction value type itself.
//
// Instructions are value types. Two Instructions with equal fields compare
// equal with ==, but a freshly-parsed Instruction is never the same instance
// as another with equal fields; callers that need identity should keep a
// pointer.
package instr

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcode names one of the fifteen ICWS'94 instructions this core executes.
type Opcode string

const (
	DAT Opcode = "DAT"
	MOV Opcode = "MOV"
	ADD Opcode = "ADD"
	SUB Opcode = "SUB"
	MUL Opcode = "MUL"
	DIV Opcode = "DIV"
	MOD Opcode = "MOD"
	JMP Opcode = "JMP"
	JMZ Opcode = "JMZ"
	JMN Opcode = "JMN"
	DJN Opcode = "DJN"
	CMP Opcode = "CMP"
	SLT Opcode = "SLT"
	SPL Opcode = "SPL"
	NOP Opcode = "NOP"
)

// opcodes is the recognised-opcode set, used by the parser to reject
// anything else.
var opcodes = map[Opcode]bool{
	DAT: true, MOV: true, ADD: true, SUB: true, MUL: true,
	DIV: true, MOD: true, JMP: true, JMZ: true, JMN: true,
	DJN: true, CMP: true, SLT: true, SPL: true, NOP: true,
}

// Modifier selects which operand field(s) of an Instruction participate in
// its opcode's effect. The zero value means "unspecified": New and Parse
// replace it with DefaultModifier's result before the Instruction is used.
type Modifier string

const (
	ModA  Modifier = "A"
	ModB  Modifier = "B"
	ModAB Modifier = "AB"
	ModBA Modifier = "BA"
	ModF  Modifier = "F"
	ModX  Modifier = "X"
	ModI  Modifier = "I"
)

var modifiers = map[Modifier]bool{
	ModA: true, ModB: true, ModAB: true, ModBA: true,
	ModF: true, ModX: true, ModI: true,
}

// Mode is a single-character addressing-mode prefix on an Operand.
type Mode byte

const (
	Direct         Mode = '$' // pc + field
	Immediate      Mode = '#' // literal field value, effective address is pc
	AIndirect      Mode = '*' // indirect through the A-field of the pointed cell
	BIndirect      Mode = '@' // indirect through the B-field of the pointed cell
	APreDecrement  Mode = '{' // decrement A-field of pointed cell, then address pc + that field
	APostIncrement Mode = '}' // address pc + current A-field of pointed cell, then increment it
	BPreDecrement  Mode = '<' // decrement B-field of pointed cell, then address pc + that field
	BPostIncrement Mode = '>' // address pc + current B-field of pointed cell, then increment it
)

// Operand is an addressing mode paired with a signed field. The field is
// stored as parsed; it is canonicalised modulo coresize only when written
// into Memory or used in address arithmetic by the evaluator.
type Operand struct {
	Mode  Mode
	Field int
}

func (o Operand) String() string {
	return fmt.Sprintf("%c%d", o.Mode, o.Field)
}

// Instruction is the immutable value describing one memory cell: an opcode,
// a resolved modifier, and two operands.
type Instruction struct {
	Opcode   Opcode
	Modifier Modifier
	A, B     Operand
}

// Dead is the canonical zeroed-out cell every Memory starts filled with.
var Dead = Instruction{Opcode: DAT, Modifier: ModF, A: Operand{Direct, 0}, B: Operand{Direct, 0}}

// New builds an Instruction from its four fields, resolving the modifier if
// it is left as the zero value. The modifier is resolved once here and
// cached; later reads (including equality and String) always see the
// resolved form.
func New(op Opcode, mod Modifier, a, b Operand) Instruction {
	if mod == "" {
		mod = DefaultModifier(op, a.Mode, b.Mode)
	}
	return Instruction{Opcode: op, Modifier: mod, A: a, B: b}
}

// DefaultModifier computes the ICWS'94 default modifier for an Instruction
// whose source omitted one, based on its opcode and the addressing modes of
// its two operands.
//
// Jump-family opcodes (JMP, JMZ, JMN, DJN, SPL, NOP) always default to B.
// Every other opcode defaults to AB when A is immediate, B when only B is
// immediate. When neither operand is immediate, MOV and CMP (whole-
// instruction data movement and comparison) default to I; every other
// opcode defaults to F. See DESIGN.md Open Question 6: the Imp scenario
// (cell 11 reading back as "MOV.I $0, $1") only holds under this split.
func DefaultModifier(op Opcode, aMode, bMode Mode) Modifier {
	switch op {
	case JMP, JMZ, JMN, DJN, SPL, NOP:
		return ModB
	}
	switch {
	case aMode == Immediate:
		return ModAB
	case bMode == Immediate:
		return ModB
	case op == MOV || op == CMP:
		return ModI
	default:
		return ModF
	}
}

// ParseError reports a malformed Redcode token.
type ParseError struct {
	Token string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("redcode: %s: %q", e.Msg, e.Token)
}

// Parse reads a single Redcode instruction line of the form
// "OP[.MOD] [mA]fA[, [mB]fB]". A missing operand defaults to "$0"; a
// missing modifier is resolved per DefaultModifier. Whitespace is
// insignificant and opcodes/modifiers are case-insensitive.
func Parse(line string) (Instruction, error) {
	line = stripComment(line)
	line = strings.TrimSpace(line)
	if line == "" {
		return Instruction{}, &ParseError{line, "empty instruction"}
	}

	fields := strings.Fields(line)
	head := fields[0]
	rest := strings.TrimSpace(line[len(head):])

	opStr, modStr, hasMod := strings.Cut(strings.ToUpper(head), ".")
	op := Opcode(opStr)
	if !opcodes[op] {
		return Instruction{}, &ParseError{opStr, "unknown opcode"}
	}

	var mod Modifier
	if hasMod {
		mod = Modifier(strings.ToUpper(modStr))
		if !modifiers[mod] {
			return Instruction{}, &ParseError{modStr, "unknown modifier"}
		}
	}

	aTok, bTok, _ := strings.Cut(rest, ",")
	a, err := parseOperand(strings.TrimSpace(aTok))
	if err != nil {
		return Instruction{}, err
	}
	b, err := parseOperand(strings.TrimSpace(bTok))
	if err != nil {
		return Instruction{}, err
	}

	return New(op, mod, a, b), nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

// ParseOrigin recognises the ORG/END pseudo-op declaring a program's origin
// offset: "ORG n" or "END n" (§4.6). ok is false, with no error, for any
// line that isn't one of these, so a line-oriented loader can fall through
// to Parse. A bare "ORG"/"END" with no integer is origin 0.
func ParseOrigin(line string) (origin int, ok bool, err error) {
	code := strings.TrimSpace(stripComment(line))
	if code == "" {
		return 0, false, nil
	}
	fields := strings.Fields(code)
	head := strings.ToUpper(fields[0])
	if head != "ORG" && head != "END" {
		return 0, false, nil
	}
	rest := strings.TrimSpace(code[len(fields[0]):])
	if rest == "" {
		return 0, true, nil
	}
	n, convErr := strconv.Atoi(rest)
	if convErr != nil {
		return 0, true, &ParseError{rest, "malformed origin"}
	}
	return n, true, nil
}

func parseOperand(tok string) (Operand, error) {
	if tok == "" {
		return Operand{Direct, 0}, nil
	}
	mode := Direct
	switch Mode(tok[0]) {
	case Direct, Immediate, AIndirect, BIndirect, APreDecrement, APostIncrement, BPreDecrement, BPostIncrement:
		mode = Mode(tok[0])
		tok = tok[1:]
	}
	field, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return Operand{}, &ParseError{tok, "malformed operand field"}
	}
	return Operand{mode, field}, nil
}

// String renders the canonical text form: "OP.MOD mA fA, mB fB", always
// with an explicit resolved modifier and explicit operand modes.
func (i Instruction) String() string {
	mod := i.Modifier
	if mod == "" {
		mod = DefaultModifier(i.Opcode, i.A.Mode, i.B.Mode)
	}
	return fmt.Sprintf("%s.%s %s, %s", i.Opcode, mod, i.A, i.B)
}

// GoString supplies the debug form: a type tag plus the quoted canonical
// text, e.g. <instr.Instruction "MOV.X $52, @621">.
func (i Instruction) GoString() string {
	return fmt.Sprintf("<instr.Instruction %q>", i.String())
}

// Canon returns i with both operand fields reduced modulo coresize to the
// signed representative nearest zero (CanonField). It does not touch the
// opcode or modifier.
func (i Instruction) Canon(coresize int) Instruction {
	i.A.Field = CanonField(i.A.Field, coresize)
	i.B.Field = CanonField(i.B.Field, coresize)
	return i
}

// Mod is mathematical (always non-negative) modulus, as required for every
// address computation in the core: Mod(-1, 200) == 199, never -1. Memory
// indices always go through Mod, never CanonField.
func Mod(n, m int) int {
	n %= m
	if n < 0 {
		n += m
	}
	return n
}

// CanonField reduces n modulo m to the signed representative nearest zero,
// in (-m/2, m/2]: CanonField(-1, 200) == -1, CanonField(199, 200) == -1.
// Operand fields are stored and displayed in this form once they pass
// through Memory.Write, so that a decremented field reads back as e.g.
// "#-1" rather than "#199".
func CanonField(n, m int) int {
	r := Mod(n, m)
	if r > m/2 {
		r -= m
	}
	return r
}
