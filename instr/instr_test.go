package instr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMagic(t *testing.T) {
	inst := New(DAT, "", Operand{Direct, 0}, Operand{Direct, 0})
	assert.Equal(t, "DAT.F $0, $0", inst.String())

	inst = New(MOV, ModX, Operand{Direct, 52}, Operand{BIndirect, 621})
	assert.Equal(t, "MOV.X $52, @621", inst.String())
	assert.Equal(t, `<instr.Instruction "MOV.X $52, @621">`, inst.GoString())

	inst2, err := Parse("MOV.X $52, @621")
	assert.NoError(t, err)
	assert.Equal(t, inst, inst2)
	assert.Equal(t, MOV, inst2.Opcode)
	assert.Equal(t, ModX, inst2.Modifier)
	assert.Equal(t, Operand{Direct, 52}, inst2.A)
	assert.Equal(t, Operand{BIndirect, 621}, inst2.B)

	a := New(DAT, "", Operand{Direct, 0}, Operand{Direct, 0})
	b := New(DAT, "", Operand{Direct, 0}, Operand{Direct, 0})
	assert.Equal(t, a, b)
}

func TestParseDefaultsOperand(t *testing.T) {
	inst, err := Parse("DAT")
	assert.NoError(t, err)
	assert.Equal(t, Operand{Direct, 0}, inst.A)
	assert.Equal(t, Operand{Direct, 0}, inst.B)
}

func TestParseStripsComment(t *testing.T) {
	inst, err := Parse("MOV 0, 1 ; copy the imp")
	assert.NoError(t, err)
	assert.Equal(t, MOV, inst.Opcode)
	assert.Equal(t, Operand{Direct, 1}, inst.B)
}

func TestParseRejectsUnknownOpcode(t *testing.T) {
	_, err := Parse("XYZ 0, 1")
	assert.Error(t, err)
}

func TestParseRejectsUnknownModifier(t *testing.T) {
	_, err := Parse("MOV.Q 0, 1")
	assert.Error(t, err)
}

func TestDefaultModifier(t *testing.T) {
	// ADD #4, 3: A is immediate -> AB, per the corrected ICWS'94 rule.
	assert.Equal(t, ModAB, DefaultModifier(ADD, Immediate, Direct))
	// MOV 2, @2: neither immediate -> I (MOV/CMP copy/compare whole cells).
	assert.Equal(t, ModI, DefaultModifier(MOV, Direct, BIndirect))
	// ADD 2, @2: neither immediate, not MOV/CMP -> F.
	assert.Equal(t, ModF, DefaultModifier(ADD, Direct, BIndirect))
	// CMP 2, @2: neither immediate -> I.
	assert.Equal(t, ModI, DefaultModifier(CMP, Direct, BIndirect))
	// ADD 3, #4: only B immediate -> B.
	assert.Equal(t, ModB, DefaultModifier(ADD, Direct, Immediate))
	// jump-family always defaults to B, regardless of operand modes.
	assert.Equal(t, ModB, DefaultModifier(JMP, Immediate, Immediate))
	assert.Equal(t, ModB, DefaultModifier(DJN, Direct, Direct))
}

func TestCanonFieldCentersAroundZero(t *testing.T) {
	assert.Equal(t, -1, CanonField(-1, 200))
	assert.Equal(t, -1, CanonField(199, 200))
	assert.Equal(t, 5, CanonField(5, 200))
	assert.Equal(t, -5, CanonField(-5, 200))
	assert.Equal(t, 35, CanonField(35, 200))
	assert.Equal(t, 100, CanonField(100, 200))
	assert.Equal(t, -99, CanonField(101, 200))
}

func TestModNeverNegative(t *testing.T) {
	assert.Equal(t, 199, Mod(-1, 200))
	assert.Equal(t, 0, Mod(200, 200))
	assert.Equal(t, 5, Mod(5, 200))
}

func TestCanonInstruction(t *testing.T) {
	inst := New(DAT, ModF, Operand{Direct, -1}, Operand{Direct, 201})
	canon := inst.Canon(200)
	assert.Equal(t, -1, canon.A.Field)
	assert.Equal(t, 1, canon.B.Field)
}

func TestParseOriginRecognisesOrgAndEnd(t *testing.T) {
	n, ok, err := ParseOrigin("ORG 2")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	n, ok, err = ParseOrigin("END 5 ; start here")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, ok, err = ParseOrigin("org -1")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, -1, n)
}

func TestParseOriginDefaultsToZeroWithNoOperand(t *testing.T) {
	n, ok, err := ParseOrigin("ORG")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestParseOriginIgnoresOrdinaryInstructions(t *testing.T) {
	_, ok, err := ParseOrigin("MOV 0, 1")
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestInstanceIdentity(t *testing.T) {
	a := New(DAT, "", Operand{Direct, 0}, Operand{Direct, 0})
	b := New(DAT, "", Operand{Direct, 0}, Operand{Direct, 0})
	assert.NotSame(t, &a, &b)
}
