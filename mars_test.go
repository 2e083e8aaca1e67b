package mars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mars/config"
	"mars/instr"
)

func TestLoadWarriorSeedsMemoryAndThread(t *testing.T) {
	m := New(config.Properties{Coresize: 200, MaxProcesses: 8000})
	w, err := LoadWarrior(m, "imp", "MOV 0, 1", 10)
	require.NoError(t, err)

	imp := instr.New(instr.MOV, "", instr.Operand{Mode: instr.Direct, Field: 0}, instr.Operand{Mode: instr.Direct, Field: 1})
	assert.Equal(t, imp, m.Memory.Read(10)) // sanity: Memory is loaded
	assert.True(t, w.Alive())
	assert.Equal(t, []int{10}, w.Threads())
}

func TestLoadWarriorSkipsBlankAndCommentLines(t *testing.T) {
	m := New(config.Properties{Coresize: 200, MaxProcesses: 8000})
	src := "; an imp\nMOV 0, 1\n\n"
	w, err := LoadWarrior(m, "imp", src, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, w.Threads())
}

func TestStepRunsOneInstruction(t *testing.T) {
	m := New(config.Properties{Coresize: 200, MaxProcesses: 8000})
	w, err := LoadWarrior(m, "imp", "MOV 0, 1", 10)
	require.NoError(t, err)

	require.NoError(t, Step(m, w))
	assert.Equal(t, []int{11}, w.Threads())
}

func TestLoadWarriorPropagatesParseError(t *testing.T) {
	m := New(config.Properties{Coresize: 200, MaxProcesses: 8000})
	_, err := LoadWarrior(m, "bad", "NOTANOPCODE 1, 2", 10)
	assert.Error(t, err)
}

func TestLoadWarriorSeedsAtOrgOrigin(t *testing.T) {
	m := New(config.Properties{Coresize: 200, MaxProcesses: 8000})
	src := "ORG 2\nDAT 0, 0\nDAT 1, 1"
	w, err := LoadWarrior(m, "x", src, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{12}, w.Threads())
	assert.Equal(t, instr.Dead, m.Memory.Read(10))
	assert.Equal(t, 1, m.Memory.Read(11).A.Field)
}
