// Package mars bundles a Properties table with the Memory it governs,
// mirroring the reference test harness's Mars(properties).memory
// convenience constructor. It does not run a tournament: scoring and
// multi-warrior turn order are an external collaborator's concern.
package mars

import (
	"strings"

	"mars/config"
	"mars/instr"
	"mars/memory"
	"mars/vm"
)

// Mars bundles a Properties table with the Memory sized from it.
type Mars struct {
	Properties config.Properties
	Memory     *memory.Memory
}

// New allocates a Mars with Memory sized at p.Coresize.
func New(p config.Properties) *Mars {
	return &Mars{Properties: p, Memory: memory.New(p.Coresize)}
}

// LoadWarrior parses source, one Redcode instruction per non-blank line (an
// ORG or END line instead records the program's origin offset per §4.6
// rather than compiling to a cell), loads the compiled program into Memory
// starting at base, and returns a Warrior with a single thread seeded at
// (base+origin) mod coresize.
func LoadWarrior(m *Mars, name, source string, base int) (*vm.Warrior, error) {
	var program []instr.Instruction
	origin := 0
	for _, line := range strings.Split(source, "\n") {
		code := line
		if i := strings.IndexByte(code, ';'); i >= 0 {
			code = code[:i]
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		if n, ok, err := instr.ParseOrigin(code); ok {
			if err != nil {
				return nil, err
			}
			origin = n
			continue
		}
		ins, err := instr.Parse(line)
		if err != nil {
			return nil, err
		}
		program = append(program, ins)
	}
	m.Memory.Load(base, program)
	w := vm.NewCompiledWarrior(name, program, origin, m.Memory.Coresize(), m.Properties.MaxProcesses)
	if _, err := w.InitialProgram(base); err != nil {
		return nil, err
	}
	return w, nil
}

// Step runs exactly one instruction for w's next queued thread against m's
// Memory.
func Step(m *Mars, w *vm.Warrior) error {
	return w.Run(m.Memory)
}
