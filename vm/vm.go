// Package vm implements the addressing-mode evaluator, the per-opcode
// execution semantics, and the warrior thread scheduler that together
// execute one Redcode instruction per Warrior.Run call.
package vm

import (
	"fmt"

	"mars/instr"
	"mars/memory"
)

// UnseededError is returned by Run, or by InitialProgram called with no
// base, when a Warrior was never given a starting thread.
type UnseededError struct{ Name string }

func (e UnseededError) Error() string {
	return fmt.Sprintf("vm: warrior %q has no seeded thread", e.Name)
}

// DeadWarriorError is returned by Run once a Warrior's thread queue has run
// empty: every thread it ever held has executed a DAT, or died to a
// division by zero.
type DeadWarriorError struct{ Name string }

func (e DeadWarriorError) Error() string {
	return fmt.Sprintf("vm: warrior %q has no live threads", e.Name)
}

// Warrior is a single competitor: a name, its compiled program and origin
// offset (spec §4.6's ORG/END pseudo-op), and a FIFO queue of program
// counters, one per live thread. SPL grows the queue by one; DAT and a
// zero divisor shrink it; every other opcode requeues exactly the thread it
// ran, at the tail.
type Warrior struct {
	Name         string
	Program      []instr.Instruction
	Origin       int
	queue        []int
	maxProcesses int
	coresize     int
	seeded       bool
}

// NewWarrior seeds a Warrior with a single thread at start and no attached
// program, for callers that load cells into Memory directly rather than
// through a compiled program (e.g. tests exercising one opcode at a time).
// maxProcesses caps the queue length SPL is allowed to grow it to; zero
// means no cap.
func NewWarrior(name string, start, maxProcesses int) *Warrior {
	return &Warrior{Name: name, queue: []int{start}, maxProcesses: maxProcesses, seeded: true}
}

// NewCompiledWarrior constructs an unseeded Warrior carrying its compiled
// program and origin offset. It holds no thread until InitialProgram(base)
// seeds one; coresize is recorded so that seed can be reduced modulo the
// core it will run in, per spec §4.6.
func NewCompiledWarrior(name string, program []instr.Instruction, origin, coresize, maxProcesses int) *Warrior {
	return &Warrior{Name: name, Program: program, Origin: origin, coresize: coresize, maxProcesses: maxProcesses}
}

// InitialProgram returns w's compiled program. Given a base address, it
// also seeds (or reseeds) w's thread queue with the single program counter
// (base+origin) mod coresize. Called with no base on a Warrior that has never been seeded,
// it fails with UnseededError.
func (w *Warrior) InitialProgram(base ...int) ([]instr.Instruction, error) {
	if len(base) == 0 {
		if !w.seeded {
			return nil, UnseededError{w.Name}
		}
		return w.Program, nil
	}
	pc := base[0] + w.Origin
	if w.coresize > 0 {
		pc = instr.Mod(pc, w.coresize)
	}
	w.queue = []int{pc}
	w.seeded = true
	return w.Program, nil
}

// Alive reports whether the Warrior still has a queued thread.
func (w *Warrior) Alive() bool { return len(w.queue) > 0 }

// Threads returns a copy of the current thread queue, in run order.
func (w *Warrior) Threads() []int {
	out := make([]int, len(w.queue))
	copy(out, w.queue)
	return out
}

func (w *Warrior) dequeue() (int, error) {
	if !w.seeded {
		return 0, UnseededError{w.Name}
	}
	if len(w.queue) == 0 {
		return 0, DeadWarriorError{w.Name}
	}
	pc := w.queue[0]
	w.queue = w.queue[1:]
	return pc, nil
}

// ctx bundles everything a single opcode implementation needs: the memory
// it runs against, the thread's pc, the decoded instruction, and both
// operands' already-resolved effective addresses.
type ctx struct {
	mem          *memory.Memory
	pc           int
	ins          instr.Instruction
	aAddr, bAddr int
}

// resolveOperand computes an operand's effective address, performing any
// side effect (the pre-decrement or post-increment of a pointed-to cell's
// own field) along the way.
//
// Plain indirection (*, @) adds the pointed field to the pointer cell's own
// address: pc + field + (pointed field). The side-effecting modes ({, },
// <, >) do not: once the side effect has located and mutated the pointer
// cell, the effective address is pc + (pointed field) only, with the
// pointer's own field not added a second time.
func resolveOperand(mem *memory.Memory, pc int, op instr.Operand) int {
	switch op.Mode {
	case instr.Immediate:
		return pc
	case instr.Direct:
		return pc + op.Field
	case instr.AIndirect:
		ptrAddr := pc + op.Field
		return ptrAddr + mem.Read(ptrAddr).A.Field
	case instr.BIndirect:
		ptrAddr := pc + op.Field
		return ptrAddr + mem.Read(ptrAddr).B.Field
	case instr.APreDecrement:
		ptrAddr := pc + op.Field
		pointed := mem.Read(ptrAddr)
		pointed.A.Field--
		mem.Write(ptrAddr, pointed)
		return pc + pointed.A.Field
	case instr.APostIncrement:
		ptrAddr := pc + op.Field
		pointed := mem.Read(ptrAddr)
		v := pointed.A.Field
		pointed.A.Field++
		mem.Write(ptrAddr, pointed)
		return pc + v
	case instr.BPreDecrement:
		ptrAddr := pc + op.Field
		pointed := mem.Read(ptrAddr)
		pointed.B.Field--
		mem.Write(ptrAddr, pointed)
		return pc + pointed.B.Field
	case instr.BPostIncrement:
		ptrAddr := pc + op.Field
		pointed := mem.Read(ptrAddr)
		v := pointed.B.Field
		pointed.B.Field++
		mem.Write(ptrAddr, pointed)
		return pc + v
	default:
		return pc + op.Field
	}
}

// fieldSide is one (source-field, destination-field) pairing a modifier
// selects: true means the A field, false means the B field.
type fieldSide struct{ srcIsA, dstIsA bool }

// fieldPairs lists the field pairings a modifier selects, in the order they
// apply. F and the otherwise-unhandled I (see DESIGN.md Open Question 3)
// both pair A-with-A and B-with-B.
func fieldPairs(mod instr.Modifier) []fieldSide {
	switch mod {
	case instr.ModA:
		return []fieldSide{{true, true}}
	case instr.ModB:
		return []fieldSide{{false, false}}
	case instr.ModAB:
		return []fieldSide{{true, false}}
	case instr.ModBA:
		return []fieldSide{{false, true}}
	case instr.ModX:
		return []fieldSide{{false, true}, {true, false}}
	default: // ModF, ModI
		return []fieldSide{{true, true}, {false, false}}
	}
}

func field(i instr.Instruction, isA bool) int {
	if isA {
		return i.A.Field
	}
	return i.B.Field
}

func setField(i *instr.Instruction, isA bool, v int) {
	if isA {
		i.A.Field = v
	} else {
		i.B.Field = v
	}
}

// opcodeFunc executes one instruction and returns the program counters to
// enqueue at the tail of the running thread's queue: none if the thread
// dies (DAT, a zero divisor), one for ordinary fall-through or a taken
// jump, two for SPL.
type opcodeFunc func(c *ctx) []int

var dispatch = map[instr.Opcode]opcodeFunc{
	instr.DAT: opDAT,
	instr.MOV: opMOV,
	instr.ADD: opArith(func(d, s int) int { return d + s }),
	instr.SUB: opArith(func(d, s int) int { return d - s }),
	instr.MUL: opArith(func(d, s int) int { return d * s }),
	instr.DIV: opDivMod(func(d, s int) int { return d / s }),
	instr.MOD: opDivMod(func(d, s int) int { return d % s }),
	instr.JMP: opJMP,
	instr.JMZ: opJMZ(func(v int) bool { return v == 0 }),
	instr.JMN: opJMZ(func(v int) bool { return v != 0 }),
	instr.DJN: opDJN,
	instr.CMP: opCMP,
	instr.SLT: opSLT,
	instr.SPL: opSPL,
	instr.NOP: opNOP,
}

func opDAT(c *ctx) []int { return nil }

func opNOP(c *ctx) []int { return []int{c.pc + 1} }

func opMOV(c *ctx) []int {
	src := c.mem.Read(c.aAddr)
	if c.ins.Modifier == instr.ModI {
		c.mem.Write(c.bAddr, src)
		return []int{c.pc + 1}
	}
	dst := c.mem.Read(c.bAddr)
	for _, p := range fieldPairs(c.ins.Modifier) {
		setField(&dst, p.dstIsA, field(src, p.srcIsA))
	}
	c.mem.Write(c.bAddr, dst)
	return []int{c.pc + 1}
}

// opArith builds the ADD/SUB/MUL executor for a binary integer op applied
// field-by-field per the instruction's modifier.
func opArith(op func(d, s int) int) opcodeFunc {
	return func(c *ctx) []int {
		src := c.mem.Read(c.aAddr)
		dst := c.mem.Read(c.bAddr)
		for _, p := range fieldPairs(c.ins.Modifier) {
			setField(&dst, p.dstIsA, op(field(dst, p.dstIsA), field(src, p.srcIsA)))
		}
		c.mem.Write(c.bAddr, dst)
		return []int{c.pc + 1}
	}
}

// opDivMod builds the DIV/MOD executor. Every divisor touched by the
// modifier is checked for zero before any field is written: a zero divisor
// in any selected field kills the thread outright, leaving the B cell
// untouched.
func opDivMod(op func(d, s int) int) opcodeFunc {
	return func(c *ctx) []int {
		src := c.mem.Read(c.aAddr)
		dst := c.mem.Read(c.bAddr)
		pairs := fieldPairs(c.ins.Modifier)
		for _, p := range pairs {
			if field(src, p.srcIsA) == 0 {
				return nil
			}
		}
		for _, p := range pairs {
			setField(&dst, p.dstIsA, op(field(dst, p.dstIsA), field(src, p.srcIsA)))
		}
		c.mem.Write(c.bAddr, dst)
		return []int{c.pc + 1}
	}
}

func opJMP(c *ctx) []int { return []int{c.aAddr} }

// opJMZ builds both JMZ (pred: field == 0) and JMN (pred: field != 0): jump
// to A's effective address if pred holds for every field the modifier
// selects on the instruction at B, otherwise fall through.
func opJMZ(pred func(v int) bool) opcodeFunc {
	return func(c *ctx) []int {
		b := c.mem.Read(c.bAddr)
		for _, p := range fieldPairs(c.ins.Modifier) {
			if !pred(field(b, p.dstIsA)) {
				return []int{c.pc + 1}
			}
		}
		return []int{c.aAddr}
	}
}

// opDJN decrements every field the modifier selects on the instruction at
// B, writes it back, then jumps to A if every decremented field is
// non-zero.
func opDJN(c *ctx) []int {
	b := c.mem.Read(c.bAddr)
	pairs := fieldPairs(c.ins.Modifier)
	for _, p := range pairs {
		setField(&b, p.dstIsA, field(b, p.dstIsA)-1)
	}
	c.mem.Write(c.bAddr, b)
	for _, p := range pairs {
		if field(b, p.dstIsA) == 0 {
			return []int{c.pc + 1}
		}
	}
	return []int{c.aAddr}
}

// opCMP skips the next instruction (pc+2) when A and B compare equal on
// every field the modifier selects, or (under .I) as whole instructions;
// otherwise it falls through to pc+1.
func opCMP(c *ctx) []int {
	a := c.mem.Read(c.aAddr)
	b := c.mem.Read(c.bAddr)
	equal := a == b
	if c.ins.Modifier != instr.ModI {
		equal = true
		for _, p := range fieldPairs(c.ins.Modifier) {
			if field(a, p.srcIsA) != field(b, p.dstIsA) {
				equal = false
				break
			}
		}
	}
	if equal {
		return []int{c.pc + 2}
	}
	return []int{c.pc + 1}
}

// opSLT skips the next instruction when every field-pair comparison A < B
// holds, under the modifier (.I behaves as .F, per DESIGN.md Open
// Question 3).
func opSLT(c *ctx) []int {
	a := c.mem.Read(c.aAddr)
	b := c.mem.Read(c.bAddr)
	mod := c.ins.Modifier
	if mod == instr.ModI {
		mod = instr.ModF
	}
	for _, p := range fieldPairs(mod) {
		if !(field(a, p.srcIsA) < field(b, p.dstIsA)) {
			return []int{c.pc + 1}
		}
	}
	return []int{c.pc + 2}
}

// opSPL splits: the running thread continues at pc+1, and a new thread
// starts at A's effective address, tail of the queue after the
// continuation. If maxProcesses would be exceeded, SPL degrades to a NOP.
func opSPL(c *ctx) []int {
	return []int{c.pc + 1, c.aAddr}
}

// Run executes exactly one instruction for w's next queued thread: it
// dequeues a pc, fetches and decodes the cell there, resolves both
// operands (A before B, including any side effect), dispatches to the
// opcode's executor, and requeues whatever program counters that executor
// returns.
//
// Run returns UnseededError if w was never given a starting thread, or
// DeadWarriorError if its queue has run empty.
func (w *Warrior) Run(mem *memory.Memory) error {
	pc, err := w.dequeue()
	if err != nil {
		return err
	}
	ins := mem.Read(pc)
	c := &ctx{mem: mem, pc: pc, ins: ins}
	c.aAddr = resolveOperand(mem, pc, ins.A)
	c.bAddr = resolveOperand(mem, pc, ins.B)

	fn := dispatch[ins.Opcode]
	next := fn(c)

	if ins.Opcode == instr.SPL && w.maxProcesses > 0 && len(w.queue)+len(next) > w.maxProcesses {
		next = next[:1]
	}
	for _, t := range next {
		w.queue = append(w.queue, instr.Mod(t, mem.Coresize()))
	}
	return nil
}
