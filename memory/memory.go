// Package memory implements the circular core: a fixed-size array of
// instr.Instruction cells addressed modulo its size, with a synchronous
// change-notification hook that reports every write to registered
// observers.
package memory

import "mars/instr"

// ChangeFunc is called once per Write, before the cell has been updated, with
// the canonicalised address and both the old and new cell contents. A
// callback that calls Read(addr) therefore still observes the previous
// contents of the cell.
type ChangeFunc func(addr int, old, new instr.Instruction)

// callback pairs a registered ChangeFunc with the handle OnChange returned
// for it, so RemoveCallback can find it again without requiring func values
// to be comparable.
type callback struct {
	id int
	fn ChangeFunc
}

// Memory is a circular array of coresize Instruction cells, initialised to
// instr.Dead. All addresses, on read or write, are reduced modulo coresize
// first, so Read(a) and Read(a+k*coresize) always return the same cell for
// any integer k.
type Memory struct {
	coresize  int
	cells     []instr.Instruction
	callbacks []callback
	nextID    int
	inWrite   bool
}

// New allocates a Memory of the given coresize, every cell set to instr.Dead.
func New(coresize int) *Memory {
	cells := make([]instr.Instruction, coresize)
	for i := range cells {
		cells[i] = instr.Dead
	}
	return &Memory{coresize: coresize, cells: cells}
}

// Coresize returns the size this Memory was constructed with.
func (m *Memory) Coresize() int { return m.coresize }

func (m *Memory) addr(a int) int { return instr.Mod(a, m.coresize) }

// Read returns the cell at addr, canonicalising addr modulo coresize first.
func (m *Memory) Read(addr int) instr.Instruction {
	return m.cells[m.addr(addr)]
}

// OnChange registers fn to be called, in registration order, before every
// Write commits its new cell. It returns a handle that RemoveCallback can
// later use to deregister it. Callbacks fire synchronously, ahead of the
// write they report on; a callback that calls Write itself panics, since a
// write is not yet complete while its own callbacks are running.
func (m *Memory) OnChange(fn ChangeFunc) int {
	m.nextID++
	id := m.nextID
	m.callbacks = append(m.callbacks, callback{id: id, fn: fn})
	return id
}

// RemoveCallback deregisters the callback identified by id, the handle
// OnChange returned when it was registered. Removing an unknown or
// already-removed handle is a no-op.
func (m *Memory) RemoveCallback(id int) {
	for i, cb := range m.callbacks {
		if cb.id == id {
			m.callbacks = append(m.callbacks[:i], m.callbacks[i+1:]...)
			return
		}
	}
}

// Write canonicalises both addr and ins's operand fields
// (instr.Instruction.Canon) modulo coresize, runs every registered callback
// in order with the cell's previous and about-to-be-written contents, and
// only then stores the new cell: the callback invocation precedes the
// write's own observable effect, so a callback reading m.Read(addr) still
// sees the old contents.
func (m *Memory) Write(addr int, ins instr.Instruction) {
	if m.inWrite {
		panic("memory: write called re-entrantly from a change callback")
	}
	a := m.addr(addr)
	canon := ins.Canon(m.coresize)
	old := m.cells[a]

	m.inWrite = true
	defer func() { m.inWrite = false }()
	for _, cb := range m.callbacks {
		cb.fn(a, old, canon)
	}

	m.cells[a] = canon
}

// Load writes program into Memory starting at base, one cell per
// instruction, each write going through the same canonicalisation and
// callback path as any other Write.
func (m *Memory) Load(base int, program []instr.Instruction) {
	for i, ins := range program {
		m.Write(base+i, ins)
	}
}
