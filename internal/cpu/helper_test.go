package cpu

import (
	"github.com/hoferm/dmgo/internal/clock"
	"github.com/hoferm/dmgo/internal/interrupt"
	"github.com/hoferm/dmgo/internal/memory"
)

// testMachine bundles a CPU with the real MMU/interrupt controller/clock it
// needs, since reg8/readByte/writeByte all route through memory.
type testMachine struct {
	cpu  *CPU
	mem  *memory.MMU
	intc *interrupt.Controller
	clk  *clock.Clock
}

// newTestMachine builds a CPU in the post-boot register state with no
// cartridge loaded (ROM space is inert), program code placed in work RAM
// (0xC000+, freely writable) rather than ROM.
func newTestMachine() *testMachine {
	mem := memory.New()
	intc := interrupt.New(mem)
	clk := &clock.Clock{}
	c := New(mem, intc, clk)
	c.pc = 0xC000
	return &testMachine{cpu: c, mem: mem, intc: intc, clk: clk}
}

// load writes a byte sequence starting at address, for building small test
// programs in work RAM.
func (m *testMachine) load(address uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.mem.Write(address+uint16(i), b)
	}
}

// step executes one CPU step and returns the cycles it consumed.
func (m *testMachine) step() (int, error) {
	return m.cpu.Step()
}
