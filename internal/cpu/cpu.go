// Package cpu implements the Sharp LR35902 instruction interpreter: the
// 256-entry base opcode table, the 256-entry CB-prefixed table, flag
// semantics, and the interrupt/HALT sequencing that runs once per step.
package cpu

import (
	"fmt"

	"github.com/hoferm/dmgo/internal/clock"
	"github.com/hoferm/dmgo/internal/interrupt"
	"github.com/hoferm/dmgo/internal/memory"
)

// UnsupportedOpcodeError reports that one of the eleven officially unused
// opcodes was executed (spec §7). It carries the PC at fault.
type UnsupportedOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode 0x%02X at pc=0x%04X", e.Opcode, e.PC)
}

// CPU holds the full Sharp LR35902 register file and drives instruction
// fetch/decode/execute plus interrupt dispatch.
type CPU struct {
	memory     *memory.MMU
	interrupts *interrupt.Controller
	clk        *clock.Clock

	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16

	halted  bool
	haltBug bool

	currentOpcode uint8
}

// New creates a CPU bound to the given memory bus, interrupt controller and
// shared clock, in the post-boot-ROM register state (spec §3).
func New(mem *memory.MMU, interrupts *interrupt.Controller, clk *clock.Clock) *CPU {
	c := &CPU{memory: mem, interrupts: interrupts, clk: clk}
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// NewAtResetState creates a CPU in the all-zero reset state used when a boot
// ROM is present and executing (spec §6).
func NewAtResetState(mem *memory.MMU, interrupts *interrupt.Controller, clk *clock.Clock) *CPU {
	return &CPU{memory: mem, interrupts: interrupts, clk: clk}
}

func (c *CPU) tickCycles(tCycles int) {
	c.clk.TickCycles(tCycles)
	c.memory.Tick(tCycles)
}

func (c *CPU) readByte(address uint16) uint8 {
	v := c.memory.Read(address)
	c.tickCycles(4)
	return v
}

func (c *CPU) writeByte(address uint16, value uint8) {
	c.memory.Write(address, value)
	c.tickCycles(4)
}

func (c *CPU) fetch() uint8 {
	v := c.readByte(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

// PC returns the current program counter, for diagnostics.
func (c *CPU) PC() uint16 { return c.pc }

// Cycles returns the shared clock's total elapsed T-cycles.
func (c *CPU) Cycles() uint64 { return c.clk.Now() }

// Halted reports whether the CPU is currently parked in HALT.
func (c *CPU) Halted() bool { return c.halted }

// Step executes exactly one instruction, or services one pending interrupt,
// per the sequence in spec §4.6, and returns the T-cycles consumed.
func (c *CPU) Step() (int, error) {
	before := c.clk.Now()

	if vector, ok := c.interrupts.Dispatch(); ok {
		c.halted = false
		c.dispatchInterrupt(vector)
		return int(c.clk.Now() - before), nil
	}

	// Applied after the dispatch check above, so EI's effect lands one full
	// instruction later: the instruction right after EI still runs with the
	// old IME (spec §4.3).
	c.interrupts.ApplyScheduledEnable()

	if c.halted {
		if c.interrupts.HasPending() {
			// IME must be false here: the IME=true case was already
			// serviced by the Dispatch call above. Waking with IME=0 is the
			// HALT-bug trigger (spec §4.3).
			c.halted = false
			c.haltBug = true
		} else {
			c.tickCycles(4)
			return int(c.clk.Now() - before), nil
		}
	}

	opcode := c.fetch()
	if c.haltBug {
		// The byte after HALT is fetched twice: PC does not advance past it
		// the first time (spec §4.3).
		c.pc--
		c.haltBug = false
	}
	c.currentOpcode = opcode

	if err := c.execute(opcode); err != nil {
		return int(c.clk.Now() - before), err
	}

	return int(c.clk.Now() - before), nil
}

// dispatchInterrupt pushes PC and jumps to vector, consuming 5 machine
// cycles (spec §4.3). IF/IME bookkeeping already happened inside
// interrupt.Controller.Dispatch.
func (c *CPU) dispatchInterrupt(vector uint16) {
	c.tickCycles(8) // two internal wait machine cycles
	c.pushStack(c.pc)
	c.pc = vector
	c.tickCycles(4) // machine cycle to load PC with the vector
}

func (c *CPU) execute(opcode uint8) error {
	if opcode == 0xCB {
		cb := c.fetch()
		op := opcodeCBTable[cb]
		op(c)
		return nil
	}

	op := opcodeTable[opcode]
	if op == nil {
		return &UnsupportedOpcodeError{Opcode: opcode, PC: c.pc - 1}
	}
	op(c)
	return nil
}
