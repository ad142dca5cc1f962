// Package gameboy wires the CPU, MMU, interrupt controller and PPU into the
// host-facing API described in spec §6: power-on from a cartridge image,
// stepping one frame at a time, and shutdown. Boot ROM handling beyond
// installing the overlay, ROM loading from disk, window/renderer glue and
// any debugger REPL are external collaborators left to cmd/dmgo.
package gameboy

import (
	"log/slog"

	"github.com/hoferm/dmgo/internal/addr"
	"github.com/hoferm/dmgo/internal/clock"
	"github.com/hoferm/dmgo/internal/cpu"
	"github.com/hoferm/dmgo/internal/interrupt"
	"github.com/hoferm/dmgo/internal/memory"
	"github.com/hoferm/dmgo/internal/video"
)

// FrameResult reports what happened during one StepFrame call (spec §6).
type FrameResult struct {
	FrameProduced bool
	SerialEvent   bool
	Breakpoint    bool
	Err           error
}

// GameBoy is the assembled emulator core: CPU, MMU, interrupt controller and
// PPU sharing one clock.
type GameBoy struct {
	mmu  *memory.MMU
	cpu  *cpu.CPU
	ppu  *video.PPU
	clk  *clock.Clock
	cart *memory.Cartridge

	serialEventThisFrame bool
	breakpoints          map[uint16]bool
}

// PowerOn validates the cartridge image, builds the memory map and MBC,
// and constructs a CPU either in the post-boot-ROM register state or, if a
// boot ROM image is supplied, in the all-zero reset state with the boot ROM
// overlay installed (spec §6).
func PowerOn(cartridge []byte, bootROM []byte) (*GameBoy, error) {
	cart, err := memory.NewCartridge(cartridge)
	if err != nil {
		return nil, err
	}

	mmu := memory.NewWithCartridge(cart)
	intc := interrupt.New(mmu)
	clk := &clock.Clock{}

	var c *cpu.CPU
	if len(bootROM) > 0 {
		mmu.SetBootROM(bootROM)
		c = cpu.NewAtResetState(mmu, intc, clk)
	} else {
		c = cpu.New(mmu, intc, clk)
		setPostBootIORegisters(mmu)
	}

	ppu := video.NewPPU(mmu)
	mmu.SetOAMGate(ppu)

	g := &GameBoy{
		mmu:         mmu,
		cpu:         c,
		ppu:         ppu,
		clk:         clk,
		cart:        cart,
		breakpoints: make(map[uint16]bool),
	}

	mmu.SetInterruptRequester(func(source addr.Interrupt) {
		mmu.RequestInterrupt(source)
		if source == addr.SerialInterrupt {
			g.serialEventThisFrame = true
		}
	})

	slog.Info("power on", "title", cart.Title(), "boot_rom", len(bootROM) > 0)
	return g, nil
}

// setPostBootIORegisters mirrors the values the real boot ROM leaves behind
// in the LCD/joypad registers just before jumping to 0x0100, for the common
// case of skipping the boot ROM entirely (spec §6). The timer registers
// (DIV, TIMA, TMA, TAC) are left at the zero values memory.New gives them.
func setPostBootIORegisters(mmu *memory.MMU) {
	mmu.Write(addr.LCDC, 0x91)
	mmu.Write(addr.BGP, 0xFC)
	mmu.Write(addr.OBP0, 0xFF)
	mmu.Write(addr.OBP1, 0xFF)
	mmu.Write(addr.P1, 0xCF)
}

// Title returns the cartridge's header title string.
func (g *GameBoy) Title() string {
	return g.cart.Title()
}

// SetBreakpoint arranges for StepFrame to stop early, with Breakpoint set in
// its result, the next time PC reaches pc. Breakpoints are checked against
// the PC left after each executed instruction, so a breakpoint on the PC the
// CPU is already at does not fire until execution comes back to it. The
// debugger REPL that decides where to set these lives outside this package.
func (g *GameBoy) SetBreakpoint(pc uint16) {
	g.breakpoints[pc] = true
}

// ClearBreakpoint removes a previously set breakpoint.
func (g *GameBoy) ClearBreakpoint(pc uint16) {
	delete(g.breakpoints, pc)
}

// StepFrame runs the CPU, letting the timer and PPU catch up to its clock
// after every instruction (timer before PPU within each catch-up, per spec
// §5), until a full frame has been composited or a breakpoint is hit.
func (g *GameBoy) StepFrame(framebufferOut *[video.Size]byte, inputState uint8) FrameResult {
	g.mmu.SetButtonState(inputState)
	g.serialEventThisFrame = false

	frame := video.NewFrameBuffer()
	elapsed := 0

	// When the LCD is off the PPU's mode FSM is frozen and never reports
	// FrameReady, so pacing falls back to the fixed 70,224 T-cycle frame
	// period (spec §4.5) and the host gets a blank frame.
	const tCyclesPerFrame = 70224

	for {
		cycles, err := g.cpu.Step()
		if err != nil {
			slog.Error("cpu fault", "pc", g.cpu.PC(), "error", err)
			return FrameResult{Err: err}
		}

		advance := g.ppu.Advance(cycles, frame)
		elapsed += cycles

		if g.breakpoints[g.cpu.PC()] {
			return FrameResult{Breakpoint: true}
		}

		if advance.Kind == video.FrameReady {
			frame.CopyTo(framebufferOut)
			return FrameResult{FrameProduced: true, SerialEvent: g.serialEventThisFrame}
		}

		if advance.Kind == video.LcdOff && elapsed >= tCyclesPerFrame {
			frame.CopyTo(framebufferOut)
			return FrameResult{SerialEvent: g.serialEventThisFrame}
		}
	}
}

// Shutdown releases the emulator's resources. There is nothing to flush:
// no save-state, no open handles (spec Non-goals).
func (g *GameBoy) Shutdown() {
	slog.Info("shutdown", "cycles", g.clk.Now())
}
