package video

import (
	"github.com/hoferm/dmgo/internal/addr"
	"github.com/hoferm/dmgo/internal/bit"
)

// Mode is one of the four PPU scanline stages; values match STAT bits 1..0.
type Mode uint8

const (
	ModeHBlank        Mode = 0
	ModeVBlank        Mode = 1
	ModeOAMSearch     Mode = 2
	ModePixelTransfer Mode = 3
)

// Mode durations in T-cycles, spec §4.5.
const (
	oamSearchCycles     = 80
	pixelTransferCycles = 172
	hblankCycles        = 204
	scanlineCycles      = oamSearchCycles + pixelTransferCycles + hblankCycles // 456
	vblankLines         = 10
)

// Result is what Advance reports happened during the elapsed cycles.
type Result uint8

const (
	NoChange Result = iota
	ScanlineReady
	FrameReady
	LcdOff
)

// AdvanceResult carries a Result plus, for ScanlineReady, which line
// completed.
type AdvanceResult struct {
	Kind Result
	Line int
}

// Bus is the memory surface the PPU needs: register reads/writes and
// interrupt requests, satisfied by *memory.MMU.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	RequestInterrupt(source addr.Interrupt)
	SetLY(line uint8)
	SetSTATMode(mode uint8)
	SetSTATCoincidence(set bool)
}

// PPU implements the four-mode scanline state machine and the per-pixel
// background/window/sprite compositor described in spec §4.5.
type PPU struct {
	bus Bus

	mode       Mode
	line       int
	modeCycles int
	vblankLine int
	windowLine int

	bgColorIndex [Width]byte // pre-palette BG/window color index, for sprite priority
	lastStatIRQ  bool
}

// NewPPU creates a PPU bound to the given register/interrupt bus, starting
// in V-blank at line 144 (matching a just-reset LCD about to start mode 2
// at line 0, same as the teacher's initial state).
func NewPPU(bus Bus) *PPU {
	p := &PPU{bus: bus, mode: ModeVBlank, line: 144}
	bus.SetLY(144)
	bus.SetSTATMode(uint8(ModeVBlank))
	return p
}

// OAMBlocked implements memory.OAMGate: OAM is inaccessible to the CPU
// during OAM-search and pixel-transfer (spec §4.2). With the LCD off the
// PPU isn't in any active mode, so OAM stays fully accessible — games rely
// on this to bulk-load OAM while the screen is disabled.
func (p *PPU) OAMBlocked() bool {
	if !p.lcdEnabled() {
		return false
	}
	return p.mode == ModeOAMSearch || p.mode == ModePixelTransfer
}

func (p *PPU) lcdEnabled() bool {
	return bit.IsSet(7, p.bus.Read(addr.LCDC))
}

// Advance runs the PPU for elapsed T-cycles, compositing completed
// scanlines into out and reporting what happened.
func (p *PPU) Advance(tCycles int, out *FrameBuffer) AdvanceResult {
	if !p.lcdEnabled() {
		p.mode = ModeOAMSearch
		p.line = 0
		p.modeCycles = 0
		p.windowLine = 0
		p.bus.SetLY(0)
		p.bus.SetSTATMode(uint8(ModeHBlank))
		p.updateSTATInterrupt()
		return AdvanceResult{Kind: LcdOff}
	}

	result := AdvanceResult{Kind: NoChange}
	p.modeCycles += tCycles

	switch p.mode {
	case ModeOAMSearch:
		if p.modeCycles >= oamSearchCycles {
			p.modeCycles -= oamSearchCycles
			p.setMode(ModePixelTransfer)
		}
	case ModePixelTransfer:
		if p.modeCycles >= pixelTransferCycles {
			p.modeCycles -= pixelTransferCycles
			p.renderScanline(out)
			p.setMode(ModeHBlank)
			result = AdvanceResult{Kind: ScanlineReady, Line: p.line}
		}
	case ModeHBlank:
		if p.modeCycles >= hblankCycles {
			p.modeCycles -= hblankCycles
			p.setLine(p.line + 1)
			if p.line == 144 {
				p.setMode(ModeVBlank)
				p.vblankLine = 0
				p.bus.RequestInterrupt(addr.VBlankInterrupt)
				result = AdvanceResult{Kind: FrameReady}
			} else {
				p.setMode(ModeOAMSearch)
			}
		}
	case ModeVBlank:
		if p.modeCycles >= scanlineCycles {
			p.modeCycles -= scanlineCycles
			p.vblankLine++
			if p.vblankLine >= vblankLines {
				p.windowLine = 0
				p.setLine(0)
				p.setMode(ModeOAMSearch)
			} else {
				p.setLine(p.line + 1)
			}
		}
	}

	p.updateSTATInterrupt()
	return result
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode
	p.bus.SetSTATMode(uint8(mode))
}

func (p *PPU) setLine(line int) {
	p.line = line
	p.bus.SetLY(uint8(line))

	ly := p.bus.Read(addr.LY)
	lyc := p.bus.Read(addr.LYC)
	p.bus.SetSTATCoincidence(ly == lyc)
}

// updateSTATInterrupt requests LCDSTATInterrupt on the rising edge of the OR
// of the four STAT-enabled sources (spec §4.5).
func (p *PPU) updateSTATInterrupt() {
	stat := p.bus.Read(addr.STAT)

	level := (p.mode == ModeHBlank && bit.IsSet(3, stat)) ||
		(p.mode == ModeVBlank && bit.IsSet(4, stat)) ||
		(p.mode == ModeOAMSearch && bit.IsSet(5, stat)) ||
		(bit.IsSet(2, stat) && bit.IsSet(6, stat))

	if level && !p.lastStatIRQ {
		p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
	}
	p.lastStatIRQ = level
}
