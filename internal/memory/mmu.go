// Package memory implements the Game Boy's 16-bit memory-mapped address
// space: cartridge ROM/RAM banking, VRAM, work RAM, OAM, I/O registers, high
// RAM, and the MBC1 bank-switching side effects of writes to ROM space.
package memory

import (
	"fmt"

	"github.com/hoferm/dmgo/internal/addr"
	"github.com/hoferm/dmgo/internal/bit"
)

type region uint8

const (
	regionROM region = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnusable
	regionIO
	regionHRAM
)

// OAMGate lets the MMU ask the PPU whether OAM access should currently be
// masked (PPU mode 2 or 3, spec §4.2). It is wired up after both the MMU and
// the PPU are constructed, to avoid memory depending on video.
type OAMGate interface {
	OAMBlocked() bool
}

// JoypadKey is one of the eight physical buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// MMU is the Game Boy's address-space dispatcher. Read and Write never tick
// the clock themselves; the CPU ticks around each access (spec §4.2).
type MMU struct {
	mbc MBC

	vram   [0x2000]byte
	wram   [0x2000]byte
	oam    [0xA0]byte
	io     [0x80]byte
	hram   [0x7F]byte
	ie     byte
	regMap [256]region

	bootROM    []byte
	bootLocked bool
	oamGate    OAMGate
	timer      *Timer
	serial     SerialPort

	joypadButtons uint8
	joypadDpad    uint8
	buttonState   uint8 // last host-facing bitmap applied via SetButtonState

	onRequestInterrupt func(addr.Interrupt)
}

// New creates an MMU with no cartridge loaded: every ROM-space access
// returns 0xFF, matching "no cartridge in the slot".
func New() *MMU {
	m := &MMU{
		joypadButtons: 0x0F,
		joypadDpad:    0x0F,
	}
	m.timer = NewTimer(func() {
		if m.onRequestInterrupt != nil {
			m.onRequestInterrupt(addr.TimerInterrupt)
		}
	})
	m.serial = newLoopbackSerial(func() {
		if m.onRequestInterrupt != nil {
			m.onRequestInterrupt(addr.SerialInterrupt)
		}
	})
	m.initRegionMap()
	return m
}

// NewWithCartridge creates an MMU backed by the given cartridge's MBC.
func NewWithCartridge(cart *Cartridge) *MMU {
	m := New()
	m.mbc = cart.NewMBCController()
	return m
}

// SetBootROM installs an optional 256-byte boot ROM overlay (spec §6).
func (m *MMU) SetBootROM(data []byte) {
	m.bootROM = data
}

// SetOAMGate wires the PPU's mode-gating into OAM access control.
func (m *MMU) SetOAMGate(gate OAMGate) {
	m.oamGate = gate
}

// SetInterruptRequester wires the callback used by RequestInterrupt.
func (m *MMU) SetInterruptRequester(f func(addr.Interrupt)) {
	m.onRequestInterrupt = f
}

func (m *MMU) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		m.regMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regMap[i] = regionEcho
	}
	m.regMap[0xFE] = regionOAM
	m.regMap[0xFF] = regionIO
}

// Tick advances any memory-resident I/O that runs off the shared clock:
// the timer and the serial port.
func (m *MMU) Tick(tCycles int) {
	m.timer.Tick(tCycles)
	m.serial.Tick(tCycles)
}

// RequestInterrupt sets the IF bit for the given source.
func (m *MMU) RequestInterrupt(source addr.Interrupt) {
	m.io[addr.IF-0xFF00] = m.io[addr.IF-0xFF00] | uint8(source)
}

func (m *MMU) Read(address uint16) byte {
	switch m.regMap[address>>8] {
	case regionROM:
		if !m.bootLocked && address < 0x100 && m.bootROM != nil {
			return m.bootROM[address]
		}
		if m.mbc == nil {
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionVRAM:
		return m.vram[address-0x8000]
	case regionExtRAM:
		if m.mbc == nil {
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionWRAM:
		return m.wram[address-0xC000]
	case regionEcho:
		return m.wram[address-0xE000]
	case regionOAM:
		if address > addr.OAMEnd {
			return 0xFF // unusable region 0xFEA0-0xFEFF
		}
		if m.oamGate != nil && m.oamGate.OAMBlocked() {
			return 0xFF
		}
		return m.oam[address-addr.OAMStart]
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("attempted read at unmapped address: 0x%04X", address))
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regMap[address>>8] {
	case regionROM:
		if m.mbc != nil {
			m.mbc.Write(address, value)
		}
	case regionVRAM:
		m.vram[address-0x8000] = value
	case regionExtRAM:
		if m.mbc != nil {
			m.mbc.Write(address, value)
		}
	case regionWRAM:
		m.wram[address-0xC000] = value
	case regionEcho:
		m.wram[address-0xE000] = value
	case regionOAM:
		if address > addr.OAMEnd {
			return // unusable region, write discarded
		}
		if m.oamGate != nil && m.oamGate.OAMBlocked() {
			return
		}
		m.oam[address-addr.OAMStart] = value
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("attempted write at unmapped address: 0x%04X", address))
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch address {
	case addr.P1:
		return m.readJoypad()
	case addr.SB, addr.SC:
		return m.serial.Read(address)
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		return m.timer.Read(address)
	case addr.IF:
		return m.io[address-0xFF00] | 0xE0
	case addr.IE:
		return m.ie | 0xE0
	case addr.LY:
		return m.io[address-0xFF00]
	case addr.STAT:
		return m.io[address-0xFF00] | 0x80
	default:
		if address >= 0xFF80 {
			return m.hram[address-0xFF80]
		}
		return m.io[address-0xFF00]
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch address {
	case addr.P1:
		m.io[address-0xFF00] = value & 0x30
	case addr.SB, addr.SC:
		m.serial.Write(address, value)
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		m.timer.Write(address, value)
	case addr.IF:
		m.io[address-0xFF00] = value & 0x1F
	case addr.IE:
		m.ie = value & 0x1F
	case addr.LY:
		m.io[address-0xFF00] = 0 // writes to LY always reset it
	case addr.STAT:
		// Only bits 6..3 (LYC/mode interrupt enables) are writable from the
		// CPU side; mode (1..0) and coincidence (2) are owned by the PPU.
		current := m.io[address-0xFF00]
		m.io[address-0xFF00] = (current & 0x07) | (value & 0x78)
	case addr.DMA:
		m.runOAMDMA(value)
		m.io[address-0xFF00] = value
	case addr.BootLock:
		if value&0x01 != 0 {
			m.bootLocked = true
		}
	default:
		if address >= 0xFF80 {
			m.hram[address-0xFF80] = value
			return
		}
		m.io[address-0xFF00] = value
	}
}

// runOAMDMA copies 160 bytes from src<<8 into OAM. Modelled as instantaneous
// per spec §4.2.
func (m *MMU) runOAMDMA(page byte) {
	src := uint16(page) << 8
	for i := uint16(0); i < 160; i++ {
		m.oam[i] = m.Read(src + i)
	}
}

// --- PPU-privileged accessors, bypassing the CPU-facing write masks above ---

// SetLY sets the current scanline, a privilege reserved for the PPU.
func (m *MMU) SetLY(line uint8) {
	m.io[addr.LY-0xFF00] = line
}

// SetSTATMode sets STAT bits 1..0, a privilege reserved for the PPU.
func (m *MMU) SetSTATMode(mode uint8) {
	current := m.io[addr.STAT-0xFF00]
	m.io[addr.STAT-0xFF00] = (current &^ 0x03) | (mode & 0x03)
}

// SetSTATCoincidence sets or clears STAT bit 2, a privilege reserved for the
// PPU's LY==LYC comparison.
func (m *MMU) SetSTATCoincidence(set bool) {
	current := m.io[addr.STAT-0xFF00]
	if set {
		m.io[addr.STAT-0xFF00] = bit.Set(2, current)
	} else {
		m.io[addr.STAT-0xFF00] = bit.Reset(2, current)
	}
}

// --- Joypad ---

func (m *MMU) readJoypad() byte {
	selector := m.io[addr.P1-0xFF00]
	result := uint8(0xC0) | (selector & 0x30)

	selectDpad := !bit.IsSet(4, selector)
	selectButtons := !bit.IsSet(5, selector)

	switch {
	case selectButtons && selectDpad:
		result |= m.joypadButtons & m.joypadDpad & 0x0F
	case selectButtons:
		result |= m.joypadButtons & 0x0F
	case selectDpad:
		result |= m.joypadDpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// SetButtonState applies the 8-bit joypad bitmap from spec §6's input_state
// (Down/Up/Left/Right/Start/Select/B/A), requesting the Joypad interrupt on
// any button transitioning from released to pressed.
func (m *MMU) SetButtonState(state uint8) {
	oldButtons := m.joypadButtons
	oldDpad := m.joypadDpad

	// bit layout: 0=Down 1=Up 2=Left 3=Right 4=Start 5=Select 6=B 7=A,
	// 1 = pressed in the host-facing bitmap, but the hardware register is
	// active-low, so invert into the dpad/button nibbles.
	dpad := uint8(0x0F)
	if bit.IsSet(3, state) {
		dpad = bit.Reset(0, dpad) // Right
	}
	if bit.IsSet(2, state) {
		dpad = bit.Reset(1, dpad) // Left
	}
	if bit.IsSet(1, state) {
		dpad = bit.Reset(2, dpad) // Up
	}
	if bit.IsSet(0, state) {
		dpad = bit.Reset(3, dpad) // Down
	}

	buttons := uint8(0x0F)
	if bit.IsSet(7, state) {
		buttons = bit.Reset(0, buttons) // A
	}
	if bit.IsSet(6, state) {
		buttons = bit.Reset(1, buttons) // B
	}
	if bit.IsSet(5, state) {
		buttons = bit.Reset(2, buttons) // Select
	}
	if bit.IsSet(4, state) {
		buttons = bit.Reset(3, buttons) // Start
	}

	m.joypadDpad = dpad
	m.joypadButtons = buttons
	m.buttonState = state

	pressedTransition := (oldButtons & ^m.joypadButtons) | (oldDpad & ^m.joypadDpad)
	if pressedTransition&0x0F != 0 {
		m.RequestInterrupt(addr.JoypadInterrupt)
	}
}

// HandleKeyPress/HandleKeyRelease give callers (tests, the terminal
// presenter) a discrete alternative to SetButtonState.
func (m *MMU) HandleKeyPress(key JoypadKey) {
	m.SetButtonState(bit.Set(keyBit(key), m.buttonState))
}

func (m *MMU) HandleKeyRelease(key JoypadKey) {
	m.SetButtonState(bit.Reset(keyBit(key), m.buttonState))
}

func keyBit(key JoypadKey) uint8 {
	switch key {
	case JoypadDown:
		return 0
	case JoypadUp:
		return 1
	case JoypadLeft:
		return 2
	case JoypadRight:
		return 3
	case JoypadStart:
		return 4
	case JoypadSelect:
		return 5
	case JoypadB:
		return 6
	case JoypadA:
		return 7
	default:
		return 0
	}
}
