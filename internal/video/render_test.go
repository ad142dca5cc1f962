package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hoferm/dmgo/internal/addr"
)

// fullBus is a fake PPU Bus backed by a flat 64KB array, needed for render
// tests that write tile data and tile maps into VRAM (outside the I/O
// register window fakePPUBus covers).
type fullBus struct {
	mem       [0x10000]byte
	requested []addr.Interrupt
}

func newFullBus() *fullBus {
	b := &fullBus{}
	b.mem[addr.LCDC] = 0x91 // LCD on, BG+window enabled, unsigned tile addressing
	b.mem[addr.BGP] = 0xE4  // identity palette: 11 10 01 00
	b.mem[addr.OBP0] = 0xE4
	b.mem[addr.OBP1] = 0xE4
	return b
}

func (b *fullBus) Read(address uint16) byte     { return b.mem[address] }
func (b *fullBus) Write(address uint16, v byte) { b.mem[address] = v }
func (b *fullBus) RequestInterrupt(source addr.Interrupt) {
	b.requested = append(b.requested, source)
}
func (b *fullBus) SetLY(line uint8)         { b.mem[addr.LY] = line }
func (b *fullBus) SetSTATMode(mode uint8)   { b.mem[addr.STAT] = (b.mem[addr.STAT] &^ 0x03) | (mode & 0x03) }
func (b *fullBus) SetSTATCoincidence(set bool) {
	if set {
		b.mem[addr.STAT] |= 0x04
	} else {
		b.mem[addr.STAT] &^= 0x04
	}
}

// setSolidTile writes an 8x8 tile (all rows identical) at the given tile
// index in the unsigned tile data block (0x8000-based), setting both
// bitplanes so that every pixel has the given color index (0..3).
func setSolidTile(b *fullBus, tileIndex uint8, colorIndex byte) {
	base := addr.TileData0 + uint16(tileIndex)*16
	var low, high byte
	switch colorIndex {
	case 1:
		low = 0xFF
	case 2:
		high = 0xFF
	case 3:
		low, high = 0xFF, 0xFF
	}
	for row := uint16(0); row < 8; row++ {
		b.mem[base+row*2] = low
		b.mem[base+row*2+1] = high
	}
}

func TestRenderBackgroundSolidColor(t *testing.T) {
	bus := newFullBus()
	setSolidTile(bus, 0, 3)
	// Tile map entry 0 (tile 0,0) already defaults to tile index 0.

	p := NewPPU(bus)
	p.line = 0
	out := NewFrameBuffer()

	p.renderScanline(out)

	assert.Equal(t, byte(3), out.Get(0, 0))
	assert.Equal(t, byte(3), out.Get(7, 0))
}

func TestRenderBackgroundScrolling(t *testing.T) {
	bus := newFullBus()
	setSolidTile(bus, 0, 0)
	setSolidTile(bus, 1, 2)
	bus.mem[addr.TileMap0+1] = 1 // second tile column is tile 1

	bus.mem[addr.SCX] = 8 // scroll right by one tile, so screen x=0 shows tile map column 1

	p := NewPPU(bus)
	p.line = 0
	out := NewFrameBuffer()
	p.renderScanline(out)

	assert.Equal(t, byte(2), out.Get(0, 0), "scrolled view should show the second tile's color")
}

func TestRenderWindowOverridesBackground(t *testing.T) {
	bus := newFullBus()
	setSolidTile(bus, 0, 1) // background tile (default map entry 0)
	setSolidTile(bus, 2, 3)
	bus.mem[addr.TileMap1] = 2 // window tile map entry 0 -> tile 2
	bus.mem[addr.LCDC] |= lcdcWindowEnable | lcdcWindowTileMap
	bus.mem[addr.WY] = 0
	bus.mem[addr.WX] = 7 // window starts at screen x=0

	p := NewPPU(bus)
	p.line = 0
	out := NewFrameBuffer()
	p.renderScanline(out)

	assert.Equal(t, byte(3), out.Get(0, 0), "window pixel replaces background")
}

func TestRenderWindowNotYetVisibleLeavesBackground(t *testing.T) {
	bus := newFullBus()
	setSolidTile(bus, 0, 1)
	bus.mem[addr.LCDC] |= lcdcWindowEnable
	bus.mem[addr.WY] = 50 // window starts below line 0

	p := NewPPU(bus)
	p.line = 0
	out := NewFrameBuffer()
	p.renderScanline(out)

	assert.Equal(t, byte(1), out.Get(0, 0), "window not yet visible, background shows through")
}

func TestRenderSpriteTransparencyAndPriority(t *testing.T) {
	bus := newFullBus()
	setSolidTile(bus, 0, 1) // background color 1 (non-zero, so BG-priority sprites are hidden)
	bus.mem[addr.LCDC] |= lcdcOBJEnable

	// Sprite 0: at screen x=0 (OAM X=8), color 2, no BG priority.
	bus.mem[addr.OAMStart+0] = 16 // Y: on-screen y=0
	bus.mem[addr.OAMStart+1] = 8  // X: screen x=0
	bus.mem[addr.OAMStart+2] = 1  // tile index 1
	bus.mem[addr.OAMStart+3] = 0  // attrs: no flip, OBP0, no BG priority
	setSolidTile(bus, 1, 2)

	p := NewPPU(bus)
	p.line = 0
	out := NewFrameBuffer()
	p.renderScanline(out)

	assert.Equal(t, byte(2), out.Get(0, 0), "opaque sprite pixel draws over background")
}

func TestRenderSpriteBGPriorityHidesBehindNonZeroBG(t *testing.T) {
	bus := newFullBus()
	setSolidTile(bus, 0, 1) // non-zero background
	bus.mem[addr.LCDC] |= lcdcOBJEnable

	bus.mem[addr.OAMStart+0] = 16
	bus.mem[addr.OAMStart+1] = 8
	bus.mem[addr.OAMStart+2] = 1
	bus.mem[addr.OAMStart+3] = 0x80 // BG-over-OBJ priority set
	setSolidTile(bus, 1, 2)

	p := NewPPU(bus)
	p.line = 0
	out := NewFrameBuffer()
	p.renderScanline(out)

	assert.Equal(t, byte(1), out.Get(0, 0), "BG-priority sprite stays hidden behind non-zero background")
}

func TestPixelColorIndexExtractsBitplanes(t *testing.T) {
	// low=10000000, high=10000000 -> leftmost pixel is color 3, rest 0.
	low := byte(0x80)
	high := byte(0x80)

	assert.Equal(t, byte(3), pixelColorIndex(low, high, 0))
	assert.Equal(t, byte(0), pixelColorIndex(low, high, 1))
}

func TestApplyPaletteIdentity(t *testing.T) {
	// 0xE4 = 11 10 01 00, the identity mapping color index -> itself.
	assert.Equal(t, byte(0), applyPalette(0xE4, 0))
	assert.Equal(t, byte(1), applyPalette(0xE4, 1))
	assert.Equal(t, byte(2), applyPalette(0xE4, 2))
	assert.Equal(t, byte(3), applyPalette(0xE4, 3))
}
