package video

import "github.com/hoferm/dmgo/internal/addr"

// LCDC bits.
const (
	lcdcBGWindowEnable  = 1 << 0
	lcdcOBJEnable       = 1 << 1
	lcdcOBJSize         = 1 << 2
	lcdcBGTileMap       = 1 << 3
	lcdcBGWindowTileSet = 1 << 4
	lcdcWindowEnable    = 1 << 5
	lcdcWindowTileMap   = 1 << 6
)

// renderScanline composites one full line of background, window and sprite
// pixels into the host framebuffer, applying BGP/OBP0/OBP1 palettes (spec
// §4.5). It runs once, at the end of pixel-transfer, rather than pixel by
// pixel: this core does not model mid-scanline FIFO effects.
func (p *PPU) renderScanline(out *FrameBuffer) {
	lcdc := p.bus.Read(addr.LCDC)
	y := p.line

	for x := 0; x < Width; x++ {
		p.bgColorIndex[x] = 0
	}

	bgEnabled := lcdc&lcdcBGWindowEnable != 0
	if bgEnabled {
		p.renderBackground(lcdc, y)
	}

	windowDrawn := false
	if bgEnabled && lcdc&lcdcWindowEnable != 0 {
		windowDrawn = p.renderWindow(lcdc, y)
	}

	bgp := p.bus.Read(addr.BGP)
	for x := 0; x < Width; x++ {
		out.Set(x, y, applyPalette(bgp, p.bgColorIndex[x]))
	}

	if windowDrawn {
		p.windowLine++
	}

	if lcdc&lcdcOBJEnable != 0 {
		p.renderSprites(lcdc, y, out)
	}
}

func (p *PPU) renderBackground(lcdc uint8, y int) {
	scy := p.bus.Read(addr.SCY)
	scx := p.bus.Read(addr.SCX)
	mapBase := addr.TileMap0
	if lcdc&lcdcBGTileMap != 0 {
		mapBase = addr.TileMap1
	}

	bgY := int(scy) + y
	tileRow := (bgY / 8) % 32
	fineY := bgY % 8

	for x := 0; x < Width; x++ {
		bgX := (int(scx) + x) % 256
		tileCol := bgX / 8
		fineX := bgX % 8

		tileIndex := p.bus.Read(mapBase + uint16(tileRow*32+tileCol))
		low, high := p.fetchTileRow(lcdc, tileIndex, fineY)
		p.bgColorIndex[x] = pixelColorIndex(low, high, fineX)
	}
}

// renderWindow draws the window over the already-rendered background pixels
// for this line, if the window is visible on it. Returns whether the window
// drew anything, so the caller only advances its internal line counter on
// lines the window actually appears on.
func (p *PPU) renderWindow(lcdc uint8, y int) bool {
	wy := int(p.bus.Read(addr.WY))
	wx := int(p.bus.Read(addr.WX)) - 7

	if y < wy {
		return false
	}

	mapBase := addr.TileMap0
	if lcdc&lcdcWindowTileMap != 0 {
		mapBase = addr.TileMap1
	}

	tileRow := p.windowLine / 8
	fineY := p.windowLine % 8
	drew := false

	for x := 0; x < Width; x++ {
		winX := x - wx
		if winX < 0 {
			continue
		}
		drew = true

		tileCol := winX / 8
		fineX := winX % 8

		tileIndex := p.bus.Read(mapBase + uint16(tileRow*32+(tileCol%32)))
		low, high := p.fetchTileRow(lcdc, tileIndex, fineY)
		p.bgColorIndex[x] = pixelColorIndex(low, high, fineX)
	}

	return drew
}

func (p *PPU) renderSprites(lcdc uint8, y int, out *FrameBuffer) {
	height := 8
	if lcdc&lcdcOBJSize != 0 {
		height = 16
	}

	sprites := scanOAM(p.bus, y, height)
	obp0 := p.bus.Read(addr.OBP0)
	obp1 := p.bus.Read(addr.OBP1)

	// Draw in reverse priority order so the highest-priority sprite (lowest
	// x, then lowest OAM index) ends up on top when they overlap.
	for i := len(sprites) - 1; i >= 0; i-- {
		s := sprites[i]
		screenX := int(s.X) - 8
		if screenX <= -8 || screenX >= Width {
			continue
		}

		line := y + 16 - int(s.Y)
		if s.FlipY() {
			line = height - 1 - line
		}

		tileIndex := s.TileIndex
		if height == 16 {
			tileIndex &^= 0x01
			if line >= 8 {
				tileIndex |= 0x01
				line -= 8
			}
		}

		low := p.bus.Read(addr.TileData0 + uint16(tileIndex)*16 + uint16(line)*2)
		high := p.bus.Read(addr.TileData0 + uint16(tileIndex)*16 + uint16(line)*2 + 1)

		palette := obp0
		if s.UsesOBP1() {
			palette = obp1
		}

		for fineX := 0; fineX < 8; fineX++ {
			px := screenX + fineX
			if px < 0 || px >= Width {
				continue
			}

			sampleX := fineX
			if s.FlipX() {
				sampleX = 7 - fineX
			}

			colorIndex := pixelColorIndex(low, high, sampleX)
			if colorIndex == 0 {
				continue // transparent
			}
			if s.BGPriority() && p.bgColorIndex[px] != 0 {
				continue // BG-over-OBJ priority
			}

			out.Set(px, y, applyPalette(palette, colorIndex))
		}
	}
}

// fetchTileRow reads the two bitplane bytes for one row of a background or
// window tile, resolving signed vs. unsigned tile addressing per LCDC bit 4.
func (p *PPU) fetchTileRow(lcdc uint8, tileIndex uint8, fineY int) (low, high uint8) {
	var base uint16
	if lcdc&lcdcBGWindowTileSet != 0 {
		base = addr.TileData0 + uint16(tileIndex)*16
	} else {
		base = uint16(int(addr.TileData2) + int(int8(tileIndex))*16)
	}

	low = p.bus.Read(base + uint16(fineY)*2)
	high = p.bus.Read(base + uint16(fineY)*2 + 1)
	return low, high
}

// pixelColorIndex extracts the 2-bit color index for bit position x (0 =
// leftmost) from a tile row's two bitplane bytes.
func pixelColorIndex(low, high uint8, x int) byte {
	shift := 7 - x
	lo := (low >> shift) & 1
	hi := (high >> shift) & 1
	return (hi << 1) | lo
}

// applyPalette maps a 2-bit color index through a palette register (BGP,
// OBP0 or OBP1) to the final 2-bit shade.
func applyPalette(palette uint8, colorIndex byte) byte {
	return (palette >> (colorIndex * 2)) & 0x03
}
