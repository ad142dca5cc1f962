package video

import (
	"sort"

	"github.com/hoferm/dmgo/internal/addr"
)

// Sprite is one parsed OAM entry (spec §3), plus its OAM index so render
// order can be resolved by (x, oamIndex) once selected for a scanline.
type Sprite struct {
	Y, X      uint8
	TileIndex uint8
	Attrs     uint8
	OAMIndex  int
}

// BGPriority reports the BG-over-OBJ attribute bit (bit 7).
func (s Sprite) BGPriority() bool { return s.Attrs&0x80 != 0 }

// FlipY reports the Y-flip attribute bit (bit 6).
func (s Sprite) FlipY() bool { return s.Attrs&0x40 != 0 }

// FlipX reports the X-flip attribute bit (bit 5).
func (s Sprite) FlipX() bool { return s.Attrs&0x20 != 0 }

// UsesOBP1 reports the palette-select attribute bit (bit 4).
func (s Sprite) UsesOBP1() bool { return s.Attrs&0x10 != 0 }

// oamBus is the minimal read surface the OAM scanner needs.
type oamBus interface {
	Read(address uint16) byte
}

// scanOAM performs the OAM-search (mode 2) scan for scanline ly: it walks
// the 40 entries in OAM order, keeps the first 10 whose Y range covers ly,
// then stable-sorts the retained set by (x, oamIndex) ascending for render
// priority (spec §4.5).
func scanOAM(bus oamBus, ly int, spriteHeight int) []Sprite {
	visible := make([]Sprite, 0, 10)

	for i := 0; i < 40; i++ {
		base := addr.OAMStart + uint16(i*4)
		y := bus.Read(base)

		if ly+16 < int(y) || ly+16 >= int(y)+spriteHeight {
			continue
		}

		visible = append(visible, Sprite{
			Y:         y,
			X:         bus.Read(base + 1),
			TileIndex: bus.Read(base + 2),
			Attrs:     bus.Read(base + 3),
			OAMIndex:  i,
		})

		if len(visible) == 10 {
			break
		}
	}

	sort.SliceStable(visible, func(a, b int) bool {
		if visible[a].X != visible[b].X {
			return visible[a].X < visible[b].X
		}
		return visible[a].OAMIndex < visible[b].OAMIndex
	})

	return visible
}
