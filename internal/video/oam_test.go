package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hoferm/dmgo/internal/addr"
)

type fakeOAMBus struct {
	oam [0xA0]byte
}

func (b *fakeOAMBus) Read(address uint16) byte {
	if address >= addr.OAMStart && address <= addr.OAMEnd {
		return b.oam[address-addr.OAMStart]
	}
	return 0xFF
}

func (b *fakeOAMBus) setSprite(index int, y, x, tile, attrs byte) {
	base := index * 4
	b.oam[base] = y
	b.oam[base+1] = x
	b.oam[base+2] = tile
	b.oam[base+3] = attrs
}

func TestScanOAMLimitsToTenSprites(t *testing.T) {
	bus := &fakeOAMBus{}
	for i := 0; i < 40; i++ {
		bus.setSprite(i, 16, byte(i), byte(i), 0)
	}

	sprites := scanOAM(bus, 0, 8)
	assert.Len(t, sprites, 10)
}

func TestScanOAMFiltersByYRange(t *testing.T) {
	bus := &fakeOAMBus{}
	bus.setSprite(0, 16, 10, 1, 0) // covers ly=0 (y=16 -> screen y 0..7 for 8px sprite)
	bus.setSprite(1, 32, 20, 2, 0) // covers ly=16, not ly=0

	sprites := scanOAM(bus, 0, 8)
	assert.Len(t, sprites, 1)
	assert.Equal(t, byte(1), sprites[0].TileIndex)
}

func TestScanOAMSortsByXThenIndex(t *testing.T) {
	bus := &fakeOAMBus{}
	bus.setSprite(0, 16, 50, 0, 0)
	bus.setSprite(1, 16, 10, 0, 0)
	bus.setSprite(2, 16, 10, 0, 0)

	sprites := scanOAM(bus, 0, 8)
	assert.Equal(t, 1, sprites[0].OAMIndex, "equal X breaks tie by OAM index")
	assert.Equal(t, 2, sprites[1].OAMIndex)
	assert.Equal(t, 0, sprites[2].OAMIndex)
}

func TestSpriteAttributeBits(t *testing.T) {
	s := Sprite{Attrs: 0xF0}
	assert.True(t, s.BGPriority())
	assert.True(t, s.FlipY())
	assert.True(t, s.FlipX())
	assert.True(t, s.UsesOBP1())

	s = Sprite{Attrs: 0x00}
	assert.False(t, s.BGPriority())
	assert.False(t, s.FlipY())
	assert.False(t, s.FlipX())
	assert.False(t, s.UsesOBP1())
}
