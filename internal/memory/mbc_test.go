package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// make64BankROM builds a 64-bank (1MiB) ROM image where the first byte of
// bank N is the value N, so a read at 0x4000 reveals which bank is mapped.
func make64BankROM() []byte {
	const bankSize = 0x4000
	rom := make([]byte, bankSize*64)
	for bank := 0; bank < 64; bank++ {
		rom[bank*bankSize] = byte(bank)
	}
	return rom
}

func TestMBC1BankSwitchAndZeroRemap(t *testing.T) {
	rom := make64BankROM()
	mbc := NewMBC1(rom, 0)

	mbc.Write(0x2000, 0x05)
	assert.Equal(t, byte(5), mbc.Read(0x4000), "bank 5 should be mapped after selecting it")

	mbc.Write(0x2000, 0x00)
	assert.Equal(t, byte(1), mbc.Read(0x4000), "selecting bank 0 remaps to bank 1")
}

func TestMBC1RAMDisabledByDefault(t *testing.T) {
	rom := make64BankROM()
	mbc := NewMBC1(rom, 1)

	mbc.Write(0xA000, 0x42)
	assert.Equal(t, byte(0xFF), mbc.Read(0xA000), "RAM reads as 0xFF until enabled")
}

func TestMBC1RAMEnableAndReadWrite(t *testing.T) {
	rom := make64BankROM()
	mbc := NewMBC1(rom, 1)

	mbc.Write(0x0000, 0x0A) // enable RAM
	mbc.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), mbc.Read(0xA000))
}

func TestMBC1Bank0AlwaysMapsLowHalf(t *testing.T) {
	rom := make64BankROM()
	mbc := NewMBC1(rom, 0)

	mbc.Write(0x2000, 0x05)
	assert.Equal(t, byte(0), mbc.Read(0x0000), "0x0000-0x3FFF always reads bank 0")
}

func TestNoMBCOutOfRangeReadsHigh(t *testing.T) {
	mbc := NewNoMBC(make([]byte, 0x4000))
	assert.Equal(t, byte(0xFF), mbc.Read(0x7FFF))
}
