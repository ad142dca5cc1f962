package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLDRegisterToRegister(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0x41) // LD B,C
	m.cpu.c = 0x99

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint8(0x99), m.cpu.b)
}

func TestLDFromHLCostsExtraCycles(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0x46) // LD B,(HL)
	m.cpu.setHL(0xC010)
	m.mem.Write(0xC010, 0x55)

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, 8, cycles, "(HL) operand costs an extra memory access")
	assert.Equal(t, uint8(0x55), m.cpu.b)
}

func TestLDToHLCostsExtraCycles(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0x70) // LD (HL),B
	m.cpu.setHL(0xC010)
	m.cpu.b = 0x42

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x42), m.mem.Read(0xC010))
}

func TestHALTOpcode(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0x76) // HALT

	_, err := m.step()
	require.NoError(t, err)
	assert.True(t, m.cpu.Halted())
}

func TestINCRegisterHalfCarry(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0x04) // INC B
	m.cpu.b = 0x0F

	_, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), m.cpu.b)
	assert.True(t, m.cpu.isSetFlag(flagH))
	assert.False(t, m.cpu.isSetFlag(flagZ))
}

func TestINCAtHLCostsTwelveCycles(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0x34) // INC (HL)
	m.cpu.setHL(0xC010)
	m.mem.Write(0xC010, 0x01)

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, 12, cycles, "(HL) read+write plus the opcode fetch")
	assert.Equal(t, uint8(0x02), m.mem.Read(0xC010))
}

func TestLDImmediateToRegister(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0x06, 0x99) // LD B,n
	_, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x99), m.cpu.b)
}

func TestALUImmediateADD(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0xC6, 0x10) // ADD A,n
	m.cpu.a = 0x05

	_, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x15), m.cpu.a)
}

func TestCBBitTestDoesNotModifyOperand(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0xCB, 0x7C) // BIT 7,H
	m.cpu.h = 0x80

	_, err := m.step()
	require.NoError(t, err)
	assert.False(t, m.cpu.isSetFlag(flagZ), "bit 7 of H is set, so Z should be clear")
	assert.Equal(t, uint8(0x80), m.cpu.h, "BIT never modifies the tested register")
}

func TestCBResAndSet(t *testing.T) {
	m := newTestMachine()
	m.cpu.b = 0xFF
	m.load(0xC000, 0xCB, 0x80) // RES 0,B
	_, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFE), m.cpu.b)

	m.cpu.pc = 0xC002
	m.load(0xC002, 0xCB, 0xC0) // SET 0,B
	_, err = m.step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), m.cpu.b)
}

func TestCBRotateAtHLCostsSixteenCycles(t *testing.T) {
	m := newTestMachine()
	m.cpu.setHL(0xC010)
	m.mem.Write(0xC010, 0x80)
	m.load(0xC000, 0xCB, 0x06) // RLC (HL)

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint8(0x01), m.mem.Read(0xC010))
	assert.True(t, m.cpu.isSetFlag(flagC))
}

func TestUnsupportedOpcodeReturnsError(t *testing.T) {
	m := newTestMachine()
	m.load(0xC000, 0xD3) // officially unused

	_, err := m.step()
	require.Error(t, err)

	var unsupported *UnsupportedOpcodeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, uint8(0xD3), unsupported.Opcode)
}

func TestAllElevenUnusedOpcodesAreUnsupported(t *testing.T) {
	unused := []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
	for _, op := range unused {
		assert.Nil(t, opcodeTable[op], "opcode %#02x should be nil/unsupported", op)
	}
	assert.Len(t, unused, 11)
}
