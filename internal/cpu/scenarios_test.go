package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalJumpTakenAddsFourCycles(t *testing.T) {
	m := newTestMachine()
	m.cpu.pc = 0xC100
	m.cpu.setFlag(flagZ)
	m.load(0xC100, 0x28, 0x05) // JR Z,+5

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC107), m.cpu.pc)
	assert.Equal(t, 12, cycles)
}

func TestConditionalJumpNotTakenSkipsTheOffset(t *testing.T) {
	m := newTestMachine()
	m.cpu.pc = 0xC100
	m.cpu.resetFlag(flagZ)
	m.load(0xC100, 0x28, 0x05) // JR Z,+5

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC102), m.cpu.pc)
	assert.Equal(t, 8, cycles)
}

func TestConditionalJumpBackwardsWithNegativeOffset(t *testing.T) {
	m := newTestMachine()
	m.cpu.pc = 0xC200
	m.cpu.resetFlag(flagZ)
	m.load(0xC200, 0x20, 0xFB) // JR NZ,-5

	cycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC1FD), m.cpu.pc)
	assert.Equal(t, 12, cycles)
}

func TestPushPopRoundTripPreservesValueAndStack(t *testing.T) {
	m := newTestMachine()
	m.cpu.sp = 0xFFFE
	m.cpu.setBC(0x1234)
	m.load(0xC000, 0xC5) // PUSH BC

	pushCycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, 16, pushCycles)
	assert.Equal(t, uint16(0xFFFC), m.cpu.sp)
	assert.Equal(t, uint8(0x34), m.mem.Read(0xFFFC))
	assert.Equal(t, uint8(0x12), m.mem.Read(0xFFFD))

	m.cpu.setBC(0x0000)
	m.load(0xC001, 0xC1) // POP BC

	popCycles, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, 12, popCycles)
	assert.Equal(t, uint16(0xFFFE), m.cpu.sp)
	assert.Equal(t, uint16(0x1234), m.cpu.getBC())
	assert.Equal(t, 28, pushCycles+popCycles)
}

func TestAddWithHalfCarryAndFullCarry(t *testing.T) {
	m := newTestMachine()
	m.cpu.a = 0x3A
	m.cpu.b = 0xC6
	m.load(0xC000, 0x80) // ADD A,B

	_, err := m.step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), m.cpu.a)
	assert.True(t, m.cpu.isSetFlag(flagZ))
	assert.True(t, m.cpu.isSetFlag(flagH))
	assert.True(t, m.cpu.isSetFlag(flagC))
	assert.False(t, m.cpu.isSetFlag(flagN))
}
