package cpu

import "github.com/hoferm/dmgo/internal/bit"

// Flag is one of the four flag bits held in the high nibble of F; the low
// nibble is always zero (spec §8).
type Flag uint8

const (
	flagZ Flag = 0x80
	flagN Flag = 0x40
	flagH Flag = 0x20
	flagC Flag = 0x10
)

func (c *CPU) setFlag(f Flag) {
	c.f |= uint8(f)
}

func (c *CPU) resetFlag(f Flag) {
	c.f &^= uint8(f)
}

func (c *CPU) setFlagToCondition(f Flag, set bool) {
	if set {
		c.setFlag(f)
	} else {
		c.resetFlag(f)
	}
}

func (c *CPU) isSetFlag(f Flag) bool {
	return c.f&uint8(f) != 0
}

// flagToBit returns 1 if f is set, 0 otherwise.
func (c *CPU) flagToBit(f Flag) uint8 {
	if c.isSetFlag(f) {
		return 1
	}
	return 0
}

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f&0xF0) }
func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }

func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	c.f = bit.Low(v) & 0xF0
}

func (c *CPU) setBC(v uint16) {
	c.b = bit.High(v)
	c.c = bit.Low(v)
}

func (c *CPU) setDE(v uint16) {
	c.d = bit.High(v)
	c.e = bit.Low(v)
}

func (c *CPU) setHL(v uint16) {
	c.h = bit.High(v)
	c.l = bit.Low(v)
}

// reg8 is the standard Game Boy 3-bit register encoding used by both the
// base LD/arithmetic blocks and the CB-prefixed table: 0=B 1=C 2=D 3=E 4=H
// 5=L 6=(HL) 7=A.
func (c *CPU) reg8(index uint8) uint8 {
	switch index {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.readByte(c.getHL())
	default:
		return c.a
	}
}

func (c *CPU) setReg8(index uint8, v uint8) {
	switch index {
	case 0:
		c.b = v
	case 1:
		c.c = v
	case 2:
		c.d = v
	case 3:
		c.e = v
	case 4:
		c.h = v
	case 5:
		c.l = v
	case 6:
		c.writeByte(c.getHL(), v)
	default:
		c.a = v
	}
}
