package cpu

// aluOps is the eight operation groups shared by the 0x80-0xBF register
// block and the 0xC6/0xCE/.../0xFE immediate forms, in opcode order:
// ADD, ADC, SUB, SBC, AND, XOR, OR, CP.
var aluOps = [8]func(*CPU, uint8){
	func(c *CPU, v uint8) { c.addToA(v, 0) },
	func(c *CPU, v uint8) { c.addToA(v, c.flagToBit(flagC)) },
	func(c *CPU, v uint8) { c.subFromA(v, 0, false) },
	func(c *CPU, v uint8) { c.subFromA(v, c.flagToBit(flagC), false) },
	func(c *CPU, v uint8) { c.and(v) },
	func(c *CPU, v uint8) { c.xor(v) },
	func(c *CPU, v uint8) { c.or(v) },
	func(c *CPU, v uint8) { c.subFromA(v, 0, true) },
}

func init() {
	// 0x40-0x7F: LD r,r'. 0x76 (dst=src=(HL)) is HALT instead, set below.
	for opcode := 0x40; opcode < 0x80; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dst := uint8((opcode >> 3) & 7)
		src := uint8(opcode & 7)
		opcodeTable[opcode] = func(c *CPU) { c.setReg8(dst, c.reg8(src)) }
	}
	opcodeTable[0x76] = func(c *CPU) { c.halted = true }

	// 0x80-0xBF: ALU A,r.
	for opcode := 0x80; opcode < 0xC0; opcode++ {
		op := aluOps[(opcode>>3)&7]
		reg := uint8(opcode & 7)
		opcodeTable[opcode] = func(c *CPU) { op(c, c.reg8(reg)) }
	}

	// ALU A,n immediate forms, one per group in group order.
	immOpcodes := [8]uint8{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE}
	for group, opcode := range immOpcodes {
		op := aluOps[group]
		opcodeTable[opcode] = func(c *CPU) { op(c, c.fetch()) }
	}

	// 0x04/0x0C/.../0x3C: INC r8. 0x05/0x0D/.../0x3D: DEC r8.
	for row := uint8(0); row < 8; row++ {
		reg := row
		opcodeTable[row<<3|0x04] = func(c *CPU) { c.incByIndex(reg) }
		opcodeTable[row<<3|0x05] = func(c *CPU) { c.decByIndex(reg) }
		opcodeTable[row<<3|0x06] = func(c *CPU) { c.setReg8(reg, c.fetch()) }
	}

	// RST 00h/08h/.../38h at 0xC7,0xCF,0xD7,0xDF,0xE7,0xEF,0xF7,0xFF.
	for row := uint8(0); row < 8; row++ {
		target := uint16(row) * 8
		opcodeTable[row<<3|0xC7] = func(c *CPU) { c.rst(target) }
	}
}

//NOP
func opcode0x00(_ *CPU) {}

//LD BC,nn / DE,nn / HL,nn / SP,nn
func opcode0x01(c *CPU) { c.setBC(c.fetchWord()) }
func opcode0x11(c *CPU) { c.setDE(c.fetchWord()) }
func opcode0x21(c *CPU) { c.setHL(c.fetchWord()) }
func opcode0x31(c *CPU) { c.sp = c.fetchWord() }

//LD (BC),A / (DE),A
func opcode0x02(c *CPU) { c.writeByte(c.getBC(), c.a) }
func opcode0x12(c *CPU) { c.writeByte(c.getDE(), c.a) }

//LD A,(BC) / A,(DE)
func opcode0x0A(c *CPU) { c.a = c.readByte(c.getBC()) }
func opcode0x1A(c *CPU) { c.a = c.readByte(c.getDE()) }

//INC/DEC BC,DE,HL,SP (no flags, one internal machine cycle)
func opcode0x03(c *CPU) { c.setBC(c.getBC() + 1); c.tickCycles(4) }
func opcode0x13(c *CPU) { c.setDE(c.getDE() + 1); c.tickCycles(4) }
func opcode0x23(c *CPU) { c.setHL(c.getHL() + 1); c.tickCycles(4) }
func opcode0x33(c *CPU) { c.sp++; c.tickCycles(4) }
func opcode0x0B(c *CPU) { c.setBC(c.getBC() - 1); c.tickCycles(4) }
func opcode0x1B(c *CPU) { c.setDE(c.getDE() - 1); c.tickCycles(4) }
func opcode0x2B(c *CPU) { c.setHL(c.getHL() - 1); c.tickCycles(4) }
func opcode0x3B(c *CPU) { c.sp--; c.tickCycles(4) }

//RLCA / RRCA / RLA / RRA: like their CB-prefixed counterparts but Z is
//always forced to 0, regardless of the result.
func opcode0x07(c *CPU) { c.a = c.rlc(c.a); c.resetFlag(flagZ) }
func opcode0x0F(c *CPU) { c.a = c.rrc(c.a); c.resetFlag(flagZ) }
func opcode0x17(c *CPU) { c.a = c.rl(c.a); c.resetFlag(flagZ) }
func opcode0x1F(c *CPU) { c.a = c.rr(c.a); c.resetFlag(flagZ) }

//LD (nn),SP: writes SP little-endian (spec §4.6 edge case).
func opcode0x08(c *CPU) {
	target := c.fetchWord()
	c.writeByte(target, uint8(c.sp))
	c.writeByte(target+1, uint8(c.sp>>8))
}

//ADD HL,BC/DE/HL/SP
func opcode0x09(c *CPU) { c.addToHL(c.getBC()); c.tickCycles(4) }
func opcode0x19(c *CPU) { c.addToHL(c.getDE()); c.tickCycles(4) }
func opcode0x29(c *CPU) { c.addToHL(c.getHL()); c.tickCycles(4) }
func opcode0x39(c *CPU) { c.addToHL(c.sp); c.tickCycles(4) }

//STOP: treated as a HALT-equivalent in this core (spec §9 design note);
//real hardware stops the system clock until a joypad interrupt.
func opcode0x10(c *CPU) {
	c.fetch() // the mandatory trailing 0x00 stub byte
	c.halted = true
}

//JR e: unconditional relative jump.
func opcode0x18(c *CPU) {
	offset := int8(c.fetch())
	c.jr(offset)
}

//JR NZ,e / Z,e / NC,e / C,e
func opcode0x20(c *CPU) { jrConditional(c, !c.isSetFlag(flagZ)) }
func opcode0x28(c *CPU) { jrConditional(c, c.isSetFlag(flagZ)) }
func opcode0x30(c *CPU) { jrConditional(c, !c.isSetFlag(flagC)) }
func opcode0x38(c *CPU) { jrConditional(c, c.isSetFlag(flagC)) }

func jrConditional(c *CPU, take bool) {
	offset := int8(c.fetch())
	if take {
		c.jr(offset)
	}
}

//LD (HL+),A / A,(HL+) / (HL-),A / A,(HL-)
func opcode0x22(c *CPU) { c.writeByte(c.getHL(), c.a); c.setHL(c.getHL() + 1) }
func opcode0x2A(c *CPU) { c.a = c.readByte(c.getHL()); c.setHL(c.getHL() + 1) }
func opcode0x32(c *CPU) { c.writeByte(c.getHL(), c.a); c.setHL(c.getHL() - 1) }
func opcode0x3A(c *CPU) { c.a = c.readByte(c.getHL()); c.setHL(c.getHL() - 1) }

//DAA
func opcode0x27(c *CPU) { c.daa() }

//CPL: A <- ~A, N=H=1.
func opcode0x2F(c *CPU) {
	c.a = ^c.a
	c.setFlag(flagN)
	c.setFlag(flagH)
}

//SCF: set carry, clear N and H.
func opcode0x37(c *CPU) {
	c.setFlag(flagC)
	c.resetFlag(flagN)
	c.resetFlag(flagH)
}

//CCF: complement carry, clear N and H.
func opcode0x3F(c *CPU) {
	c.setFlagToCondition(flagC, !c.isSetFlag(flagC))
	c.resetFlag(flagN)
	c.resetFlag(flagH)
}

//RET NZ/Z/NC/C: the condition check itself costs one machine cycle.
func opcode0xC0(c *CPU) { retConditional(c, !c.isSetFlag(flagZ)) }
func opcode0xC8(c *CPU) { retConditional(c, c.isSetFlag(flagZ)) }
func opcode0xD0(c *CPU) { retConditional(c, !c.isSetFlag(flagC)) }
func opcode0xD8(c *CPU) { retConditional(c, c.isSetFlag(flagC)) }

func retConditional(c *CPU, take bool) {
	c.tickCycles(4)
	if take {
		c.ret()
	}
}

//POP BC/DE/HL/AF
func opcode0xC1(c *CPU) { c.setBC(c.popStack()) }
func opcode0xD1(c *CPU) { c.setDE(c.popStack()) }
func opcode0xE1(c *CPU) { c.setHL(c.popStack()) }
func opcode0xF1(c *CPU) { c.setAF(c.popStack()) }

//JP NZ,nn / Z,nn / NC,nn / C,nn: nn is always fetched; the extra internal
//cycle to load PC only happens when the branch is taken.
func opcode0xC2(c *CPU) { jpConditional(c, !c.isSetFlag(flagZ)) }
func opcode0xCA(c *CPU) { jpConditional(c, c.isSetFlag(flagZ)) }
func opcode0xD2(c *CPU) { jpConditional(c, !c.isSetFlag(flagC)) }
func opcode0xDA(c *CPU) { jpConditional(c, c.isSetFlag(flagC)) }

func jpConditional(c *CPU, take bool) {
	target := c.fetchWord()
	if take {
		c.pc = target
		c.tickCycles(4)
	}
}

//JP nn
func opcode0xC3(c *CPU) {
	target := c.fetchWord()
	c.pc = target
	c.tickCycles(4)
}

//CALL NZ,nn / Z,nn / NC,nn / C,nn
func opcode0xC4(c *CPU) { callConditional(c, !c.isSetFlag(flagZ)) }
func opcode0xCC(c *CPU) { callConditional(c, c.isSetFlag(flagZ)) }
func opcode0xD4(c *CPU) { callConditional(c, !c.isSetFlag(flagC)) }
func opcode0xDC(c *CPU) { callConditional(c, c.isSetFlag(flagC)) }

func callConditional(c *CPU, take bool) {
	target := c.fetchWord()
	if take {
		c.call(target)
	}
}

//PUSH BC/DE/HL/AF
func opcode0xC5(c *CPU) { c.tickCycles(4); c.pushStack(c.getBC()) }
func opcode0xD5(c *CPU) { c.tickCycles(4); c.pushStack(c.getDE()) }
func opcode0xE5(c *CPU) { c.tickCycles(4); c.pushStack(c.getHL()) }
func opcode0xF5(c *CPU) { c.tickCycles(4); c.pushStack(c.getAF()) }

//RET
func opcode0xC9(c *CPU) { c.ret() }

//RETI: like RET but IME is set immediately (no one-instruction delay).
func opcode0xD9(c *CPU) {
	c.ret()
	c.interrupts.EnableImmediate()
}

//CALL nn
func opcode0xCD(c *CPU) {
	target := c.fetchWord()
	c.call(target)
}

//LDH (n),A: write to 0xFF00+n.
func opcode0xE0(c *CPU) {
	n := c.fetch()
	c.writeByte(0xFF00+uint16(n), c.a)
}

//LD (C),A: write to 0xFF00+C.
func opcode0xE2(c *CPU) {
	c.writeByte(0xFF00+uint16(c.c), c.a)
}

//ADD SP,e: signed displacement, Z=N=0, H/C from the low byte; two internal
//machine cycles beyond the opcode and operand fetch.
func opcode0xE8(c *CPU) {
	e := int8(c.fetch())
	c.sp = c.addSignedToSP(e)
	c.tickCycles(8)
}

//JP (HL): jumps to the value in HL directly, no memory dereference.
func opcode0xE9(c *CPU) { c.pc = c.getHL() }

//LD (nn),A
func opcode0xEA(c *CPU) {
	target := c.fetchWord()
	c.writeByte(target, c.a)
}

//LDH A,(n): read from 0xFF00+n.
func opcode0xF0(c *CPU) {
	n := c.fetch()
	c.a = c.readByte(0xFF00 + uint16(n))
}

//LD A,(C): read from 0xFF00+C.
func opcode0xF2(c *CPU) {
	c.a = c.readByte(0xFF00 + uint16(c.c))
}

//DI: clears IME immediately and cancels any pending EI.
func opcode0xF3(c *CPU) { c.interrupts.Disable() }

//LD HL,SP+e: same displacement math as ADD SP,e but only one internal cycle
//and the result lands in HL instead of SP.
func opcode0xF8(c *CPU) {
	e := int8(c.fetch())
	c.setHL(c.addSignedToSP(e))
	c.tickCycles(4)
}

//LD SP,HL
func opcode0xF9(c *CPU) {
	c.sp = c.getHL()
	c.tickCycles(4)
}

//LD A,(nn)
func opcode0xFA(c *CPU) {
	target := c.fetchWord()
	c.a = c.readByte(target)
}

//EI: schedules IME to become true after the next instruction completes.
func opcode0xFB(c *CPU) { c.interrupts.ScheduleEnable() }

func init() {
	opcodeTable[0x00] = opcode0x00
	opcodeTable[0x01] = opcode0x01
	opcodeTable[0x11] = opcode0x11
	opcodeTable[0x21] = opcode0x21
	opcodeTable[0x31] = opcode0x31
	opcodeTable[0x02] = opcode0x02
	opcodeTable[0x12] = opcode0x12
	opcodeTable[0x0A] = opcode0x0A
	opcodeTable[0x1A] = opcode0x1A
	opcodeTable[0x03] = opcode0x03
	opcodeTable[0x13] = opcode0x13
	opcodeTable[0x23] = opcode0x23
	opcodeTable[0x33] = opcode0x33
	opcodeTable[0x0B] = opcode0x0B
	opcodeTable[0x1B] = opcode0x1B
	opcodeTable[0x2B] = opcode0x2B
	opcodeTable[0x3B] = opcode0x3B
	opcodeTable[0x07] = opcode0x07
	opcodeTable[0x0F] = opcode0x0F
	opcodeTable[0x17] = opcode0x17
	opcodeTable[0x1F] = opcode0x1F
	opcodeTable[0x08] = opcode0x08
	opcodeTable[0x09] = opcode0x09
	opcodeTable[0x19] = opcode0x19
	opcodeTable[0x29] = opcode0x29
	opcodeTable[0x39] = opcode0x39
	opcodeTable[0x10] = opcode0x10
	opcodeTable[0x18] = opcode0x18
	opcodeTable[0x20] = opcode0x20
	opcodeTable[0x28] = opcode0x28
	opcodeTable[0x30] = opcode0x30
	opcodeTable[0x38] = opcode0x38
	opcodeTable[0x22] = opcode0x22
	opcodeTable[0x2A] = opcode0x2A
	opcodeTable[0x32] = opcode0x32
	opcodeTable[0x3A] = opcode0x3A
	opcodeTable[0x27] = opcode0x27
	opcodeTable[0x2F] = opcode0x2F
	opcodeTable[0x37] = opcode0x37
	opcodeTable[0x3F] = opcode0x3F
	opcodeTable[0xC0] = opcode0xC0
	opcodeTable[0xC8] = opcode0xC8
	opcodeTable[0xD0] = opcode0xD0
	opcodeTable[0xD8] = opcode0xD8
	opcodeTable[0xC1] = opcode0xC1
	opcodeTable[0xD1] = opcode0xD1
	opcodeTable[0xE1] = opcode0xE1
	opcodeTable[0xF1] = opcode0xF1
	opcodeTable[0xC2] = opcode0xC2
	opcodeTable[0xCA] = opcode0xCA
	opcodeTable[0xD2] = opcode0xD2
	opcodeTable[0xDA] = opcode0xDA
	opcodeTable[0xC3] = opcode0xC3
	opcodeTable[0xC4] = opcode0xC4
	opcodeTable[0xCC] = opcode0xCC
	opcodeTable[0xD4] = opcode0xD4
	opcodeTable[0xDC] = opcode0xDC
	opcodeTable[0xC5] = opcode0xC5
	opcodeTable[0xD5] = opcode0xD5
	opcodeTable[0xE5] = opcode0xE5
	opcodeTable[0xF5] = opcode0xF5
	opcodeTable[0xC9] = opcode0xC9
	opcodeTable[0xD9] = opcode0xD9
	opcodeTable[0xCD] = opcode0xCD
	opcodeTable[0xE0] = opcode0xE0
	opcodeTable[0xE2] = opcode0xE2
	opcodeTable[0xE8] = opcode0xE8
	opcodeTable[0xE9] = opcode0xE9
	opcodeTable[0xEA] = opcode0xEA
	opcodeTable[0xF0] = opcode0xF0
	opcodeTable[0xF2] = opcode0xF2
	opcodeTable[0xF3] = opcode0xF3
	opcodeTable[0xF8] = opcode0xF8
	opcodeTable[0xF9] = opcode0xF9
	opcodeTable[0xFA] = opcode0xFA
	opcodeTable[0xFB] = opcode0xFB

	// The eleven officially unused opcodes are left nil: execute() reports
	// UnsupportedOpcodeError for them (spec §7, strict-mode policy).
}
