package cpu

// opcodeFunc executes one decoded instruction against cpu state.
type opcodeFunc func(*CPU)

var opcodeTable [256]opcodeFunc
var opcodeCBTable [256]opcodeFunc

// cbRotateOps are the eight row groups of the CB table's 0x00-0x3F block, in
// opcode order.
var cbRotateOps = [8]func(*CPU, uint8){
	(*CPU).rlcByIndex,
	(*CPU).rrcByIndex,
	(*CPU).rlByIndex,
	(*CPU).rrByIndex,
	(*CPU).slaByIndex,
	(*CPU).sraByIndex,
	(*CPU).swapByIndex,
	(*CPU).srlByIndex,
}

func init() {
	for opcode := 0; opcode < 0x40; opcode++ {
		op := cbRotateOps[opcode>>3]
		regIndex := uint8(opcode & 7)
		opcodeCBTable[opcode] = func(c *CPU) { op(c, regIndex) }
	}

	for opcode := 0x40; opcode < 0x80; opcode++ {
		bitN := uint8((opcode - 0x40) >> 3 & 7)
		regIndex := uint8(opcode & 7)
		opcodeCBTable[opcode] = func(c *CPU) { c.bitTestByIndex(bitN, regIndex) }
	}

	for opcode := 0x80; opcode < 0xC0; opcode++ {
		bitN := uint8((opcode - 0x80) >> 3 & 7)
		regIndex := uint8(opcode & 7)
		opcodeCBTable[opcode] = func(c *CPU) { c.resByIndex(bitN, regIndex) }
	}

	for opcode := 0xC0; opcode < 0x100; opcode++ {
		bitN := uint8((opcode - 0xC0) >> 3 & 7)
		regIndex := uint8(opcode & 7)
		opcodeCBTable[opcode] = func(c *CPU) { c.setByIndex(bitN, regIndex) }
	}
}
