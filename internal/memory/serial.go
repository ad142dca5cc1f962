package memory

import "github.com/hoferm/dmgo/internal/addr"

// SerialPort is the minimal interface for the device connected to SB/SC.
// No real link-cable transport is modelled (spec Non-goals); this core only
// needs SB/SC to behave deterministically and to raise the Serial interrupt
// once a requested transfer completes.
type SerialPort interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(tCycles int)
}

// loopbackSerial models an unconnected link cable: a transfer always "sees"
// 0xFF come back from the (absent) peer, after the 8-bit shift time a real
// transfer would take, and then raises the Serial interrupt.
type loopbackSerial struct {
	sb uint8
	sc uint8

	transferCyclesLeft int
	onComplete         func()
}

func newLoopbackSerial(onComplete func()) *loopbackSerial {
	return &loopbackSerial{onComplete: onComplete}
}

func (s *loopbackSerial) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc | 0x7E
	default:
		return 0xFF
	}
}

func (s *loopbackSerial) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		if value&0x80 != 0 && value&0x01 != 0 {
			// internal-clock transfer: 8 bits at ~8192 Hz against a ~4MHz
			// T-cycle clock is 512 T-cycles per bit, 4096 total.
			s.transferCyclesLeft = 4096
		}
	}
}

func (s *loopbackSerial) Tick(tCycles int) {
	if s.transferCyclesLeft <= 0 {
		return
	}
	s.transferCyclesLeft -= tCycles
	if s.transferCyclesLeft <= 0 {
		s.transferCyclesLeft = 0
		s.sb = 0xFF
		s.sc &^= 0x80
		if s.onComplete != nil {
			s.onComplete()
		}
	}
}
