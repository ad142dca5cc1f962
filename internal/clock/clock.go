// Package clock provides the single monotonic T-cycle counter shared by the
// CPU, timer and PPU. Every timed subsystem records its own last-observed
// cycle count and derives elapsed work as the difference against Now().
package clock

// Clock is a 64-bit count of T-cycles elapsed since power-on. One machine
// cycle is 4 T-cycles.
type Clock struct {
	cycles uint64
}

// Tick advances the clock by n machine cycles (4*n T-cycles).
func (c *Clock) Tick(nMachineCycles int) {
	c.cycles += uint64(nMachineCycles) * 4
}

// TickCycles advances the clock by the given number of T-cycles directly,
// for callers that already deal in T-cycles (e.g. replaying a fixed cost).
func (c *Clock) TickCycles(tCycles int) {
	c.cycles += uint64(tCycles)
}

// Now returns the total T-cycles elapsed since power-on.
func (c *Clock) Now() uint64 {
	return c.cycles
}
