// Package terminal is a minimal tcell-based presenter for the emulator
// core: it renders a framebuffer as half-block glyphs and translates key
// events into the host-facing joypad bitmap. It is never imported by the
// emulator core itself, only by cmd/dmgo.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hoferm/dmgo/internal/video"
)

// keyHoldWindow is how long a key is considered held after its last
// key-down event. Terminals only deliver key-down events, never key-up, so
// a button press is modelled as "still held" until events stop arriving for
// this long.
const keyHoldWindow = 120 * time.Millisecond

// shades maps a 2-bit color index to a terminal cell color, lightest (0,
// the DMG's near-white) to darkest (3), in the fixed 4-entry palette order
// spec §6 leaves to the host.
var shades = [4]tcell.Color{
	tcell.NewRGBColor(0xE0, 0xF0, 0xD0),
	tcell.NewRGBColor(0x88, 0xC0, 0x70),
	tcell.NewRGBColor(0x34, 0x68, 0x56),
	tcell.NewRGBColor(0x08, 0x18, 0x20),
}

// Screen owns the tcell terminal session and the joypad bitmap it
// accumulates from key events.
type Screen struct {
	screen    tcell.Screen
	lastPress [8]time.Time
}

// New initializes a tcell screen. The caller must call Close when done.
func New() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: start screen: %w", err)
	}
	screen.HideCursor()
	return &Screen{screen: screen}, nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// Draw renders one framebuffer, two logical pixel rows per terminal cell
// using the upper/lower half-block glyph, since terminal cells are roughly
// twice as tall as wide.
func (s *Screen) Draw(frame *[video.Size]byte) {
	s.screen.Clear()

	for y := 0; y < video.Height; y += 2 {
		for x := 0; x < video.Width; x++ {
			top := frame[y*video.Width+x]
			bottom := byte(0)
			if y+1 < video.Height {
				bottom = frame[(y+1)*video.Width+x]
			}

			style := tcell.StyleDefault.
				Foreground(shades[top]).
				Background(shades[bottom])
			s.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}

	s.screen.Show()
}

// PollInput drains queued key events, updating and returning the
// accumulated joypad bitmap (spec §6's input_state layout), plus whether a
// quit was requested (Escape).
func (s *Screen) PollInput() (input uint8, quit bool) {
	now := time.Now()

	for s.screen.HasPendingEvent() {
		ev := s.screen.PollEvent()
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}

		if key.Key() == tcell.KeyEscape {
			return s.bitmap(now), true
		}

		if bitIndex, handled := keyBit(key); handled {
			s.lastPress[bitIndex] = now
		}
	}

	return s.bitmap(now), false
}

// bitmap derives the current joypad bitmap from which keys were pressed
// within the last keyHoldWindow.
func (s *Screen) bitmap(now time.Time) uint8 {
	var state uint8
	for i, pressedAt := range s.lastPress {
		if now.Sub(pressedAt) <= keyHoldWindow {
			state |= 1 << uint(i)
		}
	}
	return state
}

// keyBit maps a subset of keys to the spec §6 input_state bit layout:
// 0=Down 1=Up 2=Left 3=Right 4=Start 5=Select 6=B 7=A.
func keyBit(key *tcell.EventKey) (uint8, bool) {
	switch key.Key() {
	case tcell.KeyDown:
		return 0, true
	case tcell.KeyUp:
		return 1, true
	case tcell.KeyLeft:
		return 2, true
	case tcell.KeyRight:
		return 3, true
	case tcell.KeyEnter:
		return 4, true
	case tcell.KeyTab:
		return 5, true
	}

	switch key.Rune() {
	case 'z', 'Z':
		return 6, true
	case 'x', 'X':
		return 7, true
	}

	return 0, false
}
