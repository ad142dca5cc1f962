// Package video implements the PPU: the four-mode scanline state machine,
// background/window/sprite compositing, and the indexed-color framebuffer.
package video

const (
	// Width is the framebuffer width in pixels.
	Width = 160
	// Height is the framebuffer height in pixels.
	Height = 144
	// Size is the total pixel count of a frame.
	Size = Width * Height
)

// FrameBuffer holds one frame of 2-bit indexed color (0..3), per spec §6.
// The host converts indices to RGB via a fixed 4-entry palette.
type FrameBuffer struct {
	Pixels [Size]byte
}

// NewFrameBuffer returns an all-zero (color index 0) framebuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Set writes a color index at (x, y).
func (f *FrameBuffer) Set(x, y int, colorIndex byte) {
	f.Pixels[y*Width+x] = colorIndex
}

// Get reads the color index at (x, y).
func (f *FrameBuffer) Get(x, y int) byte {
	return f.Pixels[y*Width+x]
}

// Clear resets every pixel to color index 0.
func (f *FrameBuffer) Clear() {
	for i := range f.Pixels {
		f.Pixels[i] = 0
	}
}

// CopyTo writes the framebuffer's indexed pixels into an external buffer of
// the shape spec §6 requires for StepFrame's output parameter.
func (f *FrameBuffer) CopyTo(out *[Size]byte) {
	*out = f.Pixels
}
