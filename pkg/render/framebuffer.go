// pkg/render/framebuffer.go
package render

// Framebuffer is a fixed-size grid of packed 0xAARRGGBB pixels at window
// resolution. Writes outside the grid are dropped.
type Framebuffer struct {
	width  int
	height int
	pix    []uint32
}

// NewFramebuffer allocates a width x height framebuffer cleared to zero.
// Non-positive dimensions give an empty framebuffer that drops every write.
func NewFramebuffer(width, height int) *Framebuffer {
	if width <= 0 || height <= 0 {
		return &Framebuffer{}
	}
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

// Width returns the framebuffer width in pixels.
func (f *Framebuffer) Width() int {
	return f.width
}

// Height returns the framebuffer height in pixels.
func (f *Framebuffer) Height() int {
	return f.height
}

// InBounds reports whether (x, y) lies inside the framebuffer.
func (f *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.width && y < f.height
}

// Set writes a pixel and reports whether it landed inside the framebuffer.
func (f *Framebuffer) Set(x, y int, c uint32) bool {
	if !f.InBounds(x, y) {
		return false
	}
	f.pix[y*f.width+x] = c
	return true
}

// At returns the pixel at (x, y), or 0 outside the framebuffer.
func (f *Framebuffer) At(x, y int) uint32 {
	if !f.InBounds(x, y) {
		return 0
	}
	return f.pix[y*f.width+x]
}

// Clear fills every pixel with c.
func (f *Framebuffer) Clear(c uint32) {
	for i := range f.pix {
		f.pix[i] = c
	}
}

// Pix exposes the row-major pixel slice. Callers must not retain it past
// the current present.
func (f *Framebuffer) Pix() []uint32 {
	return f.pix
}

// CopyTo copies the pixels into dst, reallocating dst when its size differs.
func (f *Framebuffer) CopyTo(dst *Framebuffer) {
	if dst.width != f.width || dst.height != f.height {
		dst.width, dst.height = f.width, f.height
		dst.pix = make([]uint32, len(f.pix))
	}
	copy(dst.pix, f.pix)
}

// Clone returns an independent copy.
func (f *Framebuffer) Clone() *Framebuffer {
	dst := &Framebuffer{}
	f.CopyTo(dst)
	return dst
}
