// pkg/render/engo/presenter.go
package engo

import (
	"image"
	"sync"

	"github.com/opd-ai/go-voidengine/pkg/render"
)

// Presenter hands frames from the engine goroutine to the engo render
// thread. Present copies the framebuffer under a lock; the display system
// takes the newest copy once per engo frame.
type Presenter struct {
	mu       sync.Mutex
	snapshot *render.Framebuffer
	fresh    bool
	frames   uint64

	img *image.NRGBA
}

// NewPresenter creates an empty presenter.
func NewPresenter() *Presenter {
	return &Presenter{snapshot: &render.Framebuffer{}}
}

// Present implements render.Presenter.
func (p *Presenter) Present(fb *render.Framebuffer) error {
	if fb == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fb.CopyTo(p.snapshot)
	p.fresh = true
	p.frames++
	return nil
}

// Latest converts the newest frame into an image. It reports false when no
// frame arrived since the last call. The image is reused between calls.
func (p *Presenter) Latest() (*image.NRGBA, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.fresh {
		return nil, false
	}
	p.fresh = false
	p.img = FrameImage(p.snapshot, p.img)
	return p.img, true
}

// Frames returns how many frames were presented.
func (p *Presenter) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}
