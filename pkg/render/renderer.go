// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-voidengine/pkg/logging"
)

// Presenter shows a completed framebuffer. The engine calls Present once
// per render pass and never writes the framebuffer while Present runs.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// Opener is implemented by presenters that acquire a display before the
// first frame.
type Opener interface {
	Open() error
}

// KeySink receives key presses from a presenter's input source.
type KeySink interface {
	Press(key string) bool
}

// NullPresenter discards frames, logging each one at debug level.
type NullPresenter struct {
	logger *logging.Logger
	frames uint64
}

// NewNullPresenter creates a NullPresenter with structured logging.
func NewNullPresenter(logger *logging.Logger) *NullPresenter {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullPresenter{logger: logger}
}

// Present implements Presenter.
func (p *NullPresenter) Present(fb *Framebuffer) error {
	p.frames++
	if fb == nil {
		p.logger.Debug(context.Background(), "Present called with nil framebuffer")
		return nil
	}
	p.logger.Debug(context.Background(), "Present called",
		"frame", p.frames,
		"width", fb.Width(),
		"height", fb.Height(),
	)
	return nil
}

// Frames returns how many frames were presented.
func (p *NullPresenter) Frames() uint64 {
	return p.frames
}
