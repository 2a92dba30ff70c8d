// pkg/render/engo/assets.go
package engo

import (
	"image"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-voidengine/pkg/asset"
	"github.com/opd-ai/go-voidengine/pkg/render"
)

// FrameImage converts packed ARGB pixels into non-premultiplied RGBA,
// reusing dst when it has the right size.
func FrameImage(fb *render.Framebuffer, dst *image.NRGBA) *image.NRGBA {
	bounds := image.Rect(0, 0, fb.Width(), fb.Height())
	if dst == nil || dst.Bounds() != bounds {
		dst = image.NewNRGBA(bounds)
	}
	for i, c := range fb.Pix() {
		a, r, g, b := asset.Channels(c)
		o := i * 4
		dst.Pix[o] = r
		dst.Pix[o+1] = g
		dst.Pix[o+2] = b
		dst.Pix[o+3] = a
	}
	return dst
}

// convertToEngoTexture uploads an image as a GL texture. It must run on
// the engo render thread.
func convertToEngoTexture(img *image.NRGBA) common.Texture {
	return common.NewTextureSingle(common.NewImageObject(img))
}
