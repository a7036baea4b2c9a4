package capture

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// FitWidth scales img down so it is at most maxWidth pixels wide, keeping
// the aspect ratio. Images that already fit, and maxWidth <= 0, return img
// unmodified. It never upscales.
func FitWidth(img image.Image, maxWidth int) image.Image {
	if img == nil || maxWidth <= 0 {
		return img
	}
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= maxWidth || srcH <= 0 {
		return img
	}

	scale := float64(maxWidth) / float64(srcW)
	dstH := int(math.Round(float64(srcH) * scale))
	if dstH < 1 {
		dstH = 1
	}

	// CatmullRom keeps text in screenshots legible at reasonable cost.
	dst := image.NewNRGBA(image.Rect(0, 0, maxWidth, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
