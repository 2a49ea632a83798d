package assets

import (
	"image"
	"io"
	"os"

	// decoders registered with image.Decode
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/solaris/engine/core"
)

const DefaultMaxTextureSize = 2048

type TextureParams struct {
	// Images larger than MaxSize on either side are scaled down to fit.
	// Zero disables scaling.
	MaxSize int
	// FlipY puts the first image row at the bottom, matching GL texture
	// coordinates.
	FlipY bool
}

func DefaultTextureParams() TextureParams {
	return TextureParams{MaxSize: DefaultMaxTextureSize, FlipY: true}
}

func LoadTexture(path string, params TextureParams) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewResourceError(path, err)
	}
	defer f.Close()

	img, err := DecodeTexture(f, params)
	if err != nil {
		return nil, core.NewResourceError(path, err)
	}
	return img, nil
}

// DecodeTexture decodes any registered format into tightly packed RGBA.
func DecodeTexture(r io.Reader, params TextureParams) (*image.RGBA, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), params.MaxSize)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		core.LogDebug("scaling %s texture from %dx%d to %dx%d", format, b.Dx(), b.Dy(), w, h)
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	if params.FlipY {
		flipRows(dst)
	}
	return dst, nil
}

// fit scales w x h down to fit limit while keeping the aspect ratio.
func fit(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}

func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}
