// Package bitmap thresholds raster images into binary pixel masks.
//
// A Bitmap is stored bottom-up: row 0 is the bottom row of the source image,
// so that placing pixel (col, row) at (col·size, row·size) reproduces the
// picture upright in layout coordinates (y pointing up).
package bitmap

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/maskwork/ebeam/pkg/errors"
)

// DefaultThreshold separates dark from light pixels on a 0-255 luminance scale.
const DefaultThreshold = 128

// Bitmap is a binary raster. Set pixels mark geometry to be written.
type Bitmap struct {
	Width  int
	Height int
	bits   []bool
}

// New returns an empty bitmap of the given size.
func New(width, height int) *Bitmap {
	return &Bitmap{Width: width, Height: height, bits: make([]bool, width*height)}
}

// At reports whether pixel (col, row) is set. Out-of-range pixels are unset.
func (b *Bitmap) At(col, row int) bool {
	if col < 0 || row < 0 || col >= b.Width || row >= b.Height {
		return false
	}
	return b.bits[row*b.Width+col]
}

// Set sets or clears pixel (col, row).
func (b *Bitmap) Set(col, row int, v bool) {
	if col < 0 || row < 0 || col >= b.Width || row >= b.Height {
		return
	}
	b.bits[row*b.Width+col] = v
}

// Count returns the number of set pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.bits {
		if v {
			n++
		}
	}
	return n
}

// Options controls thresholding.
type Options struct {
	// Threshold on the 0-255 luminance scale. Pixels darker than Threshold
	// are set. Zero means DefaultThreshold.
	Threshold int

	// MaxSize, when positive, downsamples the image so that neither side
	// exceeds MaxSize pixels before thresholding.
	MaxSize int

	// Invert sets light pixels instead of dark ones.
	Invert bool
}

// FromFile decodes the image at path (PNG, JPEG, GIF, BMP, TIFF or WebP)
// and thresholds it.
func FromFile(path string, opts Options) (*Bitmap, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "image %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode image %s", path)
	}
	return FromImage(img, opts)
}

// FromImage thresholds an already decoded image.
func FromImage(img image.Image, opts Options) (*Bitmap, error) {
	th := opts.Threshold
	if th == 0 {
		th = DefaultThreshold
	}
	if th < 0 || th > 255 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "threshold %d out of range [0, 255]", th)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyGeometry, "image has no pixels")
	}
	if opts.MaxSize > 0 && (b.Dx() > opts.MaxSize || b.Dy() > opts.MaxSize) {
		img = imaging.Fit(img, opts.MaxSize, opts.MaxSize, imaging.Box)
	}
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Grayscale leaves R == G == B; transparent pixels count as light.
			px := gray.NRGBAAt(x, y)
			lum := int(px.R)
			if px.A == 0 {
				lum = 255
			}
			dark := lum < th
			out.Set(x, h-1-y, dark != opts.Invert)
		}
	}
	return out, nil
}
