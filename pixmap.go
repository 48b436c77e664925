package glass

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixmap is a tightly packed 8-bit RGBA pixel buffer. The renderer uses
// one pixmap for the background snapshot and one for the composited
// frame; the raw buffer is shared directly with the GPU accelerator and
// with texture upload, so the layout (row-major, 4 bytes per pixel, no
// row padding) is part of the contract.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a zeroed pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap in pixels.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap in pixels.
func (p *Pixmap) Height() int {
	return p.height
}

// Stride returns the length of one row in bytes.
func (p *Pixmap) Stride() int {
	return p.width * 4
}

// Data returns the raw RGBA pixel data.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// offset returns the byte index of pixel (x, y). Callers bounds-check.
func (p *Pixmap) offset(x, y int) int {
	return y*p.Stride() + x*4
}

// quant8 converts a [0, 1] component to its nearest byte value,
// matching the rounding of the GPU packer so CPU and GPU frames
// quantize identically. Out-of-range values clamp.
func quant8(v float64) uint8 {
	return uint8(clamp255(v*255 + 0.5))
}

// SetPixel writes one pixel. Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := p.offset(x, y)
	p.data[i+0] = quant8(c.R)
	p.data[i+1] = quant8(c.G)
	p.data[i+2] = quant8(c.B)
	p.data[i+3] = quant8(c.A)
}

// GetPixel reads one pixel. Out-of-bounds coordinates read transparent
// black, which keeps samplers total.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := p.offset(x, y)
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	if len(p.data) == 0 {
		return
	}
	p.data[0] = quant8(c.R)
	p.data[1] = quant8(c.G)
	p.data[2] = quant8(c.B)
	p.data[3] = quant8(c.A)
	// Doubling copy: fill the rest from the already-filled prefix.
	for filled := 4; filled < len(p.data); filled *= 2 {
		copy(p.data[filled:], p.data[:filled])
	}
}

// CopyFrom copies the contents of src into p. The pixmaps must have the
// same dimensions; mismatched sizes are ignored.
func (p *Pixmap) CopyFrom(src *Pixmap) {
	if src == nil || src.width != p.width || src.height != p.height {
		return
	}
	copy(p.data, src.data)
}

// ToImage copies the pixmap into an image.RGBA for encoding or display.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an arbitrary image. The image's
// top-left pixel maps to (0, 0) regardless of its bounds origin.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm := NewPixmap(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			pm.SetPixel(x, y, FromColor(c))
		}
	}

	return pm
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	img := p.ToImage()
	return png.Encode(f, img)
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
