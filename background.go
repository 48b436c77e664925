package glass

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg" // background decoding
	_ "image/png"  // background decoding
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-openexr/exr"
	"golang.org/x/image/draw"
)

// Snapshot materializes an arbitrary background image as an immutable
// pixmap at the evaluation resolution. This is the per-frame background
// snapshot the optical core samples from: once built, it never changes
// for the duration of the frame.
//
// Scaling uses Catmull-Rom resampling from golang.org/x/image.
func Snapshot(img image.Image, width, height int) *Pixmap {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return FromImage(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	pm := NewPixmap(width, height)
	copy(pm.data, dst.Pix)
	return pm
}

// LoadBackground reads a background image from disk. PNG and JPEG decode
// through the standard image registry; OpenEXR files decode through
// go-openexr with HDR values clamped to the displayable [0, 1] range.
func LoadBackground(path string) (*Pixmap, error) {
	if strings.EqualFold(filepath.Ext(path), ".exr") {
		return loadEXR(path)
	}

	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("glass: open background: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("glass: decode background: %w", err)
	}
	return FromImage(img), nil
}

// loadEXR reads the R, G and B channels of a scanline EXR file into a
// pixmap. Deep and multi-part images are out of scope; the first header
// is used.
func loadEXR(path string) (*Pixmap, error) {
	f, err := exr.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("glass: open exr: %w", err)
	}

	header := f.Header(0)
	dw := header.DataWindow()
	width := int(dw.Width())
	height := int(dw.Height())
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glass: exr has empty data window")
	}

	reader, err := exr.NewScanlineReader(f)
	if err != nil {
		return nil, fmt.Errorf("glass: exr reader: %w", err)
	}

	rData := make([]byte, width*height*4)
	gData := make([]byte, width*height*4)
	bData := make([]byte, width*height*4)

	fb := exr.NewFrameBuffer()
	fb.Set("R", exr.NewSlice(exr.PixelTypeFloat, rData, width, height))
	fb.Set("G", exr.NewSlice(exr.PixelTypeFloat, gData, width, height))
	fb.Set("B", exr.NewSlice(exr.PixelTypeFloat, bData, width, height))

	reader.SetFrameBuffer(fb)
	if err := reader.ReadPixels(int(dw.Min.Y), int(dw.Max.Y)); err != nil {
		return nil, fmt.Errorf("glass: exr pixels: %w", err)
	}

	pm := NewPixmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			pm.SetPixel(x, y, RGBA{
				R: clampF(float64(exrFloat(rData[i:])), 0, 1),
				G: clampF(float64(exrFloat(gData[i:])), 0, 1),
				B: clampF(float64(exrFloat(bData[i:])), 0, 1),
				A: 1,
			})
		}
	}
	return pm, nil
}

// exrFloat decodes one little-endian float32 channel sample.
func exrFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
