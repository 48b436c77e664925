// Command glassdemo composites a refractive glass panel over a
// background image and writes the result to a PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/gogpu/glass"
)

func main() {
	var (
		width      = flag.Int("width", 800, "image width")
		height     = flag.Int("height", 600, "image height")
		output     = flag.String("output", "glass.png", "output file")
		background = flag.String("background", "", "background image (png, jpeg, exr); procedural if empty")

		panelW = flag.Float64("panel-width", 360, "glass panel width")
		panelH = flag.Float64("panel-height", 220, "glass panel height")
		corner = flag.Float64("corner", 32, "panel corner radius")

		ior    = flag.Float64("ior", 1.45, "index of refraction (1.0-2.0)")
		ca     = flag.Float64("ca", 0.012, "chromatic aberration (0-0.05)")
		disp   = flag.Float64("displacement", 1.2, "refraction displacement (0-3)")
		fres   = flag.Float64("fresnel", 0.3, "fresnel rim strength (0-1)")
		blur   = flag.Float64("blur", 2.5, "background blur radius (0-10)")
		tintA  = flag.Float64("tint-alpha", 0.15, "tint strength (0-1)")
		tintC  = flag.String("tint", "0.85,0.92,1.0", "tint color r,g,b")
		useGPU = flag.Bool("gpu", true, "use GPU accelerator if registered")
	)
	flag.Parse()

	bg, err := loadOrGenerate(*background, *width, *height)
	if err != nil {
		log.Fatalf("Failed to load background: %v", err)
	}

	params := glass.Params{
		IOR:                 *ior,
		ChromaticAberration: *ca,
		Displacement:        *disp,
		Fresnel:             *fres,
		Blur:                *blur,
		Tint:                parseTint(*tintC, *tintA),
		Enabled:             true,
	}

	var opts []glass.RendererOption
	if !*useGPU {
		opts = append(opts, glass.WithoutAccelerator())
	}
	r := glass.NewRenderer(*width, *height, opts...)
	defer r.Close()

	panel := glass.NewPanel(*panelW, *panelH, *corner)
	r.SetPanel(panel, glass.V2(float64(*width)/2, float64(*height)/2))

	dst := glass.NewPixmap(*width, *height)
	if err := r.Render(dst, bg, params); err != nil {
		log.Fatalf("Failed to composite: %v", err)
	}

	if err := dst.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Glass demo saved to %s (%dx%d)\n", *output, *width, *height)
}

func loadOrGenerate(path string, w, h int) (*glass.Pixmap, error) {
	if path == "" {
		return generateBackground(w, h), nil
	}
	pm, err := glass.LoadBackground(path)
	if err != nil {
		return nil, err
	}
	if pm.Width() != w || pm.Height() != h {
		pm = glass.Snapshot(pm, w, h)
	}
	return pm, nil
}

// generateBackground draws a vertical gradient with scattered discs so
// the refraction and blur have structure to bend.
func generateBackground(w, h int) *glass.Pixmap {
	pm := glass.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h)
		row := glass.RGB(0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2)
		for x := 0; x < w; x++ {
			pm.SetPixel(x, y, row)
		}
	}

	discs := []struct {
		cx, cy, r float64
		c         glass.RGBA
	}{
		{float64(w) * 0.25, float64(h) * 0.3, 70, glass.RGB(1, 0.3, 0.3)},
		{float64(w) * 0.7, float64(h) * 0.25, 55, glass.RGB(0.3, 1, 0.3)},
		{float64(w) * 0.5, float64(h) * 0.7, 90, glass.RGB(1, 0.8, 0)},
		{float64(w) * 0.85, float64(h) * 0.65, 45, glass.RGB(0.3, 0.3, 1)},
	}
	for _, d := range discs {
		x0 := int(d.cx - d.r)
		x1 := int(d.cx + d.r)
		y0 := int(d.cy - d.r)
		y1 := int(d.cy + d.r)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dx := float64(x) - d.cx
				dy := float64(y) - d.cy
				if math.Sqrt(dx*dx+dy*dy) <= d.r {
					pm.SetPixel(x, y, d.c)
				}
			}
		}
	}
	return pm
}

func parseTint(s string, alpha float64) glass.RGBA {
	var r, g, b float64
	if n, err := fmt.Sscanf(s, "%f,%f,%f", &r, &g, &b); err != nil || n != 3 {
		log.Printf("Invalid tint %q, using white", s)
		r, g, b = 1, 1, 1
	}
	return glass.RGBA{R: r, G: g, B: b, A: alpha}
}
