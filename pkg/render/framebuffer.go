// Package render draws the 2D output of a 3D view: a pixel framebuffer with
// line drawing, half-block terminal output and PNG export.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Resize reallocates the pixel storage when the dimensions change.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]color.RGBA, width*height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawLineF draws a line between real-valued pixel positions. The segment
// is clipped to the framebuffer first, so far-away endpoints cost nothing;
// segments with a NaN or infinite coordinate are skipped.
func (fb *Framebuffer) DrawLineF(x0, y0, x1, y1 float64, c color.RGBA) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	// Liang-Barsky against [-0.5, W-0.5] x [-0.5, H-0.5].
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return false
			}
			t1 = math.Min(t1, r)
		}
		return true
	}
	w, h := float64(fb.Width)-0.5, float64(fb.Height)-0.5
	if !clip(-dx, x0+0.5) || !clip(dx, w-x0) || !clip(-dy, y0+0.5) || !clip(dy, h-y0) {
		return
	}
	fb.DrawLine(
		int(math.Round(x0+t0*dx)), int(math.Round(y0+t0*dy)),
		int(math.Round(x0+t1*dx)), int(math.Round(y0+t1*dy)),
		c,
	)
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// Label is text placed on an exported image, in framebuffer pixels.
type Label struct {
	X, Y  float64
	Text  string
	Color color.RGBA
}

// Image returns the framebuffer enlarged by scale with nearest-neighbour
// sampling, so each pixel becomes a crisp square, with labels drawn on top.
func (fb *Framebuffer) Image(scale int, labels ...Label) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := fb.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	for _, l := range labels {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(l.Color),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(int(l.X*float64(scale)), int(l.Y*float64(scale))),
		}
		d.DrawString(l.Text)
	}
	return dst
}

// SavePNG saves the framebuffer, enlarged by scale, as a PNG file.
func (fb *Framebuffer) SavePNG(path string, scale int, labels ...Label) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	if err := png.Encode(f, fb.Image(scale, labels...)); err != nil {
		f.Close()
		return fmt.Errorf("encode png %s: %w", path, err)
	}
	return f.Close()
}
