/*
Copyright © 2019 the CertPoly authors.
This file is part of CertPoly.

CertPoly is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CertPoly is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CertPoly.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package certpoly extracts closed rectilinear polygons bounding the
// certain interior and exterior regions of a classified raster, and
// answers exact point-membership queries against the resulting
// polygon set.
package certpoly

import (
	"fmt"
	"image"
	"image/color"
)

// Class is the classification of a single raster pixel.
type Class byte

const (
	// ClassUndetermined marks pixels whose membership could not be
	// resolved by the upstream computation.
	ClassUndetermined Class = iota

	// ClassExterior marks certainly-exterior pixels.
	ClassExterior

	// ClassInterior marks certainly-interior pixels.
	ClassInterior

	// ClassBoundary marks pixels of the single-pixel-wide region
	// boundary produced by Grow.
	ClassBoundary

	// ClassVisited marks boundary pixels already consumed by the
	// tracer.
	ClassVisited

	// ClassInteriorPoly and ClassExteriorPoly are the colors interior
	// and exterior polygons are drawn in during quality control.
	ClassInteriorPoly
	ClassExteriorPoly

	// ClassMark is the diagnostic crosshair color.
	ClassMark

	// ClassActive is the working class used while growing regions.
	ClassActive Class = 16
)

// Palette maps pixel classes to display colors for image I/O.
// Indexes beyond the defined classes are black.
var Palette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.RGBA{A: 255}
	}
	p[ClassUndetermined] = color.RGBA{127, 127, 127, 255}
	p[ClassExterior] = color.RGBA{255, 255, 255, 255}
	p[ClassInterior] = color.RGBA{0, 0, 0, 255}
	p[ClassBoundary] = color.RGBA{0, 0, 255, 255}
	p[ClassVisited] = color.RGBA{255, 255, 0, 255}
	p[ClassInteriorPoly] = color.RGBA{255, 255, 0, 255}
	p[ClassExteriorPoly] = color.RGBA{0, 0, 255, 255}
	p[ClassMark] = color.RGBA{255, 0, 0, 255}
	p[ClassActive] = color.RGBA{0, 255, 127, 255}
	return p
}()

// Canvas is a fixed-size grid of pixel classes. It is mutated in
// place and owned exclusively by whichever pass is using it.
type Canvas struct {
	Width, Height int
	pix           []Class
}

// NewCanvas creates a canvas of the given size with every pixel set
// to ClassUndetermined.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		pix:    make([]Class, width*height),
	}
}

// At returns the class of the pixel at (x, y).
func (c *Canvas) At(x, y int) Class {
	return c.pix[y*c.Width+x]
}

// Set sets the class of the pixel at (x, y).
func (c *Canvas) Set(x, y int, v Class) {
	c.pix[y*c.Width+x] = v
}

// Fill sets every pixel to v.
func (c *Canvas) Fill(v Class) {
	for i := range c.pix {
		c.pix[i] = v
	}
}

// FillRect fills the axis-aligned rectangle spanned by (ax, ay) and
// (bx, by), inclusive.
func (c *Canvas) FillRect(ax, ay, bx, by int, v Class) {
	x0, x1 := minMax(ax, bx)
	y0, y1 := minMax(ay, by)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y, v)
		}
	}
}

// LineVH draws a horizontal or vertical line from (ax, ay) to
// (bx, by), clamping both endpoints to the canvas. Diagonal endpoint
// pairs draw nothing.
func (c *Canvas) LineVH(ax, ay, bx, by int, v Class) {
	ax = clamp(ax, 0, c.Width-1)
	bx = clamp(bx, 0, c.Width-1)
	ay = clamp(ay, 0, c.Height-1)
	by = clamp(by, 0, c.Height-1)
	switch {
	case ax == bx:
		y0, y1 := minMax(ay, by)
		for y := y0; y <= y1; y++ {
			c.Set(ax, y, v)
		}
	case ay == by:
		x0, x1 := minMax(ax, bx)
		for x := x0; x <= x1; x++ {
			c.Set(x, ay, v)
		}
	}
}

// Crosshair draws diagnostic crosshair lines around (x, y) so the
// offending pixel of a failed run can be located in the saved image.
func (c *Canvas) Crosshair(x, y int, v Class) {
	c.LineVH(0, y-10, c.Width-1, y-10, v)
	c.LineVH(0, y+10, c.Width-1, y+10, v)
	c.LineVH(x-10, 0, x-10, c.Height-1, v)
	c.LineVH(x+10, 0, x+10, c.Height-1, v)
}

// Copy returns a deep copy of the canvas.
func (c *Canvas) Copy() *Canvas {
	o := NewCanvas(c.Width, c.Height)
	copy(o.pix, c.pix)
	return o
}

// Image converts the canvas to a paletted image using the standard
// palette.
func (c *Canvas) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width, c.Height), Palette)
	for i, v := range c.pix {
		img.Pix[i] = uint8(v)
	}
	return img
}

// NewCanvasFromImage converts a classification image to a canvas.
// Pixel colors are matched by brightness so images from different
// sources can be used: near-black is interior, near-white exterior,
// and mid-range gray undetermined. Any other color is an error.
func NewCanvasFromImage(img image.Image) (*Canvas, error) {
	b := img.Bounds()
	c := NewCanvas(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			r8, g8, b8 := r>>8, g>>8, bl>>8
			var v Class
			switch {
			case r8 < 20 && g8 < 20 && b8 < 20:
				v = ClassInterior
			case r8 > 230 && g8 > 230 && b8 > 230:
				v = ClassExterior
			case r8 > 50 && g8 > 50 && b8 > 50 && r8 < 200 && g8 < 200 && b8 < 200:
				v = ClassUndetermined
			default:
				return nil, fmt.Errorf("certpoly: invalid color (%d,%d,%d) at image pixel (%d,%d)",
					r8, g8, b8, x-b.Min.X, y-b.Min.Y)
			}
			c.Set(x-b.Min.X, y-b.Min.Y, v)
		}
	}
	return c, nil
}

func clamp(a, lo, hi int) int {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
