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

package certpoly

import (
	"image"
	"image/color"
	"testing"
)

func TestLineVHClampsEndpoints(t *testing.T) {
	c := NewCanvas(16, 16)
	c.LineVH(-5, 3, 100, 3, ClassMark)
	for x := 0; x < 16; x++ {
		if c.At(x, 3) != ClassMark {
			t.Fatalf("pixel (%d,3) not drawn", x)
		}
	}
	// A diagonal endpoint pair draws nothing.
	c.LineVH(0, 0, 5, 5, ClassMark)
	if c.At(2, 2) == ClassMark {
		t.Error("diagonal line drew pixels")
	}
}

func TestCrosshair(t *testing.T) {
	c := NewCanvas(64, 64)
	c.Crosshair(30, 30, ClassMark)
	for _, px := range [][2]int{{0, 20}, {63, 40}, {20, 0}, {40, 63}} {
		if c.At(px[0], px[1]) != ClassMark {
			t.Errorf("pixel (%d,%d) not part of the crosshair", px[0], px[1])
		}
	}
	if c.At(30, 30) == ClassMark {
		t.Error("crosshair covered the marked pixel itself")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Fill(ClassExterior)
	d := c.Copy()
	d.Set(4, 4, ClassInterior)
	if c.At(4, 4) != ClassExterior {
		t.Error("mutating the copy changed the original")
	}
}

func TestImageRoundTrip(t *testing.T) {
	c := blockCanvas(32, 10, 20)
	c.Set(5, 5, ClassUndetermined)

	d, err := NewCanvasFromImage(c.Image())
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			if d.At(x, y) != c.At(x, y) {
				t.Fatalf("pixel (%d,%d): have %d, want %d", x, y, d.At(x, y), c.At(x, y))
			}
		}
	}
}

func TestNewCanvasFromImageRejectsUnknownColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	img.Set(2, 2, color.RGBA{255, 0, 0, 255})

	if _, err := NewCanvasFromImage(img); err == nil {
		t.Error("invalid color accepted")
	}
}
