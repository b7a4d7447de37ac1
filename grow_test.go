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

import "testing"

// blockCanvas returns an exterior-filled square canvas with an
// interior-class block spanning [a,b] on both axes.
func blockCanvas(size, a, b int) *Canvas {
	c := NewCanvas(size, size)
	c.Fill(ClassExterior)
	c.FillRect(a, a, b, b, ClassInterior)
	return c
}

func countClass(c *Canvas, v Class) int {
	n := 0
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			if c.At(x, y) == v {
				n++
			}
		}
	}
	return n
}

func TestGrowInteriorBlock(t *testing.T) {
	// Kernels of size 5 tile the block [20,44] exactly, so after
	// fusion the active area is the solid square [21,43] and the
	// boundary is its one-pixel rim.
	c := blockCanvas(64, 20, 44)
	mask := Grow(c, ClassInterior, GrowConfig{})

	want := 4*23 - 4
	if have := countClass(mask, ClassBoundary); have != want {
		t.Errorf("have %d boundary pixels, want %d", have, want)
	}
	for _, px := range [][2]int{{21, 21}, {43, 21}, {21, 43}, {43, 43}, {30, 21}} {
		if mask.At(px[0], px[1]) != ClassBoundary {
			t.Errorf("pixel (%d,%d) is %d, want boundary", px[0], px[1], mask.At(px[0], px[1]))
		}
	}
	if mask.At(30, 30) == ClassBoundary {
		t.Error("block center marked as boundary")
	}
}

func TestGrowBoundaryIsSimpleLoop(t *testing.T) {
	// Every boundary pixel of a well-formed mask has exactly two
	// boundary 4-neighbors. This is what the tracer relies on.
	c := blockCanvas(64, 20, 44)
	mask := Grow(c, ClassInterior, GrowConfig{})

	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) != ClassBoundary {
				continue
			}
			n := 0
			for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, -1}, {0, 1}} {
				if mask.At(x+d[0], y+d[1]) == ClassBoundary {
					n++
				}
			}
			if n != 2 {
				t.Fatalf("boundary pixel (%d,%d) has %d boundary neighbors, want 2", x, y, n)
			}
		}
	}
}

func TestGrowNeverCrossesUndetermined(t *testing.T) {
	// An undetermined pixel inside the block punches a hole in the
	// grown region: the surrounding fusions are blocked by the dirty
	// flanks, the pixel itself survives, and an inner boundary contour
	// appears around it in addition to the outer ring.
	c := blockCanvas(64, 20, 44)
	c.Set(30, 30, ClassUndetermined)
	mask := Grow(c, ClassInterior, GrowConfig{})

	if mask.At(30, 30) != ClassUndetermined {
		t.Errorf("undetermined pixel became %d", mask.At(30, 30))
	}
	outer := 4*23 - 4
	if have := countClass(mask, ClassBoundary); have <= outer {
		t.Errorf("have %d boundary pixels, want more than the outer ring's %d", have, outer)
	}
}

func TestGrowExteriorBorder(t *testing.T) {
	c := blockCanvas(256, 60, 140)
	mask := Grow(c, ClassExterior, GrowConfig{})

	// The whole rim is unconditionally exterior-active, so no boundary
	// pixel may appear near the canvas edge.
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) != ClassBoundary {
				continue
			}
			if x < BorderWidth || y < BorderWidth ||
				x >= mask.Width-BorderWidth || y >= mask.Height-BorderWidth {
				t.Fatalf("boundary pixel (%d,%d) inside the border rim", x, y)
			}
		}
	}
	if countClass(mask, ClassBoundary) == 0 {
		t.Error("no exterior boundary around the block")
	}
}

func TestBorderPresent(t *testing.T) {
	c := blockCanvas(64, 20, 44)
	if !BorderPresent(c, 16) {
		t.Error("have false, want true")
	}
	c.Set(0, 30, ClassUndetermined)
	if BorderPresent(c, 16) {
		t.Error("have true, want false")
	}
}

func TestFusionFlankWindow(t *testing.T) {
	// The undetermined scan covers the gap pixels through one pixel
	// past the far active pixel; the near active pixel is outside the
	// window.
	mkH := func() *Canvas {
		c := NewCanvas(16, 16)
		c.Fill(ClassExterior)
		c.Set(3, 5, ClassActive)
		c.Set(4, 5, ClassInterior)
		c.Set(5, 5, ClassInterior)
		c.Set(6, 5, ClassActive)
		return c
	}

	c := mkH()
	c.Set(3, 4, ClassUndetermined) // above the near active pixel
	if !fuseSnippets(c, ClassInterior) {
		t.Error("fusion blocked by a pixel outside the flank window")
	}
	if c.At(4, 5) != ClassActive || c.At(5, 5) != ClassActive {
		t.Error("horizontal gap not promoted")
	}

	c = mkH()
	c.Set(7, 4, ClassUndetermined) // past the far active pixel
	if fuseSnippets(c, ClassInterior) {
		t.Error("fusion crossed a dirty flank")
	}
	if c.At(4, 5) != ClassInterior {
		t.Error("horizontal gap promoted across a dirty flank")
	}

	mkV := func() *Canvas {
		c := NewCanvas(16, 16)
		c.Fill(ClassExterior)
		c.Set(5, 3, ClassActive)
		c.Set(5, 4, ClassInterior)
		c.Set(5, 5, ClassInterior)
		c.Set(5, 6, ClassActive)
		return c
	}

	c = mkV()
	c.Set(4, 3, ClassUndetermined)
	if !fuseSnippets(c, ClassInterior) {
		t.Error("vertical fusion blocked by a pixel outside the flank window")
	}
	c = mkV()
	c.Set(4, 7, ClassUndetermined)
	if fuseSnippets(c, ClassInterior) {
		t.Error("vertical fusion crossed a dirty flank")
	}
}

func TestFusionReachesFixedPoint(t *testing.T) {
	c := blockCanvas(64, 20, 44)
	markKernels(c, ClassInterior, 5)
	for fuseSnippets(c, ClassInterior) {
	}
	if fuseSnippets(c, ClassInterior) {
		t.Error("fusion changed pixels after reaching its fixed point")
	}
}

func TestGrowGranularityFloor(t *testing.T) {
	// A granularity below 3 leaves no kernel interior; it is raised to
	// the minimum instead of producing an empty mask.
	c := blockCanvas(64, 20, 44)
	mask := Grow(c, ClassInterior, GrowConfig{Granularity: 1})
	if countClass(mask, ClassBoundary) == 0 {
		t.Error("no boundary pixels with clamped granularity")
	}
}
