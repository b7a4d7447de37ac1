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

const (
	// DefaultGranularity is the default side length of the solid-color
	// kernels the region grower searches for.
	DefaultGranularity = 5

	// minGranularity is the smallest kernel that leaves an interior
	// after excluding the one-pixel rim.
	minGranularity = 3

	// BorderWidth is the width of the exterior border the input raster
	// is contractually surrounded by.
	BorderWidth = 16
)

// GrowConfig holds the tunable parameters of the region grower.
type GrowConfig struct {
	// Granularity is the kernel side length G. Values below 3 are
	// raised to 3; zero selects DefaultGranularity.
	Granularity int

	// Border is the width of the raster rim that is unconditionally
	// part of the exterior region. Zero selects BorderWidth.
	Border int
}

func (cfg *GrowConfig) setDefaults() {
	if cfg.Granularity == 0 {
		cfg.Granularity = DefaultGranularity
	}
	if cfg.Granularity < minGranularity {
		cfg.Granularity = minGranularity
	}
	if cfg.Border == 0 {
		cfg.Border = BorderWidth
	}
}

// Grow scans src for solid kernels of the target class, fuses the
// resulting active regions across small gaps, and returns a new
// canvas whose ClassBoundary pixels form the single-pixel-wide closed
// boundaries of the grown regions. src is not modified.
func Grow(src *Canvas, target Class, cfg GrowConfig) *Canvas {
	cfg.setDefaults()
	work := src.Copy()

	markKernels(work, target, cfg.Granularity)

	// Fuse to a fixed point. The active set only ever grows, so the
	// pass count is bounded by the pixel count.
	for i := 0; i < work.Width*work.Height; i++ {
		if !fuseSnippets(work, target) {
			break
		}
	}

	// The raster is contractually bordered by exterior color, so the
	// outer rim always belongs to the exterior region.
	if target == ClassExterior {
		b := cfg.Border
		work.FillRect(0, 0, work.Width-1, b-1, ClassActive)
		work.FillRect(0, work.Height-b, work.Width-1, work.Height-1, ClassActive)
		work.FillRect(0, 0, b-1, work.Height-1, ClassActive)
		work.FillRect(work.Width-b, 0, work.Width-1, work.Height-1, ClassActive)
	}

	markBoundary(work, target)
	return work
}

// markKernels tiles the canvas with a G-step grid and marks the
// interior of every tile fully uniform in the target class as active,
// leaving the one-pixel tile rim unchanged.
func markKernels(c *Canvas, target Class, g int) {
	for y := 0; y < c.Height-g; y += g {
		for x := 0; x < c.Width-g; x += g {
			if c.At(x, y) != target {
				continue
			}
			solid := true
			for dy := 0; solid && dy < g; dy++ {
				for dx := 0; dx < g; dx++ {
					if c.At(x+dx, y+dy) != target {
						solid = false
						break
					}
				}
			}
			if !solid {
				continue
			}
			for y2 := y + 1; y2 < y+g-1; y2++ {
				for x2 := x + 1; x2 < x+g-1; x2++ {
					c.Set(x2, y2, ClassActive)
				}
			}
		}
	}
}

// fuseSnippets runs one fusion pass: wherever two active pixels are
// separated by one or two pixels of the target class along a row or
// column, and the gap's flanking rows or columns are free of
// undetermined pixels, the gap is promoted to active. It reports
// whether any pixel changed.
func fuseSnippets(c *Canvas, target Class) bool {
	changed := false
	for y := 1; y < c.Height-2; y++ {
		for x := 1; x < c.Width-2; x++ {
			if c.At(x, y) != target {
				continue
			}
			switch {
			case c.At(x-1, y) == ClassActive && c.At(x+1, y) == target &&
				c.At(x+2, y) == ClassActive:
				if flankFreeH(c, x, y, 2) {
					c.Set(x, y, ClassActive)
					c.Set(x+1, y, ClassActive)
					changed = true
				}
			case c.At(x-1, y) == ClassActive && c.At(x+1, y) == ClassActive:
				if flankFreeH(c, x, y, 1) {
					c.Set(x, y, ClassActive)
					changed = true
				}
			case c.At(x, y-1) == ClassActive && c.At(x, y+1) == target &&
				c.At(x, y+2) == ClassActive:
				if flankFreeV(c, x, y, 2) {
					c.Set(x, y, ClassActive)
					c.Set(x, y+1, ClassActive)
					changed = true
				}
			case c.At(x, y-1) == ClassActive && c.At(x, y+1) == ClassActive:
				if flankFreeV(c, x, y, 1) {
					c.Set(x, y, ClassActive)
					changed = true
				}
			}
		}
	}
	return changed
}

// flankFreeH reports whether the rows above and below a horizontal
// gap of the given length starting at (x, y) contain no undetermined
// pixels. The window runs from the gap start through one pixel past
// the far active pixel.
func flankFreeH(c *Canvas, x, y, gap int) bool {
	for dx := 0; dx <= gap+1; dx++ {
		if c.At(x+dx, y-1) == ClassUndetermined ||
			c.At(x+dx, y+1) == ClassUndetermined {
			return false
		}
	}
	return true
}

// flankFreeV is the vertical counterpart of flankFreeH.
func flankFreeV(c *Canvas, x, y, gap int) bool {
	for dy := 0; dy <= gap+1; dy++ {
		if c.At(x-1, y+dy) == ClassUndetermined ||
			c.At(x+1, y+dy) == ClassUndetermined {
			return false
		}
	}
	return true
}

// markBoundary reclassifies every active pixel with at least one
// 8-connected neighbor of the target class as a boundary pixel. The
// remaining active pixels play no further role.
func markBoundary(c *Canvas, target Class) {
	for y := 1; y < c.Height-1; y++ {
		for x := 1; x < c.Width-1; x++ {
			if c.At(x, y) == ClassActive && hasNeighbor8(c, x, y, target) {
				c.Set(x, y, ClassBoundary)
			}
		}
	}
}

// hasNeighbor8 reports whether any of the eight neighbors of (x, y)
// has class v.
func hasNeighbor8(c *Canvas, x, y int, v Class) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && c.At(x+dx, y+dy) == v {
				return true
			}
		}
	}
	return false
}

// BorderPresent reports whether the raster is surrounded by an
// exterior-class border of at least the given width. Zero selects
// BorderWidth.
func BorderPresent(c *Canvas, border int) bool {
	if border == 0 {
		border = BorderWidth
	}
	for a := 0; a < border; a++ {
		for b := 0; b < c.Width; b++ {
			if c.At(a, b) != ClassExterior ||
				c.At(c.Width-1-a, b) != ClassExterior ||
				c.At(b, a) != ClassExterior ||
				c.At(b, c.Height-1-a) != ClassExterior {
				return false
			}
		}
	}
	return true
}
