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

import "fmt"

// DefaultMinVertices is the vertex-count threshold below which a
// traced polygon is discarded as noise.
const DefaultMinVertices = 24

// TraceConfig holds the tunable parameters of the boundary tracer.
type TraceConfig struct {
	// MinVertices discards polygons whose final vertex count is at or
	// below this threshold. Zero selects DefaultMinVertices.
	MinVertices int
}

// TraceError reports a boundary walk that could not return to its
// starting pixel. Every non-isolated boundary pixel has exactly two
// boundary neighbors by construction, so an unclosable walk means
// the mask (or the grower that produced it) is defective.
type TraceError struct {
	X, Y     int     // pixel where the walk got stuck
	Snapshot *Canvas // mask with the offending pixel marked
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("certpoly: boundary walk stuck at pixel (%d,%d): boundary is not a simple loop", e.X, e.Y)
}

// Trace converts the boundary mask produced by Grow into closed
// rectilinear polygons in rational plane coordinates. The mask is
// consumed destructively: every boundary pixel is visited at most
// once. Isolated boundary pixels are discarded silently; an
// unclosable walk returns a *TraceError.
func Trace(mask *Canvas, s Scale, cfg TraceConfig) ([]*Polygon, error) {
	if cfg.MinVertices == 0 {
		cfg.MinVertices = DefaultMinVertices
	}

	var polys []*Polygon
	// Consumed pixels never revert, so one forward scan over the mask
	// finds every start pixel.
	scan := 0
	for {
		startX, startY := -1, -1
		for ; scan < mask.Width*mask.Height; scan++ {
			if mask.pix[scan] == ClassBoundary {
				startX = scan % mask.Width
				startY = scan / mask.Width
				break
			}
		}
		if startX < 0 {
			return polys, nil
		}

		// The start pixel has two unconsumed boundary neighbors;
		// pick one in fixed order to establish the walk direction.
		nx, ny, ok := nextBoundary(mask, startX, startY)
		if !ok {
			// A lone boundary pixel is noise, not a polygon.
			mask.Set(startX, startY, ClassVisited)
			continue
		}

		p := NewPolygon(s)
		mask.Set(nx, ny, ClassVisited)
		p.Add(s.PixelToRational(startX), s.PixelToRational(startY))
		p.Add(s.PixelToRational(nx), s.PixelToRational(ny))

		x, y := nx, ny
		for x != startX || y != startY {
			nx, ny, ok = nextBoundary(mask, x, y)
			if !ok {
				snap := mask.Copy()
				snap.Crosshair(x, y, ClassMark)
				return nil, &TraceError{X: x, Y: y, Snapshot: snap}
			}
			mask.Set(nx, ny, ClassVisited)
			p.Add(s.PixelToRational(nx), s.PixelToRational(ny))
			x, y = nx, ny
		}

		p.TrimColinearSeam()
		if p.Len() > cfg.MinVertices {
			if len(polys) == MaxPolygons {
				return nil, fmt.Errorf("certpoly: more than %d polygons in one mask", MaxPolygons)
			}
			polys = append(polys, p)
		}
	}
}

// nextBoundary returns the first unconsumed boundary 4-neighbor of
// (x, y), checked in the fixed order +x, -x, -y, +y.
func nextBoundary(mask *Canvas, x, y int) (int, int, bool) {
	switch {
	case mask.At(x+1, y) == ClassBoundary:
		return x + 1, y, true
	case mask.At(x-1, y) == ClassBoundary:
		return x - 1, y, true
	case mask.At(x, y-1) == ClassBoundary:
		return x, y - 1, true
	case mask.At(x, y+1) == ClassBoundary:
		return x, y + 1, true
	}
	return 0, 0, false
}
