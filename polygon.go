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

import "github.com/ctessum/geom"

// bboxMargin is the fixed expansion, in rational units, applied to a
// polygon's bounding box so that containment pre-checks stay robust
// for queries near the hull.
const bboxMargin = 8

// Vertex is a denominator-scaled rational point: X and Y are
// interpreted as X/D and Y/D for the owning polygon's denominator D.
type Vertex struct {
	X, Y int64
}

// Polygon is a closed rectilinear polygon with rational vertices.
// All vertices share one denominator. Vertices are appended through
// Add, which collapses colinear runs eagerly, so a finished polygon
// is colinear- and diagonal-free by construction everywhere except
// possibly across the start/end seam.
type Polygon struct {
	// Denominator is the rational denominator shared by all vertices.
	Denominator int64

	// Range0 and Range1 are the plane range the polygon was computed
	// against, per axis.
	Range0, Range1 float64

	pts []Vertex

	// Margin-expanded bounding box in rational units.
	xmin, xmax, ymin, ymax int64

	// Per-row next-relevant-edge jump table; used only between
	// PrepareY and UnprepareY.
	yJump   []int
	useJump bool
}

// NewPolygon creates an empty polygon for the plane range of s.
func NewPolygon(s Scale) *Polygon {
	return &Polygon{
		Denominator: Denominator,
		Range0:      s.Range0,
		Range1:      s.Range1,
	}
}

// Len returns the number of vertices, counting the closing duplicate
// of the first vertex.
func (p *Polygon) Len() int { return len(p.pts) }

// Vertex returns the i'th vertex.
func (p *Polygon) Vertex(i int) Vertex { return p.pts[i] }

// Vertices returns the vertex sequence. The returned slice is owned
// by the polygon and must not be modified.
func (p *Polygon) Vertices() []Vertex { return p.pts }

// Add appends a vertex. If the new vertex extends a straight
// horizontal or vertical run, the middle vertex of the run is
// overwritten instead, keeping the sequence colinear-free. The
// bounding box is expanded by the fixed margin as vertices arrive.
func (p *Polygon) Add(x, y int64) {
	p.extendBounds(x, y)
	if n := len(p.pts); n >= 2 {
		if (x == p.pts[n-1].X && x == p.pts[n-2].X) ||
			(y == p.pts[n-1].Y && y == p.pts[n-2].Y) {
			p.pts[n-1] = Vertex{X: x, Y: y}
			return
		}
	}
	p.pts = append(p.pts, Vertex{X: x, Y: y})
}

// appendRaw appends a vertex without colinear collapsing. It is used
// when reloading a persisted polygon, whose vertex sequence must be
// reproduced exactly.
func (p *Polygon) appendRaw(x, y int64) {
	p.extendBounds(x, y)
	p.pts = append(p.pts, Vertex{X: x, Y: y})
}

func (p *Polygon) extendBounds(x, y int64) {
	if len(p.pts) == 0 {
		p.xmin, p.xmax = x, x
		p.ymin, p.ymax = y, y
		return
	}
	if x-bboxMargin < p.xmin {
		p.xmin = x - bboxMargin
	}
	if x+bboxMargin > p.xmax {
		p.xmax = x + bboxMargin
	}
	if y-bboxMargin < p.ymin {
		p.ymin = y - bboxMargin
	}
	if y+bboxMargin > p.ymax {
		p.ymax = y + bboxMargin
	}
}

// TrimColinearSeam collapses the colinear run straddling the
// start/end seam of a closed polygon. The tracer's arbitrary
// starting pixel can bisect what is really one straight run; Add
// cannot see across the seam, so the run is trimmed here after
// closure.
func (p *Polygon) TrimColinearSeam() {
	for len(p.pts) >= 3 {
		n := len(p.pts)
		first, second, penult := p.pts[0], p.pts[1], p.pts[n-2]
		if (first.X == second.X && first.X == penult.X) ||
			(first.Y == second.Y && first.Y == penult.Y) {
			// The start vertex lies inside the run from the
			// second-to-last to the second vertex: drop the closing
			// duplicate and restart the ring at the second-to-last
			// vertex.
			p.pts = p.pts[:n-1]
			p.pts[0] = p.pts[len(p.pts)-1]
		} else {
			break
		}
	}
}

// Closed reports whether the first and last vertices coincide.
func (p *Polygon) Closed() bool {
	if len(p.pts) < 2 {
		return false
	}
	return p.pts[0] == p.pts[len(p.pts)-1]
}

// ColinearFree reports whether no three consecutive vertices,
// cyclically including the seam, share an x or a y coordinate.
func (p *Polygon) ColinearFree() bool {
	n := len(p.pts)
	for i := 2; i < n; i++ {
		if (p.pts[i-2].X == p.pts[i].X && p.pts[i-1].X == p.pts[i].X) ||
			(p.pts[i-2].Y == p.pts[i].Y && p.pts[i-1].Y == p.pts[i].Y) {
			return false
		}
	}
	if n >= 3 {
		// Across the seam: the last vertex duplicates the first.
		if (p.pts[n-2].X == p.pts[1].X && p.pts[0].X == p.pts[1].X) ||
			(p.pts[n-2].Y == p.pts[1].Y && p.pts[0].Y == p.pts[1].Y) {
			return false
		}
	}
	return true
}

// DiagonalFree reports whether every consecutive vertex pair shares
// an x or a y coordinate.
func (p *Polygon) DiagonalFree() bool {
	for i := 1; i < len(p.pts); i++ {
		if p.pts[i-1].X != p.pts[i].X && p.pts[i-1].Y != p.pts[i].Y {
			return false
		}
	}
	return true
}

// PrepareY builds the jump table for a batch of queries at rational
// row ay: during classification, edges whose y-span lies outside a
// small band around ay are skipped in O(1) instead of inspected one
// by one. The table has no effect on results.
func (p *Polygon) PrepareY(ay int64) {
	// The band is widened by a fixed buffer; admitting extra edges is
	// harmless, missing one is not.
	const buffer = 2

	if len(p.yJump) < len(p.pts) {
		p.yJump = make([]int, len(p.pts))
	}
	li := -1
	for i := 1; i < len(p.pts); i++ {
		y0, y1 := p.pts[i-1].Y, p.pts[i].Y
		if (y0 <= ay+buffer && y1 >= ay-buffer) ||
			(y0 >= ay-buffer && y1 <= ay+buffer) {
			if li >= 0 {
				p.yJump[li] = i
			} else {
				p.yJump[0] = i
			}
			li = i
		}
	}
	// Terminate the chain past the end of the vertex list.
	end := len(p.pts) + 16
	if li >= 0 {
		p.yJump[li] = end
	} else {
		p.yJump[0] = end
	}
	p.useJump = true
}

// UnprepareY disables the jump table.
func (p *Polygon) UnprepareY() {
	p.useJump = false
}

// Bounds returns the polygon's margin-expanded bounding box in plane
// units.
func (p *Polygon) Bounds() *geom.Bounds {
	d := float64(p.Denominator)
	return &geom.Bounds{
		Min: geom.Point{X: float64(p.xmin) / d, Y: float64(p.ymin) / d},
		Max: geom.Point{X: float64(p.xmax) / d, Y: float64(p.ymax) / d},
	}
}

// Geom returns the polygon as plane-unit geometry for the export
// surface.
func (p *Polygon) Geom() geom.Polygon {
	d := float64(p.Denominator)
	ring := make([]geom.Point, len(p.pts))
	for i, v := range p.pts {
		ring[i] = geom.Point{X: float64(v.X) / d, Y: float64(v.Y) / d}
	}
	return geom.Polygon{ring}
}
