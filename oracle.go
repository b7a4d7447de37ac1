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
	"fmt"
	"math"
)

// Result is the outcome of a point-membership query.
type Result int

const (
	// Undetermined means membership could not be decided.
	Undetermined Result = iota
	// Interior means the point certainly lies inside.
	Interior
	// Boundary means the point lies exactly on a polygon edge. Only
	// the single-polygon oracle surfaces this; the Set oracle folds
	// it into Undetermined.
	Boundary
	// Exterior means the point certainly lies outside.
	Exterior
)

func (r Result) String() string {
	switch r {
	case Undetermined:
		return "undetermined"
	case Interior:
		return "interior"
	case Boundary:
		return "boundary"
	case Exterior:
		return "exterior"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// DiagonalError reports a non-axis-aligned edge encountered during
// classification. Polygons are rectilinear by construction, so this
// is an invariant violation, not a query failure.
type DiagonalError struct {
	Index    int // index of the edge's first vertex
	From, To Vertex
}

func (e *DiagonalError) Error() string {
	return fmt.Sprintf("certpoly: diagonal edge #%d (%d,%d)->(%d,%d) in rectilinear polygon",
		e.Index, e.From.X, e.From.Y, e.To.X, e.To.Y)
}

// Classify decides whether the rational point (ax, ay) lies inside,
// outside, or on the boundary of p, using an even-odd ray cast along
// the +x horizontal ray. The test is exact: ax and ay must be scaled
// by the polygon's denominator.
//
// This is a simplification, for rectilinear polygons, of the
// even-odd algorithm of Galetzka and Glauner ("A Simple and Correct
// Even-Odd Algorithm for the Point-in-Polygon Problem for Complex
// Polygons", 2017).
func (p *Polygon) Classify(ax, ay int64) (Result, error) {
	if ax < p.xmin || ax > p.xmax || ay < p.ymin || ay > p.ymax {
		return Exterior, nil
	}

	even := true
	n := len(p.pts)
	i := 0
	for i < n-1 {
		if p.useJump {
			i = p.yJump[i]
		} else {
			i++
		}
		if i >= n {
			break
		}
		a, b := p.pts[i-1], p.pts[i]
		switch {
		case a.X == b.X: // vertical edge
			miy, may := minMax64(a.Y, b.Y)
			if b.X == ax && miy <= ay && ay <= may {
				return Boundary, nil
			}
			if ax < b.X && miy <= ay && ay <= may {
				if ay == b.Y {
					// The ray passes exactly through the edge's far
					// endpoint. Toggle parity only if the polygon
					// passes through that height there; a local
					// extremum merely touches the ray.
					y0, y1 := a.Y, b.Y
					var y2 int64
					if i < n-1 {
						y2 = p.pts[i+1].Y
					} else {
						y2 = p.pts[1].Y
					}
					if (y0 < y1 && y1 < y2) || (y0 > y1 && y1 > y2) {
						even = !even
					}
				} else if miy < ay && ay < may {
					even = !even
				}
			}
		case a.Y == b.Y: // horizontal edge
			minx, maxx := minMax64(a.X, b.X)
			if b.Y == ay && minx <= ax && ax <= maxx {
				return Boundary, nil
			}
			if ay == b.Y && minx > ax {
				// The edge is colinear with the ray and strictly to
				// its +x side. Whether parity toggles depends on the
				// vertices flanking the edge: a through-step toggles,
				// a touch does not.
				//
				//	|  |
				//	----   touch: no toggle
				//
				//	|
				//	---    through: toggle
				//	  |
				var y0 int64
				if i > 1 {
					y0 = p.pts[i-2].Y
				} else {
					y0 = p.pts[n-2].Y
				}
				y1 := b.Y
				var y2 int64
				if i < n-1 {
					y2 = p.pts[i+1].Y
				} else {
					y2 = p.pts[1].Y
				}
				if (y0 < y1 && y1 < y2) || (y0 > y1 && y1 > y2) {
					even = !even
				}
			}
		default:
			return Undetermined, &DiagonalError{Index: i - 1, From: a, To: b}
		}
	}

	if even {
		return Exterior, nil
	}
	return Interior, nil
}

// MaxPolygons caps the number of polygons of each kind in a Set.
const MaxPolygons = 16384

// neighborhoodRadius is the half-width, in rational units, of the
// block the Set oracle tests around a query point. Requiring the
// whole block, not just the point, guards against boundary-adjacent
// false positives.
const neighborhoodRadius = 2

// Set holds the interior and exterior polygon collections of one
// extraction run. Membership is read-only during classification.
type Set struct {
	Interior []*Polygon
	Exterior []*Polygon
}

// Classify decides whether the plane point (ax, ay) certainly lies
// inside the classified region, certainly outside, or cannot be
// determined. Interior requires one interior polygon to contain the
// whole query neighborhood; Exterior requires every exterior polygon
// to exclude the whole neighborhood.
func (s *Set) Classify(ax, ay float64) (Result, error) {
	const r = neighborhoodRadius
	const area = (2*r + 1) * (2*r + 1)

	for _, p := range s.Interior {
		px := int64(math.Floor(ax * float64(p.Denominator)))
		py := int64(math.Floor(ay * float64(p.Denominator)))
		in := 0
		for dy := int64(-r); in >= 0 && dy <= r; dy++ {
			for dx := int64(-r); in >= 0 && dx <= r; dx++ {
				res, err := p.Classify(px+dx, py+dy)
				if err != nil {
					return Undetermined, err
				}
				if res == Interior {
					in++
				} else {
					in = -1
				}
			}
		}
		if in == area {
			return Interior, nil
		}
	}

	out := Undetermined
	for _, p := range s.Exterior {
		if p.Len() == 0 {
			continue
		}
		px := int64(math.Floor(ax * float64(p.Denominator)))
		py := int64(math.Floor(ay * float64(p.Denominator)))
		ex := 0
		for dy := int64(-r); ex >= 0 && dy <= r; dy++ {
			for dx := int64(-r); ex >= 0 && dx <= r; dx++ {
				res, err := p.Classify(px+dx, py+dy)
				if err != nil {
					return Undetermined, err
				}
				if res == Exterior {
					ex++
				} else {
					ex = -1
				}
			}
		}
		if ex != area {
			return Undetermined, nil
		}
		out = Exterior
	}
	if out == Exterior && len(s.Exterior) > 0 {
		return Exterior, nil
	}
	return Undetermined, nil
}

// PrepareY builds the jump tables of every polygon in the set for a
// batch of queries at plane row ay.
func (s *Set) PrepareY(ay float64) {
	for _, p := range s.Interior {
		p.PrepareY(int64(math.Floor(ay * float64(p.Denominator))))
	}
	for _, p := range s.Exterior {
		p.PrepareY(int64(math.Floor(ay * float64(p.Denominator))))
	}
}

// UnprepareY disables the jump tables of every polygon in the set.
func (s *Set) UnprepareY() {
	for _, p := range s.Interior {
		p.UnprepareY()
	}
	for _, p := range s.Exterior {
		p.UnprepareY()
	}
}

func minMax64(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}
