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

// DrawPolygon rasterizes the polygon's edges onto the canvas in
// class v, mapping plane coordinates to pixels with s.
func DrawPolygon(c *Canvas, p *Polygon, s Scale, v Class) {
	d := float64(p.Denominator)
	lx, ly := -1, -1
	for _, pt := range p.Vertices() {
		x := s.PlaneToPixel(float64(pt.X) / d)
		y := s.PlaneToPixel(float64(pt.Y) / d)
		if lx >= 0 {
			c.LineVH(lx, ly, x, y, v)
		}
		lx, ly = x, y
	}
}

// DrawSet draws every polygon of the set onto the canvas, interior
// polygons in ClassInteriorPoly and exterior ones in
// ClassExteriorPoly.
func DrawSet(c *Canvas, set *Set, s Scale) {
	for _, p := range set.Interior {
		DrawPolygon(c, p, s, ClassInteriorPoly)
	}
	for _, p := range set.Exterior {
		DrawPolygon(c, p, s, ClassExteriorPoly)
	}
}
