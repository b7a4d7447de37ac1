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
	"math"

	"github.com/ctessum/geom"
)

// Denominator is the fixed power-of-two denominator shared by all
// vertices of a polygon. An integer coordinate v is interpreted as
// the rational v/Denominator in plane units.
const Denominator int64 = 1 << 25

// DefaultRange0 and DefaultRange1 are the plane range assumed when a
// persisted polygon does not carry one.
const (
	DefaultRange0 = -2
	DefaultRange1 = 2
)

// Scale is the affine mapping between raster pixel coordinates and
// real-plane coordinates. The same Scale value is threaded through
// every pass of an extraction run.
type Scale struct {
	Range0, Range1 float64 // plane range covered by the raster, per axis
	Width          int     // raster width (== height; rasters are square)

	perPixel float64 // plane units per pixel
}

// NewScale creates the pixel-to-plane mapping for a raster of the
// given width covering [r0, r1] on both axes.
func NewScale(r0, r1 float64, width int) Scale {
	return Scale{
		Range0:   r0,
		Range1:   r1,
		Width:    width,
		perPixel: (r1 - r0) / float64(width),
	}
}

// PixelToPlane returns the plane coordinate of pixel index px.
func (s Scale) PixelToPlane(px int) float64 {
	return float64(px)*s.perPixel + s.Range0
}

// PlaneToPixel returns the pixel index containing plane coordinate w.
func (s Scale) PlaneToPixel(w float64) int {
	return int(math.Floor((w - s.Range0) / s.perPixel))
}

// PixelToRational returns the denominator-scaled rational coordinate
// of pixel index px.
func (s Scale) PixelToRational(px int) int64 {
	return int64(math.Floor((float64(px)*s.perPixel + s.Range0) * float64(Denominator)))
}

// PlaneToRational returns the denominator-scaled rational coordinate
// of plane coordinate w.
func PlaneToRational(w float64) int64 {
	return int64(math.Floor(w * float64(Denominator)))
}

// Bounds returns the plane range as a geometry bounding box.
func (s Scale) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: s.Range0, Y: s.Range0},
		Max: geom.Point{X: s.Range1, Y: s.Range1},
	}
}
