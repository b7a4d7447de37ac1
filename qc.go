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

	"github.com/sirupsen/logrus"
)

// ValidationError reports a failed quality-control check.
type ValidationError struct {
	Check    string  // "structure", "placement", or "oracle"
	Kind     string  // "interior" or "exterior"
	Polygon  int     // index within its kind; -1 if not polygon-specific
	X, Y     int     // offending pixel; -1 if not pixel-specific
	Reason   string
	Snapshot *Canvas // diagnostic image with the failure marked, may be nil
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("certpoly: quality control %s check failed", e.Check)
	if e.Polygon >= 0 {
		msg += fmt.Sprintf(" for %s polygon %d", e.Kind, e.Polygon)
	}
	if e.X >= 0 {
		msg += fmt.Sprintf(" at pixel (%d,%d)", e.X, e.Y)
	}
	return msg + ": " + e.Reason
}

// summaryLen is the side length of the oracle summary image rendered
// after a successful validation.
const summaryLen = 512

// Validator proves that a polygon set is self-consistent and
// faithful to the classified canvas it was extracted from. Three
// passes run in order (structure, placement, oracle consistency) and
// the first failure aborts with a *ValidationError.
type Validator struct {
	Canvas *Canvas // original classification
	Scale  Scale
	Set    *Set
	Log    logrus.FieldLogger // optional; defaults to the standard logger

	// Marked is the canvas with all polygons drawn in, and Summary
	// the oracle-rendered overview image. Both are populated only
	// after a successful Validate.
	Marked  *Canvas
	Summary *Canvas
}

type polygonKind struct {
	name     string
	polys    []*Polygon
	expected Class // source color the polygons must lie in
	drawn    Class // color the polygons are drawn in
}

func (v *Validator) kinds() []polygonKind {
	return []polygonKind{
		{"interior", v.Set.Interior, ClassInterior, ClassInteriorPoly},
		{"exterior", v.Set.Exterior, ClassExterior, ClassExteriorPoly},
	}
}

// Validate runs all three passes. On success, Marked and Summary are
// populated; on failure the returned *ValidationError names the
// check, polygon, and pixel, and carries a diagnostic snapshot.
func (v *Validator) Validate() error {
	log := v.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	if err := v.checkStructure(); err != nil {
		return err
	}
	log.Info("quality control: structure check passed (closed, colinear- and diagonal-free)")

	work := v.Canvas.Copy()
	if err := v.checkPlacement(work); err != nil {
		return err
	}
	log.Info("quality control: placement check passed (positioning, spacing, cross- and touch-free)")

	if err := v.checkOracle(work); err != nil {
		return err
	}
	log.Info("quality control: oracle consistency sweep passed")

	small, err := v.renderSummary()
	if err != nil {
		return err
	}
	v.Marked = work
	v.Summary = small
	log.Infof("quality control: all %d interior and %d exterior polygons passed",
		len(v.Set.Interior), len(v.Set.Exterior))
	return nil
}

// checkStructure verifies closure, colinear-freedom, and
// diagonal-freedom of every polygon.
func (v *Validator) checkStructure() error {
	for _, k := range v.kinds() {
		for i, p := range k.polys {
			var reason string
			switch {
			case !p.Closed():
				reason = "not closed"
			case !p.ColinearFree():
				reason = "not free of colinear runs"
			case !p.DiagonalFree():
				reason = "not free of diagonal edges"
			default:
				continue
			}
			return &ValidationError{
				Check: "structure", Kind: k.name, Polygon: i,
				X: -1, Y: -1, Reason: reason,
			}
		}
	}
	return nil
}

// checkPlacement first verifies that every polygon edge, rasterized
// back onto the canvas, lies strictly inside its expected source
// region, drawing each verified polygon in its marker color; then it
// re-walks every drawn polygon, counting marker and source neighbors
// to prove that polygons touch neither each other nor themselves.
func (v *Validator) checkPlacement(work *Canvas) error {
	for _, k := range v.kinds() {
		for i, p := range k.polys {
			if err := v.checkRegion(work, k, i, p); err != nil {
				return err
			}
			DrawPolygon(work, p, v.Scale, k.drawn)
		}
	}
	for _, k := range v.kinds() {
		for i, p := range k.polys {
			if err := v.checkTouch(work, k, i, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkRegion verifies that the whole 3x3 neighborhood of every
// pixel of every edge of p has the expected source color. This
// proves at once that the polygon lies in the right region, that it
// keeps one pixel of clearance everywhere, and that it stays off the
// canvas border.
func (v *Validator) checkRegion(work *Canvas, k polygonKind, idx int, p *Polygon) error {
	fail := func(x, y int, reason string) error {
		snap := work.Copy()
		snap.Crosshair(x, y, ClassMark)
		return &ValidationError{
			Check: "placement", Kind: k.name, Polygon: idx,
			X: x, Y: y, Reason: reason, Snapshot: snap,
		}
	}
	d := float64(p.Denominator)
	lx, ly := -1, -1
	for _, pt := range p.Vertices() {
		x := v.Scale.PlaneToPixel(float64(pt.X) / d)
		y := v.Scale.PlaneToPixel(float64(pt.Y) / d)
		// Loaded polygons are not trusted: a vertex may rasterize onto
		// the canvas border or off the canvas entirely. Edges run
		// between vertices, so in-bounds vertices keep every later
		// pixel access within the clearance rim.
		if x < 1 || y < 1 || x >= work.Width-1 || y >= work.Height-1 {
			return fail(x, y, "polygon reaches the canvas border or leaves the raster")
		}
		if lx >= 0 {
			switch {
			case lx == x:
				y0, y1 := minMax(ly, y)
				for y3 := y0; y3 <= y1; y3++ {
					if !neighborhoodIs(work, x, y3, k.expected) {
						return fail(x, y3, "polygon lies in wrong region or too close to another color")
					}
				}
			case ly == y:
				x0, x1 := minMax(lx, x)
				for x3 := x0; x3 <= x1; x3++ {
					if !neighborhoodIs(work, x3, y, k.expected) {
						return fail(x3, y, "polygon lies in wrong region or too close to another color")
					}
				}
			default:
				return fail(lx, ly, "diagonal edge")
			}
		}
		lx, ly = x, y
	}
	return nil
}

// neighborhoodIs reports whether the whole 3x3 block centered at
// (x, y) has class v.
func neighborhoodIs(c *Canvas, x, y int, v Class) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if c.At(x+dx, y+dy) != v {
				return false
			}
		}
	}
	return true
}

// checkTouch re-walks a drawn polygon: every vertex pixel must have
// exactly 2 marker-colored and 6 source-colored 8-neighbors, and
// every interior edge pixel must be marker-colored with
// source-colored pixels flanking it transversally. Any other
// configuration means two polygon strands run adjacent somewhere.
func (v *Validator) checkTouch(work *Canvas, k polygonKind, idx int, p *Polygon) error {
	fail := func(x, y int, reason string) error {
		snap := work.Copy()
		snap.Crosshair(x, y, ClassMark)
		return &ValidationError{
			Check: "placement", Kind: k.name, Polygon: idx,
			X: x, Y: y, Reason: reason, Snapshot: snap,
		}
	}
	d := float64(p.Denominator)
	pts := p.Vertices()
	for i := 1; i < len(pts); i++ {
		x0 := v.Scale.PlaneToPixel(float64(pts[i-1].X) / d)
		y0 := v.Scale.PlaneToPixel(float64(pts[i-1].Y) / d)
		x1 := v.Scale.PlaneToPixel(float64(pts[i].X) / d)
		y1 := v.Scale.PlaneToPixel(float64(pts[i].Y) / d)

		for _, pt := range [][2]int{{x0, y0}, {x1, y1}} {
			drawn, expected := countNeighbors(work, pt[0], pt[1], k.drawn, k.expected)
			if drawn != 2 || expected != 6 {
				return fail(pt[0], pt[1], fmt.Sprintf(
					"vertex has %d polygon and %d region neighbors, want 2 and 6", drawn, expected))
			}
		}

		switch {
		case x0 == x1:
			lo, hi := minMax(y0, y1)
			for y3 := lo + 1; y3 <= hi-1; y3++ {
				if work.At(x0-1, y3) != k.expected ||
					work.At(x0, y3) != k.drawn ||
					work.At(x0+1, y3) != k.expected {
					return fail(x0, y3, "vertical edge pixel not flanked by its region")
				}
			}
		case y0 == y1:
			lo, hi := minMax(x0, x1)
			for x3 := lo + 1; x3 <= hi-1; x3++ {
				if work.At(x3, y0-1) != k.expected ||
					work.At(x3, y0) != k.drawn ||
					work.At(x3, y0+1) != k.expected {
					return fail(x3, y0, "horizontal edge pixel not flanked by its region")
				}
			}
		}
	}
	return nil
}

// countNeighbors counts, among the eight neighbors of (x, y), the
// pixels with the drawn class and the pixels with the expected
// class.
func countNeighbors(c *Canvas, x, y int, drawn, expected Class) (int, int) {
	var nd, ne int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			switch c.At(x+dx, y+dy) {
			case drawn:
				nd++
			case expected:
				ne++
			}
		}
	}
	return nd, ne
}

// checkOracle sweeps every pixel of the original classification and
// verifies that the oracle never contradicts it: no pixel that is
// not exterior-colored may classify as exterior against the exterior
// polygons alone, and no pixel that is not interior-colored may
// classify as interior against the interior polygons alone.
func (v *Validator) checkOracle(work *Canvas) error {
	extOnly := &Set{Exterior: v.Set.Exterior}
	intOnly := &Set{Interior: v.Set.Interior}
	fail := func(x, y int, reason string) error {
		snap := work.Copy()
		snap.Crosshair(x, y, ClassMark)
		return &ValidationError{
			Check: "oracle", Kind: "", Polygon: -1,
			X: x, Y: y, Reason: reason, Snapshot: snap,
		}
	}
	for y := 0; y < v.Canvas.Height; y++ {
		py := v.Scale.PixelToPlane(y)
		for x := 0; x < v.Canvas.Width; x++ {
			px := v.Scale.PixelToPlane(x)
			if v.Canvas.At(x, y) != ClassExterior {
				res, err := extOnly.Classify(px, py)
				if err != nil {
					return err
				}
				if res == Exterior {
					return fail(x, y, "non-exterior pixel classified exterior")
				}
			}
			if v.Canvas.At(x, y) != ClassInterior {
				res, err := intOnly.Classify(px, py)
				if err != nil {
					return err
				}
				if res == Interior {
					return fail(x, y, "non-interior pixel classified interior")
				}
			}
		}
	}
	return nil
}

// renderSummary renders the whole polygon set through the oracle
// onto a small overview canvas, exercising the jump tables with one
// PrepareY per row.
func (v *Validator) renderSummary() (*Canvas, error) {
	small := NewCanvas(summaryLen, summaryLen)
	small.Fill(ClassUndetermined)

	// A deliberately non-power-of-two region slightly larger than the
	// plane range, sampled off pixel centers, so the summary also
	// probes coordinates that never align with raster pixels.
	mid := 0.5 * (v.Scale.Range0 + v.Scale.Range1)
	half := 0.783 * (v.Scale.Range1 - v.Scale.Range0)
	sm0 := mid - half
	perPixel := 2 * half / summaryLen

	for y := 0; y < summaryLen; y++ {
		py := (float64(y)+0.23)*perPixel + sm0
		v.Set.PrepareY(py)
		for x := 0; x < summaryLen; x++ {
			px := (float64(x)+0.23)*perPixel + sm0
			res, err := v.Set.Classify(px, py)
			if err != nil {
				return nil, err
			}
			switch res {
			case Exterior:
				small.Set(x, y, ClassExterior)
			case Interior:
				small.Set(x, y, ClassInterior)
			}
		}
	}
	v.Set.UnprepareY()
	return small, nil
}
