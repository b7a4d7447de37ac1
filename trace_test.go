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

func TestTraceBlockToPolygon(t *testing.T) {
	// Raster widths that are powers of two make the pixel-to-rational
	// mapping exact, as in production use.
	c := blockCanvas(256, 60, 140)
	s := NewScale(-2, 2, 256)

	mask := Grow(c, ClassInterior, GrowConfig{})
	polys, err := Trace(mask, s, TraceConfig{MinVertices: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 1 {
		t.Fatalf("have %d polygons, want 1", len(polys))
	}
	p := polys[0]
	if !p.Closed() {
		t.Error("traced polygon is not closed")
	}
	if !p.ColinearFree() {
		t.Error("traced polygon is not colinear-free")
	}
	if !p.DiagonalFree() {
		t.Error("traced polygon is not diagonal-free")
	}

	// The block's rectangular boundary collapses to four corners plus
	// the closing duplicate.
	if p.Len() != 5 {
		t.Errorf("have %d vertices, want 5", p.Len())
	}

	// The mask must be fully consumed: a second trace finds nothing.
	more, err := Trace(mask, s, TraceConfig{MinVertices: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(more) != 0 {
		t.Errorf("second trace found %d polygons, want 0", len(more))
	}
}

func TestTraceOraclePipeline(t *testing.T) {
	c := blockCanvas(256, 60, 140)
	s := NewScale(-2, 2, 256)

	intMask := Grow(c, ClassInterior, GrowConfig{})
	intPolys, err := Trace(intMask, s, TraceConfig{MinVertices: 4})
	if err != nil {
		t.Fatal(err)
	}
	extMask := Grow(c, ClassExterior, GrowConfig{})
	extPolys, err := Trace(extMask, s, TraceConfig{MinVertices: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(intPolys) != 1 || len(extPolys) != 1 {
		t.Fatalf("have %d interior and %d exterior polygons, want 1 and 1", len(intPolys), len(extPolys))
	}

	set := &Set{Interior: intPolys, Exterior: extPolys}

	// The block center is certainly interior, the area near the canvas
	// corner certainly exterior, and the thin strip between the two
	// polygon rings is neither.
	center := s.PixelToPlane(100)
	if have, err := set.Classify(center, center); err != nil || have != Interior {
		t.Errorf("center: have %v, %v, want interior", have, err)
	}
	corner := s.PixelToPlane(30)
	if have, err := set.Classify(corner, corner); err != nil || have != Exterior {
		t.Errorf("corner: have %v, %v, want exterior", have, err)
	}
	between := s.PixelToPlane(100)
	if have, err := set.Classify(s.PixelToPlane(59), between); err != nil || have != Undetermined {
		t.Errorf("between rings: have %v, %v, want undetermined", have, err)
	}

	// A point exactly on an interior polygon edge is Boundary for the
	// single-polygon oracle.
	p := intPolys[0]
	edgeX := p.Vertex(0).X
	midY := (p.Vertex(0).Y + p.Vertex(1).Y) / 2
	if have, err := p.Classify(edgeX, midY); err != nil || have != Boundary {
		t.Errorf("on edge: have %v, %v, want boundary", have, err)
	}
	// One pixel outside the block's outer edge is certainly exterior
	// for the single interior polygon.
	outside := s.PixelToRational(59)
	if have, err := p.Classify(outside, s.PixelToRational(100)); err != nil || have != Exterior {
		t.Errorf("outside block: have %v, %v, want exterior", have, err)
	}
}

func TestTraceDiscardsIsolatedPixel(t *testing.T) {
	c := NewCanvas(64, 64)
	c.Fill(ClassExterior)
	c.Set(30, 30, ClassBoundary)

	polys, err := Trace(c, NewScale(-2, 2, 64), TraceConfig{MinVertices: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 0 {
		t.Errorf("have %d polygons, want 0", len(polys))
	}
	if c.At(30, 30) != ClassVisited {
		t.Error("isolated pixel was not consumed")
	}
}

func TestTraceErrorOnOpenPath(t *testing.T) {
	// A straight open strand cannot be closed; the walk must fail at
	// its far end with a snapshot of the mask.
	c := NewCanvas(64, 64)
	c.Fill(ClassExterior)
	for x := 10; x <= 20; x++ {
		c.Set(x, 10, ClassBoundary)
	}

	_, err := Trace(c, NewScale(-2, 2, 64), TraceConfig{MinVertices: 4})
	te, ok := err.(*TraceError)
	if !ok {
		t.Fatalf("have %v, want *TraceError", err)
	}
	if te.X != 20 || te.Y != 10 {
		t.Errorf("stuck at (%d,%d), want (20,10)", te.X, te.Y)
	}
	if te.Snapshot == nil {
		t.Error("no snapshot attached")
	}
}

func TestTraceDropsShortPolygons(t *testing.T) {
	c := blockCanvas(256, 60, 140)
	mask := Grow(c, ClassInterior, GrowConfig{})

	// The block boundary collapses to 5 vertices, at or below the
	// default threshold of 24.
	polys, err := Trace(mask, NewScale(-2, 2, 256), TraceConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 0 {
		t.Errorf("have %d polygons, want 0", len(polys))
	}
}
