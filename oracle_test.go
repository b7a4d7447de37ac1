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

func TestClassifySquare(t *testing.T) {
	p := NewPolygon(testScale())
	addAll(p, 0, 0, 10, 0, 10, 10, 0, 10, 0, 0)

	tests := []struct {
		x, y int64
		want Result
	}{
		{5, 5, Interior},
		{15, 5, Exterior},  // inside the margin-expanded bounding box
		{25, 5, Exterior},  // bounding-box fast path
		{10, 5, Boundary},  // on a vertical edge
		{5, 0, Boundary},   // on a horizontal edge
		{0, 0, Boundary},   // on a vertex
		{-5, 0, Exterior},  // ray touches the bottom edge corner height
		{-5, 10, Exterior}, // ray touches the top edge corner height
	}
	for _, tt := range tests {
		have, err := p.Classify(tt.x, tt.y)
		if err != nil {
			t.Fatal(err)
		}
		if have != tt.want {
			t.Errorf("point (%d,%d): have %v, want %v", tt.x, tt.y, have, tt.want)
		}
	}
}

func TestClassifyStaircaseTieBreaks(t *testing.T) {
	// A square with its lower-right quarter notched out. The edge from
	// (10,10) to (20,10) is colinear with the ray of any query at
	// y=10, and the polygon steps through that height there.
	p := NewPolygon(testScale())
	addAll(p, 0, 0, 10, 0, 10, 10, 20, 10, 20, 20, 0, 20, 0, 0)

	tests := []struct {
		x, y int64
		want Result
	}{
		{5, 10, Interior},  // ray passes through the colinear edge
		{25, 10, Exterior}, // right of everything at that height
		{15, 5, Exterior},  // in the notch
		{15, 15, Interior}, // above the notch
		{5, 5, Interior},
		{15, 10, Boundary}, // on the colinear edge itself
	}
	for _, tt := range tests {
		have, err := p.Classify(tt.x, tt.y)
		if err != nil {
			t.Fatal(err)
		}
		if have != tt.want {
			t.Errorf("point (%d,%d): have %v, want %v", tt.x, tt.y, have, tt.want)
		}
	}
}

func TestClassifyDiagonalError(t *testing.T) {
	p := NewPolygon(testScale())
	p.appendRaw(0, 0)
	p.appendRaw(10, 10)
	p.appendRaw(0, 10)
	p.appendRaw(0, 0)

	_, err := p.Classify(5, 7)
	if _, ok := err.(*DiagonalError); !ok {
		t.Errorf("have %v, want *DiagonalError", err)
	}
}

// unitSquare returns a polygon spanning plane [0,1]x[0,1].
func unitSquare(t *testing.T) *Polygon {
	t.Helper()
	p := NewPolygon(NewScale(-2, 2, 256))
	d := Denominator
	addAll(p, 0, 0, d, 0, d, d, 0, d, 0, 0)
	return p
}

func TestSetClassifyInterior(t *testing.T) {
	s := &Set{Interior: []*Polygon{unitSquare(t)}}

	if have, err := s.Classify(0.5, 0.5); err != nil || have != Interior {
		t.Errorf("center: have %v, %v, want interior", have, err)
	}
	// One rational unit from the right edge: the 5x5 query block
	// crosses the boundary, so containment cannot be certified.
	edge := (float64(Denominator) - 0.5) / float64(Denominator)
	if have, err := s.Classify(edge, 0.5); err != nil || have != Undetermined {
		t.Errorf("near edge: have %v, %v, want undetermined", have, err)
	}
	// Outside, but with no exterior polygons nothing can be excluded.
	if have, err := s.Classify(2, 2); err != nil || have != Undetermined {
		t.Errorf("outside: have %v, %v, want undetermined", have, err)
	}
}

func TestSetClassifyExterior(t *testing.T) {
	s := &Set{Exterior: []*Polygon{unitSquare(t)}}

	if have, err := s.Classify(2, 2); err != nil || have != Exterior {
		t.Errorf("outside: have %v, %v, want exterior", have, err)
	}
	if have, err := s.Classify(0.5, 0.5); err != nil || have != Undetermined {
		t.Errorf("inside: have %v, %v, want undetermined", have, err)
	}
}

func TestSetClassifyBoth(t *testing.T) {
	s := &Set{
		Interior: []*Polygon{unitSquare(t)},
		Exterior: []*Polygon{unitSquare(t)},
	}

	// The interior polygons are consulted first.
	if have, err := s.Classify(0.5, 0.5); err != nil || have != Interior {
		t.Errorf("center: have %v, %v, want interior", have, err)
	}
	if have, err := s.Classify(-1, -1); err != nil || have != Exterior {
		t.Errorf("outside: have %v, %v, want exterior", have, err)
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Undetermined, "undetermined"},
		{Interior, "interior"},
		{Boundary, "boundary"},
		{Exterior, "exterior"},
	}
	for _, tt := range tests {
		if have := tt.r.String(); have != tt.want {
			t.Errorf("have %q, want %q", have, tt.want)
		}
	}
}
