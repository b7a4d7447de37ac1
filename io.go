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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom/encoding/geojson"
	"golang.org/x/image/bmp"
)

// RecordError reports a malformed line in a persisted polygon file.
type RecordError struct {
	Path string
	Line int
	Text string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("certpoly: malformed polygon record %s line %d: %q", e.Path, e.Line, e.Text)
}

// Write writes the polygon in its persistence format: denominator,
// plane range, vertex count, one x,y pair per line, and a
// terminating dot. All values are decimal ASCII.
func (p *Polygon) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", p.Denominator)
	fmt.Fprintf(bw, "%g,%g,%g,%g\n", p.Range0, p.Range1, p.Range0, p.Range1)
	fmt.Fprintf(bw, "%d\n", len(p.pts))
	for _, v := range p.pts {
		fmt.Fprintf(bw, "%d,%d\n", v.X, v.Y)
	}
	fmt.Fprintln(bw, ".")
	return bw.Flush()
}

// Save writes the polygon to the named file.
func (p *Polygon) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("certpoly: saving polygon: %w", err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadPolygon reads one persisted polygon. The header lines are
// lenient, an unparsable denominator or range falls back to the
// defaults, but a bad count or vertex line is a *RecordError. path
// is used only in error messages.
func ReadPolygon(r io.Reader, path string) (*Polygon, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return strings.TrimSpace(sc.Text()), true
	}

	p := &Polygon{Denominator: Denominator, Range0: DefaultRange0, Range1: DefaultRange1}

	s, ok := next()
	if !ok {
		return nil, &RecordError{Path: path, Line: line + 1, Text: ""}
	}
	if d, err := strconv.ParseInt(s, 10, 64); err == nil {
		p.Denominator = d
	}

	s, ok = next()
	if !ok {
		return nil, &RecordError{Path: path, Line: line + 1, Text: ""}
	}
	var cx0, cx1, cy0, cy1 float64
	if n, _ := fmt.Sscanf(s, "%g,%g,%g,%g", &cx0, &cx1, &cy0, &cy1); n == 4 {
		// The range is shared by both axes.
		p.Range0, p.Range1 = cx0, cx1
	}

	s, ok = next()
	if !ok {
		return nil, &RecordError{Path: path, Line: line + 1, Text: ""}
	}
	count, err := strconv.Atoi(s)
	if err != nil || count < 0 {
		return nil, &RecordError{Path: path, Line: line, Text: s}
	}

	for i := 0; i < count; i++ {
		s, ok = next()
		if !ok {
			return nil, &RecordError{Path: path, Line: line + 1, Text: ""}
		}
		var x, y int64
		if n, _ := fmt.Sscanf(s, "%d,%d", &x, &y); n != 2 {
			return nil, &RecordError{Path: path, Line: line, Text: s}
		}
		p.appendRaw(x, y)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("certpoly: reading polygon %s: %w", path, err)
	}
	return p, nil
}

// LoadPolygon reads one persisted polygon from the named file.
func LoadPolygon(path string) (*Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPolygon(f, path)
}

// setFileName returns the name of the i'th polygon file of a kind,
// e.g. intpoly0003.
func setFileName(prefix string, i int) string {
	return fmt.Sprintf("%spoly%04d", prefix, i)
}

// SavePolygons writes the polygons to consecutively numbered files
// with the given prefix ("int" or "ext") in dir.
func SavePolygons(dir, prefix string, polys []*Polygon) error {
	for i, p := range polys {
		if err := p.Save(filepath.Join(dir, setFileName(prefix, i))); err != nil {
			return err
		}
	}
	return nil
}

// LoadSet loads all consecutively numbered interior and exterior
// polygon files from dir. A missing file ends the sequence of its
// kind; a malformed file is an error. Each kind is capped at
// MaxPolygons.
func LoadSet(dir string) (*Set, error) {
	s := new(Set)
	for _, k := range []struct {
		prefix string
		polys  *[]*Polygon
	}{
		{"int", &s.Interior},
		{"ext", &s.Exterior},
	} {
		for i := 0; i < MaxPolygons; i++ {
			p, err := LoadPolygon(filepath.Join(dir, setFileName(k.prefix, i)))
			if os.IsNotExist(err) {
				break
			}
			if err != nil {
				return nil, err
			}
			*k.polys = append(*k.polys, p)
		}
	}
	return s, nil
}

// WriteCanvas saves the canvas as an 8-bit paletted BMP image.
func WriteCanvas(path string, c *Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("certpoly: saving canvas: %w", err)
	}
	if err := bmp.Encode(f, c.Image()); err != nil {
		f.Close()
		return fmt.Errorf("certpoly: encoding %s: %w", path, err)
	}
	return f.Close()
}

// ReadCanvas loads a classification image and normalizes its colors
// to pixel classes.
func ReadCanvas(path string) (*Canvas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("certpoly: decoding %s: %w", path, err)
	}
	return NewCanvasFromImage(img)
}

type geoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type geoJSONCollection struct {
	Type     string            `json:"type"`
	Features []*geoJSONFeature `json:"features"`
}

// WriteGeoJSON writes the polygon set as a GeoJSON FeatureCollection
// in plane coordinates, with a "kind" property distinguishing
// interior from exterior polygons.
func WriteGeoJSON(w io.Writer, set *Set) error {
	out := &geoJSONCollection{Type: "FeatureCollection"}
	for _, k := range []struct {
		name  string
		polys []*Polygon
	}{
		{"interior", set.Interior},
		{"exterior", set.Exterior},
	} {
		for i, p := range k.polys {
			g, err := geojson.ToGeoJSON(p.Geom())
			if err != nil {
				return fmt.Errorf("certpoly: encoding %s polygon %d: %w", k.name, i, err)
			}
			out.Features = append(out.Features, &geoJSONFeature{
				Type:     "Feature",
				Geometry: g,
				Properties: map[string]string{
					"kind":  k.name,
					"index": strconv.Itoa(i),
				},
			})
		}
	}
	return json.NewEncoder(w).Encode(out)
}
