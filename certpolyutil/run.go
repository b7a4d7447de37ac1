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

package certpolyutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/certpoly/certpoly"
	"github.com/sirupsen/logrus"
)

// newLogger creates a logger writing to standard error, mirrored to
// logFile if it is non-empty.
func newLogger(logFile string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.WithError(err).Warnf("cannot mirror log to %s", logFile)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	}
	return log
}

// loadClassification reads the classified raster and verifies its
// contract: square shape and the exterior-colored rim.
func loadClassification(path string, border int) (*certpoly.Canvas, error) {
	c, err := certpoly.ReadCanvas(path)
	if err != nil {
		return nil, err
	}
	if c.Width != c.Height {
		return nil, fmt.Errorf("certpoly: image %s is %dx%d, want square", path, c.Width, c.Height)
	}
	if !certpoly.BorderPresent(c, border) {
		return nil, fmt.Errorf("certpoly: image %s lacks the %d-pixel exterior border", path, border)
	}
	return c, nil
}

// Extract runs one extraction pass: grow the regions of one class,
// trace their boundaries, and save the resulting polygons as numbered
// files with the given prefix ("int" or "ext").
func Extract(log *logrus.Logger, imagePath, dir, maskPath, prefix string,
	r0, r1 float64, granularity, border, minVertices int) error {

	target := certpoly.ClassInterior
	if prefix == "ext" {
		target = certpoly.ClassExterior
	}

	c, err := loadClassification(imagePath, border)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"image": imagePath, "size": c.Width, "granularity": granularity,
	}).Infof("growing %serior regions", prefix)

	s := certpoly.NewScale(r0, r1, c.Width)
	mask := certpoly.Grow(c, target, certpoly.GrowConfig{
		Granularity: granularity,
		Border:      border,
	})
	if maskPath != "" {
		if err := certpoly.WriteCanvas(maskPath, mask); err != nil {
			return err
		}
	}

	polys, err := certpoly.Trace(mask, s, certpoly.TraceConfig{MinVertices: minVertices})
	if err != nil {
		if te, ok := err.(*certpoly.TraceError); ok && maskPath != "" {
			if werr := certpoly.WriteCanvas(maskPath, te.Snapshot); werr == nil {
				log.Errorf("boundary walk stuck; snapshot saved to %s", maskPath)
			}
		}
		return err
	}

	if err := certpoly.SavePolygons(dir, prefix, polys); err != nil {
		return err
	}
	log.Infof("saved %d %serior polygons to %s", len(polys), prefix, dir)
	return nil
}

// Quality loads the polygon set, proves it consistent with the
// classified image, and saves the requested result artifacts.
func Quality(log *logrus.Logger, imagePath, dir string, r0, r1 float64,
	border int, markedPath, summaryPath, geoJSONPath string) error {

	c, err := loadClassification(imagePath, border)
	if err != nil {
		return err
	}
	set, err := certpoly.LoadSet(dir)
	if err != nil {
		return err
	}
	if len(set.Interior)+len(set.Exterior) == 0 {
		return fmt.Errorf("certpoly: no polygon files in %s", dir)
	}
	log.Infof("validating %d interior and %d exterior polygons against %s",
		len(set.Interior), len(set.Exterior), imagePath)

	v := &certpoly.Validator{
		Canvas: c,
		Scale:  certpoly.NewScale(r0, r1, c.Width),
		Set:    set,
		Log:    log,
	}
	if err := v.Validate(); err != nil {
		if ve, ok := err.(*certpoly.ValidationError); ok && ve.Snapshot != nil && markedPath != "" {
			if werr := certpoly.WriteCanvas(markedPath, ve.Snapshot); werr == nil {
				log.Errorf("quality control failed; snapshot saved to %s", markedPath)
			}
		}
		return err
	}

	if markedPath != "" {
		if err := certpoly.WriteCanvas(markedPath, v.Marked); err != nil {
			return err
		}
	}
	if summaryPath != "" {
		if err := certpoly.WriteCanvas(summaryPath, v.Summary); err != nil {
			return err
		}
	}
	if geoJSONPath != "" {
		f, err := os.Create(geoJSONPath)
		if err != nil {
			return err
		}
		if err := certpoly.WriteGeoJSON(f, set); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Infof("exported polygon set to %s", geoJSONPath)
	}
	return nil
}

// query is one oracle query point, keyed back to its input order.
type query struct {
	x, y float64
	pos  int
	res  certpoly.Result
}

// parsePoint parses one 'x,y' pair of plane coordinates.
func parsePoint(s string) (float64, float64, error) {
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return 0, 0, fmt.Errorf("certpoly: query point %q: want 'x,y'", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("certpoly: query point %q: %v", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("certpoly: query point %q: %v", s, err)
	}
	return x, y, nil
}

// readPointFile reads query points from a file, one 'x,y' pair per
// line. Blank lines and lines starting with '#' are skipped.
func readPointFile(path string) ([]query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var qs []query
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		x, y, err := parsePoint(s)
		if err != nil {
			return nil, err
		}
		qs = append(qs, query{x: x, y: y})
	}
	return qs, sc.Err()
}

// Oracle answers point-membership queries from the command line and
// from a point file, writing one 'x,y: result' line per query in
// input order. File queries are grouped by row so each distinct y
// prepares the jump tables once.
func Oracle(log *logrus.Logger, w io.Writer, dir string, points []string, pointFile string) error {
	set, err := certpoly.LoadSet(dir)
	if err != nil {
		return err
	}
	if len(set.Interior)+len(set.Exterior) == 0 {
		return fmt.Errorf("certpoly: no polygon files in %s", dir)
	}
	log.Infof("loaded %d interior and %d exterior polygons from %s",
		len(set.Interior), len(set.Exterior), dir)

	var qs []query
	for _, s := range points {
		x, y, err := parsePoint(s)
		if err != nil {
			return err
		}
		qs = append(qs, query{x: x, y: y})
	}
	if pointFile != "" {
		fqs, err := readPointFile(pointFile)
		if err != nil {
			return err
		}
		qs = append(qs, fqs...)
	}
	if len(qs) == 0 {
		return fmt.Errorf("certpoly: no query points given")
	}
	for i := range qs {
		qs[i].pos = i
	}

	// Classify in row order so a run of equal-y queries shares one
	// jump-table preparation.
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].y < qs[j].y })
	for i := 0; i < len(qs); {
		y := qs[i].y
		set.PrepareY(y)
		for ; i < len(qs) && qs[i].y == y; i++ {
			res, err := set.Classify(qs[i].x, y)
			if err != nil {
				set.UnprepareY()
				return err
			}
			qs[i].res = res
		}
		set.UnprepareY()
	}

	sort.Slice(qs, func(i, j int) bool { return qs[i].pos < qs[j].pos })
	for _, q := range qs {
		fmt.Fprintf(w, "%g,%g: %s\n", q.x, q.y, q.res)
	}
	return nil
}
