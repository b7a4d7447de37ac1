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

// Command certpoly is a command-line interface for the CertPoly
// polygon extractor and point-membership oracle.
package main

import (
	"fmt"
	"os"

	"github.com/certpoly/certpoly/certpolyutil"
)

func main() {
	if err := certpolyutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
