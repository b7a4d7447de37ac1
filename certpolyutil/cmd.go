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

// Package certpolyutil holds the command-line interface of the
// CertPoly polygon extractor and oracle.
package certpolyutil

import (
	"fmt"

	"github.com/certpoly/certpoly"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds global configuration. Configuration variables can be set
// using either command-line flags, environment variables, or a
// configuration file.
var Cfg *viper.Viper

func init() {
	// Initialize the configuration, flags, and commands.

	options := []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the path to a configuration file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to a file the log is mirrored to, in
              addition to standard error. An empty value disables the
              mirror.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name:      "Image",
			shorthand: "i",
			usage: `
              Image is the path to the classified raster image. The
              image must be square, use the three classification
              colors, and carry the contractual exterior border.`,
			defaultVal: "classification.bmp",
			flagsets:   []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags(), qualityCmd.Flags()},
		},
		{
			name:      "PolygonDir",
			shorthand: "d",
			usage: `
              PolygonDir is the directory the numbered polygon files
              are written to and read from.`,
			defaultVal: ".",
			flagsets: []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags(),
				qualityCmd.Flags(), oracleCmd.Flags()},
		},
		{
			name: "Range0",
			usage: `
              Range0 is the lower bound of the plane range the raster
              covers, on both axes.`,
			defaultVal: float64(certpoly.DefaultRange0),
			flagsets: []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags(),
				qualityCmd.Flags()},
		},
		{
			name: "Range1",
			usage: `
              Range1 is the upper bound of the plane range the raster
              covers, on both axes.`,
			defaultVal: float64(certpoly.DefaultRange1),
			flagsets: []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags(),
				qualityCmd.Flags()},
		},
		{
			name:      "Granularity",
			shorthand: "g",
			usage: `
              Granularity is the side length of the solid-color kernels
              the region grower searches for. Values below 3 are raised
              to 3.`,
			defaultVal: certpoly.DefaultGranularity,
			flagsets:   []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags()},
		},
		{
			name: "Border",
			usage: `
              Border is the width of the exterior-colored rim the
              raster must be surrounded by.`,
			defaultVal: certpoly.BorderWidth,
			flagsets: []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags(),
				qualityCmd.Flags()},
		},
		{
			name: "MinVertices",
			usage: `
              MinVertices discards traced polygons whose vertex count
              is at or below this threshold.`,
			defaultVal: certpoly.DefaultMinVertices,
			flagsets:   []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags()},
		},
		{
			name: "MaskImage",
			usage: `
              MaskImage is a path the grown boundary mask is saved to
              before tracing. An empty value skips the save.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{makeintCmd.Flags(), makeextCmd.Flags()},
		},
		{
			name: "MarkedImage",
			usage: `
              MarkedImage is a path the classification with all
              verified polygons drawn in is saved to. An empty value
              skips the save.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{qualityCmd.Flags()},
		},
		{
			name: "SummaryImage",
			usage: `
              SummaryImage is a path the oracle-rendered overview image
              is saved to. An empty value skips the save.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{qualityCmd.Flags()},
		},
		{
			name: "GeoJSON",
			usage: `
              GeoJSON is a path the verified polygon set is exported to
              as a GeoJSON FeatureCollection. An empty value skips the
              export.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{qualityCmd.Flags()},
		},
		{
			name:      "Point",
			shorthand: "p",
			usage: `
              Point is a list of query points in the form 'x,y', in
              plane coordinates.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{oracleCmd.Flags()},
		},
		{
			name: "PointFile",
			usage: `
              PointFile is the path to a file of query points, one
              'x,y' pair per line. Lines are grouped by y so each
              distinct row is prepared once.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{oracleCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CERTPOLY")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(makeintCmd)
	Root.AddCommand(makeextCmd)
	Root.AddCommand(qualityCmd)
	Root.AddCommand(oracleCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("certpoly: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "certpoly",
	Short: "Certified polygon boundaries for classified rasters.",
	Long: `CertPoly extracts closed rectilinear polygons bounding the certainly
interior and certainly exterior regions of a three-color classified
raster, proves the extracted set consistent, and answers exact
point-membership queries against it.

Refer to the subcommand documentation for configuration options and
default settings. Configuration can be changed by using a configuration
file (and providing the path to the file using the --config flag), by
using command-line arguments, or by setting environment variables in
the format 'CERTPOLY_var' where 'var' is the name of the variable to
be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of CertPoly.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("CertPoly v%s\n", certpoly.Version)
	},
	DisableAutoGenTag: true,
}

var makeintCmd = &cobra.Command{
	Use:   "makeint",
	Short: "Extract interior polygons.",
	Long: `makeint grows the certainly-interior regions of the classified image
and traces their boundaries into closed rectilinear polygons, saved as
numbered intpoly files in the polygon directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Extract(
			newLogger(Cfg.GetString("LogFile")),
			Cfg.GetString("Image"),
			Cfg.GetString("PolygonDir"),
			Cfg.GetString("MaskImage"),
			"int",
			Cfg.GetFloat64("Range0"), Cfg.GetFloat64("Range1"),
			Cfg.GetInt("Granularity"),
			Cfg.GetInt("Border"),
			Cfg.GetInt("MinVertices"),
		)
	},
	DisableAutoGenTag: true,
}

var makeextCmd = &cobra.Command{
	Use:   "makeext",
	Short: "Extract exterior polygons.",
	Long: `makeext grows the certainly-exterior regions of the classified image
and traces their boundaries into closed rectilinear polygons, saved as
numbered extpoly files in the polygon directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Extract(
			newLogger(Cfg.GetString("LogFile")),
			Cfg.GetString("Image"),
			Cfg.GetString("PolygonDir"),
			Cfg.GetString("MaskImage"),
			"ext",
			Cfg.GetFloat64("Range0"), Cfg.GetFloat64("Range1"),
			Cfg.GetInt("Granularity"),
			Cfg.GetInt("Border"),
			Cfg.GetInt("MinVertices"),
		)
	},
	DisableAutoGenTag: true,
}

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Prove the extracted polygon set consistent.",
	Long: `quality loads the polygon set from the polygon directory and runs the
full quality-control pipeline against the classified image: structure,
placement, and oracle consistency. On success it optionally saves the
marked classification, the oracle summary image, and a GeoJSON export;
on failure it saves a diagnostic snapshot next to the marked image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Quality(
			newLogger(Cfg.GetString("LogFile")),
			Cfg.GetString("Image"),
			Cfg.GetString("PolygonDir"),
			Cfg.GetFloat64("Range0"), Cfg.GetFloat64("Range1"),
			Cfg.GetInt("Border"),
			Cfg.GetString("MarkedImage"),
			Cfg.GetString("SummaryImage"),
			Cfg.GetString("GeoJSON"),
		)
	},
	DisableAutoGenTag: true,
}

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Answer point-membership queries.",
	Long: `oracle loads the polygon set from the polygon directory and decides,
for each query point, whether it certainly lies inside the classified
region, certainly outside, or cannot be determined. Points come from
the --Point flag, the --PointFile file, or both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := cast.ToStringSliceE(Cfg.Get("Point"))
		if err != nil {
			return err
		}
		return Oracle(
			newLogger(Cfg.GetString("LogFile")),
			cmd.OutOrStdout(),
			Cfg.GetString("PolygonDir"),
			points,
			Cfg.GetString("PointFile"),
		)
	},
	DisableAutoGenTag: true,
}
