package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"sinogeom/pkg/config"
	"sinogeom/pkg/sinogeom"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "", "YAML file describing the geometry (overrides the flags below)")
	writeConfig := flag.String("write-config", "", "Write a default configuration file to this path and exit")
	variant := flag.String("variant", "parallel", "Beam variant or preset: parallel, fan, mojette, ge1, hd1")
	units := flag.String("units", "", "Physical unit tag for length fields (mm, cm)")
	nb := flag.Int("nb", 0, "Number of radial samples per view (0: default 128)")
	na := flag.Int("na", 0, "Number of angular views (0: derive from nb)")
	d := flag.Float64("d", 0, "Radial sample spacing (0: default 1)")
	orbit := flag.Float64("orbit", 0, "Total angular coverage in degrees (0: variant default)")
	short := flag.Bool("short", false, "Request a fan-beam short-scan orbit")
	orbitStart := flag.Float64("orbit-start", 0, "Angle of the first view in degrees")
	offset := flag.Float64("offset", 0, "Sub-sample detector centering offset")
	stripWidth := flag.Float64("strip-width", 0, "Detector-element width (0: same as d)")
	sourceOffset := flag.Float64("source-offset", 0, "Lateral source/detector offset (fan only)")
	dsd := flag.Float64("dsd", 0, "Source-to-detector distance (fan only, 0: default)")
	dod := flag.Float64("dod", 0, "Isocenter-to-detector distance (fan only, 0: default)")
	flat := flag.Bool("flat", false, "Use a flat detector instead of the default arc (fan only)")
	down := flag.Int("down", 0, "Downsampling factor applied to the finished record")
	get := flag.String("get", "", "Comma-separated property names to report")
	list := flag.Bool("list", false, "List the recognized property names and exit")
	verbose := flag.Bool("verbose", true, "Enable informational logging")
	flag.Parse()

	log := logrus.New()
	if !*verbose {
		log.SetLevel(logrus.WarnLevel)
	}

	if *list {
		for _, name := range sinogeom.Properties() {
			fmt.Println(name)
		}
		return
	}

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		log.Infof("Default configuration written to %s", *writeConfig)
		return
	}

	// Assemble builder options from the config file or the flags
	tag := *variant
	opts := sinogeom.Options{
		Units:        *units,
		NB:           *nb,
		NA:           *na,
		D:            *d,
		Orbit:        *orbit,
		OrbitShort:   *short,
		OrbitStart:   *orbitStart,
		Offset:       *offset,
		StripWidth:   *stripWidth,
		SourceOffset: *sourceOffset,
		DSD:          *dsd,
		DOD:          *dod,
		FlatDetector: *flat,
		Down:         *down,
	}
	var properties []string
	if *configPath != "" {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		tag = cfg.Variant
		opts = cfg.Options()
		properties = cfg.Output.Properties
		if !cfg.Output.Verbose {
			log.SetLevel(logrus.WarnLevel)
		}
	}
	if *get != "" {
		for _, name := range strings.Split(*get, ",") {
			if name = strings.TrimSpace(name); name != "" {
				properties = append(properties, name)
			}
		}
	}

	g, err := sinogeom.MakeGeometry(tag, opts)
	if err != nil {
		log.Fatalf("Failed to build geometry: %v", err)
	}
	log.Infof("Built geometry %s", g)
	fmt.Println(g)

	for _, name := range properties {
		value, err := sinogeom.Get(g, name)
		if err != nil {
			log.Fatalf("Failed to resolve %q: %v", name, err)
		}
		fmt.Printf("%s = %s\n", name, format(value))
	}
}

// format renders a resolved property value for terminal output.
func format(value any) string {
	switch v := value.(type) {
	case *mat.Dense:
		return fmt.Sprintf("\n%v", mat.Formatted(v, mat.Excerpt(3)))
	case func(int) *sinogeom.Geom,
		func(int, int) (*mat.Dense, error),
		func([]float64) (*mat.Dense, error),
		func([]float64, []float64) (*mat.Dense, error):
		return "<function>"
	default:
		return fmt.Sprintf("%v", v)
	}
}
