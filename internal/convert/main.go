package convert

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gruppe-adler/aig-utils/internal/extent"
	"github.com/gruppe-adler/aig-utils/internal/validate"
)

// ParseFlags parses the convert command line. Options from a -config file
// are overridden by flags given explicitly.
func ParseFlags(flagSet *flag.FlagSet, args []string) (opts Options, in, out string, err error) {
	defaults := DefaultOptions()

	attrPtr := flagSet.String("attr", defaults.Attribute, "Name of the attribute field")
	dissolvePtr := flagSet.Bool("dissolve", false, "Merge adjacent cells of equal value into one polygon")
	extentPtr := flagSet.String("extent", "", "Only convert cells with their centre in \"minX,minY,maxX,maxY\"")
	layerPtr := flagSet.String("layer", defaults.Layer, "Name of the output layer")
	multiplierPtr := flagSet.Int("multiplier", 0, "Multiply values and take the integer part")
	nonZeroPtr := flagSet.Bool("nonzero", false, "Skip cells with value 0")
	quietPtr := flagSet.Bool("quiet", false, "Don't show a progress bar")
	verbosePtr := flagSet.Bool("verbose", false, "Print grid header and timings")
	wgs84Ptr := flagSet.Bool("wgs84", false, "Declare output coordinates as WGS84 longitude/latitude")
	configPtr := flagSet.String("config", "", "Path to JSON options file")

	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "USAGE:\n    %s [FLAGS] <grid_ASCII_file> <output_file>\n\nFLAGS:\n", flagSet.Name())
		flagSet.PrintDefaults()
	}

	if err = flagSet.Parse(args); err != nil {
		return opts, "", "", err
	}

	if flagSet.NArg() != 2 {
		return opts, "", "", fmt.Errorf("expected input and output file, got %d arguments", flagSet.NArg())
	}
	in, out = flagSet.Arg(0), flagSet.Arg(1)

	opts = defaults
	if *configPtr != "" {
		if opts, err = LoadOptions(*configPtr); err != nil {
			return opts, in, out, err
		}
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "attr":
			opts.Attribute = *attrPtr
		case "dissolve":
			opts.Dissolve = *dissolvePtr
		case "extent":
			var e *extent.Extent
			if e, err = extent.Parse(*extentPtr); err == nil {
				opts.Extent = e
			}
		case "layer":
			opts.Layer = *layerPtr
		case "multiplier":
			opts.Multiplier = *multiplierPtr
		case "nonzero":
			opts.NonZero = *nonZeroPtr
		case "quiet":
			opts.Quiet = *quietPtr
		case "verbose":
			opts.Verbose = *verbosePtr
		case "wgs84":
			opts.WGS84 = *wgs84Ptr
		}
	})

	return opts, in, out, err
}

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {
	opts, in, out, err := ParseFlags(flagSet, os.Args[2:])
	if err != nil {
		fmt.Printf("\nERROR: %s\n\n", err)
		flagSet.Usage()
		os.Exit(1)
	}

	if err = validate.InputFile(in); err != nil {
		log.Fatal(err)
	}
	if err = validate.OutputFile(out); err != nil {
		log.Fatal(err)
	}

	if err = Convert(in, out, opts); err != nil {
		log.Fatal(err)
	}
}
