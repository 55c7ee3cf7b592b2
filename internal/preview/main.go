package preview

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/gruppe-adler/aig-utils/internal/grid"
	"github.com/gruppe-adler/aig-utils/internal/utils"
	"github.com/gruppe-adler/aig-utils/internal/validate"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {
	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to ArcInfo Grid ASCII file")
	modePtr := flagSet.String("mode", string(Gray), "Color mode: gray or terrainrgb")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := validate.OutputDirectory(*outputPtr); err != nil {
		log.Fatal(err)
	}
	if err := validate.InputFile(*inputPtr); err != nil {
		log.Fatal(err)
	}

	report := utils.NewReporter(os.Stdout, true)

	report.Step("Loading grid")
	g, err := grid.Read(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}
	report.Done("Loaded %dx%d grid", g.Ncols, g.Nrows)

	report.Step("Rendering %s preview", *modePtr)
	img, err := Render(&g, Mode(*modePtr))
	if err != nil {
		log.Fatal(err)
	}
	if err = saveImage(path.Join(*outputPtr, "preview.png"), img); err != nil {
		log.Fatal(err)
	}
	report.Done("Rendered preview")

	report.Step("Building resized previews")
	if err = BuildSizes(context.Background(), img, Mode(*modePtr), Sizes, *outputPtr); err != nil {
		log.Fatal(err)
	}
	report.Done("Built %d resized previews", len(Sizes))

	report.Finish()
}
