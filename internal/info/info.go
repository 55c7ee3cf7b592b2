// Package info prints what a grid file contains.
package info

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/gruppe-adler/aig-utils/internal/grid"
	"github.com/gruppe-adler/aig-utils/internal/validate"
)

// Summary holds cell statistics of a grid.
type Summary struct {
	Valid, NoData int
	Min, Max      float64 // NaN if there are no valid cells
}

// Summarize counts the cells of g and finds its value range
func Summarize(g *grid.ArcInfoGrid) Summary {
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}

	for _, row := range g.Data {
		for _, v := range row {
			if g.IsNoData(v) {
				s.NoData++
				continue
			}
			s.Valid++
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
		}
	}

	if s.Valid == 0 {
		s.Min, s.Max = math.NaN(), math.NaN()
	}
	return s
}

// Print writes header, derived corners and summary of g to w
func Print(w io.Writer, g *grid.ArcInfoGrid) {
	for _, field := range g.Fields() {
		fmt.Fprintf(w, "%-14s %s\n", field[0], field[1])
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-14s %v %v\n", "origin", g.XOrigin(), g.YOrigin())
	fmt.Fprintf(w, "%-14s %v %v\n", "lower left", g.XllCorner, g.YllCorner)
	fmt.Fprintf(w, "%-14s %v %v\n", "upper right", g.XUpperRight(), g.YUpperRight())

	s := Summarize(g)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-14s %d\n", "cells", s.Valid+s.NoData)
	fmt.Fprintf(w, "%-14s %d\n", "valid", s.Valid)
	fmt.Fprintf(w, "%-14s %d\n", "nodata", s.NoData)
	fmt.Fprintf(w, "%-14s %v\n", "min", s.Min)
	fmt.Fprintf(w, "%-14s %v\n", "max", s.Max)
}

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {
	inputPtr := flagSet.String("in", "", "Path to ArcInfo Grid ASCII file")

	flagSet.Parse(os.Args[2:])

	if *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := validate.InputFile(*inputPtr); err != nil {
		log.Fatal(err)
	}

	g, err := grid.Read(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}

	Print(os.Stdout, &g)
}
