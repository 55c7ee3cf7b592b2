package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/gruppe-adler/aig-utils/internal/convert"
	"github.com/gruppe-adler/aig-utils/internal/info"
	"github.com/gruppe-adler/aig-utils/internal/preview"
)

type command struct {
	name        string
	description string
	run         func(*flag.FlagSet)
}

// commands is filled in init, help refers back to it.
var commands []command

func init() {
	commands = []command{
		{"convert", "Convert an ArcInfo Grid ASCII file to polygons (.shp, .fgb, .mvt, .geojson).", convert.Run},
		{"info", "Print header and value statistics of a grid.", info.Run},
		{"preview", "Render preview images of a grid.", preview.Run},
		{"help", "Print this message.", func(*flag.FlagSet) { usage(os.Stdout) }},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "USAGE:\n    %s <command> [flags]\n\nCOMMANDS:\n", os.Args[0])

	tw := tabwriter.NewWriter(w, 0, 4, 4, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "    %s\t%s\n", c.name, c.description)
	}
	tw.Flush()

	fmt.Fprint(w, "\nRun a command with -h to list its flags.\n")
}

// dispatch runs the command named by args[0] and returns the exit code.
func dispatch(args []string, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, "ERROR: no command given\n\n")
		usage(stderr)
		return 2
	}

	c, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "ERROR: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	c.run(flag.NewFlagSet(c.name, flag.ExitOnError))
	return 0
}

func main() {
	os.Exit(dispatch(os.Args[1:], os.Stderr))
}
