package utils

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar creates a bar over max steps on stderr. A quiet bar
// discards its output but still counts.
func NewProgressBar(max int, description string, quiet bool) *progressbar.ProgressBar {
	var out io.Writer = os.Stderr
	if quiet {
		out = io.Discard
	}

	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			io.WriteString(out, "\n")
		}),
	)
}
