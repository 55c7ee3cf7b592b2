package utils

import (
	"fmt"
	"io"
	"time"
)

// Reporter prints the step lines of a subcommand. A disabled reporter
// prints nothing.
type Reporter struct {
	out     io.Writer
	enabled bool
	start   time.Time
	timer   time.Time
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer, enabled bool) *Reporter {
	now := time.Now()
	return &Reporter{out: out, enabled: enabled, start: now, timer: now}
}

// Step announces the beginning of a step and restarts the step timer
func (r *Reporter) Step(format string, a ...interface{}) {
	r.timer = time.Now()
	r.printf("▶️  "+format+"\n", a...)
}

// Done reports the end of the current step along with its duration
func (r *Reporter) Done(format string, a ...interface{}) {
	r.printf("✔️  %s in %s\n", fmt.Sprintf(format, a...), time.Since(r.timer).String())
}

// Info prints a single informational line
func (r *Reporter) Info(format string, a ...interface{}) {
	r.printf("ℹ️  "+format+"\n", a...)
}

// Finish prints the total runtime
func (r *Reporter) Finish() {
	r.printf("\n    🎉  Finished in %s\n", time.Since(r.start).String())
}

func (r *Reporter) printf(format string, a ...interface{}) {
	if !r.enabled {
		return
	}
	fmt.Fprintf(r.out, format, a...)
}
