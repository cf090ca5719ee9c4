package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/danpilch/oledmon/pkg/collectors"
)

// Sample is one collector's outcome in a probe run.
type Sample struct {
	Collector string
	Reading   collectors.Reading
	Err       error
}

// DumpReadings prints every sample with its parsed value, raw text and origin.
func DumpReadings(w io.Writer, samples []Sample) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Raw Readings Dump"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 85)))
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		debugHeader.Render("COLLECTOR    "),
		debugHeader.Render("VALUE       "),
		debugHeader.Render("RAW               "),
		debugHeader.Render("UNIT   "),
		debugHeader.Render("SOURCE    "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 85)))

	for _, s := range samples {
		if s.Err != nil {
			fmt.Fprintf(w, "  %-15s %s\n", s.Collector, debugFail.Render("error: "+s.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "  %-15s %-14.4f %-20s %-9s %s\n",
			s.Collector, s.Reading.Value, s.Reading.Raw, s.Reading.Unit, debugDim.Render(s.Reading.Source))
	}
}
